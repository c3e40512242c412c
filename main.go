package main

import (
	"log"

	"pixbank/config"
	accountController "pixbank/controllers/account"
	adminController "pixbank/controllers/admin"
	authController "pixbank/controllers/auth"
	loanController "pixbank/controllers/loan"
	accountRoutes "pixbank/routers/accountRoutes"
	adminRoutes "pixbank/routers/adminRoutes"
	authRoutes "pixbank/routers/authRoutes"
	loanRoutes "pixbank/routers/loanRoutes"
	"pixbank/store"
	"pixbank/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func main() {
	config.LoadConfig()

	var st store.Store
	if config.AppConfig.Store == "db" {
		gormStore, err := store.Open(config.AppConfig)
		if err != nil {
			log.Fatalf("Failed to open store: %v", err)
		}
		st = gormStore
	} else {
		memStore := store.NewMemoryStore()
		memStore.SeedDemo()
		st = memStore
	}

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE",   // Allowed HTTP methods
		AllowHeaders: "Content-Type,Authorization", // Allowed headers
	}))

	// Enable the built-in logger middleware to log all requests
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	authRoutes.SetupAuthRoutes(app, authController.New(st))
	accountRoutes.SetupAccountRoutes(app, accountController.New(st))
	loanRoutes.SetupLoanRoutes(app, loanController.New(st), st)
	adminRoutes.SetupAdminRoutes(app, adminController.New(st), st)

	scheduler := utils.StartResetPurgeScheduler(st)
	defer scheduler.Stop()

	log.Printf("Server is running on port %s", config.AppConfig.Port)
	log.Fatal(app.Listen(":" + config.AppConfig.Port))
}
