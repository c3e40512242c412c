package accountRoutes

import (
	accountController "pixbank/controllers/account"
	"pixbank/middleware"
	accountValidator "pixbank/validators/account"

	"github.com/gofiber/fiber/v2"
)

func SetupAccountRoutes(app *fiber.App, ctrl *accountController.Controller) {
	accountGroup := app.Group("/account")

	accountGroup.Get("/balance", middleware.JWTMiddleware, ctrl.GetBalance)
	accountGroup.Post("/transactions", accountValidator.Transaction(), middleware.JWTMiddleware, ctrl.RecordTransaction)
	accountGroup.Get("/transactions", middleware.JWTMiddleware, ctrl.TransactionList)
	accountGroup.Get("/spending", middleware.JWTMiddleware, ctrl.Spending)
}
