package adminRoutes

import (
	adminController "pixbank/controllers/admin"
	"pixbank/middleware"
	"pixbank/models"
	"pixbank/store"
	adminValidator "pixbank/validators/admin"

	"github.com/gofiber/fiber/v2"
)

func SetupAdminRoutes(app *fiber.App, ctrl *adminController.Controller, st store.Store) {
	adminGroup := app.Group("/admin")
	adminGroup.Use(middleware.JWTMiddleware, middleware.RequireRoles(st, models.RoleAdmin))

	adminGroup.Get("/users", adminValidator.UserList(), ctrl.UserList)
	adminGroup.Post("/users", adminValidator.AddUser(), ctrl.AddUser)
	adminGroup.Put("/users/:id", adminValidator.UpdateUser(), ctrl.UpdateUser)
	adminGroup.Delete("/users/:id", ctrl.DeleteUser)
	adminGroup.Get("/stats", ctrl.Stats)
}
