package authRoutes

import (
	authController "pixbank/controllers/auth"
	"pixbank/middleware"
	authValidator "pixbank/validators/auth"

	"github.com/gofiber/fiber/v2"
)

func SetupAuthRoutes(app *fiber.App, ctrl *authController.Controller) {
	authGroup := app.Group("/auth")

	authGroup.Post("/signup", authValidator.Signup(), ctrl.Signup)
	authGroup.Post("/login", authValidator.Login(), ctrl.Login)
	authGroup.Get("/login/history", authValidator.LoginHistoryList(), middleware.JWTMiddleware, ctrl.LoginHistoryList)
	authGroup.Post("/forgot/password", authValidator.ForgotPassword(), ctrl.ForgotPassword)
	authGroup.Patch("/reset/password", authValidator.ResetPassword(), ctrl.ResetPassword)
	authGroup.Put("/change/password", authValidator.ChangePassword(), middleware.JWTMiddleware, ctrl.ChangePassword)
	authGroup.Get("/me", middleware.JWTMiddleware, ctrl.Me)
}
