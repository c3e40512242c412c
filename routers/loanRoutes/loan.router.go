package loanRoutes

import (
	loanController "pixbank/controllers/loan"
	"pixbank/middleware"
	"pixbank/models"
	"pixbank/store"
	loanValidator "pixbank/validators/loan"

	"github.com/gofiber/fiber/v2"
)

func SetupLoanRoutes(app *fiber.App, ctrl *loanController.Controller, st store.Store) {
	loanGroup := app.Group("/loans")

	// Client routes
	loanGroup.Post("/", loanValidator.RequestLoan(), middleware.JWTMiddleware, middleware.RequireRoles(st, models.RoleClient), ctrl.RequestLoan)
	loanGroup.Get("/", middleware.JWTMiddleware, ctrl.MyLoans)

	// Agent/Admin routes
	loanGroup.Get("/pending", middleware.JWTMiddleware, middleware.RequireRoles(st, models.RoleAgent, models.RoleAdmin), ctrl.PendingLoans)
	loanGroup.Get("/processed", middleware.JWTMiddleware, middleware.RequireRoles(st, models.RoleAgent, models.RoleAdmin), ctrl.ProcessedLoans)
	loanGroup.Get("/stats", middleware.JWTMiddleware, middleware.RequireRoles(st, models.RoleAgent, models.RoleAdmin), ctrl.LoanStats)
	loanGroup.Patch("/:id/decision", loanValidator.DecideLoan(), middleware.JWTMiddleware, middleware.RequireRoles(st, models.RoleAgent, models.RoleAdmin), ctrl.DecideLoan)
}
