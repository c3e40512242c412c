package loanValidator

import (
	"pixbank/middleware"

	"github.com/gofiber/fiber/v2"
)

// Loan terms offered by the product, in months.
var allowedTerms = map[int]bool{12: true, 24: true, 36: true, 48: true}

// RequestLoan validator middleware
func RequestLoan() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Amount float64 `json:"amount"`
			Term   int     `json:"term"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		// Validate Amount
		if reqData.Amount <= 0 {
			errors["amount"] = "Amount must be greater than 0!"
		}

		// Validate Term
		if !allowedTerms[reqData.Term] {
			errors["term"] = "Term must be 12, 24, 36 or 48 months!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedLoanRequest", reqData)
		return c.Next()
	}
}

// DecideLoan validator middleware
func DecideLoan() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Decision string `json:"decision"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.Decision != "approved" && reqData.Decision != "rejected" {
			errors["decision"] = "Decision must be either approved or rejected!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedLoanDecision", reqData)
		return c.Next()
	}
}
