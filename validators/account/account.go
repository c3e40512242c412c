package accountValidator

import (
	"pixbank/middleware"
	"pixbank/models"

	"github.com/gofiber/fiber/v2"
)

// Transaction validator middleware. The amount always arrives positive; the
// controller applies the sign convention for the kind.
func Transaction() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Kind        string  `json:"kind"`
			Amount      float64 `json:"amount"`
			Description string  `json:"description"`
			Category    string  `json:"category"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		// Validate Kind
		if !models.ValidTransactionKind(reqData.Kind) {
			errors["kind"] = "Kind must be one of PIX, TRANSFER, PAYMENT, DEPOSIT!"
		}

		// Validate Amount
		if reqData.Amount <= 0 {
			errors["amount"] = "Amount must be greater than 0!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedTransaction", reqData)
		return c.Next()
	}
}
