package adminValidator

import (
	"regexp"
	"strings"

	"pixbank/middleware"
	"pixbank/models"

	"github.com/gofiber/fiber/v2"
)

func isValidEmail(email string) bool {
	re := regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	return re.MatchString(email)
}

func isValidCPF(cpf string) bool {
	re := regexp.MustCompile(`^(\d{3}\.\d{3}\.\d{3}-\d{2}|\d{11})$`)
	return re.MatchString(cpf)
}

// UserList validator middleware
func UserList() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Page  *int `json:"page"`
			Limit *int `json:"limit"`
		})

		if err := c.QueryParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		// Validate Page
		if reqData.Page == nil || *reqData.Page < 1 {
			errors["page"] = "Page must be greater than 0!"
		}

		// Validate Limit
		if reqData.Limit == nil || *reqData.Limit < 1 {
			errors["limit"] = "Limit must be greater than 0!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedUserList", reqData)
		return c.Next()
	}
}

// AddUser validator middleware
func AddUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Name        string  `json:"name"`
			Email       string  `json:"email"`
			CPF         string  `json:"cpf"`
			Password    string  `json:"password"`
			Role        string  `json:"role"`
			Balance     float64 `json:"balance"`
			CreditLimit float64 `json:"creditLimit"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if len(strings.TrimSpace(reqData.Name)) < 3 {
			errors["name"] = "Name must be at least 3 characters long!"
		}
		if reqData.Email == "" || !isValidEmail(reqData.Email) {
			errors["email"] = "Invalid email!"
		}
		if reqData.CPF == "" || !isValidCPF(reqData.CPF) {
			errors["cpf"] = "Invalid CPF!"
		}
		if len(strings.TrimSpace(reqData.Password)) < 6 {
			errors["password"] = "Password must be at least 6 characters long!"
		}
		if !models.ValidRole(reqData.Role) {
			errors["role"] = "Role must be one of CLIENT, AGENT, ADMIN!"
		}
		if reqData.Balance < 0 {
			errors["balance"] = "Balance cannot be negative!"
		}
		if reqData.CreditLimit < 0 {
			errors["creditLimit"] = "Credit limit cannot be negative!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedAddUser", reqData)
		return c.Next()
	}
}

// UpdateUser validator middleware
func UpdateUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Name        *string  `json:"name"`
			CPF         *string  `json:"cpf"`
			Balance     *float64 `json:"balance"`
			CreditLimit *float64 `json:"creditLimit"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.Name != nil && len(strings.TrimSpace(*reqData.Name)) < 3 {
			errors["name"] = "Name must be at least 3 characters long!"
		}
		if reqData.CPF != nil && !isValidCPF(*reqData.CPF) {
			errors["cpf"] = "Invalid CPF!"
		}
		if reqData.Balance != nil && *reqData.Balance < 0 {
			errors["balance"] = "Balance cannot be negative!"
		}
		if reqData.CreditLimit != nil && *reqData.CreditLimit < 0 {
			errors["creditLimit"] = "Credit limit cannot be negative!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedUpdateUser", reqData)
		return c.Next()
	}
}
