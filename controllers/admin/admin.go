package adminController

import (
	"log"

	"pixbank/config"
	"pixbank/middleware"
	"pixbank/models"
	"pixbank/store"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

type Controller struct {
	store store.Store
}

func New(st store.Store) *Controller {
	return &Controller{store: st}
}

// UserList returns the user roster, paginated, optionally filtered by role
func (ctrl *Controller) UserList(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedUserList").(*struct {
		Page  *int `json:"page"`
		Limit *int `json:"limit"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	role := c.Query("role")

	users, total, err := ctrl.store.Users(*reqData.Page, *reqData.Limit, role)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch user list!", nil)
	}

	for i := range users {
		users[i].Sanitize()
	}

	response := map[string]interface{}{
		"users": users,
		"pagination": map[string]interface{}{
			"total": total,
			"page":  *reqData.Page,
			"limit": *reqData.Limit,
		},
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "User List.", response)
}

// AddUser registers a user with any role and an optional starting balance
func (ctrl *Controller) AddUser(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedAddUser").(*struct {
		Name        string  `json:"name"`
		Email       string  `json:"email"`
		CPF         string  `json:"cpf"`
		Password    string  `json:"password"`
		Role        string  `json:"role"`
		Balance     float64 `json:"balance"`
		CreditLimit float64 `json:"creditLimit"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	// Check if email already exists
	if _, err := ctrl.store.UserByEmail(reqData.Email); err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Email is already registered!", nil)
	}

	// Check if CPF already exists
	if _, err := ctrl.store.UserByCPF(reqData.CPF); err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "CPF is already registered!", nil)
	}

	// Hash Password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(reqData.Password), config.AppConfig.SaltRound)
	if err != nil {
		log.Printf("Error hashing password: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}

	newUser := models.User{
		Name:        reqData.Name,
		Email:       reqData.Email,
		CPF:         reqData.CPF,
		Role:        models.UserRole(reqData.Role),
		Password:    string(hashedPassword),
		Balance:     reqData.Balance,
		CreditLimit: reqData.CreditLimit,
	}

	if err := ctrl.store.CreateUser(&newUser); err != nil {
		log.Printf("Error saving user to store: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to add user!", nil)
	}

	newUser.Sanitize()

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "User added successfully.", newUser)
}

// UpdateUser edits roster fields. Role is fixed at creation and not editable.
func (ctrl *Controller) UpdateUser(c *fiber.Ctx) error {
	targetId, err := c.ParamsInt("id")
	if err != nil || targetId < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid user id!", nil)
	}

	reqData, ok := c.Locals("validatedUpdateUser").(*struct {
		Name        *string  `json:"name"`
		CPF         *string  `json:"cpf"`
		Balance     *float64 `json:"balance"`
		CreditLimit *float64 `json:"creditLimit"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	user, err := ctrl.store.UserByID(uint(targetId))
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	if reqData.Name != nil {
		user.Name = *reqData.Name
	}
	if reqData.CPF != nil {
		user.CPF = *reqData.CPF
	}
	if reqData.Balance != nil {
		user.Balance = *reqData.Balance
	}
	if reqData.CreditLimit != nil {
		user.CreditLimit = *reqData.CreditLimit
	}

	if err := ctrl.store.SaveUser(user); err != nil {
		log.Printf("Error updating user %d: %v", targetId, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update user!", nil)
	}

	user.Sanitize()

	return middleware.JsonResponse(c, fiber.StatusOK, true, "User updated successfully.", user)
}

// DeleteUser soft-deletes a roster entry. Deleting the authenticated admin is
// rejected so the roster always keeps at least its current administrator.
func (ctrl *Controller) DeleteUser(c *fiber.Ctx) error {
	admin, ok := c.Locals("currentUser").(*models.User)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	targetId, err := c.ParamsInt("id")
	if err != nil || targetId < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid user id!", nil)
	}

	if uint(targetId) == admin.ID {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "You cannot delete your own account!", nil)
	}

	if err := ctrl.store.DeleteUser(uint(targetId)); err != nil {
		if err == store.ErrUserNotFound {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
		}
		log.Printf("Error deleting user %d: %v", targetId, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete user!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "User removed successfully.", nil)
}

// Stats returns roster totals by role
func (ctrl *Controller) Stats(c *fiber.Ctx) error {
	counts, err := ctrl.store.CountByRole()
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch stats!", nil)
	}

	var total int64
	for _, count := range counts {
		total += count
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "User stats fetched!", fiber.Map{
		"total":   total,
		"clients": counts[models.RoleClient],
		"agents":  counts[models.RoleAgent],
		"admins":  counts[models.RoleAdmin],
	})
}
