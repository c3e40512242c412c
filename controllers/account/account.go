package accountController

import (
	"log"
	"time"

	"pixbank/middleware"
	"pixbank/models"
	"pixbank/store"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Controller struct {
	store store.Store
}

func New(st store.Store) *Controller {
	return &Controller{store: st}
}

// GetBalance returns the user's current balance and credit limit
func (ctrl *Controller) GetBalance(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)

	user, err := ctrl.store.UserByID(userId)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Access Denied!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Balance fetched!", fiber.Map{
		"balance":     user.Balance,
		"creditLimit": user.CreditLimit,
		"currency":    "BRL",
	})
}

// RecordTransaction appends a ledger entry and applies it to the balance. The
// amount arrives positive; debit kinds (pix, transfer, payment) are stored
// negative, deposits positive.
func (ctrl *Controller) RecordTransaction(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)

	if _, err := ctrl.store.UserByID(userId); err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Access Denied!", nil)
	}

	reqData, ok := c.Locals("validatedTransaction").(*struct {
		Kind        string  `json:"kind"`
		Amount      float64 `json:"amount"`
		Description string  `json:"description"`
		Category    string  `json:"category"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	kind := models.TransactionKind(reqData.Kind)
	signedAmount := reqData.Amount
	if kind.IsDebit() {
		signedAmount = -reqData.Amount
	}

	description := reqData.Description
	if description == "" {
		description = defaultDescription(kind)
	}
	category := reqData.Category
	if category == "" {
		category = defaultCategory(kind)
	}

	transaction := models.Transaction{
		Reference:       uuid.NewString(),
		Kind:            kind,
		Amount:          signedAmount,
		Description:     description,
		Category:        category,
		TransactionDate: time.Now(),
	}

	if err := ctrl.store.RecordTransaction(userId, &transaction); err != nil {
		if err == store.ErrInsufficientBalance {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Insufficient balance!", nil)
		}
		log.Printf("Error recording transaction: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to record transaction!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Transaction recorded!", fiber.Map{
		"transactionId": transaction.ID,
		"reference":     transaction.Reference,
		"kind":          transaction.Kind,
		"amount":        transaction.Amount,
		"balanceBefore": transaction.BalanceBefore,
		"balanceAfter":  transaction.BalanceAfter,
	})
}

// TransactionList returns the user's transaction history, most recent first
func (ctrl *Controller) TransactionList(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)

	user, err := ctrl.store.UserByID(userId)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Access Denied!", nil)
	}

	// Parse query params
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 10)
	kind := c.Query("kind") // PIX, TRANSFER, PAYMENT, DEPOSIT

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	transactions, total, err := ctrl.store.Transactions(userId, page, limit, kind)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch history!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Transaction history fetched!", fiber.Map{
		"transactions":   transactions,
		"currentBalance": user.Balance,
		"pagination": fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}

// Spending returns the sum of debits grouped by category
func (ctrl *Controller) Spending(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)

	if _, err := ctrl.store.UserByID(userId); err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Access Denied!", nil)
	}

	spending, err := ctrl.store.SpendingByCategory(userId)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch spending!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Spending by category fetched!", fiber.Map{
		"spending": spending,
	})
}

func defaultDescription(kind models.TransactionKind) string {
	switch kind {
	case models.TransactionKindPix:
		return "Pix"
	case models.TransactionKindPayment:
		return "Pagamento"
	case models.TransactionKindDeposit:
		return "Depósito"
	default:
		return "Transferência"
	}
}

func defaultCategory(kind models.TransactionKind) string {
	switch kind {
	case models.TransactionKindPayment:
		return "Contas"
	case models.TransactionKindDeposit:
		return "Recebimento"
	default:
		return "Transferência"
	}
}
