package loanController

import (
	"log"
	"time"

	"pixbank/middleware"
	"pixbank/models"
	"pixbank/store"
	"pixbank/utils"

	"github.com/gofiber/fiber/v2"
)

type Controller struct {
	store store.Store
}

func New(st store.Store) *Controller {
	return &Controller{store: st}
}

// RequestLoan creates a PENDING loan for the authenticated client. No balance
// effect until an agent or admin approves it.
func (ctrl *Controller) RequestLoan(c *fiber.Ctx) error {
	user, ok := c.Locals("currentUser").(*models.User)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedLoanRequest").(*struct {
		Amount float64 `json:"amount"`
		Term   int     `json:"term"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	loan := models.Loan{
		UserID:      user.ID,
		ClientName:  user.Name,
		Amount:      reqData.Amount,
		Term:        reqData.Term,
		Status:      models.LoanStatusPending,
		RequestDate: time.Now(),
	}

	if err := ctrl.store.CreateLoan(&loan); err != nil {
		log.Printf("Error saving loan request: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to request loan!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Loan request submitted.", loan)
}

// MyLoans lists the authenticated user's loan requests, newest first
func (ctrl *Controller) MyLoans(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)

	if _, err := ctrl.store.UserByID(userId); err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Access Denied!", nil)
	}

	loans, err := ctrl.store.LoansByUser(userId)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch loans!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Loans fetched!", fiber.Map{
		"loans": loans,
	})
}

// PendingLoans lists loans waiting for a decision (agent/admin)
func (ctrl *Controller) PendingLoans(c *fiber.Ctx) error {
	return ctrl.loansByStatus(c, []models.LoanStatus{models.LoanStatusPending}, "Pending loans fetched!")
}

// ProcessedLoans lists loans that already received a decision (agent/admin)
func (ctrl *Controller) ProcessedLoans(c *fiber.Ctx) error {
	statuses := []models.LoanStatus{models.LoanStatusApproved, models.LoanStatusRejected}
	return ctrl.loansByStatus(c, statuses, "Processed loans fetched!")
}

func (ctrl *Controller) loansByStatus(c *fiber.Ctx, statuses []models.LoanStatus, message string) error {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 10)

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	loans, total, err := ctrl.store.LoansByStatus(statuses, page, limit)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch loans!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, message, fiber.Map{
		"loans": loans,
		"pagination": fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}

// LoanStats returns pending/approved/rejected totals (agent/admin)
func (ctrl *Controller) LoanStats(c *fiber.Ctx) error {
	stats, err := ctrl.store.LoanStats()
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch loan stats!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Loan stats fetched!", fiber.Map{
		"pending":  stats[models.LoanStatusPending],
		"approved": stats[models.LoanStatusApproved],
		"rejected": stats[models.LoanStatusRejected],
	})
}

// DecideLoan applies a terminal decision to a pending loan. Approval credits
// the owner's balance atomically with the status change.
func (ctrl *Controller) DecideLoan(c *fiber.Ctx) error {
	decider, ok := c.Locals("currentUser").(*models.User)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	loanId, err := c.ParamsInt("id")
	if err != nil || loanId < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid loan id!", nil)
	}

	reqData, ok := c.Locals("validatedLoanDecision").(*struct {
		Decision string `json:"decision"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	status := models.LoanStatusRejected
	if reqData.Decision == "approved" {
		status = models.LoanStatusApproved
	}

	loan, err := ctrl.store.DecideLoan(uint(loanId), status, decider.ID)
	if err != nil {
		switch err {
		case store.ErrLoanNotFound:
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Loan not found!", nil)
		case store.ErrLoanAlreadyDecided:
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "Loan has already been decided!", nil)
		default:
			log.Printf("Error deciding loan %d: %v", loanId, err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to decide loan!", nil)
		}
	}

	// Notify the owner and the webhook receiver off the request path.
	go func(loan models.Loan) {
		owner, err := ctrl.store.UserByID(loan.UserID)
		if err != nil {
			log.Printf("Error loading loan owner %d: %v", loan.UserID, err)
			return
		}
		utils.SendLoanDecisionEmail(owner.Email, owner.Name, loan.Amount, loan.Status)
		utils.NotifyLoanDecision(&loan)
	}(*loan)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Loan decision applied.", loan)
}
