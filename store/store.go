// Package store holds the ledger state: users, their transaction history and
// loan requests. Two implementations exist, an in-memory demo store seeded with
// mock data and a gorm-backed persistent store. Both are handed to the
// controllers explicitly instead of living in ambient package state.
package store

import (
	"time"

	"pixbank/models"
)

type Store interface {
	// Users
	CreateUser(user *models.User) error
	UserByID(id uint) (*models.User, error)
	UserByEmail(email string) (*models.User, error)
	UserByCPF(cpf string) (*models.User, error)
	SaveUser(user *models.User) error
	DeleteUser(id uint) error
	Users(page, limit int, role string) ([]models.User, int64, error)
	CountByRole() (map[models.UserRole]int64, error)

	// Ledger. RecordTransaction applies the signed amount to the owner's
	// balance and appends the entry in one atomic step; it fails with
	// ErrInsufficientBalance when a debit would overdraw the account and in
	// that case leaves no trace.
	RecordTransaction(userID uint, txn *models.Transaction) error
	Transactions(userID uint, page, limit int, kind string) ([]models.Transaction, int64, error)
	SpendingByCategory(userID uint) (map[string]float64, error)

	// Loans. DecideLoan flips a PENDING loan to the given terminal status and,
	// on approval, credits the owner's balance and records the matching ledger
	// entry atomically with the status change. A loan that already left
	// PENDING yields ErrLoanAlreadyDecided with no state change.
	CreateLoan(loan *models.Loan) error
	LoanByID(id uint) (*models.Loan, error)
	LoansByUser(userID uint) ([]models.Loan, error)
	LoansByStatus(statuses []models.LoanStatus, page, limit int) ([]models.Loan, int64, error)
	LoanStats() (map[models.LoanStatus]int64, error)
	DecideLoan(loanID uint, status models.LoanStatus, decidedBy uint) (*models.Loan, error)

	// Password resets
	CreatePasswordReset(reset *models.PasswordReset) error
	ActivePasswordReset(email, code string) (*models.PasswordReset, error)
	MarkPasswordResetUsed(id uint) error
	PurgeExpiredPasswordResets(now time.Time) (int64, error)

	// Login tracking
	RecordLogin(entry *models.LoginTracking) error
	LoginHistory(userID uint, page, limit int) ([]models.LoginTracking, int64, error)
}
