package store

import "errors"

var (
	// ErrUserNotFound indicates that no active user matches the lookup.
	ErrUserNotFound = errors.New("user not found")
	// ErrLoanNotFound indicates that the loan is not found.
	ErrLoanNotFound = errors.New("loan not found")
	// ErrResetNotFound indicates that no usable password reset code matches.
	ErrResetNotFound = errors.New("password reset code not found")
	// ErrInsufficientBalance indicates that a debit would overdraw the account.
	ErrInsufficientBalance = errors.New("insufficient balance")
	// ErrLoanAlreadyDecided indicates that the loan already left PENDING.
	ErrLoanAlreadyDecided = errors.New("loan already decided")
)
