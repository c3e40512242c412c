package models

import (
	"time"

	"gorm.io/gorm"
)

// TransactionKind defines the type of ledger transaction
type TransactionKind string

const (
	TransactionKindPix      TransactionKind = "PIX"
	TransactionKindTransfer TransactionKind = "TRANSFER"
	TransactionKindPayment  TransactionKind = "PAYMENT"
	TransactionKindDeposit  TransactionKind = "DEPOSIT"
)

// IsDebit reports whether the kind debits the account. Deposits are the only credit kind.
func (k TransactionKind) IsDebit() bool {
	return k != TransactionKindDeposit
}

// ValidTransactionKind reports whether the given string is one of the known kinds.
func ValidTransactionKind(kind string) bool {
	switch TransactionKind(kind) {
	case TransactionKindPix, TransactionKindTransfer, TransactionKindPayment, TransactionKindDeposit:
		return true
	}
	return false
}

// Transaction is one append-only ledger entry. Amount is signed: negative for
// debits, positive for deposits. Rows are never updated or deleted.
type Transaction struct {
	gorm.Model
	UserID          uint            `json:"userId" gorm:"not null;index"`
	Reference       string          `json:"reference" gorm:"size:36;index"`
	Kind            TransactionKind `json:"kind" gorm:"type:varchar(20);not null"`
	Amount          float64         `json:"amount" gorm:"not null"`
	Description     string          `json:"description" gorm:"type:text"`
	Category        string          `json:"category" gorm:"size:100"`
	BalanceBefore   float64         `json:"balanceBefore" gorm:"not null"`
	BalanceAfter    float64         `json:"balanceAfter" gorm:"not null"`
	TransactionDate time.Time       `json:"transactionDate" gorm:"not null;index"`
	IsDeleted       bool            `gorm:"default:false"`
}
