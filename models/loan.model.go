package models

import (
	"time"

	"gorm.io/gorm"
)

// LoanStatus defines the status of a loan request
type LoanStatus string

const (
	LoanStatusPending  LoanStatus = "PENDING"
	LoanStatusApproved LoanStatus = "APPROVED"
	LoanStatusRejected LoanStatus = "REJECTED"
)

// Terminal reports whether no further decision may be applied.
func (s LoanStatus) Terminal() bool {
	return s == LoanStatusApproved || s == LoanStatusRejected
}

// Loan is a client credit request. Status moves one-way from PENDING to either
// APPROVED or REJECTED; approval credits the owner's balance exactly once.
type Loan struct {
	gorm.Model
	UserID      uint       `json:"userId" gorm:"not null;index"`
	ClientName  string     `json:"clientName" gorm:"size:100"`
	Amount      float64    `json:"amount" gorm:"not null"`
	Term        int        `json:"term" gorm:"not null"` // months
	Status      LoanStatus `json:"status" gorm:"type:varchar(20);default:'PENDING';index"`
	RequestDate time.Time  `json:"requestDate" gorm:"not null"`
	DecidedBy   uint       `json:"decidedBy" gorm:"default:0"`
	DecidedAt   *time.Time `json:"decidedAt"`
	IsDeleted   bool       `gorm:"default:false"`
}
