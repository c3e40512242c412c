package models

import (
	"time"

	"gorm.io/gorm"
)

// UserRole is the closed set of dashboard roles. Role is fixed at account creation.
type UserRole string

const (
	RoleClient UserRole = "CLIENT"
	RoleAgent  UserRole = "AGENT"
	RoleAdmin  UserRole = "ADMIN"
)

// ValidRole reports whether the given string is one of the known roles.
func ValidRole(role string) bool {
	switch UserRole(role) {
	case RoleClient, RoleAgent, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	gorm.Model
	Name                string   `json:"name" gorm:"default:''"`
	Email               string   `json:"email" gorm:"unique;not null"`
	CPF                 string   `json:"cpf" gorm:"size:14"`
	Role                UserRole `json:"role" gorm:"type:varchar(20);default:'CLIENT'"`
	Password            string   `json:"password,omitempty" gorm:"not null"`
	Balance             float64  `json:"balance" gorm:"default:0"`
	CreditLimit         float64  `json:"creditLimit" gorm:"default:0"`
	LastLogin           time.Time
	FailedLoginAttempts int        `gorm:"default:0"`
	LastFailedLogin     *time.Time `json:"last_failed_login"`
	IsBlocked           bool       `gorm:"default:false"`
	BlockedUntil        *time.Time `json:"blocked_until"`
	IsDeleted           bool       `gorm:"default:false"`
}

// Sanitize clears fields that must never leave the server.
func (u *User) Sanitize() {
	u.Password = ""
}
