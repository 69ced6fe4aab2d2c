package models

import (
	"time"

	"gorm.io/gorm"
)

// OperatorRole represents an operator's role
type OperatorRole string

const (
	OperatorRoleAdmin OperatorRole = "admin"
	OperatorRoleUser  OperatorRole = "user"
)

// Operator is a human account that manages the provisioning endpoint
// (SCIM token lifecycle). Operators are not SCIM resources and are
// never visible to the identity provider.
type Operator struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
	Email        string         `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string         `json:"-"`
	Name         string         `gorm:"not null" json:"name"`
	Role         OperatorRole   `gorm:"type:varchar(20);default:'user'" json:"role"`
}
