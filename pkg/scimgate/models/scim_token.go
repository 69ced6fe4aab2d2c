package models

import (
	"time"

	"gorm.io/gorm"
)

// SCIMToken is a bearer token for SCIM API access.
// The token itself is only shown once at creation; only the hash is stored.
type SCIMToken struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
	TokenHash   string         `gorm:"uniqueIndex;not null" json:"-"` // SHA-256 hash of token
	TokenPrefix string         `gorm:"not null" json:"token_prefix"`  // First 8 chars for identification
	Description string         `json:"description"`
	LastUsedAt  *time.Time     `json:"last_used_at"`
}
