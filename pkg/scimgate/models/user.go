package models

import "time"

// User represents a provisioned SCIM user record. Records are never
// physically deleted: deprovisioning flips Active to false and the row
// stays behind so a later create with the same userName reactivates it.
type User struct {
	ScimID     string    `gorm:"column:scim_id;primarykey" json:"scim_id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	ExternalID *string   `gorm:"uniqueIndex" json:"external_id,omitempty"` // identity provider correlation key
	UserName   string    `gorm:"uniqueIndex;not null" json:"user_name"`
	GivenName  *string   `json:"given_name,omitempty"`
	FamilyName *string   `json:"family_name,omitempty"`
	Email      *string   `json:"email,omitempty"` // primary address only
	Active     bool      `gorm:"default:true" json:"active"`
}
