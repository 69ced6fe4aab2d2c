package scim

import "github.com/tkoster/scimgate/pkg/scimgate/models"

const userLocationPrefix = "/scim/v2/Users/"

// ResourceName is the name object of a rendered user resource. Both
// members are always present, as null when unset.
type ResourceName struct {
	GivenName  *string `json:"givenName"`
	FamilyName *string `json:"familyName"`
}

// Meta contains resource metadata
type Meta struct {
	ResourceType string `json:"resourceType"`
	Location     string `json:"location"`
}

// UserResource is the canonical rendering of a persisted user record.
// Identity providers depend on the key order and the exact schema URI
// strings, so the field order here is part of the wire contract.
type UserResource struct {
	Schemas    []string     `json:"schemas"`
	ID         string       `json:"id"`
	ExternalID *string      `json:"externalId"`
	UserName   string       `json:"userName"`
	Active     bool         `json:"active"`
	Name       ResourceName `json:"name"`
	Emails     []Email      `json:"emails,omitempty"`
	Meta       Meta         `json:"meta"`
}

// UserResourceFrom renders a persisted record into the canonical SCIM
// user document. Emails appear only when the record has one.
func UserResourceFrom(u *models.User) UserResource {
	res := UserResource{
		Schemas:    []string{SchemaUser},
		ID:         u.ScimID,
		ExternalID: u.ExternalID,
		UserName:   u.UserName,
		Active:     u.Active,
		Name: ResourceName{
			GivenName:  u.GivenName,
			FamilyName: u.FamilyName,
		},
		Meta: Meta{
			ResourceType: "User",
			Location:     userLocationPrefix + u.ScimID,
		},
	}
	if u.Email != nil {
		res.Emails = []Email{{Value: *u.Email, Primary: true}}
	}
	return res
}

// ListResponse represents a SCIM list response
type ListResponse struct {
	Schemas      []string       `json:"schemas"`
	TotalResults int            `json:"totalResults"`
	Resources    []UserResource `json:"Resources"`
}

// NewListResponse wraps records in the SCIM list envelope, preserving
// the order they were returned in.
func NewListResponse(users []*models.User) ListResponse {
	resources := make([]UserResource, len(users))
	for i, u := range users {
		resources[i] = UserResourceFrom(u)
	}
	return ListResponse{
		Schemas:      []string{SchemaListResponse},
		TotalResults: len(resources),
		Resources:    resources,
	}
}
