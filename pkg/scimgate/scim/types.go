package scim

// SCIM 2.0 Schema URIs
const (
	SchemaUser         = "urn:ietf:params:scim:schemas:core:2.0:User"
	SchemaListResponse = "urn:ietf:params:scim:api:messages:2.0:ListResponse"
	SchemaError        = "urn:ietf:params:scim:api:messages:2.0:Error"
	SchemaPatchOp      = "urn:ietf:params:scim:api:messages:2.0:PatchOp"
)

// Name represents a user's name substructure as submitted by the
// identity provider. Pointer fields distinguish "absent" from "empty".
type Name struct {
	Formatted  string  `json:"formatted,omitempty"`
	GivenName  *string `json:"givenName"`
	FamilyName *string `json:"familyName"`
}

// Email represents a user's email
type Email struct {
	Value   string `json:"value"`
	Type    string `json:"type,omitempty"`
	Primary bool   `json:"primary,omitempty"`
}

// UserInput is the wire-facing shape a client submits on create and
// update. It is never persisted directly; the mapper folds it into a
// models.User.
type UserInput struct {
	Schemas    []string `json:"schemas,omitempty"`
	ExternalID *string  `json:"externalId"`
	UserName   string   `json:"userName"`
	Name       *Name    `json:"name"`
	Emails     []Email  `json:"emails"`
	Active     *bool    `json:"active"`
}

// ErrorResponse represents a SCIM error response
type ErrorResponse struct {
	Schemas  []string `json:"schemas"`
	Detail   string   `json:"detail"`
	Status   string   `json:"status"`
	ScimType string   `json:"scimType,omitempty"`
}

// PatchOp represents a SCIM PATCH request body
type PatchOp struct {
	Schemas    []string         `json:"schemas"`
	Operations []PatchOperation `json:"Operations"`
}

// PatchOperation represents a single operation in a PATCH request
type PatchOperation struct {
	Op    string      `json:"op"`
	Path  string      `json:"path,omitempty"`
	Value interface{} `json:"value,omitempty"`
}
