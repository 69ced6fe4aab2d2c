package scim

import "github.com/tkoster/scimgate/pkg/scimgate/models"

// ToRecord builds a brand-new user record from a SCIM input. The
// scim_id is assigned by the provisioning engine, not here.
func ToRecord(in *UserInput) *models.User {
	rec := &models.User{
		UserName:   in.UserName,
		ExternalID: in.ExternalID,
		Active:     true,
	}
	if in.Active != nil {
		rec.Active = *in.Active
	}
	if in.Name != nil {
		rec.GivenName = in.Name.GivenName
		rec.FamilyName = in.Name.FamilyName
	}
	if len(in.Emails) > 0 {
		email := in.Emails[0].Value
		rec.Email = &email
	}
	return rec
}

// MergeInto applies a SCIM input to an existing record in place. Name
// and email are sparse-merged: an absent name object or empty email
// list leaves the stored values alone, and active only changes when
// the input carries a value. ExternalID is the exception and is
// overwritten unconditionally, including with null - the identity
// provider owns that attribute outright.
func MergeInto(in *UserInput, rec *models.User) {
	if in.Name != nil {
		rec.GivenName = in.Name.GivenName
		rec.FamilyName = in.Name.FamilyName
	}
	if len(in.Emails) > 0 {
		email := in.Emails[0].Value
		rec.Email = &email
	}
	if in.Active != nil {
		rec.Active = *in.Active
	}
	rec.ExternalID = in.ExternalID
}
