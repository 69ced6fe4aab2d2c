package scim

import "strings"

// Attribute names recognized in filter expressions.
const (
	AttrUserName   = "userName"
	AttrExternalID = "externalId"
)

// Filter is the parse result of a SCIM filter expression. Recognized
// is false for anything this server does not support; callers treat
// that as "no filter" and fall back to the default listing.
type Filter struct {
	Recognized bool
	Attribute  string
	Value      string
}

// ParseFilter interprets the constrained equality grammar
// `userName eq "value"` and `externalId eq "value"`. Parsing is total:
// any other attribute, operator or malformed expression comes back
// unrecognized, never as an error. The `eq` token is case-sensitive
// and only its first occurrence is honored, so compound and/or
// expressions are not interpreted as such.
func ParseFilter(filter string) Filter {
	var attr string
	switch {
	case strings.Contains(filter, AttrExternalID+" eq"):
		attr = AttrExternalID
	case strings.Contains(filter, AttrUserName+" eq"):
		attr = AttrUserName
	default:
		return Filter{}
	}

	value := filter[strings.Index(filter, "eq")+len("eq"):]
	value = strings.TrimSpace(value)
	if len(value) >= 2 && strings.HasPrefix(value, `"`) && strings.HasSuffix(value, `"`) {
		value = value[1 : len(value)-1]
	}

	return Filter{Recognized: true, Attribute: attr, Value: value}
}
