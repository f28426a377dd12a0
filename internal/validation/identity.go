package validation

import (
	"regexp"
	"strings"
)

// IdentityKind is what a free-form identity input looks like.
type IdentityKind int

const (
	IdentityUnknown IdentityKind = iota
	IdentityEmail
	IdentityPhone
)

func (k IdentityKind) String() string {
	switch k {
	case IdentityEmail:
		return "email"
	case IdentityPhone:
		return "phone"
	default:
		return "unknown"
	}
}

var phoneLikePattern = regexp.MustCompile(`^[\d\s\-+()]+$`)

const MsgEmailOrPhoneInvalid = "Please enter a valid email or phone number"

// ClassifyIdentity is the only place that sniffs an identity by its content.
func ClassifyIdentity(input string) IdentityKind {
	switch {
	case strings.Contains(input, "@"):
		return IdentityEmail
	case phoneLikePattern.MatchString(input):
		return IdentityPhone
	default:
		return IdentityUnknown
	}
}

// ValidateEmailOrUsername checks a login identity.
func ValidateEmailOrUsername(input string) Result {
	if ClassifyIdentity(input) == IdentityEmail {
		return ValidateEmail(input)
	}
	return ValidateUsername(input)
}

// ValidateEmailOrPhone checks a registration or recovery identity.
func ValidateEmailOrPhone(input string) Result {
	switch ClassifyIdentity(input) {
	case IdentityEmail:
		return ValidateEmail(input)
	case IdentityPhone:
		return ValidatePhoneNumber(input)
	default:
		return invalid(MsgEmailOrPhoneInvalid)
	}
}
