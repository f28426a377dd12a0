package validation

import (
	"regexp"
	"strings"
)

const maxEmailLength = 254

var emailPattern = regexp.MustCompile("^[a-zA-Z0-9.!#$%&'*+/=?^_`{|}~-]+@[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(?:\\.[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)*$")

const (
	MsgEmailRequired    = "Email is required"
	MsgEmailOneAt       = "Email must contain exactly one @ symbol"
	MsgEmailNoDomainDot = "Email must contain a domain (e.g. .com)"
	MsgEmailDoubleDot   = "Email cannot contain consecutive dots"
	MsgEmailSpaces      = "Email cannot contain spaces"
	MsgEmailTooLong     = "Email is too long"
	MsgEmailInvalid     = "Please enter a valid email address"
)

func ValidateEmail(email string) Result {
	email = strings.TrimSpace(email)

	switch {
	case email == "":
		return invalid(MsgEmailRequired)
	case strings.Count(email, "@") != 1:
		return invalid(MsgEmailOneAt)
	case !strings.Contains(email, "."):
		return invalid(MsgEmailNoDomainDot)
	case strings.Contains(email, ".."):
		return invalid(MsgEmailDoubleDot)
	case strings.ContainsAny(email, " \t\n\r"):
		return invalid(MsgEmailSpaces)
	case len(email) > maxEmailLength:
		return invalid(MsgEmailTooLong)
	case !emailPattern.MatchString(email):
		return invalid(MsgEmailInvalid)
	}
	return valid()
}
