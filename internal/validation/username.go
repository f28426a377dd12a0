package validation

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	minUsernameLength = 3
	maxUsernameLength = 20
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

var reservedUsernames = map[string]struct{}{
	"admin":   {},
	"root":    {},
	"user":    {},
	"test":    {},
	"guest":   {},
	"api":     {},
	"www":     {},
	"mail":    {},
	"support": {},
}

const (
	MsgUsernameRequired    = "Username is required"
	MsgUsernameTooShort    = "Username must be at least 3 characters"
	MsgUsernameTooLong     = "Username must be at most 20 characters"
	MsgUsernameSpaces      = "Username cannot contain spaces"
	MsgUsernameConsecutive = "Username cannot contain consecutive special characters"
	MsgUsernameEdge        = "Username cannot start or end with _ or -"
	MsgUsernameReserved    = "This username is reserved"
	MsgUsernameCharset     = "Username can only contain letters, numbers, _ and -"
)

func ValidateUsername(username string) Result {
	username = strings.TrimSpace(username)
	if username == "" {
		return invalid(MsgUsernameRequired)
	}

	n := utf8.RuneCountInString(username)
	if n < minUsernameLength {
		return invalid(MsgUsernameTooShort)
	}
	if n > maxUsernameLength {
		return invalid(MsgUsernameTooLong)
	}
	if strings.IndexFunc(username, unicode.IsSpace) >= 0 {
		return invalid(MsgUsernameSpaces)
	}
	for _, pair := range []string{"__", "--", "_-", "-_"} {
		if strings.Contains(username, pair) {
			return invalid(MsgUsernameConsecutive)
		}
	}
	if strings.ContainsAny(username[:1], "_-") || strings.ContainsAny(username[len(username)-1:], "_-") {
		return invalid(MsgUsernameEdge)
	}
	if _, reserved := reservedUsernames[strings.ToLower(username)]; reserved {
		return invalid(MsgUsernameReserved)
	}
	if !usernamePattern.MatchString(username) {
		return invalid(MsgUsernameCharset)
	}
	return valid()
}
