package validation

import (
	"regexp"
	"strings"
)

const (
	minPhoneDigits = 7
	maxPhoneDigits = 15
)

var (
	phoneCharsPattern = regexp.MustCompile(`^\+?\d+$`)
	phonePattern      = regexp.MustCompile(`^\+?[1-9]\d{6,14}$`)
)

const (
	MsgPhoneRequired  = "Phone number is required"
	MsgPhoneCharset   = "Phone number can only contain digits and a leading +"
	MsgPhoneManyPlus  = "Phone number can only contain one + sign"
	MsgPhonePlusFirst = "The + sign must be at the start of the phone number"
	MsgPhoneLength    = "Phone number must be between 7 and 15 digits"
	MsgPhoneInvalid   = "Please enter a valid phone number"
)

// NormalizePhone drops everything except digits and '+', so
// "(415) 555-1234" becomes "4155551234".
func NormalizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if (r >= '0' && r <= '9') || r == '+' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func ValidatePhoneNumber(phone string) Result {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return invalid(MsgPhoneRequired)
	}

	cleaned := NormalizePhone(phone)
	switch {
	case strings.Count(cleaned, "+") > 1:
		return invalid(MsgPhoneManyPlus)
	case strings.Contains(cleaned, "+") && !strings.HasPrefix(cleaned, "+"):
		return invalid(MsgPhonePlusFirst)
	case !phoneCharsPattern.MatchString(cleaned):
		return invalid(MsgPhoneCharset)
	}

	digits := len(strings.TrimPrefix(cleaned, "+"))
	if digits < minPhoneDigits || digits > maxPhoneDigits {
		return invalid(MsgPhoneLength)
	}
	if !phonePattern.MatchString(cleaned) {
		return invalid(MsgPhoneInvalid)
	}
	return valid()
}
