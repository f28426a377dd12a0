package validation

import (
	"strings"
	"unicode/utf8"
)

const (
	minPasswordLength = 8
	// A single character class is enough.
	minPasswordComplexity = 1
	passwordSpecials      = `!@#$%^&*(),.?":{}|<>`
)

const (
	MsgPasswordRequired = "Password is required"
	MsgPasswordTooShort = "Password must be at least 8 characters"
	MsgPasswordWeak     = "Password must contain letters, numbers or special characters"
	MsgConfirmRequired  = "Please confirm your password"
	MsgPasswordMismatch = "Passwords do not match"
)

type passwordComplexity struct {
	hasUpper   bool
	hasLower   bool
	hasNumber  bool
	hasSpecial bool
}

func (c passwordComplexity) count() int {
	n := 0
	for _, ok := range []bool{c.hasUpper, c.hasLower, c.hasNumber, c.hasSpecial} {
		if ok {
			n++
		}
	}
	return n
}

func passwordComplexityFlags(password string) passwordComplexity {
	var complexity passwordComplexity
	for _, char := range password {
		switch {
		case char >= 'A' && char <= 'Z':
			complexity.hasUpper = true
		case char >= 'a' && char <= 'z':
			complexity.hasLower = true
		case char >= '0' && char <= '9':
			complexity.hasNumber = true
		case strings.ContainsRune(passwordSpecials, char):
			complexity.hasSpecial = true
		}
	}
	return complexity
}

func ValidatePassword(password string) Result {
	if password == "" {
		return invalid(MsgPasswordRequired)
	}
	if utf8.RuneCountInString(password) < minPasswordLength {
		return invalid(MsgPasswordTooShort)
	}
	if passwordComplexityFlags(password).count() < minPasswordComplexity {
		return invalid(MsgPasswordWeak)
	}
	return valid()
}

func ValidatePasswordConfirmation(password, confirmation string) Result {
	if confirmation == "" {
		return invalid(MsgConfirmRequired)
	}
	if password != confirmation {
		return invalid(MsgPasswordMismatch)
	}
	return valid()
}
