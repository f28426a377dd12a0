package validation

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

const minimumAge = 13

var (
	usPostalPattern      = regexp.MustCompile(`^\d{5}(-\d{4})?$`)
	genericPostalPattern = regexp.MustCompile(`^[A-Za-z0-9\s-]{3,10}$`)
	timezonePattern      = regexp.MustCompile(`^[A-Za-z_]+/[A-Za-z_]+(/[A-Za-z_]+)?$`)
	languagePattern      = regexp.MustCompile(`^[a-z]{2}(-[A-Z]{2})?$`)
	otpPattern           = regexp.MustCompile(`^[0-9]{6}$`)
)

const (
	MsgTermsRequired    = "You must accept the terms and conditions"
	MsgBirthRequired    = "Date of birth is required"
	MsgBirthFuture      = "Date of birth cannot be in the future"
	MsgTooYoung         = "You must be at least 13 years old"
	MsgPostalRequired   = "Postal code is required"
	MsgPostalInvalid    = "Please enter a valid postal code"
	MsgTimezoneInvalid  = "Please enter a valid timezone (e.g. America/New_York)"
	MsgLanguageInvalid  = "Please enter a valid language code (e.g. en or en-US)"
	MsgOTPCodeRequired  = "Verification code is required"
	MsgOTPCodeMalformed = "Verification code must be 6 digits"
)

func ValidateRequired(value, fieldName string) Result {
	if strings.TrimSpace(value) == "" {
		return invalid(fieldName + " is required")
	}
	return valid()
}

func ValidateMinLength(value string, min int, fieldName string) Result {
	if utf8.RuneCountInString(strings.TrimSpace(value)) < min {
		return invalid(fmt.Sprintf("%s must be at least %d characters", fieldName, min))
	}
	return valid()
}

func ValidateMaxLength(value string, max int, fieldName string) Result {
	if utf8.RuneCountInString(strings.TrimSpace(value)) > max {
		return invalid(fmt.Sprintf("%s must be at most %d characters", fieldName, max))
	}
	return valid()
}

func ValidateTermsAcceptance(accepted bool) Result {
	if !accepted {
		return invalid(MsgTermsRequired)
	}
	return valid()
}

// ValidateAge requires the birth date to be at least 13 years before now.
func ValidateAge(dateOfBirth, now time.Time) Result {
	if dateOfBirth.IsZero() {
		return invalid(MsgBirthRequired)
	}
	if dateOfBirth.After(now) {
		return invalid(MsgBirthFuture)
	}
	if ageOn(dateOfBirth, now) < minimumAge {
		return invalid(MsgTooYoung)
	}
	return valid()
}

func ageOn(dob, now time.Time) int {
	years := now.Year() - dob.Year()
	if now.Month() < dob.Month() || (now.Month() == dob.Month() && now.Day() < dob.Day()) {
		years--
	}
	return years
}

func ValidatePostalCode(code string) Result {
	code = strings.TrimSpace(code)
	if code == "" {
		return invalid(MsgPostalRequired)
	}
	if usPostalPattern.MatchString(code) || genericPostalPattern.MatchString(code) {
		return valid()
	}
	return invalid(MsgPostalInvalid)
}

func ValidateTimezone(tz string) Result {
	if !timezonePattern.MatchString(strings.TrimSpace(tz)) {
		return invalid(MsgTimezoneInvalid)
	}
	return valid()
}

func ValidateLanguageCode(code string) Result {
	if !languagePattern.MatchString(strings.TrimSpace(code)) {
		return invalid(MsgLanguageInvalid)
	}
	return valid()
}

func ValidateOTPCode(code string) Result {
	code = strings.TrimSpace(code)
	if code == "" {
		return invalid(MsgOTPCodeRequired)
	}
	if !otpPattern.MatchString(code) {
		return invalid(MsgOTPCodeMalformed)
	}
	return valid()
}
