package service

import (
	"strings"
	"time"

	"github.com/legacykeep/legacykeep-client/internal/registration/domain"
	"github.com/legacykeep/legacykeep-client/internal/validation"
)

// fieldError returns the inline message for f, or "" when f is valid.
func fieldError(f domain.Field, d domain.Draft, method domain.ContactMethod, now time.Time) string {
	var r validation.Result
	switch f {
	case domain.FieldContactMethod:
		if method != domain.MethodEmail && method != domain.MethodPhone {
			return domain.MsgChooseMethod
		}
		return ""
	case domain.FieldFirstName:
		r = validation.ValidateRequired(d.FirstName, "First name")
	case domain.FieldLastName:
		r = validation.ValidateRequired(d.LastName, "Last name")
	case domain.FieldIdentity:
		return identityError(d, method)
	case domain.FieldUsername:
		r = validation.ValidateUsername(d.Username)
	case domain.FieldPassword:
		r = validation.ValidatePassword(d.Password)
	case domain.FieldConfirmPassword:
		r = validation.ValidatePasswordConfirmation(d.Password, d.ConfirmPassword)
	case domain.FieldDateOfBirth:
		var dob time.Time
		if d.DateOfBirth != nil {
			dob = *d.DateOfBirth
		}
		r = validation.ValidateAge(dob, now)
	case domain.FieldGender:
		var g string
		if d.Gender != nil {
			g = string(*d.Gender)
		}
		r = validation.ValidateRequired(g, "Gender")
	case domain.FieldAddress:
		r = validation.ValidateRequired(d.Address, "Address")
	case domain.FieldCity:
		r = validation.ValidateRequired(d.City, "City")
	case domain.FieldState:
		r = validation.ValidateRequired(d.State, "State")
	case domain.FieldCountry:
		r = validation.ValidateRequired(d.Country, "Country")
	case domain.FieldZipCode:
		r = validation.ValidatePostalCode(d.ZipCode)
	case domain.FieldAcceptTerms:
		r = validation.ValidateTermsAcceptance(d.AcceptTerms)
	default:
		return ""
	}
	return r.Error
}

// identityError checks the chosen channel and that the other one is empty.
func identityError(d domain.Draft, method domain.ContactMethod) string {
	email := strings.TrimSpace(d.Email)
	phone := strings.TrimSpace(d.PhoneNumber)
	switch method {
	case domain.MethodEmail:
		if phone != "" {
			return domain.MsgBothChannels
		}
		return validation.ValidateEmail(email).Error
	case domain.MethodPhone:
		if email != "" {
			return domain.MsgBothChannels
		}
		return validation.ValidatePhoneNumber(phone).Error
	default:
		return domain.MsgChooseMethod
	}
}

func stepErrors(plan domain.Plan, step domain.Step, d domain.Draft, method domain.ContactMethod, now time.Time) map[domain.Field]string {
	errs := make(map[domain.Field]string)
	for _, f := range plan.Fields(step) {
		if msg := fieldError(f, d, method, now); msg != "" {
			errs[f] = msg
		}
	}
	return errs
}
