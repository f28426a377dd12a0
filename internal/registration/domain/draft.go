package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/legacykeep/legacykeep-client/internal/gateway"
	"github.com/legacykeep/legacykeep-client/internal/validation"
)

type Gender string

const (
	GenderMale           Gender = "male"
	GenderFemale         Gender = "female"
	GenderOther          Gender = "other"
	GenderPreferNotToSay Gender = "prefer_not_to_say"
)

func ParseGender(s string) (Gender, error) {
	switch g := Gender(strings.ToLower(strings.TrimSpace(s))); g {
	case GenderMale, GenderFemale, GenderOther, GenderPreferNotToSay:
		return g, nil
	default:
		return "", fmt.Errorf("unknown gender %q", s)
	}
}

// ContactMethod is the identity channel the user picked on the first step.
type ContactMethod string

const (
	MethodNone  ContactMethod = ""
	MethodEmail ContactMethod = "email"
	MethodPhone ContactMethod = "phone"
)

// Draft is the registration data collected across steps.
type Draft struct {
	FirstName       string     `json:"first_name"`
	LastName        string     `json:"last_name"`
	Username        string     `json:"username"`
	Password        string     `json:"-"`
	ConfirmPassword string     `json:"-"`
	Email           string     `json:"email,omitempty"`
	PhoneNumber     string     `json:"phone_number,omitempty"`
	DateOfBirth     *time.Time `json:"date_of_birth,omitempty"`
	Gender          *Gender    `json:"gender,omitempty"`
	Address         string     `json:"address,omitempty"`
	City            string     `json:"city,omitempty"`
	State           string     `json:"state,omitempty"`
	Country         string     `json:"country,omitempty"`
	ZipCode         string     `json:"zip_code,omitempty"`
	AcceptTerms     bool       `json:"accept_terms"`
}

// DraftPatch names the fields a step wants to change. Nil leaves the draft
// value untouched; a pointer to "" clears it on purpose.
type DraftPatch struct {
	FirstName       *string
	LastName        *string
	Username        *string
	Password        *string
	ConfirmPassword *string
	Email           *string
	PhoneNumber     *string
	DateOfBirth     *time.Time
	Gender          *Gender
	Address         *string
	City            *string
	State           *string
	Country         *string
	ZipCode         *string
	AcceptTerms     *bool
}

// IsEmpty reports whether applying p would change nothing.
func (p DraftPatch) IsEmpty() bool {
	return p == DraftPatch{}
}

// Apply returns a copy of d with every field named in p replaced.
func (d Draft) Apply(p DraftPatch) Draft {
	setString(&d.FirstName, p.FirstName)
	setString(&d.LastName, p.LastName)
	setString(&d.Username, p.Username)
	setString(&d.Password, p.Password)
	setString(&d.ConfirmPassword, p.ConfirmPassword)
	setString(&d.Email, p.Email)
	setString(&d.PhoneNumber, p.PhoneNumber)
	setString(&d.Address, p.Address)
	setString(&d.City, p.City)
	setString(&d.State, p.State)
	setString(&d.Country, p.Country)
	setString(&d.ZipCode, p.ZipCode)

	if p.DateOfBirth != nil {
		dob := *p.DateOfBirth
		d.DateOfBirth = &dob
	}
	if p.Gender != nil {
		g := *p.Gender
		d.Gender = &g
	}
	if p.AcceptTerms != nil {
		d.AcceptTerms = *p.AcceptTerms
	}
	return d
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

// Clone copies the pointer fields so callers cannot mutate the original.
func (d Draft) Clone() Draft {
	if d.DateOfBirth != nil {
		dob := *d.DateOfBirth
		d.DateOfBirth = &dob
	}
	if d.Gender != nil {
		g := *d.Gender
		d.Gender = &g
	}
	return d
}

// Identity returns the value of the channel picked with method.
func (d Draft) Identity(method ContactMethod) string {
	switch method {
	case MethodEmail:
		return strings.TrimSpace(d.Email)
	case MethodPhone:
		return strings.TrimSpace(d.PhoneNumber)
	default:
		return ""
	}
}

// String is a pointer helper for building patches.
func String(s string) *string { return &s }

func Bool(b bool) *bool { return &b }

const dateLayout = "2006-01-02"

// ToRegistrationRequest builds the wire payload. The password confirmation
// never leaves the client.
func (d Draft) ToRegistrationRequest() gateway.RegistrationRequest {
	req := gateway.RegistrationRequest{
		FirstName:   strings.TrimSpace(d.FirstName),
		LastName:    strings.TrimSpace(d.LastName),
		Username:    strings.TrimSpace(d.Username),
		Password:    d.Password,
		Email:       strings.TrimSpace(d.Email),
		PhoneNumber: validation.NormalizePhone(d.PhoneNumber),
		Address:     strings.TrimSpace(d.Address),
		City:        strings.TrimSpace(d.City),
		State:       strings.TrimSpace(d.State),
		Country:     strings.TrimSpace(d.Country),
		ZipCode:     strings.TrimSpace(d.ZipCode),
		AcceptTerms: d.AcceptTerms,
	}
	if d.DateOfBirth != nil {
		req.DateOfBirth = d.DateOfBirth.Format(dateLayout)
	}
	if d.Gender != nil {
		req.Gender = string(*d.Gender)
	}
	return req
}
