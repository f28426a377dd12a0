package domain

// Step is a screen of the registration flow, in order.
type Step int

const (
	StepMethodSelection Step = iota
	StepCoreFields
	StepPersonalDetails
	StepLocation
	StepOTPPending
	StepAccountCreated
)

func (s Step) String() string {
	switch s {
	case StepMethodSelection:
		return "method_selection"
	case StepCoreFields:
		return "core_fields"
	case StepPersonalDetails:
		return "personal_details"
	case StepLocation:
		return "location"
	case StepOTPPending:
		return "otp_pending"
	case StepAccountCreated:
		return "account_created"
	default:
		return "unknown"
	}
}

// Field is one input the flow gates on.
type Field string

const (
	FieldContactMethod   Field = "contact_method"
	FieldFirstName       Field = "first_name"
	FieldLastName        Field = "last_name"
	FieldIdentity        Field = "identity"
	FieldUsername        Field = "username"
	FieldPassword        Field = "password"
	FieldConfirmPassword Field = "confirm_password"
	FieldDateOfBirth     Field = "date_of_birth"
	FieldGender          Field = "gender"
	FieldAddress         Field = "address"
	FieldCity            Field = "city"
	FieldState           Field = "state"
	FieldCountry         Field = "country"
	FieldZipCode         Field = "zip_code"
	FieldAcceptTerms     Field = "accept_terms"
)

type StepSpec struct {
	Step   Step
	Fields []Field
}

// Plan lists the fields each step must have valid before moving on.
// Steps that are absent require nothing.
type Plan []StepSpec

func DefaultPlan() Plan {
	return Plan{
		{Step: StepMethodSelection, Fields: []Field{FieldContactMethod}},
		{Step: StepCoreFields, Fields: []Field{
			FieldFirstName, FieldLastName, FieldIdentity, FieldUsername, FieldPassword, FieldConfirmPassword,
		}},
		{Step: StepPersonalDetails, Fields: []Field{FieldDateOfBirth, FieldGender}},
		{Step: StepLocation, Fields: []Field{FieldCity, FieldCountry, FieldZipCode, FieldAcceptTerms}},
	}
}

func (p Plan) Fields(s Step) []Field {
	for _, spec := range p {
		if spec.Step == s {
			return spec.Fields
		}
	}
	return nil
}
