package domain

// ErrorKind classifies a failed Result so screens can react differently.
type ErrorKind string

const (
	KindNone       ErrorKind = ""
	KindValidation ErrorKind = "validation"
	KindConflict   ErrorKind = "conflict"
	KindGateway    ErrorKind = "gateway"
	KindUnexpected ErrorKind = "unexpected"
	KindBusy       ErrorKind = "busy"
	KindStale      ErrorKind = "stale"
	KindCooldown   ErrorKind = "cooldown"
)

// Result is what every flow operation hands back to its screen.
// Error is the user-facing message; FieldErrors is set for validation kinds.
type Result struct {
	OK          bool
	Kind        ErrorKind
	Error       string
	FieldErrors map[Field]string
}

func Success() Result {
	return Result{OK: true}
}

func Failure(kind ErrorKind, msg string) Result {
	return Result{Kind: kind, Error: msg}
}

func Invalid(fieldErrors map[Field]string) Result {
	return Result{Kind: KindValidation, Error: MsgStepIncomplete, FieldErrors: fieldErrors}
}

const (
	MsgStepIncomplete     = "Please fix the highlighted fields."
	MsgAccountExists      = "An account with this email or phone number already exists. Please sign in instead."
	MsgGenericFailure     = "Something went wrong. Please try again."
	MsgOTPSendFailed      = "We couldn't send a verification code. Please try again."
	MsgVerifyFailed       = "Verification failed. Please check the code and try again."
	MsgRegistrationFailed = "Registration failed. Please try again."
	MsgRequestInFlight    = "A request is already in progress."
	MsgUsernameChecking   = "Still checking username availability."
	MsgUsernameTaken      = "This username is already taken."
	MsgNoChallenge        = "Request a verification code first."
	MsgResendCooldown     = "Please wait %d seconds before requesting a new code."
	MsgEnterCode          = "Enter the verification code we sent you."
	MsgAlreadyRegistered  = "Your account has already been created."
	MsgChooseMethod       = "Choose email or phone to sign up."
	MsgBothChannels       = "Use either an email or a phone number, not both."
)
