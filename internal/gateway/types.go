package gateway

// Purpose tells the gateway what a one-time passcode authorizes.
type Purpose string

const (
	PurposeRegistration  Purpose = "registration"
	PurposePasswordReset Purpose = "password_reset"
)

// Channel is how the passcode reaches the user.
type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelSMS   Channel = "sms"
)

type OTPRequest struct {
	Identity string  `json:"identity"`
	Channel  Channel `json:"channel"`
	Purpose  Purpose `json:"purpose"`
}

type OTPResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message,omitempty"`
	ExpiresIn int    `json:"expires_in,omitempty"` // seconds, informational only
}

type VerifyOTPRequest struct {
	Identity string  `json:"identity"`
	Code     string  `json:"code"`
	Purpose  Purpose `json:"purpose"`
}

// VerifyOTPResponse carries session tokens for the registration purpose and
// a reset token for the password reset purpose.
type VerifyOTPResponse struct {
	Success      bool   `json:"success"`
	Message      string `json:"message,omitempty"`
	UserID       string `json:"user_id,omitempty"`
	AccessToken  string `json:"access_token,omitempty"`
	RefreshToken string `json:"refresh_token,omitempty"`
	ResetToken   string `json:"reset_token,omitempty"`
}

type UsernameAvailability struct {
	Available bool `json:"available"`
}

type RegistrationRequest struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Username    string `json:"username"`
	Password    string `json:"password"`
	Email       string `json:"email,omitempty"`
	PhoneNumber string `json:"phone_number,omitempty"`
	DateOfBirth string `json:"date_of_birth,omitempty"` // YYYY-MM-DD
	Gender      string `json:"gender,omitempty"`
	Address     string `json:"address,omitempty"`
	City        string `json:"city,omitempty"`
	State       string `json:"state,omitempty"`
	Country     string `json:"country,omitempty"`
	ZipCode     string `json:"zip_code,omitempty"`
	AcceptTerms bool   `json:"accept_terms"`
}

type RegistrationResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	UserID  string `json:"user_id,omitempty"`
}

type LoginRequest struct {
	Identity string `json:"identity"` // email or username
	Password string `json:"password"`
}

type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	TokenType    string `json:"token_type,omitempty"`
	ExpiresIn    int    `json:"expires_in,omitempty"`
	UserID       string `json:"user_id,omitempty"`
}

type ResetPasswordRequest struct {
	Identity    string `json:"identity"`
	ResetToken  string `json:"reset_token"`
	NewPassword string `json:"new_password"`
}

// errorBody is what the gateway sends with non-2xx responses. Older
// endpoints use "error", newer ones "message".
type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (b errorBody) text() string {
	if b.Message != "" {
		return b.Message
	}
	return b.Error
}
