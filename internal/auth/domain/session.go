package domain

import "time"

// Session is the signed-in state handed out by the gateway. Claims are read
// without verifying the signature; the gateway is the only verifier.
type Session struct {
	UserID       string
	Email        string
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time // zero when the token carries no exp claim
}

func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// ResetStage tracks where a password reset is.
type ResetStage int

const (
	ResetRequestCode ResetStage = iota
	ResetVerifyCode
	ResetChoosePassword
	ResetDone
)

func (s ResetStage) String() string {
	switch s {
	case ResetRequestCode:
		return "request_code"
	case ResetVerifyCode:
		return "verify_code"
	case ResetChoosePassword:
		return "choose_password"
	case ResetDone:
		return "done"
	default:
		return "unknown"
	}
}

const (
	MsgInvalidCredentials = "Incorrect email, username or password."
	MsgLoginFailed        = "Sign in failed. Please try again."
	MsgNoAccount          = "No account found for this email or phone number."
	MsgResetFailed        = "We couldn't reset your password. Please try again."
	MsgResetExpired       = "Your reset code has expired. Please request a new one."
	MsgRequestCodeFirst   = "Request a reset code first."
	MsgVerifyCodeFirst    = "Verify your reset code first."
)
