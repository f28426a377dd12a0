package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/legacykeep/legacykeep-client/internal/auth/domain"
	"github.com/legacykeep/legacykeep-client/internal/gateway"
	regDomain "github.com/legacykeep/legacykeep-client/internal/registration/domain"
	regService "github.com/legacykeep/legacykeep-client/internal/registration/service"
	"github.com/legacykeep/legacykeep-client/internal/validation"
)

// PasswordResetFlow walks a user through request code, verify code and
// choose a new password.
type PasswordResetFlow struct {
	gw             gateway.AuthGateway
	resendCooldown time.Duration
	guard          regService.Guard
	cooldown       *regService.Cooldown

	mu         sync.Mutex
	stage      domain.ResetStage
	identity   string
	resetToken string
}

func NewPasswordResetFlow(gw gateway.AuthGateway, resendCooldown time.Duration, now func() time.Time) *PasswordResetFlow {
	return &PasswordResetFlow{
		gw:             gw,
		resendCooldown: resendCooldown,
		cooldown:       regService.NewCooldown(now, nil),
	}
}

func (f *PasswordResetFlow) Stage() domain.ResetStage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stage
}

// RequestCode sends a reset passcode to an email or phone number.
func (f *PasswordResetFlow) RequestCode(ctx context.Context, identity string) regDomain.Result {
	identity = strings.TrimSpace(identity)
	if r := validation.ValidateEmailOrPhone(identity); !r.IsValid {
		return regDomain.Result{
			Kind:        regDomain.KindValidation,
			Error:       r.Error,
			FieldErrors: map[regDomain.Field]string{regDomain.FieldIdentity: r.Error},
		}
	}
	channel := gateway.ChannelEmail
	if validation.ClassifyIdentity(identity) == validation.IdentityPhone {
		channel = gateway.ChannelSMS
		identity = validation.NormalizePhone(identity)
	}

	ticket, err := f.guard.Acquire()
	if err != nil {
		return guardFailure(err)
	}
	var resp *gateway.OTPResponse
	callErr := regService.Safely(func() error {
		var gwErr error
		resp, gwErr = f.gw.GenerateOTP(ctx, gateway.OTPRequest{Identity: identity, Channel: channel, Purpose: gateway.PurposePasswordReset})
		return gwErr
	})
	if !f.guard.Release(ticket) {
		return regDomain.Failure(regDomain.KindStale, "")
	}
	if callErr != nil {
		return resetFailure(callErr, regDomain.MsgOTPSendFailed)
	}
	if resp == nil || !resp.Success {
		msg := regDomain.MsgOTPSendFailed
		if resp != nil && resp.Message != "" {
			msg = resp.Message
		}
		return regDomain.Failure(regDomain.KindGateway, msg)
	}

	f.mu.Lock()
	f.stage = domain.ResetVerifyCode
	f.identity = identity
	f.resetToken = ""
	f.mu.Unlock()
	f.cooldown.Start(f.resendCooldown)
	return regDomain.Success()
}

// Resend repeats RequestCode for the same identity once the cooldown is over.
func (f *PasswordResetFlow) Resend(ctx context.Context) regDomain.Result {
	if f.cooldown.Active() {
		return regDomain.Failure(regDomain.KindCooldown, fmt.Sprintf(regDomain.MsgResendCooldown, f.cooldown.RemainingSeconds()))
	}
	f.mu.Lock()
	identity := f.identity
	f.mu.Unlock()
	if identity == "" {
		return regDomain.Failure(regDomain.KindValidation, domain.MsgRequestCodeFirst)
	}
	return f.RequestCode(ctx, identity)
}

// VerifyCode trades the passcode for a reset token.
func (f *PasswordResetFlow) VerifyCode(ctx context.Context, code string) regDomain.Result {
	code = strings.TrimSpace(code)
	if r := validation.ValidateOTPCode(code); !r.IsValid {
		return regDomain.Failure(regDomain.KindValidation, r.Error)
	}
	f.mu.Lock()
	identity := f.identity
	f.mu.Unlock()
	if identity == "" {
		return regDomain.Failure(regDomain.KindValidation, domain.MsgRequestCodeFirst)
	}

	ticket, err := f.guard.Acquire()
	if err != nil {
		return guardFailure(err)
	}
	var resp *gateway.VerifyOTPResponse
	callErr := regService.Safely(func() error {
		var gwErr error
		resp, gwErr = f.gw.VerifyOTP(ctx, gateway.VerifyOTPRequest{Identity: identity, Code: code, Purpose: gateway.PurposePasswordReset})
		return gwErr
	})
	if !f.guard.Release(ticket) {
		return regDomain.Failure(regDomain.KindStale, "")
	}
	if callErr != nil {
		return resetFailure(callErr, regDomain.MsgVerifyFailed)
	}
	if resp == nil || !resp.Success || resp.ResetToken == "" {
		msg := regDomain.MsgVerifyFailed
		if resp != nil && resp.Message != "" {
			msg = resp.Message
		}
		return regDomain.Failure(regDomain.KindGateway, msg)
	}

	f.mu.Lock()
	f.stage = domain.ResetChoosePassword
	f.resetToken = resp.ResetToken
	f.mu.Unlock()
	f.cooldown.Stop()
	return regDomain.Success()
}

// ResetPassword sets the new password using the verified reset token.
func (f *PasswordResetFlow) ResetPassword(ctx context.Context, password, confirmation string) regDomain.Result {
	fieldErrors := map[regDomain.Field]string{}
	if r := validation.ValidatePassword(password); !r.IsValid {
		fieldErrors[regDomain.FieldPassword] = r.Error
	}
	if r := validation.ValidatePasswordConfirmation(password, confirmation); !r.IsValid {
		fieldErrors[regDomain.FieldConfirmPassword] = r.Error
	}
	if len(fieldErrors) > 0 {
		return regDomain.Invalid(fieldErrors)
	}

	f.mu.Lock()
	identity, token := f.identity, f.resetToken
	f.mu.Unlock()
	if token == "" {
		return regDomain.Failure(regDomain.KindValidation, domain.MsgVerifyCodeFirst)
	}

	ticket, err := f.guard.Acquire()
	if err != nil {
		return guardFailure(err)
	}
	callErr := regService.Safely(func() error {
		return f.gw.ResetPassword(ctx, gateway.ResetPasswordRequest{Identity: identity, ResetToken: token, NewPassword: password})
	})
	if !f.guard.Release(ticket) {
		return regDomain.Failure(regDomain.KindStale, "")
	}
	if callErr != nil {
		if gateway.StatusOf(callErr) == http.StatusGone || gateway.StatusOf(callErr) == http.StatusUnauthorized {
			f.mu.Lock()
			f.stage = domain.ResetRequestCode
			f.resetToken = ""
			f.mu.Unlock()
			return regDomain.Failure(regDomain.KindGateway, domain.MsgResetExpired)
		}
		return resetFailure(callErr, domain.MsgResetFailed)
	}

	f.mu.Lock()
	f.stage = domain.ResetDone
	f.identity = ""
	f.resetToken = ""
	f.mu.Unlock()
	return regDomain.Success()
}

func (f *PasswordResetFlow) Pending() bool {
	return f.guard.Pending()
}

func (f *PasswordResetFlow) Close() {
	f.guard.Close()
	f.cooldown.Stop()
}

func resetFailure(err error, fallback string) regDomain.Result {
	switch {
	case errors.Is(err, regService.ErrPanic):
		return regDomain.Failure(regDomain.KindUnexpected, regDomain.MsgGenericFailure)
	case gateway.StatusOf(err) == http.StatusNotFound:
		return regDomain.Failure(regDomain.KindGateway, domain.MsgNoAccount)
	default:
		return regDomain.Failure(regDomain.KindGateway, gateway.MessageOf(err, fallback))
	}
}
