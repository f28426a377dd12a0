package service

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/legacykeep/legacykeep-client/internal/auth/domain"
	"github.com/legacykeep/legacykeep-client/internal/gateway"
	regDomain "github.com/legacykeep/legacykeep-client/internal/registration/domain"
	regService "github.com/legacykeep/legacykeep-client/internal/registration/service"
	"github.com/legacykeep/legacykeep-client/internal/validation"
)

// LoginFlow signs an existing user in with an email or username.
type LoginFlow struct {
	gw       gateway.AuthGateway
	sessions *SessionStore
	guard    regService.Guard
}

func NewLoginFlow(gw gateway.AuthGateway, sessions *SessionStore) *LoginFlow {
	return &LoginFlow{gw: gw, sessions: sessions}
}

func (f *LoginFlow) Login(ctx context.Context, identity, password string) regDomain.Result {
	identity = strings.TrimSpace(identity)
	fieldErrors := map[regDomain.Field]string{}
	if r := validation.ValidateEmailOrUsername(identity); !r.IsValid {
		fieldErrors[regDomain.FieldIdentity] = r.Error
	}
	if r := validation.ValidateRequired(password, "Password"); !r.IsValid {
		fieldErrors[regDomain.FieldPassword] = r.Error
	}
	if len(fieldErrors) > 0 {
		return regDomain.Invalid(fieldErrors)
	}

	ticket, err := f.guard.Acquire()
	if err != nil {
		return guardFailure(err)
	}
	var resp *gateway.TokenResponse
	callErr := regService.Safely(func() error {
		var gwErr error
		resp, gwErr = f.gw.Login(ctx, gateway.LoginRequest{Identity: identity, Password: password})
		return gwErr
	})
	if !f.guard.Release(ticket) {
		return regDomain.Failure(regDomain.KindStale, "")
	}
	if callErr != nil {
		return loginFailure(callErr)
	}
	if resp == nil || resp.AccessToken == "" {
		return regDomain.Failure(regDomain.KindGateway, domain.MsgLoginFailed)
	}
	if err := f.sessions.StartSession(resp.AccessToken, resp.RefreshToken); err != nil {
		return regDomain.Failure(regDomain.KindUnexpected, regDomain.MsgGenericFailure)
	}
	return regDomain.Success()
}

func (f *LoginFlow) Pending() bool {
	return f.guard.Pending()
}

func (f *LoginFlow) Close() {
	f.guard.Close()
}

func loginFailure(err error) regDomain.Result {
	switch {
	case errors.Is(err, regService.ErrPanic):
		return regDomain.Failure(regDomain.KindUnexpected, regDomain.MsgGenericFailure)
	case gateway.StatusOf(err) == http.StatusUnauthorized:
		return regDomain.Failure(regDomain.KindGateway, domain.MsgInvalidCredentials)
	default:
		return regDomain.Failure(regDomain.KindGateway, gateway.MessageOf(err, domain.MsgLoginFailed))
	}
}

func guardFailure(err error) regDomain.Result {
	if errors.Is(err, regService.ErrBusy) {
		return regDomain.Failure(regDomain.KindBusy, regDomain.MsgRequestInFlight)
	}
	return regDomain.Failure(regDomain.KindStale, "")
}
