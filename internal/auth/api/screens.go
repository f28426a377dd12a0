package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/legacykeep/legacykeep-client/internal/auth/domain"
	"github.com/legacykeep/legacykeep-client/internal/auth/service"
	"github.com/legacykeep/legacykeep-client/internal/platform/terminal"
	regDomain "github.com/legacykeep/legacykeep-client/internal/registration/domain"
)

var ErrAborted = errors.New("cancelled by user")

const maxLoginAttempts = 3

type LoginScreen struct {
	flow     *service.LoginFlow
	sessions *service.SessionStore
	prompt   *terminal.Prompter
}

func NewLoginScreen(flow *service.LoginFlow, sessions *service.SessionStore, in io.Reader, out io.Writer) *LoginScreen {
	return &LoginScreen{flow: flow, sessions: sessions, prompt: terminal.NewPrompter(in, out)}
}

func (s *LoginScreen) Run(ctx context.Context) (domain.Session, error) {
	for attempt := 1; attempt <= maxLoginAttempts; attempt++ {
		identity, err := s.prompt.Ask("Email or username")
		if err != nil {
			return domain.Session{}, abort(err)
		}
		password, err := s.prompt.Ask("Password")
		if err != nil {
			return domain.Session{}, abort(err)
		}

		res := s.flow.Login(ctx, identity, password)
		if res.OK {
			session, err := s.sessions.Current()
			if err != nil {
				return domain.Session{}, err
			}
			s.prompt.Say("Signed in as %s.", session.UserID)
			return session, nil
		}
		show(s.prompt, res)
	}
	return domain.Session{}, fmt.Errorf("%w: too many failed attempts", ErrAborted)
}

type ResetScreen struct {
	flow   *service.PasswordResetFlow
	prompt *terminal.Prompter
}

func NewResetScreen(flow *service.PasswordResetFlow, in io.Reader, out io.Writer) *ResetScreen {
	return &ResetScreen{flow: flow, prompt: terminal.NewPrompter(in, out)}
}

func (s *ResetScreen) Run(ctx context.Context) error {
	for {
		var res regDomain.Result
		switch s.flow.Stage() {
		case domain.ResetRequestCode:
			identity, err := s.prompt.Ask("Email or phone number")
			if err != nil {
				return abort(err)
			}
			res = s.flow.RequestCode(ctx, identity)
			if res.OK {
				s.prompt.Say("We sent you a reset code.")
			}
		case domain.ResetVerifyCode:
			code, err := s.prompt.Ask(`Reset code (or "resend")`)
			if err != nil {
				return abort(err)
			}
			if strings.EqualFold(code, "resend") {
				res = s.flow.Resend(ctx)
			} else {
				res = s.flow.VerifyCode(ctx, code)
			}
		case domain.ResetChoosePassword:
			password, err := s.prompt.Ask("New password")
			if err != nil {
				return abort(err)
			}
			confirm, err := s.prompt.Ask("Confirm new password")
			if err != nil {
				return abort(err)
			}
			res = s.flow.ResetPassword(ctx, password, confirm)
		case domain.ResetDone:
			s.prompt.Say("Your password has been reset. You can sign in now.")
			return nil
		}
		if !res.OK {
			show(s.prompt, res)
		}
	}
}

func abort(err error) error {
	if errors.Is(err, terminal.ErrQuit) || errors.Is(err, terminal.ErrBack) {
		return ErrAborted
	}
	return err
}

func show(p *terminal.Prompter, res regDomain.Result) {
	if res.Kind == regDomain.KindStale {
		return
	}
	if res.Error != "" {
		p.Say("! %s", res.Error)
	}
	for _, f := range []regDomain.Field{regDomain.FieldIdentity, regDomain.FieldPassword, regDomain.FieldConfirmPassword} {
		if msg, ok := res.FieldErrors[f]; ok {
			p.Say("  %s", msg)
		}
	}
}
