package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/legacykeep/legacykeep-client/internal/platform/terminal"
	"github.com/legacykeep/legacykeep-client/internal/registration/domain"
	"github.com/legacykeep/legacykeep-client/internal/registration/service"
)

const (
	cmdResend          = "resend"
	usernamePollPeriod = 50 * time.Millisecond
	birthDateLayout    = "2006-01-02"
)

var ErrAborted = errors.New("registration abandoned")

var fieldLabels = map[domain.Field]string{
	domain.FieldContactMethod:   "Sign-up method",
	domain.FieldFirstName:       "First name",
	domain.FieldLastName:        "Last name",
	domain.FieldIdentity:        "Email or phone",
	domain.FieldUsername:        "Username",
	domain.FieldPassword:        "Password",
	domain.FieldConfirmPassword: "Confirm password",
	domain.FieldDateOfBirth:     "Date of birth",
	domain.FieldGender:          "Gender",
	domain.FieldAddress:         "Address",
	domain.FieldCity:            "City",
	domain.FieldState:           "State",
	domain.FieldCountry:         "Country",
	domain.FieldZipCode:         "Zip code",
	domain.FieldAcceptTerms:     "Terms",
}

// Wizard is the terminal front end of the registration flow. Each step is
// one screen; typing ":back" returns to the previous one.
type Wizard struct {
	ctrl   *service.Controller
	prompt *terminal.Prompter
}

func NewWizard(ctrl *service.Controller, in io.Reader, out io.Writer) *Wizard {
	return &Wizard{ctrl: ctrl, prompt: terminal.NewPrompter(in, out)}
}

// Run drives the flow until the account is created or the user quits. On
// quit the draft is discarded.
func (w *Wizard) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			w.ctrl.Abandon()
			return err
		}

		step := w.ctrl.Step()
		if step == domain.StepAccountCreated {
			w.prompt.Say("Account created. Welcome to LegacyKeep!")
			return nil
		}

		err := w.screen(ctx, step)
		switch {
		case errors.Is(err, terminal.ErrBack):
			w.ctrl.Back()
		case errors.Is(err, terminal.ErrQuit):
			w.ctrl.Abandon()
			w.prompt.Say("Registration cancelled.")
			return ErrAborted
		case err != nil:
			w.ctrl.Abandon()
			return err
		}
	}
}

func (w *Wizard) screen(ctx context.Context, step domain.Step) error {
	switch step {
	case domain.StepMethodSelection:
		return w.methodScreen(ctx)
	case domain.StepCoreFields:
		return w.coreScreen(ctx)
	case domain.StepPersonalDetails:
		return w.personalScreen(ctx)
	case domain.StepLocation:
		return w.locationScreen(ctx)
	case domain.StepOTPPending:
		return w.otpScreen(ctx)
	default:
		return fmt.Errorf("no screen for step %s", step)
	}
}

func (w *Wizard) methodScreen(ctx context.Context) error {
	answer, err := w.prompt.Ask("Sign up with email or phone?")
	if err != nil {
		return err
	}
	method := domain.ContactMethod(strings.ToLower(answer))
	w.ctrl.SelectMethod(method)

	// Only the chosen channel may carry a value.
	switch method {
	case domain.MethodEmail:
		w.ctrl.UpdateDraft(domain.DraftPatch{PhoneNumber: domain.String("")})
	case domain.MethodPhone:
		w.ctrl.UpdateDraft(domain.DraftPatch{Email: domain.String("")})
	}
	return w.next(ctx)
}

func (w *Wizard) coreScreen(ctx context.Context) error {
	var patch domain.DraftPatch
	var answers [6]string
	labels := []string{"First name", "Last name", "", "Username", "Password", "Confirm password"}
	if w.ctrl.Method() == domain.MethodPhone {
		labels[2] = "Phone number"
	} else {
		labels[2] = "Email"
	}
	for i, label := range labels {
		v, err := w.prompt.Ask(label)
		if err != nil {
			return err
		}
		answers[i] = v
		if i == 3 {
			w.ctrl.UpdateDraft(domain.DraftPatch{Username: domain.String(v)})
		}
	}

	patch.FirstName = domain.String(answers[0])
	patch.LastName = domain.String(answers[1])
	if w.ctrl.Method() == domain.MethodPhone {
		patch.PhoneNumber = domain.String(answers[2])
	} else {
		patch.Email = domain.String(answers[2])
	}
	patch.Password = domain.String(answers[4])
	patch.ConfirmPassword = domain.String(answers[5])
	w.ctrl.UpdateDraft(patch)

	w.reportUsername(ctx)
	return w.next(ctx)
}

func (w *Wizard) personalScreen(ctx context.Context) error {
	var patch domain.DraftPatch

	dob, err := w.prompt.Ask("Date of birth (YYYY-MM-DD)")
	if err != nil {
		return err
	}
	if t, parseErr := time.Parse(birthDateLayout, dob); parseErr == nil {
		patch.DateOfBirth = &t
	} else if dob != "" {
		w.prompt.Say("  %s: use the format YYYY-MM-DD", fieldLabels[domain.FieldDateOfBirth])
	}

	gender, err := w.prompt.Ask("Gender (male, female, other, prefer_not_to_say)")
	if err != nil {
		return err
	}
	if g, parseErr := domain.ParseGender(gender); parseErr == nil {
		patch.Gender = &g
	}

	w.ctrl.UpdateDraft(patch)
	return w.next(ctx)
}

func (w *Wizard) locationScreen(ctx context.Context) error {
	answers := make([]string, 5)
	for i, label := range []string{"Address (optional)", "City", "State (optional)", "Country", "Zip code"} {
		v, err := w.prompt.Ask(label)
		if err != nil {
			return err
		}
		answers[i] = v
	}
	terms, err := w.prompt.Confirm("Do you accept the terms of service?")
	if err != nil {
		return err
	}

	w.ctrl.UpdateDraft(domain.DraftPatch{
		Address:     domain.String(answers[0]),
		City:        domain.String(answers[1]),
		State:       domain.String(answers[2]),
		Country:     domain.String(answers[3]),
		ZipCode:     domain.String(answers[4]),
		AcceptTerms: domain.Bool(terms),
	})
	w.waitForUsername(ctx)
	if err := w.next(ctx); err != nil {
		return err
	}
	if w.ctrl.Step() == domain.StepOTPPending {
		w.prompt.Say("We sent you a verification code.")
	}
	return nil
}

func (w *Wizard) otpScreen(ctx context.Context) error {
	code, err := w.prompt.Ask(fmt.Sprintf("Verification code (or %q)", cmdResend))
	if err != nil {
		return err
	}
	if strings.EqualFold(code, cmdResend) {
		res := w.ctrl.ResendOTP(ctx)
		if res.OK {
			w.prompt.Say("A new code is on its way.")
		} else {
			w.show(res)
		}
		return nil
	}
	if res := w.ctrl.VerifyOTP(ctx, code); !res.OK {
		w.show(res)
	}
	return nil
}

func (w *Wizard) next(ctx context.Context) error {
	if res := w.ctrl.Next(ctx); !res.OK {
		w.show(res)
	}
	return nil
}

func (w *Wizard) show(res domain.Result) {
	if res.Kind == domain.KindStale {
		return
	}
	if res.Error != "" {
		w.prompt.Say("! %s", res.Error)
	}
	fields := make([]string, 0, len(res.FieldErrors))
	for f := range res.FieldErrors {
		fields = append(fields, string(f))
	}
	sort.Strings(fields)
	for _, f := range fields {
		w.prompt.Say("  %s: %s", fieldLabels[domain.Field(f)], res.FieldErrors[domain.Field(f)])
	}
}

// waitForUsername blocks until the availability check settles.
func (w *Wizard) waitForUsername(ctx context.Context) service.UsernameStatus {
	ticker := time.NewTicker(usernamePollPeriod)
	defer ticker.Stop()
	for {
		_, status := w.ctrl.UsernameStatus()
		if status != service.UsernameChecking {
			return status
		}
		select {
		case <-ctx.Done():
			return status
		case <-ticker.C:
		}
	}
}

func (w *Wizard) reportUsername(ctx context.Context) {
	switch w.waitForUsername(ctx) {
	case service.UsernameAvailable:
		w.prompt.Say("  Username is available.")
	case service.UsernameTaken:
		w.prompt.Say("  %s", domain.MsgUsernameTaken)
	}
}
