package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/legacykeep/legacykeep-client/internal/gateway"
	"github.com/legacykeep/legacykeep-client/internal/platform/logger"
	"github.com/legacykeep/legacykeep-client/internal/registration/domain"
	"github.com/legacykeep/legacykeep-client/internal/validation"
)

const (
	DefaultUsernameDebounce = 500 * time.Millisecond
	DefaultResendCooldown   = 60 * time.Second
)

// TokenSink receives the session issued when a new account is verified.
type TokenSink interface {
	StartSession(accessToken, refreshToken string) error
}

type Options struct {
	Plan             domain.Plan
	UsernameDebounce time.Duration
	ResendCooldown   time.Duration
	Now              func() time.Time
	Sessions         TokenSink
	OnUsernameStatus func(username string, status UsernameStatus)
	OnCooldownTick   func(remaining time.Duration)
}

type challenge struct {
	identity string
	channel  gateway.Channel
}

// Controller drives one registration attempt from method selection to a
// verified account.
type Controller struct {
	gw             gateway.AuthGateway
	plan           domain.Plan
	now            func() time.Time
	sessions       TokenSink
	resendCooldown time.Duration

	guard    Guard
	checker  *UsernameChecker
	cooldown *Cooldown

	mu        sync.Mutex
	draft     domain.Draft
	method    domain.ContactMethod
	step      domain.Step
	challenge *challenge
	userID    string
}

func NewController(gw gateway.AuthGateway, opts Options) *Controller {
	if opts.Plan == nil {
		opts.Plan = domain.DefaultPlan()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.UsernameDebounce <= 0 {
		opts.UsernameDebounce = DefaultUsernameDebounce
	}
	if opts.ResendCooldown == 0 {
		opts.ResendCooldown = DefaultResendCooldown
	}
	return &Controller{
		gw:             gw,
		plan:           opts.Plan,
		now:            opts.Now,
		sessions:       opts.Sessions,
		resendCooldown: opts.ResendCooldown,
		checker:        NewUsernameChecker(gw, opts.UsernameDebounce, opts.OnUsernameStatus),
		cooldown:       NewCooldown(opts.Now, opts.OnCooldownTick),
		step:           domain.StepMethodSelection,
	}
}

// UpdateDraft merges p into the draft without validating it.
func (c *Controller) UpdateDraft(p domain.DraftPatch) {
	if p.IsEmpty() {
		return
	}
	c.mu.Lock()
	c.draft = c.draft.Apply(p)
	c.mu.Unlock()

	if p.Username != nil {
		c.checker.Observe(*p.Username)
	}
}

func (c *Controller) Draft() domain.Draft {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft.Clone()
}

func (c *Controller) SelectMethod(m domain.ContactMethod) {
	c.mu.Lock()
	c.method = m
	c.mu.Unlock()
}

func (c *Controller) Method() domain.ContactMethod {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.method
}

func (c *Controller) Step() domain.Step {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.step
}

// UserID is set once the account has been verified.
func (c *Controller) UserID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.userID
}

// StepErrors returns the inline message of every invalid field on the
// current step, recomputed from the current draft.
func (c *Controller) StepErrors() map[domain.Field]string {
	c.mu.Lock()
	d, method, step := c.draft, c.method, c.step
	c.mu.Unlock()
	return stepErrors(c.plan, step, d, method, c.now())
}

func (c *Controller) CanProceedToNext() bool {
	return len(c.StepErrors()) == 0
}

// Next advances one step. Leaving the location step submits the
// registration.
func (c *Controller) Next(ctx context.Context) domain.Result {
	switch c.Step() {
	case domain.StepOTPPending:
		return domain.Failure(domain.KindValidation, domain.MsgEnterCode)
	case domain.StepAccountCreated:
		return domain.Failure(domain.KindValidation, domain.MsgAlreadyRegistered)
	case domain.StepLocation:
		return c.SubmitRegistration(ctx)
	}

	if errs := c.StepErrors(); len(errs) > 0 {
		return domain.Invalid(errs)
	}
	c.mu.Lock()
	c.step++
	c.mu.Unlock()
	c.guard.Invalidate()
	return domain.Success()
}

// Back moves one step back and keeps the draft.
func (c *Controller) Back() {
	c.mu.Lock()
	if c.step > domain.StepMethodSelection && c.step < domain.StepAccountCreated {
		c.step--
	}
	c.mu.Unlock()
	c.guard.Invalidate()
}

func (c *Controller) BackToStart() {
	c.mu.Lock()
	if c.step < domain.StepAccountCreated {
		c.step = domain.StepMethodSelection
	}
	c.mu.Unlock()
	c.guard.Invalidate()
}

// Abandon throws the draft away and starts over.
func (c *Controller) Abandon() {
	c.mu.Lock()
	c.draft = domain.Draft{}
	c.method = domain.MethodNone
	c.step = domain.StepMethodSelection
	c.challenge = nil
	c.userID = ""
	c.mu.Unlock()

	c.guard.Invalidate()
	c.cooldown.Stop()
	c.checker.Observe("")
}

// GenerateOTP asks the gateway to send a passcode to identity. The channel
// follows from what identity looks like.
func (c *Controller) GenerateOTP(ctx context.Context, identity string) domain.Result {
	ch, res := c.classify(identity)
	if !res.OK {
		return res
	}

	ticket, err := c.guard.Acquire()
	if err != nil {
		return guardFailure(err)
	}
	var resp *gateway.OTPResponse
	callErr := Safely(func() error {
		var gwErr error
		resp, gwErr = c.gw.GenerateOTP(ctx, gateway.OTPRequest{
			Identity: ch.identity,
			Channel:  ch.channel,
			Purpose:  gateway.PurposeRegistration,
		})
		return gwErr
	})
	if !c.guard.Release(ticket) {
		return domain.Failure(domain.KindStale, "")
	}
	if callErr != nil {
		return gatewayFailure(callErr, domain.MsgOTPSendFailed)
	}
	if resp == nil || !resp.Success {
		return domain.Failure(domain.KindGateway, messageOr(resp, domain.MsgOTPSendFailed))
	}

	c.mu.Lock()
	c.challenge = &ch
	c.mu.Unlock()
	c.cooldown.Start(c.resendCooldown)
	return domain.Success()
}

func (c *Controller) classify(identity string) (challenge, domain.Result) {
	identity = strings.TrimSpace(identity)
	var r validation.Result
	var ch challenge
	switch validation.ClassifyIdentity(identity) {
	case validation.IdentityEmail:
		r = validation.ValidateEmail(identity)
		ch = challenge{identity: identity, channel: gateway.ChannelEmail}
	case validation.IdentityPhone:
		r = validation.ValidatePhoneNumber(identity)
		ch = challenge{identity: validation.NormalizePhone(identity), channel: gateway.ChannelSMS}
	default:
		r = validation.Result{Error: validation.MsgEmailOrPhoneInvalid}
	}
	if !r.IsValid {
		return ch, domain.Result{
			Kind:        domain.KindValidation,
			Error:       r.Error,
			FieldErrors: map[domain.Field]string{domain.FieldIdentity: r.Error},
		}
	}
	return ch, domain.Success()
}

// VerifyOTP checks code against the outstanding challenge. A wrong code
// keeps the draft so the user can try again.
func (c *Controller) VerifyOTP(ctx context.Context, code string) domain.Result {
	code = strings.TrimSpace(code)
	if r := validation.ValidateOTPCode(code); !r.IsValid {
		return domain.Failure(domain.KindValidation, r.Error)
	}

	c.mu.Lock()
	ch := c.challenge
	c.mu.Unlock()
	if ch == nil {
		return domain.Failure(domain.KindValidation, domain.MsgNoChallenge)
	}

	ticket, err := c.guard.Acquire()
	if err != nil {
		return guardFailure(err)
	}
	var resp *gateway.VerifyOTPResponse
	callErr := Safely(func() error {
		var gwErr error
		resp, gwErr = c.gw.VerifyOTP(ctx, gateway.VerifyOTPRequest{
			Identity: ch.identity,
			Code:     code,
			Purpose:  gateway.PurposeRegistration,
		})
		return gwErr
	})
	if !c.guard.Release(ticket) {
		return domain.Failure(domain.KindStale, "")
	}
	if callErr != nil {
		return gatewayFailure(callErr, domain.MsgVerifyFailed)
	}
	if resp == nil || !resp.Success {
		msg := domain.MsgVerifyFailed
		if resp != nil && resp.Message != "" {
			msg = resp.Message
		}
		return domain.Failure(domain.KindGateway, msg)
	}

	c.mu.Lock()
	c.step = domain.StepAccountCreated
	c.draft = domain.Draft{}
	c.challenge = nil
	c.userID = resp.UserID
	c.mu.Unlock()
	c.cooldown.Stop()

	if c.sessions != nil && resp.AccessToken != "" {
		if err := c.sessions.StartSession(resp.AccessToken, resp.RefreshToken); err != nil {
			logger.Warn("Account %s verified but session could not be started: %v", resp.UserID, err)
		}
	}
	return domain.Success()
}

// SubmitRegistration sends the draft to the gateway, which creates the
// account and sends the first passcode.
func (c *Controller) SubmitRegistration(ctx context.Context) domain.Result {
	c.mu.Lock()
	d, method := c.draft, c.method
	c.mu.Unlock()

	if errs := c.allErrors(d, method); len(errs) > 0 {
		return domain.Invalid(errs)
	}
	if res := c.usernameGate(d.Username); !res.OK {
		return res
	}

	ticket, err := c.guard.Acquire()
	if err != nil {
		return guardFailure(err)
	}
	var resp *gateway.RegistrationResponse
	callErr := Safely(func() error {
		var gwErr error
		resp, gwErr = c.gw.SubmitRegistration(ctx, d.ToRegistrationRequest())
		return gwErr
	})
	if !c.guard.Release(ticket) {
		return domain.Failure(domain.KindStale, "")
	}
	if callErr != nil {
		return gatewayFailure(callErr, domain.MsgRegistrationFailed)
	}
	if resp == nil || !resp.Success {
		msg := domain.MsgRegistrationFailed
		if resp != nil && resp.Error != "" {
			msg = resp.Error
		}
		return domain.Failure(domain.KindGateway, msg)
	}

	c.mu.Lock()
	c.step = domain.StepOTPPending
	c.challenge = challengeFor(d, method)
	c.mu.Unlock()
	c.cooldown.Start(c.resendCooldown)
	return domain.Success()
}

func (c *Controller) allErrors(d domain.Draft, method domain.ContactMethod) map[domain.Field]string {
	now := c.now()
	errs := make(map[domain.Field]string)
	for _, s := range c.plan {
		for f, msg := range stepErrors(c.plan, s.Step, d, method, now) {
			errs[f] = msg
		}
	}
	return errs
}

func (c *Controller) usernameGate(username string) domain.Result {
	observed, status := c.checker.Status()
	if observed != strings.TrimSpace(username) {
		return domain.Success()
	}
	switch status {
	case UsernameChecking:
		return domain.Failure(domain.KindBusy, domain.MsgUsernameChecking)
	case UsernameTaken:
		return domain.Result{
			Kind:        domain.KindValidation,
			Error:       domain.MsgUsernameTaken,
			FieldErrors: map[domain.Field]string{domain.FieldUsername: domain.MsgUsernameTaken},
		}
	}
	return domain.Success()
}

func challengeFor(d domain.Draft, method domain.ContactMethod) *challenge {
	switch {
	case method == domain.MethodPhone, method == domain.MethodNone && d.Email == "" && d.PhoneNumber != "":
		return &challenge{identity: validation.NormalizePhone(d.PhoneNumber), channel: gateway.ChannelSMS}
	case strings.TrimSpace(d.Email) != "":
		return &challenge{identity: strings.TrimSpace(d.Email), channel: gateway.ChannelEmail}
	default:
		return nil
	}
}

// ResendOTP requests a fresh passcode for the outstanding challenge unless
// the cooldown is still running.
func (c *Controller) ResendOTP(ctx context.Context) domain.Result {
	if c.cooldown.Active() {
		return domain.Failure(domain.KindCooldown, fmt.Sprintf(domain.MsgResendCooldown, c.cooldown.RemainingSeconds()))
	}
	c.mu.Lock()
	ch := c.challenge
	c.mu.Unlock()
	if ch == nil {
		return domain.Failure(domain.KindValidation, domain.MsgNoChallenge)
	}
	return c.GenerateOTP(ctx, ch.identity)
}

// Pending reports whether a network call is in flight.
func (c *Controller) Pending() bool {
	return c.guard.Pending()
}

func (c *Controller) UsernameStatus() (string, UsernameStatus) {
	return c.checker.Status()
}

func (c *Controller) CooldownRemaining() time.Duration {
	return c.cooldown.Remaining()
}

// Close stops background work. Answers that arrive afterwards are dropped.
func (c *Controller) Close() {
	c.guard.Close()
	c.checker.Close()
	c.cooldown.Stop()
}

func guardFailure(err error) domain.Result {
	if errors.Is(err, ErrBusy) {
		return domain.Failure(domain.KindBusy, domain.MsgRequestInFlight)
	}
	return domain.Failure(domain.KindStale, "")
}

// gatewayFailure maps a failed call to what the user sees. The gateway's
// own message wins over fallback when it sent one.
func gatewayFailure(err error, fallback string) domain.Result {
	switch {
	case errors.Is(err, ErrPanic):
		return domain.Failure(domain.KindUnexpected, domain.MsgGenericFailure)
	case gateway.IsConflict(err):
		return domain.Failure(domain.KindConflict, domain.MsgAccountExists)
	default:
		return domain.Failure(domain.KindGateway, gateway.MessageOf(err, fallback))
	}
}

func messageOr(resp *gateway.OTPResponse, fallback string) string {
	if resp != nil && resp.Message != "" {
		return resp.Message
	}
	return fallback
}
