package service

import (
	"context"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/legacykeep/legacykeep-client/internal/gateway"
	"github.com/legacykeep/legacykeep-client/internal/validation"
)

type UsernameStatus string

const (
	UsernameIdle      UsernameStatus = "idle"
	UsernameChecking  UsernameStatus = "checking"
	UsernameAvailable UsernameStatus = "available"
	UsernameTaken     UsernameStatus = "taken"
)

const minUsernameQueryLength = 3

// UsernameChecker asks the gateway whether a username is free once typing
// pauses for the debounce delay. Every observation bumps the sequence and
// only the answer for the newest one is kept.
type UsernameChecker struct {
	gw       gateway.AuthGateway
	delay    time.Duration
	onChange func(username string, status UsernameStatus)

	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	seq      uint64
	timer    *time.Timer
	username string
	status   UsernameStatus
	closed   bool
}

func NewUsernameChecker(gw gateway.AuthGateway, delay time.Duration, onChange func(string, UsernameStatus)) *UsernameChecker {
	ctx, cancel := context.WithCancel(context.Background())
	return &UsernameChecker{
		gw:       gw,
		delay:    delay,
		onChange: onChange,
		ctx:      ctx,
		cancel:   cancel,
		status:   UsernameIdle,
	}
}

// Observe records the latest typed value and reschedules the query.
func (c *UsernameChecker) Observe(username string) {
	candidate := strings.TrimSpace(username)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.seq++
	tag := c.seq
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.username = candidate
	if utf8.RuneCountInString(candidate) < minUsernameQueryLength || !validation.ValidateUsername(candidate).IsValid {
		c.status = UsernameIdle
	} else {
		c.status = UsernameChecking
		c.timer = time.AfterFunc(c.delay, func() { c.query(tag, candidate) })
	}
	status := c.status
	c.mu.Unlock()

	c.notify(candidate, status)
}

func (c *UsernameChecker) query(tag uint64, candidate string) {
	c.mu.Lock()
	if c.closed || tag != c.seq {
		c.mu.Unlock()
		return
	}
	ctx := c.ctx
	c.mu.Unlock()

	var resp *gateway.UsernameAvailability
	err := Safely(func() error {
		var callErr error
		resp, callErr = c.gw.ValidateUsername(ctx, candidate)
		return callErr
	})

	c.mu.Lock()
	if c.closed || tag != c.seq {
		c.mu.Unlock()
		return
	}
	switch {
	case err != nil || resp == nil:
		c.status = UsernameIdle
	case resp.Available:
		c.status = UsernameAvailable
	default:
		c.status = UsernameTaken
	}
	status := c.status
	c.mu.Unlock()

	c.notify(candidate, status)
}

func (c *UsernameChecker) notify(username string, status UsernameStatus) {
	if c.onChange != nil {
		c.onChange(username, status)
	}
}

// Status returns the username last observed and what is known about it.
func (c *UsernameChecker) Status() (string, UsernameStatus) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.username, c.status
}

// Close stops the pending timer and cancels an in-flight query.
func (c *UsernameChecker) Close() {
	c.mu.Lock()
	c.closed = true
	c.seq++
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.mu.Unlock()
	c.cancel()
}
