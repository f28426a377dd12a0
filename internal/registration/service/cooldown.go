package service

import (
	"sync"
	"time"

	"github.com/legacykeep/legacykeep-client/internal/platform/logger"
	"github.com/robfig/cron/v3"
)

const cooldownTickSpec = "@every 1s"

// Cooldown blocks passcode resends for a while after one was sent and ticks
// once a second so a screen can show the countdown.
type Cooldown struct {
	now    func() time.Time
	onTick func(remaining time.Duration)

	mu        sync.Mutex
	until     time.Time
	scheduler *cron.Cron
}

func NewCooldown(now func() time.Time, onTick func(time.Duration)) *Cooldown {
	if now == nil {
		now = time.Now
	}
	return &Cooldown{now: now, onTick: onTick}
}

// Start (re)arms the cooldown for d. A non-positive d disables it.
func (c *Cooldown) Start(d time.Duration) {
	if d <= 0 {
		c.Stop()
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.until = c.now().Add(d)
	if c.scheduler != nil {
		return
	}
	scheduler := cron.New(cron.WithSeconds())
	if _, err := scheduler.AddFunc(cooldownTickSpec, c.tick); err != nil {
		logger.Error("Failed to schedule resend cooldown ticker", err)
		return
	}
	scheduler.Start()
	c.scheduler = scheduler
}

func (c *Cooldown) tick() {
	remaining := c.Remaining()
	if c.onTick != nil {
		c.onTick(remaining)
	}
	if remaining > 0 {
		return
	}
	c.mu.Lock()
	var scheduler *cron.Cron
	if !c.until.After(c.now()) {
		scheduler = c.scheduler
		c.scheduler = nil
	}
	c.mu.Unlock()
	if scheduler != nil {
		scheduler.Stop()
	}
}

// Remaining is never negative.
func (c *Cooldown) Remaining() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.until.IsZero() {
		return 0
	}
	if left := c.until.Sub(c.now()); left > 0 {
		return left
	}
	return 0
}

func (c *Cooldown) Active() bool {
	return c.Remaining() > 0
}

// RemainingSeconds rounds up so a screen never shows "0 seconds" while blocked.
func (c *Cooldown) RemainingSeconds() int {
	left := c.Remaining()
	secs := int(left / time.Second)
	if left%time.Second != 0 {
		secs++
	}
	return secs
}

// Stop clears the cooldown and its ticker.
func (c *Cooldown) Stop() {
	c.mu.Lock()
	c.until = time.Time{}
	c.mu.Unlock()
	c.stopTicker()
}

func (c *Cooldown) stopTicker() {
	c.mu.Lock()
	scheduler := c.scheduler
	c.scheduler = nil
	c.mu.Unlock()
	if scheduler != nil {
		// The returned context is not awaited: tick itself may be the caller.
		scheduler.Stop()
	}
}
