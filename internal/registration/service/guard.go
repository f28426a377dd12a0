package service

import (
	"errors"
	"fmt"
	"sync"
)

var (
	ErrBusy   = errors.New("a request is already in flight")
	ErrClosed = errors.New("flow is closed")
	ErrPanic  = errors.New("gateway call panicked")
)

// Guard admits one network call at a time and tells the caller whether the
// response it got back still belongs to the screen that asked for it.
type Guard struct {
	mu      sync.Mutex
	pending bool
	closed  bool
	epoch   uint64
}

// Acquire marks a call in flight and returns the ticket to hand to Release.
func (g *Guard) Acquire() (uint64, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		return 0, ErrClosed
	}
	if g.pending {
		return 0, ErrBusy
	}
	g.pending = true
	return g.epoch, nil
}

// Release clears the in-flight flag and reports whether ticket is current.
func (g *Guard) Release(ticket uint64) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.pending = false
	return !g.closed && ticket == g.epoch
}

// Invalidate makes every outstanding ticket stale. Called on navigation.
func (g *Guard) Invalidate() {
	g.mu.Lock()
	g.epoch++
	g.mu.Unlock()
}

func (g *Guard) Close() {
	g.mu.Lock()
	g.closed = true
	g.epoch++
	g.mu.Unlock()
}

func (g *Guard) Pending() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.pending
}

func (g *Guard) Closed() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.closed
}

// Safely runs fn and turns a panic into an error wrapping ErrPanic.
func Safely(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrPanic, r)
		}
	}()
	return fn()
}
