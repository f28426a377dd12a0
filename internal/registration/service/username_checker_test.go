package service

import (
	"sync"
	"testing"
	"time"

	"github.com/legacykeep/legacykeep-client/internal/gateway"
	"github.com/legacykeep/legacykeep-client/internal/gateway/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func statusIs(c *UsernameChecker, want UsernameStatus) func() bool {
	return func() bool {
		_, s := c.Status()
		return s == want
	}
}

func TestUsernameChecker_DebounceQueriesOnlyLastValue(t *testing.T) {
	gw := new(mocks.MockAuthGateway)
	gw.On("ValidateUsername", mock.Anything, "abcd").Return(&gateway.UsernameAvailability{Available: true}, nil).Once()
	c := NewUsernameChecker(gw, 50*time.Millisecond, nil)
	t.Cleanup(c.Close)

	c.Observe("ab")
	_, s := c.Status()
	assert.Equal(t, UsernameIdle, s, "short candidates are not checked")

	c.Observe("abc")
	c.Observe("abcd")
	_, s = c.Status()
	assert.Equal(t, UsernameChecking, s)

	require.Eventually(t, statusIs(c, UsernameAvailable), time.Second, 5*time.Millisecond)
	gw.AssertNumberOfCalls(t, "ValidateUsername", 1)
	gw.AssertNotCalled(t, "ValidateUsername", mock.Anything, "abc")
}

func TestUsernameChecker_InvalidCandidateIsNotQueried(t *testing.T) {
	gw := new(mocks.MockAuthGateway)
	c := NewUsernameChecker(gw, 10*time.Millisecond, nil)
	t.Cleanup(c.Close)

	c.Observe("admin")
	c.Observe("bad name")

	time.Sleep(40 * time.Millisecond)
	_, s := c.Status()
	assert.Equal(t, UsernameIdle, s)
	gw.AssertNotCalled(t, "ValidateUsername", mock.Anything, mock.Anything)
}

func TestUsernameChecker_StaleResponseIsDiscarded(t *testing.T) {
	gw := new(mocks.MockAuthGateway)
	entered := make(chan struct{})
	release := make(chan struct{})
	gw.On("ValidateUsername", mock.Anything, "rose_old").Run(func(mock.Arguments) {
		close(entered)
		<-release
	}).Return(&gateway.UsernameAvailability{Available: true}, nil).Once()
	gw.On("ValidateUsername", mock.Anything, "rose_new").Return(&gateway.UsernameAvailability{Available: false}, nil).Once()

	var mu sync.Mutex
	var seen []UsernameStatus
	c := NewUsernameChecker(gw, 10*time.Millisecond, func(_ string, s UsernameStatus) {
		mu.Lock()
		seen = append(seen, s)
		mu.Unlock()
	})
	t.Cleanup(c.Close)

	c.Observe("rose_old")
	<-entered
	c.Observe("rose_new")
	require.Eventually(t, statusIs(c, UsernameTaken), time.Second, 5*time.Millisecond)

	close(release)
	time.Sleep(30 * time.Millisecond)

	name, s := c.Status()
	assert.Equal(t, "rose_new", name)
	assert.Equal(t, UsernameTaken, s, "the answer for the older value must not win")
	mu.Lock()
	assert.NotContains(t, seen, UsernameAvailable)
	mu.Unlock()
}

func TestUsernameChecker_GatewayErrorFallsBackToIdle(t *testing.T) {
	gw := new(mocks.MockAuthGateway)
	called := make(chan struct{})
	gw.On("ValidateUsername", mock.Anything, "rose_m").Run(func(mock.Arguments) {
		close(called)
	}).Return(nil, &gateway.Error{Status: 503}).Once()
	c := NewUsernameChecker(gw, 5*time.Millisecond, nil)
	t.Cleanup(c.Close)

	c.Observe("rose_m")

	select {
	case <-called:
	case <-time.After(time.Second):
		t.Fatal("username was never checked")
	}
	assert.Eventually(t, statusIs(c, UsernameIdle), time.Second, 5*time.Millisecond)
}

func TestUsernameChecker_CloseStopsPendingQuery(t *testing.T) {
	gw := new(mocks.MockAuthGateway)
	c := NewUsernameChecker(gw, 30*time.Millisecond, nil)

	c.Observe("rose_m")
	c.Close()
	c.Observe("rose_n")

	time.Sleep(60 * time.Millisecond)
	gw.AssertNotCalled(t, "ValidateUsername", mock.Anything, mock.Anything)
}
