// Copyright (c) 2026 Taaga. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/taaga/internal/identity"
	"github.com/taibuivan/taaga/internal/platform/apperr"
)

// # Test Doubles

// fakeGateway is an in-memory Gateway with a controllable session and a
// synchronous observer list, mirroring the provider's push behavior.
type fakeGateway struct {
	mu        sync.Mutex
	session   *identity.Session
	nextID    int
	observers map[int]func(session *identity.Session)

	loginErr   error
	sessionErr error

	logoutCalls int
}

func (gateway *fakeGateway) Login(_ context.Context, email, _ string) (*identity.Session, error) {
	if gateway.loginErr != nil {
		return nil, gateway.loginErr
	}
	session := newTestSession(email)
	gateway.mu.Lock()
	gateway.session = session
	gateway.mu.Unlock()
	gateway.push(session)
	return session, nil
}

func (gateway *fakeGateway) Logout(_ context.Context, _ string) error {
	gateway.mu.Lock()
	gateway.session = nil
	gateway.logoutCalls++
	gateway.mu.Unlock()
	gateway.push(nil)
	return nil
}

func (gateway *fakeGateway) CurrentSession(_ context.Context, refreshToken string) (*identity.Session, error) {
	if gateway.sessionErr != nil {
		return nil, gateway.sessionErr
	}
	if refreshToken == "" {
		return nil, nil
	}
	gateway.mu.Lock()
	defer gateway.mu.Unlock()
	return gateway.session, nil
}

func (gateway *fakeGateway) OnAuthStateChange(callback func(session *identity.Session)) identity.Subscription {
	gateway.mu.Lock()
	defer gateway.mu.Unlock()
	if gateway.observers == nil {
		gateway.observers = make(map[int]func(session *identity.Session))
	}
	gateway.nextID++
	id := gateway.nextID
	gateway.observers[id] = callback
	return &fakeSubscription{gateway: gateway, id: id}
}

func (gateway *fakeGateway) push(session *identity.Session) {
	gateway.mu.Lock()
	observers := make([]func(session *identity.Session), 0, len(gateway.observers))
	for _, observer := range gateway.observers {
		observers = append(observers, observer)
	}
	gateway.mu.Unlock()

	for _, observer := range observers {
		observer(session)
	}
}

type fakeSubscription struct {
	gateway *fakeGateway
	id      int
}

func (subscription *fakeSubscription) Unsubscribe() {
	subscription.gateway.mu.Lock()
	defer subscription.gateway.mu.Unlock()
	delete(subscription.gateway.observers, subscription.id)
}

func newTestSession(email string) *identity.Session {
	return &identity.Session{
		Identity: &identity.Identity{
			ID:    "0192d6a0-0000-7000-8000-0000000000aa",
			Email: email,
		},
		AccessToken:  "access-token",
		RefreshToken: "refresh-token",
		ExpiresAt:    time.Now().Add(15 * time.Minute),
	}
}

// redirectCounter is a thread-safe RedirectFunc recorder.
type redirectCounter struct {
	mu    sync.Mutex
	count int
}

func (counter *redirectCounter) fire() {
	counter.mu.Lock()
	defer counter.mu.Unlock()
	counter.count++
}

func (counter *redirectCounter) total() int {
	counter.mu.Lock()
	defer counter.mu.Unlock()
	return counter.count
}

func newTestController(gateway Gateway, counter *redirectCounter) *Controller {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewController(gateway, counter.fire, logger)
}

// # Tests

func TestControllerStartsUnknown(t *testing.T) {
	gateway := &fakeGateway{}
	counter := &redirectCounter{}
	controller := newTestController(gateway, counter)
	defer controller.Close()

	assert.Equal(t, StateUnknown, controller.State())
	assert.Nil(t, controller.Session())
	assert.Equal(t, 0, counter.total())
}

func TestStartWithoutSessionRedirectsOnce(t *testing.T) {
	gateway := &fakeGateway{}
	counter := &redirectCounter{}
	controller := newTestController(gateway, counter)
	defer controller.Close()

	require.NoError(t, controller.Start(context.Background(), ""))

	assert.Equal(t, StateUnauthenticated, controller.State())
	assert.Equal(t, 1, counter.total())
}

func TestStartWithLiveSessionAuthenticates(t *testing.T) {
	gateway := &fakeGateway{session: newTestSession("jane@taaga.shop")}
	counter := &redirectCounter{}
	controller := newTestController(gateway, counter)
	defer controller.Close()

	require.NoError(t, controller.Start(context.Background(), "refresh-token"))

	assert.Equal(t, StateAuthenticated, controller.State())
	require.NotNil(t, controller.Session())
	assert.Equal(t, "jane@taaga.shop", controller.Session().Identity.Email)
	assert.Equal(t, 0, counter.total(), "a live session must not trigger the login redirect")
}

func TestStartFailureKeepsStateUnknown(t *testing.T) {
	gateway := &fakeGateway{sessionErr: apperr.StoreUnavailable(assert.AnError)}
	counter := &redirectCounter{}
	controller := newTestController(gateway, counter)
	defer controller.Close()

	err := controller.Start(context.Background(), "refresh-token")

	require.Error(t, err)
	assert.Equal(t, StateUnknown, controller.State(), "a store outage must not kick the client to login")
	assert.Equal(t, 0, counter.total())
}

func TestLoginTransitionsToAuthenticated(t *testing.T) {
	gateway := &fakeGateway{}
	counter := &redirectCounter{}
	controller := newTestController(gateway, counter)
	defer controller.Close()

	session, err := controller.Login(context.Background(), "jane@taaga.shop", "s3cret-pass")
	require.NoError(t, err)
	require.NotNil(t, session)

	assert.Equal(t, StateAuthenticated, controller.State())
	held := controller.Session()
	require.NotNil(t, held)
	assert.Equal(t, session.RefreshToken, held.RefreshToken)
	assert.Equal(t, session.Identity.ID, held.Identity.ID)
}

func TestSessionReturnsDetachedSnapshot(t *testing.T) {
	gateway := &fakeGateway{}
	counter := &redirectCounter{}
	controller := newTestController(gateway, counter)
	defer controller.Close()

	returned, err := controller.Login(context.Background(), "jane@taaga.shop", "s3cret-pass")
	require.NoError(t, err)

	// Neither the Login return value nor a Session() copy may reach the
	// controller's held state.
	returned.AccessToken = "tampered"
	returned.Identity.Email = "evil@taaga.shop"

	first := controller.Session()
	first.RefreshToken = "also-tampered"
	first.Identity.ID = "someone-else"

	held := controller.Session()
	require.NotNil(t, held)
	assert.Equal(t, "access-token", held.AccessToken)
	assert.Equal(t, "refresh-token", held.RefreshToken)
	assert.Equal(t, "jane@taaga.shop", held.Identity.Email)
	assert.NotSame(t, first, held, "every read hands out a fresh copy")
}

func TestRepeatedNilPushesFireRedirectOnce(t *testing.T) {
	gateway := &fakeGateway{}
	counter := &redirectCounter{}
	controller := newTestController(gateway, counter)
	defer controller.Close()

	_, err := controller.Login(context.Background(), "jane@taaga.shop", "s3cret-pass")
	require.NoError(t, err)

	gateway.push(nil)
	gateway.push(nil)
	gateway.push(nil)

	assert.Equal(t, StateUnauthenticated, controller.State())
	assert.Equal(t, 1, counter.total(), "one signed-out episode fires exactly one redirect")
}

func TestLogoutDoesNotDoubleFireRedirect(t *testing.T) {
	// Logout signals the sign-out twice: the gateway's push and the
	// controller's own apply. The redirect must still fire once.
	gateway := &fakeGateway{}
	counter := &redirectCounter{}
	controller := newTestController(gateway, counter)
	defer controller.Close()

	_, err := controller.Login(context.Background(), "jane@taaga.shop", "s3cret-pass")
	require.NoError(t, err)

	require.NoError(t, controller.Logout(context.Background()))

	assert.Equal(t, StateUnauthenticated, controller.State())
	assert.Nil(t, controller.Session())
	assert.Equal(t, 1, counter.total())
	assert.Equal(t, 1, gateway.logoutCalls)
}

func TestReauthenticationRearmsRedirect(t *testing.T) {
	gateway := &fakeGateway{}
	counter := &redirectCounter{}
	controller := newTestController(gateway, counter)
	defer controller.Close()

	_, err := controller.Login(context.Background(), "jane@taaga.shop", "s3cret-pass")
	require.NoError(t, err)
	require.NoError(t, controller.Logout(context.Background()))
	assert.Equal(t, 1, counter.total())

	_, err = controller.Login(context.Background(), "jane@taaga.shop", "s3cret-pass")
	require.NoError(t, err)
	require.NoError(t, controller.Logout(context.Background()))

	assert.Equal(t, 2, counter.total(), "each signed-out episode fires its own redirect")
}

func TestCloseDetachesFromAuthStream(t *testing.T) {
	gateway := &fakeGateway{}
	counter := &redirectCounter{}
	controller := newTestController(gateway, counter)

	_, err := controller.Login(context.Background(), "jane@taaga.shop", "s3cret-pass")
	require.NoError(t, err)

	controller.Close()
	gateway.push(nil)

	assert.Equal(t, StateAuthenticated, controller.State(), "a closed controller must ignore further pushes")
	assert.Equal(t, 0, counter.total())

	// Close is idempotent.
	controller.Close()
}
