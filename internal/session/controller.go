// Copyright (c) 2026 Taaga. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package session tracks the authenticated state of a client against the
identity gateway.

The Controller is the single holder of "who is signed in right now" for a
client connection. It seeds itself with one session query on start, then
follows the gateway's auth-state stream; every change replaces the held
session wholesale. When the state settles on unauthenticated, the
controller fires its redirect hook exactly once per signed-out episode —
repeated sign-out signals, however they arrive, never double-fire it.
*/
package session

import (
	"context"
	"log/slog"
	"maps"
	"sync"

	"github.com/taibuivan/taaga/internal/identity"
)

// # Lifecycle State

// State is the controller's view of the client's authentication status.
type State int

const (
	// StateUnknown holds until the first session query resolves.
	StateUnknown State = iota
	// StateAuthenticated means a live session is held.
	StateAuthenticated
	// StateUnauthenticated means the client is signed out.
	StateUnauthenticated
)

// String implements fmt.Stringer for log output.
func (state State) String() string {
	switch state {
	case StateAuthenticated:
		return "authenticated"
	case StateUnauthenticated:
		return "unauthenticated"
	default:
		return "unknown"
	}
}

// RedirectFunc is invoked when the controller settles on the
// unauthenticated state — at most once per signed-out episode.
type RedirectFunc func()

// Gateway is the slice of the identity gateway the controller needs.
type Gateway interface {
	Login(context context.Context, email, password string) (*identity.Session, error)
	Logout(context context.Context, refreshToken string) error
	CurrentSession(context context.Context, refreshToken string) (*identity.Session, error)
	OnAuthStateChange(callback func(session *identity.Session)) identity.Subscription
}

// # Controller

// Controller owns the session lifecycle for one client connection.
//
// All state transitions are serialized under an internal mutex; the
// redirect hook runs outside the lock so it may call back into the
// controller freely.
type Controller struct {
	gateway      Gateway
	redirect     RedirectFunc
	logger       *slog.Logger
	subscription identity.Subscription

	mu         sync.Mutex
	state      State
	session    *identity.Session
	redirected bool
}

// NewController creates a Controller and attaches it to the gateway's
// auth-state stream. The caller must call Close to detach.
func NewController(gateway Gateway, redirect RedirectFunc, logger *slog.Logger) *Controller {
	controller := &Controller{
		gateway:  gateway,
		redirect: redirect,
		logger:   logger,
		state:    StateUnknown,
	}
	controller.subscription = gateway.OnAuthStateChange(controller.apply)
	return controller
}

/*
Start resolves the initial state with a single session query.

A restored refresh token that no longer maps to a live session is the
normal signed-out case: the controller settles on unauthenticated and the
redirect fires. A failed query keeps the state unknown so a transient
store outage does not kick an authenticated client to the login flow.
*/
func (controller *Controller) Start(context context.Context, refreshToken string) error {
	session, err := controller.gateway.CurrentSession(context, refreshToken)
	if err != nil {
		controller.logger.WarnContext(context, "initial session query failed",
			slog.Any("error", err),
		)
		return err
	}
	controller.apply(session)
	return nil
}

// Login signs the client in. The new session is applied before the call
// returns, whether it arrives via the gateway's push or the return value;
// both carry the same snapshot, so applying twice is harmless.
func (controller *Controller) Login(context context.Context, email, password string) (*identity.Session, error) {
	session, err := controller.gateway.Login(context, email, password)
	if err != nil {
		return nil, err
	}
	controller.apply(session)
	return session, nil
}

// Logout revokes the current session. The redirect fires exactly once even
// though both the gateway's push and the local apply signal the sign-out.
func (controller *Controller) Logout(context context.Context) error {
	controller.mu.Lock()
	refreshToken := ""
	if controller.session != nil {
		refreshToken = controller.session.RefreshToken
	}
	controller.mu.Unlock()

	if err := controller.gateway.Logout(context, refreshToken); err != nil {
		return err
	}
	controller.apply(nil)
	return nil
}

// State returns the current lifecycle state.
func (controller *Controller) State() State {
	controller.mu.Lock()
	defer controller.mu.Unlock()
	return controller.state
}

// Session returns a detached copy of the currently held session, or nil
// when signed out. Mutating the copy never touches the controller's state.
func (controller *Controller) Session() *identity.Session {
	controller.mu.Lock()
	defer controller.mu.Unlock()
	return cloneSession(controller.session)
}

// Close detaches the controller from the auth-state stream. Idempotent.
func (controller *Controller) Close() {
	controller.subscription.Unsubscribe()
}

// apply replaces the held session wholesale and fires the redirect when a
// signed-out episode begins. It is the only state mutator.
func (controller *Controller) apply(session *identity.Session) {
	controller.mu.Lock()

	fire := false
	if session != nil {
		controller.state = StateAuthenticated
		// Hold a private copy: callers keep their own pointer (from Login or
		// the gateway push) and must not be able to reach into held state.
		controller.session = cloneSession(session)
		// Re-authentication re-arms the redirect for the next sign-out.
		controller.redirected = false
	} else {
		controller.state = StateUnauthenticated
		controller.session = nil
		if !controller.redirected {
			controller.redirected = true
			fire = true
		}
	}
	state := controller.state
	controller.mu.Unlock()

	controller.logger.Debug("session state applied",
		slog.String("state", state.String()),
	)

	// Outside the lock: the hook may call back into the controller.
	if fire && controller.redirect != nil {
		controller.redirect()
	}
}

// cloneSession deep-copies a session so no two holders share mutable state.
func cloneSession(session *identity.Session) *identity.Session {
	if session == nil {
		return nil
	}
	snapshot := *session
	if session.Identity != nil {
		owner := *session.Identity
		owner.Metadata = maps.Clone(session.Identity.Metadata)
		snapshot.Identity = &owner
	}
	return &snapshot
}
