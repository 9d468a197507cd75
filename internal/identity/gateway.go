// Copyright (c) 2026 Taaga. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package identity

import (
	"context"
	"log/slog"

	"github.com/taibuivan/taaga/internal/platform/apperr"
)

// # Session Gateway

/*
Gateway is the thin seam between the application and the authentication
provider. Handlers and the session lifecycle controller talk to the Gateway,
never to the Provider directly, so a provider swap touches exactly one type.

Normalization rules:

  - Every error leaving the Gateway is an [apperr.AppError]; raw provider
    failures are folded into STORE_UNAVAILABLE.
  - Session absence stays (nil, nil): the Gateway never converts the
    signed-out state into an error.
*/
type Gateway struct {
	provider   Provider
	identities IdentityStore
	logger     *slog.Logger
}

// NewGateway creates a Gateway over the given provider.
// The identity store backs direct identity lookups for authenticated routes.
func NewGateway(provider Provider, identities IdentityStore, logger *slog.Logger) *Gateway {
	return &Gateway{
		provider:   provider,
		identities: identities,
		logger:     logger,
	}
}

// SignUp registers a new identity. No session is opened; the caller is
// expected to direct the user through an explicit sign-in.
func (gateway *Gateway) SignUp(context context.Context, email, password string, metadata map[string]string) (*Identity, error) {
	identity, err := gateway.provider.SignUp(context, email, password, metadata)
	if err != nil {
		return nil, gateway.normalize(context, err, "signup")
	}
	return identity, nil
}

// Login verifies credentials and returns the opened session.
func (gateway *Gateway) Login(context context.Context, email, password string) (*Session, error) {
	session, err := gateway.provider.SignInWithPassword(context, email, password)
	if err != nil {
		return nil, gateway.normalize(context, err, "login")
	}
	return session, nil
}

// Logout revokes the refresh session. Idempotent: revoking an unknown or
// already-revoked token succeeds.
func (gateway *Gateway) Logout(context context.Context, refreshToken string) error {
	if err := gateway.provider.SignOut(context, refreshToken); err != nil {
		return gateway.normalize(context, err, "logout")
	}
	return nil
}

// CurrentSession resolves a refresh token to a live session, or (nil, nil)
// when signed out.
func (gateway *Gateway) CurrentSession(context context.Context, refreshToken string) (*Session, error) {
	session, err := gateway.provider.GetSession(context, refreshToken)
	if err != nil {
		return nil, gateway.normalize(context, err, "get_session")
	}
	return session, nil
}

// Identity returns the stored identity for id. Used by authenticated routes
// that need the signup metadata (profile defaulting).
func (gateway *Gateway) Identity(context context.Context, id string) (*Identity, error) {
	identity, err := gateway.identities.FindByID(context, id)
	if err != nil {
		return nil, gateway.normalize(context, err, "identity_lookup")
	}
	return identity, nil
}

// NameHint resolves the display-name seed from an identity's signup
// metadata. An unknown identity or one without a hint yields an empty
// string: defaulting must never block profile creation.
func (gateway *Gateway) NameHint(context context.Context, identityID string) (string, error) {
	identity, err := gateway.identities.FindByID(context, identityID)
	if err != nil {
		if apperr.IsNotFound(err) {
			return "", nil
		}
		return "", gateway.normalize(context, err, "name_hint")
	}
	return identity.NameHint(), nil
}

// OnAuthStateChange registers callback on the provider's auth-state stream.
func (gateway *Gateway) OnAuthStateChange(callback func(session *Session)) Subscription {
	return gateway.provider.OnAuthStateChange(callback)
}

// normalize guarantees the apperr contract on the way out.
func (gateway *Gateway) normalize(context context.Context, err error, operation string) error {
	if apperr.IsAppError(err) {
		return err
	}
	gateway.logger.ErrorContext(context, "auth provider failure",
		slog.String("operation", operation),
		slog.Any("error", err),
	)
	return apperr.StoreUnavailable(err)
}
