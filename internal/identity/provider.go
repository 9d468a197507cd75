// Copyright (c) 2026 Taaga. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package identity

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/taibuivan/taaga/internal/platform/apperr"
	"github.com/taibuivan/taaga/internal/platform/sec"
	"github.com/taibuivan/taaga/pkg/uuid"
)

// # Provider Contract

/*
Provider is the narrow authentication contract the rest of the system is
written against. Nothing outside this package may assume more than these
five operations.

Semantics:

  - SignUp registers credentials and returns the new identity. It never
    opens a session: the account must confirm before it can sign in data
    flows that require it, so callers direct the user to sign in explicitly.
  - SignInWithPassword verifies credentials and returns a full session.
    Implementations also push the new session to every auth-state observer
    before returning, so state holders are never momentarily inconsistent.
  - SignOut revokes the refresh session for the given token and pushes a
    nil session to observers. Revoking an unknown token is not an error.
  - GetSession resolves a refresh token to a live session, minting a fresh
    access token. It returns (nil, nil) when no session exists: absence is
    a normal signed-out state.
  - OnAuthStateChange registers an observer for session replacement events.
*/
type Provider interface {
	SignUp(context context.Context, email, password string, metadata map[string]string) (*Identity, error)
	SignInWithPassword(context context.Context, email, password string) (*Session, error)
	SignOut(context context.Context, refreshToken string) error
	GetSession(context context.Context, refreshToken string) (*Session, error)
	OnAuthStateChange(callback func(session *Session)) Subscription
}

// TokenIssuer abstracts access-token generation (implemented by sec.TokenService).
type TokenIssuer interface {
	GenerateAccessToken(userID, email string, timeToLive time.Duration) (string, error)
}

// # Local Provider

// LocalProvider is the in-house Provider implementation: bcrypt credentials
// in Postgres, hashed refresh sessions in Redis, RS256 access tokens.
type LocalProvider struct {
	identities IdentityStore
	sessions   SessionStore
	tokens     TokenIssuer
	events     *broadcaster
	logger     *slog.Logger
}

// NewLocalProvider creates a LocalProvider with its dependencies injected.
func NewLocalProvider(identities IdentityStore, sessions SessionStore, tokens TokenIssuer, logger *slog.Logger) *LocalProvider {
	return &LocalProvider{
		identities: identities,
		sessions:   sessions,
		tokens:     tokens,
		events:     newBroadcaster(),
		logger:     logger,
	}
}

/*
SignUp registers a new identity under the given email.

Parameters:
  - email: Unique login email (caller validates the format).
  - password: Plaintext password, hashed here and never stored raw.
  - metadata: Optional signup hints (display name etc.), kept verbatim.

Returns:
  - The created identity without a session, or a conflict error when the
    email is already registered.
*/
func (provider *LocalProvider) SignUp(context context.Context, email, password string, metadata map[string]string) (*Identity, error) {
	email = normalizeEmail(email)

	passwordHash, err := sec.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("signup_hash_failed: %w", err)
	}

	identity := &Identity{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: passwordHash,
		Metadata:     metadata,
		IsConfirmed:  false,
		CreatedAt:    time.Now(),
	}

	if err := provider.identities.Create(context, identity); err != nil {
		if apperr.IsConflict(err) {
			return nil, apperr.Conflict("An account with this email already exists.")
		}
		return nil, err
	}

	provider.logger.InfoContext(context, "identity registered",
		slog.String("identity_id", identity.ID),
	)
	return identity, nil
}

/*
SignInWithPassword verifies credentials and opens a new session.

The fresh session is broadcast to auth-state observers before this method
returns, so a lifecycle controller subscribed to the stream sees the new
state no later than the caller does.

Returns:
  - A full session (identity, access token, refresh token, expiry), or an
    unauthorized error on bad credentials. The same error is returned for
    an unknown email and a wrong password so the endpoint does not leak
    which accounts exist.
*/
func (provider *LocalProvider) SignInWithPassword(context context.Context, email, password string) (*Session, error) {
	identity, err := provider.identities.FindByEmail(context, normalizeEmail(email))
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.Unauthorized("Invalid email or password.")
		}
		return nil, err
	}

	if !sec.CheckPasswordHash(password, identity.PasswordHash) {
		return nil, apperr.Unauthorized("Invalid email or password.")
	}

	session, err := provider.openSession(context, identity)
	if err != nil {
		return nil, err
	}

	provider.logger.InfoContext(context, "identity signed in",
		slog.String("identity_id", identity.ID),
	)

	provider.events.Publish(session)
	return session, nil
}

// SignOut revokes the refresh session for the given token and broadcasts
// the signed-out state. Unknown tokens are revoked silently: sign-out is
// idempotent by design of the lifecycle contract.
func (provider *LocalProvider) SignOut(context context.Context, refreshToken string) error {
	if refreshToken != "" {
		if err := provider.sessions.Delete(context, sec.HashToken(refreshToken)); err != nil {
			return err
		}
	}

	provider.events.Publish(nil)
	return nil
}

/*
GetSession resolves a refresh token to a live session.

A fresh access token is minted on every successful resolution, which is how
clients keep a short access TTL without re-entering credentials.

Returns:
  - (nil, nil) when the token is empty, unknown, or expired — the normal
    signed-out state, not an error.
  - A live session otherwise.
*/
func (provider *LocalProvider) GetSession(context context.Context, refreshToken string) (*Session, error) {
	if refreshToken == "" {
		return nil, nil
	}

	record, err := provider.sessions.Find(context, sec.HashToken(refreshToken))
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, nil
	}

	identity, err := provider.identities.FindByID(context, record.IdentityID)
	if err != nil {
		if apperr.IsNotFound(err) {
			// Identity deleted out from under a live session: treat as signed out.
			return nil, nil
		}
		return nil, err
	}

	accessToken, err := provider.tokens.GenerateAccessToken(identity.ID, identity.Email, AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("session_token_refresh_failed: %w", err)
	}

	return &Session{
		Identity:     identity,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    time.Now().Add(AccessTokenTTL),
	}, nil
}

// OnAuthStateChange registers callback for session replacement events.
// A nil session delivered to the callback means signed out.
func (provider *LocalProvider) OnAuthStateChange(callback func(session *Session)) Subscription {
	return provider.events.Subscribe(callback)
}

// normalizeEmail lowercases and trims the address so stored values and
// lookups agree with the case-insensitive unique index on identities.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// openSession mints a token pair for identity and persists the refresh side.
func (provider *LocalProvider) openSession(context context.Context, identity *Identity) (*Session, error) {
	accessToken, err := provider.tokens.GenerateAccessToken(identity.ID, identity.Email, AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("session_token_issue_failed: %w", err)
	}

	refreshToken, err := sec.GenerateSecureToken(RefreshTokenByteLength)
	if err != nil {
		return nil, fmt.Errorf("session_refresh_issue_failed: %w", err)
	}

	record := &SessionRecord{
		IdentityID: identity.ID,
		IssuedAt:   time.Now(),
	}
	if err := provider.sessions.Save(context, sec.HashToken(refreshToken), record, RefreshTokenTTL); err != nil {
		return nil, err
	}

	return &Session{
		Identity:     identity,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    time.Now().Add(AccessTokenTTL),
	}, nil
}
