// Copyright (c) 2026 Taaga. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package identity

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/taaga/internal/platform/apperr"
)

// # Test Doubles

// fakeIdentityStore is an in-memory IdentityStore with email uniqueness.
// Matching is deliberately case-sensitive: the provider, not the store, owns
// email normalization.
type fakeIdentityStore struct {
	mu   sync.Mutex
	rows map[string]*Identity // keyed by id
}

func newFakeIdentityStore() *fakeIdentityStore {
	return &fakeIdentityStore{rows: make(map[string]*Identity)}
}

func (store *fakeIdentityStore) Create(_ context.Context, identity *Identity) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	for _, row := range store.rows {
		if row.Email == identity.Email {
			return apperr.Conflict("Resource already exists")
		}
	}
	clone := *identity
	store.rows[identity.ID] = &clone
	return nil
}

func (store *fakeIdentityStore) FindByEmail(_ context.Context, email string) (*Identity, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	for _, row := range store.rows {
		if row.Email == email {
			clone := *row
			return &clone, nil
		}
	}
	return nil, apperr.NotFound("Identity")
}

func (store *fakeIdentityStore) FindByID(_ context.Context, id string) (*Identity, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	row, ok := store.rows[id]
	if !ok {
		return nil, apperr.NotFound("Identity")
	}
	clone := *row
	return &clone, nil
}

// fakeSessionStore is an in-memory SessionStore; TTL is ignored.
type fakeSessionStore struct {
	mu      sync.Mutex
	records map[string]*SessionRecord
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{records: make(map[string]*SessionRecord)}
}

func (store *fakeSessionStore) Save(_ context.Context, tokenHash string, record *SessionRecord, _ time.Duration) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	clone := *record
	store.records[tokenHash] = &clone
	return nil
}

func (store *fakeSessionStore) Find(_ context.Context, tokenHash string) (*SessionRecord, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	record, ok := store.records[tokenHash]
	if !ok {
		return nil, nil
	}
	clone := *record
	return &clone, nil
}

func (store *fakeSessionStore) Delete(_ context.Context, tokenHash string) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	delete(store.records, tokenHash)
	return nil
}

// fakeTokenIssuer mints distinguishable tokens without real signing.
type fakeTokenIssuer struct {
	mu     sync.Mutex
	issued int
}

func (issuer *fakeTokenIssuer) GenerateAccessToken(userID, _ string, _ time.Duration) (string, error) {
	issuer.mu.Lock()
	defer issuer.mu.Unlock()
	issuer.issued++
	return fmt.Sprintf("access-%s-%d", userID, issuer.issued), nil
}

func newTestProvider() (*LocalProvider, *fakeIdentityStore, *fakeSessionStore) {
	identities := newFakeIdentityStore()
	sessions := newFakeSessionStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	provider := NewLocalProvider(identities, sessions, &fakeTokenIssuer{}, logger)
	return provider, identities, sessions
}

// # SignUp

func TestSignUpCreatesUnconfirmedIdentityWithoutSession(t *testing.T) {
	provider, _, sessions := newTestProvider()

	identity, err := provider.SignUp(context.Background(), "jane@taaga.shop", "s3cret-pass", map[string]string{
		MetadataKeyFullName: "Jane Doe",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, identity.ID)
	assert.Equal(t, "jane@taaga.shop", identity.Email)
	assert.False(t, identity.IsConfirmed)
	assert.Equal(t, "Jane Doe", identity.NameHint())
	assert.NotEqual(t, "s3cret-pass", identity.PasswordHash, "password must never be stored raw")
	assert.Empty(t, sessions.records, "signup must not open a session")
}

func TestSignUpRejectsDuplicateEmail(t *testing.T) {
	provider, _, _ := newTestProvider()

	_, err := provider.SignUp(context.Background(), "jane@taaga.shop", "s3cret-pass", nil)
	require.NoError(t, err)

	_, err = provider.SignUp(context.Background(), "Jane@taaga.shop", "other-pass", nil)
	require.Error(t, err)
	assert.True(t, apperr.IsConflict(err))
}

func TestSignUpStoresNormalizedEmail(t *testing.T) {
	provider, identities, _ := newTestProvider()

	created, err := provider.SignUp(context.Background(), "  Jane@Taaga.Shop ", "s3cret-pass", nil)
	require.NoError(t, err)
	assert.Equal(t, "jane@taaga.shop", created.Email)

	stored, err := identities.FindByEmail(context.Background(), "jane@taaga.shop")
	require.NoError(t, err)
	assert.Equal(t, created.ID, stored.ID)
}

// # SignInWithPassword

func TestSignInOpensSessionAndBroadcasts(t *testing.T) {
	provider, _, _ := newTestProvider()
	_, err := provider.SignUp(context.Background(), "jane@taaga.shop", "s3cret-pass", nil)
	require.NoError(t, err)

	var observed *Session
	subscription := provider.OnAuthStateChange(func(session *Session) {
		observed = session
	})
	defer subscription.Unsubscribe()

	session, err := provider.SignInWithPassword(context.Background(), "jane@taaga.shop", "s3cret-pass")
	require.NoError(t, err)

	assert.NotEmpty(t, session.AccessToken)
	assert.NotEmpty(t, session.RefreshToken)
	assert.True(t, session.ExpiresAt.After(time.Now()))
	require.NotNil(t, observed, "sign-in must push the session to observers before returning")
	assert.Equal(t, session.RefreshToken, observed.RefreshToken)
}

func TestSignInRejectsBadCredentialsUniformly(t *testing.T) {
	provider, _, _ := newTestProvider()
	_, err := provider.SignUp(context.Background(), "jane@taaga.shop", "s3cret-pass", nil)
	require.NoError(t, err)

	_, wrongPassword := provider.SignInWithPassword(context.Background(), "jane@taaga.shop", "wrong-pass")
	_, unknownEmail := provider.SignInWithPassword(context.Background(), "nobody@taaga.shop", "s3cret-pass")

	require.Error(t, wrongPassword)
	require.Error(t, unknownEmail)
	// Same message for both so the endpoint does not leak which accounts exist.
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
	assert.Equal(t, "UNAUTHORIZED", apperr.As(wrongPassword).Code)
}

func TestSignInAcceptsAnyEmailCasing(t *testing.T) {
	provider, _, _ := newTestProvider()
	_, err := provider.SignUp(context.Background(), "Jane@taaga.shop", "s3cret-pass", nil)
	require.NoError(t, err)

	session, err := provider.SignInWithPassword(context.Background(), "jane@TAAGA.shop", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, "jane@taaga.shop", session.Identity.Email)
}

// # GetSession / SignOut

func TestGetSessionResolvesLiveRefreshToken(t *testing.T) {
	provider, _, _ := newTestProvider()
	_, err := provider.SignUp(context.Background(), "jane@taaga.shop", "s3cret-pass", nil)
	require.NoError(t, err)

	opened, err := provider.SignInWithPassword(context.Background(), "jane@taaga.shop", "s3cret-pass")
	require.NoError(t, err)

	resolved, err := provider.GetSession(context.Background(), opened.RefreshToken)
	require.NoError(t, err)
	require.NotNil(t, resolved)

	assert.Equal(t, opened.Identity.ID, resolved.Identity.ID)
	assert.Equal(t, opened.RefreshToken, resolved.RefreshToken)
	assert.NotEqual(t, opened.AccessToken, resolved.AccessToken, "each resolution mints a fresh access token")
}

func TestGetSessionUnknownTokenIsSignedOutNotError(t *testing.T) {
	provider, _, _ := newTestProvider()

	session, err := provider.GetSession(context.Background(), "no-such-token")
	require.NoError(t, err)
	assert.Nil(t, session)

	session, err = provider.GetSession(context.Background(), "")
	require.NoError(t, err)
	assert.Nil(t, session)
}

func TestSignOutRevokesSessionAndBroadcastsNil(t *testing.T) {
	provider, _, _ := newTestProvider()
	_, err := provider.SignUp(context.Background(), "jane@taaga.shop", "s3cret-pass", nil)
	require.NoError(t, err)
	opened, err := provider.SignInWithPassword(context.Background(), "jane@taaga.shop", "s3cret-pass")
	require.NoError(t, err)

	pushes := 0
	var last *Session
	subscription := provider.OnAuthStateChange(func(session *Session) {
		pushes++
		last = session
	})
	defer subscription.Unsubscribe()

	require.NoError(t, provider.SignOut(context.Background(), opened.RefreshToken))
	assert.Equal(t, 1, pushes)
	assert.Nil(t, last)

	resolved, err := provider.GetSession(context.Background(), opened.RefreshToken)
	require.NoError(t, err)
	assert.Nil(t, resolved, "a revoked token must resolve to signed out")

	// Revoking again is a no-op, not an error.
	require.NoError(t, provider.SignOut(context.Background(), opened.RefreshToken))
}
