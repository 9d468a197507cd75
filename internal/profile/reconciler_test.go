// Copyright (c) 2026 Taaga. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package profile

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/taaga/internal/platform/apperr"
	"github.com/taibuivan/taaga/pkg/pointer"
)

// # Test Doubles

// memoryStore is an in-memory Store honoring the full error contract,
// including conflict on duplicate insert.
type memoryStore struct {
	mu          sync.Mutex
	rows        map[string]*Profile
	insertCalls int
	updateCalls int

	// insertDelay widens the race window in concurrency tests.
	insertDelay time.Duration
	// failFind, when set, is returned by FindByID unconditionally.
	failFind error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{rows: make(map[string]*Profile)}
}

func (store *memoryStore) FindByID(_ context.Context, id string) (*Profile, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	if store.failFind != nil {
		return nil, store.failFind
	}
	row, ok := store.rows[id]
	if !ok {
		return nil, apperr.NotFound("Profile")
	}
	clone := *row
	return &clone, nil
}

func (store *memoryStore) Insert(_ context.Context, profile *Profile) error {
	if store.insertDelay > 0 {
		time.Sleep(store.insertDelay)
	}

	store.mu.Lock()
	defer store.mu.Unlock()

	store.insertCalls++
	if _, exists := store.rows[profile.ID]; exists {
		return apperr.Conflict("Resource already exists")
	}
	clone := *profile
	store.rows[profile.ID] = &clone
	return nil
}

func (store *memoryStore) UpdateFields(_ context.Context, id string, fields map[string]string) (*Profile, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	store.updateCalls++
	row, ok := store.rows[id]
	if !ok {
		return nil, apperr.NotFound("Profile")
	}
	if value, supplied := fields[FieldFullName]; supplied {
		row.FullName = pointer.To(value)
	}
	if value, supplied := fields[FieldPhone]; supplied {
		row.Phone = pointer.To(value)
	}
	if value, supplied := fields[FieldAddress]; supplied {
		row.Address = pointer.To(value)
	}
	row.UpdatedAt = time.Now()

	clone := *row
	return &clone, nil
}

// staticHints resolves name hints from a fixed map.
type staticHints map[string]string

func (hints staticHints) NameHint(_ context.Context, identityID string) (string, error) {
	return hints[identityID], nil
}

func newTestReconciler(store Store, hints MetadataSource) *Reconciler {
	if hints == nil {
		hints = staticHints{}
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewReconciler(store, hints, logger)
}

const (
	testUserID  = "0192d6a0-0000-7000-8000-0000000000aa"
	otherUserID = "0192d6a0-0000-7000-8000-0000000000bb"
)

// # EnsureProfile

func TestEnsureProfileCreatesMissingRowWithNameHint(t *testing.T) {
	store := newMemoryStore()
	reconciler := newTestReconciler(store, staticHints{testUserID: "Jane Doe"})

	profile, err := reconciler.EnsureProfile(context.Background(), testUserID)
	require.NoError(t, err)

	assert.Equal(t, testUserID, profile.ID)
	require.NotNil(t, profile.FullName)
	assert.Equal(t, "Jane Doe", *profile.FullName)
	assert.Nil(t, profile.Phone)
	assert.Nil(t, profile.Address)
	assert.Equal(t, 1, store.insertCalls)
}

func TestEnsureProfileWithoutHintLeavesNameEmpty(t *testing.T) {
	store := newMemoryStore()
	reconciler := newTestReconciler(store, nil)

	profile, err := reconciler.EnsureProfile(context.Background(), testUserID)
	require.NoError(t, err)
	assert.Nil(t, profile.FullName)
}

func TestEnsureProfileIsIdempotent(t *testing.T) {
	store := newMemoryStore()
	reconciler := newTestReconciler(store, staticHints{testUserID: "Jane Doe"})

	first, err := reconciler.EnsureProfile(context.Background(), testUserID)
	require.NoError(t, err)
	second, err := reconciler.EnsureProfile(context.Background(), testUserID)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1, store.insertCalls, "second ensure must not insert again")
}

func TestEnsureProfileRecoversFromLostCreateRace(t *testing.T) {
	// The row already exists (another writer won), but the reconciler's
	// first read misses it. The insert then hits the conflict, which must
	// be recovered by re-reading the surviving row.
	store := newMemoryStore()
	store.rows[testUserID] = &Profile{ID: testUserID, FullName: pointer.To("First Writer")}

	racing := &raceStore{inner: store}
	reconciler := newTestReconciler(racing, nil)

	profile, err := reconciler.EnsureProfile(context.Background(), testUserID)
	require.NoError(t, err)
	require.NotNil(t, profile.FullName)
	assert.Equal(t, "First Writer", *profile.FullName, "must return the surviving row, not the loser's draft")
}

// raceStore reports not-found on the first read only, simulating a writer
// that sneaks in between the reconciler's read and its insert.
type raceStore struct {
	inner *memoryStore
	reads int
	mu    sync.Mutex
}

func (store *raceStore) FindByID(ctx context.Context, id string) (*Profile, error) {
	store.mu.Lock()
	store.reads++
	first := store.reads == 1
	store.mu.Unlock()

	if first {
		return nil, apperr.NotFound("Profile")
	}
	return store.inner.FindByID(ctx, id)
}

func (store *raceStore) Insert(ctx context.Context, profile *Profile) error {
	return store.inner.Insert(ctx, profile)
}

func (store *raceStore) UpdateFields(ctx context.Context, id string, fields map[string]string) (*Profile, error) {
	return store.inner.UpdateFields(ctx, id, fields)
}

func TestEnsureProfileConcurrentCallsCreateOneRow(t *testing.T) {
	store := newMemoryStore()
	store.insertDelay = 10 * time.Millisecond
	reconciler := newTestReconciler(store, nil)

	const workers = 16
	var wg sync.WaitGroup
	results := make([]*Profile, workers)
	errs := make([]error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(slot int) {
			defer wg.Done()
			results[slot], errs[slot] = reconciler.EnsureProfile(context.Background(), testUserID)
		}(i)
	}
	wg.Wait()

	for i := 0; i < workers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, testUserID, results[i].ID)
	}
	assert.Len(t, store.rows, 1)
	assert.Equal(t, 1, store.insertCalls, "concurrent ensures must coalesce into one insert")
}

func TestEnsureProfilePropagatesStoreFailure(t *testing.T) {
	store := newMemoryStore()
	store.failFind = apperr.StoreUnavailable(assert.AnError)
	reconciler := newTestReconciler(store, nil)

	_, err := reconciler.EnsureProfile(context.Background(), testUserID)
	require.Error(t, err)
	assert.True(t, apperr.IsStoreUnavailable(err))
	assert.Equal(t, 0, store.insertCalls, "must not insert blindly on a failed read")
}

// # ApplyUpdate

func TestApplyUpdateRejectsForeignProfile(t *testing.T) {
	store := newMemoryStore()
	reconciler := newTestReconciler(store, nil)

	_, err := reconciler.ApplyUpdate(context.Background(), testUserID, otherUserID, UpdateInput{
		Phone: pointer.To("555-0100"),
	})

	require.Error(t, err)
	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, "NOT_AUTHORIZED", appError.Code)
	assert.Equal(t, 0, store.updateCalls)
}

func TestApplyUpdateRejectsEmptyInput(t *testing.T) {
	store := newMemoryStore()
	reconciler := newTestReconciler(store, nil)

	_, err := reconciler.ApplyUpdate(context.Background(), testUserID, testUserID, UpdateInput{})

	require.Error(t, err)
	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, "VALIDATION_ERROR", appError.Code)
	assert.Equal(t, 0, store.insertCalls, "validation must run before any write")
	assert.Equal(t, 0, store.updateCalls)
}

func TestApplyUpdatePartialPreservesUnsuppliedFields(t *testing.T) {
	store := newMemoryStore()
	store.rows[testUserID] = &Profile{
		ID:       testUserID,
		FullName: pointer.To("Jane Doe"),
		Address:  pointer.To("12 Rue de la Paix"),
	}
	reconciler := newTestReconciler(store, nil)

	updated, err := reconciler.ApplyUpdate(context.Background(), testUserID, testUserID, UpdateInput{
		Phone: pointer.To("555-0100"),
	})
	require.NoError(t, err)

	require.NotNil(t, updated.Phone)
	assert.Equal(t, "555-0100", *updated.Phone)
	require.NotNil(t, updated.FullName)
	assert.Equal(t, "Jane Doe", *updated.FullName, "unsupplied field must keep its stored value")
	require.NotNil(t, updated.Address)
	assert.Equal(t, "12 Rue de la Paix", *updated.Address)
}

func TestApplyUpdateCreatesMissingRowFirst(t *testing.T) {
	store := newMemoryStore()
	reconciler := newTestReconciler(store, staticHints{testUserID: "Jane Doe"})

	updated, err := reconciler.ApplyUpdate(context.Background(), testUserID, testUserID, UpdateInput{
		Phone: pointer.To("555-0100"),
	})
	require.NoError(t, err)

	assert.Equal(t, 1, store.insertCalls, "first update of a fresh account must create the row")
	require.NotNil(t, updated.FullName)
	assert.Equal(t, "Jane Doe", *updated.FullName, "seeded name must survive the update")
	require.NotNil(t, updated.Phone)
	assert.Equal(t, "555-0100", *updated.Phone)
}

func TestApplyUpdateIsIdempotent(t *testing.T) {
	store := newMemoryStore()
	store.rows[testUserID] = &Profile{
		ID:       testUserID,
		FullName: pointer.To("Jane Doe"),
		Address:  pointer.To("12 Rue de la Paix"),
	}
	reconciler := newTestReconciler(store, nil)

	input := UpdateInput{
		Phone:   pointer.To("555-0100"),
		Address: pointer.To("14 Rue de la Paix"),
	}

	first, err := reconciler.ApplyUpdate(context.Background(), testUserID, testUserID, input)
	require.NoError(t, err)
	second, err := reconciler.ApplyUpdate(context.Background(), testUserID, testUserID, input)
	require.NoError(t, err)

	// Replaying the same partial update must converge on the same row.
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, pointer.Val(first.FullName), pointer.Val(second.FullName))
	assert.Equal(t, pointer.Val(first.Phone), pointer.Val(second.Phone))
	assert.Equal(t, pointer.Val(first.Address), pointer.Val(second.Address))
	assert.Len(t, store.rows, 1)
	assert.Equal(t, 0, store.insertCalls, "an existing row is never re-created")
}

func TestApplyUpdateExplicitEmptyStringClearsField(t *testing.T) {
	store := newMemoryStore()
	store.rows[testUserID] = &Profile{
		ID:    testUserID,
		Phone: pointer.To("555-0100"),
	}
	reconciler := newTestReconciler(store, nil)

	updated, err := reconciler.ApplyUpdate(context.Background(), testUserID, testUserID, UpdateInput{
		Phone: pointer.To(""),
	})
	require.NoError(t, err)
	require.NotNil(t, updated.Phone)
	assert.Equal(t, "", *updated.Phone)
}

func TestApplyUpdateBoundsFieldLengths(t *testing.T) {
	store := newMemoryStore()
	reconciler := newTestReconciler(store, nil)

	tooLong := make([]byte, MaxPhoneLength+1)
	for i := range tooLong {
		tooLong[i] = '5'
	}

	_, err := reconciler.ApplyUpdate(context.Background(), testUserID, testUserID, UpdateInput{
		Phone: pointer.To(string(tooLong)),
	})

	require.Error(t, err)
	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, "VALIDATION_ERROR", appError.Code)
}
