// Copyright (c) 2026 Taaga. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/taaga/internal/platform/apperr"
	"github.com/taibuivan/taaga/pkg/pointer"
)

// memoryStore is an in-memory catalog Store for service tests.
type memoryStore struct {
	mu   sync.Mutex
	rows map[string]*Product
}

func newMemoryStore() *memoryStore {
	return &memoryStore{rows: make(map[string]*Product)}
}

func (store *memoryStore) List(_ context.Context) ([]Product, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	products := make([]Product, 0, len(store.rows))
	for _, row := range store.rows {
		products = append(products, *row)
	}
	sort.Slice(products, func(i, j int) bool {
		return products[i].CreatedAt.After(products[j].CreatedAt)
	})
	return products, nil
}

func (store *memoryStore) FindByID(_ context.Context, id string) (*Product, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	row, ok := store.rows[id]
	if !ok {
		return nil, apperr.NotFound("Product")
	}
	clone := *row
	return &clone, nil
}

func (store *memoryStore) Create(_ context.Context, product *Product) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	clone := *product
	store.rows[product.ID] = &clone
	return nil
}

func (store *memoryStore) Update(_ context.Context, product *Product) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	if _, ok := store.rows[product.ID]; !ok {
		return apperr.NotFound("Product")
	}
	clone := *product
	store.rows[product.ID] = &clone
	return nil
}

func (store *memoryStore) Delete(_ context.Context, id string) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	if _, ok := store.rows[id]; !ok {
		return apperr.NotFound("Product")
	}
	delete(store.rows, id)
	return nil
}

func newTestService(store Store) *Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(store, logger)
}

// # Tests

func TestCreateDerivesSlugFromName(t *testing.T) {
	service := newTestService(newMemoryStore())

	product, err := service.Create(context.Background(), CreateInput{
		Name:  "Linen Summer Dress — Édition Spéciale",
		Price: 89.90,
	})
	require.NoError(t, err)

	assert.Equal(t, "linen-summer-dress-edition-speciale", product.Slug)
	assert.NotEmpty(t, product.ID)
	assert.False(t, product.CreatedAt.IsZero())
}

func TestCreateRejectsInvalidInput(t *testing.T) {
	service := newTestService(newMemoryStore())

	testCases := []struct {
		name  string
		input CreateInput
	}{
		{name: "empty name", input: CreateInput{Name: "   ", Price: 10}},
		{name: "negative price", input: CreateInput{Name: "Dress", Price: -1}},
		{name: "name slugs to nothing", input: CreateInput{Name: "!!!", Price: 10}},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			_, err := service.Create(context.Background(), testCase.input)
			require.Error(t, err)
			appError := apperr.As(err)
			require.NotNil(t, appError)
			assert.Equal(t, "VALIDATION_ERROR", appError.Code)
		})
	}
}

func TestUpdateRenameRefreshesSlug(t *testing.T) {
	store := newMemoryStore()
	service := newTestService(store)

	product, err := service.Create(context.Background(), CreateInput{Name: "Old Name", Price: 10})
	require.NoError(t, err)

	updated, err := service.Update(context.Background(), product.ID, UpdateInput{
		Name: pointer.To("Brand New Name"),
	})
	require.NoError(t, err)

	assert.Equal(t, "Brand New Name", updated.Name)
	assert.Equal(t, "brand-new-name", updated.Slug)
	assert.Equal(t, product.Price, updated.Price, "unsupplied field keeps its value")
}

func TestUpdateRejectsEmptyInput(t *testing.T) {
	store := newMemoryStore()
	service := newTestService(store)

	product, err := service.Create(context.Background(), CreateInput{Name: "Dress", Price: 10})
	require.NoError(t, err)

	_, err = service.Update(context.Background(), product.ID, UpdateInput{})
	require.Error(t, err)
	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, "VALIDATION_ERROR", appError.Code)
}

func TestUpdateMissingProductIsNotFound(t *testing.T) {
	service := newTestService(newMemoryStore())

	_, err := service.Update(context.Background(), "0192d6a0-0000-7000-8000-0000000000aa", UpdateInput{
		Price: pointer.To(12.5),
	})
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))
}

func TestDeleteRemovesProduct(t *testing.T) {
	store := newMemoryStore()
	service := newTestService(store)

	product, err := service.Create(context.Background(), CreateInput{Name: "Dress", Price: 10})
	require.NoError(t, err)

	require.NoError(t, service.Delete(context.Background(), product.ID))

	_, err = service.Get(context.Background(), product.ID)
	assert.True(t, apperr.IsNotFound(err))

	err = service.Delete(context.Background(), product.ID)
	assert.True(t, apperr.IsNotFound(err), "deleting twice reports not found")
}
