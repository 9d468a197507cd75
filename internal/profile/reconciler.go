// Copyright (c) 2026 Taaga. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package profile

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/taibuivan/taaga/internal/platform/apperr"
	"github.com/taibuivan/taaga/internal/platform/dberr"
	"github.com/taibuivan/taaga/internal/platform/validate"
)

// # Reconciler

/*
Reconciler converges identities with their profile rows.

Concurrency model for get-or-create:

 1. In-process, concurrent ensures for the same identity are coalesced by
    a singleflight group, so one request does the work and the rest share
    its result.
 2. Across processes, the profiles primary key is the authority. A lost
    insert race surfaces as a conflict, which the reconciler converts into
    a re-read — the caller always receives the surviving row.

Either way the operation is idempotent: any number of ensures for the same
identity leave exactly one row behind.
*/
type Reconciler struct {
	store    Store
	metadata MetadataSource
	group    singleflight.Group
	logger   *slog.Logger
}

// NewReconciler creates a Reconciler with its dependencies injected.
func NewReconciler(store Store, metadata MetadataSource, logger *slog.Logger) *Reconciler {
	return &Reconciler{
		store:    store,
		metadata: metadata,
		logger:   logger,
	}
}

// GetProfile returns the profile for identityID without creating one.
// An absent row is a not-found error; reads over the public surface must
// never mutate state.
func (reconciler *Reconciler) GetProfile(context context.Context, identityID string) (*Profile, error) {
	return reconciler.store.FindByID(context, identityID)
}

/*
EnsureProfile returns the profile for identityID, creating it first if it
does not exist yet.

A newly created row is seeded with the identity's signup name hint when one
exists; phone and address start empty.

Returns:
  - The existing or newly created profile. Losing a concurrent create race
    is recovered internally and is not an error.
*/
func (reconciler *Reconciler) EnsureProfile(context context.Context, identityID string) (*Profile, error) {
	result, err, _ := reconciler.group.Do(identityID, func() (interface{}, error) {
		return reconciler.ensure(context, identityID)
	})
	if err != nil {
		return nil, err
	}
	return result.(*Profile), nil
}

func (reconciler *Reconciler) ensure(context context.Context, identityID string) (*Profile, error) {
	existing, err := reconciler.store.FindByID(context, identityID)
	if err == nil {
		return existing, nil
	}
	if !apperr.IsNotFound(err) {
		return nil, err
	}

	now := time.Now()
	created := &Profile{
		ID:        identityID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	hint, err := reconciler.metadata.NameHint(context, identityID)
	if err != nil {
		return nil, err
	}
	if hint != "" {
		created.FullName = &hint
	}

	if err := reconciler.store.Insert(context, created); err != nil {
		if dberr.IsUniqueViolation(err) {
			// Lost the create race: another writer owns the row now. The
			// store's uniqueness guarantee decided the winner; read it back.
			reconciler.logger.InfoContext(context, "profile create race recovered",
				slog.String("profile_id", identityID),
			)
			return reconciler.store.FindByID(context, identityID)
		}
		return nil, err
	}

	reconciler.logger.InfoContext(context, "profile created",
		slog.String("profile_id", identityID),
	)
	return created, nil
}

/*
ApplyUpdate writes a partial update to the profile owned by callerID.

Rules:

  - Ownership: callerID must equal targetID; anything else is rejected
    before any read or write happens.
  - Shape: at least one updatable field must be supplied. Supplied fields
    are bounded; unsupplied fields are left exactly as stored.
  - Create-or-update: a missing row is created first via the ensure path,
    then updated, so the first-ever update of a fresh account succeeds.

Returns:
  - The full updated profile as persisted.
*/
func (reconciler *Reconciler) ApplyUpdate(context context.Context, callerID, targetID string, input UpdateInput) (*Profile, error) {
	if callerID != targetID {
		return nil, apperr.NotAuthorized("You may only modify your own profile.")
	}

	if input.IsEmpty() {
		return nil, apperr.ValidationError("No updatable fields supplied")
	}
	if err := (&validate.Validator{}).
		Custom(FieldFullName, input.FullName != nil && len(*input.FullName) > MaxFullNameLength, "Full name is too long").
		Custom(FieldPhone, input.Phone != nil && len(*input.Phone) > MaxPhoneLength, "Phone number is too long").
		Custom(FieldAddress, input.Address != nil && len(*input.Address) > MaxAddressLength, "Address is too long").
		Err(); err != nil {
		return nil, err
	}

	// Guarantee the row before updating it. The ensure path absorbs both the
	// fresh-account case and any concurrent creator.
	if _, err := reconciler.EnsureProfile(context, targetID); err != nil {
		return nil, err
	}

	return reconciler.store.UpdateFields(context, targetID, input.Fields())
}
