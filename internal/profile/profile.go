// Copyright (c) 2026 Taaga. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package profile reconciles identities with their contact profiles.

An identity (issued by the auth provider) and its profile row (owned by this
service) are created at different times by different actors, so the two can
legitimately disagree: a signed-in user may have no profile row yet. The
reconciler in this package converges them — reads create the missing row on
demand, and writes go through an ensure-then-update sequence so an update
can never fail on a row that merely had not been created yet.

# Architecture

  - Reconciler: Application service (get-or-create, restricted partial update).
  - Store: Persistence contract, Postgres implementation in store_postgres.go.
  - Handler: HTTP delivery in http.go.
*/
package profile

import (
	"context"
	"time"
)

// # Domain Entities

// Profile is the contact profile attached to exactly one identity.
// The row shares its primary key with the identity it belongs to.
type Profile struct {
	ID        string    `json:"id"`
	FullName  *string   `json:"full_name"`
	Phone     *string   `json:"phone"`
	Address   *string   `json:"address"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// # Field Identifiers

const (
	FieldFullName = "full_name"
	FieldPhone    = "phone"
	FieldAddress  = "address"
	FieldUserID   = "userId"
)

// UpdatableFields is the closed set of profile columns a client may write.
// Everything else on the row (id, timestamps) is owned by the service.
var UpdatableFields = []string{FieldFullName, FieldPhone, FieldAddress}

// # Validation Limits

const (
	MaxFullNameLength = 120
	MaxPhoneLength    = 32
	MaxAddressLength  = 500
)

// # Update Input

// UpdateInput carries a partial profile update. A nil field means "not
// supplied — leave the stored value untouched"; a non-nil empty string is an
// explicit clear.
type UpdateInput struct {
	FullName *string
	Phone    *string
	Address  *string
}

// IsEmpty reports whether no updatable field was supplied at all.
func (input UpdateInput) IsEmpty() bool {
	return input.FullName == nil && input.Phone == nil && input.Address == nil
}

// Fields flattens the supplied values into a column → value map, in
// [UpdatableFields] order.
func (input UpdateInput) Fields() map[string]string {
	fields := make(map[string]string, 3)
	if input.FullName != nil {
		fields[FieldFullName] = *input.FullName
	}
	if input.Phone != nil {
		fields[FieldPhone] = *input.Phone
	}
	if input.Address != nil {
		fields[FieldAddress] = *input.Address
	}
	return fields
}

// # Collaborator Contracts

// MetadataSource resolves the signup metadata hint used to seed the display
// name of a newly created profile. An identity without a hint resolves to
// an empty string, not an error.
type MetadataSource interface {
	NameHint(context context.Context, identityID string) (string, error)
}
