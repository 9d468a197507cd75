// Copyright (c) 2026 Taaga. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package identity

import (
	"context"
	"time"
)

// # Store Contracts

// IdentityStore abstracts persistence of identities (Postgres).
type IdentityStore interface {
	// Create persists a new identity. Returns a conflict error when the
	// email is already registered.
	Create(context context.Context, identity *Identity) error

	// FindByEmail returns the identity registered under email, or a
	// not-found error.
	FindByEmail(context context.Context, email string) (*Identity, error)

	// FindByID returns the identity with the given id, or a not-found error.
	FindByID(context context.Context, id string) (*Identity, error)
}

// SessionRecord is the persisted shape of a refresh session. The refresh
// token itself is never stored; only its SHA-256 hash keys the record.
type SessionRecord struct {
	IdentityID string    `json:"identity_id"`
	IssuedAt   time.Time `json:"issued_at"`
}

// SessionStore abstracts the volatile refresh-session registry (Redis).
//
// Find returns (nil, nil) when no live session exists for the token hash:
// an absent session is a normal signed-out state, not a storage failure.
type SessionStore interface {
	Save(context context.Context, tokenHash string, record *SessionRecord, ttl time.Duration) error
	Find(context context.Context, tokenHash string) (*SessionRecord, error)
	Delete(context context.Context, tokenHash string) error
}
