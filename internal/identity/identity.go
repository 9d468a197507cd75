// Copyright (c) 2026 Taaga. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package identity implements the authentication provider and its session gateway.

It owns the externally-issued side of the account model: credential
verification, token-pair issuance, and push-style auth-state notifications.
The contact profile attached to an identity lives in the profile package;
this package only carries the metadata seed used for profile defaulting.

# Architecture

  - Provider: The narrow authentication contract (sign-up, password sign-in,
    sign-out, session query, state-change subscription).
  - LocalProvider: The in-house implementation — bcrypt credentials in
    Postgres, refresh sessions in Redis, RS256 access tokens.
  - Gateway: Thin normalization layer consumed by the session lifecycle
    controller and the HTTP surface.
*/
package identity

import (
	"time"
)

// # Domain Entities

// Identity represents an authenticated principal issued at signup.
//
// It is immutable from this subsystem's view: only account deletion (out of
// scope here) destroys one.
type Identity struct {
	ID           string            `json:"id"`
	Email        string            `json:"email"`
	PasswordHash string            `json:"-"` // Explicitly omitted from JSON for security.
	Metadata     map[string]string `json:"metadata,omitempty"`
	IsConfirmed  bool              `json:"is_confirmed"`
	CreatedAt    time.Time         `json:"created_at"`
}

// NameHint returns the display-name seed carried in the signup metadata,
// or an empty string when none was supplied.
func (identity *Identity) NameHint() string {
	if identity.Metadata == nil {
		return ""
	}
	if name := identity.Metadata[MetadataKeyFullName]; name != "" {
		return name
	}
	return identity.Metadata[MetadataKeyName]
}

// Session represents an active token pair bound to an Identity.
//
// Sessions are replaced wholesale on every state change; consumers must treat
// a Session value as an immutable snapshot.
type Session struct {
	Identity     *Identity `json:"user"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// # Field Identifiers

// Global field names for validation and metadata mapping in the identity domain.
const (
	FieldEmail    = "email"
	FieldPassword = "password"
	FieldToken    = "token"

	MetadataKeyFullName = "full_name"
	MetadataKeyName     = "name"
	MetadataKeyPhone    = "phone"
	MetadataKeyAddress  = "address"
)
