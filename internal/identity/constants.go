// Copyright (c) 2026 Taaga. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package identity

import "time"

// # Token Lifetimes

const (
	// AccessTokenTTL is the lifetime of a signed access token. Short by
	// policy: a stolen token stays valid for at most this window.
	AccessTokenTTL = 15 * time.Minute

	// RefreshTokenTTL is the lifetime of the Redis-backed refresh session.
	// Querying the session inside this window mints a fresh access token.
	RefreshTokenTTL = 30 * 24 * time.Hour

	// RefreshTokenByteLength is the entropy of a refresh token before hex
	// encoding (32 bytes = 256 bits, 64 hex chars on the wire).
	RefreshTokenByteLength = 32
)

// # Validation Limits

const (
	MinPasswordLength = 8
	MaxPasswordLength = 72 // bcrypt truncates beyond 72 bytes
	MaxEmailLength    = 254
	MaxMetadataValue  = 200
)
