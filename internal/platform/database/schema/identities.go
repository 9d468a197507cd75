// Copyright (c) 2026 Taaga. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package schema centralizes table and column names for every query in the
// service, so a rename happens in exactly one place.
package schema

// IdentityTable represents the 'identities' table
type IdentityTable struct {
	Table        string
	ID           string
	Email        string
	PasswordHash string
	Metadata     string
	IsConfirmed  string
	CreatedAt    string
}

// Identity is the schema definition for identities
var Identity = IdentityTable{
	Table:        "identities",
	ID:           "id",
	Email:        "email",
	PasswordHash: "password_hash",
	Metadata:     "metadata",
	IsConfirmed:  "is_confirmed",
	CreatedAt:    "created_at",
}

// Columns returns all standard column names
func (t IdentityTable) Columns() []string {
	return []string{t.ID, t.Email, t.PasswordHash, t.Metadata, t.IsConfirmed, t.CreatedAt}
}
