// Copyright (c) 2026 Taaga. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// ProfileTable represents the 'profiles' table
//
// The primary key on ID doubles as the unique constraint that makes
// get-or-create safe: a concurrent duplicate insert fails with SQLSTATE 23505
// instead of producing a second row.
type ProfileTable struct {
	Table     string
	ID        string
	FullName  string
	Phone     string
	Address   string
	CreatedAt string
	UpdatedAt string
}

// Profile is the schema definition for profiles
var Profile = ProfileTable{
	Table:     "profiles",
	ID:        "id",
	FullName:  "full_name",
	Phone:     "phone",
	Address:   "address",
	CreatedAt: "created_at",
	UpdatedAt: "updated_at",
}

// Columns returns all standard column names
func (t ProfileTable) Columns() []string {
	return []string{t.ID, t.FullName, t.Phone, t.Address, t.CreatedAt, t.UpdatedAt}
}
