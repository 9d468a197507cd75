// Copyright (c) 2026 Taaga. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package profile

import (
	"context"
)

// # Store Contract

/*
Store abstracts profile persistence.

Error contract (what the reconciler's retry logic depends on):

  - FindByID returns a not-found error for an absent row — absence is an
    explicit signal here, never (nil, nil).
  - Insert returns a conflict error when the primary key already exists.
    The store's own uniqueness guarantee is the final authority in the
    get-or-create race; the reconciler catches the conflict and re-reads.
  - UpdateFields writes only the supplied columns and returns the full
    updated row, or a not-found error when the row is absent.
  - Infrastructure failures surface as store-unavailable errors, which are
    safe to retry without risking duplicate rows.
*/
type Store interface {
	FindByID(context context.Context, id string) (*Profile, error)
	Insert(context context.Context, profile *Profile) error
	UpdateFields(context context.Context, id string, fields map[string]string) (*Profile, error)
}
