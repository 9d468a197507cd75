// Copyright (c) 2026 Taaga. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import (
	"context"
)

// Store abstracts product persistence.
//
// FindByID and Update return a not-found error for an absent row; Create
// returns a conflict error when the slug is already taken.
type Store interface {
	List(context context.Context) ([]Product, error)
	FindByID(context context.Context, id string) (*Product, error)
	Create(context context.Context, product *Product) error
	Update(context context.Context, product *Product) error
	Delete(context context.Context, id string) error
}
