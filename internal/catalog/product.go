// Copyright (c) 2026 Taaga. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package catalog manages the product catalog of the storefront.

Products are simple flat records (name, slug, description, price, image).
Reads are public; mutations require an authenticated caller.
*/
package catalog

import (
	"time"
)

// Product represents a sellable item in the storefront.
type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description *string   `json:"description"`
	Price       float64   `json:"price"`
	ImageURL    *string   `json:"image_url"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// # Field Identifiers

const (
	FieldProductID   = "productId"
	FieldName        = "name"
	FieldDescription = "description"
	FieldPrice       = "price"
	FieldImageURL    = "image_url"
)

// # Validation Limits

const (
	MaxNameLength        = 200
	MaxDescriptionLength = 5000
	MaxImageURLLength    = 2048
)

// # Inputs

// CreateInput carries the fields required to create a product.
type CreateInput struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Price       float64 `json:"price"`
	ImageURL    *string `json:"image_url"`
}

// UpdateInput carries a partial product update. Nil means "not supplied".
type UpdateInput struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	ImageURL    *string  `json:"image_url"`
}

// IsEmpty reports whether no field was supplied at all.
func (input UpdateInput) IsEmpty() bool {
	return input.Name == nil && input.Description == nil && input.Price == nil && input.ImageURL == nil
}
