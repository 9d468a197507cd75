// Copyright (c) 2026 Taaga. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/taibuivan/taaga/internal/platform/apperr"
	"github.com/taibuivan/taaga/internal/platform/validate"
	"github.com/taibuivan/taaga/pkg/slug"
	"github.com/taibuivan/taaga/pkg/uuid"
)

// Service implements the catalog business rules on top of a Store.
type Service struct {
	store  Store
	logger *slog.Logger
}

// NewService creates a catalog Service.
func NewService(store Store, logger *slog.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// List returns all products, newest first.
func (service *Service) List(context context.Context) ([]Product, error) {
	return service.store.List(context)
}

// Get returns a single product by id.
func (service *Service) Get(context context.Context, id string) (*Product, error) {
	return service.store.FindByID(context, id)
}

/*
Create validates the input and persists a new product.

The URL slug is derived from the name; a name that slugs to nothing (all
punctuation, for example) is rejected rather than stored with an empty slug.
*/
func (service *Service) Create(context context.Context, input CreateInput) (*Product, error) {
	name := strings.TrimSpace(input.Name)
	if err := (&validate.Validator{}).
		Required(FieldName, name).
		MaxLen(FieldName, name, MaxNameLength).
		Custom(FieldPrice, input.Price < 0, "Price must not be negative").
		Custom(FieldDescription, input.Description != nil && len(*input.Description) > MaxDescriptionLength, "Description is too long").
		Custom(FieldImageURL, input.ImageURL != nil && len(*input.ImageURL) > MaxImageURLLength, "Image URL is too long").
		Err(); err != nil {
		return nil, err
	}

	productSlug := slug.From(name)
	if productSlug == "" {
		return nil, validate.RequiredError(FieldName, "Name must contain at least one alphanumeric character")
	}

	now := time.Now()
	product := &Product{
		ID:          uuid.New(),
		Name:        name,
		Slug:        productSlug,
		Description: input.Description,
		Price:       input.Price,
		ImageURL:    input.ImageURL,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := service.store.Create(context, product); err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "product created",
		slog.String("product_id", product.ID),
		slog.String("slug", product.Slug),
	)
	return product, nil
}

/*
Update applies a partial update to an existing product.

A renamed product gets a fresh slug derived from the new name; all other
fields are overwritten only when supplied.
*/
func (service *Service) Update(context context.Context, id string, input UpdateInput) (*Product, error) {
	if input.IsEmpty() {
		return nil, apperr.ValidationError("No updatable fields supplied")
	}

	product, err := service.store.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	validator := &validate.Validator{}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		validator.Required(FieldName, name).MaxLen(FieldName, name, MaxNameLength)
		if name != "" {
			product.Name = name
			product.Slug = slug.From(name)
			validator.Custom(FieldName, product.Slug == "", "Name must contain at least one alphanumeric character")
		}
	}
	if input.Price != nil {
		validator.Custom(FieldPrice, *input.Price < 0, "Price must not be negative")
		product.Price = *input.Price
	}
	if input.Description != nil {
		validator.Custom(FieldDescription, len(*input.Description) > MaxDescriptionLength, "Description is too long")
		product.Description = input.Description
	}
	if input.ImageURL != nil {
		validator.Custom(FieldImageURL, len(*input.ImageURL) > MaxImageURLLength, "Image URL is too long")
		product.ImageURL = input.ImageURL
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	product.UpdatedAt = time.Now()
	if err := service.store.Update(context, product); err != nil {
		return nil, err
	}
	return product, nil
}

// Delete removes a product by id.
func (service *Service) Delete(context context.Context, id string) error {
	if err := service.store.Delete(context, id); err != nil {
		return err
	}
	service.logger.InfoContext(context, "product deleted",
		slog.String("product_id", id),
	)
	return nil
}
