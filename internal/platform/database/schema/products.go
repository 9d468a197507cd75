// Copyright (c) 2026 Taaga. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// ProductTable represents the 'products' table
type ProductTable struct {
	Table       string
	ID          string
	Name        string
	Slug        string
	Description string
	Price       string
	ImageURL    string
	CreatedAt   string
	UpdatedAt   string
}

// Product is the schema definition for products
var Product = ProductTable{
	Table:       "products",
	ID:          "id",
	Name:        "name",
	Slug:        "slug",
	Description: "description",
	Price:       "price",
	ImageURL:    "image_url",
	CreatedAt:   "created_at",
	UpdatedAt:   "updated_at",
}

// Columns returns all standard column names
func (t ProductTable) Columns() []string {
	return []string{t.ID, t.Name, t.Slug, t.Description, t.Price, t.ImageURL, t.CreatedAt, t.UpdatedAt}
}
