// Copyright (c) 2026 Taaga. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/taaga/internal/platform/middleware"
	requestutil "github.com/taibuivan/taaga/internal/platform/request"
	"github.com/taibuivan/taaga/internal/platform/respond"
	"github.com/taibuivan/taaga/internal/platform/validate"
)

// # HTTP Delivery

// Handler exposes the product endpoints over HTTP.
type Handler struct {
	service *Service
}

// NewHandler creates the catalog HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes assembles the /products sub-router. Reads are public; mutations
// require an authenticated caller.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.List)
	router.Get("/{productId}", handler.Get)

	router.Group(func(protected chi.Router) {
		protected.Use(middleware.RequireAuth)
		protected.Post("/", handler.Create)
		protected.Put("/{productId}", handler.Update)
		protected.Delete("/{productId}", handler.Delete)
	})

	return router
}

// List handles GET /api/products.
func (handler *Handler) List(writer http.ResponseWriter, request *http.Request) {
	products, err := handler.service.List(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, products)
}

// Get handles GET /api/products/{productId}.
func (handler *Handler) Get(writer http.ResponseWriter, request *http.Request) {
	productID := requestutil.Param(request, FieldProductID)
	if err := (&validate.Validator{}).UUID(FieldProductID, productID).Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	product, err := handler.service.Get(request.Context(), productID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, product)
}

// Create handles POST /api/products.
func (handler *Handler) Create(writer http.ResponseWriter, request *http.Request) {
	var input CreateInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	product, err := handler.service.Create(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, product)
}

// Update handles PUT /api/products/{productId}.
func (handler *Handler) Update(writer http.ResponseWriter, request *http.Request) {
	productID := requestutil.Param(request, FieldProductID)
	if err := (&validate.Validator{}).UUID(FieldProductID, productID).Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input UpdateInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	product, err := handler.service.Update(request.Context(), productID, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, product)
}

// Delete handles DELETE /api/products/{productId}.
func (handler *Handler) Delete(writer http.ResponseWriter, request *http.Request) {
	productID := requestutil.Param(request, FieldProductID)
	if err := (&validate.Validator{}).UUID(FieldProductID, productID).Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Delete(request.Context(), productID); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OKMessage(writer, "Product deleted.", nil)
}
