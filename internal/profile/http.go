// Copyright (c) 2026 Taaga. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package profile

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/taaga/internal/platform/middleware"
	requestutil "github.com/taibuivan/taaga/internal/platform/request"
	"github.com/taibuivan/taaga/internal/platform/respond"
	"github.com/taibuivan/taaga/internal/platform/validate"
)

// # HTTP Delivery

// Handler exposes the profile endpoints over HTTP.
type Handler struct {
	reconciler *Reconciler
}

// NewHandler creates the profile HTTP handler.
func NewHandler(reconciler *Reconciler) *Handler {
	return &Handler{reconciler: reconciler}
}

// Routes assembles the /profile sub-router.
//
// The by-id read is public; writes and the self-service routes require an
// authenticated caller.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Group(func(protected chi.Router) {
		protected.Use(middleware.RequireAuth)
		protected.Get("/me", handler.Me)
		protected.Put("/me", handler.UpdateMe)
		protected.Put("/{userId}", handler.Update)
	})
	router.Get("/{userId}", handler.Get)

	return router
}

/*
Get handles GET /api/profile/{userId}.

Plain read: a profile that does not exist yet is a 404, never an implicit
create. The on-demand create path is reserved for the authenticated /me
route.
*/
func (handler *Handler) Get(writer http.ResponseWriter, request *http.Request) {
	userID := requestutil.Param(request, FieldUserID)
	if err := (&validate.Validator{}).UUID(FieldUserID, userID).Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	profile, err := handler.reconciler.GetProfile(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, profile)
}

/*
Update handles PUT /api/profile/{userId}.

The caller must own the addressed profile; the reconciler enforces the
match and creates the row first when it is missing.
*/
func (handler *Handler) Update(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	userID := requestutil.Param(request, FieldUserID)
	if err := (&validate.Validator{}).UUID(FieldUserID, userID).Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	input, err := decodeUpdateInput(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	profile, err := handler.reconciler.ApplyUpdate(request.Context(), claims.UserID, userID, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, profile)
}

/*
Me handles GET /api/profile/me.

Get-or-create: a first-time visit after signup creates the profile row on
the spot, seeded from the signup metadata.
*/
func (handler *Handler) Me(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	profile, err := handler.reconciler.EnsureProfile(request.Context(), claims.UserID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, profile)
}

// UpdateMe handles PUT /api/profile/me — the by-id update addressed to the
// caller's own row.
func (handler *Handler) UpdateMe(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	input, err := decodeUpdateInput(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	profile, err := handler.reconciler.ApplyUpdate(request.Context(), claims.UserID, claims.UserID, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, profile)
}

/*
decodeUpdateInput parses a partial-update body.

The body is read as a raw key/value map first so the handler can tell
"field absent" apart from "field present but empty", and reject keys
outside the updatable whitelist instead of silently dropping them.
*/
func decodeUpdateInput(request *http.Request) (UpdateInput, error) {
	var raw map[string]json.RawMessage
	if err := requestutil.DecodeJSON(request, &raw); err != nil {
		return UpdateInput{}, err
	}

	var input UpdateInput
	validator := &validate.Validator{}

	for key, value := range raw {
		var target **string
		switch key {
		case FieldFullName:
			target = &input.FullName
		case FieldPhone:
			target = &input.Phone
		case FieldAddress:
			target = &input.Address
		default:
			validator.Custom(key, true, "Unknown field")
			continue
		}

		var parsed *string
		if err := json.Unmarshal(value, &parsed); err != nil {
			validator.Custom(key, true, "Must be a string or null")
			continue
		}
		// JSON null means "not supplied": updates never null out a field.
		if parsed != nil {
			*target = parsed
		}
	}

	if err := validator.Err(); err != nil {
		return UpdateInput{}, err
	}
	return input, nil
}
