// Copyright (c) 2026 Taaga. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package identity

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/taaga/internal/platform/constants"
	requestutil "github.com/taibuivan/taaga/internal/platform/request"
	"github.com/taibuivan/taaga/internal/platform/respond"
	"github.com/taibuivan/taaga/internal/platform/validate"
)

// # HTTP Delivery

// Handler exposes the authentication endpoints over HTTP.
type Handler struct {
	gateway *Gateway
}

// NewHandler creates the auth HTTP handler.
func NewHandler(gateway *Gateway) *Handler {
	return &Handler{gateway: gateway}
}

// Routes assembles the /auth sub-router.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/signup", handler.Signup)
	router.Post("/login", handler.Login)
	router.Post("/logout", handler.Logout)
	router.Get("/session", handler.Session)

	return router
}

// # Request / Response Shapes

type signupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

// metadata flattens the optional profile-seed fields into the metadata map
// attached to the new identity, or nil when none were supplied.
func (request signupRequest) metadata() map[string]string {
	seeds := map[string]string{
		MetadataKeyFullName: request.FullName,
		MetadataKeyPhone:    request.Phone,
		MetadataKeyAddress:  request.Address,
	}
	for key, value := range seeds {
		if value == "" {
			delete(seeds, key)
		}
	}
	if len(seeds) == 0 {
		return nil
	}
	return seeds
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type logoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// sessionResponse mirrors the wire shape the storefront consumes: the user
// object and the token bundle are separate keys under data.
type sessionResponse struct {
	User    *Identity   `json:"user"`
	Session tokenBundle `json:"session"`
}

type tokenBundle struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresAt    int64  `json:"expires_at"` // Unix seconds
}

func newSessionResponse(session *Session) sessionResponse {
	return sessionResponse{
		User: session.Identity,
		Session: tokenBundle{
			AccessToken:  session.AccessToken,
			RefreshToken: session.RefreshToken,
			ExpiresAt:    session.ExpiresAt.Unix(),
		},
	}
}

// # Handlers

/*
Signup handles POST /api/auth/signup.

Registers a new identity. No session is opened: the response tells the
client to sign in explicitly.
*/
func (handler *Handler) Signup(writer http.ResponseWriter, request *http.Request) {
	var payload signupRequest
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := (&validate.Validator{}).
		Required(FieldEmail, payload.Email).
		MaxLen(FieldEmail, payload.Email, MaxEmailLength).
		Required(FieldPassword, payload.Password).
		MinLen(FieldPassword, payload.Password, MinPasswordLength).
		MaxLen(FieldPassword, payload.Password, MaxPasswordLength).
		MaxLen(MetadataKeyFullName, payload.FullName, MaxMetadataValue).
		MaxLen(MetadataKeyPhone, payload.Phone, MaxMetadataValue).
		MaxLen(MetadataKeyAddress, payload.Address, MaxMetadataValue)
	if payload.Email != "" {
		validator.Email(FieldEmail, payload.Email)
	}
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	identity, err := handler.gateway.SignUp(request.Context(), payload.Email, payload.Password, payload.metadata())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, identity)
}

/*
Login handles POST /api/auth/login.

Verifies credentials and returns the user together with the token bundle.
*/
func (handler *Handler) Login(writer http.ResponseWriter, request *http.Request) {
	var payload loginRequest
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := (&validate.Validator{}).
		Required(FieldEmail, payload.Email).
		Required(FieldPassword, payload.Password).
		Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.gateway.Login(request.Context(), payload.Email, payload.Password)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, newSessionResponse(session))
}

/*
Logout handles POST /api/auth/logout.

Revokes the refresh session named in the body. Idempotent: logging out an
already-revoked token still succeeds.
*/
func (handler *Handler) Logout(writer http.ResponseWriter, request *http.Request) {
	var payload logoutRequest
	// A missing or empty body is fine; logout must never fail on input shape.
	_ = requestutil.DecodeJSON(request, &payload)

	if err := handler.gateway.Logout(request.Context(), payload.RefreshToken); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OKMessage(writer, "Signed out.", nil)
}

/*
Session handles GET /api/auth/session.

Resolves the X-Refresh-Token header to a live session. A signed-out state is
a success with null data, never an error.
*/
func (handler *Handler) Session(writer http.ResponseWriter, request *http.Request) {
	refreshToken := request.Header.Get(constants.HeaderXRefreshToken)

	session, err := handler.gateway.CurrentSession(request.Context(), refreshToken)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if session == nil {
		respond.OK(writer, nil)
		return
	}
	respond.OK(writer, newSessionResponse(session))
}
