// Copyright (c) 2026 Taaga. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api

import (
	"context"
	"net/http"

	"github.com/taibuivan/taaga/internal/platform/apperr"
	"github.com/taibuivan/taaga/internal/platform/constants"
	"github.com/taibuivan/taaga/internal/platform/respond"
)

// HealthCheck reports the health of one backing dependency.
type HealthCheck func(context context.Context) error

// HealthHandler serves the liveness and readiness probes.
type HealthHandler struct {
	checks map[string]HealthCheck
}

// NewHealthHandler creates the probe handler. Each named check runs on
// every readiness request.
func NewHealthHandler(checks map[string]HealthCheck) *HealthHandler {
	return &HealthHandler{checks: checks}
}

// Liveness handles GET /health: the process is up and serving.
func (handler *HealthHandler) Liveness(writer http.ResponseWriter, request *http.Request) {
	respond.OK(writer, map[string]string{
		constants.FieldStatus: "ok",
		"service":             constants.AppName,
		"version":             constants.AppVersion,
	})
}

// Readiness handles GET /ready: ready only when every backing store answers.
func (handler *HealthHandler) Readiness(writer http.ResponseWriter, request *http.Request) {
	for name, check := range handler.checks {
		if err := check(request.Context()); err != nil {
			failure := apperr.StoreUnavailable(err)
			failure.Message = name + " is not ready"
			respond.Error(writer, request, failure)
			return
		}
	}
	respond.OK(writer, map[string]string{constants.FieldStatus: "ready"})
}
