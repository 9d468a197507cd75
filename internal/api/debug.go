// Copyright (c) 2026 Taaga. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api

import (
	"io"
	"net/http"

	"github.com/taibuivan/taaga/internal/platform/respond"
)

// maxDebugBodyBytes caps how much of a request body the echo reflects.
const maxDebugBodyBytes = 64 * 1024

// TestHandler handles GET /api/test, the storefront's connectivity check.
func TestHandler(writer http.ResponseWriter, request *http.Request) {
	respond.OKMessage(writer, "API is working!", nil)
}

/*
DebugHandler handles POST /api/debug.

It reflects the request back at the caller (method, URL, headers, body) so
a storefront developer can see exactly what the API receives after proxies
and middleware. The body is truncated, never rejected, on oversized input.
*/
func DebugHandler(writer http.ResponseWriter, request *http.Request) {
	body, err := io.ReadAll(io.LimitReader(request.Body, maxDebugBodyBytes))
	if err != nil {
		body = []byte("")
	}

	headers := make(map[string]string, len(request.Header))
	for name := range request.Header {
		headers[name] = request.Header.Get(name)
	}

	respond.OK(writer, map[string]any{
		"method":  request.Method,
		"url":     request.URL.String(),
		"headers": headers,
		"body":    string(body),
	})
}
