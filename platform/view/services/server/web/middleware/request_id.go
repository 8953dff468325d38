/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package middleware

import (
	"context"
	"net/http"
)

const RequestIDHeader = "X-Request-ID"

type requestIDKeyType struct{}

var requestIDKey = requestIDKeyType{}

type Generator func() string

// WithRequestID tags each request with the id found in the X-Request-ID header,
// or a generated one, and echoes it in the response.
func WithRequestID(generator Generator) Middleware {
	return func(next http.Handler) http.Handler {
		return &requestID{next: next, generator: generator}
	}
}

type requestID struct {
	generator Generator
	next      http.Handler
}

func (r *requestID) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	reqID := req.Header.Get(RequestIDHeader)
	if reqID == "" {
		reqID = r.generator()
		req.Header.Set(RequestIDHeader, reqID)
	}

	ctx := context.WithValue(req.Context(), requestIDKey, reqID)
	req = req.WithContext(ctx)

	w.Header().Add(RequestIDHeader, reqID)

	r.next.ServeHTTP(w, req)
}

// RequestID returns the request id stored in ctx, if any.
func RequestID(ctx context.Context) string {
	if reqID, ok := ctx.Value(requestIDKey).(string); ok {
		return reqID
	}
	return "unknown"
}
