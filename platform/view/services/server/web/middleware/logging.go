/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package middleware

import (
	"net/http"
	"time"
)

type Logger interface {
	Infow(msg string, keysAndValues ...interface{})
}

// WithLogging logs one line per handled request.
func WithLogging(logger Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return &logging{next: next, logger: logger}
	}
}

type logging struct {
	logger Logger
	next   http.Handler
}

func (l *logging) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	start := time.Now()
	rw := &responseWriter{ResponseWriter: w, status: http.StatusOK}
	l.next.ServeHTTP(rw, req)

	l.logger.Infow("handled request",
		"requestID", RequestID(req.Context()),
		"remoteAddr", req.RemoteAddr,
		"method", req.Method,
		"path", req.URL.Path,
		"status", rw.status,
		"duration", time.Since(start),
	)
}

type responseWriter struct {
	http.ResponseWriter
	status int
}

func (r *responseWriter) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *responseWriter) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}
