/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package middleware

import (
	"net/http"
)

// RequireCert is used to ensure that a verified TLS client certificate was
// used for authentication. Plain HTTP requests pass through.
func RequireCert() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch {
			case r.TLS == nil:
				next.ServeHTTP(w, r)
			case len(r.TLS.VerifiedChains) == 0:
				w.WriteHeader(http.StatusUnauthorized)
			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}
