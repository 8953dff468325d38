/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package middleware_test

import (
	"net/http"
	"net/http/httptest"

	"github.com/hyperledger-labs/peerweb/platform/view/services/server/web/middleware"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("WithRequestID", func() {
	var (
		seen    string
		handler http.Handler
		resp    *httptest.ResponseRecorder
	)

	BeforeEach(func() {
		seen = ""
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = middleware.RequestID(r.Context())
		})
		handler = middleware.WithRequestID(func() string { return "generated-id" })(next)
		resp = httptest.NewRecorder()
	})

	It("generates an id when the request carries none", func() {
		handler.ServeHTTP(resp, httptest.NewRequest("GET", "/", nil))
		Expect(seen).To(Equal("generated-id"))
		Expect(resp.Header().Get("X-Request-ID")).To(Equal("generated-id"))
	})

	It("propagates the id sent by the client", func() {
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("X-Request-ID", "client-id")
		handler.ServeHTTP(resp, req)
		Expect(seen).To(Equal("client-id"))
		Expect(resp.Header().Get("X-Request-ID")).To(Equal("client-id"))
	})

	It("reports unknown outside of the middleware", func() {
		Expect(middleware.RequestID(httptest.NewRequest("GET", "/", nil).Context())).To(Equal("unknown"))
	})
})
