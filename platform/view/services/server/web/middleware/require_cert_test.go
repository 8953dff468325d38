/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package middleware_test

import (
	"crypto/tls"
	"crypto/x509"
	"net/http"
	"net/http/httptest"

	"github.com/hyperledger-labs/peerweb/platform/view/services/server/web/middleware"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("RequireCert", func() {
	var (
		handler http.Handler
		req     *http.Request
		resp    *httptest.ResponseRecorder
	)

	BeforeEach(func() {
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTeapot)
		})
		handler = middleware.RequireCert()(next)
		req = httptest.NewRequest("GET", "/metrics", nil)
		resp = httptest.NewRecorder()
	})

	It("passes plain HTTP requests through", func() {
		handler.ServeHTTP(resp, req)
		Expect(resp.Code).To(Equal(http.StatusTeapot))
	})

	It("rejects TLS requests without a verified client certificate", func() {
		req.TLS = &tls.ConnectionState{}
		handler.ServeHTTP(resp, req)
		Expect(resp.Code).To(Equal(http.StatusUnauthorized))
	})

	It("accepts TLS requests with a verified client certificate", func() {
		req.TLS = &tls.ConnectionState{VerifiedChains: [][]*x509.Certificate{{{}}}}
		handler.ServeHTTP(resp, req)
		Expect(resp.Code).To(Equal(http.StatusTeapot))
	})
})
