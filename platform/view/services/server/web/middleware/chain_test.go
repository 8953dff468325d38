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

// tagging writes its tag before and after the wrapped handler.
func tagging(tag string) middleware.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, err := w.Write([]byte(tag + ":before,"))
			Expect(err).NotTo(HaveOccurred())
			next.ServeHTTP(w, r)
			_, err = w.Write([]byte(tag + ":after,"))
			Expect(err).NotTo(HaveOccurred())
		})
	}
}

var _ = Describe("Chain", func() {
	var (
		chain middleware.Chain
		query http.Handler
		req   *http.Request
		resp  *httptest.ResponseRecorder
	)

	BeforeEach(func() {
		chain = middleware.NewChain(tagging("limit"), tagging("id"), tagging("log"))
		query = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, err := w.Write([]byte("Risultato della query: 42,"))
			Expect(err).NotTo(HaveOccurred())
		})
		req = httptest.NewRequest("GET", "/query", nil)
		resp = httptest.NewRecorder()
	})

	It("calls middleware in the given order, first outermost", func() {
		chain.Handler(query).ServeHTTP(resp, req)
		Expect(resp.Body.String()).To(Equal(
			"limit:before,id:before,log:before,Risultato della query: 42,log:after,id:after,limit:after,",
		))
	})

	Context("with the request id ahead of the access log", func() {
		var logger *fakeLogger

		BeforeEach(func() {
			logger = &fakeLogger{}
			chain = middleware.NewChain(
				middleware.WithRequestID(func() string { return "run-42" }),
				middleware.WithLogging(logger),
			)
		})

		It("logs the id assigned by the outer middleware", func() {
			chain.Handler(query).ServeHTTP(resp, req)
			Expect(resp.Header().Get(middleware.RequestIDHeader)).To(Equal("run-42"))
			Expect(logger.fields).To(HaveLen(1))
			Expect(logger.fields[0]).To(HaveKeyWithValue("requestID", "run-42"))
			Expect(logger.fields[0]).To(HaveKeyWithValue("path", "/query"))
		})
	})

	Context("when the chain is empty", func() {
		BeforeEach(func() {
			chain = middleware.NewChain()
		})

		It("calls the handler", func() {
			chain.Handler(query).ServeHTTP(resp, req)
			Expect(resp.Body.String()).To(Equal("Risultato della query: 42,"))
		})
	})

	Context("when the handler is nil", func() {
		It("uses the DefaultServerMux", func() {
			chain.Handler(nil).ServeHTTP(resp, req)
			Expect(resp.Body.String()).To(ContainSubstring("404 page not found"))
		})
	})
})
