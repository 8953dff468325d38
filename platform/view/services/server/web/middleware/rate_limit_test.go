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

var _ = Describe("WithRateLimit", func() {
	var (
		calls   int
		handler http.Handler
	)

	serve := func(remoteAddr string) int {
		req := httptest.NewRequest("POST", "/invoke", nil)
		req.RemoteAddr = remoteAddr
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, req)
		return resp.Code
	}

	BeforeEach(func() {
		calls = 0
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
		})
		handler = middleware.WithRateLimit(middleware.NewKeyedLimiter(0.001, 2))(next)
	})

	It("rejects a client over its burst without calling the handler", func() {
		Expect(serve("10.0.0.1:1000")).To(Equal(http.StatusOK))
		Expect(serve("10.0.0.1:1001")).To(Equal(http.StatusOK))
		Expect(serve("10.0.0.1:1002")).To(Equal(http.StatusTooManyRequests))
		Expect(calls).To(Equal(2))
	})

	It("keeps a separate budget per client", func() {
		Expect(serve("10.0.0.1:1000")).To(Equal(http.StatusOK))
		Expect(serve("10.0.0.1:1000")).To(Equal(http.StatusOK))
		Expect(serve("10.0.0.2:1000")).To(Equal(http.StatusOK))
		Expect(calls).To(Equal(3))
	})

	Context("when limiting is disabled", func() {
		BeforeEach(func() {
			Expect(middleware.NewKeyedLimiter(0, 1)).To(BeNil())
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { calls++ })
			handler = middleware.WithRateLimit(nil)(next)
		})

		It("lets every request through", func() {
			for i := 0; i < 10; i++ {
				Expect(serve("10.0.0.1:1000")).To(Equal(http.StatusOK))
			}
			Expect(calls).To(Equal(10))
		})
	})
})
