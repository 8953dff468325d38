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

type fakeLogger struct {
	msgs   []string
	fields []map[string]interface{}
}

func (f *fakeLogger) Infow(msg string, keysAndValues ...interface{}) {
	fields := map[string]interface{}{}
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		fields[keysAndValues[i].(string)] = keysAndValues[i+1]
	}
	f.msgs = append(f.msgs, msg)
	f.fields = append(f.fields, fields)
}

var _ = Describe("WithLogging", func() {
	var (
		logger *fakeLogger
		chain  middleware.Chain
	)

	BeforeEach(func() {
		logger = &fakeLogger{}
		chain = middleware.NewChain(
			middleware.WithRequestID(func() string { return "req-1" }),
			middleware.WithLogging(logger),
		)
	})

	It("logs method, path and status", func() {
		teapot := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTeapot)
		})
		chain.Handler(teapot).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("POST", "/invoke", nil))

		Expect(logger.msgs).To(Equal([]string{"handled request"}))
		Expect(logger.fields[0]).To(HaveKeyWithValue("requestID", "req-1"))
		Expect(logger.fields[0]).To(HaveKeyWithValue("method", "POST"))
		Expect(logger.fields[0]).To(HaveKeyWithValue("path", "/invoke"))
		Expect(logger.fields[0]).To(HaveKeyWithValue("status", http.StatusTeapot))
	})

	It("defaults the status to 200", func() {
		ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, err := w.Write([]byte("ok"))
			Expect(err).NotTo(HaveOccurred())
		})
		chain.Handler(ok).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))
		Expect(logger.fields[0]).To(HaveKeyWithValue("status", http.StatusOK))
	})
})
