/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package logging

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNamedTestLogger(t *testing.T) {
	l, recorder := NewTestLogger(t, Named("peerweb"))
	l.Infof("ran [%s]", "invoke")
	l.Named("web").Warnf("slow")

	assert.Equal(t, []string{"ran [invoke]", "slow"}, recorder.Messages())
	assert.Len(t, recorder.EntriesContaining("slow"), 1)
}

func TestWithFields(t *testing.T) {
	l, recorder := NewTestLogger(t)
	l.With("kind", "query").Infof("done")
	require.Len(t, recorder.Messages(), 1)
	assert.Equal(t, "done", recorder.Messages()[0])
}

func TestSpecHandler(t *testing.T) {
	defer ActivateSpec("info")

	h := NewSpecHandler()
	req := httptest.NewRequest(http.MethodPut, "/logspec", strings.NewReader(`{"spec":"debug"}`))
	resp := httptest.NewRecorder()
	h.ServeHTTP(resp, req)
	assert.Equal(t, http.StatusNoContent, resp.Code)
	assert.Equal(t, "debug", Spec())
}
