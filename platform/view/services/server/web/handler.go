/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package web

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
)

type ResponseErr struct {
	Reason string
}

type logger interface {
	Debugf(template string, args ...interface{})
	Warnf(template string, args ...interface{})
	Infof(template string, args ...interface{})
	Errorf(template string, args ...interface{})
}

// HttpHandler routes requests by path and method. A path registered for another
// method answers 405, an unknown path 404.
type HttpHandler struct {
	r      *mux.Router
	Logger logger
}

func NewHttpHandler(l logger) *HttpHandler {
	return &HttpHandler{r: mux.NewRouter(), Logger: l}
}

func (h *HttpHandler) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	h.r.ServeHTTP(w, req)
}

func (h *HttpHandler) RegisterURI(uri string, method string, handler http.Handler) {
	h.r.Handle(uri, handler).Methods(method)
}

func sendJSON(resp http.ResponseWriter, v interface{}, l logger) {
	resp.Header().Set("Content-Type", "application/json")
	resp.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(resp).Encode(v); err != nil {
		l.Warnf("Failed encoding response: %v", err)
	}
}

func sendErr(resp http.ResponseWriter, code int, errToClient string, l logger, errLogged error) {
	if errLogged != nil {
		l.Warnf("Failed processing request: %v", errLogged)
	}

	encoder := json.NewEncoder(resp)
	resp.Header().Set("Content-Type", "application/json")
	resp.WriteHeader(code)
	if err := encoder.Encode(&ResponseErr{Reason: errToClient}); err != nil {
		l.Warnf("Failed encoding response: %v", err)
	}
}
