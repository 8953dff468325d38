/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package web

import (
	"bytes"
	"context"
	"embed"
	"html/template"
	"io"
	"net/http"
	"strconv"

	"github.com/hyperledger-labs/peerweb/platform/fabric/services/peercli"
	"github.com/hyperledger-labs/peerweb/platform/view/services/server/web/middleware"
	"github.com/hyperledger-labs/peerweb/platform/view/services/storage/history"
	"github.com/pkg/errors"
)

// QueryPrefix starts every /query response body.
const QueryPrefix = "Risultato della query: "

//go:embed templates
var templates embed.FS

// ChaincodeService runs the configured chaincode commands.
type ChaincodeService interface {
	Invoke(ctx context.Context) *peercli.Result
	Query(ctx context.Context) *peercli.Result
}

type HistoryReader interface {
	List(limit int) ([]history.Record, error)
}

// Dispatcher serves the index page and maps the invoke and query endpoints
// onto peer CLI runs.
type Dispatcher struct {
	service      ChaincodeService
	history      HistoryReader
	historyLimit int
	index        *template.Template
	Logger       logger
}

// NewDispatcher fails when the index template cannot be parsed.
func NewDispatcher(service ChaincodeService, h HistoryReader, historyLimit int, l logger) (*Dispatcher, error) {
	index, err := template.ParseFS(templates, "templates/index.html")
	if err != nil {
		return nil, errors.Wrap(err, "failed parsing index template")
	}
	return &Dispatcher{
		service:      service,
		history:      h,
		historyLimit: historyLimit,
		index:        index,
		Logger:       l,
	}, nil
}

// Install registers the dispatcher routes. Invokes go through invokeLimiter, which may be nil.
func (d *Dispatcher) Install(h *HttpHandler, invokeLimiter *middleware.KeyedLimiter) {
	h.RegisterURI("/", http.MethodGet, http.HandlerFunc(d.Index))
	h.RegisterURI("/invoke", http.MethodPost, middleware.WithRateLimit(invokeLimiter)(http.HandlerFunc(d.Invoke)))
	h.RegisterURI("/query", http.MethodGet, http.HandlerFunc(d.Query))
	if d.history != nil {
		h.RegisterURI("/history", http.MethodGet, http.HandlerFunc(d.History))
	}
}

func (d *Dispatcher) Index(w http.ResponseWriter, r *http.Request) {
	d.renderIndex(w)
}

// Invoke runs the invoke command and renders the index page whatever the outcome.
func (d *Dispatcher) Invoke(w http.ResponseWriter, r *http.Request) {
	// the run outlives a client that goes away
	res := d.service.Invoke(context.WithoutCancel(r.Context()))
	d.Logger.Debugf("[%s] invoke run [%s] completed with status [%s]", middleware.RequestID(r.Context()), res.RunID, res.Status())
	d.renderIndex(w)
}

// Query runs the query command and returns its standard output, as is, after QueryPrefix.
func (d *Dispatcher) Query(w http.ResponseWriter, r *http.Request) {
	res := d.service.Query(context.WithoutCancel(r.Context()))
	d.Logger.Debugf("[%s] query run [%s] completed with status [%s]", middleware.RequestID(r.Context()), res.RunID, res.Status())

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := io.WriteString(w, QueryPrefix+res.Stdout); err != nil {
		d.Logger.Warnf("failed writing query response: %s", err)
	}
}

// History returns the most recent runs, newest first.
func (d *Dispatcher) History(w http.ResponseWriter, r *http.Request) {
	limit := d.historyLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			sendErr(w, http.StatusBadRequest, "limit must be a positive integer", d.Logger, nil)
			return
		}
		if d.historyLimit <= 0 || n < d.historyLimit {
			limit = n
		}
	}
	records, err := d.history.List(limit)
	if err != nil {
		sendErr(w, http.StatusInternalServerError, "failed reading history", d.Logger, err)
		return
	}
	if records == nil {
		records = []history.Record{}
	}
	sendJSON(w, records, d.Logger)
}

func (d *Dispatcher) renderIndex(w http.ResponseWriter) {
	var buf bytes.Buffer
	if err := d.index.Execute(&buf, nil); err != nil {
		d.Logger.Errorf("failed rendering index: %s", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		d.Logger.Warnf("failed writing index: %s", err)
	}
}
