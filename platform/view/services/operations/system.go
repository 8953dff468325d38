/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package operations

import (
	"encoding/json"
	"net/http"

	"github.com/hyperledger-labs/peerweb/platform/common/services/logging"
	"github.com/hyperledger-labs/peerweb/platform/view/services/metrics"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Logger interface {
	Debugf(template string, args ...interface{})
	Info(...interface{})
	Warnf(template string, args ...interface{})
}

type MetricsOptions struct {
	Provider string
	TLS      bool
}

type Options struct {
	// TLS requires client certificates on the logspec endpoint, when the server verifies them.
	TLS     bool
	Metrics MetricsOptions
	Version string
}

type Server interface {
	RegisterHandler(s string, handler http.Handler, secure bool)
}

// System installs the operations endpoints: metrics, log spec and health.
type System struct {
	metrics.Provider

	Server       Server
	logger       Logger
	options      Options
	versionGauge metrics.Gauge
}

func NewOperationSystem(server Server, l Logger, metricsProvider metrics.Provider, o *Options) *System {
	system := &System{
		Server:  server,
		logger:  l,
		options: *o,
	}
	system.initializeLoggingHandler(o.TLS)
	system.initializeHealthHandler()
	system.initializeMetricsProvider(metricsProvider, o.Metrics)

	return system
}

func (s *System) Start() error {
	s.versionGauge.With("version", s.options.Version).Set(1)
	return nil
}

func (s *System) Stop() error {
	return nil
}

func (s *System) initializeMetricsProvider(provider metrics.Provider, m MetricsOptions) {
	s.logger.Debugf("Initializing metrics provider: [%s]", m.Provider)
	s.Provider = provider
	switch m.Provider {
	case metrics.PrometheusProvider:
		s.Server.RegisterHandler("/metrics", promhttp.Handler(), m.TLS)
	case metrics.DisabledProvider, "":
		s.logger.Info("metrics disabled")
	default:
		s.logger.Warnf("unknown provider type: %s; metrics disabled", m.Provider)
	}
	s.versionGauge = versionGauge(s.Provider)
}

// GET returns the active log spec, PUT {"spec": "..."} replaces it.
func (s *System) initializeLoggingHandler(tlsEnabled bool) {
	s.Server.RegisterHandler("/logspec", logging.NewSpecHandler(), tlsEnabled)
}

func (s *System) initializeHealthHandler() {
	s.Server.RegisterHandler("/healthz", http.HandlerFunc(healthz), false)
}

type healthStatus struct {
	Status string `json:"status"`
}

func healthz(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(healthStatus{Status: "OK"})
}
