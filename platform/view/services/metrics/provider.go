/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package metrics

import (
	"github.com/hyperledger/fabric-lib-go/common/metrics"
	"github.com/hyperledger/fabric-lib-go/common/metrics/disabled"
	"github.com/hyperledger/fabric-lib-go/common/metrics/prometheus"
	"github.com/pkg/errors"
)

type (
	Provider      = metrics.Provider
	Counter       = metrics.Counter
	Gauge         = metrics.Gauge
	Histogram     = metrics.Histogram
	CounterOpts   = metrics.CounterOpts
	GaugeOpts     = metrics.GaugeOpts
	HistogramOpts = metrics.HistogramOpts
)

const (
	PrometheusProvider = "prometheus"
	DisabledProvider   = "disabled"
)

// NewProvider returns the metrics provider with the given name.
// Prometheus metrics are registered with the default registerer.
func NewProvider(name string) (Provider, error) {
	switch name {
	case PrometheusProvider:
		return &prometheus.Provider{}, nil
	case DisabledProvider, "":
		return &disabled.Provider{}, nil
	default:
		return nil, errors.Errorf("unknown metrics provider [%s]", name)
	}
}
