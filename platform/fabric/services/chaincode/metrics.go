/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package chaincode

import (
	"github.com/hyperledger-labs/peerweb/platform/view/services/metrics"
)

var (
	invocations = metrics.CounterOpts{
		Namespace:    "peerweb",
		Subsystem:    "chaincode",
		Name:         "invocations_total",
		Help:         "The number of peer CLI runs, by kind and outcome.",
		LabelNames:   []string{"kind", "status"},
		StatsdFormat: "%{#fqname}.%{kind}.%{status}",
	}
	duration = metrics.HistogramOpts{
		Namespace:    "peerweb",
		Subsystem:    "chaincode",
		Name:         "duration_seconds",
		Help:         "The time taken by peer CLI runs.",
		LabelNames:   []string{"kind"},
		StatsdFormat: "%{#fqname}.%{kind}",
	}
	inFlight = metrics.GaugeOpts{
		Namespace:    "peerweb",
		Subsystem:    "chaincode",
		Name:         "in_flight",
		Help:         "The number of peer CLI runs currently executing.",
		LabelNames:   []string{"kind"},
		StatsdFormat: "%{#fqname}.%{kind}",
	}
)

type Metrics struct {
	Invocations metrics.Counter
	Duration    metrics.Histogram
	InFlight    metrics.Gauge
}

func NewMetrics(p metrics.Provider) *Metrics {
	return &Metrics{
		Invocations: p.NewCounter(invocations),
		Duration:    p.NewHistogram(duration),
		InFlight:    p.NewGauge(inFlight),
	}
}
