/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package operations

import (
	"sync"

	"github.com/hyperledger-labs/peerweb/platform/view/services/metrics"
	"github.com/hyperledger/fabric-lib-go/common/metrics/prometheus"
)

var (
	peerwebVersion = metrics.GaugeOpts{
		Name:       "peerweb_version",
		Help:       "The active version of peerweb.",
		LabelNames: []string{"version"},
	}

	gaugeLock        sync.Mutex
	promVersionGauge metrics.Gauge
)

// versionGauge registers the prometheus gauge once per process.
func versionGauge(provider metrics.Provider) metrics.Gauge {
	switch provider.(type) {
	case *prometheus.Provider:
		gaugeLock.Lock()
		defer gaugeLock.Unlock()
		if promVersionGauge == nil {
			promVersionGauge = provider.NewGauge(peerwebVersion)
		}
		return promVersionGauge

	default:
		return provider.NewGauge(peerwebVersion)
	}
}
