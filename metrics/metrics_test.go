// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dto "github.com/prometheus/client_model/go"
)

func TestNoopMetrics(t *testing.T) {
	var r noopRegistry
	assert.Nil(t, r.handler())
	assert.NotPanics(t, func() {
		r.counter("c").Add(1)
		r.counterVec("cv", []string{"l"}).AddWithLabel(1, map[string]string{"l": "x"})
		r.gauge("g").Set(1)
		r.histogramVec("hv", []string{"l"}, nil).ObserveWithLabels(1, map[string]string{"l": "x"})
	})
}

func TestLazyLoad(t *testing.T) {
	calls := 0
	f := LazyLoad(func() int {
		calls++
		return 7
	})
	assert.Equal(t, 7, f())
	assert.Equal(t, 7, f())
	assert.Equal(t, 1, calls)
}

func TestPromMetrics(t *testing.T) {
	// declared before the backend is installed, bound on first use
	claims := Counter("claims_total")
	InitializePrometheusMetrics()

	claims().Add(2)
	Counter("claims_total")().Add(3)
	CounterVec("entries_total", []string{"result"})().AddWithLabel(4, map[string]string{"result": "ok"})
	Gauge("open_contexts")().Set(9)
	Histogram("position", BucketPositions)().Observe(3)

	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)

	byName := make(map[string]*dto.MetricFamily)
	for _, mf := range families {
		byName[mf.GetName()] = mf
	}

	require.Contains(t, byName, "arena_metrics_claims_total")
	assert.Equal(t, float64(5), byName["arena_metrics_claims_total"].Metric[0].GetCounter().GetValue())
	assert.Equal(t, float64(4), byName["arena_metrics_entries_total"].Metric[0].GetCounter().GetValue())
	assert.Equal(t, float64(9), byName["arena_metrics_open_contexts"].Metric[0].GetGauge().GetValue())
	assert.Equal(t, uint64(1), byName["arena_metrics_position"].Metric[0].GetHistogram().GetSampleCount())
	assert.NotNil(t, HTTPHandler())
}
