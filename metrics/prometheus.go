// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vechain/arena/log"
)

const namespace = "arena_metrics"

var logger = log.WithContext("pkg", "metrics")

// InitializePrometheusMetrics installs the prometheus backed registry as the
// process default. Calling it again is a no-op.
func InitializePrometheusMetrics() {
	if _, ok := registry.(*promRegistry); !ok {
		registry = &promRegistry{}
	}
}

type promRegistry struct {
	counters      sync.Map
	counterVecs   sync.Map
	histograms    sync.Map
	histogramVecs sync.Map
	gauges        sync.Map
}

// getOrCreate returns the meter stored under name, creating and registering
// it on first use.
func getOrCreate[T any](m *sync.Map, name string, create func() (prometheus.Collector, T)) T {
	if item, ok := m.Load(name); ok {
		return item.(T)
	}
	collector, meter := create()
	actual, loaded := m.LoadOrStore(name, meter)
	if loaded {
		return actual.(T)
	}
	if err := prometheus.Register(collector); err != nil {
		logger.Warn("unable to register metric", "name", name, "err", err)
	}
	return meter
}

func floatBuckets(buckets []int64) []float64 {
	if len(buckets) == 0 {
		return nil
	}
	out := make([]float64, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, float64(b))
	}
	return out
}

func (o *promRegistry) handler() http.Handler {
	return promhttp.Handler()
}

func (o *promRegistry) counter(name string) CountMeter {
	return getOrCreate(&o.counters, name, func() (prometheus.Collector, CountMeter) {
		c := prometheus.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: name})
		return c, &promCountMeter{c}
	})
}

func (o *promRegistry) counterVec(name string, labels []string) CountVecMeter {
	return getOrCreate(&o.counterVecs, name, func() (prometheus.Collector, CountVecMeter) {
		c := prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: name}, labels)
		return c, &promCountVecMeter{c}
	})
}

func (o *promRegistry) histogram(name string, buckets []int64) HistogramMeter {
	return getOrCreate(&o.histograms, name, func() (prometheus.Collector, HistogramMeter) {
		h := prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      name,
			Buckets:   floatBuckets(buckets),
		})
		return h, &promHistogramMeter{h}
	})
}

func (o *promRegistry) histogramVec(name string, labels []string, buckets []int64) HistogramVecMeter {
	return getOrCreate(&o.histogramVecs, name, func() (prometheus.Collector, HistogramVecMeter) {
		h := prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      name,
			Buckets:   floatBuckets(buckets),
		}, labels)
		return h, &promHistogramVecMeter{h}
	})
}

func (o *promRegistry) gauge(name string) GaugeMeter {
	return getOrCreate(&o.gauges, name, func() (prometheus.Collector, GaugeMeter) {
		g := prometheus.NewGauge(prometheus.GaugeOpts{Namespace: namespace, Name: name})
		return g, &promGaugeMeter{g}
	})
}

type promHistogramMeter struct{ histogram prometheus.Histogram }

func (c *promHistogramMeter) Observe(i int64) { c.histogram.Observe(float64(i)) }

type promHistogramVecMeter struct{ histogram *prometheus.HistogramVec }

func (c *promHistogramVecMeter) ObserveWithLabels(i int64, labels map[string]string) {
	c.histogram.With(labels).Observe(float64(i))
}

type promCountMeter struct{ counter prometheus.Counter }

func (c *promCountMeter) Add(i int64) { c.counter.Add(float64(i)) }

type promCountVecMeter struct{ counter *prometheus.CounterVec }

func (c *promCountVecMeter) AddWithLabel(i int64, labels map[string]string) {
	c.counter.With(labels).Add(float64(i))
}

type promGaugeMeter struct{ gauge prometheus.Gauge }

func (c *promGaugeMeter) Add(i int64) { c.gauge.Add(float64(i)) }
func (c *promGaugeMeter) Set(i int64) { c.gauge.Set(float64(i)) }
