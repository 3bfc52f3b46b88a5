// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import (
	"net/http"
	"sync"
)

// registry creates the meters of the process. It stays a no-op until
// InitializePrometheusMetrics is called.
var registry meterRegistry = noopRegistry{}

type meterRegistry interface {
	counter(name string) CountMeter
	counterVec(name string, labels []string) CountVecMeter
	gauge(name string) GaugeMeter
	histogram(name string, buckets []int64) HistogramMeter
	histogramVec(name string, labels []string, buckets []int64) HistogramVecMeter
	handler() http.Handler
}

// HTTPHandler serves the current meter values.
func HTTPHandler() http.Handler {
	return registry.handler()
}

var (
	// BucketDurationMs buckets engine operation and API request latencies.
	BucketDurationMs = []int64{0, 1, 2, 5, 10, 20, 50, 100, 200, 500, 1000, 2000, 5000, 10000}
	// BucketPositions buckets leaderboard positions.
	BucketPositions = []int64{1, 2, 3, 5, 10, 20, 50, 100, 250, 1000}
)

type CountMeter interface {
	Add(int64)
}

type CountVecMeter interface {
	AddWithLabel(int64, map[string]string)
}

type GaugeMeter interface {
	Add(int64)
	Set(int64)
}

type HistogramMeter interface {
	Observe(int64)
}

type HistogramVecMeter interface {
	ObserveWithLabels(int64, map[string]string)
}

// LazyLoad defers f to the first call, so meters declared as package vars
// end up in whichever registry is installed by then.
func LazyLoad[T any](f func() T) func() T {
	var (
		result T
		once   sync.Once
	)
	return func() T {
		once.Do(func() {
			result = f()
		})
		return result
	}
}

func Counter(name string) func() CountMeter {
	return LazyLoad(func() CountMeter { return registry.counter(name) })
}

func CounterVec(name string, labels []string) func() CountVecMeter {
	return LazyLoad(func() CountVecMeter { return registry.counterVec(name, labels) })
}

func Gauge(name string) func() GaugeMeter {
	return LazyLoad(func() GaugeMeter { return registry.gauge(name) })
}

func Histogram(name string, buckets []int64) func() HistogramMeter {
	return LazyLoad(func() HistogramMeter { return registry.histogram(name, buckets) })
}

func HistogramVec(name string, labels []string, buckets []int64) func() HistogramVecMeter {
	return LazyLoad(func() HistogramVecMeter { return registry.histogramVec(name, labels, buckets) })
}
