// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/vechain/arena/api/subscriptions"
	"github.com/vechain/arena/metrics"
)

var (
	metricHTTPReqCounter  = metrics.CounterVec("api_request_count", []string{"name", "code", "method"})
	metricHTTPReqDuration = metrics.HistogramVec("api_duration_ms", []string{"name", "code", "method"}, metrics.BucketDurationMs)
	metricActiveWebsocket = metrics.Gauge("api_active_websocket_count")
)

// metricsResponseWriter is a wrapper around http.ResponseWriter that captures the status code.
type metricsResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func newMetricsResponseWriter(w http.ResponseWriter) *metricsResponseWriter {
	return &metricsResponseWriter{w, http.StatusOK}
}

func (m *metricsResponseWriter) WriteHeader(code int) {
	m.statusCode = code
	m.ResponseWriter.WriteHeader(code)
}

// metricsMiddleware records a count and duration per named route. Routes
// are labelled by name so path parameters do not blow up the label space.
func metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := mux.CurrentRoute(r)
		name := ""
		if route != nil {
			name = route.GetName()
		}
		if name == "" {
			next.ServeHTTP(w, r)
			return
		}

		if name == subscriptions.EventsRoute {
			metricActiveWebsocket().Add(1)
			defer metricActiveWebsocket().Add(-1)
			// hijacked connections keep no status
			next.ServeHTTP(w, r)
			return
		}

		now := time.Now()
		mrw := newMetricsResponseWriter(w)
		next.ServeHTTP(mrw, r)

		labels := map[string]string{"name": name, "code": strconv.Itoa(mrw.statusCode), "method": r.Method}
		metricHTTPReqCounter().AddWithLabel(1, labels)
		metricHTTPReqDuration().ObserveWithLabels(time.Since(now).Milliseconds(), labels)
	})
}
