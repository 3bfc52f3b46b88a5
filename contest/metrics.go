// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package contest

import (
	"time"

	"github.com/vechain/arena/metrics"
	"github.com/vechain/arena/reverts"
)

var (
	metricOps         = metrics.CounterVec("contest_ops_count", []string{"op", "outcome"})
	metricOpDuration  = metrics.HistogramVec("contest_op_duration_ms", []string{"op"}, metrics.BucketDurationMs)
	metricClaims      = metrics.CounterVec("contest_claims_count", []string{"kind", "refunded"})
	metricPositions   = metrics.Histogram("contest_submitted_position", metrics.BucketPositions)
	metricContextsNum = metrics.Gauge("contest_contexts")
)

func outcome(err error) string {
	if err == nil {
		return "ok"
	}
	if reverts.IsRevertErr(err) {
		return reverts.KindOf(err).String()
	}
	return "error"
}

func observe(op string, start time.Time, err error) {
	metricOps().AddWithLabel(1, map[string]string{"op": op, "outcome": outcome(err)})
	metricOpDuration().ObserveWithLabels(time.Since(start).Milliseconds(), map[string]string{"op": op})
}
