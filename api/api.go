// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"net/http"
	"net/http/pprof"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/vechain/arena/api/contexts"
	"github.com/vechain/arena/api/events"
	"github.com/vechain/arena/api/middleware"
	"github.com/vechain/arena/api/restutil"
	"github.com/vechain/arena/api/subscriptions"
	"github.com/vechain/arena/contest"
	contestevents "github.com/vechain/arena/contest/events"
	"github.com/vechain/arena/eventdb"
	"github.com/vechain/arena/log"
)

var logger = log.WithContext("pkg", "api")

type Options struct {
	AllowedOrigins       string
	EventsLimit          uint64
	PprofOn              bool
	EnableReqLogger      *atomic.Bool
	SlowQueriesThreshold time.Duration
	EnableMetrics        bool
}

// New return api router. The event routes are mounted only when their
// backing db or feed is given.
func New(
	engine *contest.Engine,
	eventDB *eventdb.EventDB,
	feed *contestevents.Feed,
	opts Options,
) (http.HandlerFunc, func()) {
	origins := strings.Split(strings.TrimSpace(opts.AllowedOrigins), ",")
	for i, o := range origins {
		origins[i] = strings.ToLower(strings.TrimSpace(o))
	}

	router := mux.NewRouter()

	contexts.New(engine).
		Mount(router)
	if eventDB != nil {
		events.New(eventDB, opts.EventsLimit).
			Mount(router, "/events")
	}
	closeSubs := func() {}
	if feed != nil {
		subs := subscriptions.New(feed, origins)
		subs.Mount(router, "/subscriptions")
		closeSubs = subs.Close
	}

	if opts.PprofOn {
		router.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
		router.HandleFunc("/debug/pprof/profile", pprof.Profile)
		router.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
		router.HandleFunc("/debug/pprof/trace", pprof.Trace)
		router.PathPrefix("/debug/pprof/").HandlerFunc(pprof.Index)
	}

	if opts.EnableMetrics {
		router.Use(metricsMiddleware)
	}

	handler := handlers.CompressHandler(router)
	handler = handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedHeaders([]string{"content-type", strings.ToLower(restutil.CallerHeader), strings.ToLower(middleware.RequestIDHeader)}),
		handlers.ExposedHeaders([]string{strings.ToLower(restutil.RevertKindHeader), strings.ToLower(middleware.RequestIDHeader)}),
	)(handler)

	enabled := opts.EnableReqLogger
	if enabled == nil {
		enabled = &atomic.Bool{}
	}
	handler = middleware.RequestLoggerMiddleware(logger, enabled, opts.SlowQueriesThreshold)(handler)

	return handler.ServeHTTP, closeSubs // subscriptions handles hijacked conns, which need to be closed
}
