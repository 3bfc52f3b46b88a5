// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package admin

import (
	"log/slog"
	"net/http"
	"sync/atomic"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/vechain/arena/api/admin/apilogs"
	"github.com/vechain/arena/api/admin/loglevel"
	"github.com/vechain/arena/health"

	healthAPI "github.com/vechain/arena/api/admin/health"
)

// New returns the operator endpoints, served apart from the public API.
func New(logLevel *slog.LevelVar, apiLogs *atomic.Bool, h *health.Health, counter health.ContextCounter) http.HandlerFunc {
	router := mux.NewRouter()
	sub := router.PathPrefix("/admin").Subrouter()

	loglevel.New(logLevel).Mount(sub, "/loglevel")
	apilogs.New(apiLogs).Mount(sub, "/apilogs")
	healthAPI.New(h, counter).Mount(sub, "/health")

	handler := handlers.CompressHandler(router)

	return handler.ServeHTTP
}
