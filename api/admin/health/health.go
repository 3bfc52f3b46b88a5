// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package health

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/vechain/arena/api/restutil"
	"github.com/vechain/arena/health"
)

type API struct {
	health  *health.Health
	counter health.ContextCounter
}

func New(h *health.Health, counter health.ContextCounter) *API {
	return &API{health: h, counter: counter}
}

func (h *API) handleGetHealth(w http.ResponseWriter, _ *http.Request) error {
	acc, err := h.health.Status(h.counter)
	if err != nil {
		return err
	}

	status := http.StatusOK
	if !acc.Healthy {
		status = http.StatusServiceUnavailable
	}
	return restutil.WriteJSONStatus(w, status, acc)
}

func (h *API) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("health").
		HandlerFunc(restutil.WrapHandlerFunc(h.handleGetHealth))
}
