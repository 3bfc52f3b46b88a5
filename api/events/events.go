// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events

import (
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/arena/api/restutil"
	"github.com/vechain/arena/arena"
	"github.com/vechain/arena/eventdb"
)

type Events struct {
	db    *eventdb.EventDB
	limit uint64
}

func New(db *eventdb.EventDB, limit uint64) *Events {
	return &Events{
		db,
		limit,
	}
}

func parseFilter(query url.Values) (*eventdb.Filter, error) {
	var (
		filter eventdb.Filter
		err    error
	)
	uintParam := func(name string) (uint64, bool, error) {
		v := query.Get(name)
		if v == "" {
			return 0, false, nil
		}
		n, err := restutil.ParseUint(name, v)
		return n, true, err
	}

	if id, ok, err := uintParam("contextId"); err != nil {
		return nil, err
	} else if ok {
		filter.ContextID = &id
	}
	if v := query.Get("names"); v != "" {
		filter.Names = strings.Split(v, ",")
	}
	if v := query.Get("account"); v != "" {
		addr, err := arena.ParseAddress(v)
		if err != nil {
			return nil, restutil.BadRequest(errors.WithMessage(err, "account"))
		}
		filter.Account = &addr
	}

	from, hasFrom, err := uintParam("from")
	if err != nil {
		return nil, err
	}
	to, hasTo, err := uintParam("to")
	if err != nil {
		return nil, err
	}
	if hasFrom || hasTo {
		if hasTo && from > to {
			return nil, restutil.BadRequest(errors.New("range.to must be greater than or equal to range.from"))
		}
		filter.Range = &eventdb.Range{From: from, To: to}
	}

	switch order := eventdb.Order(query.Get("order")); order {
	case "", eventdb.ASC, eventdb.DESC:
		filter.Order = order
	default:
		return nil, restutil.BadRequest(fmt.Errorf("order: unknown order %q", order))
	}

	offset, hasOffset, err := uintParam("offset")
	if err != nil {
		return nil, err
	}
	limit, hasLimit, err := uintParam("limit")
	if err != nil {
		return nil, err
	}
	if hasOffset || hasLimit {
		filter.Options = &eventdb.Options{Offset: offset, Limit: limit}
	}
	return &filter, nil
}

func (e *Events) handleFilter(w http.ResponseWriter, req *http.Request) error {
	filter, err := parseFilter(req.URL.Query())
	if err != nil {
		return err
	}
	if filter.Options != nil && filter.Options.Limit > e.limit {
		return restutil.Forbidden(fmt.Errorf("options.limit exceeds the maximum allowed value of %d", e.limit))
	}
	if filter.Options != nil && filter.Options.Offset > math.MaxInt64 {
		return restutil.BadRequest(fmt.Errorf("options.offset exceeds the maximum allowed value of %d", math.MaxInt64))
	}
	if filter.Options == nil || filter.Options.Limit == 0 {
		// one more than the limit detects whether there are more events than allowed
		var offset uint64
		if filter.Options != nil {
			offset = filter.Options.Offset
		}
		filter.Options = &eventdb.Options{Offset: offset, Limit: e.limit + 1}
	}

	records, err := e.db.Filter(req.Context(), filter)
	if err != nil {
		return err
	}
	if len(records) > int(e.limit) {
		return restutil.Forbidden(fmt.Errorf("the number of filtered events exceeds the maximum allowed value of %d, please use pagination", e.limit))
	}
	if records == nil {
		records = []*eventdb.Record{}
	}
	return restutil.WriteJSON(w, records)
}

func (e *Events) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("GET /events").
		HandlerFunc(restutil.WrapHandlerFunc(e.handleFilter))
}
