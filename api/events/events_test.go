// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/arena/arena"
	contestevents "github.com/vechain/arena/contest/events"
	"github.com/vechain/arena/eventdb"
)

func TestParseFilter(t *testing.T) {
	account := arena.BytesToAddress([]byte("acc"))
	q := url.Values{}
	q.Set("contextId", "3")
	q.Set("names", "ClaimSettled,EntryBanned")
	q.Set("account", account.String())
	q.Set("from", "10")
	q.Set("order", "desc")
	q.Set("limit", "5")

	f, err := parseFilter(q)
	require.NoError(t, err)
	require.NotNil(t, f.ContextID)
	assert.Equal(t, uint64(3), *f.ContextID)
	assert.Equal(t, []string{"ClaimSettled", "EntryBanned"}, f.Names)
	assert.Equal(t, account, *f.Account)
	assert.Equal(t, &eventdb.Range{From: 10}, f.Range)
	assert.Equal(t, eventdb.DESC, f.Order)
	assert.Equal(t, &eventdb.Options{Limit: 5}, f.Options)

	f, err = parseFilter(url.Values{})
	require.NoError(t, err)
	assert.Equal(t, &eventdb.Filter{}, f)

	for _, bad := range []url.Values{
		{"contextId": {"x"}},
		{"account": {"0x1"}},
		{"from": {"9"}, "to": {"3"}},
		{"order": {"up"}},
		{"offset": {"-1"}},
	} {
		_, err := parseFilter(bad)
		assert.Error(t, err, bad.Encode())
	}
}

func TestHandleFilter(t *testing.T) {
	db, err := eventdb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	var evs []*contestevents.Event
	for i := range 5 {
		evs = append(evs, &contestevents.Event{Name: contestevents.EntryRegistered, ContextID: 1, TokenID: uint64(i + 2), Time: uint64(100 + i)})
	}
	require.NoError(t, db.Notify(context.Background(), evs))

	router := mux.NewRouter()
	New(db, 3).Mount(router, "/events")

	get := func(query string) *httptest.ResponseRecorder {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/events"+query, nil))
		return rr
	}

	// more matches than the limit without pagination
	assert.Equal(t, http.StatusForbidden, get("").Code)
	assert.Equal(t, http.StatusForbidden, get("?limit=4").Code)

	rr := get("?limit=3&offset=1")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var records []*eventdb.Record
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &records))
	require.Len(t, records, 3)
	assert.Equal(t, uint64(3), records[0].TokenID)

	rr = get("?from=103")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &records))
	assert.Len(t, records, 2)

	rr = get("?contextId=7")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, "[]", rr.Body.String())
}
