// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package httpclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/echo":
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			var in map[string]int
			require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
			in["n"]++
			json.NewEncoder(w).Encode(in)
		case "/value":
			w.Write([]byte(`"ok"`))
		default:
			http.Error(w, "missing", http.StatusNotFound)
		}
	}))
	defer ts.Close()

	c := New(ts.URL + "/")
	assert.Equal(t, ts.URL, c.URL())

	var out map[string]int
	require.NoError(t, c.Post(context.Background(), "/echo", map[string]int{"n": 1}, &out))
	assert.Equal(t, 2, out["n"])

	var s string
	require.NoError(t, c.Get(context.Background(), "/value", &s))
	assert.Equal(t, "ok", s)

	err := c.Get(context.Background(), "/nope", nil)
	assert.True(t, errors.Is(err, ErrNotFound))
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusNotFound, se.Code)
	assert.Equal(t, "missing", se.Body)
}
