// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package admin

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/arena/api/admin/apilogs"
	"github.com/vechain/arena/api/admin/loglevel"
	"github.com/vechain/arena/contest/events"
	"github.com/vechain/arena/health"
	"github.com/vechain/arena/log"
)

type counter uint64

func (c counter) ContextCount() (uint64, error) { return uint64(c), nil }

type fixture struct {
	level   *slog.LevelVar
	apiLogs *atomic.Bool
	health  *health.Health
	fail    error
	handler http.HandlerFunc
}

func newFixture() *fixture {
	f := &fixture{
		level:   new(slog.LevelVar),
		apiLogs: new(atomic.Bool),
	}
	f.health = health.Track(events.NotifierFunc(func(context.Context, []*events.Event) error {
		return f.fail
	}))
	f.handler = New(f.level, f.apiLogs, f.health, counter(3))
	return f
}

func (f *fixture) do(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rr := httptest.NewRecorder()
	f.handler(rr, req)
	return rr
}

func TestLogLevel(t *testing.T) {
	tests := []struct {
		name           string
		method         string
		body           string
		expectedStatus int
		expectedLevel  string
		expectedErr    string
	}{
		{
			name:           "get current level",
			method:         http.MethodGet,
			expectedStatus: http.StatusOK,
			expectedLevel:  "info",
		},
		{
			name:           "set debug",
			method:         http.MethodPost,
			body:           `{"level":"debug"}`,
			expectedStatus: http.StatusOK,
			expectedLevel:  "debug",
		},
		{
			name:           "set trace",
			method:         http.MethodPost,
			body:           `{"level":"trace"}`,
			expectedStatus: http.StatusOK,
			expectedLevel:  "trace",
		},
		{
			name:           "invalid level",
			method:         http.MethodPost,
			body:           `{"level":"loud"}`,
			expectedStatus: http.StatusBadRequest,
			expectedErr:    "Invalid verbosity level",
		},
		{
			name:           "invalid body",
			method:         http.MethodPost,
			body:           `{"lvl":"debug"}`,
			expectedStatus: http.StatusBadRequest,
			expectedErr:    "Invalid request body",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			f.level.Set(log.LevelInfo)

			rr := f.do(tt.method, "/admin/loglevel", tt.body)
			assert.Equal(t, tt.expectedStatus, rr.Code)
			if tt.expectedErr != "" {
				assert.Contains(t, rr.Body.String(), tt.expectedErr)
				assert.Equal(t, log.LevelInfo, f.level.Level())
				return
			}
			var res loglevel.Response
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res))
			assert.Equal(t, tt.expectedLevel, res.CurrentLevel)
		})
	}
}

func TestAPILogs(t *testing.T) {
	f := newFixture()

	rr := f.do(http.MethodGet, "/admin/apilogs", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var status apilogs.LogStatus
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &status))
	assert.False(t, status.Enabled)

	rr = f.do(http.MethodPost, "/admin/apilogs", `{"enabled":true}`)
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &status))
	assert.True(t, status.Enabled)
	assert.True(t, f.apiLogs.Load())

	rr = f.do(http.MethodPost, "/admin/apilogs", `{"enabled":"yes"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.True(t, f.apiLogs.Load())
}

func TestHealth(t *testing.T) {
	f := newFixture()
	ev := []*events.Event{{Name: events.ContextCreated}}

	require.NoError(t, f.health.Notify(context.Background(), ev))
	rr := f.do(http.MethodGet, "/admin/health", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	var st health.Status
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &st))
	assert.True(t, st.Healthy)
	assert.Equal(t, uint64(3), st.Contexts)
	assert.Equal(t, uint64(1), st.DeliveredEvents)

	f.fail = errors.New("event log unavailable")
	assert.Error(t, f.health.Notify(context.Background(), ev))
	rr = f.do(http.MethodGet, "/admin/health", "")
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &st))
	assert.False(t, st.Healthy)
	assert.Equal(t, "event log unavailable", st.LastError)
}
