// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/vechain/arena/log"
)

// mockLogger is a simple logger implementation for testing purposes
type mockLogger struct {
	loggedData []any
}

func (m *mockLogger) With(_ ...any) log.Logger                     { return m }
func (m *mockLogger) New(_ ...any) log.Logger                      { return m }
func (m *mockLogger) Trace(_ string, _ ...any)                     {}
func (m *mockLogger) Debug(_ string, _ ...any)                     {}
func (m *mockLogger) Error(_ string, _ ...any)                     {}
func (m *mockLogger) Crit(_ string, _ ...any)                      {}
func (m *mockLogger) Enabled(_ context.Context, _ slog.Level) bool { return true }
func (m *mockLogger) Handler() slog.Handler                        { return nil }

func (m *mockLogger) Info(_ string, ctx ...any) {
	m.loggedData = append(m.loggedData, ctx...)
}

func (m *mockLogger) Warn(_ string, ctx ...any) {
	m.loggedData = append(m.loggedData, ctx...)
}

func (m *mockLogger) value(key string) any {
	for i := 0; i+1 < len(m.loggedData); i += 2 {
		if m.loggedData[i] == key {
			return m.loggedData[i+1]
		}
	}
	return nil
}

func TestRequestLoggerHandler(t *testing.T) {
	tests := []struct {
		name      string
		handler   http.HandlerFunc
		enabled   bool
		threshold time.Duration
		shouldLog bool
	}{
		{
			name: "enabled",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusCreated)
			},
			enabled:   true,
			shouldLog: true,
		},
		{
			name: "disabled without threshold",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusOK)
			},
		},
		{
			name: "disabled fast request",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusOK)
			},
			threshold: time.Hour,
		},
		{
			name: "disabled slow request",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				time.Sleep(5 * time.Millisecond)
				w.WriteHeader(http.StatusOK)
			},
			threshold: time.Millisecond,
			shouldLog: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := &mockLogger{}
			var enabled atomic.Bool
			enabled.Store(tt.enabled)

			handler := RequestLoggerMiddleware(logger, &enabled, tt.threshold)(tt.handler)
			req := httptest.NewRequest(http.MethodPost, "/contexts", strings.NewReader(`{"name":"cup"}`))
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			id := rr.Header().Get(RequestIDHeader)
			assert.NotEmpty(t, id)
			if !tt.shouldLog {
				assert.Empty(t, logger.loggedData)
				return
			}
			assert.Equal(t, id, logger.value("ID"))
			assert.Equal(t, "/contexts", logger.value("URI"))
			assert.Equal(t, http.MethodPost, logger.value("Method"))
			assert.Equal(t, `{"name":"cup"}`, logger.value("Body"))
			assert.Equal(t, rr.Code, logger.value("Status"))
		})
	}
}

func TestRequestIDPassthrough(t *testing.T) {
	var enabled atomic.Bool
	handler := RequestLoggerMiddleware(&mockLogger{}, &enabled, 0)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/contexts/1", nil)
	req.Header.Set(RequestIDHeader, "abc")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	assert.Equal(t, "abc", rr.Header().Get(RequestIDHeader))
}
