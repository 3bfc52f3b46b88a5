// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package loglevel

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/arena/api/restutil"
	"github.com/vechain/arena/log"
)

type Request struct {
	Level string `json:"level"`
}

type Response struct {
	CurrentLevel string `json:"currentLevel"`
}

type LogLevel struct {
	logLevel *slog.LevelVar
}

func New(logLevel *slog.LevelVar) *LogLevel {
	return &LogLevel{
		logLevel: logLevel,
	}
}

func (l *LogLevel) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()
	sub.Path("").
		Methods(http.MethodGet).
		Name("get-log-level").
		HandlerFunc(restutil.WrapHandlerFunc(l.getLogLevel))

	sub.Path("").
		Methods(http.MethodPost).
		Name("post-log-level").
		HandlerFunc(restutil.WrapHandlerFunc(l.postLogLevel))
}

func (l *LogLevel) getLogLevel(w http.ResponseWriter, _ *http.Request) error {
	return restutil.WriteJSON(w, Response{
		CurrentLevel: log.LevelString(l.logLevel.Level()),
	})
}

func (l *LogLevel) postLogLevel(w http.ResponseWriter, r *http.Request) error {
	var req Request
	if err := restutil.ParseJSON(r.Body, &req); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "Invalid request body"))
	}

	switch req.Level {
	case "debug":
		l.logLevel.Set(log.LevelDebug)
	case "info":
		l.logLevel.Set(log.LevelInfo)
	case "warn":
		l.logLevel.Set(log.LevelWarn)
	case "error":
		l.logLevel.Set(log.LevelError)
	case "trace":
		l.logLevel.Set(log.LevelTrace)
	case "crit":
		l.logLevel.Set(log.LevelCrit)
	default:
		return restutil.BadRequest(errors.New("Invalid verbosity level"))
	}
	log.Info("log level updated", "pkg", "loglevel", "level", req.Level)

	return restutil.WriteJSON(w, Response{
		CurrentLevel: log.LevelString(l.logLevel.Level()),
	})
}
