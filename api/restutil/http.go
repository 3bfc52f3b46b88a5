// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package restutil

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/pkg/errors"

	"github.com/vechain/arena/arena"
	"github.com/vechain/arena/log"
	"github.com/vechain/arena/reverts"
)

var logger = log.WithContext("pkg", "restutil")

// CallerHeader carries the address an API call acts for.
const CallerHeader = "X-Caller"

// RevertKindHeader reports the kind of a rejected operation.
const RevertKindHeader = "X-Revert-Kind"

type httpError struct {
	cause  error
	status int
}

func (e *httpError) Error() string {
	return e.cause.Error()
}

// HTTPError create an error with http status code.
func HTTPError(cause error, status int) error {
	return &httpError{
		cause:  cause,
		status: status,
	}
}

// BadRequest convenience method to create http bad request error.
func BadRequest(cause error) error {
	return &httpError{
		cause:  cause,
		status: http.StatusBadRequest,
	}
}

// Forbidden convenience method to create http forbidden error.
func Forbidden(cause error) error {
	return &httpError{
		cause:  cause,
		status: http.StatusForbidden,
	}
}

// NotFound convenience method to create http not found error.
func NotFound(cause error) error {
	return &httpError{
		cause:  cause,
		status: http.StatusNotFound,
	}
}

// RevertStatus is the status a rejected operation is answered with.
func RevertStatus(kind reverts.Kind) int {
	switch kind {
	case reverts.ConfigurationError, reverts.OrderingViolation:
		return http.StatusBadRequest
	case reverts.EligibilityFailure, reverts.Unauthorized:
		return http.StatusForbidden
	case reverts.NotFound:
		return http.StatusNotFound
	case reverts.PhaseViolation, reverts.AlreadySettled, reverts.NoRecipient, reverts.NothingToClaim:
		return http.StatusConflict
	case reverts.TransferFailure:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// HandlerFunc like http.HandlerFunc, but it returns an error.
// If the returned error is httpError type, httpError.status will be responded.
// A revert is responded with the status of its kind, anything else with
// http.StatusInternalServerError.
type HandlerFunc func(http.ResponseWriter, *http.Request) error

// WrapHandlerFunc convert HandlerFunc to http.HandlerFunc.
func WrapHandlerFunc(f HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := f(w, r)
		if err == nil {
			return
		}
		var he *httpError
		if errors.As(err, &he) {
			if he.cause != nil {
				http.Error(w, he.cause.Error(), he.status)
			} else {
				w.WriteHeader(he.status)
			}
			return
		}
		if kind := reverts.KindOf(err); kind != reverts.Unknown {
			w.Header().Set(RevertKindHeader, kind.String())
			http.Error(w, err.Error(), RevertStatus(kind))
			return
		}
		logger.Warn("internal error", "uri", r.URL.String(), "err", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// content types
const (
	JSONContentType = "application/json; charset=utf-8"
)

// ParseJSON parse a JSON object using strict mode.
func ParseJSON(r io.Reader, v any) error {
	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()
	return decoder.Decode(v)
}

// WriteJSON response an object in JSON encoding.
func WriteJSON(w http.ResponseWriter, obj any) error {
	w.Header().Set("Content-Type", JSONContentType)
	return json.NewEncoder(w).Encode(obj)
}

// WriteJSONStatus responds obj with the given status.
func WriteJSONStatus(w http.ResponseWriter, status int, obj any) error {
	w.Header().Set("Content-Type", JSONContentType)
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(obj)
}

// Caller returns the address in the caller header.
func Caller(r *http.Request) (arena.Address, error) {
	v := r.Header.Get(CallerHeader)
	if v == "" {
		return arena.Address{}, BadRequest(errors.New("caller header required"))
	}
	addr, err := arena.ParseAddress(v)
	if err != nil {
		return arena.Address{}, BadRequest(errors.WithMessage(err, "caller"))
	}
	return addr, nil
}

// ParseUint parses a decimal path or query value named name.
func ParseUint(name, v string) (uint64, error) {
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return 0, BadRequest(errors.WithMessage(err, name))
	}
	return n, nil
}

// M shortcut for type map[string]any.
type M map[string]any
