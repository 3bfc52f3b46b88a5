// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"errors"
	"fmt"
)

// Kind classifies why an operation was rejected.
type Kind uint8

const (
	// Unknown is reported for errors not created by this package.
	Unknown Kind = iota
	ConfigurationError
	PhaseViolation
	EligibilityFailure
	OrderingViolation
	AlreadySettled
	TransferFailure
	NotFound
	NoRecipient
	NothingToClaim
	Unauthorized
)

var kindNames = [...]string{
	Unknown:            "unknown",
	ConfigurationError: "configuration error",
	PhaseViolation:     "phase violation",
	EligibilityFailure: "eligibility failure",
	OrderingViolation:  "ordering violation",
	AlreadySettled:     "already settled",
	TransferFailure:    "transfer failure",
	NotFound:           "not found",
	NoRecipient:        "no recipient",
	NothingToClaim:     "nothing to claim",
	Unauthorized:       "unauthorized",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// ErrRevert is a rejected operation. Any state touched by the operation is
// rolled back when it is returned.
type ErrRevert struct {
	kind    Kind
	message string
	cause   error
}

// New creates a revert of the given kind.
func New(kind Kind, message string) *ErrRevert {
	return &ErrRevert{kind: kind, message: message}
}

// Newf creates a revert of the given kind with a formatted message.
func Newf(kind Kind, format string, args ...any) *ErrRevert {
	return &ErrRevert{kind: kind, message: fmt.Sprintf(format, args...)}
}

// Wrap creates a revert of the given kind caused by err.
func Wrap(kind Kind, err error, message string) *ErrRevert {
	return &ErrRevert{kind: kind, message: message, cause: err}
}

func (e *ErrRevert) Error() string {
	if e.cause != nil {
		return e.message + ": " + e.cause.Error()
	}
	return e.message
}

// Kind returns the kind of the revert.
func (e *ErrRevert) Kind() Kind {
	return e.kind
}

// Message returns the message without the cause.
func (e *ErrRevert) Message() string {
	return e.message
}

func (e *ErrRevert) Unwrap() error {
	return e.cause
}

// Is matches another revert of the same kind and message, so sentinel
// reverts can be compared with errors.Is.
func (e *ErrRevert) Is(target error) bool {
	t, ok := target.(*ErrRevert)
	if !ok {
		return false
	}
	return t.kind == e.kind && t.message == e.message
}

// IsRevertErr reports whether err carries an ErrRevert.
func IsRevertErr(err error) bool {
	var re *ErrRevert
	return errors.As(err, &re)
}

// KindOf returns the kind of the outermost revert in err's chain.
func KindOf(err error) Kind {
	var re *ErrRevert
	if errors.As(err, &re) {
		return re.kind
	}
	return Unknown
}

// IsKind reports whether err is a revert of the given kind.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
