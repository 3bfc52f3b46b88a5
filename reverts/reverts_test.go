// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"errors"
	"testing"

	pkgerrors "github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestRevertKinds(t *testing.T) {
	err := Newf(PhaseViolation, "registration closes at %d", 100)
	assert.Equal(t, "registration closes at 100", err.Error())
	assert.Equal(t, PhaseViolation, err.Kind())

	wrapped := pkgerrors.Wrap(err, "enter")
	assert.True(t, IsRevertErr(wrapped))
	assert.Equal(t, PhaseViolation, KindOf(wrapped))
	assert.True(t, IsKind(wrapped, PhaseViolation))
	assert.False(t, IsKind(wrapped, NotFound))

	assert.False(t, IsRevertErr(errors.New("plain")))
	assert.Equal(t, Unknown, KindOf(errors.New("plain")))
	assert.False(t, IsKind(nil, Unknown))
}

func TestRevertWrapAndIs(t *testing.T) {
	cause := errors.New("insufficient balance")
	err := Wrap(TransferFailure, cause, "pull entry fee")
	assert.Equal(t, "pull entry fee: insufficient balance", err.Error())
	assert.Equal(t, "pull entry fee", err.Message())
	assert.ErrorIs(t, err, cause)

	sentinel := New(AlreadySettled, "already claimed")
	assert.ErrorIs(t, pkgerrors.Wrap(New(AlreadySettled, "already claimed"), "claim"), sentinel)
	assert.NotErrorIs(t, New(NotFound, "already claimed"), sentinel)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "no recipient", NoRecipient.String())
	assert.Equal(t, "kind(200)", Kind(200).String())
}
