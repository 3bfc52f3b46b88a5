// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"math/big"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTerminalHandler(t *testing.T) {
	var buf bytes.Buffer
	lvl := new(slog.LevelVar)
	lvl.Set(slog.LevelInfo)
	l := NewLogger(NewTerminalHandlerWithLevel(&buf, lvl, false)).With("pkg", "contest")

	l.Debug("hidden")
	assert.Zero(t, buf.Len())

	l.Info("claimed", "amount", big.NewInt(1234), "position", 3)
	out := buf.String()
	assert.Contains(t, out, "INFO ")
	assert.Contains(t, out, "claimed")
	assert.Contains(t, out, "pkg=contest")
	assert.Contains(t, out, "amount=1234")
	assert.Contains(t, out, "position=3")
}

func TestJSONHandler(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(JSONHandler(&buf))
	l.Warn("pool", "total", uint256.NewInt(500))

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "warn", rec["lvl"])
	assert.Equal(t, "500", rec["total"])
	assert.Contains(t, rec, "t")
}

func TestWithContextFollowsRoot(t *testing.T) {
	prev := Root()
	defer SetDefault(prev)

	l := WithContext("pkg", "ledger")

	var buf bytes.Buffer
	SetDefault(NewLogger(NewTerminalHandler(&buf, false)))
	l.Info("transfer")
	assert.Contains(t, buf.String(), "pkg=ledger")
}

func TestFromLegacyLevel(t *testing.T) {
	assert.Equal(t, LevelCrit, FromLegacyLevel(0))
	assert.Equal(t, slog.LevelInfo, FromLegacyLevel(3))
	assert.Equal(t, LevelTrace, FromLegacyLevel(5))
	assert.True(t, FromLegacyLevel(9) < LevelTrace)
}

func TestFormatSlogValue(t *testing.T) {
	assert.Equal(t, `"a b"`, FormatSlogValue(slog.StringValue("a b")))
	assert.Equal(t, "ab", FormatSlogValue(slog.StringValue("ab")))
	assert.Equal(t, "<nil>", FormatSlogValue(slog.AnyValue((*big.Int)(nil))))
}
