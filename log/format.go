// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package log

import (
	"bytes"
	"fmt"
	"log/slog"
	"math/big"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/holiman/uint256"
)

const (
	termTimeFormat = "01-02|15:04:05.000"
	termMsgJust    = 40
)

func (h *TerminalHandler) format(buf []byte, r slog.Record) []byte {
	msg := escapeMessage(r.Message)
	var color = ""
	if h.useColor {
		switch r.Level {
		case LevelCrit:
			color = "\x1b[35m"
		case slog.LevelError:
			color = "\x1b[31m"
		case slog.LevelWarn:
			color = "\x1b[33m"
		case slog.LevelInfo:
			color = "\x1b[32m"
		case slog.LevelDebug:
			color = "\x1b[36m"
		case LevelTrace:
			color = "\x1b[34m"
		}
	}
	b := bytes.NewBuffer(buf)

	if color != "" {
		b.WriteString(color)
		b.WriteString(LevelAlignedString(r.Level))
		b.WriteString("\x1b[0m")
	} else {
		b.WriteString(LevelAlignedString(r.Level))
	}
	b.WriteString(" [")
	b.WriteString(r.Time.Format(termTimeFormat))
	b.WriteString("] ")
	b.WriteString(msg)

	length := utf8.RuneCountInString(msg)
	if (r.NumAttrs()+len(h.attrs)) > 0 && length < termMsgJust {
		b.Write(bytes.Repeat([]byte{' '}, termMsgJust-length))
	}
	h.formatAttributes(b, r, color)
	b.WriteByte('\n')
	return b.Bytes()
}

func (h *TerminalHandler) formatAttributes(buf *bytes.Buffer, r slog.Record, color string) {
	writeAttr := func(attr slog.Attr) {
		buf.WriteByte(' ')
		if color != "" {
			buf.WriteString(color)
			buf.WriteString(attr.Key)
			buf.WriteString("\x1b[0m=")
		} else {
			buf.WriteString(attr.Key)
			buf.WriteByte('=')
		}
		buf.WriteString(FormatSlogValue(attr.Value))
	}
	for _, attr := range h.attrs {
		writeAttr(attr)
	}
	r.Attrs(func(attr slog.Attr) bool {
		writeAttr(attr)
		return true
	})
}

// FormatSlogValue formats a slog.Value for serialization to terminal.
func FormatSlogValue(v slog.Value) string {
	var value any
	switch v.Kind() {
	case slog.KindString:
		return escapeString(v.String())
	case slog.KindInt64:
		return strconv.FormatInt(v.Int64(), 10)
	case slog.KindUint64:
		return strconv.FormatUint(v.Uint64(), 10)
	case slog.KindFloat64:
		return strconv.FormatFloat(v.Float64(), 'f', 3, 64)
	case slog.KindBool:
		return strconv.FormatBool(v.Bool())
	case slog.KindDuration:
		return v.Duration().String()
	case slog.KindTime:
		return v.Time().Format(timeFormat)
	default:
		value = v.Any()
	}
	switch val := value.(type) {
	case nil:
		return "<nil>"
	case *big.Int:
		if val == nil {
			return "<nil>"
		}
		return val.String()
	case *uint256.Int:
		if val == nil {
			return "<nil>"
		}
		return val.Dec()
	case time.Time:
		return val.Format(timeFormat)
	case error:
		return escapeString(val.Error())
	case fmt.Stringer:
		return escapeString(val.String())
	default:
		return escapeString(fmt.Sprintf("%+v", value))
	}
}

func escapeString(s string) string {
	if s == "" || strings.ContainsAny(s, " =\"\t\r\n") || !utf8.ValidString(s) {
		return strconv.Quote(s)
	}
	return s
}

func escapeMessage(s string) string {
	if !strings.ContainsAny(s, "\r\n") {
		return s
	}
	return strconv.Quote(s)
}
