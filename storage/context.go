// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package storage lays typed values out over the flat state key space.
// Each value lives at blake2b(key, slot), so distinct slots never collide.
package storage

import (
	"github.com/vechain/arena/arena"
	"github.com/vechain/arena/state"
)

// Context binds storage values to a state.
type Context struct {
	state *state.State
}

func NewContext(st *state.State) *Context {
	return &Context{state: st}
}

func (c *Context) State() *state.State {
	return c.state
}

// NameToSlot derives a slot from a readable name.
func NameToSlot(name string) arena.Bytes32 {
	return arena.BytesToBytes32([]byte(name))
}

// Key is anything that can address a mapping entry.
type Key interface {
	Bytes() []byte
}

// Uint64 is a numeric mapping key.
type Uint64 uint64

func (u Uint64) Bytes() []byte { return arena.Uint64Bytes(uint64(u)) }

// Bytes is a raw mapping key.
type Bytes []byte

func (b Bytes) Bytes() []byte { return b }

type joined []byte

func (j joined) Bytes() []byte { return j }

// Join builds a composite key. Every part is length prefixed so different
// splits never produce the same key.
func Join(keys ...Key) Key {
	var out []byte
	for _, k := range keys {
		b := k.Bytes()
		out = append(out, arena.Uint64Bytes(uint64(len(b)))...)
		out = append(out, b...)
	}
	return joined(out)
}
