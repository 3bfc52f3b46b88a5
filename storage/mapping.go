// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package storage

import (
	"reflect"

	"github.com/vechain/arena/arena"
)

// Mapping is a keyed collection of rlp encoded values under one slot.
type Mapping[K Key, V any] struct {
	context *Context
	basePos arena.Bytes32
}

func NewMapping[K Key, V any](context *Context, pos arena.Bytes32) *Mapping[K, V] {
	return &Mapping[K, V]{context: context, basePos: pos}
}

func (m *Mapping[K, V]) position(key K) arena.Bytes32 {
	return arena.Blake2b(key.Bytes(), m.basePos.Bytes())
}

// Get returns the value for key. A missing pointer value comes back as a
// freshly allocated zero value, never nil.
func (m *Mapping[K, V]) Get(key K) (value V, err error) {
	value, _, err = m.Lookup(key)
	return
}

// Lookup is Get that also reports whether the key was present.
func (m *Mapping[K, V]) Lookup(key K) (value V, found bool, err error) {
	if t := reflect.TypeOf(value); t != nil && t.Kind() == reflect.Ptr {
		value = reflect.New(t.Elem()).Interface().(V)
		found, err = m.context.state.DecodeStorage(m.position(key), value)
		return
	}
	found, err = m.context.state.DecodeStorage(m.position(key), &value)
	return
}

// Set stores value under key.
func (m *Mapping[K, V]) Set(key K, value V) error {
	return m.context.state.EncodeStorage(m.position(key), value)
}

// Delete removes key.
func (m *Mapping[K, V]) Delete(key K) {
	m.context.state.Delete(m.position(key))
}
