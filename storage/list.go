// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package storage

import (
	"github.com/pkg/errors"

	"github.com/vechain/arena/arena"
)

// List is a dense, ordered list of values. Many lists share one slot, each
// identified by its owner key.
type List[V any] struct {
	items  *Mapping[Key, V]
	length *Mapping[Key, uint64]
	owner  Key
}

func NewList[V any](context *Context, pos arena.Bytes32, owner Key) *List[V] {
	return &List[V]{
		items:  NewMapping[Key, V](context, pos),
		length: NewMapping[Key, uint64](context, arena.Blake2b(pos.Bytes(), []byte("length"))),
		owner:  owner,
	}
}

func (l *List[V]) itemKey(i uint64) Key {
	return Join(l.owner, Uint64(i))
}

// Len returns the number of items.
func (l *List[V]) Len() (uint64, error) {
	return l.length.Get(l.owner)
}

// At returns the item at zero based index i.
func (l *List[V]) At(i uint64) (V, error) {
	return l.items.Get(l.itemKey(i))
}

// Set overwrites the item at index i.
func (l *List[V]) Set(i uint64, v V) error {
	return l.items.Set(l.itemKey(i), v)
}

// Append adds v at the end and returns its index.
func (l *List[V]) Append(v V) (uint64, error) {
	n, err := l.Len()
	if err != nil {
		return 0, err
	}
	if err := l.items.Set(l.itemKey(n), v); err != nil {
		return 0, err
	}
	if err := l.length.Set(l.owner, n+1); err != nil {
		return 0, err
	}
	return n, nil
}

// Insert places v at index i, shifting later items one place towards the end.
func (l *List[V]) Insert(i uint64, v V) error {
	n, err := l.Len()
	if err != nil {
		return err
	}
	if i > n {
		return errors.Errorf("insert index %d out of range [0, %d]", i, n)
	}
	for j := n; j > i; j-- {
		prev, err := l.At(j - 1)
		if err != nil {
			return err
		}
		if err := l.Set(j, prev); err != nil {
			return err
		}
	}
	if err := l.Set(i, v); err != nil {
		return err
	}
	return l.length.Set(l.owner, n+1)
}

// All returns every item in order.
func (l *List[V]) All() ([]V, error) {
	n, err := l.Len()
	if err != nil {
		return nil, err
	}
	out := make([]V, 0, n)
	for i := range n {
		v, err := l.At(i)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
