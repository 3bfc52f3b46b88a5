// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"fmt"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/vechain/arena/arena"
	"github.com/vechain/arena/cache"
	"github.com/vechain/arena/kv"
	"github.com/vechain/arena/stackedmap"
)

// Error is the error caused by state access failure.
type Error struct {
	cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("state: %v", e.cause)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// State manages the persisted contest state.
type State struct {
	store kv.Store
	cache *cache.LRU
	sm    *stackedmap.StackedMap[arena.Bytes32, []byte]
}

// New create state object. cacheSize bounds the number of values kept in
// the read cache.
func New(store kv.Store, cacheSize int) (*State, error) {
	if cacheSize < 1 {
		cacheSize = 1
	}
	c, err := cache.NewLRU(cacheSize)
	if err != nil {
		return nil, err
	}
	s := &State{store: store, cache: c}
	s.reset()
	return s, nil
}

func (s *State) reset() {
	s.sm = stackedmap.New(s.load)
}

// load implements stackedmap.MapGetter.
func (s *State) load(key arena.Bytes32) ([]byte, bool, error) {
	v, err := s.cache.GetOrLoad(key, func(any) (any, error) {
		metricStateAccess().AddWithLabel(1, map[string]string{"source": "store"})
		val, err := s.store.Get(key[:])
		if err != nil {
			if s.store.IsNotFound(err) {
				return []byte(nil), nil
			}
			return nil, err
		}
		return val, nil
	})
	if err != nil {
		return nil, false, &Error{err}
	}
	return v.([]byte), true, nil
}

// GetRaw returns the raw value stored under key, nil if absent.
func (s *State) GetRaw(key arena.Bytes32) ([]byte, error) {
	v, _, err := s.sm.Get(key)
	return v, err
}

// SetRaw stores raw under key. An empty value deletes the key.
func (s *State) SetRaw(key arena.Bytes32, raw []byte) {
	s.sm.Put(key, raw)
}

// DecodeStorage decodes the value under key into val. It reports false when
// the key is absent, leaving val untouched.
func (s *State) DecodeStorage(key arena.Bytes32, val any) (bool, error) {
	raw, err := s.GetRaw(key)
	if err != nil {
		return false, err
	}
	if len(raw) == 0 {
		return false, nil
	}
	if err := rlp.DecodeBytes(raw, val); err != nil {
		return false, &Error{err}
	}
	return true, nil
}

// EncodeStorage rlp encodes val and stores it under key.
func (s *State) EncodeStorage(key arena.Bytes32, val any) error {
	raw, err := rlp.EncodeToBytes(val)
	if err != nil {
		return &Error{err}
	}
	s.SetRaw(key, raw)
	return nil
}

// Delete removes the value under key.
func (s *State) Delete(key arena.Bytes32) {
	s.SetRaw(key, nil)
}

// NewCheckpoint makes a checkpoint of current state.
// It returns revision of the checkpoint.
func (s *State) NewCheckpoint() int {
	return s.sm.Push()
}

// RevertTo revert to checkpoint specified by revision.
func (s *State) RevertTo(revision int) {
	s.sm.PopTo(revision)
	if s.sm.Depth() == 0 {
		s.sm.Push()
	}
}

// Stage collects the pending changes, last write per key winning.
func (s *State) Stage() *Stage {
	changes := make(map[arena.Bytes32][]byte)
	var order []arena.Bytes32
	s.sm.Journal(func(k arena.Bytes32, v []byte) bool {
		if _, ok := changes[k]; !ok {
			order = append(order, k)
		}
		changes[k] = v
		return true
	})
	return &Stage{state: s, order: order, changes: changes}
}
