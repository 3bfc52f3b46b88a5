// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package validator

import (
	"context"
	"sync"

	"github.com/vechain/arena/arena"
)

// Static accepts a fixed set of callers. It is used in solo mode and tests.
type Static struct {
	mu       sync.RWMutex
	allowed  map[arena.Address]bool
	regOnly  bool
	settings map[uint64]Settings
}

// Settings records what a context configured on the validator.
type Settings struct {
	EntryLimit uint32
	Config     []byte
}

var (
	_ Validator  = (*Static)(nil)
	_ Configurer = (*Static)(nil)
)

func NewStatic(registrationOnly bool, allowed ...arena.Address) *Static {
	s := &Static{
		allowed:  make(map[arena.Address]bool),
		regOnly:  registrationOnly,
		settings: make(map[uint64]Settings),
	}
	for _, a := range allowed {
		s.allowed[a] = true
	}
	return s
}

// Allow adds or removes addr.
func (s *Static) Allow(addr arena.Address, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ok {
		s.allowed[addr] = true
	} else {
		delete(s.allowed, addr)
	}
}

func (s *Static) IsValid(_ context.Context, _ uint64, caller arena.Address, _ []byte) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.allowed[caller], nil
}

func (s *Static) RegistrationOnly(context.Context) (bool, error) {
	return s.regOnly, nil
}

func (s *Static) Configure(_ context.Context, contextID uint64, entryLimit uint32, config []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings[contextID] = Settings{EntryLimit: entryLimit, Config: append([]byte(nil), config...)}
	return nil
}

// Settings returns what contextID configured, if anything.
func (s *Static) Settings(contextID uint64) (Settings, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.settings[contextID]
	return v, ok
}
