// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package validator connects contexts to the external services that decide
// eligibility on their behalf.
package validator

import (
	"context"
	"sync"

	"github.com/vechain/arena/arena"
	"github.com/vechain/arena/reverts"
)

// Validator decides whether a caller may enter a context.
type Validator interface {
	IsValid(ctx context.Context, contextID uint64, caller arena.Address, proof []byte) (bool, error)
	// RegistrationOnly validators can only be used by contexts with a
	// registration period ahead of the game.
	RegistrationOnly(ctx context.Context) (bool, error)
}

// Configurer is implemented by validators that take per context settings.
type Configurer interface {
	Configure(ctx context.Context, contextID uint64, entryLimit uint32, config []byte) error
}

// Registry maps validator addresses to implementations.
type Registry struct {
	mu         sync.RWMutex
	validators map[arena.Address]Validator
}

func NewRegistry() *Registry {
	return &Registry{validators: make(map[arena.Address]Validator)}
}

// Register binds addr to v, replacing any previous binding.
func (r *Registry) Register(addr arena.Address, v Validator) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.validators[addr] = v
}

// Lookup returns the validator bound to addr.
func (r *Registry) Lookup(addr arena.Address) (Validator, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.validators[addr]
	if !ok {
		return nil, reverts.Newf(reverts.ConfigurationError, "no validator registered at %v", addr)
	}
	return v, nil
}

// Addresses returns every registered address.
func (r *Registry) Addresses() []arena.Address {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]arena.Address, 0, len(r.validators))
	for addr := range r.validators {
		out = append(out, addr)
	}
	return out
}
