// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package token tracks the entry and creator tokens minted by contexts.
package token

import (
	"github.com/pkg/errors"

	"github.com/vechain/arena/arena"
	"github.com/vechain/arena/reverts"
	"github.com/vechain/arena/storage"
)

var slotTokens = storage.NameToSlot("tokens")

type Kind uint8

const (
	Entry Kind = iota + 1
	Creator
)

func (k Kind) String() string {
	switch k {
	case Entry:
		return "entry"
	case Creator:
		return "creator"
	}
	return "unknown"
}

// Token is a transferable claim on a context. Entry tokens stand for a
// registration, creator tokens for the right to the creator share.
type Token struct {
	ID        uint64
	Kind      Kind
	ContextID uint64
	Owner     arena.Address
}

// Registry owns every token. Entry and creator tokens share one id space.
type Registry struct {
	seq    *storage.Sequence
	tokens *storage.Mapping[storage.Uint64, *Token]
}

func NewRegistry(context *storage.Context, seq *storage.Sequence) *Registry {
	return &Registry{
		seq:    seq,
		tokens: storage.NewMapping[storage.Uint64, *Token](context, slotTokens),
	}
}

// Mint creates a token owned by owner.
func (r *Registry) Mint(kind Kind, contextID uint64, owner arena.Address) (*Token, error) {
	if owner.IsZero() {
		return nil, reverts.New(reverts.ConfigurationError, "cannot mint to the zero address")
	}
	id, err := r.seq.Next()
	if err != nil {
		return nil, err
	}
	t := &Token{ID: id, Kind: kind, ContextID: contextID, Owner: owner}
	if err := r.tokens.Set(storage.Uint64(id), t); err != nil {
		return nil, errors.Wrap(err, "failed to set token")
	}
	return t, nil
}

// Get returns the token or a NotFound revert.
func (r *Registry) Get(id uint64) (*Token, error) {
	t, found, err := r.tokens.Lookup(storage.Uint64(id))
	if err != nil {
		return nil, errors.Wrap(err, "failed to get token")
	}
	if !found {
		return nil, reverts.Newf(reverts.NotFound, "token %d does not exist", id)
	}
	return t, nil
}

func (r *Registry) OwnerOf(id uint64) (arena.Address, error) {
	t, err := r.Get(id)
	if err != nil {
		return arena.Address{}, err
	}
	return t.Owner, nil
}

// Transfer moves a token held by from to to.
func (r *Registry) Transfer(id uint64, from, to arena.Address) (*Token, error) {
	t, err := r.Get(id)
	if err != nil {
		return nil, err
	}
	if t.Owner != from {
		return nil, reverts.Newf(reverts.Unauthorized, "%v does not hold token %d", from, id)
	}
	if to.IsZero() {
		return nil, reverts.New(reverts.ConfigurationError, "cannot transfer to the zero address")
	}
	t.Owner = to
	if err := r.tokens.Set(storage.Uint64(id), t); err != nil {
		return nil, errors.Wrap(err, "failed to set token")
	}
	return t, nil
}
