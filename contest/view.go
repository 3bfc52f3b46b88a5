// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package contest

import (
	"github.com/vechain/arena/arena"
	"github.com/vechain/arena/contest/eligibility"
	"github.com/vechain/arena/contest/prize"
	"github.com/vechain/arena/contest/registry"
	"github.com/vechain/arena/contest/schedule"
	"github.com/vechain/arena/contest/settlement"
)

// view exposes engine state to the resolver and the settler. It must only
// be used while the engine lock is held.
type view struct {
	e *Engine
}

var (
	_ eligibility.Contexts = view{}
	_ settlement.Source    = view{}
)

func (v view) Exists(contextID uint64) (bool, error) {
	return v.e.contexts.Exists(contextID)
}

func (v view) IsFinalized(contextID uint64, now uint64) (bool, error) {
	c, err := v.e.contexts.Get(contextID)
	if err != nil {
		return false, err
	}
	return c.Schedule.Phase(now) == schedule.Finalized, nil
}

func (v view) Participation(contextID, tokenID uint64) (eligibility.Participation, error) {
	reg, err := v.e.contexts.FindRegistration(contextID, tokenID)
	if err != nil || reg == nil {
		return eligibility.Participation{}, err
	}
	return eligibility.Participation{
		Registered:   true,
		HasSubmitted: reg.HasSubmitted,
		IsBanned:     reg.IsBanned,
	}, nil
}

func (v view) Occupant(contextID uint64, position uint32) (uint64, bool, error) {
	entry, ok, err := v.e.board.At(contextID, position)
	return entry.TokenID, ok, err
}

func (v view) EntryOwner(tokenID uint64) (arena.Address, error) {
	return v.e.tokens.OwnerOf(tokenID)
}

func (v view) EntryCount(contextID uint64) (uint32, error) {
	return v.e.contexts.EntryCount(contextID)
}

func (v view) FindRegistration(contextID, tokenID uint64) (*registry.Registration, error) {
	return v.e.contexts.FindRegistration(contextID, tokenID)
}

func (v view) LeaderboardLen(contextID uint64) (uint32, error) {
	return v.e.board.Len(contextID)
}

func (v view) TokenOwner(tokenID uint64) (arena.Address, error) {
	return v.e.tokens.OwnerOf(tokenID)
}

func (v view) Prize(id uint64) (*prize.Prize, error) {
	return v.e.prizes.Get(id)
}
