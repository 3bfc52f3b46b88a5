// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package contest

import (
	"github.com/vechain/arena/arena"
	"github.com/vechain/arena/contest/leaderboard"
	"github.com/vechain/arena/contest/prize"
	"github.com/vechain/arena/contest/registry"
	"github.com/vechain/arena/contest/schedule"
	"github.com/vechain/arena/contest/settlement"
	"github.com/vechain/arena/contest/token"
)

func (e *Engine) Context(id uint64) (c *registry.Context, err error) {
	err = e.read(func(uint64) error {
		c, err = e.contexts.Get(id)
		return err
	})
	return
}

// ContextCount returns the number of contexts created so far.
func (e *Engine) ContextCount() (n uint64, err error) {
	err = e.read(func(uint64) error {
		n, err = e.contexts.Count()
		return err
	})
	return
}

// Phase returns the phase of a context at the engine clock.
func (e *Engine) Phase(id uint64) (p schedule.Phase, err error) {
	err = e.read(func(now uint64) error {
		c, err := e.contexts.Get(id)
		if err != nil {
			return err
		}
		p = c.Schedule.Phase(now)
		return nil
	})
	return
}

func (e *Engine) Registration(contextID, tokenID uint64) (reg *registry.Registration, err error) {
	err = e.read(func(uint64) error {
		reg, err = e.contexts.Registration(contextID, tokenID)
		return err
	})
	return
}

func (e *Engine) EntryCount(contextID uint64) (n uint32, err error) {
	err = e.read(func(uint64) error {
		if _, err := e.contexts.Get(contextID); err != nil {
			return err
		}
		n, err = e.contexts.EntryCount(contextID)
		return err
	})
	return
}

func (e *Engine) Leaderboard(contextID uint64) (entries []leaderboard.Entry, err error) {
	err = e.read(func(uint64) error {
		if _, err := e.contexts.Get(contextID); err != nil {
			return err
		}
		entries, err = e.board.All(contextID)
		return err
	})
	return
}

func (e *Engine) Prize(id uint64) (p *prize.Prize, err error) {
	err = e.read(func(uint64) error {
		p, err = e.prizes.Get(id)
		return err
	})
	return
}

func (e *Engine) Prizes(contextID uint64) (ps []*prize.Prize, err error) {
	err = e.read(func(uint64) error {
		ps, err = e.prizes.ByContext(contextID)
		return err
	})
	return
}

func (e *Engine) IsClaimed(contextID uint64, claim settlement.Claim) (ok bool, err error) {
	err = e.read(func(uint64) error {
		if err := claim.Validate(); err != nil {
			return err
		}
		ok, err = e.settler.IsClaimed(contextID, claim)
		return err
	})
	return
}

func (e *Engine) Token(id uint64) (t *token.Token, err error) {
	err = e.read(func(uint64) error {
		t, err = e.tokens.Get(id)
		return err
	})
	return
}

func (e *Engine) TokenOwner(id uint64) (owner arena.Address, err error) {
	err = e.read(func(uint64) error {
		owner, err = e.tokens.OwnerOf(id)
		return err
	})
	return
}
