// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package settlement turns claims on a finalized context into payouts, each
// at most once.
package settlement

import (
	"context"
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/arena/arena"
	"github.com/vechain/arena/contest/distribution"
	"github.com/vechain/arena/contest/prize"
	"github.com/vechain/arena/contest/registry"
	"github.com/vechain/arena/ledger"
	"github.com/vechain/arena/reverts"
	"github.com/vechain/arena/storage"
)

var slotClaims = storage.NameToSlot("claims")

// Source is the context state settlement reads.
type Source interface {
	EntryCount(contextID uint64) (uint32, error)
	FindRegistration(contextID, tokenID uint64) (*registry.Registration, error)
	Occupant(contextID uint64, position uint32) (tokenID uint64, ok bool, err error)
	LeaderboardLen(contextID uint64) (uint32, error)
	TokenOwner(tokenID uint64) (arena.Address, error)
	Prize(id uint64) (*prize.Prize, error)
}

// Owners reports who holds a token in an outside collection.
type Owners interface {
	OwnerOf(ctx context.Context, collection arena.Address, id *big.Int) (arena.Address, error)
}

type Settler struct {
	src     Source
	owners  Owners
	claimed *storage.Mapping[storage.Key, bool]
}

func New(context *storage.Context, src Source, owners Owners) *Settler {
	return &Settler{
		src:     src,
		owners:  owners,
		claimed: storage.NewMapping[storage.Key, bool](context, slotClaims),
	}
}

// IsClaimed reports whether the claim has been settled.
func (s *Settler) IsClaimed(contextID uint64, c Claim) (bool, error) {
	v, err := s.claimed.Get(c.key(contextID))
	if err != nil {
		return false, errors.Wrap(err, "failed to get claim")
	}
	return v, nil
}

// Settle computes the payout of an unsettled claim and marks it settled.
// Moving the funds is up to the caller, who must roll the state back if
// that fails.
func (s *Settler) Settle(ctx context.Context, cx *registry.Context, c Claim) (*Payout, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	done, err := s.IsClaimed(cx.ID, c)
	if err != nil {
		return nil, err
	}
	if done {
		return nil, reverts.Newf(reverts.AlreadySettled, "%v already claimed", c)
	}

	p, err := s.compute(ctx, cx, c)
	if err != nil {
		return nil, err
	}
	if err := s.claimed.Set(c.key(cx.ID), true); err != nil {
		return nil, errors.Wrap(err, "failed to set claim")
	}
	return p, nil
}

func (s *Settler) compute(ctx context.Context, cx *registry.Context, c Claim) (*Payout, error) {
	switch c.Kind {
	case CreatorShare, GameCreatorShare, Refund, Position:
		return s.entryFeeClaim(ctx, cx, c)
	}
	return s.prizeClaim(cx, c)
}

func (s *Settler) entryFeeClaim(ctx context.Context, cx *registry.Context, c Claim) (*Payout, error) {
	fee := cx.EntryFee
	if fee == nil {
		return nil, reverts.Newf(reverts.NothingToClaim, "context %d has no entry fee", cx.ID)
	}
	count, err := s.src.EntryCount(cx.ID)
	if err != nil {
		return nil, err
	}
	pool := fee.Pool(count)
	p := &Payout{ContextID: cx.ID, Claim: c, Token: fee.Token}

	switch c.Kind {
	case CreatorShare:
		if p.Amount, err = shareOf(pool, fee.CreatorShare, c); err != nil {
			return nil, err
		}
		if p.Recipient, err = s.src.TokenOwner(cx.CreatorTokenID); err != nil {
			return nil, err
		}

	case GameCreatorShare:
		if p.Amount, err = shareOf(pool, fee.GameCreatorShare, c); err != nil {
			return nil, err
		}
		owner, err := s.owners.OwnerOf(ctx, cx.Game.Game, cx.Game.CreatorTokenID)
		if err != nil {
			if errors.Is(err, ledger.ErrNoSuchToken) {
				return nil, reverts.Wrap(reverts.NoRecipient, err, "game creator token not found")
			}
			return nil, errors.Wrap(err, "resolve game creator")
		}
		p.Recipient = owner

	case Refund:
		reg, err := s.src.FindRegistration(cx.ID, c.TokenID)
		if err != nil {
			return nil, err
		}
		if reg == nil {
			return nil, reverts.Newf(reverts.NotFound, "token %d is not registered in context %d", c.TokenID, cx.ID)
		}
		total, err := shareOf(pool, fee.RefundShare, c)
		if err != nil {
			return nil, err
		}
		p.Amount = total.Quo(total, big.NewInt(int64(count)))
		if p.Amount.Sign() == 0 {
			return nil, reverts.Newf(reverts.NothingToClaim, "%v rounds to zero", c)
		}
		if p.Recipient, err = s.src.TokenOwner(c.TokenID); err != nil {
			return nil, err
		}

	case Position:
		occupant, ok, err := s.src.Occupant(cx.ID, c.Position)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, reverts.Newf(reverts.NoRecipient, "position %d is not occupied, its entry fee share stays in escrow", c.Position)
		}
		size := fee.DistributionPositions
		if size == 0 {
			if size, err = s.src.LeaderboardLen(cx.ID); err != nil {
				return nil, err
			}
		}
		if c.Position > size {
			return nil, reverts.Newf(reverts.NothingToClaim, "position %d is beyond the %d paid positions", c.Position, size)
		}
		if p.Amount, _, err = distribution.Payout(&fee.Curve, c.Position, size, fee.Available(), pool); err != nil {
			return nil, err
		}
		if p.Recipient, err = s.src.TokenOwner(occupant); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func shareOf(pool *big.Int, bp uint16, c Claim) (*big.Int, error) {
	if bp == 0 {
		return nil, reverts.Newf(reverts.NothingToClaim, "%v is not configured", c.Kind)
	}
	amount, err := distribution.Amount(pool, bp)
	if err != nil {
		return nil, err
	}
	if amount.Sign() == 0 {
		return nil, reverts.Newf(reverts.NothingToClaim, "%v rounds to zero", c)
	}
	return amount, nil
}

func (s *Settler) prizeClaim(cx *registry.Context, c Claim) (*Payout, error) {
	pz, err := s.src.Prize(c.PrizeID)
	if err != nil {
		return nil, err
	}
	if pz.ContextID != cx.ID {
		return nil, reverts.Newf(reverts.NotFound, "prize %d does not belong to context %d", pz.ID, cx.ID)
	}
	p := &Payout{ContextID: cx.ID, Claim: c, Token: pz.Token}

	position := pz.Payout.Position
	switch c.Kind {
	case SponsoredSingle:
		if !pz.Payout.Single() {
			return nil, reverts.Newf(reverts.ConfigurationError, "prize %d is distributed, claim it by position", pz.ID)
		}
		if pz.Kind == prize.NonFungible {
			p.NFTID = new(big.Int).Set(pz.NFTID)
		} else {
			p.Amount = new(big.Int).Set(pz.Amount)
		}
	case SponsoredDistributed:
		if pz.Payout.Single() {
			return nil, reverts.Newf(reverts.ConfigurationError, "prize %d goes to a single position", pz.ID)
		}
		if c.Position > pz.Payout.Count {
			return nil, reverts.Newf(reverts.NothingToClaim, "prize %d pays %d positions", pz.ID, pz.Payout.Count)
		}
		position = c.Position
		if p.Amount, _, err = distribution.Payout(pz.Payout.Curve, position, pz.Payout.Count, arena.BasisPoints, pz.Amount); err != nil {
			return nil, err
		}
	}

	occupant, ok, err := s.src.Occupant(cx.ID, position)
	if err != nil {
		return nil, err
	}
	if !ok {
		p.Recipient = pz.Sponsor
		p.Refunded = true
		return p, nil
	}
	if p.Recipient, err = s.src.TokenOwner(occupant); err != nil {
		return nil, err
	}
	return p, nil
}
