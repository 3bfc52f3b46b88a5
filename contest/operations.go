// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package contest

import (
	"context"
	"math/big"

	"github.com/vechain/arena/arena"
	"github.com/vechain/arena/contest/distribution"
	"github.com/vechain/arena/contest/eligibility"
	"github.com/vechain/arena/contest/events"
	"github.com/vechain/arena/contest/leaderboard"
	"github.com/vechain/arena/contest/prize"
	"github.com/vechain/arena/contest/registry"
	"github.com/vechain/arena/contest/schedule"
	"github.com/vechain/arena/contest/settlement"
	"github.com/vechain/arena/contest/token"
	"github.com/vechain/arena/reverts"
)

type CreateParams struct {
	Creator     arena.Address
	Metadata    registry.Metadata
	Schedule    schedule.Schedule
	Game        registry.Descriptor
	EntryFee    *registry.EntryFee
	Requirement *eligibility.Requirement
}

// CreateContext validates and stores a new context and mints its creator
// token to the creator.
func (e *Engine) CreateContext(ctx context.Context, p *CreateParams) (*registry.Context, error) {
	var created *registry.Context
	err := e.atomic(ctx, "create", func(now uint64) error {
		c := &registry.Context{
			CreatedAt:   now,
			CreatedBy:   p.Creator,
			Metadata:    p.Metadata,
			Schedule:    p.Schedule,
			Game:        p.Game,
			EntryFee:    p.EntryFee,
			Requirement: p.Requirement,
		}
		if err := c.Validate(&e.params); err != nil {
			return err
		}
		if c.Schedule.Game.End <= now {
			return reverts.New(reverts.ConfigurationError, "game must end in the future")
		}
		if c.Requirement != nil {
			if err := e.resolver.CheckConfig(ctx, c.Requirement, c.Schedule.Registration != nil); err != nil {
				return err
			}
		}

		id, err := e.contexts.NextID()
		if err != nil {
			return err
		}
		c.ID = id
		tok, err := e.tokens.Mint(token.Creator, id, p.Creator)
		if err != nil {
			return err
		}
		c.CreatorTokenID = tok.ID
		if err := e.contexts.Put(c); err != nil {
			return err
		}
		if c.Requirement != nil {
			if err := e.resolver.Configure(ctx, id, c.Requirement); err != nil {
				return err
			}
		}

		metricContextsNum().Set(int64(id))
		logger.Info("context created", "id", id, "name", c.Metadata.Name, "creator", p.Creator)
		e.emit(&events.Event{Name: events.ContextCreated, ContextID: id, TokenID: tok.ID, Account: p.Creator})
		created = c
		return nil
	})
	return created, err
}

type EnterParams struct {
	ContextID uint64
	Caller    arena.Address
	// Player receives the entry token when the caller qualifies on its own
	// behalf. Zero means the caller.
	Player     arena.Address
	PlayerName string
	Proof      *eligibility.Qualification
}

// EnterContext registers an entry and pays the entry fee from the caller.
func (e *Engine) EnterContext(ctx context.Context, p *EnterParams) (tokenID uint64, entryNumber uint32, err error) {
	err = e.atomic(ctx, "enter", func(now uint64) error {
		c, err := e.contexts.Get(p.ContextID)
		if err != nil {
			return err
		}
		if err := c.Schedule.CheckEnter(now); err != nil {
			return err
		}

		recipient := p.Player
		if recipient.IsZero() {
			recipient = p.Caller
		}
		var (
			proof      *eligibility.Qualification
			qualifying arena.Address
		)
		if rq := c.Requirement; rq != nil {
			res, err := e.resolver.Resolve(ctx, &eligibility.Request{
				ContextID:   c.ID,
				Requirement: rq,
				Proof:       p.Proof,
				Caller:      p.Caller,
				Now:         now,
			})
			if err != nil {
				return err
			}
			if _, err := e.resolver.Consume(c.ID, res.Key, rq.EntryLimit); err != nil {
				return err
			}
			recipient = res.Recipient(p.Caller, p.Player)
			proof = p.Proof
			qualifying = res.Qualifying
		}

		tok, err := e.tokens.Mint(token.Entry, c.ID, recipient)
		if err != nil {
			return err
		}
		reg := &registry.Registration{
			EntryTokenID: tok.ID,
			ContextID:    c.ID,
			PlayerName:   p.PlayerName,
			Proof:        proof,
			Qualifying:   qualifying,
		}
		if err := e.contexts.Register(reg); err != nil {
			return err
		}

		ev := &events.Event{Name: events.EntryRegistered, ContextID: c.ID, TokenID: tok.ID, Account: recipient}
		if fee := c.EntryFee; fee != nil {
			if err := e.ledger.Transfer(ctx, fee.Token, p.Caller, e.escrow, fee.Amount); err != nil {
				return transferFailure(err, "entry fee from %v", p.Caller)
			}
			ev.Token, ev.Amount = fee.Token, new(big.Int).Set(fee.Amount)
		}

		logger.Debug("entry registered", "context", c.ID, "token", tok.ID, "entry", reg.EntryNumber, "player", recipient)
		e.emit(ev)
		tokenID, entryNumber = tok.ID, reg.EntryNumber
		return nil
	})
	if err != nil {
		return 0, 0, err
	}
	return tokenID, entryNumber, nil
}

// BanEntry bans an entry whose stored proof no longer qualifies its
// current holder. When proof is given it must be the stored one.
func (e *Engine) BanEntry(ctx context.Context, contextID, tokenID uint64, proof *eligibility.Qualification) error {
	return e.atomic(ctx, "ban", func(now uint64) error {
		c, err := e.contexts.Get(contextID)
		if err != nil {
			return err
		}
		if err := c.Schedule.CheckBan(now); err != nil {
			return err
		}
		if c.Requirement == nil {
			return reverts.New(reverts.EligibilityFailure, "context has no requirement to re-evaluate")
		}
		reg, err := e.contexts.Registration(contextID, tokenID)
		if err != nil {
			return err
		}
		if reg.IsBanned {
			return reverts.Newf(reverts.AlreadySettled, "token %d is already banned", tokenID)
		}
		if proof != nil && !proof.Equal(reg.Proof) {
			return reverts.New(reverts.EligibilityFailure, "proof does not match the entry")
		}

		owner, err := e.tokens.OwnerOf(tokenID)
		if err != nil {
			return err
		}
		still, err := e.resolver.StillQualifies(ctx, &eligibility.Request{
			ContextID:   contextID,
			Requirement: c.Requirement,
			Proof:       reg.Proof,
			Caller:      owner,
			Now:         now,
		}, reg.Qualifying)
		if err != nil {
			return err
		}
		if still {
			return reverts.Newf(reverts.EligibilityFailure, "token %d still qualifies", tokenID)
		}

		reg.IsBanned = true
		if err := e.contexts.PutRegistration(reg); err != nil {
			return err
		}
		logger.Info("entry banned", "context", contextID, "token", tokenID, "owner", owner)
		e.emit(&events.Event{Name: events.EntryBanned, ContextID: contextID, TokenID: tokenID, Account: owner})
		return nil
	})
}

type SubmitParams struct {
	ContextID uint64
	TokenID   uint64
	// Caller must hold the entry token.
	Caller   arena.Address
	Position uint32
	Score    uint64
}

// SubmitResult places the score of an entry on the leaderboard.
func (e *Engine) SubmitResult(ctx context.Context, p *SubmitParams) error {
	return e.atomic(ctx, "submit", func(now uint64) error {
		c, err := e.contexts.Get(p.ContextID)
		if err != nil {
			return err
		}
		if err := c.Schedule.CheckSubmit(now); err != nil {
			return err
		}
		reg, err := e.contexts.Registration(p.ContextID, p.TokenID)
		if err != nil {
			return err
		}
		if reg.IsBanned {
			return reverts.Newf(reverts.EligibilityFailure, "token %d is banned", p.TokenID)
		}
		if reg.HasSubmitted {
			return reverts.Newf(reverts.AlreadySettled, "token %d already submitted", p.TokenID)
		}
		owner, err := e.tokens.OwnerOf(p.TokenID)
		if err != nil {
			return err
		}
		if owner != p.Caller {
			return reverts.Newf(reverts.Unauthorized, "%v does not hold token %d", p.Caller, p.TokenID)
		}

		if err := e.board.Submit(p.ContextID, p.Position, leaderboard.Entry{TokenID: p.TokenID, Score: p.Score}); err != nil {
			return err
		}
		reg.HasSubmitted = true
		if err := e.contexts.PutRegistration(reg); err != nil {
			return err
		}

		metricPositions().Observe(int64(p.Position))
		e.emit(&events.Event{
			Name:      events.LeaderboardUpdated,
			ContextID: p.ContextID,
			TokenID:   p.TokenID,
			Position:  p.Position,
			Score:     p.Score,
			Account:   owner,
		})
		return nil
	})
}

type PrizeParams struct {
	ContextID uint64
	Sponsor   arena.Address
	Token     arena.Address
	Kind      prize.Kind
	Amount    *big.Int
	NFTID     *big.Int
	// Position and Curve are mutually exclusive. Count is the number of
	// positions a Curve pays.
	Position uint32
	Curve    *distribution.Curve
	Count    uint32
}

// AddSponsoredPrize deposits a prize from the sponsor into escrow.
func (e *Engine) AddSponsoredPrize(ctx context.Context, p *PrizeParams) (uint64, error) {
	var id uint64
	err := e.atomic(ctx, "add-prize", func(now uint64) error {
		c, err := e.contexts.Get(p.ContextID)
		if err != nil {
			return err
		}
		if err := c.Schedule.CheckAddPrize(now); err != nil {
			return err
		}
		pz := &prize.Prize{
			ContextID: c.ID,
			Token:     p.Token,
			Sponsor:   p.Sponsor,
			Kind:      p.Kind,
			Amount:    p.Amount,
			NFTID:     p.NFTID,
			Payout:    prize.Payout{Position: p.Position, Curve: p.Curve, Count: p.Count},
		}
		if err := pz.Validate(&e.params); err != nil {
			return err
		}
		if err := e.prizes.Add(pz); err != nil {
			return err
		}

		ev := &events.Event{Name: events.PrizeAdded, ContextID: c.ID, PrizeID: pz.ID, Account: p.Sponsor, Token: p.Token, Position: p.Position}
		if pz.Kind == prize.NonFungible {
			if err := e.ledger.TransferNFT(ctx, pz.Token, pz.Sponsor, e.escrow, pz.NFTID); err != nil {
				return transferFailure(err, "prize nft from %v", pz.Sponsor)
			}
			ev.Detail = pz.NFTID.String()
		} else {
			if err := e.ledger.Transfer(ctx, pz.Token, pz.Sponsor, e.escrow, pz.Amount); err != nil {
				return transferFailure(err, "prize from %v", pz.Sponsor)
			}
			ev.Amount = new(big.Int).Set(pz.Amount)
		}

		logger.Info("prize added", "context", c.ID, "prize", pz.ID, "sponsor", pz.Sponsor, "kind", pz.Kind)
		e.emit(ev)
		id = pz.ID
		return nil
	})
	return id, err
}

// Claim settles one payout of a finalized context. Anyone may trigger any
// claim; the funds always go to the resolved recipient.
func (e *Engine) Claim(ctx context.Context, contextID uint64, claim settlement.Claim) (*settlement.Payout, error) {
	var payout *settlement.Payout
	err := e.atomic(ctx, "claim", func(now uint64) error {
		c, err := e.contexts.Get(contextID)
		if err != nil {
			return err
		}
		if err := c.Schedule.CheckFinalized(now); err != nil {
			return err
		}
		p, err := e.settler.Settle(ctx, c, claim)
		if err != nil {
			return err
		}

		ev := &events.Event{
			Name:      events.ClaimSettled,
			ContextID: contextID,
			TokenID:   claim.TokenID,
			PrizeID:   claim.PrizeID,
			Position:  claim.Position,
			Account:   p.Recipient,
			Token:     p.Token,
			Detail:    claim.Kind.String(),
		}
		if p.NFTID != nil {
			if err := e.ledger.TransferNFT(ctx, p.Token, e.escrow, p.Recipient, p.NFTID); err != nil {
				return transferFailure(err, "settle %v", claim)
			}
		} else {
			if err := e.ledger.Transfer(ctx, p.Token, e.escrow, p.Recipient, p.Amount); err != nil {
				return transferFailure(err, "settle %v", claim)
			}
			ev.Amount = new(big.Int).Set(p.Amount)
		}

		refunded := "false"
		if p.Refunded {
			refunded = "true"
		}
		metricClaims().AddWithLabel(1, map[string]string{"kind": claim.Kind.String(), "refunded": refunded})
		logger.Info("claim settled", "context", contextID, "claim", claim, "recipient", p.Recipient, "amount", p.Amount, "refunded", p.Refunded)
		e.emit(ev)
		payout = p
		return nil
	})
	return payout, err
}

// TransferToken moves an entry or creator token. Entry tokens of soulbound
// games cannot move.
func (e *Engine) TransferToken(ctx context.Context, tokenID uint64, from, to arena.Address) error {
	return e.atomic(ctx, "transfer-token", func(uint64) error {
		t, err := e.tokens.Get(tokenID)
		if err != nil {
			return err
		}
		if t.Kind == token.Entry {
			c, err := e.contexts.Get(t.ContextID)
			if err != nil {
				return err
			}
			if c.Game.Soulbound {
				return reverts.Newf(reverts.Unauthorized, "token %d is soulbound", tokenID)
			}
		}
		if _, err := e.tokens.Transfer(tokenID, from, to); err != nil {
			return err
		}
		e.emit(&events.Event{Name: events.TokenTransferred, ContextID: t.ContextID, TokenID: tokenID, Account: to, Detail: from.String()})
		return nil
	})
}
