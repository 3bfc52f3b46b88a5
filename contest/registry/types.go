// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package registry

import (
	"math/big"

	"github.com/vechain/arena/arena"
	"github.com/vechain/arena/contest/distribution"
	"github.com/vechain/arena/contest/eligibility"
	"github.com/vechain/arena/contest/schedule"
	"github.com/vechain/arena/reverts"
)

type Metadata struct {
	Name        string
	Description string
}

// Descriptor points at the game a context is played in.
type Descriptor struct {
	Game       arena.Address
	SettingsID uint64
	// CreatorTokenID is the token of the game's creator in the Game
	// collection. Its holder receives the game creator share.
	CreatorTokenID *big.Int
	// Soulbound entry tokens cannot be transferred.
	Soulbound bool
	PlayURL   string
}

// EntryFee is what every entrant pays and how the collected pool is split.
// A zero share is not configured.
type EntryFee struct {
	Token            arena.Address
	Amount           *big.Int
	Curve            distribution.Curve
	CreatorShare     uint16
	GameCreatorShare uint16
	RefundShare      uint16
	// DistributionPositions fixes the number of paid positions. Zero sizes
	// the positions to the leaderboard at claim time.
	DistributionPositions uint32
}

// FixedShares is the part of the pool not handed out by position.
func (f *EntryFee) FixedShares() uint32 {
	return uint32(f.CreatorShare) + uint32(f.GameCreatorShare) + uint32(f.RefundShare)
}

// Available is the basis point budget left for positions.
func (f *EntryFee) Available() uint16 {
	return arena.BasisPoints - uint16(f.FixedShares())
}

// provisionalSize is the position count the curve is checked against when
// the real count is only known at claim time.
func (f *EntryFee) provisionalSize() uint32 {
	if f.DistributionPositions != 0 {
		return f.DistributionPositions
	}
	if f.Curve.Kind == distribution.Custom {
		return uint32(len(f.Curve.Table))
	}
	return 1
}

// Validate checks that the shares add up to 100% within tolerance.
func (f *EntryFee) Validate(params *arena.Params) error {
	if f.Token.IsZero() {
		return reverts.New(reverts.ConfigurationError, "entry fee needs a token")
	}
	if f.Amount == nil || f.Amount.Sign() <= 0 {
		return reverts.New(reverts.ConfigurationError, "entry fee amount must be positive")
	}
	if fixed := f.FixedShares(); fixed > uint32(arena.BasisPoints) {
		return reverts.Newf(reverts.ConfigurationError, "fixed shares %d exceed %d", fixed, arena.BasisPoints)
	}
	return f.Curve.ValidateBudget(f.provisionalSize(), f.Available(), params.ShareTolerance)
}

// Pool is the total collected from count entries.
func (f *EntryFee) Pool(count uint32) *big.Int {
	return new(big.Int).Mul(f.Amount, big.NewInt(int64(count)))
}

// Context is a competitive event.
type Context struct {
	ID             uint64
	CreatedAt      uint64
	CreatedBy      arena.Address
	CreatorTokenID uint64
	Metadata       Metadata
	Schedule       schedule.Schedule
	Game           Descriptor
	EntryFee       *EntryFee                `rlp:"nil"`
	Requirement    *eligibility.Requirement `rlp:"nil"`
}

// Validate checks everything about the context that does not need state.
func (c *Context) Validate(params *arena.Params) error {
	if c.Metadata.Name == "" {
		return reverts.New(reverts.ConfigurationError, "context needs a name")
	}
	if err := c.Schedule.Validate(params); err != nil {
		return err
	}
	if f := c.EntryFee; f != nil {
		if err := f.Validate(params); err != nil {
			return err
		}
		if f.GameCreatorShare != 0 && (c.Game.Game.IsZero() || c.Game.CreatorTokenID == nil) {
			return reverts.New(reverts.ConfigurationError, "game creator share needs a game creator token")
		}
	}
	if c.Requirement != nil {
		if err := c.Requirement.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Registration is one entry into a context, identified by its entry token.
type Registration struct {
	EntryTokenID uint64
	ContextID    uint64
	EntryNumber  uint32
	PlayerName   string
	Proof        *eligibility.Qualification `rlp:"nil"`
	// Qualifying is who the proof resolved to at entry.
	Qualifying   arena.Address
	HasSubmitted bool
	IsBanned     bool
}
