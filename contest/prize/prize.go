// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package prize stores the sponsored prizes added to contexts.
package prize

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/arena/arena"
	"github.com/vechain/arena/contest/distribution"
	"github.com/vechain/arena/reverts"
	"github.com/vechain/arena/storage"
)

var (
	slotPrizes        = storage.NameToSlot("prizes")
	slotContextPrizes = storage.NameToSlot("context-prizes")
)

type Kind uint8

const (
	Fungible Kind = iota + 1
	NonFungible
)

func (k Kind) String() string {
	switch k {
	case Fungible:
		return "fungible"
	case NonFungible:
		return "non-fungible"
	}
	return "unknown"
}

// Payout is either a single position or a distribution over Count
// positions, never both.
type Payout struct {
	Position uint32
	Curve    *distribution.Curve `rlp:"nil"`
	Count    uint32
}

// Single reports whether the prize goes to one position.
func (p *Payout) Single() bool {
	return p.Curve == nil
}

// Prize is a deposit by a sponsor on top of the entry fee pool.
type Prize struct {
	ID        uint64
	ContextID uint64
	Token     arena.Address
	Sponsor   arena.Address
	Kind      Kind
	Amount    *big.Int // fungible prizes
	NFTID     *big.Int // non-fungible prizes
	Payout    Payout
}

// Validate checks the shape of the prize.
func (p *Prize) Validate(params *arena.Params) error {
	if p.Token.IsZero() {
		return reverts.New(reverts.ConfigurationError, "prize needs a token")
	}
	switch p.Kind {
	case Fungible:
		if p.Amount == nil || p.Amount.Sign() <= 0 {
			return reverts.New(reverts.ConfigurationError, "prize amount must be positive")
		}
	case NonFungible:
		if p.NFTID == nil || p.NFTID.Sign() < 0 {
			return reverts.New(reverts.ConfigurationError, "nft prize needs a token id")
		}
	default:
		return reverts.Newf(reverts.ConfigurationError, "unknown prize kind %d", p.Kind)
	}

	pay := &p.Payout
	if pay.Position != 0 && pay.Curve != nil {
		return reverts.New(reverts.ConfigurationError, "prize takes a position or a distribution, not both")
	}
	if pay.Single() {
		if pay.Position == 0 {
			return reverts.New(reverts.ConfigurationError, "prize needs a position or a distribution")
		}
		if pay.Count != 0 {
			return reverts.New(reverts.ConfigurationError, "single position prize takes no distribution count")
		}
		return nil
	}
	if p.Kind == NonFungible {
		return reverts.New(reverts.ConfigurationError, "nft prizes go to a single position")
	}
	if pay.Count == 0 {
		return reverts.New(reverts.ConfigurationError, "distributed prize needs a position count")
	}
	return pay.Curve.ValidateBudget(pay.Count, arena.BasisPoints, params.ShareTolerance)
}

type Store struct {
	seq     *storage.Sequence
	prizes  *storage.Mapping[storage.Uint64, *Prize]
	context *storage.Context
}

func NewStore(context *storage.Context, seq *storage.Sequence) *Store {
	return &Store{
		seq:     seq,
		prizes:  storage.NewMapping[storage.Uint64, *Prize](context, slotPrizes),
		context: context,
	}
}

func (s *Store) ids(contextID uint64) *storage.List[uint64] {
	return storage.NewList[uint64](s.context, slotContextPrizes, storage.Uint64(contextID))
}

// Add assigns p an id and stores it.
func (s *Store) Add(p *Prize) error {
	id, err := s.seq.Next()
	if err != nil {
		return err
	}
	p.ID = id
	if err := s.prizes.Set(storage.Uint64(id), p); err != nil {
		return errors.Wrap(err, "failed to set prize")
	}
	if _, err := s.ids(p.ContextID).Append(id); err != nil {
		return errors.Wrap(err, "failed to index prize")
	}
	return nil
}

// Get returns the prize or a NotFound revert.
func (s *Store) Get(id uint64) (*Prize, error) {
	p, found, err := s.prizes.Lookup(storage.Uint64(id))
	if err != nil {
		return nil, errors.Wrap(err, "failed to get prize")
	}
	if !found {
		return nil, reverts.Newf(reverts.NotFound, "prize %d does not exist", id)
	}
	return p, nil
}

// ByContext returns the prizes of a context in the order they were added.
func (s *Store) ByContext(contextID uint64) ([]*Prize, error) {
	ids, err := s.ids(contextID).All()
	if err != nil {
		return nil, errors.Wrap(err, "failed to list prizes")
	}
	out := make([]*Prize, 0, len(ids))
	for _, id := range ids {
		p, err := s.Get(id)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}
