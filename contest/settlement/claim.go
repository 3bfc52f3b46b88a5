// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package settlement

import (
	"fmt"
	"math/big"

	"github.com/vechain/arena/arena"
	"github.com/vechain/arena/reverts"
	"github.com/vechain/arena/storage"
)

type Kind uint8

const (
	CreatorShare Kind = iota + 1
	GameCreatorShare
	Refund
	Position
	SponsoredSingle
	SponsoredDistributed
)

var kindNames = map[Kind]string{
	CreatorShare:         "creator",
	GameCreatorShare:     "game-creator",
	Refund:               "refund",
	Position:             "position",
	SponsoredSingle:      "sponsored-single",
	SponsoredDistributed: "sponsored-distributed",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if name == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown claim kind %q", s)
}

// Claim names one payout of a context. Only the fields used by its kind
// may be set: TokenID for Refund, Position for Position and
// SponsoredDistributed, PrizeID for the sponsored kinds.
type Claim struct {
	Kind     Kind
	TokenID  uint64
	Position uint32
	PrizeID  uint64
}

func (c Claim) String() string {
	switch c.Kind {
	case Refund:
		return fmt.Sprintf("%v(%d)", c.Kind, c.TokenID)
	case Position:
		return fmt.Sprintf("%v(%d)", c.Kind, c.Position)
	case SponsoredSingle:
		return fmt.Sprintf("%v(%d)", c.Kind, c.PrizeID)
	case SponsoredDistributed:
		return fmt.Sprintf("%v(%d,%d)", c.Kind, c.PrizeID, c.Position)
	}
	return c.Kind.String()
}

// Validate rejects claims with stray or missing fields so that every
// payout has exactly one key.
func (c Claim) Validate() error {
	var tokenID, position, prizeID bool
	switch c.Kind {
	case CreatorShare, GameCreatorShare:
	case Refund:
		tokenID = true
	case Position:
		position = true
	case SponsoredSingle:
		prizeID = true
	case SponsoredDistributed:
		position, prizeID = true, true
	default:
		return reverts.Newf(reverts.ConfigurationError, "unknown claim kind %d", c.Kind)
	}
	if (c.TokenID != 0) != tokenID || (c.Position != 0) != position || (c.PrizeID != 0) != prizeID {
		return reverts.Newf(reverts.ConfigurationError, "malformed %v claim", c.Kind)
	}
	return nil
}

func (c Claim) key(contextID uint64) storage.Key {
	return storage.Join(
		storage.Uint64(contextID),
		storage.Bytes{byte(c.Kind)},
		storage.Uint64(c.TokenID),
		storage.Uint64(c.Position),
		storage.Uint64(c.PrizeID),
	)
}

// Payout is a settled claim.
type Payout struct {
	ContextID uint64
	Claim     Claim
	Recipient arena.Address
	Token     arena.Address
	Amount    *big.Int // nil for nft prizes
	NFTID     *big.Int // set for nft prizes
	// Refunded is set when a sponsored prize went back to its sponsor.
	Refunded bool
}
