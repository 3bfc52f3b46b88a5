// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package eligibility

import (
	"bytes"
	"fmt"
	"math/big"

	"github.com/vechain/arena/arena"
	"github.com/vechain/arena/reverts"
)

// Kind tags the requirement and proof variants.
type Kind uint8

const (
	NFTOwnership Kind = iota + 1
	CrossContext
	Allowlist
	External
)

var kindNames = map[Kind]string{
	NFTOwnership: "nft",
	CrossContext: "cross-context",
	Allowlist:    "allowlist",
	External:     "external",
}

func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, error) {
	for k, n := range kindNames {
		if n == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown requirement kind %q", s)
}

// Mode selects what a cross context requirement accepts.
type Mode uint8

const (
	// Participants accepts any valid registration of the qualifying context.
	Participants Mode = iota
	// Winners accepts only tokens holding the stated leaderboard position.
	Winners
)

type NFTRequirement struct {
	Collection arena.Address
}

type CrossRequirement struct {
	ContextIDs []uint64
	Mode       Mode
}

type AllowlistRequirement struct {
	Addresses []arena.Address
}

type ExternalRequirement struct {
	Validator arena.Address
	Config    []byte
}

// Requirement gates entry into a context. Exactly one variant matching Kind
// is set.
type Requirement struct {
	EntryLimit uint32 // 0 is unlimited
	Kind       Kind
	NFT        *NFTRequirement       `rlp:"nil"`
	Cross      *CrossRequirement     `rlp:"nil"`
	Allowlist  *AllowlistRequirement `rlp:"nil"`
	External   *ExternalRequirement  `rlp:"nil"`
}

func (r *Requirement) variants() (n int, matches bool) {
	set := map[Kind]bool{
		NFTOwnership: r.NFT != nil,
		CrossContext: r.Cross != nil,
		Allowlist:    r.Allowlist != nil,
		External:     r.External != nil,
	}
	for _, ok := range set {
		if ok {
			n++
		}
	}
	return n, set[r.Kind]
}

// Validate checks the shape of the requirement.
func (r *Requirement) Validate() error {
	if n, matches := r.variants(); n != 1 || !matches {
		return reverts.Newf(reverts.ConfigurationError, "requirement of kind %s must set exactly that variant", r.Kind)
	}
	switch r.Kind {
	case NFTOwnership:
		if r.NFT.Collection.IsZero() {
			return reverts.New(reverts.ConfigurationError, "nft requirement needs a collection")
		}
	case CrossContext:
		if len(r.Cross.ContextIDs) == 0 {
			return reverts.New(reverts.ConfigurationError, "cross context requirement needs qualifying contexts")
		}
		if r.Cross.Mode > Winners {
			return reverts.Newf(reverts.ConfigurationError, "unknown cross context mode %d", r.Cross.Mode)
		}
	case Allowlist:
		if len(r.Allowlist.Addresses) == 0 {
			return reverts.New(reverts.ConfigurationError, "allowlist is empty")
		}
	case External:
		if r.External.Validator.IsZero() {
			return reverts.New(reverts.ConfigurationError, "external requirement needs a validator")
		}
	}
	return nil
}

type NFTProof struct {
	TokenID *big.Int
}

type CrossProof struct {
	ContextID uint64
	TokenID   uint64
	Position  uint32 // checked in Winners mode only
}

type AllowlistProof struct {
	Address arena.Address
}

type ExternalProof struct {
	Data []byte
}

// Qualification is the proof an entrant offers. Its Kind must match the
// requirement it is checked against.
type Qualification struct {
	Kind      Kind
	NFT       *NFTProof       `rlp:"nil"`
	Cross     *CrossProof     `rlp:"nil"`
	Allowlist *AllowlistProof `rlp:"nil"`
	External  *ExternalProof  `rlp:"nil"`
}

func (q *Qualification) validate(kind Kind) error {
	if q == nil {
		return reverts.Newf(reverts.EligibilityFailure, "%s qualification required", kind)
	}
	if q.Kind != kind {
		return reverts.Newf(reverts.EligibilityFailure, "%s qualification offered for %s requirement", q.Kind, kind)
	}
	var ok bool
	switch kind {
	case NFTOwnership:
		ok = q.NFT != nil && q.NFT.TokenID != nil
	case CrossContext:
		ok = q.Cross != nil
	case Allowlist:
		ok = q.Allowlist != nil
	case External:
		ok = q.External != nil
	}
	if !ok {
		return reverts.Newf(reverts.EligibilityFailure, "%s qualification is incomplete", kind)
	}
	return nil
}

// Equal reports whether two proofs are the same.
func (q *Qualification) Equal(o *Qualification) bool {
	if q == nil || o == nil {
		return q == o
	}
	if q.Kind != o.Kind {
		return false
	}
	switch q.Kind {
	case NFTOwnership:
		return q.NFT != nil && o.NFT != nil && q.NFT.TokenID.Cmp(o.NFT.TokenID) == 0
	case CrossContext:
		return q.Cross != nil && o.Cross != nil && *q.Cross == *o.Cross
	case Allowlist:
		return q.Allowlist != nil && o.Allowlist != nil && q.Allowlist.Address == o.Allowlist.Address
	case External:
		return q.External != nil && o.External != nil && bytes.Equal(q.External.Data, o.External.Data)
	}
	return false
}
