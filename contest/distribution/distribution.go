// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package distribution turns a reward curve into basis point shares and
// payout amounts. Everything here is pure.
package distribution

import (
	"fmt"
	"math/big"

	"github.com/holiman/uint256"

	"github.com/vechain/arena/arena"
	"github.com/vechain/arena/reverts"
)

// CurveKind selects how shares decay with position.
type CurveKind uint8

const (
	Linear CurveKind = iota + 1
	Exponential
	Uniform
	Custom
)

var curveNames = map[CurveKind]string{
	Linear:      "linear",
	Exponential: "exponential",
	Uniform:     "uniform",
	Custom:      "custom",
}

func (k CurveKind) String() string {
	if n, ok := curveNames[k]; ok {
		return n
	}
	return fmt.Sprintf("curve(%d)", uint8(k))
}

// ParseCurveKind is the inverse of CurveKind.String.
func ParseCurveKind(s string) (CurveKind, error) {
	for k, n := range curveNames {
		if n == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown curve %q", s)
}

const (
	// MaxWeight bounds the weight of linear and exponential curves.
	MaxWeight = 1000
	// exponentialBase is the weight of a flat exponential curve; the decay
	// ratio between neighbouring positions is Weight/exponentialBase.
	exponentialBase = 10
	// linearBase is the raw weight of the last linear position.
	linearBase = 10
)

// Curve describes how a pool is split among ranked positions.
type Curve struct {
	Kind   CurveKind
	Weight uint64
	// Table holds the per-position shares of a Custom curve, position 1 first.
	Table []uint16
}

// Validate checks the curve parameters. It does not check custom tables
// against a budget, see ValidateBudget.
func (c *Curve) Validate() error {
	switch c.Kind {
	case Linear:
		if c.Weight > MaxWeight {
			return reverts.Newf(reverts.ConfigurationError, "linear weight %d above %d", c.Weight, MaxWeight)
		}
	case Exponential:
		if c.Weight < exponentialBase || c.Weight > MaxWeight {
			return reverts.Newf(reverts.ConfigurationError, "exponential weight %d outside [%d, %d]", c.Weight, exponentialBase, MaxWeight)
		}
	case Uniform:
	case Custom:
		if len(c.Table) == 0 {
			return reverts.New(reverts.ConfigurationError, "custom curve needs a share table")
		}
	default:
		return reverts.Newf(reverts.ConfigurationError, "unknown curve kind %d", c.Kind)
	}
	if c.Kind != Custom && len(c.Table) != 0 {
		return reverts.Newf(reverts.ConfigurationError, "%s curve takes no share table", c.Kind)
	}
	return nil
}

// ValidateBudget checks that the shares of the curve over size positions
// land within tolerance below available. Generated curves always match
// exactly; custom tables are checked as written.
func (c *Curve) ValidateBudget(size uint32, available, tolerance uint16) error {
	if err := c.Validate(); err != nil {
		return err
	}
	total, err := Total(c, size, available)
	if err != nil {
		return err
	}
	if total > uint64(available) {
		return reverts.Newf(reverts.ConfigurationError, "curve shares %d exceed available %d", total, available)
	}
	if uint64(available)-total > uint64(tolerance) {
		return reverts.Newf(reverts.ConfigurationError, "curve shares %d fall short of available %d by more than %d", total, available, tolerance)
	}
	return nil
}

// weights calls fn with the unnormalised weight of positions 1..size in
// order until fn returns false. w is only valid during the call.
func (c *Curve) weights(size uint32, fn func(p uint32, w *big.Int) bool) {
	switch c.Kind {
	case Linear:
		weight := new(big.Int).SetUint64(c.Weight)
		w := new(big.Int)
		for p := uint32(1); p <= size; p++ {
			w.Mul(weight, new(big.Int).SetUint64(uint64(size-p)))
			w.Add(w, big.NewInt(linearBase))
			if !fn(p, w) {
				return
			}
		}
	case Exponential:
		// w(p) = weight^(size-p) * 10^(p-1), so w(p)/w(p+1) == weight/10 exactly.
		weight := new(big.Int).SetUint64(c.Weight)
		base := big.NewInt(exponentialBase)
		w := new(big.Int).Exp(weight, new(big.Int).SetUint64(uint64(size-1)), nil)
		for p := uint32(1); p <= size; p++ {
			if !fn(p, w) {
				return
			}
			w.Mul(w, base).Quo(w, weight)
		}
	default:
		one := big.NewInt(1)
		for p := uint32(1); p <= size; p++ {
			if !fn(p, one) {
				return
			}
		}
	}
}

// Shares returns the basis point share of each of size positions.
//
// Generated curves split available proportionally to their raw weights,
// rounding down, and fold the rounding dust into position 1 so the shares
// sum to exactly available. Custom tables are returned as written, padded
// with zeros or cut to size.
func Shares(c *Curve, size uint32, available uint16) ([]uint16, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if available > arena.BasisPoints {
		return nil, reverts.Newf(reverts.ConfigurationError, "available share %d above %d", available, arena.BasisPoints)
	}
	shares := make([]uint16, size)
	if size == 0 {
		return shares, nil
	}
	if c.Kind == Custom {
		copy(shares, c.Table)
		return shares, nil
	}

	sum := new(big.Int)
	c.weights(size, func(_ uint32, w *big.Int) bool {
		sum.Add(sum, w)
		return true
	})

	var (
		avail    = big.NewInt(int64(available))
		assigned uint64
		tmp      = new(big.Int)
	)
	c.weights(size, func(p uint32, w *big.Int) bool {
		if p == 1 {
			return true
		}
		share := tmp.Mul(w, avail).Quo(tmp, sum).Uint64()
		if share == 0 && c.Kind == Exponential {
			// weights only decrease from here on
			return false
		}
		shares[p-1] = uint16(share)
		assigned += share
		return true
	})
	shares[0] = uint16(uint64(available) - assigned)
	return shares, nil
}

// Share returns the basis point share of a single 1-based position.
func Share(c *Curve, position, size uint32, available uint16) (uint16, error) {
	if position == 0 {
		return 0, reverts.New(reverts.ConfigurationError, "positions are 1-based")
	}
	if position > size {
		return 0, nil
	}
	shares, err := Shares(c, size, available)
	if err != nil {
		return 0, err
	}
	return shares[position-1], nil
}

// Total sums the shares of size positions.
func Total(c *Curve, size uint32, available uint16) (uint64, error) {
	shares, err := Shares(c, size, available)
	if err != nil {
		return 0, err
	}
	var total uint64
	for _, s := range shares {
		total += uint64(s)
	}
	return total, nil
}

// Amount returns floor(pool * bp / 10000).
func Amount(pool *big.Int, bp uint16) (*big.Int, error) {
	if pool == nil || pool.Sign() == 0 || bp == 0 {
		return new(big.Int), nil
	}
	if pool.Sign() < 0 {
		return nil, reverts.New(reverts.ConfigurationError, "negative pool")
	}
	p, overflow := uint256.FromBig(pool)
	if overflow {
		return nil, reverts.New(reverts.ConfigurationError, "pool exceeds 256 bits")
	}
	v, overflow := new(uint256.Int).MulDivOverflow(p, uint256.NewInt(uint64(bp)), uint256.NewInt(uint64(arena.BasisPoints)))
	if overflow {
		return nil, reverts.New(reverts.ConfigurationError, "payout overflows 256 bits")
	}
	return v.ToBig(), nil
}

// Payout computes the amount owed to a position. Positions whose share or
// amount rounds to zero cannot be paid and yield a NothingToClaim revert.
func Payout(c *Curve, position, size uint32, available uint16, pool *big.Int) (*big.Int, uint16, error) {
	bp, err := Share(c, position, size, available)
	if err != nil {
		return nil, 0, err
	}
	if bp == 0 {
		return nil, 0, reverts.Newf(reverts.NothingToClaim, "position %d has no share", position)
	}
	amount, err := Amount(pool, bp)
	if err != nil {
		return nil, 0, err
	}
	if amount.Sign() == 0 {
		return nil, bp, reverts.Newf(reverts.NothingToClaim, "position %d rounds to zero", position)
	}
	return amount, bp, nil
}
