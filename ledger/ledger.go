// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package ledger moves value on behalf of the contest engine. The engine only
// decides whether, how much and to whom; the Ledger carries it out.
package ledger

import (
	"context"
	"errors"
	"math/big"

	"github.com/vechain/arena/arena"
)

var (
	ErrInsufficientBalance   = errors.New("insufficient balance")
	ErrInsufficientAllowance = errors.New("insufficient allowance")
	ErrNotOwner              = errors.New("not the token owner")
	ErrNotApproved           = errors.New("operator not approved")
	ErrNoSuchToken           = errors.New("token does not exist")
)

// Ledger moves fungible and non-fungible balances and reports ownership.
type Ledger interface {
	Transfer(ctx context.Context, token, from, to arena.Address, amount *big.Int) error
	TransferNFT(ctx context.Context, collection, from, to arena.Address, id *big.Int) error
	OwnerOf(ctx context.Context, collection arena.Address, id *big.Int) (arena.Address, error)
}
