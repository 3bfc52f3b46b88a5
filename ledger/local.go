// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"context"
	"math/big"
	"sync"

	"github.com/pkg/errors"

	"github.com/vechain/arena/arena"
	"github.com/vechain/arena/kv"
	"github.com/vechain/arena/log"
	"github.com/vechain/arena/state"
	"github.com/vechain/arena/storage"
)

var logger = log.WithContext("pkg", "ledger")

var (
	slotBalances   = storage.NameToSlot("ledger-balances")
	slotAllowances = storage.NameToSlot("ledger-allowances")
	slotNFTOwners  = storage.NameToSlot("ledger-nft-owners")
	slotOperators  = storage.NameToSlot("ledger-operators")
)

// Local is a self contained ledger kept in its own journaled state. Pulls
// made by the operator out of other accounts need an allowance (fungible)
// or an operator approval (non-fungible), like a token contract would.
type Local struct {
	mu         sync.Mutex
	operator   arena.Address
	state      *state.State
	balances   *storage.Mapping[storage.Key, *big.Int]
	allowances *storage.Mapping[storage.Key, *big.Int]
	nftOwners  *storage.Mapping[storage.Key, arena.Address]
	operators  *storage.Mapping[storage.Key, bool]
}

var _ Ledger = (*Local)(nil)

// NewLocal creates a ledger on store. operator is the account that moves
// funds on behalf of others.
func NewLocal(store kv.Store, operator arena.Address) (*Local, error) {
	st, err := state.New(store, 1024)
	if err != nil {
		return nil, err
	}
	sctx := storage.NewContext(st)
	return &Local{
		operator:   operator,
		state:      st,
		balances:   storage.NewMapping[storage.Key, *big.Int](sctx, slotBalances),
		allowances: storage.NewMapping[storage.Key, *big.Int](sctx, slotAllowances),
		nftOwners:  storage.NewMapping[storage.Key, arena.Address](sctx, slotNFTOwners),
		operators:  storage.NewMapping[storage.Key, bool](sctx, slotOperators),
	}, nil
}

// Operator returns the account allowed to pull funds.
func (l *Local) Operator() arena.Address {
	return l.operator
}

// atomic runs fn under the lock and commits its changes only if it succeeds.
func (l *Local) atomic(fn func() error) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	cp := l.state.NewCheckpoint()
	if err := fn(); err != nil {
		l.state.RevertTo(cp)
		return err
	}
	return l.state.Stage().Commit()
}

func nftKey(collection arena.Address, id *big.Int) storage.Key {
	return storage.Join(collection, storage.Bytes(id.Bytes()))
}

func (l *Local) addBalance(token, addr arena.Address, amount *big.Int) error {
	key := storage.Join(token, addr)
	bal, err := l.balances.Get(key)
	if err != nil {
		return err
	}
	return l.balances.Set(key, bal.Add(bal, amount))
}

func (l *Local) subBalance(token, addr arena.Address, amount *big.Int) error {
	key := storage.Join(token, addr)
	bal, err := l.balances.Get(key)
	if err != nil {
		return err
	}
	if bal.Cmp(amount) < 0 {
		return errors.WithMessagef(ErrInsufficientBalance, "%v holds %v of %v, needs %v", addr, bal, token, amount)
	}
	return l.balances.Set(key, bal.Sub(bal, amount))
}

// Mint credits amount of token to addr.
func (l *Local) Mint(token, to arena.Address, amount *big.Int) error {
	if amount.Sign() < 0 {
		return errors.New("negative amount")
	}
	return l.atomic(func() error {
		return l.addBalance(token, to, amount)
	})
}

// BalanceOf returns the token balance of addr.
func (l *Local) BalanceOf(token, addr arena.Address) (*big.Int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balances.Get(storage.Join(token, addr))
}

// Approve lets spender pull up to amount of owner's token.
func (l *Local) Approve(token, owner, spender arena.Address, amount *big.Int) error {
	return l.atomic(func() error {
		return l.allowances.Set(storage.Join(token, owner, spender), new(big.Int).Set(amount))
	})
}

// Allowance returns how much spender may still pull from owner.
func (l *Local) Allowance(token, owner, spender arena.Address) (*big.Int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.allowances.Get(storage.Join(token, owner, spender))
}

// Transfer moves amount of token. Pulls by the operator from other accounts
// consume allowance.
func (l *Local) Transfer(_ context.Context, token, from, to arena.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return errors.New("invalid amount")
	}
	err := l.atomic(func() error {
		if from != l.operator {
			key := storage.Join(token, from, l.operator)
			allowance, err := l.allowances.Get(key)
			if err != nil {
				return err
			}
			if allowance.Cmp(amount) < 0 {
				return errors.WithMessagef(ErrInsufficientAllowance, "%v approved %v, needs %v", from, allowance, amount)
			}
			if err := l.allowances.Set(key, allowance.Sub(allowance, amount)); err != nil {
				return err
			}
		}
		if err := l.subBalance(token, from, amount); err != nil {
			return err
		}
		return l.addBalance(token, to, amount)
	})
	if err != nil {
		return err
	}
	logger.Debug("transfer", "token", token, "from", from, "to", to, "amount", amount)
	return nil
}

// SetOwner assigns a non-fungible token, creating it if needed.
func (l *Local) SetOwner(collection arena.Address, id *big.Int, owner arena.Address) error {
	return l.atomic(func() error {
		return l.nftOwners.Set(nftKey(collection, id), owner)
	})
}

// SetApprovalForAll lets the operator move every token owner holds in
// collection.
func (l *Local) SetApprovalForAll(collection, owner arena.Address, approved bool) error {
	return l.atomic(func() error {
		return l.operators.Set(storage.Join(collection, owner, l.operator), approved)
	})
}

// OwnerOf returns the holder of a non-fungible token.
func (l *Local) OwnerOf(_ context.Context, collection arena.Address, id *big.Int) (arena.Address, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	owner, found, err := l.nftOwners.Lookup(nftKey(collection, id))
	if err != nil {
		return arena.Address{}, err
	}
	if !found || owner.IsZero() {
		return arena.Address{}, errors.WithMessagef(ErrNoSuchToken, "%v #%v", collection, id)
	}
	return owner, nil
}

// TransferNFT moves a non-fungible token.
func (l *Local) TransferNFT(_ context.Context, collection, from, to arena.Address, id *big.Int) error {
	return l.atomic(func() error {
		key := nftKey(collection, id)
		owner, found, err := l.nftOwners.Lookup(key)
		if err != nil {
			return err
		}
		if !found || owner != from {
			return errors.WithMessagef(ErrNotOwner, "%v does not hold %v #%v", from, collection, id)
		}
		if from != l.operator {
			approved, err := l.operators.Get(storage.Join(collection, from, l.operator))
			if err != nil {
				return err
			}
			if !approved {
				return errors.WithMessagef(ErrNotApproved, "%v for %v", from, collection)
			}
		}
		return l.nftOwners.Set(key, to)
	})
}
