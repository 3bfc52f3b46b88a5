// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/arena/arena"
	"github.com/vechain/arena/lvldb"
)

var (
	escrow = arena.BytesToAddress([]byte("escrow"))
	alice  = arena.BytesToAddress([]byte("alice"))
	bob    = arena.BytesToAddress([]byte("bob"))
	token  = arena.BytesToAddress([]byte("token"))
	nft    = arena.BytesToAddress([]byte("nft"))
)

func newLocal(t *testing.T) *Local {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	l, err := NewLocal(db, escrow)
	require.NoError(t, err)
	return l
}

func balance(t *testing.T, l *Local, addr arena.Address) int64 {
	b, err := l.BalanceOf(token, addr)
	require.NoError(t, err)
	return b.Int64()
}

func TestLocalTransfer(t *testing.T) {
	ctx := context.Background()
	l := newLocal(t)
	assert.Equal(t, escrow, l.Operator())

	require.NoError(t, l.Mint(token, alice, big.NewInt(100)))

	// pulling without allowance fails and leaves balances alone
	err := l.Transfer(ctx, token, alice, escrow, big.NewInt(10))
	assert.True(t, errors.Is(err, ErrInsufficientAllowance))
	assert.Equal(t, int64(100), balance(t, l, alice))

	require.NoError(t, l.Approve(token, alice, escrow, big.NewInt(30)))
	require.NoError(t, l.Transfer(ctx, token, alice, escrow, big.NewInt(10)))
	assert.Equal(t, int64(90), balance(t, l, alice))
	assert.Equal(t, int64(10), balance(t, l, escrow))

	left, err := l.Allowance(token, alice, escrow)
	require.NoError(t, err)
	assert.Equal(t, int64(20), left.Int64())

	// escrow pays out from its own balance
	require.NoError(t, l.Transfer(ctx, token, escrow, bob, big.NewInt(4)))
	assert.Equal(t, int64(4), balance(t, l, bob))

	err = l.Transfer(ctx, token, escrow, bob, big.NewInt(7))
	assert.True(t, errors.Is(err, ErrInsufficientBalance))
	assert.Equal(t, int64(6), balance(t, l, escrow))
	assert.Equal(t, int64(4), balance(t, l, bob))

	// a failed pull does not consume allowance
	require.NoError(t, l.Approve(token, bob, escrow, big.NewInt(100)))
	err = l.Transfer(ctx, token, bob, escrow, big.NewInt(50))
	assert.True(t, errors.Is(err, ErrInsufficientBalance))
	left, err = l.Allowance(token, bob, escrow)
	require.NoError(t, err)
	assert.Equal(t, int64(100), left.Int64())
}

func TestLocalNFT(t *testing.T) {
	ctx := context.Background()
	l := newLocal(t)
	id := big.NewInt(7)

	_, err := l.OwnerOf(ctx, nft, id)
	assert.True(t, errors.Is(err, ErrNoSuchToken))

	require.NoError(t, l.SetOwner(nft, id, alice))
	owner, err := l.OwnerOf(ctx, nft, id)
	require.NoError(t, err)
	assert.Equal(t, alice, owner)

	err = l.TransferNFT(ctx, nft, bob, escrow, id)
	assert.True(t, errors.Is(err, ErrNotOwner))

	err = l.TransferNFT(ctx, nft, alice, escrow, id)
	assert.True(t, errors.Is(err, ErrNotApproved))

	require.NoError(t, l.SetApprovalForAll(nft, alice, true))
	require.NoError(t, l.TransferNFT(ctx, nft, alice, escrow, id))
	require.NoError(t, l.TransferNFT(ctx, nft, escrow, bob, id))

	owner, err = l.OwnerOf(ctx, nft, id)
	require.NoError(t, err)
	assert.Equal(t, bob, owner)
}

func TestClient(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/transfers":
			var req TransferRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			if (*big.Int)(req.Amount).Cmp(big.NewInt(100)) > 0 {
				http.Error(w, "insufficient balance", http.StatusBadRequest)
				return
			}
			assert.Equal(t, alice, req.From)
		case "/nft-transfers":
			var req NFTTransferRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, int64(7), (*big.Int)(req.TokenID).Int64())
		case "/collections/" + nft.String() + "/tokens/7/owner":
			json.NewEncoder(w).Encode(OwnerResponse{Owner: bob})
		default:
			http.NotFound(w, r)
		}
	}))
	defer ts.Close()

	ctx := context.Background()
	c := NewClient(ts.URL)

	require.NoError(t, c.Transfer(ctx, token, alice, escrow, big.NewInt(5)))
	assert.Error(t, c.Transfer(ctx, token, alice, escrow, big.NewInt(500)))
	require.NoError(t, c.TransferNFT(ctx, nft, alice, escrow, big.NewInt(7)))

	owner, err := c.OwnerOf(ctx, nft, big.NewInt(7))
	require.NoError(t, err)
	assert.Equal(t, bob, owner)

	_, err = c.OwnerOf(ctx, nft, big.NewInt(8))
	assert.True(t, errors.Is(err, ErrNoSuchToken))
}
