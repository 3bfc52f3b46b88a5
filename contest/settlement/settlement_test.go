// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package settlement

import (
	"context"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/arena/arena"
	"github.com/vechain/arena/contest/distribution"
	"github.com/vechain/arena/contest/prize"
	"github.com/vechain/arena/contest/registry"
	"github.com/vechain/arena/ledger"
	"github.com/vechain/arena/lvldb"
	"github.com/vechain/arena/reverts"
	"github.com/vechain/arena/state"
	"github.com/vechain/arena/storage"
)

var (
	token   = arena.BytesToAddress([]byte("token"))
	sponsor = arena.BytesToAddress([]byte("sponsor"))
	creator = arena.BytesToAddress([]byte("creator"))
	game    = arena.BytesToAddress([]byte("game"))
	studio  = arena.BytesToAddress([]byte("studio"))
)

func player(tokenID uint64) arena.Address {
	return arena.BytesToAddress(arena.Uint64Bytes(tokenID + 1000))
}

type fakeSource struct {
	entries []uint64 // entry token ids
	board   []uint64
	prizes  map[uint64]*prize.Prize
}

func (f *fakeSource) EntryCount(uint64) (uint32, error) { return uint32(len(f.entries)), nil }

func (f *fakeSource) FindRegistration(contextID, tokenID uint64) (*registry.Registration, error) {
	for i, id := range f.entries {
		if id == tokenID {
			return &registry.Registration{EntryTokenID: id, ContextID: contextID, EntryNumber: uint32(i + 1)}, nil
		}
	}
	return nil, nil
}

func (f *fakeSource) Occupant(_ uint64, pos uint32) (uint64, bool, error) {
	if pos == 0 || int(pos) > len(f.board) {
		return 0, false, nil
	}
	return f.board[pos-1], true, nil
}

func (f *fakeSource) LeaderboardLen(uint64) (uint32, error) { return uint32(len(f.board)), nil }

func (f *fakeSource) TokenOwner(tokenID uint64) (arena.Address, error) {
	if tokenID == 1 {
		return creator, nil
	}
	return player(tokenID), nil
}

func (f *fakeSource) Prize(id uint64) (*prize.Prize, error) {
	p, ok := f.prizes[id]
	if !ok {
		return nil, reverts.Newf(reverts.NotFound, "prize %d", id)
	}
	return p, nil
}

func newSettler(t *testing.T, src Source) *Settler {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	st, err := state.New(db, 64)
	require.NoError(t, err)

	ldb, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { ldb.Close() })
	l, err := ledger.NewLocal(ldb, arena.Address{})
	require.NoError(t, err)
	require.NoError(t, l.SetOwner(game, big.NewInt(3), studio))

	return New(storage.NewContext(st), src, l)
}

func units(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil))
}

func feeContext(fee *registry.EntryFee) *registry.Context {
	return &registry.Context{
		ID:             7,
		CreatorTokenID: 1,
		Game:           registry.Descriptor{Game: game, CreatorTokenID: big.NewInt(3)},
		EntryFee:       fee,
	}
}

func TestClaimKeys(t *testing.T) {
	assert.NoError(t, Claim{Kind: CreatorShare}.Validate())
	assert.NoError(t, Claim{Kind: SponsoredDistributed, PrizeID: 1, Position: 2}.Validate())
	assert.Error(t, Claim{Kind: CreatorShare, Position: 1}.Validate())
	assert.Error(t, Claim{Kind: Refund}.Validate())
	assert.Error(t, Claim{Kind: SponsoredDistributed, PrizeID: 1}.Validate())
	assert.Error(t, Claim{Kind: Kind(42)}.Validate())

	k, err := ParseKind("sponsored-single")
	require.NoError(t, err)
	assert.Equal(t, SponsoredSingle, k)
	_, err = ParseKind("jackpot")
	assert.Error(t, err)

	assert.Equal(t, "sponsored-distributed(4,2)", Claim{Kind: SponsoredDistributed, PrizeID: 4, Position: 2}.String())
}

// Five entrants pay 100 each into an Exponential(15) curve over all 500.
func TestExponentialPositions(t *testing.T) {
	src := &fakeSource{entries: []uint64{2, 3, 4, 5, 6}, board: []uint64{4, 2, 6, 3, 5}}
	s := newSettler(t, src)
	cx := feeContext(&registry.EntryFee{
		Token:  token,
		Amount: units(100),
		Curve:  distribution.Curve{Kind: distribution.Exponential, Weight: 15},
	})

	total := new(big.Int)
	var amounts []*big.Int
	for pos := uint32(1); pos <= 5; pos++ {
		p, err := s.Settle(context.Background(), cx, Claim{Kind: Position, Position: pos})
		require.NoError(t, err)
		assert.Equal(t, player(src.board[pos-1]), p.Recipient)
		assert.Equal(t, token, p.Token)
		amounts = append(amounts, p.Amount)
		total.Add(total, p.Amount)
	}
	assert.Equal(t, 1, amounts[0].Cmp(amounts[4]))
	assert.True(t, total.Cmp(units(500)) <= 0)
	assert.True(t, new(big.Int).Sub(units(500), total).Cmp(big.NewInt(4)) <= 0)

	_, err := s.Settle(context.Background(), cx, Claim{Kind: Position, Position: 1})
	assert.True(t, reverts.IsKind(err, reverts.AlreadySettled))
	_, err = s.Settle(context.Background(), cx, Claim{Kind: Position, Position: 6})
	assert.True(t, reverts.IsKind(err, reverts.NoRecipient))
	assert.ErrorContains(t, err, "stays in escrow")

	done, err := s.IsClaimed(cx.ID, Claim{Kind: Position, Position: 3})
	require.NoError(t, err)
	assert.True(t, done)
	done, err = s.IsClaimed(cx.ID+1, Claim{Kind: Position, Position: 3})
	require.NoError(t, err)
	assert.False(t, done)
}

func TestFixedShares(t *testing.T) {
	src := &fakeSource{entries: []uint64{2, 3, 4}, board: []uint64{3}}
	s := newSettler(t, src)
	ctx := context.Background()
	cx := feeContext(&registry.EntryFee{
		Token:                 token,
		Amount:                big.NewInt(1000),
		Curve:                 distribution.Curve{Kind: distribution.Uniform},
		CreatorShare:          1000,
		GameCreatorShare:      500,
		RefundShare:           1500,
		DistributionPositions: 2,
	})

	p, err := s.Settle(ctx, cx, Claim{Kind: CreatorShare})
	require.NoError(t, err)
	assert.Equal(t, creator, p.Recipient)
	assert.Equal(t, big.NewInt(300), p.Amount)

	p, err = s.Settle(ctx, cx, Claim{Kind: GameCreatorShare})
	require.NoError(t, err)
	assert.Equal(t, studio, p.Recipient)
	assert.Equal(t, big.NewInt(150), p.Amount)

	// 15% of 3000 split over three entries
	p, err = s.Settle(ctx, cx, Claim{Kind: Refund, TokenID: 4})
	require.NoError(t, err)
	assert.Equal(t, player(4), p.Recipient)
	assert.Equal(t, big.NewInt(150), p.Amount)

	_, err = s.Settle(ctx, cx, Claim{Kind: Refund, TokenID: 4})
	assert.True(t, reverts.IsKind(err, reverts.AlreadySettled))
	_, err = s.Settle(ctx, cx, Claim{Kind: Refund, TokenID: 9})
	assert.True(t, reverts.IsKind(err, reverts.NotFound))

	// two fixed positions share 70% of 3000, only one is filled
	p, err = s.Settle(ctx, cx, Claim{Kind: Position, Position: 1})
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(1050), p.Amount)
	_, err = s.Settle(ctx, cx, Claim{Kind: Position, Position: 2})
	assert.True(t, reverts.IsKind(err, reverts.NoRecipient))
	done, err := s.IsClaimed(cx.ID, Claim{Kind: Position, Position: 2})
	require.NoError(t, err)
	assert.False(t, done)
}

func TestNothingToClaim(t *testing.T) {
	src := &fakeSource{entries: []uint64{2}, board: []uint64{2}}
	s := newSettler(t, src)
	ctx := context.Background()

	cx := feeContext(&registry.EntryFee{Token: token, Amount: big.NewInt(1), Curve: distribution.Curve{Kind: distribution.Uniform}})
	_, err := s.Settle(ctx, cx, Claim{Kind: CreatorShare})
	assert.True(t, reverts.IsKind(err, reverts.NothingToClaim))

	cx.EntryFee = nil
	_, err = s.Settle(ctx, cx, Claim{Kind: Position, Position: 1})
	assert.True(t, reverts.IsKind(err, reverts.NothingToClaim))

	// steep curve over a tiny pool
	cx.EntryFee = &registry.EntryFee{
		Token:                 token,
		Amount:                big.NewInt(1),
		Curve:                 distribution.Curve{Kind: distribution.Exponential, Weight: 1000},
		DistributionPositions: 3,
	}
	src.board = []uint64{2, 3, 4}
	_, err = s.Settle(ctx, cx, Claim{Kind: Position, Position: 3})
	assert.True(t, reverts.IsKind(err, reverts.NothingToClaim))

	_, err = s.Settle(ctx, cx, Claim{Kind: Position})
	assert.True(t, reverts.IsKind(err, reverts.ConfigurationError))
}

func TestSponsoredPrizes(t *testing.T) {
	src := &fakeSource{
		entries: []uint64{2, 3},
		board:   []uint64{3, 2},
		prizes: map[uint64]*prize.Prize{
			1: {ID: 1, ContextID: 7, Token: token, Sponsor: sponsor, Kind: prize.Fungible, Amount: big.NewInt(900), Payout: prize.Payout{Position: 3}},
			2: {ID: 2, ContextID: 7, Token: token, Sponsor: sponsor, Kind: prize.NonFungible, NFTID: big.NewInt(77), Payout: prize.Payout{Position: 1}},
			3: {ID: 3, ContextID: 7, Token: token, Sponsor: sponsor, Kind: prize.Fungible, Amount: big.NewInt(1000), Payout: prize.Payout{
				Curve: &distribution.Curve{Kind: distribution.Custom, Table: []uint16{5000, 3000, 2000}},
				Count: 3,
			}},
			4: {ID: 4, ContextID: 8, Token: token, Sponsor: sponsor, Kind: prize.Fungible, Amount: big.NewInt(1), Payout: prize.Payout{Position: 1}},
		},
	}
	s := newSettler(t, src)
	ctx := context.Background()
	cx := feeContext(nil)

	// position 3 with two entrants goes back to the sponsor in full
	p, err := s.Settle(ctx, cx, Claim{Kind: SponsoredSingle, PrizeID: 1})
	require.NoError(t, err)
	assert.True(t, p.Refunded)
	assert.Equal(t, sponsor, p.Recipient)
	assert.Equal(t, big.NewInt(900), p.Amount)

	p, err = s.Settle(ctx, cx, Claim{Kind: SponsoredSingle, PrizeID: 2})
	require.NoError(t, err)
	assert.False(t, p.Refunded)
	assert.Equal(t, player(3), p.Recipient)
	assert.Nil(t, p.Amount)
	assert.Equal(t, big.NewInt(77), p.NFTID)

	expected := []struct {
		recipient arena.Address
		amount    int64
	}{
		{player(3), 500},
		{player(2), 300},
		{sponsor, 200},
	}
	for i, want := range expected {
		p, err = s.Settle(ctx, cx, Claim{Kind: SponsoredDistributed, PrizeID: 3, Position: uint32(i + 1)})
		require.NoError(t, err)
		assert.Equal(t, want.recipient, p.Recipient)
		assert.Equal(t, big.NewInt(want.amount), p.Amount)
		assert.Equal(t, want.recipient == sponsor, p.Refunded)
	}

	_, err = s.Settle(ctx, cx, Claim{Kind: SponsoredDistributed, PrizeID: 3, Position: 4})
	assert.True(t, reverts.IsKind(err, reverts.NothingToClaim))
	_, err = s.Settle(ctx, cx, Claim{Kind: SponsoredDistributed, PrizeID: 1, Position: 1})
	assert.True(t, reverts.IsKind(err, reverts.ConfigurationError))
	_, err = s.Settle(ctx, cx, Claim{Kind: SponsoredSingle, PrizeID: 3})
	assert.True(t, reverts.IsKind(err, reverts.ConfigurationError))
	_, err = s.Settle(ctx, cx, Claim{Kind: SponsoredSingle, PrizeID: 4})
	assert.True(t, reverts.IsKind(err, reverts.NotFound))
	_, err = s.Settle(ctx, cx, Claim{Kind: SponsoredSingle, PrizeID: 5})
	assert.True(t, reverts.IsKind(err, reverts.NotFound))
}
