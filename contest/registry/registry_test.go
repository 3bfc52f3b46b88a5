// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package registry

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/arena/arena"
	"github.com/vechain/arena/contest/distribution"
	"github.com/vechain/arena/contest/eligibility"
	"github.com/vechain/arena/contest/schedule"
	"github.com/vechain/arena/lvldb"
	"github.com/vechain/arena/reverts"
	"github.com/vechain/arena/state"
	"github.com/vechain/arena/storage"
)

var token = arena.BytesToAddress([]byte("token"))

func fee(curve distribution.Curve, creator, game, refund uint16, positions uint32) *EntryFee {
	return &EntryFee{
		Token:                 token,
		Amount:                big.NewInt(100),
		Curve:                 curve,
		CreatorShare:          creator,
		GameCreatorShare:      game,
		RefundShare:           refund,
		DistributionPositions: positions,
	}
}

func TestEntryFeeValidate(t *testing.T) {
	params := arena.DefaultParams()
	exp := distribution.Curve{Kind: distribution.Exponential, Weight: 15}

	tests := []struct {
		name string
		fee  *EntryFee
		ok   bool
	}{
		{"dynamic exponential", fee(exp, 500, 500, 0, 0), true},
		{"fixed positions", fee(exp, 1000, 0, 1000, 10), true},
		{"everything to the creator", fee(exp, 10000, 0, 0, 0), true},
		{"fixed shares above 100%", fee(exp, 6000, 3000, 2000, 0), false},
		{"custom exact", fee(distribution.Curve{Kind: distribution.Custom, Table: []uint16{5000, 3000, 1000}}, 1000, 0, 0, 0), true},
		{"custom within tolerance", fee(distribution.Curve{Kind: distribution.Custom, Table: []uint16{5000, 3000, 900}}, 1000, 0, 0, 0), true},
		{"custom short", fee(distribution.Curve{Kind: distribution.Custom, Table: []uint16{5000, 3000}}, 1000, 0, 0, 0), false},
		{"custom over", fee(distribution.Curve{Kind: distribution.Custom, Table: []uint16{5000, 3000, 2000}}, 1000, 0, 0, 0), false},
		{"bad curve", fee(distribution.Curve{Kind: distribution.Exponential, Weight: 5}, 0, 0, 0, 0), false},
		{"no token", &EntryFee{Amount: big.NewInt(1), Curve: exp}, false},
		{"no amount", &EntryFee{Token: token, Curve: exp}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.fee.Validate(&params)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.True(t, reverts.IsKind(err, reverts.ConfigurationError), "got %v", err)
			}
		})
	}
}

func TestEntryFeePool(t *testing.T) {
	f := fee(distribution.Curve{Kind: distribution.Uniform}, 1000, 500, 500, 0)
	assert.Equal(t, uint16(8000), f.Available())
	assert.Equal(t, big.NewInt(700), f.Pool(7))
	assert.Zero(t, f.Pool(0).Sign())
}

func newContext() *Context {
	return &Context{
		Metadata: Metadata{Name: "weekly"},
		Schedule: schedule.Schedule{
			Registration:       &schedule.Period{Start: 1000, End: 5000},
			Game:               schedule.Period{Start: 5000, End: 10000},
			SubmissionDuration: 3600,
		},
		EntryFee: fee(distribution.Curve{Kind: distribution.Uniform}, 1000, 0, 0, 0),
	}
}

func TestContextValidate(t *testing.T) {
	params := arena.DefaultParams()

	c := newContext()
	assert.NoError(t, c.Validate(&params))

	c.Metadata.Name = ""
	assert.True(t, reverts.IsKind(c.Validate(&params), reverts.ConfigurationError))

	c = newContext()
	c.EntryFee.GameCreatorShare = 500
	c.EntryFee.CreatorShare = 500
	assert.True(t, reverts.IsKind(c.Validate(&params), reverts.ConfigurationError))
	c.Game = Descriptor{Game: arena.BytesToAddress([]byte("game")), CreatorTokenID: big.NewInt(1)}
	assert.NoError(t, c.Validate(&params))

	c.Requirement = &eligibility.Requirement{Kind: eligibility.Allowlist}
	assert.True(t, reverts.IsKind(c.Validate(&params), reverts.ConfigurationError))

	c = newContext()
	c.Schedule.SubmissionDuration = 1
	assert.True(t, reverts.IsKind(c.Validate(&params), reverts.ConfigurationError))
}

func TestRegistry(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()
	st, err := state.New(db, 16)
	require.NoError(t, err)
	sctx := storage.NewContext(st)
	reg := New(sctx, storage.NewSequence(sctx, storage.NameToSlot("seq"), "context"))

	_, err = reg.Get(1)
	assert.True(t, reverts.IsKind(err, reverts.NotFound))

	id, err := reg.NextID()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), id)

	c := newContext()
	c.ID = id
	c.Requirement = &eligibility.Requirement{
		EntryLimit: 1,
		Kind:       eligibility.Allowlist,
		Allowlist:  &eligibility.AllowlistRequirement{Addresses: []arena.Address{token}},
	}
	require.NoError(t, reg.Put(c))

	got, err := reg.Get(1)
	require.NoError(t, err)
	assert.Equal(t, c.Metadata, got.Metadata)
	assert.Equal(t, c.Schedule, got.Schedule)
	assert.Equal(t, c.Requirement, got.Requirement)
	assert.Equal(t, 0, c.EntryFee.Amount.Cmp(got.EntryFee.Amount))

	ok, err := reg.Exists(1)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = reg.Exists(2)
	require.NoError(t, err)
	assert.False(t, ok)

	proof := &eligibility.Qualification{Kind: eligibility.Allowlist, Allowlist: &eligibility.AllowlistProof{Address: token}}
	for tokenID := uint64(10); tokenID < 13; tokenID++ {
		require.NoError(t, reg.Register(&Registration{EntryTokenID: tokenID, ContextID: 1, Proof: proof}))
	}
	n, err := reg.EntryCount(1)
	require.NoError(t, err)
	assert.Equal(t, uint32(3), n)

	r, err := reg.Registration(1, 12)
	require.NoError(t, err)
	assert.Equal(t, uint32(3), r.EntryNumber)
	assert.True(t, proof.Equal(r.Proof))

	r.HasSubmitted = true
	require.NoError(t, reg.PutRegistration(r))
	r, err = reg.Registration(1, 12)
	require.NoError(t, err)
	assert.True(t, r.HasSubmitted)

	_, err = reg.Registration(2, 12)
	assert.True(t, reverts.IsKind(err, reverts.NotFound))
	r, err = reg.FindRegistration(1, 99)
	require.NoError(t, err)
	assert.Nil(t, r)
}
