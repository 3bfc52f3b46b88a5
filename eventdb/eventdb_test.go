// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package eventdb

import (
	"context"
	"math/big"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/arena/arena"
	"github.com/vechain/arena/contest/events"
)

func TestEventDB(t *testing.T) {
	db, err := NewMem()
	require.NoError(t, err)
	defer db.Close()
	ctx := context.Background()

	alice := arena.BytesToAddress([]byte("alice"))
	token := arena.BytesToAddress([]byte("token"))

	var evs []*events.Event
	for i := range 20 {
		evs = append(evs, &events.Event{
			Name:      events.Names[i%len(events.Names)],
			ContextID: uint64(i%2 + 1),
			TokenID:   uint64(i),
			Account:   alice,
			Time:      uint64(100 + i),
		})
	}
	evs[3].Token = token
	evs[3].Amount = new(big.Int).Lsh(big.NewInt(1), 100)
	require.NoError(t, db.Notify(ctx, evs))
	require.NoError(t, db.Notify(ctx, nil))

	all, err := db.Filter(ctx, nil)
	require.NoError(t, err)
	require.Len(t, all, 20)
	assert.Equal(t, uint64(1), all[0].Seq)
	assert.Equal(t, token, all[3].Token)
	assert.Equal(t, 0, evs[3].Amount.Cmp(all[3].Amount))
	assert.Nil(t, all[4].Amount)

	one := uint64(1)
	recs, err := db.Filter(ctx, &Filter{
		ContextID: &one,
		Range:     &Range{From: 104, To: 112},
		Order:     DESC,
		Options:   &Options{Offset: 1, Limit: 2},
	})
	require.NoError(t, err)
	require.Len(t, recs, 2)
	// context 1 holds the even indexes, 112 down to 104 skipping the first
	assert.Equal(t, uint64(10), recs[0].TokenID)
	assert.Equal(t, uint64(8), recs[1].TokenID)

	recs, err = db.Filter(ctx, &Filter{Names: []string{events.ContextCreated, events.ClaimSettled}})
	require.NoError(t, err)
	for _, r := range recs {
		assert.Contains(t, []string{events.ContextCreated, events.ClaimSettled}, r.Name)
	}
	assert.Len(t, recs, 6)

	bob := arena.BytesToAddress([]byte("bob"))
	recs, err = db.Filter(ctx, &Filter{Account: &bob})
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestEventDBFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.db")
	db, err := New(path)
	require.NoError(t, err)
	require.NoError(t, db.Notify(context.Background(), []*events.Event{{Name: events.PrizeAdded, ContextID: 3}}))
	require.NoError(t, db.Close())

	db, err = New(path)
	require.NoError(t, err)
	defer db.Close()
	assert.Equal(t, path, db.Path())
	recs, err := db.Filter(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, events.PrizeAdded, recs[0].Name)
}
