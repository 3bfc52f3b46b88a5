// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/arena/arena"
	"github.com/vechain/arena/lvldb"
	"github.com/vechain/arena/reverts"
	"github.com/vechain/arena/state"
	"github.com/vechain/arena/storage"
)

func TestRegistry(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()
	st, err := state.New(db, 16)
	require.NoError(t, err)
	sctx := storage.NewContext(st)
	reg := NewRegistry(sctx, storage.NewSequence(sctx, storage.NameToSlot("seq"), "token"))

	alice := arena.BytesToAddress([]byte("alice"))
	bob := arena.BytesToAddress([]byte("bob"))

	creator, err := reg.Mint(Creator, 1, alice)
	require.NoError(t, err)
	entry, err := reg.Mint(Entry, 1, bob)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), creator.ID)
	assert.Equal(t, uint64(2), entry.ID)

	_, err = reg.Mint(Entry, 1, arena.Address{})
	assert.True(t, reverts.IsKind(err, reverts.ConfigurationError))

	got, err := reg.Get(2)
	require.NoError(t, err)
	assert.Equal(t, &Token{ID: 2, Kind: Entry, ContextID: 1, Owner: bob}, got)

	_, err = reg.Get(3)
	assert.True(t, reverts.IsKind(err, reverts.NotFound))

	_, err = reg.Transfer(2, alice, alice)
	assert.True(t, reverts.IsKind(err, reverts.Unauthorized))

	_, err = reg.Transfer(2, bob, alice)
	require.NoError(t, err)
	owner, err := reg.OwnerOf(2)
	require.NoError(t, err)
	assert.Equal(t, alice, owner)
}
