// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package lvldb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/arena/kv"
)

func newMem(t *testing.T) *LevelDB {
	db, err := NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestGetPut(t *testing.T) {
	db := newMem(t)

	_, err := db.Get([]byte("missing"))
	assert.True(t, db.IsNotFound(err))

	require.NoError(t, db.Put([]byte("k"), []byte("v")))
	v, err := db.Get([]byte("k"))
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), v)

	has, err := db.Has([]byte("k"))
	require.NoError(t, err)
	assert.True(t, has)

	require.NoError(t, db.Delete([]byte("k")))
	has, err = db.Has([]byte("k"))
	require.NoError(t, err)
	assert.False(t, has)
}

func TestBulk(t *testing.T) {
	db := newMem(t)

	b := db.Bulk()
	require.NoError(t, b.Put([]byte("a"), []byte("1")))
	require.NoError(t, b.Put([]byte("b"), []byte("2")))
	assert.Equal(t, 2, b.Len())

	_, err := db.Get([]byte("a"))
	assert.True(t, db.IsNotFound(err), "bulk ops must not be visible before write")

	require.NoError(t, b.Write())
	v, err := db.Get([]byte("b"))
	require.NoError(t, err)
	assert.Equal(t, []byte("2"), v)
}

func TestBucketIterate(t *testing.T) {
	db := newMem(t)
	store := kv.Bucket("p/").NewStore(db)

	require.NoError(t, store.Put([]byte("1"), []byte("a")))
	require.NoError(t, store.Put([]byte("2"), []byte("b")))
	require.NoError(t, db.Put([]byte("q/3"), []byte("c")))

	it := store.Iterate(kv.Range{})
	defer it.Release()

	var keys []string
	for it.Next() {
		keys = append(keys, string(it.Key()))
	}
	require.NoError(t, it.Error())
	assert.Equal(t, []string{"1", "2"}, keys)
}
