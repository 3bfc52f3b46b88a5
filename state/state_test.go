// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/arena/arena"
	"github.com/vechain/arena/lvldb"
)

type record struct {
	Name  string
	Count uint64
}

func newState(t *testing.T) (*State, *lvldb.LevelDB) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	st, err := New(db, 16)
	require.NoError(t, err)
	return st, db
}

func TestStateEncodeDecode(t *testing.T) {
	st, _ := newState(t)
	key := arena.Blake2b([]byte("rec"))

	var r record
	found, err := st.DecodeStorage(key, &r)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, st.EncodeStorage(key, &record{"alice", 3}))
	found, err = st.DecodeStorage(key, &r)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, record{"alice", 3}, r)
}

func TestStateCheckpointRevert(t *testing.T) {
	st, _ := newState(t)
	k1 := arena.Blake2b([]byte("k1"))
	k2 := arena.Blake2b([]byte("k2"))

	st.SetRaw(k1, []byte{1})
	cp := st.NewCheckpoint()
	st.SetRaw(k1, []byte{2})
	st.SetRaw(k2, []byte{3})

	v, err := st.GetRaw(k1)
	require.NoError(t, err)
	assert.Equal(t, []byte{2}, v)

	st.RevertTo(cp)
	v, err = st.GetRaw(k1)
	require.NoError(t, err)
	assert.Equal(t, []byte{1}, v)
	v, err = st.GetRaw(k2)
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestStageCommit(t *testing.T) {
	st, db := newState(t)
	k1 := arena.Blake2b([]byte("k1"))
	k2 := arena.Blake2b([]byte("k2"))

	require.NoError(t, db.Put(k2[:], []byte{9}))

	st.SetRaw(k1, []byte{1})
	st.SetRaw(k1, []byte{4})
	st.Delete(k2)

	_, err := db.Get(k1[:])
	assert.True(t, db.IsNotFound(err), "nothing hits the store before commit")

	stage := st.Stage()
	assert.Equal(t, 2, stage.Len())
	require.NoError(t, stage.Commit())

	v, err := db.Get(k1[:])
	require.NoError(t, err)
	assert.Equal(t, []byte{4}, v)

	_, err = db.Get(k2[:])
	assert.True(t, db.IsNotFound(err))

	// reopened view sees committed data
	st2, err := New(db, 4)
	require.NoError(t, err)
	v, err = st2.GetRaw(k1)
	require.NoError(t, err)
	assert.Equal(t, []byte{4}, v)

	// revert after commit cannot undo committed data
	cp := st.NewCheckpoint()
	st.SetRaw(k1, []byte{5})
	st.RevertTo(cp)
	v, err = st.GetRaw(k1)
	require.NoError(t, err)
	assert.Equal(t, []byte{4}, v)
}

func TestStateError(t *testing.T) {
	err := &Error{errors.New("disk")}
	assert.EqualError(t, err, "state: disk")
	assert.Equal(t, "disk", errors.Unwrap(err).Error())
}
