// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package kv

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mem map[string]string

func (m mem) Get(k []byte) ([]byte, error) {
	if v, ok := m[string(k)]; ok {
		return []byte(v), nil
	}
	return nil, errors.New("not found")
}

func (m mem) Has(k []byte) (bool, error) {
	_, ok := m[string(k)]
	return ok, nil
}

func (m mem) Put(k, v []byte) error {
	m[string(k)] = string(v)
	return nil
}

func (m mem) Delete(k []byte) error {
	delete(m, string(k))
	return nil
}

func (m mem) IsNotFound(err error) bool {
	return err != nil
}

func TestBucketGetter(t *testing.T) {
	m := mem{"ctx/k1": "v1", "k2": "v2"}
	g := Bucket("ctx/").NewGetter(m)

	v, err := g.Get([]byte("k1"))
	require.NoError(t, err)
	assert.Equal(t, "v1", string(v))

	_, err = g.Get([]byte("k2"))
	assert.True(t, g.IsNotFound(err))

	has, err := g.Has([]byte("k1"))
	require.NoError(t, err)
	assert.True(t, has)
}

func TestBucketPutter(t *testing.T) {
	m := mem{}
	p := Bucket("ledger/").NewPutter(m)

	require.NoError(t, p.Put([]byte("a"), []byte("1")))
	assert.Equal(t, "1", m["ledger/a"])

	require.NoError(t, p.Delete([]byte("a")))
	assert.NotContains(t, m, "ledger/a")
}

func TestPrefixRange(t *testing.T) {
	r := PrefixRange([]byte{0x01, 0xff})
	assert.Equal(t, []byte{0x01, 0xff}, r.Start)
	assert.Equal(t, []byte{0x02}, r.Limit)
}
