// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import "github.com/vechain/arena/arena"

// Stage abstracts changes on the state.
type Stage struct {
	state   *State
	order   []arena.Bytes32
	changes map[arena.Bytes32][]byte
}

// Len returns the number of keys touched.
func (st *Stage) Len() int {
	return len(st.order)
}

// Commit writes all staged changes in a single bulk and starts the state
// over with an empty journal.
func (st *Stage) Commit() error {
	bulk := st.state.store.Bulk()
	for _, k := range st.order {
		v := st.changes[k]
		if len(v) == 0 {
			if err := bulk.Delete(k[:]); err != nil {
				return &Error{err}
			}
		} else if err := bulk.Put(k[:], v); err != nil {
			return &Error{err}
		}
	}
	if err := bulk.Write(); err != nil {
		return &Error{err}
	}
	for _, k := range st.order {
		st.state.cache.Add(k, st.changes[k])
	}
	st.state.reset()
	metricStateCommits().Add(1)
	return nil
}
