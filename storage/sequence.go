// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package storage

import (
	"github.com/pkg/errors"

	"github.com/vechain/arena/arena"
)

// Sequence hands out monotonically increasing ids starting at 1.
type Sequence struct {
	counter *Mapping[Bytes, uint64]
	name    Bytes
}

func NewSequence(context *Context, pos arena.Bytes32, name string) *Sequence {
	return &Sequence{
		counter: NewMapping[Bytes, uint64](context, pos),
		name:    Bytes(name),
	}
}

// Current returns the last id handed out, 0 if none.
func (s *Sequence) Current() (uint64, error) {
	return s.counter.Get(s.name)
}

// Next allocates the next id.
func (s *Sequence) Next() (uint64, error) {
	cur, err := s.Current()
	if err != nil {
		return 0, errors.Wrap(err, "failed to read sequence")
	}
	cur++
	if err := s.counter.Set(s.name, cur); err != nil {
		return 0, errors.Wrap(err, "failed to bump sequence")
	}
	return cur, nil
}
