// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package leaderboard keeps the ranked results of each context.
//
// Results are submitted to a chosen 1-based position. A submission either
// appends right after the last occupied position or takes over an occupied
// one, shifting the occupant and everything below it one place down. The
// board never has gaps and never drops an entry.
package leaderboard

import (
	"github.com/pkg/errors"

	"github.com/vechain/arena/reverts"
	"github.com/vechain/arena/storage"
)

var slotBoards = storage.NameToSlot("leaderboards")

// Entry is one ranked result.
type Entry struct {
	TokenID uint64
	Score   uint64
}

// Outranks reports whether e sorts before o: higher score first, lower
// token id on equal scores.
func (e Entry) Outranks(o Entry) bool {
	if e.Score != o.Score {
		return e.Score > o.Score
	}
	return e.TokenID < o.TokenID
}

type Leaderboard struct {
	context *storage.Context
}

func New(context *storage.Context) *Leaderboard {
	return &Leaderboard{context: context}
}

func (l *Leaderboard) list(contextID uint64) *storage.List[Entry] {
	return storage.NewList[Entry](l.context, slotBoards, storage.Uint64(contextID))
}

// Len returns the number of occupied positions.
func (l *Leaderboard) Len(contextID uint64) (uint32, error) {
	n, err := l.list(contextID).Len()
	if err != nil {
		return 0, errors.Wrap(err, "failed to get leaderboard length")
	}
	return uint32(n), nil
}

// At returns the occupant of the 1-based position, if any.
func (l *Leaderboard) At(contextID uint64, position uint32) (Entry, bool, error) {
	n, err := l.Len(contextID)
	if err != nil {
		return Entry{}, false, err
	}
	if position == 0 || position > n {
		return Entry{}, false, nil
	}
	e, err := l.list(contextID).At(uint64(position - 1))
	if err != nil {
		return Entry{}, false, errors.Wrap(err, "failed to get leaderboard entry")
	}
	return e, true, nil
}

// All returns the board from position 1 down.
func (l *Leaderboard) All(contextID uint64) ([]Entry, error) {
	entries, err := l.list(contextID).All()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get leaderboard")
	}
	return entries, nil
}

// Submit places e at position. Whether the token may submit at all is up to
// the caller; Submit only enforces the shape and the order of the board.
func (l *Leaderboard) Submit(contextID uint64, position uint32, e Entry) error {
	if position == 0 {
		return reverts.New(reverts.OrderingViolation, "positions start at 1")
	}
	n, err := l.Len(contextID)
	if err != nil {
		return err
	}
	if position > n+1 {
		return reverts.Newf(reverts.OrderingViolation, "position %d leaves a gap after %d", position, n)
	}

	if position > 1 {
		above, _, err := l.At(contextID, position-1)
		if err != nil {
			return err
		}
		if !above.Outranks(e) {
			return reverts.Newf(reverts.OrderingViolation, "score too high for position %d", position)
		}
	}
	if position <= n {
		occupant, _, err := l.At(contextID, position)
		if err != nil {
			return err
		}
		if !e.Outranks(occupant) {
			return reverts.Newf(reverts.OrderingViolation, "score too low for position %d", position)
		}
	}

	if err := l.list(contextID).Insert(uint64(position-1), e); err != nil {
		return errors.Wrap(err, "failed to insert leaderboard entry")
	}
	return nil
}
