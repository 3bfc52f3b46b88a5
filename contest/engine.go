// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package contest runs competitive contexts: it takes entries, ranks
// results and settles the pool once a context is final.
package contest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/vechain/arena/arena"
	"github.com/vechain/arena/contest/eligibility"
	"github.com/vechain/arena/contest/events"
	"github.com/vechain/arena/contest/leaderboard"
	"github.com/vechain/arena/contest/prize"
	"github.com/vechain/arena/contest/registry"
	"github.com/vechain/arena/contest/settlement"
	"github.com/vechain/arena/contest/token"
	"github.com/vechain/arena/kv"
	"github.com/vechain/arena/ledger"
	"github.com/vechain/arena/log"
	"github.com/vechain/arena/reverts"
	"github.com/vechain/arena/state"
	"github.com/vechain/arena/storage"
	"github.com/vechain/arena/validator"
)

var logger = log.WithContext("pkg", "contest")

var slotSequences = storage.NameToSlot("sequences")

// Options configures an Engine. Zero values fall back to defaults.
type Options struct {
	Params *arena.Params
	// Escrow holds entry fees and prizes until they are claimed. With a
	// ledger.Local it must be the ledger operator.
	Escrow     arena.Address
	Validators eligibility.Validators
	Notifier   events.Notifier
	// Clock returns the current unix time in seconds.
	Clock     func() uint64
	CacheSize int
}

// Engine is the entry point of every operation. Operations are serialized;
// each one commits all of its state changes or none.
type Engine struct {
	mu       sync.Mutex
	params   arena.Params
	escrow   arena.Address
	clock    func() uint64
	state    *state.State
	ledger   ledger.Ledger
	notifier events.Notifier

	contexts *registry.Registry
	tokens   *token.Registry
	prizes   *prize.Store
	board    *leaderboard.Leaderboard
	resolver *eligibility.Resolver
	settler  *settlement.Settler

	pending []*events.Event
}

func New(store kv.Store, l ledger.Ledger, opts Options) (*Engine, error) {
	params := arena.DefaultParams()
	if opts.Params != nil {
		params = *opts.Params
	}
	if err := params.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid params")
	}
	cacheSize := opts.CacheSize
	if cacheSize <= 0 {
		cacheSize = 4096
	}
	st, err := state.New(store, cacheSize)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		params:   params,
		escrow:   opts.Escrow,
		clock:    opts.Clock,
		state:    st,
		ledger:   l,
		notifier: opts.Notifier,
	}
	if e.clock == nil {
		e.clock = func() uint64 { return uint64(time.Now().Unix()) }
	}
	validators := opts.Validators
	if validators == nil {
		validators = validator.NewRegistry()
	}

	sctx := storage.NewContext(st)
	e.contexts = registry.New(sctx, storage.NewSequence(sctx, slotSequences, "context"))
	e.tokens = token.NewRegistry(sctx, storage.NewSequence(sctx, slotSequences, "token"))
	e.prizes = prize.NewStore(sctx, storage.NewSequence(sctx, slotSequences, "prize"))
	e.board = leaderboard.New(sctx)
	e.resolver = eligibility.NewResolver(sctx, view{e}, l, validators)
	e.settler = settlement.New(sctx, view{e}, l)
	return e, nil
}

func (e *Engine) Params() arena.Params { return e.params }

func (e *Engine) Escrow() arena.Address { return e.escrow }

// Now returns the engine clock.
func (e *Engine) Now() uint64 { return e.clock() }

func (e *Engine) emit(ev *events.Event) {
	e.pending = append(e.pending, ev)
}

// atomic runs fn as one operation. Errors roll back every state change fn
// made; on success the changes are committed and the events of fn are
// dispatched.
func (e *Engine) atomic(ctx context.Context, op string, fn func(now uint64) error) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	start := time.Now()
	now := e.clock()
	cp := e.state.NewCheckpoint()
	e.pending = nil

	if err := fn(now); err != nil {
		e.state.RevertTo(cp)
		e.pending = nil
		observe(op, start, err)
		return err
	}
	if err := e.state.Stage().Commit(); err != nil {
		e.state.RevertTo(cp)
		e.pending = nil
		logger.Error("failed to commit", "op", op, "err", err)
		observe(op, start, err)
		return errors.Wrap(err, "commit")
	}
	observe(op, start, nil)

	evs := e.pending
	e.pending = nil
	for _, ev := range evs {
		ev.Time = now
	}
	if e.notifier != nil && len(evs) > 0 {
		if err := e.notifier.Notify(ctx, evs); err != nil {
			logger.Warn("failed to notify", "op", op, "err", err)
		}
	}
	return nil
}

// read runs fn under the engine lock against committed state.
func (e *Engine) read(fn func(now uint64) error) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(e.clock())
}

func transferFailure(err error, format string, args ...any) error {
	return reverts.Wrap(reverts.TransferFailure, err, fmt.Sprintf(format, args...))
}
