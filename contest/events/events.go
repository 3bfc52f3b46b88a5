// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package events defines the notifications emitted by the engine once an
// operation has been committed.
package events

import (
	"context"
	"errors"
	"math/big"
	"sync"

	"github.com/vechain/arena/arena"
)

const (
	ContextCreated     = "ContextCreated"
	EntryRegistered    = "EntryRegistered"
	EntryBanned        = "EntryBanned"
	LeaderboardUpdated = "LeaderboardUpdated"
	PrizeAdded         = "PrizeAdded"
	ClaimSettled       = "ClaimSettled"
	TokenTransferred   = "TokenTransferred"
)

// Names lists every event name.
var Names = []string{
	ContextCreated,
	EntryRegistered,
	EntryBanned,
	LeaderboardUpdated,
	PrizeAdded,
	ClaimSettled,
	TokenTransferred,
}

// Event is a flat record; fields that do not apply to an event are zero.
type Event struct {
	Name      string        `json:"name"`
	ContextID uint64        `json:"contextId"`
	TokenID   uint64        `json:"tokenId,omitempty"`
	PrizeID   uint64        `json:"prizeId,omitempty"`
	Position  uint32        `json:"position,omitempty"`
	Score     uint64        `json:"score,omitempty"`
	Account   arena.Address `json:"account"`
	Token     arena.Address `json:"token"`
	Amount    *big.Int      `json:"amount,omitempty"`
	Detail    string        `json:"detail,omitempty"`
	Time      uint64        `json:"time"`
}

// Notifier receives committed events in order.
type Notifier interface {
	Notify(ctx context.Context, evs []*Event) error
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, evs []*Event) error

func (f NotifierFunc) Notify(ctx context.Context, evs []*Event) error { return f(ctx, evs) }

// Multi notifies each of notifiers in turn.
func Multi(notifiers ...Notifier) Notifier {
	return NotifierFunc(func(ctx context.Context, evs []*Event) error {
		var errs []error
		for _, n := range notifiers {
			if err := n.Notify(ctx, evs); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	})
}

// Feed fans events out to subscribed channels. Delivery does not block:
// a subscriber that is not ready misses the event.
type Feed struct {
	mu        sync.RWMutex
	listeners map[chan *Event]struct{}
}

func NewFeed() *Feed {
	return &Feed{listeners: make(map[chan *Event]struct{})}
}

func (f *Feed) Subscribe(ch chan *Event) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listeners[ch] = struct{}{}
}

func (f *Feed) Unsubscribe(ch chan *Event) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.listeners, ch)
}

// Notify implements Notifier.
func (f *Feed) Notify(_ context.Context, evs []*Event) error {
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, ev := range evs {
		for lsn := range f.listeners {
			select {
			case lsn <- ev:
			default:
				metricDropped().Add(1)
			}
		}
	}
	return nil
}
