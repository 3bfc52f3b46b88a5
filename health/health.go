// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package health tracks whether committed operations still reach their
// event consumers.
package health

import (
	"context"
	"sync"
	"time"

	"github.com/vechain/arena/contest/events"
)

// ContextCounter reports how many contexts the engine holds.
type ContextCounter interface {
	ContextCount() (uint64, error)
}

type Status struct {
	Healthy         bool       `json:"healthy"`
	Contexts        uint64     `json:"contexts"`
	DeliveredEvents uint64     `json:"deliveredEvents"`
	LastDelivery    *time.Time `json:"lastDelivery"`
	LastError       string     `json:"lastError,omitempty"`
}

// Health wraps a notifier and records the outcome of each delivery.
type Health struct {
	lock         sync.RWMutex
	next         events.Notifier
	delivered    uint64
	lastDelivery time.Time
	lastErr      error
}

var _ events.Notifier = (*Health)(nil)

func Track(next events.Notifier) *Health {
	return &Health{next: next}
}

func (h *Health) Notify(ctx context.Context, evs []*events.Event) error {
	err := h.next.Notify(ctx, evs)

	h.lock.Lock()
	defer h.lock.Unlock()
	if err != nil {
		h.lastErr = err
		return err
	}
	h.lastErr = nil
	h.delivered += uint64(len(evs))
	h.lastDelivery = time.Now()
	return nil
}

// Status is healthy when the store answers and the latest delivery went
// through.
func (h *Health) Status(counter ContextCounter) (*Status, error) {
	h.lock.RLock()
	defer h.lock.RUnlock()

	st := &Status{
		Healthy:         h.lastErr == nil,
		DeliveredEvents: h.delivered,
	}
	if !h.lastDelivery.IsZero() {
		t := h.lastDelivery
		st.LastDelivery = &t
	}
	if h.lastErr != nil {
		st.LastError = h.lastErr.Error()
	}

	n, err := counter.ContextCount()
	if err != nil {
		st.Healthy = false
		st.LastError = err.Error()
		return st, nil
	}
	st.Contexts = n
	return st, nil
}
