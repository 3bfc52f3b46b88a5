// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package health

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/arena/contest/events"
)

type counter struct {
	n   uint64
	err error
}

func (c counter) ContextCount() (uint64, error) { return c.n, c.err }

func TestHealth(t *testing.T) {
	var fail error
	h := Track(events.NotifierFunc(func(context.Context, []*events.Event) error {
		return fail
	}))

	st, err := h.Status(counter{n: 2})
	require.NoError(t, err)
	assert.True(t, st.Healthy)
	assert.Nil(t, st.LastDelivery)
	assert.Equal(t, uint64(2), st.Contexts)

	evs := []*events.Event{{Name: events.ContextCreated}, {Name: events.ContextCreated}}
	require.NoError(t, h.Notify(context.Background(), evs))
	st, _ = h.Status(counter{n: 2})
	assert.True(t, st.Healthy)
	assert.Equal(t, uint64(2), st.DeliveredEvents)
	assert.NotNil(t, st.LastDelivery)

	fail = errors.New("disk full")
	assert.Error(t, h.Notify(context.Background(), evs))
	st, _ = h.Status(counter{n: 2})
	assert.False(t, st.Healthy)
	assert.Equal(t, "disk full", st.LastError)
	assert.Equal(t, uint64(2), st.DeliveredEvents)

	// a later delivery recovers
	fail = nil
	require.NoError(t, h.Notify(context.Background(), evs[:1]))
	st, _ = h.Status(counter{n: 2})
	assert.True(t, st.Healthy)
	assert.Equal(t, uint64(3), st.DeliveredEvents)

	st, _ = h.Status(counter{err: errors.New("closed")})
	assert.False(t, st.Healthy)
	assert.Equal(t, "closed", st.LastError)
}
