// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/vechain/arena/api/restutil"
	"github.com/vechain/arena/contest/events"
	"github.com/vechain/arena/log"
)

var logger = log.WithContext("pkg", "subscriptions")

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second
	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second
	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 7) / 10

	eventBufferSize = 256
)

// EventsRoute names the event stream route.
const EventsRoute = "WS /subscriptions/events"

type Subscriptions struct {
	feed     *events.Feed
	upgrader *websocket.Upgrader
	done     chan struct{}
	wg       sync.WaitGroup
}

// matcher selects the events a subscriber asked for.
type matcher struct {
	contextID *uint64
	names     map[string]bool
}

func (m *matcher) match(ev *events.Event) bool {
	if m.contextID != nil && ev.ContextID != *m.contextID {
		return false
	}
	if len(m.names) > 0 && !m.names[ev.Name] {
		return false
	}
	return true
}

func New(feed *events.Feed, allowedOrigins []string) *Subscriptions {
	return &Subscriptions{
		feed: feed,
		upgrader: &websocket.Upgrader{
			EnableCompression: true,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				for _, allowed := range allowedOrigins {
					if allowed == origin || allowed == "*" {
						return true
					}
				}
				return false
			},
		},
		done: make(chan struct{}),
	}
}

func (s *Subscriptions) handleSubscribeEvents(w http.ResponseWriter, req *http.Request) error {
	var m matcher
	query := req.URL.Query()
	if v := query.Get("contextId"); v != "" {
		id, err := restutil.ParseUint("contextId", v)
		if err != nil {
			return err
		}
		m.contextID = &id
	}
	if v := query.Get("names"); v != "" {
		m.names = make(map[string]bool)
		for _, n := range strings.Split(v, ",") {
			m.names[n] = true
		}
	}

	// subscribe before the handshake completes so no event after it is missed
	ch := make(chan *events.Event, eventBufferSize)
	s.feed.Subscribe(ch)
	defer s.feed.Unsubscribe(ch)

	conn, err := s.upgrader.Upgrade(w, req, nil)
	if err != nil {
		// the upgrader already responded
		logger.Debug("upgrade failed", "err", err)
		return nil
	}
	s.wg.Add(1)
	defer s.wg.Done()

	if err := s.pipe(conn, ch, &m); err != nil {
		logger.Debug("subscription closed", "err", err)
	}
	return nil
}

func (s *Subscriptions) pipe(conn *websocket.Conn, ch <-chan *events.Event, m *matcher) error {
	defer conn.Close()

	closed := make(chan struct{})
	// the read loop only handles control frames and detects a gone peer
	go func() {
		defer close(closed)
		conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	pingTicker := time.NewTicker(pingPeriod)
	defer pingTicker.Stop()

	for {
		select {
		case <-s.done:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			return conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "service closed"))
		case <-closed:
			return nil
		case ev := <-ch:
			if !m.match(ev) {
				continue
			}
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(ev); err != nil {
				return err
			}
		case <-pingTicker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return err
			}
		}
	}
}

// Close ends all live subscriptions and waits for their handlers.
func (s *Subscriptions) Close() {
	close(s.done)
	s.wg.Wait()
}

func (s *Subscriptions) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/events").
		Methods(http.MethodGet).
		Name(EventsRoute).
		HandlerFunc(restutil.WrapHandlerFunc(s.handleSubscribeEvents))
}
