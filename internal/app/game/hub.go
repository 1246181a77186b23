/*
Package game contains the session core.

This file defines the Hub, the single goroutine that owns the registry. Client
requests, disconnects, mob poll ticks and combat resolutions all arrive on
channels and are processed to completion one at a time, so no record is ever
touched by two goroutines.
*/
package game

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"mobhub/internal/app/protocol"
	"mobhub/internal/app/user"
	"mobhub/internal/pkg/logx"
	"mobhub/internal/pkg/randx"
)

// Settings tunes the game timings and the starting grant.
type Settings struct {
	// PollInterval is how often each user's mob poll ticks.
	PollInterval time.Duration

	// CombatDelay is the pause between a kill request and the fight.
	CombatDelay time.Duration

	// StartingCash is the GP granted on registration.
	StartingCash int
}

// inboundRequest pairs a decoded request with the connection that sent it.
// A leave entry carries no request; it marks the end of the client's stream.
type inboundRequest struct {
	conn user.Conn
	req  protocol.Request

	// leave is set by Leave. It shares the queue with requests so that a
	// disconnect is never handled before envelopes the client sent earlier.
	leave  bool
	client *Client
}

// combatEvent is posted when a scheduled fight is due.
type combatEvent struct {
	userID string
	mob    Mob
}

// Hub coordinates every connected client.
type Hub struct {
	registry *Registry
	engine   *Engine
	ledger   *Ledger
	settings Settings

	// clients tracks every live transport client, registered or not.
	clients map[*Client]struct{}

	register chan *Client
	inbound  chan inboundRequest
	ticks    chan string
	combats  chan combatEvent

	// stopChan is closed to stop Run and every poll goroutine.
	stopChan chan struct{}
	stopOnce sync.Once

	// done is closed when Run has returned.
	done chan struct{}

	// schedule runs f after d. Replaced in tests.
	schedule func(d time.Duration, f func())

	// online mirrors registry.Len() for readers outside the hub goroutine.
	online atomic.Int64

	logger zerolog.Logger
}

// NewHub constructs a Hub. Call Run to start processing.
func NewHub(settings Settings, src randx.Source) *Hub {
	h := &Hub{
		engine:   NewEngine(src),
		settings: settings,
		clients:  make(map[*Client]struct{}),
		register: make(chan *Client),
		inbound:  make(chan inboundRequest, 256),
		ticks:    make(chan string, 256),
		combats:  make(chan combatEvent, 64),
		stopChan: make(chan struct{}),
		done:     make(chan struct{}),
		schedule: func(d time.Duration, f func()) {
			time.AfterFunc(d, f)
		},
		logger: logx.Component("hub"),
	}

	h.registry = NewRegistry(settings.StartingCash, h)
	h.ledger = NewLedger(h.registry.Resolve)

	return h
}

// Online returns the number of registered users. Safe for concurrent use.
func (h *Hub) Online() int {
	return int(h.online.Load())
}

// Done is closed once Run has returned.
func (h *Hub) Done() <-chan struct{} {
	return h.done
}

// Run processes hub events until Stop is called.
func (h *Hub) Run() {
	defer close(h.done)

	h.logger.Info().Msg("Hub loop started.")

	for {
		select {
		case c := <-h.register:
			h.clients[c] = struct{}{}
			h.logger.Debug().Str("endpoint", c.Endpoint().String()).Int("clients", len(h.clients)).Msg("Client connected.")

		case in := <-h.inbound:
			if in.leave {
				h.leave(in.client)
				continue
			}
			h.dispatch(in.conn, in.req)

		case id := <-h.ticks:
			h.pollMobs(id)

		case ev := <-h.combats:
			h.finishCombat(ev)

		case <-h.stopChan:
			h.shutdown()
			return
		}
	}
}

// Stop halts Run and cancels every mob poll. It is safe to call more than once.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() {
		close(h.stopChan)
	})
}

// shutdown releases every client and stops all polls.
func (h *Hub) shutdown() {
	h.registry.Close()

	for c := range h.clients {
		c.kick()
		delete(h.clients, c)
	}

	h.logger.Info().Int("users", h.registry.Len()).Msg("Hub loop stopped.")
}

// Connect announces a new transport client. It returns false once the hub has stopped.
func (h *Hub) Connect(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.stopChan:
		return false
	}
}

// Leave announces that a client's connection has closed. It is queued behind
// every request the client submitted before it.
func (h *Hub) Leave(c *Client) {
	select {
	case h.inbound <- inboundRequest{leave: true, client: c}:
	case <-h.stopChan:
	}
}

// leave removes c's record, if any, and releases the client.
func (h *Hub) leave(c *Client) {
	h.disconnect(c)
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		c.release()
	}
}

// Submit queues a decoded request from conn for processing.
func (h *Hub) Submit(conn user.Conn, req protocol.Request) {
	select {
	case h.inbound <- inboundRequest{conn: conn, req: req}:
	case <-h.stopChan:
	}
}

// StartPolling starts rec's mob poll goroutine. It satisfies Poller.
func (h *Hub) StartPolling(rec *user.Record) func() {
	ctx, cancel := context.WithCancel(context.Background())
	go h.runMobPoll(ctx, rec.ID)
	return cancel
}

// runMobPoll posts a tick for id every PollInterval until ctx is cancelled.
func (h *Hub) runMobPoll(ctx context.Context, id string) {
	ticker := time.NewTicker(h.settings.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-h.stopChan:
			return
		case <-ticker.C:
			select {
			case h.ticks <- id:
			case <-ctx.Done():
				return
			case <-h.stopChan:
				return
			}
		}
	}
}

// pollMobs runs one encounter tick for the user with session ID id.
func (h *Hub) pollMobs(id string) {
	rec, ok := h.registry.Resolve(id)
	if !ok {
		return
	}

	if h.engine.Poll(rec) {
		h.logger.Debug().Str("user", rec.Name).Int("mobs", rec.MobCounter).Msg("Mob detected.")
		rec.Send(protocol.Info(msgMobDetected))
	}
}

// disconnect removes the record owned by conn, if any.
func (h *Hub) disconnect(conn user.Conn) {
	if _, ok := h.registry.Remove(conn.Endpoint()); ok {
		h.online.Store(int64(h.registry.Len()))
	}
}
