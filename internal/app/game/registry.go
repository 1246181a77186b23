/*
Package game contains the session core: the registry of connected users, the
message dispatcher, the mob encounter engine, the gold ledger, and the hub event
loop that serializes every mutation onto a single goroutine.

This file defines the Registry, which owns every user record for the lifetime of
its connection and indexes records by connection endpoint, name and session ID.
*/
package game

import (
	"strings"

	"github.com/rs/zerolog"

	"mobhub/internal/app/protocol"
	"mobhub/internal/app/user"
	"mobhub/internal/pkg/errs"
	"mobhub/internal/pkg/logx"
	"mobhub/internal/pkg/randx"
)

// Poller starts the recurring mob poll for a record and returns the function that stops it.
type Poller interface {
	StartPolling(rec *user.Record) (stop func())
}

// Registry is the set of registered user records. It is not safe for concurrent
// use; the Hub confines it to its own goroutine.
type Registry struct {
	// order holds records in registration order for broadcasts.
	order []*user.Record

	// byEndpoint, byName and byID index the same records.
	byEndpoint map[user.Endpoint]*user.Record
	byName     map[string]*user.Record
	byID       map[string]*user.Record

	// stops holds the poll cancel function of every record, keyed by session ID.
	stops map[string]func()

	startingCash int
	poller       Poller
	logger       zerolog.Logger
}

// NewRegistry returns an empty registry granting startingCash to new records.
// poller may be nil, in which case no mob polling is started.
func NewRegistry(startingCash int, poller Poller) *Registry {
	return &Registry{
		byEndpoint:   make(map[user.Endpoint]*user.Record),
		byName:       make(map[string]*user.Record),
		byID:         make(map[string]*user.Record),
		stops:        make(map[string]func()),
		startingCash: startingCash,
		poller:       poller,
		logger:       logx.Component("registry"),
	}
}

// Register creates a record for conn under name and starts its mob poll.
func (r *Registry) Register(conn user.Conn, name string) (*user.Record, error) {
	if strings.TrimSpace(name) == "" {
		return nil, errs.NewError(errs.ErrInvalidName)
	}

	if existing, ok := r.byEndpoint[conn.Endpoint()]; ok {
		return nil, errs.NewError(errs.ErrAlreadyRegistered, existing.Name)
	}

	if _, taken := r.byName[name]; taken {
		return nil, errs.NewError(errs.ErrNameConflict, name)
	}

	rec := user.New(randx.SessionID(), name, conn)
	rec.Cash = r.startingCash

	r.order = append(r.order, rec)
	r.byEndpoint[conn.Endpoint()] = rec
	r.byName[name] = rec
	r.byID[rec.ID] = rec

	if r.poller != nil {
		r.stops[rec.ID] = r.poller.StartPolling(rec)
	}

	r.logger.Info().
		Str("user", name).
		Str("endpoint", conn.Endpoint().String()).
		Int("online", len(r.order)).
		Msg("User registered.")

	return rec, nil
}

// FindByEndpoint returns the record owning the connection at endpoint.
func (r *Registry) FindByEndpoint(endpoint user.Endpoint) (*user.Record, bool) {
	rec, ok := r.byEndpoint[endpoint]
	return rec, ok
}

// FindByName returns the record with the exact given name.
func (r *Registry) FindByName(name string) (*user.Record, bool) {
	rec, ok := r.byName[name]
	return rec, ok
}

// Resolve returns the record with the given session ID. It satisfies user.Resolver.
func (r *Registry) Resolve(id string) (*user.Record, bool) {
	rec, ok := r.byID[id]
	return rec, ok
}

// All returns the registered records in registration order.
func (r *Registry) All() []*user.Record {
	return append([]*user.Record(nil), r.order...)
}

// Len returns the number of registered records.
func (r *Registry) Len() int {
	return len(r.order)
}

// Remove deregisters the record owning endpoint. Each of its friends is told about
// the disconnect once, in friend-list order, and loses its link back. Links held by
// records that were not on the departing friend list are purged silently.
func (r *Registry) Remove(endpoint user.Endpoint) (*user.Record, bool) {
	rec, ok := r.byEndpoint[endpoint]
	if !ok {
		return nil, false
	}

	if stop, ok := r.stops[rec.ID]; ok {
		stop()
		delete(r.stops, rec.ID)
	}

	delete(r.byEndpoint, endpoint)
	delete(r.byName, rec.Name)
	delete(r.byID, rec.ID)
	for i, other := range r.order {
		if other == rec {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}

	for _, friend := range rec.Friends(r.Resolve) {
		friend.Send(protocol.Infof(msgFriendDisconnected, rec.Name))
		friend.RemoveFriend(rec.ID)
	}

	for _, other := range r.order {
		other.RemoveFriend(rec.ID)
	}

	r.logger.Info().
		Str("user", rec.Name).
		Int("online", len(r.order)).
		Msg("User has left. Friends unlinked.")

	return rec, true
}

// Close stops every running mob poll.
func (r *Registry) Close() {
	for id, stop := range r.stops {
		stop()
		delete(r.stops, id)
	}
}
