/*
Package user contains the per-session user record and its friend graph.

A Record is owned by the session registry for as long as its connection lives.
Friends are stored as back-references (session IDs) and are always resolved
through the registry, so one record never keeps another alive.
*/
package user

import (
	"fmt"
	"net"

	"mobhub/internal/app/protocol"
)

const (
	// DefaultDifficulty is the difficulty every new record starts at, and its floor.
	DefaultDifficulty = 2

	// DifficultyStep is how much difficulty changes after a won or lost fight.
	DifficultyStep = 2

	// DefaultAtkPoints and DefaultDefPoints are the starting combat stats.
	DefaultAtkPoints = 10
	DefaultDefPoints = 10

	// DefaultHP is the starting hit point total.
	DefaultHP = 25
)

// Endpoint identifies the transport connection behind a record.
// Two connections are the same when network, remote host and remote port all match.
type Endpoint struct {
	Network string
	Host    string
	Port    string
}

// EndpointOf derives an Endpoint from a remote address.
func EndpointOf(network string, addr net.Addr) Endpoint {
	if addr == nil {
		return Endpoint{Network: network}
	}

	host, port, err := net.SplitHostPort(addr.String())
	if err != nil {
		return Endpoint{Network: network, Host: addr.String()}
	}

	return Endpoint{Network: network, Host: host, Port: port}
}

func (e Endpoint) String() string {
	return fmt.Sprintf("%s://%s", e.Network, net.JoinHostPort(e.Host, e.Port))
}

// Conn is the outbound side of a client connection.
type Conn interface {
	// Endpoint returns the identity of the connection.
	Endpoint() Endpoint

	// Send queues a reply for delivery. It must not block.
	Send(reply protocol.Reply)
}

// Record is the state of one registered user.
type Record struct {
	// ID is the session identifier other records use to reference this one.
	ID string

	// Name is the display name, unique among registered users.
	Name string

	// Conn is the owning connection.
	Conn Conn

	// friends holds session IDs in insertion order.
	friends []string

	Cash       int
	Difficulty int
	MobCounter int
	AtkPoints  int
	DefPoints  int
	HP         int
}

// New returns a record with default stats and no currency.
func New(id, name string, conn Conn) *Record {
	return &Record{
		ID:         id,
		Name:       name,
		Conn:       conn,
		Difficulty: DefaultDifficulty,
		AtkPoints:  DefaultAtkPoints,
		DefPoints:  DefaultDefPoints,
		HP:         DefaultHP,
	}
}

// Send queues a reply on the record's connection.
func (u *Record) Send(reply protocol.Reply) {
	if u.Conn != nil {
		u.Conn.Send(reply)
	}
}

// IncreaseDifficulty raises the difficulty by one step.
func (u *Record) IncreaseDifficulty() {
	u.Difficulty += DifficultyStep
}

// DecreaseDifficulty lowers the difficulty by one step, never below DefaultDifficulty.
func (u *Record) DecreaseDifficulty() {
	u.Difficulty = max(u.Difficulty-DifficultyStep, DefaultDifficulty)
}

// Stats renders a one-line summary of the record.
func (u *Record) Stats() string {
	return fmt.Sprintf("%s | GP: %d | Difficulty: %d | HP: %d | ATK: %d | DEF: %d | Mobs: %d",
		u.Name, u.Cash, u.Difficulty, u.HP, u.AtkPoints, u.DefPoints, u.MobCounter)
}
