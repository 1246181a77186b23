/*
Package protocol defines the wire format exchanged with game clients.

Inbound envelopes are flat JSON objects whose optional fields decide what the
client wants. Decode classifies an envelope once, at the transport boundary, into a
tagged Request so the game never has to inspect raw fields again. Outbound replies
always carry exactly one of "msg" or "err".
*/
package protocol

import (
	"bytes"
	"encoding/json"
	"fmt"

	"mobhub/internal/pkg/errs"
)

// Kind identifies what an inbound envelope asks for.
type Kind int

// Kinds are listed in routing priority order: when several fields are present,
// the earliest matching kind wins.
const (
	KindRegister Kind = iota + 1
	KindDirectMessage
	KindTransfer
	KindAddFriends
	KindUnfriend
	KindQuery
	KindKill
	KindShout
	KindEcho
)

var kindNames = map[Kind]string{
	KindRegister:      "register",
	KindDirectMessage: "direct_message",
	KindTransfer:      "transfer",
	KindAddFriends:    "add_friends",
	KindUnfriend:      "unfriend",
	KindQuery:         "query",
	KindKill:          "kill",
	KindShout:         "shout",
	KindEcho:          "echo",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Request is a decoded inbound envelope. Only the fields relevant to Kind are set.
type Request struct {
	Kind Kind

	// Name is the requested display name (KindRegister).
	Name string

	// Target is the single friend addressed by KindDirectMessage and KindTransfer.
	Target string

	// Names lists the users for KindAddFriends and KindUnfriend.
	Names []string

	// Msg is the text of a direct message, shout or echo. HasMsg is false when absent.
	Msg    string
	HasMsg bool

	// Amount is the number of GP to transfer (KindTransfer).
	Amount int

	// Query is the raw query keyword (KindQuery).
	Query string
}

// Decode parses one JSON envelope and classifies it by field presence.
// A field holding JSON null counts as absent. Wrongly-typed fields yield an
// ErrInvalidEnvelope CustomError.
func Decode(data []byte) (Request, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return Request{}, errs.Wrap(errs.ErrInvalidEnvelope, err)
	}

	env := envelope(fields)
	req := Request{}

	if env.has("msg") {
		if err := env.decode("msg", &req.Msg); err != nil {
			return Request{}, err
		}
		req.HasMsg = true
	}

	switch {
	case env.has("name"):
		req.Kind = KindRegister
		if err := env.decode("name", &req.Name); err != nil {
			return Request{}, err
		}
		return req, nil

	case env.has("friend"):
		names, err := env.names("friend")
		if err != nil {
			return Request{}, err
		}

		switch {
		case req.HasMsg:
			req.Kind = KindDirectMessage
		case env.has("amount"):
			req.Kind = KindTransfer
			if err := env.decodeAmount(&req.Amount); err != nil {
				return Request{}, err
			}
		default:
			req.Kind = KindAddFriends
			req.Names = names
			return req, nil
		}

		if len(names) != 1 {
			return Request{}, invalidField("friend", "expected exactly one name")
		}
		req.Target = names[0]
		return req, nil

	case env.has("unfriend"):
		names, err := env.names("unfriend")
		if err != nil {
			return Request{}, err
		}
		req.Kind = KindUnfriend
		req.Names = names
		return req, nil

	case env.has("query"):
		req.Kind = KindQuery
		if err := env.decode("query", &req.Query); err != nil {
			return Request{}, err
		}
		return req, nil

	case env.has("kill"):
		req.Kind = KindKill
		return req, nil

	case env.has("shout"):
		req.Kind = KindShout
		return req, nil

	default:
		req.Kind = KindEcho
		return req, nil
	}
}

type envelope map[string]json.RawMessage

func (e envelope) has(key string) bool {
	raw, ok := e[key]
	return ok && !bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func (e envelope) decode(key string, dst any) error {
	if err := json.Unmarshal(e[key], dst); err != nil {
		return invalidField(key, err.Error())
	}
	return nil
}

// names accepts either a single string or an array of strings.
func (e envelope) names(key string) ([]string, error) {
	raw := e[key]

	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		return []string{single}, nil
	}

	var list []string
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, invalidField(key, "expected a name or a list of names")
	}
	return list, nil
}

func (e envelope) decodeAmount(dst *int) error {
	var n json.Number
	if err := json.Unmarshal(e["amount"], &n); err != nil {
		return invalidField("amount", "expected a number")
	}

	v, err := n.Int64()
	if err != nil {
		return invalidField("amount", "expected a whole number")
	}

	*dst = int(v)
	return nil
}

func invalidField(key, reason string) error {
	return errs.Wrap(errs.ErrInvalidEnvelope, fmt.Errorf("field %q: %s", key, reason))
}
