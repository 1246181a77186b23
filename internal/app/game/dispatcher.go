/*
Package game contains the session core.

This file defines the dispatcher: one handler per request kind. Every handler
runs on the Hub goroutine, and every failure becomes an error reply to the sender
instead of ending the connection.
*/
package game

import (
	"fmt"
	"strconv"
	"strings"

	"mobhub/internal/app/protocol"
	"mobhub/internal/app/user"
	"mobhub/internal/pkg/errs"
)

// dispatch routes req from conn to its handler.
func (h *Hub) dispatch(conn user.Conn, req protocol.Request) {
	if req.Kind == protocol.KindRegister {
		h.handleRegister(conn, req.Name)
		return
	}

	rec, ok := h.registry.FindByEndpoint(conn.Endpoint())
	if !ok {
		conn.Send(protocol.Failure(errs.NewError(errs.ErrUnknownUser)))
		return
	}

	h.logger.Debug().Str("user", rec.Name).Stringer("kind", req.Kind).Msg("Dispatching request.")

	switch req.Kind {
	case protocol.KindDirectMessage:
		h.handleDirectMessage(rec, req.Target, req.Msg)
	case protocol.KindTransfer:
		h.handleTransfer(rec, req.Target, req.Amount)
	case protocol.KindAddFriends:
		h.handleAddFriends(rec, req.Names)
	case protocol.KindUnfriend:
		h.handleUnfriend(rec, req.Names)
	case protocol.KindQuery:
		h.handleQuery(rec, req.Query)
	case protocol.KindKill:
		h.handleKill(rec)
	case protocol.KindShout:
		h.handleShout(rec, req)
	case protocol.KindEcho:
		h.handleEcho(rec, req)
	default:
		h.logger.Warn().Stringer("kind", req.Kind).Msg("Unhandled request kind.")
	}
}

func (h *Hub) handleRegister(conn user.Conn, name string) {
	rec, err := h.registry.Register(conn, name)
	if err != nil {
		h.logger.Info().Int("code", errs.CodeOf(err)).Str("name", name).Msg("Registration rejected.")
		conn.Send(protocol.Failure(err))
		return
	}

	h.online.Store(int64(h.registry.Len()))
	rec.Send(protocol.Infof(msgWelcome, rec.Name))
}

func (h *Hub) handleDirectMessage(rec *user.Record, target, text string) {
	friend, ok := rec.FindFriend(target, h.registry.Resolve)
	if !ok {
		rec.Send(protocol.Failure(errs.NewError(errs.ErrFriendNotFound, target)))
		return
	}

	friend.Send(protocol.Infof(msgDirect, rec.Name, text))
}

func (h *Hub) handleTransfer(rec *user.Record, target string, amount int) {
	receipt, err := h.ledger.Transfer(rec, target, amount)

	switch {
	case errs.Is(err, errs.ErrInsufficientFunds):
		receipt.To.Send(protocol.Infof(msgTransferFailed, rec.Name))
		rec.Send(protocol.Failure(err))

	case err != nil:
		rec.Send(protocol.Failure(err))

	case receipt.To == nil:
		// zero amount

	default:
		h.logger.Info().
			Str("from", rec.Name).
			Str("to", receipt.To.Name).
			Int("amount", amount).
			Msg("Transfer completed.")

		receipt.To.Send(protocol.Infof(msgTransferReceived, amount, gpUnit(amount), rec.Name))
		rec.Send(protocol.Info(msgTransferDone))
	}
}

func (h *Hub) handleAddFriends(rec *user.Record, names []string) {
	missed := 0
	for _, name := range names {
		friend, ok := h.registry.FindByName(name)
		if !ok {
			missed++
			continue
		}

		friend.Send(protocol.Infof(msgNowFriends, rec.Name))
		friend.AddFriend(rec)
		rec.AddFriend(friend)
	}

	if missed > 0 {
		rec.Send(protocol.Infof(msgFriendsMissed, missed))
		return
	}
	rec.Send(protocol.Info(msgFriendsAdded))
}

func (h *Hub) handleUnfriend(rec *user.Record, names []string) {
	rec.RemoveFriendsByName(names, h.registry.Resolve, func(friend *user.Record) {
		friend.Send(protocol.Infof(msgUnfriended, rec.Name, rec.Name))
	})
}

func (h *Hub) handleQuery(rec *user.Record, query string) {
	var answer string

	switch strings.ToLower(query) {
	case "friend":
		answer = strconv.FormatBool(rec.FriendCount() > 0)
	case "friends":
		answer = rec.ListFriends(h.registry.Resolve)
	case "gp", "cash":
		answer = fmt.Sprintf(msgCash, rec.Cash)
	case "mob":
		answer = strconv.FormatBool(rec.MobCounter > 0)
	case "mobs":
		answer = strconv.Itoa(rec.MobCounter)
	case "hp", "health":
		answer = strconv.Itoa(rec.HP)
	case "stat", "stats":
		answer = rec.Stats()
	default:
		return
	}

	rec.Send(protocol.Info(answer))
}

// handleKill consumes a pending encounter and schedules the fight.
func (h *Hub) handleKill(rec *user.Record) {
	if rec.MobCounter <= 0 {
		rec.Send(protocol.Failure(errs.NewError(errs.ErrNoPendingEncounter)))
		return
	}

	rec.MobCounter--
	ev := combatEvent{userID: rec.ID, mob: h.engine.NewMob(rec)}

	h.schedule(h.settings.CombatDelay, func() {
		select {
		case h.combats <- ev:
		case <-h.stopChan:
		}
	})
}

// finishCombat resolves a scheduled fight and settles the outcome.
func (h *Hub) finishCombat(ev combatEvent) {
	rec, ok := h.registry.Resolve(ev.userID)
	if !ok {
		return
	}

	if h.engine.Fight(rec, ev.mob) {
		reward := Reward(rec)
		rec.Cash += reward
		rec.IncreaseDifficulty()

		h.logger.Info().Str("user", rec.Name).Int("reward", reward).Int("difficulty", rec.Difficulty).Msg("Mob killed.")
		rec.Send(protocol.Infof(msgMobKilled, reward, rec.Difficulty))
		return
	}

	rec.DecreaseDifficulty()

	h.logger.Info().Str("user", rec.Name).Int("hp", rec.HP).Int("difficulty", rec.Difficulty).Msg("Fight lost.")
	rec.Send(protocol.Infof(msgMobLost, rec.HP, rec.Difficulty))
}

func (h *Hub) handleShout(rec *user.Record, req protocol.Request) {
	if !req.HasMsg {
		return
	}

	reply := protocol.Infof(msgChat, rec.Name, req.Msg)
	for _, other := range h.registry.All() {
		if other != rec {
			other.Send(reply)
		}
	}
}

func (h *Hub) handleEcho(rec *user.Record, req protocol.Request) {
	if !req.HasMsg {
		return
	}

	reply := protocol.Infof(msgChat, rec.Name, req.Msg)
	for _, friend := range rec.Friends(h.registry.Resolve) {
		friend.Send(reply)
	}
}
