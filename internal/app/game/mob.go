/*
Package game contains the session core.

This file defines the mob encounter engine: the per-tick spawn roll, the mob built
from a user's difficulty and secret ID, and the attack rounds that resolve a fight.
*/
package game

import (
	"strconv"

	"mobhub/internal/app/user"
	"mobhub/internal/pkg/randx"
)

const (
	// HPFloor ends a fight as a loss once the user's hp drops to it or below.
	HPFloor = 5

	// MaxCombatRounds bounds a single fight; reaching it counts as fleeing.
	MaxCombatRounds = 1000

	// RewardPerDifficulty is the GP awarded per difficulty point on a kill.
	RewardPerDifficulty = 10
)

// Mob is an ephemeral opponent generated at kill time.
type Mob struct {
	// Defense is the attack value the user must reach to defeat the mob.
	Defense int

	// Attack is the highest damage a single mob hit can deal.
	Attack int
}

// Engine rolls encounters and resolves fights. It mutates records and must only
// be used from the Hub goroutine.
type Engine struct {
	src randx.Source
}

// NewEngine returns an Engine drawing randomness from src.
func NewEngine(src randx.Source) *Engine {
	return &Engine{src: src}
}

// SecretID recomputes the user's secret ID: a fresh hex string of length difficulty.
func (e *Engine) SecretID(rec *user.Record) string {
	return e.src.Hex(rec.Difficulty)
}

// Poll runs one encounter tick for rec and reports whether a mob was detected.
// Stale encounters drain first, then a fresh roll is compared with a freshly
// recomputed secret ID; the two draws are independent.
func (e *Engine) Poll(rec *user.Record) bool {
	if rec.MobCounter > 0 && rec.MobCounter%(rec.Difficulty/2+1) == 0 {
		rec.MobCounter--
	}

	secret := e.SecretID(rec)
	roll := e.src.Hex(rec.Difficulty)
	if roll != secret {
		return false
	}

	rec.MobCounter++
	return true
}

// NewMob builds the opponent for rec from its difficulty and a secret ID seed.
// Defense stays below rec.AtkPoints so every fight remains winnable.
func (e *Engine) NewMob(rec *user.Record) Mob {
	seed := seedOf(e.SecretID(rec))

	return Mob{
		Defense: min(rec.Difficulty+seed%4, max(rec.AtkPoints-1, 0)),
		Attack:  4 + 2*rec.Difficulty + seed%4,
	}
}

// seedOf reads the first hex digit of id; an empty or invalid id seeds 0.
func seedOf(id string) int {
	if id == "" {
		return 0
	}
	v, err := strconv.ParseUint(id[:1], 16, 8)
	if err != nil {
		return 0
	}
	return int(v)
}

// Fight plays attack rounds until the mob is defeated or the user falls to
// HPFloor. A lost fight gives the encounter back to the user. It reports whether
// the user won.
func (e *Engine) Fight(rec *user.Record, mob Mob) bool {
	for round := 0; round < MaxCombatRounds; round++ {
		if e.src.Intn(rec.AtkPoints) >= mob.Defense {
			return true
		}

		hit := e.src.Intn(mob.Attack + 1)
		if rec.DefPoints > hit {
			continue
		}

		rec.HP = max(rec.HP-hit, 0)
		if rec.HP <= HPFloor {
			break
		}
	}

	rec.MobCounter++
	return false
}

// Reward returns the GP a kill is worth at rec's current difficulty.
func Reward(rec *user.Record) int {
	return rec.Difficulty * RewardPerDifficulty
}
