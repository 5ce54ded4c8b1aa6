// Package combat resolves turn-based battles between two combatants.
//
// Resolution is deterministic given a random source: each hit draws one
// uniform damage variance. Simulated mode works entirely on copies and is
// used for sparring; real mode reports final HP values the caller persists.
package combat

import (
	"math"

	"github.com/tianji-games/ascension/internal/game/catalog"
	"github.com/tianji-games/ascension/internal/platform/random"
)

// Mode selects whether battle damage is meant to be persisted.
type Mode int

const (
	// Simulated battles run to a knockout on working copies; callers do not
	// persist HP.
	Simulated Mode = iota
	// Real battles stop at the safety round cap; callers persist the
	// resulting HP values.
	Real
)

// Fighter is a working combat view of a player or monster.
type Fighter struct {
	Name    string
	Level   int
	HP      int
	Attack  int
	Defense int
}

// Hit is one damage event in the battle log.
type Hit struct {
	Round      int
	Attacker   string
	Damage     int
	DefenderHP int
}

// Result is the outcome of one resolved battle.
type Result struct {
	Winner string // empty on a draw
	Draw   bool
	Rounds int
	Log    []Hit

	// AttackerDamage is the total damage dealt by the initiating side,
	// recorded against world-boss participant totals.
	AttackerDamage int64

	AttackerHP int
	DefenderHP int
}

// Resolver runs battles with injected randomness and tuning.
type Resolver struct {
	rng       random.Source
	maxRounds int
	gap       int
	bonus     float64
	penalty   float64
}

// NewResolver builds a resolver from catalog tuning.
func NewResolver(rng random.Source, tuning catalog.Tuning) *Resolver {
	return &Resolver{
		rng:       rng,
		maxRounds: tuning.MaxRounds,
		gap:       tuning.LevelGapThreshold,
		bonus:     tuning.LevelAdvantageBonus,
		penalty:   tuning.LevelAdvantagePenalty,
	}
}

// Resolve runs a battle with attacker striking first each round.
//
// The damage floor of 1 bounds the round count by the defender's starting
// HP; the round cap is a defensive upper bound that only real battles treat
// as an escape.
func (r *Resolver) Resolve(attacker, defender Fighter, mode Mode) Result {
	result := Result{}
	round := 0
	for attacker.HP > 0 && defender.HP > 0 {
		if mode == Real && round >= r.maxRounds {
			result.Draw = true
			break
		}
		round++

		damage := r.hit(attacker, defender)
		defender.HP -= damage
		result.AttackerDamage += int64(damage)
		result.Log = append(result.Log, Hit{Round: round, Attacker: attacker.Name, Damage: damage, DefenderHP: defender.HP})
		if defender.HP <= 0 {
			result.Winner = attacker.Name
			break
		}

		damage = r.hit(defender, attacker)
		attacker.HP -= damage
		result.Log = append(result.Log, Hit{Round: round, Attacker: defender.Name, Damage: damage, DefenderHP: attacker.HP})
		if attacker.HP <= 0 {
			result.Winner = defender.Name
			break
		}
	}

	result.Rounds = round
	result.AttackerHP = max(attacker.HP, 0)
	result.DefenderHP = max(defender.HP, 0)
	return result
}

// hit computes one strike: max(1, round((atk - def) * U) * levelAdvantage)
// with U uniform in [0.9, 1.1].
func (r *Resolver) hit(from, to Fighter) int {
	variance := 0.9 + 0.2*r.rng.Float64()
	base := math.Round(float64(from.Attack-to.Defense) * variance)
	damage := int(base * r.levelAdvantage(from.Level, to.Level))
	if damage < 1 {
		return 1
	}
	return damage
}

func (r *Resolver) levelAdvantage(from, to int) float64 {
	switch {
	case from-to >= r.gap:
		return r.bonus
	case to-from >= r.gap:
		return r.penalty
	default:
		return 1.0
	}
}
