// Package cultivation converts elapsed real time into experience and HP
// state transitions, and resolves breakthrough attempts between realm tiers.
package cultivation

import (
	"fmt"
	"time"

	"github.com/tianji-games/ascension/internal/game/catalog"
	"github.com/tianji-games/ascension/internal/game/domain"
	apperrors "github.com/tianji-games/ascension/internal/platform/errors"
	"github.com/tianji-games/ascension/internal/platform/random"
)

// Engine mutates player cultivation state. The caller persists the player
// after a successful call.
type Engine struct {
	cat *catalog.Catalog
	rng random.Source
	now func() time.Time
}

// New returns a cultivation engine with injected randomness and clock.
func New(cat *catalog.Catalog, rng random.Source, now func() time.Time) *Engine {
	if now == nil {
		now = time.Now
	}
	return &Engine{cat: cat, rng: rng, now: now}
}

// MeditationResult reports what one finished session yielded.
type MeditationResult struct {
	Minutes    int64
	ExpGained  int64
	HPRestored int
}

// BreakthroughResult reports one resolved breakthrough attempt.
type BreakthroughResult struct {
	Success    bool
	Chance     float64
	FromRealm  string
	ToRealm    string // set on success
	ExpSpent   int64  // on success, the tier requirement; on failure, the burn
	GoldReward int64  // paid on success
}

// BeginMeditation moves an idle player into meditation.
func (e *Engine) BeginMeditation(p *domain.Player) error {
	if p.Meditating() {
		return apperrors.New(apperrors.CodeInvalidState, "already meditating")
	}
	p.Meditation = domain.MeditationActive
	p.MeditationStart = e.now().UTC()
	return nil
}

// EndMeditation closes an active session, crediting experience scaled by the
// player's spiritual root and restoring HP proportional to the gain.
func (e *Engine) EndMeditation(p *domain.Player) (MeditationResult, error) {
	if !p.Meditating() {
		return MeditationResult{}, apperrors.New(apperrors.CodeInvalidState, "not meditating")
	}
	root, err := e.cat.Root(p.SpiritualRootID)
	if err != nil {
		return MeditationResult{}, err
	}
	tuning := e.cat.Tuning()

	minutes := int64(e.now().Sub(p.MeditationStart) / time.Minute)
	if minutes < 0 {
		minutes = 0
	}
	if minutes > tuning.MaxMeditationMinutes {
		minutes = tuning.MaxMeditationMinutes
	}

	gained := int64(float64(tuning.BaseExpPerMinute*minutes) * root.Multiplier)
	restored := 0
	if tuning.ExpPerHPRestored > 0 {
		restored = int(gained / tuning.ExpPerHPRestored)
	}

	stats, err := p.DerivedStats(e.cat)
	if err != nil {
		return MeditationResult{}, err
	}
	p.HP += restored
	if p.HP > stats.MaxHP {
		restored -= p.HP - stats.MaxHP
		p.HP = stats.MaxHP
	}
	if restored < 0 {
		restored = 0
	}

	p.Exp += gained
	p.Meditation = domain.MeditationInactive
	p.MeditationStart = time.Time{}
	return MeditationResult{Minutes: minutes, ExpGained: gained, HPRestored: restored}, nil
}

// Breakthrough resolves one advancement attempt.
//
// The experience gate is checked before any random draw. Success subtracts
// the tier requirement and keeps the remainder; failure burns a fraction of
// the requirement. The transient bonus is consumed on both outcomes.
func (e *Engine) Breakthrough(p *domain.Player) (BreakthroughResult, error) {
	tier, err := e.cat.Realm(p.RealmIndex)
	if err != nil {
		return BreakthroughResult{}, err
	}
	if p.RealmIndex+1 >= e.cat.RealmCount() {
		return BreakthroughResult{}, apperrors.New(apperrors.CodeInvalidState, "already at the final realm")
	}
	if p.Exp < tier.RequiredExp {
		return BreakthroughResult{}, apperrors.WithMetadata(apperrors.CodeInsufficientExperience,
			"not enough experience for breakthrough", map[string]string{
				"required": fmt.Sprint(tier.RequiredExp),
				"current":  fmt.Sprint(p.Exp),
			})
	}

	chance := tier.BreakthroughRate + p.BreakthroughBonus
	if chance < 0 {
		chance = 0
	}
	if chance > 1 {
		chance = 1
	}
	p.BreakthroughBonus = 0

	result := BreakthroughResult{Chance: chance, FromRealm: tier.Name}
	if e.rng.Float64() < chance {
		next, err := e.cat.Realm(p.RealmIndex + 1)
		if err != nil {
			return BreakthroughResult{}, err
		}
		p.RealmIndex++
		p.Exp -= tier.RequiredExp
		p.Gold += tier.GoldReward
		stats, err := p.DerivedStats(e.cat)
		if err != nil {
			return BreakthroughResult{}, err
		}
		p.HP = stats.MaxHP
		result.Success = true
		result.ToRealm = next.Name
		result.ExpSpent = tier.RequiredExp
		result.GoldReward = tier.GoldReward
		return result, nil
	}

	burn := int64(float64(tier.RequiredExp) * e.cat.Tuning().BreakthroughFailBurn)
	p.Exp -= burn
	if p.Exp < 0 {
		p.Exp = 0
	}
	result.ExpSpent = burn
	return result, nil
}
