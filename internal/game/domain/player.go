// Package domain defines the game entity model: players, combatants, world
// bosses and bank deposits, plus derived-stat computation.
package domain

import (
	"time"
	"unicode/utf8"

	"github.com/tianji-games/ascension/internal/game/catalog"
	apperrors "github.com/tianji-games/ascension/internal/platform/errors"
)

// MeditationState reports whether a player is currently meditating.
type MeditationState int

const (
	MeditationInactive MeditationState = iota
	MeditationActive
)

// Player is the durable per-user record.
type Player struct {
	ID      string
	UserID  string
	DaoName string

	RealmIndex int
	Exp        int64
	Gold       int64

	HP int // current HP, capped at derived max

	SpiritualRootID string

	WeaponID string
	ArmorID  string

	Meditation        MeditationState
	MeditationStart   time.Time
	BreakthroughBonus float64

	LastCheckIn time.Time // zero until the first daily check-in

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Stats are the derived combat stats of a player at a moment in time.
type Stats struct {
	MaxHP       int
	Attack      int
	Defense     int
	SpiritPower int
	MentalPower int
}

// Meditating reports whether the player is in an active meditation session.
func (p Player) Meditating() bool {
	return p.Meditation == MeditationActive
}

// Level is the player's effective combat level, derived from the realm index.
func (p Player) Level() int {
	return p.RealmIndex + 1
}

// DerivedStats computes the player's stats from the realm tier plus any
// equipped item bonuses.
func (p Player) DerivedStats(cat *catalog.Catalog) (Stats, error) {
	tier, err := cat.Realm(p.RealmIndex)
	if err != nil {
		return Stats{}, err
	}
	stats := Stats{
		MaxHP:       tier.BaseHP,
		Attack:      tier.BaseAttack,
		Defense:     tier.BaseDefense,
		SpiritPower: tier.SpiritPower,
		MentalPower: tier.MentalPower,
	}
	for _, itemID := range []string{p.WeaponID, p.ArmorID} {
		if itemID == "" {
			continue
		}
		item, err := cat.Item(itemID)
		if err != nil {
			return Stats{}, err
		}
		if item.Equip == nil {
			continue
		}
		stats.MaxHP += item.Equip.HP
		stats.Attack += item.Equip.Attack
		stats.Defense += item.Equip.Defense
	}
	return stats, nil
}

// ValidateDaoName checks the display-name length rule. Uniqueness is
// enforced by storage.
func ValidateDaoName(name string) error {
	length := utf8.RuneCountInString(name)
	if length < 2 || length > 20 {
		return apperrors.WithMetadata(apperrors.CodePlayerNameInvalid,
			"dao name must be 2 to 20 characters", map[string]string{"name": name})
	}
	return nil
}

// ItemStack is one inventory row: a player's quantity of one item.
type ItemStack struct {
	PlayerID string
	ItemID   string
	Quantity int
}
