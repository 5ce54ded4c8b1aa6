// Package bestiary composes monster and boss templates with generation tags
// into concrete, level-scaled combatants.
package bestiary

import (
	"math"
	"strings"

	"github.com/tianji-games/ascension/internal/game/catalog"
	"github.com/tianji-games/ascension/internal/game/domain"
)

// Engine resolves template + tag compositions against the catalog.
type Engine struct {
	cat *catalog.Catalog
}

// New returns a composition engine bound to a catalog.
func New(cat *catalog.Catalog) *Engine {
	return &Engine{cat: cat}
}

// Compose builds a combatant from a template, an ordered tag list and a
// target level.
//
// Tag multipliers are combined into a single product per stat and rounded
// once, so the result does not depend on tag order. Level scaling applies
// after tags and never lowers a stat below the template base.
func (e *Engine) Compose(templateID string, tagIDs []string, targetLevel int) (domain.Combatant, error) {
	tmpl, err := e.cat.Template(templateID)
	if err != nil {
		return domain.Combatant{}, err
	}

	hpMul, atkMul, defMul := 1.0, 1.0, 1.0
	affixes := make([]string, 0, len(tagIDs))
	loot := make([]domain.LootDrop, 0, len(tmpl.Loot))
	for _, entry := range tmpl.Loot {
		loot = append(loot, domain.LootDrop{ItemID: entry.ItemID, Chance: entry.Chance, Gold: entry.Gold})
	}
	for _, tagID := range tagIDs {
		tag, err := e.cat.Tag(tagID)
		if err != nil {
			return domain.Combatant{}, err
		}
		hpMul *= tag.HPMul
		atkMul *= tag.AttackMul
		defMul *= tag.DefenseMul
		affixes = append(affixes, tag.Affix)
		for _, entry := range tag.Loot {
			loot = append(loot, domain.LootDrop{ItemID: entry.ItemID, Chance: entry.Chance, Gold: entry.Gold})
		}
	}

	scale := levelScale(targetLevel, tmpl.Level, e.cat.Tuning().GrowthPerLevel)

	combatant := domain.Combatant{
		TemplateID: tmpl.ID,
		Name:       composeName(tmpl.Name, affixes),
		Level:      targetLevel,
		HP:         scaleStat(tmpl.HP, hpMul, scale),
		Attack:     scaleStat(tmpl.Attack, atkMul, scale),
		Defense:    scaleStat(tmpl.Defense, defMul, scale),
		Loot:       loot,
	}
	combatant.MaxHP = combatant.HP
	return combatant, nil
}

// scaleStat applies the combined tag multiplier and the level scale to a base
// stat, rounding once and flooring at the base value.
func scaleStat(base int, tagMul, levelScale float64) int {
	value := int(math.Round(float64(base) * tagMul * levelScale))
	if value < base {
		return base
	}
	return value
}

func levelScale(target, reference int, growthPerLevel float64) float64 {
	scale := 1 + growthPerLevel*float64(target-reference)
	if scale < 1 {
		return 1
	}
	return scale
}

func composeName(base string, affixes []string) string {
	if len(affixes) == 0 {
		return base
	}
	return strings.Join(affixes, " ") + " " + base
}
