// Package dungeon procedurally builds secret-realm runs: an ordered floor
// plan of monster, treasure and boss encounters scaled to a player.
//
// The generator only plans floors. The action layer resolves each encounter
// with the combat resolver or a treasure draw.
package dungeon

import (
	"math"

	"github.com/tianji-games/ascension/internal/game/catalog"
	"github.com/tianji-games/ascension/internal/game/domain"
	"github.com/tianji-games/ascension/internal/platform/random"
)

// FloorKind is the encounter type of one floor.
type FloorKind int

const (
	FloorMonster FloorKind = iota
	FloorTreasure
	FloorBoss
)

// Floor is one planned encounter.
type Floor struct {
	Number int
	Kind   FloorKind

	// TemplateID and TagIDs are set on monster and boss floors.
	TemplateID string
	TagIDs     []string
	Level      int
}

// Run is one generated dungeon: a finite floor sequence. Each run is
// independently generated and never resumed across invocations.
type Run struct {
	Floors []Floor
}

// Generator plans dungeon runs from the catalog profile.
type Generator struct {
	cat *catalog.Catalog
	rng random.Source
}

// New returns a generator with injected randomness.
func New(cat *catalog.Catalog, rng random.Source) *Generator {
	return &Generator{cat: cat, rng: rng}
}

// Generate plans a run for the player. Total floors grow with the player's
// realm, every non-final floor is a monster or treasure draw, and the final
// floor is always a boss composed at a fraction of the player level.
func (g *Generator) Generate(player domain.Player) (Run, error) {
	profile := g.cat.Dungeon()
	total := profile.BaseFloors + player.RealmIndex/2

	templates := g.cat.TemplateIDs()
	bosses := g.cat.BossTemplateIDs()
	tags := g.cat.TagIDs()

	run := Run{Floors: make([]Floor, 0, total)}
	for number := 1; number < total; number++ {
		floor := Floor{Number: number, Kind: FloorTreasure}
		if g.rng.Float64() < profile.MonsterChance {
			floor.Kind = FloorMonster
			floor.TemplateID = templates[g.rng.IntN(len(templates))]
			floor.TagIDs = g.drawTags(tags)
			floor.Level = player.Level()
		}
		run.Floors = append(run.Floors, floor)
	}

	bossLevel := int(math.Round(profile.BossStrength * float64(player.Level())))
	if bossLevel < 1 {
		bossLevel = 1
	}
	run.Floors = append(run.Floors, Floor{
		Number:     total,
		Kind:       FloorBoss,
		TemplateID: bosses[g.rng.IntN(len(bosses))],
		TagIDs:     g.drawTags(tags),
		Level:      bossLevel,
	})
	return run, nil
}

// drawTags picks zero to two distinct tags.
func (g *Generator) drawTags(tags []string) []string {
	count := g.rng.IntN(3)
	if count == 0 || len(tags) == 0 {
		return nil
	}
	if count > len(tags) {
		count = len(tags)
	}
	perm := g.rng.Perm(len(tags))
	drawn := make([]string, 0, count)
	for _, i := range perm[:count] {
		drawn = append(drawn, tags[i])
	}
	return drawn
}
