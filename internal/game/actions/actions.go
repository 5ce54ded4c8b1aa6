// Package actions implements the game's logical actions: one transaction per
// action, output as an ordered message sequence the transport drains.
//
// Handlers are plain functions composed with explicit middleware; there is no
// dispatch inheritance. Engines are injected at construction together with
// the catalog, clock and random source.
package actions

import (
	"context"
	"fmt"
	"time"

	"github.com/tianji-games/ascension/internal/game/bestiary"
	"github.com/tianji-games/ascension/internal/game/catalog"
	"github.com/tianji-games/ascension/internal/game/combat"
	"github.com/tianji-games/ascension/internal/game/cultivation"
	"github.com/tianji-games/ascension/internal/game/domain"
	"github.com/tianji-games/ascension/internal/game/dungeon"
	"github.com/tianji-games/ascension/internal/game/storage"
	"github.com/tianji-games/ascension/internal/platform/random"
)

// Service executes game actions against the persistence gateway.
type Service struct {
	store storage.Store
	cat   *catalog.Catalog
	rng   random.Source
	now   func() time.Time

	cultivation *cultivation.Engine
	bestiary    *bestiary.Engine
	combat      *combat.Resolver
	dungeon     *dungeon.Generator
}

// New builds the action service. A nil now defaults to time.Now.
func New(store storage.Store, cat *catalog.Catalog, rng random.Source, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{
		store:       store,
		cat:         cat,
		rng:         rng,
		now:         now,
		cultivation: cultivation.New(cat, rng, now),
		bestiary:    bestiary.New(cat),
		combat:      combat.NewResolver(rng, cat.Tuning()),
		dungeon:     dungeon.New(cat, rng),
	}
}

// loadPlayer fetches the acting player inside the current transaction scope.
func loadPlayer(ctx context.Context, store storage.Store, userID string) (domain.Player, error) {
	player, err := store.GetPlayerByUser(ctx, userID)
	if err != nil {
		return domain.Player{}, fmt.Errorf("load player for user %s: %w", userID, err)
	}
	return player, nil
}

// clampHP caps current HP at the derived maximum after equipment changes.
func clampHP(player *domain.Player, cat *catalog.Catalog) error {
	stats, err := player.DerivedStats(cat)
	if err != nil {
		return err
	}
	if player.HP > stats.MaxHP {
		player.HP = stats.MaxHP
	}
	if player.HP < 0 {
		player.HP = 0
	}
	return nil
}

// fighterFromPlayer builds the combat view of a player.
func fighterFromPlayer(player domain.Player, cat *catalog.Catalog) (combat.Fighter, error) {
	stats, err := player.DerivedStats(cat)
	if err != nil {
		return combat.Fighter{}, err
	}
	return combat.Fighter{
		Name:    displayName(player),
		Level:   player.Level(),
		HP:      player.HP,
		Attack:  stats.Attack,
		Defense: stats.Defense,
	}, nil
}

func fighterFromCombatant(c domain.Combatant) combat.Fighter {
	return combat.Fighter{
		Name:    c.Name,
		Level:   c.Level,
		HP:      c.HP,
		Attack:  c.Attack,
		Defense: c.Defense,
	}
}

func displayName(player domain.Player) string {
	if player.DaoName != "" {
		return player.DaoName
	}
	return "Nameless Cultivator"
}
