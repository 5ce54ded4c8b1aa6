package actions

import (
	"context"
	"errors"
	"fmt"

	"github.com/tianji-games/ascension/internal/game/combat"
	"github.com/tianji-games/ascension/internal/game/domain"
	"github.com/tianji-games/ascension/internal/game/storage"
	apperrors "github.com/tianji-games/ascension/internal/platform/errors"
)

// Hunt fights the acting player against a freshly composed wild monster.
// Damage taken persists; victory yields experience plus loot rolls.
func (s *Service) Hunt(ctx context.Context, userID string) ([]Message, error) {
	templates := s.cat.TemplateIDs()
	templateID := templates[s.rng.IntN(len(templates))]
	tagIDs := s.drawTags()

	var messages []Message
	err := s.store.WithTx(ctx, func(tx storage.Store) error {
		player, err := loadPlayer(ctx, tx, userID)
		if err != nil {
			return err
		}
		if err := readyToFight(player); err != nil {
			return err
		}

		monster, err := s.bestiary.Compose(templateID, tagIDs, player.Level())
		if err != nil {
			return err
		}
		fighter, err := fighterFromPlayer(player, s.cat)
		if err != nil {
			return err
		}

		result := s.combat.Resolve(fighter, fighterFromCombatant(monster), combat.Real)
		player.HP = result.AttackerHP
		messages = []Message{
			Message(fmt.Sprintf("A wild %s (level %d) appears!", monster.Name, monster.Level)),
			Message(fmt.Sprintf("The battle lasts %d rounds.", result.Rounds)),
		}

		switch {
		case result.Draw:
			messages = append(messages, Message(fmt.Sprintf("The %s escapes. HP %d left.", monster.Name, player.HP)))
		case result.Winner == fighter.Name:
			exp := s.cat.Tuning().BaseExpPerMinute * int64(monster.Level)
			player.Exp += exp
			messages = append(messages, Message(fmt.Sprintf("You slay the %s. Experience +%d.", monster.Name, exp)))

			gold, drops, err := s.rollLoot(ctx, tx, player.ID, monster.Loot)
			if err != nil {
				return err
			}
			player.Gold += gold
			if gold > 0 {
				messages = append(messages, Message(fmt.Sprintf("Gold +%d.", gold)))
			}
			for _, drop := range drops {
				messages = append(messages, Message(fmt.Sprintf("Loot: %s.", drop)))
			}
		default:
			messages = append(messages, Message(fmt.Sprintf("The %s defeats you. Retreat and recover.", monster.Name)))
		}

		return tx.SavePlayer(ctx, player)
	})
	return messages, err
}

// Spar runs a simulated battle between two players. Nothing persists.
func (s *Service) Spar(ctx context.Context, userID, opponentUserID string) ([]Message, error) {
	if opponentUserID == "" || opponentUserID == userID {
		return nil, apperrors.New(apperrors.CodeInvalidState, "name another cultivator to spar with")
	}

	player, err := loadPlayer(ctx, s.store, userID)
	if err != nil {
		return nil, err
	}
	opponent, err := s.store.GetPlayerByUser(ctx, opponentUserID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, apperrors.New(apperrors.CodeInvalidState, "that cultivator has not begun the path")
		}
		return nil, err
	}

	left, err := fighterFromPlayer(player, s.cat)
	if err != nil {
		return nil, err
	}
	right, err := fighterFromPlayer(opponent, s.cat)
	if err != nil {
		return nil, err
	}
	// Sparring is fought at full derived HP on both sides.
	leftStats, err := player.DerivedStats(s.cat)
	if err != nil {
		return nil, err
	}
	rightStats, err := opponent.DerivedStats(s.cat)
	if err != nil {
		return nil, err
	}
	left.HP = leftStats.MaxHP
	right.HP = rightStats.MaxHP

	result := s.combat.Resolve(left, right, combat.Simulated)
	messages := []Message{
		Message(fmt.Sprintf("%s and %s cross hands in a friendly bout.", left.Name, right.Name)),
		Message(fmt.Sprintf("After %d rounds, %s prevails.", result.Rounds, result.Winner)),
	}
	return messages, nil
}

// rollLoot draws each loot entry independently, crediting items immediately
// and returning the gold total plus dropped item names.
func (s *Service) rollLoot(ctx context.Context, tx storage.Store, playerID string, loot []domain.LootDrop) (int64, []string, error) {
	var gold int64
	var drops []string
	for _, entry := range loot {
		if s.rng.Float64() >= entry.Chance {
			continue
		}
		gold += entry.Gold
		if entry.ItemID == "" {
			continue
		}
		item, err := s.cat.Item(entry.ItemID)
		if err != nil {
			return 0, nil, err
		}
		if err := tx.AddItem(ctx, playerID, entry.ItemID, 1); err != nil {
			return 0, nil, err
		}
		drops = append(drops, item.Name)
	}
	return gold, drops, nil
}

// drawTags picks zero to two distinct generation tags.
func (s *Service) drawTags() []string {
	tags := s.cat.TagIDs()
	count := s.rng.IntN(3)
	if count == 0 || len(tags) == 0 {
		return nil
	}
	if count > len(tags) {
		count = len(tags)
	}
	perm := s.rng.Perm(len(tags))
	drawn := make([]string, 0, count)
	for _, i := range perm[:count] {
		drawn = append(drawn, tags[i])
	}
	return drawn
}

func readyToFight(player domain.Player) error {
	if player.Meditating() {
		return apperrors.New(apperrors.CodeInvalidState, "you cannot fight while meditating")
	}
	if player.HP <= 0 {
		return apperrors.New(apperrors.CodeInvalidState, "you are too wounded to fight")
	}
	return nil
}
