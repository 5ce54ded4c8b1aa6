package actions

import (
	"context"
	"fmt"

	"github.com/tianji-games/ascension/internal/game/combat"
	"github.com/tianji-games/ascension/internal/game/dungeon"
	"github.com/tianji-games/ascension/internal/game/storage"
)

// ExploreDungeon generates a secret-realm run and resolves every floor in
// order. The run ends early if the player falls; all rewards and damage
// persist in one transaction.
func (s *Service) ExploreDungeon(ctx context.Context, userID string) ([]Message, error) {
	tuning := s.cat.Tuning()

	var messages []Message
	err := s.store.WithTx(ctx, func(tx storage.Store) error {
		player, err := loadPlayer(ctx, tx, userID)
		if err != nil {
			return err
		}
		if err := readyToFight(player); err != nil {
			return err
		}

		run, err := s.dungeon.Generate(player)
		if err != nil {
			return err
		}
		messages = []Message{Message(fmt.Sprintf("You step into a secret realm of %d floors.", len(run.Floors)))}

		cleared := true
		for _, floor := range run.Floors {
			if floor.Kind == dungeon.FloorTreasure {
				gold := tuning.TreasureGoldPerLevel * int64(player.Level())
				player.Gold += gold
				messages = append(messages, Message(fmt.Sprintf(
					"Floor %d: a treasure chamber yields %d gold.", floor.Number, gold)))
				continue
			}

			monster, err := s.bestiary.Compose(floor.TemplateID, floor.TagIDs, floor.Level)
			if err != nil {
				return err
			}
			fighter, err := fighterFromPlayer(player, s.cat)
			if err != nil {
				return err
			}
			result := s.combat.Resolve(fighter, fighterFromCombatant(monster), combat.Real)
			player.HP = result.AttackerHP

			if result.Winner != fighter.Name {
				if result.Draw {
					messages = append(messages, Message(fmt.Sprintf(
						"Floor %d: the %s holds its ground; you withdraw from the realm.", floor.Number, monster.Name)))
				} else {
					messages = append(messages, Message(fmt.Sprintf(
						"Floor %d: the %s strikes you down; you crawl out of the realm.", floor.Number, monster.Name)))
				}
				cleared = false
				break
			}

			exp := tuning.BaseExpPerMinute * int64(monster.Level)
			player.Exp += exp
			messages = append(messages, Message(fmt.Sprintf(
				"Floor %d: you defeat the %s. Experience +%d.", floor.Number, monster.Name, exp)))

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
		}

		if cleared {
			messages = append(messages, Message(fmt.Sprintf(
				"You clear the secret realm with %d HP to spare.", player.HP)))
		}
		return tx.SavePlayer(ctx, player)
	})
	return messages, err
}
