package actions

import (
	"context"
	"fmt"

	"github.com/tianji-games/ascension/internal/game/storage"
)

// MeditateBegin moves the acting player into seated meditation.
func (s *Service) MeditateBegin(ctx context.Context, userID string) ([]Message, error) {
	var messages []Message
	err := s.store.WithTx(ctx, func(tx storage.Store) error {
		player, err := loadPlayer(ctx, tx, userID)
		if err != nil {
			return err
		}
		if err := s.cultivation.BeginMeditation(&player); err != nil {
			return err
		}
		if err := tx.SavePlayer(ctx, player); err != nil {
			return err
		}
		messages = []Message{"You sit in meditation, drawing in the surrounding qi."}
		return nil
	})
	return messages, err
}

// MeditateEnd closes the active session and credits its yield.
func (s *Service) MeditateEnd(ctx context.Context, userID string) ([]Message, error) {
	var messages []Message
	err := s.store.WithTx(ctx, func(tx storage.Store) error {
		player, err := loadPlayer(ctx, tx, userID)
		if err != nil {
			return err
		}
		result, err := s.cultivation.EndMeditation(&player)
		if err != nil {
			return err
		}
		if err := tx.SavePlayer(ctx, player); err != nil {
			return err
		}
		messages = []Message{
			Message(fmt.Sprintf("You rise after %d minutes of meditation.", result.Minutes)),
			Message(fmt.Sprintf("Experience +%d.", result.ExpGained)),
		}
		if result.HPRestored > 0 {
			messages = append(messages, Message(fmt.Sprintf("HP restored by %d, now %d.",
				result.HPRestored, player.HP)))
		}
		return nil
	})
	return messages, err
}

// Breakthrough attempts advancement to the next realm.
func (s *Service) Breakthrough(ctx context.Context, userID string) ([]Message, error) {
	var messages []Message
	err := s.store.WithTx(ctx, func(tx storage.Store) error {
		player, err := loadPlayer(ctx, tx, userID)
		if err != nil {
			return err
		}
		result, err := s.cultivation.Breakthrough(&player)
		if err != nil {
			return err
		}
		if err := tx.SavePlayer(ctx, player); err != nil {
			return err
		}
		if result.Success {
			messages = []Message{
				Message(fmt.Sprintf("Thunder rolls as you break through to %s!", result.ToRealm)),
				Message(fmt.Sprintf("%d experience consumed, %d gold bestowed.",
					result.ExpSpent, result.GoldReward)),
			}
			return nil
		}
		messages = []Message{
			Message(fmt.Sprintf("The breakthrough from %s fails; your foundation trembles.", result.FromRealm)),
			Message(fmt.Sprintf("%d experience scattered. Chance was %.0f%%.",
				result.ExpSpent, result.Chance*100)),
		}
		return nil
	})
	return messages, err
}
