package actions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tianji-games/ascension/internal/game/domain"
	"github.com/tianji-games/ascension/internal/game/storage"
	apperrors "github.com/tianji-games/ascension/internal/platform/errors"
	"github.com/tianji-games/ascension/internal/platform/id"
)

// Begin creates the acting user's player with a randomly drawn spiritual
// root and realm-base stats.
func (s *Service) Begin(ctx context.Context, userID, daoName string) ([]Message, error) {
	if daoName != "" {
		if err := domain.ValidateDaoName(daoName); err != nil {
			return nil, err
		}
	}

	roots := s.cat.Roots()
	root := roots[s.rng.IntN(len(roots))]

	var messages []Message
	err := s.store.WithTx(ctx, func(tx storage.Store) error {
		if _, err := tx.GetPlayerByUser(ctx, userID); err == nil {
			return apperrors.New(apperrors.CodeInvalidState, "you have already begun cultivating")
		} else if !errors.Is(err, storage.ErrNotFound) {
			return err
		}

		playerID, err := id.NewID()
		if err != nil {
			return err
		}
		player := domain.Player{
			ID:              playerID,
			UserID:          userID,
			DaoName:         daoName,
			SpiritualRootID: root.ID,
		}
		stats, err := player.DerivedStats(s.cat)
		if err != nil {
			return err
		}
		player.HP = stats.MaxHP
		if err := tx.CreatePlayer(ctx, player); err != nil {
			return err
		}

		tier, err := s.cat.Realm(player.RealmIndex)
		if err != nil {
			return err
		}
		messages = []Message{
			Message(fmt.Sprintf("%s steps onto the path of cultivation.", displayName(player))),
			Message(fmt.Sprintf("The heavens grant the %s.", root.Name)),
			Message(fmt.Sprintf("Realm: %s. HP %d, Attack %d, Defense %d.",
				tier.Name, stats.MaxHP, stats.Attack, stats.Defense)),
		}
		return nil
	})
	return messages, err
}

// Profile reports the acting player's realm, resources and derived stats.
func (s *Service) Profile(ctx context.Context, userID string) ([]Message, error) {
	player, err := loadPlayer(ctx, s.store, userID)
	if err != nil {
		return nil, err
	}
	tier, err := s.cat.Realm(player.RealmIndex)
	if err != nil {
		return nil, err
	}
	root, err := s.cat.Root(player.SpiritualRootID)
	if err != nil {
		return nil, err
	}
	stats, err := player.DerivedStats(s.cat)
	if err != nil {
		return nil, err
	}

	messages := []Message{
		Message(fmt.Sprintf("%s, %s of the %s.", displayName(player), tier.Name, root.Name)),
		Message(fmt.Sprintf("Experience %d/%d. Gold %d.", player.Exp, tier.RequiredExp, player.Gold)),
		Message(fmt.Sprintf("HP %d/%d, Attack %d, Defense %d.", player.HP, stats.MaxHP, stats.Attack, stats.Defense)),
	}
	if player.Meditating() {
		messages = append(messages, "Currently in seated meditation.")
	}
	return messages, nil
}

// Rename claims a new dao name for the acting player.
func (s *Service) Rename(ctx context.Context, userID, daoName string) ([]Message, error) {
	if err := domain.ValidateDaoName(daoName); err != nil {
		return nil, err
	}

	var messages []Message
	err := s.store.WithTx(ctx, func(tx storage.Store) error {
		player, err := loadPlayer(ctx, tx, userID)
		if err != nil {
			return err
		}
		player.DaoName = daoName
		if err := tx.SavePlayer(ctx, player); err != nil {
			return err
		}
		messages = []Message{Message(fmt.Sprintf("Henceforth you shall be known as %s.", daoName))}
		return nil
	})
	return messages, err
}

// CheckIn grants the daily stipend once per UTC calendar day.
func (s *Service) CheckIn(ctx context.Context, userID string) ([]Message, error) {
	tuning := s.cat.Tuning()
	now := s.now().UTC()

	var messages []Message
	err := s.store.WithTx(ctx, func(tx storage.Store) error {
		player, err := loadPlayer(ctx, tx, userID)
		if err != nil {
			return err
		}
		if sameDay(player.LastCheckIn, now) {
			return apperrors.New(apperrors.CodeInvalidState, "you have already checked in today")
		}
		player.LastCheckIn = now
		player.Gold += tuning.CheckInGold
		player.Exp += tuning.CheckInExp
		if err := tx.SavePlayer(ctx, player); err != nil {
			return err
		}
		messages = []Message{
			Message(fmt.Sprintf("Daily check-in complete: %d gold, %d experience.",
				tuning.CheckInGold, tuning.CheckInExp)),
		}
		return nil
	})
	return messages, err
}

// RerollRoot redraws the acting player's spiritual root for a gold cost.
func (s *Service) RerollRoot(ctx context.Context, userID string) ([]Message, error) {
	cost := s.cat.Tuning().RerollRootCost
	roots := s.cat.Roots()

	var messages []Message
	err := s.store.WithTx(ctx, func(tx storage.Store) error {
		player, err := loadPlayer(ctx, tx, userID)
		if err != nil {
			return err
		}
		previous, err := s.cat.Root(player.SpiritualRootID)
		if err != nil {
			return err
		}
		if err := tx.SpendGold(ctx, player.ID, cost); err != nil {
			return err
		}

		next := roots[s.rng.IntN(len(roots))]
		player.Gold -= cost
		player.SpiritualRootID = next.ID
		if err := tx.SavePlayer(ctx, player); err != nil {
			return err
		}
		messages = []Message{
			Message(fmt.Sprintf("You paid %d gold to reshape your foundation.", cost)),
			Message(fmt.Sprintf("Spiritual root changed: %s to %s.", previous.Name, next.Name)),
		}
		return nil
	})
	return messages, err
}

// Rankings lists the top cultivators by experience and by gold.
func (s *Service) Rankings(ctx context.Context) ([]Message, error) {
	const limit = 10

	byExp, err := s.store.TopPlayersByExp(ctx, limit)
	if err != nil {
		return nil, err
	}
	byGold, err := s.store.TopPlayersByGold(ctx, limit)
	if err != nil {
		return nil, err
	}

	messages := []Message{"Cultivation ranking:"}
	for i, player := range byExp {
		tier, err := s.cat.Realm(player.RealmIndex)
		if err != nil {
			return nil, err
		}
		messages = append(messages, Message(fmt.Sprintf("%d. %s, %s, %d experience",
			i+1, displayName(player), tier.Name, player.Exp)))
	}
	messages = append(messages, "Wealth ranking:")
	for i, player := range byGold {
		messages = append(messages, Message(fmt.Sprintf("%d. %s, %d gold",
			i+1, displayName(player), player.Gold)))
	}
	return messages, nil
}

func sameDay(a, b time.Time) bool {
	if a.IsZero() || b.IsZero() {
		return false
	}
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}
