package actions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tianji-games/ascension/internal/game/combat"
	"github.com/tianji-games/ascension/internal/game/domain"
	"github.com/tianji-games/ascension/internal/game/economy"
	"github.com/tianji-games/ascension/internal/game/storage"
	apperrors "github.com/tianji-games/ascension/internal/platform/errors"
	"github.com/tianji-games/ascension/internal/platform/id"
)

// BossSpawn summons a world boss scaled above the summoning player. Only one
// boss is active at a time and each template respects its respawn cooldown.
func (s *Service) BossSpawn(ctx context.Context, userID string) ([]Message, error) {
	tuning := s.cat.Tuning()
	now := s.now().UTC()

	var messages []Message
	err := s.store.WithTx(ctx, func(tx storage.Store) error {
		player, err := loadPlayer(ctx, tx, userID)
		if err != nil {
			return err
		}

		if active, err := tx.ActiveBoss(ctx); err == nil {
			if !s.expired(active, now) {
				return apperrors.New(apperrors.CodeInvalidState, "a world boss already roams the land")
			}
			if err := s.retireBoss(ctx, tx, active, now); err != nil {
				return err
			}
		} else if !errors.Is(err, storage.ErrNotFound) {
			return err
		}

		templateID, err := s.pickBossTemplate(ctx, tx, now)
		if err != nil {
			return err
		}

		bossLevel := player.Level() + tuning.LevelGapThreshold
		composed, err := s.bestiary.Compose(templateID, s.drawTags(), bossLevel)
		if err != nil {
			return err
		}
		name, err := s.bossTitle(composed.Name, bossLevel)
		if err != nil {
			return err
		}

		bossID, err := id.NewID()
		if err != nil {
			return err
		}
		boss := domain.WorldBoss{
			ID:         bossID,
			TemplateID: templateID,
			Name:       name,
			Level:      bossLevel,
			HP:         composed.HP,
			MaxHP:      composed.MaxHP,
			Attack:     composed.Attack,
			Defense:    composed.Defense,
			SpawnedAt:  now,
		}
		if err := tx.CreateBoss(ctx, boss); err != nil {
			return err
		}
		messages = []Message{
			Message(fmt.Sprintf("The heavens darken: %s (level %d) descends!", boss.Name, boss.Level)),
			Message(fmt.Sprintf("It has %d HP. Rally every cultivator before it leaves in %s.",
				boss.HP, tuning.BossExpiry)),
		}
		return nil
	})
	return messages, err
}

// BossAttack strikes the active boss: the player's damage accumulates toward
// the proportional reward split, and defeat triggers the distribution.
func (s *Service) BossAttack(ctx context.Context, userID string) ([]Message, error) {
	now := s.now().UTC()

	var messages []Message
	err := s.store.WithTx(ctx, func(tx storage.Store) error {
		player, err := loadPlayer(ctx, tx, userID)
		if err != nil {
			return err
		}
		if err := readyToFight(player); err != nil {
			return err
		}

		boss, err := tx.ActiveBoss(ctx)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return apperrors.New(apperrors.CodeInvalidState, "no world boss is active")
			}
			return err
		}
		if s.expired(boss, now) {
			if err := s.retireBoss(ctx, tx, boss, now); err != nil {
				return err
			}
			messages = []Message{Message(fmt.Sprintf("%s has already left this realm.", boss.Name))}
			return nil
		}

		fighter, err := fighterFromPlayer(player, s.cat)
		if err != nil {
			return err
		}
		bossFighter := combat.Fighter{
			Name:    boss.Name,
			Level:   boss.Level,
			HP:      boss.HP,
			Attack:  boss.Attack,
			Defense: boss.Defense,
		}
		result := s.combat.Resolve(fighter, bossFighter, combat.Real)

		player.HP = result.AttackerHP
		if err := tx.SavePlayer(ctx, player); err != nil {
			return err
		}
		remaining, err := tx.ReduceBossHP(ctx, boss.ID, int(result.AttackerDamage))
		if err != nil {
			return err
		}
		if err := tx.RecordBossDamage(ctx, domain.BossParticipant{
			BossID:     boss.ID,
			PlayerID:   player.ID,
			Damage:     result.AttackerDamage,
			FirstHitAt: now,
		}); err != nil {
			return err
		}

		messages = []Message{
			Message(fmt.Sprintf("You dealt %d damage to %s over %d rounds.",
				result.AttackerDamage, boss.Name, result.Rounds)),
		}
		if remaining > 0 {
			messages = append(messages, Message(fmt.Sprintf("%s has %d HP left.", boss.Name, remaining)))
			return nil
		}

		rewardMessages, err := s.distributeBossRewards(ctx, tx, boss, now)
		if err != nil {
			return err
		}
		messages = append(messages, rewardMessages...)
		return nil
	})
	return messages, err
}

// BossStatus reports the active boss and its damage leaderboard.
func (s *Service) BossStatus(ctx context.Context, userID string) ([]Message, error) {
	now := s.now().UTC()

	var messages []Message
	err := s.store.WithTx(ctx, func(tx storage.Store) error {
		boss, err := tx.ActiveBoss(ctx)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				messages = []Message{"No world boss is active."}
				return nil
			}
			return err
		}
		if s.expired(boss, now) {
			if err := s.retireBoss(ctx, tx, boss, now); err != nil {
				return err
			}
			messages = []Message{Message(fmt.Sprintf("%s has left this realm.", boss.Name))}
			return nil
		}

		participants, err := tx.ListBossParticipants(ctx, boss.ID)
		if err != nil {
			return err
		}
		messages = []Message{
			Message(fmt.Sprintf("%s (level %d): %d/%d HP.", boss.Name, boss.Level, boss.HP, boss.MaxHP)),
		}
		for i, p := range participants {
			player, err := tx.GetPlayer(ctx, p.PlayerID)
			if err != nil {
				return err
			}
			messages = append(messages, Message(fmt.Sprintf("%d. %s, %d damage",
				i+1, displayName(player), p.Damage)))
		}
		return nil
	})
	return messages, err
}

// distributeBossRewards splits the reward pool proportionally to damage and
// retires the defeated boss.
func (s *Service) distributeBossRewards(ctx context.Context, tx storage.Store, boss domain.WorldBoss, now time.Time) ([]Message, error) {
	participants, err := tx.ListBossParticipants(ctx, boss.ID)
	if err != nil {
		return nil, err
	}
	pool := s.cat.Tuning().BossRewardPerLevel * int64(boss.Level)
	shares := economy.SplitReward(pool, participants)

	messages := []Message{Message(fmt.Sprintf("%s falls! %d gold is divided among its slayers.", boss.Name, pool))}
	for _, share := range shares {
		if err := tx.AddGold(ctx, share.PlayerID, share.Gold); err != nil {
			return nil, err
		}
		player, err := tx.GetPlayer(ctx, share.PlayerID)
		if err != nil {
			return nil, err
		}
		messages = append(messages, Message(fmt.Sprintf("%s: %d damage, %d gold",
			displayName(player), share.Damage, share.Gold)))
	}

	if err := s.retireBoss(ctx, tx, boss, now); err != nil {
		return nil, err
	}
	return messages, nil
}

// retireBoss removes a defeated or expired boss and starts its template's
// respawn cooldown.
func (s *Service) retireBoss(ctx context.Context, tx storage.Store, boss domain.WorldBoss, now time.Time) error {
	if err := tx.DeleteBoss(ctx, boss.ID); err != nil {
		return err
	}
	return tx.SetBossCooldown(ctx, boss.TemplateID, now.Add(s.cat.Tuning().BossCooldown))
}

// pickBossTemplate draws a boss template whose respawn cooldown has lapsed.
func (s *Service) pickBossTemplate(ctx context.Context, tx storage.Store, now time.Time) (string, error) {
	pool := s.cat.BossTemplateIDs()
	perm := s.rng.Perm(len(pool))
	for _, i := range perm {
		templateID := pool[i]
		until, err := tx.BossCooldown(ctx, templateID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return templateID, nil
			}
			return "", err
		}
		if !until.After(now) {
			return templateID, nil
		}
	}
	return "", apperrors.New(apperrors.CodeInvalidState, "every world boss is still in seclusion")
}

// bossTitle prefixes the composed name with the realm the boss's level maps
// to, so announcements read like a cultivator rank.
func (s *Service) bossTitle(composedName string, level int) (string, error) {
	index := level - 1
	if last := s.cat.RealmCount() - 1; index > last {
		index = last
	}
	tier, err := s.cat.Realm(index)
	if err != nil {
		return "", err
	}
	return tier.Name + " " + composedName, nil
}

func (s *Service) expired(boss domain.WorldBoss, now time.Time) bool {
	return now.Sub(boss.SpawnedAt) > s.cat.Tuning().BossExpiry
}
