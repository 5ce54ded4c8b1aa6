package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tianji-games/ascension/internal/game/domain"
	"github.com/tianji-games/ascension/internal/game/storage"
)

// CreateBoss inserts a world boss record.
func (s *Store) CreateBoss(ctx context.Context, boss domain.WorldBoss) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(boss.ID) == "" {
		return fmt.Errorf("boss id is required")
	}
	if strings.TrimSpace(boss.TemplateID) == "" {
		return fmt.Errorf("template id is required")
	}

	_, err := s.q.ExecContext(
		ctx,
		`INSERT INTO world_bosses (id, template_id, name, level, hp, max_hp, attack, defense, spawned_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		boss.ID,
		boss.TemplateID,
		boss.Name,
		boss.Level,
		boss.HP,
		boss.MaxHP,
		boss.Attack,
		boss.Defense,
		toMillis(boss.SpawnedAt),
	)
	if err != nil {
		return wrapConflict("create boss", err)
	}
	return nil
}

// ActiveBoss returns the live boss, or NOT_FOUND when none is up.
func (s *Store) ActiveBoss(ctx context.Context) (domain.WorldBoss, error) {
	if err := ctx.Err(); err != nil {
		return domain.WorldBoss{}, err
	}

	row := s.q.QueryRowContext(
		ctx,
		`SELECT id, template_id, name, level, hp, max_hp, attack, defense, spawned_at
		   FROM world_bosses WHERE hp > 0 ORDER BY spawned_at DESC LIMIT 1`,
	)
	boss, err := scanBoss(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.WorldBoss{}, storage.ErrNotFound
		}
		return domain.WorldBoss{}, fmt.Errorf("active boss: %w", err)
	}
	return boss, nil
}

// ReduceBossHP atomically subtracts damage and reports the HP left.
func (s *Store) ReduceBossHP(ctx context.Context, bossID string, damage int) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if damage < 0 {
		return 0, fmt.Errorf("damage must not be negative")
	}

	result, err := s.q.ExecContext(
		ctx,
		`UPDATE world_bosses SET hp = MAX(0, hp - ?) WHERE id = ?`,
		damage,
		bossID,
	)
	if err != nil {
		return 0, wrapConflict("reduce boss hp", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("reduce boss hp: %w", err)
	}
	if affected == 0 {
		return 0, storage.ErrNotFound
	}

	var remaining int
	row := s.q.QueryRowContext(ctx, `SELECT hp FROM world_bosses WHERE id = ?`, bossID)
	if err := row.Scan(&remaining); err != nil {
		return 0, fmt.Errorf("reduce boss hp: %w", err)
	}
	return remaining, nil
}

// RecordBossDamage accumulates a participant's damage, keeping the earliest
// first-hit time for reward tie-breaking.
func (s *Store) RecordBossDamage(ctx context.Context, participant domain.BossParticipant) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(participant.BossID) == "" {
		return fmt.Errorf("boss id is required")
	}
	if strings.TrimSpace(participant.PlayerID) == "" {
		return fmt.Errorf("player id is required")
	}

	_, err := s.q.ExecContext(
		ctx,
		`INSERT INTO boss_participants (boss_id, player_id, damage, first_hit_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT (boss_id, player_id) DO UPDATE SET
		   damage = damage + excluded.damage,
		   first_hit_at = MIN(first_hit_at, excluded.first_hit_at)`,
		participant.BossID,
		participant.PlayerID,
		participant.Damage,
		toMillis(participant.FirstHitAt),
	)
	if err != nil {
		return wrapConflict("record boss damage", err)
	}
	return nil
}

// ListBossParticipants returns a boss's damage records ordered by damage
// descending, earliest first hit breaking ties.
func (s *Store) ListBossParticipants(ctx context.Context, bossID string) ([]domain.BossParticipant, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rows, err := s.q.QueryContext(
		ctx,
		`SELECT boss_id, player_id, damage, first_hit_at FROM boss_participants
		  WHERE boss_id = ? ORDER BY damage DESC, first_hit_at ASC, player_id ASC`,
		bossID,
	)
	if err != nil {
		return nil, fmt.Errorf("list boss participants: %w", err)
	}
	defer rows.Close()

	var participants []domain.BossParticipant
	for rows.Next() {
		var p domain.BossParticipant
		var firstHit int64
		if err := rows.Scan(&p.BossID, &p.PlayerID, &p.Damage, &firstHit); err != nil {
			return nil, fmt.Errorf("list boss participants: %w", err)
		}
		p.FirstHitAt = fromMillis(firstHit)
		participants = append(participants, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list boss participants: %w", err)
	}
	return participants, nil
}

// DeleteBoss removes a boss and, via cascade, its participant records.
func (s *Store) DeleteBoss(ctx context.Context, bossID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	result, err := s.q.ExecContext(ctx, `DELETE FROM world_bosses WHERE id = ?`, bossID)
	if err != nil {
		return wrapConflict("delete boss", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete boss: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// SetBossCooldown records when a boss template may spawn again.
func (s *Store) SetBossCooldown(ctx context.Context, templateID string, until time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(templateID) == "" {
		return fmt.Errorf("template id is required")
	}

	_, err := s.q.ExecContext(
		ctx,
		`INSERT INTO boss_cooldowns (template_id, until_at) VALUES (?, ?)
		 ON CONFLICT (template_id) DO UPDATE SET until_at = excluded.until_at`,
		templateID,
		toMillis(until),
	)
	if err != nil {
		return wrapConflict("set boss cooldown", err)
	}
	return nil
}

// BossCooldown returns a template's respawn time, or NOT_FOUND when none is
// recorded.
func (s *Store) BossCooldown(ctx context.Context, templateID string) (time.Time, error) {
	if err := ctx.Err(); err != nil {
		return time.Time{}, err
	}

	var until int64
	row := s.q.QueryRowContext(ctx, `SELECT until_at FROM boss_cooldowns WHERE template_id = ?`, templateID)
	if err := row.Scan(&until); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return time.Time{}, storage.ErrNotFound
		}
		return time.Time{}, fmt.Errorf("boss cooldown: %w", err)
	}
	return fromMillis(until), nil
}

func scanBoss(row rowScanner) (domain.WorldBoss, error) {
	var boss domain.WorldBoss
	var spawnedAt int64
	err := row.Scan(
		&boss.ID,
		&boss.TemplateID,
		&boss.Name,
		&boss.Level,
		&boss.HP,
		&boss.MaxHP,
		&boss.Attack,
		&boss.Defense,
		&spawnedAt,
	)
	if err != nil {
		return domain.WorldBoss{}, err
	}
	boss.SpawnedAt = fromMillis(spawnedAt)
	return boss, nil
}
