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
	apperrors "github.com/tianji-games/ascension/internal/platform/errors"
)

const playerColumns = `id, user_id, dao_name, realm_index, exp, gold, hp, root_id,
	weapon_id, armor_id, meditating, meditation_start, breakthrough_bonus,
	last_checkin, created_at, updated_at`

// CreatePlayer inserts one player record.
func (s *Store) CreatePlayer(ctx context.Context, player domain.Player) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.q == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(player.ID) == "" {
		return fmt.Errorf("player id is required")
	}
	if strings.TrimSpace(player.UserID) == "" {
		return fmt.Errorf("user id is required")
	}
	createdAt := player.CreatedAt.UTC()
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	updatedAt := player.UpdatedAt.UTC()
	if updatedAt.IsZero() {
		updatedAt = createdAt
	}

	_, err := s.q.ExecContext(
		ctx,
		`INSERT INTO players (`+playerColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		player.ID,
		player.UserID,
		nullString(player.DaoName),
		player.RealmIndex,
		player.Exp,
		player.Gold,
		player.HP,
		player.SpiritualRootID,
		player.WeaponID,
		player.ArmorID,
		boolToInt(player.Meditation == domain.MeditationActive),
		toNullMillis(player.MeditationStart),
		player.BreakthroughBonus,
		toNullMillis(player.LastCheckIn),
		toMillis(createdAt),
		toMillis(updatedAt),
	)
	if err != nil {
		if isUniqueViolation(err, "players.dao_name") {
			return storage.ErrNameTaken
		}
		if isUniqueViolation(err, "players.user_id") || isUniqueViolation(err, "players.id") {
			return apperrors.Wrap(apperrors.CodeAlreadyExists, "player already exists", err)
		}
		return wrapConflict("create player", err)
	}
	return nil
}

// GetPlayer returns one player by ID.
func (s *Store) GetPlayer(ctx context.Context, id string) (domain.Player, error) {
	return s.getPlayerBy(ctx, "id", id)
}

// GetPlayerByUser returns one player by platform user ID.
func (s *Store) GetPlayerByUser(ctx context.Context, userID string) (domain.Player, error) {
	return s.getPlayerBy(ctx, "user_id", userID)
}

func (s *Store) getPlayerBy(ctx context.Context, column, value string) (domain.Player, error) {
	if err := ctx.Err(); err != nil {
		return domain.Player{}, err
	}
	if s == nil || s.q == nil {
		return domain.Player{}, fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(value) == "" {
		return domain.Player{}, fmt.Errorf("%s is required", column)
	}

	row := s.q.QueryRowContext(
		ctx,
		`SELECT `+playerColumns+` FROM players WHERE `+column+` = ?`,
		value,
	)
	player, err := scanPlayer(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Player{}, storage.ErrNotFound
		}
		return domain.Player{}, fmt.Errorf("get player: %w", err)
	}
	return player, nil
}

// SavePlayer updates the full player record.
func (s *Store) SavePlayer(ctx context.Context, player domain.Player) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.q == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(player.ID) == "" {
		return fmt.Errorf("player id is required")
	}

	result, err := s.q.ExecContext(
		ctx,
		`UPDATE players SET
		   dao_name = ?,
		   realm_index = ?,
		   exp = ?,
		   gold = ?,
		   hp = ?,
		   root_id = ?,
		   weapon_id = ?,
		   armor_id = ?,
		   meditating = ?,
		   meditation_start = ?,
		   breakthrough_bonus = ?,
		   last_checkin = ?,
		   updated_at = ?
		 WHERE id = ?`,
		nullString(player.DaoName),
		player.RealmIndex,
		player.Exp,
		player.Gold,
		player.HP,
		player.SpiritualRootID,
		player.WeaponID,
		player.ArmorID,
		boolToInt(player.Meditation == domain.MeditationActive),
		toNullMillis(player.MeditationStart),
		player.BreakthroughBonus,
		toNullMillis(player.LastCheckIn),
		toMillis(time.Now()),
		player.ID,
	)
	if err != nil {
		if isUniqueViolation(err, "players.dao_name") {
			return storage.ErrNameTaken
		}
		return wrapConflict("save player", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("save player: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// AddGold credits gold to a player.
func (s *Store) AddGold(ctx context.Context, playerID string, amount int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if amount < 0 {
		return fmt.Errorf("credit amount must not be negative")
	}
	result, err := s.q.ExecContext(
		ctx,
		`UPDATE players SET gold = gold + ?, updated_at = ? WHERE id = ?`,
		amount, toMillis(time.Now()), playerID,
	)
	if err != nil {
		return wrapConflict("add gold", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("add gold: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// SpendGold debits gold only when the balance covers the amount.
func (s *Store) SpendGold(ctx context.Context, playerID string, amount int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if amount < 0 {
		return fmt.Errorf("debit amount must not be negative")
	}
	result, err := s.q.ExecContext(
		ctx,
		`UPDATE players SET gold = gold - ?, updated_at = ? WHERE id = ? AND gold >= ?`,
		amount, toMillis(time.Now()), playerID, amount,
	)
	if err != nil {
		return wrapConflict("spend gold", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("spend gold: %w", err)
	}
	if affected == 0 {
		// Distinguish a missing player from a short balance.
		if _, err := s.GetPlayer(ctx, playerID); err != nil {
			return err
		}
		return apperrors.WithMetadata(apperrors.CodeInsufficientFunds,
			"not enough gold", map[string]string{"amount": fmt.Sprint(amount)})
	}
	return nil
}

// TopPlayersByExp returns the experience leaderboard.
func (s *Store) TopPlayersByExp(ctx context.Context, limit int) ([]domain.Player, error) {
	return s.topPlayers(ctx, "exp", limit)
}

// TopPlayersByGold returns the wealth leaderboard.
func (s *Store) TopPlayersByGold(ctx context.Context, limit int) ([]domain.Player, error) {
	return s.topPlayers(ctx, "gold", limit)
}

func (s *Store) topPlayers(ctx context.Context, column string, limit int) ([]domain.Player, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be greater than zero")
	}

	rows, err := s.q.QueryContext(
		ctx,
		`SELECT `+playerColumns+` FROM players
		  ORDER BY realm_index DESC, `+column+` DESC, id ASC
		  LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list top players: %w", err)
	}
	defer rows.Close()

	var players []domain.Player
	for rows.Next() {
		player, err := scanPlayer(rows)
		if err != nil {
			return nil, fmt.Errorf("list top players: %w", err)
		}
		players = append(players, player)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list top players: %w", err)
	}
	return players, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPlayer(row rowScanner) (domain.Player, error) {
	var player domain.Player
	var daoName sql.NullString
	var meditating int
	var meditationStart sql.NullInt64
	var lastCheckIn sql.NullInt64
	var createdAt int64
	var updatedAt int64
	if err := row.Scan(
		&player.ID,
		&player.UserID,
		&daoName,
		&player.RealmIndex,
		&player.Exp,
		&player.Gold,
		&player.HP,
		&player.SpiritualRootID,
		&player.WeaponID,
		&player.ArmorID,
		&meditating,
		&meditationStart,
		&player.BreakthroughBonus,
		&lastCheckIn,
		&createdAt,
		&updatedAt,
	); err != nil {
		return domain.Player{}, err
	}
	player.DaoName = daoName.String
	if meditating != 0 {
		player.Meditation = domain.MeditationActive
	}
	player.MeditationStart = fromNullMillis(meditationStart)
	player.LastCheckIn = fromNullMillis(lastCheckIn)
	player.CreatedAt = fromMillis(createdAt)
	player.UpdatedAt = fromMillis(updatedAt)
	return player, nil
}

func nullString(value string) sql.NullString {
	if strings.TrimSpace(value) == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: value, Valid: true}
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}
