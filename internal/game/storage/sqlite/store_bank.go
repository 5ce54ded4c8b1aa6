package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/tianji-games/ascension/internal/game/catalog"
	"github.com/tianji-games/ascension/internal/game/domain"
	"github.com/tianji-games/ascension/internal/game/storage"
)

// CreateDeposit inserts one deposit record.
func (s *Store) CreateDeposit(ctx context.Context, deposit domain.Deposit) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(deposit.ID) == "" {
		return fmt.Errorf("deposit id is required")
	}
	if strings.TrimSpace(deposit.PlayerID) == "" {
		return fmt.Errorf("player id is required")
	}
	if deposit.Principal <= 0 {
		return fmt.Errorf("principal must be greater than zero")
	}

	_, err := s.q.ExecContext(
		ctx,
		`INSERT INTO deposits (id, player_id, kind, principal, started_at) VALUES (?, ?, ?, ?, ?)`,
		deposit.ID,
		deposit.PlayerID,
		int(deposit.Kind),
		deposit.Principal,
		toMillis(deposit.StartedAt),
	)
	if err != nil {
		return wrapConflict("create deposit", err)
	}
	return nil
}

// GetDeposit returns one deposit by ID.
func (s *Store) GetDeposit(ctx context.Context, id string) (domain.Deposit, error) {
	if err := ctx.Err(); err != nil {
		return domain.Deposit{}, err
	}
	if strings.TrimSpace(id) == "" {
		return domain.Deposit{}, fmt.Errorf("deposit id is required")
	}

	row := s.q.QueryRowContext(
		ctx,
		`SELECT id, player_id, kind, principal, started_at FROM deposits WHERE id = ?`,
		id,
	)
	deposit, err := scanDeposit(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Deposit{}, storage.ErrNotFound
		}
		return domain.Deposit{}, fmt.Errorf("get deposit: %w", err)
	}
	return deposit, nil
}

// ListDeposits returns a player's deposits ordered by start time.
func (s *Store) ListDeposits(ctx context.Context, playerID string) ([]domain.Deposit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(playerID) == "" {
		return nil, fmt.Errorf("player id is required")
	}

	rows, err := s.q.QueryContext(
		ctx,
		`SELECT id, player_id, kind, principal, started_at FROM deposits
		  WHERE player_id = ? ORDER BY started_at ASC, id ASC`,
		playerID,
	)
	if err != nil {
		return nil, fmt.Errorf("list deposits: %w", err)
	}
	defer rows.Close()

	var deposits []domain.Deposit
	for rows.Next() {
		deposit, err := scanDeposit(rows)
		if err != nil {
			return nil, fmt.Errorf("list deposits: %w", err)
		}
		deposits = append(deposits, deposit)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list deposits: %w", err)
	}
	return deposits, nil
}

// DeleteDeposit removes a settled deposit.
func (s *Store) DeleteDeposit(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	result, err := s.q.ExecContext(ctx, `DELETE FROM deposits WHERE id = ?`, id)
	if err != nil {
		return wrapConflict("delete deposit", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete deposit: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func scanDeposit(row rowScanner) (domain.Deposit, error) {
	var deposit domain.Deposit
	var kind int
	var startedAt int64
	if err := row.Scan(&deposit.ID, &deposit.PlayerID, &kind, &deposit.Principal, &startedAt); err != nil {
		return domain.Deposit{}, err
	}
	deposit.Kind = catalog.DepositKind(kind)
	deposit.StartedAt = fromMillis(startedAt)
	return deposit, nil
}
