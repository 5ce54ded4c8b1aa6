package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/tianji-games/ascension/internal/game/domain"
	apperrors "github.com/tianji-games/ascension/internal/platform/errors"
)

// ListInventory returns every non-empty stack a player holds.
func (s *Store) ListInventory(ctx context.Context, playerID string) ([]domain.ItemStack, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(playerID) == "" {
		return nil, fmt.Errorf("player id is required")
	}

	rows, err := s.q.QueryContext(
		ctx,
		`SELECT player_id, item_id, quantity FROM inventory
		  WHERE player_id = ? ORDER BY item_id ASC`,
		playerID,
	)
	if err != nil {
		return nil, fmt.Errorf("list inventory: %w", err)
	}
	defer rows.Close()

	var stacks []domain.ItemStack
	for rows.Next() {
		var stack domain.ItemStack
		if err := rows.Scan(&stack.PlayerID, &stack.ItemID, &stack.Quantity); err != nil {
			return nil, fmt.Errorf("list inventory: %w", err)
		}
		stacks = append(stacks, stack)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list inventory: %w", err)
	}
	return stacks, nil
}

// ItemQuantity reports how many of one item a player holds.
func (s *Store) ItemQuantity(ctx context.Context, playerID, itemID string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	var quantity int
	row := s.q.QueryRowContext(
		ctx,
		`SELECT quantity FROM inventory WHERE player_id = ? AND item_id = ?`,
		playerID, itemID,
	)
	if err := row.Scan(&quantity); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("item quantity: %w", err)
	}
	return quantity, nil
}

// AddItem adjusts one stack by delta. Rows never go negative and are removed
// when the stack reaches zero.
func (s *Store) AddItem(ctx context.Context, playerID, itemID string, delta int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(playerID) == "" || strings.TrimSpace(itemID) == "" {
		return fmt.Errorf("player id and item id are required")
	}
	if delta == 0 {
		return nil
	}

	if delta > 0 {
		_, err := s.q.ExecContext(
			ctx,
			`INSERT INTO inventory (player_id, item_id, quantity) VALUES (?, ?, ?)
			 ON CONFLICT(player_id, item_id) DO UPDATE SET quantity = quantity + excluded.quantity`,
			playerID, itemID, delta,
		)
		if err != nil {
			return wrapConflict("add item", err)
		}
		return nil
	}

	result, err := s.q.ExecContext(
		ctx,
		`UPDATE inventory SET quantity = quantity + ?
		  WHERE player_id = ? AND item_id = ? AND quantity + ? >= 0`,
		delta, playerID, itemID, delta,
	)
	if err != nil {
		return wrapConflict("remove item", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("remove item: %w", err)
	}
	if affected == 0 {
		return apperrors.WithMetadata(apperrors.CodeInvalidState,
			"not enough of the item", map[string]string{"item": itemID})
	}

	if _, err := s.q.ExecContext(
		ctx,
		`DELETE FROM inventory WHERE player_id = ? AND item_id = ? AND quantity = 0`,
		playerID, itemID,
	); err != nil {
		return wrapConflict("prune empty stack", err)
	}
	return nil
}
