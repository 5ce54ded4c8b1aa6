package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/tianji-games/ascension/internal/game/storage"
	apperrors "github.com/tianji-games/ascension/internal/platform/errors"
)

// EnsureShopDay installs a day's stock snapshot if absent. Existing rows,
// including rows already decremented by purchases, are left untouched.
func (s *Store) EnsureShopDay(ctx context.Context, day string, slots []storage.ShopSlotRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(day) == "" {
		return fmt.Errorf("shop day is required")
	}

	for _, slot := range slots {
		if _, err := s.q.ExecContext(
			ctx,
			`INSERT OR IGNORE INTO shop_stock (day, item_id, price, stock) VALUES (?, ?, ?, ?)`,
			day, slot.ItemID, slot.Price, slot.Stock,
		); err != nil {
			return wrapConflict("ensure shop day", err)
		}
	}
	return nil
}

// ShopDay returns the current snapshot for one day.
func (s *Store) ShopDay(ctx context.Context, day string) ([]storage.ShopSlotRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(day) == "" {
		return nil, fmt.Errorf("shop day is required")
	}

	rows, err := s.q.QueryContext(
		ctx,
		`SELECT day, item_id, price, stock FROM shop_stock WHERE day = ? ORDER BY item_id ASC`,
		day,
	)
	if err != nil {
		return nil, fmt.Errorf("shop day: %w", err)
	}
	defer rows.Close()

	var slots []storage.ShopSlotRecord
	for rows.Next() {
		var slot storage.ShopSlotRecord
		if err := rows.Scan(&slot.Day, &slot.ItemID, &slot.Price, &slot.Stock); err != nil {
			return nil, fmt.Errorf("shop day: %w", err)
		}
		slots = append(slots, slot)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("shop day: %w", err)
	}
	return slots, nil
}

// DecrementStock atomically consumes stock, failing with OUT_OF_STOCK when
// the remaining quantity is short.
func (s *Store) DecrementStock(ctx context.Context, day, itemID string, qty int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if qty <= 0 {
		return fmt.Errorf("quantity must be greater than zero")
	}

	result, err := s.q.ExecContext(
		ctx,
		`UPDATE shop_stock SET stock = stock - ?
		  WHERE day = ? AND item_id = ? AND stock >= ?`,
		qty, day, itemID, qty,
	)
	if err != nil {
		return wrapConflict("decrement stock", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("decrement stock: %w", err)
	}
	if affected == 0 {
		return apperrors.WithMetadata(apperrors.CodeOutOfStock,
			"item sold out", map[string]string{"item": itemID})
	}
	return nil
}
