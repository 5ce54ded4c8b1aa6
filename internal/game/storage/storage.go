// Package storage defines the persistence gateway consumed by the action
// layer. Implementations provide per-action transactional boundaries: one
// purchase, one breakthrough attempt, one boss hit each span exactly one
// transaction.
package storage

import (
	"context"
	"time"

	"github.com/tianji-games/ascension/internal/game/domain"
	apperrors "github.com/tianji-games/ascension/internal/platform/errors"
)

// ErrNotFound indicates a requested persistence record is missing.
// Callers use this to differentiate between legitimate "no such entity"
// states and transport or data corruption failures.
var ErrNotFound = apperrors.New(apperrors.CodeNotFound, "record not found")

// ErrNameTaken indicates a dao name is already claimed by another player.
var ErrNameTaken = apperrors.New(apperrors.CodePlayerNameTaken, "dao name already claimed")

// ShopSlotRecord is one persisted row of a daily shop snapshot.
type ShopSlotRecord struct {
	Day    string
	ItemID string
	Price  int64
	Stock  int
}

// PlayerStore persists player records.
type PlayerStore interface {
	CreatePlayer(ctx context.Context, player domain.Player) error
	GetPlayer(ctx context.Context, id string) (domain.Player, error)
	GetPlayerByUser(ctx context.Context, userID string) (domain.Player, error)
	SavePlayer(ctx context.Context, player domain.Player) error
	TopPlayersByExp(ctx context.Context, limit int) ([]domain.Player, error)
	TopPlayersByGold(ctx context.Context, limit int) ([]domain.Player, error)

	// AddGold credits gold unconditionally.
	AddGold(ctx context.Context, playerID string, amount int64) error
	// SpendGold debits gold only when the balance covers it, otherwise
	// INSUFFICIENT_FUNDS with no effect.
	SpendGold(ctx context.Context, playerID string, amount int64) error
}

// InventoryStore persists per-player item stacks.
type InventoryStore interface {
	ListInventory(ctx context.Context, playerID string) ([]domain.ItemStack, error)
	ItemQuantity(ctx context.Context, playerID, itemID string) (int, error)
	// AddItem adjusts a stack by delta, removing the row at zero. A delta
	// that would take the stack negative fails with INVALID_STATE and no
	// effect.
	AddItem(ctx context.Context, playerID, itemID string, delta int) error
}

// ShopStore persists the shared daily shop snapshot.
type ShopStore interface {
	// EnsureShopDay installs the day's slots if absent. Re-invocation on an
	// existing day never touches consumed stock.
	EnsureShopDay(ctx context.Context, day string, slots []ShopSlotRecord) error
	ShopDay(ctx context.Context, day string) ([]ShopSlotRecord, error)
	// DecrementStock atomically consumes qty units, failing with
	// OUT_OF_STOCK and no effect when remaining stock is short.
	DecrementStock(ctx context.Context, day, itemID string, qty int) error
}

// BankStore persists deposits.
type BankStore interface {
	CreateDeposit(ctx context.Context, deposit domain.Deposit) error
	GetDeposit(ctx context.Context, id string) (domain.Deposit, error)
	ListDeposits(ctx context.Context, playerID string) ([]domain.Deposit, error)
	DeleteDeposit(ctx context.Context, id string) error
}

// BossStore persists the active world boss, its participant damage map and
// per-template respawn cooldowns.
type BossStore interface {
	CreateBoss(ctx context.Context, boss domain.WorldBoss) error
	ActiveBoss(ctx context.Context) (domain.WorldBoss, error)
	// ReduceBossHP atomically subtracts damage, clamping at zero, and
	// reports the remaining HP.
	ReduceBossHP(ctx context.Context, bossID string, damage int) (int, error)
	// RecordBossDamage adds to a participant's damage total, keeping the
	// earliest first-hit timestamp.
	RecordBossDamage(ctx context.Context, participant domain.BossParticipant) error
	ListBossParticipants(ctx context.Context, bossID string) ([]domain.BossParticipant, error)
	DeleteBoss(ctx context.Context, bossID string) error
	SetBossCooldown(ctx context.Context, templateID string, until time.Time) error
	BossCooldown(ctx context.Context, templateID string) (time.Time, error)
}

// Store is the full persistence gateway.
type Store interface {
	PlayerStore
	InventoryStore
	ShopStore
	BankStore
	BossStore

	// WithTx runs fn against a transaction-scoped store, committing on nil
	// and rolling back on error. Nested calls join the outer transaction.
	WithTx(ctx context.Context, fn func(Store) error) error
	Close() error
}
