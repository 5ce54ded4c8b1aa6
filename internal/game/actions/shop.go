package actions

import (
	"context"
	"fmt"
	"time"

	"github.com/tianji-games/ascension/internal/game/economy"
	"github.com/tianji-games/ascension/internal/game/storage"
	apperrors "github.com/tianji-games/ascension/internal/platform/errors"
)

// ShopView ensures today's shared stock exists and lists it.
func (s *Service) ShopView(ctx context.Context, userID string) ([]Message, error) {
	now := s.now()
	day := economy.DayKey(now)

	var slots []storage.ShopSlotRecord
	err := s.store.WithTx(ctx, func(tx storage.Store) error {
		if err := s.ensureShopDay(ctx, tx, now); err != nil {
			return err
		}
		var err error
		slots, err = tx.ShopDay(ctx, day)
		return err
	})
	if err != nil {
		return nil, err
	}

	messages := []Message{Message(fmt.Sprintf("Market offerings for %s:", day))}
	for _, slot := range slots {
		item, err := s.cat.Item(slot.ItemID)
		if err != nil {
			return nil, err
		}
		messages = append(messages, Message(fmt.Sprintf("%s, %d gold, %d in stock (%s)",
			item.Name, slot.Price, slot.Stock, slot.ItemID)))
	}
	return messages, nil
}

// ShopBuy purchases qty units of one item from today's stock: stock
// decrement, payment and inventory credit commit together.
func (s *Service) ShopBuy(ctx context.Context, userID, itemID string, qty int64) ([]Message, error) {
	if qty <= 0 {
		qty = 1
	}
	item, err := s.lookupItem(itemID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	day := economy.DayKey(now)

	var messages []Message
	err = s.store.WithTx(ctx, func(tx storage.Store) error {
		player, err := loadPlayer(ctx, tx, userID)
		if err != nil {
			return err
		}
		if err := s.ensureShopDay(ctx, tx, now); err != nil {
			return err
		}

		price, err := shopPrice(ctx, tx, day, item.ID)
		if err != nil {
			return err
		}
		total := price * qty
		if err := tx.DecrementStock(ctx, day, item.ID, int(qty)); err != nil {
			return err
		}
		if err := tx.SpendGold(ctx, player.ID, total); err != nil {
			return err
		}
		if err := tx.AddItem(ctx, player.ID, item.ID, int(qty)); err != nil {
			return err
		}
		messages = []Message{Message(fmt.Sprintf("Bought %d x %s for %d gold.", qty, item.Name, total))}
		return nil
	})
	return messages, err
}

// ensureShopDay installs the deterministic daily snapshot if missing. The
// key and the generated offer derive from the same timestamp so a request
// straddling midnight cannot store one day's offer under the other's key.
func (s *Service) ensureShopDay(ctx context.Context, tx storage.Store, now time.Time) error {
	day := economy.DayKey(now)
	offer := economy.DailyStock(s.cat, now)
	records := make([]storage.ShopSlotRecord, 0, len(offer))
	for _, slot := range offer {
		records = append(records, storage.ShopSlotRecord{
			Day:    day,
			ItemID: slot.ItemID,
			Price:  slot.Price,
			Stock:  slot.Stock,
		})
	}
	return tx.EnsureShopDay(ctx, day, records)
}

// shopPrice reads the persisted price for one of today's slots. An item the
// shop is not offering today is a user-correctable condition.
func shopPrice(ctx context.Context, tx storage.Store, day, itemID string) (int64, error) {
	slots, err := tx.ShopDay(ctx, day)
	if err != nil {
		return 0, err
	}
	for _, slot := range slots {
		if slot.ItemID == itemID {
			return slot.Price, nil
		}
	}
	return 0, apperrors.WithMetadata(apperrors.CodeInvalidState,
		"the shop is not offering that item today", map[string]string{"item": itemID})
}
