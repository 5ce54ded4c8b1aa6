package actions

import (
	"context"
	"fmt"

	"github.com/tianji-games/ascension/internal/game/catalog"
	"github.com/tianji-games/ascension/internal/game/domain"
	"github.com/tianji-games/ascension/internal/game/storage"
	apperrors "github.com/tianji-games/ascension/internal/platform/errors"
)

// Inventory lists the acting player's item stacks and equipped gear.
func (s *Service) Inventory(ctx context.Context, userID string) ([]Message, error) {
	player, err := loadPlayer(ctx, s.store, userID)
	if err != nil {
		return nil, err
	}
	stacks, err := s.store.ListInventory(ctx, player.ID)
	if err != nil {
		return nil, err
	}

	messages := []Message{"Storage ring:"}
	if len(stacks) == 0 {
		messages = append(messages, "Empty.")
	}
	for _, stack := range stacks {
		item, err := s.cat.Item(stack.ItemID)
		if err != nil {
			return nil, err
		}
		messages = append(messages, Message(fmt.Sprintf("%s x%d", item.Name, stack.Quantity)))
	}
	for _, equipped := range []struct {
		slot   string
		itemID string
	}{{"Weapon", player.WeaponID}, {"Armor", player.ArmorID}} {
		if equipped.itemID == "" {
			continue
		}
		item, err := s.cat.Item(equipped.itemID)
		if err != nil {
			return nil, err
		}
		messages = append(messages, Message(fmt.Sprintf("%s: %s", equipped.slot, item.Name)))
	}
	return messages, nil
}

// UseItem consumes one pill from the acting player's inventory and applies
// its effect.
func (s *Service) UseItem(ctx context.Context, userID, itemID string) ([]Message, error) {
	item, err := s.lookupItem(itemID)
	if err != nil {
		return nil, err
	}
	if item.Kind != catalog.ItemKindPill || item.Pill == nil {
		return nil, apperrors.WithMetadata(apperrors.CodeInvalidState,
			"that item cannot be consumed", map[string]string{"item": itemID})
	}

	var messages []Message
	err = s.store.WithTx(ctx, func(tx storage.Store) error {
		player, err := loadPlayer(ctx, tx, userID)
		if err != nil {
			return err
		}
		if err := tx.AddItem(ctx, player.ID, item.ID, -1); err != nil {
			return err
		}

		effect := item.Pill
		player.Exp += effect.Exp
		player.HP += effect.HP
		player.BreakthroughBonus += effect.BreakthroughBonus
		if err := clampHP(&player, s.cat); err != nil {
			return err
		}
		if err := tx.SavePlayer(ctx, player); err != nil {
			return err
		}

		messages = []Message{Message(fmt.Sprintf("You swallowed one %s.", item.Name))}
		if effect.Exp > 0 {
			messages = append(messages, Message(fmt.Sprintf("Experience +%d.", effect.Exp)))
		}
		if effect.HP > 0 {
			messages = append(messages, Message(fmt.Sprintf("HP restored, now %d.", player.HP)))
		}
		if effect.BreakthroughBonus > 0 {
			messages = append(messages, Message(fmt.Sprintf(
				"Your next breakthrough chance rises by %.0f%%.", effect.BreakthroughBonus*100)))
		}
		return nil
	})
	return messages, err
}

// Equip moves a piece of equipment from inventory into its slot, returning
// any previously equipped item to inventory.
func (s *Service) Equip(ctx context.Context, userID, itemID string) ([]Message, error) {
	item, err := s.lookupItem(itemID)
	if err != nil {
		return nil, err
	}
	if item.Kind != catalog.ItemKindEquipment || item.Slot == catalog.SlotNone {
		return nil, apperrors.WithMetadata(apperrors.CodeInvalidState,
			"that item cannot be equipped", map[string]string{"item": itemID})
	}

	var messages []Message
	err = s.store.WithTx(ctx, func(tx storage.Store) error {
		player, err := loadPlayer(ctx, tx, userID)
		if err != nil {
			return err
		}
		if err := tx.AddItem(ctx, player.ID, item.ID, -1); err != nil {
			return err
		}

		previous := equippedIn(&player, item.Slot)
		if *previous != "" {
			if err := tx.AddItem(ctx, player.ID, *previous, 1); err != nil {
				return err
			}
		}
		*previous = item.ID
		if err := clampHP(&player, s.cat); err != nil {
			return err
		}
		if err := tx.SavePlayer(ctx, player); err != nil {
			return err
		}
		messages = []Message{Message(fmt.Sprintf("Equipped %s.", item.Name))}
		return nil
	})
	return messages, err
}

// Unequip returns the item in the named slot ("weapon" or "armor") to the
// acting player's inventory.
func (s *Service) Unequip(ctx context.Context, userID, slotName string) ([]Message, error) {
	slot, err := parseSlot(slotName)
	if err != nil {
		return nil, err
	}

	var messages []Message
	err = s.store.WithTx(ctx, func(tx storage.Store) error {
		player, err := loadPlayer(ctx, tx, userID)
		if err != nil {
			return err
		}
		equipped := equippedIn(&player, slot)
		if *equipped == "" {
			return apperrors.New(apperrors.CodeInvalidState, "nothing is equipped in that slot")
		}
		item, err := s.cat.Item(*equipped)
		if err != nil {
			return err
		}
		if err := tx.AddItem(ctx, player.ID, *equipped, 1); err != nil {
			return err
		}
		*equipped = ""
		if err := clampHP(&player, s.cat); err != nil {
			return err
		}
		if err := tx.SavePlayer(ctx, player); err != nil {
			return err
		}
		messages = []Message{Message(fmt.Sprintf("Removed %s.", item.Name))}
		return nil
	})
	return messages, err
}

// lookupItem resolves user-supplied item ids, surfacing unknown ids as a
// user-correctable condition rather than a configuration failure.
func (s *Service) lookupItem(itemID string) (catalog.Item, error) {
	item, err := s.cat.Item(itemID)
	if err != nil {
		return catalog.Item{}, apperrors.WithMetadata(apperrors.CodeInvalidState,
			"no such item", map[string]string{"item": itemID})
	}
	return item, nil
}

func equippedIn(player *domain.Player, slot catalog.EquipSlot) *string {
	if slot == catalog.SlotWeapon {
		return &player.WeaponID
	}
	return &player.ArmorID
}

func parseSlot(name string) (catalog.EquipSlot, error) {
	switch name {
	case "weapon":
		return catalog.SlotWeapon, nil
	case "armor":
		return catalog.SlotArmor, nil
	default:
		return catalog.SlotNone, apperrors.WithMetadata(apperrors.CodeInvalidState,
			"slot must be weapon or armor", map[string]string{"slot": name})
	}
}
