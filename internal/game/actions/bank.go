package actions

import (
	"context"
	"errors"
	"fmt"

	"github.com/tianji-games/ascension/internal/game/catalog"
	"github.com/tianji-games/ascension/internal/game/domain"
	"github.com/tianji-games/ascension/internal/game/economy"
	"github.com/tianji-games/ascension/internal/game/storage"
	apperrors "github.com/tianji-games/ascension/internal/platform/errors"
	"github.com/tianji-games/ascension/internal/platform/id"
)

// BankDeposit locks gold into a fixed or current deposit.
func (s *Service) BankDeposit(ctx context.Context, userID, kindName string, amount int64) ([]Message, error) {
	kind, err := parseDepositKind(kindName)
	if err != nil {
		return nil, err
	}
	if err := economy.ValidateDepositAmount(amount); err != nil {
		return nil, err
	}
	rate, err := s.cat.Rate(kind)
	if err != nil {
		return nil, err
	}

	var messages []Message
	err = s.store.WithTx(ctx, func(tx storage.Store) error {
		player, err := loadPlayer(ctx, tx, userID)
		if err != nil {
			return err
		}
		if err := tx.SpendGold(ctx, player.ID, amount); err != nil {
			return err
		}
		depositID, err := id.NewID()
		if err != nil {
			return err
		}
		deposit := domain.Deposit{
			ID:        depositID,
			PlayerID:  player.ID,
			Kind:      kind,
			Principal: amount,
			StartedAt: s.now().UTC(),
		}
		if err := tx.CreateDeposit(ctx, deposit); err != nil {
			return err
		}
		messages = []Message{
			Message(fmt.Sprintf("Deposited %d gold into a %s account (%s).", amount, kindName, depositID)),
			Message(fmt.Sprintf("Interest accrues at %.2f%% per hour after a %s hold.",
				(rate.HourlyRate-1)*100, rate.MinHold)),
		}
		return nil
	})
	return messages, err
}

// BankWithdraw settles one deposit: hold-period check, compounded payout,
// record deletion and gold credit in one transaction.
func (s *Service) BankWithdraw(ctx context.Context, userID, depositID string) ([]Message, error) {
	now := s.now().UTC()

	var messages []Message
	err := s.store.WithTx(ctx, func(tx storage.Store) error {
		player, err := loadPlayer(ctx, tx, userID)
		if err != nil {
			return err
		}
		deposit, err := tx.GetDeposit(ctx, depositID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return apperrors.New(apperrors.CodeInvalidState, "no such deposit")
			}
			return err
		}
		if deposit.PlayerID != player.ID {
			return apperrors.New(apperrors.CodeInvalidState, "that deposit is not yours")
		}

		payout, err := economy.SettleWithdrawal(s.cat, deposit, now)
		if err != nil {
			return err
		}
		if err := tx.DeleteDeposit(ctx, deposit.ID); err != nil {
			return err
		}
		if err := tx.AddGold(ctx, player.ID, payout); err != nil {
			return err
		}
		messages = []Message{
			Message(fmt.Sprintf("Withdrew %d gold (%d principal, %d interest over %d hours).",
				payout, deposit.Principal, payout-deposit.Principal, deposit.HoursHeld(now))),
		}
		return nil
	})
	return messages, err
}

// BankList shows the acting player's deposits with their accrued value.
func (s *Service) BankList(ctx context.Context, userID string) ([]Message, error) {
	now := s.now().UTC()

	player, err := loadPlayer(ctx, s.store, userID)
	if err != nil {
		return nil, err
	}
	deposits, err := s.store.ListDeposits(ctx, player.ID)
	if err != nil {
		return nil, err
	}

	messages := []Message{"Bank accounts:"}
	if len(deposits) == 0 {
		messages = append(messages, "No open deposits.")
	}
	for _, deposit := range deposits {
		rate, err := s.cat.Rate(deposit.Kind)
		if err != nil {
			return nil, err
		}
		value := economy.Payout(deposit.Principal, rate.HourlyRate, deposit.HoursHeld(now))
		messages = append(messages, Message(fmt.Sprintf(
			"%s: %d principal, worth %d after %d hours (%s)",
			depositKindName(deposit.Kind), deposit.Principal, value, deposit.HoursHeld(now), deposit.ID)))
	}
	return messages, nil
}

// Transfer moves gold between two players atomically.
func (s *Service) Transfer(ctx context.Context, userID, recipientUserID string, amount int64) ([]Message, error) {
	if recipientUserID == "" || recipientUserID == userID {
		return nil, apperrors.New(apperrors.CodeInvalidState, "name another cultivator to transfer to")
	}
	if amount <= 0 {
		return nil, apperrors.New(apperrors.CodeInvalidState, "transfer amount must be positive")
	}

	var messages []Message
	err := s.store.WithTx(ctx, func(tx storage.Store) error {
		sender, err := loadPlayer(ctx, tx, userID)
		if err != nil {
			return err
		}
		recipient, err := tx.GetPlayerByUser(ctx, recipientUserID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return apperrors.New(apperrors.CodeInvalidState, "that cultivator has not begun the path")
			}
			return err
		}
		if err := tx.SpendGold(ctx, sender.ID, amount); err != nil {
			return err
		}
		if err := tx.AddGold(ctx, recipient.ID, amount); err != nil {
			return err
		}
		messages = []Message{Message(fmt.Sprintf("Transferred %d gold to %s.", amount, displayName(recipient)))}
		return nil
	})
	return messages, err
}

func parseDepositKind(name string) (catalog.DepositKind, error) {
	switch name {
	case "fixed":
		return catalog.DepositFixed, nil
	case "current":
		return catalog.DepositCurrent, nil
	default:
		return 0, apperrors.WithMetadata(apperrors.CodeInvalidState,
			"deposit kind must be fixed or current", map[string]string{"kind": name})
	}
}

func depositKindName(kind catalog.DepositKind) string {
	if kind == catalog.DepositFixed {
		return "Fixed"
	}
	return "Current"
}
