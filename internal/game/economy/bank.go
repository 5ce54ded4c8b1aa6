package economy

import (
	"fmt"
	"math"
	"time"

	"github.com/tianji-games/ascension/internal/game/catalog"
	"github.com/tianji-games/ascension/internal/game/domain"
	apperrors "github.com/tianji-games/ascension/internal/platform/errors"
)

// Payout computes principal plus hourly compounded interest, floored to
// whole gold.
func Payout(principal int64, hourlyRate float64, hours int) int64 {
	if hours <= 0 {
		return principal
	}
	return int64(math.Floor(float64(principal) * math.Pow(hourlyRate, float64(hours))))
}

// SettleWithdrawal checks the hold period and computes the payout for a
// deposit. The caller deletes the record and credits the player inside one
// transaction.
func SettleWithdrawal(cat *catalog.Catalog, deposit domain.Deposit, now time.Time) (int64, error) {
	rate, err := cat.Rate(deposit.Kind)
	if err != nil {
		return 0, err
	}
	held := now.Sub(deposit.StartedAt)
	if held < rate.MinHold {
		return 0, apperrors.WithMetadata(apperrors.CodeHoldPeriod,
			"deposit still in its hold period", map[string]string{
				"held":     held.String(),
				"required": rate.MinHold.String(),
			})
	}
	return Payout(deposit.Principal, rate.HourlyRate, deposit.HoursHeld(now)), nil
}

// ValidateDepositAmount rejects non-positive principals.
func ValidateDepositAmount(amount int64) error {
	if amount <= 0 {
		return apperrors.WithMetadata(apperrors.CodeInvalidState,
			"deposit amount must be positive", map[string]string{"amount": fmt.Sprint(amount)})
	}
	return nil
}
