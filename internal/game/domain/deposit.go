package domain

import (
	"time"

	"github.com/tianji-games/ascension/internal/game/catalog"
)

// Deposit is one banking record. It exists from the deposit action until a
// successful withdrawal deletes it.
type Deposit struct {
	ID        string
	PlayerID  string
	Kind      catalog.DepositKind
	Principal int64
	StartedAt time.Time
}

// HoursHeld reports whole hours elapsed since the deposit started.
func (d Deposit) HoursHeld(now time.Time) int {
	elapsed := now.Sub(d.StartedAt)
	if elapsed < 0 {
		return 0
	}
	return int(elapsed / time.Hour)
}
