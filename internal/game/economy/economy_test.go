package economy

import (
	"testing"
	"time"

	"github.com/tianji-games/ascension/internal/game/catalog"
	"github.com/tianji-games/ascension/internal/game/domain"
	apperrors "github.com/tianji-games/ascension/internal/platform/errors"
)

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.Default()
	if err != nil {
		t.Fatalf("default catalog: %v", err)
	}
	return cat
}

func TestDailyStockDeterministicPerDate(t *testing.T) {
	cat := testCatalog(t)
	date := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)

	first := DailyStock(cat, date)
	second := DailyStock(cat, date.Add(5*time.Hour)) // same calendar day
	if len(first) != len(second) {
		t.Fatalf("slot counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("slot %d differs: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestDailyStockVariesAcrossDates(t *testing.T) {
	cat := testCatalog(t)
	a := DailyStock(cat, time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC))
	b := DailyStock(cat, time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC))

	same := len(a) == len(b)
	if same {
		for i := range a {
			if a[i] != b[i] {
				same = false
				break
			}
		}
	}
	if same {
		t.Fatal("expected different stock across dates")
	}
}

func TestDailyStockSlotCountAndUniqueness(t *testing.T) {
	cat := testCatalog(t)
	offer := DailyStock(cat, time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC))
	if len(offer) != cat.Tuning().ShopSlots {
		t.Fatalf("slots = %d, want %d", len(offer), cat.Tuning().ShopSlots)
	}
	seen := make(map[string]bool)
	for _, slot := range offer {
		if seen[slot.ItemID] {
			t.Fatalf("item %s offered twice", slot.ItemID)
		}
		seen[slot.ItemID] = true
		if slot.Stock <= 0 {
			t.Fatalf("item %s has non-positive stock %d", slot.ItemID, slot.Stock)
		}
	}
}

func TestStockBracketsInverseToPrice(t *testing.T) {
	cases := []struct {
		price     int64
		low, high int
	}{
		{100, 15, 25},
		{500, 15, 25},
		{501, 8, 15},
		{2000, 8, 15},
		{9999, 3, 8},
		{50000, 2, 5},
		{200000, 1, 3},
	}
	for _, tc := range cases {
		low, high := stockBracket(tc.price)
		if low != tc.low || high != tc.high {
			t.Fatalf("stockBracket(%d) = [%d, %d], want [%d, %d]", tc.price, low, high, tc.low, tc.high)
		}
	}
}

func TestDayKey(t *testing.T) {
	date := time.Date(2026, 8, 30, 23, 50, 0, 0, time.UTC)
	if got := DayKey(date); got != "2026-08-30" {
		t.Fatalf("DayKey = %q, want %q", got, "2026-08-30")
	}
}

func TestPayoutMonotonicInHours(t *testing.T) {
	for hours := 1; hours < 100; hours++ {
		prev := Payout(1000, 1.005, hours-1)
		next := Payout(1000, 1.005, hours)
		if next <= prev {
			t.Fatalf("payout(%d) = %d, want strictly above payout(%d) = %d", hours, next, hours-1, prev)
		}
	}
}

func TestPayoutZeroHoursReturnsPrincipal(t *testing.T) {
	if got := Payout(5000, 1.005, 0); got != 5000 {
		t.Fatalf("payout = %d, want principal 5000", got)
	}
}

func TestSettleWithdrawalHoldPeriods(t *testing.T) {
	cat := testCatalog(t)
	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	fixed := domain.Deposit{Kind: catalog.DepositFixed, Principal: 1000, StartedAt: start}
	if _, err := SettleWithdrawal(cat, fixed, start.Add(23*time.Hour)); apperrors.CodeOf(err) != apperrors.CodeHoldPeriod {
		t.Fatalf("expected hold period error, got %v", err)
	}
	payout, err := SettleWithdrawal(cat, fixed, start.Add(24*time.Hour))
	if err != nil {
		t.Fatalf("settle fixed deposit: %v", err)
	}
	if payout <= 1000 {
		t.Fatalf("payout = %d, want principal plus interest", payout)
	}

	current := domain.Deposit{Kind: catalog.DepositCurrent, Principal: 1000, StartedAt: start}
	if _, err := SettleWithdrawal(cat, current, start.Add(30*time.Minute)); apperrors.CodeOf(err) != apperrors.CodeHoldPeriod {
		t.Fatalf("expected hold period error, got %v", err)
	}
	if _, err := SettleWithdrawal(cat, current, start.Add(time.Hour)); err != nil {
		t.Fatalf("settle current deposit: %v", err)
	}
}

func TestSplitRewardExactShares(t *testing.T) {
	now := time.Now()
	participants := []domain.BossParticipant{
		{PlayerID: "a", Damage: 70, FirstHitAt: now},
		{PlayerID: "b", Damage: 20, FirstHitAt: now},
		{PlayerID: "c", Damage: 10, FirstHitAt: now},
	}
	shares := SplitReward(100, participants)
	want := map[string]int64{"a": 70, "b": 20, "c": 10}
	for _, share := range shares {
		if share.Gold != want[share.PlayerID] {
			t.Fatalf("share for %s = %d, want %d", share.PlayerID, share.Gold, want[share.PlayerID])
		}
	}
}

func TestSplitRewardRemainderToTopDealer(t *testing.T) {
	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	participants := []domain.BossParticipant{
		{PlayerID: "a", Damage: 33, FirstHitAt: now.Add(2 * time.Minute)},
		{PlayerID: "b", Damage: 33, FirstHitAt: now.Add(time.Minute)},
		{PlayerID: "c", Damage: 34, FirstHitAt: now.Add(3 * time.Minute)},
	}
	shares := SplitReward(100, participants)

	var sum int64
	byPlayer := make(map[string]int64)
	for _, share := range shares {
		sum += share.Gold
		byPlayer[share.PlayerID] = share.Gold
	}
	if sum != 100 {
		t.Fatalf("shares sum to %d, want exactly 100", sum)
	}
	// c holds top damage, so c absorbs the rounding remainder.
	if byPlayer["c"] != 36 { // floor(34) = 34 plus remainder 2
		t.Fatalf("top dealer share = %d, want 36", byPlayer["c"])
	}
}

func TestSplitRewardTieBreaksOnFirstHit(t *testing.T) {
	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	participants := []domain.BossParticipant{
		{PlayerID: "late", Damage: 50, FirstHitAt: now.Add(time.Hour)},
		{PlayerID: "early", Damage: 50, FirstHitAt: now},
	}
	shares := SplitReward(101, participants)
	if shares[0].PlayerID != "early" {
		t.Fatalf("remainder went to %s, want earliest contributor", shares[0].PlayerID)
	}
	if shares[0].Gold != 51 || shares[1].Gold != 50 {
		t.Fatalf("shares = %d/%d, want 51/50", shares[0].Gold, shares[1].Gold)
	}
}

func TestSplitRewardEmptyOrZero(t *testing.T) {
	if shares := SplitReward(100, nil); shares != nil {
		t.Fatalf("expected nil shares for no participants, got %v", shares)
	}
	now := time.Now()
	zero := []domain.BossParticipant{{PlayerID: "a", Damage: 0, FirstHitAt: now}}
	if shares := SplitReward(100, zero); shares != nil {
		t.Fatalf("expected nil shares for zero damage, got %v", shares)
	}
}

func TestValidateDepositAmount(t *testing.T) {
	if err := ValidateDepositAmount(100); err != nil {
		t.Fatalf("expected valid amount, got %v", err)
	}
	if err := ValidateDepositAmount(0); apperrors.CodeOf(err) != apperrors.CodeInvalidState {
		t.Fatalf("expected invalid state, got %v", err)
	}
	if err := ValidateDepositAmount(-5); apperrors.CodeOf(err) != apperrors.CodeInvalidState {
		t.Fatalf("expected invalid state, got %v", err)
	}
}
