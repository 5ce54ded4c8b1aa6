package actions

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/tianji-games/ascension/internal/game/catalog"
	"github.com/tianji-games/ascension/internal/game/domain"
	"github.com/tianji-games/ascension/internal/game/economy"
	"github.com/tianji-games/ascension/internal/game/storage"
	"github.com/tianji-games/ascension/internal/game/storage/sqlite"
	apperrors "github.com/tianji-games/ascension/internal/platform/errors"
)

// stubSource replays scripted IntN draws and a fixed Float64, with identity
// permutations, so action outcomes are fully determined.
type stubSource struct {
	ints    []int
	i       int
	uniform float64
}

func (s *stubSource) Float64() float64 { return s.uniform }

func (s *stubSource) IntN(n int) int {
	if s.i < len(s.ints) {
		value := s.ints[s.i]
		s.i++
		return value % n
	}
	return 0
}

func (s *stubSource) Perm(n int) []int {
	values := make([]int, n)
	for i := range values {
		values[i] = i
	}
	return values
}

type testClock struct {
	at time.Time
}

func (c *testClock) now() time.Time { return c.at }

func (c *testClock) advance(d time.Duration) { c.at = c.at.Add(d) }

func newTestService(t *testing.T, rng *stubSource, clock *testClock) (*Service, storage.Store) {
	t.Helper()
	store, err := sqlite.Open(filepath.Join(t.TempDir(), "game.sqlite"))
	if err != nil {
		t.Fatalf("sqlite.Open() error = %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("Close() error = %v", err)
		}
	})
	cat, err := catalog.Default()
	if err != nil {
		t.Fatalf("catalog.Default() error = %v", err)
	}
	return New(store, cat, rng, clock.now), store
}

func newClock() *testClock {
	return &testClock{at: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func beginPlayer(t *testing.T, svc *Service, userID, name string) domain.Player {
	t.Helper()
	if _, err := svc.Begin(context.Background(), userID, name); err != nil {
		t.Fatalf("Begin() error = %v", err)
	}
	player, err := svc.store.GetPlayerByUser(context.Background(), userID)
	if err != nil {
		t.Fatalf("GetPlayerByUser() error = %v", err)
	}
	return player
}

func savePlayer(t *testing.T, store storage.Store, player domain.Player) {
	t.Helper()
	if err := store.SavePlayer(context.Background(), player); err != nil {
		t.Fatalf("SavePlayer() error = %v", err)
	}
}

func TestBegin(t *testing.T) {
	svc, _ := newTestService(t, &stubSource{uniform: 0.5}, newClock())
	ctx := context.Background()

	messages, err := svc.Begin(ctx, "u1", "Cloud Seeker")
	if err != nil {
		t.Fatalf("Begin() error = %v", err)
	}
	if len(messages) != 3 {
		t.Fatalf("Begin() messages = %d, want 3", len(messages))
	}
	// Scripted IntN draws index 0, the first root in catalog order.
	if !strings.Contains(string(messages[1]), "Heavenly Root") {
		t.Errorf("root message = %q, want Heavenly Root", messages[1])
	}

	player, err := svc.store.GetPlayerByUser(ctx, "u1")
	if err != nil {
		t.Fatalf("GetPlayerByUser() error = %v", err)
	}
	if player.HP != 100 || player.RealmIndex != 0 {
		t.Errorf("new player HP %d realm %d, want 100 and 0", player.HP, player.RealmIndex)
	}

	_, err = svc.Begin(ctx, "u1", "")
	if apperrors.CodeOf(err) != apperrors.CodeInvalidState {
		t.Fatalf("second Begin() error = %v, want INVALID_STATE", err)
	}
}

func TestCheckInOncePerDay(t *testing.T) {
	clock := newClock()
	svc, _ := newTestService(t, &stubSource{uniform: 0.5}, clock)
	ctx := context.Background()
	beginPlayer(t, svc, "u1", "Cloud Seeker")

	if _, err := svc.CheckIn(ctx, "u1"); err != nil {
		t.Fatalf("CheckIn() error = %v", err)
	}
	player, err := svc.store.GetPlayerByUser(ctx, "u1")
	if err != nil {
		t.Fatalf("GetPlayerByUser() error = %v", err)
	}
	if player.Gold != 100 || player.Exp != 50 {
		t.Errorf("after check-in gold %d exp %d, want 100 and 50", player.Gold, player.Exp)
	}

	if _, err := svc.CheckIn(ctx, "u1"); apperrors.CodeOf(err) != apperrors.CodeInvalidState {
		t.Fatalf("same-day CheckIn() error = %v, want INVALID_STATE", err)
	}

	clock.advance(24 * time.Hour)
	if _, err := svc.CheckIn(ctx, "u1"); err != nil {
		t.Fatalf("next-day CheckIn() error = %v", err)
	}
}

func TestRenameTaken(t *testing.T) {
	svc, _ := newTestService(t, &stubSource{uniform: 0.5}, newClock())
	ctx := context.Background()
	beginPlayer(t, svc, "u1", "Cloud Seeker")
	beginPlayer(t, svc, "u2", "Mist Walker")

	_, err := svc.Rename(ctx, "u2", "Cloud Seeker")
	if apperrors.CodeOf(err) != apperrors.CodePlayerNameTaken {
		t.Fatalf("Rename() error = %v, want PLAYER_NAME_TAKEN", err)
	}
}

func TestMeditationCycle(t *testing.T) {
	clock := newClock()
	svc, store := newTestService(t, &stubSource{uniform: 0.5}, clock)
	ctx := context.Background()
	player := beginPlayer(t, svc, "u1", "Cloud Seeker")

	// Heavenly root multiplies meditation yield by 2.5.
	player.SpiritualRootID = "heavenly"
	savePlayer(t, store, player)

	if _, err := svc.MeditateBegin(ctx, "u1"); err != nil {
		t.Fatalf("MeditateBegin() error = %v", err)
	}
	if _, err := svc.MeditateBegin(ctx, "u1"); apperrors.CodeOf(err) != apperrors.CodeInvalidState {
		t.Fatalf("double MeditateBegin() error = %v, want INVALID_STATE", err)
	}

	clock.advance(60 * time.Minute)
	messages, err := svc.MeditateEnd(ctx, "u1")
	if err != nil {
		t.Fatalf("MeditateEnd() error = %v", err)
	}
	if len(messages) < 2 {
		t.Fatalf("MeditateEnd() messages = %d, want at least 2", len(messages))
	}

	got, err := store.GetPlayerByUser(ctx, "u1")
	if err != nil {
		t.Fatalf("GetPlayerByUser() error = %v", err)
	}
	if got.Exp != 1500 {
		t.Errorf("exp after 60 minutes = %d, want 1500", got.Exp)
	}
	if got.Meditating() {
		t.Error("player still meditating after MeditateEnd")
	}
}

func TestBreakthroughSuccess(t *testing.T) {
	svc, store := newTestService(t, &stubSource{uniform: 0}, newClock())
	ctx := context.Background()
	player := beginPlayer(t, svc, "u1", "Cloud Seeker")

	player.Exp = 150
	savePlayer(t, store, player)

	messages, err := svc.Breakthrough(ctx, "u1")
	if err != nil {
		t.Fatalf("Breakthrough() error = %v", err)
	}
	if !strings.Contains(string(messages[0]), "Foundation Establishment") {
		t.Errorf("breakthrough message = %q, want next realm name", messages[0])
	}

	got, err := store.GetPlayerByUser(ctx, "u1")
	if err != nil {
		t.Fatalf("GetPlayerByUser() error = %v", err)
	}
	if got.RealmIndex != 1 || got.Exp != 50 || got.Gold != 100 {
		t.Errorf("after breakthrough realm %d exp %d gold %d, want 1, 50, 100",
			got.RealmIndex, got.Exp, got.Gold)
	}
	if got.HP != 300 {
		t.Errorf("HP after breakthrough = %d, want new realm max 300", got.HP)
	}
}

func TestUseItemPill(t *testing.T) {
	svc, store := newTestService(t, &stubSource{uniform: 0.5}, newClock())
	ctx := context.Background()
	player := beginPlayer(t, svc, "u1", "Cloud Seeker")

	if err := store.AddItem(ctx, player.ID, "pill-foundation", 1); err != nil {
		t.Fatalf("AddItem() error = %v", err)
	}
	if _, err := svc.UseItem(ctx, "u1", "pill-foundation"); err != nil {
		t.Fatalf("UseItem() error = %v", err)
	}

	got, err := store.GetPlayerByUser(ctx, "u1")
	if err != nil {
		t.Fatalf("GetPlayerByUser() error = %v", err)
	}
	if got.BreakthroughBonus != 0.10 {
		t.Errorf("breakthrough bonus = %v, want 0.10", got.BreakthroughBonus)
	}
	quantity, err := store.ItemQuantity(ctx, player.ID, "pill-foundation")
	if err != nil {
		t.Fatalf("ItemQuantity() error = %v", err)
	}
	if quantity != 0 {
		t.Errorf("pill quantity after use = %d, want 0", quantity)
	}

	_, err = svc.UseItem(ctx, "u1", "pill-foundation")
	if apperrors.CodeOf(err) != apperrors.CodeInvalidState {
		t.Fatalf("UseItem() without stock error = %v, want INVALID_STATE", err)
	}
	_, err = svc.UseItem(ctx, "u1", "sword-iron")
	if apperrors.CodeOf(err) != apperrors.CodeInvalidState {
		t.Fatalf("UseItem() on equipment error = %v, want INVALID_STATE", err)
	}
}

func TestEquipUnequip(t *testing.T) {
	svc, store := newTestService(t, &stubSource{uniform: 0.5}, newClock())
	ctx := context.Background()
	player := beginPlayer(t, svc, "u1", "Cloud Seeker")

	if err := store.AddItem(ctx, player.ID, "sword-iron", 1); err != nil {
		t.Fatalf("AddItem() error = %v", err)
	}
	if _, err := svc.Equip(ctx, "u1", "sword-iron"); err != nil {
		t.Fatalf("Equip() error = %v", err)
	}

	got, err := store.GetPlayerByUser(ctx, "u1")
	if err != nil {
		t.Fatalf("GetPlayerByUser() error = %v", err)
	}
	if got.WeaponID != "sword-iron" {
		t.Errorf("WeaponID = %q, want sword-iron", got.WeaponID)
	}
	quantity, err := store.ItemQuantity(ctx, player.ID, "sword-iron")
	if err != nil {
		t.Fatalf("ItemQuantity() error = %v", err)
	}
	if quantity != 0 {
		t.Errorf("inventory after equip = %d, want 0", quantity)
	}

	if _, err := svc.Unequip(ctx, "u1", "weapon"); err != nil {
		t.Fatalf("Unequip() error = %v", err)
	}
	got, err = store.GetPlayerByUser(ctx, "u1")
	if err != nil {
		t.Fatalf("GetPlayerByUser() error = %v", err)
	}
	if got.WeaponID != "" {
		t.Errorf("WeaponID after unequip = %q, want empty", got.WeaponID)
	}
	if _, err := svc.Unequip(ctx, "u1", "weapon"); apperrors.CodeOf(err) != apperrors.CodeInvalidState {
		t.Fatalf("Unequip() empty slot error = %v, want INVALID_STATE", err)
	}
}

func TestHuntVictory(t *testing.T) {
	// IntN draws: template index 0 (first of the sorted non-boss pool),
	// then a zero tag count.
	rng := &stubSource{ints: []int{0, 0}, uniform: 0.5}
	svc, store := newTestService(t, rng, newClock())
	ctx := context.Background()
	player := beginPlayer(t, svc, "u1", "Cloud Seeker")

	player.RealmIndex = 4
	player.HP = 5000
	savePlayer(t, store, player)

	messages, err := svc.Hunt(ctx, "u1")
	if err != nil {
		t.Fatalf("Hunt() error = %v", err)
	}
	if len(messages) < 3 {
		t.Fatalf("Hunt() messages = %d, want at least 3", len(messages))
	}

	got, err := store.GetPlayerByUser(ctx, "u1")
	if err != nil {
		t.Fatalf("GetPlayerByUser() error = %v", err)
	}
	// Victory over a level-5 composed monster yields 50 experience and the
	// guaranteed gold drop.
	if got.Exp != 50 {
		t.Errorf("exp after hunt = %d, want 50", got.Exp)
	}
	if got.Gold != 400 {
		t.Errorf("gold after hunt = %d, want 400", got.Gold)
	}
	if got.HP <= 0 || got.HP > 5000 {
		t.Errorf("HP after hunt = %d, want within (0, 5000]", got.HP)
	}
}

func TestHuntBlockedStates(t *testing.T) {
	svc, store := newTestService(t, &stubSource{uniform: 0.5}, newClock())
	ctx := context.Background()
	player := beginPlayer(t, svc, "u1", "Cloud Seeker")

	if _, err := svc.MeditateBegin(ctx, "u1"); err != nil {
		t.Fatalf("MeditateBegin() error = %v", err)
	}
	if _, err := svc.Hunt(ctx, "u1"); apperrors.CodeOf(err) != apperrors.CodeInvalidState {
		t.Fatalf("Hunt() while meditating error = %v, want INVALID_STATE", err)
	}
	if _, err := svc.MeditateEnd(ctx, "u1"); err != nil {
		t.Fatalf("MeditateEnd() error = %v", err)
	}

	player, err := store.GetPlayerByUser(ctx, "u1")
	if err != nil {
		t.Fatalf("GetPlayerByUser() error = %v", err)
	}
	player.HP = 0
	savePlayer(t, store, player)
	if _, err := svc.Hunt(ctx, "u1"); apperrors.CodeOf(err) != apperrors.CodeInvalidState {
		t.Fatalf("Hunt() at zero HP error = %v, want INVALID_STATE", err)
	}
}

func TestSpar(t *testing.T) {
	svc, store := newTestService(t, &stubSource{uniform: 0.5}, newClock())
	ctx := context.Background()
	beginPlayer(t, svc, "u1", "Cloud Seeker")
	opponent := beginPlayer(t, svc, "u2", "Mist Walker")

	opponent.RealmIndex = 3
	savePlayer(t, store, opponent)

	messages, err := svc.Spar(ctx, "u1", "u2")
	if err != nil {
		t.Fatalf("Spar() error = %v", err)
	}
	if !strings.Contains(string(messages[1]), "Mist Walker prevails") {
		t.Errorf("spar outcome = %q, want the stronger cultivator to prevail", messages[1])
	}

	// Nothing persists from a spar.
	got, err := store.GetPlayerByUser(ctx, "u1")
	if err != nil {
		t.Fatalf("GetPlayerByUser() error = %v", err)
	}
	if got.HP != 100 {
		t.Errorf("HP after spar = %d, want untouched 100", got.HP)
	}

	if _, err := svc.Spar(ctx, "u1", "u1"); apperrors.CodeOf(err) != apperrors.CodeInvalidState {
		t.Fatalf("self Spar() error = %v, want INVALID_STATE", err)
	}
	if _, err := svc.Spar(ctx, "u1", "stranger"); apperrors.CodeOf(err) != apperrors.CodeInvalidState {
		t.Fatalf("Spar() with unknown opponent error = %v, want INVALID_STATE", err)
	}
}

func TestExploreDungeon(t *testing.T) {
	svc, store := newTestService(t, &stubSource{uniform: 0.5}, newClock())
	ctx := context.Background()
	player := beginPlayer(t, svc, "u1", "Cloud Seeker")

	player.RealmIndex = 5
	player.HP = 12000
	savePlayer(t, store, player)

	messages, err := svc.ExploreDungeon(ctx, "u1")
	if err != nil {
		t.Fatalf("ExploreDungeon() error = %v", err)
	}
	// Entry line plus one line per resolved floor at minimum.
	if len(messages) < 2 {
		t.Fatalf("ExploreDungeon() messages = %d, want at least 2", len(messages))
	}

	got, err := store.GetPlayerByUser(ctx, "u1")
	if err != nil {
		t.Fatalf("GetPlayerByUser() error = %v", err)
	}
	if got.Exp == 0 && got.Gold == 0 {
		t.Error("dungeon run yielded neither experience nor gold")
	}
}

func TestShopBuy(t *testing.T) {
	svc, store := newTestService(t, &stubSource{uniform: 0.5}, newClock())
	ctx := context.Background()
	player := beginPlayer(t, svc, "u1", "Cloud Seeker")

	if err := store.AddGold(ctx, player.ID, 1_000_000); err != nil {
		t.Fatalf("AddGold() error = %v", err)
	}

	messages, err := svc.ShopView(ctx, "u1")
	if err != nil {
		t.Fatalf("ShopView() error = %v", err)
	}
	if len(messages) != 9 {
		t.Fatalf("ShopView() messages = %d, want header plus 8 slots", len(messages))
	}

	slots, err := store.ShopDay(ctx, "2026-03-01")
	if err != nil {
		t.Fatalf("ShopDay() error = %v", err)
	}
	slot := slots[0]

	if _, err := svc.ShopBuy(ctx, "u1", slot.ItemID, 1); err != nil {
		t.Fatalf("ShopBuy() error = %v", err)
	}
	got, err := store.GetPlayerByUser(ctx, "u1")
	if err != nil {
		t.Fatalf("GetPlayerByUser() error = %v", err)
	}
	if got.Gold != 1_000_000-slot.Price {
		t.Errorf("gold after purchase = %d, want %d", got.Gold, 1_000_000-slot.Price)
	}
	quantity, err := store.ItemQuantity(ctx, player.ID, slot.ItemID)
	if err != nil {
		t.Fatalf("ItemQuantity() error = %v", err)
	}
	if quantity != 1 {
		t.Errorf("inventory after purchase = %d, want 1", quantity)
	}

	after, err := store.ShopDay(ctx, "2026-03-01")
	if err != nil {
		t.Fatalf("ShopDay() error = %v", err)
	}
	if after[0].Stock != slot.Stock-1 {
		t.Errorf("stock after purchase = %d, want %d", after[0].Stock, slot.Stock-1)
	}
}

func TestShopDayStableAcrossMidnight(t *testing.T) {
	store, err := sqlite.Open(filepath.Join(t.TempDir(), "game.sqlite"))
	if err != nil {
		t.Fatalf("sqlite.Open() error = %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("Close() error = %v", err)
		}
	})
	cat, err := catalog.Default()
	if err != nil {
		t.Fatalf("catalog.Default() error = %v", err)
	}

	// The clock crosses midnight between reads: the snapshot must still be
	// the first day's offer under the first day's key.
	times := []time.Time{
		time.Date(2026, 8, 30, 23, 59, 59, 0, time.UTC),
		time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC),
	}
	calls := 0
	now := func() time.Time {
		at := times[len(times)-1]
		if calls < len(times) {
			at = times[calls]
		}
		calls++
		return at
	}
	svc := New(store, cat, &stubSource{uniform: 0.5}, now)
	ctx := context.Background()

	if _, err := svc.ShopView(ctx, "u1"); err != nil {
		t.Fatalf("ShopView() error = %v", err)
	}

	want := make(map[string]economy.ShopSlot)
	for _, slot := range economy.DailyStock(cat, times[0]) {
		want[slot.ItemID] = slot
	}
	slots, err := store.ShopDay(ctx, economy.DayKey(times[0]))
	if err != nil {
		t.Fatalf("ShopDay() error = %v", err)
	}
	if len(slots) != len(want) {
		t.Fatalf("snapshot slots = %d, want %d", len(slots), len(want))
	}
	for _, slot := range slots {
		expected, ok := want[slot.ItemID]
		if !ok {
			t.Fatalf("snapshot contains %s, absent from that day's offer", slot.ItemID)
		}
		if slot.Price != expected.Price || slot.Stock != expected.Stock {
			t.Fatalf("slot %s = price %d stock %d, want price %d stock %d",
				slot.ItemID, slot.Price, slot.Stock, expected.Price, expected.Stock)
		}
	}

	next, err := store.ShopDay(ctx, economy.DayKey(times[1]))
	if err != nil {
		t.Fatalf("ShopDay() error = %v", err)
	}
	if len(next) != 0 {
		t.Fatalf("next-day snapshot = %d slots, want none", len(next))
	}
}

func TestBankDepositWithdraw(t *testing.T) {
	clock := newClock()
	svc, store := newTestService(t, &stubSource{uniform: 0.5}, clock)
	ctx := context.Background()
	player := beginPlayer(t, svc, "u1", "Cloud Seeker")

	if err := store.AddGold(ctx, player.ID, 1000); err != nil {
		t.Fatalf("AddGold() error = %v", err)
	}
	if _, err := svc.BankDeposit(ctx, "u1", "fixed", 1000); err != nil {
		t.Fatalf("BankDeposit() error = %v", err)
	}
	deposits, err := store.ListDeposits(ctx, player.ID)
	if err != nil {
		t.Fatalf("ListDeposits() error = %v", err)
	}
	if len(deposits) != 1 || deposits[0].Principal != 1000 {
		t.Fatalf("deposits = %+v, want one with principal 1000", deposits)
	}

	_, err = svc.BankWithdraw(ctx, "u1", deposits[0].ID)
	if apperrors.CodeOf(err) != apperrors.CodeHoldPeriod {
		t.Fatalf("early BankWithdraw() error = %v, want HOLD_PERIOD", err)
	}

	clock.advance(24 * time.Hour)
	if _, err := svc.BankWithdraw(ctx, "u1", deposits[0].ID); err != nil {
		t.Fatalf("BankWithdraw() error = %v", err)
	}

	got, err := store.GetPlayerByUser(ctx, "u1")
	if err != nil {
		t.Fatalf("GetPlayerByUser() error = %v", err)
	}
	// floor(1000 * 1.005^24) = 1127.
	if got.Gold != 1127 {
		t.Errorf("gold after withdrawal = %d, want 1127", got.Gold)
	}
	if remaining, err := store.ListDeposits(ctx, player.ID); err != nil || len(remaining) != 0 {
		t.Errorf("deposits after withdrawal = %v (err %v), want none", remaining, err)
	}
}

func TestTransfer(t *testing.T) {
	svc, store := newTestService(t, &stubSource{uniform: 0.5}, newClock())
	ctx := context.Background()
	sender := beginPlayer(t, svc, "u1", "Cloud Seeker")
	recipient := beginPlayer(t, svc, "u2", "Mist Walker")

	if err := store.AddGold(ctx, sender.ID, 500); err != nil {
		t.Fatalf("AddGold() error = %v", err)
	}
	if _, err := svc.Transfer(ctx, "u1", "u2", 200); err != nil {
		t.Fatalf("Transfer() error = %v", err)
	}

	gotSender, err := store.GetPlayer(ctx, sender.ID)
	if err != nil {
		t.Fatalf("GetPlayer() error = %v", err)
	}
	gotRecipient, err := store.GetPlayer(ctx, recipient.ID)
	if err != nil {
		t.Fatalf("GetPlayer() error = %v", err)
	}
	if gotSender.Gold != 300 || gotRecipient.Gold != 200 {
		t.Errorf("balances = %d/%d, want 300/200", gotSender.Gold, gotRecipient.Gold)
	}

	_, err = svc.Transfer(ctx, "u1", "u2", 10_000)
	if apperrors.CodeOf(err) != apperrors.CodeInsufficientFunds {
		t.Fatalf("overdrawn Transfer() error = %v, want INSUFFICIENT_FUNDS", err)
	}
}

func TestBossLifecycle(t *testing.T) {
	clock := newClock()
	rng := &stubSource{uniform: 0.5}
	svc, store := newTestService(t, rng, clock)
	ctx := context.Background()
	player := beginPlayer(t, svc, "u1", "Cloud Seeker")

	// A late-realm player can bring the spawned boss down alone.
	player.RealmIndex = 9
	player.HP = 480000
	savePlayer(t, store, player)

	if _, err := svc.BossAttack(ctx, "u1"); apperrors.CodeOf(err) != apperrors.CodeInvalidState {
		t.Fatalf("BossAttack() with no boss error = %v, want INVALID_STATE", err)
	}

	messages, err := svc.BossSpawn(ctx, "u1")
	if err != nil {
		t.Fatalf("BossSpawn() error = %v", err)
	}
	if !strings.Contains(string(messages[0]), "descends") {
		t.Errorf("spawn message = %q, want a descent announcement", messages[0])
	}
	if _, err := svc.BossSpawn(ctx, "u1"); apperrors.CodeOf(err) != apperrors.CodeInvalidState {
		t.Fatalf("second BossSpawn() error = %v, want INVALID_STATE", err)
	}

	boss, err := store.ActiveBoss(ctx)
	if err != nil {
		t.Fatalf("ActiveBoss() error = %v", err)
	}

	for i := 0; i < 50; i++ {
		if _, err := store.ActiveBoss(ctx); errors.Is(err, storage.ErrNotFound) {
			break
		}
		if _, err := svc.BossAttack(ctx, "u1"); err != nil {
			t.Fatalf("BossAttack() error = %v", err)
		}
	}
	if _, err := store.ActiveBoss(ctx); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("boss still active after sustained attacks: %v", err)
	}

	// Defeat paid the proportional pool to the sole participant.
	got, err := store.GetPlayerByUser(ctx, "u1")
	if err != nil {
		t.Fatalf("GetPlayerByUser() error = %v", err)
	}
	pool := int64(500) * int64(boss.Level)
	if got.Gold != pool {
		t.Errorf("gold after solo kill = %d, want full pool %d", got.Gold, pool)
	}

	// The template's respawn cooldown is set at defeat.
	until, err := store.BossCooldown(ctx, boss.TemplateID)
	if err != nil {
		t.Fatalf("BossCooldown() error = %v", err)
	}
	if want := clock.at.Add(24 * time.Hour); !until.Equal(want) {
		t.Errorf("cooldown until = %v, want %v", until, want)
	}
}

func TestBossExpiry(t *testing.T) {
	clock := newClock()
	svc, store := newTestService(t, &stubSource{uniform: 0.5}, clock)
	ctx := context.Background()
	beginPlayer(t, svc, "u1", "Cloud Seeker")

	if _, err := svc.BossSpawn(ctx, "u1"); err != nil {
		t.Fatalf("BossSpawn() error = %v", err)
	}
	boss, err := store.ActiveBoss(ctx)
	if err != nil {
		t.Fatalf("ActiveBoss() error = %v", err)
	}

	clock.advance(3 * time.Hour)
	messages, err := svc.BossStatus(ctx, "u1")
	if err != nil {
		t.Fatalf("BossStatus() error = %v", err)
	}
	if !strings.Contains(string(messages[0]), "left this realm") {
		t.Errorf("status message = %q, want departure notice", messages[0])
	}
	if _, err := store.ActiveBoss(ctx); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expired boss still active: %v", err)
	}
	if _, err := store.BossCooldown(ctx, boss.TemplateID); err != nil {
		t.Errorf("BossCooldown() after expiry error = %v, want recorded", err)
	}
}

func TestRouterDispatch(t *testing.T) {
	svc, _ := newTestService(t, &stubSource{uniform: 0.5}, newClock())
	router := NewRouter(svc)
	ctx := context.Background()

	// Player-gated actions answer with the onboarding hint, not an error.
	messages, err := router.Dispatch(ctx, "profile", Request{UserID: "u1"})
	if err != nil {
		t.Fatalf("Dispatch(profile) error = %v", err)
	}
	if !strings.Contains(string(messages[0]), "not begun cultivating") {
		t.Errorf("gate message = %q, want onboarding hint", messages[0])
	}

	if _, err := router.Dispatch(ctx, "begin", Request{UserID: "u1", Args: map[string]string{"name": "Cloud Seeker"}}); err != nil {
		t.Fatalf("Dispatch(begin) error = %v", err)
	}
	if _, err := router.Dispatch(ctx, "profile", Request{UserID: "u1"}); err != nil {
		t.Fatalf("Dispatch(profile) after begin error = %v", err)
	}

	// User-correctable failures surface as messages at the boundary.
	messages, err = router.Dispatch(ctx, "begin", Request{UserID: "u1"})
	if err != nil {
		t.Fatalf("Dispatch(begin) repeat error = %v", err)
	}
	if !strings.Contains(string(messages[0]), "already begun") {
		t.Errorf("converted failure = %q, want already-begun message", messages[0])
	}

	_, err = router.Dispatch(ctx, "ascend-to-godhood", Request{UserID: "u1"})
	if apperrors.CodeOf(err) != apperrors.CodeNotFound {
		t.Fatalf("unknown action error = %v, want NOT_FOUND", err)
	}
}
