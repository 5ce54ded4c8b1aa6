// Package economy implements the shop, banking and world-boss reward rules.
//
// Stock generation is pure and deterministic per calendar date; the atomic
// purchase and transfer paths live in storage, which this package's rules
// feed.
package economy

import (
	"time"

	"github.com/tianji-games/ascension/internal/game/catalog"
	"github.com/tianji-games/ascension/internal/platform/random"
)

// ShopSlot is one offered item with its initial daily stock.
type ShopSlot struct {
	ItemID string
	Price  int64
	Stock  int
}

// DailyStock generates the shop offer for a calendar date. Every process
// generating stock for the same date produces the identical result: the
// random source is seeded from the date alone.
//
// Stock per item falls as price rises, drawn from fixed price brackets.
func DailyStock(cat *catalog.Catalog, date time.Time) []ShopSlot {
	rng := random.New(random.DateSeed(date))

	ids := cat.ItemIDs()
	slots := cat.Tuning().ShopSlots
	if slots > len(ids) {
		slots = len(ids)
	}

	perm := rng.Perm(len(ids))
	offer := make([]ShopSlot, 0, slots)
	for _, i := range perm[:slots] {
		item, err := cat.Item(ids[i])
		if err != nil {
			// Item ids come from the catalog itself.
			continue
		}
		offer = append(offer, ShopSlot{
			ItemID: item.ID,
			Price:  item.Price,
			Stock:  stockFor(item.Price, rng),
		})
	}
	return offer
}

// stockFor draws an initial stock level inversely related to price.
func stockFor(price int64, rng random.Source) int {
	low, high := stockBracket(price)
	return low + rng.IntN(high-low+1)
}

func stockBracket(price int64) (int, int) {
	switch {
	case price <= 500:
		return 15, 25
	case price <= 2000:
		return 8, 15
	case price <= 10000:
		return 3, 8
	case price <= 100000:
		return 2, 5
	default:
		return 1, 3
	}
}

// DayKey formats a date as the canonical shop-day key.
func DayKey(date time.Time) string {
	return date.UTC().Format("2006-01-02")
}
