// Package catalog holds the immutable game configuration: realm tiers, item
// definitions, monster templates, generation tags, spiritual roots, dungeon
// profiles and bank rate classes.
//
// A Catalog is built once at process start, validated, and passed to every
// engine constructor. Engines never mutate it.
package catalog

import (
	"fmt"
	"sort"
	"time"

	apperrors "github.com/tianji-games/ascension/internal/platform/errors"
)

// RealmTier is one step of the cultivation ladder.
type RealmTier struct {
	Name             string
	RequiredExp      int64 // cumulative experience needed to attempt breakthrough
	BreakthroughRate float64
	GoldReward       int64 // paid out on a successful breakthrough

	BaseHP      int
	BaseAttack  int
	BaseDefense int
	SpiritPower int
	MentalPower int
}

// SpiritualRoot is a player archetype fixed at creation. The multiplier
// scales all experience gained from meditation.
type SpiritualRoot struct {
	ID         string
	Name       string
	Multiplier float64
}

// ItemKind distinguishes consumable pills from persistent equipment.
type ItemKind int

const (
	ItemKindPill ItemKind = iota
	ItemKindEquipment
)

// EquipSlot is the equipment slot an item occupies.
type EquipSlot int

const (
	SlotNone EquipSlot = iota
	SlotWeapon
	SlotArmor
)

// PillEffect is applied once when a pill is consumed.
type PillEffect struct {
	Exp               int64
	HP                int
	BreakthroughBonus float64 // added to the next breakthrough attempt's rate
}

// EquipBonus applies continuously while the item is equipped.
type EquipBonus struct {
	HP      int
	Attack  int
	Defense int
}

// Item is a purchasable, usable or equippable definition.
type Item struct {
	ID    string
	Name  string
	Kind  ItemKind
	Grade int
	Price int64
	Slot  EquipSlot

	Pill  *PillEffect
	Equip *EquipBonus
}

// LootEntry is one possible drop from a defeated combatant.
type LootEntry struct {
	ItemID string
	Chance float64
	Gold   int64
}

// MonsterTemplate supplies base stats and loot for tag composition.
type MonsterTemplate struct {
	ID    string
	Name  string
	Level int // intrinsic reference level the base stats assume
	Boss  bool

	HP      int
	Attack  int
	Defense int

	Loot []LootEntry
}

// Tag modifies a template multiplicatively and contributes a name affix.
type Tag struct {
	ID    string
	Affix string

	HPMul      float64
	AttackMul  float64
	DefenseMul float64

	Loot []LootEntry
}

// DungeonProfile controls secret-realm generation.
type DungeonProfile struct {
	BaseFloors    int
	MonsterChance float64
	BossStrength  float64 // fraction of the player level the final boss is composed at
}

// DepositKind distinguishes the two banking products.
type DepositKind int

const (
	DepositFixed DepositKind = iota
	DepositCurrent
)

// RateClass defines a banking product: minimum hold before withdrawal and
// the hourly compounding multiplier.
type RateClass struct {
	Kind       DepositKind
	MinHold    time.Duration
	HourlyRate float64
}

// Tuning gathers engine constants that are configuration rather than code.
type Tuning struct {
	BaseExpPerMinute      int64
	MaxMeditationMinutes  int64
	ExpPerHPRestored      int64 // meditation restores 1 HP per this much exp gained
	BreakthroughFailBurn  float64
	LevelGapThreshold     int
	LevelAdvantageBonus   float64
	LevelAdvantagePenalty float64
	GrowthPerLevel        float64 // stat scaling per level above a template's reference
	MaxRounds             int
	ShopSlots             int
	BossCooldown          time.Duration
	BossExpiry            time.Duration
	BossRewardPerLevel    int64
	CheckInGold           int64
	CheckInExp            int64
	RerollRootCost        int64
	TreasureGoldPerLevel  int64
}

// Data is the raw catalog content prior to validation.
type Data struct {
	Realms    []RealmTier
	Roots     []SpiritualRoot
	Items     []Item
	Templates []MonsterTemplate
	Tags      []Tag
	Dungeon   DungeonProfile
	Rates     map[DepositKind]RateClass
	Tuning    Tuning
}

// Catalog is the validated, immutable configuration set.
type Catalog struct {
	realms    []RealmTier
	roots     []SpiritualRoot
	rootIndex map[string]int
	items     map[string]Item
	itemOrder []string
	templates map[string]MonsterTemplate
	bossPool  []string
	tags      map[string]Tag
	dungeon   DungeonProfile
	rates     map[DepositKind]RateClass
	tuning    Tuning
}

// New validates data and builds a Catalog.
func New(data Data) (*Catalog, error) {
	if len(data.Realms) == 0 {
		return nil, fmt.Errorf("catalog requires at least one realm tier")
	}
	for i, tier := range data.Realms {
		if tier.Name == "" {
			return nil, fmt.Errorf("realm tier %d has no name", i)
		}
		if tier.RequiredExp < 0 {
			return nil, fmt.Errorf("realm tier %q has negative required exp", tier.Name)
		}
		if tier.BreakthroughRate < 0 || tier.BreakthroughRate > 1 {
			return nil, fmt.Errorf("realm tier %q breakthrough rate out of [0,1]", tier.Name)
		}
	}
	if len(data.Roots) == 0 {
		return nil, fmt.Errorf("catalog requires spiritual roots")
	}

	cat := &Catalog{
		realms:    data.Realms,
		roots:     data.Roots,
		rootIndex: make(map[string]int, len(data.Roots)),
		items:     make(map[string]Item, len(data.Items)),
		itemOrder: make([]string, 0, len(data.Items)),
		templates: make(map[string]MonsterTemplate, len(data.Templates)),
		tags:      make(map[string]Tag, len(data.Tags)),
		dungeon:   data.Dungeon,
		rates:     data.Rates,
		tuning:    data.Tuning,
	}
	for i, root := range data.Roots {
		if root.Multiplier <= 0 {
			return nil, fmt.Errorf("spiritual root %q has non-positive multiplier", root.ID)
		}
		if _, dup := cat.rootIndex[root.ID]; dup {
			return nil, fmt.Errorf("duplicate spiritual root %q", root.ID)
		}
		cat.rootIndex[root.ID] = i
	}
	for _, item := range data.Items {
		if item.ID == "" {
			return nil, fmt.Errorf("item %q has no id", item.Name)
		}
		if _, dup := cat.items[item.ID]; dup {
			return nil, fmt.Errorf("duplicate item %q", item.ID)
		}
		if item.Kind == ItemKindPill && item.Pill == nil {
			return nil, fmt.Errorf("pill %q has no effect", item.ID)
		}
		if item.Kind == ItemKindEquipment && (item.Equip == nil || item.Slot == SlotNone) {
			return nil, fmt.Errorf("equipment %q has no bonus or slot", item.ID)
		}
		cat.items[item.ID] = item
		cat.itemOrder = append(cat.itemOrder, item.ID)
	}
	for _, tmpl := range data.Templates {
		if _, dup := cat.templates[tmpl.ID]; dup {
			return nil, fmt.Errorf("duplicate monster template %q", tmpl.ID)
		}
		cat.templates[tmpl.ID] = tmpl
		if tmpl.Boss {
			cat.bossPool = append(cat.bossPool, tmpl.ID)
		}
	}
	if len(cat.templates)-len(cat.bossPool) == 0 {
		return nil, fmt.Errorf("catalog requires at least one huntable monster template")
	}
	if len(cat.bossPool) == 0 {
		return nil, fmt.Errorf("catalog requires at least one boss template")
	}
	for _, tag := range data.Tags {
		if _, dup := cat.tags[tag.ID]; dup {
			return nil, fmt.Errorf("duplicate tag %q", tag.ID)
		}
		cat.tags[tag.ID] = tag
	}
	if cat.dungeon.BaseFloors <= 0 {
		return nil, fmt.Errorf("dungeon profile requires positive base floors")
	}
	if cat.dungeon.MonsterChance < 0 || cat.dungeon.MonsterChance > 1 {
		return nil, fmt.Errorf("dungeon monster chance out of [0,1]")
	}
	if len(cat.rates) == 0 {
		return nil, fmt.Errorf("catalog requires bank rate classes")
	}
	return cat, nil
}

// Realm returns the tier at index.
func (c *Catalog) Realm(index int) (RealmTier, error) {
	if index < 0 || index >= len(c.realms) {
		return RealmTier{}, apperrors.WithMetadata(apperrors.CodeConfigLookup,
			"unknown realm tier", map[string]string{"index": fmt.Sprint(index)})
	}
	return c.realms[index], nil
}

// RealmCount reports the number of tiers on the ladder.
func (c *Catalog) RealmCount() int {
	return len(c.realms)
}

// Root returns a spiritual root by id.
func (c *Catalog) Root(id string) (SpiritualRoot, error) {
	i, ok := c.rootIndex[id]
	if !ok {
		return SpiritualRoot{}, apperrors.WithMetadata(apperrors.CodeConfigLookup,
			"unknown spiritual root", map[string]string{"id": id})
	}
	return c.roots[i], nil
}

// Roots returns every spiritual root in catalog order.
func (c *Catalog) Roots() []SpiritualRoot {
	return c.roots
}

// Item returns an item definition by id.
func (c *Catalog) Item(id string) (Item, error) {
	item, ok := c.items[id]
	if !ok {
		return Item{}, apperrors.WithMetadata(apperrors.CodeConfigLookup,
			"unknown item", map[string]string{"id": id})
	}
	return item, nil
}

// ItemIDs returns every item id in catalog order.
func (c *Catalog) ItemIDs() []string {
	return c.itemOrder
}

// Template returns a monster template by id.
func (c *Catalog) Template(id string) (MonsterTemplate, error) {
	tmpl, ok := c.templates[id]
	if !ok {
		return MonsterTemplate{}, apperrors.WithMetadata(apperrors.CodeConfigLookup,
			"unknown monster template", map[string]string{"id": id})
	}
	return tmpl, nil
}

// TemplateIDs returns non-boss template ids in stable order.
func (c *Catalog) TemplateIDs() []string {
	ids := make([]string, 0, len(c.templates))
	for _, id := range c.itemOrderedTemplates() {
		if !c.templates[id].Boss {
			ids = append(ids, id)
		}
	}
	return ids
}

// BossTemplateIDs returns boss template ids in stable order.
func (c *Catalog) BossTemplateIDs() []string {
	return c.bossPool
}

// Tag returns a generation tag by id.
func (c *Catalog) Tag(id string) (Tag, error) {
	tag, ok := c.tags[id]
	if !ok {
		return Tag{}, apperrors.WithMetadata(apperrors.CodeConfigLookup,
			"unknown tag", map[string]string{"id": id})
	}
	return tag, nil
}

// TagIDs returns every tag id in stable order.
func (c *Catalog) TagIDs() []string {
	ids := make([]string, 0, len(c.tags))
	for id := range c.tags {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Dungeon returns the dungeon generation profile.
func (c *Catalog) Dungeon() DungeonProfile {
	return c.dungeon
}

// Rate returns the rate class for a deposit kind.
func (c *Catalog) Rate(kind DepositKind) (RateClass, error) {
	rate, ok := c.rates[kind]
	if !ok {
		return RateClass{}, apperrors.WithMetadata(apperrors.CodeConfigLookup,
			"unknown deposit kind", map[string]string{"kind": fmt.Sprint(int(kind))})
	}
	return rate, nil
}

// Tuning returns the engine constants.
func (c *Catalog) Tuning() Tuning {
	return c.tuning
}

func (c *Catalog) itemOrderedTemplates() []string {
	ids := make([]string, 0, len(c.templates))
	for id := range c.templates {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
