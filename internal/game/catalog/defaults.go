package catalog

import (
	"strings"
	"time"
)

// Default returns the built-in catalog content.
func Default() (*Catalog, error) {
	return New(DefaultData())
}

// DefaultData returns the raw built-in catalog content for callers that want
// to adjust it before validation, such as tests.
func DefaultData() Data {
	return Data{
		Realms:    defaultRealms(),
		Roots:     defaultRoots(),
		Items:     defaultItems(),
		Templates: defaultTemplates(),
		Tags:      defaultTags(),
		Dungeon: DungeonProfile{
			BaseFloors:    3,
			MonsterChance: 0.7,
			BossStrength:  0.7,
		},
		Rates: map[DepositKind]RateClass{
			DepositFixed:   {Kind: DepositFixed, MinHold: 24 * time.Hour, HourlyRate: 1.005},
			DepositCurrent: {Kind: DepositCurrent, MinHold: time.Hour, HourlyRate: 1.001},
		},
		Tuning: Tuning{
			BaseExpPerMinute:      10,
			MaxMeditationMinutes:  8 * 60,
			ExpPerHPRestored:      10,
			BreakthroughFailBurn:  0.1,
			LevelGapThreshold:     2,
			LevelAdvantageBonus:   1.2,
			LevelAdvantagePenalty: 0.8,
			GrowthPerLevel:        0.1,
			MaxRounds:             30,
			ShopSlots:             8,
			BossCooldown:          24 * time.Hour,
			BossExpiry:            2 * time.Hour,
			BossRewardPerLevel:    500,
			CheckInGold:           100,
			CheckInExp:            50,
			RerollRootCost:        1000,
			TreasureGoldPerLevel:  40,
		},
	}
}

func defaultRealms() []RealmTier {
	return []RealmTier{
		{Name: "Qi Refining", RequiredExp: 100, BreakthroughRate: 0.95, GoldReward: 100, BaseHP: 100, BaseAttack: 20, BaseDefense: 10, SpiritPower: 10, MentalPower: 10},
		{Name: "Foundation Establishment", RequiredExp: 500, BreakthroughRate: 0.85, GoldReward: 300, BaseHP: 300, BaseAttack: 50, BaseDefense: 25, SpiritPower: 25, MentalPower: 20},
		{Name: "Core Formation", RequiredExp: 2000, BreakthroughRate: 0.70, GoldReward: 800, BaseHP: 800, BaseAttack: 120, BaseDefense: 60, SpiritPower: 60, MentalPower: 45},
		{Name: "Nascent Soul", RequiredExp: 8000, BreakthroughRate: 0.55, GoldReward: 2000, BaseHP: 2000, BaseAttack: 300, BaseDefense: 150, SpiritPower: 140, MentalPower: 100},
		{Name: "Spirit Severing", RequiredExp: 30000, BreakthroughRate: 0.40, GoldReward: 5000, BaseHP: 5000, BaseAttack: 700, BaseDefense: 350, SpiritPower: 320, MentalPower: 220},
		{Name: "Void Refinement", RequiredExp: 100000, BreakthroughRate: 0.30, GoldReward: 12000, BaseHP: 12000, BaseAttack: 1600, BaseDefense: 800, SpiritPower: 700, MentalPower: 480},
		{Name: "Body Integration", RequiredExp: 350000, BreakthroughRate: 0.20, GoldReward: 30000, BaseHP: 30000, BaseAttack: 3800, BaseDefense: 1900, SpiritPower: 1600, MentalPower: 1050},
		{Name: "Tribulation Transcendence", RequiredExp: 1200000, BreakthroughRate: 0.12, GoldReward: 80000, BaseHP: 75000, BaseAttack: 9000, BaseDefense: 4500, SpiritPower: 3600, MentalPower: 2300},
		{Name: "Mahayana", RequiredExp: 4000000, BreakthroughRate: 0.06, GoldReward: 200000, BaseHP: 190000, BaseAttack: 22000, BaseDefense: 11000, SpiritPower: 8000, MentalPower: 5000},
		{Name: "True Immortal", RequiredExp: 0, BreakthroughRate: 0, GoldReward: 0, BaseHP: 480000, BaseAttack: 54000, BaseDefense: 27000, SpiritPower: 18000, MentalPower: 11000},
	}
}

func defaultRoots() []SpiritualRoot {
	elements := []string{"Metal", "Wood", "Water", "Fire", "Earth"}
	roots := make([]SpiritualRoot, 0, 17)
	roots = append(roots, SpiritualRoot{ID: "heavenly", Name: "Heavenly Root", Multiplier: 2.5})
	for _, e := range elements {
		roots = append(roots, SpiritualRoot{
			ID:         "single-" + strings.ToLower(e),
			Name:       e + " Root",
			Multiplier: 2.0,
		})
	}
	for i := 0; i < len(elements); i++ {
		for j := i + 1; j < len(elements); j++ {
			roots = append(roots, SpiritualRoot{
				ID:         "dual-" + strings.ToLower(elements[i]) + "-" + strings.ToLower(elements[j]),
				Name:       elements[i] + "-" + elements[j] + " Dual Root",
				Multiplier: 1.2,
			})
		}
	}
	roots = append(roots, SpiritualRoot{ID: "mortal", Name: "Mortal Root", Multiplier: 0.5})
	return roots
}

func defaultItems() []Item {
	return []Item{
		{ID: "pill-qi-gathering", Name: "Qi Gathering Pill", Kind: ItemKindPill, Grade: 1, Price: 200,
			Pill: &PillEffect{Exp: 100}},
		{ID: "pill-spirit-spring", Name: "Spirit Spring Pill", Kind: ItemKindPill, Grade: 1, Price: 350,
			Pill: &PillEffect{HP: 200}},
		{ID: "pill-foundation", Name: "Foundation Pill", Kind: ItemKindPill, Grade: 2, Price: 1500,
			Pill: &PillEffect{BreakthroughBonus: 0.10}},
		{ID: "pill-golden-core", Name: "Golden Core Pill", Kind: ItemKindPill, Grade: 3, Price: 8000,
			Pill: &PillEffect{BreakthroughBonus: 0.20}},
		{ID: "pill-heaven-mending", Name: "Heaven Mending Pill", Kind: ItemKindPill, Grade: 4, Price: 60000,
			Pill: &PillEffect{BreakthroughBonus: 0.35}},
		{ID: "pill-starlight", Name: "Starlight Pill", Kind: ItemKindPill, Grade: 2, Price: 2500,
			Pill: &PillEffect{Exp: 1500}},
		{ID: "sword-iron", Name: "Iron Sword", Kind: ItemKindEquipment, Grade: 1, Price: 400, Slot: SlotWeapon,
			Equip: &EquipBonus{Attack: 15}},
		{ID: "sword-azure-edge", Name: "Azure Edge", Kind: ItemKindEquipment, Grade: 2, Price: 3000, Slot: SlotWeapon,
			Equip: &EquipBonus{Attack: 90}},
		{ID: "sword-dragon-fang", Name: "Dragon Fang Blade", Kind: ItemKindEquipment, Grade: 3, Price: 25000, Slot: SlotWeapon,
			Equip: &EquipBonus{Attack: 600, HP: 500}},
		{ID: "robe-linen", Name: "Linen Robe", Kind: ItemKindEquipment, Grade: 1, Price: 300, Slot: SlotArmor,
			Equip: &EquipBonus{Defense: 10, HP: 50}},
		{ID: "robe-cloudsilk", Name: "Cloudsilk Robe", Kind: ItemKindEquipment, Grade: 2, Price: 2600, Slot: SlotArmor,
			Equip: &EquipBonus{Defense: 70, HP: 300}},
		{ID: "armor-profound-turtle", Name: "Profound Turtle Armor", Kind: ItemKindEquipment, Grade: 3, Price: 22000, Slot: SlotArmor,
			Equip: &EquipBonus{Defense: 450, HP: 2500}},
	}
}

func defaultTemplates() []MonsterTemplate {
	return []MonsterTemplate{
		{ID: "wolf-spirit", Name: "Spirit Wolf", Level: 1, HP: 80, Attack: 18, Defense: 6,
			Loot: []LootEntry{{Gold: 30, Chance: 1}, {ItemID: "pill-qi-gathering", Chance: 0.15}}},
		{ID: "boar-ironhide", Name: "Ironhide Boar", Level: 2, HP: 160, Attack: 28, Defense: 18,
			Loot: []LootEntry{{Gold: 60, Chance: 1}, {ItemID: "robe-linen", Chance: 0.08}}},
		{ID: "serpent-mist", Name: "Mist Serpent", Level: 3, HP: 280, Attack: 60, Defense: 24,
			Loot: []LootEntry{{Gold: 140, Chance: 1}, {ItemID: "pill-spirit-spring", Chance: 0.12}}},
		{ID: "ape-stoneback", Name: "Stoneback Ape", Level: 4, HP: 700, Attack: 130, Defense: 70,
			Loot: []LootEntry{{Gold: 400, Chance: 1}, {ItemID: "sword-iron", Chance: 0.1}}},
		{ID: "crane-void", Name: "Void Crane", Level: 5, HP: 1600, Attack: 320, Defense: 140,
			Loot: []LootEntry{{Gold: 1100, Chance: 1}, {ItemID: "pill-foundation", Chance: 0.1}}},
		{ID: "tiger-thunder", Name: "Thunder Tiger", Level: 6, HP: 4200, Attack: 760, Defense: 360,
			Loot: []LootEntry{{Gold: 3000, Chance: 1}, {ItemID: "sword-azure-edge", Chance: 0.06}}},
		{ID: "boss-flame-drake", Name: "Flame Drake", Level: 4, Boss: true, HP: 4000, Attack: 260, Defense: 120,
			Loot: []LootEntry{{Gold: 2500, Chance: 1}, {ItemID: "pill-golden-core", Chance: 0.25}}},
		{ID: "boss-abyss-kraken", Name: "Abyss Kraken", Level: 6, Boss: true, HP: 22000, Attack: 1400, Defense: 600,
			Loot: []LootEntry{{Gold: 15000, Chance: 1}, {ItemID: "sword-dragon-fang", Chance: 0.15}}},
		{ID: "boss-shadow-monarch", Name: "Shadow Monarch", Level: 8, Boss: true, HP: 120000, Attack: 7800, Defense: 3400,
			Loot: []LootEntry{{Gold: 90000, Chance: 1}, {ItemID: "pill-heaven-mending", Chance: 0.2}}},
	}
}

func defaultTags() []Tag {
	return []Tag{
		{ID: "frenzied", Affix: "Frenzied", HPMul: 0.9, AttackMul: 1.4, DefenseMul: 0.8,
			Loot: []LootEntry{{Gold: 50, Chance: 1}}},
		{ID: "ancient", Affix: "Ancient", HPMul: 1.6, AttackMul: 1.1, DefenseMul: 1.3,
			Loot: []LootEntry{{Gold: 200, Chance: 1}}},
		{ID: "venomous", Affix: "Venomous", HPMul: 1.0, AttackMul: 1.25, DefenseMul: 1.0,
			Loot: []LootEntry{{ItemID: "pill-spirit-spring", Chance: 0.1}}},
		{ID: "armored", Affix: "Armored", HPMul: 1.2, AttackMul: 0.9, DefenseMul: 1.7,
			Loot: []LootEntry{{Gold: 120, Chance: 1}}},
		{ID: "spectral", Affix: "Spectral", HPMul: 0.8, AttackMul: 1.2, DefenseMul: 1.2},
		{ID: "alpha", Affix: "Alpha", HPMul: 1.3, AttackMul: 1.3, DefenseMul: 1.1,
			Loot: []LootEntry{{Gold: 150, Chance: 1}}},
	}
}
