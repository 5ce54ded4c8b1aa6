package domain

import "time"

// Combatant is a fully resolved monster or boss instance produced by tag
// composition, ready for combat resolution.
type Combatant struct {
	TemplateID string
	Name       string
	Level      int

	HP      int
	MaxHP   int
	Attack  int
	Defense int

	Loot []LootDrop
}

// LootDrop is one resolved loot-table entry carried by a combatant.
type LootDrop struct {
	ItemID string
	Chance float64
	Gold   int64
}

// WorldBoss is a shared server-wide boss instance.
type WorldBoss struct {
	ID         string
	TemplateID string
	Name       string
	Level      int

	HP      int
	MaxHP   int
	Attack  int
	Defense int

	SpawnedAt time.Time
}

// Defeated reports whether the boss has been brought to zero HP.
func (b WorldBoss) Defeated() bool {
	return b.HP <= 0
}

// BossParticipant accumulates one player's damage against a world boss.
type BossParticipant struct {
	BossID     string
	PlayerID   string
	Damage     int64
	FirstHitAt time.Time
}
