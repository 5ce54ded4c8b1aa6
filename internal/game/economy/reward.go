package economy

import (
	"sort"

	"github.com/tianji-games/ascension/internal/game/domain"
)

// RewardShare is one participant's cut of a boss reward pool.
type RewardShare struct {
	PlayerID string
	Damage   int64
	Gold     int64
}

// SplitReward divides a reward pool proportionally to damage dealt, floored
// per participant, with the rounding remainder granted to the top damage
// dealer. Ties on damage break toward the earliest first hit.
//
// The returned shares always sum to exactly pool when total damage is
// positive.
func SplitReward(pool int64, participants []domain.BossParticipant) []RewardShare {
	var total int64
	for _, p := range participants {
		total += p.Damage
	}
	if total <= 0 || pool <= 0 || len(participants) == 0 {
		return nil
	}

	ordered := make([]domain.BossParticipant, len(participants))
	copy(ordered, participants)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Damage != ordered[j].Damage {
			return ordered[i].Damage > ordered[j].Damage
		}
		return ordered[i].FirstHitAt.Before(ordered[j].FirstHitAt)
	})

	shares := make([]RewardShare, 0, len(ordered))
	var granted int64
	for _, p := range ordered {
		gold := pool * p.Damage / total
		granted += gold
		shares = append(shares, RewardShare{PlayerID: p.PlayerID, Damage: p.Damage, Gold: gold})
	}
	shares[0].Gold += pool - granted
	return shares
}
