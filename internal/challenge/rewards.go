package challenge

import (
	"hash/fnv"

	"github.com/ashureev/mindcraft-labs/internal/domain"
)

const (
	mathXP      = 10
	readingXP   = 15
	coinsReward = 5
)

// Items are the collectibles a correct answer can drop.
var Items = []string{"wood", "stone", "coal", "iron", "gold", "diamond"}

// Grade builds the verdict for an answer given the player's current totals.
// Incorrect answers carry zero rewards and the unchanged totals.
func Grade(c domain.Challenge, answer, expected string, current domain.ProgressSnapshot) domain.ChallengeResult {
	res := domain.ChallengeResult{
		NewLevel:      current.Level,
		NewXP:         current.XP,
		NewCoins:      current.Coins,
		UnlockedAreas: domain.NormalizeAreas(current.UnlockedAreas),
		CorrectAnswer: expected,
	}
	if !matches(c, answer, expected) {
		return res
	}

	xp := mathXP
	if c.Kind() == domain.CategoryReading {
		xp = readingXP
	}
	res.Correct = true
	res.EarnedXP = xp
	res.EarnedCoins = coinsReward
	res.EarnedItem = ItemFor(c.Identity())
	res.NewXP = current.XP + xp
	res.NewCoins = current.Coins + coinsReward
	res.NewLevel = max(current.Level, domain.LevelForXP(res.NewXP))
	res.UnlockedAreas = domain.UnlockedAreasFor(res.NewXP, current.UnlockedAreas)
	return res
}

// ItemFor picks the item dropped for a challenge. One identity in four
// yields an item; the choice is stable for the same identity.
func ItemFor(identity string) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(identity))
	sum := h.Sum32()
	if sum%4 != 0 {
		return ""
	}
	return Items[(sum/4)%uint32(len(Items))]
}
