package domain

import (
	"slices"
	"time"
)

// XPPerLevel is the XP band a player needs to clear for each level.
const XPPerLevel = 50

// ChallengeResult is the verifier's verdict for one submission.
type ChallengeResult struct {
	Correct       bool   `json:"correct"`
	EarnedXP      int    `json:"earned_xp"`
	EarnedCoins   int    `json:"earned_coins"`
	EarnedItem    string `json:"earned_item,omitempty"`
	NewLevel      int    `json:"new_level"`
	NewXP         int    `json:"new_xp"`
	NewCoins      int    `json:"new_coins"`
	UnlockedAreas []int  `json:"unlocked_areas"`
	CorrectAnswer string `json:"correct_answer,omitempty"`
}

// ProgressSnapshot is a player's durable progression.
type ProgressSnapshot struct {
	Level         int        `json:"level"`
	XP            int        `json:"xp"`
	Coins         int        `json:"coins"`
	UnlockedAreas []int      `json:"unlocked_areas"`
	Achievements  []string   `json:"achievements"`
	LastSave      *time.Time `json:"last_save,omitempty"`
}

// ProgressUpdate is the partial snapshot written after a correct answer.
type ProgressUpdate struct {
	Level         int   `json:"level"`
	XP            int   `json:"xp"`
	Coins         int   `json:"coins"`
	UnlockedAreas []int `json:"unlocked_areas"`
}

// NewPlayerProgress is the snapshot every new player starts from.
func NewPlayerProgress() ProgressSnapshot {
	return ProgressSnapshot{
		Level:         1,
		XP:            0,
		Coins:         100,
		UnlockedAreas: []int{1},
		Achievements:  []string{},
	}
}

// Clone returns a deep copy safe to hand to readers.
func (p ProgressSnapshot) Clone() ProgressSnapshot {
	out := p
	out.UnlockedAreas = slices.Clone(p.UnlockedAreas)
	out.Achievements = slices.Clone(p.Achievements)
	if p.LastSave != nil {
		ts := *p.LastSave
		out.LastSave = &ts
	}
	return out
}

// Apply merges the reward fields of a correct result into the snapshot and
// derives achievements the same way the progress store does.
func (p *ProgressSnapshot) Apply(r ChallengeResult) {
	p.Level = r.NewLevel
	p.XP = r.NewXP
	p.Coins = r.NewCoins
	p.UnlockedAreas = NormalizeAreas(r.UnlockedAreas)
	p.Achievements = AchievementsFor(p.Level, p.UnlockedAreas)
}

// Rebase recomputes a correct result's totals from the snapshot plus the
// earned rewards. A verifier grades against stored totals, so its absolute
// values lag behind a snapshot holding rewards the store never accepted.
func (p ProgressSnapshot) Rebase(r ChallengeResult) ChallengeResult {
	r.NewXP = p.XP + r.EarnedXP
	r.NewCoins = p.Coins + r.EarnedCoins
	r.NewLevel = max(p.Level, r.NewLevel, LevelForXP(r.NewXP))
	previous := append(slices.Clone(p.UnlockedAreas), r.UnlockedAreas...)
	r.UnlockedAreas = UnlockedAreasFor(r.NewXP, previous)
	return r
}

// Update returns the partial snapshot the progress store persists.
func (p ProgressSnapshot) Update() ProgressUpdate {
	return ProgressUpdate{
		Level:         p.Level,
		XP:            p.XP,
		Coins:         p.Coins,
		UnlockedAreas: slices.Clone(p.UnlockedAreas),
	}
}

// CurrentStage is the highest unlocked stage.
func (p ProgressSnapshot) CurrentStage() int {
	if len(p.UnlockedAreas) == 0 {
		return 1
	}
	return slices.Max(p.UnlockedAreas)
}

// LevelForXP maps cumulative XP to a level.
func LevelForXP(xp int) int {
	if xp < 0 {
		xp = 0
	}
	return xp/XPPerLevel + 1
}

// NormalizeAreas sorts and deduplicates stage ids.
func NormalizeAreas(areas []int) []int {
	out := slices.Clone(areas)
	slices.Sort(out)
	out = slices.Compact(out)
	if out == nil {
		out = []int{}
	}
	return out
}

// AchievementsFor derives milestone achievements from progression.
func AchievementsFor(level int, unlocked []int) []string {
	achievements := []string{}
	if level >= 5 {
		achievements = append(achievements, "Level 5")
	}
	if level >= 10 {
		achievements = append(achievements, "Level 10")
	}
	for _, id := range NormalizeAreas(unlocked) {
		if id == 1 {
			continue
		}
		if stage, ok := StageByID(id); ok {
			achievements = append(achievements, "Explorer: "+stage.Name)
		}
	}
	return achievements
}

// Decoration is a placed home-base decoration.
type Decoration struct {
	Emoji string `json:"emoji"`
	Name  string `json:"name"`
}

// Inventory holds a player's collected items and home decorations.
type Inventory struct {
	Items           map[string]int `json:"items"`
	HomeDecorations []Decoration   `json:"home_decorations"`
}

// NewInventory returns an empty inventory.
func NewInventory() Inventory {
	return Inventory{
		Items:           map[string]int{},
		HomeDecorations: []Decoration{},
	}
}
