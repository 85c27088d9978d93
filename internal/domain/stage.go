package domain

import "slices"

// Stage is one area of the game world.
type Stage struct {
	ID          int        `json:"id"`
	Name        string     `json:"name"`
	Emoji       string     `json:"emoji"`
	Theme       string     `json:"theme"`
	Description string     `json:"description"`
	XPRequired  int        `json:"xp_required"`
	Categories  []Category `json:"categories"`
}

// Stages lists every area in unlock order. Each stage maps to the challenge
// categories it offers.
var Stages = []Stage{
	{
		ID: 1, Name: "Number Woods", Emoji: "🌲", Theme: "Addition & Subtraction",
		Description: "Solve math problems to chop trees and collect coins!",
		XPRequired:  0, Categories: []Category{CategoryMath, CategoryReading},
	},
	{
		ID: 2, Name: "Word Village", Emoji: "🏘️", Theme: "Reading & Spelling",
		Description: "Help villagers by choosing correct words and solving problems!",
		XPRequired:  100, Categories: []Category{CategoryReading, CategoryMath},
	},
	{
		ID: 3, Name: "Fraction Caves", Emoji: "⛏️", Theme: "Multiplication & Division",
		Description: "Break blocks matching fractions and read cave stories!",
		XPRequired:  250, Categories: []Category{CategoryMath, CategoryReading},
	},
	{
		ID: 4, Name: "The Sky Tower", Emoji: "☁️", Theme: "Mixed Challenges",
		Description: "Climb platforms by answering math and reading questions!",
		XPRequired:  500, Categories: []Category{CategoryMath, CategoryReading},
	},
}

// StageByID looks up a stage.
func StageByID(id int) (Stage, bool) {
	for _, s := range Stages {
		if s.ID == id {
			return s, true
		}
	}
	return Stage{}, false
}

// Allows reports whether the stage offers the category.
func (s Stage) Allows(c Category) bool {
	return slices.Contains(s.Categories, c)
}

// UnlockedAreasFor returns previously unlocked areas plus every stage whose
// XP requirement is met.
func UnlockedAreasFor(xp int, previous []int) []int {
	areas := slices.Clone(previous)
	for _, s := range Stages {
		if xp >= s.XPRequired {
			areas = append(areas, s.ID)
		}
	}
	return NormalizeAreas(areas)
}
