package plan

import "github.com/bmw-wellness/apiserver/types"

// DefaultCatalog returns the activities seeded at startup, in ID order.
func DefaultCatalog() []types.WellnessActivity {
	return []types.WellnessActivity{
		{
			ID:       1,
			Activity: "Physical activity (e.g., walking or exercise)",
			Source:   "NHS exercise guidelines",
			Priority: types.Levels{types.LevelHigh, types.LevelModerate},
		},
		{
			ID:       2,
			Activity: "Mindfulness or meditation",
			Source:   "NHS mindfulness guide",
			Priority: types.Levels{types.LevelHigh, types.LevelMild},
		},
		{
			ID:       3,
			Activity: "Connect with others socially",
			Source:   "APA social connections",
			Priority: types.Levels{types.LevelLow, types.LevelMild},
		},
		{
			ID:       4,
			Activity: "Get restorative sleep",
			Source:   "APA lifestyle page",
			Priority: types.Levels{types.LevelAll},
		},
		{
			ID:       5,
			Activity: "Practice gratitude or journaling",
			Source:   "Greater Good Health routines",
			Priority: types.Levels{types.LevelModerate, types.LevelLow},
		},
		{
			ID:       6,
			Activity: "Healthy eating",
			Source:   "APA nutrition info",
			Priority: types.Levels{types.LevelHigh},
		},
	}
}
