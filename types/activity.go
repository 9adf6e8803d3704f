package types

// Level classifies a score or tags a catalog entry.
type Level string

const (
	LevelLow      Level = "low"
	LevelMild     Level = "mild"
	LevelModerate Level = "moderate"
	LevelHigh     Level = "high"

	// LevelAll marks a catalog entry as applicable to every level.
	LevelAll Level = "all"
)

// WellnessActivity is a static catalog entry recommending an activity
// for one or more levels.
type WellnessActivity struct {
	// ID is the catalog identifier. Catalog order is ascending ID.
	ID int64 `json:"id" db:"id"`

	// Activity is the human-readable recommendation.
	Activity string `json:"activity" db:"activity"`

	// Source cites where the recommendation comes from.
	Source string `json:"source" db:"source"`

	// Priority is the set of levels this activity applies to.
	Priority Levels `json:"priority" db:"priority"`
}

// AppliesTo reports whether the activity should be recommended for level.
func (a WellnessActivity) AppliesTo(level Level) bool {
	for _, candidate := range a.Priority {
		if candidate == level || candidate == LevelAll {
			return true
		}
	}
	return false
}
