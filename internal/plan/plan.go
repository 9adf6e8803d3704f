package plan

import (
	"errors"
	"strconv"
	"strings"

	"github.com/bmw-wellness/apiserver/types"
)

const (
	highThreshold     = 10
	moderateThreshold = 5

	// MaxRecommendations caps the number of activities in a plan.
	MaxRecommendations = 3
)

// ErrInvalidScore is returned when a score is not a base-10 integer.
var ErrInvalidScore = errors.New("invalid score")

// Plan is the recommendation set derived from a single score.
type Plan struct {
	Recommendations []types.WellnessActivity `json:"recommendations"`
	FullTable       []types.WellnessActivity `json:"fullTable"`
	Level           types.Level              `json:"level"`
	Score           int                      `json:"score"`
}

// ParseScore parses a caller-supplied score.
func ParseScore(raw string) (int, error) {
	score, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, ErrInvalidScore
	}
	return score, nil
}

// Classify maps a score to its level. Scores have no lower or upper bound.
func Classify(score int) types.Level {
	switch {
	case score >= highThreshold:
		return types.LevelHigh
	case score >= moderateThreshold:
		return types.LevelModerate
	default:
		return types.LevelLow
	}
}

// Recommend returns up to limit catalog entries that apply to level,
// preserving catalog order.
func Recommend(level types.Level, catalog []types.WellnessActivity, limit int) []types.WellnessActivity {
	matches := make([]types.WellnessActivity, 0, limit)
	for _, activity := range catalog {
		if len(matches) == limit {
			break
		}
		if activity.AppliesTo(level) {
			matches = append(matches, activity)
		}
	}
	return matches
}

// Build classifies score and filters catalog into a Plan. The catalog is
// expected in ascending ID order.
func Build(score int, catalog []types.WellnessActivity) Plan {
	level := Classify(score)

	fullTable := make([]types.WellnessActivity, len(catalog))
	copy(fullTable, catalog)

	return Plan{
		Recommendations: Recommend(level, catalog, MaxRecommendations),
		FullTable:       fullTable,
		Level:           level,
		Score:           score,
	}
}
