package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bmw-wellness/apiserver/types"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		score int
		want  types.Level
	}{
		{score: -20, want: types.LevelLow},
		{score: 0, want: types.LevelLow},
		{score: 4, want: types.LevelLow},
		{score: 5, want: types.LevelModerate},
		{score: 9, want: types.LevelModerate},
		{score: 10, want: types.LevelHigh},
		{score: 1 << 30, want: types.LevelHigh},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.score), "score %d", tt.score)
	}
}

func TestParseScore(t *testing.T) {
	score, err := ParseScore("12")
	require.NoError(t, err)
	assert.Equal(t, 12, score)

	score, err = ParseScore(" -3 ")
	require.NoError(t, err)
	assert.Equal(t, -3, score)

	for _, raw := range []string{"", "abc", "3.5", "12abc", "1e3"} {
		_, err := ParseScore(raw)
		assert.ErrorIs(t, err, ErrInvalidScore, "raw %q", raw)
	}
}

func TestBuildHighCapsAtThree(t *testing.T) {
	got := Build(12, DefaultCatalog())

	assert.Equal(t, types.LevelHigh, got.Level)
	assert.Equal(t, 12, got.Score)
	assert.Equal(t, []int64{1, 2, 4}, activityIDs(got.Recommendations))
}

func TestBuildModerate(t *testing.T) {
	got := Build(7, DefaultCatalog())

	assert.Equal(t, types.LevelModerate, got.Level)
	assert.Equal(t, []int64{1, 4, 5}, activityIDs(got.Recommendations))
}

func TestBuildLow(t *testing.T) {
	got := Build(0, DefaultCatalog())

	assert.Equal(t, types.LevelLow, got.Level)
	assert.Equal(t, []int64{3, 4, 5}, activityIDs(got.Recommendations))
}

func TestBuildFewerMatchesThanLimit(t *testing.T) {
	catalog := []types.WellnessActivity{
		{ID: 3, Priority: types.Levels{types.LevelLow, types.LevelMild}},
		{ID: 4, Priority: types.Levels{types.LevelAll}},
		{ID: 6, Priority: types.Levels{types.LevelHigh}},
	}

	got := Build(0, catalog)
	assert.Equal(t, []int64{3, 4}, activityIDs(got.Recommendations))
}

func TestBuildFullTableIsUnfiltered(t *testing.T) {
	catalog := DefaultCatalog()
	for _, score := range []int{-1, 0, 5, 10, 99} {
		got := Build(score, catalog)
		assert.Equal(t, catalog, got.FullTable, "score %d", score)
	}
}

func TestRecommendEmptyCatalog(t *testing.T) {
	got := Recommend(types.LevelHigh, nil, MaxRecommendations)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func activityIDs(activities []types.WellnessActivity) []int64 {
	ids := make([]int64, 0, len(activities))
	for _, activity := range activities {
		ids = append(ids, activity.ID)
	}
	return ids
}
