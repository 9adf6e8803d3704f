package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoresScan(t *testing.T) {
	tests := []struct {
		name string
		src  any
		want Scores
	}{
		{name: "text column", src: "[3,7.5,12]", want: Scores{3, 7.5, 12}},
		{name: "jsonb bytes", src: []byte("[1, 2]"), want: Scores{1, 2}},
		{name: "empty array", src: "[]", want: Scores{}},
		{name: "null", src: nil, want: nil},
		{name: "empty string", src: "", want: nil},
		{name: "malformed", src: "[1,", want: nil},
		{name: "wrong element type", src: `["a"]`, want: nil},
		{name: "unsupported source", src: int64(4), want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got Scores
			require.NoError(t, got.Scan(tt.src))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestScoresValue(t *testing.T) {
	value, err := Scores{4, 9.5}.Value()
	require.NoError(t, err)
	assert.Equal(t, "[4,9.5]", value)

	value, err = Scores(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", value)
}

func TestScoresAppendKeepsOrder(t *testing.T) {
	original := Scores{1, 2}
	appended := original.Append(3)

	assert.Equal(t, Scores{1, 2, 3}, appended)
	assert.Equal(t, Scores{1, 2}, original)
}

func TestScoresMarshalJSONNil(t *testing.T) {
	encoded, err := json.Marshal(struct {
		Scores Scores `json:"scores"`
	}{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"scores":[]}`, string(encoded))
}

func TestLevelsScan(t *testing.T) {
	var levels Levels
	require.NoError(t, levels.Scan(`["high","moderate"]`))
	assert.Equal(t, Levels{LevelHigh, LevelModerate}, levels)

	require.NoError(t, levels.Scan("not json"))
	assert.Empty(t, levels)
}

func TestWellnessActivityAppliesTo(t *testing.T) {
	sleep := WellnessActivity{ID: 4, Priority: Levels{LevelAll}}
	eating := WellnessActivity{ID: 6, Priority: Levels{LevelHigh}}

	assert.True(t, sleep.AppliesTo(LevelLow))
	assert.True(t, eating.AppliesTo(LevelHigh))
	assert.False(t, eating.AppliesTo(LevelModerate))
}
