package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplesOn(weights ...float64) []weightSample {
	out := make([]weightSample, len(weights))
	for i, w := range weights {
		out[i] = weightSample{Date: testToday.AddDays(i - len(weights) + 1), WeightKG: w}
	}
	return out
}

func TestRealWeight_FiveSamplesInWeek(t *testing.T) {
	got := realWeight(samplesOn(78.0, 78.2, 78.5, 78.4, 78.6))
	require.NotNil(t, got)
	assert.Equal(t, 78.3, *got)
}

func TestRealWeight_NoSamplesIsNil(t *testing.T) {
	assert.Nil(t, realWeight(nil))
	assert.Nil(t, realWeight([]weightSample{}))
}

func TestRealWeight_UsesSevenMostRecent(t *testing.T) {
	// Two old heavy readings fall outside the window.
	s := samplesOn(95, 95, 80, 80, 80, 80, 80, 80, 80)
	got := realWeight(s)
	require.NotNil(t, got)
	assert.Equal(t, 80.0, *got)
}

func TestRealWeight_OrderIndependent(t *testing.T) {
	s := samplesOn(90, 80, 80, 80, 80, 80, 80, 80)
	reversed := make([]weightSample, len(s))
	for i := range s {
		reversed[len(s)-1-i] = s[i]
	}
	assert.Equal(t, *realWeight(s), *realWeight(reversed))
}

func TestRealWeightOrProfile_FallsBack(t *testing.T) {
	p := makeProfile("male", newLocalDate(1990, 1, 1), 180, 92, "light")
	got := realWeightOrProfile(nil, p)
	require.NotNil(t, got)
	assert.Equal(t, 92.0, *got)

	p.StartingWeightKG = nil
	assert.Nil(t, realWeightOrProfile(nil, p))
}

func TestWeightSamples_SkipsLogsWithoutWeight(t *testing.T) {
	w := 81.2
	logs := []DailyLog{
		{Date: testToday.AddDays(-1), EntryCount: 3},
		{Date: testToday, WeightKG: &w},
	}
	assert.Equal(t, []weightSample{{Date: testToday, WeightKG: 81.2}}, weightSamples(logs))
}
