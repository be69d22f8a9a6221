package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// seriesEnding builds consecutive daily balances whose last day is end.
func seriesEnding(end LocalDate, balances ...int) []dayBalance {
	out := make([]dayBalance, len(balances))
	for i, b := range balances {
		out[i] = dayBalance{Date: end.AddDays(i - len(balances) + 1), Balance: b}
	}
	return out
}

func TestComputeStreaks_UnbrokenThroughToday(t *testing.T) {
	s := computeStreaks(seriesEnding(testToday, -100, -200, -300, -400), testToday)
	assert.Equal(t, streaks{Current: 4, Max: 4}, s)
}

func TestComputeStreaks_TodayNotLoggedYet(t *testing.T) {
	s := computeStreaks(seriesEnding(testToday.AddDays(-1), -100, -200, -300), testToday)
	assert.Equal(t, streaks{Current: 0, Max: 3}, s)
}

func TestComputeStreaks_StaleHistoryHasNoCurrent(t *testing.T) {
	s := computeStreaks(seriesEnding(testToday.AddDays(-3), -100, -200), testToday)
	assert.Equal(t, streaks{Current: 0, Max: 2}, s)
}

func TestComputeStreaks_SurplusBreaksRun(t *testing.T) {
	s := computeStreaks(seriesEnding(testToday, -100, -100, -100, 50, -100), testToday)
	assert.Equal(t, streaks{Current: 1, Max: 3}, s)
}

func TestComputeStreaks_SurplusToday(t *testing.T) {
	s := computeStreaks(seriesEnding(testToday, -100, -100, 10), testToday)
	assert.Equal(t, streaks{Current: 0, Max: 2}, s)
}

func TestComputeStreaks_GapBreaksRun(t *testing.T) {
	series := append(
		seriesEnding(testToday.AddDays(-5), -100, -100, -100),
		seriesEnding(testToday, -100, -100)...,
	)
	s := computeStreaks(series, testToday)
	assert.Equal(t, streaks{Current: 2, Max: 3}, s)
}

func TestComputeStreaks_Empty(t *testing.T) {
	assert.Equal(t, streaks{}, computeStreaks(nil, testToday))
}

func TestComputeStreaks_MaxNeverDecreasesAsHistoryGrows(t *testing.T) {
	full := seriesEnding(testToday, -5, -5, 10, -5, -5, -5, 0, -5, 20, -5, -5, -5, -5)
	prevMax := 0
	for n := 1; n <= len(full); n++ {
		s := computeStreaks(full[:n], full[n-1].Date)
		assert.GreaterOrEqual(t, s.Max, prevMax)
		assert.LessOrEqual(t, s.Current, s.Max)
		prevMax = s.Max
	}
	assert.Equal(t, 4, prevMax)
}
