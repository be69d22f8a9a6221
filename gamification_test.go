package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDayXP(t *testing.T) {
	assert.Equal(t, 80, dayXP(-800, -500, 1))
	assert.Equal(t, 128, dayXP(-800, -500, 7))
	// Deficit short of goal earns half.
	assert.Equal(t, 15, dayXP(-300, -500, 1))
	assert.Equal(t, 0, dayXP(0, -500, 3))
	assert.Equal(t, 0, dayXP(450, -500, 1))
}

func TestTotalXP_SevenDayStreak(t *testing.T) {
	series := seriesEnding(testToday, -800, -800, -800, -800, -800, -800, -800)
	// 80 + 88 + 96 + 104 + 112 + 120 + 128
	assert.Equal(t, 728, totalXP(series, -500))
}

func TestTotalXP_SurplusResetsMultiplier(t *testing.T) {
	series := seriesEnding(testToday, -800, -800, 100, -800)
	assert.Equal(t, 80+88+0+80, totalXP(series, -500))
}

func TestTotalXP_GapResetsMultiplier(t *testing.T) {
	series := append(seriesEnding(testToday.AddDays(-3), -800), seriesEnding(testToday, -800)...)
	assert.Equal(t, 160, totalXP(series, -500))
}

func TestTotalXP_AllSurplusIsZero(t *testing.T) {
	series := seriesEnding(testToday, 10, 300, 0, 2500)
	assert.Equal(t, 0, totalXP(series, -500))
}

func TestLevelFor(t *testing.T) {
	cur, next, pct := levelFor(0)
	assert.Equal(t, "Rookie", cur.Name)
	require.NotNil(t, next)
	assert.Equal(t, "Starter", next.Name)
	assert.Equal(t, 0.0, pct)

	cur, next, pct = levelFor(728)
	assert.Equal(t, 2, cur.Number)
	require.NotNil(t, next)
	assert.Equal(t, 800, next.Threshold)
	assert.Equal(t, 85.6, pct)

	cur, _, pct = levelFor(800)
	assert.Equal(t, "Challenger", cur.Name)
	assert.Equal(t, 0.0, pct)

	cur, next, pct = levelFor(1_000_000)
	assert.Equal(t, "Legend", cur.Name)
	assert.Nil(t, next)
	assert.Equal(t, 100.0, pct)
}

func TestLevelFor_MonotoneInXP(t *testing.T) {
	prev := 0
	for xp := 0; xp <= 45000; xp += 250 {
		cur, _, pct := levelFor(xp)
		assert.GreaterOrEqual(t, cur.Number, prev)
		assert.GreaterOrEqual(t, pct, 0.0)
		assert.LessOrEqual(t, pct, 100.0)
		prev = cur.Number
	}
}

func TestEarnedBadges(t *testing.T) {
	assert.Empty(t, earnedBadges(6))
	assert.Equal(t, []badge{{"Bronze", 7}}, earnedBadges(7))
	assert.Len(t, earnedBadges(27), 3)
	assert.Len(t, earnedBadges(365), len(badges))

	prev := 0
	for streak := 0; streak <= 80; streak++ {
		n := len(earnedBadges(streak))
		assert.GreaterOrEqual(t, n, prev)
		prev = n
	}
}

func TestComputeGamification(t *testing.T) {
	series := seriesEnding(testToday, -800, -800, -800, -800, -800, -800, -800)
	g := computeGamification(series, -500, testToday)
	assert.Equal(t, 728, g.TotalXP)
	assert.Equal(t, "Starter", g.Level.Name)
	assert.Equal(t, 7, g.CurrentStreak)
	assert.Equal(t, 7, g.MaxStreak)
	assert.Equal(t, []badge{{"Bronze", 7}}, g.EarnedBadges)
}
