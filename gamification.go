package main

import "math"

// level is one tier of the XP ladder.
type level struct {
	Number    int    `json:"number"`
	Name      string `json:"name"`
	Threshold int    `json:"threshold"`
}

// levels is ascending by threshold.
var levels = []level{
	{1, "Rookie", 0},
	{2, "Starter", 300},
	{3, "Challenger", 800},
	{4, "Committed", 1800},
	{5, "Disciplined", 3500},
	{6, "Athlete", 6000},
	{7, "Elite", 10000},
	{8, "Champion", 16000},
	{9, "Master", 25000},
	{10, "Legend", 40000},
}

// badge is a prestige badge unlocked by the longest historical streak.
type badge struct {
	Name       string `json:"name"`
	StreakDays int    `json:"streak_days"`
}

// badges is ascending by StreakDays.
var badges = []badge{
	{"Bronze", 7},
	{"Silver", 14},
	{"Gold", 21},
	{"Platinum", 28},
	{"Diamond", 35},
	{"Emerald", 42},
	{"Ruby", 49},
	{"Sapphire", 56},
	{"Obsidian", 63},
	{"Mythic", 70},
}

// dayXP scores one day. Surplus days earn nothing. A deficit that meets the
// goal earns |balance|/10 scaled by 10% per streak day after the first; a
// deficit short of the goal earns half of that. streakDay is 1-based.
func dayXP(balance, balanceGoal, streakDay int) int {
	if balance >= 0 {
		return 0
	}
	xp := math.Abs(float64(balance)) / 10 * (1 + float64(streakDay-1)*0.1)
	if classifyBalance(balance, balanceGoal) != bucketSuccess {
		xp /= 2
	}
	return int(math.Round(xp))
}

// totalXP sums dayXP over an ascending series, tracking the streak index in
// the same pass. Surplus days and calendar gaps reset the index; every
// deficit day advances it whether or not the goal was met.
func totalXP(series []dayBalance, balanceGoal int) int {
	total, run := 0, 0
	for i, d := range series {
		if i > 0 && !series[i-1].Date.AddDays(1).Equal(d.Date) {
			run = 0
		}
		if d.Balance >= 0 {
			run = 0
			continue
		}
		run++
		total += dayXP(d.Balance, balanceGoal, run)
	}
	return total
}

// levelFor returns the current level, the next one (nil at the top) and the
// percentage progress toward it.
func levelFor(xp int) (level, *level, float64) {
	idx := 0
	for i, l := range levels {
		if l.Threshold <= xp {
			idx = i
		}
	}
	cur := levels[idx]
	if idx == len(levels)-1 {
		return cur, nil, 100
	}
	next := levels[idx+1]
	pct := float64(xp-cur.Threshold) / float64(next.Threshold-cur.Threshold) * 100
	return cur, &next, math.Min(round1(pct), 100)
}

// earnedBadges lists every badge whose threshold maxStreak has reached.
// Since maxStreak never decreases, neither does this set.
func earnedBadges(maxStreak int) []badge {
	out := []badge{}
	for _, b := range badges {
		if maxStreak >= b.StreakDays {
			out = append(out, b)
		}
	}
	return out
}

// gamificationState is the outbound gamification aggregate. It is derived
// from the balance history alone and never stored.
type gamificationState struct {
	TotalXP         int     `json:"total_xp"`
	Level           level   `json:"level"`
	NextLevel       *level  `json:"next_level"`
	ProgressPercent float64 `json:"progress_percent"`
	CurrentStreak   int     `json:"current_streak"`
	MaxStreak       int     `json:"max_streak"`
	EarnedBadges    []badge `json:"earned_badges"`
}

func computeGamification(series []dayBalance, balanceGoal int, today LocalDate) gamificationState {
	xp := totalXP(series, balanceGoal)
	cur, next, pct := levelFor(xp)
	st := computeStreaks(series, today)
	return gamificationState{
		TotalXP:         xp,
		Level:           cur,
		NextLevel:       next,
		ProgressPercent: pct,
		CurrentStreak:   st.Current,
		MaxStreak:       st.Max,
		EarnedBadges:    earnedBadges(st.Max),
	}
}
