package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDailyBalance(t *testing.T) {
	assert.Equal(t, -800, dailyBalance(2000, 1500, 300))
	assert.Equal(t, 0, dailyBalance(2000, 2000, 0))
	assert.Equal(t, 250, dailyBalance(2000, 2550, 300))
}

func TestClassifyBalance(t *testing.T) {
	cases := []struct {
		name    string
		balance int
		goal    int
		want    bucket
	}{
		{"beats goal", -800, -500, bucketSuccess},
		{"tie with goal", -500, -500, bucketSuccess},
		{"deficit short of goal", -300, -500, bucketWarning},
		{"one short of goal", -499, -500, bucketWarning},
		{"maintenance", 0, -500, bucketDanger},
		{"surplus", 200, -500, bucketDanger},
		{"zero goal, zero balance", 0, 0, bucketSuccess},
		{"zero goal, deficit", -10, 0, bucketSuccess},
		{"zero goal, surplus", 10, 0, bucketDanger},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, classifyBalance(tc.balance, tc.goal))
		})
	}
}

func TestClassifyBalance_SurplusNeverSucceedsAgainstDeficitGoal(t *testing.T) {
	for goal := -1500; goal < 0; goal += 100 {
		for balance := 0; balance <= 1000; balance += 50 {
			assert.Equal(t, bucketDanger, classifyBalance(balance, goal))
		}
	}
}

func TestFormatBalanceWithGoal(t *testing.T) {
	assert.Equal(t, balanceDisplay{-800, "-800 kcal", bucketSuccess}, formatBalanceWithGoal(-800, -500))
	assert.Equal(t, balanceDisplay{120, "+120 kcal", bucketDanger}, formatBalanceWithGoal(120, -500))
	assert.Equal(t, "0 kcal", formatBalanceWithGoal(0, -500).Label)
}

func TestBalanceSeries_SkipsEmptyAndFutureDays(t *testing.T) {
	w := 80.0
	logs := []DailyLog{
		{Date: testToday, CaloricIntake: 1500, EntryCount: 2},
		{Date: testToday.AddDays(-2), CaloricIntake: 2100, CaloricOuttake: 100, EntryCount: 3},
		{Date: testToday.AddDays(-1), WeightKG: &w},
		{Date: testToday.AddDays(1), CaloricIntake: 900, EntryCount: 1},
	}

	got := balanceSeries(logs, 2000, testToday)
	assert.Equal(t, []dayBalance{
		{Date: testToday.AddDays(-2), Balance: 0},
		{Date: testToday, Balance: -500},
	}, got)
}
