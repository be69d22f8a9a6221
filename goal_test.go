package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequiredDailyDeficit_FiftyDaysToLoseTen(t *testing.T) {
	plan := requiredDailyDeficit(90, 80, testToday.AddDays(50), testToday)
	assert.Equal(t, 50, plan.DaysRemaining)
	assert.Equal(t, 1400, plan.DailyDeficit)
	assert.True(t, plan.IsAchievable)
	assert.Equal(t, 7.1, plan.WeeksToGoal)
	assert.Equal(t, -1400, plan.BalanceGoal())
}

func TestRequiredDailyDeficit_TooAggressive(t *testing.T) {
	plan := requiredDailyDeficit(90, 80, testToday.AddDays(30), testToday)
	assert.Equal(t, 2567, plan.DailyDeficit)
	assert.False(t, plan.IsAchievable)
}

func TestRequiredDailyDeficit_NoRunway(t *testing.T) {
	for _, offset := range []int{0, -1, -365} {
		plan := requiredDailyDeficit(90, 80, testToday.AddDays(offset), testToday)
		assert.Equal(t, goalPlan{}, plan, "offset %d", offset)
		assert.False(t, plan.IsAchievable)
	}
}

func TestRequiredDailyDeficit_GainGoalIsNotAchievable(t *testing.T) {
	plan := requiredDailyDeficit(60, 65, testToday.AddDays(100), testToday)
	assert.Equal(t, -385, plan.DailyDeficit)
	assert.False(t, plan.IsAchievable)
	assert.Equal(t, 385, plan.BalanceGoal())
}

func TestProfileGoalPlan_NoGoal(t *testing.T) {
	p := makeProfile("male", newLocalDate(1996, 1, 1), 175, 80, "sedentary")
	plan, ok := profileGoalPlan(p, testToday)
	assert.False(t, ok)
	assert.Equal(t, 0, plan.BalanceGoal())
}

func TestProfileGoalPlan_UsesCurrentWeight(t *testing.T) {
	p := makeProfile("male", newLocalDate(1996, 1, 1), 175, 95, "sedentary")
	current, goal := 90.0, 80.0
	goalDate := testToday.AddDays(50)
	p.CurrentWeightKG, p.GoalWeightKG, p.GoalDate = &current, &goal, &goalDate

	plan, ok := profileGoalPlan(p, testToday)
	assert.True(t, ok)
	assert.Equal(t, 1400, plan.DailyDeficit)
}

func TestDailyBudget(t *testing.T) {
	assert.Equal(t, 1478, dailyBudget(1978, goalPlan{DailyDeficit: 500}))
	assert.Equal(t, 1978, dailyBudget(1978, goalPlan{}))
}

func TestBudgetPercent(t *testing.T) {
	assert.Equal(t, 50.0, budgetPercent(1000, 2000))
	assert.Equal(t, 33.3, budgetPercent(1, 3))
	assert.Equal(t, 0.0, budgetPercent(1500, 0))
	assert.Equal(t, 0.0, budgetPercent(1500, -200))
}
