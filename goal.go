package main

import "math"

const (
	// kcalPerKG is the energy content of 1 kg of adipose tissue.
	kcalPerKG = 7700
	// maxSafeDailyDeficit is the largest deficit presented as achievable.
	maxSafeDailyDeficit = 1500
)

// goalPlan is the deficit needed each day to reach the goal weight by the
// goal date. DailyDeficit is positive for weight loss.
type goalPlan struct {
	DaysRemaining int     `json:"days_remaining"`
	DailyDeficit  int     `json:"daily_deficit"`
	IsAchievable  bool    `json:"is_achievable"`
	WeeksToGoal   float64 `json:"weeks_to_goal"`
}

// BalanceGoal expresses the plan as a signed balance target. Deficits are
// negative balances everywhere else, so the deficit is inverted here and
// nowhere else.
func (g goalPlan) BalanceGoal() int { return -g.DailyDeficit }

// requiredDailyDeficit plans the daily deficit from current to goal weight.
// A goal date of today or earlier leaves no runway and yields the zero plan
// with IsAchievable=false.
func requiredDailyDeficit(currentKG, goalKG float64, goalDate, today LocalDate) goalPlan {
	days := today.DaysUntil(goalDate)
	if days <= 0 {
		return goalPlan{}
	}
	total := (currentKG - goalKG) * kcalPerKG
	daily := int(math.Round(total / float64(days)))
	return goalPlan{
		DaysRemaining: days,
		DailyDeficit:  daily,
		IsAchievable:  daily >= 0 && daily <= maxSafeDailyDeficit,
		WeeksToGoal:   round1(float64(days) / 7),
	}
}

// profileGoalPlan plans from the profile's current (or starting) weight. A
// profile without a goal weight or goal date has no plan; ok is false.
func profileGoalPlan(p Profile, today LocalDate) (goalPlan, bool) {
	w := p.weightKG()
	if w == nil || p.GoalWeightKG == nil || p.GoalDate == nil {
		return goalPlan{}, false
	}
	return requiredDailyDeficit(*w, *p.GoalWeightKG, *p.GoalDate, today), true
}

// dailyBudget is the intake target implied by TDEE and the plan.
func dailyBudget(tdee int, plan goalPlan) int {
	return tdee + plan.BalanceGoal()
}

// budgetPercent reports net intake as a percentage of budget. A non-positive
// budget is 0%, not a division.
func budgetPercent(net, budget int) float64 {
	if budget <= 0 {
		return 0
	}
	return round1(float64(net) / float64(budget) * 100)
}

// round1 rounds to one decimal place.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
