package main

import (
	"fmt"
	"sort"
)

// bucket is the three-way classification shared by the calendar, the day
// summary and XP accrual.
type bucket string

const (
	bucketSuccess bucket = "success"
	bucketWarning bucket = "warning"
	bucketDanger  bucket = "danger"
)

// dailyBalance is intake minus everything burned. Negative is a deficit.
func dailyBalance(tdee, intake, outtake int) int {
	return intake - (tdee + outtake)
}

// classifyBalance buckets a balance against a signed balance goal (a deficit
// goal is negative). Ties with the goal count as success.
func classifyBalance(balance, balanceGoal int) bucket {
	switch {
	case balance <= balanceGoal:
		return bucketSuccess
	case balance >= 0:
		return bucketDanger
	default:
		return bucketWarning
	}
}

// balanceDisplay is a balance rendered for the reporting collaborator.
type balanceDisplay struct {
	Balance int    `json:"balance"`
	Label   string `json:"label"`
	Bucket  bucket `json:"bucket"`
}

// formatBalanceWithGoal labels a balance ("-800 kcal", "+120 kcal") and
// classifies it against the goal.
func formatBalanceWithGoal(balance, balanceGoal int) balanceDisplay {
	label := fmt.Sprintf("%+d kcal", balance)
	if balance == 0 {
		label = "0 kcal"
	}
	return balanceDisplay{
		Balance: balance,
		Label:   label,
		Bucket:  classifyBalance(balance, balanceGoal),
	}
}

// dayBalance is one logged day's balance.
type dayBalance struct {
	Date    LocalDate
	Balance int
}

// balanceSeries turns daily logs into an ascending series of balances. Days
// without entries and days after today are left out.
func balanceSeries(logs []DailyLog, tdee int, today LocalDate) []dayBalance {
	out := make([]dayBalance, 0, len(logs))
	for _, l := range logs {
		if !l.hasEntries() || l.Date.After(today) {
			continue
		}
		out = append(out, dayBalance{
			Date:    l.Date,
			Balance: dailyBalance(tdee, l.CaloricIntake, l.CaloricOuttake),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}
