package main

// daySummary is the outbound per-day aggregate.
type daySummary struct {
	Date          LocalDate  `json:"date"`
	HasData       bool       `json:"has_data"`
	Intake        int        `json:"intake"`
	Outtake       int        `json:"outtake"`
	ProteinG      float64    `json:"protein_g"`
	Balance       int        `json:"balance"`
	Label         string     `json:"label"`
	Bucket        bucket     `json:"bucket"`
	WeightKG      *float64   `json:"weight_kg"`
	WeightDelta   *float64   `json:"weight_delta"`
	Budget        int        `json:"budget"`
	BudgetPercent float64    `json:"budget_percent"`
	Entries       []LogEntry `json:"entries"`
}

// buildDaySummary combines a day's log (nil when nothing was logged) with the
// previous calendar day's log for the weight delta.
func buildDaySummary(date LocalDate, dl, prev *DailyLog, entries []LogEntry, tdee int, plan goalPlan) daySummary {
	s := daySummary{Date: date, Entries: entries, Budget: dailyBudget(tdee, plan)}
	if s.Entries == nil {
		s.Entries = []LogEntry{}
	}
	if dl != nil {
		s.HasData = true
		s.Intake = dl.CaloricIntake
		s.Outtake = dl.CaloricOuttake
		s.ProteinG = dl.ProteinG
		s.WeightKG = dl.WeightKG
		if prev != nil {
			s.WeightDelta = weightDelta(dl.WeightKG, prev.WeightKG)
		}
	}
	// A day without food or exercise has no balance, matching the calendar.
	if dl != nil && dl.hasEntries() {
		disp := formatBalanceWithGoal(dailyBalance(tdee, s.Intake, s.Outtake), plan.BalanceGoal())
		s.Balance = disp.Balance
		s.Label = disp.Label
		s.Bucket = disp.Bucket
	}
	s.BudgetPercent = budgetPercent(s.Intake-s.Outtake, s.Budget)
	return s
}

// rangeSummary is the outbound trailing-week aggregate.
type rangeSummary struct {
	From            LocalDate `json:"from"`
	To              LocalDate `json:"to"`
	DaysLogged      int       `json:"days_logged"`
	SevenDayTotal   int       `json:"seven_day_total"`
	SevenDayAverage float64   `json:"seven_day_average"`
	RealWeight      *float64  `json:"real_weight"`
	PredictedWeight *float64  `json:"predicted_weight"`
	PredictedChange *float64  `json:"predicted_change"`
}

// buildRangeSummary summarizes the seven days ending today. history supplies
// the weight samples; the balances come from the trailing week only.
func buildRangeSummary(history []DailyLog, p Profile, tdee int, today LocalDate) rangeSummary {
	from := today.AddDays(-6)
	s := rangeSummary{From: from, To: today}

	var week []DailyLog
	for _, l := range history {
		if !l.Date.Before(from) && !l.Date.After(today) {
			week = append(week, l)
		}
	}
	balances := []int{}
	for _, d := range balanceSeries(week, tdee, today) {
		balances = append(balances, d.Balance)
		s.SevenDayTotal += d.Balance
	}
	s.DaysLogged = len(balances)
	if s.DaysLogged > 0 {
		s.SevenDayAverage = round1(float64(s.SevenDayTotal) / float64(s.DaysLogged))
	}

	var past []DailyLog
	for _, l := range history {
		if !l.Date.After(today) {
			past = append(past, l)
		}
	}
	s.RealWeight = realWeight(weightSamples(past))
	if base := realWeightOrProfile(weightSamples(past), p); base != nil {
		proj := predict30Days(*base, balances)
		s.PredictedWeight = &proj.PredictedWeight
		s.PredictedChange = &proj.PredictedChange
	}
	return s
}
