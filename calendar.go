package main

import "time"

// entitlement is the window in which an unpaid account may review history.
type entitlement struct {
	End  LocalDate `json:"end"`
	Paid bool      `json:"paid"`
}

// entitlementFor derives the trial window from the signup date in the user's
// zone.
func entitlementFor(p Profile, trialDays int, fallback *time.Location) entitlement {
	signup := localDateIn(p.CreatedAt, p.location(fallback))
	return entitlement{End: signup.AddDays(trialDays), Paid: p.IsPaid}
}

// locks reports whether a date is beyond the window for an unpaid account.
func (e entitlement) locks(d LocalDate) bool {
	return !e.Paid && d.After(e.End)
}

// calendarDay is one cell of the month view. Computed on every request and
// never stored.
type calendarDay struct {
	Date        LocalDate `json:"date"`
	HasData     bool      `json:"has_data"`
	WeightKG    *float64  `json:"weight_kg"`
	WeightDelta *float64  `json:"weight_delta"`
	Balance     int       `json:"balance"`
	Bucket      bucket    `json:"bucket,omitempty"`
	IsToday     bool      `json:"is_today"`
	IsFuture    bool      `json:"is_future"`
	IsLocked    bool      `json:"is_locked"`
}

// projectCalendar lays out every day of the month. logs should include the
// last day of the previous month so the first day can get a weight delta.
// The delta compares against the previous calendar day only; a gap yields
// nil rather than reaching back to an older sample.
func projectCalendar(year int, month time.Month, logs []DailyLog, tdee, balanceGoal int, today LocalDate, ent entitlement) []calendarDay {
	byDate := make(map[string]DailyLog, len(logs))
	for _, l := range logs {
		byDate[l.Date.String()] = l
	}

	first := newLocalDate(year, month, 1)
	days := []calendarDay{}
	for d := first; d.Month() == month; d = d.AddDays(1) {
		cell := calendarDay{
			Date:     d,
			IsToday:  d.Equal(today),
			IsFuture: d.After(today),
			IsLocked: ent.locks(d),
		}
		if l, ok := byDate[d.String()]; ok {
			cell.HasData = true
			cell.WeightKG = l.WeightKG
			if l.hasEntries() {
				cell.Balance = dailyBalance(tdee, l.CaloricIntake, l.CaloricOuttake)
				cell.Bucket = classifyBalance(cell.Balance, balanceGoal)
			}
			if prev, ok := byDate[d.AddDays(-1).String()]; ok {
				cell.WeightDelta = weightDelta(l.WeightKG, prev.WeightKG)
			}
		}
		days = append(days, cell)
	}
	return days
}

// weightDelta is cur-prev rounded to one decimal, nil unless both exist.
func weightDelta(cur, prev *float64) *float64 {
	if cur == nil || prev == nil {
		return nil
	}
	d := round1(*cur - *prev)
	return &d
}
