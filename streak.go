package main

// streaks holds the current and longest runs of consecutive deficit days.
type streaks struct {
	Current int `json:"current_streak"`
	Max     int `json:"max_streak"`
}

// computeStreaks walks an ascending balance series. A day counts toward a
// streak when its balance is negative; a non-deficit day or a calendar gap
// ends the run. The current streak counts back from today, so a today with
// nothing logged yet gives a current streak of zero.
func computeStreaks(series []dayBalance, today LocalDate) streaks {
	var s streaks
	run := 0
	for i, d := range series {
		if i > 0 && !series[i-1].Date.AddDays(1).Equal(d.Date) {
			run = 0
		}
		if d.Balance < 0 {
			run++
		} else {
			run = 0
		}
		if run > s.Max {
			s.Max = run
		}
	}

	if len(series) == 0 {
		return s
	}
	expect := today
	for i := len(series) - 1; i >= 0; i-- {
		d := series[i]
		if !d.Date.Equal(expect) || d.Balance >= 0 {
			break
		}
		s.Current++
		expect = expect.AddDays(-1)
	}
	return s
}
