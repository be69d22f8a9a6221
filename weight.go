package main

import "sort"

const realWeightWindow = 7

// weightSample is one dated body-weight reading.
type weightSample struct {
	Date     LocalDate `json:"date"`
	WeightKG float64   `json:"weight_kg"`
}

// weightSamples extracts the weight readings from daily logs.
func weightSamples(logs []DailyLog) []weightSample {
	out := make([]weightSample, 0, len(logs))
	for _, l := range logs {
		if l.WeightKG != nil {
			out = append(out, weightSample{Date: l.Date, WeightKG: *l.WeightKG})
		}
	}
	return out
}

// realWeight averages the seven most recent samples, rounded to one decimal.
// It returns nil, not zero, when there are no samples.
func realWeight(samples []weightSample) *float64 {
	if len(samples) == 0 {
		return nil
	}
	sorted := make([]weightSample, len(samples))
	copy(sorted, samples)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Date.After(sorted[j].Date) })
	if len(sorted) > realWeightWindow {
		sorted = sorted[:realWeightWindow]
	}

	var sum float64
	for _, s := range sorted {
		sum += s.WeightKG
	}
	avg := round1(sum / float64(len(sorted)))
	return &avg
}

// realWeightOrProfile falls back to the profile's current, then starting,
// weight. It never falls back to zero; nil means nothing is known.
func realWeightOrProfile(samples []weightSample, p Profile) *float64 {
	if w := realWeight(samples); w != nil {
		return w
	}
	return p.weightKG()
}
