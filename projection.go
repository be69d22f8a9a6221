package main

const projectionDays = 30

// projection is the linear 30-day weight extrapolation. Change is negative
// for a predicted loss.
type projection struct {
	PredictedWeight float64 `json:"predicted_weight"`
	PredictedChange float64 `json:"predicted_change"`
}

// predict30Days extends the mean of the recent balances linearly over 30
// days. With no balances the weight is returned unchanged.
func predict30Days(currentRealWeight float64, recentBalances []int) projection {
	if len(recentBalances) == 0 {
		return projection{PredictedWeight: round1(currentRealWeight)}
	}
	var sum int
	for _, b := range recentBalances {
		sum += b
	}
	avgDailyDeficit := -float64(sum) / float64(len(recentBalances))
	projectedTotalDeficit := avgDailyDeficit * projectionDays
	projectedWeightChange := projectedTotalDeficit / kcalPerKG
	predicted := round1(currentRealWeight - projectedWeightChange)
	return projection{
		PredictedWeight: predicted,
		PredictedChange: round1(-projectedWeightChange),
	}
}
