package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// getWeightLog returns weight samples for the authenticated user within [start, end].
// GET /api/weight-log?start=YYYY-MM-DD&end=YYYY-MM-DD (both required).
// Returns an empty array (not null) if no samples exist in the range.
func (h *Handler) getWeightLog(c *gin.Context) {
	start, end, ok := dateRange(c)
	if !ok {
		return
	}

	logs, err := h.store.ListDailyLogs(c, c.GetInt("user_id"), start, end)
	if err != nil {
		apiFail(c, err, "failed to fetch weight log")
		return
	}

	c.JSON(http.StatusOK, weightSamples(logs))
}

// upsertWeightEntry sets the weight sample for the given date.
// POST /api/weight-log. Body: { "date": "YYYY-MM-DD", "weight_kg": 82.4 }.
// Posting the same date again replaces the sample; the day's entry totals
// are untouched.
func (h *Handler) upsertWeightEntry(c *gin.Context) {
	u, err := h.loadUser(c)
	if err != nil {
		apiFail(c, err, "failed to fetch profile")
		return
	}

	var body struct {
		Date     string  `json:"date"`
		WeightKG float64 `json:"weight_kg"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	date, err := u.dateParam(body.Date)
	if err != nil {
		apiFail(c, err, "invalid date")
		return
	}
	if err := validateWeight(body.WeightKG); err != nil {
		apiFail(c, err, "invalid weight")
		return
	}

	res, err := h.ledger.Apply(c, c.GetInt("user_id"), date, weightCommand{WeightKG: body.WeightKG})
	if err != nil {
		apiFail(c, err, "failed to upsert weight entry")
		return
	}

	c.JSON(http.StatusCreated, res.Log)
}

// dateRange parses the required ?start=&end= pair, writing a 400 on failure.
func dateRange(c *gin.Context) (LocalDate, LocalDate, bool) {
	rawStart, rawEnd := c.Query("start"), c.Query("end")
	if rawStart == "" || rawEnd == "" {
		apiError(c, http.StatusBadRequest, "start and end query params are required")
		return LocalDate{}, LocalDate{}, false
	}
	start, err := parseLocalDate(rawStart)
	if err != nil {
		apiError(c, http.StatusBadRequest, "invalid start, expected YYYY-MM-DD")
		return LocalDate{}, LocalDate{}, false
	}
	end, err := parseLocalDate(rawEnd)
	if err != nil {
		apiError(c, http.StatusBadRequest, "invalid end, expected YYYY-MM-DD")
		return LocalDate{}, LocalDate{}, false
	}
	if start.After(end) {
		apiError(c, http.StatusBadRequest, "start must not be after end")
		return LocalDate{}, LocalDate{}, false
	}
	return start, end, true
}
