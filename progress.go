package main

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// loadHistory fetches every daily log up to and including today.
func (h *Handler) loadHistory(c *gin.Context, u userDay) ([]DailyLog, error) {
	return h.store.ListDailyLogs(c, u.profile.UserID, LocalDate{}, u.today)
}

// getProgressSummary returns the trailing-week balance totals, real weight
// and the 30-day projection.
// GET /api/progress/summary.
func (h *Handler) getProgressSummary(c *gin.Context) {
	u, err := h.loadUser(c)
	if err != nil {
		apiFail(c, err, "failed to fetch profile")
		return
	}
	em, err := energyFor(u)
	if err != nil {
		apiFail(c, err, "failed to compute energy model")
		return
	}
	history, err := h.loadHistory(c, u)
	if err != nil {
		apiFail(c, err, "failed to fetch history")
		return
	}

	c.JSON(http.StatusOK, buildRangeSummary(history, u.profile, em.bio.TDEE, u.today))
}

// getGamification returns XP, level, streaks and badges, recomputed from the
// full history on every call.
// GET /api/progress/gamification.
func (h *Handler) getGamification(c *gin.Context) {
	u, err := h.loadUser(c)
	if err != nil {
		apiFail(c, err, "failed to fetch profile")
		return
	}
	em, err := energyFor(u)
	if err != nil {
		apiFail(c, err, "failed to compute energy model")
		return
	}
	history, err := h.loadHistory(c, u)
	if err != nil {
		apiFail(c, err, "failed to fetch history")
		return
	}

	series := balanceSeries(history, em.bio.TDEE, u.today)
	c.JSON(http.StatusOK, computeGamification(series, em.plan.BalanceGoal(), u.today))
}

// getCalendar returns the month view.
// GET /api/progress/calendar?month=YYYY-MM (defaults to the user's current month).
func (h *Handler) getCalendar(c *gin.Context) {
	u, err := h.loadUser(c)
	if err != nil {
		apiFail(c, err, "failed to fetch profile")
		return
	}

	year, month := u.today.Year(), u.today.Month()
	if raw := c.Query("month"); raw != "" {
		t, err := time.Parse("2006-01", raw)
		if err != nil {
			apiError(c, http.StatusBadRequest, "invalid month, expected YYYY-MM")
			return
		}
		year, month = t.Year(), t.Month()
	}

	em, err := energyFor(u)
	if err != nil {
		apiFail(c, err, "failed to compute energy model")
		return
	}

	first := newLocalDate(year, month, 1)
	last := newLocalDate(year, month+1, 0)
	logs, err := h.store.ListDailyLogs(c, u.profile.UserID, first.AddDays(-1), last)
	if err != nil {
		apiFail(c, err, "failed to fetch month")
		return
	}

	ent := entitlementFor(u.profile, h.cfg.TrialDays, h.cfg.DefaultLocation)
	c.JSON(http.StatusOK, gin.H{
		"month":       first.Format("2006-01"),
		"entitlement": ent,
		"days":        projectCalendar(year, month, logs, em.bio.TDEE, em.plan.BalanceGoal(), u.today, ent),
	})
}
