package main

import (
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// validEntryTypes mirrors the log_entries.type CHECK constraint.
var validEntryTypes = map[string]bool{
	entryFood:     true,
	entryExercise: true,
}

// energyModel is what every balance view needs from the profile: TDEE and
// the goal plan. A profile without a goal has the zero plan (goal balance 0).
type energyModel struct {
	bio  biometrics
	plan goalPlan
}

func energyFor(u userDay) (energyModel, error) {
	bio, err := profileBiometrics(u.profile, u.today)
	if err != nil {
		return energyModel{}, err
	}
	plan, _ := profileGoalPlan(u.profile, u.today)
	return energyModel{bio: bio, plan: plan}, nil
}

// getDailySummary returns the day's entries and computed aggregate.
// GET /api/daily?date=YYYY-MM-DD (defaults to the user's today).
func (h *Handler) getDailySummary(c *gin.Context) {
	u, err := h.loadUser(c)
	if err != nil {
		apiFail(c, err, "failed to fetch profile")
		return
	}
	date, err := u.dateParam(c.Query("date"))
	if err != nil {
		apiFail(c, err, "invalid date")
		return
	}
	em, err := energyFor(u)
	if err != nil {
		apiFail(c, err, "failed to compute energy model")
		return
	}

	userID := c.GetInt("user_id")
	dl, err := h.store.GetDailyLog(c, userID, date)
	if err != nil {
		apiFail(c, err, "failed to fetch daily log")
		return
	}
	prev, err := h.store.GetDailyLog(c, userID, date.AddDays(-1))
	if err != nil {
		apiFail(c, err, "failed to fetch daily log")
		return
	}
	var entries []LogEntry
	if dl != nil {
		entries, err = h.store.ListEntries(c, dl.ID)
		if err != nil {
			apiFail(c, err, "failed to fetch entries")
			return
		}
	}

	c.JSON(http.StatusOK, buildDaySummary(date, dl, prev, entries, em.bio.TDEE, em.plan))
}

// createEntry inserts a manually entered food or exercise item.
// POST /api/entries. Defaults date to the user's today if omitted.
func (h *Handler) createEntry(c *gin.Context) {
	u, err := h.loadUser(c)
	if err != nil {
		apiFail(c, err, "failed to fetch profile")
		return
	}

	var body createEntryRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	body.Description = strings.TrimSpace(body.Description)
	if body.Description == "" {
		apiError(c, http.StatusBadRequest, "description is required")
		return
	}
	if !validEntryTypes[body.Type] {
		apiError(c, http.StatusBadRequest, "type must be one of: food, exercise")
		return
	}
	if body.Calories < 0 {
		apiError(c, http.StatusBadRequest, "calories must not be negative")
		return
	}
	date, err := u.dateParam(body.Date)
	if err != nil {
		apiFail(c, err, "invalid date")
		return
	}

	e := LogEntry{Type: body.Type, Description: body.Description, Calories: body.Calories, Source: sourceManual}
	if body.Type == entryFood {
		e.ProteinG = body.ProteinG
	}
	inserted, dl, err := h.ledger.InsertEntries(c, c.GetInt("user_id"), date, []LogEntry{e})
	if err != nil {
		apiFail(c, err, "failed to create entry")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"entry": inserted[0], "daily_log": dl})
}

// updateEntry edits one entry by id. Omitted fields keep their current value.
// PUT /api/entries/:id.
func (h *Handler) updateEntry(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		apiError(c, http.StatusBadRequest, "invalid entry id")
		return
	}
	var body entryUpdate
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.empty() {
		apiError(c, http.StatusBadRequest, "no fields to update")
		return
	}
	if body.Calories != nil && *body.Calories < 0 {
		apiError(c, http.StatusBadRequest, "calories must not be negative")
		return
	}

	entry, dl, err := h.ledger.UpdateEntryByID(c, c.GetInt("user_id"), id, body)
	if err != nil {
		apiFail(c, err, "failed to update entry")
		return
	}

	c.JSON(http.StatusOK, gin.H{"entry": entry, "daily_log": dl})
}

// deleteEntry removes one entry by id and returns the reconciled day.
// DELETE /api/entries/:id.
func (h *Handler) deleteEntry(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		apiError(c, http.StatusBadRequest, "invalid entry id")
		return
	}

	dl, err := h.ledger.DeleteEntryByID(c, c.GetInt("user_id"), id)
	if err != nil {
		apiFail(c, err, "failed to delete entry")
		return
	}

	c.JSON(http.StatusOK, gin.H{"daily_log": dl})
}

// reconcileDay recomputes a day's totals from its entries.
// POST /api/daily/reconcile?date=YYYY-MM-DD.
func (h *Handler) reconcileDay(c *gin.Context) {
	u, err := h.loadUser(c)
	if err != nil {
		apiFail(c, err, "failed to fetch profile")
		return
	}
	date, err := u.dateParam(c.Query("date"))
	if err != nil {
		apiFail(c, err, "invalid date")
		return
	}

	dl, err := h.ledger.Reconcile(c, c.GetInt("user_id"), date)
	if err != nil {
		apiFail(c, err, "failed to reconcile")
		return
	}

	c.JSON(http.StatusOK, dl)
}

// applyCommand applies an already-parsed tagged-union command.
// POST /api/agent/commands?date=YYYY-MM-DD with the command as the body.
func (h *Handler) applyCommand(c *gin.Context) {
	u, err := h.loadUser(c)
	if err != nil {
		apiFail(c, err, "failed to fetch profile")
		return
	}
	date, err := u.dateParam(c.Query("date"))
	if err != nil {
		apiFail(c, err, "invalid date")
		return
	}
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	cmd, err := decodeCommand(raw)
	if err != nil {
		apiFail(c, err, "invalid command")
		return
	}

	h.respondApplied(c, date, cmd)
}

// respondApplied runs cmd through the ledger and writes the result. A search
// that matched nothing is a 422 carrying the result, not a silent success.
func (h *Handler) respondApplied(c *gin.Context, date LocalDate, cmd Command) {
	res, err := h.ledger.Apply(c, c.GetInt("user_id"), date, cmd)
	if err != nil {
		status := statusFor(err)
		if status >= 500 {
			apiFail(c, err, "failed to apply command")
			return
		}
		c.JSON(status, gin.H{"error": err.Error(), "result": res})
		return
	}
	c.JSON(http.StatusOK, res)
}
