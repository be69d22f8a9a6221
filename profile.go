package main

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// validSexes lists accepted values; "other" selects the neutral BMR offset.
var validSexes = map[string]bool{"male": true, "female": true, "other": true}

// profileResponse is the profile plus values derived from it. Computed fields
// are omitted when the profile lacks what they need.
type profileResponse struct {
	Profile
	Biometrics  *biometrics `json:"biometrics,omitempty"`
	GoalPlan    *goalPlan   `json:"goal_plan,omitempty"`
	DailyBudget *int        `json:"daily_budget,omitempty"`
	BalanceGoal *int        `json:"balance_goal,omitempty"`
	Missing     []string    `json:"missing_fields,omitempty"`
	Entitlement entitlement `json:"entitlement"`
}

func (h *Handler) buildProfileResponse(u userDay) profileResponse {
	resp := profileResponse{
		Profile:     u.profile,
		Entitlement: entitlementFor(u.profile, h.cfg.TrialDays, h.cfg.DefaultLocation),
	}
	bio, err := profileBiometrics(u.profile, u.today)
	var pe *profileError
	if errors.As(err, &pe) {
		resp.Missing = pe.Missing
	}
	if plan, ok := profileGoalPlan(u.profile, u.today); ok {
		resp.GoalPlan = &plan
		goal := plan.BalanceGoal()
		resp.BalanceGoal = &goal
		if err == nil {
			budget := dailyBudget(bio.TDEE, plan)
			resp.DailyBudget = &budget
		}
	}
	if err == nil {
		resp.Biometrics = &bio
	}
	return resp
}

// getProfile returns the profile with computed BMR, TDEE and goal plan.
// GET /api/profile.
func (h *Handler) getProfile(c *gin.Context) {
	u, err := h.loadUser(c)
	if err != nil {
		apiFail(c, err, "failed to fetch profile")
		return
	}
	c.JSON(http.StatusOK, h.buildProfileResponse(u))
}

// patchProfile updates only the provided profile fields.
// PATCH /api/profile. Pointer fields in the request body distinguish "not
// provided" from zero.
func (h *Handler) patchProfile(c *gin.Context) {
	var body patchProfileRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	patch, err := body.validate()
	if err != nil {
		apiFail(c, err, "invalid profile")
		return
	}

	if _, err := h.store.UpdateProfile(c, c.GetInt("user_id"), patch); err != nil {
		apiFail(c, err, "failed to update profile")
		return
	}
	u, err := h.loadUser(c)
	if err != nil {
		apiFail(c, err, "failed to fetch profile")
		return
	}
	c.JSON(http.StatusOK, h.buildProfileResponse(u))
}

// validate checks every provided field and converts it to a profilePatch.
func (r patchProfileRequest) validate() (profilePatch, error) {
	var p profilePatch
	if r.DateOfBirth != nil {
		d, err := parseLocalDate(*r.DateOfBirth)
		if err != nil {
			return p, invalidField("date_of_birth", "date_of_birth: "+err.Error())
		}
		p.DateOfBirth = &d
	}
	if r.GoalDate != nil {
		d, err := parseLocalDate(*r.GoalDate)
		if err != nil {
			return p, invalidField("goal_date", "goal_date: "+err.Error())
		}
		p.GoalDate = &d
	}
	if r.Sex != nil {
		if !validSexes[*r.Sex] {
			return p, invalidField("sex", "sex must be one of: male, female, other")
		}
		p.Sex = r.Sex
	}
	// An unknown level would break every later TDEE calculation.
	if r.ActivityLevel != nil {
		if _, ok := activityMultipliers[*r.ActivityLevel]; !ok {
			return p, invalidField("activity_level", "activity_level must be one of: sedentary, light, moderate, active, very_active")
		}
		p.ActivityLevel = r.ActivityLevel
	}
	if r.HeightCM != nil {
		if *r.HeightCM <= 0 || *r.HeightCM > 300 {
			return p, invalidField("height_cm", "height_cm must be between 0 and 300")
		}
		p.HeightCM = r.HeightCM
	}
	for _, w := range []struct {
		field string
		in    *float64
		out   **float64
	}{
		{"starting_weight_kg", r.StartingWeightKG, &p.StartingWeightKG},
		{"current_weight_kg", r.CurrentWeightKG, &p.CurrentWeightKG},
		{"goal_weight_kg", r.GoalWeightKG, &p.GoalWeightKG},
	} {
		if w.in == nil {
			continue
		}
		if err := validateWeight(*w.in); err != nil {
			return p, invalidField(w.field, w.field+" must be between 0 and 999.9")
		}
		*w.out = w.in
	}
	if r.Timezone != nil {
		if _, err := time.LoadLocation(*r.Timezone); err != nil {
			return p, invalidField("timezone", "timezone must be an IANA zone name")
		}
		p.Timezone = r.Timezone
	}
	return p, nil
}
