package main

import (
	"fmt"
	"math"
)

// activityMultipliers is keyed by activity level. Its keys are also the set
// patchProfile accepts.
var activityMultipliers = map[string]float64{
	"sedentary":   1.2,
	"light":       1.375,
	"moderate":    1.55,
	"active":      1.725,
	"very_active": 1.9,
}

// Sex offsets for Mifflin-St Jeor. Anything other than male/female gets the
// midpoint of the two.
const (
	bmrOffsetMale    = 5
	bmrOffsetFemale  = -161
	bmrOffsetNeutral = -78
)

// bmr computes basal metabolic rate (kcal/day) via Mifflin-St Jeor, rounded
// to the nearest integer.
func bmr(weightKG, heightCM float64, ageYears int, sex string) int {
	base := 10*weightKG + 6.25*heightCM - 5*float64(ageYears)
	switch sex {
	case "male":
		base += bmrOffsetMale
	case "female":
		base += bmrOffsetFemale
	default:
		base += bmrOffsetNeutral
	}
	return int(math.Round(base))
}

// tdee scales BMR by the activity multiplier. ok is false for an unknown level.
func tdee(bmr int, activityLevel string) (int, bool) {
	mult, found := activityMultipliers[activityLevel]
	if !found {
		return 0, false
	}
	return int(math.Round(float64(bmr) * mult)), true
}

// ageOn returns whole years elapsed between dob and today.
func ageOn(dob, today LocalDate) int {
	age := today.Year() - dob.Year()
	if today.Before(LocalDate{dob.AddDate(age, 0, 0)}) {
		age--
	}
	return age
}

// biometrics is the computed BMR/TDEE pair for a profile on a given day.
type biometrics struct {
	AgeYears int `json:"age_years"`
	BMR      int `json:"bmr"`
	TDEE     int `json:"tdee"`
}

// profileBiometrics computes BMR and TDEE from the profile snapshot. Missing
// height, birth date, sex, weight or activity level is a configuration error,
// never a silent zero.
func profileBiometrics(p Profile, today LocalDate) (biometrics, error) {
	var missing []string
	if p.HeightCM == nil {
		missing = append(missing, "height_cm")
	}
	if p.DateOfBirth == nil {
		missing = append(missing, "date_of_birth")
	}
	if p.Sex == nil {
		missing = append(missing, "sex")
	}
	if p.weightKG() == nil {
		missing = append(missing, "starting_weight_kg")
	}
	if p.ActivityLevel == nil {
		missing = append(missing, "activity_level")
	}
	if len(missing) > 0 {
		return biometrics{}, &profileError{Missing: missing}
	}

	age := ageOn(*p.DateOfBirth, today)
	if age < 0 || age > 130 {
		return biometrics{}, fmt.Errorf("%w: implausible age %d", errProfileIncomplete, age)
	}

	b := bmr(*p.weightKG(), *p.HeightCM, age, *p.Sex)
	t, ok := tdee(b, *p.ActivityLevel)
	if !ok {
		return biometrics{}, fmt.Errorf("%w: unknown activity level %q", errProfileIncomplete, *p.ActivityLevel)
	}
	return biometrics{AgeYears: age, BMR: b, TDEE: t}, nil
}
