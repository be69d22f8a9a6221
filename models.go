package main

import (
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

const dateLayout = "2006-01-02"

// LocalDate is a civil calendar date with no time or zone. It is stored as
// midnight UTC so that day arithmetic never crosses a DST boundary; the
// user's zone only matters when deriving "today" from an instant.
type LocalDate struct{ time.Time }

// newLocalDate builds a LocalDate from year/month/day, normalizing overflow
// the same way time.Date does.
func newLocalDate(year int, month time.Month, day int) LocalDate {
	return LocalDate{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// localDateIn returns the calendar date of t as observed in loc.
func localDateIn(t time.Time, loc *time.Location) LocalDate {
	y, m, d := t.In(loc).Date()
	return newLocalDate(y, m, d)
}

// parseLocalDate parses "YYYY-MM-DD".
func parseLocalDate(s string) (LocalDate, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return LocalDate{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return LocalDate{t}, nil
}

func (d LocalDate) String() string { return d.Time.Format(dateLayout) }

func (d LocalDate) AddDays(n int) LocalDate { return LocalDate{d.Time.AddDate(0, 0, n)} }

func (d LocalDate) Before(o LocalDate) bool { return d.Time.Before(o.Time) }

func (d LocalDate) After(o LocalDate) bool { return d.Time.After(o.Time) }

func (d LocalDate) Equal(o LocalDate) bool { return d.Time.Equal(o.Time) }

// DaysUntil returns the whole number of days from d to o (negative when o is
// earlier). Both sides are UTC midnights so the division is exact.
func (d LocalDate) DaysUntil(o LocalDate) int {
	return int(o.Time.Sub(d.Time).Hours() / 24)
}

func (d LocalDate) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *LocalDate) UnmarshalJSON(b []byte) error {
	t, err := time.Parse(`"2006-01-02"`, string(b))
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// ScanDate lets pgx read a date column straight into LocalDate. A NULL
// leaves the zero date; nullable columns map to *LocalDate instead.
func (d *LocalDate) ScanDate(v pgtype.Date) error {
	if !v.Valid {
		d.Time = time.Time{}
		return nil
	}
	y, m, day := v.Time.Date()
	d.Time = time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
	return nil
}

/* ─── Domain structs ─────────────────────────────────────────────────── */

// user is a users row. Credentials never serialize.
type user struct {
	ID        int        `json:"id" db:"id"`
	Username  string     `json:"username" db:"username"`
	Email     string     `json:"email" db:"email"`
	AuthToken string     `json:"-" db:"auth_token"`
	Password  string     `json:"-" db:"password"`
	CreatedAt *time.Time `json:"created_at" db:"created_at"`
}

// Entry types. Calories are stored as positive magnitudes; the type decides
// whether they count toward intake or outtake.
const (
	entryFood     = "food"
	entryExercise = "exercise"
)

// Entry provenance.
const (
	sourceParsed = "parsed"
	sourceManual = "manual"
)

// Profile maps to the profiles table and doubles as the immutable snapshot
// handed to every computation. Biometric fields are nullable; the engines
// report errProfileIncomplete instead of defaulting them.
type Profile struct {
	UserID           int        `json:"user_id"            db:"user_id"`
	DateOfBirth      *LocalDate `json:"date_of_birth"      db:"date_of_birth"`
	Sex              *string    `json:"sex"                db:"sex"`
	HeightCM         *float64   `json:"height_cm"          db:"height_cm"`
	StartingWeightKG *float64   `json:"starting_weight_kg" db:"starting_weight_kg"`
	CurrentWeightKG  *float64   `json:"current_weight_kg"  db:"current_weight_kg"`
	GoalWeightKG     *float64   `json:"goal_weight_kg"     db:"goal_weight_kg"`
	GoalDate         *LocalDate `json:"goal_date"          db:"goal_date"`
	ActivityLevel    *string    `json:"activity_level"     db:"activity_level"`
	Timezone         string     `json:"timezone"           db:"timezone"`
	IsPaid           bool       `json:"is_paid"            db:"is_paid"`
	CreatedAt        time.Time  `json:"created_at"         db:"created_at"`
}

// weightKG returns the weight used for BMR: current if known, otherwise the
// starting weight.
func (p Profile) weightKG() *float64 {
	if p.CurrentWeightKG != nil {
		return p.CurrentWeightKG
	}
	return p.StartingWeightKG
}

// location resolves the profile's IANA zone, falling back to fallback when
// the zone is empty or unknown.
func (p Profile) location(fallback *time.Location) *time.Location {
	if p.Timezone == "" {
		return fallback
	}
	loc, err := time.LoadLocation(p.Timezone)
	if err != nil {
		return fallback
	}
	return loc
}

// DailyLog is the per-(user, date) aggregate. Intake, outtake, protein and
// entry count are derived from the day's entries by reconciliation; weight is
// set directly.
type DailyLog struct {
	ID             int       `json:"id"              db:"id"`
	UserID         int       `json:"user_id"         db:"user_id"`
	Date           LocalDate `json:"date"            db:"date"`
	CaloricIntake  int       `json:"caloric_intake"  db:"caloric_intake"`
	CaloricOuttake int       `json:"caloric_outtake" db:"caloric_outtake"`
	ProteinG       float64   `json:"protein_g"       db:"protein_g"`
	EntryCount     int       `json:"entry_count"     db:"entry_count"`
	WeightKG       *float64  `json:"weight_kg"       db:"weight_kg"`
}

// hasEntries reports whether any food or exercise was logged. Weight-only
// days carry no balance.
func (l DailyLog) hasEntries() bool { return l.EntryCount > 0 }

// LogEntry is one logged food or exercise item belonging to a DailyLog.
type LogEntry struct {
	ID          int       `json:"id"           db:"id"`
	DailyLogID  int       `json:"daily_log_id" db:"daily_log_id"`
	Type        string    `json:"type"         db:"type"`
	Description string    `json:"description"  db:"description"`
	Calories    int       `json:"calories"     db:"calories"`
	ProteinG    *float64  `json:"protein_g"    db:"protein_g"`
	Source      string    `json:"source"       db:"source"`
	CreatedAt   time.Time `json:"created_at"   db:"created_at"`
}

// entryUpdate is a partial edit. Nil fields keep their current value.
type entryUpdate struct {
	Description *string  `json:"description,omitempty"`
	Calories    *int     `json:"calories,omitempty"`
	ProteinG    *float64 `json:"protein,omitempty"`
}

// apply writes the non-nil fields onto e. Protein is ignored for exercise.
func (u entryUpdate) apply(e *LogEntry) {
	if u.Description != nil {
		e.Description = *u.Description
	}
	if u.Calories != nil {
		e.Calories = *u.Calories
	}
	if u.ProteinG != nil && e.Type == entryFood {
		p := *u.ProteinG
		e.ProteinG = &p
	}
}

func (u entryUpdate) empty() bool {
	return u.Description == nil && u.Calories == nil && u.ProteinG == nil
}

/* ─── Request shapes ─────────────────────────────────────────────────── */

// createEntryRequest is the request body for POST /api/entries.
type createEntryRequest struct {
	Date        string   `json:"date"`
	Type        string   `json:"type"`
	Description string   `json:"description"`
	Calories    int      `json:"calories"`
	ProteinG    *float64 `json:"protein"`
}

// patchProfileRequest is the request body for PATCH /api/profile.
// Nil fields are not written.
type patchProfileRequest struct {
	DateOfBirth      *string  `json:"date_of_birth"` // YYYY-MM-DD
	Sex              *string  `json:"sex"`
	HeightCM         *float64 `json:"height_cm"`
	StartingWeightKG *float64 `json:"starting_weight_kg"`
	CurrentWeightKG  *float64 `json:"current_weight_kg"`
	GoalWeightKG     *float64 `json:"goal_weight_kg"`
	GoalDate         *string  `json:"goal_date"` // YYYY-MM-DD
	ActivityLevel    *string  `json:"activity_level"`
	Timezone         *string  `json:"timezone"`
}
