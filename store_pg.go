package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	profileColumns  = `user_id, date_of_birth, sex, height_cm, starting_weight_kg, current_weight_kg, goal_weight_kg, goal_date, activity_level, timezone, is_paid, created_at`
	dailyLogColumns = `id, user_id, date, caloric_intake, caloric_outtake, protein_g, entry_count, weight_kg`
	entryColumns    = `id, daily_log_id, type, description, calories, protein_g, source, created_at`
)

// pgStore implements Store on PostgreSQL. WithDay holds a row lock on the
// daily_logs row for the length of one transaction, so two mutations of the
// same day serialize while different days proceed independently.
type pgStore struct {
	pool *pgxpool.Pool
}

var _ Store = (*pgStore)(nil)

func newPGStore(pool *pgxpool.Pool) *pgStore {
	return &pgStore{pool: pool}
}

func (s *pgStore) GetProfile(ctx context.Context, userID int) (Profile, error) {
	p, err := queryOne[Profile](s.pool, ctx,
		"SELECT "+profileColumns+" FROM profiles WHERE user_id = @userID",
		pgx.NamedArgs{"userID": userID})
	if errors.Is(err, pgx.ErrNoRows) {
		return Profile{}, fmt.Errorf("profile for user %d: %w", userID, errNotFound)
	}
	return p, err
}

// UpdateProfile writes only the fields present in the patch.
func (s *pgStore) UpdateProfile(ctx context.Context, userID int, patch profilePatch) (Profile, error) {
	setClauses := []string{}
	args := pgx.NamedArgs{"userID": userID}
	set := func(column string, v any) {
		setClauses = append(setClauses, column+" = @"+column)
		args[column] = v
	}

	if patch.DateOfBirth != nil {
		set("date_of_birth", patch.DateOfBirth.String())
	}
	if patch.Sex != nil {
		set("sex", *patch.Sex)
	}
	if patch.HeightCM != nil {
		set("height_cm", *patch.HeightCM)
	}
	if patch.StartingWeightKG != nil {
		set("starting_weight_kg", *patch.StartingWeightKG)
	}
	if patch.CurrentWeightKG != nil {
		set("current_weight_kg", *patch.CurrentWeightKG)
	}
	if patch.GoalWeightKG != nil {
		set("goal_weight_kg", *patch.GoalWeightKG)
	}
	if patch.GoalDate != nil {
		set("goal_date", patch.GoalDate.String())
	}
	if patch.ActivityLevel != nil {
		set("activity_level", *patch.ActivityLevel)
	}
	if patch.Timezone != nil {
		set("timezone", *patch.Timezone)
	}
	if len(setClauses) == 0 {
		return s.GetProfile(ctx, userID)
	}

	query := "UPDATE profiles SET " + strings.Join(setClauses, ", ") +
		" WHERE user_id = @userID RETURNING " + profileColumns
	p, err := queryOne[Profile](s.pool, ctx, query, args)
	if errors.Is(err, pgx.ErrNoRows) {
		return Profile{}, fmt.Errorf("profile for user %d: %w", userID, errNotFound)
	}
	return p, err
}

func (s *pgStore) GetDailyLog(ctx context.Context, userID int, date LocalDate) (*DailyLog, error) {
	l, err := queryOne[DailyLog](s.pool, ctx,
		"SELECT "+dailyLogColumns+" FROM daily_logs WHERE user_id = @userID AND date = @date",
		pgx.NamedArgs{"userID": userID, "date": date.String()})
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (s *pgStore) ListEntries(ctx context.Context, dailyLogID int) ([]LogEntry, error) {
	return listEntries(ctx, s.pool, dailyLogID)
}

func (s *pgStore) ListDailyLogs(ctx context.Context, userID int, from, to LocalDate) ([]DailyLog, error) {
	logs, err := queryMany[DailyLog](s.pool, ctx,
		`SELECT `+dailyLogColumns+` FROM daily_logs
		 WHERE user_id = @userID AND date >= @from AND date <= @to
		 ORDER BY date ASC`,
		pgx.NamedArgs{"userID": userID, "from": from.String(), "to": to.String()})
	if err != nil {
		return nil, err
	}
	if logs == nil {
		logs = []DailyLog{}
	}
	return logs, nil
}

func (s *pgStore) EntryDate(ctx context.Context, userID, entryID int) (LocalDate, error) {
	var date LocalDate
	err := s.pool.QueryRow(ctx,
		`SELECT d.date FROM log_entries e
		 JOIN daily_logs d ON d.id = e.daily_log_id
		 WHERE e.id = $1 AND d.user_id = $2`, entryID, userID).Scan(&date)
	if errors.Is(err, pgx.ErrNoRows) {
		return LocalDate{}, fmt.Errorf("entry %d: %w", entryID, errNotFound)
	}
	return date, err
}

// UpsertWeight relies on UNIQUE(user_id, date): posting the same date again
// updates the weight in place.
func (s *pgStore) UpsertWeight(ctx context.Context, userID int, date LocalDate, weightKG float64) (DailyLog, error) {
	return queryOne[DailyLog](s.pool, ctx,
		`INSERT INTO daily_logs (user_id, date, weight_kg)
		 VALUES (@userID, @date, @weightKG)
		 ON CONFLICT (user_id, date) DO UPDATE SET weight_kg = EXCLUDED.weight_kg
		 RETURNING `+dailyLogColumns,
		pgx.NamedArgs{"userID": userID, "date": date.String(), "weightKG": weightKG})
}

func (s *pgStore) WithDay(ctx context.Context, userID int, date LocalDate, fn func(tx DayTx) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	// Rollback after Commit is a no-op.
	defer tx.Rollback(ctx)

	args := pgx.NamedArgs{"userID": userID, "date": date.String()}
	if _, err := tx.Exec(ctx,
		`INSERT INTO daily_logs (user_id, date) VALUES (@userID, @date)
		 ON CONFLICT (user_id, date) DO NOTHING`, args); err != nil {
		return fmt.Errorf("ensure daily log: %w", err)
	}
	l, err := queryOne[DailyLog](tx, ctx,
		"SELECT "+dailyLogColumns+" FROM daily_logs WHERE user_id = @userID AND date = @date FOR UPDATE",
		args)
	if err != nil {
		return fmt.Errorf("lock daily log: %w", err)
	}

	if err := fn(&pgDayTx{tx: tx, log: l}); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// pgDayTx runs inside the WithDay transaction.
type pgDayTx struct {
	tx  pgx.Tx
	log DailyLog
}

func (t *pgDayTx) Log() DailyLog { return t.log }

func (t *pgDayTx) Entries(ctx context.Context) ([]LogEntry, error) {
	return listEntries(ctx, t.tx, t.log.ID)
}

func (t *pgDayTx) InsertEntries(ctx context.Context, entries []LogEntry) ([]LogEntry, error) {
	out := make([]LogEntry, 0, len(entries))
	for _, e := range entries {
		row, err := queryOne[LogEntry](t.tx, ctx,
			`INSERT INTO log_entries (daily_log_id, type, description, calories, protein_g, source)
			 VALUES (@logID, @type, @description, @calories, @proteinG, @source)
			 RETURNING `+entryColumns,
			pgx.NamedArgs{
				"logID": t.log.ID, "type": e.Type, "description": e.Description,
				"calories": e.Calories, "proteinG": e.ProteinG, "source": e.Source,
			})
		if err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, nil
}

func (t *pgDayTx) UpdateEntries(ctx context.Context, entries []LogEntry) error {
	batch := &pgx.Batch{}
	for _, e := range entries {
		batch.Queue(
			`UPDATE log_entries SET description = $1, calories = $2, protein_g = $3
			 WHERE id = $4 AND daily_log_id = $5`,
			e.Description, e.Calories, e.ProteinG, e.ID, t.log.ID)
	}
	br := t.tx.SendBatch(ctx, batch)
	defer br.Close()
	for _, e := range entries {
		tag, err := br.Exec()
		if err != nil {
			return err
		}
		if err := requireAffected(tag, 1, fmt.Sprintf("update entry %d", e.ID)); err != nil {
			return err
		}
	}
	return nil
}

func (t *pgDayTx) DeleteEntries(ctx context.Context, ids []int) error {
	tag, err := t.tx.Exec(ctx,
		"DELETE FROM log_entries WHERE daily_log_id = $1 AND id = ANY($2)", t.log.ID, ids)
	if err != nil {
		return err
	}
	return requireAffected(tag, len(ids), "delete entries")
}

// requireAffected maps a short write to errNotFound. Inside WithDay the error
// rolls the whole day back.
func requireAffected(tag pgconn.CommandTag, want int, what string) error {
	if n := tag.RowsAffected(); n != int64(want) {
		return fmt.Errorf("%s: %d of %d rows affected: %w", what, n, want, errNotFound)
	}
	return nil
}

func (t *pgDayTx) SaveTotals(ctx context.Context, totals dayTotals) (DailyLog, error) {
	l, err := queryOne[DailyLog](t.tx, ctx,
		`UPDATE daily_logs SET
			caloric_intake = @intake,
			caloric_outtake = @outtake,
			protein_g = @protein,
			entry_count = @count,
			updated_at = now()
		 WHERE id = @id
		 RETURNING `+dailyLogColumns,
		pgx.NamedArgs{
			"id": t.log.ID, "intake": totals.Intake, "outtake": totals.Outtake,
			"protein": totals.ProteinG, "count": totals.Count,
		})
	if err != nil {
		return DailyLog{}, err
	}
	t.log = l
	return l, nil
}

func listEntries(ctx context.Context, q querier, dailyLogID int) ([]LogEntry, error) {
	entries, err := queryMany[LogEntry](q, ctx,
		"SELECT "+entryColumns+" FROM log_entries WHERE daily_log_id = @logID ORDER BY created_at, id",
		pgx.NamedArgs{"logID": dailyLogID})
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []LogEntry{}
	}
	return entries, nil
}
