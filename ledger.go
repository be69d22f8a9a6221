package main

import (
	"context"
	"fmt"
	"log"
	"strings"
)

// dayTotals is a day's aggregate recomputed from its entries.
type dayTotals struct {
	Intake   int
	Outtake  int
	ProteinG float64
	Count    int
}

// sumEntries partitions entries by type: food adds to intake and protein,
// exercise adds to outtake.
func sumEntries(entries []LogEntry) dayTotals {
	var t dayTotals
	for _, e := range entries {
		switch e.Type {
		case entryExercise:
			t.Outtake += e.Calories
		default:
			t.Intake += e.Calories
			if e.ProteinG != nil {
				t.ProteinG += *e.ProteinG
			}
		}
		t.Count++
	}
	return t
}

// Ledger applies entry mutations and keeps each DailyLog equal to the sum of
// its entries. Totals are always recomputed from the full entry set, never
// adjusted by deltas.
type Ledger struct {
	store Store
}

func newLedger(store Store) *Ledger {
	return &Ledger{store: store}
}

// mutationResult reports what a command did.
type mutationResult struct {
	Command  string       `json:"command"`
	Applied  bool         `json:"applied"`
	Matched  int          `json:"matched"`
	Edits    []editResult `json:"edits,omitempty"`
	Inserted []LogEntry   `json:"inserted,omitempty"`
	Message  string       `json:"message,omitempty"`
	Log      *DailyLog    `json:"daily_log,omitempty"`
}

// editResult is the outcome of one edit inside a multi_edit.
type editResult struct {
	Search  string `json:"search"`
	Matched int    `json:"matched"`
}

// Apply executes a parsed command against the user's log for date.
func (l *Ledger) Apply(ctx context.Context, userID int, date LocalDate, cmd Command) (mutationResult, error) {
	res := mutationResult{Command: cmd.commandType()}

	switch c := cmd.(type) {
	case foodCommand:
		return l.insertItems(ctx, userID, date, entryFood, c.Items, res)
	case exerciseCommand:
		return l.insertItems(ctx, userID, date, entryExercise, c.Items, res)
	case weightCommand:
		dl, err := l.store.UpsertWeight(ctx, userID, date, c.WeightKG)
		if err != nil {
			return res, fmt.Errorf("upsert weight: %w", err)
		}
		res.Applied = true
		res.Log = &dl
		return res, nil
	case editCommand:
		return l.multiEdit(ctx, userID, date, []editCommand{c}, res)
	case multiEditCommand:
		return l.multiEdit(ctx, userID, date, c.Edits, res)
	case deleteCommand:
		return l.deleteMatching(ctx, userID, date, c.Search, res)
	case infoCommand:
		res.Message = c.Message
		return res, nil
	case suppressedCommand:
		res.Message = c.Message
		return res, nil
	default:
		return res, fmt.Errorf("unhandled command %T", cmd)
	}
}

// Reconcile recomputes a day's totals from its entries. Running it twice in a
// row yields the same totals.
func (l *Ledger) Reconcile(ctx context.Context, userID int, date LocalDate) (DailyLog, error) {
	var out DailyLog
	err := l.store.WithDay(ctx, userID, date, func(tx DayTx) error {
		dl, err := reconcile(ctx, tx)
		out = dl
		return err
	})
	return out, err
}

// reconcile is the single pass that follows every confirmed mutation.
func reconcile(ctx context.Context, tx DayTx) (DailyLog, error) {
	entries, err := tx.Entries(ctx)
	if err != nil {
		return DailyLog{}, fmt.Errorf("reconcile: read entries: %w", err)
	}
	dl, err := tx.SaveTotals(ctx, sumEntries(entries))
	if err != nil {
		return DailyLog{}, fmt.Errorf("reconcile: save totals: %w", err)
	}
	return dl, nil
}

func (l *Ledger) insertItems(ctx context.Context, userID int, date LocalDate, typ string, items []itemInput, res mutationResult) (mutationResult, error) {
	entries := make([]LogEntry, 0, len(items))
	for _, it := range items {
		e := LogEntry{
			Type:        typ,
			Description: strings.TrimSpace(it.Description),
			Calories:    it.Calories,
			Source:      sourceParsed,
		}
		if typ == entryFood && it.ProteinG != nil {
			p := *it.ProteinG
			e.ProteinG = &p
		}
		entries = append(entries, e)
	}
	inserted, dl, err := l.InsertEntries(ctx, userID, date, entries)
	if err != nil {
		return res, err
	}
	res.Applied = true
	res.Matched = len(inserted)
	res.Inserted = inserted
	res.Log = &dl
	return res, nil
}

// InsertEntries adds entries to a day and reconciles it.
func (l *Ledger) InsertEntries(ctx context.Context, userID int, date LocalDate, entries []LogEntry) ([]LogEntry, DailyLog, error) {
	var (
		inserted []LogEntry
		out      DailyLog
	)
	err := l.store.WithDay(ctx, userID, date, func(tx DayTx) error {
		var err error
		inserted, err = tx.InsertEntries(ctx, entries)
		if err != nil {
			return fmt.Errorf("insert entries: %w", err)
		}
		out, err = reconcile(ctx, tx)
		return err
	})
	if err != nil {
		return nil, DailyLog{}, err
	}
	return inserted, out, nil
}

// multiEdit runs each search-and-update in order against the same entry set,
// then reconciles once. Edits that match nothing are reported; if none
// matched, nothing is written.
func (l *Ledger) multiEdit(ctx context.Context, userID int, date LocalDate, edits []editCommand, res mutationResult) (mutationResult, error) {
	err := l.store.WithDay(ctx, userID, date, func(tx DayTx) error {
		entries, err := tx.Entries(ctx)
		if err != nil {
			return fmt.Errorf("read entries: %w", err)
		}

		changed := map[int]bool{}
		res.Edits = make([]editResult, 0, len(edits))
		for _, ed := range edits {
			n := 0
			for i := range entries {
				if matchesSearch(entries[i], ed.Search) {
					ed.Update.apply(&entries[i])
					changed[entries[i].ID] = true
					n++
				}
			}
			res.Edits = append(res.Edits, editResult{Search: ed.Search, Matched: n})
			res.Matched += n
		}
		if res.Matched == 0 {
			return fmt.Errorf("%w for %s", errNoMatchingEntries, searchList(edits))
		}

		updated := make([]LogEntry, 0, len(changed))
		for _, e := range entries {
			if changed[e.ID] {
				updated = append(updated, e)
			}
		}
		if err := tx.UpdateEntries(ctx, updated); err != nil {
			return fmt.Errorf("update entries: %w", err)
		}
		dl, err := reconcile(ctx, tx)
		if err != nil {
			return err
		}
		res.Log = &dl
		return nil
	})
	if err != nil {
		log.Printf("[ledger] edit user=%d date=%s: %v", userID, date, err)
		return res, err
	}
	res.Applied = true
	return res, nil
}

func (l *Ledger) deleteMatching(ctx context.Context, userID int, date LocalDate, search string, res mutationResult) (mutationResult, error) {
	err := l.store.WithDay(ctx, userID, date, func(tx DayTx) error {
		entries, err := tx.Entries(ctx)
		if err != nil {
			return fmt.Errorf("read entries: %w", err)
		}
		var ids []int
		for _, e := range entries {
			if matchesSearch(e, search) {
				ids = append(ids, e.ID)
			}
		}
		if len(ids) == 0 {
			return fmt.Errorf("%w for %q", errNoMatchingEntries, search)
		}
		if err := tx.DeleteEntries(ctx, ids); err != nil {
			return fmt.Errorf("delete entries: %w", err)
		}
		dl, err := reconcile(ctx, tx)
		if err != nil {
			return err
		}
		res.Matched = len(ids)
		res.Log = &dl
		return nil
	})
	if err != nil {
		log.Printf("[ledger] delete user=%d date=%s: %v", userID, date, err)
		return res, err
	}
	res.Applied = true
	return res, nil
}

// UpdateEntryByID edits one entry located by id rather than by search.
func (l *Ledger) UpdateEntryByID(ctx context.Context, userID, entryID int, upd entryUpdate) (LogEntry, DailyLog, error) {
	date, err := l.store.EntryDate(ctx, userID, entryID)
	if err != nil {
		return LogEntry{}, DailyLog{}, err
	}
	var (
		entry LogEntry
		out   DailyLog
	)
	err = l.store.WithDay(ctx, userID, date, func(tx DayTx) error {
		entries, err := tx.Entries(ctx)
		if err != nil {
			return fmt.Errorf("read entries: %w", err)
		}
		e, ok := findEntry(entries, entryID)
		if !ok {
			return fmt.Errorf("entry %d: %w", entryID, errNotFound)
		}
		upd.apply(&e)
		if err := tx.UpdateEntries(ctx, []LogEntry{e}); err != nil {
			return fmt.Errorf("update entry: %w", err)
		}
		entry = e
		out, err = reconcile(ctx, tx)
		return err
	})
	return entry, out, err
}

// DeleteEntryByID removes one entry located by id.
func (l *Ledger) DeleteEntryByID(ctx context.Context, userID, entryID int) (DailyLog, error) {
	date, err := l.store.EntryDate(ctx, userID, entryID)
	if err != nil {
		return DailyLog{}, err
	}
	var out DailyLog
	err = l.store.WithDay(ctx, userID, date, func(tx DayTx) error {
		if err := tx.DeleteEntries(ctx, []int{entryID}); err != nil {
			return fmt.Errorf("delete entry: %w", err)
		}
		var err error
		out, err = reconcile(ctx, tx)
		return err
	})
	return out, err
}

func findEntry(entries []LogEntry, id int) (LogEntry, bool) {
	for _, e := range entries {
		if e.ID == id {
			return e, true
		}
	}
	return LogEntry{}, false
}

func searchList(edits []editCommand) string {
	terms := make([]string, 0, len(edits))
	for _, e := range edits {
		terms = append(terms, fmt.Sprintf("%q", e.Search))
	}
	return strings.Join(terms, ", ")
}
