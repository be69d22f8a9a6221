package main

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// Store is the persistence collaborator. Implementations must give
// read-your-writes consistency inside WithDay.
type Store interface {
	GetProfile(ctx context.Context, userID int) (Profile, error)
	UpdateProfile(ctx context.Context, userID int, patch profilePatch) (Profile, error)

	// GetDailyLog returns nil, nil when no log exists for the date.
	GetDailyLog(ctx context.Context, userID int, date LocalDate) (*DailyLog, error)
	ListEntries(ctx context.Context, dailyLogID int) ([]LogEntry, error)
	// ListDailyLogs returns logs with from <= date <= to, ascending.
	ListDailyLogs(ctx context.Context, userID int, from, to LocalDate) ([]DailyLog, error)
	// EntryDate locates the day an entry belongs to.
	EntryDate(ctx context.Context, userID, entryID int) (LocalDate, error)

	UpsertWeight(ctx context.Context, userID int, date LocalDate, weightKG float64) (DailyLog, error)

	// WithDay runs fn with exclusive access to one (user, date) log, creating
	// it if needed. Nothing fn writes is visible to readers unless fn returns
	// nil; concurrent calls for the same day run one after another.
	WithDay(ctx context.Context, userID int, date LocalDate, fn func(tx DayTx) error) error
}

// DayTx is the view of a single day inside Store.WithDay.
type DayTx interface {
	Log() DailyLog
	Entries(ctx context.Context) ([]LogEntry, error)
	InsertEntries(ctx context.Context, entries []LogEntry) ([]LogEntry, error)
	UpdateEntries(ctx context.Context, entries []LogEntry) error
	DeleteEntries(ctx context.Context, ids []int) error
	SaveTotals(ctx context.Context, t dayTotals) (DailyLog, error)
}

// profilePatch is a validated partial profile update. Nil fields are left
// unchanged.
type profilePatch struct {
	DateOfBirth      *LocalDate
	Sex              *string
	HeightCM         *float64
	StartingWeightKG *float64
	CurrentWeightKG  *float64
	GoalWeightKG     *float64
	GoalDate         *LocalDate
	ActivityLevel    *string
	Timezone         *string
}

func (pp profilePatch) applyTo(p *Profile) {
	if pp.DateOfBirth != nil {
		p.DateOfBirth = pp.DateOfBirth
	}
	if pp.Sex != nil {
		p.Sex = pp.Sex
	}
	if pp.HeightCM != nil {
		p.HeightCM = pp.HeightCM
	}
	if pp.StartingWeightKG != nil {
		p.StartingWeightKG = pp.StartingWeightKG
	}
	if pp.CurrentWeightKG != nil {
		p.CurrentWeightKG = pp.CurrentWeightKG
	}
	if pp.GoalWeightKG != nil {
		p.GoalWeightKG = pp.GoalWeightKG
	}
	if pp.GoalDate != nil {
		p.GoalDate = pp.GoalDate
	}
	if pp.ActivityLevel != nil {
		p.ActivityLevel = pp.ActivityLevel
	}
	if pp.Timezone != nil {
		p.Timezone = *pp.Timezone
	}
}

/* ─── In-memory store ────────────────────────────────────────────────── */

var _ Store = (*memoryStore)(nil)

type dayKey struct {
	userID int
	date   string
}

// memoryStore keeps everything in maps. Used for tests and STORE=memory.
type memoryStore struct {
	mu       sync.RWMutex
	dayLocks map[dayKey]*sync.Mutex
	profiles map[int]Profile
	logs     map[dayKey]DailyLog
	entries  map[int][]LogEntry // by daily log id

	nextLogID   int
	nextEntryID int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		dayLocks: make(map[dayKey]*sync.Mutex),
		profiles: make(map[int]Profile),
		logs:     make(map[dayKey]DailyLog),
		entries:  make(map[int][]LogEntry),
	}
}

// putProfile seeds a profile. Tests and the memory-mode bootstrap use it.
func (s *memoryStore) putProfile(p Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[p.UserID] = p
}

func (s *memoryStore) GetProfile(_ context.Context, userID int) (Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.profiles[userID]
	if !ok {
		return Profile{}, fmt.Errorf("profile for user %d: %w", userID, errNotFound)
	}
	return p, nil
}

func (s *memoryStore) UpdateProfile(_ context.Context, userID int, patch profilePatch) (Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[userID]
	if !ok {
		return Profile{}, fmt.Errorf("profile for user %d: %w", userID, errNotFound)
	}
	patch.applyTo(&p)
	s.profiles[userID] = p
	return p, nil
}

func (s *memoryStore) GetDailyLog(_ context.Context, userID int, date LocalDate) (*DailyLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.logs[dayKey{userID, date.String()}]
	if !ok {
		return nil, nil
	}
	return &l, nil
}

func (s *memoryStore) ListEntries(_ context.Context, dailyLogID int) ([]LogEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]LogEntry{}, s.entries[dailyLogID]...), nil
}

func (s *memoryStore) ListDailyLogs(_ context.Context, userID int, from, to LocalDate) ([]DailyLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []DailyLog{}
	for k, l := range s.logs {
		if k.userID != userID || l.Date.Before(from) || l.Date.After(to) {
			continue
		}
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (s *memoryStore) EntryDate(_ context.Context, userID, entryID int) (LocalDate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for k, l := range s.logs {
		if k.userID != userID {
			continue
		}
		for _, e := range s.entries[l.ID] {
			if e.ID == entryID {
				return l.Date, nil
			}
		}
	}
	return LocalDate{}, fmt.Errorf("entry %d: %w", entryID, errNotFound)
}

func (s *memoryStore) UpsertWeight(_ context.Context, userID int, date LocalDate, weightKG float64) (DailyLog, error) {
	key := dayKey{userID, date.String()}
	lock := s.dayLock(key)
	lock.Lock()
	defer lock.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.logs[key]
	if !ok {
		s.nextLogID++
		l = DailyLog{ID: s.nextLogID, UserID: userID, Date: date}
	}
	w := weightKG
	l.WeightKG = &w
	s.logs[key] = l
	return l, nil
}

// dayLock returns the mutex serializing mutations of one day.
func (s *memoryStore) dayLock(key dayKey) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.dayLocks[key]
	if !ok {
		m = &sync.Mutex{}
		s.dayLocks[key] = m
	}
	return m
}

func (s *memoryStore) WithDay(ctx context.Context, userID int, date LocalDate, fn func(tx DayTx) error) error {
	key := dayKey{userID, date.String()}
	lock := s.dayLock(key)
	lock.Lock()
	defer lock.Unlock()

	s.mu.Lock()
	l, ok := s.logs[key]
	if !ok {
		s.nextLogID++
		l = DailyLog{ID: s.nextLogID, UserID: userID, Date: date}
	}
	staged := append([]LogEntry{}, s.entries[l.ID]...)
	s.mu.Unlock()

	tx := &memDayTx{store: s, log: l, entries: staged}
	if err := fn(tx); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.logs[key] = tx.log
	s.entries[tx.log.ID] = tx.entries
	return nil
}

// memDayTx mutates a private copy of one day; WithDay commits it.
type memDayTx struct {
	store   *memoryStore
	log     DailyLog
	entries []LogEntry
}

func (t *memDayTx) Log() DailyLog { return t.log }

func (t *memDayTx) Entries(context.Context) ([]LogEntry, error) {
	return append([]LogEntry{}, t.entries...), nil
}

func (t *memDayTx) InsertEntries(_ context.Context, entries []LogEntry) ([]LogEntry, error) {
	out := make([]LogEntry, 0, len(entries))
	t.store.mu.Lock()
	for _, e := range entries {
		t.store.nextEntryID++
		e.ID = t.store.nextEntryID
		e.DailyLogID = t.log.ID
		if e.CreatedAt.IsZero() {
			e.CreatedAt = time.Now()
		}
		out = append(out, e)
	}
	t.store.mu.Unlock()
	t.entries = append(t.entries, out...)
	return out, nil
}

func (t *memDayTx) UpdateEntries(_ context.Context, entries []LogEntry) error {
	for _, u := range entries {
		found := false
		for i := range t.entries {
			if t.entries[i].ID == u.ID {
				u.DailyLogID = t.log.ID
				t.entries[i] = u
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("entry %d: %w", u.ID, errNotFound)
		}
	}
	return nil
}

func (t *memDayTx) DeleteEntries(_ context.Context, ids []int) error {
	drop := make(map[int]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}
	kept := t.entries[:0:0]
	for _, e := range t.entries {
		if drop[e.ID] {
			delete(drop, e.ID)
			continue
		}
		kept = append(kept, e)
	}
	if len(drop) > 0 {
		return fmt.Errorf("delete entries: %d not found: %w", len(drop), errNotFound)
	}
	t.entries = kept
	return nil
}

func (t *memDayTx) SaveTotals(_ context.Context, totals dayTotals) (DailyLog, error) {
	t.log.CaloricIntake = totals.Intake
	t.log.CaloricOuttake = totals.Outtake
	t.log.ProteinG = totals.ProteinG
	t.log.EntryCount = totals.Count
	return t.log, nil
}
