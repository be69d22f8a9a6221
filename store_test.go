package main

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_WithDayDiscardsOnError(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore()
	boom := errors.New("boom")

	err := store.WithDay(ctx, testUserID, testToday, func(tx DayTx) error {
		if _, err := tx.InsertEntries(ctx, []LogEntry{{Type: entryFood, Description: "Cake", Calories: 400}}); err != nil {
			return err
		}
		if _, err := reconcile(ctx, tx); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	dl, err := store.GetDailyLog(ctx, testUserID, testToday)
	require.NoError(t, err)
	assert.Nil(t, dl)
}

func TestMemoryStore_WithDayHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	store := newMemoryStore()

	err := store.WithDay(ctx, testUserID, testToday, func(tx DayTx) error {
		_, err := tx.InsertEntries(ctx, []LogEntry{{Type: entryFood, Description: "Cake", Calories: 400}})
		cancel()
		return err
	})
	require.ErrorIs(t, err, context.Canceled)

	dl, err := store.GetDailyLog(context.Background(), testUserID, testToday)
	require.NoError(t, err)
	assert.Nil(t, dl)
}

func TestMemoryStore_DeleteMissingEntry(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore()
	err := store.WithDay(ctx, testUserID, testToday, func(tx DayTx) error {
		return tx.DeleteEntries(ctx, []int{42})
	})
	assert.ErrorIs(t, err, errNotFound)
}

func TestMemoryStore_ListDailyLogsRange(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore()
	for _, offset := range []int{-10, -2, 0, 3} {
		_, err := store.UpsertWeight(ctx, testUserID, testToday.AddDays(offset), 80)
		require.NoError(t, err)
	}
	_, err := store.UpsertWeight(ctx, testUserID+1, testToday, 60)
	require.NoError(t, err)

	logs, err := store.ListDailyLogs(ctx, testUserID, testToday.AddDays(-5), testToday)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, testToday.AddDays(-2), logs[0].Date)
	assert.Equal(t, testToday, logs[1].Date)
}

func TestProfilePatch_ApplyTo(t *testing.T) {
	p := makeProfile("male", newLocalDate(1990, 1, 1), 180, 85, "light")
	tz := "Europe/Berlin"
	profilePatch{HeightCM: ptr(181.0), Timezone: &tz}.applyTo(&p)
	assert.Equal(t, 181.0, *p.HeightCM)
	assert.Equal(t, "Europe/Berlin", p.Timezone)
	assert.Equal(t, "light", *p.ActivityLevel)
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, 404, statusFor(errNotFound))
	assert.Equal(t, 400, statusFor(invalidField("x", "bad x")))
	assert.Equal(t, 422, statusFor(&profileError{Missing: []string{"sex"}}))
	assert.Equal(t, 422, statusFor(errNoMatchingEntries))
	assert.Equal(t, 500, statusFor(errors.New("db down")))
}
