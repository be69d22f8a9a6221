package main

import "time"

// Clock supplies the current instant. Handlers never call time.Now directly
// so that "today", "is future" and "is locked" are reproducible in tests.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// fixedClock always returns the same instant.
type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

// todayFor returns the profile's current local calendar day.
func todayFor(clock Clock, p Profile, fallback *time.Location) LocalDate {
	return localDateIn(clock.Now(), p.location(fallback))
}
