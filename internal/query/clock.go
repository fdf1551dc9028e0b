package query

import "time"

// Clock abstracts time so staleness can be tested deterministically.
type Clock interface {
	Now() time.Time
}

// RealClock returns the actual current time.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }
