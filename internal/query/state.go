package query

import (
	"context"
	"time"
)

// Status is the lifecycle of a cache entry.
type Status int

const (
	// StatusIdle means no data and nothing requested (or the query is disabled)
	StatusIdle Status = iota
	// StatusLoading means the first fetch is in flight
	StatusLoading
	// StatusSuccess means the last fetch succeeded
	StatusSuccess
	// StatusError means the last fetch failed; earlier data is kept
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	}
	return "unknown"
}

// Query describes how to load one key.
type Query struct {
	Key Key

	// StaleTime is how long data stays fresh after a successful fetch
	StaleTime time.Duration

	// Fetch loads the value; the result is stored as JSON
	Fetch func(ctx context.Context) (any, error)

	// Disabled queries never fetch and report StatusIdle
	Disabled bool
}

// State is a point-in-time view of one entry.
type State struct {
	Key        Key
	Data       []byte
	UpdatedAt  time.Time
	Status     Status
	Err        error
	IsFetching bool
	IsStale    bool
}

// HasData reports whether the entry holds a value (possibly stale)
func (s State) HasData() bool {
	return s.Data != nil
}

// IsLoading reports whether the entry is waiting for its first value
func (s State) IsLoading() bool {
	return s.Data == nil && s.IsFetching
}
