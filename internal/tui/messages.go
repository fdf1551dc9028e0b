package tui

import (
	"github.com/mmcdole/grimoire/internal/domain"
)

// ErrMsg represents an error
type ErrMsg struct {
	Err     error
	Context string
}

// Error implements the error interface
func (e ErrMsg) Error() string {
	if e.Context != "" {
		return e.Context + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

// KindLoadedMsg signals that a collection finished loading into the catalog.
// Err is set when the load failed; any previous items are still present.
type KindLoadedMsg struct {
	Kind domain.Kind
	Err  error
}

// AllLoadedMsg signals that the startup fetch of every collection settled
type AllLoadedMsg struct{}

// ItemLoadedMsg carries a single record for the detail view
type ItemLoadedMsg struct {
	Kind domain.Kind
	ID   string
	Item domain.ListItem
	Err  error
}

// CacheUpdatedMsg relays a query-cache entry update from the observer
type CacheUpdatedMsg struct {
	Update domain.CacheUpdate
}

// LoginResultMsg carries the outcome of a login attempt
type LoginResultMsg struct {
	Username string
	OK       bool
}

// TickMsg is a general tick message for animations
type TickMsg struct{}

// StatusMsg sets a temporary status message
type StatusMsg struct {
	Message string
	IsError bool
}

// ClearStatusMsg clears the status bar message if it is still id
type ClearStatusMsg struct {
	ID int
}
