package tui

import (
	"context"
	"net/url"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmcdole/grimoire/internal/auth"
	"github.com/mmcdole/grimoire/internal/catalog"
	"github.com/mmcdole/grimoire/internal/domain"
	"github.com/mmcdole/grimoire/internal/library"
)

// Command factories for async operations

const loadTimeout = 60 * time.Second

// LoadKindCmd loads one collection into the catalog
func LoadKindCmd(cat *catalog.Catalog, kind domain.Kind) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()
		return KindLoadedMsg{Kind: kind, Err: cat.Fetch(ctx, kind)}
	}
}

// LoadAllCmd loads every collection concurrently; failures are recorded per kind
func LoadAllCmd(cat *catalog.Catalog) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()
		cat.FetchAllResources(ctx)
		return AllLoadedMsg{}
	}
}

// RefreshKindCmd bypasses staleness and refetches a collection
func RefreshKindCmd(svc *library.Service, cat *catalog.Catalog, kind domain.Kind) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()
		if err := svc.Refresh(ctx, kind); err != nil {
			return KindLoadedMsg{Kind: kind, Err: err}
		}
		return KindLoadedMsg{Kind: kind, Err: cat.Fetch(ctx, kind)}
	}
}

// RefreshAllCmd marks every cached query stale and reloads the catalog
func RefreshAllCmd(svc *library.Service, cat *catalog.Catalog) tea.Cmd {
	return func() tea.Msg {
		svc.InvalidateAll()
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()
		cat.FetchAllResources(ctx)
		return AllLoadedMsg{}
	}
}

// LoadItemCmd loads a single record through its own query
func LoadItemCmd(svc *library.Service, kind domain.Kind, id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()
		item, err := svc.Item(ctx, kind, id)
		return ItemLoadedMsg{Kind: kind, ID: id, Item: item, Err: err}
	}
}

// RefreshItemCmd refetches a single record regardless of staleness
func RefreshItemCmd(svc *library.Service, kind domain.Kind, id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()
		if err := svc.RefreshItem(ctx, kind, id); err != nil {
			return ItemLoadedMsg{Kind: kind, ID: id, Err: err}
		}
		item, err := svc.Item(ctx, kind, id)
		return ItemLoadedMsg{Kind: kind, ID: id, Item: item, Err: err}
	}
}

// PrefetchCmd starts background loads for absent or stale collections.
// Results arrive as cache updates, not as a message.
func PrefetchCmd(svc *library.Service) tea.Cmd {
	return func() tea.Msg {
		svc.Prefetch()
		return nil
	}
}

// OpenURLCmd hands url to the browser and reports the outcome
func OpenURLCmd(b URLOpener, link string) tea.Cmd {
	return func() tea.Msg {
		if err := b.Open(link); err != nil {
			return StatusMsg{Message: "Could not open browser: " + err.Error(), IsError: true}
		}
		return StatusMsg{Message: "Opened " + link}
	}
}

// recordURL is the API address of one record
func recordURL(baseURL string, kind domain.Kind, id string) string {
	return strings.TrimSuffix(baseURL, "/") + kind.Path() + "/" + url.PathEscape(id)
}

// LoginCmd checks credentials off the update loop
func LoginCmd(store *auth.Store, username, password string) tea.Cmd {
	return func() tea.Msg {
		return LoginResultMsg{Username: username, OK: store.Login(username, password)}
	}
}

// WaitForCacheUpdateCmd blocks until the observer relays the next update
func WaitForCacheUpdateCmd(updates <-chan domain.CacheUpdate) tea.Cmd {
	if updates == nil {
		return nil
	}
	return func() tea.Msg {
		update, ok := <-updates
		if !ok {
			return nil
		}
		return CacheUpdatedMsg{Update: update}
	}
}

// TickCmd returns a command that sends a tick after a delay
func TickCmd(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return TickMsg{}
	})
}

// ClearStatusCmd clears status message id after a delay
func ClearStatusCmd(id int, delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return ClearStatusMsg{ID: id}
	})
}
