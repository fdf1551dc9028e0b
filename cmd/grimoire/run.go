package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmcdole/grimoire/internal/adapter"
	"github.com/mmcdole/grimoire/internal/domain"
	"github.com/mmcdole/grimoire/internal/search"
	"github.com/mmcdole/grimoire/internal/tui"
)

// updateBuffer bounds queued cache notifications; the observer drops on overflow
const updateBuffer = 64

func runTUI(opts *globalOptions) error {
	a, err := openApp(opts)
	if err != nil {
		return err
	}
	defer a.Close()

	a.logger.Info("starting grimoire", "version", Version, "api", a.cfg.API.BaseURL)

	updates := make(chan domain.CacheUpdate, updateBuffer)
	a.cache.AddObserver(tui.NewChannelObserver(updates))

	model := tui.NewModel(tui.Deps{
		Library:      a.library,
		Catalog:      a.catalog,
		Search:       search.NewService(a.library, a.logger),
		Auth:         a.auth,
		Router:       a.router,
		Favourites:   a.favourites,
		Updates:      updates,
		DefaultRoute: a.cfg.UI.DefaultRoute,
		Logger:       a.logger,
		Browser:      adapter.NewBrowser(a.cfg.UI.Browser, a.cfg.UI.BrowserArgs, a.logger),
		APIBaseURL:   a.cfg.API.BaseURL,
	})

	p := tea.NewProgram(model, tea.WithAltScreen())

	a.logger.Info("starting TUI")
	if _, err := p.Run(); err != nil {
		a.logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	a.logger.Info("shutting down")
	return nil
}
