package tui

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmcdole/grimoire/internal/auth"
	"github.com/mmcdole/grimoire/internal/catalog"
	"github.com/mmcdole/grimoire/internal/domain"
	"github.com/mmcdole/grimoire/internal/favourites"
	"github.com/mmcdole/grimoire/internal/library"
	"github.com/mmcdole/grimoire/internal/router"
	"github.com/mmcdole/grimoire/internal/search"
	"github.com/mmcdole/grimoire/internal/tui/components"
	"github.com/mmcdole/grimoire/internal/tui/styles"
)

// Screen is the kind of view the current route renders
type Screen int

const (
	ScreenLogin Screen = iota
	ScreenHome
	ScreenList
	ScreenDetail
)

const (
	tickInterval   = 100 * time.Millisecond
	statusDuration = 3 * time.Second
	maxSuggestions = 3

	// Header and footer lines
	ChromeHeight = 2
)

// Deps are the services the UI drives. Favourites is keyed by kind; kinds
// without an entry cannot be favourited.
type Deps struct {
	Library      *library.Service
	Catalog      *catalog.Catalog
	Search       *search.Service
	Auth         *auth.Store
	Router       *router.Router
	Favourites   map[domain.Kind]*favourites.Store
	Updates      <-chan domain.CacheUpdate
	DefaultRoute string
	Logger       *slog.Logger

	// Browser and APIBaseURL back the "open in browser" action; nil disables it
	Browser    URLOpener
	APIBaseURL string
}

// URLOpener opens a URL outside the terminal
type URLOpener interface {
	Open(url string) error
}

// Model is the main Bubble Tea model for the application
type Model struct {
	deps   Deps
	logger *slog.Logger

	// Current route and the screen it maps to
	Route  router.Match
	Screen Screen

	// UI Components
	Login   components.LoginForm
	Home    *components.ListColumn
	List    *components.ListColumn
	Detail  components.Detail
	Omnibar components.Omnibar

	// Dimensions
	Width  int
	Height int

	// UI state
	Online        bool
	SelectedHouse string
	ShowHelp      bool
	StatusMsg     string
	StatusIsErr   bool
	statusID      int
	SpinnerFrame  int
}

// NewModel creates the model and enters the starting route: the default
// route for a restored session, otherwise the login screen.
func NewModel(deps Deps) Model {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.DefaultRoute == "" {
		deps.DefaultRoute = router.HomePath
	}

	m := Model{
		deps:    deps,
		logger:  deps.Logger,
		Login:   components.NewLoginForm(),
		Home:    components.NewListColumn("Archives"),
		List:    components.NewListColumn(""),
		Detail:  components.NewDetail(),
		Omnibar: components.NewOmnibar(),
		Online:  true,
	}
	m.navigate(deps.DefaultRoute)
	return m
}

// Init starts the spinner, the cache listener and, for a restored session,
// the initial load of every collection. On the login screen the cache is
// warmed in the background instead.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		TickCmd(tickInterval),
		WaitForCacheUpdateCmd(m.deps.Updates),
	}
	if m.Screen == ScreenLogin {
		cmds = append(cmds, PrefetchCmd(m.deps.Library))
	} else {
		cmds = append(cmds, LoadAllCmd(m.deps.Catalog), m.enterCmd())
	}
	return tea.Batch(cmds...)
}

// Update handles all messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.updateLayout()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case TickMsg:
		m.SpinnerFrame++
		frame := styles.Spinner(m.SpinnerFrame)
		m.List.SetSpinner(frame)
		m.Detail.SetSpinner(frame)
		if m.List.IsLoading() || m.deps.Catalog.IsAnyLoading() {
			m.syncList()
		}
		return m, TickCmd(tickInterval)

	case LoginResultMsg:
		if !msg.OK {
			m.Login.SetError("Invalid username or password")
			return m, nil
		}
		m.Login.Reset()
		m.navigate(m.deps.DefaultRoute)
		return m, tea.Batch(
			LoadAllCmd(m.deps.Catalog),
			m.enterCmd(),
			m.setStatus("Welcome, "+msg.Username, false),
		)

	case KindLoadedMsg:
		m.noteResult(msg.Err)
		m.syncHome()
		if m.Screen == ScreenList && m.Route.Route.Kind == msg.Kind {
			m.syncList()
		}
		if msg.Err != nil && !errors.Is(msg.Err, domain.ErrServerOffline) {
			return m, m.setStatus(fmt.Sprintf("Could not load %s: %v", msg.Kind, msg.Err), true)
		}
		return m, nil

	case AllLoadedMsg:
		m.syncHome()
		m.syncList()
		return m, nil

	case ItemLoadedMsg:
		m.noteResult(msg.Err)
		if m.Screen != ScreenDetail || m.Route.Param("id") != msg.ID {
			return m, nil
		}
		if msg.Err != nil {
			m.Detail.SetError(describeError(msg.Err))
			return m, nil
		}
		m.Detail.SetItem(msg.Item, m.isFavourite(msg.Kind, msg.ID))
		return m, nil

	case CacheUpdatedMsg:
		cmd := m.handleCacheUpdate(msg.Update)
		return m, tea.Batch(cmd, WaitForCacheUpdateCmd(m.deps.Updates))

	case StatusMsg:
		return m, m.setStatus(msg.Message, msg.IsError)

	case ClearStatusMsg:
		if msg.ID == m.statusID {
			m.StatusMsg = ""
			m.StatusIsErr = false
		}
		return m, nil

	case ErrMsg:
		m.logger.Error("ui error", "context", msg.Context, "error", msg.Err)
		return m, m.setStatus(msg.Error(), true)
	}

	return m, nil
}

func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	// Modal input owns the keyboard
	if m.Omnibar.IsVisible() {
		return m.handleOmnibarKey(msg)
	}
	if m.Screen == ScreenLogin {
		var cmd tea.Cmd
		var submitted bool
		m.Login, cmd, submitted = m.Login.Update(msg)
		if submitted {
			user, pass := m.Login.Credentials()
			m.Login.SetPending(true)
			return m, LoginCmd(m.deps.Auth, user, pass)
		}
		return m, cmd
	}
	if m.Screen == ScreenList && m.List.IsFilterTyping() {
		var cmd tea.Cmd
		m.List, cmd = m.List.Update(msg)
		return m, cmd
	}

	if m.ShowHelp {
		m.ShowHelp = false
		return m, nil
	}

	switch {
	case key.Matches(msg, Keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, Keys.Help):
		m.ShowHelp = true
		return m, nil

	case key.Matches(msg, Keys.Search):
		m.Omnibar.Show()
		m.focusColumns(false)
		return m, nil

	case key.Matches(msg, Keys.Logout):
		m.deps.Auth.Logout()
		m.enterCurrent()
		return m, m.setStatus("Signed out", false)

	case key.Matches(msg, Keys.Back):
		if m.Screen == ScreenList && m.List.IsFiltering() && key.Matches(msg, components.ListColumnKeys.Escape) {
			m.List, _ = m.List.Update(msg)
			return m, nil
		}
		if _, ok := m.deps.Router.Back(); ok {
			m.enterCurrent()
			return m, m.enterCmd()
		}
		return m, nil

	case key.Matches(msg, Keys.RefreshAll):
		return m, tea.Batch(
			RefreshAllCmd(m.deps.Library, m.deps.Catalog),
			m.setStatus("Refreshing everything", false),
		)
	}

	switch m.Screen {
	case ScreenHome:
		return m.handleHomeKey(msg)
	case ScreenList:
		return m.handleListKey(msg)
	case ScreenDetail:
		return m.handleDetailKey(msg)
	}
	return m, nil
}

func (m Model) handleHomeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, Keys.Enter):
		if sel := m.Home.SelectedItem(); sel != nil {
			return m, m.navigate(router.ListPath(sel.GetKind()))
		}
		return m, nil
	case key.Matches(msg, Keys.Refresh):
		return m, tea.Batch(LoadAllCmd(m.deps.Catalog), m.setStatus("Reloading archives", false))
	}
	var cmd tea.Cmd
	m.Home, cmd = m.Home.Update(msg)
	return m, cmd
}

func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	kind := m.Route.Route.Kind
	sel := m.List.SelectedItem()

	switch {
	case key.Matches(msg, Keys.Filter):
		m.List.ToggleFilter()
		return m, nil

	case key.Matches(msg, Keys.Enter):
		if sel == nil {
			return m, nil
		}
		path := router.DetailPath(kind, sel.GetID())
		if _, ok := router.Resolve(path); !ok {
			return m, m.setStatus(fmt.Sprintf("%s have no detail page", kind.Label()), false)
		}
		return m, m.navigate(path)

	case key.Matches(msg, Keys.Favourite):
		if sel == nil {
			return m, nil
		}
		return m, m.toggleFavourite(kind, sel)

	case key.Matches(msg, Keys.SelectHouse):
		if h, ok := sel.(*domain.House); ok {
			return m, m.selectHouse(h.Name)
		}
		return m, nil

	case key.Matches(msg, Keys.Refresh):
		m.List.SetLoading(true)
		return m, RefreshKindCmd(m.deps.Library, m.deps.Catalog, kind)
	}

	var cmd tea.Cmd
	m.List, cmd = m.List.Update(msg)
	return m, cmd
}

func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	kind := m.Route.Route.Kind
	id := m.Route.Param("id")

	switch {
	case key.Matches(msg, Keys.Favourite):
		if item := m.Detail.Item(); item != nil {
			cmd := m.toggleFavourite(kind, item)
			m.Detail.SetFavourite(m.isFavourite(kind, id))
			return m, cmd
		}
		return m, nil

	case key.Matches(msg, Keys.SelectHouse):
		if h, ok := m.Detail.Item().(*domain.House); ok {
			return m, m.selectHouse(h.Name)
		}
		return m, nil

	case key.Matches(msg, Keys.Open):
		if m.deps.Browser == nil || m.deps.APIBaseURL == "" {
			return m, m.setStatus("No browser configured", true)
		}
		return m, OpenURLCmd(m.deps.Browser, recordURL(m.deps.APIBaseURL, kind, id))

	case key.Matches(msg, Keys.Refresh):
		m.Detail.SetLoading(true)
		return m, RefreshItemCmd(m.deps.Library, kind, id)
	}

	var cmd tea.Cmd
	m.Detail, cmd = m.Detail.Update(msg)
	return m, cmd
}

func (m Model) handleOmnibarKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	var selected bool
	m.Omnibar, cmd, selected = m.Omnibar.Update(msg)
	m.focusColumns(!m.Omnibar.IsVisible())

	if selected {
		res := m.Omnibar.SelectedResult()
		m.Omnibar.Hide()
		m.focusColumns(true)
		if res == nil {
			return m, nil
		}
		kind := res.Item.GetKind()
		path := router.DetailPath(kind, res.Item.GetID())
		if _, ok := router.Resolve(path); !ok {
			path = router.ListPath(kind)
		}
		return m, m.navigate(path)
	}

	if m.Omnibar.QueryChanged() {
		query := m.Omnibar.Query()
		results := m.deps.Search.Search(query, nil)
		m.Omnibar.SetResults(results)
		if len(results) == 0 {
			m.Omnibar.SetSuggestions(m.suggest(query))
		}
	}
	return m, cmd
}

// focusColumns dims the columns behind the omnibar
func (m Model) focusColumns(focused bool) {
	m.Home.SetFocused(focused)
	m.List.SetFocused(focused)
}

// suggest offers loose title matches across kinds when a search finds nothing
func (m Model) suggest(query string) []string {
	var out []string
	for _, kind := range domain.Kinds {
		out = append(out, m.deps.Search.Suggest(query, kind, maxSuggestions)...)
		if len(out) >= maxSuggestions {
			return out[:maxSuggestions]
		}
	}
	return out
}

// handleCacheUpdate reloads the visible view after a background fetch
// completes. Failed updates only flip the online indicator; reloading on
// failure would revalidate the stale entry again.
func (m *Model) handleCacheUpdate(u domain.CacheUpdate) tea.Cmd {
	if u.Fetching {
		return nil
	}
	m.noteResult(u.Error)
	if u.Error != nil {
		return nil
	}

	switch m.Screen {
	case ScreenHome:
		if kind, err := domain.ParseKind(u.Key); err == nil {
			return LoadKindCmd(m.deps.Catalog, kind)
		}
	case ScreenList:
		if u.Key == string(m.Route.Route.Kind) {
			return LoadKindCmd(m.deps.Catalog, m.Route.Route.Kind)
		}
	case ScreenDetail:
		kind := m.Route.Route.Kind
		if u.Key == kind.Singular()+":"+m.Route.Param("id") {
			return LoadItemCmd(m.deps.Library, kind, m.Route.Param("id"))
		}
	}
	return nil
}

// navigate enters path through the router guard and returns the load
// command for the resulting screen.
func (m *Model) navigate(path string) tea.Cmd {
	match, err := m.deps.Router.Navigate(path)
	if err != nil {
		m.logger.Warn("navigation failed", "path", path, "error", err)
		return m.setStatus("Nowhere to go: "+path, true)
	}
	m.enter(match)

	var status tea.Cmd
	if match.Path != path && match.Route.Name == router.NameHome {
		status = m.setStatus("That page requires a different role", true)
	}
	return tea.Batch(m.enterCmd(), status)
}

// enterCurrent re-enters whatever the router reports as current
func (m *Model) enterCurrent() {
	if match, ok := m.deps.Router.Current(); ok {
		m.enter(match)
	}
}

func (m *Model) enter(match router.Match) {
	m.Route = match
	m.ShowHelp = false

	switch {
	case match.Route.Name == router.NameLogin:
		m.Screen = ScreenLogin
		m.Login.Reset()
	case match.Route.Name == router.NameHome:
		m.Screen = ScreenHome
		m.syncHome()
	case match.IsDetail():
		m.Screen = ScreenDetail
		kind, id := match.Route.Kind, match.Param("id")
		if item, ok := m.deps.Catalog.Lookup(kind, id); ok {
			m.Detail.SetItem(item, m.isFavourite(kind, id))
		} else {
			m.Detail.Clear()
		}
		m.Detail.SetLoading(true)
	default:
		m.Screen = ScreenList
		kind := match.Route.Kind
		m.List = components.NewListColumn(kind.Label())
		m.List.SetMarked(m.isFavouriteIn(kind))
		m.List.SetSpinner(styles.Spinner(m.SpinnerFrame))
		m.syncList()
	}
	m.updateLayout()
}

// enterCmd returns the load command for the current screen
func (m Model) enterCmd() tea.Cmd {
	switch m.Screen {
	case ScreenList:
		return LoadKindCmd(m.deps.Catalog, m.Route.Route.Kind)
	case ScreenDetail:
		return LoadItemCmd(m.deps.Library, m.Route.Route.Kind, m.Route.Param("id"))
	}
	return nil
}

// syncList copies the catalog state for the listed kind into the column
func (m *Model) syncList() {
	if m.Screen != ScreenList {
		return
	}
	view, err := m.deps.Catalog.View(m.Route.Route.Kind)
	if err != nil {
		return
	}
	m.List.SetItems(view.Items)
	m.List.SetLoading(view.Loading)
	m.List.SetError(view.Error)
}

// syncHome rebuilds the section list with current counts
func (m *Model) syncHome() {
	var user *auth.User
	if m.deps.Auth != nil {
		user = m.deps.Auth.User()
	}

	var sections []domain.ListItem
	for _, r := range router.Routes {
		if r.Kind == "" || r.Pattern != router.ListPath(r.Kind) {
			continue
		}
		if router.Guard(r, user) != "" {
			continue
		}
		view, _ := m.deps.Catalog.View(r.Kind)
		sections = append(sections, &section{kind: r.Kind, view: view})
	}
	m.Home.SetItems(sections)
}

func (m *Model) toggleFavourite(kind domain.Kind, item domain.ListItem) tea.Cmd {
	store, ok := m.deps.Favourites[kind]
	if !ok {
		return m.setStatus(kind.Label()+" cannot be favourited", false)
	}
	added, err := store.Toggle(item.GetID())
	if err != nil {
		m.logger.Error("failed to save favourites", "kind", kind, "error", err)
		return m.setStatus("Favourite not saved: "+err.Error(), true)
	}
	if added {
		return m.setStatus(item.GetTitle()+" added to favourites", false)
	}
	return m.setStatus(item.GetTitle()+" removed from favourites", false)
}

func (m *Model) selectHouse(name string) tea.Cmd {
	if m.SelectedHouse == name {
		m.SelectedHouse = ""
		return m.setStatus("House cleared", false)
	}
	m.SelectedHouse = name
	return m.setStatus("Sorted into "+name, false)
}

func (m Model) isFavourite(kind domain.Kind, id string) bool {
	store, ok := m.deps.Favourites[kind]
	return ok && store.IsFavourite(id)
}

// isFavouriteIn returns a marker func for one kind's list
func (m Model) isFavouriteIn(kind domain.Kind) func(string) bool {
	store, ok := m.deps.Favourites[kind]
	if !ok {
		return nil
	}
	return store.IsFavourite
}

// noteResult tracks the online indicator: offline after a transport
// failure, online after any success.
func (m *Model) noteResult(err error) {
	switch {
	case err == nil:
		m.Online = true
	case errors.Is(err, domain.ErrServerOffline):
		m.Online = false
	}
}

func (m *Model) setStatus(msg string, isErr bool) tea.Cmd {
	m.statusID++
	m.StatusMsg = msg
	m.StatusIsErr = isErr
	return ClearStatusCmd(m.statusID, statusDuration)
}

func (m *Model) updateLayout() {
	bodyHeight := max(m.Height-ChromeHeight, 3)
	m.Login.SetSize(m.Width, bodyHeight)
	m.Home.SetSize(min(m.Width, 48), bodyHeight-1)
	m.List.SetSize(m.Width, bodyHeight)
	m.Detail.SetSize(m.Width, bodyHeight)
	m.Omnibar.SetSize(m.Width, m.Height)
}

func describeError(err error) string {
	switch {
	case errors.Is(err, domain.ErrServerOffline):
		return "The archives are unreachable. Showing what is cached."
	case errors.Is(err, domain.ErrNotFound):
		return "No such record"
	default:
		return err.Error()
	}
}

// section is a home-screen entry for one collection
type section struct {
	kind domain.Kind
	view catalog.View
}

func (s *section) GetID() string       { return string(s.kind) }
func (s *section) GetTitle() string    { return s.kind.Label() }
func (s *section) GetKind() domain.Kind { return s.kind }
func (s *section) GetDescription() string {
	switch {
	case s.view.Loading && len(s.view.Items) == 0:
		return "loading"
	case s.view.Error != "" && len(s.view.Items) == 0:
		return "unavailable"
	default:
		return fmt.Sprintf("%d", len(s.view.Items))
	}
}
