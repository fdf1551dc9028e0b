package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/grimoire/internal/tui/styles"
)

// View renders the whole screen
func (m Model) View() string {
	if m.Width == 0 {
		return "Loading..."
	}
	if m.ShowHelp {
		return m.renderHelp()
	}
	if m.Omnibar.IsVisible() {
		return m.Omnibar.View()
	}

	var body string
	switch m.Screen {
	case ScreenLogin:
		body = m.Login.View()
	case ScreenHome:
		body = m.renderHome()
	case ScreenList:
		body = m.List.View()
	case ScreenDetail:
		body = m.Detail.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left, m.renderHeader(), body, m.renderFooter())
}

// renderHeader shows the route, the chosen house, the user and the
// connection state.
func (m Model) renderHeader() string {
	left := styles.AccentStyle.Bold(true).Render("Grimoire") + " " + styles.DimStyle.Render(m.Route.Path)

	var right []string
	if m.SelectedHouse != "" {
		right = append(right, styles.HouseStyle(m.SelectedHouse).Render(m.SelectedHouse))
	}
	if m.deps.Auth != nil {
		if u := m.deps.Auth.User(); u != nil {
			right = append(right, styles.SubtitleStyle.Render(u.Username)+styles.DimStyle.Render(" ("+u.Role+")"))
		}
	}
	if m.Online {
		right = append(right, styles.OnlineBadge)
	} else {
		right = append(right, styles.OfflineBadge)
	}

	return spread(left, strings.Join(right, "  "), m.Width)
}

func (m Model) renderFooter() string {
	var left string
	switch {
	case m.StatusMsg != "" && m.StatusIsErr:
		left = styles.ErrorStyle.Render(m.StatusMsg)
	case m.StatusMsg != "":
		left = styles.DimStyle.Render(m.StatusMsg)
	case m.deps.Catalog != nil && m.deps.Catalog.IsAnyLoading():
		left = styles.SpinnerStyle.Render(styles.Spinner(m.SpinnerFrame)) + styles.DimStyle.Render(" Loading archives...")
	}

	right := styles.HelpKeyStyle.Render("?") + styles.HelpDescStyle.Render(" help")
	if m.deps.Router != nil && m.deps.Router.Depth() > 1 {
		right = styles.HelpKeyStyle.Render("esc") + styles.HelpDescStyle.Render(" back  ") + right
	}
	if m.Screen == ScreenLogin {
		right = styles.HelpKeyStyle.Render("C-c") + styles.HelpDescStyle.Render(" quit")
	}
	return spread(left, right, m.Width)
}

func (m Model) renderHome() string {
	hint := styles.DimStyle.Render("Choose a section, or press s to search everything already loaded.")
	return lipgloss.JoinVertical(lipgloss.Left, m.Home.View(), hint)
}

// renderHelp lists every binding in the KeyMap's groups
func (m Model) renderHelp() string {
	var cols []string
	for _, group := range Keys.FullHelp() {
		var lines []string
		for _, b := range group {
			lines = append(lines, renderBinding(b))
		}
		cols = append(cols, strings.Join(lines, "\n"))
	}

	nav := []string{
		renderBinding(key.NewBinding(key.WithHelp("j/k", "up/down"))),
		renderBinding(key.NewBinding(key.WithHelp("g/G", "top/bottom"))),
		renderBinding(key.NewBinding(key.WithHelp("C-u/C-d", "half page"))),
	}
	cols = append([]string{strings.Join(nav, "\n")}, cols...)

	for i := range cols {
		cols[i] = lipgloss.NewStyle().MarginRight(4).Render(cols[i])
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		styles.ModalTitleStyle.Render("Keys"),
		lipgloss.JoinHorizontal(lipgloss.Top, cols...),
		"",
		styles.DimStyle.Render("Press any key to return..."),
	)
	return lipgloss.Place(m.Width, m.Height, lipgloss.Center, lipgloss.Center, styles.ModalStyle.Render(content))
}

func renderBinding(b key.Binding) string {
	h := b.Help()
	return styles.HelpKeyStyle.Render(padRight(h.Key, 9)) + styles.HelpDescStyle.Render(h.Desc)
}

func padRight(s string, width int) string {
	if w := lipgloss.Width(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s + " "
}

// spread places left and right at opposite edges of a width-wide line
func spread(left, right string, width int) string {
	gap := max(width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return left + strings.Repeat(" ", gap) + right
}
