package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/grimoire/internal/search"
	"github.com/mmcdole/grimoire/internal/tui/styles"
)

const omnibarMaxResults = 10

// Omnibar is the search modal over everything already cached
type Omnibar struct {
	input       textinput.Model
	results     []search.Result
	suggestions []string
	cursor      int
	visible     bool
	width       int
	height      int
	prevQuery   string
}

// NewOmnibar creates a new omnibar component
func NewOmnibar() Omnibar {
	ti := textinput.New()
	ti.Placeholder = "Search spells, houses, elixirs..."
	ti.CharLimit = 100
	ti.Width = 40
	ti.Prompt = "/ "
	ti.PromptStyle = styles.AccentStyle
	ti.TextStyle = lipgloss.NewStyle().Foreground(styles.White)
	ti.PlaceholderStyle = styles.DimStyle

	return Omnibar{input: ti}
}

// Show makes the omnibar visible and focuses the input
func (o *Omnibar) Show() {
	o.visible = true
	o.input.SetValue("")
	o.input.Focus()
	o.results = nil
	o.suggestions = nil
	o.cursor = 0
	o.prevQuery = ""
}

// Hide hides the omnibar
func (o *Omnibar) Hide() {
	o.visible = false
	o.input.Blur()
}

// IsVisible returns true if the omnibar is visible
func (o Omnibar) IsVisible() bool {
	return o.visible
}

// SetResults sets the search results
func (o *Omnibar) SetResults(results []search.Result) {
	o.results = results
	o.suggestions = nil
	o.cursor = 0
}

// SetSuggestions sets the titles offered when nothing matched
func (o *Omnibar) SetSuggestions(titles []string) {
	o.suggestions = titles
}

// Suggestions returns the titles currently offered
func (o Omnibar) Suggestions() []string {
	return o.suggestions
}

// SetSize updates the component dimensions
func (o *Omnibar) SetSize(width, height int) {
	o.width = width
	o.height = height
	o.input.Width = max(width*2/3-10, 20)
}

// Query returns the current search query
func (o Omnibar) Query() string {
	return o.input.Value()
}

// QueryChanged reports whether the query changed since the last call
func (o *Omnibar) QueryChanged() bool {
	current := o.input.Value()
	if current != o.prevQuery {
		o.prevQuery = current
		return true
	}
	return false
}

// SelectedResult returns the highlighted result, or nil
func (o Omnibar) SelectedResult() *search.Result {
	if o.cursor >= len(o.results) {
		return nil
	}
	return &o.results[o.cursor]
}

// Update handles messages, returns (omnibar, cmd, selected)
func (o Omnibar) Update(msg tea.Msg) (Omnibar, tea.Cmd, bool) {
	if !o.visible {
		return o, nil, false
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, OmnibarKeys.Escape):
			o.Hide()
			return o, nil, false
		case key.Matches(keyMsg, OmnibarKeys.Enter):
			return o, nil, len(o.results) > 0
		case key.Matches(keyMsg, OmnibarKeys.Down):
			if o.cursor < min(len(o.results), omnibarMaxResults)-1 {
				o.cursor++
			}
			return o, nil, false
		case key.Matches(keyMsg, OmnibarKeys.Up):
			if o.cursor > 0 {
				o.cursor--
			}
			return o, nil, false
		}
	}

	var cmd tea.Cmd
	o.input, cmd = o.input.Update(msg)
	return o, cmd, false
}

// View renders the modal centred on screen
func (o Omnibar) View() string {
	if !o.visible {
		return ""
	}

	modalWidth := min(max(o.width*2/3, 40), 80)

	var b strings.Builder
	b.WriteString(o.input.View())
	b.WriteString("\n\n")
	o.renderResults(&b, modalWidth)

	content := lipgloss.NewStyle().Width(modalWidth - 4).Render(b.String())
	modal := styles.ModalStyle.Width(modalWidth).Render(content)
	return lipgloss.Place(o.width, o.height, lipgloss.Center, lipgloss.Center, modal)
}

func (o Omnibar) renderResults(b *strings.Builder, modalWidth int) {
	if len(o.results) == 0 {
		if strings.TrimSpace(o.input.Value()) == "" {
			return
		}
		b.WriteString(styles.DimStyle.Render("No matches in the cached archives"))
		if len(o.suggestions) > 0 {
			b.WriteString("\n")
			b.WriteString(styles.DimStyle.Render("Did you mean: "))
			b.WriteString(styles.AccentStyle.Render(strings.Join(o.suggestions, ", ")))
		}
		return
	}

	shown := min(len(o.results), omnibarMaxResults)
	for i := 0; i < shown; i++ {
		r := o.results[i]
		style := styles.NormalItemStyle
		if i == o.cursor {
			style = styles.SelectedItemStyle
		}

		title := styles.Truncate(r.Item.GetTitle(), modalWidth-20)
		matched := r.MatchedIndexes
		if len([]rune(title)) < len([]rune(r.Item.GetTitle())) {
			matched = nil
		}

		b.WriteString(styles.KindBadge(r.Item.GetKind()))
		b.WriteString(" ")
		if i == o.cursor {
			b.WriteString(style.Render(title))
		} else {
			b.WriteString(styles.Highlight(title, matched, style.UnsetPadding()))
		}
		b.WriteString("\n")
	}

	if len(o.results) > omnibarMaxResults {
		b.WriteString(styles.DimStyle.Render(fmt.Sprintf("... and %d more", len(o.results)-omnibarMaxResults)))
	}
}
