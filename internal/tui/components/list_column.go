package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/mmcdole/grimoire/internal/domain"
	"github.com/mmcdole/grimoire/internal/tui/styles"
)

// Layout constants for list columns
const (
	// Border adds 1 char on each side (left+right for width, top+bottom for height)
	BorderWidth  = 2
	BorderHeight = 2

	// Scroll indicators ("↑ more" and "↓ more") each take 1 line
	ScrollIndicatorLines = 2
)

// ListColumn is a scrollable, filterable list of domain.ListItem.
type ListColumn struct {
	items []domain.ListItem

	// Selection
	cursor     int
	offset     int
	maxVisible int

	// Dimensions
	width   int
	height  int
	focused bool

	title string

	// Loading and error state, supplied by the owner
	loading bool
	spinner string
	errMsg  string

	// Reports whether an id should carry the favourite marker
	marked func(id string) bool

	// Filter state
	filterActive bool
	filterInput  textinput.Model
	filterQuery  string
	filtered     []fuzzy.Match // nil = no filter
}

// NewListColumn creates an empty list column
func NewListColumn(title string) *ListColumn {
	ti := textinput.New()
	ti.Placeholder = "type to filter..."
	ti.Prompt = "/ "
	ti.PromptStyle = styles.FilterPromptStyle
	ti.TextStyle = styles.FilterStyle

	return &ListColumn{
		title:       title,
		filterInput: ti,
		focused:     true,
	}
}

// Update handles navigation and filter typing
func (c *ListColumn) Update(msg tea.Msg) (*ListColumn, tea.Cmd) {
	if !c.focused {
		return c, nil
	}

	keyMsg, isKey := msg.(tea.KeyMsg)

	// Typing into the filter
	if c.filterActive && c.filterInput.Focused() {
		if isKey {
			switch {
			case key.Matches(keyMsg, ListColumnKeys.Escape):
				c.clearFilter()
				return c, nil
			case key.Matches(keyMsg, ListColumnKeys.Enter):
				// Accept filter, blur input to allow navigation
				c.filterInput.Blur()
				return c, nil
			case keyMsg.String() == "backspace" && c.filterInput.Value() == "":
				c.clearFilter()
				return c, nil
			}
		}
		var cmd tea.Cmd
		c.filterInput, cmd = c.filterInput.Update(msg)
		c.applyFilter()
		return c, cmd
	}

	if !isKey {
		return c, nil
	}

	// Filter applied but blurred
	if c.filterActive {
		switch {
		case key.Matches(keyMsg, ListColumnKeys.Escape):
			c.clearFilter()
			return c, nil
		case key.Matches(keyMsg, ListColumnKeys.Filter):
			c.filterInput.Focus()
			return c, nil
		}
	}

	count := c.ItemCount()
	if count == 0 {
		return c, nil
	}

	switch {
	case key.Matches(keyMsg, ListColumnKeys.Down):
		if c.cursor < count-1 {
			c.cursor++
		}
	case key.Matches(keyMsg, ListColumnKeys.Up):
		if c.cursor > 0 {
			c.cursor--
		}
	case key.Matches(keyMsg, ListColumnKeys.Home):
		c.cursor = 0
	case key.Matches(keyMsg, ListColumnKeys.End):
		c.cursor = count - 1
	case key.Matches(keyMsg, ListColumnKeys.HalfDown):
		c.cursor = min(c.cursor+c.maxVisible/2, count-1)
	case key.Matches(keyMsg, ListColumnKeys.HalfUp):
		c.cursor = max(c.cursor-c.maxVisible/2, 0)
	}
	c.ensureVisible()
	return c, nil
}

// View renders the column inside its border
func (c *ListColumn) View() string {
	style := styles.InactiveBorder
	if c.focused {
		style = styles.ActiveBorder
	}
	frameW, frameH := style.GetFrameSize()
	return style.
		Width(max(c.width-frameW, 0)).
		Height(max(c.height-frameH, 0)).
		Render(c.renderContent())
}

// SetItems replaces the list contents, keeping the cursor on the same id
// when it is still present (background revalidation must not jump the
// selection).
func (c *ListColumn) SetItems(items []domain.ListItem) {
	selectedID := ""
	if sel := c.SelectedItem(); sel != nil {
		selectedID = sel.GetID()
	}

	c.items = items
	c.loading = false
	if c.filterActive {
		c.applyFilter()
	}

	c.cursor = 0
	if selectedID != "" {
		for i := 0; i < c.ItemCount(); i++ {
			if c.items[c.mapIndex(i)].GetID() == selectedID {
				c.cursor = i
				break
			}
		}
	}
	c.ensureVisible()
}

func (c *ListColumn) SetSize(width, height int) {
	c.width = width
	c.height = height
	c.recalcMaxVisible()
	c.ensureVisible()
}

func (c *ListColumn) SetFocused(focused bool)       { c.focused = focused }
func (c *ListColumn) SetLoading(loading bool)       { c.loading = loading }
func (c *ListColumn) IsLoading() bool               { return c.loading }
func (c *ListColumn) SetSpinner(frame string)       { c.spinner = frame }
func (c *ListColumn) SetError(msg string)           { c.errMsg = msg }
func (c *ListColumn) SetMarked(f func(string) bool) { c.marked = f }

// SelectedItem returns the item under the cursor, or nil
func (c *ListColumn) SelectedItem() domain.ListItem {
	count := c.ItemCount()
	if count == 0 || c.cursor >= count {
		return nil
	}
	return c.items[c.mapIndex(c.cursor)]
}

// ItemCount returns the number of visible (filtered) items
func (c *ListColumn) ItemCount() int {
	if c.filtered != nil {
		return len(c.filtered)
	}
	return len(c.items)
}

// ToggleFilter activates the filter input
func (c *ListColumn) ToggleFilter() {
	c.filterActive = true
	c.filterInput.Focus()
	c.recalcMaxVisible()
}

// IsFilterTyping returns true if filter is active AND input is focused
func (c *ListColumn) IsFilterTyping() bool {
	return c.filterActive && c.filterInput.Focused()
}

// IsFiltering returns true if filter mode is active
func (c *ListColumn) IsFiltering() bool {
	return c.filterActive
}

// titleSource adapts the items to fuzzy.Source, matching on lowercased titles
type titleSource []domain.ListItem

func (s titleSource) String(i int) string { return strings.ToLower(s[i].GetTitle()) }
func (s titleSource) Len() int            { return len(s) }

func (c *ListColumn) applyFilter() {
	c.filterQuery = c.filterInput.Value()
	if c.filterQuery == "" {
		c.filtered = nil
		return
	}
	c.filtered = fuzzy.FindFrom(strings.ToLower(c.filterQuery), titleSource(c.items))
	if c.filtered == nil {
		c.filtered = fuzzy.Matches{}
	}
	c.cursor = 0
	c.offset = 0
}

func (c *ListColumn) clearFilter() {
	c.filterActive = false
	c.filterQuery = ""
	c.filtered = nil
	c.filterInput.SetValue("")
	c.filterInput.Blur()
	c.recalcMaxVisible()
}

func (c *ListColumn) mapIndex(i int) int {
	if c.filtered != nil && i < len(c.filtered) {
		return c.filtered[i].Index
	}
	return i
}

func (c *ListColumn) matchedIndexes(i int) []int {
	if c.filtered != nil && i < len(c.filtered) {
		return c.filtered[i].MatchedIndexes
	}
	return nil
}

func (c *ListColumn) recalcMaxVisible() {
	// Interior minus title line and scroll indicators
	c.maxVisible = c.height - BorderHeight - ScrollIndicatorLines - 1
	if c.filterActive {
		c.maxVisible--
	}
	if c.maxVisible < 1 {
		c.maxVisible = 1
	}
}

func (c *ListColumn) ensureVisible() {
	if c.maxVisible <= 0 {
		return
	}
	if c.cursor < c.offset {
		c.offset = c.cursor
	}
	if c.cursor >= c.offset+c.maxVisible {
		c.offset = c.cursor - c.maxVisible + 1
	}
}

// Rendering

func (c *ListColumn) renderContent() string {
	itemWidth := max(c.width-BorderWidth, 10)
	titleLine := styles.AccentStyle.Render(styles.Truncate(c.title, itemWidth))

	count := c.ItemCount()
	if c.loading && count == 0 {
		return titleLine + "\n \n" + styles.DimStyle.Render(c.spinner+" Summoning...") + "\n "
	}
	if c.errMsg != "" && count == 0 {
		return titleLine + "\n \n" + styles.ErrorStyle.Render(styles.Truncate(c.errMsg, itemWidth)) + "\n "
	}
	if count == 0 {
		empty := "Nothing here"
		if c.filterActive && c.filterQuery != "" {
			empty = "No matches"
		}
		content := titleLine + "\n \n" + styles.DimStyle.Render(empty) + "\n "
		if c.filterActive {
			content += "\n" + c.renderFilterBar()
		}
		return content
	}

	end := min(c.offset+c.maxVisible, count)
	lines := make([]string, 0, end-c.offset)
	for i := c.offset; i < end; i++ {
		lines = append(lines, c.renderItem(i, itemWidth))
	}

	// Always reserve the indicator lines so the layout does not shift
	header := " "
	if c.offset > 0 {
		header = styles.DimStyle.Render("↑ more")
	}
	footer := " "
	if end < count {
		footer = styles.DimStyle.Render("↓ more")
	}
	// A refresh in progress or a failed revalidation is shown above stale rows
	if c.loading {
		header = styles.SpinnerStyle.Render(c.spinner + " refreshing")
	} else if c.errMsg != "" {
		header = styles.ErrorStyle.Render(styles.Truncate("! "+c.errMsg, itemWidth))
	}

	content := titleLine + "\n" + header + "\n" + strings.Join(lines, "\n") + "\n" + footer
	if c.filterActive {
		content += "\n" + c.renderFilterBar()
	}
	return content
}

func (c *ListColumn) renderItem(i, width int) string {
	item := c.items[c.mapIndex(i)]
	selected := i == c.cursor

	marker := "  "
	markerFg := styles.DimGray
	if c.marked != nil && c.marked(item.GetID()) {
		marker = styles.FavouriteChar + " "
		markerFg = styles.Gold
	}

	title := item.GetTitle()
	desc := item.GetDescription()
	// margins(2) + marker(2)
	avail := max(width-4, 5)
	if desc != "" && lipgloss.Width(title)+len(desc)+3 <= avail {
		desc = "  " + desc
	} else {
		desc = ""
	}
	title = styles.Truncate(title, avail-lipgloss.Width(desc))

	dim := styles.DimGray
	parts := []styles.RowPart{{Text: marker, Foreground: &markerFg}}
	if idx := c.matchedIndexes(i); len(idx) > 0 && !selected {
		parts = append(parts, styles.RowPart{Text: styles.Highlight(title, idx, styles.SubtitleStyle)})
	} else {
		parts = append(parts, styles.RowPart{Text: title})
	}
	if desc != "" {
		parts = append(parts, styles.RowPart{Text: desc, Foreground: &dim})
	}
	return styles.RenderListRow(parts, selected, width)
}

func (c *ListColumn) renderFilterBar() string {
	countStr := ""
	if c.filterQuery != "" {
		countStr = styles.DimStyle.Render(fmt.Sprintf(" [%d/%d]", c.ItemCount(), len(c.items)))
	}
	return c.filterInput.View() + countStr
}
