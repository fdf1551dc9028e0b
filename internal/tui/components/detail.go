package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/grimoire/internal/domain"
	"github.com/mmcdole/grimoire/internal/tui/styles"
)

// Detail shows every field of a single record in a scrollable viewport
type Detail struct {
	viewport  viewport.Model
	item      domain.ListItem
	favourite bool
	loading   bool
	spinner   string
	errMsg    string
	width     int
	height    int
}

// NewDetail creates an empty detail pane
func NewDetail() Detail {
	return Detail{viewport: viewport.New(0, 0)}
}

// SetItem shows item, resetting the scroll position when the record changes
func (d *Detail) SetItem(item domain.ListItem, favourite bool) {
	changed := d.item == nil || item == nil || d.item.GetID() != item.GetID()
	d.item = item
	d.favourite = favourite
	d.loading = false
	d.errMsg = ""
	d.refresh()
	if changed {
		d.viewport.GotoTop()
	}
}

// Item returns the record on display, or nil
func (d Detail) Item() domain.ListItem {
	return d.item
}

func (d *Detail) SetLoading(loading bool) {
	d.loading = loading
	d.refresh()
}

func (d *Detail) SetSpinner(frame string) {
	d.spinner = frame
	if d.loading {
		d.refresh()
	}
}

func (d *Detail) SetError(msg string) {
	d.errMsg = msg
	d.loading = false
	d.refresh()
}

func (d *Detail) SetFavourite(favourite bool) {
	d.favourite = favourite
	d.refresh()
}

// Clear drops the current record
func (d *Detail) Clear() {
	d.item = nil
	d.errMsg = ""
	d.loading = false
	d.refresh()
}

func (d *Detail) SetSize(width, height int) {
	d.width = width
	d.height = height
	frameW, frameH := styles.ActiveBorder.GetFrameSize()
	d.viewport.Width = max(width-frameW-2, 10)
	d.viewport.Height = max(height-frameH, 1)
	d.refresh()
}

// Update scrolls the viewport
func (d Detail) Update(msg tea.Msg) (Detail, tea.Cmd) {
	var cmd tea.Cmd
	d.viewport, cmd = d.viewport.Update(msg)
	return d, cmd
}

func (d Detail) View() string {
	frameW, frameH := styles.ActiveBorder.GetFrameSize()
	return styles.ActiveBorder.
		Width(max(d.width-frameW, 0)).
		Height(max(d.height-frameH, 0)).
		Padding(0, 1).
		Render(d.viewport.View())
}

func (d *Detail) refresh() {
	d.viewport.SetContent(d.render())
}

func (d *Detail) render() string {
	switch {
	case d.item == nil && d.loading:
		return styles.DimStyle.Render(d.spinner + " Summoning...")
	case d.item == nil && d.errMsg != "":
		return styles.ErrorStyle.Render(d.errMsg)
	case d.item == nil:
		return styles.DimStyle.Render("Nothing selected")
	}

	var b strings.Builder
	title := styles.TitleStyle.Render(d.item.GetTitle())
	if h, ok := d.item.(*domain.House); ok {
		title = styles.HouseStyle(h.Name).Render(h.Name)
	}
	b.WriteString(styles.KindBadge(d.item.GetKind()) + " " + title)
	if d.favourite {
		b.WriteString(" " + styles.AccentStyle.Render(styles.FavouriteChar))
	}
	b.WriteString("\n")
	switch {
	case d.loading:
		b.WriteString(styles.SpinnerStyle.Render(d.spinner + " refreshing"))
	case d.errMsg != "":
		b.WriteString(styles.ErrorStyle.Render("! " + d.errMsg))
	}
	b.WriteString("\n")

	switch v := d.item.(type) {
	case *domain.House:
		renderHouse(&b, v)
	case *domain.Spell:
		renderSpell(&b, v)
	case *domain.Elixir:
		renderElixir(&b, v)
	case *domain.Wizard:
		renderWizard(&b, v)
	case *domain.Ingredient:
		field(&b, "ID", v.ID)
	}
	return strings.TrimRight(b.String(), "\n")
}

func field(b *strings.Builder, label, value string) {
	if strings.TrimSpace(value) == "" {
		value = styles.DimStyle.Render("unknown")
	}
	fmt.Fprintf(b, "%s %s\n", styles.LabelStyle.Render(label+":"), value)
}

func section(b *strings.Builder, label string, values []string) {
	b.WriteString("\n" + styles.LabelStyle.Render(label) + "\n")
	if len(values) == 0 {
		b.WriteString(styles.DimStyle.Render("  none recorded") + "\n")
		return
	}
	for _, v := range values {
		b.WriteString("  • " + v + "\n")
	}
}

func renderHouse(b *strings.Builder, h *domain.House) {
	field(b, "Founder", h.Founder)
	field(b, "Colours", h.HouseColours)
	field(b, "Animal", h.Animal)
	field(b, "Element", h.Element)
	field(b, "Ghost", h.Ghost)
	field(b, "Common room", h.CommonRoom)

	heads := make([]string, len(h.Heads))
	for i, head := range h.Heads {
		heads[i] = head.Name()
	}
	section(b, "Heads of house", heads)

	traits := make([]string, len(h.Traits))
	for i, t := range h.Traits {
		traits[i] = t.Name
	}
	section(b, "Traits", traits)
}

func renderSpell(b *strings.Builder, s *domain.Spell) {
	field(b, "Incantation", s.Incantation)
	field(b, "Type", string(s.Type))
	field(b, "Light", string(s.Light))
	verbal := "no"
	if s.CanBeVerbal {
		verbal = "yes"
	}
	field(b, "Can be verbal", verbal)
	field(b, "Creator", s.Creator)
	b.WriteString("\n" + styles.LabelStyle.Render("Effect") + "\n")
	b.WriteString(wrap(s.Effect) + "\n")
}

func renderElixir(b *strings.Builder, e *domain.Elixir) {
	field(b, "Difficulty", string(e.Difficulty))
	field(b, "Brewing time", e.Time)
	field(b, "Manufacturer", e.Manufacturer)
	field(b, "Characteristics", e.Characteristics)
	field(b, "Side effects", e.SideEffects)
	b.WriteString("\n" + styles.LabelStyle.Render("Effect") + "\n")
	b.WriteString(wrap(e.Effect) + "\n")

	ingredients := make([]string, len(e.Ingredients))
	for i, ing := range e.Ingredients {
		ingredients[i] = ing.Name
	}
	section(b, "Ingredients", ingredients)

	inventors := make([]string, len(e.Inventors))
	for i, inv := range e.Inventors {
		inventors[i] = inv.Name()
	}
	section(b, "Inventors", inventors)
}

func renderWizard(b *strings.Builder, w *domain.Wizard) {
	field(b, "First name", w.FirstName)
	field(b, "Last name", w.LastName)
	elixirs := make([]string, len(w.Elixirs))
	for i, e := range w.Elixirs {
		elixirs[i] = e.Name
	}
	section(b, "Elixirs", elixirs)
}

func wrap(s string) string {
	if strings.TrimSpace(s) == "" {
		return styles.DimStyle.Render("unknown")
	}
	return lipgloss.NewStyle().Width(60).Render(s)
}
