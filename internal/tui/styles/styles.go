package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/grimoire/internal/domain"
)

// Color palette
var (
	Gold       = lipgloss.Color("#D4A017")
	Parchment  = lipgloss.Color("#F5E9C8")
	SlateDark  = lipgloss.Color("#1F2937")
	SlateLight = lipgloss.Color("#374151")
	DimGray    = lipgloss.Color("#6B7280")
	LightGray  = lipgloss.Color("#9CA3AF")
	White      = lipgloss.Color("#F9FAFB")
	Green      = lipgloss.Color("#10B981")
	Red        = lipgloss.Color("#EF4444")
)

// House accent colours, keyed by lowercased house name
var HouseColours = map[string]lipgloss.Color{
	"gryffindor": lipgloss.Color("#AE0001"),
	"slytherin":  lipgloss.Color("#2A623D"),
	"ravenclaw":  lipgloss.Color("#222F5B"),
	"hufflepuff": lipgloss.Color("#ECB939"),
}

// Borders
var (
	ActiveBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Gold)

	InactiveBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(DimGray)
)

// Text styles
var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(White).
			Bold(true)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(LightGray)

	DimStyle = lipgloss.NewStyle().
			Foreground(DimGray)

	AccentStyle = lipgloss.NewStyle().
			Foreground(Gold)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(Red)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(Green)

	LabelStyle = lipgloss.NewStyle().
			Foreground(Gold).
			Bold(true)
)

// Favourite marker
const FavouriteChar = "★"

// Badge styles
var (
	BadgeStyle = lipgloss.NewStyle().
			Foreground(SlateDark).
			Background(Gold).
			Padding(0, 1)

	DimBadgeStyle = lipgloss.NewStyle().
			Foreground(LightGray).
			Background(SlateLight).
			Padding(0, 1)

	OnlineBadge  = lipgloss.NewStyle().Foreground(Green).Render("● online")
	OfflineBadge = lipgloss.NewStyle().Foreground(Red).Render("● offline")
)

// List item styles
var (
	SelectedItemStyle = lipgloss.NewStyle().
				Foreground(White).
				Background(SlateLight).
				Padding(0, 1)

	NormalItemStyle = lipgloss.NewStyle().
			Foreground(LightGray).
			Padding(0, 1)
)

// Modal styles
var (
	ModalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Gold).
			Padding(1, 2)

	ModalTitleStyle = lipgloss.NewStyle().
			Foreground(Parchment).
			Bold(true).
			MarginBottom(1)
)

// Help styles
var (
	HelpKeyStyle = lipgloss.NewStyle().
			Foreground(Gold)

	HelpDescStyle = lipgloss.NewStyle().
			Foreground(DimGray)
)

// Filter styles
var (
	SpinnerStyle = lipgloss.NewStyle().
			Foreground(Gold)

	FilterStyle = lipgloss.NewStyle().
			Foreground(Gold)

	FilterPromptStyle = lipgloss.NewStyle().
				Foreground(Gold).
				Bold(true)

	MatchHighlightStyle = lipgloss.NewStyle().
				Foreground(Gold).
				Bold(true)
)

// SpinnerFrames are cycled on every tick while something loads
var SpinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Spinner returns the frame for tick n
func Spinner(n int) string {
	return SpinnerFrames[n%len(SpinnerFrames)]
}

// KindBadge renders a short dim badge for a resource kind
func KindBadge(kind domain.Kind) string {
	return DimBadgeStyle.Render(strings.ToUpper(kind.Singular()))
}

// HouseStyle returns an accent style for a house name, falling back to gold
func HouseStyle(name string) lipgloss.Style {
	if c, ok := HouseColours[strings.ToLower(name)]; ok {
		return lipgloss.NewStyle().Foreground(c).Bold(true)
	}
	return AccentStyle.Bold(true)
}

// Truncate shortens s to width runes, ending with an ellipsis
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width <= 3 {
		return string(r[:width])
	}
	return string(r[:width-3]) + "..."
}

// Highlight renders s with the runes at idx emphasised
func Highlight(s string, idx []int, base lipgloss.Style) string {
	if len(idx) == 0 {
		return base.Render(s)
	}
	marked := make(map[int]bool, len(idx))
	for _, i := range idx {
		marked[i] = true
	}
	var b strings.Builder
	for i, r := range []rune(s) {
		if marked[i] {
			b.WriteString(MatchHighlightStyle.Render(string(r)))
		} else {
			b.WriteString(base.Render(string(r)))
		}
	}
	return b.String()
}

// RowPart is a segment of a list row with an optional foreground colour
type RowPart struct {
	Text       string
	Foreground *lipgloss.Color
}

// RenderListRow renders a list row, filling the selection background across
// the whole width. Parts are styled individually so ANSI resets inside one
// part do not clear the background of the next.
func RenderListRow(parts []RowPart, selected bool, width int) string {
	var b strings.Builder
	visible := 0

	base := lipgloss.NewStyle()
	if selected {
		base = base.Background(SlateLight)
	}

	for _, part := range parts {
		style := base
		switch {
		case part.Foreground != nil:
			style = style.Foreground(*part.Foreground)
		case selected:
			style = style.Foreground(White)
		default:
			style = style.Foreground(LightGray)
		}
		b.WriteString(style.Render(part.Text))
		visible += lipgloss.Width(part.Text)
	}

	// 2 = one margin column each side
	if pad := width - visible - 2; pad > 0 {
		b.WriteString(base.Render(strings.Repeat(" ", pad)))
	}

	margin := base.Render(" ")
	return margin + b.String() + margin
}
