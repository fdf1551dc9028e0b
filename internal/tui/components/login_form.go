package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/grimoire/internal/tui/styles"
)

const loginFormWidth = 36

// LoginForm collects a username and password
type LoginForm struct {
	inputs  []textinput.Model
	focus   int
	errMsg  string
	pending bool
	width   int
	height  int
}

// NewLoginForm creates a login form with the username field focused
func NewLoginForm() LoginForm {
	newInput := func(placeholder string) textinput.Model {
		ti := textinput.New()
		ti.Placeholder = placeholder
		ti.CharLimit = 64
		ti.Width = loginFormWidth - 4
		ti.Prompt = "› "
		ti.PromptStyle = styles.AccentStyle
		ti.TextStyle = lipgloss.NewStyle().Foreground(styles.White)
		ti.PlaceholderStyle = styles.DimStyle
		return ti
	}

	user := newInput("username")
	pass := newInput("password")
	pass.EchoMode = textinput.EchoPassword
	pass.EchoCharacter = '•'

	f := LoginForm{inputs: []textinput.Model{user, pass}}
	f.Reset()
	return f
}

// Reset clears both fields and the error and focuses the username
func (f *LoginForm) Reset() {
	for i := range f.inputs {
		f.inputs[i].SetValue("")
	}
	f.errMsg = ""
	f.pending = false
	f.setFocus(0)
}

// Credentials returns the entered username and password
func (f LoginForm) Credentials() (string, string) {
	return strings.TrimSpace(f.inputs[0].Value()), f.inputs[1].Value()
}

// SetError shows msg under the form and clears the password
func (f *LoginForm) SetError(msg string) {
	f.errMsg = msg
	f.pending = false
	f.inputs[1].SetValue("")
	f.setFocus(1)
}

// SetPending marks the form as waiting for a login result
func (f *LoginForm) SetPending(pending bool) {
	f.pending = pending
}

func (f *LoginForm) SetSize(width, height int) {
	f.width = width
	f.height = height
}

func (f *LoginForm) setFocus(i int) {
	f.focus = i
	for j := range f.inputs {
		if j == i {
			f.inputs[j].Focus()
		} else {
			f.inputs[j].Blur()
		}
	}
}

// Update handles input events, returns (form, cmd, submitted)
func (f LoginForm) Update(msg tea.Msg) (LoginForm, tea.Cmd, bool) {
	if f.pending {
		return f, nil, false
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, LoginFormKeys.Submit):
			if f.focus == 0 {
				f.setFocus(1)
				return f, nil, false
			}
			if user, _ := f.Credentials(); user == "" {
				f.errMsg = "Enter a username"
				f.setFocus(0)
				return f, nil, false
			}
			return f, nil, true
		case key.Matches(keyMsg, LoginFormKeys.Next):
			f.setFocus((f.focus + 1) % len(f.inputs))
			return f, nil, false
		case key.Matches(keyMsg, LoginFormKeys.Prev):
			f.setFocus((f.focus + len(f.inputs) - 1) % len(f.inputs))
			return f, nil, false
		}
	}

	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return f, cmd, false
}

// View renders the form centred in the available space
func (f LoginForm) View() string {
	var b strings.Builder
	b.WriteString(styles.ModalTitleStyle.Render("Grimoire"))
	b.WriteString("\n")
	b.WriteString(styles.DimStyle.Render("Sign in to open the archives"))
	b.WriteString("\n\n")
	b.WriteString(f.inputs[0].View())
	b.WriteString("\n")
	b.WriteString(f.inputs[1].View())
	b.WriteString("\n\n")

	switch {
	case f.pending:
		b.WriteString(styles.DimStyle.Render("Checking credentials..."))
	case f.errMsg != "":
		b.WriteString(styles.ErrorStyle.Render(f.errMsg))
	default:
		b.WriteString(styles.DimStyle.Render("enter to sign in · tab to switch"))
	}

	modal := styles.ModalStyle.Width(loginFormWidth).Render(b.String())
	if f.width == 0 || f.height == 0 {
		return modal
	}
	return lipgloss.Place(f.width, f.height, lipgloss.Center, lipgloss.Center, modal)
}
