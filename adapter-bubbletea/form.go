package bubble_adapter

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/ionut-t/goaccel/positions"
)

var ErrDuplicatePosition = errors.New("a position with that name already exists")

// PositionCreator saves a position with its optional accelerator.
type PositionCreator interface {
	CreatePosition(name string, height int, accelerator string) (positions.Result, error)
}

// PositionCreatedMsg is sent after the form saved a position.
type PositionCreatedMsg struct {
	Name        string
	Height      int
	Accelerator string
}

// FormCancelledMsg is sent when the user leaves the form without saving.
type FormCancelledMsg struct{}

type formField int

const (
	fieldName formField = iota
	fieldHeight
	fieldShortcut
	fieldClear
	fieldSubmit
	fieldCount
)

type formKeyMap struct {
	Next     key.Binding
	Prev     key.Binding
	Activate key.Binding
	Submit   key.Binding
	Copy     key.Binding
	Clear    key.Binding
	Cancel   key.Binding
}

func (k formKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Activate, k.Submit, k.Copy, k.Clear, k.Cancel}
}

func (k formKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Next, k.Prev}, {k.Activate, k.Submit}, {k.Copy, k.Clear}, {k.Cancel}}
}

var defaultFormKeys = formKeyMap{
	Next:     key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "next")),
	Prev:     key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab", "previous")),
	Activate: key.NewBinding(key.WithKeys("enter", "space"), key.WithHelp("enter", "press")),
	Submit:   key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "add")),
	Copy:     key.NewBinding(key.WithKeys("ctrl+y"), key.WithHelp("ctrl+y", "copy shortcut")),
	Clear:    ClearKey,
	Cancel:   key.NewBinding(key.WithKeys("esc", "ctrl+c"), key.WithHelp("esc", "cancel")),
}

type FormOptions struct {
	Bounds        positions.Bounds
	DefaultHeight int
	Capture       CaptureOptions
	Theme         *Theme
}

// Form is the new-position form: a name, a height and an optional
// shortcut captured from the keyboard.
type Form struct {
	creator   PositionCreator
	name      textinput.Model
	height    textinput.Model
	capture   Capture
	focus     formField
	bounds    positions.Bounds
	err       error
	message   string
	messageID int
	keys      formKeyMap
	help      help.Model
	theme     Theme
}

func NewForm(creator PositionCreator, opts FormOptions) Form {
	theme := DefaultTheme
	if opts.Theme != nil {
		theme = *opts.Theme
	}
	if opts.Capture.Theme == nil {
		opts.Capture.Theme = &theme
	}

	name := textinput.New()
	name.Placeholder = "e.g. standing"
	name.CharLimit = 64

	height := textinput.New()
	height.CharLimit = 6
	if opts.DefaultHeight > 0 {
		height.SetValue(strconv.Itoa(opts.DefaultHeight))
	}

	capture := NewCapture(opts.Capture)
	capture.SetWidth(lipgloss.Width(InitLabel))

	m := Form{
		creator: creator,
		name:    name,
		height:  height,
		capture: capture,
		bounds:  opts.Bounds,
		keys:    defaultFormKeys,
		help:    help.New(),
		theme:   theme,
	}
	m.name.Focus()

	return m
}

func (m Form) Init() tea.Cmd {
	return nil
}

// Shortcut returns the committed shortcut, or "" if none was captured.
func (m Form) Shortcut() string {
	return m.capture.Value()
}

// IsCapturing reports whether the form is listening for a shortcut.
func (m Form) IsCapturing() bool {
	return m.capture.IsCapturing()
}

// Close releases the shortcut listener.
func (m *Form) Close() {
	m.capture.Close()
}

func (m Form) Update(msg tea.Msg) (Form, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		// While listening, every key belongs to the shortcut. The capture
		// itself handles ClearKey.
		if m.capture.IsCapturing() {
			var cmd tea.Cmd
			m.capture, cmd = m.capture.Update(msg)
			return m, cmd
		}
		return m.handleKey(msg)

	case CommittedMsg:
		m.err = nil
		return m, m.setMessage("shortcut " + msg.Accelerator + " captured")

	case ClearedMsg:
		m.err = nil
		return m, m.setMessage("shortcut cleared")

	case CopiedMsg:
		return m, m.setMessage("copied " + msg.Accelerator + " to clipboard")

	case CopyErrorMsg:
		m.err = msg.Err
		m.message = ""
		return m, nil

	case clearMessageMsg:
		if msg.id == m.messageID {
			m.message = ""
		}
		return m, nil
	}

	return m.updateInputs(msg)
}

func (m Form) handleKey(msg tea.KeyPressMsg) (Form, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.capture.Close()
		return m, func() tea.Msg { return FormCancelledMsg{} }

	case key.Matches(msg, m.keys.Submit):
		return m.submit()

	case key.Matches(msg, m.keys.Copy):
		return m, m.capture.Copy()

	case key.Matches(msg, m.keys.Clear):
		m.err = nil
		return m, m.capture.Clear()

	case key.Matches(msg, m.keys.Next):
		return m, m.setFocus((m.focus + 1) % fieldCount)

	case key.Matches(msg, m.keys.Prev):
		return m, m.setFocus((m.focus + fieldCount - 1) % fieldCount)

	case key.Matches(msg, m.keys.Activate):
		switch m.focus {
		case fieldName, fieldHeight:
			// Space is text in the inputs.
			if msg.String() == "enter" {
				return m, m.setFocus(m.focus + 1)
			}
		case fieldShortcut:
			m.err = nil
			m.message = ""
			m.capture.Start()
			return m, nil
		case fieldClear:
			m.err = nil
			return m, m.capture.Clear()
		case fieldSubmit:
			return m.submit()
		}
	}

	return m.updateInputs(msg)
}

func (m Form) updateInputs(msg tea.Msg) (Form, tea.Cmd) {
	var cmd tea.Cmd
	switch m.focus {
	case fieldName:
		m.name, cmd = m.name.Update(msg)
	case fieldHeight:
		m.height, cmd = m.height.Update(msg)
	}
	return m, cmd
}

func (m *Form) setFocus(field formField) tea.Cmd {
	m.focus = field
	m.name.Blur()
	m.height.Blur()
	m.capture.Blur()

	switch field {
	case fieldName:
		return m.name.Focus()
	case fieldHeight:
		return m.height.Focus()
	case fieldShortcut:
		m.capture.Focus()
	}
	return nil
}

func (m *Form) setMessage(message string) tea.Cmd {
	m.messageID++
	m.message = message
	return dispatchClearMsg(m.messageID)
}

func (m Form) submit() (Form, tea.Cmd) {
	name := strings.TrimSpace(m.name.Value())

	height, err := positions.ValidateInput(name, m.height.Value(), m.bounds)
	if err != nil {
		m.err = err
		m.message = ""
		return m, nil
	}

	accelerator := m.capture.Value()
	res, err := m.creator.CreatePosition(name, height, accelerator)
	if err != nil {
		m.err = err
		return m, nil
	}
	if res == positions.ResultDuplicate {
		m.err = ErrDuplicatePosition
		return m, nil
	}

	m.err = nil
	m.capture.Close()
	created := PositionCreatedMsg{Name: name, Height: height, Accelerator: accelerator}
	return m, func() tea.Msg { return created }
}

func (m Form) button(label string, field formField) string {
	if m.focus == field {
		return m.theme.FocusedButtonStyle.Render(label)
	}
	return m.theme.ButtonStyle.Render(label)
}

func (m Form) View() string {
	var status string
	switch {
	case m.err != nil:
		status = m.theme.ErrorStyle.Render(capitalize(m.err.Error()))
	case m.message != "":
		status = m.theme.MessageStyle.Render(m.message)
	}

	shortcutRow := lipgloss.JoinHorizontal(
		lipgloss.Top,
		m.capture.View(),
		" ",
		m.button("Clear shortcut", fieldClear),
	)

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.theme.HeaderStyle.Render("Add a new position"),
		"",
		m.theme.LabelStyle.Render("Position name"),
		m.theme.InputStyle.Render(m.name.View()),
		m.theme.LabelStyle.Render(fmt.Sprintf("Position height (between %d and %d)", m.bounds.Min, m.bounds.Max)),
		m.theme.InputStyle.Render(m.height.View()),
		m.theme.LabelStyle.Render("Shortcut (optional)"),
		shortcutRow,
		"",
		status,
		"",
		m.button("Add", fieldSubmit),
		"",
		m.help.View(m.keys),
	)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
