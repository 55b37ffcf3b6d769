package bubble_adapter

import (
	"errors"
	"strings"
	"time"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/atotto/clipboard"
	"github.com/ionut-t/goaccel/core"
	"github.com/rivo/uniseg"
)

const (
	InitLabel      = "Click to register shortcut"
	CapturingLabel = "Listening for input..."
)

var ErrNothingToCopy = errors.New("no shortcut to copy")

// ClearKey clears the shortcut in any state, including while listening.
// It is the one combination that can never be captured.
var ClearKey = key.NewBinding(key.WithKeys("ctrl+g"), key.WithHelp("ctrl+g", "clear shortcut"))

type Theme struct {
	ButtonStyle        lipgloss.Style
	FocusedButtonStyle lipgloss.Style
	CapturingStyle     lipgloss.Style
	CommittedStyle     lipgloss.Style
	LabelStyle         lipgloss.Style
	InputStyle         lipgloss.Style
	MessageStyle       lipgloss.Style
	ErrorStyle         lipgloss.Style
	HeaderStyle        lipgloss.Style
	SelectedRowStyle   lipgloss.Style
	MutedStyle         lipgloss.Style
}

var DefaultTheme = Theme{
	ButtonStyle:        lipgloss.NewStyle().Background(lipgloss.Color("236")).Foreground(lipgloss.Color("252")).Padding(0, 1),
	FocusedButtonStyle: lipgloss.NewStyle().Background(lipgloss.Color("62")).Foreground(lipgloss.Color("255")).Padding(0, 1).Bold(true),
	CapturingStyle:     lipgloss.NewStyle().Background(lipgloss.Color("208")).Foreground(lipgloss.Color("0")).Padding(0, 1).Bold(true),
	CommittedStyle:     lipgloss.NewStyle().Background(lipgloss.Color("26")).Foreground(lipgloss.Color("255")).Padding(0, 1),
	LabelStyle:         lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	InputStyle:         lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1),
	MessageStyle:       lipgloss.NewStyle().Foreground(lipgloss.Color("34")),
	ErrorStyle:         lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	HeaderStyle:        lipgloss.NewStyle().Bold(true).Border(lipgloss.NormalBorder(), false, false, true, false).BorderForeground(lipgloss.Color("240")),
	SelectedRowStyle:   lipgloss.NewStyle().Background(lipgloss.Color("237")).Bold(true),
	MutedStyle:         lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
}

// Clipboard abstracts the system clipboard.
type Clipboard interface {
	Write(text string) error
}

type atottoClipboard struct{}

func (c *atottoClipboard) Write(text string) error {
	return clipboard.WriteAll(text)
}

// CommittedMsg is sent when a capture finishes with an accelerator.
type CommittedMsg struct {
	Accelerator string
}

// ClearedMsg is sent when the captured accelerator is cleared.
type ClearedMsg struct{}

// CopiedMsg is sent after the accelerator was copied to the clipboard.
type CopiedMsg struct {
	Accelerator string
}

// CopyErrorMsg is sent when copying to the clipboard failed.
type CopyErrorMsg struct {
	Err error
}

type CaptureOptions struct {
	RecognizeAltGr bool
	// LivePreview shows the modifiers held so far instead of the
	// listening label.
	LivePreview bool
	Theme       *Theme
	Clipboard   Clipboard
}

// Capture is a shortcut button: activating it starts listening for a key
// combination, the first non-modifier key completes it.
type Capture struct {
	session     *core.Session
	bus         *core.KeyBus
	clipboard   Clipboard
	theme       Theme
	livePreview bool
	focused     bool
	width       int
	// set once the terminal reported a bare modifier press during the
	// current capture; modifier bits on later events are then redundant
	bareModifiers bool
}

func NewCapture(opts CaptureOptions) Capture {
	bus := core.NewKeyBus()

	theme := DefaultTheme
	if opts.Theme != nil {
		theme = *opts.Theme
	}

	var cb Clipboard = &atottoClipboard{}
	if opts.Clipboard != nil {
		cb = opts.Clipboard
	}

	return Capture{
		session:     core.NewSession(bus, core.WithAltGr(opts.RecognizeAltGr)),
		bus:         bus,
		clipboard:   cb,
		theme:       theme,
		livePreview: opts.LivePreview,
	}
}

// Start begins listening for a new shortcut.
func (c *Capture) Start() {
	c.bareModifiers = false
	c.session.Start()
}

// Clear drops the shortcut and stops listening.
func (c *Capture) Clear() tea.Cmd {
	c.bareModifiers = false
	c.session.Clear()
	return c.drainSignals()
}

// Close stops listening; call it when the hosting view goes away.
func (c *Capture) Close() {
	c.session.Close()
}

func (c *Capture) IsCapturing() bool {
	return c.session.IsCapturing()
}

// Value returns the committed accelerator, or "" if there is none.
func (c *Capture) Value() string {
	value, _ := c.session.Commit()
	return value
}

func (c *Capture) State() core.State {
	return c.session.State()
}

func (c *Capture) Focus()          { c.focused = true }
func (c *Capture) Blur()           { c.focused = false }
func (c *Capture) IsFocused() bool { return c.focused }

// SetWidth sets the minimum width of the rendered button label.
func (c *Capture) SetWidth(width int) {
	c.width = width
}

// Copy writes the committed accelerator to the clipboard.
func (c *Capture) Copy() tea.Cmd {
	value, ok := c.session.Commit()
	cb := c.clipboard
	return func() tea.Msg {
		if !ok {
			return CopyErrorMsg{Err: ErrNothingToCopy}
		}
		if err := cb.Write(value); err != nil {
			return CopyErrorMsg{Err: err}
		}
		return CopiedMsg{Accelerator: value}
	}
}

func (c Capture) Update(msg tea.Msg) (Capture, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		if !c.session.IsCapturing() {
			break
		}
		if key.Matches(msg, ClearKey) {
			return c, c.Clear()
		}
		if msg.IsRepeat {
			// Holding a modifier must not count as pressing it again.
			break
		}

		press, ok := convertBubbleKey(msg)
		if !ok {
			break
		}

		if press.bare {
			c.bareModifiers = true
		}

		// Terminals without bare modifier reports only send the combined
		// event; replay its bits as presses. Otherwise the bits merely
		// repeat keys already seen, and replaying them after a restart
		// would restart the combination again.
		if !c.bareModifiers {
			held := c.session.Accelerator()
			for _, e := range press.modifiers {
				if mod, isMod := core.LookupModifier(core.NormalizeKey(e.Key), false); isMod && held.HasModifier(mod) {
					continue
				}
				c.bus.Dispatch(e)
			}
		}
		c.bus.Dispatch(press.key)

		return c, c.drainSignals()
	}

	return c, nil
}

// drainSignals turns pending session signals into messages for the host.
func (c *Capture) drainSignals() tea.Cmd {
	var cmds []tea.Cmd
	for {
		select {
		case signal := <-c.session.Signals():
			switch signal := signal.(type) {
			case core.CommittedSignal:
				value := signal.Value().String()
				cmds = append(cmds, func() tea.Msg { return CommittedMsg{Accelerator: value} })
			case core.ClearedSignal:
				cmds = append(cmds, func() tea.Msg { return ClearedMsg{} })
			}
		default:
			return tea.Batch(cmds...)
		}
	}
}

// Label returns the text shown on the button.
func (c Capture) Label() string {
	state := c.session.State()

	switch state.Status {
	case core.StatusCapturing:
		if c.livePreview && !state.Expression.IsEmpty() {
			return state.Expression.String() + "+…"
		}
		return CapturingLabel
	case core.StatusCommitted:
		return state.Expression.String()
	}
	return InitLabel
}

func (c Capture) View() string {
	label := c.Label()
	if pad := c.width - uniseg.StringWidth(label); pad > 0 {
		label += strings.Repeat(" ", pad)
	}

	switch {
	case c.session.IsCapturing():
		return c.theme.CapturingStyle.Render(label)
	case c.focused:
		return c.theme.FocusedButtonStyle.Render(label)
	case c.session.State().IsCommitted():
		return c.theme.CommittedStyle.Render(label)
	}
	return c.theme.ButtonStyle.Render(label)
}

// messageDuration is how long form messages stay on screen.
const messageDuration = 3 * time.Second

type clearMessageMsg struct {
	id int
}

func dispatchClearMsg(id int) tea.Cmd {
	return tea.Tick(messageDuration, func(t time.Time) tea.Msg {
		return clearMessageMsg{id: id}
	})
}
