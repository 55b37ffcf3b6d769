package bubble_adapter

import (
	"fmt"
	"strconv"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/ionut-t/goaccel/adapter-bubbletea/highlighter"
	"github.com/ionut-t/goaccel/positions"
)

// PositionStore is what the manage page needs from the position backend.
type PositionStore interface {
	PositionCreator
	Positions() ([]positions.Position, error)
	Remove(name string) ([]positions.Position, error)
	Raw() ([]byte, error)
}

// NewPositionRequestedMsg asks the host to open the new-position form.
type NewPositionRequestedMsg struct{}

// PositionsChangedMsg carries positions reloaded after the file changed.
type PositionsChangedMsg struct {
	Positions []positions.Position
}

// ReloadMsg makes the manage page read the positions again.
type ReloadMsg struct{}

type positionsLoadedMsg struct {
	positions []positions.Position
	err       error
}

type manageKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Remove  key.Binding
	New     key.Binding
	Preview key.Binding
	Reload  key.Binding
	Quit    key.Binding
}

func (k manageKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.New, k.Remove, k.Preview, k.Quit}
}

func (k manageKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down}, {k.New, k.Remove, k.Reload}, {k.Preview, k.Quit}}
}

var defaultManageKeys = manageKeyMap{
	Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Remove:  key.NewBinding(key.WithKeys("d", "x", "delete"), key.WithHelp("d", "remove")),
	New:     key.NewBinding(key.WithKeys("n", "a"), key.WithHelp("n", "new position")),
	Preview: key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "file preview")),
	Reload:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
	Quit:    key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
}

type ManageOptions struct {
	// Changes delivers positions reloaded by a file watcher.
	Changes     <-chan []positions.Position
	SyntaxTheme string
	Theme       *Theme
}

// Manage lists saved positions and lets the user remove them or add new ones.
type Manage struct {
	store       PositionStore
	list        []positions.Position
	cursor      int
	preview     bool
	previewText string
	highlighter *highlighter.Highlighter
	changes     <-chan []positions.Position
	err         error
	keys        manageKeyMap
	help        help.Model
	theme       Theme
}

func NewManage(store PositionStore, opts ManageOptions) Manage {
	theme := DefaultTheme
	if opts.Theme != nil {
		theme = *opts.Theme
	}

	return Manage{
		store:       store,
		highlighter: highlighter.New("yaml", opts.SyntaxTheme),
		changes:     opts.Changes,
		keys:        defaultManageKeys,
		help:        help.New(),
		theme:       theme,
	}
}

func (m Manage) Init() tea.Cmd {
	return tea.Batch(m.load(), m.waitForChanges())
}

// Positions returns the positions currently shown.
func (m Manage) Positions() []positions.Position {
	return m.list
}

func (m Manage) load() tea.Cmd {
	store := m.store
	return func() tea.Msg {
		list, err := store.Positions()
		return positionsLoadedMsg{positions: list, err: err}
	}
}

func (m Manage) waitForChanges() tea.Cmd {
	if m.changes == nil {
		return nil
	}
	changes := m.changes
	return func() tea.Msg {
		list, ok := <-changes
		if !ok {
			return nil
		}
		return PositionsChangedMsg{Positions: list}
	}
}

func (m Manage) Update(msg tea.Msg) (Manage, tea.Cmd) {
	switch msg := msg.(type) {
	case positionsLoadedMsg:
		m.err = msg.err
		if msg.err == nil {
			m.setList(msg.positions)
		}

	case PositionsChangedMsg:
		m.setList(msg.Positions)
		return m, m.waitForChanges()

	case ReloadMsg:
		return m, m.load()

	case tea.KeyPressMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}

		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(m.list)-1 {
				m.cursor++
			}

		case key.Matches(msg, m.keys.New):
			return m, func() tea.Msg { return NewPositionRequestedMsg{} }

		case key.Matches(msg, m.keys.Remove):
			if len(m.list) == 0 {
				break
			}
			list, err := m.store.Remove(m.list[m.cursor].Name)
			m.err = err
			if err == nil {
				m.setList(list)
			}

		case key.Matches(msg, m.keys.Preview):
			m.preview = !m.preview
			m.refreshPreview()

		case key.Matches(msg, m.keys.Reload):
			return m, m.load()
		}
	}

	return m, nil
}

func (m *Manage) setList(list []positions.Position) {
	m.list = list
	m.cursor = min(m.cursor, max(len(m.list)-1, 0))
	m.refreshPreview()
}

func (m *Manage) refreshPreview() {
	if !m.preview {
		return
	}
	raw, err := m.store.Raw()
	if err != nil {
		m.err = err
		m.previewText = ""
		return
	}
	m.previewText = m.highlighter.Render(string(raw))
}

func (m Manage) View() string {
	rows := []string{m.theme.HeaderStyle.Render("Manage positions"), ""}

	if len(m.list) == 0 {
		rows = append(rows, m.theme.MutedStyle.Render("No saved positions yet."))
	} else {
		header := fmt.Sprintf("%-24s %-8s %s", "Name", "Height", "Shortcut")
		rows = append(rows, m.theme.LabelStyle.Render(header))
		for i, p := range m.list {
			shortcut := p.Accelerator
			if shortcut == "" {
				shortcut = "-"
			}
			row := fmt.Sprintf("%-24s %-8s %s", truncate(p.Name, 24), strconv.Itoa(p.Value), shortcut)
			if i == m.cursor {
				row = m.theme.SelectedRowStyle.Render(row)
			}
			rows = append(rows, row)
		}
	}

	if m.err != nil {
		rows = append(rows, "", m.theme.ErrorStyle.Render(capitalize(m.err.Error())))
	}

	if m.preview && m.previewText != "" {
		rows = append(rows, "", m.theme.InputStyle.Render(m.previewText))
	}

	rows = append(rows, "", m.help.View(m.keys))

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func truncate(s string, width int) string {
	if lipgloss.Width(s) <= width {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && lipgloss.Width(string(runes))+1 > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "…"
}
