package main

import (
	"log/slog"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	bubble_adapter "github.com/ionut-t/goaccel/adapter-bubbletea"
	"github.com/ionut-t/goaccel/config"
	"github.com/ionut-t/goaccel/positions"
)

type page int

const (
	pageManage page = iota
	pageForm
)

var appStyle = lipgloss.NewStyle().Padding(1, 2)

// app switches between the positions list and the new-position form.
// Started on the form page it quits once the form is done.
type app struct {
	cfg        config.Config
	store      *positions.Store
	page       page
	standalone bool
	manage     bubble_adapter.Manage
	form       bubble_adapter.Form
	created    *bubble_adapter.PositionCreatedMsg
}

func newApp(env *environment, start page, changes <-chan []positions.Position) app {
	a := app{
		cfg:        env.cfg,
		store:      env.store,
		page:       start,
		standalone: start == pageForm,
		manage: bubble_adapter.NewManage(env.store, bubble_adapter.ManageOptions{
			Changes:     changes,
			SyntaxTheme: env.cfg.Theme,
		}),
	}
	if start == pageForm {
		a.form = a.newForm()
	}
	return a
}

func (a app) newForm() bubble_adapter.Form {
	return bubble_adapter.NewForm(a.store, bubble_adapter.FormOptions{
		Bounds:        positions.Bounds{Min: a.cfg.Height.Min, Max: a.cfg.Height.Max},
		DefaultHeight: a.cfg.Height.Default,
		Capture: bubble_adapter.CaptureOptions{
			RecognizeAltGr: a.cfg.Capture.RecognizeAltGr,
			LivePreview:    a.cfg.Capture.LivePreview,
		},
	})
}

func (a app) Init() tea.Cmd {
	if a.page == pageForm {
		return a.form.Init()
	}
	return a.manage.Init()
}

func (a app) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case bubble_adapter.NewPositionRequestedMsg:
		a.form = a.newForm()
		a.page = pageForm
		return a, a.form.Init()

	case bubble_adapter.PositionCreatedMsg:
		slog.Info("[goaccel] position added", "name", msg.Name, "accelerator", msg.Accelerator)
		a.created = &msg
		if a.standalone {
			return a, tea.Quit
		}
		a.page = pageManage
		a.manage, cmd = a.manage.Update(bubble_adapter.ReloadMsg{})
		return a, cmd

	case bubble_adapter.FormCancelledMsg:
		if a.standalone {
			return a, tea.Quit
		}
		a.page = pageManage
		return a, nil

	case bubble_adapter.PositionsChangedMsg:
		// The watcher keeps running while the form is open.
		a.manage, cmd = a.manage.Update(msg)
		return a, cmd
	}

	switch a.page {
	case pageForm:
		a.form, cmd = a.form.Update(msg)
	default:
		a.manage, cmd = a.manage.Update(msg)
	}
	return a, cmd
}

func (a app) View() tea.View {
	var content string
	switch a.page {
	case pageForm:
		content = a.form.View()
	default:
		content = a.manage.View()
	}

	v := tea.NewView(appStyle.Render(content))
	v.AltScreen = true
	return v
}

// captureModel captures a single key combination.
type captureModel struct {
	capture bubble_adapter.Capture
	result  string
}

func newCaptureModel(cfg config.Config) captureModel {
	c := bubble_adapter.NewCapture(bubble_adapter.CaptureOptions{
		RecognizeAltGr: cfg.Capture.RecognizeAltGr,
		LivePreview:    true,
	})
	c.Start()
	return captureModel{capture: c}
}

func (m captureModel) Init() tea.Cmd {
	return nil
}

func (m captureModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		var cmd tea.Cmd
		m.capture, cmd = m.capture.Update(msg)
		return m, cmd

	case bubble_adapter.CommittedMsg:
		m.result = msg.Accelerator
		m.capture.Close()
		return m, tea.Quit

	case bubble_adapter.ClearedMsg:
		// ClearKey abandons the capture.
		return m, tea.Quit
	}
	return m, nil
}

func (m captureModel) View() tea.View {
	if m.result != "" {
		return tea.NewView("")
	}
	return tea.NewView(appStyle.Render("Press a key combination ("+bubble_adapter.ClearKey.Help().Key+" to cancel)\n\n" + m.capture.View()))
}
