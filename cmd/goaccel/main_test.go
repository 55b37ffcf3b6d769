package main

import (
	"bytes"
	"path/filepath"
	"testing"

	tea "charm.land/bubbletea/v2"
	bubble_adapter "github.com/ionut-t/goaccel/adapter-bubbletea"
	"github.com/ionut-t/goaccel/config"
	"github.com/ionut-t/goaccel/positions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEnv(t *testing.T) *environment {
	t.Helper()
	store, err := positions.Open(filepath.Join(t.TempDir(), "positions.yaml"))
	require.NoError(t, err)
	return &environment{cfg: config.DefaultConfig(), store: store, closeLog: func() {}}
}

func TestAddPosition(t *testing.T) {
	env := newTestEnv(t)
	addName, addHeight, addAccelerator = "stand", 11000, "CmdOrCtrl+Shift+s"
	t.Cleanup(func() { addName, addHeight, addAccelerator = "", 0, "" })

	var out bytes.Buffer
	require.NoError(t, addPosition(&out, env))
	assert.Equal(t, "position \"stand\" saved\n", out.String())

	list, err := env.store.Positions()
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 11000, list[0].Value)
	assert.Equal(t, "CmdOrCtrl+Shift+s", list[0].Accelerator)

	err = addPosition(&out, env)
	assert.EqualError(t, err, "a position named \"stand\" already exists")
}

func TestAddPositionDefaultsHeight(t *testing.T) {
	env := newTestEnv(t)
	addName, addHeight, addAccelerator = "sit", 0, ""
	t.Cleanup(func() { addName = "" })

	require.NoError(t, addPosition(&bytes.Buffer{}, env))

	list, err := env.store.Positions()
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, env.cfg.Height.Default, list[0].Value)
}

func TestAddPositionInvalid(t *testing.T) {
	env := newTestEnv(t)
	t.Cleanup(func() { addName, addHeight, addAccelerator = "", 0, "" })

	addName, addHeight, addAccelerator = "desk", 1, ""
	assert.ErrorIs(t, addPosition(&bytes.Buffer{}, env), positions.ErrValueOutOfRange)

	addName, addHeight, addAccelerator = "desk", 7000, "Shift"
	assert.Error(t, addPosition(&bytes.Buffer{}, env))
}

func TestPrintPositions(t *testing.T) {
	var out bytes.Buffer
	printPositions(&out, nil)
	assert.Equal(t, "no saved positions\n", out.String())

	out.Reset()
	printPositions(&out, []positions.Position{
		{Name: "sit", Value: 7200},
		{Name: "stand", Value: 11000, Accelerator: "Alt+s"},
	})
	assert.Contains(t, out.String(), "NAME")
	assert.Contains(t, out.String(), "sit                      7200     -\n")
	assert.Contains(t, out.String(), "stand                    11000    Alt+s\n")
}

func TestSetupLogging(t *testing.T) {
	closeLog, err := setupLogging("", false)
	require.NoError(t, err)
	closeLog()

	path := filepath.Join(t.TempDir(), "goaccel.log")
	closeLog, err = setupLogging(path, true)
	require.NoError(t, err)
	closeLog()
	assert.FileExists(t, path)

	_, err = setupLogging(filepath.Join(t.TempDir(), "missing", "goaccel.log"), false)
	assert.Error(t, err)
}

func TestAppSwitchesPages(t *testing.T) {
	env := newTestEnv(t)
	a := newApp(env, pageManage, nil)
	require.False(t, a.standalone)

	model, _ := a.Update(bubble_adapter.NewPositionRequestedMsg{})
	a = model.(app)
	assert.Equal(t, pageForm, a.page)

	model, cmd := a.Update(bubble_adapter.FormCancelledMsg{})
	a = model.(app)
	assert.Equal(t, pageManage, a.page)
	assert.Nil(t, cmd)

	model, cmd = a.Update(bubble_adapter.PositionCreatedMsg{Name: "sit", Height: 7200})
	a = model.(app)
	assert.Equal(t, pageManage, a.page)
	require.NotNil(t, a.created)
	assert.Equal(t, "sit", a.created.Name)
	assert.NotNil(t, cmd)
}

func TestAppStandaloneFormQuits(t *testing.T) {
	env := newTestEnv(t)
	a := newApp(env, pageForm, nil)
	require.True(t, a.standalone)

	_, cmd := a.Update(bubble_adapter.FormCancelledMsg{})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())

	_, cmd = a.Update(bubble_adapter.PositionCreatedMsg{Name: "stand"})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestCaptureModel(t *testing.T) {
	m := newCaptureModel(config.DefaultConfig())
	require.True(t, m.capture.IsCapturing())

	model, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyF7, Mod: tea.ModAlt})
	m = model.(captureModel)
	require.NotNil(t, cmd)
	require.Equal(t, "Alt+F7", m.capture.Value())

	model, cmd = m.Update(bubble_adapter.CommittedMsg{Accelerator: m.capture.Value()})
	m = model.(captureModel)
	assert.Equal(t, "Alt+F7", m.result)
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestCaptureModelCancel(t *testing.T) {
	m := newCaptureModel(config.DefaultConfig())

	model, cmd := m.Update(tea.KeyPressMsg{Code: 'g', Mod: tea.ModCtrl})
	m = model.(captureModel)
	require.NotNil(t, cmd)
	assert.False(t, m.capture.IsCapturing())

	model, cmd = m.Update(cmd())
	m = model.(captureModel)
	assert.Equal(t, "", m.result)
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func executeRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
		flagConfig, flagPositions, initForce = "", "", false
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func TestInitCommand(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	positionsPath := filepath.Join(dir, "positions.yaml")

	out, err := executeRoot(t, "init", "--config", path, "--positions", positionsPath)
	require.NoError(t, err)
	assert.Contains(t, out, path)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, positionsPath, cfg.PositionsFile)
	assert.Equal(t, config.DefaultConfig().Height, cfg.Height)

	_, err = executeRoot(t, "init", "--config", path)
	assert.ErrorContains(t, err, "already exists")

	_, err = executeRoot(t, "init", "--config", path, "--force")
	assert.NoError(t, err)
}

func TestCheckCommand(t *testing.T) {
	out, err := executeRoot(t, "check", " Alt+Shift+k ")
	require.NoError(t, err)
	assert.Equal(t, "Alt+Shift+k\n", out)

	_, err = executeRoot(t, "check", "Shift+Shift+k")
	assert.Error(t, err)
}
