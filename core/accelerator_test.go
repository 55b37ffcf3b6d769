package core

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeKey(t *testing.T) {
	tests := []struct {
		raw  string
		want KeyToken
	}{
		{"!", "1"},
		{"@", "2"},
		{")", "0"},
		{"_", "-"},
		{"+", "="},
		{"\"", "'"},
		{"|", "\\"},
		{"~", "`"},
		{"a", "a"},
		{"1", "1"},
		{"F12", "F12"},
		{" ", "Space"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeKey(tt.raw))
		})
	}
}

func TestLookupModifier(t *testing.T) {
	tests := []struct {
		token KeyToken
		altGr bool
		want  Modifier
		ok    bool
	}{
		{"Command", false, ModCmdOrCtrl, true},
		{"Control", false, ModCmdOrCtrl, true},
		{"Alt", false, ModAlt, true},
		{"Option", false, ModOption, true},
		{"Shift", false, ModShift, true},
		{"Super", false, ModSuper, true},
		{"Meta", false, ModMeta, true},
		{"AltGraph", false, "", false},
		{"AltGraph", true, ModAltGr, true},
		{"control", false, "", false},
		{"CmdOrCtrl", false, "", false},
		{"a", true, "", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.token), func(t *testing.T) {
			got, ok := LookupModifier(tt.token, tt.altGr)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAcceleratorString(t *testing.T) {
	assert.Equal(t, "", Accelerator{}.String())
	assert.Equal(t, "Shift", NewAccelerator("", ModShift).String())
	assert.Equal(t, "CmdOrCtrl+Shift+s", NewAccelerator("s", ModCmdOrCtrl, ModShift).String())
}

func TestAcceleratorModifiersIsACopy(t *testing.T) {
	acc := NewAccelerator("a", ModAlt)
	mods := acc.Modifiers()
	mods[0] = ModMeta

	assert.Equal(t, []Modifier{ModAlt}, acc.Modifiers())
}

func TestParse(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr error
	}{
		{input: "a", want: "a"},
		{input: "CmdOrCtrl+Shift+A", want: "CmdOrCtrl+Shift+A"},
		{input: "  Alt+F4 ", want: "Alt+F4"},
		{input: "AltGr+e", want: "AltGr+e"},
		{input: "Super+`", want: "Super+`"},
		{input: "", wantErr: ErrEmptyAccelerator},
		{input: "   ", wantErr: ErrEmptyAccelerator},
		{input: "Shift++", wantErr: ErrEmptyToken},
		{input: "+a", wantErr: ErrEmptyToken},
		{input: "Shift", wantErr: ErrIncompleteAccelerator},
		{input: "Shift+Alt", wantErr: ErrIncompleteAccelerator},
		{input: "Ctrl+a", wantErr: ErrUnknownModifier},
		{input: "Shift+Shift+a", wantErr: ErrDuplicateModifier},
		{input: "Shift+Alt+Meta+a", wantErr: ErrTooManyModifiers},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			acc, err := Parse(tt.input)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)

				var parseErr *ParseError
				assert.True(t, errors.As(err, &parseErr))
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, acc.String())
			assert.True(t, acc.IsComplete())
		})
	}
}

func TestParseAcceptsCommittedSessions(t *testing.T) {
	sequences := [][]string{
		{"Control", "Shift", "s"},
		{"Shift", "Shift", "A"},
		{"Shift", "Control", "Alt", "A"},
		{"Shift", "!"},
		{"Meta", "Super", "Tab"},
	}

	for _, keys := range sequences {
		s := NewSession(nil)
		s.Start()
		for _, k := range keys {
			s.HandleKey(KeyEvent{Key: k})
		}

		committed, ok := s.Commit()
		require.True(t, ok)

		acc, err := Parse(committed)
		require.NoError(t, err, committed)
		assert.Equal(t, committed, acc.String())
	}
}

func TestParseErrorMessage(t *testing.T) {
	_, err := Parse("Ctrl+a")
	require.Error(t, err)
	assert.Equal(t, `invalid accelerator "Ctrl+a": unknown modifier "Ctrl"`, err.Error())
}
