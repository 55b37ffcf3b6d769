package core

import (
	"slices"
	"strings"
)

// MaxModifiers caps the number of modifiers in one accelerator.
const MaxModifiers = 2

const separator = "+"

// Accelerator is an ordered list of distinct modifiers, in press order,
// optionally followed by one terminal key. Without the key it is incomplete.
type Accelerator struct {
	modifiers []Modifier
	key       KeyToken
}

// NewAccelerator builds an accelerator without validation.
// Use Parse for untrusted input.
func NewAccelerator(key KeyToken, modifiers ...Modifier) Accelerator {
	return Accelerator{modifiers: slices.Clone(modifiers), key: key}
}

// Modifiers returns a copy of the modifiers in press order.
func (a Accelerator) Modifiers() []Modifier {
	return slices.Clone(a.modifiers)
}

// Key returns the terminal key, or "" while the accelerator is incomplete.
func (a Accelerator) Key() KeyToken {
	return a.key
}

func (a Accelerator) HasModifier(m Modifier) bool {
	return slices.Contains(a.modifiers, m)
}

func (a Accelerator) IsEmpty() bool {
	return len(a.modifiers) == 0 && a.key == ""
}

// IsComplete reports whether the accelerator ends with a terminal key.
func (a Accelerator) IsComplete() bool {
	return a.key != ""
}

// String joins the tokens with "+", e.g. "CmdOrCtrl+Shift+s".
func (a Accelerator) String() string {
	parts := make([]string, 0, len(a.modifiers)+1)
	for _, m := range a.modifiers {
		parts = append(parts, string(m))
	}
	if a.key != "" {
		parts = append(parts, string(a.key))
	}
	return strings.Join(parts, separator)
}

func (a Accelerator) withModifier(m Modifier) Accelerator {
	mods := make([]Modifier, 0, len(a.modifiers)+1)
	mods = append(mods, a.modifiers...)
	return Accelerator{modifiers: append(mods, m)}
}

func (a Accelerator) withKey(key KeyToken) Accelerator {
	return Accelerator{modifiers: a.modifiers, key: key}
}

// Parse validates s against the grammar Modifier(+Modifier)?+Key and
// returns the accelerator it describes. Modifiers must use the canonical
// names (CmdOrCtrl, Alt, Option, AltGr, Shift, Super, Meta).
func Parse(s string) (Accelerator, error) {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return Accelerator{}, &ParseError{Accelerator: s, Err: ErrEmptyAccelerator}
	}

	parts := strings.Split(raw, separator)
	for _, part := range parts {
		if part == "" {
			return Accelerator{}, &ParseError{Accelerator: raw, Err: ErrEmptyToken}
		}
	}

	last := parts[len(parts)-1]
	if IsModifier(Modifier(last)) {
		return Accelerator{}, &ParseError{Accelerator: raw, Token: last, Err: ErrIncompleteAccelerator}
	}

	mods := parts[:len(parts)-1]
	if len(mods) > MaxModifiers {
		return Accelerator{}, &ParseError{Accelerator: raw, Err: ErrTooManyModifiers}
	}

	var acc Accelerator
	for _, token := range mods {
		mod := Modifier(token)
		if !IsModifier(mod) {
			return Accelerator{}, &ParseError{Accelerator: raw, Token: token, Err: ErrUnknownModifier}
		}
		if acc.HasModifier(mod) {
			return Accelerator{}, &ParseError{Accelerator: raw, Token: token, Err: ErrDuplicateModifier}
		}
		acc = acc.withModifier(mod)
	}

	return acc.withKey(KeyToken(last)), nil
}
