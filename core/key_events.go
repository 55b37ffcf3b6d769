package core

// --- KeyEvent, KeyToken, Modifier ---

// KeyEvent represents a raw key press reported by the host.
// Key holds the platform key name, e.g. "Shift", "Control", "a" or "!".
type KeyEvent struct {
	Key string
}

// KeyToken is the normalized form of one key press: either a modifier name
// or a base symbol. It is never empty.
type KeyToken string

// Modifier is one of the recognized accelerator modifiers.
type Modifier string

const (
	ModCmdOrCtrl Modifier = "CmdOrCtrl"
	ModAlt       Modifier = "Alt"
	ModOption    Modifier = "Option"
	ModAltGr     Modifier = "AltGr"
	ModShift     Modifier = "Shift"
	ModSuper     Modifier = "Super"
	ModMeta      Modifier = "Meta"
)

// Maps host key names into accelerator modifiers
var modifierTable = map[string]Modifier{
	"Command": ModCmdOrCtrl,
	"Control": ModCmdOrCtrl,
	"Alt":     ModAlt,
	"Option":  ModOption,
	"Shift":   ModShift,
	"Super":   ModSuper,
	"Meta":    ModMeta,
}

// altGraphKey is only a modifier when the session opts into it.
const altGraphKey = "AltGraph"

// Holding Shift over a digit or punctuation key reports the shifted
// character. The accelerator wants the key underneath it.
var shiftedSymbolTable = map[string]string{
	"!":  "1",
	"@":  "2",
	"#":  "3",
	"$":  "4",
	"%":  "5",
	"^":  "6",
	"&":  "7",
	"*":  "8",
	"(":  "9",
	")":  "0",
	"_":  "-",
	"+":  "=",
	"{":  "[",
	"}":  "]",
	":":  ";",
	"\"": "'",
	"<":  ",",
	">":  ".",
	"?":  "/",
	"|":  "\\",
	"~":  "`",
}

// spaceKey is the accelerator name of the space bar. A literal " " would
// not survive being written out and parsed back.
const spaceKey = "Space"

// NormalizeKey maps a raw key name through the shifted-symbol table.
// Keys missing from the table pass through unchanged.
func NormalizeKey(raw string) KeyToken {
	if raw == " " {
		return spaceKey
	}
	if base, ok := shiftedSymbolTable[raw]; ok {
		return KeyToken(base)
	}
	return KeyToken(raw)
}

// LookupModifier reports the modifier a token stands for.
// AltGraph is recognized only when altGr is true.
func LookupModifier(token KeyToken, altGr bool) (Modifier, bool) {
	if altGr && token == altGraphKey {
		return ModAltGr, true
	}
	mod, ok := modifierTable[string(token)]
	return mod, ok
}

// IsModifier reports whether m is one of the recognized modifiers.
func IsModifier(m Modifier) bool {
	switch m {
	case ModCmdOrCtrl, ModAlt, ModOption, ModAltGr, ModShift, ModSuper, ModMeta:
		return true
	}
	return false
}
