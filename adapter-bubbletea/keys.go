package bubble_adapter

import (
	"fmt"
	"unicode"

	tea "charm.land/bubbletea/v2"
	"github.com/ionut-t/goaccel/core"
	"github.com/rivo/uniseg"
)

// Host names for bare modifier key presses
var modifierKeyNames = map[rune]string{
	tea.KeyLeftShift:      "Shift",
	tea.KeyRightShift:     "Shift",
	tea.KeyLeftCtrl:       "Control",
	tea.KeyRightCtrl:      "Control",
	tea.KeyLeftAlt:        "Alt",
	tea.KeyRightAlt:       "Alt",
	tea.KeyLeftSuper:      "Super",
	tea.KeyRightSuper:     "Super",
	tea.KeyLeftMeta:       "Meta",
	tea.KeyRightMeta:      "Meta",
	tea.KeyIsoLevel3Shift: "AltGraph",
}

var specialKeyNames = map[rune]string{
	tea.KeyEnter:     "Enter",
	tea.KeyTab:       "Tab",
	tea.KeyBackspace: "Backspace",
	tea.KeyEscape:    "Escape",
	tea.KeySpace:     "Space",
	tea.KeyUp:        "Up",
	tea.KeyDown:      "Down",
	tea.KeyLeft:      "Left",
	tea.KeyRight:     "Right",
	tea.KeyHome:      "Home",
	tea.KeyEnd:       "End",
	tea.KeyPgUp:      "PageUp",
	tea.KeyPgDown:    "PageDown",
	tea.KeyDelete:    "Delete",
	tea.KeyInsert:    "Insert",
}

// Order in which modifier bits of a combined key event are replayed
var modifierBits = []struct {
	mod  tea.KeyMod
	name string
}{
	{tea.ModCtrl, "Control"},
	{tea.ModAlt, "Alt"},
	{tea.ModShift, "Shift"},
	{tea.ModSuper, "Super"},
	{tea.ModMeta, "Meta"},
}

// keyPress is a terminal key event split into host key presses.
type keyPress struct {
	// modifiers synthesized from the modifier bits of a combined event
	modifiers []core.KeyEvent
	key       core.KeyEvent
	// bare is set for a modifier key pressed on its own
	bare bool
}

// convertBubbleKey turns a terminal key press into host key presses.
// Terminals usually report a combination as one event carrying modifier
// bits, while keyboards with enhanced reporting also send bare modifier
// presses. Both become a sequence of presses ending in key.
func convertBubbleKey(msg tea.KeyPressMsg) (keyPress, bool) {
	k := msg.Key()

	if name, ok := modifierKeyNames[k.Code]; ok {
		return keyPress{key: core.KeyEvent{Key: name}, bare: true}, true
	}

	name := baseKeyName(k)
	if name == "" {
		return keyPress{}, false
	}

	var press keyPress
	for _, bit := range modifierBits {
		if k.Mod.Contains(bit.mod) {
			press.modifiers = append(press.modifiers, core.KeyEvent{Key: bit.name})
		}
	}
	press.key = core.KeyEvent{Key: name}

	return press, true
}

func baseKeyName(k tea.Key) string {
	if name, ok := specialKeyNames[k.Code]; ok {
		return name
	}

	if k.Code >= tea.KeyF1 && k.Code <= tea.KeyF24 {
		return fmt.Sprintf("F%d", k.Code-tea.KeyF1+1)
	}

	// Text carries the shifted character, e.g. "!" for shift+1.
	if k.Text != "" {
		cluster, _, _, _ := uniseg.FirstGraphemeClusterInString(k.Text, -1)
		return cluster
	}

	if k.Code > 0 && k.Code <= unicode.MaxRune {
		return string(k.Code)
	}

	return ""
}
