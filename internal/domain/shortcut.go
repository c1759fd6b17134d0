package domain

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// NoShortcutLabel is what Format renders for a missing shortcut.
const NoShortcutLabel = "Sem atalho"

// Shortcut is a modifier combination plus one key.
type Shortcut struct {
	Ctrl  bool   `json:"ctrl" yaml:"ctrl"`
	Shift bool   `json:"shift" yaml:"shift"`
	Alt   bool   `json:"alt" yaml:"alt"`
	Meta  bool   `json:"meta" yaml:"meta"`
	Key   string `json:"key" yaml:"key"`
}

var modifierKeys = map[string]struct{}{
	"control": {},
	"shift":   {},
	"alt":     {},
	"meta":    {},
}

var keyLabels = map[string]string{
	"arrowup":    "ArrowUp",
	"arrowdown":  "ArrowDown",
	"arrowleft":  "ArrowLeft",
	"arrowright": "ArrowRight",
	"escape":     "Esc",
	"enter":      "Enter",
	"tab":        "Tab",
	"space":      "Space",
	"backspace":  "Backspace",
	"delete":     "Delete",
}

type reservedShortcut struct {
	shortcut Shortcut
	reason   string
}

// Combinations the browser keeps for itself.
var reservedShortcuts = []reservedShortcut{
	{Shortcut{Ctrl: true, Shift: true, Key: "c"}, "Conflita com modo de inspecao do navegador."},
	{Shortcut{Ctrl: true, Shift: true, Key: "i"}, "Conflita com DevTools do navegador."},
	{Shortcut{Ctrl: true, Shift: true, Key: "j"}, "Conflita com console do navegador."},
	{Shortcut{Ctrl: true, Key: "u"}, "Conflita com visualizacao de codigo-fonte."},
	{Shortcut{Ctrl: true, Key: "r"}, "Conflita com recarregamento de pagina."},
	{Shortcut{Ctrl: true, Key: "l"}, "Conflita com foco na barra de endereco."},
	{Shortcut{Alt: true, Meta: true, Key: "i"}, "Conflita com DevTools no macOS."},
	{Shortcut{Alt: true, Meta: true, Key: "j"}, "Conflita com console no macOS."},
}

// NormalizeKey lowercases a key name. A literal space becomes "space".
func NormalizeKey(key string) string {
	if key == " " {
		return "space"
	}
	return strings.ToLower(strings.TrimSpace(key))
}

// IsModifierKey reports whether key names one of the four modifiers.
func IsModifierKey(key string) bool {
	_, ok := modifierKeys[NormalizeKey(key)]
	return ok
}

// Normalize returns s with its key normalized. Modifiers are untouched.
func (s Shortcut) Normalize() Shortcut {
	s.Key = NormalizeKey(s.Key)
	return s
}

// IsValid reports whether s has a real key and at least one modifier.
func (s Shortcut) IsValid() bool {
	key := NormalizeKey(s.Key)
	if key == "" {
		return false
	}
	if _, ok := modifierKeys[key]; ok {
		return false
	}
	return s.Ctrl || s.Shift || s.Alt || s.Meta
}

// Equal compares two shortcuts after normalizing both.
func (s Shortcut) Equal(other Shortcut) bool {
	return sameNormalized(s.Normalize(), other.Normalize())
}

func sameNormalized(a, b Shortcut) bool {
	return a.Ctrl == b.Ctrl &&
		a.Shift == b.Shift &&
		a.Alt == b.Alt &&
		a.Meta == b.Meta &&
		a.Key == b.Key
}

// String renders s the way Format does.
func (s Shortcut) String() string {
	return Format(&s)
}

// Format renders a shortcut as "Ctrl + Shift + Alt + Meta + Key". A nil
// shortcut renders as NoShortcutLabel.
func Format(s *Shortcut) string {
	if s == nil {
		return NoShortcutLabel
	}

	n := s.Normalize()
	parts := make([]string, 0, 5)
	if n.Ctrl {
		parts = append(parts, "Ctrl")
	}
	if n.Shift {
		parts = append(parts, "Shift")
	}
	if n.Alt {
		parts = append(parts, "Alt")
	}
	if n.Meta {
		parts = append(parts, "Meta")
	}
	if n.Key != "" {
		parts = append(parts, displayKey(n.Key))
	}
	return strings.Join(parts, " + ")
}

func displayKey(key string) string {
	if utf8.RuneCountInString(key) == 1 {
		return strings.ToUpper(key)
	}
	if label, ok := keyLabels[key]; ok {
		return label
	}
	return key
}

// ReservedReason returns why the browser owns s, if it does.
func ReservedReason(s Shortcut) (string, bool) {
	n := s.Normalize()
	for _, reserved := range reservedShortcuts {
		if sameNormalized(n, reserved.shortcut) {
			return reserved.reason, true
		}
	}
	return "", false
}

// ParseShortcut reads the textual form used on the command line and in the
// editor API, e.g. "ctrl+shift+k" or "Alt + ArrowUp". "+" alone as the key is
// written as "plus".
func ParseShortcut(text string) (Shortcut, error) {
	parts := strings.Split(text, "+")
	if len(parts) < 2 {
		return Shortcut{}, fmt.Errorf("invalid shortcut %q: need modifier+key", text)
	}

	var s Shortcut
	for _, part := range parts[:len(parts)-1] {
		switch strings.ToLower(strings.TrimSpace(part)) {
		case "ctrl", "control":
			s.Ctrl = true
		case "shift":
			s.Shift = true
		case "alt", "option":
			s.Alt = true
		case "meta", "cmd", "super":
			s.Meta = true
		default:
			return Shortcut{}, fmt.Errorf("invalid shortcut %q: unknown modifier %q", text, strings.TrimSpace(part))
		}
	}

	key := strings.TrimSpace(parts[len(parts)-1])
	if strings.EqualFold(key, "plus") {
		key = "+"
	}
	s.Key = key
	s = s.Normalize()
	if !s.IsValid() {
		return Shortcut{}, fmt.Errorf("invalid shortcut %q", text)
	}
	return s, nil
}

// ─────────────────────────────────────────────────────────────────
// Lookups across the item table
// ─────────────────────────────────────────────────────────────────

// Duplicate names two data types bound to the same shortcut. First precedes
// Second in declaration order.
type Duplicate struct {
	First  DataType `json:"first" yaml:"first"`
	Second DataType `json:"second" yaml:"second"`
}

// FindConflict returns the first data type, other than ignore, whose shortcut
// equals candidate.
func (it *Items) FindConflict(candidate Shortcut, ignore ...DataType) (DataType, bool) {
	n := candidate.Normalize()
	for i := range it {
		t := DataType(i)
		if containsType(ignore, t) {
			continue
		}
		current := it[i].Shortcut
		if current != nil && sameNormalized(current.Normalize(), n) {
			return t, true
		}
	}
	return 0, false
}

// FindDuplicate returns the first pair of data types sharing a shortcut.
func (it *Items) FindDuplicate() (Duplicate, bool) {
	var seen [NumDataTypes]Shortcut
	var seenTypes [NumDataTypes]DataType
	count := 0

	for i := range it {
		current := it[i].Shortcut
		if current == nil {
			continue
		}
		n := current.Normalize()
		for j := 0; j < count; j++ {
			if sameNormalized(seen[j], n) {
				return Duplicate{First: seenTypes[j], Second: DataType(i)}, true
			}
		}
		seen[count] = n
		seenTypes[count] = DataType(i)
		count++
	}
	return Duplicate{}, false
}

// MatchEvent returns the first enabled data type bound to candidate. Invalid
// candidates never match. Called on every key press, so it stays allocation
// free for already-lowercase keys.
func (it *Items) MatchEvent(candidate Shortcut) (DataType, bool) {
	if !candidate.IsValid() {
		return 0, false
	}
	n := candidate.Normalize()
	for i := range it {
		item := &it[i]
		if !item.Enabled || item.Shortcut == nil {
			continue
		}
		if sameNormalized(item.Shortcut.Normalize(), n) {
			return DataType(i), true
		}
	}
	return 0, false
}

func containsType(types []DataType, t DataType) bool {
	for _, candidate := range types {
		if candidate == t {
			return true
		}
	}
	return false
}
