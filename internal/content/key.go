package content

import "github.com/DougFavaretto/mockdata-browser-extension/internal/domain"

// KeyEvent is a keydown as reported by the page.
type KeyEvent struct {
	Key      string `json:"key"`
	CtrlKey  bool   `json:"ctrlKey"`
	ShiftKey bool   `json:"shiftKey"`
	AltKey   bool   `json:"altKey"`
	MetaKey  bool   `json:"metaKey"`
}

// Shortcut converts the event to a normalized shortcut.
func (e KeyEvent) Shortcut() domain.Shortcut {
	return domain.Shortcut{
		Ctrl:  e.CtrlKey,
		Shift: e.ShiftKey,
		Alt:   e.AltKey,
		Meta:  e.MetaKey,
		Key:   e.Key,
	}.Normalize()
}
