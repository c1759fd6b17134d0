package domain

import (
	"encoding/json"
	"math"
)

// Sanitize turns anything read from storage into a valid configuration. It
// never fails: unusable values fall back to their defaults, older schema
// versions are filled in, reserved shortcuts are dropped and, when two data
// types share a shortcut, the later-declared one loses it.
//
// raw is expected in decoded JSON/YAML form (map[string]any, float64 or int,
// bool, string). An ExtensionConfig is accepted too and re-validated.
func Sanitize(raw any) ExtensionConfig {
	cfg := SanitizeFields(raw)
	cfg.Items.clearDuplicates()
	return cfg
}

// clearDuplicates repeats the earlier-declared-wins repair until no pair is
// left; three types on one shortcut take two passes.
func (it *Items) clearDuplicates() {
	for {
		dup, ok := it.FindDuplicate()
		if !ok {
			return
		}
		it[dup.Second].Shortcut = nil
	}
}

// SanitizeJSON decodes data and sanitizes it. Bytes that are not valid JSON
// yield the default configuration.
func SanitizeJSON(data []byte) ExtensionConfig {
	var raw any
	if len(data) == 0 || json.Unmarshal(data, &raw) != nil {
		return DefaultConfig()
	}
	return Sanitize(raw)
}

// SanitizeFields applies every per-field repair of Sanitize but leaves shared
// shortcuts in place, so callers that must reject duplicates can still see
// them.
func SanitizeFields(raw any) ExtensionConfig {
	defaults := DefaultConfig()

	switch v := raw.(type) {
	case ExtensionConfig:
		raw = v.Raw()
	case *ExtensionConfig:
		if v != nil {
			raw = v.Raw()
		}
	}

	obj, ok := asObject(raw)
	if !ok {
		return defaults
	}

	cfg := ExtensionConfig{
		Version:                  SchemaVersion,
		DateFormat:               defaults.DateFormat,
		KeyboardShortcutsEnabled: defaults.KeyboardShortcutsEnabled,
		PasswordOptions:          sanitizePasswordOptions(obj["passwordOptions"], defaults.PasswordOptions),
		Items:                    defaults.Items,
	}

	if s, ok := obj["dateFormat"].(string); ok && DateFormat(s).Valid() {
		cfg.DateFormat = DateFormat(s)
	}
	if b, ok := obj["keyboardShortcutsEnabled"].(bool); ok {
		cfg.KeyboardShortcutsEnabled = b
	}

	rawItems, _ := asObject(obj["items"])
	for i := range cfg.Items {
		t := DataType(i)
		candidate, ok := asObject(rawItems[t.String()])
		if !ok {
			continue
		}

		base := cfg.Items[i]
		item := ItemConfig{
			Enabled:  base.Enabled,
			Shortcut: sanitizeShortcut(candidate["shortcut"]),
			Favorite: base.Favorite,
		}
		if b, ok := candidate["enabled"].(bool); ok {
			item.Enabled = b
		}
		if b, ok := candidate["favorite"].(bool); ok {
			item.Favorite = b
		}
		cfg.Items[i] = item
	}

	return cfg
}

func sanitizePasswordOptions(raw any, defaults PasswordOptions) PasswordOptions {
	obj, ok := asObject(raw)
	if !ok {
		return defaults
	}

	opts := defaults
	if n, ok := asNumber(obj["length"]); ok {
		opts.Length = clampLength(n)
	}
	if b, ok := obj["uppercase"].(bool); ok {
		opts.Uppercase = b
	}
	if b, ok := obj["lowercase"].(bool); ok {
		opts.Lowercase = b
	}
	if b, ok := obj["numbers"].(bool); ok {
		opts.Numbers = b
	}
	if b, ok := obj["symbols"].(bool); ok {
		opts.Symbols = b
	}

	if !opts.Uppercase && !opts.Lowercase && !opts.Numbers && !opts.Symbols {
		opts.Lowercase = true
	}
	return opts
}

func clampLength(n float64) int {
	n = math.Trunc(n)
	if n < MinPasswordLength {
		return MinPasswordLength
	}
	if n > MaxPasswordLength {
		return MaxPasswordLength
	}
	return int(n)
}

func sanitizeShortcut(raw any) *Shortcut {
	obj, ok := asObject(raw)
	if !ok {
		return nil
	}

	key, _ := obj["key"].(string)
	s := Shortcut{
		Ctrl:  truthy(obj["ctrl"]),
		Shift: truthy(obj["shift"]),
		Alt:   truthy(obj["alt"]),
		Meta:  truthy(obj["meta"]),
		Key:   key,
	}.Normalize()

	if !s.IsValid() {
		return nil
	}
	if _, reserved := ReservedReason(s); reserved {
		return nil
	}
	return &s
}

func asObject(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, m != nil
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			if ks, ok := k.(string); ok {
				out[ks] = val
			}
		}
		return out, true
	default:
		return nil, false
	}
}

// asNumber accepts the numeric shapes JSON and YAML decoders produce. NaN and
// infinities are rejected.
func asNumber(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case uint64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// truthy mirrors loose boolean coercion for shortcut flags.
func truthy(v any) bool {
	switch b := v.(type) {
	case nil:
		return false
	case bool:
		return b
	case string:
		return b != ""
	default:
		if n, ok := asNumber(v); ok {
			return n != 0
		}
		if f, ok := v.(float64); ok && math.IsNaN(f) {
			return false
		}
		return true
	}
}
