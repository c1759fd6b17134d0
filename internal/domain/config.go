package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"

	"gopkg.in/yaml.v3"
)

// SchemaVersion is the version written by this code. Older records are
// migrated by Sanitize.
const SchemaVersion = 2

// DateFormat is one of the patterns the date generator understands.
type DateFormat string

const (
	DateFormatDayFirst   DateFormat = "dd/MM/yyyy"
	DateFormatISO        DateFormat = "yyyy-MM-dd"
	DateFormatMonthFirst DateFormat = "MM/dd/yyyy"
)

// DateFormats lists the accepted formats; the first one is the default.
var DateFormats = []DateFormat{DateFormatDayFirst, DateFormatISO, DateFormatMonthFirst}

// Valid reports whether f is a recognized format.
func (f DateFormat) Valid() bool {
	for _, known := range DateFormats {
		if f == known {
			return true
		}
	}
	return false
}

// Password length bounds.
const (
	MinPasswordLength     = 8
	MaxPasswordLength     = 64
	DefaultPasswordLength = 16
)

// PasswordOptions drives the password generator. At least one character class
// is always enabled.
type PasswordOptions struct {
	Length    int  `json:"length" yaml:"length"`
	Uppercase bool `json:"uppercase" yaml:"uppercase"`
	Lowercase bool `json:"lowercase" yaml:"lowercase"`
	Numbers   bool `json:"numbers" yaml:"numbers"`
	Symbols   bool `json:"symbols" yaml:"symbols"`
}

// ItemConfig holds the per data type settings.
type ItemConfig struct {
	Enabled  bool      `json:"enabled" yaml:"enabled"`
	Shortcut *Shortcut `json:"shortcut" yaml:"shortcut"`
	Favorite bool      `json:"favorite" yaml:"favorite"`
}

// Items maps every data type to its settings. Being an array, it can never be
// sparse. It is encoded as an object keyed by data type tag.
type Items [NumDataTypes]ItemConfig

// ExtensionConfig is the whole persisted settings record.
type ExtensionConfig struct {
	Version                  int             `json:"version" yaml:"version"`
	DateFormat               DateFormat      `json:"dateFormat" yaml:"dateFormat"`
	KeyboardShortcutsEnabled bool            `json:"keyboardShortcutsEnabled" yaml:"keyboardShortcutsEnabled"`
	PasswordOptions          PasswordOptions `json:"passwordOptions" yaml:"passwordOptions"`
	Items                    Items           `json:"items" yaml:"items"`
}

// DefaultPasswordOptions returns the default password policy.
func DefaultPasswordOptions() PasswordOptions {
	return PasswordOptions{
		Length:    DefaultPasswordLength,
		Uppercase: true,
		Lowercase: true,
		Numbers:   true,
		Symbols:   true,
	}
}

// DefaultItems returns every data type enabled, not favorite, bound to its
// definition's default shortcut (none today).
func DefaultItems() Items {
	var items Items
	for i, def := range definitions {
		items[i] = ItemConfig{
			Enabled:  true,
			Shortcut: cloneShortcut(def.DefaultShortcut),
			Favorite: false,
		}
	}
	return items
}

// DefaultConfig returns a fresh default configuration.
func DefaultConfig() ExtensionConfig {
	return ExtensionConfig{
		Version:                  SchemaVersion,
		DateFormat:               DateFormats[0],
		KeyboardShortcutsEnabled: true,
		PasswordOptions:          DefaultPasswordOptions(),
		Items:                    DefaultItems(),
	}
}

// Clone returns a deep copy of c.
func (c ExtensionConfig) Clone() ExtensionConfig {
	out := c
	for i := range out.Items {
		out.Items[i].Shortcut = cloneShortcut(c.Items[i].Shortcut)
	}
	return out
}

// Equal compares two configurations by value.
func (c ExtensionConfig) Equal(other ExtensionConfig) bool {
	return reflect.DeepEqual(c, other)
}

// Item returns the settings of t.
func (c *ExtensionConfig) Item(t DataType) ItemConfig {
	return c.Items[t]
}

func cloneShortcut(s *Shortcut) *Shortcut {
	if s == nil {
		return nil
	}
	cp := *s
	return &cp
}

func (it *Items) favorite(t DataType) bool {
	return t.Valid() && it[t].Favorite
}

// MarshalJSON writes the items as an object in declaration order.
func (it Items) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i := range it {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(DataType(i).String())
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(it[i])
		if err != nil {
			return nil, fmt.Errorf("failed to marshal item %s: %w", DataType(i), err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalYAML writes the items as a mapping in declaration order.
func (it Items) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for i := range it {
		var value yaml.Node
		if err := value.Encode(it[i]); err != nil {
			return nil, fmt.Errorf("failed to marshal item %s: %w", DataType(i), err)
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: DataType(i).String()},
			&value,
		)
	}
	return node, nil
}

// UnmarshalJSON reads an object keyed by tag. Missing types keep their
// defaults and unknown tags are ignored.
func (it *Items) UnmarshalJSON(data []byte) error {
	var byTag map[string]json.RawMessage
	if err := json.Unmarshal(data, &byTag); err != nil {
		return err
	}

	*it = DefaultItems()
	for tag, raw := range byTag {
		t, ok := ParseDataType(tag)
		if !ok {
			continue
		}
		var item ItemConfig
		if err := json.Unmarshal(raw, &item); err != nil {
			return fmt.Errorf("failed to unmarshal item %s: %w", tag, err)
		}
		it[t] = item
	}
	return nil
}

// Raw returns c in the shape a JSON decoder produces for it (objects as
// map[string]any, numbers as float64). Two configs with equal Raw forms
// serialize identically.
func (c ExtensionConfig) Raw() map[string]any {
	items := make(map[string]any, NumDataTypes)
	for i, item := range c.Items {
		var shortcut any
		if item.Shortcut != nil {
			shortcut = map[string]any{
				"ctrl":  item.Shortcut.Ctrl,
				"shift": item.Shortcut.Shift,
				"alt":   item.Shortcut.Alt,
				"meta":  item.Shortcut.Meta,
				"key":   item.Shortcut.Key,
			}
		}
		items[DataType(i).String()] = map[string]any{
			"enabled":  item.Enabled,
			"shortcut": shortcut,
			"favorite": item.Favorite,
		}
	}

	return map[string]any{
		"version":                  float64(c.Version),
		"dateFormat":               string(c.DateFormat),
		"keyboardShortcutsEnabled": c.KeyboardShortcutsEnabled,
		"passwordOptions": map[string]any{
			"length":    float64(c.PasswordOptions.Length),
			"uppercase": c.PasswordOptions.Uppercase,
			"lowercase": c.PasswordOptions.Lowercase,
			"numbers":   c.PasswordOptions.Numbers,
			"symbols":   c.PasswordOptions.Symbols,
		},
		"items": items,
	}
}
