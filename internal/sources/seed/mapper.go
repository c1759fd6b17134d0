package seed

import (
	"fmt"

	"github.com/DougFavaretto/mockdata-browser-extension/internal/domain"
)

// Mapper turns a seed document into a configuration.
type Mapper struct{}

// NewMapper creates a mapper.
func NewMapper() *Mapper {
	return &Mapper{}
}

// MapConfig accepts the stored layout plus a shorthand where an item's
// shortcut is written as text ("ctrl+alt+c"). Per-field problems are
// repaired the way stored values are; a shorthand that does not parse is an
// error so typos in the file are not silently dropped. Shared shortcuts are
// left in place for the store to reject.
func (m *Mapper) MapConfig(doc map[string]any) (domain.ExtensionConfig, error) {
	items, ok := doc["items"].(map[string]any)
	if !ok {
		return domain.SanitizeFields(doc), nil
	}

	out := make(map[string]any, len(doc))
	for k, v := range doc {
		out[k] = v
	}
	mapped := make(map[string]any, len(items))
	for tag, raw := range items {
		item, err := mapItem(tag, raw)
		if err != nil {
			return domain.ExtensionConfig{}, err
		}
		mapped[tag] = item
	}
	out["items"] = mapped

	return domain.SanitizeFields(out), nil
}

func mapItem(tag string, raw any) (any, error) {
	item, ok := raw.(map[string]any)
	if !ok {
		return raw, nil
	}
	text, ok := item["shortcut"].(string)
	if !ok {
		return item, nil
	}

	copied := make(map[string]any, len(item))
	for k, v := range item {
		copied[k] = v
	}
	if text == "" {
		copied["shortcut"] = nil
		return copied, nil
	}

	s, err := domain.ParseShortcut(text)
	if err != nil {
		return nil, fmt.Errorf("item %s: %w", tag, err)
	}
	copied["shortcut"] = map[string]any{
		"ctrl":  s.Ctrl,
		"shift": s.Shift,
		"alt":   s.Alt,
		"meta":  s.Meta,
		"key":   s.Key,
	}
	return copied, nil
}

// Load reads and maps a seed file in one step.
func Load(filePath string) (domain.ExtensionConfig, error) {
	doc, err := NewLoader(filePath).Load()
	if err != nil {
		return domain.ExtensionConfig{}, err
	}
	return NewMapper().MapConfig(doc)
}
