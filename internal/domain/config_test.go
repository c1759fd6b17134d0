package domain

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Version != SchemaVersion {
		t.Errorf("Version = %d, want %d", cfg.Version, SchemaVersion)
	}
	if cfg.DateFormat != DateFormatDayFirst {
		t.Errorf("DateFormat = %q, want %q", cfg.DateFormat, DateFormatDayFirst)
	}
	if !cfg.KeyboardShortcutsEnabled {
		t.Error("keyboard shortcuts should start enabled")
	}
	if cfg.PasswordOptions != DefaultPasswordOptions() {
		t.Errorf("PasswordOptions = %+v", cfg.PasswordOptions)
	}
	for i, item := range cfg.Items {
		if !item.Enabled || item.Favorite || item.Shortcut != nil {
			t.Errorf("item %s = %+v, want enabled, not favorite, no shortcut", DataType(i), item)
		}
	}
}

func TestDefaultConfigIsFresh(t *testing.T) {
	a := DefaultConfig()
	a.Items[CPF].Shortcut = &Shortcut{Alt: true, Key: "c"}
	a.Items[CPF].Favorite = true

	b := DefaultConfig()
	if b.Items[CPF].Shortcut != nil || b.Items[CPF].Favorite {
		t.Error("DefaultConfig() shares state between calls")
	}
}

func TestCloneIsDeep(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Items[Email].Shortcut = &Shortcut{Alt: true, Key: "e"}

	clone := cfg.Clone()
	clone.Items[Email].Shortcut.Key = "x"

	if cfg.Items[Email].Shortcut.Key != "e" {
		t.Error("Clone() shares shortcut pointers")
	}
}

func TestItemsJSONKeyedByTag(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Items[CreditCard].Shortcut = &Shortcut{Ctrl: true, Alt: true, Key: "k"}

	data, err := json.Marshal(cfg)
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}

	text := string(data)
	if !strings.Contains(text, `"creditCard":{"enabled":true,"shortcut":{"ctrl":true,"shift":false,"alt":true,"meta":false,"key":"k"},"favorite":false}`) {
		t.Errorf("unexpected encoding: %s", text)
	}
	if strings.Index(text, `"cnpj"`) > strings.Index(text, `"loremIpsum"`) {
		t.Error("items should be written in declaration order")
	}

	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}
	if !reflect.DeepEqual(raw, cfg.Raw()) {
		t.Errorf("Raw() = %v, want decoded JSON %v", cfg.Raw(), raw)
	}
}

func TestItemsUnmarshalFillsMissingAndDropsUnknown(t *testing.T) {
	var cfg ExtensionConfig
	data := `{"version":2,"items":{"email":{"enabled":false,"shortcut":null,"favorite":true},"ssn":{"enabled":true}}}`
	if err := json.Unmarshal([]byte(data), &cfg); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}

	if cfg.Items[Email].Enabled || !cfg.Items[Email].Favorite {
		t.Errorf("email = %+v", cfg.Items[Email])
	}
	if !cfg.Items[Phone].Enabled {
		t.Error("missing items should take their defaults")
	}
}

func TestDateFormatValid(t *testing.T) {
	for _, f := range DateFormats {
		if !f.Valid() {
			t.Errorf("%q should be valid", f)
		}
	}
	if DateFormat("dd-MM-yy").Valid() {
		t.Error("unknown format reported valid")
	}
}
