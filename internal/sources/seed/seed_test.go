package seed

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/DougFavaretto/mockdata-browser-extension/internal/domain"
)

func writeSeed(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "seed.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to create seed file: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeSeed(t, `---
dateFormat: yyyy-MM-dd
passwordOptions:
  length: 24
  symbols: false
items:
  cpf:
    shortcut: ctrl+alt+c
    favorite: true
  email:
    enabled: false
    shortcut: {alt: true, key: E}
  phone:
    shortcut: ""
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.DateFormat != domain.DateFormatISO {
		t.Errorf("DateFormat = %q", cfg.DateFormat)
	}
	if cfg.PasswordOptions.Length != 24 || cfg.PasswordOptions.Symbols {
		t.Errorf("PasswordOptions = %+v", cfg.PasswordOptions)
	}

	cpf := cfg.Items[domain.CPF]
	if !cpf.Favorite || cpf.Shortcut == nil || *cpf.Shortcut != (domain.Shortcut{Ctrl: true, Alt: true, Key: "c"}) {
		t.Errorf("cpf = %+v", cpf)
	}
	email := cfg.Items[domain.Email]
	if email.Enabled || email.Shortcut == nil || email.Shortcut.Key != "e" {
		t.Errorf("email = %+v", email)
	}
	if cfg.Items[domain.Phone].Shortcut != nil {
		t.Error("empty shorthand should clear the shortcut")
	}
}

func TestLoadWithTemplateVariables(t *testing.T) {
	t.Setenv("MOCKDATA_VAR_UUID_SHORTCUT", "meta+shift+u")

	path := writeSeed(t, `items:
  uuid:
    shortcut: "{{MOCKDATA_VAR_UUID_SHORTCUT}}"
  url:
    shortcut: "{{ MOCKDATA_VAR_UNSET }}"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	want := domain.Shortcut{Meta: true, Shift: true, Key: "u"}
	if got := cfg.Items[domain.UUID].Shortcut; got == nil || *got != want {
		t.Errorf("uuid shortcut = %v, want %+v", got, want)
	}
	if cfg.Items[domain.URL].Shortcut != nil {
		t.Error("unset variable should leave no shortcut")
	}
}

func TestLoadBadShorthand(t *testing.T) {
	path := writeSeed(t, `items:
  cpf:
    shortcut: hyper+c
`)
	if _, err := Load(path); err == nil {
		t.Error("Load() should reject an unparsable shortcut")
	}
}

func TestLoadKeepsDuplicatesForTheStore(t *testing.T) {
	path := writeSeed(t, `items:
  cpf: {shortcut: alt+q}
  cnpj: {shortcut: alt+Q}
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if _, ok := cfg.Items.FindDuplicate(); !ok {
		t.Error("duplicates should reach the store so it can reject them")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load() of a missing file should fail")
	}
}

func TestLoadEmptyFile(t *testing.T) {
	cfg, err := Load(writeSeed(t, ""))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !cfg.Equal(domain.DefaultConfig()) {
		t.Errorf("empty seed = %+v, want defaults", cfg)
	}
}
