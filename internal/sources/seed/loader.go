// Package seed reads the configuration file the service seeds an empty store
// with.
package seed

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// Loader reads a seed file. JSON files are accepted since JSON is YAML.
type Loader struct {
	filePath string
	lookup   func(string) (string, bool)
}

// NewLoader creates a loader for filePath. Template variables resolve from
// the process environment.
func NewLoader(filePath string) *Loader {
	return &Loader{
		filePath: filePath,
		lookup:   os.LookupEnv,
	}
}

// Load reads the file and returns its raw decoded document.
func (l *Loader) Load() (map[string]any, error) {
	data, err := os.ReadFile(l.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}

	data = l.expandVariables(data)

	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse seed yaml: %w", err)
	}
	if doc == nil {
		doc = map[string]any{}
	}
	return doc, nil
}

var templateVar = regexp.MustCompile(`\{\{\s*(MOCKDATA_VAR_[A-Z0-9_]+)\s*\}\}`)

// expandVariables replaces {{MOCKDATA_VAR_...}} with the variable's value,
// or an empty string when it is unset.
// Example: shortcut: "{{MOCKDATA_VAR_CPF_SHORTCUT}}" -> shortcut: "ctrl+alt+c"
func (l *Loader) expandVariables(data []byte) []byte {
	return templateVar.ReplaceAllFunc(data, func(match []byte) []byte {
		name := templateVar.FindSubmatch(match)[1]
		v, _ := l.lookup(string(name))
		return []byte(v)
	})
}
