package settings

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/DougFavaretto/mockdata-browser-extension/internal/domain"
)

// Format is a serialization used by Import and Export.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat accepts json, yaml or yml (case-insensitive). Empty means JSON.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported format %q", s)
	}
}

// Export loads the configuration and encodes it.
func (s *Store) Export(ctx context.Context, format Format) ([]byte, error) {
	cfg, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	return Encode(cfg, format)
}

// Import decodes data, sanitizes it and saves the result. Per-field garbage
// is repaired; shared shortcuts are rejected as in Save.
func (s *Store) Import(ctx context.Context, data []byte, format Format) (domain.ExtensionConfig, error) {
	raw, err := Decode(data, format)
	if err != nil {
		return domain.ExtensionConfig{}, err
	}
	return s.Save(ctx, domain.SanitizeFields(raw))
}

// Encode writes cfg in the given format. YAML output keeps the JSON field
// names and item order.
func Encode(cfg domain.ExtensionConfig, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		return json.MarshalIndent(cfg, "", "  ")
	case FormatYAML:
		return encodeYAML(cfg)
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
}

// Decode parses data into its raw form, ready for domain.Sanitize.
func Decode(data []byte, format Format) (any, error) {
	var raw any
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("invalid json: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("invalid yaml: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
	return raw, nil
}

func encodeYAML(cfg domain.ExtensionConfig) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	return buf.Bytes(), nil
}
