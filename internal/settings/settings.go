// Package settings persists the extension configuration in a storage area and
// keeps every reader on a sanitized view of it.
package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"

	"github.com/DougFavaretto/mockdata-browser-extension/internal/domain"
	"github.com/DougFavaretto/mockdata-browser-extension/internal/logger"
	"github.com/DougFavaretto/mockdata-browser-extension/internal/store"
)

const (
	// StorageKey is the single key the configuration is stored under.
	StorageKey = "fakeDataGeneratorConfig"
	// SyncArea is the only area whose changes Watch reports.
	SyncArea = store.AreaSync
)

// ErrDuplicateShortcut matches every *DuplicateShortcutError.
var ErrDuplicateShortcut = errors.New("existem atalhos duplicados na configuracao")

// DuplicateShortcutError is returned by Save when two data types share a
// shortcut.
type DuplicateShortcutError struct {
	First  domain.DataType
	Second domain.DataType
}

func (e *DuplicateShortcutError) Error() string {
	return fmt.Sprintf("%s: %s e %s", ErrDuplicateShortcut, e.First, e.Second)
}

func (e *DuplicateShortcutError) Is(target error) bool {
	return target == ErrDuplicateShortcut
}

// Store reads and writes the configuration in an area.
type Store struct {
	area   store.Area
	logger logger.Logger
}

// NewStore creates a settings store on top of area.
func NewStore(area store.Area, log logger.Logger) *Store {
	return &Store{area: area, logger: log}
}

// Area returns the underlying storage area.
func (s *Store) Area() store.Area { return s.area }

// Load reads the stored configuration and sanitizes it. When sanitizing
// changed anything (missing, corrupt, older schema) the repaired value is
// written back before returning.
func (s *Store) Load(ctx context.Context) (domain.ExtensionConfig, error) {
	data, err := s.area.Get(ctx, StorageKey)
	if err != nil {
		return domain.ExtensionConfig{}, fmt.Errorf("failed to read config: %w", err)
	}

	raw := decode(data)
	cfg := domain.Sanitize(raw)

	if !reflect.DeepEqual(raw, cfg.Raw()) {
		s.logger.Info("repairing stored config",
			logger.String("key", StorageKey),
			logger.Bool("missing", data == nil))
		if err := s.write(ctx, cfg); err != nil {
			return domain.ExtensionConfig{}, err
		}
	}

	return cfg, nil
}

// Save validates cfg and persists it. Shared shortcuts are rejected with a
// *DuplicateShortcutError and nothing is written.
func (s *Store) Save(ctx context.Context, cfg domain.ExtensionConfig) (domain.ExtensionConfig, error) {
	fields := domain.SanitizeFields(cfg)
	if dup, ok := fields.Items.FindDuplicate(); ok {
		return domain.ExtensionConfig{}, &DuplicateShortcutError{First: dup.First, Second: dup.Second}
	}

	sanitized := domain.Sanitize(fields)
	if err := s.write(ctx, sanitized); err != nil {
		return domain.ExtensionConfig{}, err
	}
	return sanitized, nil
}

// Watch calls fn with the sanitized new value each time the configuration
// changes in the sync area. Each call registers an independent subscription.
func (s *Store) Watch(fn func(domain.ExtensionConfig)) (unsubscribe func()) {
	return s.area.Subscribe(func(c store.Change) {
		if c.Area != SyncArea || c.Key != StorageKey {
			return
		}
		fn(domain.Sanitize(decode(c.NewValue)))
	})
}

// Seed writes cfg only when nothing is stored yet. It reports whether it wrote.
func (s *Store) Seed(ctx context.Context, cfg domain.ExtensionConfig) (bool, error) {
	data, err := s.area.Get(ctx, StorageKey)
	if err != nil {
		return false, fmt.Errorf("failed to read config: %w", err)
	}
	if data != nil {
		return false, nil
	}
	if _, err := s.Save(ctx, cfg); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) write(ctx context.Context, cfg domain.ExtensionConfig) error {
	data, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := s.area.Set(ctx, StorageKey, data); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// decode turns stored bytes into their raw JSON form. Absent or corrupt
// values decode to nil, which sanitizes to the defaults.
func decode(data []byte) any {
	if len(data) == 0 {
		return nil
	}
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil
	}
	return raw
}
