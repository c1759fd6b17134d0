// Package menu keeps the background context's "generate fake data" menu in
// step with the stored configuration.
package menu

import (
	"context"
	"fmt"
	"strings"

	"github.com/DougFavaretto/mockdata-browser-extension/internal/domain"
	"github.com/DougFavaretto/mockdata-browser-extension/internal/logger"
	"github.com/DougFavaretto/mockdata-browser-extension/internal/scheduler"
)

const (
	RootID    = "fake-data:root"
	RootTitle = "Gerar dado fake"
	idPrefix  = "fake-data:"
)

// EditableContext is the only context the menu is offered in.
const EditableContext = "editable"

// Rebuild triggers.
const (
	ReasonBootstrap     = "bootstrap"
	ReasonStartup       = "startup"
	ReasonStorageChange = "storageChange"
	ReasonManual        = "manual"
	ReasonResync        = "resync"
)

// ConfigSource is what the builder needs from the settings store.
type ConfigSource interface {
	Load(ctx context.Context) (domain.ExtensionConfig, error)
	Watch(fn func(domain.ExtensionConfig)) (unsubscribe func())
}

// ItemID returns the menu ID for a data type.
func ItemID(t domain.DataType) string {
	return idPrefix + t.String()
}

// ParseMenuID returns the data type behind a menu ID. The root and anything
// unknown yield false.
func ParseMenuID(id string) (domain.DataType, bool) {
	tag, ok := strings.CutPrefix(id, idPrefix)
	if !ok {
		return 0, false
	}
	return domain.ParseDataType(tag)
}

// Entries computes the menu for cfg: the root, then one child per enabled
// data type with favorites first.
func Entries(cfg domain.ExtensionConfig) []Entry {
	entries := []Entry{{
		ID:       RootID,
		Title:    RootTitle,
		Contexts: []string{EditableContext},
	}}

	for _, def := range domain.SortByFavorite(domain.Definitions(), &cfg.Items) {
		if !cfg.Items[def.Type].Enabled {
			continue
		}
		entries = append(entries, Entry{
			ID:       ItemID(def.Type),
			ParentID: RootID,
			Title:    def.Label,
			Contexts: []string{EditableContext},
		})
	}
	return entries
}

// Builder owns the background context's configuration copy and rebuilds the
// menu through a serial queue.
type Builder struct {
	source ConfigSource
	queue  *scheduler.Queue
	index  *Index
	logger logger.Logger

	unwatch func()
}

// NewBuilder wires a builder. The queue must be started by the caller.
func NewBuilder(source ConfigSource, queue *scheduler.Queue, idx *Index, log logger.Logger) *Builder {
	return &Builder{
		source: source,
		queue:  queue,
		index:  idx,
		logger: log,
	}
}

// Index returns the menu index.
func (b *Builder) Index() *Index { return b.index }

// Pending returns the number of rebuilds waiting in the queue.
func (b *Builder) Pending() int { return b.queue.Len() }

// Start subscribes to configuration changes and queues the bootstrap rebuild.
func (b *Builder) Start() {
	b.unwatch = b.source.Watch(func(cfg domain.ExtensionConfig) {
		b.Trigger(ReasonStorageChange, &cfg)
	})
	b.Trigger(ReasonBootstrap, nil)
}

// Stop removes the configuration subscription.
func (b *Builder) Stop() {
	if b.unwatch != nil {
		b.unwatch()
		b.unwatch = nil
	}
}

// Trigger queues a rebuild. With a nil cfg the configuration is loaded when
// the rebuild runs.
func (b *Builder) Trigger(reason string, cfg *domain.ExtensionConfig) bool {
	var snapshot *domain.ExtensionConfig
	if cfg != nil {
		c := cfg.Clone()
		snapshot = &c
	}

	return b.queue.Enqueue(reason, func(ctx context.Context) error {
		if err := b.rebuild(ctx, snapshot); err != nil {
			return fmt.Errorf("falha ao sincronizar menu de contexto (%s): %w", reason, err)
		}
		return nil
	})
}

func (b *Builder) rebuild(ctx context.Context, cfg *domain.ExtensionConfig) error {
	if cfg == nil {
		loaded, err := b.source.Load(ctx)
		if err != nil {
			return err
		}
		cfg = &loaded
	}

	entries := Entries(*cfg)
	b.index.Replace(entries)

	b.logger.Debug("context menu rebuilt",
		logger.Int("items", len(entries)-1))
	return nil
}
