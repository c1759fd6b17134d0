// Package content models one page context: it keeps its own copy of the
// configuration, matches key presses to data types and fills the focused
// target.
package content

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/DougFavaretto/mockdata-browser-extension/internal/domain"
	"github.com/DougFavaretto/mockdata-browser-extension/internal/logger"
)

// Fill failure reasons.
const (
	ReasonNoTarget = "NO_TARGET"
	ReasonDisabled = "DISABLED"
)

// FillResult reports the outcome of a generate request.
type FillResult struct {
	OK     bool   `json:"ok"`
	Reason string `json:"reason,omitempty"`
}

// Options carries the settings a generator needs.
type Options struct {
	DateFormat      domain.DateFormat
	PasswordOptions domain.PasswordOptions
}

// Target is an element that can receive generated data.
type Target interface {
	Writable() bool
	Fill(dataType domain.DataType, opts Options)
}

// ConfigSource is what a context needs from the settings store.
type ConfigSource interface {
	Load(ctx context.Context) (domain.ExtensionConfig, error)
	Watch(fn func(domain.ExtensionConfig)) (unsubscribe func())
}

// Context is the per-page state. Its configuration only changes through
// Apply.
type Context struct {
	name   string
	logger logger.Logger

	config atomic.Pointer[domain.ExtensionConfig]

	mu     sync.Mutex
	target Target

	unwatch func()
}

// New creates a context holding the default configuration.
func New(name string, log logger.Logger) *Context {
	c := &Context{name: name, logger: log}
	cfg := domain.DefaultConfig()
	c.config.Store(&cfg)
	return c
}

// Name identifies the context in logs and the API.
func (c *Context) Name() string { return c.name }

// Attach subscribes to changes, then loads the current configuration. A
// change delivered while loading wins over the loaded value.
func (c *Context) Attach(ctx context.Context, source ConfigSource) error {
	var (
		mu       sync.Mutex
		notified bool
	)
	c.unwatch = source.Watch(func(cfg domain.ExtensionConfig) {
		mu.Lock()
		defer mu.Unlock()
		notified = true
		c.Apply(cfg)
	})

	cfg, err := source.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load config for %s: %w", c.name, err)
	}

	mu.Lock()
	defer mu.Unlock()
	if notified {
		c.logger.Debug("change arrived while loading, keeping it",
			logger.String("context", c.name))
		return nil
	}
	c.Apply(cfg)
	return nil
}

// Detach drops the change subscription.
func (c *Context) Detach() {
	if c.unwatch != nil {
		c.unwatch()
		c.unwatch = nil
	}
}

// Apply replaces the context's configuration.
func (c *Context) Apply(cfg domain.ExtensionConfig) {
	snapshot := cfg.Clone()
	c.config.Store(&snapshot)
	c.logger.Debug("config applied",
		logger.String("context", c.name),
		logger.Bool("shortcuts", snapshot.KeyboardShortcutsEnabled))
}

// Config returns a copy of the current configuration.
func (c *Context) Config() domain.ExtensionConfig {
	return c.config.Load().Clone()
}

// Focus records t as the element to fill. A nil t clears it.
func (c *Context) Focus(t Target) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.target = t
}

// Target returns the focused element, if any.
func (c *Context) Target() Target {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.target
}

func (c *Context) resolveTarget() Target {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.target != nil && c.target.Writable() {
		return c.target
	}
	return nil
}

// HandleKey returns the enabled data type bound to ev. Nothing matches while
// keyboard shortcuts are turned off.
func (c *Context) HandleKey(ev KeyEvent) (domain.DataType, bool) {
	cfg := c.config.Load()
	if !cfg.KeyboardShortcutsEnabled {
		return 0, false
	}
	return cfg.Items.MatchEvent(ev.Shortcut())
}

// Press handles a key event end to end: on a match it fills the target and
// reports true so the caller can swallow the event.
func (c *Context) Press(ev KeyEvent) (domain.DataType, FillResult, bool) {
	t, ok := c.HandleKey(ev)
	if !ok {
		return 0, FillResult{}, false
	}
	return t, c.Generate(t), true
}

// Generate fills the current target with data of type t.
func (c *Context) Generate(t domain.DataType) FillResult {
	cfg := c.config.Load()
	if !t.Valid() || !cfg.Items[t].Enabled {
		return FillResult{Reason: ReasonDisabled}
	}

	target := c.resolveTarget()
	if target == nil {
		return FillResult{Reason: ReasonNoTarget}
	}

	target.Fill(t, Options{
		DateFormat:      cfg.DateFormat,
		PasswordOptions: cfg.PasswordOptions,
	})
	return FillResult{OK: true}
}
