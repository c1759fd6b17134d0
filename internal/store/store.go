// Package store defines the key-value storage areas the settings live in and
// an in-process implementation of one.
package store

import (
	"bytes"
	"context"
	"errors"
	"sync"
)

// Storage area names.
const (
	AreaSync  = "sync"
	AreaLocal = "local"
)

// ErrClosed is returned by an area after Close.
var ErrClosed = errors.New("storage area closed")

// Change describes one write observed on an area. OldValue is nil when the key
// did not exist before.
type Change struct {
	Key      string `json:"key"`
	OldValue []byte `json:"old_value,omitempty"`
	NewValue []byte `json:"new_value,omitempty"`
	Area     string `json:"area"`
}

// Listener receives changes. It must not block for long: areas deliver from a
// single goroutine.
type Listener func(Change)

// Area is a key-value storage area with change notifications.
type Area interface {
	// Name is the area name carried by every Change it emits.
	Name() string
	// Get returns the stored bytes, or nil when the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set replaces the value of key and notifies listeners.
	Set(ctx context.Context, key string, value []byte) error
	// Subscribe registers l and returns a function removing it.
	Subscribe(l Listener) (unsubscribe func())
	// Ping checks that the backend is reachable.
	Ping(ctx context.Context) error
}

// listeners is the registration list shared by the area implementations.
type listeners struct {
	mu     sync.RWMutex
	nextID int
	byID   map[int]Listener
	order  []int
}

func (ls *listeners) add(l Listener) func() {
	ls.mu.Lock()
	defer ls.mu.Unlock()

	if ls.byID == nil {
		ls.byID = make(map[int]Listener)
	}
	id := ls.nextID
	ls.nextID++
	ls.byID[id] = l
	ls.order = append(ls.order, id)

	var once sync.Once
	return func() {
		once.Do(func() { ls.remove(id) })
	}
}

func (ls *listeners) remove(id int) {
	ls.mu.Lock()
	defer ls.mu.Unlock()

	delete(ls.byID, id)
	for i, candidate := range ls.order {
		if candidate == id {
			ls.order = append(ls.order[:i], ls.order[i+1:]...)
			break
		}
	}
}

func (ls *listeners) snapshot() []Listener {
	ls.mu.RLock()
	defer ls.mu.RUnlock()

	out := make([]Listener, 0, len(ls.order))
	for _, id := range ls.order {
		out = append(out, ls.byID[id])
	}
	return out
}

func (ls *listeners) count() int {
	ls.mu.RLock()
	defer ls.mu.RUnlock()
	return len(ls.order)
}

// Broadcaster fans changes out to subscribed listeners in subscription order.
// Area implementations outside this package embed it.
type Broadcaster struct {
	ls listeners
}

// Subscribe registers l.
func (b *Broadcaster) Subscribe(l Listener) func() {
	return b.ls.add(l)
}

// Publish delivers c to every listener registered at the time of the call.
func (b *Broadcaster) Publish(c Change) {
	for _, l := range b.ls.snapshot() {
		l(c)
	}
}

// Listeners returns the number of active subscriptions.
func (b *Broadcaster) Listeners() int {
	return b.ls.count()
}

// Memory is an in-process area. Listeners run synchronously after the write.
type Memory struct {
	Broadcaster

	name   string
	mu     sync.Mutex
	data   map[string][]byte
	closed bool
}

// NewMemory creates an empty in-process area called name.
func NewMemory(name string) *Memory {
	return &Memory{
		name: name,
		data: make(map[string][]byte),
	}
}

// Name returns the area name.
func (m *Memory) Name() string { return m.name }

// Get returns a copy of the stored value.
func (m *Memory) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil, ErrClosed
	}
	return bytes.Clone(m.data[key]), nil
}

// Set stores a copy of value and notifies listeners.
func (m *Memory) Set(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrClosed
	}
	old := m.data[key]
	m.data[key] = bytes.Clone(value)
	m.mu.Unlock()

	m.Publish(Change{
		Key:      key,
		OldValue: old,
		NewValue: bytes.Clone(value),
		Area:     m.name,
	})
	return nil
}

// Ping fails only once the area is closed.
func (m *Memory) Ping(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	return ctx.Err()
}

// Close makes every further call fail with ErrClosed.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}
