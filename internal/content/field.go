package content

import (
	"sync"

	"github.com/DougFavaretto/mockdata-browser-extension/internal/domain"
)

// Field is a Target that records what it was filled with. The editor API
// uses it to stand in for a page input.
type Field struct {
	Name     string
	ReadOnly bool

	mu     sync.Mutex
	filled []domain.DataType
	last   Options
}

// NewField creates a writable field.
func NewField(name string) *Field {
	return &Field{Name: name}
}

func (f *Field) Writable() bool { return !f.ReadOnly }

func (f *Field) Fill(t domain.DataType, opts Options) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.filled = append(f.filled, t)
	f.last = opts
}

// Filled returns the data types written so far, oldest first.
func (f *Field) Filled() []domain.DataType {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.DataType, len(f.filled))
	copy(out, f.filled)
	return out
}

// LastOptions returns the options of the most recent fill.
func (f *Field) LastOptions() Options {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.last
}
