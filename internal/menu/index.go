package menu

import (
	"sync"
	"time"
)

// Entry is one context menu item.
type Entry struct {
	ID       string   `json:"id"`
	ParentID string   `json:"parent_id,omitempty"`
	Title    string   `json:"title"`
	Contexts []string `json:"contexts"`
}

// Index holds the menu currently shown, in display order.
type Index struct {
	mu          sync.RWMutex
	entries     []Entry
	byID        map[string]int // ID -> position in entries
	lastRebuild time.Time
	rebuilds    int
}

// NewIndex creates an empty index.
func NewIndex() *Index {
	return &Index{byID: make(map[string]int)}
}

// Replace swaps the whole menu.
func (idx *Index) Replace(entries []Entry) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	// Clear and rebuild
	idx.entries = make([]Entry, len(entries))
	copy(idx.entries, entries)
	idx.byID = make(map[string]int, len(entries))
	for i, e := range idx.entries {
		idx.byID[e.ID] = i
	}
	idx.lastRebuild = time.Now()
	idx.rebuilds++
}

// Get retrieves an entry by ID.
func (idx *Index) Get(id string) (Entry, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	i, ok := idx.byID[id]
	if !ok {
		return Entry{}, false
	}
	return idx.entries[i], true
}

// All returns a copy of the entries in display order.
func (idx *Index) All() []Entry {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	out := make([]Entry, len(idx.entries))
	copy(out, idx.entries)
	return out
}

// Count returns the number of entries, root included.
func (idx *Index) Count() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return len(idx.entries)
}

// LastRebuild returns when the menu was last replaced and how many times it
// has been.
func (idx *Index) LastRebuild() (time.Time, int) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return idx.lastRebuild, idx.rebuilds
}
