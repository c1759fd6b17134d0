package menu

import "testing"

func TestIndexReplace(t *testing.T) {
	idx := NewIndex()
	if idx.Count() != 0 {
		t.Fatalf("new index has %d entries", idx.Count())
	}

	idx.Replace([]Entry{{ID: "a"}, {ID: "b"}})
	idx.Replace([]Entry{{ID: "c"}})

	if _, ok := idx.Get("a"); ok {
		t.Error("Replace() should drop previous entries")
	}
	if e, ok := idx.Get("c"); !ok || e.ID != "c" {
		t.Errorf("Get(c) = %+v, %v", e, ok)
	}
	if _, n := idx.LastRebuild(); n != 2 {
		t.Errorf("rebuilds = %d, want 2", n)
	}
}

func TestIndexAllIsCopy(t *testing.T) {
	idx := NewIndex()
	entries := []Entry{{ID: "a", Title: "A"}}
	idx.Replace(entries)
	entries[0].Title = "changed"

	all := idx.All()
	all[0].Title = "changed too"

	if e, _ := idx.Get("a"); e.Title != "A" {
		t.Errorf("index shares memory with callers: %q", e.Title)
	}
}
