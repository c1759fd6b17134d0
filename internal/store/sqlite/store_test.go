package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/DougFavaretto/mockdata-browser-extension/internal/store"
)

func openTestStore(t *testing.T, area string) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "settings.db"), area)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStoreSetGet(t *testing.T) {
	s := openTestStore(t, store.AreaLocal)
	ctx := context.Background()

	data, err := s.Get(ctx, "cfg")
	if err != nil || data != nil {
		t.Fatalf("Get() on empty store = %q, %v", data, err)
	}

	if err := s.Set(ctx, "cfg", []byte("one")); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := s.Set(ctx, "cfg", []byte("two")); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	data, err = s.Get(ctx, "cfg")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(data) != "two" {
		t.Errorf("Get() = %q, want two", data)
	}
}

func TestStoreNotifiesWithOldValue(t *testing.T) {
	s := openTestStore(t, store.AreaLocal)
	ctx := context.Background()

	var got []store.Change
	unsubscribe := s.Subscribe(func(c store.Change) { got = append(got, c) })

	_ = s.Set(ctx, "cfg", []byte("one"))
	_ = s.Set(ctx, "cfg", []byte("two"))
	unsubscribe()
	_ = s.Set(ctx, "cfg", []byte("three"))

	if len(got) != 2 {
		t.Fatalf("got %d changes, want 2", len(got))
	}
	if got[0].OldValue != nil || string(got[0].NewValue) != "one" || got[0].Area != store.AreaLocal {
		t.Errorf("first change = %+v", got[0])
	}
	if string(got[1].OldValue) != "one" || string(got[1].NewValue) != "two" {
		t.Errorf("second change = %+v", got[1])
	}
}

func TestStoreAreasAreIsolated(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shared.db")
	local, err := Open(path, store.AreaLocal)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer func() { _ = local.Close() }()
	sync, err := Open(path, store.AreaSync)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer func() { _ = sync.Close() }()

	ctx := context.Background()
	if err := local.Set(ctx, "cfg", []byte("local")); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	data, err := sync.Get(ctx, "cfg")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if data != nil {
		t.Errorf("sync area sees local value %q", data)
	}
}
