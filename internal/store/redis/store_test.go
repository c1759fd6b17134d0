package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/DougFavaretto/mockdata-browser-extension/internal/logger"
	"github.com/DougFavaretto/mockdata-browser-extension/internal/store"
)

func newTestStore(t *testing.T, area string) (*Store, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	s := NewStore(client, area, logger.New("error", false))
	return s, mr
}

func TestStoreGetMissingKey(t *testing.T) {
	s, _ := newTestStore(t, store.AreaSync)

	data, err := s.Get(context.Background(), "absent")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if data != nil {
		t.Errorf("Get() = %q, want nil", data)
	}
}

func TestStoreSetGet(t *testing.T) {
	s, mr := newTestStore(t, store.AreaSync)
	ctx := context.Background()

	if err := s.Set(ctx, "cfg", []byte(`{"a":1}`)); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	data, err := s.Get(ctx, "cfg")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(data) != `{"a":1}` {
		t.Errorf("Get() = %s", data)
	}

	stored, err := mr.Get(AreaKey(store.AreaSync, "cfg"))
	if err != nil {
		t.Fatalf("key not namespaced as expected: %v", err)
	}
	if stored != `{"a":1}` {
		t.Errorf("raw redis value = %s", stored)
	}
}

func TestStoreBroadcastsChangesAcrossInstances(t *testing.T) {
	mr := miniredis.RunT(t)
	log := logger.New("error", false)

	writerClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	readerClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = writerClient.Close()
		_ = readerClient.Close()
	})

	writer := NewStore(writerClient, store.AreaSync, log)
	reader := NewStore(readerClient, store.AreaSync, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := reader.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer func() { _ = reader.Close() }()

	changes := make(chan store.Change, 4)
	unsubscribe := reader.Subscribe(func(c store.Change) { changes <- c })
	defer unsubscribe()

	if err := writer.Set(ctx, "cfg", []byte("v1")); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := writer.Set(ctx, "cfg", []byte("v2")); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	first := waitChange(t, changes)
	if first.Key != "cfg" || first.Area != store.AreaSync || first.OldValue != nil || string(first.NewValue) != "v1" {
		t.Errorf("first change = %+v", first)
	}
	second := waitChange(t, changes)
	if string(second.OldValue) != "v1" || string(second.NewValue) != "v2" {
		t.Errorf("second change = %+v", second)
	}
}

func TestStorePingFailsWhenRedisDown(t *testing.T) {
	s, mr := newTestStore(t, store.AreaSync)
	mr.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.Ping(ctx); err == nil {
		t.Error("Ping() should fail when redis is down")
	}
	if err := s.Set(ctx, "cfg", []byte("x")); err == nil {
		t.Error("Set() should fail when redis is down")
	}
}

func TestStoreFailedSetWritesNothing(t *testing.T) {
	mr := miniredis.RunT(t)
	log := logger.New("error", false)

	writerClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	readerClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = writerClient.Close()
		_ = readerClient.Close()
	})
	writer := NewStore(writerClient, store.AreaSync, log)
	reader := NewStore(readerClient, store.AreaSync, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := reader.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer func() { _ = reader.Close() }()

	changes := make(chan store.Change, 4)
	unsubscribe := reader.Subscribe(func(c store.Change) { changes <- c })
	defer unsubscribe()

	mr.SetError("ERR injected failure")
	if err := writer.Set(ctx, "cfg", []byte("lost")); err == nil {
		t.Fatal("Set() should fail while redis rejects commands")
	}
	mr.SetError("")

	if mr.Exists(AreaKey(store.AreaSync, "cfg")) {
		t.Error("value stored by a failed Set")
	}

	if err := writer.Set(ctx, "cfg", []byte("kept")); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	got := waitChange(t, changes)
	if string(got.NewValue) != "kept" || got.OldValue != nil {
		t.Errorf("first delivered change = %+v, want only the successful write", got)
	}
}

func TestSplitAreaKey(t *testing.T) {
	area, key, err := SplitAreaKey(AreaKey("sync", "fakeDataGeneratorConfig"))
	if err != nil {
		t.Fatalf("SplitAreaKey() error = %v", err)
	}
	if area != "sync" || key != "fakeDataGeneratorConfig" {
		t.Errorf("SplitAreaKey() = %q, %q", area, key)
	}

	for _, bad := range []string{"other:area:sync:k", "mockdata:area:sync", "mockdata:area::k"} {
		if _, _, err := SplitAreaKey(bad); err == nil {
			t.Errorf("SplitAreaKey(%q) should fail", bad)
		}
	}
}

func waitChange(t *testing.T, ch <-chan store.Change) store.Change {
	t.Helper()
	select {
	case c := <-ch:
		return c
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for change")
		return store.Change{}
	}
}
