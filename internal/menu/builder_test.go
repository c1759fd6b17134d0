package menu

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/DougFavaretto/mockdata-browser-extension/internal/domain"
	"github.com/DougFavaretto/mockdata-browser-extension/internal/logger"
	"github.com/DougFavaretto/mockdata-browser-extension/internal/scheduler"
	"github.com/DougFavaretto/mockdata-browser-extension/internal/settings"
	"github.com/DougFavaretto/mockdata-browser-extension/internal/store"
)

func TestEntries(t *testing.T) {
	cfg := domain.DefaultConfig()
	cfg.Items[domain.Email].Favorite = true
	cfg.Items[domain.CPF].Enabled = false
	cfg.Items[domain.Phone].Enabled = false
	cfg.Items[domain.Phone].Favorite = true

	entries := Entries(cfg)

	if entries[0].ID != RootID || entries[0].Title != RootTitle || entries[0].ParentID != "" {
		t.Fatalf("root = %+v", entries[0])
	}
	if len(entries) != 1+domain.NumDataTypes-2 {
		t.Errorf("len(entries) = %d, want %d", len(entries), 1+domain.NumDataTypes-2)
	}
	if entries[1].ID != "fake-data:email" || entries[1].Title != domain.LabelFor(domain.Email) {
		t.Errorf("first child = %+v, want favorite email", entries[1])
	}
	if entries[2].ID != "fake-data:cnpj" {
		t.Errorf("second child = %+v, want cnpj", entries[2])
	}
	for _, e := range entries[1:] {
		if e.ParentID != RootID {
			t.Errorf("%s parent = %q", e.ID, e.ParentID)
		}
		if e.ID == ItemID(domain.CPF) || e.ID == ItemID(domain.Phone) {
			t.Errorf("disabled type %s listed", e.ID)
		}
	}
}

func TestParseMenuID(t *testing.T) {
	for _, dt := range domain.AllDataTypes() {
		got, ok := ParseMenuID(ItemID(dt))
		if !ok || got != dt {
			t.Errorf("ParseMenuID(%q) = %v, %v", ItemID(dt), got, ok)
		}
	}
	for _, id := range []string{RootID, "fake-data:", "fake-data:ssn", "other:cpf", "cpf"} {
		if _, ok := ParseMenuID(id); ok {
			t.Errorf("ParseMenuID(%q) should fail", id)
		}
	}
}

func newTestBuilder(t *testing.T, source ConfigSource) (*Builder, *scheduler.Queue) {
	t.Helper()
	log := logger.New("error", false)
	q := scheduler.NewQueue("menu", log)
	ctx, cancel := context.WithCancel(context.Background())
	q.Start(ctx)
	t.Cleanup(func() {
		q.Stop()
		cancel()
	})
	return NewBuilder(source, q, NewIndex(), log), q
}

// flush waits until every task queued so far has run.
func flush(t *testing.T, q *scheduler.Queue) {
	t.Helper()
	done := make(chan struct{})
	q.Enqueue("flush", func(context.Context) error {
		close(done)
		return nil
	})
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("queue did not drain")
	}
}

func TestBuilderBootstrapAndStorageChange(t *testing.T) {
	s := settings.NewStore(store.NewMemory(store.AreaSync), logger.New("error", false))
	b, q := newTestBuilder(t, s)
	if _, err := s.Save(context.Background(), domain.DefaultConfig()); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	b.Start()
	defer b.Stop()
	flush(t, q)

	if got := b.Index().Count(); got != 1+domain.NumDataTypes {
		t.Fatalf("bootstrap menu has %d entries, want %d", got, 1+domain.NumDataTypes)
	}

	cfg := domain.DefaultConfig()
	cfg.Items[domain.LoremIpsum].Favorite = true
	cfg.Items[domain.URL].Enabled = false
	if _, err := s.Save(context.Background(), cfg); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	flush(t, q)

	entries := b.Index().All()
	if entries[1].ID != ItemID(domain.LoremIpsum) {
		t.Errorf("first child = %s, want loremIpsum", entries[1].ID)
	}
	if _, ok := b.Index().Get(ItemID(domain.URL)); ok {
		t.Error("disabled url still in the menu")
	}
	if _, rebuilds := b.Index().LastRebuild(); rebuilds != 2 {
		t.Errorf("rebuilds = %d, want 2", rebuilds)
	}
}

// flakySource fails the first Load.
type flakySource struct {
	mu    sync.Mutex
	calls int
}

func (f *flakySource) Load(context.Context) (domain.ExtensionConfig, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.calls == 1 {
		return domain.ExtensionConfig{}, errors.New("storage unavailable")
	}
	return domain.DefaultConfig(), nil
}

func (f *flakySource) Watch(func(domain.ExtensionConfig)) func() { return func() {} }

func TestBuilderFailedRebuildDoesNotBlockNext(t *testing.T) {
	b, q := newTestBuilder(t, &flakySource{})

	b.Trigger(ReasonBootstrap, nil)
	b.Trigger(ReasonStartup, nil)
	flush(t, q)

	if got := b.Index().Count(); got != 1+domain.NumDataTypes {
		t.Errorf("menu has %d entries after retry, want %d", got, 1+domain.NumDataTypes)
	}
	if _, rebuilds := b.Index().LastRebuild(); rebuilds != 1 {
		t.Errorf("rebuilds = %d, want 1", rebuilds)
	}
}

func TestTriggerSnapshotsConfig(t *testing.T) {
	b, q := newTestBuilder(t, &flakySource{})

	cfg := domain.DefaultConfig()
	b.Trigger(ReasonStorageChange, &cfg)
	cfg.Items[domain.CNPJ].Enabled = false
	flush(t, q)

	if _, ok := b.Index().Get(ItemID(domain.CNPJ)); !ok {
		t.Error("rebuild saw a change made after Trigger")
	}
}
