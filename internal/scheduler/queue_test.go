package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/DougFavaretto/mockdata-browser-extension/internal/logger"
)

func TestQueue_RunsInOrder(t *testing.T) {
	q := NewQueue("test", logger.New("error", false))

	var mu sync.Mutex
	var order []int
	var wg sync.WaitGroup

	for i := 0; i < 20; i++ {
		wg.Add(1)
		q.Enqueue("order", func(context.Context) error {
			defer wg.Done()
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
			return nil
		})
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	q.Start(ctx)
	waitGroup(t, &wg)

	for i, v := range order {
		if v != i {
			t.Fatalf("order = %v, want ascending", order)
		}
	}
	q.Stop()
	q.Wait()
}

func TestQueue_OneAtATime(t *testing.T) {
	q := NewQueue("test", logger.New("error", false))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	q.Start(ctx)
	defer q.Stop()

	var mu sync.Mutex
	running, maxRunning := 0, 0
	var wg sync.WaitGroup

	for i := 0; i < 5; i++ {
		wg.Add(1)
		q.Enqueue("overlap", func(context.Context) error {
			defer wg.Done()
			mu.Lock()
			running++
			if running > maxRunning {
				maxRunning = running
			}
			mu.Unlock()

			time.Sleep(5 * time.Millisecond)

			mu.Lock()
			running--
			mu.Unlock()
			return nil
		})
	}
	waitGroup(t, &wg)

	if maxRunning != 1 {
		t.Errorf("max concurrent tasks = %d, want 1", maxRunning)
	}
}

func TestQueue_FailureIsolation(t *testing.T) {
	q := NewQueue("test", logger.New("error", false))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	q.Start(ctx)
	defer q.Stop()

	ran := make(chan string, 3)
	q.Enqueue("fails", func(context.Context) error {
		ran <- "fails"
		return errors.New("boom")
	})
	q.Enqueue("panics", func(context.Context) error {
		ran <- "panics"
		panic("kaboom")
	})
	q.Enqueue("succeeds", func(context.Context) error {
		ran <- "succeeds"
		return nil
	})

	for _, want := range []string{"fails", "panics", "succeeds"} {
		select {
		case got := <-ran:
			if got != want {
				t.Fatalf("ran %q, want %q", got, want)
			}
		case <-time.After(time.Second):
			t.Fatalf("task %q never ran", want)
		}
	}
}

func TestQueue_StopRefusesNewTasks(t *testing.T) {
	q := NewQueue("test", logger.New("error", false))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	q.Start(ctx)

	q.Stop()
	q.Wait()

	if q.Enqueue("late", func(context.Context) error { return nil }) {
		t.Error("Enqueue() after Stop() should report false")
	}
	if q.Len() != 0 {
		t.Errorf("Len() = %d, want 0", q.Len())
	}
}

func waitGroup(t *testing.T, wg *sync.WaitGroup) {
	t.Helper()
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for tasks")
	}
}

func TestQueue_ContextDoneStopsQueue(t *testing.T) {
	q := NewQueue("test", logger.New("error", false))
	ctx, cancel := context.WithCancel(context.Background())
	q.Start(ctx)
	q.Start(ctx)

	cancel()
	q.Wait()

	if q.Enqueue("late", func(context.Context) error { return nil }) {
		t.Error("Enqueue() accepted a task after the worker exited")
	}
	q.Stop()
}
