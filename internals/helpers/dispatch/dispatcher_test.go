package dispatch

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestDispatcherRunsJobs(t *testing.T) {
	d := New(Options{Workers: 2, QueueSize: 8})

	var mu sync.Mutex
	seen := map[string]bool{}
	for _, name := range []string{"a", "b", "c"} {
		name := name
		d.Go(name, func(ctx context.Context) error {
			mu.Lock()
			seen[name] = true
			mu.Unlock()
			return nil
		})
	}

	if err := d.Close(context.Background()); err != nil {
		t.Fatalf("Close error: %v", err)
	}
	if len(seen) != 3 {
		t.Fatalf("expected 3 jobs to run, got %d", len(seen))
	}
	st := d.Stats()
	if st.Queued != 3 || st.Succeeded != 3 || st.Failed != 0 {
		t.Fatalf("unexpected stats: %+v", st)
	}
}

func TestDispatcherCountsFailuresAndPanics(t *testing.T) {
	d := New(Options{Workers: 1, QueueSize: 4})
	d.Go("fails", func(ctx context.Context) error { return errors.New("boom") })
	d.Go("panics", func(ctx context.Context) error { panic("kaboom") })
	d.Go("ok", func(ctx context.Context) error { return nil })

	if err := d.Close(context.Background()); err != nil {
		t.Fatalf("Close error: %v", err)
	}
	st := d.Stats()
	if st.Failed != 2 || st.Succeeded != 1 {
		t.Fatalf("unexpected stats: %+v", st)
	}
}

func TestDispatcherDropsWhenFull(t *testing.T) {
	d := New(Options{Workers: 1, QueueSize: 1})

	release := make(chan struct{})
	started := make(chan struct{})
	d.Go("blocker", func(ctx context.Context) error {
		close(started)
		<-release
		return nil
	})
	<-started

	d.Go("queued", func(ctx context.Context) error { return nil })
	d.Go("dropped", func(ctx context.Context) error { return nil })

	close(release)
	if err := d.Close(context.Background()); err != nil {
		t.Fatalf("Close error: %v", err)
	}
	if got := d.Stats().Dropped; got != 1 {
		t.Fatalf("expected 1 dropped job, got %d", got)
	}
}

func TestDispatcherDropsAfterClose(t *testing.T) {
	d := New(Options{Workers: 1, QueueSize: 1})
	if err := d.Close(context.Background()); err != nil {
		t.Fatalf("Close error: %v", err)
	}
	d.Go("late", func(ctx context.Context) error { return nil })
	if got := d.Stats().Dropped; got != 1 {
		t.Fatalf("expected late job to be dropped, got %d", got)
	}
}

func TestDispatcherJobGetsDeadline(t *testing.T) {
	d := New(Options{Workers: 1, QueueSize: 1, JobTimeout: time.Second})
	got := make(chan bool, 1)
	d.Go("deadline", func(ctx context.Context) error {
		_, ok := ctx.Deadline()
		got <- ok
		return nil
	})
	_ = d.Close(context.Background())
	if !<-got {
		t.Fatalf("expected job context to carry a deadline")
	}
}
