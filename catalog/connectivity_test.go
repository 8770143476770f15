package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

func TestWatchConnectivity(t *testing.T) {
	var mu sync.Mutex
	healthy := true
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		ok := healthy
		mu.Unlock()
		if r.URL.Path != "/health" || !ok {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	c.SetLogf(t.Logf)

	var nmu sync.Mutex
	var notes []bool
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// The watcher owns its goroutine; the call itself must not block.
	returned := make(chan struct{})
	go func() {
		c.WatchConnectivity(ctx, 5*time.Millisecond, func(online bool) {
			nmu.Lock()
			notes = append(notes, online)
			nmu.Unlock()
		})
		close(returned)
	}()
	select {
	case <-returned:
	case <-time.After(time.Second):
		t.Fatal("WatchConnectivity blocked its caller")
	}

	last := func() (bool, int) {
		nmu.Lock()
		defer nmu.Unlock()
		if len(notes) == 0 {
			return false, 0
		}
		return notes[len(notes)-1], len(notes)
	}
	wait := func(msg string, cond func() bool) {
		t.Helper()
		deadline := time.Now().Add(2 * time.Second)
		for time.Now().Before(deadline) {
			if cond() {
				return
			}
			time.Sleep(2 * time.Millisecond)
		}
		t.Fatalf("timed out waiting for %s", msg)
	}

	wait("initial online notification", func() bool {
		v, n := last()
		return n == 1 && v
	})

	mu.Lock()
	healthy = false
	mu.Unlock()
	wait("offline transition", func() bool {
		v, _ := last()
		return !v
	})

	// Steady state produces no further notifications.
	time.Sleep(30 * time.Millisecond)
	if _, n := last(); n != 2 {
		t.Fatalf("%d notifications, want transitions only (2)", n)
	}
}
