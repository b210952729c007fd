package main

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
)

type Readyable interface {
	Ready(context.Context) error
}

// readyOnce reports ready once every check has passed a single time,
// then stops probing. A backend that goes away after startup is a
// liveness problem, not a readiness one.
type readyOnce struct {
	mu     sync.Mutex
	done   bool
	checks []Readyable
}

func (r *readyOnce) Add(checks ...Readyable) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.checks = append(r.checks, checks...)
}

func (r *readyOnce) Ready(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.done {
		return nil
	}
	for _, check := range r.checks {
		if err := check.Ready(ctx); err != nil {
			return err
		}
	}
	r.done = true
	return nil
}

func (r *readyOnce) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	if err := r.Ready(req.Context()); err != nil {
		http.Error(w, "not ready: "+err.Error(), http.StatusServiceUnavailable)
		return
	}
	if _, err := w.Write([]byte("OK")); err != nil {
		slog.ErrorContext(req.Context(), "failed to write ready response", "error", err)
	}
}
