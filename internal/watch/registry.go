package watch

import (
	"log/slog"
	"sync"
)

// Registry holds one Watcher per watchable kind. The tool layer shares a
// single registry, so access is lock-guarded.
type Registry struct {
	mu       sync.RWMutex
	watchers map[string]*Watcher
}

// NewRegistry builds a registry with an idle watcher for every binding.
func NewRegistry(logger *slog.Logger) *Registry {
	watchers := make(map[string]*Watcher, len(Bindings()))
	for _, binding := range Bindings() {
		watchers[binding.Kind] = NewWatcher(binding, logger)
	}
	return &Registry{watchers: watchers}
}

// Watcher returns the watcher for a kind name.
func (r *Registry) Watcher(kind string) (*Watcher, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	watcher, ok := r.watchers[kind]
	return watcher, ok
}

// Status reports the active flag for every kind.
func (r *Registry) Status() map[string]bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	status := make(map[string]bool, len(r.watchers))
	for kind, watcher := range r.watchers {
		status[kind] = watcher.Active()
	}
	return status
}

// ActiveCount returns how many watch tasks are live.
func (r *Registry) ActiveCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, watcher := range r.watchers {
		if watcher.Active() {
			count++
		}
	}
	return count
}

// StopAll stops every running watch task. Called on shutdown.
func (r *Registry) StopAll() {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, watcher := range r.watchers {
		watcher.Close()
	}
}
