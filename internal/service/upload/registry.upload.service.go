package upload

import (
	"context"
	"lostfound/internal/pkg/logger"
	"sync"
	"time"
)

type registryEntry struct {
	workflow *Workflow
	lastUsed time.Time
}

// Registry keeps one workflow per owner (a signed-in user) for the staging
// API and drops the ones left idle.
type Registry struct {
	mu      sync.Mutex
	entries map[string]*registryEntry
	factory func(owner string) *Workflow
	idle    time.Duration
	now     func() time.Time
}

// NewRegistry builds a registry whose workflows come from factory, called
// with the owner on first use.
func NewRegistry(idle time.Duration, factory func(owner string) *Workflow) *Registry {
	if factory == nil {
		factory = func(string) *Workflow { return NewWorkflow() }
	}
	return &Registry{
		entries: make(map[string]*registryEntry),
		factory: factory,
		idle:    idle,
		now:     time.Now,
	}
}

// Get returns the owner's workflow, creating it on first use.
func (r *Registry) Get(owner string) *Workflow {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.entries[owner]
	if !ok {
		entry = &registryEntry{workflow: r.factory(owner)}
		r.entries[owner] = entry
	}
	entry.lastUsed = r.now()
	return entry.workflow
}

func (r *Registry) Drop(owner string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if entry, ok := r.entries[owner]; ok {
		entry.workflow.Reset()
		delete(r.entries, owner)
	}
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Sweep removes workflows unused for longer than the idle timeout and
// reports how many went.
func (r *Registry) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().Add(-r.idle)
	removed := 0
	for owner, entry := range r.entries {
		if entry.lastUsed.Before(cutoff) {
			entry.workflow.Reset()
			delete(r.entries, owner)
			removed++
		}
	}
	return removed
}

// Run sweeps every interval until ctx is done.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.Sweep(); n > 0 {
				logger.Debug.Printf("dropped %d idle upload workflows", n)
			}
		}
	}
}
