// Package session keeps the per-tab state of a mounted page: the repository
// being viewed, its pagination offset and the native explore panel snapshot.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/gitrec/gitrec-companion/model"
	"github.com/google/uuid"
)

// Pagination walks the neighbour list three items at a time
type Pagination struct {
	Offset int
}

const (
	PageStep  = 3
	MaxOffset = 9
)

func (p *Pagination) Reset() {
	p.Offset = 0
}

func (p Pagination) HasPrevious() bool {
	return p.Offset > 0
}

func (p Pagination) HasNext() bool {
	return p.Offset < MaxOffset
}

// Previous moves one page back, it reports false when already on the first page
func (p *Pagination) Previous() bool {
	if !p.HasPrevious() {
		return false
	}

	p.Offset = max(p.Offset-PageStep, 0)
	return true
}

// Next moves one page forward, it reports false when already on the last page
func (p *Pagination) Next() bool {
	if !p.HasNext() {
		return false
	}

	p.Offset = min(p.Offset+PageStep, MaxOffset)
	return true
}

// Context is the state of one mounted tab
type Context struct {
	ID         string
	Login      string
	ItemID     model.RepositoryRef
	Pagination Pagination
	LastPath   string

	// current batch on the explore panel, marked as read on renew
	ExploreItems []model.RepositoryRef

	// GitHub's own explore panel, captured on the first dashboard mount
	NativeExplore *string

	LastSeen time.Time
}

// Registry holds the contexts of all tabs talking to this process.
// Contexts not seen for ttl are dropped, a zero ttl keeps them forever.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Context
	ttl      time.Duration
	now      func() time.Time
}

func NewRegistry(ttl time.Duration) *Registry {
	return &Registry{
		sessions: map[string]*Context{},
		ttl:      ttl,
		now:      time.Now,
	}
}

// Open returns the context for id, creating a fresh one (with a new id) when id is unknown or expired
func (r *Registry) Open(id string) *Context {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()

	if c, ok := r.lookup(id, now); ok {
		return c
	}

	r.sweep(now)

	c := &Context{ID: uuid.NewString(), LastSeen: now}
	r.sessions[c.ID] = c
	return c
}

// Get returns an existing context
func (r *Registry) Get(id string) (*Context, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.lookup(id, r.now())
	if !ok {
		return nil, model.ErrUnknownSession
	}

	return c, nil
}

// lookup finds a live context and marks it as seen, r.mu must be held
func (r *Registry) lookup(id string, now time.Time) (*Context, bool) {
	c, ok := r.sessions[id]
	if !ok {
		return nil, false
	}

	if r.expired(c, now) {
		delete(r.sessions, id)
		return nil, false
	}

	c.LastSeen = now
	return c, true
}

func (r *Registry) expired(c *Context, now time.Time) bool {
	return r.ttl > 0 && now.Sub(c.LastSeen) > r.ttl
}

// sweep drops every expired context, r.mu must be held
func (r *Registry) sweep(now time.Time) int {
	removed := 0

	for id, c := range r.sessions {
		if r.expired(c, now) {
			delete(r.sessions, id)
			removed++
		}
	}

	return removed
}

// Sweep drops the contexts idle for longer than the ttl and returns how many were removed
func (r *Registry) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.sweep(r.now())
}

// RunJanitor sweeps the registry every ttl until ctx is done
func (r *Registry) RunJanitor(ctx context.Context, onSweep func(removed int)) {
	if r.ttl <= 0 {
		return
	}

	ticker := time.NewTicker(r.ttl)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := r.Sweep(); removed > 0 && onSweep != nil {
				onSweep(removed)
			}
		}
	}
}

// Update runs fn while holding the registry lock, fn must not block on I/O
func (r *Registry) Update(c *Context, fn func(c *Context)) {
	r.mu.Lock()
	defer r.mu.Unlock()

	fn(c)
}

// Snapshot returns a copy of the context safe to read without the lock
func (r *Registry) Snapshot(c *Context) Context {
	r.mu.Lock()
	defer r.mu.Unlock()

	cp := *c
	cp.ExploreItems = append([]model.RepositoryRef(nil), c.ExploreItems...)
	return cp
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.sessions)
}
