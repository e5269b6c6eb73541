package index

import (
	"context"
	"sync"
	"time"

	"github.com/MrSnakeDoc/links/internal/domain"
	"github.com/MrSnakeDoc/links/internal/store"
)

var _ store.Store = (*MemoryIndex)(nil)

// MemoryIndex provides in-memory storage and lookup for links and groups.
// It is the primary read path; Redis only persists it across restarts.
type MemoryIndex struct {
	writer     sync.Mutex // serializes Exclusive sections
	mu         sync.RWMutex
	links      map[string]*domain.Link      // name -> Link
	groups     map[string]*domain.LinkGroup // name -> LinkGroup
	lastReload time.Time                    // Timestamp of last full replace
}

// NewMemoryIndex creates a new memory index
func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{
		links:  make(map[string]*domain.Link),
		groups: make(map[string]*domain.LinkGroup),
	}
}

// Replace swaps the whole content of the index.
func (idx *MemoryIndex) Replace(groups []*domain.LinkGroup, links []*domain.Link) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.groups = make(map[string]*domain.LinkGroup, len(groups))
	for _, g := range groups {
		idx.groups[g.Metadata.Name] = g
	}
	idx.links = make(map[string]*domain.Link, len(links))
	for _, l := range links {
		idx.links[l.Metadata.Name] = l
	}
	idx.lastReload = time.Now()
}

// Exclusive runs fn while no other Exclusive section runs. Background jobs
// that read the index and write back a derived state use it so that one
// job never overwrites the result of another with a stale snapshot.
// Readers are not blocked.
func (idx *MemoryIndex) Exclusive(fn func() error) error {
	idx.writer.Lock()
	defer idx.writer.Unlock()
	return fn()
}

// ListLinks returns a snapshot of the matching links in cmp order.
func (idx *MemoryIndex) ListLinks(ctx context.Context, pred store.Predicate[*domain.Link], cmp store.Comparator[*domain.Link]) ([]*domain.Link, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	idx.mu.RLock()
	all := make([]*domain.Link, 0, len(idx.links))
	for _, l := range idx.links {
		all = append(all, l)
	}
	idx.mu.RUnlock()

	return store.Apply(all, pred, cmp), nil
}

// ListGroups returns a snapshot of the matching groups in cmp order.
func (idx *MemoryIndex) ListGroups(ctx context.Context, pred store.Predicate[*domain.LinkGroup], cmp store.Comparator[*domain.LinkGroup]) ([]*domain.LinkGroup, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	idx.mu.RLock()
	all := make([]*domain.LinkGroup, 0, len(idx.groups))
	for _, g := range idx.groups {
		all = append(all, g)
	}
	idx.mu.RUnlock()

	return store.Apply(all, pred, cmp), nil
}

// FetchLink retrieves a link by name
func (idx *MemoryIndex) FetchLink(_ context.Context, name string) (*domain.Link, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	l, ok := idx.links[name]
	if !ok {
		return nil, store.ErrNotFound
	}
	return l, nil
}

// FetchGroup retrieves a group by name
func (idx *MemoryIndex) FetchGroup(_ context.Context, name string) (*domain.LinkGroup, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	g, ok := idx.groups[name]
	if !ok {
		return nil, store.ErrNotFound
	}
	return g, nil
}

// SaveLinks adds or updates links
func (idx *MemoryIndex) SaveLinks(_ context.Context, links []*domain.Link) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	for _, l := range links {
		idx.links[l.Metadata.Name] = l
	}
	return nil
}

// SaveGroups adds or updates groups
func (idx *MemoryIndex) SaveGroups(_ context.Context, groups []*domain.LinkGroup) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	for _, g := range groups {
		idx.groups[g.Metadata.Name] = g
	}
	return nil
}

// DeleteLink removes a link from the index
func (idx *MemoryIndex) DeleteLink(_ context.Context, name string) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	delete(idx.links, name)
	return nil
}

// DeleteGroup removes a group from the index
func (idx *MemoryIndex) DeleteGroup(_ context.Context, name string) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	delete(idx.groups, name)
	return nil
}

// Count returns the number of links and groups in the index
func (idx *MemoryIndex) Count() (links, groups int) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return len(idx.links), len(idx.groups)
}

// GetLastReload returns the timestamp of the last full replace
func (idx *MemoryIndex) GetLastReload() time.Time {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return idx.lastReload
}
