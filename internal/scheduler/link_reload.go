package scheduler

import (
	"context"
	"fmt"
	"maps"
	"reflect"
	"time"

	"github.com/MrSnakeDoc/links/internal/domain"
	"github.com/MrSnakeDoc/links/internal/index"
	"github.com/MrSnakeDoc/links/internal/logger"
	"github.com/MrSnakeDoc/links/internal/sources/linkfile"
	redisstore "github.com/MrSnakeDoc/links/internal/store/redis"
)

// LinkReloader handles periodic reloading of the link file
type LinkReloader struct {
	loader        *linkfile.Loader
	mapper        *linkfile.Mapper
	store         *redisstore.Store
	index         *index.MemoryIndex
	logger        logger.Logger
	interval      time.Duration
	now           func() time.Time
	stopCh        chan struct{}
	manualTrigger chan struct{}
}

// NewLinkReloader creates a new link file reloader.
// store may be nil, in which case only the memory index is updated.
func NewLinkReloader(
	linkFile string,
	store *redisstore.Store,
	idx *index.MemoryIndex,
	log logger.Logger,
	interval time.Duration,
	manualTrigger chan struct{},
) *LinkReloader {
	return &LinkReloader{
		loader:        linkfile.NewLoader(linkFile),
		mapper:        linkfile.NewMapper(),
		store:         store,
		index:         idx,
		logger:        log,
		interval:      interval,
		now:           time.Now,
		stopCh:        make(chan struct{}),
		manualTrigger: manualTrigger,
	}
}

// Start begins the periodic reload process
func (lr *LinkReloader) Start(ctx context.Context) error {
	// Load immediately on start
	if err := lr.Reload(ctx); err != nil {
		return fmt.Errorf("initial reload failed: %w", err)
	}

	ticker := time.NewTicker(lr.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := lr.Reload(ctx); err != nil {
					lr.logger.Error("failed to reload links",
						logger.Error(err))
				}
			case <-lr.manualTrigger:
				lr.logger.Info("manual reload triggered")
				if err := lr.Reload(ctx); err != nil {
					lr.logger.Error("failed to reload links",
						logger.Error(err))
				}
			case <-lr.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the reloader
func (lr *LinkReloader) Stop() {
	close(lr.stopCh)
}

// Reload loads the link file and reconciles it with the index.
//
// Records keep their creationTimestamp across reloads and get a new version
// when their content changes. Links gone from the file are marked for deletion
// and left to the garbage collector; groups gone from the file are removed.
func (lr *LinkReloader) Reload(ctx context.Context) error {
	lr.logger.Info("reloading links", logger.String("file", lr.loader.Path()))

	file, err := lr.loader.Load()
	if err != nil {
		return fmt.Errorf("failed to load links: %w", err)
	}

	recs, err := lr.mapper.Map(file)
	if err != nil {
		// Invalid entries are skipped, the rest of the file still applies.
		lr.logger.Warn("link file has invalid entries", logger.Error(err))
	}

	// The garbage collector must not purge a link between the index read
	// and the write-back below.
	return lr.index.Exclusive(func() error {
		return lr.apply(ctx, recs)
	})
}

func (lr *LinkReloader) apply(ctx context.Context, recs linkfile.Records) error {
	now := lr.now()
	groups, removedGroups, err := lr.reconcileGroups(ctx, recs.Groups, now)
	if err != nil {
		return err
	}
	links, deleted, err := lr.reconcileLinks(ctx, recs.Links, now)
	if err != nil {
		return err
	}

	lr.logger.Info("loaded links",
		logger.Int("groups", len(recs.Groups)),
		logger.Int("links", len(recs.Links)),
		logger.Int("marked_for_deletion", deleted),
		logger.Int("groups_removed", len(removedGroups)))

	lr.index.Replace(groups, links)

	// Update Redis store (best effort)
	if lr.store != nil {
		lr.persist(ctx, groups, links, removedGroups)
	}

	return nil
}

func (lr *LinkReloader) reconcileGroups(ctx context.Context, incoming []*domain.LinkGroup, now time.Time) ([]*domain.LinkGroup, []string, error) {
	existing, err := lr.index.ListGroups(ctx, nil, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read indexed groups: %w", err)
	}
	current := make(map[string]*domain.LinkGroup, len(existing))
	for _, g := range existing {
		current[g.Metadata.Name] = g
	}

	for _, g := range incoming {
		prev, ok := current[g.Metadata.Name]
		delete(current, g.Metadata.Name)
		if !ok {
			stamp(&g.Metadata, now)
			continue
		}
		carry(&g.Metadata, prev.Metadata, reflect.DeepEqual(g.Spec, prev.Spec))
	}

	removed := make([]string, 0, len(current))
	for name := range current {
		removed = append(removed, name)
	}
	return incoming, removed, nil
}

func (lr *LinkReloader) reconcileLinks(ctx context.Context, incoming []*domain.Link, now time.Time) ([]*domain.Link, int, error) {
	existing, err := lr.index.ListLinks(ctx, nil, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read indexed links: %w", err)
	}
	current := make(map[string]*domain.Link, len(existing))
	for _, l := range existing {
		current[l.Metadata.Name] = l
	}

	for _, l := range incoming {
		prev, ok := current[l.Metadata.Name]
		delete(current, l.Metadata.Name)
		if !ok {
			stamp(&l.Metadata, now)
			continue
		}
		carry(&l.Metadata, prev.Metadata, reflect.DeepEqual(l.Spec, prev.Spec) && !prev.Metadata.Deleting())
	}

	links := incoming
	deleted := 0
	for _, prev := range current {
		if prev.Metadata.Deleting() {
			links = append(links, prev)
			continue
		}
		// Indexed records are shared with readers; mark a copy.
		gone := *prev
		ts := now
		gone.Metadata.DeletionTimestamp = &ts
		gone.Metadata.Version++
		links = append(links, &gone)
		deleted++
	}
	return links, deleted, nil
}

func (lr *LinkReloader) persist(ctx context.Context, groups []*domain.LinkGroup, links []*domain.Link, removedGroups []string) {
	if err := lr.store.SaveGroups(ctx, groups); err != nil {
		lr.logger.Warn("failed to save groups to redis", logger.Error(err))
	}
	if err := lr.store.SaveLinks(ctx, links); err != nil {
		lr.logger.Warn("failed to save links to redis", logger.Error(err))
		return
	}
	for _, name := range removedGroups {
		if err := lr.store.DeleteGroup(ctx, name); err != nil {
			lr.logger.Warn("failed to delete group from redis",
				logger.String("group", name),
				logger.Error(err))
		}
	}
	lr.logger.Info("links saved to redis")
}

// stamp initializes the metadata of a record seen for the first time.
func stamp(m *domain.Metadata, now time.Time) {
	m.CreationTimestamp = now
	m.Version = 1
}

// carry copies the stored identity of a record onto its reloaded version.
func carry(m *domain.Metadata, prev domain.Metadata, sameSpec bool) {
	m.CreationTimestamp = prev.CreationTimestamp
	m.Version = prev.Version
	if !sameSpec || !maps.Equal(m.Labels, prev.Labels) || !maps.Equal(m.Annotations, prev.Annotations) {
		m.Version++
	}
}
