package scheduler

import (
	"context"
	"time"

	"github.com/MrSnakeDoc/links/internal/domain"
	"github.com/MrSnakeDoc/links/internal/index"
	"github.com/MrSnakeDoc/links/internal/logger"
	redisstore "github.com/MrSnakeDoc/links/internal/store/redis"
)

const (
	// DefaultGCThreshold is how long a link stays marked for deletion before it is purged
	DefaultGCThreshold = 7 * 24 * time.Hour // 7 days
)

// GarbageCollector purges links that have been marked for deletion for too long
type GarbageCollector struct {
	store     *redisstore.Store
	index     *index.MemoryIndex
	logger    logger.Logger
	interval  time.Duration
	threshold time.Duration
	stopCh    chan struct{}
}

// NewGarbageCollector creates a new garbage collector
func NewGarbageCollector(
	store *redisstore.Store,
	idx *index.MemoryIndex,
	log logger.Logger,
	interval time.Duration,
	threshold time.Duration,
) *GarbageCollector {
	if threshold == 0 {
		threshold = DefaultGCThreshold
	}

	return &GarbageCollector{
		store:     store,
		index:     idx,
		logger:    log,
		interval:  interval,
		threshold: threshold,
		stopCh:    make(chan struct{}),
	}
}

// Start begins the periodic garbage collection process
func (gc *GarbageCollector) Start(ctx context.Context) error {
	// Run immediately on start
	if err := gc.Collect(ctx); err != nil {
		gc.logger.Warn("initial garbage collection failed",
			logger.Error(err))
	}

	ticker := time.NewTicker(gc.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := gc.Collect(ctx); err != nil {
					gc.logger.Error("garbage collection failed",
						logger.Error(err))
				}
			case <-gc.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the garbage collector
func (gc *GarbageCollector) Stop() {
	close(gc.stopCh)
}

// Collect removes links whose deletionTimestamp is older than the threshold.
// It never runs concurrently with a link reload.
func (gc *GarbageCollector) Collect(ctx context.Context) error {
	return gc.index.Exclusive(func() error {
		return gc.collect(ctx)
	})
}

func (gc *GarbageCollector) collect(ctx context.Context) error {
	gc.logger.Debug("running garbage collection for deleted links")

	now := time.Now()
	expired, err := gc.index.ListLinks(ctx, func(l *domain.Link) bool {
		return l.Metadata.Deleting() && now.Sub(*l.Metadata.DeletionTimestamp) >= gc.threshold
	}, nil)
	if err != nil {
		return err
	}

	for _, link := range expired {
		name := link.Metadata.Name

		// Delete from memory index
		if err := gc.index.DeleteLink(ctx, name); err != nil {
			return err
		}

		// Delete from Redis store (best effort)
		if gc.store != nil {
			if err := gc.store.DeleteLink(ctx, name); err != nil {
				gc.logger.Warn("failed to delete link from redis",
					logger.String("link", name),
					logger.Error(err))
			}
		}

		gc.logger.Info("garbage collected deleted link",
			logger.String("link", name),
			logger.String("url", link.Spec.URL),
			logger.Duration("deleted_for", now.Sub(*link.Metadata.DeletionTimestamp)))
	}

	if len(expired) > 0 {
		gc.logger.Info("garbage collection completed",
			logger.Int("links_deleted", len(expired)))
	} else {
		gc.logger.Debug("no links to garbage collect")
	}

	return nil
}
