package scheduler

import (
	"context"

	"github.com/MrSnakeDoc/links/internal/index"
	"github.com/MrSnakeDoc/links/internal/logger"
	redisstore "github.com/MrSnakeDoc/links/internal/store/redis"
)

// RedisSyncer restores the memory index from Redis on startup, so that
// creation timestamps and pending deletions survive restarts
type RedisSyncer struct {
	store  *redisstore.Store
	index  *index.MemoryIndex
	logger logger.Logger
}

// NewRedisSyncer creates a new Redis syncer
func NewRedisSyncer(
	store *redisstore.Store,
	idx *index.MemoryIndex,
	log logger.Logger,
) *RedisSyncer {
	return &RedisSyncer{
		store:  store,
		index:  idx,
		logger: log,
	}
}

// Sync loads groups and links from Redis into the memory index
func (rs *RedisSyncer) Sync(ctx context.Context) error {
	rs.logger.Info("syncing links from redis to memory")

	groups, err := rs.store.ListGroups(ctx, nil, nil)
	if err != nil {
		return err
	}
	links, err := rs.store.ListLinks(ctx, nil, nil)
	if err != nil {
		return err
	}

	if len(groups) == 0 && len(links) == 0 {
		rs.logger.Info("no links found in redis")
		return nil
	}

	if err := rs.index.SaveGroups(ctx, groups); err != nil {
		return err
	}
	if err := rs.index.SaveLinks(ctx, links); err != nil {
		return err
	}

	rs.logger.Info("synced links from redis",
		logger.Int("groups", len(groups)),
		logger.Int("links", len(links)))

	return nil
}
