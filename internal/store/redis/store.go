package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/links/internal/domain"
	"github.com/MrSnakeDoc/links/internal/store"
)

var _ store.Store = (*Store)(nil)

// Store persists links and groups in Redis as JSON documents, with one set per
// record type listing the names.
type Store struct {
	client *redis.Client
}

// NewStore creates a new Redis store
func NewStore(client *redis.Client) *Store {
	return &Store{
		client: client,
	}
}

// ListLinks loads every link, then filters and sorts in process.
func (s *Store) ListLinks(ctx context.Context, pred store.Predicate[*domain.Link], cmp store.Comparator[*domain.Link]) ([]*domain.Link, error) {
	links, err := loadAll[domain.Link](ctx, s.client, AllLinksKey(), LinkKey)
	if err != nil {
		return nil, fmt.Errorf("failed to list links: %w", err)
	}
	return store.Apply(links, pred, cmp), nil
}

// ListGroups loads every group, then filters and sorts in process.
func (s *Store) ListGroups(ctx context.Context, pred store.Predicate[*domain.LinkGroup], cmp store.Comparator[*domain.LinkGroup]) ([]*domain.LinkGroup, error) {
	groups, err := loadAll[domain.LinkGroup](ctx, s.client, AllGroupsKey(), GroupKey)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	return store.Apply(groups, pred, cmp), nil
}

// FetchLink retrieves a link from Redis by name
func (s *Store) FetchLink(ctx context.Context, name string) (*domain.Link, error) {
	var link domain.Link
	if err := s.get(ctx, LinkKey(name), &link); err != nil {
		return nil, fmt.Errorf("failed to get link %s: %w", name, err)
	}
	return &link, nil
}

// FetchGroup retrieves a group from Redis by name
func (s *Store) FetchGroup(ctx context.Context, name string) (*domain.LinkGroup, error) {
	var group domain.LinkGroup
	if err := s.get(ctx, GroupKey(name), &group); err != nil {
		return nil, fmt.Errorf("failed to get group %s: %w", name, err)
	}
	return &group, nil
}

// SaveLinks stores multiple links in Redis (bulk operation)
func (s *Store) SaveLinks(ctx context.Context, links []*domain.Link) error {
	pipe := s.client.Pipeline()

	for _, link := range links {
		data, err := json.Marshal(link)
		if err != nil {
			return fmt.Errorf("failed to marshal link %s: %w", link.Metadata.Name, err)
		}
		pipe.Set(ctx, LinkKey(link.Metadata.Name), data, 0)
		pipe.SAdd(ctx, AllLinksKey(), link.Metadata.Name)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save links: %w", err)
	}
	return nil
}

// SaveGroups stores multiple groups in Redis (bulk operation)
func (s *Store) SaveGroups(ctx context.Context, groups []*domain.LinkGroup) error {
	pipe := s.client.Pipeline()

	for _, group := range groups {
		data, err := json.Marshal(group)
		if err != nil {
			return fmt.Errorf("failed to marshal group %s: %w", group.Metadata.Name, err)
		}
		pipe.Set(ctx, GroupKey(group.Metadata.Name), data, 0)
		pipe.SAdd(ctx, AllGroupsKey(), group.Metadata.Name)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save groups: %w", err)
	}
	return nil
}

// DeleteLink removes a link from Redis
func (s *Store) DeleteLink(ctx context.Context, name string) error {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, LinkKey(name))
	pipe.SRem(ctx, AllLinksKey(), name)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete link: %w", err)
	}
	return nil
}

// DeleteGroup removes a group from Redis
func (s *Store) DeleteGroup(ctx context.Context, name string) error {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, GroupKey(name))
	pipe.SRem(ctx, AllGroupsKey(), name)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete group: %w", err)
	}
	return nil
}

func (s *Store) get(ctx context.Context, key string, out any) error {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return store.ErrNotFound
		}
		return err
	}
	return json.Unmarshal(data, out)
}

// loadAll reads the name set, then fetches every document with a single MGET.
// Names whose document vanished in between are skipped.
func loadAll[T any](ctx context.Context, client *redis.Client, setKey string, keyOf func(string) string) ([]*T, error) {
	names, err := client.SMembers(ctx, setKey).Result()
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return []*T{}, nil
	}

	keys := make([]string, len(names))
	for i, name := range names {
		keys[i] = keyOf(name)
	}
	values, err := client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	out := make([]*T, 0, len(values))
	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			continue
		}
		var item T
		if err := json.Unmarshal([]byte(raw), &item); err != nil {
			return nil, fmt.Errorf("failed to unmarshal %s: %w", keys[i], err)
		}
		out = append(out, &item)
	}
	return out, nil
}
