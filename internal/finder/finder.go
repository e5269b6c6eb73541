// Package finder assembles the link directory views on top of a record store.
package finder

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/MrSnakeDoc/links/internal/domain"
	"github.com/MrSnakeDoc/links/internal/query"
	"github.com/MrSnakeDoc/links/internal/store"
)

// DefaultConcurrency bounds the per-group member queries issued by GroupBy.
const DefaultConcurrency = 8

// Finder reads links and groups through a store.Reader.
type Finder struct {
	store       store.Reader
	concurrency int
}

// New creates a Finder. concurrency <= 0 selects DefaultConcurrency.
func New(r store.Reader, concurrency int) *Finder {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	return &Finder{store: r, concurrency: concurrency}
}

// ListBy returns the non-deleted links of one group in default link order.
// domain.UngroupedName selects the links without a group.
func (f *Finder) ListBy(ctx context.Context, groupName string) ([]domain.LinkView, error) {
	links, err := f.store.ListLinks(ctx, func(l *domain.Link) bool {
		return !l.Metadata.Deleting() && l.InGroup(groupName)
	}, query.DefaultLinkComparator())
	if err != nil {
		return nil, fmt.Errorf("failed to list links of group %q: %w", groupName, err)
	}
	return domain.NewLinkViews(links), nil
}

// GroupBy returns every group in default group order with its members, followed
// by the ungrouped bucket when at least one link has no group.
//
// Links naming a group that does not exist appear nowhere in the result.
func (f *Finder) GroupBy(ctx context.Context) ([]domain.GroupView, error) {
	groups, err := f.store.ListGroups(ctx, nil, query.DefaultGroupComparator())
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(f.concurrency)

	members := make([][]domain.LinkView, len(groups))
	for i, group := range groups {
		g.Go(func() error {
			links, err := f.ListBy(gctx, group.Metadata.Name)
			if err != nil {
				return err
			}
			members[i] = links
			return nil
		})
	}

	var ungrouped []domain.LinkView
	g.Go(func() error {
		links, err := f.ListBy(gctx, domain.UngroupedName)
		if err != nil {
			return err
		}
		ungrouped = links
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	views := make([]domain.GroupView, 0, len(groups)+1)
	for i, group := range groups {
		views = append(views, domain.NewGroupView(group, members[i]))
	}
	if len(ungrouped) > 0 {
		views = append(views, domain.UngroupedBucket{Links: ungrouped}.View())
	}
	return views, nil
}

// Group returns one stored group with its members.
// domain.UngroupedName returns the ungrouped bucket, even when empty.
func (f *Finder) Group(ctx context.Context, name string) (domain.GroupView, error) {
	if name == domain.UngroupedName {
		links, err := f.ListBy(ctx, name)
		if err != nil {
			return domain.GroupView{}, err
		}
		return domain.UngroupedBucket{Links: links}.View(), nil
	}

	group, err := f.store.FetchGroup(ctx, name)
	if err != nil {
		return domain.GroupView{}, err
	}
	links, err := f.ListBy(ctx, name)
	if err != nil {
		return domain.GroupView{}, err
	}
	return domain.NewGroupView(group, links), nil
}

// Link returns one link by name. Links pending deletion are reported as not found.
func (f *Finder) Link(ctx context.Context, name string) (domain.LinkView, error) {
	link, err := f.store.FetchLink(ctx, name)
	if err != nil {
		return domain.LinkView{}, err
	}
	if link.Metadata.Deleting() {
		return domain.LinkView{}, fmt.Errorf("link %s is being deleted: %w", name, store.ErrNotFound)
	}
	return domain.NewLinkView(link), nil
}
