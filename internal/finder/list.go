package finder

import (
	"context"
	"fmt"

	"github.com/MrSnakeDoc/links/internal/domain"
	"github.com/MrSnakeDoc/links/internal/query"
	"github.com/MrSnakeDoc/links/internal/store"
)

// ListResult is one page of a listing.
type ListResult struct {
	Page        int               `json:"page"`
	Size        int               `json:"size"`
	Total       int               `json:"total"`
	TotalPages  int               `json:"totalPages"`
	First       bool              `json:"first"`
	Last        bool              `json:"last"`
	HasNext     bool              `json:"hasNext"`
	HasPrevious bool              `json:"hasPrevious"`
	Items       []domain.LinkView `json:"items"`
}

// List runs a filtered, sorted and paginated listing over all links.
func (f *Finder) List(ctx context.Context, req query.ListRequest) (ListResult, error) {
	pred, err := query.Predicate(req)
	if err != nil {
		return ListResult{}, err
	}
	return f.list(ctx, req, pred)
}

// ListGroupLinks is List restricted to the members of one group.
// domain.UngroupedName selects the links without a group.
func (f *Finder) ListGroupLinks(ctx context.Context, groupName string, req query.ListRequest) (ListResult, error) {
	req.GroupName = ""
	pred, err := query.Predicate(req)
	if err != nil {
		return ListResult{}, err
	}
	return f.list(ctx, req, func(l *domain.Link) bool {
		return l.InGroup(groupName) && pred(l)
	})
}

func (f *Finder) list(ctx context.Context, req query.ListRequest, pred store.Predicate[*domain.Link]) (ListResult, error) {
	links, err := f.store.ListLinks(ctx, pred, query.Comparator(req))
	if err != nil {
		return ListResult{}, fmt.Errorf("failed to list links: %w", err)
	}
	return paginate(links, req.Page, req.Size), nil
}

// paginate slices a sorted result. Pages are 1-based; page 0 is read as 1.
// size <= 0 returns everything as a single unpaged result.
func paginate(links []*domain.Link, page, size int) ListResult {
	total := len(links)
	if size <= 0 {
		return ListResult{
			Page:       0,
			Size:       0,
			Total:      total,
			TotalPages: 1,
			First:      true,
			Last:       true,
			Items:      domain.NewLinkViews(links),
		}
	}
	if page < 1 {
		page = 1
	}

	totalPages := total / size
	if total%size != 0 {
		totalPages++
	}
	// page and size come straight from the query string; keep the
	// offset arithmetic inside [0, total].
	start := total
	if page <= totalPages {
		start = (page - 1) * size
	}
	end := start + min(size, total-start)

	return ListResult{
		Page:        page,
		Size:        size,
		Total:       total,
		TotalPages:  totalPages,
		First:       page == 1,
		Last:        page >= totalPages,
		HasNext:     page < totalPages,
		HasPrevious: page > 1,
		Items:       domain.NewLinkViews(links[start:end]),
	}
}
