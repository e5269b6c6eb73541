// Package store defines the record store the directory reads links and groups from.
package store

import (
	"context"
	"errors"

	"github.com/MrSnakeDoc/links/internal/domain"
)

// ErrNotFound is returned when a named record does not exist.
var ErrNotFound = errors.New("not found")

// Predicate selects records. A nil predicate selects everything.
type Predicate[T any] func(T) bool

// Comparator orders records the way slices.SortFunc expects.
// A nil comparator leaves the store order unspecified.
type Comparator[T any] func(a, b T) int

// Reader is the read side of the record store.
type Reader interface {
	ListLinks(ctx context.Context, pred Predicate[*domain.Link], cmp Comparator[*domain.Link]) ([]*domain.Link, error)
	ListGroups(ctx context.Context, pred Predicate[*domain.LinkGroup], cmp Comparator[*domain.LinkGroup]) ([]*domain.LinkGroup, error)
	FetchLink(ctx context.Context, name string) (*domain.Link, error)
	FetchGroup(ctx context.Context, name string) (*domain.LinkGroup, error)
}

// Writer is the write side used by record sources and maintenance jobs.
type Writer interface {
	SaveLinks(ctx context.Context, links []*domain.Link) error
	SaveGroups(ctx context.Context, groups []*domain.LinkGroup) error
	DeleteLink(ctx context.Context, name string) error
	DeleteGroup(ctx context.Context, name string) error
}

// Store reads and writes records.
type Store interface {
	Reader
	Writer
}
