package query

import (
	"strings"
	"time"

	"github.com/MrSnakeDoc/links/internal/domain"
	"github.com/MrSnakeDoc/links/internal/store"
)

// Predicate compiles the filtering part of a request.
// Links pending deletion never match.
func Predicate(req ListRequest) (store.Predicate[*domain.Link], error) {
	selector, err := SelectorPredicate(req.LabelSelector, req.FieldSelector)
	if err != nil {
		return nil, err
	}
	keyword := strings.ToLower(strings.TrimSpace(req.Keyword))
	group := strings.TrimSpace(req.GroupName)

	return func(l *domain.Link) bool {
		if l.Metadata.Deleting() {
			return false
		}
		if group != "" && l.Spec.GroupName != group {
			return false
		}
		return MatchKeyword(l, keyword) && selector(l)
	}, nil
}

// MatchKeyword reports whether the lowercased keyword occurs in the display name,
// description or URL of the link, ignoring case. A blank keyword always matches.
func MatchKeyword(l *domain.Link, keyword string) bool {
	if keyword == "" {
		return true
	}
	return strings.Contains(strings.ToLower(l.Spec.DisplayName), keyword) ||
		strings.Contains(strings.ToLower(l.Spec.Description), keyword) ||
		strings.Contains(strings.ToLower(l.Spec.URL), keyword)
}

// Comparator compiles the ordering part of a request. Directives apply in the
// caller's order, followed by creationTimestamp descending and name ascending so
// that distinct links never compare equal.
func Comparator(req ListRequest) store.Comparator[*domain.Link] {
	cmps := make([]func(a, b *domain.Link) int, 0, len(req.Sort)+2)
	for _, o := range req.Sort {
		var c func(a, b *domain.Link) int
		switch o.Field {
		case FieldCreationTimestamp:
			c = byTime(linkCreated)
		case FieldPriority:
			c = byPriority(linkPriority)
		default:
			continue
		}
		if o.Direction == Desc {
			c = reverse(c)
		}
		cmps = append(cmps, c)
	}
	cmps = append(cmps, reverse(byTime(linkCreated)), byString(linkName))
	return chain(cmps...)
}

// DefaultLinkComparator orders links by priority (unranked first), then
// creationTimestamp and name ascending.
func DefaultLinkComparator() store.Comparator[*domain.Link] {
	return chain(byPriority(linkPriority), byTime(linkCreated), byString(linkName))
}

// DefaultGroupComparator is DefaultLinkComparator for groups.
func DefaultGroupComparator() store.Comparator[*domain.LinkGroup] {
	return chain(byPriority(groupPriority), byTime(groupCreated), byString(groupName))
}

func linkPriority(l *domain.Link) *int           { return l.Spec.Priority }
func linkCreated(l *domain.Link) time.Time       { return l.Metadata.CreationTimestamp }
func linkName(l *domain.Link) string             { return l.Metadata.Name }
func groupPriority(g *domain.LinkGroup) *int     { return g.Spec.Priority }
func groupCreated(g *domain.LinkGroup) time.Time { return g.Metadata.CreationTimestamp }
func groupName(g *domain.LinkGroup) string       { return g.Metadata.Name }

// ComparePriority orders nil before any value.
func ComparePriority(a, b *int) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	case *a < *b:
		return -1
	case *a > *b:
		return 1
	}
	return 0
}

func byPriority[T any](get func(T) *int) func(a, b T) int {
	return func(a, b T) int { return ComparePriority(get(a), get(b)) }
}

func byTime[T any](get func(T) time.Time) func(a, b T) int {
	return func(a, b T) int { return get(a).Compare(get(b)) }
}

func byString[T any](get func(T) string) func(a, b T) int {
	return func(a, b T) int { return strings.Compare(get(a), get(b)) }
}

func reverse[T any](c func(a, b T) int) func(a, b T) int {
	return func(a, b T) int { return c(b, a) }
}

func chain[T any](cmps ...func(a, b T) int) func(a, b T) int {
	return func(a, b T) int {
		for _, c := range cmps {
			if r := c(a, b); r != 0 {
				return r
			}
		}
		return 0
	}
}
