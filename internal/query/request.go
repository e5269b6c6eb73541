// Package query compiles listing requests into a record predicate and a total order.
package query

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// ErrInvalidRequest is returned for parameters that cannot be interpreted.
var ErrInvalidRequest = errors.New("invalid list request")

// Sortable fields. Any other field in a sort directive is ignored.
const (
	FieldCreationTimestamp = "creationTimestamp"
	FieldPriority          = "priority"
)

// Direction of a sort directive.
type Direction int

const (
	Asc Direction = iota
	Desc
)

func (d Direction) String() string {
	if d == Desc {
		return "desc"
	}
	return "asc"
}

// Order is a single sort directive.
type Order struct {
	Field     string
	Direction Direction
}

// ListRequest is a parsed listing request.
type ListRequest struct {
	Keyword       string
	GroupName     string
	LabelSelector []string
	FieldSelector []string
	Sort          []Order
	Page          int // 1-based; 0 means first page
	Size          int // <= 0 means unpaged
}

// ParseRequest reads a ListRequest from query parameters.
//
//	keyword=exa&groupName=friends&sort=priority,desc&sort=creationTimestamp
//	labelSelector=env=prod,!beta&fieldSelector=spec.groupName=friends&page=1&size=20
func ParseRequest(q url.Values) (ListRequest, error) {
	req := ListRequest{
		Keyword:       q.Get("keyword"),
		GroupName:     strings.TrimSpace(q.Get("groupName")),
		LabelSelector: splitTerms(q["labelSelector"]),
		FieldSelector: splitTerms(q["fieldSelector"]),
		Sort:          ParseSort(q["sort"]),
	}

	var err error
	if req.Page, err = parseNonNegative(q, "page"); err != nil {
		return ListRequest{}, err
	}
	if req.Size, err = parseNonNegative(q, "size"); err != nil {
		return ListRequest{}, err
	}
	return req, nil
}

// ParseSort parses "field,direction" directives, keeping the caller's order.
// Unrecognized fields are dropped; a repeated field keeps its first directive.
func ParseSort(raw []string) []Order {
	orders := make([]Order, 0, len(raw))
	seen := make(map[string]bool, 2)
	for _, directive := range raw {
		parts := strings.Split(directive, ",")
		field := strings.TrimSpace(parts[0])
		if field != FieldCreationTimestamp && field != FieldPriority {
			continue
		}
		if seen[field] {
			continue
		}
		seen[field] = true

		dir := Asc
		if len(parts) > 1 {
			switch strings.ToLower(strings.TrimSpace(parts[1])) {
			case "desc", "descending":
				dir = Desc
			}
		}
		orders = append(orders, Order{Field: field, Direction: dir})
	}
	return orders
}

func splitTerms(values []string) []string {
	var terms []string
	for _, v := range values {
		for _, term := range strings.Split(v, ",") {
			if term = strings.TrimSpace(term); term != "" {
				terms = append(terms, term)
			}
		}
	}
	return terms
}

func parseNonNegative(q url.Values, key string) (int, error) {
	v := strings.TrimSpace(q.Get(key))
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %s must be a non-negative integer, got %q", ErrInvalidRequest, key, v)
	}
	return n, nil
}
