package query

import (
	"fmt"
	"strings"

	"github.com/MrSnakeDoc/links/internal/domain"
)

type selectorOp int

const (
	opEquals selectorOp = iota
	opNotEquals
	opExists
	opNotExists
)

type requirement struct {
	key   string
	op    selectorOp
	value string
}

// parseTerm parses "k=v", "k==v", "k!=v", "k" and "!k".
// Field selectors only accept the first three forms.
func parseTerm(term string, allowExistence bool) (requirement, error) {
	var r requirement
	switch {
	case strings.Contains(term, "!="):
		k, v, _ := strings.Cut(term, "!=")
		r = requirement{key: strings.TrimSpace(k), op: opNotEquals, value: strings.TrimSpace(v)}
	case strings.Contains(term, "=="):
		k, v, _ := strings.Cut(term, "==")
		r = requirement{key: strings.TrimSpace(k), op: opEquals, value: strings.TrimSpace(v)}
	case strings.Contains(term, "="):
		k, v, _ := strings.Cut(term, "=")
		r = requirement{key: strings.TrimSpace(k), op: opEquals, value: strings.TrimSpace(v)}
	case !allowExistence:
		return requirement{}, fmt.Errorf("%w: field selector %q needs an operator", ErrInvalidRequest, term)
	case strings.HasPrefix(term, "!"):
		r = requirement{key: strings.TrimSpace(term[1:]), op: opNotExists}
	default:
		r = requirement{key: strings.TrimSpace(term), op: opExists}
	}
	if r.key == "" {
		return requirement{}, fmt.Errorf("%w: selector %q has an empty key", ErrInvalidRequest, term)
	}
	return r, nil
}

func (r requirement) matches(value string, present bool) bool {
	switch r.op {
	case opEquals:
		return present && value == r.value
	case opNotEquals:
		return !present || value != r.value
	case opExists:
		return present
	case opNotExists:
		return !present
	}
	return false
}

// linkField resolves a field selector key against a link.
func linkField(l *domain.Link, key string) (string, bool) {
	switch key {
	case "metadata.name", "name":
		return l.Metadata.Name, true
	case "spec.groupName":
		return l.Spec.GroupName, true
	case "spec.displayName":
		return l.Spec.DisplayName, true
	case "spec.url":
		return l.Spec.URL, true
	}
	return "", false
}

// SelectorPredicate builds the conjunction of label and field selector terms.
func SelectorPredicate(labelTerms, fieldTerms []string) (func(*domain.Link) bool, error) {
	labels := make([]requirement, 0, len(labelTerms))
	for _, t := range labelTerms {
		r, err := parseTerm(t, true)
		if err != nil {
			return nil, err
		}
		labels = append(labels, r)
	}
	fields := make([]requirement, 0, len(fieldTerms))
	for _, t := range fieldTerms {
		r, err := parseTerm(t, false)
		if err != nil {
			return nil, err
		}
		fields = append(fields, r)
	}

	return func(l *domain.Link) bool {
		for _, r := range labels {
			v, ok := l.Metadata.Labels[r.key]
			if !r.matches(v, ok) {
				return false
			}
		}
		for _, r := range fields {
			v, ok := linkField(l, r.key)
			if !r.matches(v, ok) {
				return false
			}
		}
		return true
	}, nil
}
