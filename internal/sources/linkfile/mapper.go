package linkfile

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/MrSnakeDoc/links/internal/domain"
)

// Records is the content of a link file as domain records.
type Records struct {
	Groups []*domain.LinkGroup
	Links  []*domain.Link
}

// Mapper converts link file entries to domain records
type Mapper struct{}

// NewMapper creates a new mapper instance
func NewMapper() *Mapper {
	return &Mapper{}
}

// Map converts every valid entry. Invalid or duplicate entries are skipped and
// reported together in the returned error; the valid records are returned
// regardless.
//
// Timestamps are left zero: they belong to the store, not to the file.
func (m *Mapper) Map(f File) (Records, error) {
	var (
		recs Records
		errs []error
	)

	seenGroups := make(map[string]bool, len(f.Groups))
	for i, e := range f.Groups {
		g, err := mapGroup(e)
		if err != nil {
			errs = append(errs, fmt.Errorf("groups[%d]: %w", i, err))
			continue
		}
		if seenGroups[g.Metadata.Name] {
			errs = append(errs, fmt.Errorf("groups[%d]: duplicate group name %q", i, g.Metadata.Name))
			continue
		}
		seenGroups[g.Metadata.Name] = true
		recs.Groups = append(recs.Groups, g)
	}

	seenLinks := make(map[string]bool, len(f.Links))
	for i, e := range f.Links {
		l, err := mapLink(e)
		if err != nil {
			errs = append(errs, fmt.Errorf("links[%d]: %w", i, err))
			continue
		}
		if seenLinks[l.Metadata.Name] {
			errs = append(errs, fmt.Errorf("links[%d]: duplicate link name %q", i, l.Metadata.Name))
			continue
		}
		seenLinks[l.Metadata.Name] = true
		recs.Links = append(recs.Links, l)
	}

	return recs, errors.Join(errs...)
}

func mapGroup(e GroupEntry) (*domain.LinkGroup, error) {
	name := strings.TrimSpace(e.Name)
	if name == "" {
		return nil, errors.New("group name is required")
	}
	if name == domain.UngroupedName {
		return nil, fmt.Errorf("group name %q is reserved", name)
	}
	if strings.TrimSpace(e.DisplayName) == "" {
		return nil, fmt.Errorf("group %q: displayName is required", name)
	}

	return &domain.LinkGroup{
		Metadata: domain.Metadata{
			Name:        name,
			Labels:      e.Labels,
			Annotations: e.Annotations,
		},
		Spec: domain.LinkGroupSpec{
			DisplayName: strings.TrimSpace(e.DisplayName),
			Priority:    e.Priority,
			Hidden:      e.Hidden,
		},
	}, nil
}

func mapLink(e LinkEntry) (*domain.Link, error) {
	rawURL := strings.TrimSpace(e.URL)
	if rawURL == "" {
		return nil, errors.New("url is required")
	}
	u, err := url.Parse(rawURL)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return nil, fmt.Errorf("url %q is not an absolute url", rawURL)
	}
	if strings.TrimSpace(e.DisplayName) == "" {
		return nil, fmt.Errorf("link %q: displayName is required", rawURL)
	}

	name := strings.TrimSpace(e.Name)
	if name == "" {
		name = NameFor(rawURL)
	}

	return &domain.Link{
		Metadata: domain.Metadata{
			Name:        name,
			Labels:      e.Labels,
			Annotations: e.Annotations,
		},
		Spec: domain.LinkSpec{
			URL:         rawURL,
			DisplayName: strings.TrimSpace(e.DisplayName),
			Description: e.Description,
			Logo:        e.Logo,
			Siteshot:    e.Siteshot,
			GroupName:   strings.TrimSpace(e.GroupName),
			Priority:    e.Priority,
			Hidden:      e.Hidden,
		},
	}, nil
}

// NameFor derives the name of an unnamed link from its URL (UUIDv5 in the URL
// namespace). The same URL always yields the same name across reloads.
func NameFor(rawURL string) string {
	return "link-" + uuid.NewSHA1(uuid.NameSpaceURL, []byte(rawURL)).String()
}
