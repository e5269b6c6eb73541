package domain

import "time"

// UngroupedName is the name of the synthetic bucket holding links without a group.
const UngroupedName = "ungrouped"

// MetadataView is the metadata exposed to callers. Version is bookkeeping and stays internal.
type MetadataView struct {
	Name              string            `json:"name"`
	Labels            map[string]string `json:"labels,omitempty"`
	Annotations       map[string]string `json:"annotations,omitempty"`
	CreationTimestamp *time.Time        `json:"creationTimestamp,omitempty"`
	DeletionTimestamp *time.Time        `json:"deletionTimestamp,omitempty"`
}

// LinkView is the projection of a Link.
type LinkView struct {
	Metadata MetadataView `json:"metadata"`
	Spec     LinkSpec     `json:"spec"`
}

// GroupView is the projection of a group with its ordered member links.
// It is produced both for stored groups and for the synthetic ungrouped bucket.
type GroupView struct {
	Metadata MetadataView  `json:"metadata"`
	Spec     LinkGroupSpec `json:"spec"`
	Links    []LinkView    `json:"links"`
}

func viewMetadata(m Metadata) MetadataView {
	v := MetadataView{
		Name:              m.Name,
		Labels:            m.Labels,
		Annotations:       m.Annotations,
		DeletionTimestamp: m.DeletionTimestamp,
	}
	if !m.CreationTimestamp.IsZero() {
		ts := m.CreationTimestamp
		v.CreationTimestamp = &ts
	}
	return v
}

// NewLinkView projects a link.
func NewLinkView(l *Link) LinkView {
	return LinkView{Metadata: viewMetadata(l.Metadata), Spec: l.Spec}
}

// NewLinkViews projects links, preserving order.
func NewLinkViews(links []*Link) []LinkView {
	views := make([]LinkView, 0, len(links))
	for _, l := range links {
		views = append(views, NewLinkView(l))
	}
	return views
}

// NewGroupView projects a stored group carrying the given members.
func NewGroupView(g *LinkGroup, links []LinkView) GroupView {
	if links == nil {
		links = []LinkView{}
	}
	return GroupView{Metadata: viewMetadata(g.Metadata), Spec: g.Spec, Links: links}
}

// UngroupedBucket is the synthetic group collecting links without a group.
// It has no stored identity and is rebuilt on every read.
type UngroupedBucket struct {
	Links []LinkView
}

// View projects the bucket with the same shape as a stored group.
func (u UngroupedBucket) View() GroupView {
	priority := 0
	links := u.Links
	if links == nil {
		links = []LinkView{}
	}
	return GroupView{
		Metadata: MetadataView{Name: UngroupedName},
		Spec: LinkGroupSpec{
			DisplayName: "",
			Priority:    &priority,
		},
		Links: links,
	}
}
