package domain

import (
	"strings"
	"time"
)

// Metadata is the identity block shared by every stored record.
type Metadata struct {
	// Name is the unique identifier. Immutable after creation.
	Name string `json:"name" yaml:"name"`

	// Labels are matched by label selectors.
	Labels map[string]string `json:"labels,omitempty" yaml:"labels,omitempty"`

	// Annotations carry free-form data not used for selection.
	Annotations map[string]string `json:"annotations,omitempty" yaml:"annotations,omitempty"`

	// CreationTimestamp is set once, when the record is first stored.
	CreationTimestamp time.Time `json:"creationTimestamp" yaml:"creationTimestamp,omitempty"`

	// DeletionTimestamp is set when removal was requested.
	// A record carrying it is pending removal and must not be listed.
	DeletionTimestamp *time.Time `json:"deletionTimestamp,omitempty" yaml:"deletionTimestamp,omitempty"`

	// Version is bumped each time the record source changes the record.
	Version int64 `json:"version,omitempty" yaml:"-"`
}

// Deleting reports whether the record is pending removal.
func (m Metadata) Deleting() bool {
	return m.DeletionTimestamp != nil
}

// Link is an external link in the directory.
type Link struct {
	Metadata Metadata `json:"metadata" yaml:"metadata"`
	Spec     LinkSpec `json:"spec" yaml:"spec"`
}

// LinkSpec holds the user-facing fields of a link.
type LinkSpec struct {
	// ─────────────────────────────
	// Required
	// ─────────────────────────────

	URL         string `json:"url" yaml:"url"`
	DisplayName string `json:"displayName" yaml:"displayName"`

	// ─────────────────────────────
	// Presentation
	// ─────────────────────────────

	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Logo        string `json:"logo,omitempty" yaml:"logo,omitempty"`

	// Siteshot is a screenshot of the target site.
	Siteshot string `json:"siteshot,omitempty" yaml:"siteshot,omitempty"`

	// ─────────────────────────────
	// Grouping & ordering
	// ─────────────────────────────

	// GroupName is a soft reference to LinkGroup.Metadata.Name.
	// Blank means the link is ungrouped. The referenced group may not exist.
	GroupName string `json:"groupName,omitempty" yaml:"groupName,omitempty"`

	// Priority orders links; nil means unranked.
	Priority *int `json:"priority,omitempty" yaml:"priority,omitempty"`

	Hidden *bool `json:"hidden,omitempty" yaml:"hidden,omitempty"`
}

// Ungrouped reports whether the link has no group.
func (l *Link) Ungrouped() bool {
	return strings.TrimSpace(l.Spec.GroupName) == ""
}

// InGroup reports whether the link belongs to the named group.
// UngroupedName selects links without a group.
func (l *Link) InGroup(groupName string) bool {
	if groupName == UngroupedName {
		return l.Ungrouped()
	}
	return l.Spec.GroupName == groupName
}

// LinkGroup is a named, ordered bucket of links.
type LinkGroup struct {
	Metadata Metadata      `json:"metadata" yaml:"metadata"`
	Spec     LinkGroupSpec `json:"spec" yaml:"spec"`
}

// LinkGroupSpec holds the user-facing fields of a group.
type LinkGroupSpec struct {
	DisplayName string `json:"displayName" yaml:"displayName"`
	Priority    *int   `json:"priority,omitempty" yaml:"priority,omitempty"`
	Hidden      *bool  `json:"hidden,omitempty" yaml:"hidden,omitempty"`
}
