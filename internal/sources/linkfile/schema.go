package linkfile

// File is the top-level structure of the link file.
//
//	groups:
//	  - name: tools
//	    displayName: Tools
//	    priority: 1
//	links:
//	  - url: https://grafana.example.org
//	    displayName: Grafana
//	    groupName: tools
type File struct {
	Groups []GroupEntry `yaml:"groups"`
	Links  []LinkEntry  `yaml:"links"`
}

// GroupEntry describes one group. Name and displayName are required.
type GroupEntry struct {
	Name        string            `yaml:"name"`
	DisplayName string            `yaml:"displayName"`
	Priority    *int              `yaml:"priority,omitempty"`
	Hidden      *bool             `yaml:"hidden,omitempty"`
	Labels      map[string]string `yaml:"labels,omitempty"`
	Annotations map[string]string `yaml:"annotations,omitempty"`
}

// LinkEntry describes one link. URL and displayName are required.
// Without a name, the link is named after its URL.
type LinkEntry struct {
	Name        string            `yaml:"name,omitempty"`
	URL         string            `yaml:"url"`
	DisplayName string            `yaml:"displayName"`
	Description string            `yaml:"description,omitempty"`
	Logo        string            `yaml:"logo,omitempty"`
	Siteshot    string            `yaml:"siteshot,omitempty"`
	GroupName   string            `yaml:"groupName,omitempty"`
	Priority    *int              `yaml:"priority,omitempty"`
	Hidden      *bool             `yaml:"hidden,omitempty"`
	Labels      map[string]string `yaml:"labels,omitempty"`
	Annotations map[string]string `yaml:"annotations,omitempty"`
}
