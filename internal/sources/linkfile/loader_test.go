package linkfile

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoaderLoad(t *testing.T) {
	tmpDir := t.TempDir()
	yamlPath := filepath.Join(tmpDir, "links.yaml")

	yamlContent := `---
groups:
  - name: infra
    displayName: Infrastructure
    priority: 1
links:
  - name: adguard
    url: https://adguard.domain.ext
    displayName: AdGuard Home
    description: Network-wide ads & trackers blocking DNS server
    groupName: infra
    labels:
      env: prod
  - url: https://blog.domain.ext
    displayName: Blog
`

	if err := os.WriteFile(yamlPath, []byte(yamlContent), 0o644); err != nil {
		t.Fatalf("Failed to create test YAML file: %v", err)
	}

	loader := NewLoader(yamlPath)
	f, err := loader.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if len(f.Groups) != 1 || len(f.Links) != 2 {
		t.Fatalf("Load() = %d groups, %d links, want 1 and 2", len(f.Groups), len(f.Links))
	}
	if f.Groups[0].Priority == nil || *f.Groups[0].Priority != 1 {
		t.Errorf("group priority = %v, want 1", f.Groups[0].Priority)
	}
	if f.Links[0].Labels["env"] != "prod" {
		t.Errorf("link labels = %v, want env=prod", f.Links[0].Labels)
	}
}

func TestLoaderLoadFileNotFound(t *testing.T) {
	loader := NewLoader("/nonexistent/path/links.yaml")
	if _, err := loader.Load(); err == nil {
		t.Error("Load() with non-existent file should return error")
	}
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	_, err := Parse([]byte("links:\n  - url: https://a.example\n    displayname: typo\n"))
	if err == nil {
		t.Error("Parse() should reject unknown keys")
	}
}

func TestParseEmpty(t *testing.T) {
	f, err := Parse(nil)
	if err != nil {
		t.Fatalf("Parse(nil) error = %v", err)
	}
	if len(f.Groups) != 0 || len(f.Links) != 0 {
		t.Errorf("Parse(nil) = %+v, want empty", f)
	}
}

func TestExpandEnv(t *testing.T) {
	t.Setenv("LINKS_TEST_DOMAIN", "example.org")

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "single variable",
			input:    "url: https://${LINKS_TEST_DOMAIN}/wiki",
			expected: "url: https://example.org/wiki",
		},
		{
			name:     "unset variable",
			input:    "url: https://${LINKS_TEST_UNSET_VAR}/wiki",
			expected: "url: https:///wiki",
		},
		{
			name:     "no variables",
			input:    "url: https://plain.example",
			expected: "url: https://plain.example",
		},
		{
			name:     "bare dollar untouched",
			input:    "description: costs $5",
			expected: "description: costs $5",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := string(expandEnv([]byte(tt.input)))
			if got != tt.expected {
				t.Errorf("expandEnv() = %q, want %q", got, tt.expected)
			}
		})
	}
}
