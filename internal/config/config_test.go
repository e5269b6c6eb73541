package config

import (
	"reflect"
	"testing"
	"time"
)

func TestRequireEnv(t *testing.T) {
	t.Run("variable set", func(t *testing.T) {
		t.Setenv("LINKS_TEST_VAR", "test_value")
		if got := requireEnv("LINKS_TEST_VAR"); got != "test_value" {
			t.Errorf("requireEnv() = %v, want test_value", got)
		}
	})

	t.Run("variable not set", func(t *testing.T) {
		defer func() {
			if r := recover(); r == nil {
				t.Errorf("requireEnv() should have panicked")
			}
		}()
		requireEnv("LINKS_TEST_VAR_MISSING")
	})
}

func TestGetenvInt(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		def      int
		expected int
	}{
		{name: "valid integer", value: "42", def: 1, expected: 42},
		{name: "invalid integer uses default", value: "not_a_number", def: 7, expected: 7},
		{name: "missing variable uses default", value: "", def: 3, expected: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("LINKS_TEST_INT", tt.value)
			if got := getenvInt("LINKS_TEST_INT", tt.def); got != tt.expected {
				t.Errorf("getenvInt() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestMustDuration(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		def      time.Duration
		expected time.Duration
	}{
		{name: "valid duration", value: "5s", def: time.Second, expected: 5 * time.Second},
		{name: "invalid duration uses default", value: "invalid", def: 10 * time.Second, expected: 10 * time.Second},
		{name: "missing variable uses default", value: "", def: 15 * time.Second, expected: 15 * time.Second},
		{name: "zero is a value", value: "0s", def: time.Hour, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("LINKS_TEST_DURATION", tt.value)
			if got := mustDuration("LINKS_TEST_DURATION", tt.def); got != tt.expected {
				t.Errorf("mustDuration() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestMustBool(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		def      bool
		expected bool
	}{
		{name: "true value", value: "true", def: false, expected: true},
		{name: "false value", value: "false", def: true, expected: false},
		{name: "invalid value uses default", value: "invalid", def: true, expected: true},
		{name: "missing variable uses default", value: "", def: false, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("LINKS_TEST_BOOL", tt.value)
			if got := mustBool("LINKS_TEST_BOOL", tt.def); got != tt.expected {
				t.Errorf("mustBool() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestSplitAndTrim(t *testing.T) {
	tests := []struct {
		input    string
		expected []string
	}{
		{"", nil},
		{"a", []string{"a"}},
		{" a , b,,c ", []string{"a", "b", "c"}},
		{`"10.0.0.0/8", '127.0.0.1'`, []string{"10.0.0.0/8", "127.0.0.1"}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := splitAndTrim(tt.input); !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("splitAndTrim(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	t.Setenv("LINKS_LINK_FILE", "/etc/links/links.yaml")
	t.Setenv("LINKS_REDIS_ADDR", "localhost:6379")
	t.Setenv("LINKS_REDIS_PASSWORD_REQUIRED", "false")
	t.Setenv("LINKS_LOG_LEVEL", "warn")
	t.Setenv("LINKS_DETAIL_CACHE_TTL", "0s")
	t.Setenv("LINKS_ALLOWED_CIDRS", "127.0.0.1, 10.0.0.0/8")

	cfg := Load()
	if cfg.LinkFile != "/etc/links/links.yaml" {
		t.Errorf("LinkFile = %v", cfg.LinkFile)
	}
	if cfg.DetailCacheTTL != 0 {
		t.Errorf("DetailCacheTTL = %v, want 0", cfg.DetailCacheTTL)
	}
	if cfg.GroupConcurrency != 8 || cfg.FetchWorkers != 4 || cfg.FetchQueue != 64 {
		t.Errorf("defaults not applied: %+v", cfg)
	}
	if len(cfg.AllowedCIDRS) != 2 {
		t.Errorf("AllowedCIDRS = %v", cfg.AllowedCIDRS)
	}
	if cfg.AllowedHosts != nil {
		t.Errorf("AllowedHosts = %v, want nil", cfg.AllowedHosts)
	}
}

func TestLoadRequiresRedisPassword(t *testing.T) {
	t.Setenv("LINKS_LINK_FILE", "/etc/links/links.yaml")
	t.Setenv("LINKS_REDIS_ADDR", "localhost:6379")
	t.Setenv("LINKS_REDIS_PASSWORD_REQUIRED", "true")
	t.Setenv("LINKS_REDIS_PASSWORD", "")

	defer func() {
		if r := recover(); r == nil {
			t.Errorf("Load() should have panicked without a redis password")
		}
	}()
	Load()
}
