// Package linkfile reads the YAML link file that feeds the directory.
package linkfile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

var envRef = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// Loader handles loading and parsing of the link file
type Loader struct {
	filePath string
}

// NewLoader creates a new link file loader
func NewLoader(filePath string) *Loader {
	return &Loader{
		filePath: filePath,
	}
}

// Path returns the file the loader reads.
func (l *Loader) Path() string { return l.filePath }

// Load reads and parses the link file
func (l *Loader) Load() (File, error) {
	data, err := os.ReadFile(l.filePath)
	if err != nil {
		return File{}, fmt.Errorf("failed to read link file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a link file. Unknown keys are rejected so that typos surface
// instead of silently dropping a field. ${VAR} references are expanded from
// the environment; unset variables expand to "".
func Parse(data []byte) (File, error) {
	data = expandEnv(data)

	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return File{}, fmt.Errorf("failed to parse link file yaml: %w", err)
	}
	return f, nil
}

// expandEnv replaces ${VAR} references with environment values.
// Example: url: https://${DOMAIN}/wiki -> url: https://example.org/wiki
func expandEnv(data []byte) []byte {
	return envRef.ReplaceAllFunc(data, func(m []byte) []byte {
		name := envRef.FindSubmatch(m)[1]
		return []byte(os.Getenv(string(name)))
	})
}
