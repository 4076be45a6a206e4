package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Loader loads packsync configuration from YAML files.
type Loader struct {
	// ExpandEnv enables ${VAR} expansion in the file before parsing.
	ExpandEnv bool

	// StrictEnv fails if a referenced env var is missing and has no
	// default.
	StrictEnv bool
}

// NewLoader creates a loader with default settings.
func NewLoader() *Loader {
	return &Loader{ExpandEnv: true}
}

// Load reads, expands, parses, and validates a configuration file.
func (l *Loader) Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return l.Parse(string(raw))
}

// Parse parses configuration from a YAML string.
func (l *Loader) Parse(raw string) (*Config, error) {
	if l.ExpandEnv {
		expanded, err := l.expand(raw)
		if err != nil {
			return nil, err
		}
		raw = expanded
	}

	var cfg Config
	if err := yaml.Unmarshal([]byte(raw), &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

var envPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(:-[^}]*)?\}`)

// expand replaces ${VAR} and ${VAR:-default} references with environment
// values.
func (l *Loader) expand(input string) (string, error) {
	var missing []string

	result := envPattern.ReplaceAllStringFunc(input, func(match string) string {
		inner := match[2 : len(match)-1]
		name, def, hasDef := strings.Cut(inner, ":-")

		value, ok := os.LookupEnv(name)
		if ok {
			return value
		}
		if hasDef {
			return def
		}
		missing = append(missing, name)
		return ""
	})

	if l.StrictEnv && len(missing) > 0 {
		return "", fmt.Errorf("missing environment variables: %s", strings.Join(missing, ", "))
	}
	return result, nil
}
