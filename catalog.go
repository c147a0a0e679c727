package main

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"gopkg.in/yaml.v3"
)

//go:embed catalog/intents.yaml
var defaultCatalogData []byte

// catalogFiles are looked up in the catalog directory, first match wins.
var catalogFiles = []string{"intents.yaml", "intents.yml", "intents.json"}

const embeddedSource = "embedded"

// IntentDefinition is one intent as written in the catalog file.
// Responses is keyed by role name ("parent", "school_admin", ...) or "default".
type IntentDefinition struct {
	Name      string            `yaml:"name" json:"name"`
	Priority  int               `yaml:"priority" json:"priority"`
	Triggers  []string          `yaml:"triggers" json:"triggers"`
	Responses map[string]string `yaml:"responses" json:"responses"`
}

// Catalog is the validated intent catalog. Never mutated after load.
type Catalog struct {
	Version string             `yaml:"version" json:"version"`
	Intents []IntentDefinition `yaml:"intents" json:"intents"`

	contextual map[string]map[Role]string
	source     string
	loadedAt   time.Time
}

// DefaultCatalog parses the catalog compiled into the binary.
func DefaultCatalog() (*Catalog, error) {
	return ParseCatalog(defaultCatalogData, "yaml", embeddedSource)
}

// LoadCatalog reads the catalog file from dir, or falls back to the
// embedded catalog when dir holds none.
func LoadCatalog(dir string) (*Catalog, error) {
	path, ok := findCatalogFile(dir)
	if !ok {
		return DefaultCatalog()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load intent catalog: %w", err)
	}

	format := strings.TrimPrefix(filepath.Ext(path), ".")
	return ParseCatalog(data, format, path)
}

func findCatalogFile(dir string) (string, bool) {
	if dir == "" {
		return "", false
	}
	for _, name := range catalogFiles {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, true
		}
	}
	return "", false
}

// ParseCatalog decodes a yaml or json catalog and validates it.
func ParseCatalog(data []byte, format, source string) (*Catalog, error) {
	var catalog Catalog

	switch format {
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, &catalog); err != nil {
			return nil, fmt.Errorf("%w: failed to parse %s: %w", ErrInvalidCatalog, source, err)
		}
	case "json":
		if err := sonic.Unmarshal(data, &catalog); err != nil {
			return nil, fmt.Errorf("%w: failed to parse %s: %w", ErrInvalidCatalog, source, err)
		}
	default:
		return nil, fmt.Errorf("%w: unsupported format %q", ErrInvalidCatalog, format)
	}

	if err := catalog.build(); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidCatalog, source, err)
	}

	catalog.source = source
	catalog.loadedAt = time.Now()
	return &catalog, nil
}

// build validates the definitions and indexes the contextual responses.
func (c *Catalog) build() error {
	if len(c.Intents) == 0 {
		return errors.New("catalog defines no intents")
	}

	c.contextual = make(map[string]map[Role]string, len(c.Intents))
	for i, def := range c.Intents {
		if def.Name == "" {
			return fmt.Errorf("intent #%d has no name", i+1)
		}
		if def.Name == IntentUnknown {
			return fmt.Errorf("intent name %q is reserved", IntentUnknown)
		}
		if _, dup := c.contextual[def.Name]; dup {
			return fmt.Errorf("intent %q is defined twice", def.Name)
		}
		if def.Priority < 0 {
			return fmt.Errorf("intent %q has negative priority %d", def.Name, def.Priority)
		}

		usable := 0
		for _, t := range def.Triggers {
			if normalizeText(t) != "" {
				usable++
			}
		}
		if usable == 0 {
			return fmt.Errorf("intent %q has no usable triggers", def.Name)
		}

		variants := make(map[Role]string, len(def.Responses))
		for key, text := range def.Responses {
			role, ok := roleByName(key)
			if !ok {
				return fmt.Errorf("intent %q has response for unknown role %q", def.Name, key)
			}
			if strings.TrimSpace(text) == "" {
				continue
			}
			variants[role] = text
		}
		c.contextual[def.Name] = variants
	}

	return nil
}

// Contextual returns the response for intent shown to role, falling back
// to the intent's default variant.
func (c *Catalog) Contextual(intent string, role Role) (string, bool) {
	variants, ok := c.contextual[intent]
	if !ok {
		return "", false
	}
	if text, ok := variants[role]; ok && role != RoleNone {
		return text, true
	}
	text, ok := variants[RoleNone]
	return text, ok
}

// Source is the file the catalog was read from, or "embedded".
func (c *Catalog) Source() string { return c.source }

func (c *Catalog) LoadedAt() time.Time { return c.loadedAt }
