// Package config provides configuration loading and management for clscorgi.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/clscor/clscorgi/storage"
)

// Storage backends.
const (
	BackendNone = "none"
	BackendBolt = "bolt"
	BackendNATS = "nats"
)

// Config represents the complete clscorgi configuration
type Config struct {
	Vocabs   []VocabConfig `yaml:"vocabs"`
	Storage  StorageConfig `yaml:"storage"`
	Watch    WatchConfig   `yaml:"watch"`
	Metrics  MetricsConfig `yaml:"metrics"`
	Language string        `yaml:"language"`
}

// VocabConfig names one vocabulary and where its definitions come from.
// Exactly one of Path, Embedded or Stored is set.
type VocabConfig struct {
	// Name is the catalog name, e.g. "appellation"
	Name string `yaml:"name"`
	// Path is a file path or glob; ** matches across directories
	Path string `yaml:"path,omitempty"`
	// Embedded names a vocabulary bundled with the binary
	Embedded string `yaml:"embedded,omitempty"`
	// Stored reads the vocabulary from the document store
	Stored bool `yaml:"stored,omitempty"`
	// URL is where `clscorgi pull` fetches the vocabulary from
	URL string `yaml:"url,omitempty"`
}

// StorageConfig configures the document store used by pull and stored vocabs
type StorageConfig struct {
	// Backend is one of none, bolt or nats
	Backend string `yaml:"backend"`
	// Path is the bbolt database file
	Path string `yaml:"path"`
	// NATSURL is the NATS server URL for the nats backend
	NATSURL string `yaml:"nats_url"`
	// Bucket is the JetStream KV bucket name
	Bucket string `yaml:"bucket"`
}

// WatchConfig configures file watching
type WatchConfig struct {
	// Debounce delays reloads until files have been quiet this long
	Debounce time.Duration `yaml:"debounce"`
}

// MetricsConfig configures the Prometheus endpoint
type MetricsConfig struct {
	// Addr is the listen address for /metrics (empty = disabled)
	Addr string `yaml:"addr"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Vocabs: []VocabConfig{
			{Name: "appellation", Embedded: "appellation"},
		},
		Storage: StorageConfig{
			Backend: BackendNone,
			Path:    "clscorgi.db",
			NATSURL: "nats://localhost:4222",
			Bucket:  storage.DefaultBucket,
		},
		Watch: WatchConfig{
			Debounce: 500 * time.Millisecond,
		},
		Language: "en",
	}
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	seen := make(map[string]bool, len(c.Vocabs))
	for i, v := range c.Vocabs {
		if v.Name == "" {
			return fmt.Errorf("vocabs[%d].name is required", i)
		}
		if seen[v.Name] {
			return fmt.Errorf("vocabs[%d]: duplicate name %q", i, v.Name)
		}
		seen[v.Name] = true

		n := 0
		if v.Path != "" {
			n++
		}
		if v.Embedded != "" {
			n++
		}
		if v.Stored {
			n++
		}
		if n != 1 {
			return fmt.Errorf("vocabs[%d] (%s): exactly one of path, embedded or stored is required", i, v.Name)
		}
		if v.Stored {
			if err := storage.ValidateName(v.Name); err != nil {
				return fmt.Errorf("vocabs[%d]: %w", i, err)
			}
			if c.Storage.Backend == BackendNone || c.Storage.Backend == "" {
				return fmt.Errorf("vocabs[%d] (%s): stored vocabulary requires a storage backend", i, v.Name)
			}
		}
	}

	switch c.Storage.Backend {
	case "", BackendNone:
	case BackendBolt:
		if c.Storage.Path == "" {
			return fmt.Errorf("storage.path is required for the bolt backend")
		}
	case BackendNATS:
		if c.Storage.NATSURL == "" {
			return fmt.Errorf("storage.nats_url is required for the nats backend")
		}
	default:
		return fmt.Errorf("storage.backend must be one of none, bolt, nats; got %q", c.Storage.Backend)
	}

	if c.Watch.Debounce < 0 {
		return fmt.Errorf("watch.debounce must not be negative")
	}
	return nil
}

// PullURLs returns the URLs of vocabularies that have one, in config order.
func (c *Config) PullURLs() []string {
	var urls []string
	for _, v := range c.Vocabs {
		if v.URL != "" {
			urls = append(urls, v.URL)
		}
	}
	return urls
}

// LoadFromFile loads configuration from a YAML file on top of the defaults.
// The file's vocabularies replace the default ones.
func LoadFromFile(path string) (*Config, error) {
	layer, err := loadLayer(path)
	if err != nil {
		return nil, err
	}

	config := DefaultConfig()
	config.Vocabs = nil
	config.Merge(layer)
	return config, nil
}

// loadLayer reads a YAML file without applying defaults, so that merging it
// only overrides what the file sets.
func loadLayer(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := &Config{}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Relative paths are resolved against the config file
	dir := filepath.Dir(path)
	for i, v := range config.Vocabs {
		if v.Path != "" && !filepath.IsAbs(v.Path) {
			config.Vocabs[i].Path = filepath.Join(dir, v.Path)
		}
	}
	if config.Storage.Path != "" && !filepath.IsAbs(config.Storage.Path) {
		config.Storage.Path = filepath.Join(dir, config.Storage.Path)
	}

	return config, nil
}

// SaveToFile saves configuration to a YAML file
func (c *Config) SaveToFile(path string) error {
	// Ensure parent directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Merge merges another config into this one (other takes precedence for non-zero values).
// Vocabularies are merged by name; a vocabulary in other replaces one of the same name.
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	for _, v := range other.Vocabs {
		replaced := false
		for i := range c.Vocabs {
			if c.Vocabs[i].Name == v.Name {
				c.Vocabs[i] = v
				replaced = true
				break
			}
		}
		if !replaced {
			c.Vocabs = append(c.Vocabs, v)
		}
	}

	// Storage
	if other.Storage.Backend != "" {
		c.Storage.Backend = other.Storage.Backend
	}
	if other.Storage.Path != "" {
		c.Storage.Path = other.Storage.Path
	}
	if other.Storage.NATSURL != "" {
		c.Storage.NATSURL = other.Storage.NATSURL
	}
	if other.Storage.Bucket != "" {
		c.Storage.Bucket = other.Storage.Bucket
	}

	if other.Watch.Debounce != 0 {
		c.Watch.Debounce = other.Watch.Debounce
	}
	if other.Metrics.Addr != "" {
		c.Metrics.Addr = other.Metrics.Addr
	}
	if other.Language != "" {
		c.Language = other.Language
	}
}
