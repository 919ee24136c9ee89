package catalog

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/clscor/clscorgi/config"
	"github.com/clscor/clscorgi/storage"
	"github.com/clscor/clscorgi/vocab"
	"github.com/clscor/clscorgi/vocab/parser"
	"github.com/clscor/clscorgi/vocabs"
)

// ErrNoStore is returned when a stored vocabulary is configured without a store.
var ErrNoStore = errors.New("stored vocabulary requires a document store")

// Loader builds catalogs from configured vocabulary sources.
type Loader struct {
	vocabs   []config.VocabConfig
	parsers  *parser.Registry
	store    storage.Store
	embedded fs.FS
	metrics  *Metrics
	logger   *slog.Logger
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithStore sets the document store read by stored vocabularies.
func WithStore(s storage.Store) LoaderOption {
	return func(l *Loader) { l.store = s }
}

// WithEmbedded replaces the bundled vocabularies used by embedded sources.
func WithEmbedded(fsys fs.FS) LoaderOption {
	return func(l *Loader) { l.embedded = fsys }
}

// WithLoaderMetrics records loads and lookups of built catalogs in m.
func WithLoaderMetrics(m *Metrics) LoaderOption {
	return func(l *Loader) { l.metrics = m }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) LoaderOption {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// NewLoader creates a loader for the vocabularies in cfg.
func NewLoader(cfg *config.Config, opts ...LoaderOption) *Loader {
	l := &Loader{
		vocabs:   append([]config.VocabConfig(nil), cfg.Vocabs...),
		parsers:  parser.NewLanguageRegistry(cfg.Language),
		embedded: vocabs.FS,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads every configured vocabulary and builds a catalog.
// If any vocabulary fails to load, no catalog is returned.
func (l *Loader) Load(ctx context.Context) (*Catalog, error) {
	c, err := l.load(ctx)
	l.metrics.recordLoad(c, err)
	if err != nil {
		return nil, err
	}

	l.logger.Info("Loaded vocabulary catalog",
		"generation", c.Generation(),
		"vocabularies", c.Len())
	return c, nil
}

func (l *Loader) load(ctx context.Context) (*Catalog, error) {
	registries := make(map[string]*vocab.Registry, len(l.vocabs))
	for _, v := range l.vocabs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		src, err := l.source(ctx, v)
		if err != nil {
			return nil, fmt.Errorf("vocabulary %s: %w", v.Name, err)
		}
		reg, err := vocab.Load(src)
		if err != nil {
			return nil, fmt.Errorf("vocabulary %s: %w", v.Name, err)
		}
		registries[v.Name] = reg

		l.logger.Debug("Loaded vocabulary",
			"name", v.Name,
			"concepts", reg.Len(),
			"schemes", len(reg.Schemes()))
	}
	return New(registries, WithMetrics(l.metrics)), nil
}

func (l *Loader) source(ctx context.Context, v config.VocabConfig) (vocab.Source, error) {
	switch {
	case v.Path != "":
		base, pattern := splitPath(v.Path)
		return l.parsers.FSSource(os.DirFS(base), pattern), nil

	case v.Embedded != "":
		file := v.Embedded + ".ttl"
		content, err := fs.ReadFile(l.embedded, file)
		if err != nil {
			return nil, fmt.Errorf("no bundled vocabulary %q: %w", v.Embedded, err)
		}
		return l.parsers.BytesSource(file, content), nil

	case v.Stored:
		if l.store == nil {
			return nil, ErrNoStore
		}
		doc, err := l.store.Get(ctx, v.Name)
		if err != nil {
			return nil, fmt.Errorf("read stored document: %w", err)
		}
		return l.parsers.MimeSource(doc.MimeType, v.Name+parser.ExtensionFromMimeType(doc.MimeType), doc.Content), nil

	default:
		return nil, errors.New("no source configured")
	}
}

// WatchDirs returns the directories holding file-based vocabularies. The
// value reports whether a pattern under that directory descends into
// subdirectories.
func (l *Loader) WatchDirs() map[string]bool {
	dirs := make(map[string]bool)
	for _, v := range l.vocabs {
		if v.Path == "" {
			continue
		}
		base, pattern := splitPath(v.Path)
		dirs[base] = dirs[base] || strings.Contains(pattern, "**") || strings.Contains(pattern, "/")
	}
	return dirs
}

// WatchedExtension reports whether changes to path can affect a load.
func (l *Loader) WatchedExtension(path string) bool {
	return l.parsers.GetByExtension(path) != nil
}

// splitPath separates a file path or glob into a static base directory and
// a slash-separated pattern relative to it.
func splitPath(p string) (string, string) {
	base, pattern := doublestar.SplitPattern(filepath.ToSlash(p))
	return filepath.FromSlash(base), pattern
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
