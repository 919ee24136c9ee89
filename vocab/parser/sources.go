package parser

import (
	"fmt"
	"io/fs"
	"os"
	"sort"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/clscor/clscorgi/vocab"
)

// FileSource reads one vocabulary document from disk using DefaultRegistry.
func FileSource(path string) vocab.Source { return DefaultRegistry.FileSource(path) }

// BytesSource parses an in-memory document using DefaultRegistry.
func BytesSource(name string, content []byte) vocab.Source {
	return DefaultRegistry.BytesSource(name, content)
}

// MimeSource parses an in-memory document of a known MIME type using DefaultRegistry.
func MimeSource(mimeType, name string, content []byte) vocab.Source {
	return DefaultRegistry.MimeSource(mimeType, name, content)
}

// FSSource reads documents matching patterns from fsys using DefaultRegistry.
func FSSource(fsys fs.FS, patterns ...string) vocab.Source {
	return DefaultRegistry.FSSource(fsys, patterns...)
}

// Glob expands patterns against fsys using DefaultRegistry.
func Glob(fsys fs.FS, patterns ...string) ([]string, error) {
	return DefaultRegistry.Glob(fsys, patterns...)
}

// FileSource reads one vocabulary document from disk.
func (r *Registry) FileSource(path string) vocab.Source {
	return vocab.SourceFunc(func() (*vocab.Definitions, error) {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		return r.Parse(path, content)
	})
}

// BytesSource parses an in-memory document. The name selects the parser
// by extension and is reported as the definitions' origin.
func (r *Registry) BytesSource(name string, content []byte) vocab.Source {
	return vocab.SourceFunc(func() (*vocab.Definitions, error) {
		return r.Parse(name, content)
	})
}

// MimeSource parses an in-memory document of a known MIME type.
func (r *Registry) MimeSource(mimeType, name string, content []byte) vocab.Source {
	return vocab.SourceFunc(func() (*vocab.Definitions, error) {
		return r.ParseMimeType(mimeType, name, content)
	})
}

// FSSource reads every document in fsys matching one of the glob patterns
// and merges them into one set of definitions. Patterns support ** for
// recursive matches. Documents are read in lexical path order.
func (r *Registry) FSSource(fsys fs.FS, patterns ...string) vocab.Source {
	return vocab.SourceFunc(func() (*vocab.Definitions, error) {
		paths, err := r.Glob(fsys, patterns...)
		if err != nil {
			return nil, err
		}
		if len(paths) == 0 {
			return nil, fmt.Errorf("no vocabulary documents match %v", patterns)
		}

		defs := &vocab.Definitions{}
		for _, p := range paths {
			content, err := fs.ReadFile(fsys, p)
			if err != nil {
				return nil, fmt.Errorf("read %s: %w", p, err)
			}
			d, err := r.Parse(p, content)
			if err != nil {
				return nil, err
			}
			defs.Append(d)
		}
		return defs, nil
	})
}

// Glob expands patterns against fsys, dropping duplicates and files no
// parser understands.
func (r *Registry) Glob(fsys fs.FS, patterns ...string) ([]string, error) {
	seen := make(map[string]bool)
	var paths []string
	for _, pattern := range patterns {
		matches, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("glob %q: %w", pattern, err)
		}
		for _, m := range matches {
			if seen[m] || r.GetByExtension(m) == nil {
				continue
			}
			seen[m] = true
			paths = append(paths, m)
		}
	}
	sort.Strings(paths)
	return paths, nil
}
