// Package parser turns vocabulary documents into vocab.Definitions.
package parser

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/clscor/clscorgi/vocab"
)

// MIME types of the supported definition formats.
const (
	MimeTurtle   = "text/turtle"
	MimeNTriples = "application/n-triples"
	MimeYAML     = "application/yaml"
)

// Parser defines the interface for vocabulary document parsers.
type Parser interface {
	// Parse parses a document into raw definitions.
	Parse(filename string, content []byte) (*vocab.Definitions, error)

	// CanParse returns true if this parser handles the given MIME type.
	CanParse(mimeType string) bool

	// MimeType returns the primary MIME type for this parser.
	MimeType() string
}

// Registry manages vocabulary parsers.
type Registry struct {
	mu      sync.RWMutex
	parsers map[string]Parser // keyed by primary MIME type
}

// DefaultRegistry is the global parser registry with default parsers.
var DefaultRegistry = NewRegistry()

// NewRegistry creates a new parser registry with default parsers.
func NewRegistry() *Registry {
	r := &Registry{
		parsers: make(map[string]Parser),
	}

	r.Register(NewTurtleParser())
	r.Register(NewNTriplesParser())
	r.Register(NewYAMLParser())

	return r
}

// NewLanguageRegistry creates a registry whose RDF parsers accept labels in
// the given language. An empty language accepts every language.
func NewLanguageRegistry(language string) *Registry {
	r := NewRegistry()
	for _, p := range []*RDFParser{NewTurtleParser(), NewNTriplesParser()} {
		p.Language = language
		r.Register(p)
	}
	return r
}

// Register adds a parser to the registry, replacing any parser with the
// same primary MIME type.
func (r *Registry) Register(p Parser) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.parsers[p.MimeType()] = p
}

// GetByMimeType returns a parser for the given MIME type.
func (r *Registry) GetByMimeType(mimeType string) Parser {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if p, ok := r.parsers[mimeType]; ok {
		return p
	}

	for _, mt := range r.sortedTypes() {
		if p := r.parsers[mt]; p.CanParse(mimeType) {
			return p
		}
	}

	return nil
}

// GetByExtension returns a parser for a file based on its extension.
func (r *Registry) GetByExtension(filename string) Parser {
	return r.GetByMimeType(MimeTypeFromExtension(filepath.Ext(filename)))
}

// Parse parses a document using the parser matching its extension.
func (r *Registry) Parse(filename string, content []byte) (*vocab.Definitions, error) {
	p := r.GetByExtension(filename)
	if p == nil {
		return nil, fmt.Errorf("no parser for file type: %q", filepath.Ext(filename))
	}
	return p.Parse(filename, content)
}

// ParseMimeType parses a document using the parser for mimeType.
func (r *Registry) ParseMimeType(mimeType, filename string, content []byte) (*vocab.Definitions, error) {
	p := r.GetByMimeType(mimeType)
	if p == nil {
		return nil, fmt.Errorf("no parser for MIME type: %s", mimeType)
	}
	return p.Parse(filename, content)
}

// ListMimeTypes returns all registered MIME types, sorted.
func (r *Registry) ListMimeTypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sortedTypes()
}

// sortedTypes must be called with mu held.
func (r *Registry) sortedTypes() []string {
	types := make([]string, 0, len(r.parsers))
	for t := range r.parsers {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// MimeTypeFromExtension returns the MIME type for a file extension.
func MimeTypeFromExtension(ext string) string {
	switch strings.ToLower(ext) {
	case ".ttl":
		return MimeTurtle
	case ".nt":
		return MimeNTriples
	case ".yaml", ".yml":
		return MimeYAML
	default:
		return "application/octet-stream"
	}
}

// ExtensionFromMimeType returns a typical file extension for a MIME type.
func ExtensionFromMimeType(mimeType string) string {
	switch mimeType {
	case MimeTurtle, "application/x-turtle":
		return ".ttl"
	case MimeNTriples:
		return ".nt"
	case MimeYAML, "application/x-yaml", "text/yaml":
		return ".yaml"
	default:
		return ""
	}
}
