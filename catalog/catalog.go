// Package catalog groups named vocabulary registries and answers term
// lookups across them.
//
// A Catalog is immutable. Reloading builds a new Catalog and publishes it
// through Live, so readers holding the previous one are never affected.
package catalog

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/clscor/clscorgi/vocab"
)

// Catalog maps vocabulary names to registries.
type Catalog struct {
	generation string
	loadedAt   time.Time
	names      []string
	registries map[string]*vocab.Registry
	metrics    *Metrics
}

// Option configures a Catalog.
type Option func(*Catalog)

// WithMetrics records lookups in m.
func WithMetrics(m *Metrics) Option {
	return func(c *Catalog) { c.metrics = m }
}

// New creates a catalog over registries. The map is copied.
func New(registries map[string]*vocab.Registry, opts ...Option) *Catalog {
	c := &Catalog{
		generation: uuid.New().String(),
		loadedAt:   time.Now().UTC(),
		registries: make(map[string]*vocab.Registry, len(registries)),
	}
	for name, reg := range registries {
		c.registries[name] = reg
		c.names = append(c.names, name)
	}
	sort.Strings(c.names)

	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Generation identifies this load of the catalog.
func (c *Catalog) Generation() string { return c.generation }

// LoadedAt returns when the catalog was built.
func (c *Catalog) LoadedAt() time.Time { return c.loadedAt }

// Names returns the vocabulary names, sorted.
func (c *Catalog) Names() []string {
	out := make([]string, len(c.names))
	copy(out, c.names)
	return out
}

// Len returns the number of vocabularies.
func (c *Catalog) Len() int { return len(c.names) }

// Registry returns the registry of the named vocabulary.
func (c *Catalog) Registry(name string) (*vocab.Registry, error) {
	reg, ok := c.registries[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownVocabulary, name)
	}
	return reg, nil
}

// Resolve finds the concept with the given URI in any vocabulary.
func (c *Catalog) Resolve(uri string) (vocab.Concept, string, error) {
	for _, name := range c.names {
		if concept, err := c.registries[name].Resolve(uri); err == nil {
			return concept, name, nil
		}
	}
	return vocab.Concept{}, "", &vocab.UnknownConceptError{URI: uri}
}

// Scheme finds the concept scheme with the given URI in any vocabulary.
func (c *Catalog) Scheme(uri string) (vocab.ConceptScheme, string, error) {
	for _, name := range c.names {
		if s, err := c.registries[name].Scheme(uri); err == nil {
			return s, name, nil
		}
	}
	return vocab.ConceptScheme{}, "", &vocab.UnknownSchemeError{URI: uri}
}

// Term returns the URI of the single concept of the named vocabulary whose
// rdfs:label, preferred label or alternate label is label.
func (c *Catalog) Term(name, label string) (string, error) {
	reg, err := c.Registry(name)
	if err != nil {
		c.metrics.recordLookup(name, outcomeUnknown)
		return "", err
	}

	hits := reg.FindByLabel(label, vocab.WithRDFSLabels())
	switch len(hits) {
	case 0:
		c.metrics.recordLookup(name, outcomeMiss)
		return "", &TermLookupError{Vocabulary: name, Label: label}
	case 1:
		c.metrics.recordLookup(name, outcomeHit)
		return hits[0].URI, nil
	default:
		c.metrics.recordLookup(name, outcomeAmbiguous)
		return "", fmt.Errorf("%w: %q matches %d concepts in %s", ErrAmbiguousTerm, label, len(hits), name)
	}
}

// TypeOr returns the URI for label in the named vocabulary, or fallback
// when the label does not resolve to exactly one concept. The lookup is
// counted once under its own outcome; falling back is counted separately.
func (c *Catalog) TypeOr(name, label, fallback string) string {
	uri, err := c.Term(name, label)
	if err != nil {
		c.metrics.recordFallback(name)
		return fallback
	}
	return uri
}
