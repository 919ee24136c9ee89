package vocab

import (
	"fmt"
	"iter"
	"slices"
)

// Registry is an immutable, validated set of concepts and concept schemes.
type Registry struct {
	concepts map[string]int // URI -> index into order
	order    []Concept

	schemes     map[string]int
	schemeOrder []ConceptScheme

	prefIndex  map[string][]int
	altIndex   map[string][]int
	labelIndex map[string][]int
}

// Load reads definitions from src and builds a registry from them.
func Load(src Source) (*Registry, error) {
	defs, err := src.Definitions()
	if err != nil {
		return nil, fmt.Errorf("read vocabulary source: %w", err)
	}
	return New(defs)
}

// New validates defs and builds a registry from them.
// On error no registry is returned.
func New(defs *Definitions) (*Registry, error) {
	if defs == nil {
		defs = &Definitions{}
	}

	r := &Registry{
		concepts:  make(map[string]int, len(defs.Concepts)),
		order:     make([]Concept, 0, len(defs.Concepts)),
		schemes:   make(map[string]int, len(defs.Schemes)),
		prefIndex:  make(map[string][]int, len(defs.Concepts)),
		altIndex:   make(map[string][]int),
		labelIndex: make(map[string][]int, len(defs.Concepts)),
	}

	if err := checkDuplicates(defs); err != nil {
		return nil, err
	}

	schemeDefs := make([]SchemeDef, len(defs.Schemes))
	for i, sd := range defs.Schemes {
		schemeDefs[i] = completeMembership(sd)
	}

	for _, sd := range schemeDefs {
		r.schemes[sd.URI] = len(r.schemeOrder)
		r.schemeOrder = append(r.schemeOrder, ConceptScheme{
			URI:     sd.URI,
			Label:   sd.Label,
			Members: slices.Clone(sd.Lists),
		})
	}

	for _, cd := range defs.Concepts {
		c, err := r.buildConcept(cd)
		if err != nil {
			return nil, err
		}
		idx := len(r.order)
		r.concepts[c.URI] = idx
		r.order = append(r.order, c)
		r.prefIndex[c.PrefLabel] = append(r.prefIndex[c.PrefLabel], idx)
		if c.Label != "" {
			r.labelIndex[c.Label] = append(r.labelIndex[c.Label], idx)
		}
		for _, alt := range c.AltLabels {
			r.altIndex[alt] = appendUnique(r.altIndex[alt], idx)
		}
	}

	for _, sd := range schemeDefs {
		if err := r.checkScheme(sd); err != nil {
			return nil, err
		}
	}

	for _, c := range r.order {
		s := r.schemeOrder[r.schemes[c.InScheme]]
		if !slices.Contains(s.Members, c.URI) {
			return nil, malformed(c.URI, "", "concept declares scheme <%s> but is not listed by it", c.InScheme)
		}
	}

	return r, nil
}

func checkDuplicates(defs *Definitions) error {
	seen := make(map[string]string, defs.Len())
	describe := func(kind, origin string) string {
		if origin == "" {
			return kind
		}
		return kind + " in " + origin
	}
	for _, sd := range defs.Schemes {
		if sd.URI == "" {
			return malformed("", sd.Origin, "scheme without URI")
		}
		d := describe("scheme", sd.Origin)
		if first, ok := seen[sd.URI]; ok {
			return &DuplicateURIError{URI: sd.URI, First: first, Second: d}
		}
		seen[sd.URI] = d
	}
	for _, cd := range defs.Concepts {
		if cd.URI == "" {
			return malformed("", cd.Origin, "concept without URI")
		}
		d := describe("concept", cd.Origin)
		if first, ok := seen[cd.URI]; ok {
			return &DuplicateURIError{URI: cd.URI, First: first, Second: d}
		}
		seen[cd.URI] = d
	}
	return nil
}

func (r *Registry) buildConcept(cd ConceptDef) (Concept, error) {
	if cd.PrefLabel == "" {
		return Concept{}, malformed(cd.URI, cd.Origin, "concept has no preferred label")
	}

	schemes := uniqueStrings(cd.InSchemes)
	switch {
	case len(schemes) == 0:
		return Concept{}, malformed(cd.URI, cd.Origin, "concept is not in any scheme")
	case len(schemes) > 1:
		return Concept{}, malformed(cd.URI, cd.Origin, "concept is in %d schemes, expected exactly one", len(schemes))
	}
	if _, ok := r.schemes[schemes[0]]; !ok {
		return Concept{}, malformed(cd.URI, cd.Origin, "concept references unknown scheme <%s>", schemes[0])
	}

	var alts []string
	if len(cd.AltLabels) > 0 {
		alts = uniqueStrings(cd.AltLabels)
	}

	return Concept{
		URI:        cd.URI,
		Label:      cd.Label,
		PrefLabel:  cd.PrefLabel,
		AltLabels:  alts,
		Definition: cd.Definition,
		ExactMatch: cd.ExactMatch,
		InScheme:   schemes[0],
	}, nil
}

// completeMembership fills in whichever of lists and hasTopConcept a scheme
// leaves out. Plain SKOS documents carry only hasTopConcept.
func completeMembership(sd SchemeDef) SchemeDef {
	switch {
	case len(sd.Lists) == 0 && len(sd.TopConcepts) > 0:
		sd.Lists = sd.TopConcepts
	case len(sd.TopConcepts) == 0 && len(sd.Lists) > 0:
		sd.TopConcepts = sd.Lists
	}
	return sd
}

// checkScheme enforces that lists and hasTopConcept name the same concepts
// and that every listed concept declares this scheme.
func (r *Registry) checkScheme(sd SchemeDef) error {
	lists := make(map[string]bool, len(sd.Lists))
	for _, uri := range sd.Lists {
		if lists[uri] {
			return malformed(sd.URI, sd.Origin, "scheme lists <%s> more than once", uri)
		}
		lists[uri] = true
	}
	top := make(map[string]bool, len(sd.TopConcepts))
	for _, uri := range sd.TopConcepts {
		top[uri] = true
	}

	for _, uri := range sd.Lists {
		if !top[uri] {
			return malformed(sd.URI, sd.Origin, "scheme lists <%s> but has no matching hasTopConcept", uri)
		}
	}
	for _, uri := range sd.TopConcepts {
		if !lists[uri] {
			return malformed(sd.URI, sd.Origin, "scheme has top concept <%s> that it does not list", uri)
		}
	}

	for _, uri := range sd.Lists {
		idx, ok := r.concepts[uri]
		if !ok {
			return malformed(sd.URI, sd.Origin, "scheme lists undefined concept <%s>", uri)
		}
		if in := r.order[idx].InScheme; in != sd.URI {
			return malformed(sd.URI, sd.Origin, "scheme lists <%s> which declares scheme <%s>", uri, in)
		}
	}
	return nil
}

// Resolve returns the concept with the given URI.
func (r *Registry) Resolve(uri string) (Concept, error) {
	idx, ok := r.concepts[uri]
	if !ok {
		return Concept{}, &UnknownConceptError{URI: uri}
	}
	return r.order[idx].clone(), nil
}

// Contains reports whether uri names a concept in the registry.
func (r *Registry) Contains(uri string) bool {
	_, ok := r.concepts[uri]
	return ok
}

// Scheme returns the concept scheme with the given URI.
func (r *Registry) Scheme(uri string) (ConceptScheme, error) {
	idx, ok := r.schemes[uri]
	if !ok {
		return ConceptScheme{}, &UnknownSchemeError{URI: uri}
	}
	return r.schemeOrder[idx].clone(), nil
}

// ByScheme returns the concepts of a scheme in declared member order.
// The sequence is lazy and may be ranged over any number of times.
func (r *Registry) ByScheme(schemeURI string) (iter.Seq[Concept], error) {
	idx, ok := r.schemes[schemeURI]
	if !ok {
		return nil, &UnknownSchemeError{URI: schemeURI}
	}
	members := r.schemeOrder[idx].Members
	return func(yield func(Concept) bool) {
		for _, uri := range members {
			if !yield(r.order[r.concepts[uri]].clone()) {
				return
			}
		}
	}, nil
}

type labelQuery struct {
	alternates bool
	rdfsLabels bool
}

// LabelOption configures FindByLabel.
type LabelOption func(*labelQuery)

// WithoutAlternates restricts FindByLabel to preferred labels.
func WithoutAlternates() LabelOption {
	return func(q *labelQuery) { q.alternates = false }
}

// WithAlternates sets whether FindByLabel also matches alternate labels.
func WithAlternates(match bool) LabelOption {
	return func(q *labelQuery) { q.alternates = match }
}

// WithRDFSLabels makes FindByLabel also match the rdfs:label of concepts.
func WithRDFSLabels() LabelOption {
	return func(q *labelQuery) { q.rdfsLabels = true }
}

// FindByLabel returns the concepts whose preferred label, or by default
// alternate label, equals text byte for byte. Labels are not unique, so
// any number of concepts may match. Results follow load order.
func (r *Registry) FindByLabel(text string, opts ...LabelOption) []Concept {
	q := labelQuery{alternates: true}
	for _, opt := range opts {
		opt(&q)
	}

	hits := slices.Clone(r.prefIndex[text])
	if q.alternates {
		for _, idx := range r.altIndex[text] {
			hits = appendUnique(hits, idx)
		}
	}
	if q.rdfsLabels {
		for _, idx := range r.labelIndex[text] {
			hits = appendUnique(hits, idx)
		}
	}
	slices.Sort(hits)

	result := make([]Concept, 0, len(hits))
	for _, idx := range hits {
		result = append(result, r.order[idx].clone())
	}
	return result
}

// Concepts returns every concept in load order.
func (r *Registry) Concepts() []Concept {
	out := make([]Concept, len(r.order))
	for i, c := range r.order {
		out[i] = c.clone()
	}
	return out
}

// Schemes returns every concept scheme in load order.
func (r *Registry) Schemes() []ConceptScheme {
	out := make([]ConceptScheme, len(r.schemeOrder))
	for i, s := range r.schemeOrder {
		out[i] = s.clone()
	}
	return out
}

// Len returns the number of concepts.
func (r *Registry) Len() int {
	return len(r.order)
}

func appendUnique(s []int, v int) []int {
	if slices.Contains(s, v) {
		return s
	}
	return append(s, v)
}

func uniqueStrings(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if !slices.Contains(out, s) {
			out = append(out, s)
		}
	}
	return out
}
