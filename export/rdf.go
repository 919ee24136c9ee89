// Package export serializes vocabulary registries to RDF.
package export

import (
	"fmt"
	"maps"
	"strings"

	"github.com/clscor/clscorgi/vocab"
	"github.com/clscor/clscorgi/vocabulary/clscor"
)

// Format specifies the output serialization format.
type Format string

const (
	// FormatTurtle produces Turtle (.ttl) output.
	FormatTurtle Format = "turtle"

	// FormatNTriples produces N-Triples (.nt) output.
	FormatNTriples Format = "ntriples"

	// FormatJSONLD produces JSON-LD (.jsonld) output.
	FormatJSONLD Format = "jsonld"
)

// Object is the object of a triple: an IRI or a literal with an optional
// language tag.
type Object struct {
	IRI   string
	Value string
	Lang  string
}

// IRI returns an IRI object.
func IRI(iri string) Object { return Object{IRI: iri} }

// Literal returns a literal object. An empty lang leaves it untagged.
func Literal(value, lang string) Object { return Object{Value: value, Lang: lang} }

// IsIRI reports whether o is an IRI.
func (o Object) IsIRI() bool { return o.IRI != "" }

// Triple represents a semantic triple for export.
type Triple struct {
	Subject   string
	Predicate string
	Object    Object
}

// Node is a subject with its types and predicate-object pairs.
type Node struct {
	IRI     string
	Types   []string
	Triples []Triple
}

// add appends a triple for a registered clscor predicate name.
func (n *Node) add(predicate string, obj Object) {
	n.Triples = append(n.Triples, Triple{Subject: n.IRI, Predicate: clscor.PredicateIRI(predicate), Object: obj})
}

// RDFExporter exports registries to RDF with a configurable profile.
type RDFExporter struct {
	profile  ProfileConfig
	language string
	nodes    []Node
	prefixes map[string]string
}

// NewRDFExporter creates a new RDF exporter. Labels are tagged with
// language; an empty language writes untagged literals.
func NewRDFExporter(profile Profile, language string) (*RDFExporter, error) {
	cfg, ok := GetProfile(profile)
	if !ok {
		return nil, fmt.Errorf("unknown export profile: %s", profile)
	}
	return &RDFExporter{
		profile:  cfg,
		language: language,
		prefixes: clscor.Prefixes(),
	}, nil
}

// SetPrefix sets a namespace prefix used by Turtle and JSON-LD output.
func (e *RDFExporter) SetPrefix(prefix, iri string) {
	e.prefixes[prefix] = iri
}

// AddRegistry adds every scheme and concept of reg, schemes first, in load order.
func (e *RDFExporter) AddRegistry(reg *vocab.Registry) {
	for _, s := range reg.Schemes() {
		e.AddScheme(s)
	}
	for _, c := range reg.Concepts() {
		e.AddConcept(c)
	}
}

// AddScheme adds a concept scheme node. The crm profile writes the label
// as rdfs:label and the members as crm:P71_lists; the skos profile writes
// skos:prefLabel. Both write skos:hasTopConcept.
func (e *RDFExporter) AddScheme(s vocab.ConceptScheme) {
	n := Node{IRI: s.URI, Types: e.profile.schemeTypes()}
	if s.Label != "" {
		if e.profile.IncludeCRM {
			n.add(clscor.SchemeLabel, Literal(s.Label, e.language))
		} else {
			n.add(clscor.SchemePrefLabel, Literal(s.Label, e.language))
		}
	}
	if e.profile.IncludeCRM {
		for _, m := range s.Members {
			n.add(clscor.SchemeLists, IRI(m))
		}
	}
	for _, m := range s.Members {
		n.add(clscor.SchemeHasTopConcept, IRI(m))
	}
	e.nodes = append(e.nodes, n)
}

// AddConcept adds a concept node.
func (e *RDFExporter) AddConcept(c vocab.Concept) {
	n := Node{IRI: c.URI, Types: e.profile.conceptTypes()}
	if e.profile.IncludeCRM {
		if c.Label != "" {
			n.add(clscor.ConceptLabel, Literal(c.Label, e.language))
		}
		n.add(clscor.ConceptListedIn, IRI(c.InScheme))
	}
	n.add(clscor.ConceptInScheme, IRI(c.InScheme))
	n.add(clscor.ConceptTopConceptOf, IRI(c.InScheme))
	if c.Definition != "" {
		n.add(clscor.ConceptDefinition, Literal(c.Definition, e.language))
	}
	n.add(clscor.ConceptPrefLabel, Literal(c.PrefLabel, e.language))
	for _, alt := range c.AltLabels {
		n.add(clscor.ConceptAltLabel, Literal(alt, e.language))
	}
	if c.ExactMatch != "" {
		n.add(clscor.ConceptExactMatch, IRI(c.ExactMatch))
	}
	e.nodes = append(e.nodes, n)
}

// Triples returns every triple, type assertions included, in export order.
func (e *RDFExporter) Triples() []Triple {
	var out []Triple
	for _, n := range e.nodes {
		for _, t := range n.Types {
			out = append(out, Triple{Subject: n.IRI, Predicate: clscor.RDFType, Object: IRI(t)})
		}
		out = append(out, n.Triples...)
	}
	return out
}

// Export serializes all nodes to the specified format.
func (e *RDFExporter) Export(format Format) (string, error) {
	switch format {
	case FormatTurtle:
		return e.toTurtle(), nil
	case FormatNTriples:
		return e.toNTriples(), nil
	case FormatJSONLD:
		return e.toJSONLD()
	default:
		return "", fmt.Errorf("unsupported format: %s", format)
	}
}

// toTurtle serializes to Turtle, one block per node.
func (e *RDFExporter) toTurtle() string {
	w := NewTurtleWriter(e.prefixes)
	w.WritePrefixes()

	for _, n := range e.nodes {
		w.WriteSubject(n.IRI)
		w.WriteTypes(n.Types, len(n.Triples) == 0)

		// Consecutive objects of one predicate share a line
		for i := 0; i < len(n.Triples); {
			j := i
			objects := []Object{}
			for j < len(n.Triples) && n.Triples[j].Predicate == n.Triples[i].Predicate {
				objects = append(objects, n.Triples[j].Object)
				j++
			}
			w.WritePredicate(n.Triples[i].Predicate, objects, j == len(n.Triples))
			i = j
		}
		w.WriteBlank()
	}
	return w.String()
}

// toNTriples serializes to N-Triples format.
func (e *RDFExporter) toNTriples() string {
	w := NewNTriplesWriter()
	for _, t := range e.Triples() {
		w.WriteTriple(t)
	}
	return w.String()
}

// toJSONLD serializes to JSON-LD with the exporter's prefixes as @context.
func (e *RDFExporter) toJSONLD() (string, error) {
	doc := &jsonldDocument{
		Context: maps.Clone(e.prefixes),
		Graph:   make([]jsonldNode, 0, len(e.nodes)),
	}
	for _, n := range e.nodes {
		node := jsonldNode{
			id:     n.IRI,
			types:  make([]string, len(n.Types)),
			values: make(map[string][]map[string]string),
		}
		for i, t := range n.Types {
			node.types[i], _ = compactIRI(e.prefixes, t)
		}
		for _, t := range n.Triples {
			key, _ := compactIRI(e.prefixes, t.Predicate)
			node.values[key] = append(node.values[key], jsonLDValue(t.Object))
		}
		doc.Graph = append(doc.Graph, node)
	}
	return doc.marshal()
}

// compactIRI abbreviates iri with the longest matching prefix when the
// remaining local name is safe to write unquoted. Otherwise iri is
// returned unchanged and ok is false.
func compactIRI(prefixes map[string]string, iri string) (name string, ok bool) {
	best, bestNS := "", ""
	for prefix, ns := range prefixes {
		if strings.HasPrefix(iri, ns) && len(ns) > len(bestNS) && isLocalName(iri[len(ns):]) {
			best, bestNS = prefix, ns
		}
	}
	if bestNS == "" {
		return iri, false
	}
	return best + ":" + iri[len(bestNS):], true
}

func isLocalName(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_':
		case i > 0 && (r >= '0' && r <= '9' || r == '-'):
		default:
			return false
		}
	}
	return true
}

func jsonLDValue(o Object) map[string]string {
	if o.IsIRI() {
		return map[string]string{"@id": o.IRI}
	}
	v := map[string]string{"@value": o.Value}
	if o.Lang != "" {
		v["@language"] = o.Lang
	}
	return v
}

// escapeString escapes special characters in strings for RDF serialization.
func escapeString(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	s = strings.ReplaceAll(s, "\n", "\\n")
	s = strings.ReplaceAll(s, "\r", "\\r")
	s = strings.ReplaceAll(s, "\t", "\\t")
	return s
}
