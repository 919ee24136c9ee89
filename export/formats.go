package export

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/clscor/clscorgi/vocab/parser"
	"github.com/clscor/clscorgi/vocabulary/clscor"
)

// FormatInfo describes an export format.
type FormatInfo struct {
	Name        Format
	MIMEType    string
	Extension   string
	Description string
}

// FormatRegistry lists the export formats by name.
var FormatRegistry = map[Format]FormatInfo{
	FormatTurtle:   {FormatTurtle, parser.MimeTurtle, ".ttl", "Turtle, one block per scheme and concept"},
	FormatNTriples: {FormatNTriples, parser.MimeNTriples, ".nt", "N-Triples, one triple per line"},
	FormatJSONLD:   {FormatJSONLD, "application/ld+json", ".jsonld", "JSON-LD graph with prefix context"},
}

// GetFormatInfo returns metadata for a format.
func GetFormatInfo(format Format) (FormatInfo, bool) {
	info, ok := FormatRegistry[format]
	return info, ok
}

// FormatNames returns the names of all formats, sorted.
func FormatNames() []string {
	names := make([]string, 0, len(FormatRegistry))
	for f := range FormatRegistry {
		names = append(names, string(f))
	}
	sort.Strings(names)
	return names
}

// TurtleWriter accumulates Turtle output subject by subject. Callers pass
// last=true on the final predicate of a subject to close it with " .".
type TurtleWriter struct {
	prefixes map[string]string
	sb       strings.Builder
}

// NewTurtleWriter creates a new Turtle writer using prefixes.
// A nil map selects the CLSCor prefixes.
func NewTurtleWriter(prefixes map[string]string) *TurtleWriter {
	if prefixes == nil {
		prefixes = clscor.Prefixes()
	}
	return &TurtleWriter{prefixes: prefixes}
}

// SetPrefix sets a namespace prefix.
func (w *TurtleWriter) SetPrefix(prefix, iri string) {
	w.prefixes[prefix] = iri
}

// WritePrefixes writes the @prefix header in prefix order.
func (w *TurtleWriter) WritePrefixes() {
	keys := make([]string, 0, len(w.prefixes))
	for k := range w.prefixes {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, prefix := range keys {
		fmt.Fprintf(&w.sb, "@prefix %s: <%s> .\n", prefix, w.prefixes[prefix])
	}
	w.sb.WriteString("\n")
}

// WriteSubject starts a new subject block.
func (w *TurtleWriter) WriteSubject(iri string) {
	w.sb.WriteString(w.term(iri))
	w.sb.WriteString("\n")
}

// WriteTypes writes the type assertions of the current subject.
func (w *TurtleWriter) WriteTypes(typeIRIs []string, last bool) {
	if len(typeIRIs) == 0 {
		return
	}
	terms := make([]string, len(typeIRIs))
	for i, t := range typeIRIs {
		terms[i] = w.term(t)
	}
	fmt.Fprintf(&w.sb, "    a %s%s\n", strings.Join(terms, ", "), terminator(last))
}

// WritePredicate writes a predicate with one or more objects.
func (w *TurtleWriter) WritePredicate(predicateIRI string, objects []Object, last bool) {
	terms := make([]string, len(objects))
	for i, o := range objects {
		terms[i] = w.object(o)
	}
	fmt.Fprintf(&w.sb, "    %s %s%s\n", w.term(predicateIRI), strings.Join(terms, ", "), terminator(last))
}

// WriteBlank separates subject blocks.
func (w *TurtleWriter) WriteBlank() {
	w.sb.WriteString("\n")
}

// String returns the accumulated Turtle output.
func (w *TurtleWriter) String() string {
	return w.sb.String()
}

func (w *TurtleWriter) term(iri string) string {
	if name, ok := compactIRI(w.prefixes, iri); ok {
		return name
	}
	return "<" + iri + ">"
}

func (w *TurtleWriter) object(o Object) string {
	if o.IsIRI() {
		return w.term(o.IRI)
	}
	return formatLiteral(o)
}

func terminator(last bool) string {
	if last {
		return " ."
	}
	return " ;"
}

// formatLiteral formats a literal for Turtle and N-Triples output.
func formatLiteral(o Object) string {
	if o.Lang != "" {
		return fmt.Sprintf("\"%s\"@%s", escapeString(o.Value), o.Lang)
	}
	return fmt.Sprintf("\"%s\"", escapeString(o.Value))
}

// NTriplesWriter writes one fully expanded triple per line.
type NTriplesWriter struct {
	sb strings.Builder
}

func NewNTriplesWriter() *NTriplesWriter {
	return &NTriplesWriter{}
}

func (w *NTriplesWriter) WriteTriple(t Triple) {
	obj := formatLiteral(t.Object)
	if t.Object.IsIRI() {
		obj = "<" + t.Object.IRI + ">"
	}
	fmt.Fprintf(&w.sb, "<%s> <%s> %s .\n", t.Subject, t.Predicate, obj)
}

// String returns the accumulated N-Triples output.
func (w *NTriplesWriter) String() string {
	return w.sb.String()
}

type jsonldDocument struct {
	Context map[string]string `json:"@context"`
	Graph   []jsonldNode      `json:"@graph"`
}

// jsonldNode flattens its properties next to @id and @type.
type jsonldNode struct {
	id     string
	types  []string
	values map[string][]map[string]string
}

func (n jsonldNode) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(n.values)+2)
	m["@id"] = n.id
	if len(n.types) > 0 {
		m["@type"] = n.types
	}
	for k, v := range n.values {
		m[k] = v
	}
	return json.Marshal(m)
}

func (d *jsonldDocument) marshal() (string, error) {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal json-ld: %w", err)
	}
	return string(data) + "\n", nil
}
