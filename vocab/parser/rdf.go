package parser

import (
	"bytes"
	"errors"
	"io"
	"path/filepath"

	"github.com/knakk/rdf"

	"github.com/clscor/clscorgi/vocab"
	"github.com/clscor/clscorgi/vocabulary/clscor"
)

// DefaultLanguage is the label language accepted by the RDF parsers.
// Untagged literals are always accepted.
const DefaultLanguage = "en"

// RDFParser maps SKOS triples onto vocabulary definitions.
//
// Subjects typed skos:Concept become concept definitions and subjects typed
// skos:ConceptScheme become scheme definitions. A subject block is a run of
// consecutive triples sharing a subject; a repeated skos:Concept or
// skos:ConceptScheme type assertion within a run starts a new block. Every
// block of a typed subject is one definition, so a URI described twice
// yields two definitions and the registry rejects it as a duplicate.
//
// Predicates are matched through the IRIs registered for the clscor
// concept and scheme predicates.
type RDFParser struct {
	format   rdf.Format
	mimeType string
	aliases  []string

	// Language selects label literals. Empty accepts every language.
	Language string
}

// NewTurtleParser creates a parser for Turtle documents.
func NewTurtleParser() *RDFParser {
	return &RDFParser{
		format:   rdf.Turtle,
		mimeType: MimeTurtle,
		aliases:  []string{"application/x-turtle"},
		Language: DefaultLanguage,
	}
}

// NewNTriplesParser creates a parser for N-Triples documents.
func NewNTriplesParser() *RDFParser {
	return &RDFParser{
		format:   rdf.NTriples,
		mimeType: MimeNTriples,
		aliases:  []string{"text/plain+ntriples"},
		Language: DefaultLanguage,
	}
}

// CanParse returns true if this parser can handle the given MIME type.
func (p *RDFParser) CanParse(mimeType string) bool {
	if mimeType == p.mimeType {
		return true
	}
	for _, a := range p.aliases {
		if a == mimeType {
			return true
		}
	}
	return false
}

// MimeType returns the primary MIME type for this parser.
func (p *RDFParser) MimeType() string {
	return p.mimeType
}

type block struct {
	subject string
	triples []rdf.Triple
}

// Parse decodes the document and extracts concept and scheme definitions.
func (p *RDFParser) Parse(filename string, content []byte) (*vocab.Definitions, error) {
	origin := filepath.Base(filename)

	blocks, err := p.decodeBlocks(content)
	if err != nil {
		return nil, &vocab.MalformedVocabularyError{Origin: origin, Reason: "parse: " + err.Error()}
	}

	// Types are collected over the whole document so that a block without
	// an rdf:type still counts as a definition of its subject.
	isConcept := make(map[string]bool)
	isScheme := make(map[string]bool)
	for _, b := range blocks {
		for _, t := range b.triples {
			if t.Pred.String() != clscor.RDFType {
				continue
			}
			switch t.Obj.String() {
			case clscor.ClassConcept:
				isConcept[b.subject] = true
			case clscor.ClassConceptScheme:
				isScheme[b.subject] = true
			}
		}
	}

	conceptPreds := clscor.ByIRI(clscor.ConceptPredicates...)
	schemePreds := clscor.ByIRI(clscor.SchemePredicates...)

	defs := &vocab.Definitions{}
	for _, b := range blocks {
		if isScheme[b.subject] {
			defs.Schemes = append(defs.Schemes, p.schemeDef(b, origin, schemePreds))
		}
		if isConcept[b.subject] {
			cd, err := p.conceptDef(b, origin, conceptPreds)
			if err != nil {
				return nil, err
			}
			defs.Concepts = append(defs.Concepts, cd)
		}
	}
	return defs, nil
}

func (p *RDFParser) decodeBlocks(content []byte) ([]block, error) {
	dec := rdf.NewTripleDecoder(bytes.NewReader(content), p.format)

	var blocks []block
	typed := make(map[string]bool) // definition classes asserted in the current block
	for {
		t, err := dec.Decode()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if t.Subj.Type() != rdf.TermIRI {
			continue
		}
		subj := t.Subj.String()
		class := definitionClass(t)
		if n := len(blocks); n == 0 || blocks[n-1].subject != subj || (class != "" && typed[class]) {
			blocks = append(blocks, block{subject: subj})
			clear(typed)
		}
		if class != "" {
			typed[class] = true
		}
		last := &blocks[len(blocks)-1]
		last.triples = append(last.triples, t)
	}
	return blocks, nil
}

// definitionClass returns skos:Concept or skos:ConceptScheme when t asserts
// that type, and "" otherwise.
func definitionClass(t rdf.Triple) string {
	if t.Pred.String() != clscor.RDFType {
		return ""
	}
	switch o := t.Obj.String(); o {
	case clscor.ClassConcept, clscor.ClassConceptScheme:
		return o
	}
	return ""
}

// conceptDef maps a block onto a concept definition. preds maps predicate
// IRIs to clscor concept predicate names.
func (p *RDFParser) conceptDef(b block, origin string, preds map[string]string) (vocab.ConceptDef, error) {
	cd := vocab.ConceptDef{URI: b.subject, Origin: origin}

	var labels, prefs, defs literals
	for _, t := range b.triples {
		switch preds[t.Pred.String()] {
		case clscor.ConceptLabel:
			labels.add(t.Obj, p.Language)
		case clscor.ConceptPrefLabel:
			prefs.add(t.Obj, p.Language)
		case clscor.ConceptAltLabel:
			if v, ok := literalValue(t.Obj, p.Language); ok {
				cd.AltLabels = append(cd.AltLabels, v)
			}
		case clscor.ConceptDefinition:
			defs.add(t.Obj, p.Language)
		case clscor.ConceptInScheme:
			if iri, ok := iriValue(t.Obj); ok {
				cd.InSchemes = append(cd.InSchemes, iri)
			}
		case clscor.ConceptExactMatch:
			if iri, ok := iriValue(t.Obj); ok && cd.ExactMatch == "" {
				cd.ExactMatch = iri
			}
		}
	}

	best := prefs.best()
	if len(best) > 1 {
		return cd, &vocab.MalformedVocabularyError{
			URI:    b.subject,
			Origin: origin,
			Reason: "concept has more than one preferred label",
		}
	}
	cd.PrefLabel = first(best)
	cd.Label = first(labels.best())
	cd.Definition = first(defs.best())
	return cd, nil
}

func (p *RDFParser) schemeDef(b block, origin string, preds map[string]string) vocab.SchemeDef {
	sd := vocab.SchemeDef{URI: b.subject, Origin: origin}

	var labels, prefs literals
	for _, t := range b.triples {
		switch preds[t.Pred.String()] {
		case clscor.SchemeLabel:
			labels.add(t.Obj, p.Language)
		case clscor.SchemePrefLabel:
			prefs.add(t.Obj, p.Language)
		case clscor.SchemeLists:
			if iri, ok := iriValue(t.Obj); ok {
				sd.Lists = append(sd.Lists, iri)
			}
		case clscor.SchemeHasTopConcept:
			if iri, ok := iriValue(t.Obj); ok {
				sd.TopConcepts = append(sd.TopConcepts, iri)
			}
		}
	}

	sd.Label = first(labels.best())
	if sd.Label == "" {
		sd.Label = first(prefs.best())
	}
	return sd
}

// literals collects label candidates, preferring the requested language
// over untagged values.
type literals struct {
	tagged []string
	plain  []string
}

func (l *literals) add(obj rdf.Object, lang string) {
	lit, ok := obj.(rdf.Literal)
	if !ok {
		return
	}
	switch {
	case lit.Lang() == "":
		l.plain = append(l.plain, lit.String())
	case lang == "" || lit.Lang() == lang:
		l.tagged = append(l.tagged, lit.String())
	}
}

func (l *literals) best() []string {
	if len(l.tagged) > 0 {
		return l.tagged
	}
	return l.plain
}

func literalValue(obj rdf.Object, lang string) (string, bool) {
	lit, ok := obj.(rdf.Literal)
	if !ok {
		return "", false
	}
	if lit.Lang() != "" && lang != "" && lit.Lang() != lang {
		return "", false
	}
	return lit.String(), true
}

func iriValue(obj rdf.Object) (string, bool) {
	if obj.Type() != rdf.TermIRI {
		return "", false
	}
	return obj.String(), true
}

func first(s []string) string {
	if len(s) == 0 {
		return ""
	}
	return s[0]
}
