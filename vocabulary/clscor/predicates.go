package clscor

import "github.com/c360studio/semstreams/vocabulary"

// Concept predicates describe a single controlled vocabulary term.
const (
	// ConceptLabel is the generic rdfs:label of a term.
	ConceptLabel = "clscor.concept.label"

	// ConceptPrefLabel is the preferred label, unique per language within a scheme.
	ConceptPrefLabel = "clscor.concept.pref_label"

	// ConceptAltLabel is an alternate label. A term may have any number.
	ConceptAltLabel = "clscor.concept.alt_label"

	// ConceptDefinition is the human-readable definition text.
	ConceptDefinition = "clscor.concept.definition"

	// ConceptInScheme links a term to the one scheme it belongs to.
	ConceptInScheme = "clscor.concept.in_scheme"

	// ConceptTopConceptOf links a term to the scheme it is a top concept of.
	ConceptTopConceptOf = "clscor.concept.top_concept_of"

	// ConceptExactMatch links a term to an equivalent external identifier,
	// typically a Wikidata entity.
	ConceptExactMatch = "clscor.concept.exact_match"

	// ConceptListedIn links a term to the authority document listing it.
	ConceptListedIn = "clscor.concept.listed_in"
)

// Scheme predicates describe a controlled vocabulary as a whole.
const (
	// SchemeLabel is the scheme's display name.
	SchemeLabel = "clscor.scheme.label"

	// SchemePrefLabel is the scheme's preferred label, used when it has no
	// rdfs:label.
	SchemePrefLabel = "clscor.scheme.pref_label"

	// SchemeLists links the authority document to its member terms, in order.
	SchemeLists = "clscor.scheme.lists"

	// SchemeHasTopConcept links the scheme to its top concepts.
	// Must reference the same set as SchemeLists.
	SchemeHasTopConcept = "clscor.scheme.has_top_concept"
)

// PredicateIRIMap maps predicate names to the IRIs they are registered with.
var PredicateIRIMap = map[string]string{
	ConceptLabel:        RDFSLabel,
	ConceptPrefLabel:    SKOSPrefLabel,
	ConceptAltLabel:     SKOSAltLabel,
	ConceptDefinition:   SKOSDefinition,
	ConceptInScheme:     SKOSInScheme,
	ConceptTopConceptOf: SKOSTopConceptOf,
	ConceptExactMatch:   SKOSExactMatch,
	ConceptListedIn:     CRMIsListedIn,
	SchemeLabel:         RDFSLabel,
	SchemePrefLabel:     SKOSPrefLabel,
	SchemeLists:         CRMLists,
	SchemeHasTopConcept: SKOSHasTopConcept,
}

// ConceptPredicates lists the predicates that describe a concept.
var ConceptPredicates = []string{
	ConceptLabel, ConceptPrefLabel, ConceptAltLabel, ConceptDefinition,
	ConceptInScheme, ConceptTopConceptOf, ConceptExactMatch, ConceptListedIn,
}

// SchemePredicates lists the predicates that describe a concept scheme.
var SchemePredicates = []string{SchemeLabel, SchemePrefLabel, SchemeLists, SchemeHasTopConcept}

// PredicateIRI returns the IRI a predicate is registered with in the
// semstreams vocabulary registry. Unregistered names fall back to the
// CLSCor namespace.
func PredicateIRI(predicate string) string {
	if meta := vocabulary.GetPredicateMetadata(predicate); meta != nil && meta.StandardIRI != "" {
		return meta.StandardIRI
	}
	return Namespace + predicate
}

// ByIRI returns the given predicates keyed by their registered IRI.
// When two predicates share an IRI the first one wins.
func ByIRI(predicates ...string) map[string]string {
	out := make(map[string]string, len(predicates))
	for _, pred := range predicates {
		iri := PredicateIRI(pred)
		if _, ok := out[iri]; !ok {
			out[iri] = pred
		}
	}
	return out
}

func init() {
	registerConceptPredicates()
	registerSchemePredicates()
}

func registerConceptPredicates() {
	vocabulary.Register(ConceptLabel,
		vocabulary.WithDescription("Generic label of a vocabulary term"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(vocabulary.RdfsLabel))

	vocabulary.Register(ConceptPrefLabel,
		vocabulary.WithDescription("Preferred label of a vocabulary term"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(vocabulary.SkosPrefLabel))

	vocabulary.Register(ConceptAltLabel,
		vocabulary.WithDescription("Alternate label of a vocabulary term"),
		vocabulary.WithDataType("[]string"),
		vocabulary.WithIRI(vocabulary.SkosAltLabel))

	vocabulary.Register(ConceptDefinition,
		vocabulary.WithDescription("Human-readable definition of a vocabulary term"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(SKOSDefinition))

	vocabulary.Register(ConceptInScheme,
		vocabulary.WithDescription("Concept scheme the term belongs to"),
		vocabulary.WithDataType("iri"),
		vocabulary.WithIRI(SKOSInScheme))

	vocabulary.Register(ConceptTopConceptOf,
		vocabulary.WithDescription("Concept scheme the term is a top concept of"),
		vocabulary.WithDataType("iri"),
		vocabulary.WithIRI(SKOSTopConceptOf))

	vocabulary.Register(ConceptExactMatch,
		vocabulary.WithDescription("Equivalent identifier in an external knowledge base"),
		vocabulary.WithDataType("iri"),
		vocabulary.WithIRI(SKOSExactMatch))

	vocabulary.Register(ConceptListedIn,
		vocabulary.WithDescription("Authority document listing the term"),
		vocabulary.WithDataType("iri"),
		vocabulary.WithIRI(CRMIsListedIn))
}

func registerSchemePredicates() {
	vocabulary.Register(SchemeLabel,
		vocabulary.WithDescription("Display name of a concept scheme"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(vocabulary.RdfsLabel))

	vocabulary.Register(SchemePrefLabel,
		vocabulary.WithDescription("Preferred label of a concept scheme"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(vocabulary.SkosPrefLabel))

	vocabulary.Register(SchemeLists,
		vocabulary.WithDescription("Terms listed by the authority document, in declared order"),
		vocabulary.WithDataType("[]iri"),
		vocabulary.WithIRI(CRMLists))

	vocabulary.Register(SchemeHasTopConcept,
		vocabulary.WithDescription("Top concepts of the scheme"),
		vocabulary.WithDataType("[]iri"),
		vocabulary.WithIRI(SKOSHasTopConcept))
}
