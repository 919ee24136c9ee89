package export

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/c360studio/semstreams/vocabulary"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clscor/clscorgi/vocab"
	"github.com/clscor/clscorgi/vocab/parser"
	"github.com/clscor/clscorgi/vocabs"
	"github.com/clscor/clscorgi/vocabulary/clscor"
)

func appellation(t *testing.T) *vocab.Registry {
	t.Helper()
	reg, err := vocabs.Load("appellation")
	require.NoError(t, err)
	return reg
}

func newExporter(t *testing.T, profile Profile) *RDFExporter {
	t.Helper()
	e, err := NewRDFExporter(profile, "en")
	require.NoError(t, err)
	e.AddRegistry(appellation(t))
	return e
}

func TestNewRDFExporterUnknownProfile(t *testing.T) {
	_, err := NewRDFExporter("bfo", "en")
	assert.Error(t, err)
}

func TestExportUnsupportedFormat(t *testing.T) {
	_, err := newExporter(t, ProfileCRM).Export("rdfxml")
	assert.Error(t, err)
}

func TestExportTurtleRoundTrip(t *testing.T) {
	orig := appellation(t)
	out, err := newExporter(t, ProfileCRM).Export(FormatTurtle)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "@prefix clscor: <https://clscor.io/entity/type/> .\n@prefix crm:"),
		"prefixes are sorted")
	assert.Contains(t, out, "clscor:appellation\n    a crm:E32_Authority_Document, skos:ConceptScheme ;")
	assert.Contains(t, out, `skos:altLabel "given name"@en, "first name"@en ;`)
	assert.Contains(t, out, "skos:exactMatch <http://www.wikidata.org/entity/Q202444> .")

	back, err := vocab.Load(parser.BytesSource("appellation.ttl", []byte(out)))
	require.NoError(t, err)
	assert.Equal(t, orig.Concepts(), back.Concepts())
	assert.Equal(t, orig.Schemes(), back.Schemes())
}

func TestExportNTriplesRoundTrip(t *testing.T) {
	orig := appellation(t)
	e := newExporter(t, ProfileCRM)
	out, err := e.Export(FormatNTriples)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Len(t, lines, len(e.Triples()))
	assert.Contains(t, lines,
		"<https://clscor.io/entity/type/appellation/forename> <http://www.w3.org/2004/02/skos/core#prefLabel> \"forename\"@en .")

	back, err := vocab.Load(parser.BytesSource("appellation.nt", []byte(out)))
	require.NoError(t, err)
	assert.Equal(t, orig.Concepts(), back.Concepts())
}

func TestExportSKOSProfile(t *testing.T) {
	e := newExporter(t, ProfileSKOS)
	for _, tr := range e.Triples() {
		assert.NotEqual(t, clscor.CRMLists, tr.Predicate)
		assert.NotEqual(t, clscor.CRMIsListedIn, tr.Predicate)
		assert.NotEqual(t, clscor.RDFSLabel, tr.Predicate)
		if tr.Predicate == clscor.RDFType {
			assert.NotContains(t, tr.Object.IRI, clscor.NamespaceCRM)
		}
	}

	out, err := e.Export(FormatTurtle)
	require.NoError(t, err)
	assert.NotContains(t, out, "rdf-schema#label")
	assert.NotContains(t, out, "rdfs:label")

	orig := appellation(t)
	back, err := vocab.Load(parser.BytesSource("appellation.ttl", []byte(out)))
	require.NoError(t, err, "a skos export loads again")
	require.Equal(t, orig.Len(), back.Len())

	s, err := back.Scheme(clscor.AppellationScheme)
	require.NoError(t, err)
	assert.Equal(t, orig.Schemes()[0].Label, s.Label)
	assert.Equal(t, orig.Schemes()[0].Members, s.Members)
	for i, c := range back.Concepts() {
		assert.Equal(t, orig.Concepts()[i].PrefLabel, c.PrefLabel)
		assert.Empty(t, c.Label)
	}
}

func TestExportFollowsPredicateRegistration(t *testing.T) {
	orig := vocabulary.GetPredicateMetadata(clscor.ConceptDefinition)
	require.NotNil(t, orig)
	t.Cleanup(func() { vocabulary.RegisterPredicate(*orig) })

	vocabulary.Register(clscor.ConceptDefinition, vocabulary.WithIRI("https://example.org/note"))

	e, err := NewRDFExporter(ProfileSKOS, "en")
	require.NoError(t, err)
	e.AddConcept(vocab.Concept{
		URI:        "https://example.org/c",
		PrefLabel:  "c",
		Definition: "A concept.",
		InScheme:   "https://example.org/s",
	})
	out, err := e.Export(FormatNTriples)
	require.NoError(t, err)
	assert.Contains(t, out, `<https://example.org/c> <https://example.org/note> "A concept."@en .`)
	assert.NotContains(t, out, clscor.SKOSDefinition)
}

func TestExportJSONLD(t *testing.T) {
	out, err := newExporter(t, ProfileCRM).Export(FormatJSONLD)
	require.NoError(t, err)

	var doc struct {
		Context map[string]string `json:"@context"`
		Graph   []map[string]any  `json:"@graph"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))

	assert.Equal(t, clscor.NamespaceSKOS, doc.Context["skos"])
	require.Len(t, doc.Graph, 13)

	scheme := doc.Graph[0]
	assert.Equal(t, clscor.AppellationScheme, scheme["@id"])
	assert.Equal(t, []any{"crm:E32_Authority_Document", "skos:ConceptScheme"}, scheme["@type"])
	assert.Len(t, scheme["crm:P71_lists"], 12)

	forename := doc.Graph[1]
	assert.Equal(t, clscor.AppellationForename, forename["@id"])
	assert.Equal(t, []any{map[string]any{"@value": "forename", "@language": "en"}}, forename["skos:prefLabel"])
	assert.Equal(t, []any{map[string]any{"@id": clscor.AppellationScheme}}, forename["skos:inScheme"])
}

func TestExportUntaggedLiterals(t *testing.T) {
	e, err := NewRDFExporter(ProfileCRM, "")
	require.NoError(t, err)
	e.AddConcept(vocab.Concept{
		URI:       "https://example.org/c",
		PrefLabel: "say \"hi\"\n",
		InScheme:  "https://example.org/s",
	})

	out, err := e.Export(FormatNTriples)
	require.NoError(t, err)
	assert.Contains(t, out, `<https://example.org/c> <http://www.w3.org/2004/02/skos/core#prefLabel> "say \"hi\"\n" .`)
}

func TestCompactIRI(t *testing.T) {
	prefixes := clscor.Prefixes()

	tests := []struct {
		iri  string
		want string
		ok   bool
	}{
		{clscor.SKOSPrefLabel, "skos:prefLabel", true},
		{clscor.CRMIsListedIn, "crm:P71i_is_listed_in", true},
		{clscor.AppellationScheme, "clscor:appellation", true},
		{clscor.AppellationForename, clscor.AppellationForename, false},
		{"http://www.wikidata.org/entity/Q202444", "http://www.wikidata.org/entity/Q202444", false},
	}
	for _, tt := range tests {
		got, ok := compactIRI(prefixes, tt.iri)
		assert.Equal(t, tt.want, got)
		assert.Equal(t, tt.ok, ok, tt.iri)
	}
}

func TestFormatRegistry(t *testing.T) {
	info, ok := GetFormatInfo(FormatTurtle)
	require.True(t, ok)
	assert.Equal(t, ".ttl", info.Extension)
	assert.Equal(t, parser.MimeTurtle, info.MIMEType)

	_, ok = GetFormatInfo("rdfxml")
	assert.False(t, ok)

	assert.Equal(t, []string{"jsonld", "ntriples", "turtle"}, FormatNames())
}
