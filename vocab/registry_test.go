package vocab

import (
	"errors"
	"slices"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testScheme = "https://example.org/type/colour"
	testRed    = testScheme + "/red"
	testGreen  = testScheme + "/green"
	testBlue   = testScheme + "/blue"
)

func testDefinitions() *Definitions {
	return &Definitions{
		Schemes: []SchemeDef{{
			URI:         testScheme,
			Label:       "Colours",
			Lists:       []string{testRed, testGreen, testBlue},
			TopConcepts: []string{testBlue, testGreen, testRed},
		}},
		Concepts: []ConceptDef{
			{URI: testRed, Label: "red", PrefLabel: "red", AltLabels: []string{"crimson", "scarlet"}, Definition: "The colour of blood.", InSchemes: []string{testScheme}},
			{URI: testGreen, Label: "green", PrefLabel: "green", Definition: "The colour of grass.", ExactMatch: "http://www.wikidata.org/entity/Q3133", InSchemes: []string{testScheme}},
			{URI: testBlue, Label: "blue", PrefLabel: "blue", AltLabels: []string{}, InSchemes: []string{testScheme}},
		},
	}
}

func mustNew(t *testing.T, defs *Definitions) *Registry {
	t.Helper()
	r, err := New(defs)
	require.NoError(t, err)
	require.NotNil(t, r)
	return r
}

func TestLoad(t *testing.T) {
	t.Run("from source", func(t *testing.T) {
		r, err := Load(StaticSource(testDefinitions()))
		require.NoError(t, err)
		assert.Equal(t, 3, r.Len())
	})

	t.Run("source error is wrapped", func(t *testing.T) {
		boom := errors.New("boom")
		r, err := Load(SourceFunc(func() (*Definitions, error) { return nil, boom }))
		assert.Nil(t, r)
		assert.ErrorIs(t, err, boom)
	})

	t.Run("nil definitions give an empty registry", func(t *testing.T) {
		r, err := New(nil)
		require.NoError(t, err)
		assert.Equal(t, 0, r.Len())
		assert.Empty(t, r.Schemes())
	})
}

func TestLoadOneSidedMembership(t *testing.T) {
	t.Run("hasTopConcept only", func(t *testing.T) {
		defs := testDefinitions()
		defs.Schemes[0].Lists = nil
		r := mustNew(t, defs)

		s, err := r.Scheme(testScheme)
		require.NoError(t, err)
		assert.Equal(t, []string{testBlue, testGreen, testRed}, s.Members)
	})

	t.Run("lists only", func(t *testing.T) {
		defs := testDefinitions()
		defs.Schemes[0].TopConcepts = nil
		r := mustNew(t, defs)

		s, err := r.Scheme(testScheme)
		require.NoError(t, err)
		assert.Equal(t, []string{testRed, testGreen, testBlue}, s.Members)
	})
}

func TestResolveRoundTrip(t *testing.T) {
	r := mustNew(t, testDefinitions())

	for _, c := range r.Concepts() {
		got, err := r.Resolve(c.URI)
		require.NoError(t, err)
		assert.Equal(t, c, got)
	}
}

func TestResolveUnknown(t *testing.T) {
	r := mustNew(t, testDefinitions())

	_, err := r.Resolve(testScheme + "/purple")
	require.Error(t, err)

	var uce *UnknownConceptError
	require.ErrorAs(t, err, &uce)
	assert.Equal(t, testScheme+"/purple", uce.URI)
	assert.ErrorIs(t, err, ErrUnknownConcept)
	assert.False(t, r.Contains(testScheme+"/purple"))
	assert.True(t, r.Contains(testRed))
}

func TestResolveReturnsCopy(t *testing.T) {
	r := mustNew(t, testDefinitions())

	c, err := r.Resolve(testRed)
	require.NoError(t, err)
	c.AltLabels[0] = "mutated"
	c.PrefLabel = "mutated"

	again, err := r.Resolve(testRed)
	require.NoError(t, err)
	assert.Equal(t, "red", again.PrefLabel)
	assert.Equal(t, []string{"crimson", "scarlet"}, again.AltLabels)
}

func TestByScheme(t *testing.T) {
	r := mustNew(t, testDefinitions())

	seq, err := r.ByScheme(testScheme)
	require.NoError(t, err)

	var uris []string
	for c := range seq {
		uris = append(uris, c.URI)
	}
	assert.Equal(t, []string{testRed, testGreen, testBlue}, uris, "member order follows the scheme's list")

	t.Run("restartable", func(t *testing.T) {
		var again []string
		for c := range seq {
			again = append(again, c.URI)
		}
		assert.Equal(t, uris, again)
	})

	t.Run("early stop", func(t *testing.T) {
		var first []string
		for c := range seq {
			first = append(first, c.URI)
			break
		}
		assert.Equal(t, []string{testRed}, first)
	})

	t.Run("unknown scheme", func(t *testing.T) {
		seq, err := r.ByScheme("https://example.org/type/shape")
		assert.Nil(t, seq)
		var use *UnknownSchemeError
		require.ErrorAs(t, err, &use)
		assert.ErrorIs(t, err, ErrUnknownScheme)
	})
}

func TestSchemeSymmetry(t *testing.T) {
	r := mustNew(t, testDefinitions())

	for _, s := range r.Schemes() {
		seq, err := r.ByScheme(s.URI)
		require.NoError(t, err)

		var members []string
		for c := range seq {
			assert.Equal(t, s.URI, c.InScheme)
			members = append(members, c.URI)
		}

		var declaring []string
		for _, c := range r.Concepts() {
			if c.InScheme == s.URI {
				declaring = append(declaring, c.URI)
			}
		}

		assert.ElementsMatch(t, declaring, members)
		assert.ElementsMatch(t, s.Members, members)
	}
}

func TestScheme(t *testing.T) {
	r := mustNew(t, testDefinitions())

	s, err := r.Scheme(testScheme)
	require.NoError(t, err)
	assert.Equal(t, "Colours", s.Label)
	assert.Equal(t, []string{testRed, testGreen, testBlue}, s.Members)

	s.Members[0] = "mutated"
	s2, _ := r.Scheme(testScheme)
	assert.Equal(t, testRed, s2.Members[0])

	_, err = r.Scheme("https://example.org/none")
	assert.ErrorIs(t, err, ErrUnknownScheme)
}

func TestFindByLabel(t *testing.T) {
	r := mustNew(t, testDefinitions())

	tests := []struct {
		name  string
		label string
		opts  []LabelOption
		want  []string
	}{
		{"preferred label", "red", nil, []string{testRed}},
		{"alternate label", "scarlet", nil, []string{testRed}},
		{"alternate label disabled", "scarlet", []LabelOption{WithoutAlternates()}, []string{}},
		{"alternate label explicitly enabled", "crimson", []LabelOption{WithAlternates(true)}, []string{testRed}},
		{"case sensitive", "Red", nil, []string{}},
		{"no trimming", "red ", nil, []string{}},
		{"trailing punctuation is kept", "red.", nil, []string{}},
		{"unknown", "purple", nil, []string{}},
		{"empty", "", nil, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.FindByLabel(tt.label, tt.opts...)
			uris := make([]string, 0, len(got))
			for _, c := range got {
				uris = append(uris, c.URI)
			}
			assert.Equal(t, tt.want, uris)
		})
	}
}

func TestFindByLabelAmbiguous(t *testing.T) {
	defs := testDefinitions()
	// green shares an alternate label with red's preferred label
	defs.Concepts[1].AltLabels = []string{"red", "red"}
	// blue uses red's alternate label
	defs.Concepts[2].AltLabels = []string{"crimson"}
	r := mustNew(t, defs)

	got := r.FindByLabel("red")
	require.Len(t, got, 2)
	assert.Equal(t, testRed, got[0].URI)
	assert.Equal(t, testGreen, got[1].URI)

	assert.Len(t, r.FindByLabel("red", WithoutAlternates()), 1)

	got = r.FindByLabel("crimson")
	require.Len(t, got, 2)
	assert.Equal(t, testRed, got[0].URI)
	assert.Equal(t, testBlue, got[1].URI)
}

func TestFindByLabelRDFSLabels(t *testing.T) {
	defs := testDefinitions()
	defs.Concepts[2].Label = "azure"
	defs.Concepts[0].Label = "green"
	r := mustNew(t, defs)

	assert.Empty(t, r.FindByLabel("azure"), "rdfs:label is not matched by default")

	got := r.FindByLabel("azure", WithRDFSLabels())
	require.Len(t, got, 1)
	assert.Equal(t, testBlue, got[0].URI)

	got = r.FindByLabel("green", WithRDFSLabels())
	require.Len(t, got, 2)
	assert.Equal(t, testRed, got[0].URI, "results follow load order")
	assert.Equal(t, testGreen, got[1].URI)
}

func TestEmptyAlternateLabels(t *testing.T) {
	defs := testDefinitions()
	defs.Concepts[1].AltLabels = nil
	defs.Concepts[2].AltLabels = []string{}
	r := mustNew(t, defs)

	green, _ := r.Resolve(testGreen)
	blue, _ := r.Resolve(testBlue)
	assert.Nil(t, green.AltLabels)
	assert.Nil(t, blue.AltLabels)
	assert.False(t, blue.HasAltLabel(""))
}

func TestLoadMalformed(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Definitions)
	}{
		{
			name:   "concept references unknown scheme",
			modify: func(d *Definitions) { d.Concepts[0].InSchemes = []string{"https://example.org/type/shape"} },
		},
		{
			name:   "concept without scheme",
			modify: func(d *Definitions) { d.Concepts[0].InSchemes = nil },
		},
		{
			name: "concept in two schemes",
			modify: func(d *Definitions) {
				d.Schemes = append(d.Schemes, SchemeDef{URI: "https://example.org/type/shape"})
				d.Concepts[0].InSchemes = append(d.Concepts[0].InSchemes, "https://example.org/type/shape")
			},
		},
		{
			name:   "concept without preferred label",
			modify: func(d *Definitions) { d.Concepts[1].PrefLabel = "" },
		},
		{
			name:   "top concept missing from list",
			modify: func(d *Definitions) { d.Schemes[0].Lists = d.Schemes[0].Lists[:2] },
		},
		{
			name:   "listed concept missing from top concepts",
			modify: func(d *Definitions) { d.Schemes[0].TopConcepts = d.Schemes[0].TopConcepts[1:] },
		},
		{
			name: "scheme lists undefined concept",
			modify: func(d *Definitions) {
				d.Schemes[0].Lists = append(d.Schemes[0].Lists, testScheme+"/purple")
				d.Schemes[0].TopConcepts = append(d.Schemes[0].TopConcepts, testScheme+"/purple")
			},
		},
		{
			name: "scheme lists concept twice",
			modify: func(d *Definitions) {
				d.Schemes[0].Lists = append(d.Schemes[0].Lists, testRed)
			},
		},
		{
			name: "concept not listed by its scheme",
			modify: func(d *Definitions) {
				d.Schemes[0].Lists = d.Schemes[0].Lists[:2]
				d.Schemes[0].TopConcepts = slices.Clone(d.Schemes[0].Lists)
			},
		},
		{
			name: "scheme lists concept of another scheme",
			modify: func(d *Definitions) {
				other := "https://example.org/type/shape"
				d.Schemes = append(d.Schemes, SchemeDef{URI: other, Lists: []string{testBlue}, TopConcepts: []string{testBlue}})
			},
		},
		{
			name:   "concept without URI",
			modify: func(d *Definitions) { d.Concepts[0].URI = "" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defs := testDefinitions()
			tt.modify(defs)

			r, err := New(defs)
			assert.Nil(t, r, "no partial registry on failure")

			var mve *MalformedVocabularyError
			require.ErrorAs(t, err, &mve)
			assert.ErrorIs(t, err, ErrMalformedVocabulary)
			assert.NotEmpty(t, mve.Reason)
		})
	}
}

func TestLoadDuplicateURI(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Definitions)
	}{
		{
			name: "two concepts",
			modify: func(d *Definitions) {
				dup := d.Concepts[0]
				dup.PrefLabel = "rouge"
				dup.Origin = "second.ttl"
				d.Concepts = append(d.Concepts, dup)
			},
		},
		{
			name: "two schemes",
			modify: func(d *Definitions) {
				d.Schemes = append(d.Schemes, SchemeDef{URI: testScheme})
			},
		},
		{
			name: "concept and scheme",
			modify: func(d *Definitions) {
				d.Schemes = append(d.Schemes, SchemeDef{URI: testRed})
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defs := testDefinitions()
			tt.modify(defs)

			r, err := New(defs)
			assert.Nil(t, r)

			var due *DuplicateURIError
			require.ErrorAs(t, err, &due)
			assert.ErrorIs(t, err, ErrDuplicateURI)
			assert.NotErrorIs(t, err, ErrMalformedVocabulary)
		})
	}
}

func TestErrorMessages(t *testing.T) {
	err := &MalformedVocabularyError{URI: testRed, Origin: "colours.ttl", Reason: "bad"}
	assert.Equal(t, "malformed vocabulary (colours.ttl): <"+testRed+">: bad", err.Error())

	dup := &DuplicateURIError{URI: testRed, First: "concept", Second: "concept in b.ttl"}
	assert.Contains(t, dup.Error(), "concept in b.ttl")

	assert.Contains(t, (&UnknownConceptError{URI: testRed}).Error(), testRed)
	assert.Contains(t, (&UnknownSchemeError{URI: testScheme}).Error(), testScheme)
}

func TestConcurrentReaders(t *testing.T) {
	r := mustNew(t, testDefinitions())

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_, _ = r.Resolve(testGreen)
				_ = r.FindByLabel("scarlet")
				seq, _ := r.ByScheme(testScheme)
				for range seq {
				}
			}
		}()
	}
	wg.Wait()
}
