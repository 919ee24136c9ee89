package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_GetByMimeType(t *testing.T) {
	r := NewRegistry()

	t.Run("direct match", func(t *testing.T) {
		p := r.GetByMimeType(MimeTurtle)
		require.NotNil(t, p)
		assert.Equal(t, MimeTurtle, p.MimeType())
	})

	t.Run("CanParse fallback", func(t *testing.T) {
		p := r.GetByMimeType("application/x-yaml")
		require.NotNil(t, p)
		assert.Equal(t, MimeYAML, p.MimeType())
	})

	t.Run("no parser for unknown type", func(t *testing.T) {
		assert.Nil(t, r.GetByMimeType("application/rdf+xml"))
	})
}

func TestRegistry_GetByExtension(t *testing.T) {
	r := NewRegistry()

	tests := []struct {
		filename string
		want     string
	}{
		{"appellation.ttl", MimeTurtle},
		{"APPELLATION.TTL", MimeTurtle},
		{"dump.nt", MimeNTriples},
		{"defs.yaml", MimeYAML},
		{"defs.yml", MimeYAML},
		{"vocab.rdf", ""},
		{"noextension", ""},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			p := r.GetByExtension(tt.filename)
			if tt.want == "" {
				assert.Nil(t, p)
				return
			}
			require.NotNil(t, p)
			assert.Equal(t, tt.want, p.MimeType())
		})
	}
}

func TestRegistry_Parse(t *testing.T) {
	r := NewRegistry()

	_, err := r.Parse("vocab.rdf", []byte("<rdf:RDF/>"))
	assert.Error(t, err)

	defs, err := r.Parse("colour.yaml", []byte(colourYAML))
	require.NoError(t, err)
	assert.Equal(t, 2, defs.Len())

	_, err = r.ParseMimeType("application/rdf+xml", "x", nil)
	assert.Error(t, err)
}

func TestRegistry_ListMimeTypes(t *testing.T) {
	assert.Equal(t, []string{MimeNTriples, MimeYAML, MimeTurtle}, NewRegistry().ListMimeTypes())
}

func TestExtensionFromMimeType(t *testing.T) {
	assert.Equal(t, ".ttl", ExtensionFromMimeType(MimeTurtle))
	assert.Equal(t, ".nt", ExtensionFromMimeType(MimeNTriples))
	assert.Equal(t, ".yaml", ExtensionFromMimeType("text/yaml"))
	assert.Equal(t, "", ExtensionFromMimeType("text/html"))
}
