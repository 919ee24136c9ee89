package parser

import (
	"bytes"
	"errors"
	"io"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/clscor/clscorgi/vocab"
)

// YAMLParser parses vocabulary definitions written as YAML:
//
//	schemes:
//	  - uri: https://clscor.io/entity/type/appellation
//	    label: Appellation Types
//	    lists: [https://clscor.io/entity/type/appellation/forename]
//	    top_concepts: [https://clscor.io/entity/type/appellation/forename]
//	concepts:
//	  - uri: https://clscor.io/entity/type/appellation/forename
//	    pref_label: forename
//	    alt_labels: [given name]
//	    in_scheme: [https://clscor.io/entity/type/appellation]
type YAMLParser struct{}

// NewYAMLParser creates a new YAML parser.
func NewYAMLParser() *YAMLParser {
	return &YAMLParser{}
}

// Parse decodes the document. Unknown fields are rejected.
func (p *YAMLParser) Parse(filename string, content []byte) (*vocab.Definitions, error) {
	origin := filepath.Base(filename)

	dec := yaml.NewDecoder(bytes.NewReader(content))
	dec.KnownFields(true)

	var defs vocab.Definitions
	if err := dec.Decode(&defs); err != nil && !errors.Is(err, io.EOF) {
		return nil, &vocab.MalformedVocabularyError{Origin: origin, Reason: "parse: " + err.Error()}
	}

	for i := range defs.Schemes {
		defs.Schemes[i].Origin = origin
	}
	for i := range defs.Concepts {
		defs.Concepts[i].Origin = origin
	}
	return &defs, nil
}

// CanParse returns true if this parser can handle the given MIME type.
func (p *YAMLParser) CanParse(mimeType string) bool {
	switch mimeType {
	case MimeYAML, "application/x-yaml", "text/yaml", "text/x-yaml":
		return true
	default:
		return false
	}
}

// MimeType returns the primary MIME type for this parser.
func (p *YAMLParser) MimeType() string {
	return MimeYAML
}
