package vocab

import "slices"

// Concept is a single controlled-vocabulary term.
type Concept struct {
	// URI identifies the concept.
	URI string `json:"uri" yaml:"uri"`

	// Label is the generic rdfs:label. Often equal to PrefLabel.
	Label string `json:"label,omitempty" yaml:"label,omitempty"`

	// PrefLabel is the preferred label.
	PrefLabel string `json:"pref_label" yaml:"pref_label"`

	// AltLabels are alternate labels in declaration order.
	AltLabels []string `json:"alt_labels,omitempty" yaml:"alt_labels,omitempty"`

	// Definition is the human-readable definition text.
	Definition string `json:"definition,omitempty" yaml:"definition,omitempty"`

	// ExactMatch is an optional equivalent external identifier.
	ExactMatch string `json:"exact_match,omitempty" yaml:"exact_match,omitempty"`

	// InScheme is the URI of the scheme the concept belongs to.
	InScheme string `json:"in_scheme" yaml:"in_scheme"`
}

// HasAltLabel reports whether label is one of the concept's alternate labels.
func (c Concept) HasAltLabel(label string) bool {
	return slices.Contains(c.AltLabels, label)
}

func (c Concept) clone() Concept {
	if len(c.AltLabels) == 0 {
		c.AltLabels = nil
	} else {
		c.AltLabels = slices.Clone(c.AltLabels)
	}
	return c
}

// ConceptScheme is a named collection of concepts forming one vocabulary.
type ConceptScheme struct {
	// URI identifies the scheme.
	URI string `json:"uri" yaml:"uri"`

	// Label is the scheme's display name.
	Label string `json:"label" yaml:"label"`

	// Members are the concept URIs the scheme lists, in declared order.
	Members []string `json:"members" yaml:"members"`
}

func (s ConceptScheme) clone() ConceptScheme {
	s.Members = slices.Clone(s.Members)
	return s
}
