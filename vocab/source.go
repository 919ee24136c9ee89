package vocab

// ConceptDef is a concept as declared by a definition source, before validation.
type ConceptDef struct {
	URI        string   `yaml:"uri"`
	Label      string   `yaml:"label,omitempty"`
	PrefLabel  string   `yaml:"pref_label"`
	AltLabels  []string `yaml:"alt_labels,omitempty"`
	Definition string   `yaml:"definition,omitempty"`
	ExactMatch string   `yaml:"exact_match,omitempty"`

	// InSchemes holds every scheme the source asserts. A valid concept has exactly one.
	InSchemes []string `yaml:"in_scheme"`

	// Origin names the document the definition came from.
	Origin string `yaml:"-"`
}

// SchemeDef is a concept scheme as declared by a definition source.
type SchemeDef struct {
	URI   string `yaml:"uri"`
	Label string `yaml:"label"`

	// Lists holds the crm:P71_lists members in declared order.
	Lists []string `yaml:"lists"`

	// TopConcepts holds the skos:hasTopConcept members.
	TopConcepts []string `yaml:"top_concepts"`

	Origin string `yaml:"-"`
}

// Definitions is the raw output of a definition source.
type Definitions struct {
	Schemes  []SchemeDef  `yaml:"schemes"`
	Concepts []ConceptDef `yaml:"concepts"`
}

// Append adds all definitions of other to d, keeping order.
func (d *Definitions) Append(other *Definitions) {
	if other == nil {
		return
	}
	d.Schemes = append(d.Schemes, other.Schemes...)
	d.Concepts = append(d.Concepts, other.Concepts...)
}

// Len returns the total number of definitions.
func (d *Definitions) Len() int {
	return len(d.Schemes) + len(d.Concepts)
}

// Source produces vocabulary definitions.
type Source interface {
	Definitions() (*Definitions, error)
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func() (*Definitions, error)

// Definitions calls f.
func (f SourceFunc) Definitions() (*Definitions, error) { return f() }

// StaticSource serves a fixed set of definitions.
func StaticSource(defs *Definitions) Source {
	return SourceFunc(func() (*Definitions, error) { return defs, nil })
}
