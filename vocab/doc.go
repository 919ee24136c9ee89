// Package vocab implements the controlled-vocabulary registry.
//
// A Registry holds SKOS concepts and the concept schemes that list them.
// It is built once from a Source and never mutated afterwards, so a
// *Registry can be shared by any number of goroutines without locking.
//
//	reg, err := vocab.Load(parser.FileSource("vocabs/appellation.ttl"))
//	if err != nil {
//	    return err
//	}
//	c, err := reg.Resolve("https://clscor.io/entity/type/appellation/forename")
//
// Loading validates the structure of the vocabulary: URIs are unique, every
// concept belongs to exactly one known scheme, and each scheme's member
// list (crm:P71_lists) and top-concept list (skos:hasTopConcept) name the
// same concepts. A failed load returns no registry at all.
//
// Label lookups are byte-exact. Casing and punctuation are never normalized.
package vocab
