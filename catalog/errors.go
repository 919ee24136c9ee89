package catalog

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownVocabulary is returned when a catalog has no vocabulary of the given name.
	ErrUnknownVocabulary = errors.New("unknown vocabulary")

	// ErrTermNotFound is wrapped by TermLookupError.
	ErrTermNotFound = errors.New("term not found")

	// ErrAmbiguousTerm is returned when a label matches more than one concept.
	ErrAmbiguousTerm = errors.New("ambiguous term")
)

// TermLookupError reports a label with no matching concept in a vocabulary.
type TermLookupError struct {
	Vocabulary string
	Label      string
}

func (e *TermLookupError) Error() string {
	return fmt.Sprintf("no term %q in vocabulary %s", e.Label, e.Vocabulary)
}

func (e *TermLookupError) Unwrap() error { return ErrTermNotFound }
