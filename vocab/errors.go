package vocab

import (
	"errors"
	"fmt"
)

// Sentinel errors for errors.Is checks. The typed errors below wrap them.
var (
	ErrMalformedVocabulary = errors.New("malformed vocabulary")
	ErrDuplicateURI        = errors.New("duplicate URI")
	ErrUnknownConcept      = errors.New("unknown concept")
	ErrUnknownScheme       = errors.New("unknown scheme")
)

// MalformedVocabularyError reports a structural violation found while loading.
type MalformedVocabularyError struct {
	// URI is the concept or scheme the violation was found on, if any.
	URI string
	// Origin names the document the definition came from, if known.
	Origin string
	// Reason describes the violation.
	Reason string
}

func (e *MalformedVocabularyError) Error() string {
	msg := "malformed vocabulary"
	if e.Origin != "" {
		msg += " (" + e.Origin + ")"
	}
	if e.URI != "" {
		msg += ": <" + e.URI + ">"
	}
	return msg + ": " + e.Reason
}

// Unwrap returns ErrMalformedVocabulary.
func (e *MalformedVocabularyError) Unwrap() error { return ErrMalformedVocabulary }

// DuplicateURIError reports two definitions sharing one URI.
type DuplicateURIError struct {
	URI string
	// First and Second describe the two clashing definitions.
	First  string
	Second string
}

func (e *DuplicateURIError) Error() string {
	return fmt.Sprintf("duplicate URI <%s>: defined as %s and again as %s", e.URI, e.First, e.Second)
}

// Unwrap returns ErrDuplicateURI.
func (e *DuplicateURIError) Unwrap() error { return ErrDuplicateURI }

// UnknownConceptError is returned when a concept URI is not in the registry.
type UnknownConceptError struct {
	URI string
}

func (e *UnknownConceptError) Error() string {
	return fmt.Sprintf("unknown concept <%s>", e.URI)
}

// Unwrap returns ErrUnknownConcept.
func (e *UnknownConceptError) Unwrap() error { return ErrUnknownConcept }

// UnknownSchemeError is returned when a scheme URI is not in the registry.
type UnknownSchemeError struct {
	URI string
}

func (e *UnknownSchemeError) Error() string {
	return fmt.Sprintf("unknown scheme <%s>", e.URI)
}

// Unwrap returns ErrUnknownScheme.
func (e *UnknownSchemeError) Unwrap() error { return ErrUnknownScheme }

func malformed(uri, origin, format string, args ...any) error {
	return &MalformedVocabularyError{URI: uri, Origin: origin, Reason: fmt.Sprintf(format, args...)}
}
