// Package storage persists vocabulary documents fetched from remote sources.
package storage

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"regexp"
	"time"
)

// Document is a stored vocabulary document.
type Document struct {
	// Name is the vocabulary name, e.g. "appellation".
	Name string `json:"name"`

	// MimeType selects the parser used to read Content.
	MimeType string `json:"mime_type"`

	// SourceURL is where the document was fetched from, if anywhere.
	SourceURL string `json:"source_url,omitempty"`

	Content []byte `json:"content"`

	// Hash is the hex SHA-256 of Content.
	Hash string `json:"hash"`

	FetchedAt time.Time `json:"fetched_at"`
}

// NewDocument creates a document and computes its content hash.
func NewDocument(name, mimeType, sourceURL string, content []byte) *Document {
	return &Document{
		Name:      name,
		MimeType:  mimeType,
		SourceURL: sourceURL,
		Content:   content,
		Hash:      ContentHash(content),
		FetchedAt: time.Now().UTC(),
	}
}

// ContentHash returns the hex SHA-256 of content.
func ContentHash(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// Store persists vocabulary documents keyed by name.
type Store interface {
	Put(ctx context.Context, doc *Document) error
	Get(ctx context.Context, name string) (*Document, error)
	List(ctx context.Context) ([]*Document, error)
	Delete(ctx context.Context, name string) error
	Close() error
}

// Names are used as NATS KV keys and bbolt keys, so they are restricted to
// a conservative character set.
var namePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]*$`)

// ValidateName checks that name can be used as a document key.
func ValidateName(name string) error {
	if !namePattern.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}
