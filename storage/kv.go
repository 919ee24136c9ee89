package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/nats-io/nats.go/jetstream"
)

// DefaultBucket is the KV bucket vocabulary documents are stored in.
const DefaultBucket = "CLSCOR_VOCABS"

// KVStore stores documents in a NATS JetStream KV bucket.
type KVStore struct {
	kv jetstream.KeyValue
}

// NewKVStore creates a KVStore, creating the bucket if it doesn't exist.
func NewKVStore(ctx context.Context, js jetstream.JetStream, bucket string) (*KVStore, error) {
	if bucket == "" {
		bucket = DefaultBucket
	}
	kv, err := getOrCreateBucket(ctx, js, bucket)
	if err != nil {
		return nil, fmt.Errorf("create %s bucket: %w", bucket, err)
	}
	return &KVStore{kv: kv}, nil
}

func getOrCreateBucket(ctx context.Context, js jetstream.JetStream, name string) (jetstream.KeyValue, error) {
	kv, err := js.KeyValue(ctx, name)
	if err == nil {
		return kv, nil
	}
	return js.CreateKeyValue(ctx, jetstream.KeyValueConfig{
		Bucket:      name,
		Description: fmt.Sprintf("clscorgi %s storage", strings.ToLower(name)),
		History:     5, // Keep last 5 revisions of each vocabulary
	})
}

// Put stores a document, replacing any previous revision.
func (s *KVStore) Put(ctx context.Context, doc *Document) error {
	if err := ValidateName(doc.Name); err != nil {
		return err
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}

	if _, err := s.kv.Put(ctx, doc.Name, data); err != nil {
		return fmt.Errorf("store document: %w", err)
	}
	return nil
}

// Get retrieves a document by name.
func (s *KVStore) Get(ctx context.Context, name string) (*Document, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}

	entry, err := s.kv.Get(ctx, name)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get document: %w", err)
	}

	var doc Document
	if err := json.Unmarshal(entry.Value(), &doc); err != nil {
		return nil, fmt.Errorf("unmarshal document: %w", err)
	}
	return &doc, nil
}

// List returns all documents sorted by name.
func (s *KVStore) List(ctx context.Context) ([]*Document, error) {
	keys, err := s.kv.Keys(ctx)
	if err != nil {
		if errors.Is(err, jetstream.ErrNoKeysFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("list document keys: %w", err)
	}
	sort.Strings(keys)

	docs := make([]*Document, 0, len(keys))
	for _, key := range keys {
		doc, err := s.Get(ctx, key)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				continue // Deleted between Keys and Get
			}
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// Delete removes a document.
func (s *KVStore) Delete(ctx context.Context, name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	if err := s.kv.Delete(ctx, name); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	return nil
}

// Close is a no-op; the NATS connection is owned by the caller.
func (s *KVStore) Close() error {
	return nil
}

// isNotFound checks if an error indicates a key was not found.
func isNotFound(err error) bool {
	if errors.Is(err, jetstream.ErrKeyNotFound) || errors.Is(err, jetstream.ErrKeyDeleted) {
		return true
	}
	return err != nil && strings.Contains(err.Error(), "key not found")
}
