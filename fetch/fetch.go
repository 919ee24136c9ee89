// Package fetch downloads vocabulary documents from remote URLs, validates
// them and stores them for later loading.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/c360studio/semstreams/pkg/retry"

	"github.com/clscor/clscorgi/storage"
	"github.com/clscor/clscorgi/vocab"
	"github.com/clscor/clscorgi/vocab/parser"
)

// DefaultURLs are the CLSCor vocabularies published on the project GitLab.
var DefaultURLs = []string{
	"https://gitlab.clsinfra.io/cls-infra/wp567/clscor/-/raw/main/vocabs/appellation_vocab/appellation.ttl",
	"https://gitlab.clsinfra.io/cls-infra/wp567/clscor/-/raw/main/vocabs/method_vocab/method.ttl",
}

// maxDocumentSize bounds how much of a response body is read.
const maxDocumentSize = 16 << 20

// StatusError is returned when a server answers with a non-2xx status.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fetch %s: unexpected status %d %s", e.URL, e.Code, http.StatusText(e.Code))
}

// Target is one remote vocabulary document.
type Target struct {
	// Name is the document name. Defaults to the URL file name without extension.
	Name string
	URL  string
}

// Result describes a pulled document.
type Result struct {
	Name     string
	URL      string
	Hash     string
	Concepts int
	Schemes  int

	// Changed is false when the stored document already had the same content.
	Changed bool
}

// Puller downloads and stores vocabulary documents.
type Puller struct {
	client  *http.Client
	store   storage.Store
	retry   retry.Config
	parsers *parser.Registry
	logger  *slog.Logger
}

// Option configures a Puller.
type Option func(*Puller)

// WithHTTPClient sets the HTTP client used for downloads.
func WithHTTPClient(c *http.Client) Option {
	return func(p *Puller) { p.client = c }
}

// WithRetry sets the retry policy for transient failures.
func WithRetry(cfg retry.Config) Option {
	return func(p *Puller) { p.retry = cfg }
}

// WithParsers sets the parser registry used to validate downloads, so that
// the label language matches the one the catalog loads with.
func WithParsers(r *parser.Registry) Option {
	return func(p *Puller) {
		if r != nil {
			p.parsers = r
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(p *Puller) {
		if l != nil {
			p.logger = l
		}
	}
}

// NewPuller creates a Puller writing to store.
func NewPuller(store storage.Store, opts ...Option) *Puller {
	p := &Puller{
		client:  &http.Client{Timeout: 30 * time.Second},
		store:   store,
		retry:   retry.DefaultConfig(),
		parsers: parser.DefaultRegistry,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// TargetsFromURLs builds targets named after each URL's file name.
func TargetsFromURLs(urls []string) ([]Target, error) {
	targets := make([]Target, 0, len(urls))
	for _, u := range urls {
		name, err := NameFromURL(u)
		if err != nil {
			return nil, err
		}
		targets = append(targets, Target{Name: name, URL: u})
	}
	return targets, nil
}

// NameFromURL derives a document name from the last path element of u.
func NameFromURL(u string) (string, error) {
	parsed, err := url.Parse(u)
	if err != nil {
		return "", fmt.Errorf("parse url %q: %w", u, err)
	}
	base := path.Base(parsed.Path)
	name := strings.TrimSuffix(base, path.Ext(base))
	if err := storage.ValidateName(name); err != nil {
		return "", fmt.Errorf("derive name from %q: %w", u, err)
	}
	return name, nil
}

// PullAll pulls every target. It stops at the first failure; documents
// stored before the failure are kept.
func (p *Puller) PullAll(ctx context.Context, targets []Target) ([]Result, error) {
	results := make([]Result, 0, len(targets))
	for _, t := range targets {
		res, err := p.Pull(ctx, t)
		if err != nil {
			return results, err
		}
		results = append(results, *res)
	}
	return results, nil
}

// Pull downloads one target, checks that it loads as a registry and stores it.
// Nothing is stored if the document does not validate.
func (p *Puller) Pull(ctx context.Context, t Target) (*Result, error) {
	if t.Name == "" {
		name, err := NameFromURL(t.URL)
		if err != nil {
			return nil, err
		}
		t.Name = name
	}
	if err := storage.ValidateName(t.Name); err != nil {
		return nil, err
	}

	var (
		content  []byte
		mimeType string
	)
	err := retry.Do(ctx, p.retry, func() error {
		var err error
		content, mimeType, err = p.download(ctx, t.URL)
		return err
	})
	if err != nil {
		p.logger.Warn("Vocabulary download failed",
			"name", t.Name,
			"url", t.URL,
			"error", err,
			"retryable", !retry.IsNonRetryable(err))
		return nil, err
	}

	filename := path.Base(t.URL)
	reg, err := vocab.Load(p.parsers.MimeSource(mimeType, filename, content))
	if err != nil {
		return nil, fmt.Errorf("validate %s: %w", t.URL, err)
	}

	doc := storage.NewDocument(t.Name, mimeType, t.URL, content)
	res := &Result{
		Name:     t.Name,
		URL:      t.URL,
		Hash:     doc.Hash,
		Concepts: reg.Len(),
		Schemes:  len(reg.Schemes()),
		Changed:  true,
	}

	prev, err := p.store.Get(ctx, t.Name)
	switch {
	case err == nil && prev.Hash == doc.Hash:
		res.Changed = false
		p.logger.Debug("Vocabulary unchanged", "name", t.Name, "hash", doc.Hash)
		return res, nil
	case err != nil && !errors.Is(err, storage.ErrNotFound):
		return nil, fmt.Errorf("read stored %s: %w", t.Name, err)
	}

	if err := p.store.Put(ctx, doc); err != nil {
		return nil, fmt.Errorf("store %s: %w", t.Name, err)
	}

	p.logger.Info("Pulled vocabulary",
		"name", t.Name,
		"url", t.URL,
		"concepts", res.Concepts,
		"hash", doc.Hash)
	return res, nil
}

func (p *Puller) download(ctx context.Context, u string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, "", retry.NonRetryable(fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Accept", strings.Join([]string{parser.MimeTurtle, parser.MimeNTriples, parser.MimeYAML}, ", "))

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("fetch %s: %w", u, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		serr := &StatusError{URL: u, Code: resp.StatusCode}
		// Client errors will not succeed on retry
		if resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
			return nil, "", retry.NonRetryable(serr)
		}
		return nil, "", serr
	}

	content, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize+1))
	if err != nil {
		return nil, "", fmt.Errorf("read body of %s: %w", u, err)
	}
	if len(content) > maxDocumentSize {
		return nil, "", retry.NonRetryable(fmt.Errorf("fetch %s: document exceeds %d bytes", u, maxDocumentSize))
	}

	return content, detectMimeType(u, resp.Header.Get("Content-Type")), nil
}

// detectMimeType prefers the URL extension, since raw file hosts commonly
// serve everything as text/plain.
func detectMimeType(u, contentType string) string {
	if parsed, err := url.Parse(u); err == nil {
		if mt := parser.MimeTypeFromExtension(path.Ext(parsed.Path)); parser.DefaultRegistry.GetByMimeType(mt) != nil {
			return mt
		}
	}
	if mt, _, err := mime.ParseMediaType(contentType); err == nil {
		if parser.DefaultRegistry.GetByMimeType(mt) != nil {
			return mt
		}
	}
	return parser.MimeTurtle
}
