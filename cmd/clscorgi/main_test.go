package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clscor/clscorgi/catalog"
	"github.com/clscor/clscorgi/config"
	"github.com/clscor/clscorgi/vocab"
	"github.com/clscor/clscorgi/vocabs"
	"github.com/clscor/clscorgi/vocabulary/clscor"
)

// execute runs the root command with args and returns its stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := rootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "clscorgi.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func embeddedConfig(t *testing.T) string {
	return writeConfig(t, "vocabs:\n  - name: appellation\n    embedded: appellation\n")
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "clscorgi version "+Version+" (build: "+BuildTime+")\n", out)
}

func TestLookup(t *testing.T) {
	cfg := embeddedConfig(t)

	tests := []struct {
		name    string
		args    []string
		want    string
		wantErr error
	}{
		{name: "preferred", args: []string{"appellation", "forename"}, want: clscor.AppellationForename + "\n"},
		{name: "alternate", args: []string{"appellation", "given name"}, want: clscor.AppellationForename + "\n"},
		{name: "pref only", args: []string{"appellation", "given name", "--pref-only"}, wantErr: catalog.ErrTermNotFound},
		{name: "no match", args: []string{"appellation", "nonexistent"}, wantErr: catalog.ErrTermNotFound},
		{name: "unknown vocabulary", args: []string{"method", "reading"}, wantErr: catalog.ErrUnknownVocabulary},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, append([]string{"--config", cfg, "lookup"}, tt.args...)...)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestResolve(t *testing.T) {
	cfg := embeddedConfig(t)

	out, err := execute(t, "--config", cfg, "resolve", clscor.AppellationForename)
	require.NoError(t, err)
	assert.Contains(t, out, "pref_label: forename\n")
	assert.Contains(t, out, "- given name\n")

	out, err = execute(t, "--config", cfg, "resolve", "--json", clscor.AppellationForename)
	require.NoError(t, err)
	var c vocab.Concept
	require.NoError(t, json.Unmarshal([]byte(out), &c))
	assert.Equal(t, "forename", c.PrefLabel)
	assert.Equal(t, clscor.AppellationScheme, c.InScheme)

	_, err = execute(t, "--config", cfg, "resolve", clscor.AppellationScheme+"/nonexistent")
	assert.ErrorIs(t, err, vocab.ErrUnknownConcept)
}

func TestScheme(t *testing.T) {
	out, err := execute(t, "--config", embeddedConfig(t), "scheme", clscor.AppellationScheme)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 13)
	assert.Equal(t, "Appellation Types (appellation, 12 concepts)", lines[0])
	assert.Contains(t, lines[1], "forename")
	assert.Contains(t, lines[12], "artificial_title")

	_, err = execute(t, "--config", embeddedConfig(t), "scheme", "https://example.org/none")
	assert.ErrorIs(t, err, vocab.ErrUnknownScheme)
}

func TestValidate(t *testing.T) {
	content, err := vocabs.FS.ReadFile("appellation.ttl")
	require.NoError(t, err)

	dir := t.TempDir()
	a := filepath.Join(dir, "a.ttl")
	b := filepath.Join(dir, "b.ttl")
	require.NoError(t, os.WriteFile(a, content, 0644))
	require.NoError(t, os.WriteFile(b, content, 0644))

	out, err := execute(t, "validate", a)
	require.NoError(t, err)
	assert.Equal(t, "ok: 12 concepts in 1 schemes\n", out)

	_, err = execute(t, "validate", a, b)
	var due *vocab.DuplicateURIError
	require.ErrorAs(t, err, &due)
	assert.Equal(t, clscor.AppellationScheme, due.URI)

	_, err = execute(t, "validate", filepath.Join(dir, "missing.ttl"))
	assert.Error(t, err)
}

func TestExport(t *testing.T) {
	cfg := embeddedConfig(t)

	out, err := execute(t, "--config", cfg, "export", "--format", "ntriples")
	require.NoError(t, err)
	assert.Contains(t, out, "<"+clscor.AppellationForename+"> <"+clscor.SKOSPrefLabel+"> \"forename\"@en .\n")

	path := filepath.Join(t.TempDir(), "out.ttl")
	_, err = execute(t, "--config", cfg, "export", "--vocab", "appellation", "-o", path)
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "@prefix skos:")

	_, err = execute(t, "--config", cfg, "export", "--format", "rdfxml")
	assert.ErrorContains(t, err, "unknown format")

	_, err = execute(t, "--config", cfg, "export", "--vocab", "method")
	assert.ErrorIs(t, err, catalog.ErrUnknownVocabulary)
}

func TestPullRequiresStore(t *testing.T) {
	_, err := execute(t, "--config", embeddedConfig(t), "pull")
	assert.ErrorContains(t, err, "storage.backend")
}

func TestPullThenLookupStored(t *testing.T) {
	content, err := vocabs.FS.ReadFile("appellation.ttl")
	require.NoError(t, err)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(content)
	}))
	defer srv.Close()

	db := filepath.Join(t.TempDir(), "vocabs.db")
	cfg := writeConfig(t, `vocabs:
  - name: names
    stored: true
storage:
  backend: bolt
  path: `+db+`
`)

	_, err = execute(t, "--config", cfg, "lookup", "names", "surname")
	assert.Error(t, err, "nothing pulled yet")

	out, err := execute(t, "--config", cfg, "pull", "--url", srv.URL+"/names.ttl")
	require.NoError(t, err)
	assert.Contains(t, out, "names")
	assert.Contains(t, out, "updated")

	out, err = execute(t, "--config", cfg, "lookup", "names", "family name")
	require.NoError(t, err)
	assert.Equal(t, clscor.AppellationSurname+"\n", out)
}

func TestAppOpenClosesOnFailure(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Storage.Backend = "etcd"

	closed := 0
	a := &app{cfg: cfg, logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	a.closers = append(a.closers, func() { closed++ })

	err := a.open(context.Background())
	require.Error(t, err)
	assert.Equal(t, 1, closed, "connections opened before the failure are closed")
	assert.Nil(t, a.store)

	a.Close()
	assert.Equal(t, 1, closed, "closers run once")
}

func TestMux(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics, err := catalog.NewMetrics(reg)
	require.NoError(t, err)

	appellation, err := vocabs.Load("appellation")
	require.NoError(t, err)
	live := catalog.NewLive(catalog.New(map[string]*vocab.Registry{"appellation": appellation}, catalog.WithMetrics(metrics)))

	srv := httptest.NewServer(newMux(live, reg))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/term?vocab=appellation&label=pen+name")
	require.NoError(t, err)
	var tr termResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&tr))
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, clscor.AppellationPseudonym, tr.URI)

	resp, err = http.Get(srv.URL + "/term?vocab=appellation&label=nickname")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	var health map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
	resp.Body.Close()
	assert.Equal(t, live.Current().Generation(), health["generation"])
	assert.Equal(t, map[string]any{"appellation": float64(12)}, health["concepts"])

	resp, err = http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	body := new(bytes.Buffer)
	_, _ = body.ReadFrom(resp.Body)
	resp.Body.Close()
	assert.Contains(t, body.String(), `clscorgi_catalog_term_lookups_total{outcome="hit",vocabulary="appellation"} 1`)
}
