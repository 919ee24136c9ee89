// Package vocabs bundles the CLSCor controlled vocabularies.
package vocabs

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/clscor/clscorgi/vocab"
	"github.com/clscor/clscorgi/vocab/parser"
)

//go:embed *.ttl
var FS embed.FS

// Names returns the names of the bundled vocabularies, sorted.
func Names() []string {
	entries, err := fs.ReadDir(FS, ".")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), path.Ext(e.Name())))
	}
	sort.Strings(names)
	return names
}

// Source returns the definition source of a bundled vocabulary.
func Source(name string) (vocab.Source, error) {
	file := name + ".ttl"
	content, err := FS.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("no bundled vocabulary %q", name)
	}
	return parser.BytesSource(file, content), nil
}

// Load builds a registry from a bundled vocabulary.
func Load(name string) (*vocab.Registry, error) {
	src, err := Source(name)
	if err != nil {
		return nil, err
	}
	return vocab.Load(src)
}
