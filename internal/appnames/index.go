// Package appnames translates opaque app identifiers (package ids) into
// human-readable names using a lookup table loaded once at startup.
package appnames

import (
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

// Index is immutable after construction and safe for concurrent reads.
type Index struct {
	names map[string]string
}

// Load reads an `id:displayname` lookup file from fs.
func Load(fs afero.Fs, path string) (*Index, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "read apps file")
	}
	defer f.Close()

	idx, err := Parse(f)
	if err != nil {
		return nil, errors.Wrap(err, "read apps file")
	}
	return idx, nil
}

// Parse builds an Index from r. Lines without a ':' are skipped; later
// duplicates overwrite earlier ones.
func Parse(r io.Reader) (*Index, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	names := make(map[string]string)
	for _, line := range strings.Split(string(content), "\n") {
		line = strings.TrimSuffix(line, "\r")
		id, name, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		names[id] = name
	}
	return &Index{names: names}, nil
}

// Get returns the display name for id.
func (i *Index) Get(id string) (string, bool) {
	name, ok := i.names[id]
	return name, ok
}

// NameOr returns the display name for id, or id itself when unknown.
func (i *Index) NameOr(id string) string {
	if name, ok := i.Get(id); ok {
		return name
	}
	return id
}

func (i *Index) Len() int {
	return len(i.names)
}
