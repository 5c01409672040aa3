package migrate

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
)

// SeedCatalog is the default catalog document compiled into the binary.
//
//go:embed seed/catalog.json
var SeedCatalog []byte

// OpenSeed opens the catalog document at path, or the embedded one when path
// is empty.
func OpenSeed(path string) (io.ReadCloser, error) {
	if path == "" {
		return io.NopCloser(bytes.NewReader(SeedCatalog)), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open seed %q: %w", path, err)
	}
	return f, nil
}
