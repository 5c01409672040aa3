package catalog

import (
	"context"
	"io"
)

// SeedIfEmpty imports the document returned by open when the catalog has no
// restaurants yet. It reports whether an import ran.
func SeedIfEmpty(ctx context.Context, svc Service, open func() (io.ReadCloser, error)) (ImportSummary, bool, error) {
	existing, err := svc.List(ctx, "")
	if err != nil {
		return ImportSummary{}, false, err
	}
	if len(existing) > 0 {
		return ImportSummary{}, false, nil
	}
	summary, err := Seed(ctx, svc, open)
	if err != nil {
		return ImportSummary{}, false, err
	}
	return summary, true, nil
}

// Seed decodes and imports the catalog document returned by open.
func Seed(ctx context.Context, svc Service, open func() (io.ReadCloser, error)) (ImportSummary, error) {
	rc, err := open()
	if err != nil {
		return ImportSummary{}, err
	}
	defer rc.Close()
	doc, err := DecodeDocument(rc)
	if err != nil {
		return ImportSummary{}, err
	}
	return svc.Import(ctx, doc)
}
