// Package photostore stores the uploaded image bytes behind a storage key.
package photostore

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound is returned when no blob exists for a storage key.
var ErrNotFound = errors.New("photo not found")

type PhotoStore interface {
	// Save writes r and returns the key the photo is stored under. prefix
	// groups keys, e.g. by owner.
	Save(ctx context.Context, prefix, mimeType string, r io.Reader) (storageKey string, err error)
	Get(ctx context.Context, storageKey string) (io.ReadCloser, string, error)
	Delete(ctx context.Context, storageKey string) error
}
