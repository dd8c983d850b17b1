// Package local stores album photos as flat files in one directory.
package local

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/vbonduro/photoalbum/internal/photostore"
)

// extensions maps the accepted image types to the file extension they are
// stored under.
var extensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
}

type LocalPhotoStore struct {
	basePath string
}

func NewLocalPhotoStore(basePath string) (*LocalPhotoStore, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create photo directory: %w", err)
	}
	return &LocalPhotoStore{basePath: basePath}, nil
}

// Save writes the photo to a temporary file and renames it into place, so a
// key never names a partially written photo.
func (s *LocalPhotoStore) Save(ctx context.Context, prefix, mimeType string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if prefix == "" || strings.ContainsAny(prefix, `/\`) || strings.Contains(prefix, "..") {
		return "", fmt.Errorf("invalid storage prefix %q", prefix)
	}
	ext, ok := extensions[mimeType]
	if !ok {
		return "", fmt.Errorf("unsupported image type %q", mimeType)
	}
	key := prefix + "_" + uuid.NewString() + ext

	tmp, err := os.CreateTemp(s.basePath, ".upload-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	committed := false
	defer func() {
		if committed {
			return
		}
		if err := os.Remove(tmp.Name()); err != nil && !errors.Is(err, os.ErrNotExist) {
			slog.Error("failed to remove temp photo", "path", tmp.Name(), "error", err)
		}
	}()

	if _, err := io.Copy(tmp, r); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("failed to write photo: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to close photo: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := os.Rename(tmp.Name(), filepath.Join(s.basePath, key)); err != nil {
		return "", fmt.Errorf("failed to store photo: %w", err)
	}
	committed = true
	return key, nil
}

// Get opens a stored photo. The MIME type comes from the key's extension.
func (s *LocalPhotoStore) Get(ctx context.Context, storageKey string) (io.ReadCloser, string, error) {
	if err := ctx.Err(); err != nil {
		return nil, "", err
	}
	filePath, err := s.resolve(storageKey)
	if err != nil {
		return nil, "", err
	}

	f, err := os.Open(filePath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, "", photostore.ErrNotFound
	}
	if err != nil {
		return nil, "", fmt.Errorf("failed to open photo: %w", err)
	}
	return f, mimeTypeOf(storageKey), nil
}

func (s *LocalPhotoStore) Delete(ctx context.Context, storageKey string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	filePath, err := s.resolve(storageKey)
	if err != nil {
		return err
	}

	err = os.Remove(filePath)
	if errors.Is(err, os.ErrNotExist) {
		return photostore.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete photo: %w", err)
	}
	return nil
}

// resolve maps a key to its file, rejecting keys that leave basePath.
func (s *LocalPhotoStore) resolve(storageKey string) (string, error) {
	absBase, err := filepath.Abs(s.basePath)
	if err != nil {
		return "", fmt.Errorf("invalid base path: %w", err)
	}
	absPath, err := filepath.Abs(filepath.Join(absBase, storageKey))
	if err != nil {
		return "", fmt.Errorf("invalid path: %w", err)
	}
	if filepath.Dir(absPath) != absBase {
		return "", fmt.Errorf("path traversal attempt: %q", storageKey)
	}
	return absPath, nil
}

func mimeTypeOf(storageKey string) string {
	ext := strings.ToLower(filepath.Ext(storageKey))
	for mimeType, e := range extensions {
		if e == ext {
			return mimeType
		}
	}
	return "application/octet-stream"
}
