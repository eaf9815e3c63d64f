// internal/adapters/storage/local.go
package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ammerola/motofleet-be/internal/core/ports"
)

// LocalStorage implements ports.ObjectStorage on the local filesystem
type LocalStorage struct {
	basePath string
	logger   *slog.Logger
}

var _ ports.ObjectStorage = (*LocalStorage)(nil)

// NewLocalStorage creates a new local storage client rooted at basePath
func NewLocalStorage(basePath string, logger *slog.Logger) *LocalStorage {
	return &LocalStorage{
		basePath: basePath,
		logger:   logger.With(slog.String("storage", "local")),
	}
}

// Upload writes data to basePath/key, creating directories as needed
func (l *LocalStorage) Upload(ctx context.Context, key string, data io.Reader, contentType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	path := filepath.Join(l.basePath, filepath.FromSlash(key))
	if !strings.HasPrefix(path, filepath.Clean(l.basePath)+string(os.PathSeparator)) {
		return "", fmt.Errorf("invalid storage key %q", key)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".upload-*")
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("failed to move file into place: %w", err)
	}

	l.logger.DebugContext(ctx, "file stored", slog.String("path", path))
	return "file://" + filepath.ToSlash(path), nil
}
