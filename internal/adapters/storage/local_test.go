package storage_test

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ammerola/motofleet-be/internal/adapters/storage"
)

func TestLocalStorage_Upload(t *testing.T) {
	dir := t.TempDir()
	store := storage.NewLocalStorage(dir, slog.New(slog.NewTextHandler(io.Discard, nil)))

	tests := []struct {
		name          string
		key           string
		body          string
		errorContains string
	}{
		{
			name: "writes_nested_key",
			key:  "maintenances/2025/03/receipt.json",
			body: `{"ok":true}`,
		},
		{
			name: "overwrites_existing_key",
			key:  "maintenances/2025/03/receipt.json",
			body: `{"ok":false}`,
		},
		{
			name:          "rejects_path_escape",
			key:           "../outside.json",
			body:          "x",
			errorContains: "invalid storage key",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			location, err := store.Upload(context.Background(), tt.key, strings.NewReader(tt.body), "application/json")

			if tt.errorContains != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorContains)
				return
			}
			require.NoError(t, err)
			assert.True(t, strings.HasPrefix(location, "file://"))

			data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(tt.key)))
			require.NoError(t, err)
			assert.Equal(t, tt.body, string(data))
		})
	}
}

func TestLocalStorage_Upload_CancelledContext(t *testing.T) {
	store := storage.NewLocalStorage(t.TempDir(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.Upload(ctx, "a.json", strings.NewReader("{}"), "")
	assert.ErrorIs(t, err, context.Canceled)
}
