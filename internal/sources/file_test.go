package sources

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hubsync/bundlesync/internal/bundle"
)

const testDefinition = `
name: Example Hub
profiles:
  - id: default
    metadata:
      name: Default
      description: Everyday tooling
    bundles:
      - id: web-tools
        version: 1.0.0
      - id: db-tools
        version: 2.1.0
releases:
  - bundle: web-tools
    version: 1.2.0
    downloadUrl: https://hub.example/web-tools/1.2.0
  - bundle: db-tools
    version: 2.1.0
`

func writeDefinition(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "hub.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestFileHandler_Fetch(t *testing.T) {
	t.Parallel()

	h := NewFileHandler(writeDefinition(t, testDefinition))
	res, err := h.Fetch(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Example Hub", res.Definition.Name)
	require.Len(t, res.Definition.Profiles, 1)
	assert.Equal(t, "default", res.Definition.Profiles[0].ID)
	assert.Equal(t, []bundle.Ref{
		{ID: "web-tools", Version: "1.0.0"},
		{ID: "db-tools", Version: "2.1.0"},
	}, res.Definition.Profiles[0].Bundles)
	require.Len(t, res.Definition.Releases, 2)
	assert.Len(t, res.Hash, 64, "hash is hex-encoded sha256")
}

func TestFileHandler_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		handler Handler
		wantErr string
	}{
		{
			name:    "empty path",
			handler: NewFileHandler(""),
			wantErr: "path cannot be empty",
		},
		{
			name:    "missing file",
			handler: NewFileHandler(filepath.Join(t.TempDir(), "absent.yaml")),
			wantErr: "not found",
		},
		{
			name:    "malformed yaml",
			handler: NewFileHandler(writeDefinition(t, "profiles: [}")),
			wantErr: "failed to parse",
		},
		{
			name:    "profile without id",
			handler: NewFileHandler(writeDefinition(t, "profiles:\n  - metadata: {name: x}\n")),
			wantErr: "id is required",
		},
		{
			name:    "release without version",
			handler: NewFileHandler(writeDefinition(t, "releases:\n  - bundle: web-tools\n")),
			wantErr: "bundle and version are required",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := tt.handler.Fetch(context.Background())
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
