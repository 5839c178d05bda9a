package sources

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHandler(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		cfg      SourceConfig
		wantType string
		wantErr  string
	}{
		{
			name:     "file source",
			cfg:      SourceConfig{ID: "local", File: &FileSource{Path: "/etc/hub.yaml"}},
			wantType: TypeFile,
		},
		{
			name:     "http source",
			cfg:      SourceConfig{ID: "remote", HTTP: &HTTPSource{URL: "https://hub.example/hub.yaml"}},
			wantType: TypeHTTP,
		},
		{
			name:     "git source",
			cfg:      SourceConfig{ID: "repo", Git: &GitSource{Repository: "https://git.example/hub.git"}},
			wantType: TypeGit,
		},
		{
			name:    "missing id",
			cfg:     SourceConfig{File: &FileSource{Path: "/etc/hub.yaml"}},
			wantErr: "source id is required",
		},
		{
			name:    "no location",
			cfg:     SourceConfig{ID: "empty"},
			wantErr: "exactly one of file, http, or git",
		},
		{
			name: "two locations",
			cfg: SourceConfig{
				ID:   "both",
				File: &FileSource{Path: "/etc/hub.yaml"},
				HTTP: &HTTPSource{URL: "https://hub.example/hub.yaml"},
			},
			wantErr: "exactly one of file, http, or git",
		},
		{
			name:    "invalid nested config",
			cfg:     SourceConfig{ID: "bad", Git: &GitSource{Branch: "main"}},
			wantErr: "repository URL cannot be empty",
		},
		{
			name:    "branch and tag together",
			cfg:     SourceConfig{ID: "bad", Git: &GitSource{Repository: "https://git.example/hub.git", Branch: "main", Tag: "v1"}},
			wantErr: "only one of branch or tag",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			h, err := NewHandler(tt.cfg, nil)
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantType, h.Type())
		})
	}
}

func TestGitHandler_DefaultPath(t *testing.T) {
	t.Parallel()

	h := NewGitHandler("https://git.example/hub.git", "", "", "", nil)
	require.NoError(t, h.Validate())
	assert.Equal(t, DefaultDefinitionFile, h.(*gitHandler).path)
}
