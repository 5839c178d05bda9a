package sources

import (
	"fmt"
	"log/slog"
)

// Source types accepted by NewHandler.
const (
	TypeFile = "file"
	TypeHTTP = "http"
	TypeGit  = "git"
)

// FileSource locates a definition on the local filesystem.
type FileSource struct {
	Path string `yaml:"path" json:"path"`
}

// HTTPSource locates a definition served over HTTP(S).
type HTTPSource struct {
	URL string `yaml:"url" json:"url"`
}

// GitSource locates a definition inside a git repository.
type GitSource struct {
	Repository string `yaml:"repository" json:"repository"`
	Branch     string `yaml:"branch,omitempty" json:"branch,omitempty"`
	Tag        string `yaml:"tag,omitempty" json:"tag,omitempty"`
	Path       string `yaml:"path,omitempty" json:"path,omitempty"`
}

// SourceConfig describes one hub definition source. Exactly one of File,
// HTTP, or Git must be set.
type SourceConfig struct {
	ID   string      `yaml:"id" json:"id"`
	Name string      `yaml:"name,omitempty" json:"name,omitempty"`
	File *FileSource `yaml:"file,omitempty" json:"file,omitempty"`
	HTTP *HTTPSource `yaml:"http,omitempty" json:"http,omitempty"`
	Git  *GitSource  `yaml:"git,omitempty" json:"git,omitempty"`
}

// Type returns the source type implied by the populated location, or "".
func (c *SourceConfig) Type() string {
	switch {
	case c.File != nil:
		return TypeFile
	case c.HTTP != nil:
		return TypeHTTP
	case c.Git != nil:
		return TypeGit
	}
	return ""
}

// NewHandler creates the handler for a source configuration and validates it.
func NewHandler(cfg SourceConfig, logger *slog.Logger) (Handler, error) {
	if cfg.ID == "" {
		return nil, fmt.Errorf("source id is required")
	}

	locations := 0
	for _, set := range []bool{cfg.File != nil, cfg.HTTP != nil, cfg.Git != nil} {
		if set {
			locations++
		}
	}
	if locations != 1 {
		return nil, fmt.Errorf("source %q: exactly one of file, http, or git must be set", cfg.ID)
	}

	var h Handler
	switch cfg.Type() {
	case TypeFile:
		h = NewFileHandler(cfg.File.Path)
	case TypeHTTP:
		h = NewHTTPHandler(cfg.HTTP.URL)
	case TypeGit:
		h = NewGitHandler(cfg.Git.Repository, cfg.Git.Branch, cfg.Git.Tag, cfg.Git.Path, logger)
	}

	if err := h.Validate(); err != nil {
		return nil, fmt.Errorf("source %q: %w", cfg.ID, err)
	}
	return h, nil
}
