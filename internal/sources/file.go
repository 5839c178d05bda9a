package sources

import (
	"context"
	"crypto/sha256"
	"fmt"
	"os"
)

// fileHandler reads hub definitions from a local file.
type fileHandler struct {
	path string
}

// NewFileHandler creates a handler for a local definition file.
func NewFileHandler(path string) Handler {
	return &fileHandler{path: path}
}

func (*fileHandler) Type() string {
	return TypeFile
}

func (h *fileHandler) Validate() error {
	if h.path == "" {
		return fmt.Errorf("file path cannot be empty")
	}
	return nil
}

func (h *fileHandler) Fetch(_ context.Context) (*FetchResult, error) {
	if err := h.Validate(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(h.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("definition file not found: %s", h.path)
		}
		return nil, fmt.Errorf("failed to read definition file %s: %w", h.path, err)
	}

	def, err := parseDefinition(data)
	if err != nil {
		return nil, fmt.Errorf("invalid definition in %s: %w", h.path, err)
	}

	return &FetchResult{
		Definition: def,
		Hash:       fmt.Sprintf("%x", sha256.Sum256(data)),
	}, nil
}
