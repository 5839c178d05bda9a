package sources

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/storage/memory"
)

// DefaultDefinitionFile is the definition path used when a git source does
// not name one.
const DefaultDefinitionFile = "hub.yaml"

// gitHandler fetches hub definitions from a git repository. Repositories are
// cloned shallowly into memory; nothing touches the local disk.
type gitHandler struct {
	repository string
	branch     string
	tag        string
	path       string
	logger     *slog.Logger
}

// NewGitHandler creates a handler for a definition kept in a git repository.
// path defaults to DefaultDefinitionFile when empty.
func NewGitHandler(repository, branch, tag, path string, logger *slog.Logger) Handler {
	if path == "" {
		path = DefaultDefinitionFile
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &gitHandler{
		repository: repository,
		branch:     branch,
		tag:        tag,
		path:       path,
		logger:     logger,
	}
}

func (*gitHandler) Type() string {
	return TypeGit
}

func (h *gitHandler) Validate() error {
	if h.repository == "" {
		return fmt.Errorf("git repository URL cannot be empty")
	}
	if h.branch != "" && h.tag != "" {
		return fmt.Errorf("only one of branch or tag may be specified")
	}
	return nil
}

func (h *gitHandler) Fetch(ctx context.Context) (*FetchResult, error) {
	if err := h.Validate(); err != nil {
		return nil, err
	}

	cloneOptions := &git.CloneOptions{
		URL:          h.repository,
		Depth:        1,
		SingleBranch: true,
	}
	if h.branch != "" {
		cloneOptions.ReferenceName = plumbing.NewBranchReferenceName(h.branch)
	} else if h.tag != "" {
		cloneOptions.ReferenceName = plumbing.NewTagReferenceName(h.tag)
	}

	start := time.Now()
	fs := memfs.New()
	_, err := git.CloneContext(ctx, memory.NewStorage(), fs, cloneOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to clone %s: %w", h.repository, err)
	}
	h.logger.Debug("cloned hub repository",
		"repository", h.repository,
		"duration", time.Since(start).String())

	f, err := fs.Open(h.path)
	if err != nil {
		return nil, fmt.Errorf("definition %s not found in %s: %w", h.path, h.repository, err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxDefinitionSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s from %s: %w", h.path, h.repository, err)
	}

	def, err := parseDefinition(data)
	if err != nil {
		return nil, fmt.Errorf("invalid definition in %s at %s: %w", h.repository, h.path, err)
	}

	return &FetchResult{
		Definition: def,
		Hash:       fmt.Sprintf("%x", sha256.Sum256(data)),
	}, nil
}
