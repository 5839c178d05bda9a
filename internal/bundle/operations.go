package bundle

import "context"

//go:generate mockgen -destination=mocks/mock_operations.go -package=mocks -source=operations.go Operations,SourceOperations

// Operations is the bundle management surface the engine drives. It is
// implemented by the host's bundle manager.
type Operations interface {
	// UpdateBundle installs the given version of a bundle, replacing the
	// currently installed one.
	UpdateBundle(ctx context.Context, bundleID, version string) error

	// ListInstalledBundles returns all locally installed bundles.
	ListInstalledBundles(ctx context.Context) ([]Installed, error)

	// GetBundleDetails returns the installed bundle with the given id, or an
	// error when it is not installed.
	GetBundleDetails(ctx context.Context, bundleID string) (*Installed, error)
}

// SourceInfo describes one configured bundle source.
type SourceInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// SourceOperations is the source management surface the engine drives.
type SourceOperations interface {
	// ListSources returns all configured sources.
	ListSources(ctx context.Context) ([]SourceInfo, error)

	// SyncSource refreshes the source's published data.
	SyncSource(ctx context.Context, sourceID string) error
}
