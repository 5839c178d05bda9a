// Package bundle holds the core data model shared across the sync engine:
// bundle references, installed bundles, releases, and profile change sets.
package bundle

import "time"

// Scope is where a bundle is installed.
type Scope string

const (
	// ScopeUser marks a bundle installed for the current user
	ScopeUser Scope = "user"

	// ScopeWorkspace marks a bundle installed for the workspace
	ScopeWorkspace Scope = "workspace"
)

// Ref identifies a bundle at a specific version.
type Ref struct {
	ID      string `json:"id" yaml:"id"`
	Version string `json:"version" yaml:"version"`
}

// Installed describes one locally installed bundle.
type Installed struct {
	BundleID    string    `json:"bundleId"`
	Version     string    `json:"version"`
	Scope       Scope     `json:"scope"`
	InstalledAt time.Time `json:"installedAt"`

	// SourceID is the source the bundle was installed from, used for the
	// best-effort refresh before an update. Empty when unknown.
	SourceID string `json:"sourceId,omitempty"`

	// HubID and ProfileID locate the (hub, profile) pair the bundle belongs
	// to, for history recording. Empty for bundles installed outside a hub.
	HubID     string `json:"hubId,omitempty"`
	ProfileID string `json:"profileId,omitempty"`
}

// Release is one published bundle version.
type Release struct {
	BundleID     string    `json:"bundleId"`
	Version      string    `json:"version"`
	ReleaseDate  time.Time `json:"releaseDate"`
	DownloadURL  string    `json:"downloadUrl"`
	ReleaseNotes string    `json:"releaseNotes,omitempty"`
}

// UpdateCheckResult is one candidate update produced by an update check.
type UpdateCheckResult struct {
	BundleID          string    `json:"bundleId"`
	CurrentVersion    string    `json:"currentVersion"`
	LatestVersion     string    `json:"latestVersion"`
	ReleaseDate       time.Time `json:"releaseDate"`
	DownloadURL       string    `json:"downloadUrl"`
	AutoUpdateEnabled bool      `json:"autoUpdateEnabled"`
	ReleaseNotes      string    `json:"releaseNotes,omitempty"`
}

// ProfileMetadata is the display metadata of a profile.
type ProfileMetadata struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Icon        string `json:"icon,omitempty" yaml:"icon,omitempty"`
}

// VersionChange records a bundle moving from one version to another.
type VersionChange struct {
	ID         string `json:"id"`
	OldVersion string `json:"oldVersion"`
	NewVersion string `json:"newVersion"`
}

// ProfileChanges is the difference between two bundle sets of a profile.
type ProfileChanges struct {
	Added           []Ref           `json:"added,omitempty"`
	Updated         []VersionChange `json:"updated,omitempty"`
	Removed         []string        `json:"removed,omitempty"`
	MetadataChanged bool            `json:"metadataChanged,omitempty"`
}

// IsEmpty reports whether the change set contains no changes at all.
func (c ProfileChanges) IsEmpty() bool {
	return len(c.Added) == 0 && len(c.Updated) == 0 && len(c.Removed) == 0 && !c.MetadataChanged
}
