// Package sources fetches hub definitions from external locations. A hub
// definition lists the profiles a hub publishes and the latest release of
// every bundle it knows about; the engine never fetches bundle content
// itself.
package sources

import (
	"context"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/hubsync/bundlesync/internal/bundle"
)

// ProfileDefinition is one profile published by a hub.
type ProfileDefinition struct {
	ID       string                 `yaml:"id" json:"id"`
	Metadata bundle.ProfileMetadata `yaml:"metadata" json:"metadata"`
	Bundles  []bundle.Ref           `yaml:"bundles" json:"bundles"`
}

// ReleaseDefinition is one published bundle release in a hub definition.
type ReleaseDefinition struct {
	Bundle      string    `yaml:"bundle" json:"bundle"`
	Version     string    `yaml:"version" json:"version"`
	ReleaseDate time.Time `yaml:"releaseDate" json:"releaseDate"`
	DownloadURL string    `yaml:"downloadUrl" json:"downloadUrl"`
	Notes       string    `yaml:"notes,omitempty" json:"notes,omitempty"`
}

// Definition is the document a hub publishes.
type Definition struct {
	Name     string              `yaml:"name" json:"name"`
	Profiles []ProfileDefinition `yaml:"profiles" json:"profiles"`
	Releases []ReleaseDefinition `yaml:"releases" json:"releases"`
}

// FetchResult is the outcome of one definition fetch.
type FetchResult struct {
	// Definition is the parsed hub definition.
	Definition *Definition

	// Hash is the SHA-256 hash of the raw document, for cheap change
	// detection between fetches.
	Hash string
}

// Handler fetches a hub definition from one kind of location.
type Handler interface {
	// Type returns the source type the handler serves.
	Type() string

	// Validate checks the handler's configuration without any I/O.
	Validate() error

	// Fetch retrieves and parses the hub definition.
	Fetch(ctx context.Context) (*FetchResult, error)
}

// parseDefinition parses and validates a raw hub definition document.
func parseDefinition(data []byte) (*Definition, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("definition is empty")
	}

	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("failed to parse definition: %w", err)
	}

	for i, p := range def.Profiles {
		if p.ID == "" {
			return nil, fmt.Errorf("profile %d: id is required", i)
		}
		for j, ref := range p.Bundles {
			if ref.ID == "" || ref.Version == "" {
				return nil, fmt.Errorf("profile %q: bundle %d: id and version are required", p.ID, j)
			}
		}
	}
	for i, rel := range def.Releases {
		if rel.Bundle == "" || rel.Version == "" {
			return nil, fmt.Errorf("release %d: bundle and version are required", i)
		}
	}
	return &def, nil
}
