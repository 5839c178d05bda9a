// Package diff computes the difference between a profile's current bundle set
// and the set published by a hub. All functions are pure: no I/O, no shared
// state, deterministic output.
package diff

import (
	"sort"

	"github.com/hubsync/bundlesync/internal/bundle"
)

// ComputeChanges diffs the current bundle set against the available one.
//
// A bundle appearing only in available is added; one appearing only in
// current is removed. A bundle present in both is updated when its version
// string differs exactly - string inequality, not semantic inequality, so a
// version that rewrites "1.2" as "1.2.0" is still reported as updated.
// Metadata is compared field by field; a nil metadata pointer counts as empty.
// Result slices are sorted by bundle id so the output is deterministic.
func ComputeChanges(
	current, available []bundle.Ref,
	currentMeta, availableMeta *bundle.ProfileMetadata,
) bundle.ProfileChanges {
	currentByID := make(map[string]bundle.Ref, len(current))
	for _, ref := range current {
		currentByID[ref.ID] = ref
	}
	availableByID := make(map[string]bundle.Ref, len(available))
	for _, ref := range available {
		availableByID[ref.ID] = ref
	}

	var changes bundle.ProfileChanges

	for _, ref := range available {
		existing, ok := currentByID[ref.ID]
		if !ok {
			changes.Added = append(changes.Added, ref)
			continue
		}
		if existing.Version != ref.Version {
			changes.Updated = append(changes.Updated, bundle.VersionChange{
				ID:         ref.ID,
				OldVersion: existing.Version,
				NewVersion: ref.Version,
			})
		}
	}

	for _, ref := range current {
		if _, ok := availableByID[ref.ID]; !ok {
			changes.Removed = append(changes.Removed, ref.ID)
		}
	}

	sort.Slice(changes.Added, func(i, j int) bool { return changes.Added[i].ID < changes.Added[j].ID })
	sort.Slice(changes.Updated, func(i, j int) bool { return changes.Updated[i].ID < changes.Updated[j].ID })
	sort.Strings(changes.Removed)

	changes.MetadataChanged = metadataChanged(currentMeta, availableMeta)

	return changes
}

// ApplyChanges applies a change set to a bundle set and returns the resulting
// set: added bundles are appended, updated bundles get their new version, and
// removed bundles are dropped. The input slice is not modified. The result is
// sorted by bundle id.
func ApplyChanges(current []bundle.Ref, changes bundle.ProfileChanges) []bundle.Ref {
	removed := make(map[string]struct{}, len(changes.Removed))
	for _, id := range changes.Removed {
		removed[id] = struct{}{}
	}
	newVersions := make(map[string]string, len(changes.Updated))
	for _, vc := range changes.Updated {
		newVersions[vc.ID] = vc.NewVersion
	}

	result := make([]bundle.Ref, 0, len(current)+len(changes.Added))
	for _, ref := range current {
		if _, ok := removed[ref.ID]; ok {
			continue
		}
		if v, ok := newVersions[ref.ID]; ok {
			ref.Version = v
		}
		result = append(result, ref)
	}
	result = append(result, changes.Added...)

	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

func metadataChanged(current, available *bundle.ProfileMetadata) bool {
	var c, a bundle.ProfileMetadata
	if current != nil {
		c = *current
	}
	if available != nil {
		a = *available
	}
	return c.Name != a.Name || c.Description != a.Description || c.Icon != a.Icon
}
