// Package versions provides version string comparison and build version
// information for the bundlesync application.
package versions

import (
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// CompareVersions compares two version strings and returns -1, 0, or 1 if a
// is respectively lower than, equal to, or greater than b.
//
// When both strings parse as semantic versions the comparison is semantic.
// Otherwise each string is compared component-wise: an optional leading "v"
// is stripped, the string is split on ".", and components are compared
// numerically left to right. A missing trailing component counts as 0, and so
// does a component that is not a number.
func CompareVersions(a, b string) int {
	if av, errA := semver.NewVersion(a); errA == nil {
		if bv, errB := semver.NewVersion(b); errB == nil {
			return av.Compare(bv)
		}
	}
	return compareNumeric(a, b)
}

// IsUpdateAvailable reports whether latest is strictly greater than installed.
func IsUpdateAvailable(installed, latest string) bool {
	return CompareVersions(installed, latest) < 0
}

func compareNumeric(a, b string) int {
	aParts := strings.Split(strings.TrimPrefix(a, "v"), ".")
	bParts := strings.Split(strings.TrimPrefix(b, "v"), ".")

	n := len(aParts)
	if len(bParts) > n {
		n = len(bParts)
	}

	for i := 0; i < n; i++ {
		av := componentValue(aParts, i)
		bv := componentValue(bParts, i)
		if av < bv {
			return -1
		}
		if av > bv {
			return 1
		}
	}
	return 0
}

// componentValue returns the numeric value of the i-th version component.
// Missing and malformed components both count as 0.
func componentValue(parts []string, i int) int {
	if i >= len(parts) {
		return 0
	}
	v, err := strconv.Atoi(strings.TrimSpace(parts[i]))
	if err != nil {
		return 0
	}
	return v
}
