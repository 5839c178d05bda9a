package versions

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompareVersions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		a        string
		b        string
		expected int
	}{
		{name: "equal versions", a: "1.0.0", b: "1.0.0", expected: 0},
		{name: "lower major", a: "1.0.0", b: "2.0.0", expected: -1},
		{name: "higher major", a: "2.0.0", b: "1.0.0", expected: 1},
		{name: "lower minor", a: "1.1.0", b: "1.2.0", expected: -1},
		{name: "higher patch", a: "1.0.2", b: "1.0.1", expected: 1},
		{name: "v prefix stripped", a: "v1.2.0", b: "1.2.0", expected: 0},
		{name: "v prefix compares", a: "v1.2.0", b: "v1.10.0", expected: -1},
		{name: "missing trailing component is zero", a: "1.2", b: "1.2.0", expected: 0},
		{name: "shorter but greater", a: "1.3", b: "1.2.9", expected: 1},
		{name: "longer but smaller", a: "1.2.0.1", b: "1.2.1", expected: -1},
		// Malformed, non-numeric components compare as 0.
		{name: "malformed component is zero", a: "1.x.0", b: "1.0.0", expected: 0},
		{name: "malformed loses to numeric", a: "1.x.0", b: "1.1.0", expected: -1},
		{name: "both malformed equal", a: "a.b", b: "0.0", expected: 0},
		{name: "empty versus zero", a: "", b: "0", expected: 0},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.expected, CompareVersions(tt.a, tt.b))
		})
	}
}

func TestIsUpdateAvailable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		installed string
		latest    string
		expected  bool
	}{
		{name: "newer patch available", installed: "1.0.0", latest: "1.0.1", expected: true},
		{name: "newer minor available", installed: "1.0.0", latest: "1.2.0", expected: true},
		{name: "same version", installed: "1.2.0", latest: "1.2.0", expected: false},
		{name: "installed ahead of latest", installed: "2.0.0", latest: "1.9.9", expected: false},
		{name: "v prefixed latest", installed: "1.0.0", latest: "v1.1.0", expected: true},
		{name: "numerically equal strings differ", installed: "1.2", latest: "1.2.0", expected: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.expected, IsUpdateAvailable(tt.installed, tt.latest))
		})
	}
}

// Antisymmetry: whenever a compares lower than b, the update relation must
// hold in exactly one direction.
func TestIsUpdateAvailable_Antisymmetry(t *testing.T) {
	t.Parallel()

	pairs := [][2]string{
		{"1.0.0", "1.2.0"},
		{"0.9", "1.0"},
		{"v1.0.0", "v1.0.1"},
		{"1.2.3", "2.0"},
	}

	for _, p := range pairs {
		assert.Negative(t, CompareVersions(p[0], p[1]))
		assert.True(t, IsUpdateAvailable(p[0], p[1]))
		assert.False(t, IsUpdateAvailable(p[1], p[0]))
	}
}
