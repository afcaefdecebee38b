package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestReleaseParts tests extraction of the numeric release segment.
//
// It verifies:
//   - Full and partial release segments extract correctly
//   - Epochs and v-prefixes are skipped
//   - Trailing pre-release markers do not affect the parts
func TestReleaseParts(t *testing.T) {
	cases := []struct {
		version string
		want    release
	}{
		{"2.1.3", release{2, 1, 3}},
		{"2.1", release{2, 1, 0}},
		{"2", release{2, 0, 0}},
		{"v1.4.2", release{1, 4, 2}},
		{"1!3.0.0", release{3, 0, 0}},
		{"2.1.0rc1", release{2, 1, 0}},
		{"0.9.12.post2", release{0, 9, 12}},
		{"garbage", release{}},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, releaseParts(tc.version), "version %q", tc.version)
	}
}

// TestIsPreRelease tests pre-release marker detection.
//
// It verifies pre-release and dev markers are detected while post releases,
// local versions, and plain releases are not.
func TestIsPreRelease(t *testing.T) {
	pre := []string{"2.1.0rc1", "1.0a2", "3.0.0b1", "2.0-alpha1", "1.5.beta2", "3.0.dev4", "2.0c1"}
	for _, v := range pre {
		assert.True(t, isPreRelease(v), "expected %q to be pre-release", v)
	}

	stable := []string{"2.1.0", "2.1.0.post1", "2.1.0+local.1", "1.0.0.0", "2.1"}
	for _, v := range stable {
		assert.False(t, isPreRelease(v), "expected %q not to be pre-release", v)
	}
}
