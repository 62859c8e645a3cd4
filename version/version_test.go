package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLabel(t *testing.T) {
	tests := []struct {
		name string
		info Info
		want string
	}{
		{"release", Info{Version: "v0.4.0", CommitHash: "0123456789abcdef"}, "0.4.0"},
		{"dev with commit", Info{Version: "dev", CommitHash: "0123456789abcdef"}, "dev+0123456"},
		{"dev without commit", Info{Version: "dev", CommitHash: "dev"}, "dev"},
		{"empty version", Info{CommitHash: "abc"}, "dev+abc"},
		{"not semver", Info{Version: "nightly", CommitHash: "abc"}, "dev+abc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.info.Label())
			assert.Equal(t, "tagweb/"+tt.want, tt.info.ServerHeader())
		})
	}
}

func TestString(t *testing.T) {
	info := Info{Version: "v1.2.3", CommitHash: "deadbeefcafe", BuildTime: "2026-10-01T00:00:00Z"}
	assert.Equal(t, "tagweb 1.2.3 (commit deadbee, built 2026-10-01T00:00:00Z)", info.String())
	assert.False(t, info.IsDev())
}

func TestGet(t *testing.T) {
	info := Get()
	assert.Equal(t, Version, info.Version)
	assert.NotEmpty(t, info.GoVersion)
	assert.Contains(t, info.Platform, "/")
}

func TestSatisfies(t *testing.T) {
	release := Info{Version: "v0.4.2"}

	assert.NoError(t, release.Satisfies(""))
	assert.NoError(t, release.Satisfies(">= 0.4"))
	assert.NoError(t, release.Satisfies("~0.4.0"))

	err := release.Satisfies(">= 1.0")
	assert.ErrorContains(t, err, "requires tagweb >= 1.0, but running 0.4.2")

	assert.Error(t, release.Satisfies("not a constraint"))
	assert.NoError(t, Info{Version: "dev"}.Satisfies(">= 9.0"), "dev builds are not ordered")
}
