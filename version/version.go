// Package version carries build metadata injected with -ldflags.
package version

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/teranos/tagweb/errors"
)

// Set at build time:
//
//	go build -ldflags "-X github.com/teranos/tagweb/version.Version=v0.4.0 -X github.com/teranos/tagweb/version.CommitHash=$(git rev-parse HEAD)"
var (
	Version    = "dev"
	CommitHash = "dev"
	BuildTime  = "unknown"
)

// Info is a snapshot of the build metadata
type Info struct {
	Version    string `json:"version"`
	CommitHash string `json:"commit_hash"`
	BuildTime  string `json:"build_time"`
	GoVersion  string `json:"go_version"`
	Platform   string `json:"platform"`
}

// Get returns the build metadata of the running binary
func Get() Info {
	return Info{
		Version:    Version,
		CommitHash: CommitHash,
		BuildTime:  BuildTime,
		GoVersion:  runtime.Version(),
		Platform:   runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// IsDev reports whether the binary was built without a release tag.
// Versions that are not semantic versions count as dev builds.
func (i Info) IsDev() bool {
	_, err := semver.NewVersion(i.Version)
	return err != nil
}

// Short returns the abbreviated commit hash
func (i Info) Short() string {
	if len(i.CommitHash) >= 7 {
		return i.CommitHash[:7]
	}
	return i.CommitHash
}

// Label is the compact form shown in the live view and HTTP headers:
// the release tag, or "dev+<commit>" for untagged builds.
func (i Info) Label() string {
	if v, err := semver.NewVersion(i.Version); err == nil {
		return v.String()
	}
	if i.CommitHash == "" || i.CommitHash == "dev" {
		return "dev"
	}
	return "dev+" + i.Short()
}

// Satisfies checks the build against a semver constraint such as ">= 0.4".
// An empty constraint always passes, and so do dev builds, which cannot be
// ordered against releases.
func (i Info) Satisfies(constraint string) error {
	if strings.TrimSpace(constraint) == "" || i.IsDev() {
		return nil
	}
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return errors.Wrapf(err, "invalid version constraint %q", constraint)
	}
	v, _ := semver.NewVersion(i.Version)
	if !c.Check(v) {
		return errors.WithHint(
			errors.Newf("requires tagweb %s, but running %s", constraint, v),
			"upgrade tagweb or relax the requires field")
	}
	return nil
}

// ServerHeader is the value of the Server header on live view responses
func (i Info) ServerHeader() string {
	return "tagweb/" + i.Label()
}

func (i Info) String() string {
	return fmt.Sprintf("tagweb %s (commit %s, built %s)", i.Label(), i.Short(), i.BuildTime)
}
