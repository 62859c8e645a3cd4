// Package snapshot reads host snapshots from JSON, YAML or TOML files.
package snapshot

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/teranos/tagweb/errors"
	"github.com/teranos/tagweb/graph"
	"github.com/teranos/tagweb/version"
)

// Supported formats
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatTOML = "toml"
)

// File is the on-disk snapshot: the host data plus optional view defaults
type File struct {
	Tags      []graph.Tag      `json:"tags" yaml:"tags" toml:"tags"`
	Relations []graph.Relation `json:"relations" yaml:"relations" toml:"relations"`
	Websites  []graph.Website  `json:"websites" yaml:"websites" toml:"websites"`

	// Filter overrides the configured filter defaults when present
	Filter *graph.FilterState `json:"filter,omitempty" yaml:"filter,omitempty" toml:"filter,omitempty"`
	// Selected is the tag id highlighted from outside
	Selected string `json:"selected,omitempty" yaml:"selected,omitempty" toml:"selected,omitempty"`
	// Requires is a semver constraint on the tagweb build, e.g. ">= 0.4"
	Requires string `json:"requires,omitempty" yaml:"requires,omitempty" toml:"requires,omitempty"`
}

// Snapshot returns the host data part of the file
func (f *File) Snapshot() graph.Snapshot {
	return graph.Snapshot{
		Tags:      f.Tags,
		Relations: f.Relations,
		Websites:  f.Websites,
	}
}

// FormatFromPath derives the format from a file extension
func FormatFromPath(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	}
	return "", errors.NewUnsupportedFormatError(filepath.Ext(path), FormatJSON, FormatYAML, FormatTOML)
}

// Load reads, decodes and validates a snapshot file
func Load(path string) (*File, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read snapshot %s", path)
	}
	f, err := Parse(data, format)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load snapshot %s", path)
	}
	return f, nil
}

// Parse decodes and validates snapshot data in the given format
func Parse(data []byte, format string) (*File, error) {
	var f File
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&f); err != nil {
			return nil, errors.Wrap(err, "failed to decode JSON")
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, errors.Wrap(err, "failed to decode YAML")
		}
	case FormatTOML:
		if _, err := toml.Decode(string(data), &f); err != nil {
			return nil, errors.Wrap(err, "failed to decode TOML")
		}
	default:
		return nil, errors.NewUnsupportedFormatError(format, FormatJSON, FormatYAML, FormatTOML)
	}

	if err := f.Validate(); err != nil {
		return nil, err
	}
	if err := version.Get().Satisfies(f.Requires); err != nil {
		return nil, errors.Mark(err, errors.ErrInvalidSnapshot)
	}
	return &f, nil
}
