package graph

import (
	"github.com/teranos/tagweb/errors"
)

// FilterState selects which relations become visible links
type FilterState struct {
	StrengthThreshold float64      `json:"strength_threshold" yaml:"strength_threshold" toml:"strength_threshold"` // [0,1]
	RelationType      RelationType `json:"relation_type" yaml:"relation_type" toml:"relation_type"`                // "all" or one relation type
}

// DefaultFilter admits every relation
func DefaultFilter() FilterState {
	return FilterState{StrengthThreshold: 0, RelationType: RelationAll}
}

// Allows reports whether r passes the threshold and type filter.
// An empty RelationType is treated as "all".
func (f FilterState) Allows(r Relation) bool {
	if r.Strength < f.StrengthThreshold {
		return false
	}
	if f.RelationType == "" || f.RelationType == RelationAll {
		return true
	}
	return r.RelationType == f.RelationType
}

// Validate checks the threshold range and the relation type name
func (f FilterState) Validate() error {
	if f.StrengthThreshold < 0 || f.StrengthThreshold > 1 {
		return errors.NewInvalidConfigError("filter strength threshold must be in [0, 1], got %g", f.StrengthThreshold)
	}
	if f.RelationType != "" && f.RelationType != RelationAll && !f.RelationType.Valid() {
		return errors.WithHintf(
			errors.NewInvalidConfigError("unknown relation type filter %q", f.RelationType),
			"use \"all\" or one of %v", RelationTypes())
	}
	return nil
}
