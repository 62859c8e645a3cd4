package graph

import "strings"

// RelationType is the closed set of tag relation kinds
type RelationType string

const (
	RelationParent      RelationType = "parent"
	RelationChild       RelationType = "child"
	RelationSimilar     RelationType = "similar"
	RelationComplement  RelationType = "complement"
	RelationAlternative RelationType = "alternative"

	// RelationAll is the filter value that admits every relation type.
	// It is never a valid type on a Relation.
	RelationAll RelationType = "all"
)

// RelationTypeInfo holds display and physics metadata for a relation type
type RelationTypeInfo struct {
	Label       string  // Human-readable display name
	Color       string  // Link colour (hex)
	SpringScale float64 // Multiplier on the link spring force
}

// relationTypeTable is exhaustive over the RelationType constants.
// Only parent, similar and complement get distinct link colours.
var relationTypeTable = map[RelationType]RelationTypeInfo{
	RelationParent:      {Label: "Parent", Color: "#3b82f6", SpringScale: 1},
	RelationChild:       {Label: "Child", Color: "#6b7280", SpringScale: 1},
	RelationSimilar:     {Label: "Similar", Color: "#10b981", SpringScale: 1},
	RelationComplement:  {Label: "Complement", Color: "#f59e0b", SpringScale: 1},
	RelationAlternative: {Label: "Alternative", Color: "#6b7280", SpringScale: 1},
}

// fallbackRelationInfo is used for values outside the table
var fallbackRelationInfo = RelationTypeInfo{Label: "Other", Color: "#6b7280", SpringScale: 1}

// RelationTypes returns every relation type in display order
func RelationTypes() []RelationType {
	return []RelationType{
		RelationParent,
		RelationChild,
		RelationSimilar,
		RelationComplement,
		RelationAlternative,
	}
}

// ParseRelationType parses a relation type name, case-insensitively.
// "all" is accepted only when allowAll is set (filter values).
func ParseRelationType(s string, allowAll bool) (RelationType, bool) {
	t := RelationType(strings.ToLower(strings.TrimSpace(s)))
	if t == RelationAll {
		return t, allowAll
	}
	_, ok := relationTypeTable[t]
	return t, ok
}

// Valid reports whether t is one of the five relation types
func (t RelationType) Valid() bool {
	_, ok := relationTypeTable[t]
	return ok
}

// Info returns the display and physics metadata for t
func (t RelationType) Info() RelationTypeInfo {
	if info, ok := relationTypeTable[t]; ok {
		return info
	}
	return fallbackRelationInfo
}

func (t RelationType) String() string {
	return string(t)
}
