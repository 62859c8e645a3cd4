package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRelationTypeTableIsExhaustive(t *testing.T) {
	for _, rt := range RelationTypes() {
		assert.True(t, rt.Valid(), "%s should be valid", rt)
		info := rt.Info()
		assert.NotEmpty(t, info.Label)
		assert.NotEmpty(t, info.Color)
		assert.Equal(t, 1.0, info.SpringScale)
	}
	assert.Len(t, relationTypeTable, len(RelationTypes()))
}

func TestRelationTypeColors(t *testing.T) {
	gray := RelationChild.Info().Color
	assert.NotEqual(t, gray, RelationParent.Info().Color)
	assert.NotEqual(t, gray, RelationSimilar.Info().Color)
	assert.NotEqual(t, gray, RelationComplement.Info().Color)
	assert.Equal(t, gray, RelationAlternative.Info().Color)
	assert.Equal(t, gray, RelationType("bogus").Info().Color)
}

func TestParseRelationType(t *testing.T) {
	rt, ok := ParseRelationType(" Parent ", false)
	assert.True(t, ok)
	assert.Equal(t, RelationParent, rt)

	_, ok = ParseRelationType("all", false)
	assert.False(t, ok)

	rt, ok = ParseRelationType("ALL", true)
	assert.True(t, ok)
	assert.Equal(t, RelationAll, rt)

	_, ok = ParseRelationType("sibling", true)
	assert.False(t, ok)
	assert.False(t, RelationAll.Valid())
}
