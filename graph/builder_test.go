package graph

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/tagweb/logger"
)

const (
	testWidth  = 800.0
	testHeight = 600.0
)

// createTestBuilder returns a builder with a fixed seed
func createTestBuilder(t *testing.T, seed int64) *Builder {
	t.Helper()
	return NewBuilder(rand.New(rand.NewSource(seed)), logger.Logger.Named("test"))
}

func sampleSnapshot() Snapshot {
	return Snapshot{
		Tags: []Tag{
			{ID: "go", Name: "golang", Color: "#00add8"},
			{ID: "rust", Name: "rust", Color: "#dea584"},
			{ID: "db", Name: "databases", Color: "#f59e0b"},
			{ID: "misc", Name: "misc"},
		},
		Relations: []Relation{
			{ID: "r1", FromTagID: "go", ToTagID: "rust", RelationType: RelationAlternative, Strength: 0.5},
			{ID: "r2", FromTagID: "go", ToTagID: "db", RelationType: RelationComplement, Strength: 0.9},
			{ID: "r3", FromTagID: "db", ToTagID: "rust", RelationType: RelationSimilar, Strength: 0.2},
			{ID: "r4", FromTagID: "go", ToTagID: "ghost", RelationType: RelationParent, Strength: 1.0},
		},
		Websites: []Website{
			{Tags: []string{"golang", "databases"}},
			{Tags: []string{"golang", "golang"}},
			{Tags: []string{"rust"}},
			{Tags: []string{"unknown"}},
		},
	}
}

func TestBuildEmptySnapshot(t *testing.T) {
	b := createTestBuilder(t, 1)
	g := b.Build(Snapshot{}, DefaultFilter(), nil, testWidth, testHeight)

	require.NotNil(t, g.Nodes)
	require.NotNil(t, g.Links)
	assert.Empty(t, g.Nodes)
	assert.Empty(t, g.Links)
	assert.Equal(t, 0, g.Meta.Stats.TotalNodes)
}

func TestBuildUsageAndRadius(t *testing.T) {
	b := createTestBuilder(t, 1)
	g := b.Build(sampleSnapshot(), DefaultFilter(), nil, testWidth, testHeight)
	idx := g.Index()

	// golang appears on two websites (the duplicate entry counts once)
	assert.Equal(t, 2, idx["go"].UsageCount)
	assert.Equal(t, 1, idx["rust"].UsageCount)
	assert.Equal(t, 1, idx["db"].UsageCount)
	assert.Equal(t, 0, idx["misc"].UsageCount)

	// 15 + 2*2 = 19 clamps to 20
	assert.Equal(t, 20.0, idx["go"].Radius)
	assert.Equal(t, 20.0, idx["misc"].Radius)
	assert.Equal(t, defaultTagColor, idx["misc"].Color)
}

func TestNodeRadius(t *testing.T) {
	tests := []struct {
		usage int
		want  float64
	}{
		{0, 20},
		{2, 20},
		{3, 21},
		{10, 35},
		{17, 49},
		{18, 50},
		{500, 50},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NodeRadius(tt.usage), "usage %d", tt.usage)
	}
}

func TestBuildIsDeterministicInDerivedFields(t *testing.T) {
	snap := sampleSnapshot()
	first := createTestBuilder(t, 1).Build(snap, DefaultFilter(), nil, testWidth, testHeight)
	second := createTestBuilder(t, 99).Build(snap, DefaultFilter(), nil, testWidth, testHeight)

	require.Len(t, second.Nodes, len(first.Nodes))
	for i := range first.Nodes {
		assert.Equal(t, first.Nodes[i].ID, second.Nodes[i].ID)
		assert.Equal(t, first.Nodes[i].Radius, second.Nodes[i].Radius)
		assert.Equal(t, first.Nodes[i].UsageCount, second.Nodes[i].UsageCount)
	}
}

func TestBuildInitialPositionsInsideBounds(t *testing.T) {
	b := createTestBuilder(t, 7)
	for i := 0; i < 20; i++ {
		g := b.Build(sampleSnapshot(), DefaultFilter(), nil, testWidth, testHeight)
		for _, n := range g.Nodes {
			assert.GreaterOrEqual(t, n.X, n.Radius)
			assert.LessOrEqual(t, n.X, testWidth-n.Radius)
			assert.GreaterOrEqual(t, n.Y, n.Radius)
			assert.LessOrEqual(t, n.Y, testHeight-n.Radius)
			assert.Zero(t, n.VX)
			assert.Zero(t, n.VY)
			assert.False(t, n.Pinned)
		}
	}
}

func TestBuildTinySurfaceCentresNodes(t *testing.T) {
	b := createTestBuilder(t, 1)
	g := b.Build(sampleSnapshot(), DefaultFilter(), nil, 30, 30)
	for _, n := range g.Nodes {
		assert.Equal(t, 15.0, n.X)
		assert.Equal(t, 15.0, n.Y)
	}
}

func TestBuildPreservesPreviousPositions(t *testing.T) {
	b := createTestBuilder(t, 1)
	snap := sampleSnapshot()

	first := b.Build(snap, DefaultFilter(), nil, testWidth, testHeight)
	goNode := first.Index()["go"]
	goNode.X, goNode.Y = 10, 20
	goNode.VX, goNode.VY = 1.5, -2

	second := b.Build(snap, FilterState{StrengthThreshold: 0.6, RelationType: RelationAll}, first.Nodes, testWidth, testHeight)
	rebuilt := second.Index()["go"]

	assert.NotSame(t, goNode, rebuilt, "rebuild must create new node objects")
	assert.Equal(t, 10.0, rebuilt.X)
	assert.Equal(t, 20.0, rebuilt.Y)
	assert.Equal(t, 1.5, rebuilt.VX)
	assert.Equal(t, -2.0, rebuilt.VY)

	for _, n := range first.Nodes {
		r := second.Index()[n.ID]
		assert.Equal(t, n.X, r.X, "node %s moved on rebuild", n.ID)
		assert.Equal(t, n.Y, r.Y, "node %s moved on rebuild", n.ID)
	}
}

func TestBuildRecomputesDerivedFieldsOnRebuild(t *testing.T) {
	b := createTestBuilder(t, 1)
	snap := sampleSnapshot()
	first := b.Build(snap, DefaultFilter(), nil, testWidth, testHeight)
	first.Index()["go"].Radius = 99
	first.Index()["go"].UsageCount = 42

	second := b.Build(snap, DefaultFilter(), first.Nodes, testWidth, testHeight)
	assert.Equal(t, 20.0, second.Index()["go"].Radius)
	assert.Equal(t, 2, second.Index()["go"].UsageCount)
}

func TestBuildDropsDanglingRelations(t *testing.T) {
	b := createTestBuilder(t, 1)
	g := b.Build(sampleSnapshot(), DefaultFilter(), nil, testWidth, testHeight)

	assert.Len(t, g.Links, 3)
	assert.Equal(t, 1, g.Meta.Stats.DroppedEdges)
	idx := g.Index()
	for _, l := range g.Links {
		assert.Same(t, idx[l.Source.ID], l.Source)
		assert.Same(t, idx[l.Target.ID], l.Target)
	}
}

func TestBuildFilterCorrectness(t *testing.T) {
	b := createTestBuilder(t, 1)
	snap := sampleSnapshot()

	for _, threshold := range []float64{0, 0.2, 0.5, 0.51, 0.9, 1} {
		g := b.Build(snap, FilterState{StrengthThreshold: threshold, RelationType: RelationAll}, nil, testWidth, testHeight)
		for _, l := range g.Links {
			assert.GreaterOrEqual(t, l.Strength, threshold)
		}
	}

	for _, rt := range RelationTypes() {
		g := b.Build(snap, FilterState{RelationType: rt}, nil, testWidth, testHeight)
		for _, l := range g.Links {
			assert.Equal(t, rt, l.RelationType)
		}
	}

	g := b.Build(snap, FilterState{RelationType: RelationComplement}, nil, testWidth, testHeight)
	require.Len(t, g.Links, 1)
	assert.Equal(t, "db", g.Links[0].Target.ID)
}

func TestBuildThresholdSweep(t *testing.T) {
	b := createTestBuilder(t, 1)
	snap := Snapshot{
		Tags: []Tag{{ID: "a", Name: "a"}, {ID: "b", Name: "b"}},
		Relations: []Relation{
			{ID: "r", FromTagID: "a", ToTagID: "b", RelationType: RelationSimilar, Strength: 0.5},
		},
	}

	low := b.Build(snap, FilterState{StrengthThreshold: 0, RelationType: RelationAll}, nil, testWidth, testHeight)
	assert.Len(t, low.Links, 1)

	high := b.Build(snap, FilterState{StrengthThreshold: 1.0, RelationType: RelationAll}, low.Nodes, testWidth, testHeight)
	assert.Empty(t, high.Links)
	assert.Len(t, high.Nodes, 2)
}

func TestBuildIsolatedNode(t *testing.T) {
	b := createTestBuilder(t, 1)
	g := b.Build(sampleSnapshot(), DefaultFilter(), nil, testWidth, testHeight)

	misc := g.Node("misc")
	require.NotNil(t, misc)
	assert.Equal(t, 20.0, misc.Radius)
	assert.Empty(t, g.Neighbors("misc"))
	assert.Equal(t, 1, g.Meta.Stats.IsolatedNodes)
}

func TestBuildSkipsDuplicateTagIDs(t *testing.T) {
	b := createTestBuilder(t, 1)
	snap := Snapshot{Tags: []Tag{{ID: "a", Name: "first"}, {ID: "a", Name: "second"}}}

	g := b.Build(snap, DefaultFilter(), nil, testWidth, testHeight)
	require.Len(t, g.Nodes, 1)
	assert.Equal(t, "first", g.Nodes[0].Label)
}

func TestBuildRelationTypeCounts(t *testing.T) {
	b := createTestBuilder(t, 1)
	snap := sampleSnapshot()
	snap.Relations = append(snap.Relations,
		Relation{ID: "r5", FromTagID: "rust", ToTagID: "misc", RelationType: RelationComplement, Strength: 0.4})

	g := b.Build(snap, DefaultFilter(), nil, testWidth, testHeight)
	require.Len(t, g.Meta.RelationTypes, 3)
	assert.Equal(t, RelationComplement, g.Meta.RelationTypes[0].Type)
	assert.Equal(t, 2, g.Meta.RelationTypes[0].Count)
	assert.Equal(t, "Complement", g.Meta.RelationTypes[0].Label)
	// Ties sort by name
	assert.Equal(t, RelationAlternative, g.Meta.RelationTypes[1].Type)
	assert.Equal(t, RelationSimilar, g.Meta.RelationTypes[2].Type)
}

func TestNeighbors(t *testing.T) {
	b := createTestBuilder(t, 1)
	g := b.Build(sampleSnapshot(), DefaultFilter(), nil, testWidth, testHeight)

	assert.Equal(t, map[string]bool{"rust": true, "db": true}, g.Neighbors("go"))
	assert.Equal(t, map[string]bool{"go": true, "rust": true}, g.Neighbors("db"))
}
