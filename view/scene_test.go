package view

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/tagweb/graph"
	"github.com/teranos/tagweb/interact"
	"github.com/teranos/tagweb/logger"
	"github.com/teranos/tagweb/render"
)

func testSnapshot() graph.Snapshot {
	return graph.Snapshot{
		Tags: []graph.Tag{
			{ID: "go", Name: "golang", Color: "#00add8"},
			{ID: "rust", Name: "rust", Color: "#dea584"},
			{ID: "db", Name: "databases", Color: "#f59e0b"},
			{ID: "misc", Name: "misc"},
		},
		Relations: []graph.Relation{
			{ID: "r1", FromTagID: "go", ToTagID: "rust", RelationType: graph.RelationAlternative, Strength: 0.5},
			{ID: "r2", FromTagID: "go", ToTagID: "db", RelationType: graph.RelationComplement, Strength: 0.9},
		},
		Websites: []graph.Website{
			{Tags: []string{"golang", "databases"}},
			{Tags: []string{"golang"}},
		},
	}
}

func newTestScene(t *testing.T) *Scene {
	t.Helper()
	s := NewScene(DefaultOptions(), logger.Logger)
	s.SetSnapshot(testSnapshot())
	return s
}

// spreadNodes places nodes on a row so hit tests are unambiguous
func spreadNodes(s *Scene) {
	for i, n := range s.Graph().Nodes {
		n.X, n.Y = 100+float64(i)*200, 100
		n.VX, n.VY = 0, 0
	}
}

func TestEmptySceneRendersBackgroundOnly(t *testing.T) {
	s := NewScene(DefaultOptions(), nil)
	rec := render.NewRecorder(800, 600)

	assert.NotPanics(t, func() {
		s.Step()
		s.Render(rec)
	})
	assert.Empty(t, rec.Filter(render.OpCircle))
	assert.Equal(t, render.OpClear, rec.Ops[0].Kind)
}

func TestSelectionPropagation(t *testing.T) {
	s := newTestScene(t)
	s.SelectTag("go")
	assert.Equal(t, "go", s.View().SelectedID)

	states := render.Classify(s.Graph().Nodes, s.Graph().Links, s.View().SelectedID)
	assert.Equal(t, render.StateSelected, states["go"])
	assert.True(t, states["go"].Highlighted())
	assert.True(t, states["rust"].Highlighted())
	assert.True(t, states["db"].Highlighted())
	assert.False(t, states["misc"].Highlighted())

	layout := s.Layout()
	got := map[string]string{}
	for _, n := range layout.Nodes {
		got[n.ID] = n.State
	}
	assert.Equal(t, map[string]string{"go": "selected", "rust": "connected", "db": "connected", "misc": "default"}, got)
}

func TestSelectTagDoesNotFireCallback(t *testing.T) {
	s := newTestScene(t)
	fired := false
	s.OnTagSelect(func(*graph.Tag) { fired = true })

	s.SelectTag("rust")
	assert.False(t, fired)
}

func TestClickFiresCallbackWithTag(t *testing.T) {
	s := newTestScene(t)
	var got []*graph.Tag
	s.OnTagSelect(func(tag *graph.Tag) { got = append(got, tag) })

	spreadNodes(s)

	n := s.Graph().Node("db")
	require.NotNil(t, n)
	s.HandlePointer(interact.PointerEvent{Kind: interact.PointerDown, X: n.X, Y: n.Y})
	s.HandlePointer(interact.PointerEvent{Kind: interact.PointerUp})

	s.HandlePointer(interact.PointerEvent{Kind: interact.PointerDown, X: 400, Y: 500})
	assert.Equal(t, interact.ModePanning, s.Mode())

	require.Len(t, got, 2)
	require.NotNil(t, got[0])
	assert.Equal(t, "db", got[0].ID)
	assert.Equal(t, "databases", got[0].Name)
	assert.Nil(t, got[1])
}

func TestResetKeepsPositions(t *testing.T) {
	s := newTestScene(t)
	for i := 0; i < 20; i++ {
		s.Step()
	}
	s.ZoomIn()
	s.ZoomIn()
	s.SelectTag("go")

	before := s.Layout().Nodes
	s.Reset()
	after := s.Layout().Nodes

	v := s.View()
	assert.Equal(t, 1.0, v.Zoom)
	assert.Zero(t, v.PanX)
	assert.Zero(t, v.PanY)
	assert.Empty(t, v.SelectedID)
	for i := range before {
		assert.Equal(t, before[i].X, after[i].X)
		assert.Equal(t, before[i].Y, after[i].Y)
	}
}

func TestFilterRebuildKeepsPositions(t *testing.T) {
	s := newTestScene(t)
	for i := 0; i < 10; i++ {
		s.Step()
	}
	pos := map[string][2]float64{}
	for _, n := range s.Graph().Nodes {
		pos[n.ID] = [2]float64{n.X, n.Y}
	}
	gen := s.Generation()

	s.SetFilter(graph.FilterState{StrengthThreshold: 0.8, RelationType: graph.RelationAll})

	assert.Equal(t, gen+1, s.Generation())
	require.Len(t, s.Graph().Links, 1)
	for _, n := range s.Graph().Nodes {
		assert.Equal(t, pos[n.ID], [2]float64{n.X, n.Y}, n.ID)
	}
}

func TestResizeKeepsNodesInsideAfterStep(t *testing.T) {
	s := newTestScene(t)
	s.Resize(200, 150)
	s.Step()
	for _, n := range s.Graph().Nodes {
		assert.GreaterOrEqual(t, n.X, n.Radius)
		assert.LessOrEqual(t, n.X, 200-n.Radius)
		assert.GreaterOrEqual(t, n.Y, n.Radius)
		assert.LessOrEqual(t, n.Y, 150-n.Radius)
	}
}

func TestSettleStopsEarly(t *testing.T) {
	s := newTestScene(t)
	steps := s.Settle(5000, 0.5)
	assert.Less(t, steps, 5000)
	assert.Less(t, s.Energy(), 0.5)
}

func TestLayoutIsJSONSerialisable(t *testing.T) {
	s := newTestScene(t)
	data, err := json.Marshal(s.Layout())
	require.NoError(t, err)

	var decoded Layout
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Len(t, decoded.Nodes, 4)
	assert.Len(t, decoded.Links, 2)
	assert.Equal(t, 800.0, decoded.Width)
}
