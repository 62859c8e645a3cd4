package physics

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/tagweb/graph"
)

var testBounds = Bounds{Width: 800, Height: 600}

func newTestSimulator(seed int64) *Simulator {
	return NewSimulator(DefaultConfig(), rand.New(rand.NewSource(seed)))
}

func node(id string, x, y float64) *graph.TagNode {
	return &graph.TagNode{ID: id, Label: id, X: x, Y: y, Radius: 20}
}

func TestDefaultConfigValid(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative center", func(c *Config) { c.CenterForce = -1 }},
		{"negative repel", func(c *Config) { c.RepelForce = -1 }},
		{"negative cutoff", func(c *Config) { c.RepelCutoff = -1 }},
		{"negative spread", func(c *Config) { c.LinkSpread = -1 }},
		{"negative link force", func(c *Config) { c.LinkForce = -0.1 }},
		{"zero damping", func(c *Config) { c.Damping = 0 }},
		{"damping above one", func(c *Config) { c.Damping = 1.5 }},
		{"zero timestep", func(c *Config) { c.TimeStep = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestBoundsClamp(t *testing.T) {
	x, y := testBounds.Clamp(-50, 900, 20)
	assert.Equal(t, 20.0, x)
	assert.Equal(t, 580.0, y)

	x, y = testBounds.Clamp(400, 300, 20)
	assert.Equal(t, 400.0, x)
	assert.Equal(t, 300.0, y)

	// Surface narrower than the node: clamp to the centre
	tiny := Bounds{Width: 30, Height: 600}
	x, _ = tiny.Clamp(0, 300, 20)
	assert.Equal(t, 15.0, x)
}

func TestStepEmptyInput(t *testing.T) {
	sim := newTestSimulator(1)
	assert.NotPanics(t, func() {
		sim.Step(nil, nil, testBounds)
		sim.Step([]*graph.TagNode{}, []*graph.LinkEdge{}, testBounds)
	})
	assert.Equal(t, int64(2), sim.Steps())
}

func TestStepKeepsNodesInBounds(t *testing.T) {
	sim := newTestSimulator(7)
	rng := rand.New(rand.NewSource(3))

	nodes := make([]*graph.TagNode, 0, 30)
	for i := 0; i < 30; i++ {
		n := node(string(rune('a'+i)), rng.Float64()*2000-600, rng.Float64()*2000-700)
		n.Radius = graph.MinRadius + rng.Float64()*(graph.MaxRadius-graph.MinRadius)
		nodes = append(nodes, n)
	}
	links := []*graph.LinkEdge{
		{Source: nodes[0], Target: nodes[1], RelationType: graph.RelationParent, Strength: 1},
		{Source: nodes[2], Target: nodes[3], RelationType: graph.RelationSimilar, Strength: 0.1},
	}

	for step := 0; step < 200; step++ {
		sim.Step(nodes, links, testBounds)
		for _, n := range nodes {
			require.GreaterOrEqual(t, n.X, n.Radius, "node %s step %d", n.ID, step)
			require.LessOrEqual(t, n.X, testBounds.Width-n.Radius, "node %s step %d", n.ID, step)
			require.GreaterOrEqual(t, n.Y, n.Radius, "node %s step %d", n.ID, step)
			require.LessOrEqual(t, n.Y, testBounds.Height-n.Radius, "node %s step %d", n.ID, step)
		}
	}
}

func TestStepSkipsPinnedIntegration(t *testing.T) {
	sim := newTestSimulator(1)
	pinned := node("pinned", 100, 100)
	pinned.Pinned = true
	other := node("other", 110, 100)
	links := []*graph.LinkEdge{{Source: pinned, Target: other, RelationType: graph.RelationParent, Strength: 1}}

	for i := 0; i < 20; i++ {
		sim.Step([]*graph.TagNode{pinned, other}, links, testBounds)
	}

	assert.Equal(t, 100.0, pinned.X)
	assert.Equal(t, 100.0, pinned.Y)
	assert.Zero(t, pinned.VX)
	assert.Zero(t, pinned.VY)
	assert.NotEqual(t, 110.0, other.X)
}

func TestStepCoincidentNodesStayFinite(t *testing.T) {
	sim := newTestSimulator(42)
	a := node("a", 400, 300)
	b := node("b", 400, 300)
	links := []*graph.LinkEdge{{Source: a, Target: b, RelationType: graph.RelationSimilar, Strength: 0.5}}

	sim.Step([]*graph.TagNode{a, b}, links, testBounds)

	for _, n := range []*graph.TagNode{a, b} {
		assert.False(t, math.IsNaN(n.X) || math.IsNaN(n.Y), "node %s has NaN position", n.ID)
		assert.False(t, math.IsInf(n.VX, 0) || math.IsInf(n.VY, 0), "node %s has infinite velocity", n.ID)
	}
	// Repulsion pushed them apart
	assert.Greater(t, math.Hypot(a.X-b.X, a.Y-b.Y), 0.0)
}

func TestStepCenterGravity(t *testing.T) {
	sim := newTestSimulator(1)
	n := node("lonely", 100, 100)

	sim.Step([]*graph.TagNode{n}, nil, testBounds)

	// (400-100)*0.01 = 3, damped by 0.9
	assert.InDelta(t, 2.7, n.VX, 1e-9)
	assert.InDelta(t, 1.8, n.VY, 1e-9)
	assert.InDelta(t, 102.7, n.X, 1e-9)
	assert.InDelta(t, 101.8, n.Y, 1e-9)
}

func TestStepSpringDirection(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CenterForce = 0
	cfg.RepelForce = 0

	t.Run("stretched link contracts", func(t *testing.T) {
		sim := NewSimulator(cfg, rand.New(rand.NewSource(1)))
		a, b := node("a", 200, 300), node("b", 600, 300)
		links := []*graph.LinkEdge{{Source: a, Target: b, RelationType: graph.RelationParent, Strength: 1}}

		sim.Step([]*graph.TagNode{a, b}, links, testBounds)

		assert.Greater(t, a.VX, 0.0)
		assert.Less(t, b.VX, 0.0)
	})

	t.Run("compressed link expands", func(t *testing.T) {
		sim := NewSimulator(cfg, rand.New(rand.NewSource(1)))
		a, b := node("a", 380, 300), node("b", 420, 300)
		links := []*graph.LinkEdge{{Source: a, Target: b, RelationType: graph.RelationParent, Strength: 1}}

		sim.Step([]*graph.TagNode{a, b}, links, testBounds)

		assert.Less(t, a.VX, 0.0)
		assert.Greater(t, b.VX, 0.0)
	})

	t.Run("zero strength exerts nothing", func(t *testing.T) {
		sim := NewSimulator(cfg, rand.New(rand.NewSource(1)))
		a, b := node("a", 200, 300), node("b", 600, 300)
		links := []*graph.LinkEdge{{Source: a, Target: b, RelationType: graph.RelationParent, Strength: 0}}

		sim.Step([]*graph.TagNode{a, b}, links, testBounds)

		assert.Zero(t, a.VX)
		assert.Zero(t, b.VX)
	})
}

func TestRepulsionCutoff(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CenterForce = 0
	sim := NewSimulator(cfg, rand.New(rand.NewSource(1)))

	far1, far2 := node("a", 100, 300), node("b", 700, 300)
	sim.Step([]*graph.TagNode{far1, far2}, nil, testBounds)
	assert.Zero(t, far1.VX)
	assert.Zero(t, far2.VX)

	near1, near2 := node("c", 380, 300), node("d", 420, 300)
	sim.Step([]*graph.TagNode{near1, near2}, nil, testBounds)
	assert.Less(t, near1.VX, 0.0)
	assert.Greater(t, near2.VX, 0.0)
}

func TestLayoutSettles(t *testing.T) {
	sim := newTestSimulator(5)
	a, b, c := node("a", 100, 100), node("b", 700, 500), node("c", 400, 120)
	links := []*graph.LinkEdge{
		{Source: a, Target: b, RelationType: graph.RelationParent, Strength: 0.8},
		{Source: b, Target: c, RelationType: graph.RelationSimilar, Strength: 0.6},
	}
	nodes := []*graph.TagNode{a, b, c}

	for i := 0; i < 10; i++ {
		sim.Step(nodes, links, testBounds)
	}
	early := KineticEnergy(nodes)
	require.Greater(t, early, 0.0)

	for i := 0; i < 500; i++ {
		sim.Step(nodes, links, testBounds)
	}
	assert.Less(t, KineticEnergy(nodes), early)
	assert.Less(t, KineticEnergy(nodes), 0.5)
}

func TestKineticEnergyIgnoresPinned(t *testing.T) {
	moving := &graph.TagNode{VX: 3, VY: 4}
	pinned := &graph.TagNode{VX: 10, VY: 10, Pinned: true}
	assert.Equal(t, 12.5, KineticEnergy([]*graph.TagNode{moving, pinned}))
}

func TestSetConfig(t *testing.T) {
	sim := newTestSimulator(1)
	cfg := DefaultConfig()
	cfg.Damping = 0.5
	sim.SetConfig(cfg)
	assert.Equal(t, 0.5, sim.Config().Damping)
}
