// Package view ties the graph builder, simulator, interaction controller and
// renderer into one mounted view.
package view

import (
	"math/rand"

	"go.uber.org/zap"

	"github.com/teranos/tagweb/graph"
	"github.com/teranos/tagweb/interact"
	"github.com/teranos/tagweb/logger"
	"github.com/teranos/tagweb/physics"
	"github.com/teranos/tagweb/render"
)

// Options configures a Scene
type Options struct {
	Width   float64
	Height  float64
	Physics physics.Config
	Style   render.Style
	Limits  interact.Limits
	Filter  graph.FilterState
	Seed    int64 // Source of initial positions and tie-break directions
}

// DefaultOptions returns an 800x600 scene with stock physics and style
func DefaultOptions() Options {
	return Options{
		Width:   800,
		Height:  600,
		Physics: physics.DefaultConfig(),
		Style:   render.DefaultStyle(),
		Limits:  interact.DefaultLimits(),
		Filter:  graph.DefaultFilter(),
		Seed:    1,
	}
}

// SelectFunc receives the tag the user clicked, or nil for empty space
type SelectFunc func(tag *graph.Tag)

// Scene is the full state of one mounted view. It is not safe for
// concurrent use; Engine serialises access on its own goroutine.
type Scene struct {
	snapshot graph.Snapshot
	tags     map[string]graph.Tag
	filter   graph.FilterState
	bounds   physics.Bounds
	graph    *graph.Graph

	builder    *graph.Builder
	simulator  *physics.Simulator
	controller *interact.Controller
	renderer   *render.Renderer

	onSelect   SelectFunc
	generation uint64
	logger     *zap.SugaredLogger
}

// NewScene creates an empty scene
func NewScene(opts Options, log *zap.SugaredLogger) *Scene {
	if log == nil {
		log = logger.Logger
	}
	rng := rand.New(rand.NewSource(opts.Seed))

	s := &Scene{
		tags:      map[string]graph.Tag{},
		filter:    opts.Filter,
		bounds:    physics.Bounds{Width: opts.Width, Height: opts.Height},
		builder:   graph.NewBuilder(rng, log),
		simulator: physics.NewSimulator(opts.Physics, rng),
		renderer:  render.NewRenderer(opts.Style),
		logger:    log.Named("view"),
	}
	s.controller = interact.NewController(opts.Limits, s.emitSelect, log)
	s.rebuild()
	return s
}

// OnTagSelect registers the selection callback
func (s *Scene) OnTagSelect(fn SelectFunc) {
	s.onSelect = fn
}

func (s *Scene) emitSelect(id string) {
	if s.onSelect == nil {
		return
	}
	if tag, ok := s.tags[id]; ok {
		s.onSelect(&tag)
		return
	}
	s.onSelect(nil)
}

// SetSnapshot replaces the host data and rebuilds. Nodes that survive keep
// their positions.
func (s *Scene) SetSnapshot(snap graph.Snapshot) {
	s.snapshot = snap
	s.tags = make(map[string]graph.Tag, len(snap.Tags))
	for _, t := range snap.Tags {
		if _, dup := s.tags[t.ID]; !dup {
			s.tags[t.ID] = t
		}
	}
	s.rebuild()
}

// SetFilter changes the visible links and rebuilds
func (s *Scene) SetFilter(f graph.FilterState) {
	s.filter = f
	s.rebuild()
}

// Resize changes the surface size and rebuilds
func (s *Scene) Resize(width, height float64) {
	s.bounds = physics.Bounds{Width: width, Height: height}
	s.rebuild()
}

func (s *Scene) rebuild() {
	var previous []*graph.TagNode
	if s.graph != nil {
		previous = s.graph.Nodes
	}
	s.graph = s.builder.Build(s.snapshot, s.filter, previous, s.bounds.Width, s.bounds.Height)
	s.generation++

	s.logger.Debugw("Scene rebuilt",
		logger.FieldNodes, s.graph.Meta.Stats.TotalNodes,
		logger.FieldLinks, s.graph.Meta.Stats.TotalEdges,
		logger.FieldIsolated, s.graph.Meta.Stats.IsolatedNodes,
		logger.FieldThreshold, s.filter.StrengthThreshold,
		logger.FieldRelation, s.filter.RelationType,
	)
}

// Step advances the simulation once
func (s *Scene) Step() {
	s.simulator.Step(s.graph.Nodes, s.graph.Links, s.bounds)
}

// Settle steps until kinetic energy drops below threshold or maxSteps is
// reached, returning the number of steps taken.
func (s *Scene) Settle(maxSteps int, threshold float64) int {
	for i := 0; i < maxSteps; i++ {
		s.Step()
		if threshold > 0 && s.Energy() < threshold {
			return i + 1
		}
	}
	return maxSteps
}

// HandlePointer routes a pointer event to the interaction controller and
// reports whether a redraw is needed.
func (s *Scene) HandlePointer(ev interact.PointerEvent) bool {
	return s.controller.Handle(ev, s.graph, s.bounds)
}

func (s *Scene) ZoomIn()  { s.controller.ZoomIn() }
func (s *Scene) ZoomOut() { s.controller.ZoomOut() }

// SetZoom sets an absolute zoom within the configured limits
func (s *Scene) SetZoom(z float64) { s.controller.SetZoom(z) }

// Reset restores the identity view and clears the selection
func (s *Scene) Reset() { s.controller.Reset() }

// SelectTag sets the selection from the host without firing OnTagSelect.
// An empty id clears it.
func (s *Scene) SelectTag(id string) {
	s.controller.Select(id)
}

// SetPhysics swaps simulator coefficients on the live layout
func (s *Scene) SetPhysics(cfg physics.Config) {
	s.simulator.SetConfig(cfg)
}

// SetStyle swaps the renderer's lookup table
func (s *Scene) SetStyle(style render.Style) {
	s.renderer = render.NewRenderer(style)
}

// SetLimits swaps the zoom limits
func (s *Scene) SetLimits(l interact.Limits) {
	s.controller.SetLimits(l)
}

// Render draws the current frame onto surface
func (s *Scene) Render(surface render.Surface) {
	s.renderer.Render(surface, s.Frame())
}

// Renderer returns the renderer for the current style
func (s *Scene) Renderer() *render.Renderer { return s.renderer }

// Frame returns the renderer input for the current state
func (s *Scene) Frame() render.Scene {
	v := s.controller.View()
	return render.Scene{
		Nodes:      s.graph.Nodes,
		Links:      s.graph.Links,
		PanX:       v.PanX,
		PanY:       v.PanY,
		Zoom:       v.Zoom,
		SelectedID: v.SelectedID,
		Legend:     s.graph.Meta.RelationTypes,
	}
}

// Graph returns the current build. The pointer changes on every rebuild.
func (s *Scene) Graph() *graph.Graph { return s.graph }

// View returns the viewport and selection
func (s *Scene) View() interact.ViewState { return s.controller.View() }

// Mode returns the interaction state
func (s *Scene) Mode() interact.Mode { return s.controller.Mode() }

// Filter returns the active filter
func (s *Scene) Filter() graph.FilterState { return s.filter }

// Bounds returns the surface size
func (s *Scene) Bounds() physics.Bounds { return s.bounds }

// Steps returns the number of simulation steps taken
func (s *Scene) Steps() int64 { return s.simulator.Steps() }

// Energy returns the layout's kinetic energy
func (s *Scene) Energy() float64 { return physics.KineticEnergy(s.graph.Nodes) }

// Generation increments on every rebuild
func (s *Scene) Generation() uint64 { return s.generation }
