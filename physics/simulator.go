package physics

import (
	"math"
	"math/rand"

	"github.com/teranos/tagweb/graph"
)

// minDistance stands in for the separation of coincident nodes so forces
// stay finite.
const minDistance = 1.0

// coincident is the separation below which a direction is undefined
const coincident = 1e-6

// vec is a 2D force accumulator
type vec struct{ x, y float64 }

// Simulator advances a force-directed layout one step at a time.
// It is not safe for concurrent use; the owner calls Step from one goroutine.
type Simulator struct {
	cfg   Config
	rng   *rand.Rand
	steps int64
}

// NewSimulator creates a simulator. rng supplies the tie-breaking direction
// for coincident nodes.
func NewSimulator(cfg Config, rng *rand.Rand) *Simulator {
	return &Simulator{cfg: cfg, rng: rng}
}

// Config returns the active coefficients
func (s *Simulator) Config() Config {
	return s.cfg
}

// SetConfig swaps coefficients; the next Step uses them
func (s *Simulator) SetConfig(cfg Config) {
	s.cfg = cfg
}

// Steps returns the number of completed steps
func (s *Simulator) Steps() int64 {
	return s.steps
}

// Step applies centre gravity, pairwise repulsion and link springs to every
// node, integrates unpinned nodes and clamps all nodes into bounds.
func (s *Simulator) Step(nodes []*graph.TagNode, links []*graph.LinkEdge, bounds Bounds) {
	s.steps++
	if len(nodes) == 0 {
		return
	}

	forces := make([]vec, len(nodes))
	slot := make(map[*graph.TagNode]int, len(nodes))
	for i, n := range nodes {
		slot[n] = i
	}

	s.applyCenterGravity(nodes, forces, bounds)
	s.applyRepulsion(nodes, forces)
	s.applyLinkSprings(links, slot, forces)

	dt := s.cfg.TimeStep
	for i, n := range nodes {
		if !n.Pinned {
			n.VX = (n.VX + forces[i].x*dt) * s.cfg.Damping
			n.VY = (n.VY + forces[i].y*dt) * s.cfg.Damping
			n.X += n.VX * dt
			n.Y += n.VY * dt
		}
		n.X, n.Y = bounds.Clamp(n.X, n.Y, n.Radius)
	}
}

func (s *Simulator) applyCenterGravity(nodes []*graph.TagNode, forces []vec, bounds Bounds) {
	cx, cy := bounds.Center()
	for i, n := range nodes {
		forces[i].x += (cx - n.X) * s.cfg.CenterForce
		forces[i].y += (cy - n.Y) * s.cfg.CenterForce
	}
}

// applyRepulsion is O(n²); the expected graphs have tens of nodes.
func (s *Simulator) applyRepulsion(nodes []*graph.TagNode, forces []vec) {
	for i := 0; i < len(nodes); i++ {
		for j := i + 1; j < len(nodes); j++ {
			ux, uy, d := s.direction(nodes[j], nodes[i])
			if d >= s.cfg.RepelCutoff {
				continue
			}
			mag := s.cfg.RepelForce / (d * d)
			forces[i].x += ux * mag
			forces[i].y += uy * mag
			forces[j].x -= ux * mag
			forces[j].y -= uy * mag
		}
	}
}

func (s *Simulator) applyLinkSprings(links []*graph.LinkEdge, slot map[*graph.TagNode]int, forces []vec) {
	for _, l := range links {
		si, okSource := slot[l.Source]
		ti, okTarget := slot[l.Target]
		if !okSource || !okTarget || si == ti {
			continue
		}

		ux, uy, d := s.direction(l.Source, l.Target)
		target := s.cfg.LinkBaseDistance + (1-l.Strength)*s.cfg.LinkSpread
		mag := (d - target) * s.cfg.LinkForce * l.Strength * l.RelationType.Info().SpringScale

		forces[si].x += ux * mag
		forces[si].y += uy * mag
		forces[ti].x -= ux * mag
		forces[ti].y -= uy * mag
	}
}

// direction returns the unit vector from a to b and their distance.
// Coincident nodes get a random unit vector and minDistance.
func (s *Simulator) direction(a, b *graph.TagNode) (float64, float64, float64) {
	dx, dy := b.X-a.X, b.Y-a.Y
	d := math.Hypot(dx, dy)
	if d < coincident {
		angle := s.rng.Float64() * 2 * math.Pi
		return math.Cos(angle), math.Sin(angle), minDistance
	}
	return dx / d, dy / d, math.Max(d, minDistance)
}

// KineticEnergy sums ½v² over unpinned nodes (unit mass). Used to detect a
// settled layout.
func KineticEnergy(nodes []*graph.TagNode) float64 {
	energy := 0.0
	for _, n := range nodes {
		if n.Pinned {
			continue
		}
		energy += 0.5 * (n.VX*n.VX + n.VY*n.VY)
	}
	return energy
}
