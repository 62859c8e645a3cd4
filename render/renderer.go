package render

import (
	"fmt"
	"image/color"
	"math"

	"github.com/teranos/tagweb/graph"
	"github.com/teranos/tagweb/internal/util"
)

// Scene is everything one frame depends on
type Scene struct {
	Nodes []*graph.TagNode
	Links []*graph.LinkEdge

	PanX, PanY float64
	Zoom       float64
	SelectedID string

	// Legend lists the relation types drawn, used when Style.ShowLegend is set
	Legend []graph.RelationTypeCount
}

// Renderer draws scenes onto surfaces. It keeps no per-frame state, so the
// same scene always produces the same draw calls.
type Renderer struct {
	style Style
}

// NewRenderer creates a renderer with the given style
func NewRenderer(style Style) *Renderer {
	return &Renderer{style: style}
}

// Style returns the renderer's lookup table
func (r *Renderer) Style() Style {
	return r.style
}

// Render draws one frame: background, links, nodes, labels, then the
// optional legend in screen space.
func (r *Renderer) Render(s Surface, scene Scene) {
	s.Clear(r.style.Background)

	zoom := scene.Zoom
	if zoom <= 0 {
		zoom = 1
	}
	s.BeginView(scene.PanX, scene.PanY, zoom)

	for _, l := range scene.Links {
		r.drawLink(s, l)
	}

	states := Classify(scene.Nodes, scene.Links, scene.SelectedID)
	for _, n := range scene.Nodes {
		r.drawNode(s, n, states[n.ID])
	}

	s.EndView()

	if r.style.ShowLegend && len(scene.Legend) > 0 {
		r.drawLegend(s, scene.Legend)
	}
}

func (r *Renderer) drawLink(s Surface, l *graph.LinkEdge) {
	c := WithAlpha(RelationColor(l.RelationType), l.Strength*r.style.LinkAlphaFactor)
	s.Line(l.Source.X, l.Source.Y, l.Target.X, l.Target.Y, r.style.LinkWidth, c)

	if l.Strength > r.style.LinkLabelThreshold {
		mx := (l.Source.X + l.Target.X) / 2
		my := (l.Source.Y + l.Target.Y) / 2
		s.Text(fmt.Sprintf("%d%%", int(math.Round(l.Strength*100))), mx, my, r.style.LinkLabelSize, r.style.LinkLabelColor)
	}
}

func (r *Renderer) drawNode(s Surface, n *graph.TagNode, state NodeState) {
	base := NodeColor(n.Color)

	var fill, stroke, label color.NRGBA
	switch state {
	case StateSelected:
		fill, stroke, label = r.style.SelectedFill, r.style.SelectedStroke, r.style.SelectedLabel
	case StateConnected:
		fill, stroke, label = WithAlpha(base, r.style.ConnectedFillAlpha), base, r.style.LabelColor
	default:
		fill, stroke, label = WithAlpha(base, r.style.DefaultFillAlpha), base, r.style.LabelColor
	}

	s.Circle(n.X, n.Y, n.Radius, fill, stroke, r.style.NodeStrokeWidth)
	s.Text(n.Label, n.X, n.Y, r.labelSize(n.Radius), label)
	s.Text(fmt.Sprintf("%d", n.UsageCount), n.X, n.Y+n.Radius+r.style.UsageSize, r.style.UsageSize, r.style.UsageColor)
}

func (r *Renderer) labelSize(radius float64) float64 {
	return util.Clamp(radius*r.style.LabelPerRadius, r.style.MinLabelSize, r.style.MaxLabelSize)
}

// drawLegend lists relation types with a colour swatch in the top-left corner
func (r *Renderer) drawLegend(s Surface, legend []graph.RelationTypeCount) {
	const (
		left   = 16.0
		top    = 20.0
		row    = 18.0
		swatch = 20.0
	)
	for i, entry := range legend {
		y := top + float64(i)*row
		s.Line(left, y, left+swatch, y, r.style.LinkWidth+1, RelationColor(entry.Type))
		text := fmt.Sprintf("%s (%d)", entry.Label, entry.Count)
		// Text is centred, so offset by a rough half-width
		s.Text(text, left+swatch+8+float64(len(text))*r.style.LinkLabelSize*0.3, y, r.style.LinkLabelSize+1, r.style.LabelColor)
	}
}
