package render

import (
	"image/color"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/teranos/tagweb/errors"
	"github.com/teranos/tagweb/graph"
)

// Style is the fixed visual lookup table for one renderer
type Style struct {
	Background color.NRGBA

	LinkWidth          float64
	LinkAlphaFactor    float64 // Link alpha = strength * factor
	LinkLabelThreshold float64 // Strength above which the percentage label is drawn
	LinkLabelSize      float64
	LinkLabelColor     color.NRGBA

	NodeStrokeWidth    float64
	DefaultFillAlpha   float64 // Tint of the node's own colour when unrelated to the selection
	ConnectedFillAlpha float64
	SelectedFill       color.NRGBA
	SelectedStroke     color.NRGBA
	SelectedLabel      color.NRGBA

	LabelColor     color.NRGBA
	UsageColor     color.NRGBA
	UsageSize      float64
	MinLabelSize   float64
	MaxLabelSize   float64
	LabelPerRadius float64 // Label font size per unit of radius

	ShowLegend bool
}

// DefaultStyle returns the light theme
func DefaultStyle() Style {
	return Style{
		Background: mustHex("#ffffff"),

		LinkWidth:          2,
		LinkAlphaFactor:    0.8,
		LinkLabelThreshold: 0.8,
		LinkLabelSize:      10,
		LinkLabelColor:     mustHex("#374151"),

		NodeStrokeWidth:    2,
		DefaultFillAlpha:   0.15,
		ConnectedFillAlpha: 0.5,
		SelectedFill:       mustHex("#3b82f6"),
		SelectedStroke:     mustHex("#1d4ed8"),
		SelectedLabel:      mustHex("#ffffff"),

		LabelColor:     mustHex("#1f2937"),
		UsageColor:     mustHex("#6b7280"),
		UsageSize:      10,
		MinLabelSize:   10,
		MaxLabelSize:   18,
		LabelPerRadius: 0.4,
	}
}

// RelationColor returns the opaque link colour for a relation type
func RelationColor(t graph.RelationType) color.NRGBA {
	c, err := ParseHexColor(t.Info().Color)
	if err != nil {
		return Gray
	}
	return c
}

// Gray is the fallback for unparseable colours
var Gray = color.NRGBA{0x6b, 0x72, 0x80, 0xff}

// ParseHexColor parses "#rgb", "#rrggbb" or "#rrggbbaa" (leading '#' optional)
func ParseHexColor(s string) (color.NRGBA, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	alpha := uint8(0xff)
	switch len(h) {
	case 3, 6:
	case 8:
		// Alpha rides in the red channel of a second parse
		a, err := colorful.Hex("#" + h[6:] + "0000")
		if err != nil {
			return color.NRGBA{}, errors.Wrapf(err, "invalid hex colour %q", s)
		}
		alpha, _, _ = a.RGB255()
		h = h[:6]
	default:
		return color.NRGBA{}, errors.Newf("invalid hex colour %q", s)
	}

	c, err := colorful.Hex("#" + h)
	if err != nil {
		return color.NRGBA{}, errors.Wrapf(err, "invalid hex colour %q", s)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: alpha}, nil
}

// NodeColor parses a tag colour, falling back to gray
func NodeColor(s string) color.NRGBA {
	c, err := ParseHexColor(s)
	if err != nil {
		return Gray
	}
	return c
}

// WithAlpha returns c with its alpha replaced by a in [0,1]
func WithAlpha(c color.NRGBA, a float64) color.NRGBA {
	switch {
	case a < 0:
		a = 0
	case a > 1:
		a = 1
	}
	c.A = uint8(a*255 + 0.5)
	return c
}

// Hex formats c as "#rrggbb", dropping alpha
func Hex(c color.NRGBA) string {
	return colorful.Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
	}.Hex()
}

// Opacity returns the alpha channel of c in [0,1]
func Opacity(c color.NRGBA) float64 {
	return float64(c.A) / 255
}

func mustHex(s string) color.NRGBA {
	c, err := ParseHexColor(s)
	if err != nil {
		panic(err)
	}
	return c
}
