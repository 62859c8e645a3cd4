// Package vector draws frames as SVG markup
package vector

import (
	"fmt"
	"image/color"
	"io"
	"math"

	svg "github.com/ajstarks/svgo"

	"github.com/teranos/tagweb/render"
)

// Canvas is a render.Surface that streams SVG elements to a writer.
// Call Close once the frame is drawn to terminate the document.
type Canvas struct {
	svg           *svg.SVG
	width, height int
	open          int // Unclosed <g> groups
}

var _ render.Surface = (*Canvas)(nil)

// New starts a width x height SVG document on w
func New(w io.Writer, width, height int) *Canvas {
	canvas := svg.New(w)
	canvas.Start(width, height)
	return &Canvas{svg: canvas, width: width, height: height}
}

func (c *Canvas) Size() (float64, float64) {
	return float64(c.width), float64(c.height)
}

func (c *Canvas) Clear(bg color.NRGBA) {
	c.svg.Rect(0, 0, c.width, c.height, "fill:"+fill(bg))
}

func (c *Canvas) BeginView(panX, panY, zoom float64) {
	c.svg.Gtransform(fmt.Sprintf("translate(%g,%g) scale(%g)", panX, panY, zoom))
	c.open++
}

func (c *Canvas) EndView() {
	if c.open == 0 {
		return
	}
	c.svg.Gend()
	c.open--
}

func (c *Canvas) Line(x1, y1, x2, y2, width float64, col color.NRGBA) {
	c.svg.Line(px(x1), px(y1), px(x2), px(y2),
		fmt.Sprintf("stroke:%s;stroke-width:%g;stroke-linecap:round", stroke(col), width))
}

func (c *Canvas) Circle(cx, cy, r float64, fillColor, strokeColor color.NRGBA, strokeWidth float64) {
	c.svg.Circle(px(cx), px(cy), px(r),
		fmt.Sprintf("fill:%s;stroke:%s;stroke-width:%g", fill(fillColor), stroke(strokeColor), strokeWidth))
}

func (c *Canvas) Text(s string, x, y, size float64, col color.NRGBA) {
	c.svg.Text(px(x), px(y), s,
		fmt.Sprintf("fill:%s;font-size:%gpx;font-family:system-ui,sans-serif;text-anchor:middle;dominant-baseline:middle", fill(col), size))
}

// Close ends any open group and the document
func (c *Canvas) Close() {
	for c.open > 0 {
		c.EndView()
	}
	c.svg.End()
}

func px(v float64) int {
	return int(math.Round(v))
}

// fill renders a CSS colour plus fill-opacity when translucent
func fill(c color.NRGBA) string {
	if c.A == 0xff {
		return render.Hex(c)
	}
	return fmt.Sprintf("%s;fill-opacity:%.2f", render.Hex(c), render.Opacity(c))
}

func stroke(c color.NRGBA) string {
	if c.A == 0xff {
		return render.Hex(c)
	}
	return fmt.Sprintf("%s;stroke-opacity:%.2f", render.Hex(c), render.Opacity(c))
}
