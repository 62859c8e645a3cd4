// Package raster draws frames into an RGBA image using gg and the Go
// Regular font.
package raster

import (
	"image"
	"image/color"
	"io"

	"git.sr.ht/~sbinet/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"go.uber.org/zap"
	"golang.org/x/image/font/opentype"

	"github.com/teranos/tagweb/errors"
	"github.com/teranos/tagweb/logger"
	"github.com/teranos/tagweb/render"
)

// Canvas is a render.Surface backed by a gg context
type Canvas struct {
	dc     *gg.Context
	font   *opentype.Font
	faces  map[float64]font.Face
	zoom   float64
	logger *zap.SugaredLogger
}

var _ render.Surface = (*Canvas)(nil)

// New creates a width x height canvas
func New(width, height int) (*Canvas, error) {
	if width <= 0 || height <= 0 {
		return nil, errors.Newf("invalid canvas size %dx%d", width, height)
	}
	fnt, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse Go Regular font")
	}
	return &Canvas{
		dc:     gg.NewContext(width, height),
		font:   fnt,
		faces:  make(map[float64]font.Face),
		zoom:   1,
		logger: logger.ComponentLogger("render.raster"),
	}, nil
}

func (c *Canvas) Size() (float64, float64) {
	return float64(c.dc.Width()), float64(c.dc.Height())
}

func (c *Canvas) Clear(bg color.NRGBA) {
	c.dc.SetColor(bg)
	c.dc.Clear()
}

func (c *Canvas) BeginView(panX, panY, zoom float64) {
	c.dc.Push()
	c.dc.Translate(panX, panY)
	c.dc.Scale(zoom, zoom)
	c.zoom = zoom
}

func (c *Canvas) EndView() {
	c.dc.Pop()
	c.zoom = 1
}

func (c *Canvas) Line(x1, y1, x2, y2, width float64, col color.NRGBA) {
	c.dc.SetColor(col)
	c.dc.SetLineWidth(width * c.zoom)
	c.dc.DrawLine(x1, y1, x2, y2)
	c.dc.Stroke()
}

func (c *Canvas) Circle(cx, cy, r float64, fill, stroke color.NRGBA, strokeWidth float64) {
	c.dc.DrawCircle(cx, cy, r)
	c.dc.SetColor(fill)
	c.dc.FillPreserve()
	c.dc.SetColor(stroke)
	c.dc.SetLineWidth(strokeWidth * c.zoom)
	c.dc.Stroke()
}

// Text draws s centred on (x, y). Glyphs are rasterised at device
// resolution, so the face size follows the view zoom.
func (c *Canvas) Text(s string, x, y, size float64, col color.NRGBA) {
	face, err := c.face(size * c.zoom)
	if err != nil {
		c.logger.Debugw("Skipping label", "text", s, logger.FieldError, err)
		return
	}
	c.dc.SetFontFace(face)
	c.dc.SetColor(col)
	c.dc.DrawStringAnchored(s, x, y, 0.5, 0.5)
}

func (c *Canvas) face(size float64) (font.Face, error) {
	if face, ok := c.faces[size]; ok {
		return face, nil
	}
	if size <= 0 {
		return nil, errors.Newf("font size must be positive, got %g", size)
	}
	face, err := opentype.NewFace(c.font, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create %gpt font face", size)
	}
	c.faces[size] = face
	return face, nil
}

// Image returns the drawn frame
func (c *Canvas) Image() image.Image {
	return c.dc.Image()
}

// EncodePNG writes the frame as PNG
func (c *Canvas) EncodePNG(w io.Writer) error {
	return errors.Wrap(c.dc.EncodePNG(w), "failed to encode PNG")
}

// SavePNG writes the frame to a PNG file
func (c *Canvas) SavePNG(path string) error {
	return errors.Wrapf(c.dc.SavePNG(path), "failed to save %s", path)
}
