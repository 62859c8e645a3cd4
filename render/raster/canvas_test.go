package raster

import (
	"bytes"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/teranos/tagweb/graph"
	"github.com/teranos/tagweb/logger"
	"github.com/teranos/tagweb/render"
)

func TestNewRejectsEmptySize(t *testing.T) {
	_, err := New(0, 100)
	assert.Error(t, err)
}

func TestTextLogsUnusableSize(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	prev := logger.Logger
	logger.Logger = zap.New(core).Sugar()
	t.Cleanup(func() { logger.Logger = prev })

	c, err := New(40, 30)
	require.NoError(t, err)
	c.Text("go", 20, 15, 0, color.NRGBA{A: 0xff})

	entries := logs.FilterMessage("Skipping label").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "go", entries[0].ContextMap()["text"])
	assert.Contains(t, entries[0].ContextMap()[logger.FieldError], "font size must be positive")
}

func TestClearFillsBackground(t *testing.T) {
	c, err := New(40, 30)
	require.NoError(t, err)

	c.Clear(color.NRGBA{0x10, 0x20, 0x30, 0xff})

	r, g, b, a := c.Image().At(5, 5).RGBA()
	assert.Equal(t, uint32(0x10), r>>8)
	assert.Equal(t, uint32(0x20), g>>8)
	assert.Equal(t, uint32(0x30), b>>8)
	assert.Equal(t, uint32(0xff), a>>8)
}

func TestRenderSceneToPNG(t *testing.T) {
	c, err := New(200, 150)
	require.NoError(t, err)

	a := &graph.TagNode{ID: "a", Label: "go", Color: "#00add8", X: 50, Y: 75, Radius: 20, UsageCount: 3}
	b := &graph.TagNode{ID: "b", Label: "rust", Color: "#dea584", X: 150, Y: 75, Radius: 20}
	scene := render.Scene{
		Nodes:      []*graph.TagNode{a, b},
		Links:      []*graph.LinkEdge{{Source: a, Target: b, RelationType: graph.RelationSimilar, Strength: 0.9}},
		Zoom:       1,
		SelectedID: "a",
	}
	render.NewRenderer(render.DefaultStyle()).Render(c, scene)

	// Centre of the selected node carries the selected fill
	r, g, bl, _ := c.Image().At(50, 60).RGBA()
	fill := render.DefaultStyle().SelectedFill
	assert.InDelta(t, float64(fill.R), float64(r>>8), 2)
	assert.InDelta(t, float64(fill.G), float64(g>>8), 2)
	assert.InDelta(t, float64(fill.B), float64(bl>>8), 2)

	var buf bytes.Buffer
	require.NoError(t, c.EncodePNG(&buf))
	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 200, img.Bounds().Dx())
	assert.Equal(t, 150, img.Bounds().Dy())
}

func TestFaceCache(t *testing.T) {
	c, err := New(10, 10)
	require.NoError(t, err)

	f1, err := c.face(12)
	require.NoError(t, err)
	f2, err := c.face(12)
	require.NoError(t, err)
	assert.Same(t, f1, f2)
	assert.Len(t, c.faces, 1)
}
