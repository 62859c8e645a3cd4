package vector

import (
	"bytes"
	"encoding/xml"
	"image/color"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/tagweb/graph"
	"github.com/teranos/tagweb/render"
)

func renderSample(t *testing.T, selected string) string {
	t.Helper()

	a := &graph.TagNode{ID: "a", Label: "go & c", Color: "#00add8", X: 100, Y: 100, Radius: 20, UsageCount: 2}
	b := &graph.TagNode{ID: "b", Label: "rust", Color: "#dea584", X: 300, Y: 200, Radius: 25}
	scene := render.Scene{
		Nodes:      []*graph.TagNode{a, b},
		Links:      []*graph.LinkEdge{{Source: a, Target: b, RelationType: graph.RelationParent, Strength: 0.95}},
		PanX:       10,
		PanY:       -5,
		Zoom:       1.5,
		SelectedID: selected,
	}

	var buf bytes.Buffer
	c := New(&buf, 400, 300)
	render.NewRenderer(render.DefaultStyle()).Render(c, scene)
	c.Close()
	return buf.String()
}

func TestRenderProducesWellFormedSVG(t *testing.T) {
	out := renderSample(t, "a")

	dec := xml.NewDecoder(strings.NewReader(out))
	for {
		_, err := dec.Token()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
	}

	assert.Contains(t, out, `translate(10,-5) scale(1.5)`)
	assert.Equal(t, 2, strings.Count(out, "<circle"))
	assert.Contains(t, out, "95%")
	assert.Contains(t, out, "go &amp; c")
	assert.Contains(t, out, render.Hex(render.DefaultStyle().SelectedFill))
}

func TestRenderIsIdempotent(t *testing.T) {
	assert.Equal(t, renderSample(t, "b"), renderSample(t, "b"))
}

func TestCloseBalancesGroups(t *testing.T) {
	var buf bytes.Buffer
	c := New(&buf, 10, 10)
	c.BeginView(0, 0, 1)
	c.Close()

	out := buf.String()
	assert.Equal(t, strings.Count(out, "<g"), strings.Count(out, "</g>"))
	assert.True(t, strings.HasSuffix(strings.TrimSpace(out), "</svg>"))
}

func TestTranslucentColours(t *testing.T) {
	assert.Equal(t, "#3b82f6", fill(color.NRGBA{0x3b, 0x82, 0xf6, 0xff}))
	assert.Equal(t, "#3b82f6;fill-opacity:0.50", fill(color.NRGBA{0x3b, 0x82, 0xf6, 0x80}))
	assert.Equal(t, "#3b82f6;stroke-opacity:0.50", stroke(color.NRGBA{0x3b, 0x82, 0xf6, 0x80}))
}
