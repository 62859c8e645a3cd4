package render

import "image/color"

// Op kinds recorded by Recorder
const (
	OpClear     = "clear"
	OpBeginView = "begin_view"
	OpEndView   = "end_view"
	OpLine      = "line"
	OpCircle    = "circle"
	OpText      = "text"
)

// Op is one recorded draw call. Unused fields stay zero. Colours are
// non-premultiplied.
type Op struct {
	Kind        string      `json:"kind"`
	X           float64     `json:"x,omitempty"`
	Y           float64     `json:"y,omitempty"`
	X2          float64     `json:"x2,omitempty"`
	Y2          float64     `json:"y2,omitempty"`
	R           float64     `json:"r,omitempty"`
	Width       float64     `json:"width,omitempty"`
	Size        float64     `json:"size,omitempty"`
	Zoom        float64     `json:"zoom,omitempty"`
	Text        string      `json:"text,omitempty"`
	Fill        color.NRGBA `json:"fill"`
	Stroke      color.NRGBA `json:"stroke"`
	StrokeWidth float64     `json:"stroke_width,omitempty"`
}

// Recorder is an in-memory Surface that keeps every draw call
type Recorder struct {
	Width, Height float64
	Ops           []Op
}

// NewRecorder creates an empty recorder of the given size
func NewRecorder(width, height float64) *Recorder {
	return &Recorder{Width: width, Height: height}
}

func (r *Recorder) Size() (float64, float64) { return r.Width, r.Height }

func (r *Recorder) Clear(bg color.NRGBA) {
	r.Ops = append(r.Ops, Op{Kind: OpClear, Fill: bg})
}

func (r *Recorder) BeginView(panX, panY, zoom float64) {
	r.Ops = append(r.Ops, Op{Kind: OpBeginView, X: panX, Y: panY, Zoom: zoom})
}

func (r *Recorder) EndView() {
	r.Ops = append(r.Ops, Op{Kind: OpEndView})
}

func (r *Recorder) Line(x1, y1, x2, y2, width float64, c color.NRGBA) {
	r.Ops = append(r.Ops, Op{Kind: OpLine, X: x1, Y: y1, X2: x2, Y2: y2, Width: width, Stroke: c})
}

func (r *Recorder) Circle(cx, cy, radius float64, fill, stroke color.NRGBA, strokeWidth float64) {
	r.Ops = append(r.Ops, Op{Kind: OpCircle, X: cx, Y: cy, R: radius, Fill: fill, Stroke: stroke, StrokeWidth: strokeWidth})
}

func (r *Recorder) Text(s string, x, y, size float64, c color.NRGBA) {
	r.Ops = append(r.Ops, Op{Kind: OpText, X: x, Y: y, Size: size, Text: s, Fill: c})
}

// Filter returns the recorded ops of one kind, in order
func (r *Recorder) Filter(kind string) []Op {
	var ops []Op
	for _, op := range r.Ops {
		if op.Kind == kind {
			ops = append(ops, op)
		}
	}
	return ops
}

// Reset drops every recorded op
func (r *Recorder) Reset() {
	r.Ops = r.Ops[:0]
}
