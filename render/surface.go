package render

import "image/color"

// Surface is a 2D drawing target. Coordinates passed between BeginView and
// EndView are in world units; everything else is in screen pixels.
type Surface interface {
	// Size returns the surface dimensions in pixels
	Size() (width, height float64)
	Clear(bg color.NRGBA)
	// BeginView translates by (panX, panY) then scales by zoom
	BeginView(panX, panY, zoom float64)
	EndView()
	Line(x1, y1, x2, y2, width float64, c color.NRGBA)
	Circle(cx, cy, r float64, fill, stroke color.NRGBA, strokeWidth float64)
	// Text draws s centred on (x, y)
	Text(s string, x, y, size float64, c color.NRGBA)
}
