package interact

import (
	"math"

	"github.com/teranos/tagweb/errors"
	"github.com/teranos/tagweb/internal/util"
)

// Limits bounds the zoom controls
type Limits struct {
	MinZoom  float64 `mapstructure:"min_zoom" json:"min_zoom"`
	MaxZoom  float64 `mapstructure:"max_zoom" json:"max_zoom"`
	ZoomStep float64 `mapstructure:"zoom_step" json:"zoom_step"`
}

// DefaultLimits returns zoom in [0.5, 3] with 0.1 steps
func DefaultLimits() Limits {
	return Limits{MinZoom: 0.5, MaxZoom: 3, ZoomStep: 0.1}
}

// Validate checks that the zoom range contains 1 and the step is positive
func (l Limits) Validate() error {
	if l.MinZoom <= 0 || l.MaxZoom < l.MinZoom {
		return errors.NewInvalidConfigError("interaction zoom range [%g, %g] is invalid", l.MinZoom, l.MaxZoom)
	}
	if l.MinZoom > 1 || l.MaxZoom < 1 {
		return errors.WithHint(
			errors.NewInvalidConfigError("interaction zoom range [%g, %g] excludes 1", l.MinZoom, l.MaxZoom),
			"reset restores zoom 1, so the range must include it")
	}
	if l.ZoomStep <= 0 {
		return errors.NewInvalidConfigError("interaction.zoom_step must be > 0, got %g", l.ZoomStep)
	}
	return nil
}

// ViewState is the viewport and selection. Pan is in screen pixels.
type ViewState struct {
	Zoom       float64 `json:"zoom"`
	PanX       float64 `json:"pan_x"`
	PanY       float64 `json:"pan_y"`
	SelectedID string  `json:"selected_id,omitempty"`
}

// NewViewState returns the identity view with nothing selected
func NewViewState() ViewState {
	return ViewState{Zoom: 1}
}

// ZoomIn increases zoom by one step, clamped to the limits
func (v *ViewState) ZoomIn(l Limits) {
	v.setZoom(v.Zoom+l.ZoomStep, l)
}

// ZoomOut decreases zoom by one step, clamped to the limits
func (v *ViewState) ZoomOut(l Limits) {
	v.setZoom(v.Zoom-l.ZoomStep, l)
}

func (v *ViewState) setZoom(z float64, l Limits) {
	// Round away accumulated float error so ten steps of 0.1 land on 2
	z = math.Round(z*1e6) / 1e6
	v.Zoom = util.Clamp(z, l.MinZoom, l.MaxZoom)
}

// Reset restores zoom 1, zero pan and no selection
func (v *ViewState) Reset() {
	*v = NewViewState()
}

// ToWorld maps a screen point into world coordinates
func (v ViewState) ToWorld(sx, sy float64) (float64, float64) {
	zoom := v.Zoom
	if zoom == 0 {
		zoom = 1
	}
	return (sx - v.PanX) / zoom, (sy - v.PanY) / zoom
}

// ToScreen maps a world point onto the screen
func (v ViewState) ToScreen(x, y float64) (float64, float64) {
	return x*v.Zoom + v.PanX, y*v.Zoom + v.PanY
}
