package interact

import (
	"math"

	"go.uber.org/zap"

	"github.com/teranos/tagweb/graph"
	"github.com/teranos/tagweb/physics"
)

// EventKind is a pointer event type
type EventKind string

const (
	PointerDown  EventKind = "down"
	PointerMove  EventKind = "move"
	PointerUp    EventKind = "up"
	PointerLeave EventKind = "leave"
)

// PointerEvent is a pointer event in screen coordinates
type PointerEvent struct {
	Kind EventKind `json:"kind"`
	X    float64   `json:"x"`
	Y    float64   `json:"y"`
}

// Mode is the controller state
type Mode int

const (
	ModeIdle Mode = iota
	ModeDragging
	ModePanning
)

func (m Mode) String() string {
	switch m {
	case ModeDragging:
		return "dragging-node"
	case ModePanning:
		return "panning"
	default:
		return "idle"
	}
}

// NodeSet is the current node collection. Nodes are looked up by id on every
// event so a rebuild during a drag keeps working against the new set.
type NodeSet interface {
	Node(id string) *graph.TagNode
	NodeList() []*graph.TagNode
}

// SelectFunc receives the selected tag id, or "" when the selection is cleared
type SelectFunc func(id string)

// Controller turns pointer events into drags, pans and selections
type Controller struct {
	view     ViewState
	limits   Limits
	mode     Mode
	dragID   string
	lastX    float64
	lastY    float64
	onSelect SelectFunc
	logger   *zap.SugaredLogger
}

// NewController creates an idle controller with the identity view
func NewController(limits Limits, onSelect SelectFunc, logger *zap.SugaredLogger) *Controller {
	return &Controller{
		view:     NewViewState(),
		limits:   limits,
		onSelect: onSelect,
		logger:   logger.Named("interact"),
	}
}

// View returns a copy of the view state
func (c *Controller) View() ViewState { return c.view }

// Mode returns the current state
func (c *Controller) Mode() Mode { return c.mode }

// DraggedID returns the id of the node being dragged, or ""
func (c *Controller) DraggedID() string { return c.dragID }

// SetLimits replaces the zoom limits and re-clamps the current zoom
func (c *Controller) SetLimits(l Limits) {
	c.limits = l
	c.view.setZoom(c.view.Zoom, l)
}

// Handle applies one pointer event. It reports whether anything observable
// changed and a new frame is needed.
func (c *Controller) Handle(ev PointerEvent, nodes NodeSet, bounds physics.Bounds) bool {
	switch ev.Kind {
	case PointerDown:
		c.pointerDown(ev, nodes, bounds)
		return true
	case PointerMove:
		return c.pointerMove(ev, nodes, bounds)
	case PointerUp, PointerLeave:
		return c.release(nodes)
	default:
		c.logger.Debugw("Ignoring unknown pointer event", "kind", ev.Kind)
		return false
	}
}

func (c *Controller) pointerDown(ev PointerEvent, nodes NodeSet, bounds physics.Bounds) {
	// A down without a matching up (lost pointer) ends the previous gesture
	c.release(nodes)

	var hit *graph.TagNode
	if onSurface(ev, bounds) {
		wx, wy := c.view.ToWorld(ev.X, ev.Y)
		hit = HitTest(nodes.NodeList(), wx, wy)
	}
	if hit == nil {
		c.mode = ModePanning
		c.lastX, c.lastY = ev.X, ev.Y
		c.view.SelectedID = ""
		c.logger.Debugw("Pointer down on empty space, panning")
		c.emit("")
		return
	}

	for _, n := range nodes.NodeList() {
		n.Pinned = false
	}
	hit.Pinned = true
	hit.VX, hit.VY = 0, 0

	c.mode = ModeDragging
	c.dragID = hit.ID
	c.view.SelectedID = hit.ID
	c.logger.Debugw("Dragging node", "tag_id", hit.ID)
	c.emit(hit.ID)
}

func (c *Controller) pointerMove(ev PointerEvent, nodes NodeSet, bounds physics.Bounds) bool {
	switch c.mode {
	case ModeDragging:
		n := nodes.Node(c.dragID)
		if n == nil {
			// Node disappeared in a rebuild
			c.mode = ModeIdle
			c.dragID = ""
			return false
		}
		wx, wy := c.view.ToWorld(ev.X, ev.Y)
		n.X, n.Y = bounds.Clamp(wx, wy, n.Radius)
		n.VX, n.VY = 0, 0
		n.Pinned = true
		return true

	case ModePanning:
		c.view.PanX += ev.X - c.lastX
		c.view.PanY += ev.Y - c.lastY
		c.lastX, c.lastY = ev.X, ev.Y
		return true
	}
	return false
}

func (c *Controller) release(nodes NodeSet) bool {
	switch c.mode {
	case ModeDragging:
		if n := nodes.Node(c.dragID); n != nil {
			n.Pinned = false
		}
	case ModePanning:
	default:
		return false
	}
	c.mode = ModeIdle
	c.dragID = ""
	return true
}

// Select sets the selection from outside without notifying the callback
func (c *Controller) Select(id string) {
	c.view.SelectedID = id
}

func (c *Controller) ZoomIn()  { c.view.ZoomIn(c.limits) }
func (c *Controller) ZoomOut() { c.view.ZoomOut(c.limits) }

// SetZoom sets an absolute zoom, clamped to the limits
func (c *Controller) SetZoom(z float64) { c.view.setZoom(z, c.limits) }

// Reset restores the identity view and clears the selection. Node positions
// are not touched.
func (c *Controller) Reset() {
	c.view.Reset()
}

func (c *Controller) emit(id string) {
	if c.onSelect != nil {
		c.onSelect(id)
	}
}

// onSurface reports whether the screen point lies on the drawing surface.
// Points off the surface never hit a node, even when panning has moved one
// under them.
func onSurface(ev PointerEvent, bounds physics.Bounds) bool {
	return ev.X >= 0 && ev.X <= bounds.Width && ev.Y >= 0 && ev.Y <= bounds.Height
}

// HitTest returns the first node whose circle contains (x, y), in world
// coordinates, or nil.
func HitTest(nodes []*graph.TagNode, x, y float64) *graph.TagNode {
	for _, n := range nodes {
		if math.Hypot(x-n.X, y-n.Y) <= n.Radius {
			return n
		}
	}
	return nil
}
