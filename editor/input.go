package editor

import "time"

type (
	// ControllerState is the pointer interaction state. The render
	// collaborator may poll it to draw drag feedback.
	ControllerState int

	// Key identifies one of the keyboard editing actions. Binding physical
	// keys to these is the job of the windowing layer.
	Key int

	// Box is an axis-aligned rectangle in surface coordinates, normalized so
	// that X1 <= X2 and Y1 <= Y2.
	Box struct {
		X1, Y1, X2, Y2 float64
	}

	// Controller turns raw pointer, wheel and keyboard events into model
	// mutations and view updates. Events must arrive from a single
	// goroutine; every transition runs to completion before the next event.
	Controller struct {
		model *Model
		state ControllerState

		downAt           time.Time
		downModifier     bool
		downHit          bool
		lastX, lastY     float64
		anchorX, anchorY float64
		active           Handle
		dragged          bool
	}
)

const (
	Idle ControllerState = iota
	DraggingPoint
	DraggingSelectionBox
	Panning
)

const (
	KeySelectAll Key = iota
	KeyCopy
	KeyPaste
	KeyUndo
	KeyRedo
	KeyDelete
)

func NewController(model *Model) *Controller {
	return &Controller{model: model}
}

func (c *Controller) State() ControllerState { return c.state }

// SelectionBox returns the current selection box while one is being dragged.
func (c *Controller) SelectionBox() (Box, bool) {
	if c.state != DraggingSelectionBox {
		return Box{}, false
	}
	return normalizedBox(c.anchorX, c.anchorY, c.lastX, c.lastY), true
}

// PointerDown starts a gesture. Without the modifier, the hit point becomes
// the selection (or the selection is cleared on a miss); with the modifier a
// selection box is anchored at the cursor. A hit starts a point drag, a miss
// starts panning.
func (c *Controller) PointerDown(x, y float64, modifier bool, at time.Time) {
	m := c.model
	c.downAt = at
	c.downModifier = modifier
	c.downHit = false
	c.dragged = false
	c.lastX, c.lastY = x, y
	if !modifier {
		if h, ok := m.PickNearest(x, y, m.config.HitRadius); ok {
			c.downHit = true
			c.active = h
			m.lastHit = h
			if !m.Selected(h) {
				m.selectOnly(h)
			}
		} else {
			m.clearSelection()
		}
	}
	switch {
	case modifier:
		c.state = DraggingSelectionBox
		c.anchorX, c.anchorY = x, y
	case c.downHit:
		// one undo step per drag: the first move snapshots, the rest coalesce
		m.commitDrag()
		c.state = DraggingPoint
	default:
		c.state = Panning
	}
}

func (c *Controller) PointerMove(x, y float64, at time.Time) {
	m := c.model
	v := &m.view
	switch c.state {
	case DraggingSelectionBox:
		// the box only ever grows the selection; shrinking it mid-drag does
		// not deselect
		box := normalizedBox(c.anchorX, c.anchorY, x, y)
		for i, p := range m.d.Points {
			px := v.TimeToX(p.Time)
			py := v.AmplitudeToY(p.Amplitude)
			if px >= box.X1 && px <= box.X2 && py >= box.Y1 && py <= box.Y2 {
				m.addToSelection(m.d.Handles[i])
			}
		}
	case DraggingPoint:
		// the mapping is non-linear under zoom, so the delta must be taken
		// between the two cursor positions in domain coordinates, never from
		// the raw pixel delta
		dTime := v.XToTime(x) - v.XToTime(c.lastX)
		dAmplitude := v.YToAmplitude(y) - v.YToAmplitude(c.lastY)
		c.dragged = true
		handles := []Handle{c.active}
		if m.Selected(c.active) && len(m.selection) > 1 {
			handles = m.Selection()
		}
		m.MovePoints(handles, dTime, dAmplitude)
	case Panning:
		dx := x - c.lastX
		v.SetPan(v.Pan - dx/v.Width*v.VisibleRange()*m.config.DragPanSensitivity)
	}
	c.lastX, c.lastY = x, y
}

// PointerUp ends the gesture. A short press that dragged no point and hit no
// point is a click-to-create: a new point is inserted at the release
// position's domain coordinates, clamped into bounds.
func (c *Controller) PointerUp(x, y float64, at time.Time) {
	m := c.model
	if at.Sub(c.downAt) < m.config.ClickMaxDuration && !c.dragged && !c.downModifier && !c.downHit {
		t := clampFloat(m.view.XToTime(x), 0, m.d.Duration)
		a := clampFloat(m.view.YToAmplitude(y), -1, 1)
		h := m.AddPoint(t, a)
		m.selectOnly(h)
		m.lastHit = h
	}
	if c.state == DraggingPoint {
		m.commitDrag()
	}
	c.state = Idle
	c.dragged = false
}

// Wheel pans when the horizontal component dominates, and otherwise zooms
// exponentially at the cursor.
func (c *Controller) Wheel(deltaX, deltaY, cursorX float64) {
	m := c.model
	v := &m.view
	if absFloat(deltaX) > absFloat(deltaY) {
		v.SetPan(v.Pan + deltaX/v.Width*v.VisibleRange()*m.config.WheelPanSensitivity)
		return
	}
	v.ZoomAtCursor(WheelZoomFactor(deltaY, m.config.ZoomSensitivity), cursorX)
}

// KeyPress performs a keyboard editing action. These are independent of the
// pointer state.
func (c *Controller) KeyPress(key Key) {
	m := c.model
	switch key {
	case KeySelectAll:
		m.SelectAll()
	case KeyCopy:
		m.CopySelection()
	case KeyPaste:
		m.Paste()
	case KeyUndo:
		m.Undo().Do()
	case KeyRedo:
		m.Redo().Do()
	case KeyDelete:
		m.DeleteSelected()
	}
}

func normalizedBox(x1, y1, x2, y2 float64) Box {
	if x2 < x1 {
		x1, x2 = x2, x1
	}
	if y2 < y1 {
		y1, y2 = y2, y1
	}
	return Box{X1: x1, Y1: y1, X2: x2, Y2: y2}
}
