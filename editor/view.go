package editor

import "math"

// View is the bijection between domain coordinates (time in seconds,
// amplitude in [-1, 1]) and surface coordinates (pixels), parameterized by
// pan, zoom and the waveform duration. Amplitude 0 maps to the vertical
// center of the surface and the amplitude axis is inverted: higher amplitude
// means smaller y.
type View struct {
	Width, Height float64
	Duration      float64
	Zoom          float64
	Pan           float64

	zoomMin, zoomMax float64
}

// VisibleRange is the time span currently mapped across the full surface
// width.
func (v *View) VisibleRange() float64 { return v.Duration / v.Zoom }

func (v *View) TimeToX(t float64) float64 {
	return (t - v.Pan) / v.VisibleRange() * v.Width
}

func (v *View) XToTime(x float64) float64 {
	return v.Pan + x/v.Width*v.VisibleRange()
}

func (v *View) AmplitudeToY(a float64) float64 {
	return (1 - a) / 2 * v.Height
}

func (v *View) YToAmplitude(y float64) float64 {
	return 1 - 2*y/v.Height
}

// SetPan sets the pan, clamped to [0, duration - visibleRange].
func (v *View) SetPan(p float64) {
	v.Pan = clampFloat(p, 0, v.Duration-v.VisibleRange())
}

// SetZoom sets the zoom, clamped to the configured bounds, and re-clamps the
// pan against the new visible range.
func (v *View) SetZoom(z float64) {
	v.Zoom = clampFloat(z, v.zoomMin, v.zoomMax)
	v.SetPan(v.Pan)
}

// ZoomAtCursor scales the zoom by factor while keeping the time under the
// cursor fixed on screen: the pan is recomputed so that the pre-zoom time at
// cursorX stays at cursorX, then clamped.
func (v *View) ZoomAtCursor(factor, cursorX float64) {
	t0 := v.XToTime(cursorX)
	v.Zoom = clampFloat(v.Zoom*factor, v.zoomMin, v.zoomMax)
	v.SetPan(t0 - cursorX/v.Width*v.VisibleRange())
}

// Resize tells the view the surface size in pixels. The render collaborator
// calls this when its surface changes.
func (v *View) Resize(width, height float64) {
	v.Width = width
	v.Height = height
}

// gridSteps maps the visible time span to a human-friendly grid step for
// axis labeling; consumed only by the render collaborator.
var gridSteps = []struct {
	span, step float64
}{
	{20, 2},
	{10, 1},
	{5, 0.5},
	{1, 0.1},
	{0.5, 0.05},
	{0.1, 0.01},
	{0.05, 0.005},
	{0.01, 0.001},
}

// GridStep returns the grid step for the current visible range.
func (v *View) GridStep() float64 {
	visible := v.VisibleRange()
	for _, g := range gridSteps {
		if visible >= g.span {
			return g.step
		}
	}
	return 0.0005
}

// WheelZoomFactor converts a vertical wheel delta into the exponential zoom
// factor exp(-delta * sensitivity), so scrolling one direction zooms in and
// the other zooms out, smoothly.
func WheelZoomFactor(deltaY, sensitivity float64) float64 {
	return math.Exp(-deltaY * sensitivity)
}
