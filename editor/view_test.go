package editor_test

import (
	"math"
	"testing"

	"github.com/lightboxtiktok-alt/WaveSmith/editor"
)

func newTestView() *editor.View {
	return newTestModel().View() // 800x400 surface, 10 s duration, zoom 1
}

func TestViewRoundtrip(t *testing.T) {
	v := newTestView()
	v.SetZoom(8)
	v.SetPan(2)
	for _, time := range []float64{2, 2.5, 3, 3.2499} {
		if got := v.XToTime(v.TimeToX(time)); math.Abs(got-time) > 1e-9 {
			t.Errorf("time %v did not roundtrip, got %v", time, got)
		}
	}
	for _, x := range []float64{0, 1, 400, 799} {
		if got := v.TimeToX(v.XToTime(x)); math.Abs(got-x) > 1e-9 {
			t.Errorf("x %v did not roundtrip, got %v", x, got)
		}
	}
}

func TestViewAmplitudeAxis(t *testing.T) {
	v := newTestView()
	if y := v.AmplitudeToY(1); y != 0 {
		t.Errorf("expected amplitude 1 at the top, got y %v", y)
	}
	if y := v.AmplitudeToY(-1); y != 400 {
		t.Errorf("expected amplitude -1 at the bottom, got y %v", y)
	}
	if y := v.AmplitudeToY(0); y != 200 {
		t.Errorf("expected amplitude 0 at the vertical center, got y %v", y)
	}
	for _, a := range []float64{-1, -0.25, 0, 0.5, 1} {
		if got := v.YToAmplitude(v.AmplitudeToY(a)); math.Abs(got-a) > 1e-9 {
			t.Errorf("amplitude %v did not roundtrip, got %v", a, got)
		}
	}
}

func TestViewZoomAtCursorKeepsTimeFixed(t *testing.T) {
	v := newTestView()
	v.SetZoom(4)
	v.SetPan(3)
	cursorX := 300.0
	before := v.XToTime(cursorX)
	v.ZoomAtCursor(2, cursorX)
	after := v.XToTime(cursorX)
	if math.Abs(after-before) > 1e-9 {
		t.Errorf("expected the time under the cursor to stay fixed, %v became %v", before, after)
	}
	if v.Zoom != 8 {
		t.Errorf("expected zoom 8, got %v", v.Zoom)
	}
}

func TestViewPanClamps(t *testing.T) {
	v := newTestView()
	v.SetZoom(2) // visible range 5 s
	v.SetPan(-3)
	if v.Pan != 0 {
		t.Errorf("expected the pan to clamp at 0, got %v", v.Pan)
	}
	v.SetPan(100)
	if v.Pan != 5 {
		t.Errorf("expected the pan to clamp at duration - visible range, got %v", v.Pan)
	}
}

func TestViewZoomClamps(t *testing.T) {
	v := newTestView()
	v.SetZoom(0.1)
	if v.Zoom != 1 {
		t.Errorf("expected zoom to clamp at the minimum 1, got %v", v.Zoom)
	}
	v.SetZoom(1e6)
	if v.Zoom != 1000 {
		t.Errorf("expected zoom to clamp at the maximum 1000, got %v", v.Zoom)
	}
}

func TestViewGridStep(t *testing.T) {
	v := newTestView()
	tests := []struct {
		zoom float64
		step float64
	}{
		{1, 1},      // 10 s visible
		{4, 0.1},    // 2.5 s visible
		{100, 0.01}, // 0.1 s visible
		{1000, 0.001},
	}
	for _, test := range tests {
		v.SetZoom(test.zoom)
		if got := v.GridStep(); got != test.step {
			t.Errorf("zoom %v: expected grid step %v, got %v", test.zoom, test.step, got)
		}
	}
}

func TestWheelZoomFactor(t *testing.T) {
	if f := editor.WheelZoomFactor(-100, 0.002); f <= 1 {
		t.Errorf("expected scrolling up to zoom in, got factor %v", f)
	}
	if f := editor.WheelZoomFactor(100, 0.002); f >= 1 {
		t.Errorf("expected scrolling down to zoom out, got factor %v", f)
	}
	in := editor.WheelZoomFactor(-50, 0.002)
	out := editor.WheelZoomFactor(50, 0.002)
	if math.Abs(in*out-1) > 1e-12 {
		t.Errorf("expected opposite deltas to cancel, got %v", in*out)
	}
}
