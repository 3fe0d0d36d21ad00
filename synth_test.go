package wavesmith_test

import (
	"math"
	"testing"

	wavesmith "github.com/lightboxtiktok-alt/WaveSmith"
)

func TestSynthesizeRamp(t *testing.T) {
	points := wavesmith.Points{{Time: 0, Amplitude: 0}, {Time: 1, Amplitude: 1}}
	buffer := wavesmith.Synthesize(points, 1.25, 4)
	expected := []float32{0, 0.25, 0.5, 0.75, 1}
	if len(buffer) != len(expected) {
		t.Fatalf("expected %d samples, got %d", len(expected), len(buffer))
	}
	for i, e := range expected {
		if math.Abs(float64(buffer[i]-e)) > 1e-6 {
			t.Errorf("sample %d: expected %v, got %v", i, e, buffer[i])
		}
	}
}

func TestSynthesizeEmpty(t *testing.T) {
	buffer := wavesmith.Synthesize(nil, 1, 4)
	if len(buffer) != 4 {
		t.Fatalf("expected 4 samples, got %d", len(buffer))
	}
	for i, s := range buffer {
		if s != 0 {
			t.Errorf("sample %d: expected silence, got %v", i, s)
		}
	}
}

func TestSynthesizeHoldsEnds(t *testing.T) {
	points := wavesmith.Points{{Time: 1, Amplitude: 0.5}, {Time: 2, Amplitude: -0.5}}
	buffer := wavesmith.Synthesize(points, 3, 2)
	expected := []float32{0.5, 0.5, 0.5, 0, -0.5, -0.5}
	if len(buffer) != len(expected) {
		t.Fatalf("expected %d samples, got %d", len(expected), len(buffer))
	}
	for i, e := range expected {
		if math.Abs(float64(buffer[i]-e)) > 1e-6 {
			t.Errorf("sample %d: expected %v, got %v", i, e, buffer[i])
		}
	}
}

func TestSynthesizeEqualTimes(t *testing.T) {
	points := wavesmith.Points{{Time: 1, Amplitude: 0.2}, {Time: 1, Amplitude: 0.8}}
	buffer := wavesmith.Synthesize(points, 1.5, 2)
	expected := []float32{0.2, 0.2, 0.8}
	if len(buffer) != len(expected) {
		t.Fatalf("expected %d samples, got %d", len(expected), len(buffer))
	}
	for i, e := range expected {
		if math.Abs(float64(buffer[i]-e)) > 1e-6 {
			t.Errorf("sample %d: expected %v, got %v", i, e, buffer[i])
		}
	}
}

func TestSynthesizeExtendsToLastPoint(t *testing.T) {
	points := wavesmith.Points{{Time: 0, Amplitude: 0}, {Time: 2.5, Amplitude: 1}}
	buffer := wavesmith.Synthesize(points, 1, 4)
	if len(buffer) != 10 {
		t.Errorf("expected the buffer to cover the last point (10 samples), got %d", len(buffer))
	}
}

func TestFingerprint(t *testing.T) {
	a := wavesmith.Points{{Time: 0, Amplitude: 0.5}, {Time: 1, Amplitude: -0.5}}
	b := wavesmith.Points{{Time: 0, Amplitude: 0.5}, {Time: 1, Amplitude: -0.5}}
	if wavesmith.Fingerprint(a) != wavesmith.Fingerprint(b) {
		t.Errorf("equal sequences should have equal fingerprints")
	}
	c := wavesmith.Points{{Time: 1, Amplitude: -0.5}, {Time: 0, Amplitude: 0.5}}
	if wavesmith.Fingerprint(a) == wavesmith.Fingerprint(c) {
		t.Errorf("reordering the sequence should change the fingerprint")
	}
	d := wavesmith.Points{{Time: 0, Amplitude: 0.5}, {Time: 1, Amplitude: -0.25}}
	if wavesmith.Fingerprint(a) == wavesmith.Fingerprint(d) {
		t.Errorf("changing a value should change the fingerprint")
	}
	if wavesmith.Fingerprint(nil) == wavesmith.Fingerprint(wavesmith.Points{{}}) {
		t.Errorf("changing the length should change the fingerprint")
	}
}

func TestSynthRenderCache(t *testing.T) {
	synth := wavesmith.NewSynth(4)
	points := wavesmith.Points{{Time: 0, Amplitude: 0}, {Time: 1, Amplitude: 1}}
	first := synth.Render(points, 1.25)
	second := synth.Render(points.Copy(), 1.25)
	if &first[0] != &second[0] {
		t.Errorf("rendering unchanged content should reuse the cached buffer")
	}
	points[1].Amplitude = 0.5
	third := synth.Render(points, 1.25)
	if len(third) > 0 && len(first) > 0 && &first[0] == &third[0] && third[len(third)-1] == first[len(first)-1] {
		t.Errorf("rendering changed content should recompute the buffer")
	}
	if third[len(third)-1] != 0.5 {
		t.Errorf("expected the re-rendered buffer to end at 0.5, got %v", third[len(third)-1])
	}
	fourth := synth.Render(points, 2)
	if len(fourth) == len(third) {
		t.Errorf("changing the duration should recompute the buffer")
	}
}
