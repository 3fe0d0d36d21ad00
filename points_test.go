package wavesmith_test

import (
	"encoding/json"
	"testing"

	wavesmith "github.com/lightboxtiktok-alt/WaveSmith"
)

func TestParsePointsJSON(t *testing.T) {
	data := []byte(`[{"time":1,"amplitude":-0.5},{"time":0.25,"amplitude":1}]`)
	points, err := wavesmith.ParsePoints(data)
	if err != nil {
		t.Fatalf("ParsePoints failed: %v", err)
	}
	if len(points) != 2 {
		t.Fatalf("expected 2 points, got %d", len(points))
	}
	if !points.IsSorted() || points[0].Time != 0.25 {
		t.Errorf("expected the parsed points to be sorted by time, got %v", points)
	}
}

func TestParsePointsYAML(t *testing.T) {
	data := []byte("- time: 0.5\n  amplitude: 0.25\n- time: 2\n  amplitude: -1\n")
	points, err := wavesmith.ParsePoints(data)
	if err != nil {
		t.Fatalf("ParsePoints failed: %v", err)
	}
	if len(points) != 2 || points[1].Amplitude != -1 {
		t.Errorf("unexpected parsed points: %v", points)
	}
}

func TestParsePointsRejections(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"garbage", "!!!"},
		{"negative time", `[{"time":-1,"amplitude":0}]`},
		{"amplitude above one", `[{"time":0,"amplitude":1.5}]`},
		{"amplitude below minus one", `[{"time":0,"amplitude":-1.5}]`},
		{"non-finite time", "- time: .inf\n  amplitude: 0\n"},
		{"non-finite amplitude", "- time: 0\n  amplitude: .nan\n"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if _, err := wavesmith.ParsePoints([]byte(test.data)); err == nil {
				t.Errorf("expected an error for %q", test.data)
			}
		})
	}
}

func TestPointsSortStable(t *testing.T) {
	points := wavesmith.Points{
		{Time: 1, Amplitude: 0.1},
		{Time: 0, Amplitude: 0.5},
		{Time: 1, Amplitude: 0.2},
		{Time: 1, Amplitude: 0.3},
	}
	points.Sort()
	expected := wavesmith.Points{
		{Time: 0, Amplitude: 0.5},
		{Time: 1, Amplitude: 0.1},
		{Time: 1, Amplitude: 0.2},
		{Time: 1, Amplitude: 0.3},
	}
	for i := range expected {
		if points[i] != expected[i] {
			t.Fatalf("expected %v, got %v", expected, points)
		}
	}
}

func TestMarshalPointsRoundtrip(t *testing.T) {
	points := wavesmith.Points{{Time: 0, Amplitude: 0.5}, {Time: 1.5, Amplitude: -0.25}}
	for _, extension := range []string{".json", ".yml"} {
		data, err := wavesmith.MarshalPoints(points, extension)
		if err != nil {
			t.Fatalf("MarshalPoints %v failed: %v", extension, err)
		}
		if extension == ".json" && !json.Valid(data) {
			t.Errorf("expected valid JSON for the .json extension")
		}
		parsed, err := wavesmith.ParsePoints(data)
		if err != nil {
			t.Fatalf("ParsePoints %v failed: %v", extension, err)
		}
		if len(parsed) != len(points) {
			t.Fatalf("expected %d points after a %v roundtrip, got %d", len(points), extension, len(parsed))
		}
		for i := range points {
			if parsed[i] != points[i] {
				t.Errorf("point %d changed in a %v roundtrip: %v vs %v", i, extension, points[i], parsed[i])
			}
		}
	}
}

func TestPointsCopyIsIndependent(t *testing.T) {
	points := wavesmith.Points{{Time: 0, Amplitude: 0.5}}
	copied := points.Copy()
	points[0].Amplitude = -0.5
	if copied[0].Amplitude != 0.5 {
		t.Errorf("expected the copy to be independent of the source")
	}
}
