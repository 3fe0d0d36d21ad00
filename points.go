package wavesmith

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"

	"gopkg.in/yaml.v3"
)

type (
	// Point is a single control sample of the waveform: the amplitude the
	// signal should pass through at the given time. The waveform between
	// points is reconstructed by linear interpolation.
	Point struct {
		Time      float64 `json:"time" yaml:"time"`
		Amplitude float64 `json:"amplitude" yaml:"amplitude"`
	}

	// Points is a sequence of control points, sorted by non-decreasing time.
	// The zero value is a valid empty sequence. Go does not have immutable
	// slices, so there's no way to guarantee against accidental mutations;
	// use Copy when handing a sequence across an ownership boundary.
	Points []Point
)

// Copy makes a deep copy of the point sequence.
func (p Points) Copy() Points {
	ret := make(Points, len(p))
	copy(ret, p)
	return ret
}

// Sort sorts the sequence by non-decreasing time. The sort is stable: points
// sharing the exact same time keep their relative order, so the tie-break for
// equal times is insertion order.
func (p Points) Sort() {
	sort.SliceStable(p, func(i, j int) bool { return p[i].Time < p[j].Time })
}

// IsSorted reports whether the sequence is sorted by non-decreasing time.
func (p Points) IsSorted() bool {
	return sort.SliceIsSorted(p, func(i, j int) bool { return p[i].Time < p[j].Time })
}

// LastTime returns the time of the last point, or 0 for an empty sequence.
// Assumes the sequence is sorted.
func (p Points) LastTime() float64 {
	if len(p) == 0 {
		return 0
	}
	return p[len(p)-1].Time
}

// Validate checks that every point has a finite, non-negative time and a
// finite amplitude within [-1, 1]. It returns an error describing the first
// offending point, or nil. Callers importing untrusted data should validate
// before adopting the sequence, so that a rejected payload leaves their state
// completely unchanged.
func (p Points) Validate() error {
	for i, pt := range p {
		if math.IsNaN(pt.Time) || math.IsInf(pt.Time, 0) {
			return fmt.Errorf("point %d: time is not finite", i)
		}
		if pt.Time < 0 {
			return fmt.Errorf("point %d: time %v is negative", i, pt.Time)
		}
		if math.IsNaN(pt.Amplitude) || math.IsInf(pt.Amplitude, 0) {
			return fmt.Errorf("point %d: amplitude is not finite", i)
		}
		if pt.Amplitude < -1 || pt.Amplitude > 1 {
			return fmt.Errorf("point %d: amplitude %v outside [-1, 1]", i, pt.Amplitude)
		}
	}
	return nil
}

// ParsePoints parses a point sequence from a byte slice, trying JSON first
// and YAML second. The returned sequence is validated and sorted; any
// violation rejects the whole payload.
func ParsePoints(data []byte) (Points, error) {
	var points Points
	if errJSON := json.Unmarshal(data, &points); errJSON != nil {
		if errYaml := yaml.Unmarshal(data, &points); errYaml != nil {
			return nil, fmt.Errorf("the points could not be parsed as .json (%v) or .yml (%v)", errJSON, errYaml)
		}
	}
	if err := points.Validate(); err != nil {
		return nil, fmt.Errorf("invalid point data: %w", err)
	}
	points.Sort()
	return points, nil
}

// MarshalPoints serializes a point sequence, as JSON when the extension is
// ".json" and as YAML otherwise.
func MarshalPoints(points Points, extension string) ([]byte, error) {
	var contents []byte
	var err error
	if extension == ".json" {
		contents, err = json.Marshal(points)
	} else {
		contents, err = yaml.Marshal(points)
	}
	if err != nil {
		return nil, fmt.Errorf("could not marshal points: %w", err)
	}
	return contents, nil
}
