package wavesmith

import (
	"encoding/binary"
	"hash/fnv"
	"math"
)

// Synthesize renders the piecewise-linear reconstruction of the point
// sequence into a mono sample buffer. The buffer covers
// max(duration, last point time) seconds, rounded up to whole samples. For
// each sample time t, the amplitude is interpolated linearly between the
// nearest points on either side; before the first point and after the last
// point the nearest amplitude is held. An empty sequence renders silence.
//
// There is no band-limiting: content above the Nyquist rate aliases. The
// sequence must be sorted; it is not mutated.
func Synthesize(points Points, duration float64, sampleRate int) AudioBuffer {
	length := int(math.Ceil(float64(sampleRate) * math.Max(duration, points.LastTime())))
	if length < 0 {
		length = 0
	}
	buffer := make(AudioBuffer, length)
	if len(points) == 0 {
		return buffer
	}
	j := 0
	for i := range buffer {
		t := float64(i) / float64(sampleRate)
		for j < len(points) && points[j].Time <= t {
			j++
		}
		// points[j] is now the first point with time > t, or one past the
		// end when the last point is behind t
		i2 := j
		if i2 >= len(points) {
			i2 = len(points) - 1
		}
		i1 := i2 - 1
		if i1 < 0 {
			i1 = i2
		}
		p1, p2 := points[i1], points[i2]
		if i1 == i2 || p1.Time == p2.Time {
			buffer[i] = float32(p2.Amplitude)
			continue
		}
		u := (t - p1.Time) / (p2.Time - p1.Time)
		if u < 0 {
			u = 0
		} else if u > 1 {
			u = 1
		}
		buffer[i] = float32(p1.Amplitude + (p2.Amplitude-p1.Amplitude)*u)
	}
	return buffer
}

// Fingerprint derives a value that changes whenever any (time, amplitude)
// value, the length or the order of the sequence changes. It is used to
// detect whether a sequence needs to be re-rendered.
func Fingerprint(points Points) uint64 {
	h := fnv.New64a()
	var scratch [8]byte
	binary.LittleEndian.PutUint64(scratch[:], uint64(len(points)))
	h.Write(scratch[:])
	for _, p := range points {
		binary.LittleEndian.PutUint64(scratch[:], math.Float64bits(p.Time))
		h.Write(scratch[:])
		binary.LittleEndian.PutUint64(scratch[:], math.Float64bits(p.Amplitude))
		h.Write(scratch[:])
	}
	return h.Sum64()
}

// Synth renders point sequences at a fixed sample rate, memoizing the last
// rendered buffer. A render request recomputes only when the sequence
// fingerprint or the duration differs from the cached one.
type Synth struct {
	sampleRate  int
	fingerprint uint64
	duration    float64
	buffer      AudioBuffer
}

func NewSynth(sampleRate int) *Synth {
	return &Synth{sampleRate: sampleRate}
}

func (s *Synth) SampleRate() int { return s.sampleRate }

// Render returns the rendered buffer for the sequence, reusing the cached
// buffer when the content fingerprint and duration match the previous call.
// The returned buffer is owned by the Synth and must not be mutated.
func (s *Synth) Render(points Points, duration float64) AudioBuffer {
	fingerprint := Fingerprint(points)
	if s.buffer != nil && fingerprint == s.fingerprint && duration == s.duration {
		return s.buffer
	}
	s.buffer = Synthesize(points, duration, s.sampleRate)
	s.fingerprint = fingerprint
	s.duration = duration
	return s.buffer
}
