// Package oto implements the wavesmith audio interfaces on top of the
// ebitengine oto library.
package oto

import (
	"encoding/binary"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"

	wavesmith "github.com/lightboxtiktok-alt/WaveSmith"
)

type OtoContext struct {
	context    *oto.Context
	sampleRate int
}

type OtoOutput struct {
	player    *oto.Player
	source    *sinkSource
	tmpBuffer []byte
}

// NewContext creates a mono float32 oto context at the given sample rate and
// waits until the audio device is ready to play.
func NewContext(sampleRate int) (*OtoContext, error) {
	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 1,
		Format:       oto.FormatFloat32LE,
	}
	context, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("cannot create oto context: %w", err)
	}
	<-ready
	return &OtoContext{context: context, sampleRate: sampleRate}, nil
}

func (c *OtoContext) Output() wavesmith.AudioSink {
	// a queue of one second keeps WriteAudio roughly realtime, so stopping
	// playback never has more than a second of audio already committed
	source := newSinkSource(4 * c.sampleRate)
	player := c.context.NewPlayer(source)
	player.Play()
	return &OtoOutput{player: player, source: source}
}

// Close suspends the underlying context; oto contexts cannot be destroyed.
func (c *OtoContext) Close() error {
	if err := c.context.Suspend(); err != nil {
		return fmt.Errorf("cannot suspend oto context: %w", err)
	}
	return nil
}

// WriteAudio queues the buffer for playback, blocking while the queue is
// full. We reuse the old capacity tmpBuffer by setting its length to zero,
// then save the tmpBuffer so we can reuse it next time.
func (o *OtoOutput) WriteAudio(buffer wavesmith.AudioBuffer) error {
	o.tmpBuffer = floatBufferToLEBytes(buffer, o.tmpBuffer[:0])
	if !o.source.push(o.tmpBuffer) {
		return fmt.Errorf("cannot write to a closed player")
	}
	return nil
}

// Wait blocks until everything queued so far has been handed to the audio
// device and its internal buffer has drained.
func (o *OtoOutput) Wait() {
	for o.source.buffered() > 0 || o.player.BufferedSize() > 0 {
		time.Sleep(10 * time.Millisecond)
	}
}

func (o *OtoOutput) Close() error {
	o.source.close()
	if err := o.player.Close(); err != nil {
		return fmt.Errorf("cannot close oto player: %w", err)
	}
	return nil
}

// sinkSource is the io.Reader the oto player pulls from. WriteAudio pushes
// little-endian float32 bytes in; when the queue runs dry, the reader hands
// out silence, so the player never starves between buffers.
type sinkSource struct {
	mu      sync.Mutex
	cond    *sync.Cond
	pending []byte
	max     int
	closed  bool
}

func newSinkSource(max int) *sinkSource {
	s := &sinkSource{max: max}
	s.cond = sync.NewCond(&s.mu)
	return s
}

func (s *sinkSource) push(b []byte) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for !s.closed && len(s.pending)+len(b) > s.max {
		s.cond.Wait()
	}
	if s.closed {
		return false
	}
	s.pending = append(s.pending, b...)
	return true
}

func (s *sinkSource) buffered() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

func (s *sinkSource) close() {
	s.mu.Lock()
	s.closed = true
	s.pending = nil
	s.cond.Broadcast()
	s.mu.Unlock()
}

func (s *sinkSource) Read(p []byte) (int, error) {
	s.mu.Lock()
	n := copy(p, s.pending)
	s.pending = s.pending[:copy(s.pending, s.pending[n:])]
	if n > 0 {
		s.cond.Broadcast()
	}
	s.mu.Unlock()
	clear(p[n:])
	return len(p), nil
}

func floatBufferToLEBytes(buffer wavesmith.AudioBuffer, out []byte) []byte {
	for _, v := range buffer {
		out = binary.LittleEndian.AppendUint32(out, math.Float32bits(v))
	}
	return out
}
