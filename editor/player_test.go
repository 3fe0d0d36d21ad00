package editor_test

import (
	"math"
	"sync"
	"testing"
	"time"

	wavesmith "github.com/lightboxtiktok-alt/WaveSmith"
	"github.com/lightboxtiktok-alt/WaveSmith/editor"
)

type (
	fakeContext struct {
		sink *fakeSink
	}

	fakeSink struct {
		mu      sync.Mutex
		samples []float32
	}
)

func (c *fakeContext) Output() wavesmith.AudioSink { return c.sink }
func (c *fakeContext) Close() error                { return nil }

func (s *fakeSink) WriteAudio(buffer wavesmith.AudioBuffer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.samples = append(s.samples, buffer...)
	return nil
}

func (s *fakeSink) Close() error { return nil }

func (s *fakeSink) Samples() []float32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]float32(nil), s.samples...)
}

func TestPlayerPlaysBufferToCompletion(t *testing.T) {
	broker := editor.NewBroker()
	sink := &fakeSink{}
	player := editor.NewPlayer(broker)
	go player.Run(&fakeContext{sink: sink})
	defer func() {
		editor.TrySend(broker.ClosePlayer, struct{}{})
		select {
		case <-broker.FinishedPlayer:
		case <-time.After(3 * time.Second):
			t.Errorf("timed out waiting for the player to close")
		}
	}()

	buffer := make(wavesmith.AudioBuffer, 5000)
	for i := range buffer {
		buffer[i] = float32(i%100)/100 - 0.5
	}
	if !editor.TrySend(broker.ToPlayer, any(editor.PlayMsg{Buffer: buffer, SampleRate: 44100})) {
		t.Fatalf("could not send PlayMsg")
	}
	var sawLevel bool
	for {
		msg, ok := editor.TimeoutReceive(broker.ToModel, 3*time.Second)
		if !ok {
			t.Fatalf("timed out waiting for the player to finish")
		}
		if err, isErr := msg.Data.(error); isErr {
			t.Fatalf("unexpected player error: %v", err)
		}
		if msg.HasLevel {
			sawLevel = true
			if msg.Peak < 0 {
				t.Errorf("expected a non-negative peak, got %v", msg.Peak)
			}
		}
		if msg.PlaybackDone {
			break
		}
	}
	if !sawLevel {
		t.Errorf("expected level measurements during playback")
	}
	samples := sink.Samples()
	if len(samples) != len(buffer) {
		t.Fatalf("expected %d samples at the sink, got %d", len(buffer), len(samples))
	}
	for i := range samples {
		if samples[i] != buffer[i] {
			t.Fatalf("sample %d: expected %v, got %v", i, buffer[i], samples[i])
		}
	}
}

func TestPlayerEmptyBufferFinishesImmediately(t *testing.T) {
	broker := editor.NewBroker()
	player := editor.NewPlayer(broker)
	go player.Run(&fakeContext{sink: &fakeSink{}})
	defer editor.TrySend(broker.ClosePlayer, struct{}{})

	editor.TrySend(broker.ToPlayer, any(editor.PlayMsg{Buffer: nil, SampleRate: 44100}))
	msg, ok := editor.TimeoutReceive(broker.ToModel, 3*time.Second)
	if !ok || !msg.PlaybackDone {
		t.Errorf("expected an immediate PlaybackDone for an empty buffer")
	}
}

func TestVolumeAnalyzer(t *testing.T) {
	analyzer := editor.VolumeAnalyzer{Level: -100, Attack: 1.5e-3, Release: 1.5, Min: -100, Max: 20}
	loud := make(wavesmith.AudioBuffer, 4410)
	for i := range loud {
		loud[i] = 1
	}
	if err := analyzer.Update(loud, 44100); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if analyzer.Level < -10 {
		t.Errorf("expected the level to rise towards 0 dB on a full-scale signal, got %v", analyzer.Level)
	}
	silence := make(wavesmith.AudioBuffer, 4410)
	before := analyzer.Level
	if err := analyzer.Update(silence, 44100); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if analyzer.Level >= before {
		t.Errorf("expected the level to decay on silence, got %v after %v", analyzer.Level, before)
	}
}

func TestVolumeAnalyzerReportsNaN(t *testing.T) {
	analyzer := editor.VolumeAnalyzer{Level: -100, Attack: 1.5e-3, Release: 1.5, Min: -100, Max: 20}
	buffer := wavesmith.AudioBuffer{0.5, float32(math.NaN()), 0.5}
	if err := analyzer.Update(buffer, 44100); err == nil {
		t.Errorf("expected an error for a buffer containing NaN")
	}
	if math.IsNaN(analyzer.Level) {
		t.Errorf("expected the NaN sample to be skipped, got level NaN")
	}
}

func TestModelProcessPlayerMessage(t *testing.T) {
	m := newTestModel()
	m.ProcessPlayerMessage(editor.MsgToModel{HasLevel: true, Level: -12, Peak: 0.5})
	if m.Level() != -12 || m.Peak() != 0.5 {
		t.Errorf("expected the level and peak to be adopted, got %v / %v", m.Level(), m.Peak())
	}
	m.ProcessPlayerMessage(editor.MsgToModel{PlaybackDone: true})
	if m.Playing() {
		t.Errorf("expected PlaybackDone to clear the playing flag")
	}
}

func TestPlayActionSendsBuffer(t *testing.T) {
	m := newTestModel()
	broker := m.Broker()
	m.AddPoint(0, 0.5)
	m.AddPoint(1, 0.5)
	m.Play().Do()
	if !m.Playing() {
		t.Fatalf("expected the model to report playing")
	}
	if m.Play().Enabled() {
		t.Errorf("expected Play to be disabled while playing")
	}
	msg, ok := editor.TimeoutReceive(broker.ToPlayer, time.Second)
	if !ok {
		t.Fatalf("expected a message to the player")
	}
	play, isPlay := msg.(editor.PlayMsg)
	if !isPlay {
		t.Fatalf("expected a PlayMsg, got %T", msg)
	}
	if len(play.Buffer) == 0 || play.SampleRate != m.Config().SampleRate {
		t.Errorf("expected a rendered buffer at the model sample rate")
	}
	m.StopPlaying().Do()
	if m.Playing() {
		t.Errorf("expected StopPlaying to clear the playing flag")
	}
	if msg, ok := editor.TimeoutReceive(broker.ToPlayer, time.Second); !ok {
		t.Errorf("expected a StopMsg to the player")
	} else if _, isStop := msg.(editor.StopMsg); !isStop {
		t.Errorf("expected a StopMsg, got %T", msg)
	}
}
