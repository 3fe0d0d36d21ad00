package editor

import (
	"errors"
	"fmt"
	"math"

	"github.com/viterin/vek/vek32"

	wavesmith "github.com/lightboxtiktok-alt/WaveSmith"
)

// playerChunkSize is how many samples the player writes to the sink at a
// time. Small enough that a StopMsg takes effect quickly, large enough that
// the per-chunk overhead stays negligible.
const playerChunkSize = 2048

type (
	// Player streams rendered buffers to an audio sink, run in a separate
	// goroutine. It is controlled by messages from the model via the broker's
	// ToPlayer channel and reports the measured level, peak and playback
	// completion back through ToModel. The buffers it receives are immutable;
	// all per-chunk work happens in pooled scratch buffers.
	Player struct {
		buffer     wavesmith.AudioBuffer
		pos        int
		playing    bool
		volume     float32
		sampleRate int

		analyzer VolumeAnalyzer

		broker *Broker
	}

	// VolumeAnalyzer measures the average loudness of a mono signal, in
	// decibels (0 dB = signal level of +-1). The decibel values are smoothed
	// exponentially, with different time constants for attack and release;
	// generally attack << release. Min and Max clamp the result, Min also
	// preventing negative infinities on silence.
	VolumeAnalyzer struct {
		Level   float64 // the current average volume, in decibels
		Attack  float64 // attack time constant, in seconds
		Release float64 // release time constant, in seconds
		Min     float64 // lower bound for the volume, in decibels
		Max     float64 // upper bound for the volume, in decibels
	}
)

func NewPlayer(broker *Broker) *Player {
	return &Player{
		broker:     broker,
		volume:     1,
		sampleRate: 44100,
		analyzer:   VolumeAnalyzer{Level: -100, Attack: 1.5e-3, Release: 1.5, Min: -100, Max: 20},
	}
}

// Run is the player main loop: it blocks on control messages while idle and
// streams one chunk per iteration while playing, still picking up control
// messages between chunks so a stop never waits for the whole buffer. Returns
// when the broker's ClosePlayer channel is signaled.
func (p *Player) Run(context wavesmith.AudioContext) {
	defer close(p.broker.FinishedPlayer)
	output := context.Output()
	defer output.Close()
	for {
		if !p.playing {
			select {
			case msg := <-p.broker.ToPlayer:
				p.handleMessage(msg)
			case <-p.broker.ClosePlayer:
				return
			}
			continue
		}
		for p.playing {
			select {
			case msg := <-p.broker.ToPlayer:
				p.handleMessage(msg)
			case <-p.broker.ClosePlayer:
				return
			default:
				p.playChunk(output)
			}
		}
	}
}

func (p *Player) handleMessage(msg any) {
	switch m := msg.(type) {
	case PlayMsg:
		if len(m.Buffer) == 0 {
			TrySend(p.broker.ToModel, MsgToModel{PlaybackDone: true})
			return
		}
		p.buffer = m.Buffer
		p.pos = 0
		p.sampleRate = m.SampleRate
		p.analyzer.Level = p.analyzer.Min
		p.playing = true
	case StopMsg:
		p.playing = false
		p.buffer = nil
	case SetVolumeMsg:
		p.volume = m.Volume
	}
}

func (p *Player) playChunk(output wavesmith.AudioSink) {
	end := p.pos + playerChunkSize
	if end > len(p.buffer) {
		end = len(p.buffer)
	}
	scratch := p.broker.GetAudioBuffer()
	defer p.broker.PutAudioBuffer(scratch)
	n := end - p.pos
	if cap(*scratch) < n {
		*scratch = make(wavesmith.AudioBuffer, n)
	} else {
		*scratch = (*scratch)[:n]
	}
	chunk := *scratch
	vek32.MulNumber_Into(chunk, p.buffer[p.pos:end], p.volume)
	p.pos = end
	if err := output.WriteAudio(chunk); err != nil {
		p.playing = false
		p.buffer = nil
		TrySend(p.broker.ToModel, MsgToModel{PlaybackDone: true, Data: fmt.Errorf("writing audio to sink: %w", err)})
		return
	}
	if err := p.analyzer.Update(chunk, p.sampleRate); err != nil {
		TrySend(p.broker.ToModel, MsgToModel{Data: err})
	}
	vek32.Abs_Inplace(chunk)
	peak := vek32.Max(chunk)
	done := p.pos >= len(p.buffer)
	if done {
		p.playing = false
		p.buffer = nil
	}
	TrySend(p.broker.ToModel, MsgToModel{HasLevel: true, Level: p.analyzer.Level, Peak: peak, PlaybackDone: done})
}

// Update smooths the decibel values of the buffer into the analyzer level.
// NaN samples are skipped and reported as an error, after the whole buffer is
// processed.
func (v *VolumeAnalyzer) Update(buffer wavesmith.AudioBuffer, sampleRate int) (err error) {
	alphaAttack := 1 - math.Exp(-1.0/(v.Attack*float64(sampleRate)))
	alphaRelease := 1 - math.Exp(-1.0/(v.Release*float64(sampleRate)))
	for _, s := range buffer {
		sample2 := float64(s) * float64(s)
		if math.IsNaN(sample2) {
			err = errors.New("NaN detected in the audio buffer")
			continue
		}
		dB := 10 * math.Log10(sample2)
		if dB < v.Min {
			dB = v.Min
		}
		if dB > v.Max {
			dB = v.Max
		}
		alpha := alphaAttack
		if dB < v.Level {
			alpha = alphaRelease
		}
		v.Level += (dB - v.Level) * alpha
	}
	return err
}
