package editor

import (
	"sync"
	"time"

	wavesmith "github.com/lightboxtiktok-alt/WaveSmith"
)

type (
	// Broker carries the messages between the model, living in the event loop
	// goroutine, and the player, living in the audio goroutine. It is plain
	// many-to-one communication, one channel per recipient. The broker also
	// has a sync.Pool of *wavesmith.AudioBuffer so the player can pass
	// intermediate buffers around without allocating on every chunk.
	//
	// ClosePlayer has a capacity of 1, so requesting the player to close never
	// blocks; a full channel means someone already asked. FinishedPlayer is
	// never sent to, only closed, so waiting for the player to clean up is
	// "<-FinishedPlayer", best combined with a timeout via TimeoutReceive.
	Broker struct {
		ToModel  chan MsgToModel
		ToPlayer chan any

		ClosePlayer    chan struct{}
		FinishedPlayer chan struct{}

		bufferPool sync.Pool
	}

	// MsgToModel is a message from the player to the model. The level and
	// peak, sent once per chunk, are not boxed to avoid allocations; the rare
	// messages (errors) travel boxed in Data.
	MsgToModel struct {
		HasLevel bool
		Level    float64
		Peak     float32

		PlaybackDone bool

		Data any
	}

	// PlayMsg starts playing the buffer from the beginning. The buffer is
	// treated as immutable by the player.
	PlayMsg struct {
		Buffer     wavesmith.AudioBuffer
		SampleRate int
	}

	// StopMsg stops an ongoing playback, discarding what was not yet written
	// to the sink.
	StopMsg struct{}

	// SetVolumeMsg sets the playback gain applied to every chunk.
	SetVolumeMsg struct {
		Volume float32
	}
)

func NewBroker() *Broker {
	return &Broker{
		ToModel:        make(chan MsgToModel, 1024),
		ToPlayer:       make(chan any, 1024),
		ClosePlayer:    make(chan struct{}, 1),
		FinishedPlayer: make(chan struct{}),
		bufferPool:     sync.Pool{New: func() any { return &wavesmith.AudioBuffer{} }},
	}
}

// GetAudioBuffer returns an empty audio buffer from the buffer pool. After
// use, it should be returned to the pool with PutAudioBuffer.
func (b *Broker) GetAudioBuffer() *wavesmith.AudioBuffer {
	return b.bufferPool.Get().(*wavesmith.AudioBuffer)
}

// PutAudioBuffer returns an audio buffer to the buffer pool, resetting its
// length (but keeping the capacity) if needed.
func (b *Broker) PutAudioBuffer(buf *wavesmith.AudioBuffer) {
	if len(*buf) > 0 {
		*buf = (*buf)[:0]
	}
	b.bufferPool.Put(buf)
}

// TrySend is a helper function to send a value to a channel if it is not full.
// It is guaranteed to be non-blocking. Returns true if the value was sent,
// false otherwise.
func TrySend[T any](c chan<- T, v T) bool {
	select {
	case c <- v:
	default:
		return false
	}
	return true
}

// TimeoutReceive is a helper function to block until a value is received from
// a channel, or timing out after t. ok will be false if the timeout occurred
// or if the channel is closed.
func TimeoutReceive[T any](c <-chan T, t time.Duration) (v T, ok bool) {
	select {
	case v, ok = <-c:
		return v, ok
	case <-time.After(t):
		return v, false
	}
}
