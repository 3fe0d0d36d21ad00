package wavesmith

// AudioBuffer is a mono buffer of float32 samples in [-1, 1].
type AudioBuffer []float32

type AudioSink interface {
	WriteAudio(buffer AudioBuffer) error
	Close() error
}

type AudioContext interface {
	Output() AudioSink
	Close() error
}

// Encoder is implemented by compressed-audio codecs. It receives the final
// 16-bit PCM frames; its errors are surfaced to the caller as-is and never
// interpreted by the engine.
type Encoder interface {
	Encode(frames []int16, sampleRate int) ([]byte, error)
}
