// Package wavesmith contains the core value types of the WaveSmith waveform
// sculptor: control point sequences, the piecewise-linear synthesis of sample
// buffers from them, and the serialization of those buffers into audio
// containers. The mutable editing engine lives in the editor package;
// playback backends implement the AudioContext interface (see the oto
// subpackage).
package wavesmith
