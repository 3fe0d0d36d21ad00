package editor

import "time"

// Config collects every tunable of the editing engine, with explicit
// defaults and per-field overrides: a zero field means "use the default".
// Pass the result of DefaultConfig(), or a copy of it with some fields
// changed, to NewModel.
type Config struct {
	// WheelPanSensitivity scales horizontal wheel deltas into pan motion.
	WheelPanSensitivity float64
	// DragPanSensitivity scales pointer-drag deltas into pan motion.
	DragPanSensitivity float64
	// ZoomSensitivity scales vertical wheel deltas into the exponential
	// zoom factor exp(-delta * sensitivity).
	ZoomSensitivity float64
	ZoomMin         float64
	ZoomMax         float64
	// HitRadius is the pointer hit-test tolerance in surface pixels,
	// applied independently on both axes.
	HitRadius float64
	// HighlightRadius is the radius the render collaborator should use for
	// drawing selected points. The engine only carries it.
	HighlightRadius float64
	// MaxUndo bounds the undo and redo stacks; the oldest snapshot is
	// evicted on overflow.
	MaxUndo int
	// DefaultDuration is the editable duration of a new, empty waveform,
	// in seconds.
	DefaultDuration float64
	DefaultZoom     float64
	// MaxImportDuration rejects imported sequences whose last point lies
	// beyond this many seconds.
	MaxImportDuration float64
	// ClickMaxDuration is the longest press still interpreted as a
	// click-to-create instead of a drag.
	ClickMaxDuration time.Duration
	SampleRate       int
	ExportBitDepth   int
	ExportBitrate    int
}

// DefaultConfig returns the configuration used when no overrides are given.
func DefaultConfig() Config {
	return Config{
		WheelPanSensitivity: 1,
		DragPanSensitivity:  1,
		ZoomSensitivity:     0.002,
		ZoomMin:             1,
		ZoomMax:             1000,
		HitRadius:           8,
		HighlightRadius:     10,
		MaxUndo:             64,
		DefaultDuration:     10,
		DefaultZoom:         1,
		MaxImportDuration:   600,
		ClickMaxDuration:    200 * time.Millisecond,
		SampleRate:          44100,
		ExportBitDepth:      16,
		ExportBitrate:       192,
	}
}

// withDefaults fills every zero field from DefaultConfig.
func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.WheelPanSensitivity == 0 {
		c.WheelPanSensitivity = def.WheelPanSensitivity
	}
	if c.DragPanSensitivity == 0 {
		c.DragPanSensitivity = def.DragPanSensitivity
	}
	if c.ZoomSensitivity == 0 {
		c.ZoomSensitivity = def.ZoomSensitivity
	}
	if c.ZoomMin == 0 {
		c.ZoomMin = def.ZoomMin
	}
	if c.ZoomMax == 0 {
		c.ZoomMax = def.ZoomMax
	}
	if c.HitRadius == 0 {
		c.HitRadius = def.HitRadius
	}
	if c.HighlightRadius == 0 {
		c.HighlightRadius = def.HighlightRadius
	}
	if c.MaxUndo == 0 {
		c.MaxUndo = def.MaxUndo
	}
	if c.DefaultDuration == 0 {
		c.DefaultDuration = def.DefaultDuration
	}
	if c.DefaultZoom == 0 {
		c.DefaultZoom = def.DefaultZoom
	}
	if c.MaxImportDuration == 0 {
		c.MaxImportDuration = def.MaxImportDuration
	}
	if c.ClickMaxDuration == 0 {
		c.ClickMaxDuration = def.ClickMaxDuration
	}
	if c.SampleRate == 0 {
		c.SampleRate = def.SampleRate
	}
	if c.ExportBitDepth == 0 {
		c.ExportBitDepth = def.ExportBitDepth
	}
	if c.ExportBitrate == 0 {
		c.ExportBitrate = def.ExportBitrate
	}
	return c
}
