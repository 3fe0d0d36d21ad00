package editor

type (
	// Action describes a user action that can be performed on the model,
	// initiated by calling the Do() method. Action advertises whether it is
	// enabled, so a UI can e.g. gray out buttons when the underlying action
	// is not allowed. The underlying Doer can optionally implement the
	// Enabler interface to decide if the action is enabled; if it does not,
	// the action is always allowed.
	Action struct {
		doer Doer
	}

	// Doer is an interface that defines a single Do() method, which is
	// called when an action is performed.
	Doer interface {
		Do()
	}

	// Enabler is an interface that defines a single Enabled() method, used
	// to check if an Action is enabled or not.
	Enabler interface {
		Enabled() bool
	}
)

func MakeAction(doer Doer) Action {
	return Action{doer: doer}
}

func (a Action) Do() {
	e, ok := a.doer.(Enabler)
	if ok && !e.Enabled() {
		return
	}
	if a.doer != nil {
		a.doer.Do()
	}
}

func (a Action) Enabled() bool {
	if a.doer == nil {
		return false // no doer, not allowed
	}
	e, ok := a.doer.(Enabler)
	if !ok {
		return true // not enabler, always allowed
	}
	return e.Enabled()
}

// play
type play Model

// Play returns an Action that renders the current sequence and starts
// playing it. The render goes against a cached immutable buffer, so the
// player never shares mutable state with the editing loop.
func (m *Model) Play() Action { return MakeAction((*play)(m)) }
func (m *play) Enabled() bool { return !m.playing }
func (m *play) Do() {
	model := (*Model)(m)
	buffer := model.RenderBuffer()
	if TrySend(m.broker.ToPlayer, any(PlayMsg{Buffer: buffer, SampleRate: m.synth.SampleRate()})) {
		m.playing = true
	}
}

// stopPlaying
type stopPlaying Model

// StopPlaying returns an Action that stops an ongoing playback.
func (m *Model) StopPlaying() Action { return MakeAction((*stopPlaying)(m)) }
func (m *stopPlaying) Do() {
	m.playing = false
	TrySend(m.broker.ToPlayer, any(StopMsg{}))
}

// newWaveform
type newWaveform Model

// NewWaveform returns an Action that resets the model to an empty sequence
// with the default duration.
func (m *Model) NewWaveform() Action { return MakeAction((*newWaveform)(m)) }
func (m *newWaveform) Do()           { (*Model)(m).resetWaveform() }
