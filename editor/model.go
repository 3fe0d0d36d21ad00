package editor

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	wavesmith "github.com/lightboxtiktok-alt/WaveSmith"
)

// Model implements the mutable state for the waveform editor.
//
// Go does not have immutable slices, so there's no efficient way to guarantee
// against accidental mutations of the point sequence. At least the value
// members are protected. The model is owned by the event loop goroutine,
// while the player is owned by the audio goroutine; they communicate only
// through the Broker channels.
type (
	// Handle is a stable, opaque identifier for a point, independent of the
	// point's position in the sequence and of its values. Handles are scoped
	// to one sequence generation: whenever the sequence is replaced wholesale
	// (undo, redo, load), fresh handles are issued and the old ones stop
	// matching anything.
	Handle int

	// modelData is the part of the model that gets saved to the recovery file
	modelData struct {
		Points    wavesmith.Points
		Handles   []Handle
		Duration  float64
		Clipboard wavesmith.Points

		FilePath             string
		ChangedSinceSave     bool
		RecoveryFilePath     string
		ChangedSinceRecovery bool
		NextHandle           Handle

		PrevUndoKind    string
		UndoSkipCounter int
		UndoStack       []wavesmith.Points
		RedoStack       []wavesmith.Points
	}

	Model struct {
		d      modelData
		config Config
		view   View

		selection map[Handle]bool
		lastHit   Handle

		playing bool
		level   float64
		peak    float32

		alerts []Alert
		synth  *wavesmith.Synth
		broker *Broker
	}
)

// dragUndoSkip makes every move of an ongoing drag coalesce into the snapshot
// taken by the drag's first move; commitDrag ends the run.
const dragUndoSkip = 1 << 30

func NewModel(broker *Broker, config Config, recoveryFilePath string) *Model {
	ret := new(Model)
	ret.broker = broker
	ret.config = config.withDefaults()
	ret.selection = make(map[Handle]bool)
	ret.synth = wavesmith.NewSynth(ret.config.SampleRate)
	ret.d.NextHandle = 1
	ret.d.Duration = ret.config.DefaultDuration
	ret.d.RecoveryFilePath = recoveryFilePath
	ret.view = View{
		Width:    800,
		Height:   400,
		Duration: ret.d.Duration,
		Zoom:     ret.config.DefaultZoom,
		zoomMin:  ret.config.ZoomMin,
		zoomMax:  ret.config.ZoomMax,
	}
	if recoveryFilePath != "" {
		if bytes, err := os.ReadFile(recoveryFilePath); err == nil {
			if json.Unmarshal(bytes, &ret.d) == nil {
				ret.adoptRecoveredData()
			}
		}
	}
	return ret
}

// adoptRecoveredData re-establishes the invariants that the recovery file
// does not carry: handle counter past every live handle, view duration in
// sync, sequence sorted.
func (m *Model) adoptRecoveredData() {
	for _, h := range m.d.Handles {
		if h >= m.d.NextHandle {
			m.d.NextHandle = h + 1
		}
	}
	if m.d.NextHandle < 1 {
		m.d.NextHandle = 1
	}
	if m.d.Duration <= 0 {
		m.d.Duration = m.config.DefaultDuration
	}
	m.view.Duration = m.d.Duration
	m.sortPoints()
	m.d.ChangedSinceRecovery = false
}

// AddPoint inserts a new control point and returns its handle. Values are
// not rejected here; callers clamp to [0, duration] and [-1, 1] upstream.
func (m *Model) AddPoint(time, amplitude float64) Handle {
	m.saveUndo("AddPoint", 0)
	h := m.issueHandle()
	m.d.Points = append(m.d.Points, wavesmith.Point{Time: time, Amplitude: amplitude})
	m.d.Handles = append(m.d.Handles, h)
	m.sortPoints()
	return h
}

// RemovePoints removes every point whose handle is in the given set. Calling
// it with handles that match nothing is a valid no-op.
func (m *Model) RemovePoints(handles []Handle) {
	set := make(map[Handle]bool, len(handles))
	for _, h := range handles {
		set[h] = true
	}
	matched := 0
	for _, h := range m.d.Handles {
		if set[h] {
			matched++
		}
	}
	if matched == 0 {
		return
	}
	m.saveUndo("RemovePoints", 0)
	points := m.d.Points[:0]
	keep := m.d.Handles[:0]
	for i, h := range m.d.Handles {
		if set[h] {
			delete(m.selection, h)
			if m.lastHit == h {
				m.lastHit = 0
			}
			continue
		}
		points = append(points, m.d.Points[i])
		keep = append(keep, h)
	}
	m.d.Points = points
	m.d.Handles = keep
}

// MovePoints applies the same (dTime, dAmplitude) delta to every point in the
// group, atomically: if any candidate position would fall outside
// [0, duration] x [-1, 1], no point moves and false is returned. A
// single-handle move is the same rule degenerate to one point.
func (m *Model) MovePoints(handles []Handle, dTime, dAmplitude float64) bool {
	indices := m.indicesOf(handles)
	if len(indices) == 0 {
		return false
	}
	for _, i := range indices {
		t := m.d.Points[i].Time + dTime
		a := m.d.Points[i].Amplitude + dAmplitude
		if t < 0 || t > m.d.Duration || a < -1 || a > 1 {
			return false
		}
	}
	m.saveUndo("MovePoints", dragUndoSkip)
	for _, i := range indices {
		m.d.Points[i].Time += dTime
		m.d.Points[i].Amplitude += dAmplitude
	}
	// a drag may carry a point past its neighbors
	m.sortPoints()
	return true
}

// commitDrag ends an undo-coalescing run, so that the next move starts a new
// undo step.
func (m *Model) commitDrag() {
	m.d.PrevUndoKind = ""
	m.d.UndoSkipCounter = 0
}

// CopySelection stores value-copies of the selected points into the
// clipboard, replacing its previous contents. The copies keep no tie to the
// source points.
func (m *Model) CopySelection() {
	if len(m.selection) == 0 {
		return
	}
	clipboard := make(wavesmith.Points, 0, len(m.selection))
	for i, h := range m.d.Handles {
		if m.selection[h] {
			clipboard = append(clipboard, m.d.Points[i])
		}
	}
	m.d.Clipboard = clipboard
}

// Paste appends translated copies of the clipboard so that the first pasted
// point lands at the time of the current last point; an empty sequence keeps
// the clipboard's own times. The pasted points become the new selection and
// their handles are returned.
func (m *Model) Paste() []Handle {
	if len(m.d.Clipboard) == 0 {
		return nil
	}
	m.saveUndo("Paste", 0)
	var delta float64
	if len(m.d.Points) > 0 {
		delta = m.d.Points.LastTime() - m.d.Clipboard[0].Time
	}
	pasted := make([]Handle, 0, len(m.d.Clipboard))
	for _, p := range m.d.Clipboard {
		t := clampFloat(p.Time+delta, 0, m.d.Duration)
		h := m.issueHandle()
		m.d.Points = append(m.d.Points, wavesmith.Point{Time: t, Amplitude: p.Amplitude})
		m.d.Handles = append(m.d.Handles, h)
		pasted = append(pasted, h)
	}
	m.sortPoints()
	m.selection = make(map[Handle]bool, len(pasted))
	for _, h := range pasted {
		m.selection[h] = true
	}
	return pasted
}

// LoadPoints replaces the sequence with an imported one. The whole payload is
// rejected, leaving the store completely unchanged, when any point fails
// validation or lies beyond the import duration limit.
func (m *Model) LoadPoints(data []byte) error {
	points, err := wavesmith.ParsePoints(data)
	if err != nil {
		return err
	}
	if last := points.LastTime(); last > m.config.MaxImportDuration {
		return fmt.Errorf("imported points end at %.3f s, beyond the %.0f s limit", last, m.config.MaxImportDuration)
	}
	m.saveUndo("LoadPoints", 0)
	m.setPointsNoUndo(points)
	if points.LastTime() > m.d.Duration {
		m.setDuration(points.LastTime())
	}
	return nil
}

// SelectAll makes the selection cover every point of the sequence.
func (m *Model) SelectAll() {
	for _, h := range m.d.Handles {
		m.selection[h] = true
	}
}

// DeleteSelected removes the selected points, or the last-hit point when the
// selection is empty, and clears the selection.
func (m *Model) DeleteSelected() {
	handles := m.Selection()
	if len(handles) == 0 && m.lastHit != 0 {
		handles = []Handle{m.lastHit}
	}
	m.RemovePoints(handles)
	m.clearSelection()
}

// Points returns the current sequence. The caller must not mutate it; the
// render collaborator polls this once per frame.
func (m *Model) Points() wavesmith.Points { return m.d.Points }

// Handles returns the handle of each point, in sequence order. The caller
// must not mutate it.
func (m *Model) Handles() []Handle { return m.d.Handles }

// PointByHandle returns the current values of the point behind the handle.
func (m *Model) PointByHandle(h Handle) (wavesmith.Point, bool) {
	for i, other := range m.d.Handles {
		if other == h {
			return m.d.Points[i], true
		}
	}
	return wavesmith.Point{}, false
}

// Selection returns the selected handles in sequence order.
func (m *Model) Selection() []Handle {
	ret := make([]Handle, 0, len(m.selection))
	for _, h := range m.d.Handles {
		if m.selection[h] {
			ret = append(ret, h)
		}
	}
	return ret
}

func (m *Model) Selected(h Handle) bool { return m.selection[h] }

func (m *Model) Broker() *Broker             { return m.broker }
func (m *Model) Duration() float64           { return m.d.Duration }
func (m *Model) View() *View                 { return &m.view }
func (m *Model) Config() Config              { return m.config }
func (m *Model) Playing() bool               { return m.playing }
func (m *Model) Level() float64              { return m.level }
func (m *Model) Peak() float32               { return m.peak }
func (m *Model) Clipboard() wavesmith.Points { return m.d.Clipboard }
func (m *Model) FilePath() string            { return m.d.FilePath }
func (m *Model) SetFilePath(value string)    { m.d.FilePath = value }
func (m *Model) ChangedSinceSave() bool      { return m.d.ChangedSinceSave }

// PickNearest returns the handle of the first point, earliest by time, whose
// mapped surface position is within tolerance of (x, y) independently on both
// axes. The test is an axis-aligned box, not a radius.
func (m *Model) PickNearest(x, y, tolerance float64) (Handle, bool) {
	for i, p := range m.d.Points {
		px := m.view.TimeToX(p.Time)
		py := m.view.AmplitudeToY(p.Amplitude)
		if absFloat(px-x) <= tolerance && absFloat(py-y) <= tolerance {
			return m.d.Handles[i], true
		}
	}
	return 0, false
}

// RenderBuffer renders the current sequence, reusing the synth's cached
// buffer when nothing changed since the last render. The buffer must be
// treated as immutable.
func (m *Model) RenderBuffer() wavesmith.AudioBuffer {
	return m.synth.Render(m.d.Points, m.d.Duration)
}

// Encode renders the sequence and hands the 16-bit PCM frames to the codec
// collaborator. Encoder failures are surfaced but not interpreted; the model
// state is untouched either way.
func (m *Model) Encode(encoder wavesmith.Encoder) ([]byte, error) {
	data, err := encoder.Encode(m.RenderBuffer().Pcm16(), m.synth.SampleRate())
	if err != nil {
		m.Alerts().Add(fmt.Sprintf("Error encoding: %v", err), Error)
		return nil, err
	}
	return data, nil
}

// ProcessPlayerMessage updates the model from a player message. Playback
// completion only flips the playing flag; it never feeds back into editing
// state.
func (m *Model) ProcessPlayerMessage(msg MsgToModel) {
	if msg.HasLevel {
		m.level = msg.Level
		m.peak = msg.Peak
	}
	if msg.PlaybackDone {
		m.playing = false
	}
	if err, ok := msg.Data.(error); ok {
		m.Alerts().Add(fmt.Sprintf("Playback error: %v", err), Error)
	}
}

func (m *Model) resetWaveform() {
	m.saveUndo("ResetWaveform", 0)
	m.setPointsNoUndo(nil)
	m.setDuration(m.config.DefaultDuration)
	m.d.FilePath = ""
	m.d.ChangedSinceSave = false
}

func (m *Model) setDuration(d float64) {
	m.d.Duration = d
	m.view.Duration = d
	m.view.SetPan(m.view.Pan)
}

// setPointsNoUndo replaces the sequence wholesale: fresh handles are issued
// for the new generation and the selection, whose handles were scoped to the
// old one, is cleared.
func (m *Model) setPointsNoUndo(points wavesmith.Points) {
	m.d.Points = points.Copy()
	m.d.Handles = make([]Handle, len(m.d.Points))
	for i := range m.d.Handles {
		m.d.Handles[i] = m.issueHandle()
	}
	m.clearSelection()
	m.lastHit = 0
	m.sortPoints()
}

func (m *Model) clearSelection() {
	if len(m.selection) > 0 {
		m.selection = make(map[Handle]bool)
	}
}

func (m *Model) selectOnly(h Handle) {
	m.selection = map[Handle]bool{h: true}
}

func (m *Model) addToSelection(h Handle) {
	m.selection[h] = true
}

func (m *Model) issueHandle() Handle {
	h := m.d.NextHandle
	m.d.NextHandle++
	return h
}

func (m *Model) indicesOf(handles []Handle) []int {
	set := make(map[Handle]bool, len(handles))
	for _, h := range handles {
		set[h] = true
	}
	var indices []int
	for i, h := range m.d.Handles {
		if set[h] {
			indices = append(indices, i)
		}
	}
	return indices
}

func (m *Model) sortPoints() {
	indices := make([]int, len(m.d.Points))
	for i := range indices {
		indices[i] = i
	}
	// stable, so points sharing a time keep their insertion order
	sort.SliceStable(indices, func(i, j int) bool {
		return m.d.Points[indices[i]].Time < m.d.Points[indices[j]].Time
	})
	points := make(wavesmith.Points, len(indices))
	handles := make([]Handle, len(indices))
	for to, from := range indices {
		points[to] = m.d.Points[from]
		handles[to] = m.d.Handles[from]
	}
	m.d.Points = points
	m.d.Handles = handles
}

func (m *Model) saveUndo(undoKind string, undoSkipping int) {
	m.d.ChangedSinceSave = true
	m.d.ChangedSinceRecovery = true
	if m.d.PrevUndoKind == undoKind && m.d.UndoSkipCounter < undoSkipping {
		m.d.UndoSkipCounter++
		return
	}
	m.d.PrevUndoKind = undoKind
	m.d.UndoSkipCounter = 0
	m.d.UndoStack = append(m.d.UndoStack, m.d.Points.Copy())
	m.d.RedoStack = m.d.RedoStack[:0]
	m.limitUndoRedoLengths()
}

func (m *Model) limitUndoRedoLengths() {
	if len(m.d.UndoStack) > m.config.MaxUndo {
		copy(m.d.UndoStack, m.d.UndoStack[len(m.d.UndoStack)-m.config.MaxUndo:])
		m.d.UndoStack = m.d.UndoStack[:m.config.MaxUndo]
	}
	if len(m.d.RedoStack) > m.config.MaxUndo {
		copy(m.d.RedoStack, m.d.RedoStack[len(m.d.RedoStack)-m.config.MaxUndo:])
		m.d.RedoStack = m.d.RedoStack[:m.config.MaxUndo]
	}
}

func clampFloat(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

func absFloat(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
