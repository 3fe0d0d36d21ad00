package editor

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	wavesmith "github.com/lightboxtiktok-alt/WaveSmith"
)

// ReadPoints loads a point sequence from r, replacing the current one. The
// payload is all-or-nothing: on any parse or validation error the sequence is
// left untouched and an alert is raised. Loading from a file adopts its path
// as the save target.
func (m *Model) ReadPoints(r io.ReadCloser) {
	b, err := io.ReadAll(r)
	if err != nil {
		m.Alerts().Add(fmt.Sprintf("Error reading a points file: %v", err), Error)
		return
	}
	r.Close() // if we can't close the file, it's not a big deal, so ignore the error
	if err := m.LoadPoints(b); err != nil {
		m.Alerts().Add(fmt.Sprintf("Error loading a points file: %v", err), Error)
		return
	}
	if f, ok := r.(*os.File); ok {
		m.d.FilePath = f.Name()
		// when the points are loaded from a file, we are quite confident that
		// the file is persisted and thus we can quit without worrying about
		// losing changes
		m.d.ChangedSinceSave = false
	}
}

// WritePoints saves the sequence to w, as JSON when the target file has a
// .json extension and as YAML otherwise.
func (m *Model) WritePoints(w io.WriteCloser) {
	path := ""
	if f, ok := w.(*os.File); ok {
		path = f.Name()
	}
	contents, err := wavesmith.MarshalPoints(m.d.Points, filepath.Ext(path))
	if err != nil {
		m.Alerts().Add(fmt.Sprintf("Error marshaling a points file: %v", err), Error)
		return
	}
	if _, err := w.Write(contents); err != nil {
		m.Alerts().Add(fmt.Sprintf("Error writing to file: %v", err), Error)
		return
	}
	if path != "" {
		m.d.ChangedSinceSave = false
	}
	if err := w.Close(); err != nil {
		m.Alerts().Add(fmt.Sprintf("Error closing the points file: %v", err), Error)
		return
	}
	m.d.FilePath = path
}

// WriteWav renders the sequence and writes it to w as a .wav file, 16-bit PCM
// when pcm16 is set and 32-bit float otherwise.
func (m *Model) WriteWav(w io.WriteCloser, pcm16 bool) {
	buffer, err := m.RenderBuffer().Wav(m.synth.SampleRate(), pcm16)
	if err != nil {
		m.Alerts().Add(fmt.Sprintf("Error converting to .wav: %v", err), Error)
		return
	}
	if _, err := w.Write(buffer); err != nil {
		m.Alerts().Add(fmt.Sprintf("Error writing the .wav file: %v", err), Error)
		return
	}
	if err := w.Close(); err != nil {
		m.Alerts().Add(fmt.Sprintf("Error closing the .wav file: %v", err), Error)
	}
}
