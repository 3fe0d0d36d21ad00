package editor

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Undo returns an Action to undo the last change. Undoing replaces the
// sequence wholesale, so the selection is cleared and all handles are
// reissued.
func (m *Model) Undo() Action { return MakeAction((*undo)(m)) }

type undo Model

func (m *undo) Enabled() bool { return len(m.d.UndoStack) > 0 }
func (m *undo) Do() {
	model := (*Model)(m)
	m.d.RedoStack = append(m.d.RedoStack, m.d.Points.Copy())
	model.setPointsNoUndo(m.d.UndoStack[len(m.d.UndoStack)-1])
	m.d.UndoStack = m.d.UndoStack[:len(m.d.UndoStack)-1]
	m.d.PrevUndoKind = ""
	model.limitUndoRedoLengths()
}

// Redo returns an Action to redo the last undone change.
func (m *Model) Redo() Action { return MakeAction((*redo)(m)) }

type redo Model

func (m *redo) Enabled() bool { return len(m.d.RedoStack) > 0 }
func (m *redo) Do() {
	model := (*Model)(m)
	m.d.UndoStack = append(m.d.UndoStack, m.d.Points.Copy())
	model.setPointsNoUndo(m.d.RedoStack[len(m.d.RedoStack)-1])
	m.d.RedoStack = m.d.RedoStack[:len(m.d.RedoStack)-1]
	m.d.PrevUndoKind = ""
	model.limitUndoRedoLengths()
}

func (m *Model) ClearUndoHistory() {
	if len(m.d.UndoStack) > 0 {
		m.d.UndoStack = m.d.UndoStack[:0]
	}
	if len(m.d.RedoStack) > 0 {
		m.d.RedoStack = m.d.RedoStack[:0]
	}
	m.d.PrevUndoKind = ""
}

// MarshalRecovery marshals the current model data to a byte slice for
// recovery saving.
func (m *Model) MarshalRecovery() []byte {
	out, err := json.Marshal(m.d)
	if err != nil {
		return nil
	}
	if m.d.RecoveryFilePath != "" {
		os.Remove(m.d.RecoveryFilePath)
	}
	m.d.ChangedSinceRecovery = false
	return out
}

// SaveRecovery saves the current model data to the recovery file on disk if
// there are unsaved changes.
func (m *Model) SaveRecovery() error {
	if !m.d.ChangedSinceRecovery {
		return nil
	}
	if m.d.RecoveryFilePath == "" {
		return errors.New("no backup file path")
	}
	out, err := json.Marshal(m.d)
	if err != nil {
		return fmt.Errorf("could not marshal recovery data: %w", err)
	}
	dir := filepath.Dir(m.d.RecoveryFilePath)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		os.MkdirAll(dir, os.ModePerm)
	}
	file, err := os.Create(m.d.RecoveryFilePath)
	if err != nil {
		return fmt.Errorf("could not create recovery file: %w", err)
	}
	_, err = file.Write(out)
	if err != nil {
		return fmt.Errorf("could not write recovery file: %w", err)
	}
	m.d.ChangedSinceRecovery = false
	return nil
}

// UnmarshalRecovery unmarshals the model data from a byte slice, then checks
// if a recovery file exists on disk and loads it instead.
func (m *Model) UnmarshalRecovery(bytes []byte) {
	var data modelData
	if err := json.Unmarshal(bytes, &data); err != nil {
		return
	}
	m.d = data
	if m.d.RecoveryFilePath != "" {
		if bytes2, err := os.ReadFile(m.d.RecoveryFilePath); err == nil {
			var data modelData
			if json.Unmarshal(bytes2, &data) == nil {
				m.d = data
			}
		}
	}
	m.adoptRecoveredData()
}
