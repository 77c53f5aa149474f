package schedule

import (
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"mariua.net/obras/models"
)

// Snapshot is one complete daily schedule upload.
type Snapshot struct {
	ID         uuid.UUID            `json:"id"`
	Source     string               `json:"arquivo"`
	UploadedAt time.Time            `json:"enviadoEm"`
	Tasks      []models.PlannedTask `json:"tarefas"`
	Skipped    []Diagnostic         `json:"ignoradas,omitempty"`
}

// NewSnapshot stamps a fresh id on a parsed upload.
func NewSnapshot(source string, tasks []models.PlannedTask, skipped []Diagnostic, uploadedAt time.Time) *Snapshot {
	return &Snapshot{
		ID:         uuid.New(),
		Source:     source,
		UploadedAt: uploadedAt,
		Tasks:      tasks,
		Skipped:    skipped,
	}
}

// TasksOn returns the tasks planned for the given civil date.
func (s *Snapshot) TasksOn(date time.Time) []models.PlannedTask {
	if s == nil {
		return nil
	}
	var out []models.PlannedTask
	for _, t := range s.Tasks {
		if d := t.Date.Time(); d != nil && d.Equal(date) {
			out = append(out, t)
		}
	}
	return out
}

// Store holds the current daily schedule. Replace swaps the whole snapshot,
// so readers see either the previous or the new upload, never a mix.
type Store struct {
	current atomic.Pointer[Snapshot]
}

func NewStore() *Store {
	return &Store{}
}

// Current returns the latest snapshot or nil when nothing was uploaded.
func (s *Store) Current() *Snapshot {
	return s.current.Load()
}

// Replace installs snap as the current schedule and returns the previous one.
func (s *Store) Replace(snap *Snapshot) *Snapshot {
	return s.current.Swap(snap)
}

// InitIfEmpty installs snap only when no schedule is loaded and returns
// whichever snapshot is current afterwards.
func (s *Store) InitIfEmpty(snap *Snapshot) *Snapshot {
	if s.current.CompareAndSwap(nil, snap) {
		return snap
	}
	return s.current.Load()
}
