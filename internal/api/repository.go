package api

import (
	"sync"

	"github.com/pfrederiksen/exam-calendar/internal/exam"
	"github.com/pfrederiksen/exam-calendar/internal/storage"
)

// Repository provides cached, read-only access to a snapshot file.
type Repository struct {
	path string

	mu     sync.RWMutex
	exams  []exam.ExamRecord
	loaded bool
}

// NewRepository returns a repository backed by the snapshot at path. Nothing
// is read until the first call to All or Reload.
func NewRepository(path string) *Repository {
	return &Repository{path: path}
}

// NewStaticRepository returns a repository that serves records and never
// touches the filesystem.
func NewStaticRepository(records []exam.ExamRecord) *Repository {
	if records == nil {
		records = []exam.ExamRecord{}
	}
	return &Repository{exams: records, loaded: true}
}

// Path returns the snapshot path, or "" for a static repository.
func (r *Repository) Path() string {
	return r.path
}

// All returns every record. Callers must not modify the returned slice.
func (r *Repository) All() ([]exam.ExamRecord, error) {
	r.mu.RLock()
	if r.loaded {
		exams := r.exams
		r.mu.RUnlock()
		return exams, nil
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.loaded {
		return r.exams, nil
	}
	if err := r.loadLocked(); err != nil {
		return nil, err
	}
	return r.exams, nil
}

// Reload re-reads the snapshot. On failure the cached records stay in place.
func (r *Repository) Reload() error {
	if r.path == "" {
		return nil
	}

	records, err := storage.LoadSnapshot(r.path)
	if err != nil {
		return err
	}

	r.mu.Lock()
	r.exams = records
	r.loaded = true
	r.mu.Unlock()
	return nil
}

func (r *Repository) loadLocked() error {
	records, err := storage.LoadSnapshot(r.path)
	if err != nil {
		return err
	}
	r.exams = records
	r.loaded = true
	return nil
}
