package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"ecoreport-service/models"

	"github.com/apex/log"
)

// Store persists the report sequence as one JSON array on disk. Every
// read goes to the file, so external edits are visible on the next call.
// The mutex spans whole read-modify-write cycles and writes land via a
// temp file plus rename, so concurrent appends cannot lose reports and a
// crash cannot leave a truncated file behind.
type Store struct {
	path string
	mu   sync.Mutex
}

// NewStore creates a store backed by the given file path. The file does
// not have to exist yet.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Load returns all reports in stored order. A missing or unparsable file
// yields an empty sequence, not an error.
func (s *Store) Load() ([]models.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked()
}

// Append adds one report to the end of the sequence and returns its index.
func (s *Store) Append(r models.Report) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	reports, err := s.loadLocked()
	if err != nil {
		return 0, err
	}
	reports = append(reports, r)
	if err := s.writeLocked(reports); err != nil {
		return 0, err
	}
	return len(reports) - 1, nil
}

// SaveAll replaces the whole sequence.
func (s *Store) SaveAll(reports []models.Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeLocked(reports)
}

func (s *Store) loadLocked() ([]models.Report, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return []models.Report{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", s.path, err)
	}

	var reports []models.Report
	if err := json.Unmarshal(data, &reports); err != nil {
		log.Errorf("Failed to parse %s, treating as empty: %v", s.path, err)
		return []models.Report{}, nil
	}
	if reports == nil {
		reports = []models.Report{}
	}
	return reports, nil
}

func (s *Store) writeLocked(reports []models.Report) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(reports); err != nil {
		return fmt.Errorf("failed to encode reports: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".reports-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", s.path, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", s.path, err)
	}
	return nil
}
