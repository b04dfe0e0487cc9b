// Package store persists the policy collection as a single JSON file.
// Every mutation is a read-modify-write of the whole collection; a
// process-level mutex serializes writers so a scheduled sweep and a manual
// trigger cannot clobber each other within one process.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/openpaws/policyradar/internal/model"
)

// Store is the deduplicated, mutable collection of policy records.
type Store struct {
	path string
	mu   sync.Mutex
	now  func() time.Time
}

// New creates a store backed by the given file path. The file is created
// on first save.
func New(path string) *Store {
	return &Store{
		path: path,
		now:  time.Now,
	}
}

// Load reads the full collection. A missing file is an empty collection,
// not an error. Entries written by older versions may lack optional
// fields; decoding tolerates them.
func (s *Store) Load() ([]model.PolicyRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *Store) load() ([]model.PolicyRecord, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []model.PolicyRecord{}, nil
		}
		return nil, fmt.Errorf("read store: %w", err)
	}

	var records []model.PolicyRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode store: %w", err)
	}
	return records, nil
}

// Save replaces the entire collection.
func (s *Store) Save(records []model.PolicyRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(records)
}

func (s *Store) save(records []model.PolicyRecord) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode store: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create store dir: %w", err)
		}
	}

	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("write store: %w", err)
	}
	return nil
}

// AddOrUpdate dedups by id: an existing record with the same id is
// shallow-merged with the incoming fields, otherwise the record is
// appended. DiscoveredAt is write-once and never overwritten.
func (s *Store) AddOrUpdate(rec model.PolicyRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return err
	}

	for i := range records {
		if records[i].ID == rec.ID {
			records[i] = merge(records[i], rec)
			return s.save(records)
		}
	}

	records = append(records, rec)
	return s.save(records)
}

// UpdateAnalysis attaches an analysis to the record with the given id.
func (s *Store) UpdateAnalysis(id string, analysis *model.Analysis) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return err
	}

	for i := range records {
		if records[i].ID == id {
			records[i].Analysis = analysis
			return s.save(records)
		}
	}
	return fmt.Errorf("update analysis: no record with id %s", id)
}

// Clear discards the entire collection unconditionally. Confirmation is a
// caller concern.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save([]model.PolicyRecord{})
}

// Stats summarizes the collection. Urgency is recomputed against the
// current time on every call, never cached.
type Stats struct {
	Total    int `json:"total"`
	Analyzed int `json:"analyzed"`
	Pending  int `json:"pending"`
	Relevant int `json:"relevant"`
	Urgent   int `json:"urgent"`
}

// UrgentWindowDays is the days-to-deadline threshold for urgency.
const UrgentWindowDays = 7

// Stats computes collection counters.
func (s *Store) Stats() (Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return Stats{}, err
	}

	now := s.now()
	st := Stats{Total: len(records)}
	for i := range records {
		rec := &records[i]
		if rec.Analyzed() {
			st.Analyzed++
			if rec.Analysis.Relevant {
				st.Relevant++
			}
		} else {
			st.Pending++
		}
		// Legacy entries may carry no parseable deadline; they are not
		// urgent, just undated.
		if !rec.DeadlineTime().IsZero() && rec.DaysToDeadline(now) <= UrgentWindowDays {
			st.Urgent++
		}
	}
	return st, nil
}

// merge overlays non-zero incoming fields on the existing record.
// DiscoveredAt, ID and Type keep their original values.
func merge(existing, incoming model.PolicyRecord) model.PolicyRecord {
	out := existing

	if incoming.Title != "" {
		out.Title = incoming.Title
	}
	if incoming.Description != "" {
		out.Description = incoming.Description
	}
	if incoming.Ministry != "" {
		out.Ministry = incoming.Ministry
	}
	if incoming.Deadline != "" {
		out.Deadline = incoming.Deadline
	}
	if incoming.SourceURL != "" {
		out.SourceURL = incoming.SourceURL
	}
	if incoming.SourcePageURL != "" {
		out.SourcePageURL = incoming.SourcePageURL
	}
	if incoming.Status != "" {
		out.Status = incoming.Status
	}
	if incoming.ExtractedText != "" {
		out.ExtractedText = incoming.ExtractedText
	}
	if incoming.WelfareRelated {
		out.WelfareRelated = true
	}
	if len(incoming.Keywords) > 0 {
		out.Keywords = incoming.Keywords
	}
	if incoming.Analysis != nil {
		out.Analysis = incoming.Analysis
	}

	return out
}
