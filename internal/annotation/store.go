// Package annotation holds the in-memory annotation record set and the
// reconciliation rules that keep a well's basic label and its enhanced
// feature combination consistent across edits, navigation and import.
package annotation

import (
	"github.com/hdcheng/wellannot/internal/models"
)

// Store is the in-memory collection of annotation records, keyed by well.
// Iteration order is the insertion order of each well's first annotation, so
// exports and statistics are deterministic. Records enter and leave the
// store only through Upsert and Remove; callers get copies, never aliases
// into the store.
type Store struct {
	records map[models.WellID]*models.WellAnnotation
	order   []models.WellID
}

// NewStore creates an empty record store.
func NewStore() *Store {
	return &Store{
		records: make(map[models.WellID]*models.WellAnnotation),
	}
}

// Get returns a copy of the record for well, or false when the well has
// never been annotated.
func (s *Store) Get(well models.WellID) (*models.WellAnnotation, bool) {
	rec, ok := s.records[well]
	if !ok {
		return nil, false
	}
	return rec.Clone(), true
}

// Upsert inserts or replaces the record for rec.Well. Replacement is whole-
// record: the caller must already have reconciled basic and enhanced fields.
func (s *Store) Upsert(rec *models.WellAnnotation) {
	if _, ok := s.records[rec.Well]; !ok {
		s.order = append(s.order, rec.Well)
	}
	s.records[rec.Well] = rec.Clone()
}

// Remove deletes the record for well. Removing an absent well is a no-op.
func (s *Store) Remove(well models.WellID) {
	if _, ok := s.records[well]; !ok {
		return
	}
	delete(s.records, well)
	for i, w := range s.order {
		if w == well {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// All returns copies of every record in first-annotation order.
func (s *Store) All() []*models.WellAnnotation {
	out := make([]*models.WellAnnotation, 0, len(s.order))
	for _, well := range s.order {
		out = append(out, s.records[well].Clone())
	}
	return out
}

// Len returns the number of annotated wells.
func (s *Store) Len() int {
	return len(s.records)
}
