package annotation

import (
	"fmt"

	"github.com/hdcheng/wellannot/internal/layout"
	"github.com/hdcheng/wellannot/internal/logger"
	"github.com/hdcheng/wellannot/internal/models"
	"github.com/hdcheng/wellannot/internal/stats"
)

// Session drives annotation of one panoramic image: it owns the navigator,
// writes through to the record store, and keeps the statistics summary and
// status line current. A save's effects are fully applied before the
// navigator moves; no navigation step completes while the just-saved well's
// counts are stale.
//
// Operations that read or write well state take the WellID explicitly; the
// navigator's position is only a cursor, never an implicit data source.
type Session struct {
	vocab       *models.Vocabulary
	reconciler  *Reconciler
	store       *Store
	nav         *layout.Navigator
	grid        *layout.Grid
	panoramicID string
	microbe     models.MicrobeType

	summary stats.Summary
	status  string
}

// NewSession opens a session over store for one panoramic image. startHole
// of zero means the plate's default start hole.
func NewSession(vocab *models.Vocabulary, store *Store, grid *layout.Grid, panoramicID string, microbe models.MicrobeType, startHole int) (*Session, error) {
	if panoramicID == "" {
		return nil, fmt.Errorf("panoramic id is required")
	}
	if !vocab.HasMicrobeType(microbe) {
		return nil, &models.ValidationError{Field: "microbe_type", Value: string(microbe), Reason: "not a known microbe type"}
	}
	nav, err := layout.NewNavigator(grid, startHole)
	if err != nil {
		return nil, err
	}
	s := &Session{
		vocab:       vocab,
		reconciler:  NewReconciler(vocab),
		store:       store,
		nav:         nav,
		grid:        grid,
		panoramicID: panoramicID,
		microbe:     microbe,
	}
	s.refresh()
	return s, nil
}

// refresh recomputes the summary and status line from the full record set.
func (s *Session) refresh() {
	s.summary = stats.Compute(s.store.All())
	s.status = s.summary.StatusLine()
}

// CurrentWell returns the well the navigator points at.
func (s *Session) CurrentWell() models.WellID {
	return models.WellID{PanoramicID: s.panoramicID, HoleNumber: s.nav.Current()}
}

// Panel returns the rehydrated panel state for a well.
func (s *Session) Panel(well models.WellID) PanelState {
	rec, ok := s.store.Get(well)
	if !ok {
		return Rehydrate(nil)
	}
	return Rehydrate(rec)
}

// Record returns the stored record for a well, if any.
func (s *Session) Record(well models.WellID) (*models.WellAnnotation, bool) {
	return s.store.Get(well)
}

// SaveEnhanced validates and saves the enhanced panel content for a well and
// synchronously refreshes statistics. On validation failure the store is
// untouched. It does not move the navigator; use Advance afterwards.
func (s *Session) SaveEnhanced(well models.WellID, input PanelInput) error {
	rec, err := s.reconciler.Enhanced(well, s.microbe, input)
	if err != nil {
		return err
	}
	s.store.Upsert(rec)
	s.refresh()
	logger.Debug("Saved enhanced annotation", "well", well.String(), "label", rec.Label, "pattern", rec.Pattern)
	return nil
}

// SaveBasic saves a plain growth-level label for a well (source manual).
func (s *Session) SaveBasic(well models.WellID, level string) error {
	rec, err := s.reconciler.Basic(well, s.microbe, level)
	if err != nil {
		return err
	}
	s.store.Upsert(rec)
	s.refresh()
	return nil
}

// SaveAndAdvance runs the save protocol for the current well: build and
// stamp the record, upsert it, recompute statistics and status, and only
// then advance the navigator. Returns the rehydrated panel for the next
// well.
func (s *Session) SaveAndAdvance(input PanelInput) (PanelState, error) {
	if err := s.SaveEnhanced(s.CurrentWell(), input); err != nil {
		return PanelState{}, err
	}
	s.nav.Next()
	return s.Panel(s.CurrentWell()), nil
}

// Clear removes a well's record entirely, reverting it to unannotated.
// Clearing an unannotated well is a no-op.
func (s *Session) Clear(well models.WellID) {
	s.store.Remove(well)
	s.refresh()
}

// ImportReference records an imported reference label for a well: source
// config_import, unconfirmed, no timestamp. The well stays in the basic
// state until an operator touches it.
func (s *Session) ImportReference(well models.WellID, level string, factors []string, confidence float64) error {
	rec, err := s.reconciler.Imported(well, s.microbe, level, factors, confidence)
	if err != nil {
		return err
	}
	s.store.Upsert(rec)
	s.refresh()
	return nil
}

// ApplyBatch annotates holes from..to (inclusive) with one panel input,
// tagged batch_operation under the given batch id.
func (s *Session) ApplyBatch(batchID string, from, to int, input PanelInput) (int, error) {
	if from > to {
		return 0, fmt.Errorf("invalid hole range %d..%d", from, to)
	}
	var wells []models.WellID
	for h := from; h <= to; h++ {
		if !s.grid.ValidHole(h) {
			return 0, fmt.Errorf("hole number %d out of range", h)
		}
		wells = append(wells, models.WellID{PanoramicID: s.panoramicID, HoleNumber: h})
	}
	recs, err := s.reconciler.Batch(wells, s.microbe, input)
	if err != nil {
		return 0, err
	}
	for _, rec := range recs {
		s.store.Upsert(rec)
	}
	s.refresh()
	logger.Info("Applied batch annotation", "batch_id", batchID, "wells", len(recs), "level", input.Level)
	return len(recs), nil
}

// Next moves to the next hole and returns its panel state.
func (s *Session) Next() PanelState {
	s.nav.Next()
	return s.Panel(s.CurrentWell())
}

// Prev moves to the previous hole and returns its panel state.
func (s *Session) Prev() PanelState {
	s.nav.Prev()
	return s.Panel(s.CurrentWell())
}

// GoTo jumps to a hole and returns its panel state.
func (s *Session) GoTo(hole int) (PanelState, error) {
	if err := s.nav.GoTo(hole); err != nil {
		return PanelState{}, err
	}
	return s.Panel(s.CurrentWell()), nil
}

// NextUnannotated advances to the next hole without a record, wrapping once
// around the plate. Reports false when every hole is annotated.
func (s *Session) NextUnannotated() (PanelState, bool) {
	_, found := s.nav.NextWhere(func(hole int) bool {
		_, ok := s.store.Get(models.WellID{PanoramicID: s.panoramicID, HoleNumber: hole})
		return !ok
	})
	return s.Panel(s.CurrentWell()), found
}

// Summary returns the current statistics summary.
func (s *Session) Summary() stats.Summary {
	return s.summary
}

// Status returns the current one-line status text.
func (s *Session) Status() string {
	return s.status
}

// Grid exposes the plate layout for position display.
func (s *Session) Grid() *layout.Grid {
	return s.grid
}

// PanoramicID returns the image under annotation.
func (s *Session) PanoramicID() string {
	return s.panoramicID
}
