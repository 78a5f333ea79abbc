package annotation

import (
	"strings"
	"testing"
	"time"

	"github.com/hdcheng/wellannot/internal/layout"
	"github.com/hdcheng/wellannot/internal/models"
)

func newTestSession(t *testing.T) *Session {
	t.Helper()
	grid := layout.NewGrid(layout.DefaultParams())
	s, err := NewSession(models.DefaultVocabulary(), NewStore(), grid, "EB10000026", models.MicrobeBacteria, 25)
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}
	s.reconciler.now = func() time.Time {
		return time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	}
	return s
}

func TestNewSession_RequiresPanoramicID(t *testing.T) {
	grid := layout.NewGrid(layout.DefaultParams())
	if _, err := NewSession(models.DefaultVocabulary(), NewStore(), grid, "", models.MicrobeBacteria, 0); err == nil {
		t.Fatal("expected error for empty panoramic id")
	}
}

func TestNewSession_RejectsUnknownMicrobe(t *testing.T) {
	grid := layout.NewGrid(layout.DefaultParams())
	if _, err := NewSession(models.DefaultVocabulary(), NewStore(), grid, "P1", "virus", 0); err == nil {
		t.Fatal("expected error for unknown microbe type")
	}
}

func TestSaveAndAdvance_StatsCurrentBeforeNavigation(t *testing.T) {
	s := newTestSession(t)
	if s.CurrentWell().HoleNumber != 25 {
		t.Fatalf("expected start hole 25, got %d", s.CurrentWell().HoleNumber)
	}

	next, err := s.SaveAndAdvance(PanelInput{Level: "positive", Pattern: "clustered", Confidence: 1.0})
	if err != nil {
		t.Fatalf("SaveAndAdvance failed: %v", err)
	}

	if s.CurrentWell().HoleNumber != 26 {
		t.Errorf("expected hole 26 after advance, got %d", s.CurrentWell().HoleNumber)
	}
	if next.State != Unannotated {
		t.Errorf("expected unannotated panel for hole 26, got %s", next.State)
	}
	if s.Summary().Total != 1 {
		t.Errorf("summary stale after save: total %d", s.Summary().Total)
	}
	if !strings.HasPrefix(s.Status(), "1 annotated") {
		t.Errorf("status line stale after save: %q", s.Status())
	}

	// Second save lands on hole 26, never on a stale cursor
	if _, err := s.SaveAndAdvance(PanelInput{Level: "negative", Confidence: 1.0}); err != nil {
		t.Fatalf("second SaveAndAdvance failed: %v", err)
	}
	if _, ok := s.Record(models.WellID{PanoramicID: "EB10000026", HoleNumber: 26}); !ok {
		t.Error("second save did not land on hole 26")
	}
	if s.Summary().Total != 2 {
		t.Errorf("expected 2 annotated, got %d", s.Summary().Total)
	}
}

func TestSaveEnhanced_ValidationFailureLeavesStoreUntouched(t *testing.T) {
	s := newTestSession(t)
	well := s.CurrentWell()

	if err := s.SaveEnhanced(well, PanelInput{Level: "negative", Pattern: "clustered", Confidence: 1.0}); err == nil {
		t.Fatal("expected validation error")
	}
	if _, ok := s.Record(well); ok {
		t.Error("failed save left a record in the store")
	}
	if s.Summary().Total != 0 {
		t.Errorf("failed save changed statistics: %d", s.Summary().Total)
	}
	if s.CurrentWell() != well {
		t.Error("failed save moved the navigator")
	}
}

func TestSaveEnhanced_ResaveReplacesInPlace(t *testing.T) {
	s := newTestSession(t)
	well := s.CurrentWell()

	if err := s.SaveEnhanced(well, PanelInput{Level: "positive", Pattern: "clustered", Confidence: 1.0}); err != nil {
		t.Fatalf("first save failed: %v", err)
	}
	if err := s.SaveEnhanced(well, PanelInput{Level: "weak_growth", Pattern: "small_dots", Confidence: 0.7}); err != nil {
		t.Fatalf("second save failed: %v", err)
	}

	if s.Summary().Total != 1 {
		t.Errorf("re-save duplicated the record: total %d", s.Summary().Total)
	}
	rec, _ := s.Record(well)
	if rec.Label != models.GrowthWeak {
		t.Errorf("re-save did not replace the record: %s", rec.Label)
	}
	if rec.Source != models.SourceEnhancedManual {
		t.Errorf("re-save changed provenance: %s", rec.Source)
	}
}

func TestPanel_RehydratesSavedState(t *testing.T) {
	s := newTestSession(t)
	well := s.CurrentWell()
	input := PanelInput{Level: "positive", Pattern: "scattered", Factors: []string{"pores", "artifacts"}, Confidence: 0.85}
	if err := s.SaveEnhanced(well, input); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	// Leave and come back
	s.Next()
	s.Prev()

	ps := s.Panel(s.CurrentWell())
	if ps.Level != "positive" || ps.Pattern != "scattered" {
		t.Errorf("panel not rehydrated: %s/%s", ps.Level, ps.Pattern)
	}
	if len(ps.Factors) != 2 {
		t.Errorf("factors not rehydrated: %v", ps.Factors)
	}
	if ps.Confidence != 0.85 {
		t.Errorf("confidence not rehydrated: %v", ps.Confidence)
	}
}

func TestClear_RevertsToUnannotated(t *testing.T) {
	s := newTestSession(t)
	well := s.CurrentWell()
	if err := s.SaveEnhanced(well, PanelInput{Level: "negative", Confidence: 1.0}); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	s.Clear(well)
	if _, ok := s.Record(well); ok {
		t.Error("record still present after clear")
	}
	if s.Summary().Total != 0 {
		t.Errorf("statistics stale after clear: %d", s.Summary().Total)
	}
	if got := s.Panel(well).State; got != Unannotated {
		t.Errorf("expected unannotated panel after clear, got %s", got)
	}

	// Clearing again is a no-op
	s.Clear(well)
	if s.Summary().Total != 0 {
		t.Error("double clear changed statistics")
	}
}

func TestApplyBatch(t *testing.T) {
	s := newTestSession(t)
	count, err := s.ApplyBatch("batch-1", 10, 14, PanelInput{Level: "negative", Confidence: 1.0})
	if err != nil {
		t.Fatalf("ApplyBatch failed: %v", err)
	}
	if count != 5 {
		t.Errorf("expected 5 wells annotated, got %d", count)
	}
	if s.Summary().BySource[models.SourceBatch] != 5 {
		t.Errorf("expected 5 batch_operation records, got %d", s.Summary().BySource[models.SourceBatch])
	}

	var ts string
	for h := 10; h <= 14; h++ {
		rec, ok := s.Record(models.WellID{PanoramicID: "EB10000026", HoleNumber: h})
		if !ok {
			t.Fatalf("hole %d not annotated", h)
		}
		if ts == "" {
			ts = *rec.Timestamp
		} else if *rec.Timestamp != ts {
			t.Errorf("hole %d: batch timestamp differs", h)
		}
	}
}

func TestApplyBatch_RejectsBadRange(t *testing.T) {
	s := newTestSession(t)
	if _, err := s.ApplyBatch("b", 14, 10, PanelInput{Level: "negative", Confidence: 1.0}); err == nil {
		t.Error("expected error for inverted range")
	}
	if _, err := s.ApplyBatch("b", 115, 125, PanelInput{Level: "negative", Confidence: 1.0}); err == nil {
		t.Error("expected error for out-of-range holes")
	}
	if s.Summary().Total != 0 {
		t.Error("failed batch left records behind")
	}
}

func TestNextUnannotated(t *testing.T) {
	s := newTestSession(t)

	// Annotate 26 and 27 so the next free hole after 25 is 28
	for _, h := range []int{26, 27} {
		if err := s.SaveEnhanced(models.WellID{PanoramicID: "EB10000026", HoleNumber: h}, PanelInput{Level: "negative", Confidence: 1.0}); err != nil {
			t.Fatalf("save failed: %v", err)
		}
	}

	ps, found := s.NextUnannotated()
	if !found {
		t.Fatal("expected an unannotated hole")
	}
	if s.CurrentWell().HoleNumber != 28 {
		t.Errorf("expected hole 28, got %d", s.CurrentWell().HoleNumber)
	}
	if ps.State != Unannotated {
		t.Errorf("expected unannotated panel, got %s", ps.State)
	}
}

func TestNavigation_Wraparound(t *testing.T) {
	s := newTestSession(t)
	if _, err := s.GoTo(120); err != nil {
		t.Fatalf("GoTo failed: %v", err)
	}
	s.Next()
	if s.CurrentWell().HoleNumber != 1 {
		t.Errorf("expected wraparound to hole 1, got %d", s.CurrentWell().HoleNumber)
	}
	s.Prev()
	if s.CurrentWell().HoleNumber != 120 {
		t.Errorf("expected wraparound back to hole 120, got %d", s.CurrentWell().HoleNumber)
	}
}

func TestImportReference_StaysBasicAndUnconfirmed(t *testing.T) {
	s := newTestSession(t)
	well := models.WellID{PanoramicID: "EB10000026", HoleNumber: 25}

	if err := s.ImportReference(well, "positive", []string{"pores"}, 0.8); err != nil {
		t.Fatalf("ImportReference failed: %v", err)
	}

	rec, ok := s.Record(well)
	if !ok {
		t.Fatal("record missing after import")
	}
	if rec.Source != models.SourceConfigImport {
		t.Errorf("source %q, want config_import", rec.Source)
	}
	if rec.Timestamp != nil {
		t.Error("imported record must not carry a timestamp")
	}
	if rec.Confirmed {
		t.Error("imported record must not be confirmed")
	}
	if rec.Enhanced != nil {
		t.Error("imported record must not be in the enhanced state")
	}
	if StateOf(rec) != BasicAnnotated {
		t.Errorf("expected basic state, got %s", StateOf(rec))
	}
	if s.Summary().ImportBucket != 1 || s.Summary().ManualBucket != 0 {
		t.Errorf("provenance buckets wrong: manual %d / imported %d",
			s.Summary().ManualBucket, s.Summary().ImportBucket)
	}
}

func TestImportReference_RejectsUnknownLevel(t *testing.T) {
	s := newTestSession(t)
	well := models.WellID{PanoramicID: "EB10000026", HoleNumber: 25}
	if err := s.ImportReference(well, "overgrown", nil, 1.0); err == nil {
		t.Fatal("expected error for unknown growth level")
	}
	if s.store.Len() != 0 {
		t.Error("store modified on rejected import")
	}
}
