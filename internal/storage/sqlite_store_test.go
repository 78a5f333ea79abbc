package storage

import (
	"path/filepath"
	"testing"

	"github.com/hdcheng/wellannot/internal/models"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s := NewSQLiteStore(filepath.Join(t.TempDir(), "wellannot.db"))
	if err := s.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestLoad_Uninitialized(t *testing.T) {
	s := NewSQLiteStore(filepath.Join(t.TempDir(), "wellannot.db"))
	if err := s.Load(); err == nil {
		t.Fatal("expected error loading uninitialized storage")
	}
}

func TestInit_SeedsDefaultSettings(t *testing.T) {
	s := newTestStore(t)
	settings, err := s.GetSettings()
	if err != nil {
		t.Fatalf("GetSettings failed: %v", err)
	}
	if settings.DefaultMicrobeType != string(models.MicrobeBacteria) {
		t.Errorf("default microbe type %q, want %q", settings.DefaultMicrobeType, models.MicrobeBacteria)
	}
	if settings.StartHole == 0 {
		t.Error("default start hole not seeded")
	}
}

func TestSettings_RoundTrip(t *testing.T) {
	s := newTestStore(t)
	want := Settings{
		DefaultMicrobeType: string(models.MicrobeFungi),
		StartHole:          1,
		VocabularyPath:     "/etc/wellannot/vocab.json",
		LastPanoramicID:    "EB10000026",
		LastHole:           42,
	}
	if err := s.SaveSettings(want); err != nil {
		t.Fatalf("SaveSettings failed: %v", err)
	}
	got, err := s.GetSettings()
	if err != nil {
		t.Fatalf("GetSettings failed: %v", err)
	}
	if got != want {
		t.Errorf("settings round trip mismatch:\n got %+v\nwant %+v", got, want)
	}
}

func TestSaveAnnotation_RoundTrip(t *testing.T) {
	s := newTestStore(t)
	vocab := models.DefaultVocabulary()

	fc, err := models.NewFeatureCombination(vocab, "positive", "clustered", []string{"pores", "artifacts"}, 0.85)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ts := "2026-03-01T10:00:00Z"
	rec := &models.WellAnnotation{
		Well:        models.WellID{PanoramicID: "EB10000026", HoleNumber: 25},
		MicrobeType: models.MicrobeBacteria,
		Source:      models.SourceEnhancedManual,
		Timestamp:   &ts,
		Confirmed:   true,
		Enhanced:    &fc,
	}
	rec.SyncFromEnhanced()

	if err := s.SaveAnnotation(rec); err != nil {
		t.Fatalf("SaveAnnotation failed: %v", err)
	}

	got, found, err := s.GetAnnotation(rec.Well)
	if err != nil {
		t.Fatalf("GetAnnotation failed: %v", err)
	}
	if !found {
		t.Fatal("record not found after save")
	}
	if got.Label != models.GrowthPositive || got.Pattern != models.PatternClustered {
		t.Errorf("basic fields mismatch: %s/%s", got.Label, got.Pattern)
	}
	if got.Source != models.SourceEnhancedManual {
		t.Errorf("source %q, want enhanced_manual", got.Source)
	}
	if got.Timestamp == nil || *got.Timestamp != ts {
		t.Errorf("timestamp lost: %v", got.Timestamp)
	}
	if !got.Confirmed {
		t.Error("confirmed flag lost")
	}
	if got.Enhanced == nil {
		t.Fatal("enhanced data lost")
	}
	if !got.Enhanced.Equal(fc) {
		t.Errorf("enhanced data mismatch:\n got %+v\nwant %+v", *got.Enhanced, fc)
	}
	if err := got.CheckInvariants(); err != nil {
		t.Errorf("loaded record violates invariants: %v", err)
	}
}

func TestSaveAnnotation_BasicRecordNullColumns(t *testing.T) {
	s := newTestStore(t)
	rec := &models.WellAnnotation{
		Well:        models.WellID{PanoramicID: "EB10000026", HoleNumber: 26},
		MicrobeType: models.MicrobeBacteria,
		Label:       models.GrowthNegative,
		Confidence:  1.0,
		Source:      models.SourceConfigImport,
	}
	if err := s.SaveAnnotation(rec); err != nil {
		t.Fatalf("SaveAnnotation failed: %v", err)
	}
	got, found, err := s.GetAnnotation(rec.Well)
	if err != nil || !found {
		t.Fatalf("GetAnnotation failed: %v found=%v", err, found)
	}
	if got.Timestamp != nil {
		t.Errorf("imported record should have no timestamp, got %q", *got.Timestamp)
	}
	if got.Enhanced != nil {
		t.Error("basic record should have no enhanced data")
	}
	if got.Pattern != "" {
		t.Errorf("negative record should have no pattern, got %q", got.Pattern)
	}
	if len(got.Factors) != 0 {
		t.Errorf("expected no factors, got %v", got.Factors)
	}
}

func TestSaveAnnotation_RejectsInconsistentRecord(t *testing.T) {
	s := newTestStore(t)
	rec := &models.WellAnnotation{
		Well:        models.WellID{PanoramicID: "EB10000026", HoleNumber: 27},
		MicrobeType: models.MicrobeBacteria,
		Label:       models.GrowthNegative,
		Confidence:  1.0,
		Source:      models.SourceManual,
	}
	ts := "2026-03-01T10:00:00Z"
	rec.Timestamp = &ts // manual records carry no timestamp

	if err := s.SaveAnnotation(rec); err == nil {
		t.Fatal("expected invariant error")
	}
	if _, found, _ := s.GetAnnotation(rec.Well); found {
		t.Error("rejected record was written anyway")
	}
}

func TestGetAnnotations_PreservesInsertionOrder(t *testing.T) {
	s := newTestStore(t)
	holes := []int{30, 12, 120, 1, 55}
	for _, h := range holes {
		rec := &models.WellAnnotation{
			Well:        models.WellID{PanoramicID: "EB10000026", HoleNumber: h},
			MicrobeType: models.MicrobeBacteria,
			Label:       models.GrowthNegative,
			Confidence:  1.0,
			Source:      models.SourceManual,
		}
		if err := s.SaveAnnotation(rec); err != nil {
			t.Fatalf("SaveAnnotation(%d) failed: %v", h, err)
		}
	}

	// Re-saving an early record must not move it to the back
	first := &models.WellAnnotation{
		Well:        models.WellID{PanoramicID: "EB10000026", HoleNumber: 30},
		MicrobeType: models.MicrobeBacteria,
		Label:       models.GrowthPositive,
		Pattern:     models.PatternClustered,
		Confidence:  0.7,
		Source:      models.SourceManual,
	}
	if err := s.SaveAnnotation(first); err != nil {
		t.Fatalf("re-save failed: %v", err)
	}

	records, err := s.GetAnnotations("EB10000026")
	if err != nil {
		t.Fatalf("GetAnnotations failed: %v", err)
	}
	if len(records) != len(holes) {
		t.Fatalf("expected %d records, got %d", len(holes), len(records))
	}
	for i, rec := range records {
		if rec.Well.HoleNumber != holes[i] {
			t.Errorf("position %d: hole %d, want %d", i, rec.Well.HoleNumber, holes[i])
		}
	}
	if records[0].Label != models.GrowthPositive {
		t.Error("re-save did not update the record in place")
	}
}

func TestGetAnnotations_FiltersByPanoramic(t *testing.T) {
	s := newTestStore(t)
	for _, id := range []string{"EB10000026", "EB10000027"} {
		rec := &models.WellAnnotation{
			Well:        models.WellID{PanoramicID: id, HoleNumber: 25},
			MicrobeType: models.MicrobeBacteria,
			Label:       models.GrowthNegative,
			Confidence:  1.0,
			Source:      models.SourceManual,
		}
		if err := s.SaveAnnotation(rec); err != nil {
			t.Fatalf("SaveAnnotation failed: %v", err)
		}
	}

	records, err := s.GetAnnotations("EB10000027")
	if err != nil {
		t.Fatalf("GetAnnotations failed: %v", err)
	}
	if len(records) != 1 || records[0].Well.PanoramicID != "EB10000027" {
		t.Errorf("unexpected records: %v", records)
	}

	all, err := s.GetAllAnnotations()
	if err != nil {
		t.Fatalf("GetAllAnnotations failed: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("expected 2 records total, got %d", len(all))
	}
}

func TestDeleteAnnotation(t *testing.T) {
	s := newTestStore(t)
	well := models.WellID{PanoramicID: "EB10000026", HoleNumber: 25}
	rec := &models.WellAnnotation{
		Well:        well,
		MicrobeType: models.MicrobeBacteria,
		Label:       models.GrowthNegative,
		Confidence:  1.0,
		Source:      models.SourceManual,
	}
	if err := s.SaveAnnotation(rec); err != nil {
		t.Fatalf("SaveAnnotation failed: %v", err)
	}
	if err := s.DeleteAnnotation(well); err != nil {
		t.Fatalf("DeleteAnnotation failed: %v", err)
	}
	if _, found, err := s.GetAnnotation(well); err != nil || found {
		t.Errorf("record still present after delete (err=%v)", err)
	}
	// Deleting a missing record is not an error
	if err := s.DeleteAnnotation(well); err != nil {
		t.Errorf("double delete failed: %v", err)
	}
}

func TestLoad_ReopensExistingDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wellannot.db")
	s := NewSQLiteStore(path)
	if err := s.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	rec := &models.WellAnnotation{
		Well:        models.WellID{PanoramicID: "EB10000026", HoleNumber: 25},
		MicrobeType: models.MicrobeBacteria,
		Label:       models.GrowthWeak,
		Pattern:     models.PatternSmallDots,
		Confidence:  1.0,
		Source:      models.SourceManual,
	}
	if err := s.SaveAnnotation(rec); err != nil {
		t.Fatalf("SaveAnnotation failed: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened := NewSQLiteStore(path)
	if err := reopened.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	defer reopened.Close()

	got, found, err := reopened.GetAnnotation(rec.Well)
	if err != nil || !found {
		t.Fatalf("record missing after reopen (err=%v)", err)
	}
	if got.Label != models.GrowthWeak || got.Pattern != models.PatternSmallDots {
		t.Errorf("record changed across reopen: %s/%s", got.Label, got.Pattern)
	}
}
