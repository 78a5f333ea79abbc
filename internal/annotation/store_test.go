package annotation

import (
	"testing"

	"github.com/hdcheng/wellannot/internal/models"
)

func basicRec(panoramic string, hole int, level models.GrowthLevel) *models.WellAnnotation {
	return &models.WellAnnotation{
		Well:        models.WellID{PanoramicID: panoramic, HoleNumber: hole},
		MicrobeType: models.MicrobeBacteria,
		Label:       level,
		Confidence:  1.0,
		Source:      models.SourceManual,
		Confirmed:   true,
	}
}

func TestStore_PreservesInsertionOrder(t *testing.T) {
	s := NewStore()
	s.Upsert(basicRec("P1", 30, models.GrowthNegative))
	s.Upsert(basicRec("P1", 5, models.GrowthPositive))
	s.Upsert(basicRec("P1", 12, models.GrowthWeak))

	// Re-upserting an existing well must not move it
	s.Upsert(basicRec("P1", 30, models.GrowthPositive))

	all := s.All()
	wantHoles := []int{30, 5, 12}
	if len(all) != len(wantHoles) {
		t.Fatalf("expected %d records, got %d", len(wantHoles), len(all))
	}
	for i, want := range wantHoles {
		if all[i].Well.HoleNumber != want {
			t.Errorf("position %d: got hole %d, want %d", i, all[i].Well.HoleNumber, want)
		}
	}
	if all[0].Label != models.GrowthPositive {
		t.Error("re-upsert did not replace the record")
	}
}

func TestStore_GetReturnsCopy(t *testing.T) {
	s := NewStore()
	s.Upsert(basicRec("P1", 1, models.GrowthNegative))

	got, ok := s.Get(models.WellID{PanoramicID: "P1", HoleNumber: 1})
	if !ok {
		t.Fatal("record not found")
	}
	got.Label = models.GrowthPositive

	again, _ := s.Get(models.WellID{PanoramicID: "P1", HoleNumber: 1})
	if again.Label != models.GrowthNegative {
		t.Error("mutation through Get leaked into the store")
	}
}

func TestStore_UpsertClonesInput(t *testing.T) {
	s := NewStore()
	rec := basicRec("P1", 1, models.GrowthNegative)
	s.Upsert(rec)
	rec.Label = models.GrowthPositive

	got, _ := s.Get(rec.Well)
	if got.Label != models.GrowthNegative {
		t.Error("mutation of the caller's record leaked into the store")
	}
}

func TestStore_Remove(t *testing.T) {
	s := NewStore()
	s.Upsert(basicRec("P1", 1, models.GrowthNegative))
	s.Upsert(basicRec("P1", 2, models.GrowthWeak))

	s.Remove(models.WellID{PanoramicID: "P1", HoleNumber: 1})
	if _, ok := s.Get(models.WellID{PanoramicID: "P1", HoleNumber: 1}); ok {
		t.Error("record still present after Remove")
	}
	if got := len(s.All()); got != 1 {
		t.Errorf("expected 1 record, got %d", got)
	}

	// Removing an absent well is a no-op
	s.Remove(models.WellID{PanoramicID: "P1", HoleNumber: 99})
	if got := len(s.All()); got != 1 {
		t.Errorf("no-op remove changed the store, got %d records", got)
	}
}
