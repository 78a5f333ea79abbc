package models

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestNewFeatureCombination_RequiresLevel(t *testing.T) {
	vocab := DefaultVocabulary()
	_, err := NewFeatureCombination(vocab, "", "", nil, 1.0)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Field != "growth_level" {
		t.Errorf("expected growth_level field, got %s", verr.Field)
	}
}

func TestNewFeatureCombination_UnknownLevel(t *testing.T) {
	vocab := DefaultVocabulary()
	_, err := NewFeatureCombination(vocab, "strong", "", nil, 1.0)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestNewFeatureCombination_PatternOnNegative(t *testing.T) {
	vocab := DefaultVocabulary()
	_, err := NewFeatureCombination(vocab, "negative", "clustered", nil, 1.0)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Field != "growth_pattern" {
		t.Errorf("expected growth_pattern field, got %s", verr.Field)
	}
}

func TestNewFeatureCombination_PatternLevelMismatch(t *testing.T) {
	vocab := DefaultVocabulary()
	// clustered is a positive pattern, not a weak_growth one
	if _, err := NewFeatureCombination(vocab, "weak_growth", "clustered", nil, 1.0); err == nil {
		t.Fatal("expected error for pattern from the wrong level")
	}
	if _, err := NewFeatureCombination(vocab, "weak_growth", "small_dots", nil, 1.0); err != nil {
		t.Fatalf("expected small_dots to be valid for weak_growth, got %v", err)
	}
}

func TestNewFeatureCombination_ConfidenceRange(t *testing.T) {
	vocab := DefaultVocabulary()
	for _, conf := range []float64{-0.1, 1.1} {
		if _, err := NewFeatureCombination(vocab, "positive", "clustered", nil, conf); err == nil {
			t.Errorf("expected error for confidence %v", conf)
		}
	}
	for _, conf := range []float64{0, 0.5, 1} {
		if _, err := NewFeatureCombination(vocab, "positive", "clustered", nil, conf); err != nil {
			t.Errorf("expected confidence %v to be valid, got %v", conf, err)
		}
	}
}

func TestNewFeatureCombination_DeduplicatesAndSortsFactors(t *testing.T) {
	vocab := DefaultVocabulary()
	fc, err := NewFeatureCombination(vocab, "positive", "clustered", []string{"pores", "artifacts", "pores"}, 1.0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fc.Factors) != 2 {
		t.Fatalf("expected 2 factors after dedupe, got %d", len(fc.Factors))
	}
	if fc.Factors[0] != InterferenceArtifacts || fc.Factors[1] != InterferencePores {
		t.Errorf("expected sorted factors [artifacts pores], got %v", fc.Factors)
	}
}

func TestNewFeatureCombination_UnknownFactor(t *testing.T) {
	vocab := DefaultVocabulary()
	if _, err := NewFeatureCombination(vocab, "positive", "", []string{"smudge"}, 1.0); err == nil {
		t.Fatal("expected error for unknown interference factor")
	}
}

func TestTrainingLabel(t *testing.T) {
	vocab := DefaultVocabulary()
	tests := []struct {
		level   string
		pattern string
		factors []string
		want    string
	}{
		{"negative", "", nil, "negative"},
		{"weak_growth", "small_dots", nil, "weak_growth_small_dots"},
		{"positive", "clustered", []string{"pores", "artifacts"}, "positive_clustered_with_artifacts_pores"},
	}
	for _, tt := range tests {
		fc, err := NewFeatureCombination(vocab, tt.level, tt.pattern, tt.factors, 1.0)
		if err != nil {
			t.Fatalf("unexpected error for %s: %v", tt.want, err)
		}
		if got := fc.TrainingLabel(); got != tt.want {
			t.Errorf("TrainingLabel() = %q, want %q", got, tt.want)
		}
	}
}

func TestFeatureWireRoundTrip(t *testing.T) {
	vocab := DefaultVocabulary()
	fc, err := NewFeatureCombination(vocab, "positive", "scattered", []string{"debris", "pores"}, 0.75)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	w := fc.ToWire()
	if w.Label != "positive_scattered_with_debris_pores" {
		t.Errorf("unexpected wire label %q", w.Label)
	}

	back, err := FeatureFromWire(w, vocab)
	if err != nil {
		t.Fatalf("FeatureFromWire failed: %v", err)
	}
	if !fc.Equal(back) {
		t.Errorf("round trip changed the combination: %+v != %+v", fc, back)
	}
}

func TestFeatureFromWire_MissingLevel(t *testing.T) {
	vocab := DefaultVocabulary()
	conf := 1.0
	_, err := FeatureFromWire(FeatureWire{Confidence: &conf}, vocab)
	var ferr *FormatError
	if !errors.As(err, &ferr) {
		t.Fatalf("expected FormatError, got %v", err)
	}
	if ferr.Key != "growth_level" {
		t.Errorf("expected growth_level key, got %s", ferr.Key)
	}
}

func TestFeatureFromWire_MissingConfidence(t *testing.T) {
	vocab := DefaultVocabulary()
	_, err := FeatureFromWire(FeatureWire{GrowthLevel: "positive", GrowthPattern: "clustered"}, vocab)
	var ferr *FormatError
	if !errors.As(err, &ferr) {
		t.Fatalf("expected FormatError, got %v", err)
	}
	if ferr.Key != "confidence" {
		t.Errorf("expected confidence key, got %s", ferr.Key)
	}
}

func TestFeatureFromWire_OmittedConfidenceKey(t *testing.T) {
	vocab := DefaultVocabulary()
	raw := `{"growth_level":"positive","growth_pattern":"clustered","interference_factors":[]}`
	var w FeatureWire
	if err := json.Unmarshal([]byte(raw), &w); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	_, err := FeatureFromWire(w, vocab)
	var ferr *FormatError
	if !errors.As(err, &ferr) {
		t.Fatalf("expected FormatError for omitted confidence, got %v", err)
	}
	if ferr.Key != "confidence" {
		t.Errorf("expected confidence key, got %s", ferr.Key)
	}
}

func TestFeatureFromWire_ExplicitZeroConfidence(t *testing.T) {
	vocab := DefaultVocabulary()
	raw := `{"growth_level":"negative","interference_factors":[],"confidence":0}`
	var w FeatureWire
	if err := json.Unmarshal([]byte(raw), &w); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	fc, err := FeatureFromWire(w, vocab)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fc.Confidence != 0 {
		t.Errorf("expected confidence 0, got %v", fc.Confidence)
	}
}

func TestFeatureFromWire_IgnoresLabel(t *testing.T) {
	vocab := DefaultVocabulary()
	conf := 1.0
	w := FeatureWire{GrowthLevel: "negative", Confidence: &conf, Label: "something_else_entirely"}
	fc, err := FeatureFromWire(w, vocab)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fc.TrainingLabel() != "negative" {
		t.Errorf("label input leaked into the combination: %q", fc.TrainingLabel())
	}
}

func TestFeatureWire_EmptyFactorsNotNil(t *testing.T) {
	vocab := DefaultVocabulary()
	fc, err := NewFeatureCombination(vocab, "negative", "", nil, 1.0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fc.ToWire().InterferenceFactors == nil {
		t.Error("wire form should carry an empty factors list, not nil")
	}
}
