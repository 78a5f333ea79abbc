package models

import (
	"math"
	"sort"
	"strings"
)

// FeatureCombination is the structured payload of an enhanced annotation:
// growth level plus optional growth pattern plus zero or more interference
// factors plus confidence. It is a value type, always built fresh from panel
// state through NewFeatureCombination and never mutated in place.
type FeatureCombination struct {
	Level      GrowthLevel
	Pattern    GrowthPattern
	Factors    []InterferenceType
	Confidence float64
}

// FeatureWire is the serialized form of a FeatureCombination. Every enum
// field is carried as its plain string value; this struct is the only place
// where annotation enums cross the serialization boundary. Confidence is a
// pointer so a record that omits the key is distinguishable from an explicit
// zero and can be rejected instead of silently defaulted.
type FeatureWire struct {
	GrowthLevel         string   `json:"growth_level"`
	GrowthPattern       string   `json:"growth_pattern,omitempty"`
	InterferenceFactors []string `json:"interference_factors"`
	Confidence          *float64 `json:"confidence"`
	Label               string   `json:"label,omitempty"`
}

// NewFeatureCombination validates raw panel input against the vocabulary and
// builds a FeatureCombination. Interference factors are deduplicated and kept
// sorted so combinations compare and serialize deterministically.
func NewFeatureCombination(vocab *Vocabulary, level, pattern string, factors []string, confidence float64) (FeatureCombination, error) {
	if level == "" {
		return FeatureCombination{}, &ValidationError{Field: "growth_level", Reason: "growth level is required"}
	}

	gl := GrowthLevel(level)
	if !vocab.HasLevel(gl) {
		return FeatureCombination{}, &ValidationError{Field: "growth_level", Value: level, Reason: "not a known growth level"}
	}

	gp := GrowthPattern(pattern)
	if gp != "" && !vocab.PatternAllowed(gl, gp) {
		if len(vocab.PatternsFor(gl)) == 0 {
			return FeatureCombination{}, &ValidationError{Field: "growth_pattern", Value: pattern, Reason: "growth level " + level + " does not take a growth pattern"}
		}
		return FeatureCombination{}, &ValidationError{Field: "growth_pattern", Value: pattern, Reason: "not a valid pattern for growth level " + level}
	}

	seen := make(map[InterferenceType]bool)
	var fs []InterferenceType
	for _, f := range factors {
		it := InterferenceType(f)
		if !vocab.HasFactor(it) {
			return FeatureCombination{}, &ValidationError{Field: "interference_factor", Value: f, Reason: "not a known interference factor"}
		}
		if !seen[it] {
			seen[it] = true
			fs = append(fs, it)
		}
	}
	sort.Slice(fs, func(i, j int) bool { return fs[i] < fs[j] })

	if math.IsNaN(confidence) || confidence < 0 || confidence > 1 {
		return FeatureCombination{}, &ValidationError{Field: "confidence", Reason: "confidence must be in [0,1]"}
	}

	return FeatureCombination{
		Level:      gl,
		Pattern:    gp,
		Factors:    fs,
		Confidence: confidence,
	}, nil
}

// TrainingLabel composes the flat classification label used by downstream
// training exports, e.g. "positive_clustered_with_artifacts_pores".
func (fc FeatureCombination) TrainingLabel() string {
	parts := []string{string(fc.Level)}
	if fc.Pattern != "" {
		parts = append(parts, string(fc.Pattern))
	}
	if len(fc.Factors) > 0 {
		names := make([]string, len(fc.Factors))
		for i, f := range fc.Factors {
			names[i] = string(f)
		}
		sort.Strings(names)
		parts = append(parts, "with_"+strings.Join(names, "_"))
	}
	return strings.Join(parts, "_")
}

// Equal reports field-for-field equality.
func (fc FeatureCombination) Equal(other FeatureCombination) bool {
	if fc.Level != other.Level || fc.Pattern != other.Pattern || fc.Confidence != other.Confidence {
		return false
	}
	if len(fc.Factors) != len(other.Factors) {
		return false
	}
	for i := range fc.Factors {
		if fc.Factors[i] != other.Factors[i] {
			return false
		}
	}
	return true
}

// ToWire converts the combination to its serialized form. Factors are
// emitted as a non-nil slice so the stored form always carries the key.
func (fc FeatureCombination) ToWire() FeatureWire {
	factors := make([]string, len(fc.Factors))
	for i, f := range fc.Factors {
		factors[i] = string(f)
	}
	conf := fc.Confidence
	return FeatureWire{
		GrowthLevel:         string(fc.Level),
		GrowthPattern:       string(fc.Pattern),
		InterferenceFactors: factors,
		Confidence:          &conf,
		Label:               fc.TrainingLabel(),
	}
}

// FeatureFromWire is the exact inverse of ToWire. A missing growth level or
// any value outside the vocabulary is a FormatError; nothing is silently
// defaulted. The derived label field is ignored on input.
func FeatureFromWire(w FeatureWire, vocab *Vocabulary) (FeatureCombination, error) {
	if w.GrowthLevel == "" {
		return FeatureCombination{}, &FormatError{Key: "growth_level", Reason: "required key missing"}
	}
	gl := GrowthLevel(w.GrowthLevel)
	if !vocab.HasLevel(gl) {
		return FeatureCombination{}, &FormatError{Key: "growth_level", Value: w.GrowthLevel, Reason: "not a known growth level"}
	}

	gp := GrowthPattern(w.GrowthPattern)
	if gp != "" && !vocab.PatternAllowed(gl, gp) {
		return FeatureCombination{}, &FormatError{Key: "growth_pattern", Value: w.GrowthPattern, Reason: "not a valid pattern for growth level " + w.GrowthLevel}
	}

	var fs []InterferenceType
	for _, f := range w.InterferenceFactors {
		it := InterferenceType(f)
		if !vocab.HasFactor(it) {
			return FeatureCombination{}, &FormatError{Key: "interference_factors", Value: f, Reason: "not a known interference factor"}
		}
		fs = append(fs, it)
	}
	sort.Slice(fs, func(i, j int) bool { return fs[i] < fs[j] })

	if w.Confidence == nil {
		return FeatureCombination{}, &FormatError{Key: "confidence", Reason: "required key missing"}
	}
	if math.IsNaN(*w.Confidence) || *w.Confidence < 0 || *w.Confidence > 1 {
		return FeatureCombination{}, &FormatError{Key: "confidence", Reason: "confidence must be in [0,1]"}
	}

	return FeatureCombination{
		Level:      gl,
		Pattern:    gp,
		Factors:    fs,
		Confidence: *w.Confidence,
	}, nil
}
