package models

import (
	"encoding/json"
	"fmt"
	"os"
)

type GrowthLevel string

const (
	GrowthNegative GrowthLevel = "negative"
	GrowthWeak     GrowthLevel = "weak_growth"
	GrowthPositive GrowthLevel = "positive"
)

type GrowthPattern string

const (
	// Weak growth patterns
	PatternSmallDots      GrowthPattern = "small_dots"
	PatternLightGray      GrowthPattern = "light_gray"
	PatternIrregularAreas GrowthPattern = "irregular_areas"

	// Positive patterns (bacteria)
	PatternClustered   GrowthPattern = "clustered"
	PatternScattered   GrowthPattern = "scattered"
	PatternHeavyGrowth GrowthPattern = "heavy_growth"

	// Positive patterns (fungi)
	PatternFocal   GrowthPattern = "focal"
	PatternDiffuse GrowthPattern = "diffuse"
)

type InterferenceType string

const (
	InterferencePores         InterferenceType = "pores"
	InterferenceArtifacts     InterferenceType = "artifacts"
	InterferenceDebris        InterferenceType = "debris"
	InterferenceContamination InterferenceType = "contamination"
)

type MicrobeType string

const (
	MicrobeBacteria MicrobeType = "bacteria"
	MicrobeFungi    MicrobeType = "fungi"
)

// Vocabulary is the closed set of annotation terms the tool accepts. The
// defaults match the lab's standard plate protocol, but each term set is
// data, not code: deployments with additional patterns or interference tags
// supply their own vocabulary file at startup.
type Vocabulary struct {
	GrowthLevels        []GrowthLevel                   `json:"growth_levels"`
	PatternsByLevel     map[GrowthLevel][]GrowthPattern `json:"patterns_by_level"`
	InterferenceFactors []InterferenceType              `json:"interference_factors"`
	MicrobeTypes        []MicrobeType                   `json:"microbe_types"`
}

// DefaultVocabulary returns the built-in term sets. Negative wells allow no
// growth pattern: a pattern describes growth, and a negative well has none.
func DefaultVocabulary() *Vocabulary {
	return &Vocabulary{
		GrowthLevels: []GrowthLevel{GrowthNegative, GrowthWeak, GrowthPositive},
		PatternsByLevel: map[GrowthLevel][]GrowthPattern{
			GrowthNegative: nil,
			GrowthWeak:     {PatternSmallDots, PatternLightGray, PatternIrregularAreas},
			GrowthPositive: {PatternClustered, PatternScattered, PatternHeavyGrowth, PatternFocal, PatternDiffuse},
		},
		InterferenceFactors: []InterferenceType{
			InterferencePores, InterferenceArtifacts, InterferenceDebris, InterferenceContamination,
		},
		MicrobeTypes: []MicrobeType{MicrobeBacteria, MicrobeFungi},
	}
}

// LoadVocabulary reads a vocabulary file, filling any omitted section from
// the defaults.
func LoadVocabulary(path string) (*Vocabulary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read vocabulary file: %w", err)
	}

	vocab := &Vocabulary{}
	if err := json.Unmarshal(data, vocab); err != nil {
		return nil, fmt.Errorf("failed to parse vocabulary file: %w", err)
	}

	defaults := DefaultVocabulary()
	if len(vocab.GrowthLevels) == 0 {
		vocab.GrowthLevels = defaults.GrowthLevels
	}
	if len(vocab.PatternsByLevel) == 0 {
		vocab.PatternsByLevel = defaults.PatternsByLevel
	}
	if len(vocab.InterferenceFactors) == 0 {
		vocab.InterferenceFactors = defaults.InterferenceFactors
	}
	if len(vocab.MicrobeTypes) == 0 {
		vocab.MicrobeTypes = defaults.MicrobeTypes
	}
	return vocab, nil
}

// HasLevel reports whether level is a known growth level.
func (v *Vocabulary) HasLevel(level GrowthLevel) bool {
	for _, l := range v.GrowthLevels {
		if l == level {
			return true
		}
	}
	return false
}

// PatternsFor returns the growth patterns valid for the given level.
func (v *Vocabulary) PatternsFor(level GrowthLevel) []GrowthPattern {
	return v.PatternsByLevel[level]
}

// PatternAllowed reports whether pattern may be combined with level. The
// empty pattern is always allowed.
func (v *Vocabulary) PatternAllowed(level GrowthLevel, pattern GrowthPattern) bool {
	if pattern == "" {
		return true
	}
	for _, p := range v.PatternsByLevel[level] {
		if p == pattern {
			return true
		}
	}
	return false
}

// HasFactor reports whether factor is a known interference tag.
func (v *Vocabulary) HasFactor(factor InterferenceType) bool {
	for _, f := range v.InterferenceFactors {
		if f == factor {
			return true
		}
	}
	return false
}

// HasMicrobeType reports whether mt is a known microbe type.
func (v *Vocabulary) HasMicrobeType(mt MicrobeType) bool {
	for _, m := range v.MicrobeTypes {
		if m == mt {
			return true
		}
	}
	return false
}
