package models

import (
	"fmt"
)

// AnnotationSource records how an annotation was produced. Sources are not
// interchangeable: the manual paths are distinguishable from imported
// reference data in statistics and on redisplay.
type AnnotationSource string

const (
	SourceConfigImport   AnnotationSource = "config_import"
	SourceManual         AnnotationSource = "manual"
	SourceEnhancedManual AnnotationSource = "enhanced_manual"
	SourceBatch          AnnotationSource = "batch_operation"
)

// Valid reports whether s is one of the four known provenance tags.
func (s AnnotationSource) Valid() bool {
	switch s {
	case SourceConfigImport, SourceManual, SourceEnhancedManual, SourceBatch:
		return true
	}
	return false
}

// Stamped reports whether records with this source carry a timestamp.
// Imported records never do; enhanced and batch edits always do.
func (s AnnotationSource) Stamped() bool {
	return s == SourceEnhancedManual || s == SourceBatch
}

// ManualBucket reports whether this source counts toward the enhanced
// (operator-produced) statistics bucket, as opposed to config_import.
func (s AnnotationSource) ManualBucket() bool {
	return s == SourceManual || s == SourceEnhancedManual || s == SourceBatch
}

// WellID identifies one annotation target: a numbered well on a panoramic
// plate image.
type WellID struct {
	PanoramicID string
	HoleNumber  int
}

func (w WellID) String() string {
	return fmt.Sprintf("%s_%d", w.PanoramicID, w.HoleNumber)
}

// WellAnnotation is the per-well annotation record. The basic fields (Label,
// Pattern, Factors, Confidence) always reflect the current classification;
// when Enhanced is set it is the single source of truth and the basic fields
// are derived from it, never the reverse.
type WellAnnotation struct {
	Well        WellID
	MicrobeType MicrobeType
	Label       GrowthLevel
	Pattern     GrowthPattern
	Factors     []InterferenceType
	Confidence  float64
	Source      AnnotationSource
	Timestamp   *string // RFC3339; set iff Source.Stamped()
	Confirmed   bool
	Enhanced    *FeatureCombination
}

// SyncFromEnhanced derives the basic fields from the enhanced payload.
// No-op when the record has no enhanced data.
func (a *WellAnnotation) SyncFromEnhanced() {
	if a.Enhanced == nil {
		return
	}
	a.Label = a.Enhanced.Level
	a.Pattern = a.Enhanced.Pattern
	a.Factors = append([]InterferenceType(nil), a.Enhanced.Factors...)
	a.Confidence = a.Enhanced.Confidence
}

// CheckInvariants verifies provenance/timestamp coupling and basic/enhanced
// consistency. Storage backends call this before persisting.
func (a *WellAnnotation) CheckInvariants() error {
	if !a.Source.Valid() {
		return &ValidationError{Field: "annotation_source", Value: string(a.Source), Reason: "not a known annotation source"}
	}
	if a.Source.Stamped() && a.Timestamp == nil {
		return &ValidationError{Field: "timestamp", Reason: string(a.Source) + " records must carry a timestamp"}
	}
	if !a.Source.Stamped() && a.Timestamp != nil {
		return &ValidationError{Field: "timestamp", Reason: string(a.Source) + " records must not carry a timestamp"}
	}
	if a.Enhanced != nil {
		if a.Label != a.Enhanced.Level {
			return &ValidationError{Field: "label", Value: string(a.Label), Reason: "diverges from enhanced growth level " + string(a.Enhanced.Level)}
		}
		if a.Pattern != a.Enhanced.Pattern {
			return &ValidationError{Field: "growth_pattern", Value: string(a.Pattern), Reason: "diverges from enhanced growth pattern " + string(a.Enhanced.Pattern)}
		}
	}
	return nil
}

// AnnotationWire is the export form of a WellAnnotation: one object per well
// with plain string/number/list values only. Field layout follows the
// established annotation-set file format.
type AnnotationWire struct {
	ImageID     string       `json:"image_id"`
	ImagePath   string       `json:"image_path"`
	PanoramicID string       `json:"panoramic_id"`
	HoleNumber  int          `json:"hole_number"`
	Features    FeatureWire  `json:"features"`
	Metadata    MetadataWire `json:"annotation_metadata"`
	Enhanced    *FeatureWire `json:"enhanced_data,omitempty"`
}

// MetadataWire carries provenance. Timestamp is omitted entirely for
// config_import records.
type MetadataWire struct {
	AnnotationSource string  `json:"annotation_source"`
	IsConfirmed      bool    `json:"is_confirmed"`
	MicrobeType      string  `json:"microbe_type"`
	Timestamp        *string `json:"timestamp,omitempty"`
}

// ToWire converts the record for export.
func (a *WellAnnotation) ToWire() AnnotationWire {
	factors := make([]string, len(a.Factors))
	for i, f := range a.Factors {
		factors[i] = string(f)
	}
	conf := a.Confidence
	w := AnnotationWire{
		ImageID:     a.Well.String(),
		ImagePath:   fmt.Sprintf("%s/hole_%d.png", a.Well.PanoramicID, a.Well.HoleNumber),
		PanoramicID: a.Well.PanoramicID,
		HoleNumber:  a.Well.HoleNumber,
		Features: FeatureWire{
			GrowthLevel:         string(a.Label),
			GrowthPattern:       string(a.Pattern),
			InterferenceFactors: factors,
			Confidence:          &conf,
		},
		Metadata: MetadataWire{
			AnnotationSource: string(a.Source),
			IsConfirmed:      a.Confirmed,
			MicrobeType:      string(a.MicrobeType),
			Timestamp:        a.Timestamp,
		},
	}
	if a.Enhanced != nil {
		ew := a.Enhanced.ToWire()
		w.Enhanced = &ew
	}
	return w
}

// AnnotationFromWire is the exact inverse of ToWire. Malformed records fail
// with FormatError so importers can skip them and continue the batch.
func AnnotationFromWire(w AnnotationWire, vocab *Vocabulary) (*WellAnnotation, error) {
	if w.PanoramicID == "" {
		return nil, &FormatError{Key: "panoramic_id", Reason: "required key missing"}
	}
	if w.HoleNumber == 0 {
		return nil, &FormatError{Key: "hole_number", Reason: "required key missing"}
	}

	src := AnnotationSource(w.Metadata.AnnotationSource)
	if w.Metadata.AnnotationSource == "" {
		return nil, &FormatError{Key: "annotation_metadata.annotation_source", Reason: "required key missing"}
	}
	if !src.Valid() {
		return nil, &FormatError{Key: "annotation_metadata.annotation_source", Value: w.Metadata.AnnotationSource, Reason: "not a known annotation source"}
	}
	if src.Stamped() && w.Metadata.Timestamp == nil {
		return nil, &FormatError{Key: "annotation_metadata.timestamp", Reason: string(src) + " records must carry a timestamp"}
	}
	if !src.Stamped() && w.Metadata.Timestamp != nil {
		return nil, &FormatError{Key: "annotation_metadata.timestamp", Reason: string(src) + " records must not carry a timestamp"}
	}

	mt := MicrobeType(w.Metadata.MicrobeType)
	if mt == "" {
		mt = MicrobeBacteria
	} else if !vocab.HasMicrobeType(mt) {
		return nil, &FormatError{Key: "annotation_metadata.microbe_type", Value: w.Metadata.MicrobeType, Reason: "not a known microbe type"}
	}

	features, err := FeatureFromWire(w.Features, vocab)
	if err != nil {
		return nil, err
	}

	a := &WellAnnotation{
		Well:        WellID{PanoramicID: w.PanoramicID, HoleNumber: w.HoleNumber},
		MicrobeType: mt,
		Label:       features.Level,
		Pattern:     features.Pattern,
		Factors:     features.Factors,
		Confidence:  features.Confidence,
		Source:      src,
		Timestamp:   w.Metadata.Timestamp,
		Confirmed:   w.Metadata.IsConfirmed,
	}

	if w.Enhanced != nil {
		enhanced, err := FeatureFromWire(*w.Enhanced, vocab)
		if err != nil {
			return nil, err
		}
		a.Enhanced = &enhanced
		a.SyncFromEnhanced()
	}

	return a, nil
}

// Clone returns a deep copy of the record.
func (a *WellAnnotation) Clone() *WellAnnotation {
	c := *a
	c.Factors = append([]InterferenceType(nil), a.Factors...)
	if a.Timestamp != nil {
		ts := *a.Timestamp
		c.Timestamp = &ts
	}
	if a.Enhanced != nil {
		e := *a.Enhanced
		e.Factors = append([]InterferenceType(nil), a.Enhanced.Factors...)
		c.Enhanced = &e
	}
	return &c
}
