package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/hdcheng/wellannot/internal/models"
)

// encodeRecord serializes the list- and struct-valued fields of a record for
// a relational row. Only string values ever reach the stored form.
func encodeRecord(rec *models.WellAnnotation) (factors string, enhanced sql.NullString, err error) {
	names := make([]string, len(rec.Factors))
	for i, f := range rec.Factors {
		names[i] = string(f)
	}
	raw, err := json.Marshal(names)
	if err != nil {
		return "", sql.NullString{}, fmt.Errorf("failed to encode interference factors: %w", err)
	}
	factors = string(raw)

	if rec.Enhanced != nil {
		w := rec.Enhanced.ToWire()
		rawEnhanced, err := json.Marshal(w)
		if err != nil {
			return "", sql.NullString{}, fmt.Errorf("failed to encode enhanced data: %w", err)
		}
		enhanced = sql.NullString{String: string(rawEnhanced), Valid: true}
	}
	return factors, enhanced, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanAnnotation decodes one annotation row. Vocabulary membership is not
// re-checked here; the validate command reports records that have drifted
// from the active vocabulary.
func scanAnnotation(row rowScanner) (*models.WellAnnotation, error) {
	var (
		rec        models.WellAnnotation
		microbe    string
		level      string
		pattern    string
		factorsRaw string
		source     string
		ts         sql.NullString
		enhanced   sql.NullString
	)

	err := row.Scan(&rec.Well.PanoramicID, &rec.Well.HoleNumber, &microbe, &level, &pattern,
		&factorsRaw, &rec.Confidence, &source, &ts, &rec.Confirmed, &enhanced)
	if err != nil {
		return nil, err
	}

	rec.MicrobeType = models.MicrobeType(microbe)
	rec.Label = models.GrowthLevel(level)
	rec.Pattern = models.GrowthPattern(pattern)
	rec.Source = models.AnnotationSource(source)
	if ts.Valid {
		rec.Timestamp = &ts.String
	}

	var names []string
	if err := json.Unmarshal([]byte(factorsRaw), &names); err != nil {
		return nil, fmt.Errorf("failed to decode interference factors for %s: %w", rec.Well, err)
	}
	for _, n := range names {
		rec.Factors = append(rec.Factors, models.InterferenceType(n))
	}

	if enhanced.Valid {
		var w models.FeatureWire
		if err := json.Unmarshal([]byte(enhanced.String), &w); err != nil {
			return nil, fmt.Errorf("failed to decode enhanced data for %s: %w", rec.Well, err)
		}
		fc := featureFromWireRaw(w)
		rec.Enhanced = &fc
	}

	return &rec, nil
}

func scanAnnotations(rows *sql.Rows) ([]*models.WellAnnotation, error) {
	var out []*models.WellAnnotation
	for rows.Next() {
		rec, err := scanAnnotation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// featureFromWireRaw converts a stored feature payload structurally, without
// vocabulary checks.
func featureFromWireRaw(w models.FeatureWire) models.FeatureCombination {
	fc := models.FeatureCombination{
		Level:   models.GrowthLevel(w.GrowthLevel),
		Pattern: models.GrowthPattern(w.GrowthPattern),
	}
	if w.Confidence != nil {
		fc.Confidence = *w.Confidence
	}
	for _, f := range w.InterferenceFactors {
		fc.Factors = append(fc.Factors, models.InterferenceType(f))
	}
	sort.Slice(fc.Factors, func(i, j int) bool { return fc.Factors[i] < fc.Factors[j] })
	return fc
}
