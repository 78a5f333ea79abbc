// Package dataset reads and writes annotation-set files: the JSON exchange
// format used to move annotations between sessions, instruments and the
// training pipeline.
package dataset

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hdcheng/wellannot/internal/annotation"
	"github.com/hdcheng/wellannot/internal/logger"
	"github.com/hdcheng/wellannot/internal/models"
	"github.com/hdcheng/wellannot/internal/stats"
)

// File is the on-disk layout of an annotation set.
type File struct {
	ID               string                  `json:"id"`
	Name             string                  `json:"name"`
	Description      string                  `json:"description,omitempty"`
	CreatedAt        string                  `json:"created_at"`
	SaveMode         string                  `json:"save_mode"`
	TotalAnnotations int                     `json:"total_annotations"`
	SavedAnnotations int                     `json:"saved_annotations"`
	Annotations      []models.AnnotationWire `json:"annotations"`
	Statistics       stats.Summary           `json:"statistics"`
}

// Skipped describes one record rejected during import.
type Skipped struct {
	Index int
	Err   error
}

// ImportResult reports what an import actually loaded. A malformed record is
// skipped and reported here; it never aborts the rest of the batch.
type ImportResult struct {
	Loaded  int
	Skipped []Skipped
}

// Export writes the store's records to path. With confirmedOnly set, only
// confirmed records are written. Statistics are recomputed over exactly the
// records being written.
func Export(path, name string, store *annotation.Store, confirmedOnly bool) (*File, error) {
	all := store.All()
	var out []*models.WellAnnotation
	for _, rec := range all {
		if confirmedOnly && !rec.Confirmed {
			continue
		}
		out = append(out, rec)
	}

	mode := "all"
	if confirmedOnly {
		mode = "confirmed_only"
	}

	f := &File{
		ID:               uuid.New().String(),
		Name:             name,
		CreatedAt:        time.Now().Format(time.RFC3339),
		SaveMode:         mode,
		TotalAnnotations: len(all),
		SavedAnnotations: len(out),
		Annotations:      make([]models.AnnotationWire, 0, len(out)),
		Statistics:       stats.Compute(out),
	}
	for _, rec := range out {
		f.Annotations = append(f.Annotations, rec.ToWire())
	}

	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode annotation set: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return nil, fmt.Errorf("failed to write annotation set: %w", err)
	}
	return f, nil
}

// Import reads an annotation-set file into the store. Each record is decoded
// independently; a FormatError skips that record, logs it and continues.
func Import(path string, store *annotation.Store, vocab *models.Vocabulary) (*ImportResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read annotation set: %w", err)
	}

	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse annotation set: %w", err)
	}

	result := &ImportResult{}
	for i, w := range f.Annotations {
		rec, err := models.AnnotationFromWire(w, vocab)
		if err != nil {
			result.Skipped = append(result.Skipped, Skipped{Index: i, Err: err})
			logger.Warn("Skipping malformed annotation record", "index", i, "error", err)
			continue
		}
		store.Upsert(rec)
		result.Loaded++
	}
	return result, nil
}

// TrainingSummary counts exported records per training category
// (growth_level/subtype), mirroring the directory layout of the training
// data tree.
type TrainingSummary struct {
	MicrobeType   string         `json:"microbe_type"`
	TotalExported int            `json:"total_exported"`
	ByCategory    map[string]int `json:"by_category"`
}

// Report renders the summary as a category-per-line listing.
func (t TrainingSummary) Report() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Training data (%s): %d record(s)\n", t.MicrobeType, t.TotalExported)
	categories := make([]string, 0, len(t.ByCategory))
	for c := range t.ByCategory {
		categories = append(categories, c)
	}
	sort.Strings(categories)
	for _, c := range categories {
		fmt.Fprintf(&b, "  %-32s %d\n", c, t.ByCategory[c])
	}
	return strings.TrimRight(b.String(), "\n")
}

// SummarizeForTraining buckets records of one microbe type into the training
// category tree. Subtype precedence follows the established convention:
// pores before artifacts, otherwise clean.
func SummarizeForTraining(records []*models.WellAnnotation, microbe models.MicrobeType) TrainingSummary {
	summary := TrainingSummary{
		MicrobeType: string(microbe),
		ByCategory:  make(map[string]int),
	}
	for _, rec := range records {
		if rec.MicrobeType != microbe {
			continue
		}
		subtype := "clean"
		for _, f := range rec.Factors {
			if f == models.InterferencePores {
				subtype = "with_pores"
				break
			}
			if f == models.InterferenceArtifacts {
				subtype = "with_artifacts"
			}
		}
		category := fmt.Sprintf("%s/%s", rec.Label, subtype)
		summary.ByCategory[category]++
		summary.TotalExported++
	}
	return summary
}
