// Package stats aggregates annotation records into the counts shown in the
// session footer and embedded in exports. Summaries are recomputed from the
// full record set on every call; there are no incremental counters to drift.
package stats

import (
	"fmt"
	"sort"
	"strings"

	"github.com/hdcheng/wellannot/internal/models"
)

// Summary holds the aggregate counts for one record set.
type Summary struct {
	Total          int                              `json:"total_annotations"`
	ByLabel        map[models.GrowthLevel]int       `json:"growth_levels"`
	BySource       map[models.AnnotationSource]int  `json:"annotation_sources"`
	ByInterference map[models.InterferenceType]int  `json:"interference_factors"`
	ByMicrobe      map[models.MicrobeType]int       `json:"microbe_types"`
	ByPanoramic    map[string]int                   `json:"panoramic_images"`
	Confirmed      int                              `json:"confirmed_count"`

	// Provenance buckets: every operator-produced record (manual,
	// enhanced_manual, batch_operation) versus imported reference data.
	ManualBucket int `json:"manual_count"`
	ImportBucket int `json:"config_import_count"`
}

// Compute aggregates the given records. Records are counted exactly once per
// category, so the label counts and the two provenance buckets each sum to
// Total.
func Compute(records []*models.WellAnnotation) Summary {
	s := Summary{
		ByLabel:        make(map[models.GrowthLevel]int),
		BySource:       make(map[models.AnnotationSource]int),
		ByInterference: make(map[models.InterferenceType]int),
		ByMicrobe:      make(map[models.MicrobeType]int),
		ByPanoramic:    make(map[string]int),
	}

	for _, r := range records {
		s.Total++
		s.ByLabel[r.Label]++
		s.BySource[r.Source]++
		s.ByMicrobe[r.MicrobeType]++
		s.ByPanoramic[r.Well.PanoramicID]++
		for _, f := range r.Factors {
			s.ByInterference[f]++
		}
		if r.Confirmed {
			s.Confirmed++
		}
		if r.Source.ManualBucket() {
			s.ManualBucket++
		} else {
			s.ImportBucket++
		}
	}

	return s
}

// StatusLine renders the one-line summary shown after every save.
func (s Summary) StatusLine() string {
	return fmt.Sprintf("%d annotated | neg %d / weak %d / pos %d | manual %d / imported %d",
		s.Total,
		s.ByLabel[models.GrowthNegative],
		s.ByLabel[models.GrowthWeak],
		s.ByLabel[models.GrowthPositive],
		s.ManualBucket,
		s.ImportBucket,
	)
}

// Report renders a multi-line human-readable report for the stats command.
func (s Summary) Report() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Total annotated wells: %d (%d confirmed)\n", s.Total, s.Confirmed)

	fmt.Fprintf(&b, "\nBy growth level:\n")
	for _, level := range sortedKeys(s.ByLabel) {
		fmt.Fprintf(&b, "  %-14s %d\n", level, s.ByLabel[level])
	}

	fmt.Fprintf(&b, "\nBy source:\n")
	for _, src := range sortedKeys(s.BySource) {
		fmt.Fprintf(&b, "  %-16s %d\n", src, s.BySource[src])
	}

	if len(s.ByInterference) > 0 {
		fmt.Fprintf(&b, "\nInterference factors:\n")
		for _, f := range sortedKeys(s.ByInterference) {
			fmt.Fprintf(&b, "  %-14s %d\n", f, s.ByInterference[f])
		}
	}

	fmt.Fprintf(&b, "\nBy panoramic image:\n")
	keys := make([]string, 0, len(s.ByPanoramic))
	for k := range s.ByPanoramic {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, "  %-14s %d\n", k, s.ByPanoramic[k])
	}

	return b.String()
}

func sortedKeys[K ~string, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
