package validation

import (
	"fmt"

	"github.com/hdcheng/wellannot/internal/constants"
	"github.com/hdcheng/wellannot/internal/models"
)

// ConflictType represents the type of validation conflict
type ConflictType string

const (
	ConflictHoleOutOfRange      ConflictType = "hole_out_of_range"
	ConflictUnknownSource       ConflictType = "unknown_source"
	ConflictTimestampProvenance ConflictType = "timestamp_provenance"
	ConflictEnhancedDrift       ConflictType = "enhanced_drift"
	ConflictPatternNotAllowed   ConflictType = "pattern_not_allowed"
	ConflictUnknownVocabulary   ConflictType = "unknown_vocabulary"
	ConflictConfidenceRange     ConflictType = "confidence_range"
	ConflictDuplicateWell       ConflictType = "duplicate_well"
)

// Conflict represents one detected inconsistency in a record set
type Conflict struct {
	Type        ConflictType
	Description string
	Well        models.WellID
}

// Result contains all detected conflicts
type Result struct {
	Conflicts []Conflict
}

// HasConflicts returns true if there are any conflicts
func (r *Result) HasConflicts() bool {
	return len(r.Conflicts) > 0
}

// FormatReport returns a human-readable report of all conflicts
func (r *Result) FormatReport() string {
	if !r.HasConflicts() {
		return "No conflicts detected."
	}
	report := fmt.Sprintf("%d conflict(s) detected:\n", len(r.Conflicts))
	for _, c := range r.Conflicts {
		report += fmt.Sprintf("- %s\n", c.Description)
	}
	return report
}

// Validator checks annotation record sets for internal inconsistencies:
// provenance/timestamp coupling, basic/enhanced drift, vocabulary
// membership and duplicate wells. Used by the validate command and before
// export.
type Validator struct {
	vocab *models.Vocabulary
}

// New creates a new Validator
func New(vocab *models.Vocabulary) *Validator {
	return &Validator{vocab: vocab}
}

// ValidateRecords checks records for conflicts.
func (v *Validator) ValidateRecords(records []*models.WellAnnotation) Result {
	result := Result{Conflicts: []Conflict{}}

	seen := make(map[models.WellID]bool)
	for _, rec := range records {
		if seen[rec.Well] {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictDuplicateWell,
				Description: fmt.Sprintf("%s: well appears more than once", rec.Well),
				Well:        rec.Well,
			})
		}
		seen[rec.Well] = true

		if rec.Well.HoleNumber < constants.FirstHole || rec.Well.HoleNumber > constants.LastHole {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictHoleOutOfRange,
				Description: fmt.Sprintf("%s: hole number %d outside [%d,%d]", rec.Well, rec.Well.HoleNumber, constants.FirstHole, constants.LastHole),
				Well:        rec.Well,
			})
		}

		if !rec.Source.Valid() {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictUnknownSource,
				Description: fmt.Sprintf("%s: unknown annotation source %q", rec.Well, rec.Source),
				Well:        rec.Well,
			})
		} else if rec.Source.Stamped() && rec.Timestamp == nil {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictTimestampProvenance,
				Description: fmt.Sprintf("%s: %s record has no timestamp", rec.Well, rec.Source),
				Well:        rec.Well,
			})
		} else if !rec.Source.Stamped() && rec.Timestamp != nil {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictTimestampProvenance,
				Description: fmt.Sprintf("%s: %s record must not have a timestamp", rec.Well, rec.Source),
				Well:        rec.Well,
			})
		}

		v.checkVocabulary(&result, rec)

		if rec.Enhanced != nil {
			if rec.Label != rec.Enhanced.Level || rec.Pattern != rec.Enhanced.Pattern {
				result.Conflicts = append(result.Conflicts, Conflict{
					Type: ConflictEnhancedDrift,
					Description: fmt.Sprintf("%s: basic fields (%s/%s) diverge from enhanced data (%s/%s)",
						rec.Well, rec.Label, rec.Pattern, rec.Enhanced.Level, rec.Enhanced.Pattern),
					Well: rec.Well,
				})
			}
		}
	}

	return result
}

func (v *Validator) checkVocabulary(result *Result, rec *models.WellAnnotation) {
	if !v.vocab.HasLevel(rec.Label) {
		result.Conflicts = append(result.Conflicts, Conflict{
			Type:        ConflictUnknownVocabulary,
			Description: fmt.Sprintf("%s: unknown growth level %q", rec.Well, rec.Label),
			Well:        rec.Well,
		})
		return
	}
	if rec.Pattern != "" && !v.vocab.PatternAllowed(rec.Label, rec.Pattern) {
		result.Conflicts = append(result.Conflicts, Conflict{
			Type:        ConflictPatternNotAllowed,
			Description: fmt.Sprintf("%s: growth pattern %q is not valid for level %q", rec.Well, rec.Pattern, rec.Label),
			Well:        rec.Well,
		})
	}
	for _, f := range rec.Factors {
		if !v.vocab.HasFactor(f) {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictUnknownVocabulary,
				Description: fmt.Sprintf("%s: unknown interference factor %q", rec.Well, f),
				Well:        rec.Well,
			})
		}
	}
	if rec.Confidence < 0 || rec.Confidence > 1 {
		result.Conflicts = append(result.Conflicts, Conflict{
			Type:        ConflictConfidenceRange,
			Description: fmt.Sprintf("%s: confidence %.2f outside [0,1]", rec.Well, rec.Confidence),
			Well:        rec.Well,
		})
	}
}
