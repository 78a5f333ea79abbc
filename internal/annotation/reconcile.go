package annotation

import (
	"time"

	"github.com/hdcheng/wellannot/internal/constants"
	"github.com/hdcheng/wellannot/internal/models"
)

// State is a well's position in the annotation lifecycle.
type State int

const (
	Unannotated State = iota
	BasicAnnotated
	EnhancedAnnotated
)

func (s State) String() string {
	switch s {
	case BasicAnnotated:
		return "basic"
	case EnhancedAnnotated:
		return "enhanced"
	default:
		return "unannotated"
	}
}

// StateOf returns the lifecycle state of a record. A nil record is an
// unannotated well.
func StateOf(rec *models.WellAnnotation) State {
	switch {
	case rec == nil:
		return Unannotated
	case rec.Enhanced != nil:
		return EnhancedAnnotated
	default:
		return BasicAnnotated
	}
}

// PanelInput is the raw state of the enhanced annotation panel at save time.
type PanelInput struct {
	Level      string
	Pattern    string
	Factors    []string
	Confidence float64
}

// PanelState is the fully rehydrated panel content for one well: every
// field an operator previously selected, plus provenance for display.
type PanelState struct {
	Level      string
	Pattern    string
	Factors    []string
	Confidence float64
	Source     models.AnnotationSource
	Timestamp  *string
	State      State
}

// Reconciler builds annotation records according to the provenance rules.
// The clock is injectable so timestamp policy is testable.
type Reconciler struct {
	vocab *models.Vocabulary
	now   func() time.Time
}

// NewReconciler creates a reconciler over the given vocabulary.
func NewReconciler(vocab *models.Vocabulary) *Reconciler {
	return &Reconciler{vocab: vocab, now: time.Now}
}

func (r *Reconciler) stamp() *string {
	ts := r.now().Format(constants.TimestampFormat)
	return &ts
}

// Basic builds a plain manual record from a single growth-level label:
// source manual, no timestamp, no enhanced payload.
func (r *Reconciler) Basic(well models.WellID, microbe models.MicrobeType, level string) (*models.WellAnnotation, error) {
	fc, err := models.NewFeatureCombination(r.vocab, level, "", nil, constants.DefaultConfidence)
	if err != nil {
		return nil, err
	}
	return &models.WellAnnotation{
		Well:        well,
		MicrobeType: microbe,
		Label:       fc.Level,
		Confidence:  fc.Confidence,
		Source:      models.SourceManual,
		Confirmed:   true,
	}, nil
}

// Enhanced builds a record from the enhanced panel. Any save through the
// enhanced surface carries source enhanced_manual and a fresh timestamp,
// even when the operator selected nothing beyond the growth level; records
// produced here are never tagged plain manual. The enhanced payload is the
// source of truth and the basic fields are derived from it.
func (r *Reconciler) Enhanced(well models.WellID, microbe models.MicrobeType, input PanelInput) (*models.WellAnnotation, error) {
	fc, err := models.NewFeatureCombination(r.vocab, input.Level, input.Pattern, input.Factors, input.Confidence)
	if err != nil {
		return nil, err
	}
	rec := &models.WellAnnotation{
		Well:        well,
		MicrobeType: microbe,
		Source:      models.SourceEnhancedManual,
		Timestamp:   r.stamp(),
		Confirmed:   true,
		Enhanced:    &fc,
	}
	rec.SyncFromEnhanced()
	return rec, nil
}

// Imported builds a record for config-imported reference data: source
// config_import, never a timestamp, never an enhanced payload, and never
// auto-promoted to the enhanced state.
func (r *Reconciler) Imported(well models.WellID, microbe models.MicrobeType, level string, factors []string, confidence float64) (*models.WellAnnotation, error) {
	fc, err := models.NewFeatureCombination(r.vocab, level, "", factors, confidence)
	if err != nil {
		return nil, err
	}
	return &models.WellAnnotation{
		Well:        well,
		MicrobeType: microbe,
		Label:       fc.Level,
		Factors:     fc.Factors,
		Confidence:  fc.Confidence,
		Source:      models.SourceConfigImport,
		Confirmed:   false,
	}, nil
}

// Batch builds one record per well from a single panel input, all tagged
// batch_operation and sharing one timestamp so the operation is traceable
// as a unit.
func (r *Reconciler) Batch(wells []models.WellID, microbe models.MicrobeType, input PanelInput) ([]*models.WellAnnotation, error) {
	fc, err := models.NewFeatureCombination(r.vocab, input.Level, input.Pattern, input.Factors, input.Confidence)
	if err != nil {
		return nil, err
	}
	ts := r.stamp()
	out := make([]*models.WellAnnotation, 0, len(wells))
	for _, well := range wells {
		enhanced := fc
		enhanced.Factors = append([]models.InterferenceType(nil), fc.Factors...)
		rec := &models.WellAnnotation{
			Well:        well,
			MicrobeType: microbe,
			Source:      models.SourceBatch,
			Timestamp:   ts,
			Confirmed:   true,
			Enhanced:    &enhanced,
		}
		rec.SyncFromEnhanced()
		out = append(out, rec)
	}
	return out, nil
}

// Rehydrate restores the full panel state for a record. Every enhanced field
// is surfaced, not just the growth level; a nil record yields an empty panel
// with default confidence.
func Rehydrate(rec *models.WellAnnotation) PanelState {
	if rec == nil {
		return PanelState{Confidence: constants.DefaultConfidence, State: Unannotated}
	}
	ps := PanelState{
		Level:      string(rec.Label),
		Pattern:    string(rec.Pattern),
		Confidence: rec.Confidence,
		Source:     rec.Source,
		Timestamp:  rec.Timestamp,
		State:      StateOf(rec),
	}
	for _, f := range rec.Factors {
		ps.Factors = append(ps.Factors, string(f))
	}
	return ps
}
