package tui

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/huh"

	"github.com/hdcheng/wellannot/internal/annotation"
	"github.com/hdcheng/wellannot/internal/models"
)

// NewPanelFormModel pre-fills the form from a rehydrated panel so re-editing
// a well starts from everything the operator previously selected.
func NewPanelFormModel(ps annotation.PanelState) *PanelFormModel {
	return &PanelFormModel{
		Level:      ps.Level,
		Pattern:    ps.Pattern,
		Factors:    append([]string(nil), ps.Factors...),
		Confidence: strconv.FormatFloat(ps.Confidence, 'g', -1, 64),
	}
}

// NewPanelForm builds the enhanced annotation form from the active
// vocabulary. The pattern field validates against the level chosen in the
// same pass, so a pattern is refused for levels that admit none.
func NewPanelForm(vocab *models.Vocabulary, pf *PanelFormModel) *huh.Form {
	levelOpts := make([]huh.Option[string], 0, len(vocab.GrowthLevels))
	for _, lvl := range vocab.GrowthLevels {
		levelOpts = append(levelOpts, huh.NewOption(string(lvl), string(lvl)))
	}

	patternOpts := []huh.Option[string]{huh.NewOption("(none)", "")}
	seen := map[models.GrowthPattern]bool{}
	for _, lvl := range vocab.GrowthLevels {
		for _, p := range vocab.PatternsFor(lvl) {
			if !seen[p] {
				seen[p] = true
				patternOpts = append(patternOpts, huh.NewOption(string(p), string(p)))
			}
		}
	}

	factorOpts := make([]huh.Option[string], 0, len(vocab.InterferenceFactors))
	for _, f := range vocab.InterferenceFactors {
		factorOpts = append(factorOpts, huh.NewOption(string(f), string(f)))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Growth Level").
				Options(levelOpts...).
				Value(&pf.Level),
			huh.NewSelect[string]().
				Title("Growth Pattern").
				Options(patternOpts...).
				Value(&pf.Pattern).
				Validate(func(s string) error {
					if s == "" {
						return nil
					}
					if !vocab.PatternAllowed(models.GrowthLevel(pf.Level), models.GrowthPattern(s)) {
						return fmt.Errorf("pattern %q is not defined for level %q", s, pf.Level)
					}
					return nil
				}),
			huh.NewMultiSelect[string]().
				Title("Interference Factors").
				Options(factorOpts...).
				Value(&pf.Factors),
			huh.NewInput().
				Title("Confidence (0-1)").
				Value(&pf.Confidence).
				Validate(func(s string) error {
					v, err := strconv.ParseFloat(s, 64)
					if err != nil {
						return fmt.Errorf("must be a number")
					}
					if v < 0 || v > 1 {
						return fmt.Errorf("must be between 0 and 1")
					}
					return nil
				}),
		),
	)
}

// NewGoToForm prompts for a hole number within the plate.
func NewGoToForm(total int, gf *GoToFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Go to hole").
				Value(&gf.Hole).
				Validate(func(s string) error {
					n, err := strconv.Atoi(s)
					if err != nil {
						return fmt.Errorf("must be a number")
					}
					if n < 1 || n > total {
						return fmt.Errorf("hole must be between 1 and %d", total)
					}
					return nil
				}),
		),
	)
}

// Input converts the form content to the reconciler's panel input.
// Confidence has already passed field validation.
func (pf *PanelFormModel) Input() annotation.PanelInput {
	conf, err := strconv.ParseFloat(pf.Confidence, 64)
	if err != nil {
		conf = 1.0
	}
	return annotation.PanelInput{
		Level:      pf.Level,
		Pattern:    pf.Pattern,
		Factors:    append([]string(nil), pf.Factors...),
		Confidence: conf,
	}
}
