package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/hdcheng/wellannot/internal/constants"
	"github.com/hdcheng/wellannot/internal/models"
)

// seedFile is the reference-label config format: hole number to label, as
// produced by the plate protocol sheet.
type seedFile struct {
	Annotations map[string]seedEntry `json:"annotations"`
}

type seedEntry struct {
	GrowthLevel         string   `json:"growth_level"`
	InterferenceFactors []string `json:"interference_factors"`
	Confidence          *float64 `json:"confidence"`
}

type SeedCmd struct {
	Panoramic string `arg:"" help:"Panoramic image ID to seed."`
	Path      string `arg:"" help:"Reference label config JSON file."`
	Microbe   string `help:"Microbe type for the records." short:"m"`
}

func (c *SeedCmd) Run(ctx *Context) error {
	data, err := os.ReadFile(c.Path)
	if err != nil {
		return fmt.Errorf("failed to read seed file: %w", err)
	}
	var f seedFile
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("failed to parse seed file: %w", err)
	}
	if len(f.Annotations) == 0 {
		return fmt.Errorf("seed file contains no annotations")
	}

	session, err := ctx.OpenSession(c.Panoramic, ctx.ResolveMicrobe(c.Microbe), constants.DefaultStartHole)
	if err != nil {
		return err
	}

	// Apply in hole order so failures are reported deterministically
	keys := make([]string, 0, len(f.Annotations))
	for k := range f.Annotations {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	seeded := 0
	for _, k := range keys {
		hole, err := strconv.Atoi(k)
		if err != nil {
			return fmt.Errorf("invalid hole number %q in seed file", k)
		}
		entry := f.Annotations[k]
		confidence := constants.DefaultConfidence
		if entry.Confidence != nil {
			confidence = *entry.Confidence
		}
		well := models.WellID{PanoramicID: c.Panoramic, HoleNumber: hole}
		if err := session.ImportReference(well, entry.GrowthLevel, entry.InterferenceFactors, confidence); err != nil {
			return fmt.Errorf("hole %d: %w", hole, err)
		}
		rec, _ := session.Record(well)
		if err := ctx.Store.SaveAnnotation(rec); err != nil {
			return fmt.Errorf("failed to persist %s: %w", well, err)
		}
		seeded++
	}

	fmt.Printf("Seeded %d reference annotation(s) on %s\n", seeded, c.Panoramic)
	return nil
}
