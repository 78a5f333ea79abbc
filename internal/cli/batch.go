package cli

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/hdcheng/wellannot/internal/annotation"
	"github.com/hdcheng/wellannot/internal/constants"
	"github.com/hdcheng/wellannot/internal/models"
)

type BatchCmd struct {
	Panoramic  string   `arg:"" help:"Panoramic image ID."`
	From       int      `arg:"" help:"First hole of the range (inclusive)."`
	To         int      `arg:"" help:"Last hole of the range (inclusive)."`
	Level      string   `help:"Growth level to apply." required:""`
	Pattern    string   `help:"Growth pattern to apply."`
	Factors    []string `help:"Interference factors to apply."`
	Confidence float64  `help:"Confidence for the applied annotations." default:"1.0"`
	Microbe    string   `help:"Microbe type for the records." short:"m"`
}

func (c *BatchCmd) Run(ctx *Context) error {
	session, err := ctx.OpenSession(c.Panoramic, ctx.ResolveMicrobe(c.Microbe), constants.DefaultStartHole)
	if err != nil {
		return err
	}

	batchID := uuid.New().String()
	input := annotation.PanelInput{
		Level:      c.Level,
		Pattern:    c.Pattern,
		Factors:    c.Factors,
		Confidence: c.Confidence,
	}
	count, err := session.ApplyBatch(batchID, c.From, c.To, input)
	if err != nil {
		return err
	}

	// Persist the whole batch
	for h := c.From; h <= c.To; h++ {
		well := models.WellID{PanoramicID: c.Panoramic, HoleNumber: h}
		if rec, ok := session.Record(well); ok {
			if err := ctx.Store.SaveAnnotation(rec); err != nil {
				return fmt.Errorf("failed to persist %s: %w", well, err)
			}
		}
	}

	fmt.Printf("Annotated %d hole(s) on %s (batch %s)\n", count, c.Panoramic, batchID)
	return nil
}
