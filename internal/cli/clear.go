package cli

import (
	"fmt"

	"github.com/hdcheng/wellannot/internal/models"
)

type ClearCmd struct {
	Panoramic string `arg:"" help:"Panoramic image ID."`
	Hole      int    `arg:"" optional:"" help:"Hole number to clear. Omit with --all to clear the whole image."`
	All       bool   `help:"Clear every annotation on the image."`
}

func (c *ClearCmd) Run(ctx *Context) error {
	if c.All {
		records, err := ctx.Store.GetAnnotations(c.Panoramic)
		if err != nil {
			return err
		}
		for _, rec := range records {
			if err := ctx.Store.DeleteAnnotation(rec.Well); err != nil {
				return fmt.Errorf("failed to clear %s: %w", rec.Well, err)
			}
		}
		fmt.Printf("Cleared %d annotation(s) on %s\n", len(records), c.Panoramic)
		return nil
	}

	if c.Hole == 0 {
		return fmt.Errorf("a hole number or --all is required")
	}

	well := models.WellID{PanoramicID: c.Panoramic, HoleNumber: c.Hole}
	if _, ok, err := ctx.Store.GetAnnotation(well); err != nil {
		return err
	} else if !ok {
		fmt.Printf("%s is not annotated\n", well)
		return nil
	}

	if err := ctx.Store.DeleteAnnotation(well); err != nil {
		return err
	}
	fmt.Printf("Cleared %s\n", well)
	return nil
}
