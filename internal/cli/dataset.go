package cli

import (
	"fmt"

	"github.com/hdcheng/wellannot/internal/annotation"
	"github.com/hdcheng/wellannot/internal/dataset"
	"github.com/hdcheng/wellannot/internal/storage"
)

type ImportCmd struct {
	Path string `arg:"" help:"Dataset JSON file to import."`
}

func (c *ImportCmd) Run(ctx *Context) error {
	vocab, err := ctx.Vocabulary()
	if err != nil {
		return err
	}

	store := annotation.NewStore()
	result, err := dataset.Import(c.Path, store, vocab)
	if err != nil {
		return err
	}

	// Persist every record that survived decoding
	saved := 0
	for _, rec := range store.All() {
		if err := ctx.Store.SaveAnnotation(rec); err != nil {
			return fmt.Errorf("failed to persist annotation %s: %w", rec.Well, err)
		}
		saved++
	}

	fmt.Printf("Imported %d annotation(s) from %s\n", saved, c.Path)
	if len(result.Skipped) > 0 {
		fmt.Printf("Skipped %d malformed record(s):\n", len(result.Skipped))
		for _, sk := range result.Skipped {
			fmt.Printf("  record %d: %v\n", sk.Index, sk.Err)
		}
	}
	return nil
}

type ExportCmd struct {
	Path          string `arg:"" help:"Destination JSON file."`
	Name          string `help:"Dataset name." default:"wellannot export"`
	Panoramic     string `help:"Export only one panoramic image." short:"p"`
	ConfirmedOnly bool   `help:"Export only confirmed annotations."`
}

func (c *ExportCmd) Run(ctx *Context) error {
	store, err := loadRecords(ctx.Store, c.Panoramic)
	if err != nil {
		return err
	}

	file, err := dataset.Export(c.Path, c.Name, store, c.ConfirmedOnly)
	if err != nil {
		return err
	}

	fmt.Printf("Exported %d annotation(s) to %s\n", file.SavedAnnotations, c.Path)
	return nil
}

// loadRecords fills an in-memory store from persistence, optionally scoped
// to one panoramic image.
func loadRecords(p storage.Provider, panoramicID string) (*annotation.Store, error) {
	store := annotation.NewStore()
	if panoramicID != "" {
		recs, err := p.GetAnnotations(panoramicID)
		if err != nil {
			return nil, err
		}
		for _, rec := range recs {
			store.Upsert(rec)
		}
		return store, nil
	}
	recs, err := p.GetAllAnnotations()
	if err != nil {
		return nil, err
	}
	for _, rec := range recs {
		store.Upsert(rec)
	}
	return store, nil
}
