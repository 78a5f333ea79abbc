package cli

import (
	"fmt"

	"github.com/hdcheng/wellannot/internal/validation"
)

type ValidateCmd struct {
	Panoramic string `help:"Validate only one panoramic image." short:"p"`
}

func (c *ValidateCmd) Run(ctx *Context) error {
	vocab, err := ctx.Vocabulary()
	if err != nil {
		return err
	}

	store, err := loadRecords(ctx.Store, c.Panoramic)
	if err != nil {
		return err
	}

	validator := validation.New(vocab)
	result := validator.ValidateRecords(store.All())
	if !result.HasConflicts() {
		fmt.Println("✓ No conflicts found")
		return nil
	}

	fmt.Println(result.FormatReport())
	return fmt.Errorf("%d conflict(s) found", len(result.Conflicts))
}
