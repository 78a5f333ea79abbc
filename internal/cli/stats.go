package cli

import (
	"fmt"

	"github.com/hdcheng/wellannot/internal/dataset"
	"github.com/hdcheng/wellannot/internal/stats"
)

type StatsCmd struct {
	Panoramic string `help:"Limit statistics to one panoramic image." short:"p"`
	Training  bool   `help:"Show the training data summary by category."`
	Microbe   string `help:"Microbe type for the training summary." short:"m"`
}

func (c *StatsCmd) Run(ctx *Context) error {
	store, err := loadRecords(ctx.Store, c.Panoramic)
	if err != nil {
		return err
	}
	records := store.All()

	summary := stats.Compute(records)
	fmt.Println(summary.Report())

	if c.Training {
		ts := dataset.SummarizeForTraining(records, ctx.ResolveMicrobe(c.Microbe))
		fmt.Println()
		fmt.Println(ts.Report())
	}
	return nil
}
