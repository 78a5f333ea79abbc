package cli

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hdcheng/wellannot/internal/tui"
)

type AnnotateCmd struct {
	Panoramic string `arg:"" optional:"" help:"Panoramic image ID to annotate. Defaults to the last session's image."`
	Microbe   string `help:"Microbe type for this image (bacteria or fungi)." short:"m"`
	StartHole int    `help:"Hole number to start at." short:"s"`
}

func (c *AnnotateCmd) Run(ctx *Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	panoramicID := c.Panoramic
	startHole := c.StartHole
	if panoramicID == "" {
		if settings.LastPanoramicID == "" {
			return fmt.Errorf("no panoramic image given and no previous session to resume")
		}
		panoramicID = settings.LastPanoramicID
		if startHole == 0 {
			startHole = settings.LastHole
		}
	}
	if startHole == 0 {
		startHole = settings.StartHole
	}

	session, err := ctx.OpenSession(panoramicID, ctx.ResolveMicrobe(c.Microbe), startHole)
	if err != nil {
		return err
	}

	vocab, err := ctx.Vocabulary()
	if err != nil {
		return err
	}

	p := tea.NewProgram(tui.NewModel(ctx.Store, session, vocab), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("Alas, there's been an error: %v", err)
		os.Exit(1)
	}
	return nil
}
