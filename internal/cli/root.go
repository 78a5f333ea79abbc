package cli

import (
	"fmt"

	"github.com/hdcheng/wellannot/internal/annotation"
	"github.com/hdcheng/wellannot/internal/layout"
	"github.com/hdcheng/wellannot/internal/models"
	"github.com/hdcheng/wellannot/internal/storage"
)

type Context struct {
	Store     storage.Provider
	VocabPath string

	vocab *models.Vocabulary
}

// Vocabulary resolves the active vocabulary: an explicit --vocab flag wins,
// then the path stored in settings, then the built-in defaults. The result
// is cached for the process lifetime.
func (c *Context) Vocabulary() (*models.Vocabulary, error) {
	if c.vocab != nil {
		return c.vocab, nil
	}

	path := c.VocabPath
	if path == "" {
		if settings, err := c.Store.GetSettings(); err == nil {
			path = settings.VocabularyPath
		}
	}

	if path == "" {
		c.vocab = models.DefaultVocabulary()
		return c.vocab, nil
	}

	vocab, err := models.LoadVocabulary(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load vocabulary from %s: %w", path, err)
	}
	c.vocab = vocab
	return c.vocab, nil
}

// OpenSession loads one panoramic image's records into memory and builds a
// session over them.
func (c *Context) OpenSession(panoramicID string, microbe models.MicrobeType, startHole int) (*annotation.Session, error) {
	vocab, err := c.Vocabulary()
	if err != nil {
		return nil, err
	}

	records, err := c.Store.GetAnnotations(panoramicID)
	if err != nil {
		return nil, fmt.Errorf("failed to load annotations for %s: %w", panoramicID, err)
	}
	store := annotation.NewStore()
	for _, rec := range records {
		store.Upsert(rec)
	}

	grid := layout.NewGrid(layout.DefaultParams())
	return annotation.NewSession(vocab, store, grid, panoramicID, microbe, startHole)
}

// ResolveMicrobe applies the settings default when no microbe type was given
// on the command line.
func (c *Context) ResolveMicrobe(flag string) models.MicrobeType {
	if flag != "" {
		return models.MicrobeType(flag)
	}
	if settings, err := c.Store.GetSettings(); err == nil && settings.DefaultMicrobeType != "" {
		return models.MicrobeType(settings.DefaultMicrobeType)
	}
	return models.MicrobeBacteria
}
