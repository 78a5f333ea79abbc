package storage

import (
	"github.com/hdcheng/wellannot/internal/annotation"
	"github.com/hdcheng/wellannot/internal/models"
)

// Settings holds persisted application preferences.
type Settings struct {
	DefaultMicrobeType string `json:"default_microbe_type"`
	StartHole          int    `json:"start_hole"`
	VocabularyPath     string `json:"vocabulary_path,omitempty"`
	LastPanoramicID    string `json:"last_panoramic_id,omitempty"`
	LastHole           int    `json:"last_hole,omitempty"`
}

// Provider persists annotation records and settings between sessions.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Settings
	GetSettings() (Settings, error)
	SaveSettings(Settings) error

	// Annotations
	SaveAnnotation(*models.WellAnnotation) error
	GetAnnotation(models.WellID) (*models.WellAnnotation, bool, error)
	GetAnnotations(panoramicID string) ([]*models.WellAnnotation, error)
	GetAllAnnotations() ([]*models.WellAnnotation, error)
	DeleteAnnotation(models.WellID) error

	// Utils
	GetConfigPath() string
}

// LoadStore fills an in-memory record store from the provider, preserving
// first-annotation order.
func LoadStore(p Provider) (*annotation.Store, error) {
	records, err := p.GetAllAnnotations()
	if err != nil {
		return nil, err
	}
	store := annotation.NewStore()
	for _, rec := range records {
		store.Upsert(rec)
	}
	return store, nil
}
