package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/hdcheng/wellannot/internal/constants"
	"github.com/hdcheng/wellannot/internal/migration"
	"github.com/hdcheng/wellannot/internal/models"
	"github.com/hdcheng/wellannot/migrations"
)

type SQLiteStore struct {
	path string
	db   *sql.DB
}

func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{
		path: path,
	}
}

func (s *SQLiteStore) Init() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db

	if err := s.runMigrations(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// Seed default settings on a fresh database
	settings, err := s.GetSettings()
	if err != nil || settings.DefaultMicrobeType == "" {
		defaults := Settings{
			DefaultMicrobeType: string(models.MicrobeBacteria),
			StartHole:          constants.DefaultStartHole,
		}
		if err := s.SaveSettings(defaults); err != nil {
			return fmt.Errorf("failed to save default settings: %w", err)
		}
	}

	return nil
}

func (s *SQLiteStore) Load() error {
	if s.db != nil {
		return nil
	}

	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return fmt.Errorf("storage not initialized, run 'wellannot init' first")
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db

	return s.validateSchemaVersion()
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLiteStore) migrationFS() (fs.FS, error) {
	return fs.Sub(migrations.FS, "sqlite")
}

func (s *SQLiteStore) runMigrations() error {
	subFS, err := s.migrationFS()
	if err != nil {
		return fmt.Errorf("failed to access sqlite migrations: %w", err)
	}
	runner := migration.NewRunner(s.db, subFS)
	_, err = runner.ApplyMigrations(nil)
	return err
}

func (s *SQLiteStore) validateSchemaVersion() error {
	subFS, err := s.migrationFS()
	if err != nil {
		return fmt.Errorf("failed to access sqlite migrations: %w", err)
	}
	runner := migration.NewRunner(s.db, subFS)
	return runner.ValidateVersion()
}

func (s *SQLiteStore) GetSettings() (Settings, error) {
	var raw string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = 'settings'`).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Settings{}, nil
		}
		return Settings{}, fmt.Errorf("failed to read settings: %w", err)
	}
	var settings Settings
	if err := json.Unmarshal([]byte(raw), &settings); err != nil {
		return Settings{}, fmt.Errorf("failed to parse settings: %w", err)
	}
	return settings, nil
}

func (s *SQLiteStore) SaveSettings(settings Settings) error {
	raw, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	_, err = s.db.Exec(`
		INSERT INTO settings (key, value) VALUES ('settings', ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`, string(raw))
	return err
}

func (s *SQLiteStore) SaveAnnotation(rec *models.WellAnnotation) error {
	if err := rec.CheckInvariants(); err != nil {
		return err
	}

	factors, enhanced, err := encodeRecord(rec)
	if err != nil {
		return err
	}

	var ts sql.NullString
	if rec.Timestamp != nil {
		ts = sql.NullString{String: *rec.Timestamp, Valid: true}
	}

	_, err = s.db.Exec(`
		INSERT INTO annotations (panoramic_id, hole_number, microbe_type, growth_level, growth_pattern,
		                         interference_factors, confidence, annotation_source, timestamp,
		                         is_confirmed, enhanced_data, seq)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?,
		        COALESCE((SELECT seq FROM annotations WHERE panoramic_id = ? AND hole_number = ?),
		                 (SELECT COALESCE(MAX(seq), 0) + 1 FROM annotations)))
		ON CONFLICT(panoramic_id, hole_number) DO UPDATE SET
			microbe_type = excluded.microbe_type,
			growth_level = excluded.growth_level,
			growth_pattern = excluded.growth_pattern,
			interference_factors = excluded.interference_factors,
			confidence = excluded.confidence,
			annotation_source = excluded.annotation_source,
			timestamp = excluded.timestamp,
			is_confirmed = excluded.is_confirmed,
			enhanced_data = excluded.enhanced_data`,
		rec.Well.PanoramicID, rec.Well.HoleNumber, string(rec.MicrobeType), string(rec.Label), string(rec.Pattern),
		factors, rec.Confidence, string(rec.Source), ts, rec.Confirmed, enhanced,
		rec.Well.PanoramicID, rec.Well.HoleNumber)
	if err != nil {
		return fmt.Errorf("failed to save annotation %s: %w", rec.Well, err)
	}
	return nil
}

const annotationColumns = `panoramic_id, hole_number, microbe_type, growth_level, growth_pattern,
       interference_factors, confidence, annotation_source, timestamp, is_confirmed, enhanced_data`

func (s *SQLiteStore) GetAnnotation(well models.WellID) (*models.WellAnnotation, bool, error) {
	row := s.db.QueryRow(`
		SELECT `+annotationColumns+`
		FROM annotations WHERE panoramic_id = ? AND hole_number = ?`,
		well.PanoramicID, well.HoleNumber)

	rec, err := scanAnnotation(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return rec, true, nil
}

func (s *SQLiteStore) GetAnnotations(panoramicID string) ([]*models.WellAnnotation, error) {
	rows, err := s.db.Query(`
		SELECT `+annotationColumns+`
		FROM annotations WHERE panoramic_id = ? ORDER BY seq`, panoramicID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAnnotations(rows)
}

func (s *SQLiteStore) GetAllAnnotations() ([]*models.WellAnnotation, error) {
	rows, err := s.db.Query(`
		SELECT ` + annotationColumns + `
		FROM annotations ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAnnotations(rows)
}

func (s *SQLiteStore) DeleteAnnotation(well models.WellID) error {
	_, err := s.db.Exec(`DELETE FROM annotations WHERE panoramic_id = ? AND hole_number = ?`,
		well.PanoramicID, well.HoleNumber)
	return err
}

func (s *SQLiteStore) GetConfigPath() string {
	return s.path
}

// GetDB returns the underlying database connection, or nil before Load.
func (s *SQLiteStore) GetDB() *sql.DB {
	return s.db
}
