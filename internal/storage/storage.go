package storage

import (
	"time"

	"k6x/internal/config"
	"k6x/internal/domain"
)

// Storage persists and loads the last run (for `run --failed` and the faills viewer).
type Storage interface {
	Save(records []domain.RunRecord, duration time.Duration, cancelled bool) (*domain.RunReport, error)
	Load() (*domain.RunReport, error)
	// SaveReport writes the full report (e.g. after marking failures resolved).
	SaveReport(report *domain.RunReport) error
}

// JSONStorage stores results in a JSON file under the configured output path.
type JSONStorage struct {
	cfg *config.Config
}

// NewJSONStorage returns a Storage that reads/writes the config's output JSON path.
func NewJSONStorage(cfg *config.Config) *JSONStorage {
	return &JSONStorage{cfg: cfg}
}
