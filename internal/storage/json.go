package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"k6x/internal/domain"
)

// BuildReport summarises run records
func BuildReport(records []domain.RunRecord, duration time.Duration, cancelled bool) *domain.RunReport {
	meta := domain.RunMeta{
		RunID:           uuid.New().String(),
		TotalTests:      len(records),
		Duration:        duration.String(),
		DurationSeconds: duration.Seconds(),
		Cancelled:       cancelled,
		Timestamp:       time.Now().Format(time.RFC3339),
	}
	for _, r := range records {
		if !r.State.Terminal() {
			meta.NotRun++
			continue
		}
		if r.State == domain.StatePassed {
			meta.PassedTests++
		} else {
			meta.FailedTests++
		}
	}

	details := records
	if details == nil {
		details = []domain.RunRecord{}
	}
	return &domain.RunReport{Meta: meta, Details: details}
}

// Save writes run records to the configured JSON output file and returns the written report.
func (s *JSONStorage) Save(records []domain.RunRecord, duration time.Duration, cancelled bool) (*domain.RunReport, error) {
	report := BuildReport(records, duration, cancelled)
	if err := s.SaveReport(report); err != nil {
		return nil, err
	}
	return report, nil
}

// Load reads the last run from the configured JSON output file.
func (s *JSONStorage) Load() (*domain.RunReport, error) {
	path := s.cfg.GetOutputPath()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read results file: %w", err)
	}
	var report domain.RunReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("parse results: %w", err)
	}
	return &report, nil
}

// SaveReport writes the full report to the configured JSON file.
func (s *JSONStorage) SaveReport(report *domain.RunReport) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal results: %w", err)
	}
	path := s.cfg.GetOutputPath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write results: %w", err)
	}
	return nil
}
