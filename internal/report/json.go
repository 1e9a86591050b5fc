package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"BanditLab/internal/model"
)

// SaveJSON writes experiment reports to filePath, creating parent directories.
func SaveJSON(filePath string, reports []*model.ExperimentReport) error {
	if dir := filepath.Dir(filePath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create report dir: %w", err)
		}
	}
	data, err := json.MarshalIndent(reports, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal reports: %w", err)
	}
	return os.WriteFile(filePath, data, 0644)
}

// LoadJSON reads reports written by SaveJSON.
func LoadJSON(filePath string) ([]*model.ExperimentReport, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	var reports []*model.ExperimentReport
	if err := json.Unmarshal(data, &reports); err != nil {
		return nil, fmt.Errorf("parse reports: %w", err)
	}
	return reports, nil
}
