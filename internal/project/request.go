package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/piwi3910/RailCut/internal/model"
)

// LoadRequest reads a request document from a JSON file.
func LoadRequest(path string) (model.Request, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Request{}, fmt.Errorf("failed to read request: %w", err)
	}
	var req model.Request
	if err := json.Unmarshal(data, &req); err != nil {
		return model.Request{}, fmt.Errorf("failed to parse request %s: %w", path, err)
	}
	return req, nil
}

// SaveRequest writes a request document as indented JSON.
func SaveRequest(path string, req model.Request) error {
	return writeJSON(path, req)
}

// SavePlan writes a fabrication plan as indented JSON.
func SavePlan(path string, plan model.Plan) error {
	return writeJSON(path, plan)
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", filepath.Base(path), err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
