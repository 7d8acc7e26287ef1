package services

import (
	"encoding/json"
	"os"
	"path/filepath"

	"riverbird-standalone/internal/env"
	"riverbird-standalone/internal/logger"
	"riverbird-standalone/internal/models"
)

// stateExporter persists a launcher snapshot. nil disables exporting.
type stateExporter func(models.LauncherState)

/**
 * Write launcher state snapshot to the state file
 * @param {models.LauncherState} st - Snapshot to persist
 * @description
 * - Ensures the state directory exists
 * - Marshals the snapshot to indented JSON
 * - Writes to $HOME/.riverbird/state/standalone.json
 * - Failures are logged, never fatal; the snapshot is advisory
 */
func exportStateFile(st models.LauncherState) {
	stateFile := env.StateFile()
	if err := os.MkdirAll(filepath.Dir(stateFile), 0755); err != nil {
		logger.Errorf("State export failed, error: %v", err)
		return
	}

	jsonData, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		logger.Errorf("State export failed, error: %v", err)
		return
	}

	if err := os.WriteFile(stateFile, jsonData, 0644); err != nil {
		logger.Errorf("State export failed, error: %v", err)
		return
	}

	logger.Debugf("Launcher state exported to %s", stateFile)
}

// LoadExportedState reads the snapshot left behind by a launcher. Used by
// the units commands when the admin API is unreachable.
func LoadExportedState() (*models.LauncherState, error) {
	jsonData, err := os.ReadFile(env.StateFile())
	if err != nil {
		return nil, err
	}
	var st models.LauncherState
	if err := json.Unmarshal(jsonData, &st); err != nil {
		return nil, err
	}
	return &st, nil
}
