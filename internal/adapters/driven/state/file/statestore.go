// Package file persists the pipeline state as a single JSON snapshot
// on disk. Absence of the file is equivalent to "no prior progress".
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jamesvillarrubia/beckwithbarrow-mediasync/internal/core/domain"
	"github.com/jamesvillarrubia/beckwithbarrow-mediasync/internal/core/ports/driven"
)

// StateFileName is the fixed snapshot filename within the data dir.
const StateFileName = "sync-state.json"

// Ensure StateStore implements the interface.
var _ driven.StateStore = (*StateStore)(nil)

// StateStore reads and writes the snapshot file.
type StateStore struct {
	path string
}

// NewStateStore creates a store under dataDir. If dataDir is empty,
// defaults to ~/.mediasync/data.
func NewStateStore(dataDir string) (*StateStore, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".mediasync", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	return &StateStore{path: filepath.Join(dataDir, StateFileName)}, nil
}

// Path returns the snapshot file path.
func (s *StateStore) Path() string {
	return s.path
}

// Load returns the last saved state, or an empty state when the file
// does not exist.
func (s *StateStore) Load(_ context.Context) (*domain.PipelineState, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return domain.NewPipelineState(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read state: %w", err)
	}

	var state domain.PipelineState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("decode state: %w", err)
	}
	if state.FolderMapping == nil {
		state.FolderMapping = make(domain.FolderMapping)
	}
	return &state, nil
}

// Save writes the full snapshot atomically: the state is written to a
// temp file in the same directory and renamed over the old snapshot,
// so a crash mid-save never corrupts prior progress.
func (s *StateStore) Save(_ context.Context, state *domain.PipelineState) error {
	state.UpdatedAt = time.Now().UTC()

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), StateFileName+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp state: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp state: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace state: %w", err)
	}
	return nil
}
