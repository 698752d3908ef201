package driven

import (
	"context"

	"github.com/jamesvillarrubia/beckwithbarrow-mediasync/internal/core/domain"
)

// StateStore persists the pipeline state between stages.
type StateStore interface {
	// Load returns the last saved state, or a fresh empty state when
	// none has been saved yet.
	Load(ctx context.Context) (*domain.PipelineState, error)

	// Save writes the full state snapshot. Saves are atomic: a crash
	// mid-save never leaves a partially written state behind.
	Save(ctx context.Context, state *domain.PipelineState) error
}
