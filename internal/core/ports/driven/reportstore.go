package driven

import (
	"context"

	"github.com/jamesvillarrubia/beckwithbarrow-mediasync/internal/core/domain"
)

// ReportStore records run history for operator follow-up.
type ReportStore interface {
	// StartRun opens a new run record and returns its ID.
	StartRun(ctx context.Context, dryRun bool) (string, error)

	// FinishRun marks a run as completed.
	FinishRun(ctx context.Context, runID string) error

	// SaveStageReport appends one stage summary to a run.
	SaveStageReport(ctx context.Context, runID string, report domain.StageReport) error

	// SaveBrokenURLs records the verifier's findings for a run.
	SaveBrokenURLs(ctx context.Context, runID string, broken []domain.BrokenURL) error

	// LatestRun returns the most recent run with its stage summaries
	// and broken URLs, or domain.ErrNotFound when no run exists.
	LatestRun(ctx context.Context) (*domain.RunReport, error)
}
