package services

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/jamesvillarrubia/beckwithbarrow-mediasync/internal/core/domain"
	"github.com/jamesvillarrubia/beckwithbarrow-mediasync/internal/logger"
)

// runVerify issues a lightweight existence check against the stored
// URL of every source-provider catalog row, with bounded concurrency.
// Read-only: the broken list is persisted for operator follow-up, the
// catalog is never mutated here.
func (p *Pipeline) runVerify(ctx context.Context, state *domain.PipelineState) (*domain.StageReport, error) {
	rows := state.ExistingCatalogAssets
	report := &domain.StageReport{}

	var mu sync.Mutex
	var broken []domain.BrokenURL

	g := &errgroup.Group{}
	g.SetLimit(verifyBatchSize)

	for _, row := range rows {
		g.Go(func() error {
			status, ok, err := p.checker.Check(ctx, row.URL)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				logger.Warn("check %s: %v", row.URL, err)
				report.Failed++
				return nil
			}
			if !ok {
				broken = append(broken, domain.BrokenURL{
					AssetID:    row.ID,
					Name:       row.Name,
					URL:        row.URL,
					StatusCode: status,
				})
			}
			return nil
		})
	}
	_ = g.Wait()

	sort.Slice(broken, func(i, j int) bool { return broken[i].AssetID < broken[j].AssetID })

	if len(broken) > 0 {
		if err := p.reports.SaveBrokenURLs(ctx, p.runID, broken); err != nil {
			return nil, fmt.Errorf("persist broken URLs: %w", err)
		}
	}

	report.Note = fmt.Sprintf("%d checked, %d broken", len(rows), len(broken))
	return report, nil
}
