package services

import (
	"context"
	"fmt"

	"github.com/jamesvillarrubia/beckwithbarrow-mediasync/internal/core/domain"
	"github.com/jamesvillarrubia/beckwithbarrow-mediasync/internal/logger"
)

// runCatalogAssetDiscovery fetches the existing catalog rows in one
// bulk page and keeps the source-provider subset for reconciliation.
// Rows from any other provider are left untouched. Read-only.
func (p *Pipeline) runCatalogAssetDiscovery(ctx context.Context, state *domain.PipelineState) (*domain.StageReport, error) {
	rows, err := p.catalog.ListAssets(ctx, catalogPageSize)
	if err != nil {
		return nil, fmt.Errorf("list catalog assets: %w", err)
	}

	owned, other := partitionOwnedRows(rows)
	state.ExistingCatalogAssets = owned
	logger.Info("catalog has %d source-provider rows, %d foreign rows", len(owned), other)

	report := &domain.StageReport{
		Note: fmt.Sprintf("%d rows (%d foreign)", len(rows), other),
	}
	return report, nil
}

// partitionOwnedRows splits catalog rows into the source-provider
// subset and a count of foreign rows.
func partitionOwnedRows(rows []domain.CatalogAsset) ([]domain.CatalogAsset, int) {
	var owned []domain.CatalogAsset
	foreign := 0
	for _, row := range rows {
		if row.Provider == domain.ProviderCloudinary {
			owned = append(owned, row)
		} else {
			foreign++
		}
	}
	return owned, foreign
}
