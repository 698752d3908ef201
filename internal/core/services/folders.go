package services

import (
	"context"
	"fmt"

	"github.com/jamesvillarrubia/beckwithbarrow-mediasync/internal/core/domain"
	"github.com/jamesvillarrubia/beckwithbarrow-mediasync/internal/logger"
)

// runFolderDiscovery enumerates source folders (with per-folder asset
// counts) and the catalog folder tree into comparable shapes. A failed
// count query does not abort discovery: the folder is kept with a zero
// count and a warning. Read-only.
func (p *Pipeline) runFolderDiscovery(ctx context.Context, state *domain.PipelineState) (*domain.StageReport, error) {
	report := &domain.StageReport{}

	sourceFolders, err := p.source.ListFolders(ctx)
	if err != nil {
		return nil, fmt.Errorf("list source folders: %w", err)
	}

	for i := range sourceFolders {
		count, err := p.source.AssetCount(ctx, sourceFolders[i].Path)
		if err != nil {
			logger.Warn("asset count for %q failed, defaulting to 0: %v", sourceFolders[i].Path, err)
			report.Failed++
			continue
		}
		sourceFolders[i].AssetCount = count
	}

	catalogFolders, err := p.catalog.ListFolders(ctx)
	if err != nil {
		return nil, fmt.Errorf("list catalog folders: %w", err)
	}

	state.SourceFolders = sourceFolders
	state.CatalogFolders = catalogFolders
	state.AssetRootID = findAssetRoot(catalogFolders, p.assetRoot)
	if state.AssetRootID == nil {
		logger.Info("asset root %q not found in catalog; materialize stage will create it", p.assetRoot)
	}

	report.Note = fmt.Sprintf("%d source folders, %d catalog folders", len(sourceFolders), len(catalogFolders))
	return report, nil
}

// findAssetRoot locates the top-level catalog folder the engine owns,
// matching by name case-insensitively.
func findAssetRoot(folders []domain.CatalogFolder, name string) *int {
	key := domain.FoldKey(name)
	for i := range folders {
		if folders[i].ParentID == nil && domain.FoldKey(folders[i].Name) == key {
			id := folders[i].ID
			return &id
		}
	}
	return nil
}
