package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/jamesvillarrubia/beckwithbarrow-mediasync/internal/core/domain"
	"github.com/jamesvillarrubia/beckwithbarrow-mediasync/internal/logger"
)

// runMaterialize creates the missing catalog folders under the asset
// root, using source names verbatim. A single failed creation is
// non-fatal: the entry stays needs_creation, so assets destined for it
// are skipped (and reported) rather than silently misplaced. Dry-run
// reports intended creations without calling the catalog.
func (p *Pipeline) runMaterialize(ctx context.Context, state *domain.PipelineState) (*domain.StageReport, error) {
	report := &domain.StageReport{}

	pending := state.FolderMapping.Pending()
	sort.Strings(pending)

	if len(pending) == 0 {
		report.Note = "nothing to create"
		return report, nil
	}

	if p.opts.DryRun {
		for _, name := range pending {
			logger.Info("dry-run: would create catalog folder %q under %q", name, p.assetRoot)
		}
		report.Skipped = len(pending)
		report.Note = "dry-run"
		return report, nil
	}

	if err := p.ensureAssetRoot(ctx, state); err != nil {
		return nil, err
	}

	for _, name := range pending {
		entry := state.FolderMapping[name]
		folder, err := p.catalog.CreateFolder(ctx, entry.CloudinaryName, state.AssetRootID)
		if err != nil {
			logger.Warn("create folder %q: %v", entry.CloudinaryName, err)
			report.Failed++
			continue
		}

		id := folder.ID
		entry.StrapiID = &id
		entry.StrapiName = folder.Name
		entry.Status = domain.MappingCreated
		state.CreatedFolders = append(state.CreatedFolders, domain.CreatedFolder{
			SourceName: entry.CloudinaryName,
			CatalogID:  folder.ID,
		})
		report.Created++
	}

	return report, nil
}

// ensureAssetRoot creates the engine-owned top-level folder when the
// catalog does not have it yet.
func (p *Pipeline) ensureAssetRoot(ctx context.Context, state *domain.PipelineState) error {
	if state.AssetRootID != nil {
		return nil
	}
	folder, err := p.catalog.CreateFolder(ctx, p.assetRoot, nil)
	if err != nil {
		return fmt.Errorf("create asset root %q: %w", p.assetRoot, err)
	}
	id := folder.ID
	state.AssetRootID = &id
	logger.Info("created asset root %q (id %d)", p.assetRoot, folder.ID)
	return nil
}
