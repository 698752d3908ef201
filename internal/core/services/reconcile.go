package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/jamesvillarrubia/beckwithbarrow-mediasync/internal/core/domain"
	"github.com/jamesvillarrubia/beckwithbarrow-mediasync/internal/logger"
)

// reconcilePlan is the decision set of one reconciliation run.
type reconcilePlan struct {
	creates []createDecision
	updates []updateDecision
	deletes []domain.CatalogAsset
	skipped int
}

type createDecision struct {
	asset    domain.SourceAsset
	folderID int
}

type updateDecision struct {
	asset    domain.SourceAsset
	rowID    int
	folderID int
}

// runReconcile matches source assets to catalog rows and applies the
// resulting create/update/delete set. Decisions are recomputed from
// scratch each run from the live state of both systems, never from a
// stored last-known state: repeated runs are safe and converge, at the
// cost of not skipping unchanged assets (unless the opt-in
// skip-unchanged gate is on). Creates and updates run in bounded
// concurrent batches; deletes run sequentially after every
// create/update has been attempted.
func (p *Pipeline) runReconcile(ctx context.Context, state *domain.PipelineState) (*domain.StageReport, error) {
	plan := planReconcile(
		state.SourceAssets,
		state.ExistingCatalogAssets,
		state.FolderMapping,
		state.AssetRootID,
		p.opts.SkipUnchanged,
	)

	report := &domain.StageReport{Skipped: plan.skipped}

	if p.opts.DryRun {
		report.Created = len(plan.creates)
		report.Updated = len(plan.updates)
		report.Deleted = len(plan.deletes)
		report.Note = "dry-run"
		for _, d := range plan.deletes {
			logger.Info("dry-run: would delete row %d (%s)", d.ID, d.Name)
		}
		return report, nil
	}

	p.applyMutations(ctx, plan, report)

	// Deletes strictly after all creates/updates have been attempted.
	for _, row := range plan.deletes {
		if err := p.catalog.DeleteAsset(ctx, row.ID); err != nil {
			logger.Warn("delete row %d (%s): %v", row.ID, row.Name, err)
			report.Failed++
			continue
		}
		report.Deleted++
	}

	// Re-list so later stages see the catalog as this stage left it:
	// the verifier must check rows created here, and the deduplicator
	// must not re-delete rows already removed.
	rows, err := p.catalog.ListAssets(ctx, catalogPageSize)
	if err != nil {
		return nil, fmt.Errorf("refresh catalog assets: %w", err)
	}
	owned, _ := partitionOwnedRows(rows)
	state.ExistingCatalogAssets = owned

	return report, nil
}

// applyMutations executes creates and updates with bounded
// concurrency. Per-item failures are tallied, never propagated: every
// item's outcome is collected regardless of its siblings.
func (p *Pipeline) applyMutations(ctx context.Context, plan reconcilePlan, report *domain.StageReport) {
	var mu sync.Mutex

	g := &errgroup.Group{}
	g.SetLimit(mutateBatchSize)

	for _, c := range plan.creates {
		g.Go(func() error {
			_, err := p.catalog.CreateAsset(ctx, buildPayload(c.asset, c.folderID))
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				logger.Warn("create %s: %v", c.asset.PublicID, err)
				report.Failed++
				return nil
			}
			report.Created++
			return nil
		})
	}

	for _, u := range plan.updates {
		g.Go(func() error {
			err := p.catalog.UpdateAsset(ctx, u.rowID, buildPayload(u.asset, u.folderID))
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				logger.Warn("update %s (row %d): %v", u.asset.PublicID, u.rowID, err)
				report.Failed++
				return nil
			}
			report.Updated++
			return nil
		})
	}

	// Workers never return errors; Wait only orders the delete phase.
	_ = g.Wait()
}

// planReconcile computes the full decision set:
//
//  1. duplicate catalog rows (same public ID) keep the earliest-created
//     row and queue the rest for deletion, regardless of content;
//  2. each source asset matches surviving rows by public ID, URL or
//     name; first match is kept, extra legacy matches are deleted;
//  3. a matched pair is always an update (unless the skip-unchanged
//     gate finds an identical content hash), an unmatched asset a
//     create;
//  4. assets whose folder mapping is still awaiting creation are
//     deferred with a warning and retried next run;
//  5. surviving rows with no corresponding source asset are orphans
//     and queued for deletion.
//
// The earliest-createdAt tie-break assumes catalog timestamps are
// meaningful across retries; see the deduplicator for the coarser
// name-based safety net.
func planReconcile(
	assets []domain.SourceAsset,
	rows []domain.CatalogAsset,
	mapping domain.FolderMapping,
	assetRootID *int,
	skipUnchanged bool,
) reconcilePlan {
	var plan reconcilePlan

	deleteIDs := make(map[int]bool)
	survivors := collapseDuplicates(rows, deleteIDs, &plan)

	matched := make(map[int]bool, len(survivors))
	for _, asset := range assets {
		keeper, extras := matchRows(asset, survivors, matched)
		for _, extra := range extras {
			if !deleteIDs[extra.ID] {
				deleteIDs[extra.ID] = true
				plan.deletes = append(plan.deletes, extra)
			}
		}

		folderID, ok := resolveFolder(asset, mapping, assetRootID)
		if !ok {
			logger.Warn("skipping %s: folder %q not materialised yet", asset.PublicID, asset.Folder)
			plan.skipped++
			continue
		}

		if keeper == nil {
			plan.creates = append(plan.creates, createDecision{asset: asset, folderID: folderID})
			continue
		}

		if skipUnchanged && domain.ContentHash(asset) == rowContentHash(*keeper) {
			plan.skipped++
			continue
		}
		plan.updates = append(plan.updates, updateDecision{asset: asset, rowID: keeper.ID, folderID: folderID})
	}

	// Orphans: surviving rows nothing in the source claims.
	for i := range survivors {
		if !matched[survivors[i].ID] && !deleteIDs[survivors[i].ID] {
			deleteIDs[survivors[i].ID] = true
			plan.deletes = append(plan.deletes, survivors[i])
		}
	}

	return plan
}

// collapseDuplicates groups rows by public ID, keeps the earliest
// created row of each group and queues the rest for deletion. Returns
// the surviving rows.
func collapseDuplicates(rows []domain.CatalogAsset, deleteIDs map[int]bool, plan *reconcilePlan) []domain.CatalogAsset {
	groups := make(map[string][]domain.CatalogAsset)
	var survivors []domain.CatalogAsset

	for _, row := range rows {
		if row.PublicID == "" {
			survivors = append(survivors, row)
			continue
		}
		groups[row.PublicID] = append(groups[row.PublicID], row)
	}

	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		group := groups[k]
		sort.Slice(group, func(i, j int) bool {
			return group[i].CreatedAt.Before(group[j].CreatedAt)
		})
		survivors = append(survivors, group[0])
		for _, dup := range group[1:] {
			if !deleteIDs[dup.ID] {
				deleteIDs[dup.ID] = true
				plan.deletes = append(plan.deletes, dup)
			}
		}
	}

	return survivors
}

// matchRows finds catalog rows corresponding to an asset by public ID,
// URL or name. The first unclaimed match is the keeper; any further
// matches are legacy duplicates to delete.
func matchRows(asset domain.SourceAsset, rows []domain.CatalogAsset, matched map[int]bool) (*domain.CatalogAsset, []domain.CatalogAsset) {
	var keeper *domain.CatalogAsset
	var extras []domain.CatalogAsset

	for i := range rows {
		row := &rows[i]
		if matched[row.ID] {
			continue
		}
		if row.PublicID != asset.PublicID && row.URL != asset.URL && row.Name != asset.DisplayName {
			continue
		}
		matched[row.ID] = true
		if keeper == nil {
			keeper = row
			continue
		}
		extras = append(extras, *row)
	}

	return keeper, extras
}

// resolveFolder maps an asset's source folder to a catalog folder ID.
// Root-level assets land directly in the asset root. The catalog tree
// under the asset root is one level deep, so a nested subfolder path
// collapses onto its top-level folder.
func resolveFolder(asset domain.SourceAsset, mapping domain.FolderMapping, assetRootID *int) (int, bool) {
	if asset.Folder == "" {
		if assetRootID == nil {
			return 0, false
		}
		return *assetRootID, true
	}
	top, _, _ := strings.Cut(asset.Folder, "/")
	return mapping.Resolve(top)
}

// rowContentHash reconstructs a content hash from what the catalog row
// carries, for comparison against the source asset's hash.
func rowContentHash(row domain.CatalogAsset) string {
	shadow := domain.SourceAsset{
		Width:  row.Width,
		Height: row.Height,
		Bytes:  row.SizeInBytes,
		URL:    row.URL,
	}
	return domain.ContentHash(shadow)
}

// buildPayload assembles the typed catalog row body for an asset,
// re-deriving the four format variants from the asset's own
// dimensions every time.
func buildPayload(asset domain.SourceAsset, folderID int) domain.AssetPayload {
	return domain.AssetPayload{
		Name:        asset.DisplayName,
		URL:         asset.URL,
		Provider:    domain.ProviderCloudinary,
		PublicID:    asset.PublicID,
		Formats:     domain.DeriveFormats(asset),
		Width:       asset.Width,
		Height:      asset.Height,
		SizeInBytes: asset.Bytes,
		Mime:        domain.MimeType(asset.Format),
		FolderID:    folderID,
	}
}
