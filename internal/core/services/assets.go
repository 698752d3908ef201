package services

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/jamesvillarrubia/beckwithbarrow-mediasync/internal/core/domain"
	"github.com/jamesvillarrubia/beckwithbarrow-mediasync/internal/logger"
)

// runAssetDiscovery enumerates all assets under the source root,
// page by page until the source stops returning a cursor. Assets not
// logically beneath the root are filtered out; the rest get their
// folder rebased onto the root and a display name. Read-only.
func (p *Pipeline) runAssetDiscovery(ctx context.Context, state *domain.PipelineState) (*domain.StageReport, error) {
	report := &domain.StageReport{}

	var assets []domain.SourceAsset
	cursor := ""
	for {
		page, next, err := p.source.ListAssets(ctx, cursor)
		if err != nil {
			return nil, fmt.Errorf("list assets (cursor %q): %w", cursor, err)
		}

		for _, asset := range page {
			normalised, ok := p.normaliseAsset(asset)
			if !ok {
				report.Skipped++
				continue
			}
			assets = append(assets, normalised)
		}

		if next == "" {
			break
		}
		cursor = next
	}

	state.SourceAssets = assets
	logger.Info("discovered %d source assets (%d outside root)", len(assets), report.Skipped)
	report.Note = fmt.Sprintf("%d assets", len(assets))
	return report, nil
}

// normaliseAsset rebases an asset onto the source root and fills in
// its display name. Returns false for assets outside the root.
func (p *Pipeline) normaliseAsset(asset domain.SourceAsset) (domain.SourceAsset, bool) {
	folder, ok := rebaseFolder(asset.Folder, p.sourceRoot)
	if !ok {
		return asset, false
	}
	asset.Folder = folder

	if asset.DisplayName == "" {
		asset.DisplayName = displayNameFromPublicID(asset.PublicID)
	}
	return asset, true
}

// rebaseFolder strips the root prefix from a source folder path.
// "root/agricola" becomes "agricola"; the root itself becomes "".
func rebaseFolder(folder, root string) (string, bool) {
	if folder == root {
		return "", true
	}
	prefix := root + "/"
	if !strings.HasPrefix(folder, prefix) {
		return "", false
	}
	return strings.TrimPrefix(folder, prefix), true
}

// displayNameFromPublicID derives a display name from the asset's
// filename with the extension removed.
func displayNameFromPublicID(publicID string) string {
	base := path.Base(publicID)
	if ext := path.Ext(base); ext != "" {
		base = strings.TrimSuffix(base, ext)
	}
	return base
}
