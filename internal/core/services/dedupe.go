package services

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/jamesvillarrubia/beckwithbarrow-mediasync/internal/core/domain"
	"github.com/jamesvillarrubia/beckwithbarrow-mediasync/internal/logger"
)

// uploadSuffixRegexp matches the random suffix the upload pipeline
// appends to file names ("photo_a1b2c3" or "photo_a1b2c3.jpg").
var uploadSuffixRegexp = regexp.MustCompile(`_[a-z0-9]{6}$`)

// runDedupe collapses catalog rows that share a normalised base name:
// the oldest row of each group survives, the rest are deleted. Coarser
// than the reconciler's public-ID grouping, it catches duplicates left
// behind by runs that predate provider metadata. Idempotent: on an
// already clean catalog no group has more than one member.
func (p *Pipeline) runDedupe(ctx context.Context, state *domain.PipelineState) (*domain.StageReport, error) {
	report := &domain.StageReport{}

	groups := groupByBaseName(state.ExistingCatalogAssets)
	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	deleted := make(map[int]bool)
	for _, key := range keys {
		group := groups[key]
		if len(group) < 2 {
			continue
		}
		sort.Slice(group, func(i, j int) bool {
			return group[i].CreatedAt.Before(group[j].CreatedAt)
		})

		for _, dup := range group[1:] {
			if p.opts.DryRun {
				logger.Info("dry-run: would delete duplicate %q (row %d)", dup.Name, dup.ID)
				report.Deleted++
				continue
			}
			if err := p.catalog.DeleteAsset(ctx, dup.ID); err != nil {
				logger.Warn("delete duplicate %q (row %d): %v", dup.Name, dup.ID, err)
				report.Failed++
				continue
			}
			deleted[dup.ID] = true
			report.Deleted++
		}
	}

	// Keep the persisted snapshot in step with the catalog.
	if len(deleted) > 0 {
		var kept []domain.CatalogAsset
		for _, row := range state.ExistingCatalogAssets {
			if !deleted[row.ID] {
				kept = append(kept, row)
			}
		}
		state.ExistingCatalogAssets = kept
	}

	report.Note = fmt.Sprintf("%d name groups", len(groups))
	if p.opts.DryRun {
		report.Note += ", dry-run"
	}
	return report, nil
}

// groupByBaseName buckets rows by their name with the upload suffix
// and extension stripped, case-insensitively.
func groupByBaseName(rows []domain.CatalogAsset) map[string][]domain.CatalogAsset {
	groups := make(map[string][]domain.CatalogAsset)
	for _, row := range rows {
		key := NormalizeBaseName(row.Name)
		groups[key] = append(groups[key], row)
	}
	return groups
}

// NormalizeBaseName strips the extension and the provider-added random
// suffix from a row name and lower-cases the rest, so that
// "Photo_a1b2c3.jpg" and "photo.jpg" fall into the same group.
func NormalizeBaseName(name string) string {
	base := name
	if i := strings.LastIndex(base, "."); i > 0 {
		base = base[:i]
	}
	base = uploadSuffixRegexp.ReplaceAllString(base, "")
	return strings.ToLower(base)
}
