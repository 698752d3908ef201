package services

import (
	"context"
	"fmt"

	"github.com/jamesvillarrubia/beckwithbarrow-mediasync/internal/core/domain"
	"github.com/jamesvillarrubia/beckwithbarrow-mediasync/internal/logger"
)

// runFolderMapping computes the name-keyed correspondence between
// source and catalog folders. Pure over the discovered state: no
// network calls, no folder is ever deleted here.
func (p *Pipeline) runFolderMapping(_ context.Context, state *domain.PipelineState) (*domain.StageReport, error) {
	state.FolderMapping = MapFolders(state.SourceFolders, state.CatalogFolders)

	report := &domain.StageReport{}
	for _, entry := range state.FolderMapping {
		if entry.Status == domain.MappingNeedsCreation {
			report.Skipped++
		}
	}
	report.Note = fmt.Sprintf("%d mapped, %d need creation",
		len(state.FolderMapping)-report.Skipped, report.Skipped)
	return report, nil
}

// MapFolders classifies each source folder against a case-insensitive
// index of catalog folders. A hit yields MappingExists, recording a
// NeedsUpdate flag when the catalog display name diverges in case or
// spelling; a miss yields MappingNeedsCreation. First matching catalog
// folder wins; duplicate catalog names are surfaced as warnings, not
// silently resolved.
func MapFolders(sourceFolders []domain.SourceFolder, catalogFolders []domain.CatalogFolder) domain.FolderMapping {
	index := make(map[string]*domain.CatalogFolder, len(catalogFolders))
	for i := range catalogFolders {
		key := domain.FoldKey(catalogFolders[i].Name)
		if _, seen := index[key]; seen {
			logger.Warn("duplicate catalog folder name %q; keeping first match", catalogFolders[i].Name)
			continue
		}
		index[key] = &catalogFolders[i]
	}

	mapping := make(domain.FolderMapping, len(sourceFolders))
	for _, sf := range sourceFolders {
		entry := &domain.MappingEntry{
			CloudinaryName: sf.Name,
			Status:         domain.MappingNeedsCreation,
		}
		if cf, ok := index[domain.FoldKey(sf.Name)]; ok {
			id := cf.ID
			entry.StrapiID = &id
			entry.StrapiName = cf.Name
			entry.Status = domain.MappingExists
			entry.NeedsUpdate = cf.Name != sf.Name
		}
		mapping[sf.Name] = entry
	}
	return mapping
}
