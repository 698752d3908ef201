package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jamesvillarrubia/beckwithbarrow-mediasync/internal/core/domain"
)

func TestMaterialize_CreatesUnderAssetRoot(t *testing.T) {
	cat := newMockCatalog()
	p, _, _, _ := newTestPipeline(&mockSource{}, cat, Options{})

	state := domain.NewPipelineState()
	state.FolderMapping = domain.FolderMapping{
		"agricola": {CloudinaryName: "agricola", Status: domain.MappingNeedsCreation},
	}

	report, err := p.runMaterialize(context.Background(), state)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Created)

	// The asset root is created first, then the folder beneath it.
	require.NotNil(t, state.AssetRootID)
	entry := state.FolderMapping["agricola"]
	require.NotNil(t, entry.StrapiID)

	folders, _ := cat.ListFolders(context.Background())
	require.Len(t, folders, 2)
	assert.Equal(t, "Cloudinary", folders[0].Name)
	assert.Nil(t, folders[0].ParentID)
	assert.Equal(t, "agricola", folders[1].Name)
	require.NotNil(t, folders[1].ParentID)
	assert.Equal(t, *state.AssetRootID, *folders[1].ParentID)
}

func TestMaterialize_SingleFailureIsNonFatal(t *testing.T) {
	cat := newMockCatalog()
	cat.createFolderErr = map[string]error{"buhn": errors.New("boom")}
	p, _, _, _ := newTestPipeline(&mockSource{}, cat, Options{})

	state := domain.NewPipelineState()
	rootID := 1
	state.AssetRootID = &rootID
	state.FolderMapping = domain.FolderMapping{
		"agricola": {CloudinaryName: "agricola", Status: domain.MappingNeedsCreation},
		"buhn":     {CloudinaryName: "buhn", Status: domain.MappingNeedsCreation},
	}

	report, err := p.runMaterialize(context.Background(), state)
	require.NoError(t, err, "one failed folder must not abort the batch")
	assert.Equal(t, 1, report.Created)
	assert.Equal(t, 1, report.Failed)

	assert.Equal(t, domain.MappingCreated, state.FolderMapping["agricola"].Status)
	assert.Equal(t, domain.MappingNeedsCreation, state.FolderMapping["buhn"].Status)
	assert.Nil(t, state.FolderMapping["buhn"].StrapiID)
}

func TestMaterialize_DryRunTouchesNothing(t *testing.T) {
	cat := newMockCatalog()
	p, _, _, _ := newTestPipeline(&mockSource{}, cat, Options{DryRun: true})

	state := domain.NewPipelineState()
	state.FolderMapping = domain.FolderMapping{
		"agricola": {CloudinaryName: "agricola", Status: domain.MappingNeedsCreation},
	}

	report, err := p.runMaterialize(context.Background(), state)
	require.NoError(t, err)
	assert.Equal(t, 0, report.Created)
	assert.Equal(t, 1, report.Skipped)
	assert.Empty(t, cat.ops, "dry run must not call the catalog")
	assert.Equal(t, domain.MappingNeedsCreation, state.FolderMapping["agricola"].Status)
}

func TestMaterialize_NothingPending(t *testing.T) {
	cat := newMockCatalog()
	p, _, _, _ := newTestPipeline(&mockSource{}, cat, Options{})

	id := 3
	state := domain.NewPipelineState()
	state.FolderMapping = domain.FolderMapping{
		"agricola": {CloudinaryName: "agricola", Status: domain.MappingExists, StrapiID: &id},
	}

	report, err := p.runMaterialize(context.Background(), state)
	require.NoError(t, err)
	assert.Equal(t, 0, report.Created)
	assert.Empty(t, cat.ops)
}
