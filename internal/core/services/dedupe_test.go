package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jamesvillarrubia/beckwithbarrow-mediasync/internal/core/domain"
)

func TestNormalizeBaseName(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"photo.jpg", "photo"},
		{"photo_a1b2c3.jpg", "photo"},
		{"Photo_a1b2c3", "photo"},
		{"kitchen-view_9f8e7d.png", "kitchen-view"},
		{"no-suffix", "no-suffix"},
		{"UPPER.JPG", "upper"},
		{"dotted.name.jpg", "dotted.name"},
		{"_abc123", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeBaseName(tt.name), tt.name)
	}
}

func TestDedupe_KeepsOldestOfEachGroup(t *testing.T) {
	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	cat := newMockCatalog()
	cat.seedRow(domain.CatalogAsset{ID: 1, Name: "photo_a1b2c3.jpg", Provider: domain.ProviderCloudinary, CreatedAt: base.Add(time.Hour)})
	cat.seedRow(domain.CatalogAsset{ID: 2, Name: "photo.jpg", Provider: domain.ProviderCloudinary, CreatedAt: base})
	cat.seedRow(domain.CatalogAsset{ID: 3, Name: "Photo_f00bar.jpg", Provider: domain.ProviderCloudinary, CreatedAt: base.Add(2 * time.Hour)})
	cat.seedRow(domain.CatalogAsset{ID: 4, Name: "other.jpg", Provider: domain.ProviderCloudinary, CreatedAt: base})

	p, _, _, _ := newTestPipeline(&mockSource{}, cat, Options{})

	state := domain.NewPipelineState()
	state.ExistingCatalogAssets, _ = cat.ListAssets(context.Background(), catalogPageSize)

	report, err := p.runDedupe(context.Background(), state)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Deleted)

	rows, _ := cat.ListAssets(context.Background(), catalogPageSize)
	require.Len(t, rows, 2)
	assert.Equal(t, 2, rows[0].ID, "oldest of the photo group survives")
	assert.Equal(t, 4, rows[1].ID)
}

func TestDedupe_SecondRunIsNoOp(t *testing.T) {
	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	cat := newMockCatalog()
	cat.seedRow(domain.CatalogAsset{ID: 1, Name: "photo_a1b2c3.jpg", Provider: domain.ProviderCloudinary, CreatedAt: base.Add(time.Hour)})
	cat.seedRow(domain.CatalogAsset{ID: 2, Name: "photo.jpg", Provider: domain.ProviderCloudinary, CreatedAt: base})

	p, _, _, _ := newTestPipeline(&mockSource{}, cat, Options{})
	ctx := context.Background()

	state := domain.NewPipelineState()
	state.ExistingCatalogAssets, _ = cat.ListAssets(ctx, catalogPageSize)
	first, err := p.runDedupe(ctx, state)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Deleted)

	state.ExistingCatalogAssets, _ = cat.ListAssets(ctx, catalogPageSize)
	second, err := p.runDedupe(ctx, state)
	require.NoError(t, err)
	assert.Equal(t, 0, second.Deleted)
}

func TestDedupe_DryRunCountsWithoutDeleting(t *testing.T) {
	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	cat := newMockCatalog()
	cat.seedRow(domain.CatalogAsset{ID: 1, Name: "photo_a1b2c3.jpg", Provider: domain.ProviderCloudinary, CreatedAt: base.Add(time.Hour)})
	cat.seedRow(domain.CatalogAsset{ID: 2, Name: "photo.jpg", Provider: domain.ProviderCloudinary, CreatedAt: base})

	p, _, _, _ := newTestPipeline(&mockSource{}, cat, Options{DryRun: true})

	state := domain.NewPipelineState()
	state.ExistingCatalogAssets, _ = cat.ListAssets(context.Background(), catalogPageSize)

	report, err := p.runDedupe(context.Background(), state)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Deleted)
	assert.Empty(t, cat.ops)
}
