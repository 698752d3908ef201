package domain

import "time"

// PipelineState is the aggregate persisted between stages. Each stage
// reads only what earlier stages produced, writes its own output and
// the whole snapshot is saved before the next stage runs, so a run can
// be re-entered at any stage without repeating prior network work.
type PipelineState struct {
	// SourceFolders is the folder-discovery output.
	SourceFolders []SourceFolder `json:"sourceFolders"`

	// CatalogFolders is the flattened catalog folder tree.
	CatalogFolders []CatalogFolder `json:"catalogFolders"`

	// AssetRootID is the catalog folder all synchronised folders live
	// under, nil until discovered or created.
	AssetRootID *int `json:"assetRootId"`

	// FolderMapping is the name-keyed source-to-catalog correspondence.
	FolderMapping FolderMapping `json:"folderMapping"`

	// CreatedFolders records folders materialised across runs.
	CreatedFolders []CreatedFolder `json:"createdFolders"`

	// SourceAssets is the asset-discovery output.
	SourceAssets []SourceAsset `json:"sourceAssets"`

	// ExistingCatalogAssets is the source-provider subset of catalog rows.
	ExistingCatalogAssets []CatalogAsset `json:"existingCatalogAssets"`

	// UpdatedAt is when the state was last saved.
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewPipelineState returns an empty state, equivalent to "no prior
// progress".
func NewPipelineState() *PipelineState {
	return &PipelineState{
		FolderMapping: make(FolderMapping),
	}
}
