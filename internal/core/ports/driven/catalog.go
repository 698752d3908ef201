package driven

import (
	"context"

	"github.com/jamesvillarrubia/beckwithbarrow-mediasync/internal/core/domain"
)

// Catalog reads and writes the destination media catalog.
type Catalog interface {
	// ListFolders returns the catalog's folder tree flattened into
	// parent-linked records.
	ListFolders(ctx context.Context) ([]domain.CatalogFolder, error)

	// CreateFolder creates a folder under the given parent. A nil
	// parentID creates a top-level folder (used once, for the asset
	// root itself).
	CreateFolder(ctx context.Context, name string, parentID *int) (*domain.CatalogFolder, error)

	// ListAssets returns up to pageSize catalog rows in one bulk
	// fetch. The page size is a design limit sized to the full known
	// working set, not a scaling mechanism.
	ListAssets(ctx context.Context, pageSize int) ([]domain.CatalogAsset, error)

	// CreateAsset inserts one row.
	CreateAsset(ctx context.Context, payload domain.AssetPayload) (*domain.CatalogAsset, error)

	// UpdateAsset replaces one row's payload.
	UpdateAsset(ctx context.Context, id int, payload domain.AssetPayload) error

	// DeleteAsset removes one row.
	DeleteAsset(ctx context.Context, id int) error
}
