package driven

import (
	"context"

	"github.com/jamesvillarrubia/beckwithbarrow-mediasync/internal/core/domain"
)

// SourceStore reads the authoritative image store. All methods are
// read-only: the engine never mutates the source.
type SourceStore interface {
	// ListFolders enumerates the folders directly under the configured
	// asset root.
	ListFolders(ctx context.Context) ([]domain.SourceFolder, error)

	// AssetCount returns the number of assets in one folder path.
	AssetCount(ctx context.Context, folderPath string) (int, error)

	// ListAssets returns one page of assets under the asset root along
	// with the cursor for the next page. An empty returned cursor
	// signals exhaustion.
	ListAssets(ctx context.Context, cursor string) ([]domain.SourceAsset, string, error)
}
