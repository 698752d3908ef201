package domain

import "time"

// ProviderCloudinary tags catalog rows whose binaries live in the
// source store. Rows with any other provider are never touched.
const ProviderCloudinary = "cloudinary"

// SourceAsset is an immutable record of one image as it exists in the
// source store at discovery time.
type SourceAsset struct {
	// PublicID is the source store's stable per-asset identifier and
	// the durable cross-system join key.
	PublicID string `json:"publicId"`

	// URL is the delivery URL of the original rendition.
	URL string `json:"url"`

	// Width and Height are the original pixel dimensions.
	Width  int `json:"width"`
	Height int `json:"height"`

	// Bytes is the stored size of the original binary.
	Bytes int64 `json:"bytes"`

	// Format is the file format as reported by the source ("jpg", "png", ...).
	Format string `json:"format"`

	// Folder is the asset's folder relative to the asset root.
	Folder string `json:"folder"`

	// DisplayName is the human-readable name: the explicit display
	// name when the source has one, otherwise the filename without
	// extension.
	DisplayName string `json:"displayName"`

	// CreatedAt and UpdatedAt are the source store's timestamps.
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CatalogAsset is a destination-catalog media row.
type CatalogAsset struct {
	// ID is the catalog's numeric row identifier.
	ID int `json:"id"`

	// Name is the row's display name.
	Name string `json:"name"`

	// URL is the delivery URL stored on the row.
	URL string `json:"url"`

	// Provider identifies the originating system ("cloudinary" for
	// rows owned by this engine).
	Provider string `json:"provider"`

	// PublicID is the source store identifier carried in the row's
	// provider metadata. Empty for rows not owned by this engine.
	PublicID string `json:"publicId"`

	// Formats holds the derived renditions keyed by variant name.
	Formats map[string]FormatVariant `json:"formats,omitempty"`

	// Width and Height are the original pixel dimensions on the row.
	Width  int `json:"width"`
	Height int `json:"height"`

	// SizeInBytes is the original binary size recorded on the row.
	SizeInBytes int64 `json:"size"`

	// FolderID is the containing catalog folder, nil for the library root.
	FolderID *int `json:"folderId"`

	// CreatedAt is the catalog's creation timestamp, used as the
	// duplicate tie-break (earliest row wins).
	CreatedAt time.Time `json:"createdAt"`
}

// AssetPayload is the typed create/update body for one catalog row.
// Field names follow the catalog's upload schema.
type AssetPayload struct {
	Name        string                   `json:"name"`
	URL         string                   `json:"url"`
	Provider    string                   `json:"provider"`
	PublicID    string                   `json:"public_id"`
	Formats     map[string]FormatVariant `json:"formats"`
	Width       int                      `json:"width"`
	Height      int                      `json:"height"`
	SizeInBytes int64                    `json:"size"`
	Mime        string                   `json:"mime"`
	FolderID    int                      `json:"folderId"`
}
