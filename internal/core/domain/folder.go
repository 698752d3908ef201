package domain

// SourceFolder is a node in the source store's folder namespace.
type SourceFolder struct {
	// Name is the folder's own name (the final path segment).
	Name string `json:"name"`

	// Path is the full folder path in the source store.
	Path string `json:"path"`

	// AssetCount is the number of assets the source store reports for
	// this folder. Zero when the count query failed; discovery surfaces
	// a warning instead of aborting.
	AssetCount int `json:"assetCount"`
}

// CatalogFolder is a node in the destination catalog's folder tree.
// Every folder created by this engine lives directly under the asset
// root; user-created folders elsewhere are never touched.
type CatalogFolder struct {
	// ID is the catalog's numeric folder identifier.
	ID int `json:"id"`

	// Name is the folder's display name.
	Name string `json:"name"`

	// ParentID is the parent folder's ID, nil for top-level folders.
	// Preserved for traceability; mapping is by name only.
	ParentID *int `json:"parentId"`
}

// CreatedFolder records one folder materialised during a run.
type CreatedFolder struct {
	// SourceName is the source folder name the catalog folder was
	// created for, verbatim.
	SourceName string `json:"sourceName"`

	// CatalogID is the identifier assigned by the catalog.
	CatalogID int `json:"catalogId"`
}
