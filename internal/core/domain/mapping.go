package domain

import "strings"

// MappingStatus classifies one source folder's relationship to the catalog.
type MappingStatus string

const (
	// MappingExists means a catalog folder with the same name already exists.
	MappingExists MappingStatus = "exists"

	// MappingNeedsCreation means no catalog folder matches and one must
	// be created before assets can land in it.
	MappingNeedsCreation MappingStatus = "needs_creation"

	// MappingCreated means the materializer created the catalog folder
	// during this or an earlier run.
	MappingCreated MappingStatus = "created"
)

// MappingEntry is the correspondence between one source folder and its
// catalog counterpart. StrapiID is nil exactly while the status is
// MappingNeedsCreation.
type MappingEntry struct {
	// CloudinaryName is the source folder name, verbatim.
	CloudinaryName string `json:"cloudinaryName"`

	// StrapiID is the catalog folder identifier, nil until the folder
	// exists in the catalog.
	StrapiID *int `json:"strapiId"`

	// StrapiName is the catalog folder's display name as found (or
	// created). May differ from CloudinaryName in case or spelling.
	StrapiName string `json:"strapiName"`

	// Status is the entry's lifecycle state.
	Status MappingStatus `json:"status"`

	// NeedsUpdate flags a display-name divergence between the two
	// systems. Reported, never auto-applied.
	NeedsUpdate bool `json:"needsUpdate"`
}

// FolderMapping is keyed by source folder name: exactly one entry per
// distinct source folder. Entries are mutated in place by the
// materializer and never deleted within a run.
type FolderMapping map[string]*MappingEntry

// Resolve returns the catalog folder ID for a source folder name, or
// false when the folder has not been materialised yet.
func (m FolderMapping) Resolve(sourceFolder string) (int, bool) {
	entry, ok := m[sourceFolder]
	if !ok || entry.StrapiID == nil {
		return 0, false
	}
	return *entry.StrapiID, true
}

// Pending returns the source folder names still awaiting creation, in
// no particular order.
func (m FolderMapping) Pending() []string {
	var names []string
	for name, entry := range m {
		if entry.Status == MappingNeedsCreation {
			names = append(names, name)
		}
	}
	return names
}

// FoldKey normalises a folder name for case-insensitive matching.
func FoldKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
