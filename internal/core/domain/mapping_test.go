package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFolderMapping_Resolve(t *testing.T) {
	id := 42
	m := FolderMapping{
		"agricola": {CloudinaryName: "agricola", StrapiID: &id, Status: MappingExists},
		"buhn":     {CloudinaryName: "buhn", Status: MappingNeedsCreation},
	}

	got, ok := m.Resolve("agricola")
	assert.True(t, ok)
	assert.Equal(t, 42, got)

	_, ok = m.Resolve("buhn")
	assert.False(t, ok, "unmaterialised folder must not resolve")

	_, ok = m.Resolve("missing")
	assert.False(t, ok)
}

func TestFolderMapping_Pending(t *testing.T) {
	id := 7
	m := FolderMapping{
		"a": {Status: MappingExists, StrapiID: &id},
		"b": {Status: MappingNeedsCreation},
		"c": {Status: MappingCreated, StrapiID: &id},
		"d": {Status: MappingNeedsCreation},
	}

	pending := m.Pending()
	assert.ElementsMatch(t, []string{"b", "d"}, pending)
}

func TestFoldKey(t *testing.T) {
	assert.Equal(t, "agricola", FoldKey("Agricola"))
	assert.Equal(t, "agricola", FoldKey("  AGRICOLA "))
	assert.Equal(t, FoldKey("Buhn"), FoldKey("buhn"))
}
