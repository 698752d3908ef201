package strapi

import (
	"github.com/jamesvillarrubia/beckwithbarrow-mediasync/internal/core/domain"
)

// Wire types for the upload plugin's REST API.

type folderListResponse struct {
	Data []folderEntry `json:"data"`
}

type folderResponse struct {
	Data folderEntry `json:"data"`
}

type folderEntry struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type createFolderRequest struct {
	Name   string `json:"name"`
	Parent *int   `json:"parent"`
}

type fileListResponse struct {
	Results    []fileEntry    `json:"results"`
	Pagination filePagination `json:"pagination"`
}

type filePagination struct {
	Page     int `json:"page"`
	PageSize int `json:"pageSize"`
	Total    int `json:"total"`
}

type fileEntry struct {
	ID               int                             `json:"id"`
	Name             string                          `json:"name"`
	URL              string                          `json:"url"`
	Provider         string                          `json:"provider"`
	ProviderMetadata *providerMetadata               `json:"provider_metadata"`
	Formats          map[string]domain.FormatVariant `json:"formats"`
	Width            int                             `json:"width"`
	Height           int                             `json:"height"`
	Size             float64                         `json:"size"`
	CreatedAt        string                          `json:"createdAt"`
	Folder           *folderEntry                    `json:"folder"`
}

type providerMetadata struct {
	PublicID string `json:"public_id"`
}

// filePayload is the create/update body. The catalog stores references
// only: url points at the source store's delivery URL, no binary is
// ever attached.
type filePayload struct {
	Name             string                          `json:"name"`
	URL              string                          `json:"url"`
	Provider         string                          `json:"provider"`
	ProviderMetadata providerMetadata                `json:"provider_metadata"`
	Formats          map[string]domain.FormatVariant `json:"formats"`
	Width            int                             `json:"width"`
	Height           int                             `json:"height"`
	Size             float64                         `json:"size"` // kilobytes, catalog convention
	Mime             string                          `json:"mime"`
	Folder           int                             `json:"folder"`
}
