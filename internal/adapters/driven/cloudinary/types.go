package cloudinary

// Wire types for the Admin API. Responses are validated at this
// boundary so a malformed body fails with a typed error instead of
// leaking empty fields into a catalog write.

type folderListResponse struct {
	Folders []folderEntry `json:"folders"`
}

type folderEntry struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

type resourceListResponse struct {
	Resources  []resourceEntry `json:"resources"`
	NextCursor string          `json:"next_cursor"`
}

type resourceEntry struct {
	PublicID    string `json:"public_id"`
	Format      string `json:"format"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Bytes       int64  `json:"bytes"`
	CreatedAt   string `json:"created_at"`
	UploadedAt  string `json:"uploaded_at"`
	SecureURL   string `json:"secure_url"`
	AssetFolder string `json:"asset_folder"`
	DisplayName string `json:"display_name"`
}

type searchRequest struct {
	Expression string `json:"expression"`
	MaxResults int    `json:"max_results"`
}

type searchResponse struct {
	TotalCount int `json:"total_count"`
}
