// Package strapi implements the catalog port against the Strapi
// upload plugin's REST API, authenticated with a bearer token.
package strapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/oauth2"

	"github.com/jamesvillarrubia/beckwithbarrow-mediasync/internal/core/domain"
	"github.com/jamesvillarrubia/beckwithbarrow-mediasync/internal/core/ports/driven"
	"github.com/jamesvillarrubia/beckwithbarrow-mediasync/internal/logger"
)

const (
	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// folderPageSize is the page size for folder listing.
	folderPageSize = 100
)

// Config holds the catalog endpoint and credentials.
type Config struct {
	// BaseURL is the Strapi instance URL, without trailing slash.
	BaseURL string

	// Token is the API bearer token.
	Token string
}

// Ensure Client implements the port.
var _ driven.Catalog = (*Client)(nil)

// Client is a typed upload-API client.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client with a bearer-token transport.
func NewClient(cfg Config) *Client {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token})
	tc := oauth2.NewClient(context.Background(), ts)
	tc.Timeout = DefaultTimeout
	return &Client{
		baseURL: cfg.BaseURL,
		http:    tc,
	}
}

// ListFolders walks the folder tree breadth-first from the top level
// and flattens it into parent-linked records.
func (c *Client) ListFolders(ctx context.Context) ([]domain.CatalogFolder, error) {
	var flat []domain.CatalogFolder

	type frame struct{ parentID *int }
	queue := []frame{{parentID: nil}}

	for len(queue) > 0 {
		f := queue[0]
		queue = queue[1:]

		children, err := c.listFolderPage(ctx, f.parentID)
		if err != nil {
			return nil, err
		}
		for _, child := range children {
			id := child.ID
			flat = append(flat, domain.CatalogFolder{
				ID:       child.ID,
				Name:     child.Name,
				ParentID: f.parentID,
			})
			queue = append(queue, frame{parentID: &id})
		}
	}

	return flat, nil
}

// listFolderPage fetches the direct children of one folder (or the
// top level for a nil parent).
func (c *Client) listFolderPage(ctx context.Context, parentID *int) ([]folderEntry, error) {
	query := url.Values{}
	query.Set("pagination[pageSize]", fmt.Sprint(folderPageSize))
	if parentID == nil {
		query.Set("filters[parent][id][$null]", "true")
	} else {
		query.Set("filters[parent][id]", fmt.Sprint(*parentID))
	}

	var resp folderListResponse
	if err := c.do(ctx, http.MethodGet, "/api/upload/folders?"+query.Encode(), nil, &resp); err != nil {
		return nil, fmt.Errorf("list folders: %w", err)
	}
	return resp.Data, nil
}

// CreateFolder creates a folder under the given parent; nil parent
// creates a top-level folder.
func (c *Client) CreateFolder(ctx context.Context, name string, parentID *int) (*domain.CatalogFolder, error) {
	req := createFolderRequest{Name: name, Parent: parentID}
	var resp folderResponse
	if err := c.do(ctx, http.MethodPost, "/api/upload/folders", req, &resp); err != nil {
		return nil, fmt.Errorf("create folder %q: %w", name, err)
	}
	if resp.Data.ID == 0 {
		return nil, fmt.Errorf("%w: created folder has no id", domain.ErrMalformedResponse)
	}
	return &domain.CatalogFolder{ID: resp.Data.ID, Name: resp.Data.Name, ParentID: parentID}, nil
}

// ListAssets fetches catalog rows in one bulk page.
func (c *Client) ListAssets(ctx context.Context, pageSize int) ([]domain.CatalogAsset, error) {
	query := url.Values{}
	query.Set("page", "1")
	query.Set("pageSize", fmt.Sprint(pageSize))
	query.Set("populate", "folder")

	var resp fileListResponse
	if err := c.do(ctx, http.MethodGet, "/api/upload/files?"+query.Encode(), nil, &resp); err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	if resp.Pagination.Total > pageSize {
		logger.Warn("catalog holds %d rows, page size %d; working set exceeds design limit",
			resp.Pagination.Total, pageSize)
	}

	rows := make([]domain.CatalogAsset, 0, len(resp.Results))
	for _, e := range resp.Results {
		rows = append(rows, toCatalogAsset(e))
	}
	return rows, nil
}

// CreateAsset inserts one reference-only row.
func (c *Client) CreateAsset(ctx context.Context, payload domain.AssetPayload) (*domain.CatalogAsset, error) {
	var resp fileEntry
	if err := c.do(ctx, http.MethodPost, "/api/upload/files", toFilePayload(payload), &resp); err != nil {
		return nil, fmt.Errorf("create file %q: %w", payload.Name, err)
	}
	if resp.ID == 0 {
		return nil, fmt.Errorf("%w: created file has no id", domain.ErrMalformedResponse)
	}
	row := toCatalogAsset(resp)
	return &row, nil
}

// UpdateAsset replaces one row's payload.
func (c *Client) UpdateAsset(ctx context.Context, id int, payload domain.AssetPayload) error {
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/upload/files/%d", id), toFilePayload(payload), nil); err != nil {
		return fmt.Errorf("update file %d: %w", id, err)
	}
	return nil
}

// DeleteAsset removes one row.
func (c *Client) DeleteAsset(ctx context.Context, id int) error {
	if err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/upload/files/%d", id), nil, nil); err != nil {
		return fmt.Errorf("delete file %d: %w", id, err)
	}
	return nil
}

// toCatalogAsset converts a wire entry; size arrives in kilobytes.
func toCatalogAsset(e fileEntry) domain.CatalogAsset {
	row := domain.CatalogAsset{
		ID:          e.ID,
		Name:        e.Name,
		URL:         e.URL,
		Provider:    e.Provider,
		Formats:     e.Formats,
		Width:       e.Width,
		Height:      e.Height,
		SizeInBytes: int64(math.Round(e.Size * 1024)),
		CreatedAt:   parseTimestamp(e.CreatedAt),
	}
	if e.ProviderMetadata != nil {
		row.PublicID = e.ProviderMetadata.PublicID
	}
	if e.Folder != nil {
		id := e.Folder.ID
		row.FolderID = &id
	}
	return row
}

// toFilePayload converts the domain payload; size leaves in kilobytes.
func toFilePayload(p domain.AssetPayload) filePayload {
	return filePayload{
		Name:             p.Name,
		URL:              p.URL,
		Provider:         p.Provider,
		ProviderMetadata: providerMetadata{PublicID: p.PublicID},
		Formats:          p.Formats,
		Width:            p.Width,
		Height:           p.Height,
		Size:             math.Round(float64(p.SizeInBytes)/10.24) / 100,
		Mime:             p.Mime,
		Folder:           p.FolderID,
	}
}

func parseTimestamp(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("upload API %s %s: status %d", method, path, resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
	}
	return nil
}
