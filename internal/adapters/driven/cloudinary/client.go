// Package cloudinary implements the source-store port against the
// Cloudinary Admin API. All calls are read-only, authenticated with
// the API key/secret pair and throttled through a token bucket: the
// Admin API has an hourly quota and discovery fires one count query
// per folder.
package cloudinary

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/jamesvillarrubia/beckwithbarrow-mediasync/internal/core/domain"
	"github.com/jamesvillarrubia/beckwithbarrow-mediasync/internal/core/ports/driven"
	"github.com/jamesvillarrubia/beckwithbarrow-mediasync/internal/logger"
)

const (
	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// PageSize is the max_results value for asset enumeration.
	PageSize = 500

	// adminAPIRate throttles Admin API calls (requests per second).
	adminAPIRate = 2
)

// Config holds the credentials and root folder for one Cloudinary
// account.
type Config struct {
	CloudName  string
	APIKey     string
	APISecret  string
	RootFolder string

	// BaseURL overrides the API endpoint. Empty means the public
	// Admin API; set by tests.
	BaseURL string
}

// Ensure Client implements the port.
var _ driven.SourceStore = (*Client)(nil)

// Client is a typed, throttled Admin API client.
type Client struct {
	cfg     Config
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient creates a client for the configured account.
func NewClient(cfg Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.cloudinary.com/v1_1/" + cfg.CloudName
	}
	return &Client{
		cfg:     cfg,
		baseURL: baseURL,
		http:    &http.Client{Timeout: DefaultTimeout},
		limiter: rate.NewLimiter(rate.Limit(adminAPIRate), 1),
	}
}

// ListFolders enumerates the folders directly under the root folder.
func (c *Client) ListFolders(ctx context.Context) ([]domain.SourceFolder, error) {
	var resp folderListResponse
	if err := c.get(ctx, "/folders/"+c.cfg.RootFolder, nil, &resp); err != nil {
		return nil, fmt.Errorf("list folders: %w", err)
	}

	folders := make([]domain.SourceFolder, 0, len(resp.Folders))
	for _, f := range resp.Folders {
		if f.Name == "" || f.Path == "" {
			return nil, fmt.Errorf("%w: folder entry missing name or path", domain.ErrMalformedResponse)
		}
		folders = append(folders, domain.SourceFolder{Name: f.Name, Path: f.Path})
	}
	return folders, nil
}

// AssetCount returns the number of assets in one folder via the
// search API, without fetching any resource bodies.
func (c *Client) AssetCount(ctx context.Context, folderPath string) (int, error) {
	req := searchRequest{
		Expression: fmt.Sprintf("folder=%q", folderPath),
		MaxResults: 0,
	}
	var resp searchResponse
	if err := c.post(ctx, "/resources/search", req, &resp); err != nil {
		return 0, fmt.Errorf("count %s: %w", folderPath, err)
	}
	return resp.TotalCount, nil
}

// ListAssets returns one page of image assets under the root folder
// and the cursor for the next page.
func (c *Client) ListAssets(ctx context.Context, cursor string) ([]domain.SourceAsset, string, error) {
	query := url.Values{}
	query.Set("prefix", c.cfg.RootFolder+"/")
	query.Set("max_results", fmt.Sprint(PageSize))
	query.Set("type", "upload")
	if cursor != "" {
		query.Set("next_cursor", cursor)
	}

	var resp resourceListResponse
	if err := c.get(ctx, "/resources/image", query, &resp); err != nil {
		return nil, "", fmt.Errorf("list assets: %w", err)
	}

	assets := make([]domain.SourceAsset, 0, len(resp.Resources))
	for _, r := range resp.Resources {
		asset, err := toSourceAsset(r)
		if err != nil {
			return nil, "", err
		}
		assets = append(assets, asset)
	}
	return assets, resp.NextCursor, nil
}

// toSourceAsset validates one wire entry and converts it.
func toSourceAsset(r resourceEntry) (domain.SourceAsset, error) {
	if r.PublicID == "" || r.SecureURL == "" {
		return domain.SourceAsset{}, fmt.Errorf("%w: resource missing public_id or secure_url", domain.ErrMalformedResponse)
	}
	return domain.SourceAsset{
		PublicID:    r.PublicID,
		URL:         r.SecureURL,
		Width:       r.Width,
		Height:      r.Height,
		Bytes:       r.Bytes,
		Format:      r.Format,
		Folder:      r.AssetFolder,
		DisplayName: r.DisplayName,
		CreatedAt:   parseTimestamp(r.CreatedAt),
		UpdatedAt:   parseTimestamp(r.UploadedAt),
	}, nil
}

// parseTimestamp is lenient: a missing or unparseable timestamp is a
// zero time, not an error. Timestamps only order duplicates.
func parseTimestamp(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		logger.Debug("unparseable timestamp %q", s)
		return time.Time{}
	}
	return t
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	if err := c.limiter.Wait(req.Context()); err != nil {
		return err
	}

	req.SetBasicAuth(c.cfg.APIKey, c.cfg.APISecret)
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode == 420:
		return domain.ErrRateLimited
	case resp.StatusCode >= 400:
		return fmt.Errorf("admin API %s: status %d", req.URL.Path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
	}
	return nil
}
