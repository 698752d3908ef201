package cloudinary

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jamesvillarrubia/beckwithbarrow-mediasync/internal/core/domain"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(Config{
		CloudName:  "demo",
		APIKey:     "key",
		APISecret:  "secret",
		RootFolder: "beckwithbarrow",
		BaseURL:    server.URL,
	})
}

func TestListFolders(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/folders/beckwithbarrow", r.URL.Path)

		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "key", user)
		assert.Equal(t, "secret", pass)

		w.Write([]byte(`{"folders":[
			{"name":"agricola","path":"beckwithbarrow/agricola"},
			{"name":"buhn","path":"beckwithbarrow/buhn"}
		]}`))
	})

	folders, err := client.ListFolders(context.Background())
	require.NoError(t, err)
	require.Len(t, folders, 2)
	assert.Equal(t, "agricola", folders[0].Name)
	assert.Equal(t, "beckwithbarrow/agricola", folders[0].Path)
}

func TestListFolders_MissingPath(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"folders":[{"name":"agricola"}]}`))
	})

	_, err := client.ListFolders(context.Background())
	assert.ErrorIs(t, err, domain.ErrMalformedResponse)
}

func TestAssetCount(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/resources/search", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.Write([]byte(`{"total_count":42}`))
	})

	count, err := client.AssetCount(context.Background(), "beckwithbarrow/agricola")
	require.NoError(t, err)
	assert.Equal(t, 42, count)
}

func TestListAssets_Pagination(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/resources/image", r.URL.Path)
		assert.Equal(t, "beckwithbarrow/", r.URL.Query().Get("prefix"))
		assert.Equal(t, "500", r.URL.Query().Get("max_results"))
		assert.Equal(t, "upload", r.URL.Query().Get("type"))

		if r.URL.Query().Get("next_cursor") == "" {
			w.Write([]byte(`{"resources":[{
				"public_id":"beckwithbarrow/agricola/img1",
				"secure_url":"https://res.cloudinary.com/demo/image/upload/v123/beckwithbarrow/agricola/img1.jpg",
				"format":"jpg","width":1200,"height":800,"bytes":500000,
				"asset_folder":"beckwithbarrow/agricola",
				"display_name":"Kitchen View",
				"created_at":"2024-01-15T10:30:00Z"
			}],"next_cursor":"abc123"}`))
			return
		}

		assert.Equal(t, "abc123", r.URL.Query().Get("next_cursor"))
		w.Write([]byte(`{"resources":[{
			"public_id":"beckwithbarrow/buhn/img2",
			"secure_url":"https://res.cloudinary.com/demo/image/upload/v124/beckwithbarrow/buhn/img2.jpg"
		}]}`))
	})

	ctx := context.Background()
	page1, cursor, err := client.ListAssets(ctx, "")
	require.NoError(t, err)
	require.Len(t, page1, 1)
	assert.Equal(t, "abc123", cursor)

	asset := page1[0]
	assert.Equal(t, "beckwithbarrow/agricola/img1", asset.PublicID)
	assert.Equal(t, 1200, asset.Width)
	assert.Equal(t, int64(500000), asset.Bytes)
	assert.Equal(t, "Kitchen View", asset.DisplayName)
	assert.Equal(t, time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC), asset.CreatedAt)

	page2, cursor, err := client.ListAssets(ctx, cursor)
	require.NoError(t, err)
	require.Len(t, page2, 1)
	assert.Equal(t, "", cursor, "last page carries no cursor")
}

func TestListAssets_MissingPublicID(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"resources":[{"secure_url":"https://x.test/a.jpg"}]}`))
	})

	_, _, err := client.ListAssets(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrMalformedResponse)
}

func TestDo_RateLimited(t *testing.T) {
	for _, status := range []int{http.StatusTooManyRequests, 420} {
		client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(status)
		})
		_, err := client.ListFolders(context.Background())
		assert.ErrorIs(t, err, domain.ErrRateLimited, "status %d", status)
	}
}

func TestDo_ServerError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.ListFolders(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

func TestDo_MalformedBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"folders": [`))
	})

	_, err := client.ListFolders(context.Background())
	assert.ErrorIs(t, err, domain.ErrMalformedResponse)
}

func TestParseTimestamp_Lenient(t *testing.T) {
	assert.True(t, parseTimestamp("").IsZero())
	assert.True(t, parseTimestamp("not a time").IsZero())
	assert.False(t, parseTimestamp("2024-01-15T10:30:00Z").IsZero())
}
