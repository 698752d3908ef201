// Package urlcheck implements the verifier's existence check with
// plain HEAD requests. No bodies are fetched.
package urlcheck

import (
	"context"
	"net/http"
	"time"

	"github.com/jamesvillarrubia/beckwithbarrow-mediasync/internal/core/ports/driven"
)

// DefaultTimeout bounds one existence check.
const DefaultTimeout = 15 * time.Second

// Ensure Checker implements the interface.
var _ driven.URLChecker = (*Checker)(nil)

// Checker issues HEAD requests against delivery URLs.
type Checker struct {
	http *http.Client
}

// NewChecker creates a checker with the default timeout.
func NewChecker() *Checker {
	return &Checker{http: &http.Client{Timeout: DefaultTimeout}}
}

// Check returns the status code and whether the URL resolves to a 2xx
// response. A transport failure is an error, not a broken URL: the
// verifier tallies it separately instead of flagging the row.
func (c *Checker) Check(ctx context.Context, url string) (int, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return 0, false, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, false, err
	}
	resp.Body.Close()

	return resp.StatusCode, resp.StatusCode >= 200 && resp.StatusCode < 300, nil
}
