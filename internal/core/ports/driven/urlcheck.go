package driven

import "context"

// URLChecker performs a lightweight existence check against a delivery
// URL. Used by the verifier; never fetches bodies.
type URLChecker interface {
	// Check returns the response status code and whether the URL is
	// reachable. A transport failure returns an error with ok false.
	Check(ctx context.Context, url string) (status int, ok bool, err error)
}
