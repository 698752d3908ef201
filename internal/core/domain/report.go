package domain

import "time"

// StageReport summarises one stage's outcome.
type StageReport struct {
	Stage   string `json:"stage"`
	Created int    `json:"created"`
	Updated int    `json:"updated"`
	Deleted int    `json:"deleted"`
	Skipped int    `json:"skipped"`
	Failed  int    `json:"failed"`
	Note    string `json:"note,omitempty"`
}

// BrokenURL records one catalog row whose stored URL failed the
// verifier's existence check.
type BrokenURL struct {
	AssetID    int    `json:"assetId"`
	Name       string `json:"name"`
	URL        string `json:"url"`
	StatusCode int    `json:"statusCode"`
}

// RunReport aggregates everything recorded for one pipeline run.
type RunReport struct {
	ID         string        `json:"id"`
	StartedAt  time.Time     `json:"startedAt"`
	FinishedAt *time.Time    `json:"finishedAt"`
	DryRun     bool          `json:"dryRun"`
	Stages     []StageReport `json:"stages"`
	BrokenURLs []BrokenURL   `json:"brokenUrls"`
}
