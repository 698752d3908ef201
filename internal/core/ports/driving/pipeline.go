// Package driving defines the inbound ports: what the CLI (or any
// other operator surface) may ask the core to do.
package driving

import "context"

// Pipeline runs the reconciliation stages.
type Pipeline interface {
	// Run executes the named stages in pipeline order. An empty list
	// runs every stage. State is loaded once at the start and saved
	// after each successful stage; a stage error halts the run and
	// leaves the last snapshot intact.
	Run(ctx context.Context, stages []string) error

	// StageNames returns all stage names in execution order.
	StageNames() []string
}
