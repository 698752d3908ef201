package driven

// Confirmer asks the operator to approve the next stage. The core
// never touches interactive I/O directly; the CLI injects a terminal
// implementation and tests inject a canned one.
type Confirmer interface {
	// Confirm returns true to proceed with the named stage.
	Confirm(stage string) (bool, error)
}

// AutoConfirm approves every stage without asking. Used for
// non-interactive runs and by the --yes flag.
type AutoConfirm struct{}

// Confirm always returns true.
func (AutoConfirm) Confirm(string) (bool, error) { return true, nil }
