package services

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/jamesvillarrubia/beckwithbarrow-mediasync/internal/core/domain"
	"github.com/jamesvillarrubia/beckwithbarrow-mediasync/internal/core/ports/driven"
	"github.com/jamesvillarrubia/beckwithbarrow-mediasync/internal/core/ports/driving"
	"github.com/jamesvillarrubia/beckwithbarrow-mediasync/internal/logger"
)

// Stage names, in execution order.
const (
	StageFolders       = "folders"
	StageMap           = "map"
	StageMaterialize   = "materialize"
	StageAssets        = "assets"
	StageCatalogAssets = "catalog-assets"
	StageReconcile     = "reconcile"
	StageVerify        = "verify"
	StageDedupe        = "dedupe"
)

const (
	// mutateBatchSize bounds in-flight create/update calls.
	mutateBatchSize = 10

	// verifyBatchSize bounds in-flight URL checks. Larger than the
	// mutating batch: checks are read-only.
	verifyBatchSize = 20

	// catalogPageSize is the bulk fetch size for catalog rows. A
	// design limit sized to the full known working set.
	catalogPageSize = 1000
)

// Options tunes a pipeline run.
type Options struct {
	// DryRun suppresses every mutating call while still reporting
	// intended actions.
	DryRun bool

	// SkipUnchanged enables the content-hash gate: matched assets
	// whose dimensions, byte size and version token are unchanged are
	// not re-updated. Off by default; the default behaviour is to
	// force-correct formats on every run.
	SkipUnchanged bool

	// Out receives stage summaries. Defaults to os.Stdout.
	Out io.Writer
}

// Ensure Pipeline implements the interface.
var _ driving.Pipeline = (*Pipeline)(nil)

// Pipeline runs the reconciliation stages in order, persisting state
// after each successful stage so a run can resume where it stopped.
type Pipeline struct {
	source     driven.SourceStore
	catalog    driven.Catalog
	states     driven.StateStore
	reports    driven.ReportStore
	checker    driven.URLChecker
	confirm    driven.Confirmer
	sourceRoot string
	assetRoot  string
	opts       Options

	// runID identifies the report-store record for the run in flight.
	runID string
}

// NewPipeline creates a pipeline over the two external systems.
// sourceRoot is the source store's root folder path; assetRoot is the
// name of the catalog folder all synchronised folders live under. A
// nil confirmer approves every stage.
func NewPipeline(
	source driven.SourceStore,
	catalog driven.Catalog,
	states driven.StateStore,
	reports driven.ReportStore,
	checker driven.URLChecker,
	confirm driven.Confirmer,
	sourceRoot string,
	assetRoot string,
	opts Options,
) *Pipeline {
	if confirm == nil {
		confirm = driven.AutoConfirm{}
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	return &Pipeline{
		source:     source,
		catalog:    catalog,
		states:     states,
		reports:    reports,
		checker:    checker,
		confirm:    confirm,
		sourceRoot: sourceRoot,
		assetRoot:  assetRoot,
		opts:       opts,
	}
}

// stage is one named step of the pipeline.
type stage struct {
	name string
	run  func(ctx context.Context, state *domain.PipelineState) (*domain.StageReport, error)
}

// stages returns the full pipeline in execution order.
func (p *Pipeline) stages() []stage {
	return []stage{
		{StageFolders, p.runFolderDiscovery},
		{StageMap, p.runFolderMapping},
		{StageMaterialize, p.runMaterialize},
		{StageAssets, p.runAssetDiscovery},
		{StageCatalogAssets, p.runCatalogAssetDiscovery},
		{StageReconcile, p.runReconcile},
		{StageVerify, p.runVerify},
		{StageDedupe, p.runDedupe},
	}
}

// StageNames returns all stage names in execution order.
func (p *Pipeline) StageNames() []string {
	all := p.stages()
	names := make([]string, len(all))
	for i, st := range all {
		names[i] = st.name
	}
	return names
}

// Run executes the named stages in pipeline order; an empty list runs
// everything. State is loaded once, saved after each successful stage
// and left at its last snapshot when a stage fails.
func (p *Pipeline) Run(ctx context.Context, names []string) error {
	selected, err := p.selectStages(names)
	if err != nil {
		return err
	}

	state, err := p.states.Load(ctx)
	if err != nil {
		return fmt.Errorf("load state: %w", err)
	}

	p.runID, err = p.reports.StartRun(ctx, p.opts.DryRun)
	if err != nil {
		return fmt.Errorf("start run: %w", err)
	}

	for i, st := range selected {
		if i > 0 {
			ok, err := p.confirm.Confirm(st.name)
			if err != nil {
				return fmt.Errorf("confirm %s: %w", st.name, err)
			}
			if !ok {
				return domain.ErrAborted
			}
		}

		logger.Section(st.name)
		report, err := st.run(ctx, state)
		if err != nil {
			return fmt.Errorf("stage %s: %w", st.name, err)
		}
		report.Stage = st.name

		if err := p.states.Save(ctx, state); err != nil {
			return fmt.Errorf("save state after %s: %w", st.name, err)
		}
		if err := p.reports.SaveStageReport(ctx, p.runID, *report); err != nil {
			logger.Warn("record %s report: %v", st.name, err)
		}
		p.printSummary(*report)
	}

	if err := p.reports.FinishRun(ctx, p.runID); err != nil {
		logger.Warn("finish run: %v", err)
	}
	return nil
}

// selectStages resolves stage names to stages, preserving pipeline
// order regardless of the order given.
func (p *Pipeline) selectStages(names []string) ([]stage, error) {
	all := p.stages()
	if len(names) == 0 {
		return all, nil
	}

	wanted := make(map[string]bool, len(names))
	for _, name := range names {
		known := false
		for _, st := range all {
			if st.name == name {
				known = true
				break
			}
		}
		if !known {
			return nil, fmt.Errorf("%w: %q", domain.ErrUnknownStage, name)
		}
		wanted[name] = true
	}

	var selected []stage
	for _, st := range all {
		if wanted[st.name] {
			selected = append(selected, st)
		}
	}
	return selected, nil
}

// printSummary writes one stage's counts before the next stage begins.
func (p *Pipeline) printSummary(r domain.StageReport) {
	fmt.Fprintf(p.opts.Out, "%-14s created=%d updated=%d deleted=%d skipped=%d failed=%d",
		r.Stage, r.Created, r.Updated, r.Deleted, r.Skipped, r.Failed)
	if r.Note != "" {
		fmt.Fprintf(p.opts.Out, " (%s)", r.Note)
	}
	fmt.Fprintln(p.opts.Out)
}
