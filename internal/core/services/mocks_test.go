package services

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/jamesvillarrubia/beckwithbarrow-mediasync/internal/core/domain"
)

// --- Mock implementations of the driven ports ---

// mockSource implements driven.SourceStore.
type mockSource struct {
	folders    []domain.SourceFolder
	counts     map[string]int
	countErrs  map[string]error
	pages      [][]domain.SourceAsset
	listErr    error
	foldersErr error
}

func (m *mockSource) ListFolders(_ context.Context) ([]domain.SourceFolder, error) {
	if m.foldersErr != nil {
		return nil, m.foldersErr
	}
	return append([]domain.SourceFolder(nil), m.folders...), nil
}

func (m *mockSource) AssetCount(_ context.Context, folderPath string) (int, error) {
	if err := m.countErrs[folderPath]; err != nil {
		return 0, err
	}
	return m.counts[folderPath], nil
}

// ListAssets serves pages sequentially; the cursor is the next page
// index encoded as a string.
func (m *mockSource) ListAssets(_ context.Context, cursor string) ([]domain.SourceAsset, string, error) {
	if m.listErr != nil {
		return nil, "", m.listErr
	}
	page := 0
	if cursor != "" {
		page, _ = strconv.Atoi(cursor)
	}
	if page >= len(m.pages) {
		return nil, "", nil
	}
	next := ""
	if page+1 < len(m.pages) {
		next = strconv.Itoa(page + 1)
	}
	return m.pages[page], next, nil
}

// mockCatalog implements driven.Catalog over an in-memory row table.
// Every mutating call is appended to ops so tests can assert ordering.
type mockCatalog struct {
	mu      sync.Mutex
	folders []domain.CatalogFolder
	rows    map[int]domain.CatalogAsset
	nextID  int
	clock   time.Time
	ops     []string

	foldersErr      error
	createFolderErr map[string]error
	createErr       error
	updateErr       error
	deleteErr       error
}

func newMockCatalog() *mockCatalog {
	return &mockCatalog{
		rows:   make(map[int]domain.CatalogAsset),
		nextID: 1,
		clock:  time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (m *mockCatalog) seedRow(row domain.CatalogAsset) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if row.ID >= m.nextID {
		m.nextID = row.ID + 1
	}
	m.rows[row.ID] = row
}

func (m *mockCatalog) ListFolders(_ context.Context) ([]domain.CatalogFolder, error) {
	if m.foldersErr != nil {
		return nil, m.foldersErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.CatalogFolder(nil), m.folders...), nil
}

func (m *mockCatalog) CreateFolder(_ context.Context, name string, parentID *int) (*domain.CatalogFolder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.createFolderErr[name]; err != nil {
		return nil, err
	}
	folder := domain.CatalogFolder{ID: m.nextID, Name: name, ParentID: parentID}
	m.nextID++
	m.folders = append(m.folders, folder)
	m.ops = append(m.ops, "folder:"+name)
	return &folder, nil
}

func (m *mockCatalog) ListAssets(_ context.Context, _ int) ([]domain.CatalogAsset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rows := make([]domain.CatalogAsset, 0, len(m.rows))
	for _, row := range m.rows {
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ID < rows[j].ID })
	return rows, nil
}

func (m *mockCatalog) CreateAsset(_ context.Context, payload domain.AssetPayload) (*domain.CatalogAsset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return nil, m.createErr
	}
	m.clock = m.clock.Add(time.Second)
	folderID := payload.FolderID
	row := domain.CatalogAsset{
		ID:          m.nextID,
		Name:        payload.Name,
		URL:         payload.URL,
		Provider:    payload.Provider,
		PublicID:    payload.PublicID,
		Formats:     payload.Formats,
		Width:       payload.Width,
		Height:      payload.Height,
		SizeInBytes: payload.SizeInBytes,
		FolderID:    &folderID,
		CreatedAt:   m.clock,
	}
	m.nextID++
	m.rows[row.ID] = row
	m.ops = append(m.ops, "create:"+payload.PublicID)
	return &row, nil
}

func (m *mockCatalog) UpdateAsset(_ context.Context, id int, payload domain.AssetPayload) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.updateErr != nil {
		return m.updateErr
	}
	row, ok := m.rows[id]
	if !ok {
		return fmt.Errorf("row %d: %w", id, domain.ErrNotFound)
	}
	folderID := payload.FolderID
	row.Name = payload.Name
	row.URL = payload.URL
	row.Provider = payload.Provider
	row.PublicID = payload.PublicID
	row.Formats = payload.Formats
	row.Width = payload.Width
	row.Height = payload.Height
	row.SizeInBytes = payload.SizeInBytes
	row.FolderID = &folderID
	m.rows[id] = row
	m.ops = append(m.ops, fmt.Sprintf("update:%d", id))
	return nil
}

func (m *mockCatalog) DeleteAsset(_ context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.deleteErr != nil {
		return m.deleteErr
	}
	if _, ok := m.rows[id]; !ok {
		return fmt.Errorf("row %d: %w", id, domain.ErrNotFound)
	}
	delete(m.rows, id)
	m.ops = append(m.ops, fmt.Sprintf("delete:%d", id))
	return nil
}

// mockStateStore implements driven.StateStore in memory.
type mockStateStore struct {
	state   *domain.PipelineState
	saves   int
	loadErr error
	saveErr error
}

func (m *mockStateStore) Load(_ context.Context) (*domain.PipelineState, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	if m.state == nil {
		return domain.NewPipelineState(), nil
	}
	return m.state, nil
}

func (m *mockStateStore) Save(_ context.Context, state *domain.PipelineState) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.state = state
	m.saves++
	return nil
}

// mockReports implements driven.ReportStore in memory.
type mockReports struct {
	runID    string
	finished bool
	stages   []domain.StageReport
	broken   []domain.BrokenURL
}

func (m *mockReports) StartRun(_ context.Context, _ bool) (string, error) {
	m.runID = "run-1"
	return m.runID, nil
}

func (m *mockReports) FinishRun(_ context.Context, _ string) error {
	m.finished = true
	return nil
}

func (m *mockReports) SaveStageReport(_ context.Context, _ string, r domain.StageReport) error {
	m.stages = append(m.stages, r)
	return nil
}

func (m *mockReports) SaveBrokenURLs(_ context.Context, _ string, broken []domain.BrokenURL) error {
	m.broken = append(m.broken, broken...)
	return nil
}

func (m *mockReports) LatestRun(_ context.Context) (*domain.RunReport, error) {
	return nil, domain.ErrNotFound
}

// mockChecker implements driven.URLChecker with a canned status map.
type mockChecker struct {
	statuses map[string]int
	errs     map[string]error
}

func (m *mockChecker) Check(_ context.Context, url string) (int, bool, error) {
	if err := m.errs[url]; err != nil {
		return 0, false, err
	}
	status, ok := m.statuses[url]
	if !ok {
		status = 200
	}
	return status, status >= 200 && status < 300, nil
}

// denyConfirmer refuses one named stage and approves the rest.
type denyConfirmer struct {
	deny  string
	asked []string
}

func (c *denyConfirmer) Confirm(stage string) (bool, error) {
	c.asked = append(c.asked, stage)
	return stage != c.deny, nil
}

// newTestPipeline wires a pipeline over fresh mocks with summaries
// discarded.
func newTestPipeline(src *mockSource, cat *mockCatalog, opts Options) (*Pipeline, *mockStateStore, *mockReports, *mockChecker) {
	if opts.Out == nil {
		opts.Out = io.Discard
	}
	states := &mockStateStore{}
	reports := &mockReports{}
	checker := &mockChecker{}
	p := NewPipeline(src, cat, states, reports, checker, nil, "beckwithbarrow", "Cloudinary", opts)
	return p, states, reports, checker
}
