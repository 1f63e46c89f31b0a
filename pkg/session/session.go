package session

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/linkviz/link/pkg/graph"
	"github.com/linkviz/link/pkg/ingest"
	"github.com/linkviz/link/pkg/layout"
	"github.com/linkviz/link/pkg/logging"
)

var (
	ErrNotFound     = errors.New("dataset not found")
	ErrStoreFull    = errors.New("dataset store is full")
	ErrNotParsed    = errors.New("dataset has not been parsed yet")
	ErrNoGraph      = errors.New("dataset has no graph, apply a mapping first")
	ErrEmptyUpload  = errors.New("uploaded dataset is empty")
	ErrUploadTooBig = errors.New("uploaded dataset exceeds the size limit")
)

// Dataset is one uploaded CSV and everything derived from it. The raw bytes
// survive re-parses so skip-rows and delimiter changes never need a re-upload.
type Dataset struct {
	ID         string
	Name       string
	Raw        []byte
	Options    ingest.Options
	Table      *ingest.Table
	Mapping    *ingest.Mapping
	Directed   bool
	Graph      *graph.Graph
	Report     *ingest.BuildReport
	Positions  map[uint64]layout.Position
	LayoutName string
	CreatedAt  time.Time
	LastAccess time.Time
}

// snapshot returns a copy safe to read after the store lock is released.
// Mutators replace derived fields (Table, Graph, Report, Positions)
// wholesale rather than editing them in place, so a shallow copy is a
// consistent view even while another request re-parses the dataset.
func (ds *Dataset) snapshot() *Dataset {
	c := *ds
	return &c
}

// Config bounds the session store.
type Config struct {
	TTL           time.Duration
	MaxDatasets   int
	MaxUploadSize int64
	SweepInterval time.Duration
}

// DefaultConfig returns the store limits used when none are configured.
func DefaultConfig() Config {
	return Config{
		TTL:           30 * time.Minute,
		MaxDatasets:   64,
		MaxUploadSize: 64 << 20,
		SweepInterval: time.Minute,
	}
}

// Store holds datasets in memory, expiring them TTL after last access.
type Store struct {
	mu       sync.RWMutex
	datasets map[string]*Dataset
	config   Config
	logger   logging.Logger
	now      func() time.Time
}

// NewStore creates a dataset store.
func NewStore(config Config, logger logging.Logger) *Store {
	if config.TTL <= 0 {
		config.TTL = DefaultConfig().TTL
	}
	if config.MaxDatasets <= 0 {
		config.MaxDatasets = DefaultConfig().MaxDatasets
	}
	if config.MaxUploadSize <= 0 {
		config.MaxUploadSize = DefaultConfig().MaxUploadSize
	}
	if config.SweepInterval <= 0 {
		config.SweepInterval = DefaultConfig().SweepInterval
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Store{
		datasets: make(map[string]*Dataset),
		config:   config,
		logger:   logger,
		now:      time.Now,
	}
}

// Create registers a new dataset from raw upload bytes.
func (s *Store) Create(name string, raw []byte) (*Dataset, error) {
	if len(raw) == 0 {
		return nil, ErrEmptyUpload
	}
	if int64(len(raw)) > s.config.MaxUploadSize {
		return nil, ErrUploadTooBig
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.datasets) >= s.config.MaxDatasets {
		if !s.evictOldestLocked() {
			return nil, ErrStoreFull
		}
	}

	now := s.now()
	ds := &Dataset{
		ID:         uuid.NewString(),
		Name:       name,
		Raw:        raw,
		Options:    ingest.DefaultOptions(),
		CreatedAt:  now,
		LastAccess: now,
	}
	s.datasets[ds.ID] = ds

	s.logger.Info("dataset created",
		logging.DatasetID(ds.ID),
		logging.String("name", name),
		logging.Int("bytes", len(raw)))

	return ds.snapshot(), nil
}

// Get returns a dataset and refreshes its access time.
func (s *Store) Get(id string) (*Dataset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ds, ok := s.datasets[id]
	if !ok {
		return nil, ErrNotFound
	}
	ds.LastAccess = s.now()
	return ds.snapshot(), nil
}

// Delete removes a dataset.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.datasets[id]; !ok {
		return ErrNotFound
	}
	delete(s.datasets, id)
	s.logger.Info("dataset deleted", logging.DatasetID(id))
	return nil
}

// List returns all datasets ordered by creation time, newest first.
func (s *Store) List() []*Dataset {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Dataset, 0, len(s.datasets))
	for _, ds := range s.datasets {
		out = append(out, ds.snapshot())
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Len returns the number of live datasets.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.datasets)
}

// Parse (re)parses a dataset's raw bytes with the given options and clears
// derived state, since a new table invalidates the mapping and graph.
func (s *Store) Parse(id string, opts ingest.Options) (*Dataset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ds, ok := s.datasets[id]
	if !ok {
		return nil, ErrNotFound
	}

	table, err := ingest.ReadTableBytes(ds.Raw, opts)
	if err != nil {
		return nil, err
	}

	ds.Options = opts
	ds.Table = table
	ds.Mapping = nil
	ds.Graph = nil
	ds.Report = nil
	ds.Positions = nil
	ds.LayoutName = ""
	ds.LastAccess = s.now()

	s.logger.Info("dataset parsed",
		logging.DatasetID(id),
		logging.Rows(len(table.Rows)),
		logging.Int("columns", len(table.Columns)))

	return ds.snapshot(), nil
}

// ApplyMapping builds the dataset's graph from its parsed table.
func (s *Store) ApplyMapping(id string, m ingest.Mapping, directed bool) (*Dataset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ds, ok := s.datasets[id]
	if !ok {
		return nil, ErrNotFound
	}
	if ds.Table == nil {
		return nil, ErrNotParsed
	}

	g, report, err := ingest.Build(ds.Table, m, directed)
	if err != nil {
		return nil, err
	}

	ds.Mapping = &m
	ds.Directed = directed
	ds.Graph = g
	ds.Report = report
	ds.Positions = nil
	ds.LayoutName = ""
	ds.LastAccess = s.now()

	s.logger.Info("graph built",
		logging.DatasetID(id),
		logging.Int("nodes", report.NodesCreated),
		logging.Int("edges", report.EdgesCreated),
		logging.Int("skipped", report.SkippedRows))

	return ds.snapshot(), nil
}

// ComputeLayout caches node positions for the dataset's graph.
func (s *Store) ComputeLayout(id, algorithm string, cfg layout.Config) (*Dataset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ds, ok := s.datasets[id]
	if !ok {
		return nil, ErrNotFound
	}
	if ds.Graph == nil {
		return nil, ErrNoGraph
	}

	l, err := layout.New(algorithm, cfg)
	if err != nil {
		return nil, err
	}
	positions, err := l.ComputeLayout(ds.Graph, ds.Graph.NodeIDs())
	if err != nil {
		return nil, err
	}

	ds.Positions = positions
	ds.LayoutName = algorithm
	ds.LastAccess = s.now()
	return ds.snapshot(), nil
}

// Sweep removes datasets idle longer than the TTL. Returns the count removed.
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-s.config.TTL)
	removed := 0
	for id, ds := range s.datasets {
		if ds.LastAccess.Before(cutoff) {
			delete(s.datasets, id)
			removed++
		}
	}
	if removed > 0 {
		s.logger.Info("expired datasets swept", logging.Count(removed))
	}
	return removed
}

// Run sweeps expired datasets until the context is cancelled.
func (s *Store) Run(ctx context.Context) {
	ticker := time.NewTicker(s.config.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}

// evictOldestLocked drops the least recently used dataset to make room.
func (s *Store) evictOldestLocked() bool {
	var oldestID string
	var oldest time.Time
	for id, ds := range s.datasets {
		if oldestID == "" || ds.LastAccess.Before(oldest) {
			oldestID = id
			oldest = ds.LastAccess
		}
	}
	if oldestID == "" {
		return false
	}
	delete(s.datasets, oldestID)
	s.logger.Warn("dataset evicted to make room", logging.DatasetID(oldestID))
	return true
}
