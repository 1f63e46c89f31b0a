package session

import (
	"sync"
	"testing"
	"time"

	"github.com/linkviz/link/pkg/ingest"
	"github.com/linkviz/link/pkg/layout"
)

const sampleCSV = `source,target,weight
alice,bob,2.5
bob,carol,1
alice,carol,3
`

func newTestStore() *Store {
	return NewStore(DefaultConfig(), nil)
}

func TestStore_CreateAndGet(t *testing.T) {
	s := newTestStore()

	ds, err := s.Create("people.csv", []byte(sampleCSV))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if ds.ID == "" {
		t.Fatal("Expected a generated dataset ID")
	}

	got, err := s.Get(ds.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Name != "people.csv" {
		t.Errorf("Expected name preserved, got %q", got.Name)
	}

	if _, err := s.Get("no-such-id"); err != ErrNotFound {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestStore_CreateEmpty(t *testing.T) {
	s := newTestStore()

	if _, err := s.Create("empty.csv", nil); err != ErrEmptyUpload {
		t.Errorf("Expected ErrEmptyUpload, got %v", err)
	}
}

func TestStore_UploadTooBig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxUploadSize = 4
	s := NewStore(cfg, nil)

	if _, err := s.Create("big.csv", []byte(sampleCSV)); err != ErrUploadTooBig {
		t.Errorf("Expected ErrUploadTooBig, got %v", err)
	}
}

func TestStore_ParseThenMap(t *testing.T) {
	s := newTestStore()

	ds, _ := s.Create("people.csv", []byte(sampleCSV))

	// Mapping before parsing is rejected
	if _, err := s.ApplyMapping(ds.ID, ingest.Mapping{SourceColumn: "source", TargetColumn: "target"}, true); err != ErrNotParsed {
		t.Errorf("Expected ErrNotParsed, got %v", err)
	}

	ds, err := s.Parse(ds.ID, ingest.DefaultOptions())
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(ds.Table.Rows) != 3 {
		t.Errorf("Expected 3 rows, got %d", len(ds.Table.Rows))
	}

	ds, err = s.ApplyMapping(ds.ID, ingest.Mapping{
		SourceColumn: "source",
		TargetColumn: "target",
		WeightColumn: "weight",
	}, true)
	if err != nil {
		t.Fatalf("ApplyMapping failed: %v", err)
	}
	if ds.Graph == nil || ds.Graph.NodeCount() != 3 || ds.Graph.EdgeCount() != 3 {
		t.Errorf("Unexpected graph: %+v", ds.Report)
	}
}

func TestStore_ReparseClearsDerivedState(t *testing.T) {
	s := newTestStore()

	ds, _ := s.Create("people.csv", []byte(sampleCSV))
	s.Parse(ds.ID, ingest.DefaultOptions())
	s.ApplyMapping(ds.ID, ingest.Mapping{SourceColumn: "source", TargetColumn: "target"}, true)
	s.ComputeLayout(ds.ID, layout.AlgorithmCircular, layout.DefaultConfig())

	ds, err := s.Parse(ds.ID, ingest.DefaultOptions())
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if ds.Graph != nil || ds.Mapping != nil || ds.Positions != nil {
		t.Error("Expected re-parse to clear graph, mapping and layout")
	}
}

func TestStore_ComputeLayout(t *testing.T) {
	s := newTestStore()

	ds, _ := s.Create("people.csv", []byte(sampleCSV))
	s.Parse(ds.ID, ingest.DefaultOptions())

	if _, err := s.ComputeLayout(ds.ID, layout.AlgorithmForce, layout.DefaultConfig()); err != ErrNoGraph {
		t.Errorf("Expected ErrNoGraph before mapping, got %v", err)
	}

	s.ApplyMapping(ds.ID, ingest.Mapping{SourceColumn: "source", TargetColumn: "target"}, true)

	ds, err := s.ComputeLayout(ds.ID, layout.AlgorithmForce, layout.DefaultConfig())
	if err != nil {
		t.Fatalf("ComputeLayout failed: %v", err)
	}
	if len(ds.Positions) != 3 || ds.LayoutName != layout.AlgorithmForce {
		t.Errorf("Expected cached positions for 3 nodes, got %d", len(ds.Positions))
	}
}

func TestStore_GetReturnsStableView(t *testing.T) {
	s := newTestStore()

	ds, _ := s.Create("people.csv", []byte(sampleCSV))
	s.Parse(ds.ID, ingest.DefaultOptions())
	s.ApplyMapping(ds.ID, ingest.Mapping{SourceColumn: "source", TargetColumn: "target"}, true)

	view, err := s.Get(ds.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}

	// A re-parse must not mutate a view handed out earlier
	if _, err := s.Parse(ds.ID, ingest.DefaultOptions()); err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if view.Graph == nil || view.Table == nil {
		t.Error("Expected earlier view to keep its graph and table")
	}
}

func TestStore_ConcurrentParseAndRead(t *testing.T) {
	s := newTestStore()

	ds, err := s.Create("people.csv", []byte(sampleCSV))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := s.Parse(ds.ID, ingest.DefaultOptions()); err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				s.Parse(ds.ID, ingest.DefaultOptions())
				s.ApplyMapping(ds.ID, ingest.Mapping{SourceColumn: "source", TargetColumn: "target"}, true)
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				view, err := s.Get(ds.ID)
				if err != nil {
					continue
				}
				if view.Table != nil {
					_ = len(view.Table.Rows)
				}
				if view.Graph != nil {
					_ = view.Graph.NodeCount()
				}
				for _, listed := range s.List() {
					_ = listed.Table != nil
				}
			}
		}()
	}
	wg.Wait()
}

func TestStore_Sweep(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TTL = time.Minute
	s := NewStore(cfg, nil)

	now := time.Now()
	s.now = func() time.Time { return now }

	ds, _ := s.Create("people.csv", []byte(sampleCSV))

	// Not yet expired
	if removed := s.Sweep(); removed != 0 {
		t.Errorf("Expected nothing swept, got %d", removed)
	}

	s.now = func() time.Time { return now.Add(2 * time.Minute) }
	if removed := s.Sweep(); removed != 1 {
		t.Errorf("Expected 1 dataset swept, got %d", removed)
	}
	if _, err := s.Get(ds.ID); err != ErrNotFound {
		t.Errorf("Expected dataset gone after sweep, got %v", err)
	}
}

func TestStore_EvictsOldestAtCapacity(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxDatasets = 2
	s := NewStore(cfg, nil)

	now := time.Now()
	tick := 0
	s.now = func() time.Time {
		tick++
		return now.Add(time.Duration(tick) * time.Second)
	}

	first, _ := s.Create("a.csv", []byte(sampleCSV))
	second, _ := s.Create("b.csv", []byte(sampleCSV))
	third, err := s.Create("c.csv", []byte(sampleCSV))
	if err != nil {
		t.Fatalf("Create at capacity failed: %v", err)
	}

	if _, err := s.Get(first.ID); err != ErrNotFound {
		t.Errorf("Expected oldest dataset evicted, got %v", err)
	}
	if _, err := s.Get(second.ID); err != nil {
		t.Errorf("Expected second dataset kept: %v", err)
	}
	if _, err := s.Get(third.ID); err != nil {
		t.Errorf("Expected third dataset kept: %v", err)
	}
}

func TestStore_List(t *testing.T) {
	s := newTestStore()

	now := time.Now()
	tick := 0
	s.now = func() time.Time {
		tick++
		return now.Add(time.Duration(tick) * time.Second)
	}

	s.Create("a.csv", []byte(sampleCSV))
	s.Create("b.csv", []byte(sampleCSV))

	list := s.List()
	if len(list) != 2 {
		t.Fatalf("Expected 2 datasets, got %d", len(list))
	}
	if list[0].Name != "b.csv" {
		t.Errorf("Expected newest first, got %q", list[0].Name)
	}
}
