package layout

import (
	"math"
	"testing"

	"github.com/linkviz/link/pkg/graph"
)

func buildLayoutGraph(t *testing.T) *graph.Graph {
	t.Helper()
	g := graph.New(true)
	for _, key := range []string{"a", "b", "c", "d", "e"} {
		g.CreateNode(key, nil, nil)
	}
	edges := [][2]uint64{{1, 2}, {1, 3}, {2, 4}, {3, 4}}
	for _, e := range edges {
		if _, err := g.CreateEdge(e[0], e[1], "LINK", nil, 1.0); err != nil {
			t.Fatalf("CreateEdge failed: %v", err)
		}
	}
	return g
}

func assertWithinBounds(t *testing.T, positions map[uint64]Position, cfg Config) {
	t.Helper()
	for nodeID, pos := range positions {
		if pos.X < cfg.Padding-0.001 || pos.X > cfg.Width-cfg.Padding+0.001 {
			t.Errorf("Node %d X=%f outside [%f, %f]", nodeID, pos.X, cfg.Padding, cfg.Width-cfg.Padding)
		}
		if pos.Y < cfg.Padding-0.001 || pos.Y > cfg.Height-cfg.Padding+0.001 {
			t.Errorf("Node %d Y=%f outside [%f, %f]", nodeID, pos.Y, cfg.Padding, cfg.Height-cfg.Padding)
		}
	}
}

func TestForceDirectedLayout(t *testing.T) {
	g := buildLayoutGraph(t)
	cfg := DefaultConfig()

	positions, err := NewForceDirectedLayout(cfg).ComputeLayout(g, g.NodeIDs())
	if err != nil {
		t.Fatalf("ComputeLayout failed: %v", err)
	}

	if len(positions) != 5 {
		t.Fatalf("Expected 5 positions, got %d", len(positions))
	}
	assertWithinBounds(t, positions, cfg)
}

func TestForceDirectedLayout_Deterministic(t *testing.T) {
	g := buildLayoutGraph(t)
	cfg := DefaultConfig()
	cfg.Seed = 42

	first, err := NewForceDirectedLayout(cfg).ComputeLayout(g, g.NodeIDs())
	if err != nil {
		t.Fatalf("ComputeLayout failed: %v", err)
	}
	second, err := NewForceDirectedLayout(cfg).ComputeLayout(g, g.NodeIDs())
	if err != nil {
		t.Fatalf("ComputeLayout failed: %v", err)
	}

	for nodeID, pos := range first {
		if second[nodeID] != pos {
			t.Errorf("Node %d moved between identical runs: %v vs %v", nodeID, pos, second[nodeID])
		}
	}
}

func TestForceDirectedLayout_SingleNode(t *testing.T) {
	g := graph.New(false)
	g.CreateNode("only", nil, nil)
	cfg := DefaultConfig()

	positions, err := NewForceDirectedLayout(cfg).ComputeLayout(g, g.NodeIDs())
	if err != nil {
		t.Fatalf("ComputeLayout failed: %v", err)
	}

	pos := positions[1]
	if pos.X != cfg.Width/2 || pos.Y != cfg.Height/2 {
		t.Errorf("Expected centered single node, got %v", pos)
	}
}

func TestForceDirectedLayout_EmptyGraph(t *testing.T) {
	g := graph.New(false)

	positions, err := NewForceDirectedLayout(DefaultConfig()).ComputeLayout(g, g.NodeIDs())
	if err != nil {
		t.Fatalf("ComputeLayout failed: %v", err)
	}
	if len(positions) != 0 {
		t.Errorf("Expected no positions, got %d", len(positions))
	}
}

func TestCircularLayout(t *testing.T) {
	g := buildLayoutGraph(t)
	cfg := DefaultConfig()

	positions, err := NewCircularLayout(cfg).ComputeLayout(g, g.NodeIDs())
	if err != nil {
		t.Fatalf("ComputeLayout failed: %v", err)
	}

	centerX := cfg.Width / 2
	centerY := cfg.Height / 2
	wantRadius := math.Min(centerX, centerY) - cfg.Padding

	for nodeID, pos := range positions {
		dx := pos.X - centerX
		dy := pos.Y - centerY
		radius := math.Sqrt(dx*dx + dy*dy)
		if math.Abs(radius-wantRadius) > 0.001 {
			t.Errorf("Node %d at radius %f, want %f", nodeID, radius, wantRadius)
		}
	}
}

func TestHierarchicalLayout(t *testing.T) {
	g := buildLayoutGraph(t)
	cfg := DefaultConfig()

	positions, err := NewHierarchicalLayout(cfg).ComputeLayout(g, g.NodeIDs())
	if err != nil {
		t.Fatalf("ComputeLayout failed: %v", err)
	}

	if len(positions) != 5 {
		t.Fatalf("Expected 5 positions, got %d", len(positions))
	}

	// Node 1 is the only root of the diamond; children sit strictly below
	if positions[2].Y <= positions[1].Y {
		t.Errorf("Expected child below root: root Y=%f child Y=%f", positions[1].Y, positions[2].Y)
	}
	if positions[2].Y != positions[3].Y {
		t.Errorf("Expected siblings on the same level: %f vs %f", positions[2].Y, positions[3].Y)
	}
	if positions[4].Y <= positions[2].Y {
		t.Errorf("Expected grandchild below children")
	}
	assertWithinBounds(t, positions, cfg)
}

func TestHierarchicalLayout_CycleFallsBack(t *testing.T) {
	g := graph.New(true)
	g.CreateNode("a", nil, nil)
	g.CreateNode("b", nil, nil)
	g.CreateEdge(1, 2, "LINK", nil, 1.0)
	g.CreateEdge(2, 1, "LINK", nil, 1.0)

	positions, err := NewHierarchicalLayout(DefaultConfig()).ComputeLayout(g, g.NodeIDs())
	if err != nil {
		t.Fatalf("ComputeLayout failed: %v", err)
	}
	if len(positions) != 2 {
		t.Errorf("Expected both cycle members placed, got %d", len(positions))
	}
}

func TestNew_UnknownAlgorithm(t *testing.T) {
	if _, err := New("spring", DefaultConfig()); err == nil {
		t.Error("Expected error for unknown layout algorithm")
	}

	for _, name := range Algorithms() {
		if _, err := New(name, DefaultConfig()); err != nil {
			t.Errorf("Expected %q to resolve, got %v", name, err)
		}
	}
}

func TestNormalizePositions(t *testing.T) {
	positions := map[uint64]Position{
		1: {X: -500, Y: -500},
		2: {X: 5000, Y: 5000},
	}

	normalized := normalizePositions(positions, 1000, 1000, 50)

	if normalized[1].X != 50 || normalized[1].Y != 50 {
		t.Errorf("Expected min corner at padding, got %v", normalized[1])
	}
	if normalized[2].X != 950 || normalized[2].Y != 950 {
		t.Errorf("Expected max corner at width-padding, got %v", normalized[2])
	}
}
