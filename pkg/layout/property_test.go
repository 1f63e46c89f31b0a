package layout

import (
	"fmt"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/linkviz/link/pkg/graph"
)

// randomGraph builds a directed graph with n nodes and the given edge pairs
// taken modulo n.
func randomGraph(n int, pairs []int) *graph.Graph {
	g := graph.New(true)
	for i := 0; i < n; i++ {
		g.CreateNode(fmt.Sprintf("n%d", i), nil, nil)
	}
	for i := 0; i+1 < len(pairs); i += 2 {
		from := uint64(pairs[i]%n) + 1
		to := uint64(pairs[i+1]%n) + 1
		g.CreateEdge(from, to, "LINK", nil, 1.0)
	}
	return g
}

func inBounds(positions map[uint64]Position, cfg Config) bool {
	const eps = 0.001
	for _, pos := range positions {
		if pos.X < cfg.Padding-eps || pos.X > cfg.Width-cfg.Padding+eps {
			return false
		}
		if pos.Y < cfg.Padding-eps || pos.Y > cfg.Height-cfg.Padding+eps {
			return false
		}
	}
	return true
}

func TestLayoutProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50

	properties := gopter.NewProperties(parameters)

	properties.Property("every layout places all nodes within the canvas", prop.ForAll(
		func(n int, pairs []int, seed int64) bool {
			g := randomGraph(n, pairs)
			cfg := DefaultConfig()
			cfg.Seed = seed
			cfg.Iterations = 10

			for _, name := range Algorithms() {
				l, err := New(name, cfg)
				if err != nil {
					return false
				}
				positions, err := l.ComputeLayout(g, g.NodeIDs())
				if err != nil {
					return false
				}
				if len(positions) != g.NodeCount() {
					return false
				}
				if !inBounds(positions, cfg) {
					return false
				}
			}
			return true
		},
		gen.IntRange(1, 20),
		gen.SliceOfN(10, gen.IntRange(0, 100)),
		gen.Int64(),
	))

	properties.Property("same seed reproduces the force layout", prop.ForAll(
		func(n int, pairs []int, seed int64) bool {
			g := randomGraph(n, pairs)
			cfg := DefaultConfig()
			cfg.Seed = seed
			cfg.Iterations = 10

			first, err := NewForceDirectedLayout(cfg).ComputeLayout(g, g.NodeIDs())
			if err != nil {
				return false
			}
			second, err := NewForceDirectedLayout(cfg).ComputeLayout(g, g.NodeIDs())
			if err != nil {
				return false
			}
			for nodeID, pos := range first {
				if second[nodeID] != pos {
					return false
				}
			}
			return true
		},
		gen.IntRange(2, 15),
		gen.SliceOfN(8, gen.IntRange(0, 100)),
		gen.Int64(),
	))

	properties.TestingRun(t)
}
