package graph

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestGraphInvariants uses property-based testing to verify invariants that
// must hold for any sequence of graph operations.
func TestGraphInvariants(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping property-based test in short mode")
	}

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50

	properties := gopter.NewProperties(parameters)

	// Property 1: edge creation only succeeds when both endpoints exist
	properties.Property("edge creation requires existing endpoints", prop.ForAll(
		func(keys []string, fromIdx, toIdx uint8) bool {
			g := New(true)
			for _, key := range keys {
				g.CreateNode(key, nil, nil)
			}

			fromID := uint64(fromIdx)
			toID := uint64(toIdx)
			_, err := g.CreateEdge(fromID, toID, "LINKS", nil, 1.0)

			if err == nil {
				_, fromErr := g.GetNode(fromID)
				_, toErr := g.GetNode(toID)
				return fromErr == nil && toErr == nil
			}
			return true
		},
		gen.SliceOf(gen.AlphaString()),
		gen.UInt8(),
		gen.UInt8(),
	))

	// Property 2: create then delete leaves no trace in counts or adjacency
	properties.Property("create then delete restores counts", prop.ForAll(
		func(key string, label string) bool {
			g := New(false)
			anchor := g.CreateNode("anchor", nil, nil)

			before := g.Stats()

			node := g.CreateNode(key, []string{label}, nil)
			if _, err := g.CreateEdge(anchor.ID, node.ID, "LINKS", nil, 1.0); err != nil {
				return false
			}
			if err := g.DeleteNode(node.ID); err != nil {
				return false
			}

			after := g.Stats()
			return after.NodeCount == before.NodeCount &&
				after.EdgeCount == before.EdgeCount &&
				len(g.Neighbors(anchor.ID)) == 0
		},
		gen.AlphaString(),
		gen.AlphaString(),
	))

	// Property 3: undirected neighbor relation is symmetric
	properties.Property("undirected neighbors are symmetric", prop.ForAll(
		func(pairs []bool) bool {
			g := New(false)
			var ids []uint64
			for i := 0; i < 5; i++ {
				ids = append(ids, g.CreateNode(string(rune('a'+i)), nil, nil).ID)
			}
			for i, connect := range pairs {
				if !connect {
					continue
				}
				from := ids[i%len(ids)]
				to := ids[(i*3+1)%len(ids)]
				if from == to {
					continue
				}
				if _, err := g.CreateEdge(from, to, "LINKS", nil, 1.0); err != nil {
					return false
				}
			}

			for _, id := range ids {
				for _, neighbor := range g.Neighbors(id) {
					found := false
					for _, back := range g.Neighbors(neighbor) {
						if back == id {
							found = true
							break
						}
					}
					if !found {
						return false
					}
				}
			}
			return true
		},
		gen.SliceOf(gen.Bool()),
	))

	// Property 4: node IDs are strictly increasing and never reused
	properties.Property("node IDs never reused after delete", prop.ForAll(
		func(n uint8) bool {
			g := New(true)
			count := int(n%10) + 1

			var lastID uint64
			for i := 0; i < count; i++ {
				node := g.CreateNode("x", nil, nil)
				if node.ID <= lastID {
					return false
				}
				lastID = node.ID
				if err := g.DeleteNode(node.ID); err != nil {
					return false
				}
			}
			return true
		},
		gen.UInt8(),
	))

	properties.TestingRun(t)
}
