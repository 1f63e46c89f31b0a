package layout

import (
	"math"

	"github.com/linkviz/link/pkg/graph"
)

// CircularLayout arranges nodes evenly on a circle in node-ID order.
type CircularLayout struct {
	config Config
}

// NewCircularLayout creates a new circular layout
func NewCircularLayout(config Config) *CircularLayout {
	if config.Padding == 0 {
		config.Padding = 50
	}
	return &CircularLayout{config: config}
}

// ComputeLayout arranges nodes in a circle
func (cl *CircularLayout) ComputeLayout(g *graph.Graph, nodeIDs []uint64) (map[uint64]Position, error) {
	positions := make(map[uint64]Position)

	if len(nodeIDs) == 0 {
		return positions, nil
	}

	centerX := cl.config.Width / 2
	centerY := cl.config.Height / 2
	radius := math.Min(centerX, centerY) - cl.config.Padding

	if len(nodeIDs) == 1 {
		positions[nodeIDs[0]] = Position{X: centerX, Y: centerY}
		return positions, nil
	}

	angleStep := 2 * math.Pi / float64(len(nodeIDs))

	for i, nodeID := range nodeIDs {
		angle := float64(i) * angleStep
		positions[nodeID] = Position{
			X: centerX + radius*math.Cos(angle),
			Y: centerY + radius*math.Sin(angle),
		}
	}

	return positions, nil
}
