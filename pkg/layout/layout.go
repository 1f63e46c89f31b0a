package layout

import (
	"fmt"

	"github.com/linkviz/link/pkg/graph"
)

// Position represents a 2D coordinate
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Config configures layout parameters
type Config struct {
	Width      float64 `json:"width"`  // Canvas width
	Height     float64 `json:"height"` // Canvas height
	Iterations int     `json:"iterations"`
	Padding    float64 `json:"padding"` // Padding from edges
	Seed       int64   `json:"seed"`    // RNG seed, same seed gives same layout
}

// DefaultConfig returns a canvas suitable for browser rendering.
func DefaultConfig() Config {
	return Config{
		Width:      1200,
		Height:     800,
		Iterations: 50,
		Padding:    50,
		Seed:       1,
	}
}

// Layout computes node positions for a graph.
type Layout interface {
	ComputeLayout(g *graph.Graph, nodeIDs []uint64) (map[uint64]Position, error)
}

// Supported layout algorithm names.
const (
	AlgorithmForce        = "force"
	AlgorithmCircular     = "circular"
	AlgorithmHierarchical = "hierarchical"
)

// New returns the named layout algorithm.
func New(algorithm string, config Config) (Layout, error) {
	switch algorithm {
	case AlgorithmForce:
		return NewForceDirectedLayout(config), nil
	case AlgorithmCircular:
		return NewCircularLayout(config), nil
	case AlgorithmHierarchical:
		return NewHierarchicalLayout(config), nil
	default:
		return nil, fmt.Errorf("unknown layout algorithm %q", algorithm)
	}
}

// Algorithms lists the supported layout names.
func Algorithms() []string {
	return []string{AlgorithmForce, AlgorithmCircular, AlgorithmHierarchical}
}
