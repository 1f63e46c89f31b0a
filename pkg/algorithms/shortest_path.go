package algorithms

import (
	"container/list"

	"github.com/linkviz/link/pkg/graph"
)

// ShortestPath finds the shortest path between two nodes using bidirectional
// BFS, roughly twice as fast as unidirectional BFS on large graphs. The
// backward search walks incoming edges on directed graphs so the returned
// path respects edge direction. Returns nil when no path exists.
func ShortestPath(g *graph.Graph, startID, endID uint64) ([]uint64, error) {
	if _, err := g.GetNode(startID); err != nil {
		return nil, err
	}
	if _, err := g.GetNode(endID); err != nil {
		return nil, err
	}
	if startID == endID {
		return []uint64{startID}, nil
	}

	// Forward search from start
	forwardQueue := list.New()
	forwardVisited := make(map[uint64]uint64) // node -> parent
	forwardQueue.PushBack(startID)
	forwardVisited[startID] = startID

	// Backward search from end
	backwardQueue := list.New()
	backwardVisited := make(map[uint64]uint64)
	backwardQueue.PushBack(endID)
	backwardVisited[endID] = endID

	for forwardQueue.Len() > 0 || backwardQueue.Len() > 0 {
		if forwardQueue.Len() > 0 {
			meetingNode, found := expandFrontier(g, DirectionOut, forwardQueue, forwardVisited, backwardVisited)
			if found {
				return reconstructPath(meetingNode, forwardVisited, backwardVisited), nil
			}
		}

		if backwardQueue.Len() > 0 {
			meetingNode, found := expandFrontier(g, DirectionIn, backwardQueue, backwardVisited, forwardVisited)
			if found {
				return reconstructPath(meetingNode, forwardVisited, backwardVisited), nil
			}
		}
	}

	return nil, nil // No path found
}

// expandFrontier expands one BFS level from the queue. Returns the meeting
// node and true when the two searches touch.
func expandFrontier(
	g *graph.Graph,
	dir NeighborDirection,
	queue *list.List,
	visited map[uint64]uint64,
	otherVisited map[uint64]uint64,
) (uint64, bool) {
	levelSize := queue.Len()
	for i := 0; i < levelSize; i++ {
		currentID, ok := queue.Remove(queue.Front()).(uint64)
		if !ok {
			continue
		}

		for _, s := range stepsFrom(g, currentID, dir) {
			neighborID := s.nodeID

			if _, found := otherVisited[neighborID]; found {
				visited[neighborID] = currentID
				return neighborID, true
			}

			if _, seen := visited[neighborID]; !seen {
				visited[neighborID] = currentID
				queue.PushBack(neighborID)
			}
		}
	}

	return 0, false
}

// reconstructPath builds the start-to-end path through the meeting node.
func reconstructPath(
	meetingNode uint64,
	forwardVisited map[uint64]uint64,
	backwardVisited map[uint64]uint64,
) []uint64 {
	// Forward path (start -> meeting)
	forwardPath := make([]uint64, 0)
	node := meetingNode
	for node != forwardVisited[node] {
		forwardPath = append(forwardPath, node)
		node = forwardVisited[node]
	}
	forwardPath = append(forwardPath, node)

	for i, j := 0, len(forwardPath)-1; i < j; i, j = i+1, j-1 {
		forwardPath[i], forwardPath[j] = forwardPath[j], forwardPath[i]
	}

	// Backward path (meeting -> end), excluding the meeting node
	backwardPath := make([]uint64, 0)
	node = backwardVisited[meetingNode]
	if node != meetingNode {
		for node != backwardVisited[node] {
			backwardPath = append(backwardPath, node)
			node = backwardVisited[node]
		}
		backwardPath = append(backwardPath, node)
	}

	return append(forwardPath, backwardPath...)
}

// AllShortestPaths finds hop distances from a source node to every
// reachable node using BFS.
func AllShortestPaths(g *graph.Graph, sourceID uint64) (map[uint64]int, error) {
	if _, err := g.GetNode(sourceID); err != nil {
		return nil, err
	}

	distances := make(map[uint64]int)
	distances[sourceID] = 0

	queue := list.New()
	queue.PushBack(sourceID)

	for queue.Len() > 0 {
		currentID, ok := queue.Remove(queue.Front()).(uint64)
		if !ok {
			continue
		}
		currentDist := distances[currentID]

		for _, s := range stepsFrom(g, currentID, DirectionOut) {
			if _, visited := distances[s.nodeID]; !visited {
				distances[s.nodeID] = currentDist + 1
				queue.PushBack(s.nodeID)
			}
		}
	}

	return distances, nil
}

// WeightedShortestPath finds the minimum-weight path using Dijkstra's
// algorithm. Returns (nil, 0, nil) when no path exists.
func WeightedShortestPath(g *graph.Graph, startID, endID uint64) ([]uint64, float64, error) {
	if _, err := g.GetNode(startID); err != nil {
		return nil, 0, err
	}
	if _, err := g.GetNode(endID); err != nil {
		return nil, 0, err
	}

	type pqItem struct {
		nodeID   uint64
		distance float64
	}

	distances := make(map[uint64]float64)
	parent := make(map[uint64]uint64)
	distances[startID] = 0
	parent[startID] = startID

	pq := []pqItem{{startID, 0}}

	for len(pq) > 0 {
		// Extract min (linear scan, fine at this scale)
		minIdx := 0
		for i := 1; i < len(pq); i++ {
			if pq[i].distance < pq[minIdx].distance {
				minIdx = i
			}
		}

		current := pq[minIdx]
		pq = append(pq[:minIdx], pq[minIdx+1:]...)

		if current.nodeID == endID {
			path := make([]uint64, 0)
			node := endID
			for node != startID {
				path = append(path, node)
				node = parent[node]
			}
			path = append(path, startID)

			for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
				path[i], path[j] = path[j], path[i]
			}

			return path, distances[endID], nil
		}

		for _, s := range stepsFrom(g, current.nodeID, DirectionOut) {
			newDist := current.distance + s.weight

			if oldDist, visited := distances[s.nodeID]; !visited || newDist < oldDist {
				distances[s.nodeID] = newDist
				parent[s.nodeID] = current.nodeID
				pq = append(pq, pqItem{s.nodeID, newDist})
			}
		}
	}

	return nil, 0, nil // No path found
}
