// Package graphql exposes a read-only GraphQL API over a built graph.
package graphql

import (
	"encoding/json"
	"fmt"
	"sort"

	gql "github.com/graphql-go/graphql"

	"github.com/linkviz/link/pkg/algorithms"
	"github.com/linkviz/link/pkg/graph"
)

// GraphSource resolves a dataset ID to its built graph. The API package
// implements this over the session store.
type GraphSource interface {
	GraphFor(datasetID string) (*graph.Graph, error)
}

// GenerateSchema builds the GraphQL schema. All queries take a datasetId
// argument so one endpoint serves every uploaded dataset.
func GenerateSchema(source GraphSource) (gql.Schema, error) {
	nodeType := createNodeType()
	edgeType := createEdgeType()
	statsType := createStatsType()
	pathType := createPathType(nodeType)

	datasetArg := gql.FieldConfigArgument{
		"datasetId": &gql.ArgumentConfig{
			Type: gql.NewNonNull(gql.ID),
		},
	}

	queryFields := gql.Fields{
		"health": &gql.Field{
			Type: gql.String,
			Resolve: func(p gql.ResolveParams) (interface{}, error) {
				return "ok", nil
			},
		},
		"node": &gql.Field{
			Type: nodeType,
			Args: withArgs(datasetArg, gql.FieldConfigArgument{
				"id": &gql.ArgumentConfig{Type: gql.NewNonNull(gql.Int)},
			}),
			Resolve: func(p gql.ResolveParams) (interface{}, error) {
				g, err := graphFromParams(source, p)
				if err != nil {
					return nil, err
				}
				return g.GetNode(uint64(p.Args["id"].(int)))
			},
		},
		"nodeByKey": &gql.Field{
			Type: nodeType,
			Args: withArgs(datasetArg, gql.FieldConfigArgument{
				"key": &gql.ArgumentConfig{Type: gql.NewNonNull(gql.String)},
			}),
			Resolve: func(p gql.ResolveParams) (interface{}, error) {
				g, err := graphFromParams(source, p)
				if err != nil {
					return nil, err
				}
				return g.FindNodeByKey(p.Args["key"].(string))
			},
		},
		"nodes": &gql.Field{
			Type: gql.NewList(nodeType),
			Args: withArgs(datasetArg, gql.FieldConfigArgument{
				"limit": &gql.ArgumentConfig{Type: gql.Int, DefaultValue: 100},
				"label": &gql.ArgumentConfig{Type: gql.String},
			}),
			Resolve: func(p gql.ResolveParams) (interface{}, error) {
				g, err := graphFromParams(source, p)
				if err != nil {
					return nil, err
				}
				return resolveNodes(g, p)
			},
		},
		"edges": &gql.Field{
			Type: gql.NewList(edgeType),
			Args: withArgs(datasetArg, gql.FieldConfigArgument{
				"limit": &gql.ArgumentConfig{Type: gql.Int, DefaultValue: 100},
			}),
			Resolve: func(p gql.ResolveParams) (interface{}, error) {
				g, err := graphFromParams(source, p)
				if err != nil {
					return nil, err
				}
				return resolveEdges(g, p)
			},
		},
		"neighbors": &gql.Field{
			Type: gql.NewList(nodeType),
			Args: withArgs(datasetArg, gql.FieldConfigArgument{
				"id":   &gql.ArgumentConfig{Type: gql.NewNonNull(gql.Int)},
				"hops": &gql.ArgumentConfig{Type: gql.Int, DefaultValue: 1},
			}),
			Resolve: func(p gql.ResolveParams) (interface{}, error) {
				g, err := graphFromParams(source, p)
				if err != nil {
					return nil, err
				}
				return resolveNeighbors(g, p)
			},
		},
		"shortestPath": &gql.Field{
			Type: pathType,
			Args: withArgs(datasetArg, gql.FieldConfigArgument{
				"source": &gql.ArgumentConfig{Type: gql.NewNonNull(gql.Int)},
				"target": &gql.ArgumentConfig{Type: gql.NewNonNull(gql.Int)},
			}),
			Resolve: func(p gql.ResolveParams) (interface{}, error) {
				g, err := graphFromParams(source, p)
				if err != nil {
					return nil, err
				}
				return resolveShortestPath(g, p)
			},
		},
		"stats": &gql.Field{
			Type: statsType,
			Args: datasetArg,
			Resolve: func(p gql.ResolveParams) (interface{}, error) {
				g, err := graphFromParams(source, p)
				if err != nil {
					return nil, err
				}
				return g.Stats(), nil
			},
		},
	}

	queryType := gql.NewObject(gql.ObjectConfig{
		Name:   "Query",
		Fields: queryFields,
	})

	schema, err := gql.NewSchema(gql.SchemaConfig{
		Query: queryType,
	})
	if err != nil {
		return gql.Schema{}, fmt.Errorf("failed to create schema: %w", err)
	}

	return schema, nil
}

func graphFromParams(source GraphSource, p gql.ResolveParams) (*graph.Graph, error) {
	id, _ := p.Args["datasetId"].(string)
	return source.GraphFor(id)
}

func withArgs(base, extra gql.FieldConfigArgument) gql.FieldConfigArgument {
	merged := gql.FieldConfigArgument{}
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range extra {
		merged[k] = v
	}
	return merged
}

func createNodeType() *gql.Object {
	return gql.NewObject(gql.ObjectConfig{
		Name: "Node",
		Fields: gql.Fields{
			"id": &gql.Field{
				Type: gql.NewNonNull(gql.Int),
				Resolve: func(p gql.ResolveParams) (interface{}, error) {
					if node, ok := p.Source.(*graph.Node); ok {
						return int(node.ID), nil
					}
					return nil, nil
				},
			},
			"key": &gql.Field{
				Type: gql.String,
				Resolve: func(p gql.ResolveParams) (interface{}, error) {
					if node, ok := p.Source.(*graph.Node); ok {
						return node.Key, nil
					}
					return nil, nil
				},
			},
			"labels": &gql.Field{
				Type: gql.NewList(gql.String),
				Resolve: func(p gql.ResolveParams) (interface{}, error) {
					if node, ok := p.Source.(*graph.Node); ok {
						return node.Labels, nil
					}
					return nil, nil
				},
			},
			"properties": &gql.Field{
				Type: gql.String, // JSON-encoded property map
				Resolve: func(p gql.ResolveParams) (interface{}, error) {
					node, ok := p.Source.(*graph.Node)
					if !ok {
						return nil, nil
					}
					return encodeProperties(node.Properties)
				},
			},
		},
	})
}

func createEdgeType() *gql.Object {
	return gql.NewObject(gql.ObjectConfig{
		Name: "Edge",
		Fields: gql.Fields{
			"id": &gql.Field{
				Type: gql.NewNonNull(gql.Int),
				Resolve: func(p gql.ResolveParams) (interface{}, error) {
					if edge, ok := p.Source.(*graph.Edge); ok {
						return int(edge.ID), nil
					}
					return nil, nil
				},
			},
			"from": &gql.Field{
				Type: gql.Int,
				Resolve: func(p gql.ResolveParams) (interface{}, error) {
					if edge, ok := p.Source.(*graph.Edge); ok {
						return int(edge.FromNodeID), nil
					}
					return nil, nil
				},
			},
			"to": &gql.Field{
				Type: gql.Int,
				Resolve: func(p gql.ResolveParams) (interface{}, error) {
					if edge, ok := p.Source.(*graph.Edge); ok {
						return int(edge.ToNodeID), nil
					}
					return nil, nil
				},
			},
			"type": &gql.Field{
				Type: gql.String,
				Resolve: func(p gql.ResolveParams) (interface{}, error) {
					if edge, ok := p.Source.(*graph.Edge); ok {
						return edge.Type, nil
					}
					return nil, nil
				},
			},
			"weight": &gql.Field{
				Type: gql.Float,
				Resolve: func(p gql.ResolveParams) (interface{}, error) {
					if edge, ok := p.Source.(*graph.Edge); ok {
						return edge.Weight, nil
					}
					return nil, nil
				},
			},
			"properties": &gql.Field{
				Type: gql.String,
				Resolve: func(p gql.ResolveParams) (interface{}, error) {
					edge, ok := p.Source.(*graph.Edge)
					if !ok {
						return nil, nil
					}
					return encodeProperties(edge.Properties)
				},
			},
		},
	})
}

func createStatsType() *gql.Object {
	return gql.NewObject(gql.ObjectConfig{
		Name: "Stats",
		Fields: gql.Fields{
			"nodeCount":     statField(func(s graph.Statistics) interface{} { return s.NodeCount }),
			"edgeCount":     statField(func(s graph.Statistics) interface{} { return s.EdgeCount }),
			"selfLoops":     statField(func(s graph.Statistics) interface{} { return s.SelfLoops }),
			"isolatedNodes": statField(func(s graph.Statistics) interface{} { return s.IsolatedNodes }),
			"maxDegree":     statField(func(s graph.Statistics) interface{} { return s.MaxDegree }),
			"directed": &gql.Field{
				Type: gql.Boolean,
				Resolve: func(p gql.ResolveParams) (interface{}, error) {
					if s, ok := p.Source.(graph.Statistics); ok {
						return s.Directed, nil
					}
					return nil, nil
				},
			},
			"density": &gql.Field{
				Type: gql.Float,
				Resolve: func(p gql.ResolveParams) (interface{}, error) {
					if s, ok := p.Source.(graph.Statistics); ok {
						return s.Density, nil
					}
					return nil, nil
				},
			},
			"avgDegree": &gql.Field{
				Type: gql.Float,
				Resolve: func(p gql.ResolveParams) (interface{}, error) {
					if s, ok := p.Source.(graph.Statistics); ok {
						return s.AvgDegree, nil
					}
					return nil, nil
				},
			},
		},
	})
}

func statField(get func(graph.Statistics) interface{}) *gql.Field {
	return &gql.Field{
		Type: gql.Int,
		Resolve: func(p gql.ResolveParams) (interface{}, error) {
			if s, ok := p.Source.(graph.Statistics); ok {
				return get(s), nil
			}
			return nil, nil
		},
	}
}

// pathResult carries a resolved shortest path.
type pathResult struct {
	Nodes  []*graph.Node
	Length int
}

func createPathType(nodeType *gql.Object) *gql.Object {
	return gql.NewObject(gql.ObjectConfig{
		Name: "Path",
		Fields: gql.Fields{
			"nodes": &gql.Field{
				Type: gql.NewList(nodeType),
				Resolve: func(p gql.ResolveParams) (interface{}, error) {
					if path, ok := p.Source.(*pathResult); ok {
						return path.Nodes, nil
					}
					return nil, nil
				},
			},
			"length": &gql.Field{
				Type: gql.Int,
				Resolve: func(p gql.ResolveParams) (interface{}, error) {
					if path, ok := p.Source.(*pathResult); ok {
						return path.Length, nil
					}
					return nil, nil
				},
			},
		},
	})
}

func resolveNodes(g *graph.Graph, p gql.ResolveParams) (interface{}, error) {
	limit, _ := p.Args["limit"].(int)
	label, _ := p.Args["label"].(string)

	var nodes []*graph.Node
	if label != "" {
		nodes = g.FindNodesByLabel(label)
		sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID < nodes[j].ID })
	} else {
		for _, id := range g.NodeIDs() {
			node, err := g.GetNode(id)
			if err != nil {
				continue
			}
			nodes = append(nodes, node)
		}
	}

	if limit > 0 && len(nodes) > limit {
		nodes = nodes[:limit]
	}
	return nodes, nil
}

func resolveEdges(g *graph.Graph, p gql.ResolveParams) (interface{}, error) {
	limit, _ := p.Args["limit"].(int)

	var edges []*graph.Edge
	for _, id := range g.EdgeIDs() {
		edge, err := g.GetEdge(id)
		if err != nil {
			continue
		}
		edges = append(edges, edge)
		if limit > 0 && len(edges) >= limit {
			break
		}
	}
	return edges, nil
}

func resolveNeighbors(g *graph.Graph, p gql.ResolveParams) (interface{}, error) {
	id := uint64(p.Args["id"].(int))
	hops, _ := p.Args["hops"].(int)
	if hops < 1 {
		hops = 1
	}

	opts := algorithms.DefaultKHopOptions()
	opts.MaxHops = hops
	opts.Direction = algorithms.DirectionBoth

	result, err := algorithms.KHopNeighbours(g, id, opts)
	if err != nil {
		return nil, err
	}

	var nodes []*graph.Node
	for hop := 1; hop <= hops; hop++ {
		for _, nid := range result.ByHop[hop] {
			node, err := g.GetNode(nid)
			if err != nil {
				continue
			}
			nodes = append(nodes, node)
		}
	}
	return nodes, nil
}

func resolveShortestPath(g *graph.Graph, p gql.ResolveParams) (interface{}, error) {
	source := uint64(p.Args["source"].(int))
	target := uint64(p.Args["target"].(int))

	ids, err := algorithms.ShortestPath(g, source, target)
	if err != nil {
		return nil, err
	}
	if ids == nil {
		return nil, nil
	}

	path := &pathResult{Length: len(ids) - 1}
	for _, id := range ids {
		node, err := g.GetNode(id)
		if err != nil {
			return nil, err
		}
		path.Nodes = append(path.Nodes, node)
	}
	return path, nil
}

func encodeProperties(props map[string]graph.Value) (string, error) {
	out := make(map[string]any, len(props))
	for k, v := range props {
		out[k] = v.Interface()
	}
	data, err := json.Marshal(out)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
