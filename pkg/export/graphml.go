package export

import (
	"encoding/xml"
	"fmt"
	"sort"
	"strings"

	"github.com/linkviz/link/pkg/graph"
	"github.com/linkviz/link/pkg/layout"
)

// GraphML document structure, http://graphml.graphdrawing.org/xmlns.
type graphmlDoc struct {
	XMLName xml.Name     `xml:"graphml"`
	Xmlns   string       `xml:"xmlns,attr"`
	Keys    []graphmlKey `xml:"key"`
	Graph   graphmlGraph `xml:"graph"`
}

type graphmlKey struct {
	ID       string `xml:"id,attr"`
	For      string `xml:"for,attr"`
	AttrName string `xml:"attr.name,attr"`
	AttrType string `xml:"attr.type,attr"`
}

type graphmlGraph struct {
	ID          string        `xml:"id,attr"`
	EdgeDefault string        `xml:"edgedefault,attr"`
	Nodes       []graphmlNode `xml:"node"`
	Edges       []graphmlEdge `xml:"edge"`
}

type graphmlNode struct {
	ID   string        `xml:"id,attr"`
	Data []graphmlData `xml:"data"`
}

type graphmlEdge struct {
	ID     string        `xml:"id,attr"`
	Source string        `xml:"source,attr"`
	Target string        `xml:"target,attr"`
	Data   []graphmlData `xml:"data"`
}

type graphmlData struct {
	Key   string `xml:"key,attr"`
	Value string `xml:",chardata"`
}

// GraphML serializes a graph to GraphML, suitable for Gephi and yEd.
// Node keys, labels, coordinates, edge types and weights travel as data keys;
// typed properties are flattened to strings.
func GraphML(g *graph.Graph, positions map[uint64]layout.Position) ([]byte, error) {
	doc := graphmlDoc{
		Xmlns: "http://graphml.graphdrawing.org/xmlns",
		Keys: []graphmlKey{
			{ID: "key", For: "node", AttrName: "key", AttrType: "string"},
			{ID: "labels", For: "node", AttrName: "labels", AttrType: "string"},
			{ID: "x", For: "node", AttrName: "x", AttrType: "double"},
			{ID: "y", For: "node", AttrName: "y", AttrType: "double"},
			{ID: "type", For: "edge", AttrName: "type", AttrType: "string"},
			{ID: "weight", For: "edge", AttrName: "weight", AttrType: "double"},
		},
	}

	edgeDefault := "undirected"
	if g.Directed() {
		edgeDefault = "directed"
	}
	doc.Graph = graphmlGraph{ID: "G", EdgeDefault: edgeDefault}

	propKeys := make(map[string]bool)

	for _, nodeID := range g.NodeIDs() {
		node, err := g.GetNode(nodeID)
		if err != nil {
			continue
		}

		data := []graphmlData{
			{Key: "key", Value: node.Key},
		}
		if len(node.Labels) > 0 {
			data = append(data, graphmlData{Key: "labels", Value: strings.Join(node.Labels, ";")})
		}
		if pos, ok := positions[node.ID]; ok {
			data = append(data,
				graphmlData{Key: "x", Value: fmt.Sprintf("%g", pos.X)},
				graphmlData{Key: "y", Value: fmt.Sprintf("%g", pos.Y)},
			)
		}
		data = append(data, propData(node.Properties, "n_", propKeys)...)

		doc.Graph.Nodes = append(doc.Graph.Nodes, graphmlNode{
			ID:   fmt.Sprintf("n%d", node.ID),
			Data: data,
		})
	}

	for _, edgeID := range g.EdgeIDs() {
		edge, err := g.GetEdge(edgeID)
		if err != nil {
			continue
		}

		data := []graphmlData{
			{Key: "type", Value: edge.Type},
			{Key: "weight", Value: fmt.Sprintf("%g", edge.Weight)},
		}
		data = append(data, propData(edge.Properties, "e_", propKeys)...)

		doc.Graph.Edges = append(doc.Graph.Edges, graphmlEdge{
			ID:     fmt.Sprintf("e%d", edge.ID),
			Source: fmt.Sprintf("n%d", edge.FromNodeID),
			Target: fmt.Sprintf("n%d", edge.ToNodeID),
			Data:   data,
		})
	}

	// Declare the property keys discovered during the walk
	declared := make([]string, 0, len(propKeys))
	for key := range propKeys {
		declared = append(declared, key)
	}
	sort.Strings(declared)
	for _, key := range declared {
		forWhat := "node"
		if strings.HasPrefix(key, "e_") {
			forWhat = "edge"
		}
		doc.Keys = append(doc.Keys, graphmlKey{
			ID: key, For: forWhat, AttrName: strings.TrimPrefix(strings.TrimPrefix(key, "n_"), "e_"), AttrType: "string",
		})
	}

	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), out...), nil
}

func propData(props map[string]graph.Value, prefix string, seen map[string]bool) []graphmlData {
	if len(props) == 0 {
		return nil
	}
	keys := make([]string, 0, len(props))
	for key := range props {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	data := make([]graphmlData, 0, len(keys))
	for _, key := range keys {
		id := prefix + key
		seen[id] = true
		data = append(data, graphmlData{Key: id, Value: fmt.Sprintf("%v", props[key].Interface())})
	}
	return data
}
