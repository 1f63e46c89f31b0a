package graphql

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/linkviz/link/pkg/graph"
)

type fakeSource struct {
	graphs map[string]*graph.Graph
}

func (f *fakeSource) GraphFor(datasetID string) (*graph.Graph, error) {
	g, ok := f.graphs[datasetID]
	if !ok {
		return nil, fmt.Errorf("dataset %s not found", datasetID)
	}
	return g, nil
}

func buildTestSource() (*fakeSource, *graph.Graph) {
	g := graph.New(true)
	alice := g.CreateNode("alice", []string{"Person"}, map[string]graph.Value{
		"age": graph.IntValue(30),
	})
	bob := g.CreateNode("bob", []string{"Person"}, nil)
	corp := g.CreateNode("techcorp", []string{"Company"}, nil)
	g.CreateEdge(alice.ID, bob.ID, "KNOWS", nil, 1.0)
	g.CreateEdge(bob.ID, corp.ID, "WORKS_AT", nil, 1.0)

	return &fakeSource{graphs: map[string]*graph.Graph{"d1": g}}, g
}

func TestSchemaGeneration(t *testing.T) {
	source, _ := buildTestSource()

	schema, err := GenerateSchema(source)
	if err != nil {
		t.Fatalf("GenerateSchema() error = %v", err)
	}
	if schema.QueryType() == nil {
		t.Error("Schema missing Query type")
	}
}

func TestQueryNode(t *testing.T) {
	source, _ := buildTestSource()
	schema, _ := GenerateSchema(source)

	result := ExecuteQuery(`{ node(datasetId: "d1", id: 1) { id key labels } }`, schema)
	if result.HasErrors() {
		t.Fatalf("Query failed: %v", result.Errors)
	}

	data := result.Data.(map[string]interface{})
	node := data["node"].(map[string]interface{})
	if node["key"] != "alice" {
		t.Errorf("Expected key alice, got %v", node["key"])
	}
}

func TestQueryNodeByKey(t *testing.T) {
	source, _ := buildTestSource()
	schema, _ := GenerateSchema(source)

	result := ExecuteQuery(`{ nodeByKey(datasetId: "d1", key: "bob") { id } }`, schema)
	if result.HasErrors() {
		t.Fatalf("Query failed: %v", result.Errors)
	}
	node := result.Data.(map[string]interface{})["nodeByKey"].(map[string]interface{})
	if node["id"] != 2 {
		t.Errorf("Expected node 2, got %v", node["id"])
	}
}

func TestQueryNodesWithLabel(t *testing.T) {
	source, _ := buildTestSource()
	schema, _ := GenerateSchema(source)

	result := ExecuteQuery(`{ nodes(datasetId: "d1", label: "Person") { key } }`, schema)
	if result.HasErrors() {
		t.Fatalf("Query failed: %v", result.Errors)
	}
	nodes := result.Data.(map[string]interface{})["nodes"].([]interface{})
	if len(nodes) != 2 {
		t.Errorf("Expected 2 Person nodes, got %d", len(nodes))
	}
}

func TestQueryShortestPath(t *testing.T) {
	source, _ := buildTestSource()
	schema, _ := GenerateSchema(source)

	result := ExecuteQuery(`{ shortestPath(datasetId: "d1", source: 1, target: 3) { length nodes { key } } }`, schema)
	if result.HasErrors() {
		t.Fatalf("Query failed: %v", result.Errors)
	}
	path := result.Data.(map[string]interface{})["shortestPath"].(map[string]interface{})
	if path["length"] != 2 {
		t.Errorf("Expected path length 2, got %v", path["length"])
	}
}

func TestQueryNeighbors(t *testing.T) {
	source, _ := buildTestSource()
	schema, _ := GenerateSchema(source)

	result := ExecuteQuery(`{ neighbors(datasetId: "d1", id: 2, hops: 1) { key } }`, schema)
	if result.HasErrors() {
		t.Fatalf("Query failed: %v", result.Errors)
	}
	neighbors := result.Data.(map[string]interface{})["neighbors"].([]interface{})
	if len(neighbors) != 2 {
		t.Errorf("Expected 2 neighbors of bob, got %d", len(neighbors))
	}
}

func TestQueryStats(t *testing.T) {
	source, _ := buildTestSource()
	schema, _ := GenerateSchema(source)

	result := ExecuteQuery(`{ stats(datasetId: "d1") { nodeCount edgeCount directed } }`, schema)
	if result.HasErrors() {
		t.Fatalf("Query failed: %v", result.Errors)
	}
	stats := result.Data.(map[string]interface{})["stats"].(map[string]interface{})
	if stats["nodeCount"] != 3 || stats["edgeCount"] != 2 {
		t.Errorf("Unexpected stats: %v", stats)
	}
	if stats["directed"] != true {
		t.Error("Expected directed graph")
	}
}

func TestQueryUnknownDataset(t *testing.T) {
	source, _ := buildTestSource()
	schema, _ := GenerateSchema(source)

	result := ExecuteQuery(`{ stats(datasetId: "missing") { nodeCount } }`, schema)
	if !result.HasErrors() {
		t.Error("Expected error for unknown dataset")
	}
}

func TestGraphQLHandler(t *testing.T) {
	source, _ := buildTestSource()
	schema, _ := GenerateSchema(source)
	handler := NewGraphQLHandler(schema)

	body, _ := json.Marshal(GraphQLRequest{
		Query: `{ node(datasetId: "d1", id: 1) { key } }`,
	})
	req := httptest.NewRequest(http.MethodPost, "/graphql", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	var resp GraphQLResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(resp.Errors) != 0 {
		t.Fatalf("Unexpected errors: %v", resp.Errors)
	}
}

func TestGraphQLHandler_MethodNotAllowed(t *testing.T) {
	source, _ := buildTestSource()
	schema, _ := GenerateSchema(source)
	handler := NewGraphQLHandler(schema)

	req := httptest.NewRequest(http.MethodGet, "/graphql", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected 405, got %d", rec.Code)
	}
}
