package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linkviz/link/pkg/api"
	"github.com/linkviz/link/pkg/catalog"
	"github.com/linkviz/link/pkg/session"
	"github.com/linkviz/link/pkg/stream"
)

const karateClubSample = `source,target,weight
mr_hi,officer,1
mr_hi,actor_2,4
mr_hi,actor_3,2
actor_2,actor_3,5
actor_2,actor_4,3
actor_3,actor_4,2
officer,actor_9,3
officer,actor_10,2
actor_9,actor_10,4
`

func startTestServer(t *testing.T) (*httptest.Server, *stream.ChanTransport) {
	t.Helper()

	transport := stream.NewChanTransport(64)
	srv := api.NewServer(api.Options{
		Sessions: session.NewStore(session.DefaultConfig(), nil),
		Catalog:  catalog.NewMemoryStore(),
		Bus:      stream.NewBus(transport),
	})
	return httptest.NewServer(srv.Handler()), transport
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, v), "body: %s", data)
}

// TestCompleteUserWorkflow walks the whole flow a user would: upload a CSV,
// inspect it, parse, map columns, lay out the graph, analyze and export.
func TestCompleteUserWorkflow(t *testing.T) {
	server, transport := startTestServer(t)
	defer server.Close()

	baseURL := server.URL

	// Step 1: upload
	resp, err := http.Post(baseURL+"/api/v1/datasets?name=karate.csv", "text/csv",
		strings.NewReader(karateClubSample))
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var upload struct {
		ID string `json:"id"`
	}
	decodeBody(t, resp, &upload)
	require.NotEmpty(t, upload.ID)

	// Step 2: raw preview before parsing
	resp, err = http.Get(fmt.Sprintf("%s/api/v1/datasets/%s/preview?lines=3", baseURL, upload.ID))
	require.NoError(t, err)
	var preview struct {
		Lines []string `json:"lines"`
	}
	decodeBody(t, resp, &preview)
	assert.Len(t, preview.Lines, 3)
	assert.Equal(t, "source,target,weight", preview.Lines[0])

	// Step 3: parse
	resp = postJSON(t, fmt.Sprintf("%s/api/v1/datasets/%s/parse", baseURL, upload.ID), map[string]any{})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var parsed struct {
		Columns []string `json:"columns"`
		Rows    int      `json:"rows"`
	}
	decodeBody(t, resp, &parsed)
	assert.Equal(t, []string{"source", "target", "weight"}, parsed.Columns)
	assert.Equal(t, 9, parsed.Rows)

	// Step 4: map columns and build the graph
	resp = postJSON(t, fmt.Sprintf("%s/api/v1/datasets/%s/mapping", baseURL, upload.ID), map[string]any{
		"source_column": "source",
		"target_column": "target",
		"weight_column": "weight",
		"directed":      false,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var built struct {
		NodesCreated int `json:"nodes_created"`
		EdgesCreated int `json:"edges_created"`
	}
	decodeBody(t, resp, &built)
	assert.Equal(t, 7, built.NodesCreated)
	assert.Equal(t, 9, built.EdgesCreated)

	// Step 5: layout
	resp = postJSON(t, fmt.Sprintf("%s/api/v1/datasets/%s/layout", baseURL, upload.ID), map[string]any{
		"algorithm": "force",
		"seed":      42,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var layoutResp struct {
		Positions []struct {
			NodeID uint64  `json:"node_id"`
			X      float64 `json:"x"`
			Y      float64 `json:"y"`
		} `json:"positions"`
	}
	decodeBody(t, resp, &layoutResp)
	assert.Len(t, layoutResp.Positions, 7)

	// Step 6: viz data carries positions and edges
	resp, err = http.Get(fmt.Sprintf("%s/api/v1/datasets/%s/viz", baseURL, upload.ID))
	require.NoError(t, err)
	var viz struct {
		Nodes []map[string]any `json:"nodes"`
		Edges []map[string]any `json:"edges"`
	}
	decodeBody(t, resp, &viz)
	assert.Len(t, viz.Nodes, 7)
	assert.Len(t, viz.Edges, 9)

	// Step 7: run analyses
	resp = postJSON(t, fmt.Sprintf("%s/api/v1/datasets/%s/algorithms", baseURL, upload.ID), map[string]any{
		"algorithm": "pagerank",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var pr struct {
		Result struct {
			Converged bool `json:"converged"`
			TopNodes  []struct {
				Key string `json:"key"`
			} `json:"top_nodes"`
		} `json:"result"`
	}
	decodeBody(t, resp, &pr)
	assert.True(t, pr.Result.Converged)
	assert.NotEmpty(t, pr.Result.TopNodes)

	resp = postJSON(t, fmt.Sprintf("%s/api/v1/datasets/%s/algorithms", baseURL, upload.ID), map[string]any{
		"algorithm": "components",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var comps struct {
		Result struct {
			Communities []struct {
				Size int `json:"size"`
			} `json:"communities"`
		} `json:"result"`
	}
	decodeBody(t, resp, &comps)
	assert.Len(t, comps.Result.Communities, 1, "sample graph is connected")

	// Step 8: export round trip through the edge list format
	resp, err = http.Get(fmt.Sprintf("%s/api/v1/datasets/%s/export?format=csv", baseURL, upload.ID))
	require.NoError(t, err)
	data, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "source,target,type,weight"))

	// Step 9: lifecycle events were published in order
	wantEvents := []string{
		"dataset.created", "dataset.parsed", "graph.built", "layout.computed",
		"dataset.analyzed", "dataset.analyzed", "export.written",
	}
	for _, want := range wantEvents {
		select {
		case raw := <-transport.C():
			event, err := stream.DecodeEvent(raw)
			require.NoError(t, err)
			assert.Equal(t, want, event.Type)
			assert.Equal(t, upload.ID, event.DatasetID)
		default:
			t.Fatalf("missing event %s", want)
		}
	}

	// Step 10: delete
	req, _ := http.NewRequest(http.MethodDelete, fmt.Sprintf("%s/api/v1/datasets/%s", baseURL, upload.ID), nil)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

// TestConcurrentUploads exercises the store under parallel client load.
func TestConcurrentUploads(t *testing.T) {
	server, _ := startTestServer(t)
	defer server.Close()

	const clients = 8
	done := make(chan error, clients)

	for i := 0; i < clients; i++ {
		go func(n int) {
			resp, err := http.Post(
				fmt.Sprintf("%s/api/v1/datasets?name=load-%d.csv", server.URL, n),
				"text/csv",
				strings.NewReader(karateClubSample),
			)
			if err == nil {
				resp.Body.Close()
				if resp.StatusCode != http.StatusCreated {
					err = fmt.Errorf("unexpected status %d", resp.StatusCode)
				}
			}
			done <- err
		}(i)
	}

	for i := 0; i < clients; i++ {
		require.NoError(t, <-done)
	}

	resp, err := http.Get(server.URL + "/api/v1/datasets")
	require.NoError(t, err)
	var list []map[string]any
	decodeBody(t, resp, &list)
	assert.Len(t, list, clients)
}
