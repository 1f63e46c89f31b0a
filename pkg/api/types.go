package api

import "time"

// API Request/Response Types

// UploadResponse confirms a dataset upload.
type UploadResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	SizeBytes int       `json:"size_bytes"`
	CreatedAt time.Time `json:"created_at"`
}

// DatasetSummary describes a stored dataset in list/get responses.
type DatasetSummary struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	SizeBytes  int       `json:"size_bytes"`
	Parsed     bool      `json:"parsed"`
	Rows       int       `json:"rows"`
	Columns    []string  `json:"columns,omitempty"`
	HasGraph   bool      `json:"has_graph"`
	NodeCount  int       `json:"node_count"`
	EdgeCount  int       `json:"edge_count"`
	Directed   bool      `json:"directed"`
	LayoutName string    `json:"layout,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// ParseResponse carries the parsed table shape and a preview.
type ParseResponse struct {
	ID      string     `json:"id"`
	Columns []string   `json:"columns"`
	Rows    int        `json:"rows"`
	Preview [][]string `json:"preview"`
	Time    string     `json:"time"`
}

// PreviewResponse carries raw leading lines of the upload, before parsing.
type PreviewResponse struct {
	ID    string   `json:"id"`
	Lines []string `json:"lines"`
}

// MappingResponse reports the result of building a graph from a mapping.
type MappingResponse struct {
	ID           string   `json:"id"`
	NodesCreated int      `json:"nodes_created"`
	EdgesCreated int      `json:"edges_created"`
	RowsRead     int      `json:"rows_read"`
	SkippedRows  int      `json:"skipped_rows"`
	BadWeights   int      `json:"bad_weights"`
	Errors       []string `json:"errors,omitempty"`
	Time         string   `json:"time"`
}

// LayoutPosition is one node's computed coordinates.
type LayoutPosition struct {
	NodeID uint64  `json:"node_id"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
}

// LayoutResponse carries computed positions.
type LayoutResponse struct {
	ID        string           `json:"id"`
	Algorithm string           `json:"algorithm"`
	Positions []LayoutPosition `json:"positions"`
	Time      string           `json:"time"`
}

// AlgorithmResponse wraps an algorithm result. Result shape varies per
// algorithm; Algorithm names which.
type AlgorithmResponse struct {
	ID        string `json:"id"`
	Algorithm string `json:"algorithm"`
	Result    any    `json:"result"`
	Time      string `json:"time"`
}

// ArchiveResponse confirms a snapshot upload to object storage.
type ArchiveResponse struct {
	ID   string `json:"id"`
	Key  string `json:"key"`
	Time string `json:"time"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
	Datasets  int       `json:"datasets"`
	Uptime    string    `json:"uptime"`
}

// TokenRequest is a login request.
type TokenRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// TokenResponse carries an issued JWT.
type TokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ErrorResponse represents an API error
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}
