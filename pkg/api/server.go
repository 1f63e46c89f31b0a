// Package api exposes the HTTP surface: dataset uploads, CSV parsing,
// graph builds, layouts, algorithms and exports.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/linkviz/link/pkg/auth"
	"github.com/linkviz/link/pkg/catalog"
	"github.com/linkviz/link/pkg/export"
	"github.com/linkviz/link/pkg/graph"
	"github.com/linkviz/link/pkg/graphql"
	"github.com/linkviz/link/pkg/logging"
	"github.com/linkviz/link/pkg/metrics"
	"github.com/linkviz/link/pkg/session"
	"github.com/linkviz/link/pkg/stream"
)

const version = "1.0.0"

// Server wires the session store and supporting services into HTTP handlers.
type Server struct {
	sessions        *session.Store
	catalog         catalog.Store
	bus             *stream.Bus
	archiver        *export.Archiver
	jwtManager      *auth.JWTManager
	userStore       *auth.UserStore
	apiKeys         *auth.APIKeyStore
	graphqlHandler  *graphql.GraphQLHandler
	metricsRegistry *metrics.Registry
	logger          logging.Logger
	startTime       time.Time
	authRequired    bool
	maxUploadBytes  int64
}

// Options configures a Server. Sessions is required; everything else is
// optional and nil disables the feature.
type Options struct {
	Sessions       *session.Store
	Catalog        catalog.Store
	Bus            *stream.Bus
	Archiver       *export.Archiver
	JWTManager     *auth.JWTManager
	UserStore      *auth.UserStore
	APIKeys        *auth.APIKeyStore
	Metrics        *metrics.Registry
	Logger         logging.Logger
	AuthRequired   bool
	MaxUploadBytes int64
}

// NewServer creates the API server.
func NewServer(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	registry := opts.Metrics
	if registry == nil {
		registry = metrics.NewRegistry()
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = 64 << 20
	}

	s := &Server{
		sessions:        opts.Sessions,
		catalog:         opts.Catalog,
		bus:             opts.Bus,
		archiver:        opts.Archiver,
		jwtManager:      opts.JWTManager,
		userStore:       opts.UserStore,
		apiKeys:         opts.APIKeys,
		metricsRegistry: registry,
		logger:          logger,
		startTime:       time.Now(),
		authRequired:    opts.AuthRequired,
		maxUploadBytes:  opts.MaxUploadBytes,
	}

	schema, err := graphql.GenerateSchema(s)
	if err != nil {
		logger.Warn("failed to generate GraphQL schema", logging.Error(err))
	} else {
		s.graphqlHandler = graphql.NewGraphQLHandler(schema)
	}

	return s
}

// GraphFor implements graphql.GraphSource over the session store.
func (s *Server) GraphFor(datasetID string) (*graph.Graph, error) {
	ds, err := s.sessions.Get(datasetID)
	if err != nil {
		return nil, err
	}
	if ds.Graph == nil {
		return nil, session.ErrNoGraph
	}
	return ds.Graph, nil
}

// Handler builds the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Health and metrics
	mux.HandleFunc("/health", s.handleHealth)
	mux.Handle("/metrics", s.metricsHandler())

	// Auth
	mux.HandleFunc("/api/v1/auth/token", s.handleToken)

	// Dataset lifecycle
	mux.HandleFunc("/api/v1/datasets", s.requireAuth(s.handleDatasets))
	mux.HandleFunc("/api/v1/datasets/", s.requireAuth(s.handleDataset))

	// GraphQL endpoint
	mux.HandleFunc("/graphql", s.requireAuth(s.handleGraphQL))

	// Embedded web UI
	mux.Handle("/", s.webHandler())

	var handler http.Handler = mux
	handler = s.bodySizeLimitMiddleware(handler, s.maxUploadBytes)
	handler = s.metricsMiddleware(handler)
	handler = s.corsMiddleware(handler)
	handler = s.loggingMiddleware(handler)
	handler = s.panicRecoveryMiddleware(handler)
	return handler
}

// Handlers

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now(),
		Version:   version,
		Datasets:  s.sessions.Len(),
		Uptime:    time.Since(s.startTime).String(),
	}
	s.respondJSON(w, http.StatusOK, response)
}

func (s *Server) metricsHandler() http.Handler {
	promHandler := promhttp.HandlerFor(
		s.metricsRegistry.GetPrometheusRegistry(),
		promhttp.HandlerOpts{},
	)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.metricsRegistry.UpdateSystemMetrics(s.startTime)
		s.metricsRegistry.UpdateSessionMetrics(s.sessions.Len())
		promHandler.ServeHTTP(w, r)
	})
}

func (s *Server) handleGraphQL(w http.ResponseWriter, r *http.Request) {
	if s.graphqlHandler == nil {
		s.respondError(w, http.StatusServiceUnavailable, "GraphQL endpoint not available")
		return
	}
	s.graphqlHandler.ServeHTTP(w, r)
}

func (s *Server) handleToken(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	if s.jwtManager == nil || s.userStore == nil {
		s.respondError(w, http.StatusServiceUnavailable, "Authentication not configured")
		return
	}

	var req TokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := s.userStore.Authenticate(req.Username, req.Password)
	if err != nil {
		s.respondError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := s.jwtManager.GenerateToken(user.ID, user.Username, user.Role)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "Failed to issue token")
		return
	}

	s.respondJSON(w, http.StatusOK, TokenResponse{
		Token:     token,
		ExpiresAt: time.Now().Add(s.jwtManager.TokenDuration()),
	})
}

// Helper methods

func (s *Server) publish(eventType, datasetID string, payload map[string]any) {
	if s.bus == nil {
		return
	}
	if _, err := s.bus.Publish(eventType, datasetID, payload); err != nil {
		s.logger.Warn("event publish failed",
			logging.String("event", eventType),
			logging.DatasetID(datasetID),
			logging.Error(err))
	}
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("error encoding JSON response", logging.Error(err))
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	response := ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
		Code:    status,
	}
	s.respondJSON(w, status, response)
}

func datasetSummary(ds *session.Dataset) *DatasetSummary {
	summary := &DatasetSummary{
		ID:         ds.ID,
		Name:       ds.Name,
		SizeBytes:  len(ds.Raw),
		Parsed:     ds.Table != nil,
		HasGraph:   ds.Graph != nil,
		Directed:   ds.Directed,
		LayoutName: ds.LayoutName,
		CreatedAt:  ds.CreatedAt,
	}
	if ds.Table != nil {
		summary.Rows = len(ds.Table.Rows)
		summary.Columns = ds.Table.Columns
	}
	if ds.Graph != nil {
		summary.NodeCount = ds.Graph.NodeCount()
		summary.EdgeCount = ds.Graph.EdgeCount()
	}
	return summary
}
