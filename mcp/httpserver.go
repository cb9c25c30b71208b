package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/mark3labs/mcp-go/server"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// httpRequestKey is a custom context key for storing the incoming HTTP request
type httpRequestKey struct{}

// withHTTPRequest adds the incoming HTTP request to the context
func withHTTPRequest(ctx context.Context, req *http.Request) context.Context {
	return context.WithValue(ctx, httpRequestKey{}, req)
}

// HTTPRequestFromContext returns the HTTP request a tool call arrived with
func HTTPRequestFromContext(ctx context.Context) (*http.Request, bool) {
	req, ok := ctx.Value(httpRequestKey{}).(*http.Request)
	return req, ok
}

// NewMcpHTTPServer creates the streamable MCP HTTP transport
func NewMcpHTTPServer(s *server.MCPServer, endpoint string) *server.StreamableHTTPServer {
	return server.NewStreamableHTTPServer(
		s,
		server.WithEndpointPath(endpoint),
		server.WithHTTPContextFunc(withHTTPRequest),
	)
}

// McpHTTPSSEServer combines the MCP HTTP transport with the SSE endpoints and
// the metrics endpoint
type McpHTTPSSEServer struct {
	router    chi.Router
	sseServer *MCPSSEServer
}

// NewMcpHTTPSSEServer routes
//
//	{endpoint}              streamable MCP
//	{endpoint}/sse          SSE event stream
//	{endpoint}/sse/describe describe a record with streamed progress
//	{endpoint}/sse/clients  connected SSE clients
//	{endpoint}/sse/stats    SSE statistics
//	/metrics                Prometheus metrics
func NewMcpHTTPSSEServer(logger *zap.Logger, s *server.MCPServer, sseServer *MCPSSEServer, gatherer prometheus.Gatherer, endpoint string) *McpHTTPSSEServer {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(logger))

	r.Handle(endpoint, NewMcpHTTPServer(s, endpoint))

	r.Route(endpoint+"/sse", func(r chi.Router) {
		r.Get("/", sseServer.HandleSSE)
		r.Post("/describe", sseServer.HandleDescribeSSE)
		r.Get("/clients", func(w http.ResponseWriter, r *http.Request) {
			clients := sseServer.GetConnectedClients()
			writeJSON(logger, w, map[string]any{
				"connectedClients": len(clients),
				"clients":          clients,
			})
		})
		r.Get("/stats", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(logger, w, sseServer.GetStats())
		})
	})

	if gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	return &McpHTTPSSEServer{
		router:    r,
		sseServer: sseServer,
	}
}

// ServeHTTP implements http.Handler
func (s *McpHTTPSSEServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// GetSSEServer returns the underlying SSE server for direct access
func (s *McpHTTPSSEServer) GetSSEServer() *MCPSSEServer {
	return s.sseServer
}

func writeJSON(logger *zap.Logger, w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("failed to write response", zap.Error(err))
	}
}

func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.Debug("http request",
				zap.String("requestID", middleware.GetReqID(r.Context())),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("took", time.Since(start)),
			)
		})
	}
}
