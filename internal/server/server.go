package server

import (
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/janisz/chgis-mcp/pkg/tgaz"
)

const (
	serverName    = "chgis-gazetteer-server"
	serverVersion = "1.0.0"
)

// Config holds server configuration options
type Config struct {
	DebugMode bool
	// BaseURL of the TGAZ service. Empty means tgaz.DefaultBaseURL.
	BaseURL string
}

// ChgisServer exposes the CHGIS Temporal Gazetteer (TGAZ) through MCP tools.
// It holds no per-call state; the base URL is fixed for the server's lifetime.
type ChgisServer struct {
	server  *server.MCPServer
	client  *http.Client
	builder *tgaz.Builder
	logger  *slog.Logger
	config  Config
}

// NewChgisServer creates a new instance of ChgisServer with default configuration.
func NewChgisServer() (*ChgisServer, error) {
	return NewChgisServerWithConfig(Config{})
}

// NewChgisServerWithConfig creates a new instance of ChgisServer with custom configuration.
func NewChgisServerWithConfig(config Config) (*ChgisServer, error) {
	if config.BaseURL == "" {
		config.BaseURL = tgaz.DefaultBaseURL
	}
	builder, err := tgaz.NewBuilder(config.BaseURL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to configure gazetteer endpoint")
	}

	// Timeouts are applied per request; see tgaz.LookupTimeout and tgaz.SearchTimeout.
	client := &http.Client{
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        10,
			MaxIdleConnsPerHost: 5,
			IdleConnTimeout:     90 * time.Second,
		},
	}

	logLevel := slog.LevelInfo
	if config.DebugMode {
		logLevel = slog.LevelDebug
	}

	// Stderr keeps stdout free for the stdio transport.
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level:     logLevel,
		AddSource: true,
	}))
	logger.Info("CHGIS-MCP server starting up",
		slog.Bool("debugMode", config.DebugMode),
		slog.String("logLevel", logLevel.String()),
		slog.String("baseURL", builder.BaseURL()))

	s := &ChgisServer{
		client:  client,
		builder: builder,
		logger:  logger,
		config:  config,
	}

	s.server = server.NewMCPServer(
		serverName,
		serverVersion,
		server.WithToolCapabilities(false),
		server.WithLogging(),
	)
	s.registerTools()

	return s, nil
}

func (s *ChgisServer) registerTools() {
	for _, t := range tgaz.Catalog() {
		s.server.AddTool(mcp.Tool{
			Name:           t.Name,
			Description:    t.Description,
			RawInputSchema: t.InputSchema,
		}, s.handleToolCall)
	}
}

// RunStdio starts the server in stdio mode for MCP client communication.
func (s *ChgisServer) RunStdio() error {
	s.logger.Debug("Starting server in stdio mode")
	return server.ServeStdio(s.server)
}

// RunSSE starts the server in SSE mode with real-time streaming capabilities.
func (s *ChgisServer) RunSSE(addr string) error {
	s.logger.Info("Starting server in SSE mode", slog.String("address", addr))

	sseServer := server.NewSSEServer(s.server,
		server.WithSSEEndpoint("/mcp"),
		server.WithMessageEndpoint("/mcp/message"),
		server.WithKeepAlive(true),
		server.WithKeepAliveInterval(10*time.Second))

	mux := s.healthMux()
	mux.Handle("/mcp", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.logger.Info("MCP request received",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("userAgent", r.Header.Get("User-Agent")),
			slog.String("accept", r.Header.Get("Accept")))

		sseServer.ServeHTTP(w, r)
	}))
	mux.Handle("/mcp/message", sseServer.MessageHandler())

	return s.serve(addr, mux)
}

// RunHTTP starts the server in stateless HTTP mode for production deployment.
func (s *ChgisServer) RunHTTP(addr string) error {
	s.logger.Info("Starting server in HTTP mode", slog.String("address", addr))

	httpServer := server.NewStreamableHTTPServer(s.server,
		server.WithEndpointPath("/mcp"),
		server.WithStateLess(true),
		server.WithHeartbeatInterval(30*time.Second))

	mux := s.healthMux()
	mux.Handle("/mcp", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.logger.Info("MCP HTTP request received",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("userAgent", r.Header.Get("User-Agent")),
			slog.String("contentType", r.Header.Get("Content-Type")))

		httpServer.ServeHTTP(w, r)
	}))

	return s.serve(addr, mux)
}

// healthMux returns a mux with /health, / and /mcp/health registered.
func (s *ChgisServer) healthMux() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		s.logger.Debug("Health check request received", slog.String("method", r.Method), slog.String("path", r.URL.Path))
		s.writeJSON(w, map[string]interface{}{
			"status":  "healthy",
			"service": serverName,
			"version": serverVersion,
		})
	})

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		s.logger.Debug("Root endpoint request", slog.String("method", r.Method), slog.String("path", r.URL.Path))
		s.writeJSON(w, map[string]interface{}{
			"service":  serverName,
			"version":  serverVersion,
			"status":   "healthy",
			"mcp":      "/mcp",
			"upstream": s.builder.BaseURL(),
		})
	})

	mux.HandleFunc("/mcp/health", func(w http.ResponseWriter, r *http.Request) {
		s.logger.Debug("MCP health check request received", slog.String("method", r.Method), slog.String("path", r.URL.Path))
		s.writeJSON(w, map[string]interface{}{
			"jsonrpc": "2.0",
			"result": map[string]interface{}{
				"protocolVersion": mcp.LATEST_PROTOCOL_VERSION,
				"capabilities": map[string]interface{}{
					"logging": map[string]interface{}{},
					"tools":   map[string]interface{}{},
				},
				"serverInfo": map[string]interface{}{
					"name":    serverName,
					"version": serverVersion,
				},
			},
		})
	})

	return mux
}

func (s *ChgisServer) writeJSON(w http.ResponseWriter, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Warn("Failed to encode JSON response", slog.Any("error", err))
	}
}

func (s *ChgisServer) serve(addr string, handler http.Handler) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		if strings.Contains(err.Error(), "address already in use") {
			s.logger.Error("Port already in use",
				slog.String("address", addr),
				slog.String("suggestion", "Try a different port with -addr :8081 or kill existing processes"))
		}
		return errors.Wrapf(err, "failed to create listener on %s", addr)
	}

	// The actual address matters when addr asks for a random port.
	actualAddr := listener.Addr().String()
	_, port, _ := net.SplitHostPort(actualAddr)
	s.logger.Info("HTTP server will be available with endpoints",
		slog.String("actualAddress", actualAddr),
		slog.String("health", "http://localhost:"+port+"/health"),
		slog.String("mcp", "http://localhost:"+port+"/mcp"))

	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 30 * time.Second,
	}
	return srv.Serve(listener)
}
