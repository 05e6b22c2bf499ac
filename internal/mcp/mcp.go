// Package mcp exposes the drug lookup gateway as an MCP tool server.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/korjavin/druglookup/internal/drug"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"
)

// Lookup is implemented by *drug.Gateway.
type Lookup interface {
	Lookup(ctx context.Context, name string) (*drug.Result, error)
}

// Server represents the MCP server
type Server struct {
	port      int
	drugs     Lookup
	logger    *zap.Logger
	mcpServer *mcp.Server
}

// NewServer creates a new MCP server
func NewServer(port int, drugs Lookup, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		port:   port,
		drugs:  drugs,
		logger: logger,
	}

	s.mcpServer = mcp.NewServer(
		&mcp.Implementation{
			Name:    "drug-lookup-mcp",
			Version: "v1.0.0",
		},
		nil,
	)

	s.registerTools()
	return s
}

func (s *Server) registerTools() {
	mcp.AddTool(s.mcpServer,
		&mcp.Tool{
			Name:        "lookup_drug",
			Description: "Resolve a drug name against RxNorm. Returns matching concepts (name, rxcui, tty, language) and the known interactions of the top match with their severity. If interaction data is unavailable, interactionsError explains why and matches are still returned.",
		},
		s.handleLookupDrug,
	)
}

// LookupDrugInput is the input of the lookup_drug tool.
type LookupDrugInput struct {
	Name string `json:"name" jsonschema:"Drug name to look up, e.g. aspirin"`
}

// LookupDrugOutput is the lookup result without the raw upstream payload.
type LookupDrugOutput struct {
	Query             string                 `json:"query"`
	Matches           []drug.Match           `json:"matches"`
	Interactions      []drug.InteractionPair `json:"interactions,omitempty"`
	InteractionsError string                 `json:"interactionsError,omitempty"`
}

func (s *Server) handleLookupDrug(ctx context.Context, req *mcp.CallToolRequest, input LookupDrugInput) (*mcp.CallToolResult, LookupDrugOutput, error) {
	res, err := s.drugs.Lookup(ctx, input.Name)
	if errors.Is(err, drug.ErrEmptyQuery) {
		return nil, LookupDrugOutput{}, fmt.Errorf("name is required")
	}
	if err != nil {
		s.logger.Warn("lookup_drug failed", zap.String("name", input.Name), zap.Error(err))
		return nil, LookupDrugOutput{}, err
	}
	s.logger.Info("lookup_drug", zap.String("name", res.Query), zap.Int("matches", len(res.Matches)))
	return nil, LookupDrugOutput{
		Query:             res.Query,
		Matches:           res.Matches,
		Interactions:      res.Interactions,
		InteractionsError: res.InteractionsError,
	}, nil
}

// Handler returns the HTTP handler serving /mcp and /health.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// SSE (GET) and messages (POST)
	sseHandler := mcp.NewSSEHandler(func(r *http.Request) *mcp.Server {
		return s.mcpServer
	}, nil)
	mux.Handle("/mcp", sseHandler)

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	return mux
}

// Run starts the HTTP server and blocks until shutdown
func (s *Server) Run(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.port)
	server := &http.Server{
		Addr:    addr,
		Handler: s.Handler(),
	}

	go func() {
		sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
		defer stop()
		<-sigCtx.Done()
		s.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	s.logger.Info("MCP server starting", zap.String("addr", addr))
	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}
