package main

import (
	"context"

	"github.com/korjavin/druglookup/internal/config"
	"github.com/korjavin/druglookup/internal/drug"
	"github.com/korjavin/druglookup/internal/logging"
	"github.com/korjavin/druglookup/internal/mcp"
	"github.com/korjavin/druglookup/internal/rxnorm"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.Development)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	logger.Info("starting MCP server for drug lookup",
		zap.Int("port", cfg.MCPPort),
		zap.String("rxnav", cfg.RxNavBaseURL),
		zap.Duration("timeout", cfg.RxNavTimeout),
	)

	gateway := drug.NewGateway(rxnorm.New(cfg.RxNavBaseURL, cfg.RxNavTimeout), logger)
	server := mcp.NewServer(cfg.MCPPort, gateway, logger)

	if err := server.Run(context.Background()); err != nil {
		logger.Fatal("MCP server error", zap.Error(err))
	}
	logger.Info("MCP server stopped")
}
