package main

import (
	"context"

	"github.com/dusk-indust/userstore/internal/catalog"
	"github.com/dusk-indust/userstore/internal/config"
	"github.com/dusk-indust/userstore/internal/mcptools"
)

// runServe exposes both backends as MCP tools, over HTTP when addr is set
// and over stdio otherwise.
func runServe(ctx context.Context, cfg *config.Config, addr string) error {
	c, err := catalog.Open(ctx, cfg.JSONPath, cfg.WordPath, cfg.Verbose)
	if err != nil {
		return err
	}

	server := mcptools.NewUserMCPServer(mcptools.NewUserToolService(c.JSON, c.Word))
	if addr != "" {
		return mcptools.RunMCPServerHTTP(ctx, server, addr)
	}
	return mcptools.RunMCPServerStdio(ctx, server)
}
