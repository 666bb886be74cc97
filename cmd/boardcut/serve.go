package main

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/piwi3910/BoardCut/internal/server"
)

func runServe(ctx context.Context, e *env, args []string) error {
	fs := e.newFlagSet("serve", "")
	addr := fs.String("addr", e.cfg.HTTPAddr, "listen address")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if e.cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	handler := server.NewHandler(
		server.WithGeneticConfig(e.cfg.GeneticConfig()),
		server.WithProgressBuffer(e.cfg.ProgressBuffer),
		server.WithMaxUnits(e.cfg.MaxUnits),
	)
	return server.NewServer(server.NewRouter(handler), *addr).Run(ctx)
}
