// Command coachplan-mcp serves the CoachPlan MCP tools over stdio, reading
// plans from a remote CoachPlan server's REST API.
package main

import (
	"flag"
	"log/slog"
	"os"

	coachmcp "github.com/claude/coachplan/internal/mcp"
	"github.com/claude/coachplan/internal/render"
	"github.com/mark3labs/mcp-go/server"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	baseURL := flag.String("url", os.Getenv("COACHPLAN_URL"), "CoachPlan server URL (e.g. http://coachplan.tailnet.ts.net)")
	apiKey := flag.String("api-key", os.Getenv("COACHPLAN_API_KEY"), "API key for the CoachPlan server")
	flag.Parse()

	// stdout carries the protocol; logs go to stderr.
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if *baseURL == "" {
		log.Error("server URL is required (-url or COACHPLAN_URL)")
		os.Exit(1)
	}

	ds := coachmcp.NewHTTPClient(*baseURL, *apiKey)
	renderer := render.NewService(render.Options{}, log)
	s := coachmcp.New(ds, renderer, Version, log)

	log.Info("coachplan-mcp serving on stdio", "url", *baseURL, "version", Version)
	if err := server.ServeStdio(s); err != nil {
		log.Error("stdio server failed", "error", err)
		os.Exit(1)
	}
}
