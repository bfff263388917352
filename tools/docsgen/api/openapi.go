//go:build docsgen_api
// +build docsgen_api

package main

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/hashicorp/go-hclog"

	"github.com/mozilla-ai/maskd/internal/api"
	"github.com/mozilla-ai/maskd/internal/cmd"
	"github.com/mozilla-ai/maskd/internal/domain"
	"github.com/mozilla-ai/maskd/internal/perms"
	"github.com/mozilla-ai/maskd/internal/pipeline"
)

// stubMonitor provides a stub implementation for documentation generation.
type stubMonitor struct{}

func (stubMonitor) Health() domain.ServiceHealth {
	return domain.ServiceHealth{Status: domain.HealthStatusOK}
}

// main generates the OpenAPI specification for the maskd API.
// It assumes it is run from the repository root.
func main() {
	logger := hclog.New(&hclog.LoggerOptions{
		Name:   "maskd.docsgen.api",
		Level:  hclog.Info,
		Output: os.Stderr,
	})

	// Output path for the OpenAPI spec, relative to the repository root.
	outputPath := "./docs/api/openapi.yaml"

	// Create a chi router (same as the daemon).
	mux := chi.NewMux()
	mux.Use(middleware.StripSlashes)

	// Create Huma config and router (same as the daemon).
	config := huma.DefaultConfig("maskd docs", cmd.Version())
	router := humachi.New(mux, config)

	// Only the Huma routes are described, so the pipeline wrapper never runs.
	wrap := func(h pipeline.Handler) http.Handler {
		return http.NotFoundHandler()
	}

	if err := api.RegisterRoutes(mux, router, stubMonitor{}, wrap); err != nil {
		logger.Error("failed to register API routes", "error", err)
		os.Exit(1)
	}

	logger.Info("Routes registered", "prefix", api.PathPrefix)

	// Get the OpenAPI spec as YAML.
	yamlBytes, err := router.OpenAPI().YAML()
	if err != nil {
		logger.Error("failed to generate OpenAPI YAML", "error", err)
		os.Exit(1)
	}

	// Ensure the docs directory exists.
	docsDir := filepath.Dir(outputPath)
	if err := os.MkdirAll(docsDir, perms.RegularDir); err != nil {
		logger.Error("failed to create docs directory", "path", docsDir, "error", err)
		os.Exit(1)
	}

	// Write the YAML to the output file.
	if err := os.WriteFile(outputPath, yamlBytes, perms.RegularFile); err != nil {
		logger.Error("failed to write OpenAPI spec", "path", outputPath, "error", err)
		os.Exit(1)
	}

	logger.Info("OpenAPI spec generated", "path", outputPath, "size", fmt.Sprintf("%d bytes", len(yamlBytes)))
}
