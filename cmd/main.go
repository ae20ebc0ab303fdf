package main

import (
	"context"
	"errors"
	"os"

	"github.com/desertthunder/mvx/internal/services"
	"github.com/desertthunder/mvx/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}

	catalogService := services.NewCatalogService(config.API.BaseURL, nil)
	authService := services.NewAuthService(config.API.BaseURL, nil)
	apiService := services.NewAPIService(config.API.BaseURL, nil)

	runner := NewRunner(RunnerOpts{
		Config:  config,
		Catalog: catalogService,
		Auth:    authService,
		API:     apiService,
		Logger:  logger,
	})

	// A 401 means the stored token is no longer accepted; drop it so the
	// next command starts from a clean unauthenticated state.
	catalogService.OnUnauthorized(runner.clearSession)

	ctx := context.Background()
	runner.restoreSession(ctx)

	app := &cli.Command{
		Name:     "mvx",
		Usage:    "Manage a movie catalog from the terminal",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(ctx, os.Args); err != nil {
		err_ := errors.Unwrap(err)
		if errors.Is(err_, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			os.Exit(0)
		} else {
			logger.Fatalf("application error: %v", err)
		}
	}
}
