// Command spotify-stats-fetch downloads recent plays and top tracks into CSV files.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/justestif/go-spotify-listening-stats/internal/auth"
	"github.com/justestif/go-spotify-listening-stats/internal/config"
	"github.com/justestif/go-spotify-listening-stats/internal/logging"
	"github.com/justestif/go-spotify-listening-stats/internal/pipeline"
	spotifyapi "github.com/justestif/go-spotify-listening-stats/internal/spotify"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to a YAML config file")
	logout := flag.Bool("logout", false, "remove the cached Spotify token and exit")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := logging.Setup(cfg.Log, os.Stderr); err != nil {
		return fmt.Errorf("configuring logging: %w", err)
	}
	log := logging.Zone("fetch")

	if err := cfg.Credentials.Validate(); err != nil {
		return err
	}

	authenticator, err := auth.New(cfg.Credentials, auth.NewTokenCache(cfg.TokenCache),
		auth.WithLogger(logging.Zone("auth")))
	if err != nil {
		return fmt.Errorf("creating authenticator: %w", err)
	}

	if *logout {
		if err := authenticator.Logout(); err != nil {
			return fmt.Errorf("logging out: %w", err)
		}
		fmt.Println("Logged out. Cached token removed.")
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := authenticator.Authenticate(ctx)
	if err != nil {
		return fmt.Errorf("authenticating: %w", err)
	}
	api := spotifyapi.New(client)

	if name, err := api.DisplayName(ctx); err == nil {
		log.WithField("user", name).Info("Authenticated")
	}

	result, err := pipeline.New(api, cfg, pipeline.WithLogger(logging.Zone("pipeline"))).Run(ctx)
	if err != nil {
		return err
	}

	fmt.Print(pipeline.FormatSummary(result))
	return nil
}
