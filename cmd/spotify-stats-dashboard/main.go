// Command spotify-stats-dashboard serves charts built from the fetched CSV files.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/justestif/go-spotify-listening-stats/internal/config"
	"github.com/justestif/go-spotify-listening-stats/internal/logging"
	"github.com/justestif/go-spotify-listening-stats/internal/web"
	webfs "github.com/justestif/go-spotify-listening-stats/web"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to a YAML config file")
	addr := flag.String("addr", "", "listen address (overrides config and DASHBOARD_ADDR)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := logging.Setup(cfg.Log, os.Stderr); err != nil {
		return fmt.Errorf("configuring logging: %w", err)
	}
	if *addr != "" {
		cfg.Dashboard.Addr = *addr
	}

	templates, err := webfs.Templates()
	if err != nil {
		return fmt.Errorf("creating templates filesystem: %w", err)
	}
	static, err := webfs.Static()
	if err != nil {
		return fmt.Errorf("creating static filesystem: %w", err)
	}

	server, err := web.NewServer(web.ServerConfig{
		Addr:        cfg.Dashboard.Addr,
		Config:      cfg,
		TemplatesFS: templates,
		StaticFS:    static,
		Log:         logging.Zone("web"),
	})
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	return server.Run()
}
