// Package logging configures logrus and hands out per-package zone loggers.
package logging

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/justestif/go-spotify-listening-stats/internal/config"
)

// Setup applies the configured level and format to the standard logrus logger.
func Setup(cfg config.LogConfig, out io.Writer) error {
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		return fmt.Errorf("parsing log level: %w", err)
	}

	logger := logrus.StandardLogger()
	logger.SetLevel(level)
	if out != nil {
		logger.SetOutput(out)
	}

	switch cfg.Format {
	case "", "text":
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		return fmt.Errorf("unknown log format %q", cfg.Format)
	}

	return nil
}

// Zone returns an entry of the standard logger tagged with the given zone.
func Zone(name string) *logrus.Entry {
	return logrus.WithField("zone", name)
}
