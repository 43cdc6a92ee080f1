// Package logging configures the process logger. Diagnostics go through
// logrus; the rendered chart itself is written to stdout by the caller and
// never passes through here.
package logging

import (
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"

	"gpsgeomancy/internal/config"
)

// Setup builds the logger from cfg. A LOG_LEVEL environment variable
// overrides the configured level; verbose forces debug over both. Output
// "stderr" and "stdout" write to the process streams; any other value is a
// file path, rotated by age.
func Setup(cfg config.LogConfig, verbose bool) (*logrus.Logger, error) {
	log := logrus.New()

	level := cfg.Level
	if env := os.Getenv("LOG_LEVEL"); env != "" {
		level = env
	}
	if verbose {
		level = "debug"
	}
	lvl, err := logrus.ParseLevel(strings.ToLower(level))
	if err != nil {
		return nil, fmt.Errorf("logging: bad level %q", level)
	}
	log.SetLevel(lvl)

	switch cfg.Format {
	case "json":
		log.SetFormatter(&logrus.JSONFormatter{})
	default:
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	switch cfg.Output {
	case "", "stderr":
		log.SetOutput(os.Stderr)
	case "stdout":
		log.SetOutput(os.Stdout)
	default:
		log.SetOutput(&lumberjack.Logger{
			Filename: cfg.Output,
			MaxAge:   cfg.MaxAgeDays,
			Compress: true,
		})
	}
	return log, nil
}
