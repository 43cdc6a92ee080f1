package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"

	"gpsgeomancy/internal/config"
	"gpsgeomancy/internal/logging"
	"gpsgeomancy/internal/sim"
	"gpsgeomancy/internal/source"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("gpsgeomancy", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		port     = fs.String("p", "", "serial device path or tcp://host:port")
		baud     = fs.Int("b", 0, "baud rate")
		verbose  = fs.Bool("v", false, "verbose (debug-level) logging")
		cfgPath  = fs.String("config", "", "path to YAML config")
		replay   = fs.String("replay", "", "read sentences from a recorded file instead of a device")
		simFlag  = fs.Bool("sim", false, "synthesize sentences instead of reading a device")
		record   = fs.String("record", "", "tee raw sentences to a rotating file")
		readings = fs.Int("n", 0, "number of readings to take")
		watch    = fs.Bool("watch", false, "read continuously until interrupted")
		interval = fs.Duration("interval", 0, "pause between readings")
	)
	if err := fs.Parse(args); err != nil {
		return 2
	}

	// A .env file beside the binary feeds the environment layer.
	_ = godotenv.Load()

	cfg := config.Default()
	if *cfgPath != "" {
		var err error
		if cfg, err = config.Load(*cfgPath); err != nil {
			fmt.Fprintln(stderr, err)
			return 2
		}
	}
	if err := config.FromEnv(&cfg); err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	// Only flags the user actually set override the layers below.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "p":
			cfg.Port = *port
		case "b":
			cfg.Baud = *baud
		case "replay":
			cfg.Replay = *replay
		case "sim":
			cfg.Sim.Enable = *simFlag
		case "record":
			cfg.Record = *record
		case "n":
			cfg.Readings = *readings
		case "watch":
			cfg.Watch = *watch
		case "interval":
			cfg.Interval = *interval
		}
	})
	if err := config.DefaultAndValidate(&cfg); err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}

	log, err := logging.Setup(cfg.Log, *verbose)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	src, err := openSource(ctx, cfg)
	if err != nil {
		log.WithError(err).Error("cannot open sentence source")
		return 2
	}
	log.WithField("source", describeSource(cfg)).Info("source opened")

	var rec *source.Recorder
	if cfg.Record != "" {
		rec = source.NewRecorder(src, &lumberjack.Logger{
			Filename: cfg.Record,
			MaxAge:   cfg.Log.MaxAgeDays,
		})
		src = rec
	}
	defer src.Close()

	err = readLoop(ctx, cfg, src, log, stdout)
	if rec != nil && rec.WriteErr() != nil {
		log.WithError(rec.WriteErr()).Warn("recording incomplete")
	}
	switch {
	case err == nil:
		return 0
	case errors.Is(err, context.Canceled):
		log.Info("interrupted")
		return 0
	default:
		log.WithError(err).Error("sentence source gave out")
		return 1
	}
}

// openSource picks the line source the configuration asks for: the
// simulator, a replay file, a TCP line server, or the serial device.
func openSource(ctx context.Context, cfg config.Config) (source.LineSource, error) {
	switch {
	case cfg.Sim.Enable:
		return &sim.Constellation{Count: cfg.Sim.Count, WarmupCycles: cfg.Sim.Warmup}, nil
	case cfg.Replay != "":
		return source.OpenFile(cfg.Replay)
	case strings.HasPrefix(cfg.Port, "tcp://"):
		return source.DialTCP(ctx, strings.TrimPrefix(cfg.Port, "tcp://"), cfg.ReadTimeout)
	default:
		return source.OpenSerial(source.SerialConfig{
			Device:      cfg.Port,
			Baud:        cfg.Baud,
			ReadTimeout: cfg.ReadTimeout,
		})
	}
}

func describeSource(cfg config.Config) string {
	switch {
	case cfg.Sim.Enable:
		return fmt.Sprintf("sim (%d satellites)", cfg.Sim.Count)
	case cfg.Replay != "":
		return "replay " + cfg.Replay
	case strings.HasPrefix(cfg.Port, "tcp://"):
		return cfg.Port
	default:
		return fmt.Sprintf("%s @ %d baud", cfg.Port, cfg.Baud)
	}
}
