package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"gpsgeomancy/internal/config"
	"gpsgeomancy/internal/geomancy"
	"gpsgeomancy/internal/nmea"
	"gpsgeomancy/internal/source"
)

// readLoop waits for a fix, then takes readings until the configured count
// is reached (or forever in watch mode). A failed cycle — an incomplete
// report or a direction with no candidate — is logged and retried; it
// never counts as a reading. The loop ends when the source gives out or
// the context is cancelled.
func readLoop(ctx context.Context, cfg config.Config, src nmea.LineSource, log *logrus.Logger, stdout io.Writer) error {
	if err := waitFix(ctx, src, log); err != nil {
		return err
	}

	taken := 0
	for cfg.Watch || taken < cfg.Readings {
		chart, chosen, err := takeReading(ctx, src, log)
		switch {
		case err == nil:
			fmt.Fprint(stdout, chart)
			logChosen(log, chosen)
			taken++
			if (cfg.Watch || taken < cfg.Readings) && cfg.Interval > 0 {
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-time.After(cfg.Interval):
				}
			}
		case errors.Is(err, context.Canceled), errors.Is(err, io.EOF):
			return err
		case errors.Is(err, nmea.ErrIncompleteReport):
			log.WithError(err).Warn("report discarded")
		case errors.Is(err, geomancy.ErrIncompleteSelection):
			log.WithError(err).Warn("casting failed, not every direction had a candidate")
		default:
			return err
		}
	}
	return nil
}

// waitFix consumes lines until a fix-status sentence declares an active
// position solution. Frame errors and read timeouts keep waiting;
// cancellation and source exhaustion end the wait.
func waitFix(ctx context.Context, src nmea.LineSource, log *logrus.Logger) error {
	for {
		line, err := src.ReadLine(ctx)
		if errors.Is(err, source.ErrReadTimeout) {
			continue
		}
		if err != nil {
			return err
		}
		s, err := nmea.Decode(line)
		if err != nil {
			log.WithError(err).Debug("frame discarded")
			continue
		}
		if nmea.FixActive(s) {
			log.Info("fix acquired")
			return nil
		}
	}
}

// takeReading runs one full cycle: wait for the start of the next
// satellite-view report, assemble it, build the table, classify, choose,
// and cast the chart.
func takeReading(ctx context.Context, src nmea.LineSource, log *logrus.Logger) (string, geomancy.Chosen, error) {
	rep, err := nextReport(ctx, src, log)
	if err != nil {
		return "", nil, err
	}
	log.WithFields(logrus.Fields{
		"sentences": rep.Declared,
		"dropped":   rep.Dropped(),
		"in_view":   rep.InView,
	}).Debug("report assembled")

	sats := rep.Satellites()
	log.WithField("recovered", len(sats)).Debug("satellite table built")

	chosen := geomancy.Choose(geomancy.ClassifyAll(sats))
	for _, d := range geomancy.Directions {
		if c, ok := chosen[d]; ok {
			log.WithFields(logrus.Fields{
				"prn":       c.Sat.PRN,
				"deviation": c.Deviation,
				"snr":       c.Sat.SNR,
			}).Debugf("%s candidate", strings.ToLower(d.String()))
		}
	}

	chart, err := geomancy.Figure(chosen)
	if err != nil {
		return "", chosen, err
	}
	return chart, chosen, nil
}

// nextReport skips lines until the first sentence of a satellite-view
// report arrives, then assembles the whole report. Frame errors are
// discarded; read timeouts while waiting for a report keep waiting (a
// timeout mid-report is Collect's to judge).
func nextReport(ctx context.Context, src nmea.LineSource, log *logrus.Logger) (nmea.Report, error) {
	for {
		line, err := src.ReadLine(ctx)
		if errors.Is(err, source.ErrReadTimeout) {
			continue
		}
		if err != nil {
			return nmea.Report{}, err
		}
		s, err := nmea.Decode(line)
		if err != nil {
			log.WithError(err).Debug("frame discarded")
			continue
		}
		if s.Type != "GSV" || len(s.Fields) < 3 || s.Fields[1] != "1" {
			continue
		}
		return nmea.Collect(ctx, s, src)
	}
}

func logChosen(log *logrus.Logger, ch geomancy.Chosen) {
	fields := logrus.Fields{}
	for _, d := range geomancy.Directions {
		if c, ok := ch[d]; ok {
			fields[strings.ToLower(d.String())] = c.Sat.PRN
		}
	}
	log.WithFields(fields).Info("reading complete")
}
