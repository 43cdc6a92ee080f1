package sim

import (
	"context"
	"fmt"
	"time"

	"gpsgeomancy/internal/nmea"
)

// Constellation synthesizes the sentence stream of a receiver watching a
// deterministic sky: Count satellites spaced evenly around the compass,
// azimuths drifting a few degrees per cycle, elevations and signal levels
// cycling on decoupled periods. Every seventh satellite reports no signal,
// the way a real receiver leaves SNR empty for satellites it sees but does
// not hear. The first WarmupCycles report a void fix.
type Constellation struct {
	Count        int // satellites in view; default 12
	WarmupCycles int // cycles reporting a void fix before the fix goes active

	cycle int
	queue []string
}

// ReadLine returns the next synthetic sentence, starting a new cycle (one
// fix-status sentence, then the satellite-view report) when the previous
// one is spent.
func (c *Constellation) ReadLine(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(c.queue) == 0 {
		c.queue = c.emit()
		c.cycle++
	}
	line := c.queue[0]
	c.queue = c.queue[1:]
	return line, nil
}

func (c *Constellation) Close() error {
	return nil
}

// simEpoch anchors the synthetic clock; cycle n is n seconds in.
var simEpoch = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

func (c *Constellation) emit() []string {
	count := c.Count
	if count <= 0 {
		count = 12
	}

	at := simEpoch.Add(time.Duration(c.cycle) * time.Second)
	status := "A"
	if c.cycle < c.WarmupCycles {
		status = "V"
	}

	total := (count + 3) / 4
	lines := make([]string, 0, 1+total)
	lines = append(lines, frame(fmt.Sprintf(
		"GPRMC,%s,%s,4807.038,N,01131.000,E,000.0,000.0,%s,003.1,W",
		at.Format("150405"), status, at.Format("020106"))))

	for s := 0; s < total; s++ {
		payload := fmt.Sprintf("GPGSV,%d,%d,%02d", total, s+1, count)
		last := (s + 1) * 4
		if last > count {
			last = count
		}
		for idx := s * 4; idx < last; idx++ {
			azi := (idx*360/count + c.cycle*7) % 360
			ele := 5 + (idx*83+c.cycle*11)%86
			if (idx+c.cycle)%7 == 0 {
				payload += fmt.Sprintf(",%02d,%02d,%03d,", idx+1, ele, azi)
				continue
			}
			snr := (idx*13 + c.cycle*5) % 50
			payload += fmt.Sprintf(",%02d,%02d,%03d,%02d", idx+1, ele, azi, snr)
		}
		lines = append(lines, frame(payload))
	}
	return lines
}

func frame(payload string) string {
	return "$" + payload + "*" + nmea.Checksum(payload)
}
