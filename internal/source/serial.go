package source

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"go.bug.st/serial"
)

type SerialConfig struct {
	Device      string
	Baud        int
	ReadTimeout time.Duration
}

// timeoutReader is the slice of serial.Port the line reader needs: a Read
// that returns (0, nil) when the receive timeout expires with no data.
type timeoutReader interface {
	Read(p []byte) (int, error)
}

// Serial reads sentence lines from a GPS receiver on a serial device,
// 8-N-1 at the configured baud rate.
type Serial struct {
	device  string
	r       timeoutReader
	closer  io.Closer
	pending []byte
	scratch []byte
}

// OpenSerial opens the device and applies the per-read timeout. A read
// that outlives the timeout without completing a line fails with
// ErrReadTimeout; buffered partial-line bytes are kept for the next read.
func OpenSerial(cfg SerialConfig) (*Serial, error) {
	mode := &serial.Mode{
		BaudRate: cfg.Baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	port, err := serial.Open(cfg.Device, mode)
	if err != nil {
		return nil, fmt.Errorf("source: open %s: %w", cfg.Device, err)
	}
	timeout := cfg.ReadTimeout
	if timeout <= 0 {
		timeout = time.Second
	}
	if err := port.SetReadTimeout(timeout); err != nil {
		port.Close()
		return nil, fmt.Errorf("source: set read timeout on %s: %w", cfg.Device, err)
	}
	return &Serial{
		device:  cfg.Device,
		r:       port,
		closer:  port,
		scratch: make([]byte, 256),
	}, nil
}

func (s *Serial) ReadLine(ctx context.Context) (string, error) {
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		if i := bytes.IndexByte(s.pending, '\n'); i >= 0 {
			line := strings.TrimRight(string(s.pending[:i]), "\r")
			s.pending = s.pending[i+1:]
			return line, nil
		}
		if len(s.pending) > maxLineBytes {
			s.pending = s.pending[:0]
			return "", fmt.Errorf("source: %s: no line terminator in %d bytes, dropping buffer", s.device, maxLineBytes)
		}
		n, err := s.r.Read(s.scratch)
		if err != nil {
			return "", fmt.Errorf("source: read %s: %w", s.device, err)
		}
		if n == 0 {
			// go.bug.st/serial reports an expired receive timeout as (0, nil).
			return "", ErrReadTimeout
		}
		s.pending = append(s.pending, s.scratch[:n]...)
	}
}

func (s *Serial) Close() error {
	if s == nil || s.closer == nil {
		return nil
	}
	return s.closer.Close()
}
