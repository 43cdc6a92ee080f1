package source

import (
	"context"
	"errors"
)

// ErrReadTimeout marks a read that expired before a full line arrived. The
// caller decides whether to keep waiting or give up on an in-flight report.
var ErrReadTimeout = errors.New("source: read timed out")

// maxLineBytes bounds line accumulation. NMEA sentences top out at 82
// bytes; anything near this limit is wrong-baud garbage.
const maxLineBytes = 4096

// LineSource is a closeable stream of raw sentence lines.
type LineSource interface {
	ReadLine(ctx context.Context) (string, error)
	Close() error
}
