package source

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
	"time"
)

const dialTimeout = 2 * time.Second

// TCP reads sentence lines from a TCP line server: a gpsd raw feed or a
// ser2net bridge in front of the receiver.
type TCP struct {
	conn    net.Conn
	br      *bufio.Reader
	timeout time.Duration
}

// DialTCP connects to addr (host:port). Each read is bounded by
// readTimeout via a connection deadline.
func DialTCP(ctx context.Context, addr string, readTimeout time.Duration) (*TCP, error) {
	d := &net.Dialer{Timeout: dialTimeout}
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("source: dial %s: %w", addr, err)
	}
	if readTimeout <= 0 {
		readTimeout = time.Second
	}
	return &TCP{
		conn:    conn,
		br:      bufio.NewReaderSize(conn, maxLineBytes),
		timeout: readTimeout,
	}, nil
}

func (t *TCP) ReadLine(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := t.conn.SetReadDeadline(time.Now().Add(t.timeout)); err != nil {
		return "", fmt.Errorf("source: set read deadline: %w", err)
	}
	// A deadline mid-line discards the partial read; the next full line
	// then fails its checksum and is dropped as a frame error.
	line, err := t.br.ReadString('\n')
	if err != nil {
		if errors.Is(err, os.ErrDeadlineExceeded) {
			return "", ErrReadTimeout
		}
		return "", fmt.Errorf("source: read %s: %w", t.conn.RemoteAddr(), err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (t *TCP) Close() error {
	if t == nil || t.conn == nil {
		return nil
	}
	return t.conn.Close()
}
