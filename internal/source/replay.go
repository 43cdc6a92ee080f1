package source

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
)

// File replays sentence lines recorded from a live session. Blank lines
// and '#' comments are skipped, so annotated logs replay cleanly.
type File struct {
	f  *os.File
	sc *bufio.Scanner
}

func OpenFile(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("source: open replay %s: %w", path, err)
	}
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, maxLineBytes), maxLineBytes)
	return &File{f: f, sc: sc}, nil
}

// ReadLine returns the next recorded sentence, or io.EOF when the
// recording is spent.
func (r *File) ReadLine(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	for r.sc.Scan() {
		line := strings.TrimSpace(r.sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		return line, nil
	}
	if err := r.sc.Err(); err != nil {
		return "", fmt.Errorf("source: replay read: %w", err)
	}
	return "", io.EOF
}

func (r *File) Close() error {
	if r == nil || r.f == nil {
		return nil
	}
	return r.f.Close()
}
