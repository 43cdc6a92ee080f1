package source

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sliceSource struct {
	lines  []string
	closed bool
}

func (s *sliceSource) ReadLine(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(s.lines) == 0 {
		return "", io.EOF
	}
	line := s.lines[0]
	s.lines = s.lines[1:]
	return line, nil
}

func (s *sliceSource) Close() error {
	s.closed = true
	return nil
}

type flakyWriter struct {
	buf       bytes.Buffer
	failAfter int
	writes    int
	closed    bool
}

func (w *flakyWriter) Write(p []byte) (int, error) {
	w.writes++
	if w.failAfter > 0 && w.writes > w.failAfter {
		return 0, errors.New("disk full")
	}
	return w.buf.Write(p)
}

func (w *flakyWriter) Close() error {
	w.closed = true
	return nil
}

func TestRecorder_TeesLines(t *testing.T) {
	t.Parallel()
	src := &sliceSource{lines: []string{"$GPGSV,1,1,00*79", "$GPRMC,x*00"}}
	w := &flakyWriter{}
	rec := NewRecorder(src, w)

	for i := 0; i < 2; i++ {
		_, err := rec.ReadLine(context.Background())
		require.NoError(t, err)
	}
	_, err := rec.ReadLine(context.Background())
	require.ErrorIs(t, err, io.EOF)

	assert.Equal(t, "$GPGSV,1,1,00*79\n$GPRMC,x*00\n", w.buf.String())
	assert.NoError(t, rec.WriteErr())
}

func TestRecorder_WriteFailureKeepsReading(t *testing.T) {
	t.Parallel()
	src := &sliceSource{lines: []string{"$A*00", "$B*00", "$C*00"}}
	w := &flakyWriter{failAfter: 1}
	rec := NewRecorder(src, w)

	for _, want := range []string{"$A*00", "$B*00", "$C*00"} {
		line, err := rec.ReadLine(context.Background())
		require.NoError(t, err)
		assert.Equal(t, want, line)
	}

	require.Error(t, rec.WriteErr())
	assert.Equal(t, "$A*00\n", w.buf.String())
}

func TestRecorder_CloseClosesBoth(t *testing.T) {
	t.Parallel()
	src := &sliceSource{}
	w := &flakyWriter{}
	rec := NewRecorder(src, w)

	require.NoError(t, rec.Close())
	assert.True(t, src.closed)
	assert.True(t, w.closed)
}
