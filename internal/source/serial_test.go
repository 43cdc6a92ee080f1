package source

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptPort plays back a fixed sequence of reads. A zero-value step is a
// receive timeout: (0, nil), the way go.bug.st/serial reports it.
type scriptPort struct {
	steps []readStep
}

type readStep struct {
	data string
	err  error
}

func (p *scriptPort) Read(buf []byte) (int, error) {
	if len(p.steps) == 0 {
		return 0, io.EOF
	}
	st := p.steps[0]
	p.steps = p.steps[1:]
	if st.err != nil {
		return 0, st.err
	}
	return copy(buf, st.data), nil
}

func newTestSerial(steps ...readStep) *Serial {
	return &Serial{
		device:  "testport",
		r:       &scriptPort{steps: steps},
		scratch: make([]byte, 64),
	}
}

func TestSerial_ReadLine_AssemblesAcrossReads(t *testing.T) {
	t.Parallel()
	s := newTestSerial(
		readStep{data: "$GPGSV,1,1"},
		readStep{data: ",00*79\r\n$GPR"},
		readStep{data: "MC,x*00\r\n"},
	)

	line, err := s.ReadLine(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "$GPGSV,1,1,00*79", line)

	line, err = s.ReadLine(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "$GPRMC,x*00", line)
}

func TestSerial_ReadLine_TimeoutKeepsPartial(t *testing.T) {
	t.Parallel()
	s := newTestSerial(
		readStep{data: "$GPGSV,par"},
		readStep{}, // timeout
		readStep{data: "tial*00\n"},
	)

	_, err := s.ReadLine(context.Background())
	require.ErrorIs(t, err, ErrReadTimeout)

	line, err := s.ReadLine(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "$GPGSV,partial*00", line)
}

func TestSerial_ReadLine_PortErrorWrapped(t *testing.T) {
	t.Parallel()
	portGone := errors.New("device unplugged")
	s := newTestSerial(readStep{err: portGone})

	_, err := s.ReadLine(context.Background())
	require.ErrorIs(t, err, portGone)
	assert.Contains(t, err.Error(), "testport")
}

func TestSerial_ReadLine_Cancelled(t *testing.T) {
	t.Parallel()
	s := newTestSerial(readStep{data: "$GPGSV*00\n"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.ReadLine(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestSerial_ReadLine_GarbageFloodDropsBuffer(t *testing.T) {
	t.Parallel()
	// Wrong-baud noise: no line terminator anywhere.
	steps := make([]readStep, 0, 66)
	chunk := make([]byte, 64)
	for i := range chunk {
		chunk[i] = 0xA5
	}
	for i := 0; i < 65; i++ {
		steps = append(steps, readStep{data: string(chunk)})
	}
	steps = append(steps, readStep{data: "$GPGSV,ok*00\n"})
	s := &Serial{device: "testport", r: &scriptPort{steps: steps}, scratch: make([]byte, 64)}

	_, err := s.ReadLine(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dropping buffer")

	line, err := s.ReadLine(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "$GPGSV,ok*00", line)
}

type recordingCloser struct {
	closed bool
	err    error
}

func (c *recordingCloser) Close() error {
	c.closed = true
	return c.err
}

func TestSerial_Close(t *testing.T) {
	t.Parallel()
	rc := &recordingCloser{}
	s := &Serial{closer: rc}
	require.NoError(t, s.Close())
	assert.True(t, rc.closed)

	var nilSerial *Serial
	assert.NoError(t, nilSerial.Close())
	assert.NoError(t, (&Serial{}).Close())
}
