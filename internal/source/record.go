package source

import (
	"context"
	"io"
)

// Recorder tees every line read from a source to a writer, one sentence
// per line, in the format OpenFile replays. A write failure stops the tee
// but never disturbs the read side; the first failure is kept for the
// caller to report.
type Recorder struct {
	src      LineSource
	w        io.WriteCloser
	writeErr error
}

func NewRecorder(src LineSource, w io.WriteCloser) *Recorder {
	return &Recorder{src: src, w: w}
}

func (r *Recorder) ReadLine(ctx context.Context) (string, error) {
	line, err := r.src.ReadLine(ctx)
	if err != nil {
		return line, err
	}
	if r.writeErr == nil {
		if _, werr := io.WriteString(r.w, line+"\n"); werr != nil {
			r.writeErr = werr
		}
	}
	return line, nil
}

// WriteErr returns the first tee failure, if any.
func (r *Recorder) WriteErr() error {
	return r.writeErr
}

func (r *Recorder) Close() error {
	if r == nil {
		return nil
	}
	werr := r.w.Close()
	serr := r.src.Close()
	if werr != nil {
		return werr
	}
	return serr
}
