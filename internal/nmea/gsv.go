package nmea

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrIncompleteReport means a multi-sentence report could not be fully
// collected before its line source gave out.
var ErrIncompleteReport = errors.New("nmea: incomplete report")

// LineSource supplies raw sentence lines, one per call. A read blocks until
// a line arrives, the source's read timeout expires, or ctx is done.
type LineSource interface {
	ReadLine(ctx context.Context) (string, error)
}

// GSV: GNSS Satellites in View
// Fields (after the address field):
//
//	0: total number of sentences in this report
//	1: sentence index (1-based)
//	2: satellites in view
//	3+: repeating groups of (prn, elevation deg, azimuth deg, snr dB),
//	    up to 4 groups per sentence, the last group possibly truncated

// Report is one assembled satellite-view report.
type Report struct {
	Talker   string
	Declared int // sentence count announced by the first member
	InView   int // satellites in view announced by the first member
	// Members holds the report's sentences in arrival order. A member that
	// failed decode, or that disagreed with the first member's sentence
	// count or satellites-in-view, is nil.
	Members []*Sentence
}

// Collect assembles a satellite-view report starting from its first decoded
// sentence, pulling Declared-1 further matching lines from src. Lines whose
// address does not match the first member are skipped; a matching line that
// fails decode becomes a nil member. Collect fails with ErrIncompleteReport
// (wrapping the source's error) if src gives out before the report is whole.
func Collect(ctx context.Context, first Sentence, src LineSource) (Report, error) {
	if len(first.Fields) < 3 {
		return Report{}, fmt.Errorf("nmea: short satellite-view header (%d fields)", len(first.Fields))
	}
	total, err := strconv.Atoi(first.Fields[0])
	if err != nil || total < 1 {
		return Report{}, fmt.Errorf("nmea: bad sentence count %q", first.Fields[0])
	}

	rep := Report{
		Talker:   first.Talker,
		Declared: total,
		InView:   fieldInt(first.Fields[2]),
		Members:  make([]*Sentence, 0, total),
	}
	rep.Members = append(rep.Members, &first)

	prefix := "$" + first.Address() + ","
	for len(rep.Members) < total {
		line, err := src.ReadLine(ctx)
		if err != nil {
			return Report{}, fmt.Errorf("%w after %d of %d sentences: %w",
				ErrIncompleteReport, len(rep.Members), total, err)
		}
		if !strings.HasPrefix(strings.TrimSpace(line), prefix) {
			continue
		}
		s, err := Decode(line)
		if err != nil || len(s.Fields) < 3 ||
			s.Fields[0] != first.Fields[0] || s.Fields[2] != first.Fields[2] {
			rep.Members = append(rep.Members, nil)
			continue
		}
		rep.Members = append(rep.Members, &s)
	}
	return rep, nil
}

// Dropped counts the report's nil members.
func (r Report) Dropped() int {
	n := 0
	for _, m := range r.Members {
		if m == nil {
			n++
		}
	}
	return n
}

// Satellite is one tracked satellite from an assembled report.
type Satellite struct {
	PRN       int
	Elevation int // degrees above horizon
	Azimuth   int // degrees from true north
	SNR       int // dB, 0 when not received
}

// Satellites flattens the report into its satellite table. Each member's
// three leading header fields are dropped, the remaining fields of all
// non-nil members are concatenated in order, and the result is read in
// chunks of four (prn, elevation, azimuth, snr). Empty and unparsable
// values read as 0. A short trailing chunk is skipped. The table size is
// the recovered satellite count; it can be less than InView when members
// were dropped.
func (r Report) Satellites() map[int]Satellite {
	var flat []string
	for _, m := range r.Members {
		if m == nil || len(m.Fields) <= 3 {
			continue
		}
		flat = append(flat, m.Fields[3:]...)
	}
	sats := make(map[int]Satellite, len(flat)/4)
	for i := 0; i+3 < len(flat); i += 4 {
		prn := fieldInt(flat[i])
		sats[prn] = Satellite{
			PRN:       prn,
			Elevation: fieldInt(flat[i+1]),
			Azimuth:   fieldInt(flat[i+2]),
			SNR:       fieldInt(flat[i+3]),
		}
	}
	return sats
}

func fieldInt(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return v
}
