package nmea

import (
	"errors"
	"fmt"
	"strings"
)

// Decode failure kinds. Callers classify with errors.Is.
var (
	ErrMissingStart     = errors.New("nmea: missing '$'")
	ErrNoChecksum       = errors.New("nmea: no checksum marker")
	ErrChecksumMismatch = errors.New("nmea: checksum mismatch")
	ErrBadAddress       = errors.New("nmea: malformed address field")
)

// Sentence is one checksum-validated NMEA 0183 sentence.
type Sentence struct {
	Talker string // equipment family, e.g. "GP"
	Type   string // sentence type, e.g. "GSV"
	// Fields is the comma-split payload after the address field.
	// Empty fields are kept as empty strings.
	Fields []string
}

// Checksum returns the NMEA checksum of payload (XOR of all bytes) as two
// uppercase hex digits. The payload is everything between '$' and '*'.
func Checksum(payload string) string {
	ck := byte(0)
	for i := 0; i < len(payload); i++ {
		ck ^= payload[i]
	}
	return fmt.Sprintf("%02X", ck)
}

// Decode frames one raw line into a Sentence. The line may carry a trailing
// CR/LF pair. The checksum comparison is case-sensitive: the wire format
// mandates uppercase digits.
func Decode(line string) (Sentence, error) {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, "$") {
		return Sentence{}, ErrMissingStart
	}
	star := strings.LastIndexByte(line, '*')
	if star == -1 {
		return Sentence{}, ErrNoChecksum
	}
	payload := line[1:star]
	ck := line[star+1:]
	if len(ck) < 2 {
		return Sentence{}, fmt.Errorf("%w: truncated %q", ErrChecksumMismatch, ck)
	}
	ck = ck[:2]
	if sum := Checksum(payload); sum != ck {
		return Sentence{}, fmt.Errorf("%w: computed %s, sentence carries %s", ErrChecksumMismatch, sum, ck)
	}

	parts := strings.Split(payload, ",")
	addr := parts[0]
	if len(addr) != 5 {
		return Sentence{}, fmt.Errorf("%w: %q", ErrBadAddress, addr)
	}
	return Sentence{
		Talker: addr[:2],
		Type:   addr[2:],
		Fields: parts[1:],
	}, nil
}

// Address returns the sentence's five-character address field.
func (s Sentence) Address() string {
	return s.Talker + s.Type
}
