package geomancy

import (
	"errors"
	"fmt"
	"strings"

	"gpsgeomancy/internal/nmea"
)

// ErrIncompleteSelection means a direction had no chosen satellite; a chart
// cannot be cast from a partial selection.
var ErrIncompleteSelection = errors.New("geomancy: selection is missing a direction")

// Chart layout. Columns run West, North, East, South; each column is one
// mother figure, named by its element and ordinal.
const colWidth = 9

var (
	columns   = [4]Direction{West, North, East, South}
	elements  = [4]string{"Earth", "Water", "Air", "Fire"}
	ordinals  = [4]string{"IV", "III", "II", "I"}
	rowLabels = [4]string{"prn ", "ele ", "azi ", "snr "}
)

// Figure renders the geomantic chart for a completed selection: four
// figures, one per direction, each a column of four glyphs cast from the
// chosen satellite's prn, elevation, azimuth and snr. An even value (zero
// included) draws two stars, an odd value one star and a blank. The same
// selection always renders the same text.
func Figure(ch Chosen) (string, error) {
	for _, d := range columns {
		if _, ok := ch[d]; !ok {
			return "", fmt.Errorf("%w: %s", ErrIncompleteSelection, d)
		}
	}

	var b strings.Builder
	banner := func(cells [4]string) {
		line := "    "
		for _, c := range cells {
			line += center(c)
		}
		b.WriteString(strings.TrimRight(line, " "))
		b.WriteByte('\n')
	}

	banner(elements)
	banner(ordinals)

	for row, label := range rowLabels {
		line := label
		for _, d := range columns {
			line += center(glyph(attribute(ch[d].Sat, row)))
		}
		b.WriteString(strings.TrimRight(line, " "))
		b.WriteByte('\n')
	}

	var names [4]string
	for i, d := range columns {
		names[i] = d.String()
	}
	banner(names)

	return b.String(), nil
}

// glyph casts one attribute value: two stars for even, one for odd.
func glyph(v int) string {
	if v%2 == 0 {
		return "**"
	}
	return "* "
}

func attribute(s nmea.Satellite, row int) int {
	switch row {
	case 0:
		return s.PRN
	case 1:
		return s.Elevation
	case 2:
		return s.Azimuth
	default:
		return s.SNR
	}
}

// center pads s to the column width, extra space going right.
func center(s string) string {
	pad := colWidth - len(s)
	if pad < 0 {
		return s
	}
	left := pad / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", pad-left)
}
