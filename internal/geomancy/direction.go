package geomancy

import (
	"fmt"

	"gpsgeomancy/internal/nmea"
)

// Direction is a cardinal compass quadrant.
type Direction int

const (
	North Direction = iota
	East
	South
	West
)

// Directions lists the four quadrants.
var Directions = [4]Direction{North, East, South, West}

func (d Direction) String() string {
	switch d {
	case North:
		return "North"
	case East:
		return "East"
	case South:
		return "South"
	case West:
		return "West"
	}
	return fmt.Sprintf("Direction(%d)", int(d))
}

// Classified is a satellite with its compass assignment.
type Classified struct {
	Sat       nmea.Satellite
	Direction Direction
	Deviation int // degrees off the direction's ideal bearing, 0-45
}

// Classify assigns sat to the quadrant its azimuth falls in and scores how
// far it sits from the quadrant's ideal bearing (N=0, E=90, S=180, W=270).
// Azimuths exactly on a quadrant boundary (45, 135, 225, 315) fall in no
// quadrant: ok is false and the satellite takes no part in selection.
func Classify(sat nmea.Satellite) (Classified, bool) {
	azi := sat.Azimuth
	switch {
	case azi > 315 || azi < 45:
		dev := azi
		if azi > 180 {
			dev = 360 - azi
		}
		return Classified{Sat: sat, Direction: North, Deviation: dev}, true
	case azi > 45 && azi < 135:
		return Classified{Sat: sat, Direction: East, Deviation: abs(azi - 90)}, true
	case azi > 135 && azi < 225:
		return Classified{Sat: sat, Direction: South, Deviation: abs(azi - 180)}, true
	case azi > 225 && azi < 315:
		return Classified{Sat: sat, Direction: West, Deviation: abs(azi - 270)}, true
	}
	return Classified{}, false
}

// ClassifyAll classifies every satellite in a table, leaving boundary
// azimuths out. Map iteration makes the output order unspecified; the
// selection tie-break inherits that.
func ClassifyAll(sats map[int]nmea.Satellite) []Classified {
	out := make([]Classified, 0, len(sats))
	for _, sat := range sats {
		if c, ok := Classify(sat); ok {
			out = append(out, c)
		}
	}
	return out
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
