package geomancy

import (
	"errors"
	"strings"
	"testing"

	"gpsgeomancy/internal/nmea"
)

func fourChosen(t *testing.T) Chosen {
	t.Helper()
	return Choose([]Classified{
		classify(t, nmea.Satellite{PRN: 1, Elevation: 5, Azimuth: 10, SNR: 20}),
		classify(t, nmea.Satellite{PRN: 2, Elevation: 10, Azimuth: 100, SNR: 15}),
		classify(t, nmea.Satellite{PRN: 3, Elevation: 15, Azimuth: 190, SNR: 30}),
		classify(t, nmea.Satellite{PRN: 4, Elevation: 20, Azimuth: 260, SNR: 25}),
	})
}

func TestFigure_Golden(t *testing.T) {
	want := strings.Join([]string{
		"      Earth    Water     Air     Fire",
		"       IV       III      II        I",
		"prn    **       *        **       *",
		"ele    **       *        **       *",
		"azi    **       **       **       **",
		"snr    *        **       *        **",
		"      West     North    East     South",
		"",
	}, "\n")

	got, err := Figure(fourChosen(t))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got != want {
		t.Fatalf("chart mismatch:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestFigure_Deterministic(t *testing.T) {
	ch := fourChosen(t)
	a, err := Figure(ch)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	b, err := Figure(ch)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if a != b {
		t.Fatalf("same selection rendered differently")
	}
}

func TestFigure_MissingDirection(t *testing.T) {
	ch := fourChosen(t)
	delete(ch, South)
	_, err := Figure(ch)
	if !errors.Is(err, ErrIncompleteSelection) {
		t.Fatalf("expected ErrIncompleteSelection, got %v", err)
	}
}

func TestFigure_ZeroValuesDrawTwoStars(t *testing.T) {
	ch := Chosen{}
	for _, d := range Directions {
		ch[d] = Classified{Direction: d}
	}
	got, err := Figure(ch)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	// Every attribute is zero, so every cell in every data row is "**".
	for _, label := range rowLabels {
		want := strings.TrimRight(label, " ") + "    **       **       **       **"
		if !strings.Contains(got, want+"\n") {
			t.Fatalf("expected all-even %s row %q, got:\n%s", strings.TrimSpace(label), want, got)
		}
	}
}

func TestGlyph(t *testing.T) {
	cases := []struct {
		v    int
		want string
	}{
		{0, "**"}, {2, "**"}, {284, "**"}, {1, "* "}, {45, "* "},
	}
	for _, c := range cases {
		if got := glyph(c.v); got != c.want {
			t.Fatalf("glyph(%d) = %q, want %q", c.v, got, c.want)
		}
	}
}

func TestCenter(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Earth", "  Earth  "},
		{"I", "    I    "},
		{"**", "   **    "},
		{"* ", "   *     "},
		{"longer than nine", "longer than nine"},
	}
	for _, c := range cases {
		if got := center(c.in); got != c.want {
			t.Fatalf("center(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
