package search

import (
	"testing"
	"time"

	"farescout/internal/types"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"İstanbul", "istanbul"},
		{"Lefkoşa", "lefkosa"},
		{"Diyarbakır", "diyarbakir"},
		{"İzmir Adnan Menderes", "izmir-adnan-menderes"},
		{"  New   York  ", "new-york"},
		{"Zürich", "zurich"},
		{"", "unknown"},
		{"!!!", "unknown"},
	}

	for _, c := range cases {
		if got := Slugify(c.in); got != c.want {
			t.Errorf("Slugify(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse(types.DateFormat, s)
	if err != nil {
		t.Fatalf("bad test date %q: %v", s, err)
	}
	return d
}

func TestBuildURLOneWay(t *testing.T) {
	q := types.SearchQuery{
		Origin:        "İstanbul",
		Destination:   "Lefkoşa",
		DepartureDate: mustDate(t, "2026-09-12"),
	}

	got := BuildURL("https://www.enuygun.com/ucak-bileti/", q)
	want := "https://www.enuygun.com/ucak-bileti/istanbul-lefkosa/?gidis=2026-09-12"
	if got != want {
		t.Errorf("BuildURL = %q, want %q", got, want)
	}
}

func TestBuildURLRoundTrip(t *testing.T) {
	q := types.SearchQuery{
		Origin:        "Ankara",
		Destination:   "Nicosia",
		DepartureDate: mustDate(t, "2026-09-12"),
		ReturnDate:    mustDate(t, "2026-09-19"),
	}

	got := BuildURL("https://www.enuygun.com/ucak-bileti", q)
	want := "https://www.enuygun.com/ucak-bileti/ankara-lefkosa/?gidis=2026-09-12&donus=2026-09-19"
	if got != want {
		t.Errorf("BuildURL = %q, want %q", got, want)
	}
}

func TestBuildURLSlugOverridesAndExplicit(t *testing.T) {
	q := types.SearchQuery{
		Origin:          "İstanbul (Anadolu)",
		Destination:     "Ercan",
		DestinationSlug: "ecn",
		DepartureDate:   mustDate(t, "2026-10-01"),
	}

	got := BuildURL("https://www.enuygun.com/ucak-bileti/", q)
	want := "https://www.enuygun.com/ucak-bileti/istanbul-saw-ecn/?gidis=2026-10-01"
	if got != want {
		t.Errorf("BuildURL = %q, want %q", got, want)
	}
}
