package parse

import "testing"

func TestParsePrice(t *testing.T) {
	cases := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"1.234,56 TL", 1234.56, true},
		{"₺899", 899, true},
		{"899,50 TL", 899.50, true},
		{"1,234.56", 1234.56, true},
		{"1.234 TL", 1234, true},
		{"12.50", 12.50, true},
		{"TL 2.045", 2045, true},
		{"1.234.567 TL", 1234567, true},
		{"Sold out", 0, false},
		{"", 0, false},
		{"TL", 0, false},
	}

	for _, c := range cases {
		got, ok := ParsePrice(c.in)
		if ok != c.ok {
			t.Errorf("ParsePrice(%q) ok = %v, want %v", c.in, ok, c.ok)
			continue
		}
		if ok && got != c.want {
			t.Errorf("ParsePrice(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestParseDurationMinutes(t *testing.T) {
	cases := []struct {
		in   string
		want int
		ok   bool
	}{
		{"2 saat 30 dakika", 150, true},
		{"1 saat", 60, true},
		{"45 dk", 45, true},
		{"1s 20d", 80, true},
		{"2sa 15dk", 135, true},
		{"3 45", 225, true},
		{"4", 240, true},
		{"", 0, false},
		{"0 saat 0 dakika", 0, false},
		{"uçuş süresi", 0, false},
	}

	for _, c := range cases {
		got, ok := ParseDurationMinutes(c.in)
		if ok != c.ok {
			t.Errorf("ParseDurationMinutes(%q) ok = %v, want %v", c.in, ok, c.ok)
			continue
		}
		if ok && got != c.want {
			t.Errorf("ParseDurationMinutes(%q) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestParseDurationPositiveWhenDeterminable(t *testing.T) {
	if v, ok := ParseDurationMinutes("0 saat 5 dakika"); !ok || v != 5 {
		t.Errorf("got (%d, %v), want (5, true)", v, ok)
	}
}

func TestClassifyConnection(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Aktarmasız", NonStop},
		{"direct", NonStop},
		{"Aktarmasız (1 durak gösterimi)", NonStop}, // non-stop wins over digits
		{"1 aktarma", OneStop},
		{"2 aktarma", TwoStops},
		{"3 aktarmalı", ThreeStops},
		{"aktarmalı uçuş", Connecting},
		{"via transfer", Connecting},
		{"  bilinmeyen etiket  ", "bilinmeyen etiket"},
		{"", ""},
	}

	for _, c := range cases {
		if got := ClassifyConnection(c.in); got != c.want {
			t.Errorf("ClassifyConnection(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
