// Package parse converts raw flight-card text into typed values. All
// functions are pure and tolerate the free-form, locale-mixed strings the
// results page renders; a false second return value means "not determinable",
// never "zero".
package parse

import (
	"strconv"
	"strings"
)

// currency markers stripped before numeric parsing. Placement is not
// assumed: "₺899", "899 TL" and "TL 899" all work.
var currencyMarkers = []string{"₺", "TL", "tl", "€", "$"}

// ParsePrice extracts a non-negative decimal from a currency-formatted
// string. Both "1.234,56" and "1,234.56" styles are handled: when both
// separators appear, the later one is the decimal point; a sole separator
// followed by exactly three digits is treated as a thousands separator.
func ParsePrice(text string) (float64, bool) {
	s := text
	for _, m := range currencyMarkers {
		s = strings.ReplaceAll(s, m, "")
	}

	// Retain only digits and separator characters.
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' || r == '.' || r == ',' {
			b.WriteRune(r)
		}
	}
	s = b.String()
	if !strings.ContainsAny(s, "0123456789") {
		return 0, false
	}

	lastDot := strings.LastIndexByte(s, '.')
	lastComma := strings.LastIndexByte(s, ',')

	switch {
	case lastDot >= 0 && lastComma >= 0:
		if lastComma > lastDot {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case lastComma >= 0:
		s = normalizeSoleSeparator(s, ',')
	case lastDot >= 0:
		s = normalizeSoleSeparator(s, '.')
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}

// normalizeSoleSeparator decides whether the single separator kind in s is a
// thousands or a decimal separator. Exactly three trailing digits after the
// last occurrence (or repeated occurrences) mean thousands.
func normalizeSoleSeparator(s string, sep byte) string {
	last := strings.LastIndexByte(s, sep)
	trailing := len(s) - last - 1
	if trailing == 3 || strings.Count(s, string(sep)) > 1 {
		return strings.ReplaceAll(s, string(sep), "")
	}
	if sep == ',' {
		return strings.Replace(s, ",", ".", 1)
	}
	return s
}

// Duration unit prefixes: Turkish written forms plus the English fallback.
var (
	hourPrefixes   = []string{"saat", "sa", "h"}
	minutePrefixes = []string{"dakika", "dk", "d"}
)

// ParseDurationMinutes converts a duration display string ("2 saat 30 dakika",
// "1s 20d", "3 45") into total minutes. Tokens are tagged by inspecting the
// NEXT token for a unit prefix; when no token is unit-tagged, embedded digit
// runs are taken as hours then minutes (best-effort, inherently ambiguous for
// multi-digit hours). A zero total is reported as not determinable.
func ParseDurationMinutes(text string) (int, bool) {
	if text == "" {
		return 0, false
	}
	lowered := strings.ReplaceAll(strings.ToLower(text), ",", ".")

	hours, minutes := 0, 0
	tokens := strings.Fields(lowered)
	for i, token := range tokens {
		next := ""
		if i+1 < len(tokens) {
			next = tokens[i+1]
		}
		switch {
		case hasAnyPrefix(next, hourPrefixes):
			if v, err := strconv.ParseFloat(token, 64); err == nil {
				hours = int(v)
			}
		case hasAnyPrefix(next, minutePrefixes):
			if v, err := strconv.ParseFloat(token, 64); err == nil {
				minutes = int(v)
			}
		}
	}

	if hours == 0 && minutes == 0 {
		runs := digitRuns(lowered)
		switch {
		case len(runs) >= 2:
			hours, minutes = runs[0], runs[1]
		case len(runs) == 1:
			hours = runs[0]
		}
	}

	total := hours*60 + minutes
	if total == 0 {
		return 0, false
	}
	return total, true
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

// digitRuns splits out consecutive digit groups: "1s 20d" -> [1, 20].
func digitRuns(s string) []int {
	mapped := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return ' '
	}, s)

	var runs []int
	for _, f := range strings.Fields(mapped) {
		if v, err := strconv.Atoi(f); err == nil {
			runs = append(runs, v)
		}
	}
	return runs
}

// Connection category labels.
const (
	NonStop    = "Non-stop"
	OneStop    = "1 Stop"
	TwoStops   = "2 Stops"
	ThreeStops = "3 Stops"
	Connecting = "Connecting"
)

var (
	nonStopMarkers   = []string{"aktarmasız", "direct", "nonstop", "non-stop"}
	transferKeywords = []string{"aktar", "stop", "transfer"}
)

// ClassifyConnection normalizes connection text into a fixed category. A
// non-stop marker wins over any digit that also appears. Unrecognized text
// is returned verbatim, trimmed, so the raw category is preserved.
func ClassifyConnection(text string) string {
	if text == "" {
		return ""
	}
	lowered := strings.ToLower(text)

	for _, m := range nonStopMarkers {
		if strings.Contains(lowered, m) {
			return NonStop
		}
	}

	if containsAny(lowered, transferKeywords) {
		switch {
		case strings.Contains(lowered, "1"):
			return OneStop
		case strings.Contains(lowered, "2"):
			return TwoStops
		case strings.Contains(lowered, "3"):
			return ThreeStops
		}
		return Connecting
	}

	return strings.TrimSpace(text)
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
