// Package search builds the direct results URL used when interactive form
// filling fails. City names are slugified the way the site's own routes
// spell them, with a small override table for ambiguous or multi-airport
// cities.
package search

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"farescout/internal/types"
)

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// asciiFold decomposes to NFKD and strips combining marks, turning
// "Lefkoşa" into "Lefkosa" and "İstanbul" into "Istanbul".
var asciiFold = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Slugify transliterates a city or airport name to the lower-case
// ASCII-and-hyphens form used in result URLs. Unresolvable input yields
// "unknown" rather than an empty path segment.
func Slugify(value string) string {
	folded, _, err := transform.String(asciiFold, value)
	if err != nil {
		folded = value
	}
	// Dotless ı carries no combining mark, so fold it explicitly.
	folded = strings.Map(func(r rune) rune {
		if r == 'ı' || r == 'I' {
			return 'i'
		}
		return r
	}, folded)

	slug := strings.ToLower(folded)
	slug = nonAlnum.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")
	if slug == "" {
		return "unknown"
	}
	return slug
}

// slugOverrides maps slugs of frequently requested cities/airports to the
// route segments the site actually uses.
var slugOverrides = map[string]string{
	"istanbul":         "istanbul",
	"istanbul-avrupa":  "istanbul",
	"istanbul-anadolu": "istanbul-saw",
	"istanbul-saw":     "istanbul-saw",
	"lefkosa":          "lefkosa",
	"nicosia":          "lefkosa",
	"ercan":            "ercan",
}

// routeSegment picks the URL segment for one endpoint: an explicit override
// from the query wins, then the override table, then the plain slug.
func routeSegment(name, explicit string) string {
	part := explicit
	if part == "" {
		part = Slugify(name)
	}
	if mapped, ok := slugOverrides[strings.ToLower(part)]; ok {
		return mapped
	}
	return part
}

// BuildURL constructs the navigable results URL for a query against the
// given base listing page, e.g.
// {base}istanbul-lefkosa/?gidis=2026-09-12&donus=2026-09-19.
func BuildURL(base string, q types.SearchQuery) string {
	origin := routeSegment(q.Origin, q.OriginSlug)
	destination := routeSegment(q.Destination, q.DestinationSlug)

	var b strings.Builder
	b.WriteString(base)
	if !strings.HasSuffix(base, "/") {
		b.WriteString("/")
	}
	b.WriteString(origin)
	b.WriteString("-")
	b.WriteString(destination)
	b.WriteString("/?gidis=")
	b.WriteString(q.DepartureDate.Format(types.DateFormat))
	if q.RoundTrip() {
		b.WriteString("&donus=")
		b.WriteString(q.ReturnDate.Format(types.DateFormat))
	}
	return b.String()
}
