package types

import "time"

// SearchQuery is the immutable input for one scrape session. Its fields are
// prefixed as leading columns on every offer the session emits.
type SearchQuery struct {
	Origin          string
	Destination     string
	OriginSlug      string // optional slug override for direct-URL navigation
	DestinationSlug string // optional slug override for direct-URL navigation
	DepartureDate   time.Time
	ReturnDate      time.Time // zero value = one-way trip
}

// RoundTrip reports whether a return date was requested.
func (q SearchQuery) RoundTrip() bool { return !q.ReturnDate.IsZero() }

// DateFormat is the wire format for dates in CLI input, result URLs and output rows.
const DateFormat = "2006-01-02"

// UnknownAirline is the sentinel used when no airline text can be located.
const UnknownAirline = "Unknown"

// FlightOffer is one parsed result card. Price is the only required field;
// everything else degrades to an empty or sentinel value.
type FlightOffer struct {
	DepartureTime   string  // raw display string, may be empty
	ArrivalTime     string  // raw display string, may be empty
	Airline         string  // never empty, defaults to UnknownAirline
	Price           float64 // non-negative, always present on a retained offer
	PriceDisplay    string  // original price text, kept for auditability
	ConnectionInfo  string  // normalized category, see parse.ClassifyConnection
	Duration        string  // raw display string
	DurationMinutes int     // 0 = not determinable, positive otherwise
}
