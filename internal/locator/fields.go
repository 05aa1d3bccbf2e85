package locator

// Per-field rule tables for one result card. Order matters: data-testid
// attributes first (most stable across redesigns), class-pattern shapes
// second, text-content searches last. The translate() calls lower-case
// Turkish text so the match survives mixed-case renders.

// DepartureTime locates the departure display time inside a card.
var DepartureTime = []Rule{
	CSS("[data-testid*='departure-time']"),
	CSS("[class*='departure'] [class*='time']"),
	CSS("[data-testid*='takeoff']"),
	CSS("time[data-testid*='departure']"),
}

// ArrivalTime locates the arrival display time inside a card.
var ArrivalTime = []Rule{
	CSS("[data-testid*='arrival-time']"),
	CSS("[class*='arrival'] [class*='time']"),
	CSS("time[data-testid*='arrival']"),
}

// Airline locates the carrier name, with a known-carrier vocabulary as the
// last resort.
var Airline = []Rule{
	CSS("[data-testid*='airline-name']"),
	CSS("[class*='airline'] span"),
	CSS("[class*='carrier'] span"),
	Keywords("Pegasus", "Turkish", "AnadoluJet", "SunExpress"),
}

// Price locates the displayed fare. The card's own full text is the final
// fallback, applied by the extractor rather than a rule here.
var Price = []Rule{
	CSS("[data-testid*='price']"),
	CSS("[class*='price'] span"),
	CSS("[class*='price'] strong"),
}

// ConnectionInfo locates the stop/transfer description.
var ConnectionInfo = []Rule{
	CSS("[data-testid*='connection-info']"),
	CSS("[data-testid*='leg-info']"),
	CSS("[class*='connection']"),
	XPath(".//*[contains(translate(normalize-space(.)," +
		" 'ABCDEFGHIJKLMNOPQRSTUVWXYZÇĞİÖŞÜ'," +
		" 'abcdefghijklmnopqrstuvwxyzçğıöşü'), 'aktar')]"),
	Keywords("Aktarmasız", "1 aktarma", "2 aktarma"),
}

// Duration locates the flight-time description.
var Duration = []Rule{
	CSS("[data-testid*='duration']"),
	CSS("[class*='duration']"),
	XPath(".//*[contains(translate(normalize-space(.)," +
		" 'ABCDEFGHIJKLMNOPQRSTUVWXYZÇĞİÖŞÜ'," +
		" 'abcdefghijklmnopqrstuvwxyzçğıöşü'), 'saat')]"),
	Keywords("saat", "dk"),
}

// Cards are the ranked card-level selectors. Several patterns may match
// overlapping subsets of the same element set; the extractor de-duplicates.
var Cards = []string{
	"[data-testid='flight-card']",
	"[data-testid^='flight-card-']",
	"[data-testid*='result-card']",
	"article[data-testid*='flight']",
	"article[data-testid*='result']",
	"div[data-testid*='flight-card']",
}

// CardFallback is the broadest element class used when no card selector
// matches anything.
const CardFallback = "article"

// ResultMarkers are the selectors whose appearance signals that the results
// list has rendered. The last entry is the widest net.
var ResultMarkers = []string{
	"[data-testid*='flight-card']",
	"[data-testid*='result-card']",
	"article[data-testid*='result']",
	"article[data-testid*='flight']",
	"div[data-testid*='flight-card']",
	"main article, div[data-component*='flight-card'], li[data-testid*='flight']",
}
