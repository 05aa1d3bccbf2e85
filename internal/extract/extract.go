// Package extract turns the rendered results page into typed flight offers.
// It operates on an HTML snapshot rather than live element handles, so the
// whole pipeline is testable against a fixed document.
package extract

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"farescout/internal/locator"
	"farescout/internal/parse"
	"farescout/internal/types"
)

// Extractor enumerates result cards and assembles offers.
type Extractor struct {
	logger *slog.Logger
}

// New creates an extractor.
func New(logger *slog.Logger) *Extractor {
	return &Extractor{logger: logger.With("component", "extractor")}
}

// Document parses a page snapshot into a goquery document. The underlying
// node tree is shared with the XPath locator rules, so the page is parsed
// exactly once.
func Document(snapshot string) (*goquery.Document, error) {
	root, err := html.Parse(strings.NewReader(snapshot))
	if err != nil {
		return nil, fmt.Errorf("parse page snapshot: %w", err)
	}
	return goquery.NewDocumentFromNode(root), nil
}

// Offers extracts every well-formed offer from the document. A card that
// fails to yield a parseable price is dropped; any other missing field
// degrades to an empty or sentinel value. One bad card never aborts the
// batch.
func (e *Extractor) Offers(doc *goquery.Document) []types.FlightOffer {
	cards := e.Cards(doc)

	offers := make([]types.FlightOffer, 0, len(cards))
	for i, card := range cards {
		offer, ok := e.offer(card)
		if !ok {
			e.logger.Debug("card skipped", "index", i)
			continue
		}
		offers = append(offers, offer)
	}

	e.logger.Info("cards extracted", "cards", len(cards), "offers", len(offers))
	return offers
}

// Cards gathers all distinct result-card elements. Several card selectors
// may match overlapping subsets of the same element set, so matches are
// de-duplicated by a stable identity key: the data-testid attribute when
// present, else the element's own runtime handle.
func (e *Extractor) Cards(doc *goquery.Document) []*goquery.Selection {
	seen := make(map[string]struct{})
	var cards []*goquery.Selection

	for _, selector := range locator.Cards {
		doc.Find(selector).Each(func(_ int, sel *goquery.Selection) {
			key := identityKey(sel)
			if _, dup := seen[key]; dup {
				return
			}
			seen[key] = struct{}{}
			cards = append(cards, sel)
		})
	}

	if len(cards) == 0 {
		doc.Find(locator.CardFallback).Each(func(_ int, sel *goquery.Selection) {
			cards = append(cards, sel)
		})
		e.logger.Warn("no card selector matched, using broadest fallback",
			"selector", locator.CardFallback, "matches", len(cards))
	}

	return cards
}

func identityKey(sel *goquery.Selection) string {
	if id, ok := sel.Attr("data-testid"); ok && id != "" {
		return id
	}
	if len(sel.Nodes) > 0 {
		return fmt.Sprintf("%p", sel.Nodes[0])
	}
	return sel.Text()
}

// offer assembles one record from a card scope. The second return value is
// false when the card has no parseable price and must be dropped.
func (e *Extractor) offer(card *goquery.Selection) (types.FlightOffer, bool) {
	departure := locator.FirstText(card, locator.DepartureTime)
	arrival := locator.FirstText(card, locator.ArrivalTime)
	airline := locator.FirstText(card, locator.Airline)

	priceText := locator.FirstText(card, locator.Price)
	if priceText == "" {
		// Last resort: the card's whole text still often carries the fare.
		priceText = strings.TrimSpace(card.Text())
	}
	price, ok := parse.ParsePrice(priceText)
	if !ok {
		return types.FlightOffer{}, false
	}

	connection := locator.FirstText(card, locator.ConnectionInfo)
	duration := locator.FirstText(card, locator.Duration)

	if airline == "" {
		airline = types.UnknownAirline
	}
	minutes, _ := parse.ParseDurationMinutes(duration)

	return types.FlightOffer{
		DepartureTime:   departure,
		ArrivalTime:     arrival,
		Airline:         airline,
		Price:           price,
		PriceDisplay:    strings.TrimSpace(priceText),
		ConnectionInfo:  parse.ClassifyConnection(connection),
		Duration:        strings.TrimSpace(duration),
		DurationMinutes: minutes,
	}, true
}
