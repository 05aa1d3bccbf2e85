// Package session sequences one scrape run: form-driven navigation with a
// single escalation to direct-URL navigation, result wait, extraction, and
// persistence. Stage failures travel as values, not unwound stacks; the
// orchestrator matches on them to choose the next action.
package session

import (
	"context"
	"fmt"
	"log/slog"

	"farescout/internal/extract"
	"farescout/internal/search"
	"farescout/internal/storage"
	"farescout/internal/types"
)

// PageDriver is the navigation surface the orchestrator needs from the
// browser session.
type PageDriver interface {
	Navigate(url string) error
	HTML() (string, error)
}

// SearchDriver is the form-interaction surface.
type SearchDriver interface {
	AcceptConsent()
	Run(q types.SearchQuery) error
	WaitForResults() error
}

// Result summarizes a successful run.
type Result struct {
	Offers       int
	UsedFallback bool
	OutputName   string
}

// Orchestrator wires the drivers, the extractor and the storage backend for
// one query.
type Orchestrator struct {
	page      PageDriver
	form      SearchDriver
	extractor *extract.Extractor
	store     storage.Storage
	baseURL   string
	logger    *slog.Logger
}

// New creates an orchestrator.
func New(page PageDriver, form SearchDriver, store storage.Storage, baseURL string, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{
		page:      page,
		form:      form,
		extractor: extract.New(logger),
		store:     store,
		baseURL:   baseURL,
		logger:    logger.With("component", "session"),
	}
}

// Run drives the query end-to-end and persists the offer set. The caller
// owns browser teardown; Run never leaves the session in a state that
// prevents it.
func (o *Orchestrator) Run(ctx context.Context, q types.SearchQuery) (*Result, error) {
	if err := o.page.Navigate(o.baseURL); err != nil {
		return nil, fmt.Errorf("open listing page: %w", err)
	}

	var formErr error
	usedFallback := false

	if formErr = o.form.Run(q); formErr != nil {
		o.logger.Warn("form path failed, falling back to direct URL", "error", formErr)

		directURL := search.BuildURL(o.baseURL, q)
		o.logger.Info("navigating to direct search URL", "url", directURL)
		if err := o.page.Navigate(directURL); err != nil {
			return nil, fmt.Errorf("direct URL fallback: %w (form path: %v)", err, formErr)
		}
		o.form.AcceptConsent()
		usedFallback = true
	}

	if err := o.form.WaitForResults(); err != nil {
		return nil, o.noOffersError(formErr, err)
	}

	html, err := o.page.HTML()
	if err != nil {
		return nil, &types.ExtractError{URL: o.baseURL, Err: err}
	}
	doc, err := extract.Document(html)
	if err != nil {
		return nil, &types.ExtractError{URL: o.baseURL, Err: err}
	}

	offers := o.extractor.Offers(doc)
	if len(offers) == 0 {
		return nil, o.noOffersError(formErr, types.ErrNoOffers)
	}

	if err := o.store.Write(ctx, q, offers); err != nil {
		return nil, err
	}

	o.logger.Info("session complete",
		"offers", len(offers),
		"direct_url_fallback", usedFallback,
		"storage", o.store.Name(),
	)
	return &Result{
		Offers:       len(offers),
		UsedFallback: usedFallback,
		OutputName:   o.store.Name(),
	}, nil
}

// noOffersError attributes a zero-record outcome: the original form-path
// failure is the reported cause when one occurred, otherwise the generic
// stale-selectors condition.
func (o *Orchestrator) noOffersError(formErr, cause error) error {
	if formErr != nil {
		return fmt.Errorf("no offers extracted (%v); form path failure: %w", cause, formErr)
	}
	return cause
}
