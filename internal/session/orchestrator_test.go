package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"

	"farescout/internal/form"
	"farescout/internal/types"
)

var testLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

const resultsHTML = `<html><body><main>
	<div data-testid="flight-card-1">
		<span data-testid="departure-time">08:00</span>
		<span data-testid="arrival-time">09:20</span>
		<span data-testid="airline-name">Pegasus</span>
		<span data-testid="price">1.249,99 TL</span>
		<span data-testid="connection-info">Aktarmasız</span>
		<span data-testid="duration">1 saat 20 dakika</span>
	</div>
</main></body></html>`

const emptyHTML = `<html><body><main></main></body></html>`

type fakePage struct {
	visited []string
	html    string
	navErr  error
}

func (p *fakePage) Navigate(url string) error {
	if p.navErr != nil {
		return p.navErr
	}
	p.visited = append(p.visited, url)
	return nil
}

func (p *fakePage) HTML() (string, error) { return p.html, nil }

type fakeForm struct {
	runErr      error
	waitErr     error
	consentRuns int
}

func (f *fakeForm) AcceptConsent()              { f.consentRuns++ }
func (f *fakeForm) Run(types.SearchQuery) error { return f.runErr }
func (f *fakeForm) WaitForResults() error       { return f.waitErr }

type fakeStore struct {
	query  types.SearchQuery
	offers []types.FlightOffer
	writes int
}

func (s *fakeStore) Write(_ context.Context, q types.SearchQuery, offers []types.FlightOffer) error {
	s.query = q
	s.offers = offers
	s.writes++
	return nil
}
func (s *fakeStore) Close() error { return nil }
func (s *fakeStore) Name() string { return "fake" }

func testQuery(t *testing.T) types.SearchQuery {
	t.Helper()
	dep, err := time.Parse(types.DateFormat, "2026-09-12")
	if err != nil {
		t.Fatal(err)
	}
	return types.SearchQuery{Origin: "İstanbul", Destination: "Lefkoşa", DepartureDate: dep}
}

const base = "https://www.enuygun.com/ucak-bileti/"

func TestRunFormPathSuccess(t *testing.T) {
	page := &fakePage{html: resultsHTML}
	store := &fakeStore{}
	o := New(page, &fakeForm{}, store, base, testLogger)

	res, err := o.Run(context.Background(), testQuery(t))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.Offers != 1 || res.UsedFallback {
		t.Errorf("result = %+v, want 1 offer via form path", res)
	}
	if len(page.visited) != 1 || page.visited[0] != base {
		t.Errorf("visited = %v, want only the base listing page", page.visited)
	}
	if store.writes != 1 || len(store.offers) != 1 {
		t.Errorf("expected one write of one offer, got %d writes / %d offers", store.writes, len(store.offers))
	}
	if store.offers[0].Price != 1249.99 {
		t.Errorf("stored price = %v", store.offers[0].Price)
	}
}

func TestRunStageFailureTriggersDirectURLBeforeFatal(t *testing.T) {
	stageErr := &types.StageError{Stage: form.StageDates, Err: types.ErrControlNotFound}
	page := &fakePage{html: resultsHTML}
	f := &fakeForm{runErr: stageErr}
	o := New(page, f, &fakeStore{}, base, testLogger)

	res, err := o.Run(context.Background(), testQuery(t))
	if err != nil {
		t.Fatalf("run should recover through the fallback, got %v", err)
	}
	if !res.UsedFallback {
		t.Error("expected direct-URL fallback to be recorded")
	}
	if len(page.visited) != 2 {
		t.Fatalf("expected base navigation then direct URL, got %v", page.visited)
	}
	direct := page.visited[1]
	if !strings.HasPrefix(direct, base+"istanbul-lefkosa/") || !strings.Contains(direct, "gidis=2026-09-12") {
		t.Errorf("direct URL = %q", direct)
	}
	if f.consentRuns != 1 {
		t.Errorf("consent should be re-run after direct navigation, got %d", f.consentRuns)
	}
}

func TestRunZeroOffersReportsFormFailureAsCause(t *testing.T) {
	stageErr := &types.StageError{Stage: form.StageOrigin, Err: types.ErrControlNotFound}
	page := &fakePage{html: emptyHTML}
	o := New(page, &fakeForm{runErr: stageErr}, &fakeStore{}, base, testLogger)

	_, err := o.Run(context.Background(), testQuery(t))
	if err == nil {
		t.Fatal("expected error for zero extracted offers")
	}
	var se *types.StageError
	if !errors.As(err, &se) {
		t.Errorf("zero-offer error should carry the form-path failure, got %v", err)
	}
}

func TestRunZeroOffersGenericWhenFormSucceeded(t *testing.T) {
	page := &fakePage{html: emptyHTML}
	o := New(page, &fakeForm{}, &fakeStore{}, base, testLogger)

	_, err := o.Run(context.Background(), testQuery(t))
	if !errors.Is(err, types.ErrNoOffers) {
		t.Errorf("expected ErrNoOffers, got %v", err)
	}
}

func TestRunWaitTimeoutAfterFallbackKeepsFormCause(t *testing.T) {
	stageErr := &types.StageError{Stage: form.StageSubmit, Err: fmt.Errorf("boom")}
	page := &fakePage{html: resultsHTML}
	f := &fakeForm{runErr: stageErr, waitErr: types.ErrStageTimeout}
	o := New(page, f, &fakeStore{}, base, testLogger)

	_, err := o.Run(context.Background(), testQuery(t))
	if err == nil {
		t.Fatal("expected error")
	}
	var se *types.StageError
	if !errors.As(err, &se) || se.Stage != form.StageSubmit {
		t.Errorf("expected submit stage failure as cause, got %v", err)
	}
}
