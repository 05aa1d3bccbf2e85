// Package form drives the interactive flight search: consent handling,
// origin/destination entry, date selection and submission. Stages are
// strictly sequential with no backward transitions; each stage locates its
// controls through ranked selector fallbacks and reports failure as a
// StageError so the orchestrator can escalate to direct-URL navigation.
package form

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-rod/rod"
	kb "github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/proto"

	"farescout/internal/locator"
	"farescout/internal/types"
)

// Stage identifiers, in execution order.
const (
	StageConsent     = "consent"
	StageOrigin      = "origin"
	StageDestination = "destination"
	StageDates       = "dates"
	StageSubmit      = "submit"
)

// Sequencer runs the five form stages against a live page.
type Sequencer struct {
	page    *rod.Page
	maxWait time.Duration
	logger  *slog.Logger
}

// New creates a sequencer. maxWait bounds the whole interaction; stage
// budgets are fractions of it.
func New(page *rod.Page, maxWait time.Duration, logger *slog.Logger) *Sequencer {
	return &Sequencer{
		page:    page,
		maxWait: maxWait,
		logger:  logger.With("component", "form"),
	}
}

// budget returns maxWait divided by n, the stage sub-budget scheme.
func (s *Sequencer) budget(n int) time.Duration {
	return s.maxWait / time.Duration(n)
}

// Run executes the full stage sequence for the query. Consent handling is
// best-effort and never fails the run; any later stage failure aborts the
// sequence with a StageError.
func (s *Sequencer) Run(q types.SearchQuery) error {
	s.AcceptConsent()

	if err := s.enterLocation(roleOrigin, q.Origin); err != nil {
		return &types.StageError{Stage: StageOrigin, Err: err}
	}
	if err := s.enterLocation(roleDestination, q.Destination); err != nil {
		return &types.StageError{Stage: StageDestination, Err: err}
	}
	if err := s.selectDates(q); err != nil {
		return &types.StageError{Stage: StageDates, Err: err}
	}
	if err := s.submit(); err != nil {
		return &types.StageError{Stage: StageSubmit, Err: err}
	}
	return nil
}

// --- Location entry ---

type locationRole string

const (
	roleOrigin      locationRole = "origin"
	roleDestination locationRole = "destination"
)

// roleKeywords drive the fuzzy input scan when no dedicated selector hits.
var roleKeywords = map[locationRole][]string{
	roleOrigin:      {"nereden", "origin", "kalkış", "from"},
	roleDestination: {"nereye", "destination", "varış", "to"},
}

var suggestionSelector = "li[data-testid*='suggestion'], li[role='option'], ul[role='listbox'] li"

// enterLocation types a city name into the role's input and picks the first
// suggestion, falling back to submitting the raw value when no suggestion
// list materializes within the stage budget.
func (s *Sequencer) enterLocation(role locationRole, value string) error {
	field, err := s.findLocationInput(role)
	if err != nil {
		return err
	}

	_ = field.ScrollIntoView()
	if err := field.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("focus %s input: %w", role, err)
	}
	if err := field.SelectAllText(); err != nil {
		s.logger.Debug("select-all failed, typing over", "role", role, "error", err)
	}
	if err := field.Input(value); err != nil {
		return fmt.Errorf("type %s value: %w", role, err)
	}

	suggestion, err := s.page.Timeout(s.budget(2)).Element(suggestionSelector)
	if err != nil {
		s.logger.Debug("no suggestion list, submitting raw value", "role", role)
		return s.page.Keyboard.Press(kb.Enter)
	}
	return suggestion.Click(proto.InputMouseButtonLeft, 1)
}

// findLocationInput tries dedicated data-testid/id/name selectors first,
// then fuzzily scans every input's placeholder, aria-label and data-testid
// for the role's keywords.
func (s *Sequencer) findLocationInput(role locationRole) (*rod.Element, error) {
	preferred := []string{
		fmt.Sprintf("input[data-testid*='%s']", role),
		fmt.Sprintf("input[id*='%s']", role),
		fmt.Sprintf("input[name*='%s']", role),
		fmt.Sprintf("[data-testid*='%s'] input", role),
	}
	for _, sel := range preferred {
		if el, err := s.page.Timeout(s.budget(3)).Element(sel); err == nil {
			return el, nil
		}
	}

	inputs, err := s.page.Elements("input")
	if err != nil {
		return nil, fmt.Errorf("%w: %s input", types.ErrControlNotFound, role)
	}
	keywords := roleKeywords[role]
	for _, el := range inputs {
		if matchesAnyAttr(el, keywords, "placeholder", "aria-label", "data-testid") {
			return el, nil
		}
	}
	return nil, fmt.Errorf("%w: %s input", types.ErrControlNotFound, role)
}

func matchesAnyAttr(el *rod.Element, keywords []string, attrs ...string) bool {
	for _, attr := range attrs {
		val, err := el.Attribute(attr)
		if err != nil || val == nil {
			continue
		}
		lowered := strings.ToLower(*val)
		for _, kw := range keywords {
			if strings.Contains(lowered, kw) {
				return true
			}
		}
	}
	return false
}

// --- Date selection ---

var dateTriggerSelectors = []string{
	"[data-testid*='departure-date']",
	"[data-testid*='datepicker-trigger']",
	"[class*='datepicker'] button",
	"button[id*='departure']",
	"button[data-testid*='origin-date']",
	"button[data-testid*='flight-date']",
	"[data-testid*='date-input'] button",
}

var dateTriggerXPaths = []string{
	"//button[contains(translate(., 'GİDİŞDEPARTURE', 'gidişdeparture'), 'gidiş')]",
	"//button[contains(translate(., 'GIDIS', 'gidis'), 'gidis')]",
}

var dateInputSelectors = map[string][]string{
	"departure": {
		"input[data-testid*='departure-date']",
		"[data-testid*='departure-date'] input",
		"input[name*='departure']",
		"input[name*='start']",
		"input[id*='departure']",
		"input[placeholder*='Gidiş']",
		"input[aria-label*='Gidiş']",
		"input[placeholder*='gidis']",
		"input[aria-label*='gidis']",
	},
	"return": {
		"input[data-testid*='return-date']",
		"[data-testid*='return-date'] input",
		"input[name*='return']",
		"input[name*='end']",
		"input[id*='return']",
		"input[placeholder*='Dönüş']",
		"input[aria-label*='Dönüş']",
		"input[placeholder*='donus']",
		"input[aria-label*='donus']",
	},
}

// selectDates opens the datepicker and applies the departure date, then the
// return date for round trips. A lingering calendar is closed with Escape.
func (s *Sequencer) selectDates(q types.SearchQuery) error {
	trigger := s.findDateTrigger()
	if trigger != nil {
		// Some renders open the calendar on field focus alone, so a
		// failed click is not a stage failure yet.
		if err := trigger.Click(proto.InputMouseButtonLeft, 1); err != nil {
			s.logger.Debug("date trigger click failed", "error", err)
		}
	} else {
		field := s.findDateInput("departure")
		if field == nil {
			return fmt.Errorf("%w: departure date selector", types.ErrControlNotFound)
		}
		_ = field.ScrollIntoView()
		_ = field.Focus()
	}

	if err := s.applyDate(q.DepartureDate, "departure"); err != nil {
		return err
	}
	if q.RoundTrip() {
		if err := s.applyDate(q.ReturnDate, "return"); err != nil {
			return err
		}
	}

	// Close the calendar if it is still open.
	_ = s.page.Keyboard.Press(kb.Escape)
	return nil
}

func (s *Sequencer) findDateTrigger() *rod.Element {
	for _, sel := range dateTriggerSelectors {
		if el, err := s.page.Timeout(s.budget(2)).Element(sel); err == nil {
			return el
		}
	}
	for _, xp := range dateTriggerXPaths {
		if el, err := s.page.Timeout(s.budget(2)).ElementX(xp); err == nil {
			return el
		}
	}
	return nil
}

// applyDate picks the calendar day button by exact day/month match, trying
// an aria-label shape second, and degrades to populating the bound text
// input directly with a terminal Enter.
func (s *Sequencer) applyDate(date time.Time, role string) error {
	daySelector := fmt.Sprintf("button[data-day='%d'][data-month='%d']", date.Day(), int(date.Month()))
	ariaSelector := fmt.Sprintf("button[aria-label*='%02d'][aria-label*='%s']", date.Day(), date.Month().String())

	for _, sel := range []string{daySelector, ariaSelector} {
		if el, err := s.page.Timeout(s.budget(2)).Element(sel); err == nil {
			return el.Click(proto.InputMouseButtonLeft, 1)
		}
	}

	field := s.findDateInput(role)
	if field == nil {
		return fmt.Errorf("%w: %s date input for fallback assignment", types.ErrControlNotFound, role)
	}
	_ = field.Focus()
	if err := field.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("focus %s date input: %w", role, err)
	}
	if err := field.SelectAllText(); err != nil {
		s.logger.Debug("select-all failed on date input", "role", role, "error", err)
	}
	if err := field.Input(date.Format("02.01.2006")); err != nil {
		return fmt.Errorf("type %s date: %w", role, err)
	}
	return s.page.Keyboard.Press(kb.Enter)
}

// findDateInput returns the first visible input bound to the role's date,
// without waiting: the fallback path only cares about what is already
// rendered.
func (s *Sequencer) findDateInput(role string) *rod.Element {
	for _, sel := range dateInputSelectors[role] {
		els, err := s.page.Elements(sel)
		if err != nil {
			continue
		}
		for _, el := range els {
			if visible, err := el.Visible(); err == nil && visible {
				return el
			}
		}
	}
	return nil
}

// --- Submission ---

var submitSelectors = []string{
	"button[data-testid*='search-button']",
	"button[type='submit']",
	"button[class*='search']",
	"form button",
}

func (s *Sequencer) submit() error {
	for _, sel := range submitSelectors {
		el, err := s.page.Timeout(s.budget(3)).Element(sel)
		if err != nil {
			continue
		}
		_ = el.ScrollIntoView()
		if err := el.Click(proto.InputMouseButtonLeft, 1); err == nil {
			return nil
		}
	}
	// Final fallback: submit the form with Enter.
	if err := s.page.Keyboard.Press(kb.Enter); err != nil {
		return fmt.Errorf("trigger search: %w", err)
	}
	return nil
}

// --- Result wait ---

// resultProbe bounds each marker attempt inside the overall wait budget.
const resultProbe = 2 * time.Second

// WaitForResults polls the result-card markers until one appears or the
// overall budget expires.
func (s *Sequencer) WaitForResults() error {
	deadline := time.Now().Add(s.maxWait)
	for {
		for _, marker := range locator.ResultMarkers {
			if _, err := s.page.Timeout(resultProbe).Element(marker); err == nil {
				s.logger.Debug("results appeared", "marker", marker)
				return nil
			}
			if time.Now().After(deadline) {
				return fmt.Errorf("%w after %s: %w", types.ErrStageTimeout, s.maxWait, types.ErrNoCards)
			}
		}
	}
}
