package locator

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func docFrom(t *testing.T, html string) *goquery.Selection {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parse fixture: %v", err)
	}
	return doc.Selection
}

func TestFirstTextRuleOrder(t *testing.T) {
	scope := docFrom(t, `<div>
		<span data-testid="departure-time">08:45</span>
		<div class="departure"><span class="time">should not win</span></div>
	</div>`)

	got := FirstText(scope, DepartureTime)
	if got != "08:45" {
		t.Errorf("expected first rule to win, got %q", got)
	}
}

func TestFirstTextSkipsEmptyMatches(t *testing.T) {
	scope := docFrom(t, `<div>
		<span data-testid="arrival-time">   </span>
		<div class="arrival"><span class="time">10:10</span></div>
	</div>`)

	got := FirstText(scope, ArrivalTime)
	if got != "10:10" {
		t.Errorf("expected fallback rule to win over whitespace match, got %q", got)
	}
}

func TestFirstTextAllMiss(t *testing.T) {
	scope := docFrom(t, `<div><p>nothing useful here</p></div>`)

	if got := FirstText(scope, Price); got != "" {
		t.Errorf("expected empty string on all-miss, got %q", got)
	}
}

func TestXPathRule(t *testing.T) {
	scope := docFrom(t, `<article><p>1 Aktarma ile</p></article>`)

	got := FirstText(scope, ConnectionInfo)
	if got != "1 Aktarma ile" {
		t.Errorf("expected translate() xpath to match, got %q", got)
	}
}

func TestKeywordRule(t *testing.T) {
	scope := docFrom(t, `<article><p>Operated by PEGASUS airlines</p></article>`)

	got := FirstText(scope, Airline)
	if got != "Pegasus" {
		t.Errorf("expected keyword vocabulary hit, got %q", got)
	}
}

func TestInvalidXPathIsAMiss(t *testing.T) {
	scope := docFrom(t, `<div><span>text</span></div>`)

	rules := []Rule{XPath("//["), CSS("span")}
	if got := FirstText(scope, rules); got != "text" {
		t.Errorf("invalid xpath should fall through to next rule, got %q", got)
	}
}
