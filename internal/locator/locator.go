// Package locator implements the ranked-fallback element search used across
// the extraction pipeline. The markup of the results page is unversioned and
// may change without notice, so no single selector is trusted: each semantic
// field carries an ordered rule list and the first rule producing non-empty
// trimmed text wins. A miss is never an error.
package locator

import (
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/antchfx/htmlquery"
)

// Kind discriminates the selection strategy of a Rule.
type Kind string

const (
	// KindCSS matches by CSS selector within the scope.
	KindCSS Kind = "css"
	// KindXPath matches by a relative XPath expression within the scope.
	KindXPath Kind = "xpath"
	// KindKeyword scans the scope's full text for a small vocabulary and
	// yields the first word found. Last-resort rule for a known value set.
	KindKeyword Kind = "keyword"
)

// Rule is one element-selection strategy. Expr holds the CSS selector or
// XPath expression; Words holds the vocabulary for KindKeyword rules.
type Rule struct {
	Kind  Kind
	Expr  string
	Words []string
}

// CSS builds a structural rule.
func CSS(expr string) Rule { return Rule{Kind: KindCSS, Expr: expr} }

// XPath builds an expression rule. Relative expressions (".//...") are
// evaluated against the scope's own node.
func XPath(expr string) Rule { return Rule{Kind: KindXPath, Expr: expr} }

// Keywords builds a last-resort vocabulary scan rule.
func Keywords(words ...string) Rule { return Rule{Kind: KindKeyword, Words: words} }

// FirstText resolves an ordered rule list against the scope and returns the
// first non-empty trimmed text. All-rules-miss yields "".
func FirstText(scope *goquery.Selection, rules []Rule) string {
	for _, rule := range rules {
		if text := resolve(scope, rule); text != "" {
			return text
		}
	}
	return ""
}

// FirstTextLogged is FirstText with per-field debug logging of the winning
// rule, useful when diagnosing stale selectors against a live page.
func FirstTextLogged(scope *goquery.Selection, field string, rules []Rule, logger *slog.Logger) string {
	for i, rule := range rules {
		if text := resolve(scope, rule); text != "" {
			logger.Debug("field resolved", "field", field, "rule", i, "kind", rule.Kind)
			return text
		}
	}
	logger.Debug("field unresolved", "field", field, "rules", len(rules))
	return ""
}

func resolve(scope *goquery.Selection, rule Rule) string {
	switch rule.Kind {
	case KindCSS:
		var found string
		scope.Find(rule.Expr).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
			if text := strings.TrimSpace(sel.Text()); text != "" {
				found = text
				return false
			}
			return true
		})
		return found

	case KindXPath:
		for _, node := range scope.Nodes {
			// Invalid expressions are a locator-miss, not an error.
			matches, err := htmlquery.QueryAll(node, rule.Expr)
			if err != nil {
				return ""
			}
			for _, m := range matches {
				if text := strings.TrimSpace(htmlquery.InnerText(m)); text != "" {
					return text
				}
			}
		}
		return ""

	case KindKeyword:
		full := strings.ToLower(scope.Text())
		for _, word := range rule.Words {
			if strings.Contains(full, strings.ToLower(word)) {
				return word
			}
		}
		return ""
	}
	return ""
}
