package form

import (
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// Cookie-consent dismissal is a bounded best-effort attempt: direct buttons,
// then consent iframes (SourcePoint / OneTrust patterns), then a
// text-matched button, then a JS sweep. Failure is never fatal; an
// undismissed prompt does not block the search form on most renders.

var consentButtonSelectors = []string{
	"button[data-testid*='cookie'][data-testid*='accept']",
	"button[id*='onetrust-accept']",
	"button[class*='cookie'][class*='accept']",
}

var consentIframeSelectors = []string{
	"iframe[id*='sp_message_iframe']",
	"iframe[src*='cookielaw']",
	"iframe[id*='ot-consent']",
	"iframe[src*='onetrust']",
}

// Turkish-aware lower-casing; the accept button reads "Kabul Et" on most renders.
const consentButtonXPath = "//button[contains(translate(normalize-space(.)," +
	" 'ABCDEFGHIJKLMNOPQRSTUVWXYZĞİÖŞÜÇ'," +
	" 'abcdefghijklmnopqrstuvwxyzğıöşüç'), 'kabul')]"

const consentSweepJS = `() => {
	const direct = document.querySelector('button#onetrust-accept-btn-handler');
	if (direct) { direct.click(); return true; }
	for (const btn of document.querySelectorAll('button')) {
		if (btn.textContent.trim().toLowerCase().includes('kabul')) {
			btn.click();
			return true;
		}
	}
	return false;
}`

// consentProbe bounds each individual selector attempt.
const consentProbe = 2 * time.Second

// AcceptConsent dismisses the cookie prompt if one is present.
func (s *Sequencer) AcceptConsent() {
	if s.clickAny(s.page, consentProbe, consentButtonSelectors...) {
		s.logger.Debug("consent dismissed", "via", "direct button")
		return
	}

	for _, iframeSel := range consentIframeSelectors {
		frameEl, err := s.page.Timeout(consentProbe).Element(iframeSel)
		if err != nil {
			continue
		}
		framePage, err := frameEl.Frame()
		if err != nil {
			continue
		}
		if s.clickAny(framePage, consentProbe, consentButtonSelectors...) {
			s.logger.Debug("consent dismissed", "via", "iframe", "selector", iframeSel)
			return
		}
	}

	if el, err := s.page.Timeout(s.budget(2)).ElementX(consentButtonXPath); err == nil {
		if el.Click(proto.InputMouseButtonLeft, 1) == nil {
			s.logger.Debug("consent dismissed", "via", "text match")
			return
		}
	}

	if _, err := s.page.Eval(consentSweepJS); err != nil {
		s.logger.Debug("consent sweep failed", "error", err)
	}
}

// clickAny clicks the first selector that resolves within the probe budget.
func (s *Sequencer) clickAny(page *rod.Page, probe time.Duration, selectors ...string) bool {
	for _, sel := range selectors {
		el, err := page.Timeout(probe).Element(sel)
		if err != nil {
			continue
		}
		if err := el.Click(proto.InputMouseButtonLeft, 1); err == nil {
			return true
		}
	}
	return false
}
