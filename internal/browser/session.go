// Package browser owns the Chromium session: launch, navigation, snapshot,
// teardown. One session drives one query end-to-end and is released in a
// guaranteed-cleanup path regardless of outcome.
package browser

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"

	"farescout/internal/config"
)

// Session wraps one live browser page.
type Session struct {
	browser *rod.Browser
	page    *rod.Page
	cfg     config.BrowserConfig
	logger  *slog.Logger
}

// Launch starts a Chromium instance and opens the session page.
func Launch(cfg config.BrowserConfig, logger *slog.Logger) (*Session, error) {
	s := &Session{
		cfg:    cfg,
		logger: logger.With("component", "browser"),
	}

	l := launcher.New().
		Headless(cfg.Headless).
		Set("disable-gpu").
		Set("disable-dev-shm-usage").
		Set("no-sandbox").
		Set("disable-blink-features", "AutomationControlled").
		Set("window-size", cfg.WindowSize).
		Set("lang", cfg.Language)

	if cfg.UserDataDir != "" {
		l = l.UserDataDir(cfg.UserDataDir)
	}

	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launch browser: %w", err)
	}

	b := rod.New().ControlURL(controlURL)
	if err := b.Connect(); err != nil {
		return nil, fmt.Errorf("connect browser: %w", err)
	}
	s.browser = b

	page, err := s.newPage()
	if err != nil {
		_ = b.Close()
		return nil, err
	}
	s.page = page

	s.logger.Info("browser session ready",
		"headless", cfg.Headless,
		"stealth", cfg.Stealth,
		"window_size", cfg.WindowSize,
	)
	return s, nil
}

func (s *Session) newPage() (*rod.Page, error) {
	if s.cfg.Stealth {
		page, err := stealth.Page(s.browser)
		if err != nil {
			return nil, fmt.Errorf("stealth page: %w", err)
		}
		return page, nil
	}
	page, err := s.browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		return nil, fmt.Errorf("open page: %w", err)
	}
	return page, nil
}

// Page exposes the live page for the form sequencer.
func (s *Session) Page() *rod.Page { return s.page }

// Navigate loads a URL and waits for the page to settle. Stability timeout
// is a warning, not a failure: dynamic listing pages keep mutating.
func (s *Session) Navigate(url string) error {
	s.logger.Debug("navigating", "url", url)

	if err := s.page.Timeout(s.cfg.PageLoadTimeout).Navigate(url); err != nil {
		return fmt.Errorf("navigate %s: %w", url, err)
	}
	if err := s.page.Timeout(s.cfg.PageLoadTimeout).WaitStable(300 * time.Millisecond); err != nil {
		s.logger.Warn("page stability timeout, continuing", "url", url, "error", err)
	}
	return nil
}

// HTML returns the rendered page snapshot.
func (s *Session) HTML() (string, error) {
	html, err := s.page.HTML()
	if err != nil {
		return "", fmt.Errorf("page snapshot: %w", err)
	}
	return html, nil
}

// Close tears down the browser. Safe to call on every exit path.
func (s *Session) Close() error {
	if s.browser == nil {
		return nil
	}
	s.logger.Debug("closing browser session")
	return s.browser.Close()
}
