package browser

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"

	"github.com/IshaanNene/ReviewScout/internal/config"
	"github.com/IshaanNene/ReviewScout/internal/types"
)

// Session is a single headless browser with one working page.
type Session struct {
	browser *rod.Browser
	page    *rod.Page
	cfg     config.BrowserConfig
	logger  *slog.Logger
}

// New launches a Chromium instance and connects to it.
func New(cfg config.BrowserConfig, logger *slog.Logger) (*Session, error) {
	s := &Session{
		cfg:    cfg,
		logger: logger.With("component", "browser"),
	}

	launchURL, err := s.launch()
	if err != nil {
		return nil, &types.BrowserError{Op: "launch", Err: err}
	}

	browser := rod.New().ControlURL(launchURL)
	if err := browser.Connect(); err != nil {
		return nil, &types.BrowserError{Op: "connect", Err: err}
	}
	s.browser = browser

	s.logger.Info("browser ready", "headless", cfg.Headless, "stealth", cfg.Stealth)
	return s, nil
}

// launch starts a Chromium instance with appropriate flags.
func (s *Session) launch() (string, error) {
	l := launcher.New().
		Headless(s.cfg.Headless).
		Set("disable-gpu").
		Set("disable-dev-shm-usage").
		Set("no-sandbox").
		Set("disable-setuid-sandbox").
		Set("disable-blink-features", "AutomationControlled")

	if s.cfg.Proxy != "" {
		l = l.Proxy(s.cfg.Proxy)
	}
	if s.cfg.UserDataDir != "" {
		l = l.UserDataDir(s.cfg.UserDataDir)
	}

	return l.Launch()
}

// Open creates the working page and navigates it to url.
func (s *Session) Open(ctx context.Context, url string) error {
	if s.page == nil {
		page, err := s.newPage()
		if err != nil {
			return &types.BrowserError{Op: "new page", Err: err}
		}
		s.page = page
	}

	if s.cfg.UserAgent != "" {
		err := s.page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: s.cfg.UserAgent})
		if err != nil {
			s.logger.Warn("failed to set user agent", "error", err)
		}
	}

	page := s.page.Context(ctx).Timeout(s.cfg.NavigationTimeout)
	if err := page.Navigate(url); err != nil {
		return &types.BrowserError{Op: "navigate", Err: err}
	}
	if err := page.WaitLoad(); err != nil {
		return &types.BrowserError{Op: "wait load", Err: err}
	}
	s.waitStable(ctx)

	s.logger.Debug("page opened", "url", url)
	return nil
}

func (s *Session) newPage() (*rod.Page, error) {
	if s.cfg.Stealth {
		return stealth.Page(s.browser)
	}
	return s.browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
}

// Search types query into the input matched by selector and submits it
// with Enter, then waits for the result page to load and settle.
func (s *Session) Search(ctx context.Context, selector, query string) error {
	if err := s.requirePage("search"); err != nil {
		return err
	}

	el, err := s.element(ctx, selector)
	if err != nil {
		return &types.BrowserError{Op: "search", Selector: selector, Err: fmt.Errorf("%w: %v", types.ErrElementNotFound, err)}
	}
	if err := el.SelectAllText(); err != nil {
		return &types.BrowserError{Op: "search", Selector: selector, Err: err}
	}
	if err := el.Input(query); err != nil {
		return &types.BrowserError{Op: "search", Selector: selector, Err: err}
	}

	wait := s.page.Context(ctx).Timeout(s.cfg.NavigationTimeout).WaitNavigation(proto.PageLifecycleEventNameNetworkAlmostIdle)
	if err := s.page.Keyboard.Press(input.Enter); err != nil {
		return &types.BrowserError{Op: "search", Selector: selector, Err: err}
	}
	wait()
	s.waitStable(ctx)

	s.logger.Info("search submitted", "query", query, "url", s.URL())
	return nil
}

// ClickFirst clicks the first element matched by selector and waits for the
// resulting navigation to settle.
func (s *Session) ClickFirst(ctx context.Context, selector string) error {
	if err := s.requirePage("click"); err != nil {
		return err
	}

	el, err := s.element(ctx, selector)
	if err != nil {
		return &types.BrowserError{Op: "click", Selector: selector, Err: fmt.Errorf("%w: %v", types.ErrElementNotFound, err)}
	}

	wait := s.page.Context(ctx).Timeout(s.cfg.NavigationTimeout).WaitNavigation(proto.PageLifecycleEventNameNetworkAlmostIdle)
	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return &types.BrowserError{Op: "click", Selector: selector, Err: err}
	}
	wait()
	s.waitStable(ctx)
	return nil
}

// ScrollToBottom scrolls to the bottom of the page.
func (s *Session) ScrollToBottom(ctx context.Context) error {
	if err := s.requirePage("scroll"); err != nil {
		return err
	}
	_, err := s.page.Context(ctx).Eval(`() => window.scrollTo(0, document.body.scrollHeight)`)
	if err != nil {
		return &types.BrowserError{Op: "scroll", Err: err}
	}
	return nil
}

// Count returns how many elements currently match selector. It does not wait.
func (s *Session) Count(ctx context.Context, selector string) (int, error) {
	els, err := s.elements(ctx, selector)
	if err != nil {
		return 0, err
	}
	return len(els), nil
}

// Texts returns the rendered text of every element matching selector, in
// document order.
func (s *Session) Texts(ctx context.Context, selector string) ([]string, error) {
	els, err := s.elements(ctx, selector)
	if err != nil {
		return nil, err
	}

	texts := make([]string, 0, len(els))
	for _, el := range els {
		text, err := el.Context(ctx).Text()
		if err != nil {
			return nil, &types.BrowserError{Op: "read text", Selector: selector, Err: err}
		}
		texts = append(texts, text)
	}
	return texts, nil
}

// URL returns the current page URL, or "" when no page is open.
func (s *Session) URL() string {
	if s.page == nil {
		return ""
	}
	info, err := s.page.Info()
	if err != nil || info == nil {
		return ""
	}
	return info.URL
}

// Close shuts down the page and the browser.
func (s *Session) Close() error {
	if s.page != nil {
		_ = s.page.Close()
	}
	if s.browser != nil {
		s.logger.Debug("closing browser")
		return s.browser.Close()
	}
	return nil
}

func (s *Session) requirePage(op string) error {
	if s.page == nil {
		return &types.BrowserError{Op: op, Err: fmt.Errorf("no page open")}
	}
	return nil
}

// element waits up to the navigation timeout for selector to appear.
func (s *Session) element(ctx context.Context, selector string) (*rod.Element, error) {
	page := s.page.Context(ctx).Timeout(s.cfg.NavigationTimeout)
	if IsXPath(selector) {
		return page.ElementX(selector)
	}
	return page.Element(selector)
}

func (s *Session) elements(ctx context.Context, selector string) (rod.Elements, error) {
	if err := s.requirePage("query"); err != nil {
		return nil, err
	}
	page := s.page.Context(ctx)

	var (
		els rod.Elements
		err error
	)
	if IsXPath(selector) {
		els, err = page.ElementsX(selector)
	} else {
		els, err = page.Elements(selector)
	}
	if err != nil {
		return nil, &types.BrowserError{Op: "query", Selector: selector, Err: err}
	}
	return els, nil
}

// waitStable waits for the DOM to stop changing. A timeout here is logged
// and tolerated; the next step fails on its own if the page is unusable.
func (s *Session) waitStable(ctx context.Context) {
	err := s.page.Context(ctx).Timeout(s.cfg.NavigationTimeout).WaitStable(s.cfg.StableWindow)
	if err != nil {
		s.logger.Warn("page stability timeout, continuing", "error", err)
	}
}

// IsXPath reports whether selector is an XPath expression rather than CSS.
func IsXPath(selector string) bool {
	sel := strings.TrimSpace(selector)
	return strings.HasPrefix(sel, "/") || strings.HasPrefix(sel, "(/")
}
