// Package browser owns the playwright session used to render search pages.
// One Driver is exclusively owned by one scraping session; the underlying
// browser process is released on every exit path through Close.
package browser

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/playwright-community/playwright-go"
)

// Options tunes a driver. Zero values fall back to the defaults below.
type Options struct {
	Headless        bool
	NavTimeout      time.Duration
	LandmarkTimeout time.Duration
	MaxScrolls      int
	ScrollPause     time.Duration
	UserAgents      []string
}

const (
	defaultNavTimeout      = 30 * time.Second
	defaultLandmarkTimeout = 15 * time.Second
	defaultMaxScrolls      = 3
	defaultScrollPause     = time.Second

	// landmarkSelector is the top-level element whose presence signals the
	// initial render finished.
	landmarkSelector = "main"
)

// defaultUserAgents is the rotation pool when config provides none.
var defaultUserAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
}

// stealthArgs suppress the usual automation tells.
var stealthArgs = []string{
	"--no-sandbox",
	"--disable-dev-shm-usage",
	"--disable-gpu",
	"--disable-blink-features=AutomationControlled",
}

const webdriverPatch = `Object.defineProperty(navigator, 'webdriver', {get: () => undefined})`

// Driver drives one browser through navigation, landmark waits and
// progressive scrolling.
type Driver struct {
	opts    Options
	pw      *playwright.Playwright
	browser playwright.Browser
	bctx    playwright.BrowserContext
	page    playwright.Page
}

// NewDriver launches a stealth-configured chromium with a fixed viewport and
// a user agent picked at random from the rotation pool. Any partial failure
// releases whatever was already acquired before returning.
func NewDriver(opts Options) (*Driver, error) {
	applyDefaults(&opts)

	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}

	b, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(opts.Headless),
		Args:     stealthArgs,
	})
	if err != nil {
		pw.Stop()
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	ua := opts.UserAgents[rand.Intn(len(opts.UserAgents))]
	bctx, err := b.NewContext(playwright.BrowserNewContextOptions{
		UserAgent: playwright.String(ua),
		Viewport:  &playwright.Size{Width: 1920, Height: 1080},
	})
	if err != nil {
		b.Close()
		pw.Stop()
		return nil, fmt.Errorf("failed to create browser context: %w", err)
	}

	//hide navigator.webdriver before any page script runs
	if err := bctx.AddInitScript(playwright.Script{Content: playwright.String(webdriverPatch)}); err != nil {
		bctx.Close()
		b.Close()
		pw.Stop()
		return nil, fmt.Errorf("failed to add stealth script: %w", err)
	}

	page, err := bctx.NewPage()
	if err != nil {
		bctx.Close()
		b.Close()
		pw.Stop()
		return nil, fmt.Errorf("failed to create page: %w", err)
	}

	return &Driver{opts: opts, pw: pw, browser: b, bctx: bctx, page: page}, nil
}

func applyDefaults(opts *Options) {
	if opts.NavTimeout <= 0 {
		opts.NavTimeout = defaultNavTimeout
	}
	if opts.LandmarkTimeout <= 0 {
		opts.LandmarkTimeout = defaultLandmarkTimeout
	}
	if opts.MaxScrolls <= 0 {
		opts.MaxScrolls = defaultMaxScrolls
	}
	if opts.ScrollPause <= 0 {
		opts.ScrollPause = defaultScrollPause
	}
	if len(opts.UserAgents) == 0 {
		opts.UserAgents = defaultUserAgents
	}
}

// Fetch navigates to addr, waits for the content landmark, scrolls to flush
// lazy-loaded cards and returns the rendered markup. A timeout is a page-load
// failure, not a crash; the driver stays usable for the next page.
func (d *Driver) Fetch(ctx context.Context, addr string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if _, err := d.page.Goto(addr, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(float64(d.opts.NavTimeout.Milliseconds())),
	}); err != nil {
		return "", fmt.Errorf("navigation to %s failed: %w", addr, err)
	}

	if _, err := d.page.WaitForSelector(landmarkSelector, playwright.PageWaitForSelectorOptions{
		Timeout: playwright.Float(float64(d.opts.LandmarkTimeout.Milliseconds())),
	}); err != nil {
		return "", fmt.Errorf("page landmark %q not found: %w", landmarkSelector, err)
	}

	if err := MouseJiggle(d.page); err != nil {
		return "", fmt.Errorf("mouse jiggle failed: %w", err)
	}

	if err := d.progressiveScroll(); err != nil {
		return "", fmt.Errorf("progressive scroll failed: %w", err)
	}

	html, err := d.page.Content()
	if err != nil {
		return "", fmt.Errorf("failed to read page content: %w", err)
	}
	return html, nil
}

// progressiveScroll scrolls to the bottom up to MaxScrolls times, stopping
// early once the rendered height stabilizes across two consecutive scrolls.
func (d *Driver) progressiveScroll() error {
	for i := 0; i < d.opts.MaxScrolls; i++ {
		if _, err := d.page.Evaluate("window.scrollTo(0, document.body.scrollHeight)"); err != nil {
			return err
		}
		time.Sleep(d.opts.ScrollPause)

		before, err := d.bodyHeight()
		if err != nil {
			return err
		}
		time.Sleep(d.opts.ScrollPause)
		after, err := d.bodyHeight()
		if err != nil {
			return err
		}

		if before == after {
			break
		}
	}
	return nil
}

func (d *Driver) bodyHeight() (float64, error) {
	v, err := d.page.Evaluate("document.body.scrollHeight")
	if err != nil {
		return 0, err
	}
	switch h := v.(type) {
	case float64:
		return h, nil
	case int:
		return float64(h), nil
	default:
		return 0, fmt.Errorf("unexpected scrollHeight type %T", v)
	}
}

// Close releases the page, context, browser and playwright process. Safe to
// call more than once.
func (d *Driver) Close() error {
	var firstErr error
	keep := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if d.bctx != nil {
		keep(d.bctx.Close())
		d.bctx = nil
	}
	if d.browser != nil {
		keep(d.browser.Close())
		d.browser = nil
	}
	if d.pw != nil {
		keep(d.pw.Stop())
		d.pw = nil
	}
	return firstErr
}

// Factory builds drivers for the session orchestrator, one per session.
type Factory struct {
	Opts Options
}

// Acquire launches a fresh driver.
func (f *Factory) Acquire(ctx context.Context) (*Driver, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return NewDriver(f.Opts)
}
