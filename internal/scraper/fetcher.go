package scraper

import (
	"fmt"
	"time"

	"github.com/playwright-community/playwright-go"
)

// PageOutcome classifies a single page navigation.
type PageOutcome int

const (
	// PageFetched means navigation succeeded and HTML is available.
	PageFetched PageOutcome = iota
	// PageNotFound means the origin answered the navigation with a 404.
	PageNotFound
	// PageContentTimeout means navigation succeeded but the ready marker
	// never appeared within the timeout. Retryable.
	PageContentTimeout
	// PageNetworkError covers every other navigation failure. Retryable.
	PageNetworkError
)

// PageResult is the outcome of one fetch. HTML is set only for PageFetched;
// Err carries the underlying cause for the failure outcomes.
type PageResult struct {
	Outcome PageOutcome
	HTML    string
	Err     error
}

// Fetcher performs a single navigation in an isolated browser session.
type Fetcher interface {
	// FetchPage navigates to url, waits for network activity to settle, then
	// waits for readySelector (if non-empty) to appear within timeout.
	FetchPage(url, readySelector string, timeout time.Duration) PageResult
}

// BrowserFetcher drives a headless Chromium via Playwright. Each FetchPage
// call opens and tears down its own browser session; pages are cookie-free
// and scraped infrequently, so isolation wins over pooling. Sessions must
// not be shared across concurrent calls.
type BrowserFetcher struct {
	pw *playwright.Playwright
}

// NewBrowserFetcher installs the Playwright driver if needed and starts it.
// Call Close when done.
func NewBrowserFetcher() (*BrowserFetcher, error) {
	if err := playwright.Install(&playwright.RunOptions{
		SkipInstallBrowsers: true,
	}); err != nil {
		return nil, fmt.Errorf("playwright driver install: %w", err)
	}

	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("playwright start: %w", err)
	}
	return &BrowserFetcher{pw: pw}, nil
}

// Close stops the Playwright driver.
func (f *BrowserFetcher) Close() error {
	return f.pw.Stop()
}

// FetchPage implements Fetcher. The browser session is released on every
// exit path.
func (f *BrowserFetcher) FetchPage(url, readySelector string, timeout time.Duration) PageResult {
	browser, err := f.pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(true),
	})
	if err != nil {
		return PageResult{Outcome: PageNetworkError, Err: fmt.Errorf("browser launch: %w", err)}
	}
	defer browser.Close()

	page, err := browser.NewPage()
	if err != nil {
		return PageResult{Outcome: PageNetworkError, Err: fmt.Errorf("new page: %w", err)}
	}
	defer page.Close()

	ms := playwright.Float(float64(timeout.Milliseconds()))

	resp, err := page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateNetworkidle,
		Timeout:   ms,
	})
	if err != nil {
		return PageResult{Outcome: PageNetworkError, Err: fmt.Errorf("goto %s: %w", url, err)}
	}
	if resp == nil {
		return PageResult{Outcome: PageNetworkError, Err: fmt.Errorf("goto %s: no response", url)}
	}
	if resp.Status() == 404 {
		return PageResult{Outcome: PageNotFound}
	}

	if readySelector != "" {
		if _, err := page.WaitForSelector(readySelector, playwright.PageWaitForSelectorOptions{
			Timeout: ms,
		}); err != nil {
			return PageResult{Outcome: PageContentTimeout, Err: fmt.Errorf("marker %q: %w", readySelector, err)}
		}
	} else if !resp.Ok() {
		return PageResult{Outcome: PageNetworkError, Err: fmt.Errorf("goto %s: status %d", url, resp.Status())}
	}

	html, err := page.Content()
	if err != nil {
		return PageResult{Outcome: PageNetworkError, Err: fmt.Errorf("page content: %w", err)}
	}

	return PageResult{Outcome: PageFetched, HTML: html}
}
