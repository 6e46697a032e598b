package scraper

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// Status is the terminal outcome of a module scrape. Callers must handle all
// four cases distinctly.
type Status string

const (
	// StatusSuccess means comments were scraped.
	StatusSuccess Status = "success"
	// StatusNotFound means the module does not exist upstream.
	StatusNotFound Status = "not_found"
	// StatusNoReviews means the page loaded but holds zero comments. This is
	// a success condition, not a failure.
	StatusNoReviews Status = "no_reviews"
	// StatusFailed means the retry budget was exhausted or the page structure
	// made scraping impossible.
	StatusFailed Status = "scrape_failed"
)

// Result is the outcome of one full module scrape.
type Result struct {
	Status   Status
	Comments []RawComment
}

// Scraper drives the two-stage scrape: module page → embedded widget →
// parsed comments, with a bounded retry budget shared by both fetch steps.
type Scraper struct {
	fetcher Fetcher
	baseURL string
	log     *logrus.Logger

	// Retries is the total attempt budget (default 3).
	Retries int
	// Backoff is the sleep between retryable attempts (default 2s).
	Backoff time.Duration
	// Timeout bounds each navigation and marker wait (default 15s).
	Timeout time.Duration
}

func New(fetcher Fetcher, baseURL string, log *logrus.Logger) *Scraper {
	return &Scraper{
		fetcher: fetcher,
		baseURL: baseURL,
		log:     log,
		Retries: 3,
		Backoff: 2 * time.Second,
		Timeout: 15 * time.Second,
	}
}

// ScrapeModule runs the scrape state machine for one module code.
func (s *Scraper) ScrapeModule(code string) Result {
	pageURL := fmt.Sprintf("%s/%s", s.baseURL, code)

	for attempt := 0; attempt < s.Retries; attempt++ {
		// Step 1: module page, waiting for the widget container.
		page := s.fetcher.FetchPage(pageURL, "#"+widgetContainerID, s.Timeout)

		switch page.Outcome {
		case PageNotFound:
			s.log.Warnf("[scrape] %s not found upstream (404)", code)
			return Result{Status: StatusNotFound}
		case PageContentTimeout, PageNetworkError:
			if s.retryAfter(code, attempt, page.Err) {
				continue
			}
			return Result{Status: StatusFailed}
		}

		// Step 2: locate the embedded widget. A page without one is a
		// structural dead end; retrying won't change static markup.
		embedURL, ok := LocateEmbed(page.HTML)
		if !ok {
			s.log.Errorf("[scrape] no review widget on page for %s", code)
			return Result{Status: StatusFailed}
		}

		// Step 3: fetch the widget itself. Any OK response will do.
		widget := s.fetcher.FetchPage(embedURL, "", s.Timeout)
		if widget.Outcome != PageFetched {
			if s.retryAfter(code, attempt, widget.Err) {
				continue
			}
			return Result{Status: StatusFailed}
		}

		// Step 4: parse. Zero comments is a real state, not an error.
		comments := ParseComments(widget.HTML)
		if len(comments) == 0 {
			s.log.Infof("[scrape] no reviews for %s", code)
			return Result{Status: StatusNoReviews}
		}

		s.log.Infof("[scrape] %s: %d comments", code, len(comments))
		return Result{Status: StatusSuccess, Comments: comments}
	}

	return Result{Status: StatusFailed}
}

// retryAfter logs a retryable failure and sleeps the backoff if budget
// remains. Returns false when the budget is exhausted.
func (s *Scraper) retryAfter(code string, attempt int, cause error) bool {
	if attempt >= s.Retries-1 {
		s.log.Errorf("[scrape] giving up on %s after %d attempts: %v", code, s.Retries, cause)
		return false
	}
	s.log.Infof("[scrape] retry %d/%d for %s: %v", attempt+1, s.Retries, code, cause)
	time.Sleep(s.Backoff)
	return true
}
