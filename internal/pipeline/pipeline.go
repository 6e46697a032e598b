package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/CourseLens/CL-Backend/internal/catalog"
	"github.com/CourseLens/CL-Backend/internal/modules"
	"github.com/CourseLens/CL-Backend/internal/scraper"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// MetadataFetcher fetches canonical module metadata by code.
type MetadataFetcher interface {
	FetchModule(ctx context.Context, code string) (*catalog.Metadata, error)
}

// ReviewScraper runs the full scrape state machine for one module.
type ReviewScraper interface {
	ScrapeModule(code string) scraper.Result
}

// ModuleStore is the slice of module persistence the pipeline needs.
// *modules.Store satisfies it.
type ModuleStore interface {
	UpsertModule(meta catalog.Metadata) (*modules.Module, error)
	ReplaceComments(moduleID uint, comments []modules.Comment) error
	SetCommentCount(moduleID uint, count int) error
}

// Pipeline ingests modules: metadata fetch → upsert → scrape → transactional
// comment replace. Modules are independent; one module's failure never
// aborts the batch.
type Pipeline struct {
	store   ModuleStore
	catalog MetadataFetcher
	scraper ReviewScraper
	log     *logrus.Logger

	// Workers bounds how many modules are processed at once. Each in-flight
	// module owns its browser sessions exclusively, so this is also the
	// ceiling on simultaneously open sessions. Default 1 (sequential).
	Workers int
}

// Report is the batch outcome tally.
type Report struct {
	RunID     string
	Succeeded []string
	Failed    []string
}

func New(store ModuleStore, cat MetadataFetcher, sc ReviewScraper, log *logrus.Logger) *Pipeline {
	return &Pipeline{
		store:   store,
		catalog: cat,
		scraper: sc,
		log:     log,
		Workers: 1,
	}
}

// Run processes every code and always completes, reporting per-module
// outcomes rather than aborting on first error.
func (p *Pipeline) Run(ctx context.Context, codes []string) Report {
	report := Report{RunID: uuid.NewString()}
	if len(codes) == 0 {
		return report
	}

	workers := p.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > len(codes) {
		workers = len(codes)
	}

	p.log.Infof("[pipeline] run %s: %d modules, %d workers", report.RunID, len(codes), workers)

	jobs := make(chan string, len(codes))
	var mu sync.Mutex
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for code := range jobs {
				err := p.processModule(ctx, code)
				mu.Lock()
				if err != nil {
					p.log.Errorf("[pipeline] %s failed: %v", code, err)
					report.Failed = append(report.Failed, code)
				} else {
					report.Succeeded = append(report.Succeeded, code)
				}
				mu.Unlock()
			}
		}()
	}

	for _, code := range codes {
		jobs <- code
	}
	close(jobs)
	wg.Wait()

	p.log.Infof("[pipeline] run %s complete: %d ok, %d failed",
		report.RunID, len(report.Succeeded), len(report.Failed))
	return report
}

// processModule runs the per-module sequence. A panic anywhere in the
// sequence is converted to a failure for this module only.
func (p *Pipeline) processModule(ctx context.Context, code string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic while processing %s: %v", code, r)
		}
	}()

	// Step 1: canonical metadata. A missing or unreachable module aborts
	// this module before anything is written.
	meta, err := p.catalog.FetchModule(ctx, code)
	if err != nil {
		return fmt.Errorf("metadata fetch: %w", err)
	}

	// Step 2: idempotent upsert keyed by code.
	module, err := p.store.UpsertModule(*meta)
	if err != nil {
		return fmt.Errorf("upsert: %w", err)
	}

	// Step 3: scrape.
	result := p.scraper.ScrapeModule(code)

	switch result.Status {
	case scraper.StatusNotFound, scraper.StatusNoReviews:
		// Zero reviews is a successful outcome. Existing rows stay put;
		// only the counters move.
		if err := p.store.SetCommentCount(module.ID, 0); err != nil {
			return fmt.Errorf("update counters: %w", err)
		}
		p.log.Infof("[pipeline] %s processed with zero reviews (%s)", code, result.Status)
		return nil

	case scraper.StatusFailed:
		// Stale data preserved in preference to data loss.
		return fmt.Errorf("scrape failed for %s", code)
	}

	// Step 4: atomic replace of the comment set.
	comments := make([]modules.Comment, 0, len(result.Comments))
	for _, raw := range result.Comments {
		comments = append(comments, modules.Comment{
			Text:     raw.Text,
			PostedAt: parsePostedDate(raw.PostedDate),
			Upvotes:  raw.Upvotes,
			Author:   raw.Author,
		})
	}
	if err := p.store.ReplaceComments(module.ID, comments); err != nil {
		return fmt.Errorf("replace comments: %w", err)
	}

	p.log.Infof("[pipeline] %s complete (%d comments)", code, len(comments))
	return nil
}

// postedDateLayouts are the formats the widget's time-ago title attribute has
// been seen in.
var postedDateLayouts = []string{
	"Monday, January 2, 2006 3:04 PM",
	"January 2, 2006 3:04 PM",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// parsePostedDate parses a raw posted-date string; unparseable dates store as
// NULL rather than failing the comment.
func parsePostedDate(raw string) *time.Time {
	if raw == "" {
		return nil
	}
	for _, layout := range postedDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}
