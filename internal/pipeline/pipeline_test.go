package pipeline

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/CourseLens/CL-Backend/internal/catalog"
	"github.com/CourseLens/CL-Backend/internal/modules"
	"github.com/CourseLens/CL-Backend/internal/scraper"
)

// fakeStore records every mutation so tests can assert on write ordering
// and absence.
type fakeStore struct {
	mu sync.Mutex

	upserts      []string
	replaced     map[uint][]modules.Comment
	counts       map[uint]int
	upsertErr    error
	replaceErr   error
	nextModuleID uint
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		replaced: make(map[uint][]modules.Comment),
		counts:   make(map[uint]int),
	}
}

func (s *fakeStore) UpsertModule(meta catalog.Metadata) (*modules.Module, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.upsertErr != nil {
		return nil, s.upsertErr
	}
	s.nextModuleID++
	s.upserts = append(s.upserts, meta.Code)
	return &modules.Module{ID: s.nextModuleID, Code: meta.Code, Name: meta.Name}, nil
}

func (s *fakeStore) ReplaceComments(moduleID uint, comments []modules.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.replaceErr != nil {
		return s.replaceErr
	}
	s.replaced[moduleID] = comments
	return nil
}

func (s *fakeStore) SetCommentCount(moduleID uint, count int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counts[moduleID] = count
	return nil
}

// fakeCatalog serves canned metadata, erroring for codes in failCodes.
type fakeCatalog struct {
	failCodes map[string]error
}

func (c *fakeCatalog) FetchModule(ctx context.Context, code string) (*catalog.Metadata, error) {
	if err, ok := c.failCodes[code]; ok {
		return nil, err
	}
	return &catalog.Metadata{Code: code, Name: "Module " + code, Units: 4}, nil
}

// fakeScraper returns a fixed result per code.
type fakeScraper struct {
	results map[string]scraper.Result
	panicOn string
}

func (s *fakeScraper) ScrapeModule(code string) scraper.Result {
	if code == s.panicOn {
		panic("scraper blew up")
	}
	if r, ok := s.results[code]; ok {
		return r
	}
	return scraper.Result{Status: scraper.StatusNoReviews}
}

func testPipeline(store ModuleStore, cat MetadataFetcher, sc ReviewScraper) *Pipeline {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return New(store, cat, sc, log)
}

// TestRun_SuccessStoresComments verifies the happy path writes metadata then
// the scraped comment set.
func TestRun_SuccessStoresComments(t *testing.T) {
	store := newFakeStore()
	sc := &fakeScraper{results: map[string]scraper.Result{
		"CS2040": {Status: scraper.StatusSuccess, Comments: []scraper.RawComment{
			{Text: "good", PostedDate: "Monday, January 6, 2025 3:04 PM", Author: "kim", Upvotes: 3},
			{Text: "hard", PostedDate: "not a date", Author: "Anonymous"},
		}},
	}}

	report := testPipeline(store, &fakeCatalog{}, sc).Run(context.Background(), []string{"CS2040"})

	if len(report.Succeeded) != 1 || len(report.Failed) != 0 {
		t.Fatalf("unexpected report: %+v", report)
	}
	if len(store.upserts) != 1 || store.upserts[0] != "CS2040" {
		t.Errorf("expected one upsert for CS2040, got %v", store.upserts)
	}

	comments := store.replaced[1]
	if len(comments) != 2 {
		t.Fatalf("expected 2 replaced comments, got %d", len(comments))
	}
	if comments[0].PostedAt == nil {
		t.Error("expected first comment's date to parse")
	}
	if comments[1].PostedAt != nil {
		t.Error("expected unparseable date to store as nil")
	}
	if comments[0].Author != "kim" || comments[0].Upvotes != 3 {
		t.Errorf("comment fields not carried: %+v", comments[0])
	}
}

// TestRun_MetadataFailureWritesNothing verifies a catalog miss aborts the
// module before any database write.
func TestRun_MetadataFailureWritesNothing(t *testing.T) {
	store := newFakeStore()
	cat := &fakeCatalog{failCodes: map[string]error{
		"XX0000": catalog.ErrModuleNotFound,
	}}

	report := testPipeline(store, cat, &fakeScraper{}).Run(context.Background(), []string{"XX0000"})

	if len(report.Failed) != 1 {
		t.Fatalf("expected 1 failure, got %+v", report)
	}
	if len(store.upserts) != 0 {
		t.Errorf("expected no upserts, got %v", store.upserts)
	}
	if len(store.replaced) != 0 || len(store.counts) != 0 {
		t.Error("expected no writes at all on metadata failure")
	}
}

// TestRun_ScrapeFailedPreservesComments verifies a failed scrape never
// replaces the comment set — stale data beats data loss.
func TestRun_ScrapeFailedPreservesComments(t *testing.T) {
	store := newFakeStore()
	sc := &fakeScraper{results: map[string]scraper.Result{
		"CS1231": {Status: scraper.StatusFailed},
	}}

	report := testPipeline(store, &fakeCatalog{}, sc).Run(context.Background(), []string{"CS1231"})

	if len(report.Failed) != 1 {
		t.Fatalf("expected failure, got %+v", report)
	}
	// Metadata upsert still happened; comments were not touched.
	if len(store.upserts) != 1 {
		t.Errorf("expected metadata upsert, got %v", store.upserts)
	}
	if len(store.replaced) != 0 {
		t.Error("expected no comment replacement on scrape failure")
	}
	if len(store.counts) != 0 {
		t.Error("expected counters untouched on scrape failure")
	}
}

// TestRun_ZeroReviewOutcomesResetCounters verifies not_found and no_reviews
// count as successes that zero the counters without touching comments.
func TestRun_ZeroReviewOutcomesResetCounters(t *testing.T) {
	store := newFakeStore()
	sc := &fakeScraper{results: map[string]scraper.Result{
		"GEQ1000": {Status: scraper.StatusNoReviews},
		"CS9999":  {Status: scraper.StatusNotFound},
	}}

	report := testPipeline(store, &fakeCatalog{}, sc).Run(context.Background(), []string{"GEQ1000", "CS9999"})

	if len(report.Succeeded) != 2 {
		t.Fatalf("expected 2 successes, got %+v", report)
	}
	if len(store.counts) != 2 {
		t.Fatalf("expected counters set for both modules, got %v", store.counts)
	}
	for id, count := range store.counts {
		if count != 0 {
			t.Errorf("expected zero count for module %d, got %d", id, count)
		}
	}
	if len(store.replaced) != 0 {
		t.Error("expected no comment replacement for zero-review outcomes")
	}
}

// TestRun_IsolatesFailures verifies one module's error or panic never
// aborts the rest of the batch.
func TestRun_IsolatesFailures(t *testing.T) {
	store := newFakeStore()
	cat := &fakeCatalog{failCodes: map[string]error{
		"BAD1": errors.New("catalog down"),
	}}
	sc := &fakeScraper{
		panicOn: "BAD2",
		results: map[string]scraper.Result{
			"OK1": {Status: scraper.StatusSuccess, Comments: []scraper.RawComment{{Text: "fine"}}},
		},
	}

	report := testPipeline(store, cat, sc).Run(context.Background(), []string{"BAD1", "OK1", "BAD2"})

	if len(report.Succeeded) != 1 || report.Succeeded[0] != "OK1" {
		t.Errorf("expected OK1 to succeed, got %+v", report.Succeeded)
	}
	if len(report.Failed) != 2 {
		t.Errorf("expected 2 failures, got %+v", report.Failed)
	}
	if report.RunID == "" {
		t.Error("expected a run ID")
	}
}

// TestRun_WorkerPoolCompletes verifies a multi-worker run still processes
// every module exactly once.
func TestRun_WorkerPoolCompletes(t *testing.T) {
	store := newFakeStore()
	codes := []string{"A1", "B2", "C3", "D4", "E5"}

	p := testPipeline(store, &fakeCatalog{}, &fakeScraper{})
	p.Workers = 3
	report := p.Run(context.Background(), codes)

	if len(report.Succeeded) != len(codes) {
		t.Errorf("expected all %d to succeed, got %+v", len(codes), report)
	}
	if len(store.upserts) != len(codes) {
		t.Errorf("expected %d upserts, got %d", len(codes), len(store.upserts))
	}
}

// TestParsePostedDate covers the observed widget date formats and the nil
// fallback.
func TestParsePostedDate(t *testing.T) {
	cases := []struct {
		raw      string
		wantNil  bool
		wantDate string
	}{
		{"Monday, January 6, 2025 3:04 PM", false, "2025-01-06"},
		{"January 6, 2025 3:04 PM", false, "2025-01-06"},
		{"2024-03-10T14:30:00", false, "2024-03-10"},
		{"2024-03-10", false, "2024-03-10"},
		{"", true, ""},
		{"three weeks ago", true, ""},
	}

	for _, tc := range cases {
		got := parsePostedDate(tc.raw)
		if tc.wantNil {
			if got != nil {
				t.Errorf("parsePostedDate(%q) = %v, want nil", tc.raw, got)
			}
			continue
		}
		if got == nil {
			t.Errorf("parsePostedDate(%q) = nil, want a time", tc.raw)
			continue
		}
		if got.Format(time.DateOnly) != tc.wantDate {
			t.Errorf("parsePostedDate(%q) = %s, want %s", tc.raw, got.Format(time.DateOnly), tc.wantDate)
		}
	}
}
