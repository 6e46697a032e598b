package sentiment

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/CourseLens/CL-Backend/internal/modules"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// insufficientThreshold is the review count at or below which the raw
// comments are stored instead of a model summary.
const insufficientThreshold = 3

// Analyzer runs the sentiment pass: per module, either store the raw
// comments (insufficient data) or summarize, reconcile and store the
// structured result.
type Analyzer struct {
	store      *modules.Store
	summarizer Summarizer
	limiter    *rate.Limiter
	log        *logrus.Logger
}

// Stats tallies an AnalyzeAll run.
type Stats struct {
	Success      int
	Insufficient int
	Failed       int
	Skipped      int
}

func NewAnalyzer(store *modules.Store, summarizer Summarizer, log *logrus.Logger) *Analyzer {
	return &Analyzer{
		store:      store,
		summarizer: summarizer,
		// One summarizer call every 2s keeps batch runs under provider
		// rate limits.
		limiter: rate.NewLimiter(rate.Every(2*time.Second), 1),
		log:     log,
	}
}

// AnalyzeModule computes and stores the sentiment result for one module.
// Returns whether the module had sufficient reviews for a full analysis.
func (a *Analyzer) AnalyzeModule(ctx context.Context, module *modules.Module) (bool, error) {
	comments, err := a.store.CommentsFor(module.ID)
	if err != nil {
		return false, fmt.Errorf("load comments: %w", err)
	}

	if len(comments) <= insufficientThreshold {
		a.log.Infof("[sentiment] %s has %d reviews, storing raw comments", module.Code, len(comments))
		data, err := json.Marshal(insufficientPayload(comments))
		if err != nil {
			return false, err
		}
		return false, a.store.SaveSentiment(module.ID, modules.JSONB(data), false)
	}

	if err := a.limiter.Wait(ctx); err != nil {
		return false, err
	}

	summary, err := a.summarizer.Summarize(ctx, ModuleInfo{Code: module.Code, Name: module.Name}, toInputs(comments))
	if err != nil {
		return false, fmt.Errorf("summarize %s: %w", module.Code, err)
	}

	result := BuildResult(summary, comments)
	data, err := json.Marshal(result)
	if err != nil {
		return false, err
	}
	if err := a.store.SaveSentiment(module.ID, modules.JSONB(data), true); err != nil {
		return false, err
	}

	a.log.Infof("[sentiment] analyzed %s (%d top comments reconciled)", module.Code, len(result.TopComments))
	return true, nil
}

// AnalyzeAll walks every module, skipping those already analyzed or without
// comments. One module's failure never aborts the pass.
func (a *Analyzer) AnalyzeAll(ctx context.Context) Stats {
	var stats Stats

	all, err := a.store.List()
	if err != nil {
		a.log.Errorf("[sentiment] listing modules: %v", err)
		return stats
	}

	for i := range all {
		module := &all[i]

		if len(module.SentimentData) > 0 {
			a.log.Infof("[sentiment] %s already analyzed, skipping", module.Code)
			stats.Skipped++
			continue
		}
		if module.CommentCount == 0 {
			stats.Skipped++
			continue
		}

		sufficient, err := a.AnalyzeModule(ctx, module)
		switch {
		case err != nil:
			a.log.Errorf("[sentiment] %s failed: %v", module.Code, err)
			stats.Failed++
		case sufficient:
			stats.Success++
		default:
			stats.Insufficient++
		}
	}

	return stats
}

// BuildResult assembles the stored sentiment object from a model summary and
// the module's stored comments.
func BuildResult(summary *Summary, stored []modules.Comment) Result {
	return Result{
		Workload:     summary.Workload,
		Difficulty:   summary.Difficulty,
		Usefulness:   summary.Usefulness,
		Enjoyability: summary.Enjoyability,
		Average:      AverageScore(summary.Workload, summary.Difficulty, summary.Usefulness, summary.Enjoyability),
		Summary:      summary.Summary,
		Advice:       summary.Advice,
		TopComments:  MatchTopComments(stored, summary.TopComments),
	}
}

func toInputs(comments []modules.Comment) []CommentInput {
	inputs := make([]CommentInput, 0, len(comments))
	for _, c := range comments {
		inputs = append(inputs, CommentInput{
			Text:    c.Text,
			Upvotes: c.Upvotes,
			Date:    isoDate(c.PostedAt),
			Author:  authorOf(c),
		})
	}
	return inputs
}

func insufficientPayload(comments []modules.Comment) InsufficientResult {
	snippets := make([]rawSnippet, 0, len(comments))
	for _, c := range comments {
		var date *string
		if c.PostedAt != nil {
			iso := c.PostedAt.Format(time.RFC3339)
			date = &iso
		}
		snippets = append(snippets, rawSnippet{
			Text:    c.Text,
			Upvotes: c.Upvotes,
			Date:    date,
		})
	}
	return InsufficientResult{InsufficientData: true, RawComments: snippets}
}
