package sentiment

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/sirupsen/logrus"
)

// maxTopComments caps how many representative comment references the
// summarizer may return.
const maxTopComments = 3

// ChatSummarizer implements Summarizer over an OpenAI-compatible chat model.
type ChatSummarizer struct {
	model model.ChatModel
	log   *logrus.Logger

	maxRetries int
	baseDelay  time.Duration
}

var _ Summarizer = (*ChatSummarizer)(nil)

// NewChatSummarizer constructs the chat-backed summarizer from config.
func NewChatSummarizer(ctx context.Context, cfg Config, log *logrus.Logger) (*ChatSummarizer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cm, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		BaseURL: cfg.BaseURL,
		APIKey:  cfg.APIKey,
		Model:   cfg.Model,
	})
	if err != nil {
		return nil, fmt.Errorf("chat model init: %w", err)
	}

	return &ChatSummarizer{
		model:      cm,
		log:        log,
		maxRetries: 3,
		baseDelay:  2 * time.Second,
	}, nil
}

// Summarize sends the module's comments to the model and decodes the
// structured summary, retrying on rate limits.
func (s *ChatSummarizer) Summarize(ctx context.Context, mod ModuleInfo, comments []CommentInput) (*Summary, error) {
	prompt := buildPrompt(mod, comments)

	messages := []*schema.Message{
		{Role: schema.System, Content: "You are a JSON generator. Output only a JSON object, nothing else."},
		{Role: schema.User, Content: prompt},
	}

	var lastErr error
	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		resp, err := s.model.Generate(ctx, messages)
		if err != nil {
			if isRateLimited(err) && attempt < s.maxRetries {
				delay := s.baseDelay * time.Duration(1<<attempt)
				s.log.Infof("[sentiment] rate limited for %s, retrying in %s", mod.Code, delay)
				time.Sleep(delay)
				lastErr = err
				continue
			}
			return nil, fmt.Errorf("summarizer call: %w", err)
		}

		summary, err := parseSummary(resp.Content)
		if err != nil {
			return nil, err
		}
		return summary, nil
	}
	return nil, lastErr
}

func isRateLimited(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "429") || strings.Contains(msg, "too many requests")
}

// parseSummary decodes the model's response, tolerating markdown fences and
// truncated JSON, and normalizes scores onto the 1–5 half-point scale.
func parseSummary(raw string) (*Summary, error) {
	var summary Summary
	if err := json.Unmarshal([]byte(recoverJSON(raw)), &summary); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnparseableResponse, err)
	}

	summary.Workload = clampScore(summary.Workload)
	summary.Difficulty = clampScore(summary.Difficulty)
	summary.Usefulness = clampScore(summary.Usefulness)
	summary.Enjoyability = clampScore(summary.Enjoyability)

	if len(summary.TopComments) > maxTopComments {
		summary.TopComments = summary.TopComments[:maxTopComments]
	}
	return &summary, nil
}

// clampScore snaps a score to the nearest 0.5 and clamps it into [1, 5].
func clampScore(v float64) float64 {
	v = math.Round(v*2) / 2
	if v < 1 {
		return 1
	}
	if v > 5 {
		return 5
	}
	return v
}

// buildPrompt embeds every stored comment plus its identifying metadata. Top
// comments are requested as metadata-only references; text is re-attached by
// reconciliation, which keeps the model's echo small.
func buildPrompt(mod ModuleInfo, comments []CommentInput) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "You are analyzing student reviews for the module %q (%s).\n\n", mod.Code, mod.Name)
	fmt.Fprintf(&sb, "Below are %d student reviews. Analyze them and return a summary in JSON.\n\nREVIEWS:\n", len(comments))

	for i, c := range comments {
		author := c.Author
		if author == "" {
			author = "Anonymous"
		}
		date := c.Date
		if date == "" {
			date = "unknown"
		}
		fmt.Fprintf(&sb, "Comment %d (Upvotes: %d, Date: %s, Author: %s):\n%s\n\n---\n\n",
			i+1, c.Upvotes, date, author, c.Text)
	}

	sb.WriteString(`TASK:
Return ONLY valid JSON (no markdown, no preamble) with this structure:
{
  "workload": <float 1-5, where 1=very light, 5=very heavy>,
  "difficulty": <float 1-5, where 1=very easy, 5=very hard>,
  "usefulness": <float 1-5, where 1=not useful, 5=extremely useful>,
  "enjoyability": <float 1-5, where 1=not enjoyable, 5=very enjoyable>,
  "summary": "<one concise paragraph capturing overall student sentiment, maximum 100 words>",
  "advice": {
    "general": "<synthesised general advice for future students>",
    "midterm": "<advice for the midterm exam (only if mentioned in reviews)>",
    "final": "<similar (only if mentioned)>",
    "practical": "<similar (only if mentioned)>",
    "assignments": "<similar (only if mentioned)>",
    "tutorial": "<similar (only if mentioned)>",
    "recitation": "<similar (only if mentioned)>"
  },
  "top_comments": [
    {"upvotes": <number>, "date": "<ISO date exactly as shown above>", "author": "<author exactly as shown, or null if Anonymous>"}
  ]
}

RULES:
- Scores reflect the AVERAGE sentiment, not extremes, in strict 0.5 increments.
- Advice sections: only include categories students actually mention; each 1-3 sentences, at most 50 words, synthesising common themes rather than quoting.
- top_comments: select up to 3 helpful, representative comments with diverse perspectives, preferring those posted in the last 3 years. Identify each ONLY by its upvotes, date and author copied exactly from the review metadata above. Do NOT include comment text.
- Return ONLY the JSON object, nothing else.`)

	return sb.String()
}
