package sentiment

// CommentRef identifies one representative comment by content-adjacent
// metadata only. The summarizer never echoes comment text; full text is
// attached post-hoc by reconciliation.
type CommentRef struct {
	Upvotes int     `json:"upvotes"`
	Date    string  `json:"date"`
	Author  *string `json:"author"`
}

// Summary is the summarizer's parsed output. Scores are 1–5 in 0.5 steps;
// the advice map is sparse — only categories actually discussed appear.
type Summary struct {
	Workload     float64           `json:"workload"`
	Difficulty   float64           `json:"difficulty"`
	Usefulness   float64           `json:"usefulness"`
	Enjoyability float64           `json:"enjoyability"`
	Summary      string            `json:"summary"`
	Advice       map[string]string `json:"advice,omitempty"`
	TopComments  []CommentRef      `json:"top_comments"`
}

// TopComment is a representative comment reconstructed from a matched
// reference, with full text and author attached.
type TopComment struct {
	Text    string `json:"text"`
	Upvotes int    `json:"upvotes"`
	Date    string `json:"date,omitempty"`
	Author  string `json:"author"`
}

// Result is the stored sentiment object for a module with sufficient
// reviews. It is recomputed wholesale on each analysis run.
type Result struct {
	Workload     float64           `json:"workload"`
	Difficulty   float64           `json:"difficulty"`
	Usefulness   float64           `json:"usefulness"`
	Enjoyability float64           `json:"enjoyability"`
	Average      float64           `json:"average"`
	Summary      string            `json:"summary"`
	Advice       map[string]string `json:"advice,omitempty"`
	TopComments  []TopComment      `json:"top_comments"`
}

// rawSnippet is one comment passed through verbatim when a module has too
// few reviews to analyze.
type rawSnippet struct {
	Text    string  `json:"text"`
	Upvotes int     `json:"upvotes"`
	Date    *string `json:"date"`
}

// InsufficientResult is stored when the review count is at or below the
// sufficiency threshold.
type InsufficientResult struct {
	InsufficientData bool         `json:"insufficient_data"`
	RawComments      []rawSnippet `json:"raw_comments"`
}
