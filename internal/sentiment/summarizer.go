package sentiment

import (
	"context"
	"errors"
	"strings"
)

// ErrUnparseableResponse means the summarizer's output could not be decoded
// even after recovery. It fails only the affected module's analysis.
var ErrUnparseableResponse = errors.New("summarizer response is not valid JSON")

// ModuleInfo is the minimal module identity embedded in the prompt.
type ModuleInfo struct {
	Code string
	Name string
}

// CommentInput is one stored comment as fed to the summarizer. Date is the
// ISO (YYYY-MM-DD) posted date, empty when unknown.
type CommentInput struct {
	Text    string
	Upvotes int
	Date    string
	Author  string
}

// Summarizer derives a structured sentiment summary from a module's comment
// set. Implementations must return scores 1–5 in 0.5 steps, a sparse advice
// map, and at most 3 top-comment references carrying only
// upvotes/date/author.
type Summarizer interface {
	Summarize(ctx context.Context, module ModuleInfo, comments []CommentInput) (*Summary, error)
}

// recoverJSON salvages a truncated or decorated model response: markdown
// fences are stripped, leading prose before the first brace is dropped,
// trailing garbage after the matching close brace is cut, and unclosed
// braces from a truncated response are balanced.
func recoverJSON(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	s = strings.TrimSpace(s)

	start := strings.IndexByte(s, '{')
	if start < 0 {
		return s
	}
	s = s[start:]

	var stack []byte
	inString := false
	escaped := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if escaped {
			escaped = false
			continue
		}
		switch c {
		case '\\':
			if inString {
				escaped = true
			}
		case '"':
			inString = !inString
		case '{':
			if !inString {
				stack = append(stack, '}')
			}
		case '[':
			if !inString {
				stack = append(stack, ']')
			}
		case '}', ']':
			if !inString && len(stack) > 0 {
				stack = stack[:len(stack)-1]
				if len(stack) == 0 {
					return s[:i+1]
				}
			}
		}
	}

	// Truncated response: close any open string, then balance the open
	// braces and brackets innermost-first.
	if inString {
		s += `"`
	}
	for i := len(stack) - 1; i >= 0; i-- {
		s += string(stack[i])
	}
	return s
}
