package sentiment

import (
	"math"
	"time"

	"github.com/CourseLens/CL-Backend/internal/modules"
)

// anonymousAuthor mirrors the scraper's default for authorless comments.
const anonymousAuthor = "Anonymous"

// MatchTopComments maps each summarizer reference back to a full stored
// comment. A reference matches a comment when at least 2 of 3 predicates
// hold: ISO posted date equal, upvotes equal, author equal (absent authors
// default to "Anonymous" on both sides). The first accepted candidate in
// stored order wins; references that match nothing are dropped silently —
// losing a representative comment is a presentation miss, not a data error.
//
// Known limitation: two stored comments with identical date, upvotes and
// author are indistinguishable here, and the earlier row always wins.
func MatchTopComments(stored []modules.Comment, refs []CommentRef) []TopComment {
	matched := make([]TopComment, 0, len(refs))

	for _, ref := range refs {
		for _, c := range stored {
			if matchScore(c, ref) < 2 {
				continue
			}
			matched = append(matched, TopComment{
				Text:    c.Text,
				Upvotes: c.Upvotes,
				Date:    isoDate(c.PostedAt),
				Author:  authorOf(c),
			})
			break
		}
	}

	return matched
}

// matchScore counts how many of the three predicates hold.
func matchScore(c modules.Comment, ref CommentRef) int {
	score := 0
	if isoDate(c.PostedAt) == ref.Date {
		score++
	}
	if c.Upvotes == ref.Upvotes {
		score++
	}
	if authorOf(c) == refAuthor(ref) {
		score++
	}
	return score
}

func isoDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.DateOnly)
}

func authorOf(c modules.Comment) string {
	if c.Author == "" {
		return anonymousAuthor
	}
	return c.Author
}

func refAuthor(ref CommentRef) string {
	if ref.Author == nil || *ref.Author == "" {
		return anonymousAuthor
	}
	return *ref.Author
}

// AverageScore combines the four sub-scores into one number on the 1–5
// scale, rounded to the nearest 0.5. Workload and difficulty are negatively
// framed, so they are inverted before averaging.
func AverageScore(workload, difficulty, usefulness, enjoyability float64) float64 {
	avg := ((5 - workload) + (5 - difficulty) + usefulness + enjoyability) / 4
	return math.Round(avg*2) / 2
}
