package sentiment

import (
	"testing"
	"time"

	"github.com/CourseLens/CL-Backend/internal/modules"
)

func datePtr(value string) *time.Time {
	t, err := time.Parse(time.DateOnly, value)
	if err != nil {
		panic(err)
	}
	return &t
}

func strPtr(s string) *string { return &s }

// TestMatchTopComments_AllThreePredicates verifies an exact reference pulls
// back the full stored comment.
func TestMatchTopComments_AllThreePredicates(t *testing.T) {
	stored := []modules.Comment{
		{Text: "loved the labs", PostedAt: datePtr("2024-03-10"), Upvotes: 7, Author: "alice"},
		{Text: "too fast paced", PostedAt: datePtr("2024-05-01"), Upvotes: 2, Author: "bob"},
	}
	refs := []CommentRef{
		{Upvotes: 2, Date: "2024-05-01", Author: strPtr("bob")},
	}

	matched := MatchTopComments(stored, refs)
	if len(matched) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matched))
	}
	if matched[0].Text != "too fast paced" {
		t.Errorf("matched wrong comment: %q", matched[0].Text)
	}
	if matched[0].Date != "2024-05-01" || matched[0].Author != "bob" || matched[0].Upvotes != 2 {
		t.Errorf("matched metadata not carried over: %+v", matched[0])
	}
}

// TestMatchTopComments_TwoOfThree verifies a reference with one wrong field
// still matches — the model often garbles exactly one attribute.
func TestMatchTopComments_TwoOfThree(t *testing.T) {
	stored := []modules.Comment{
		{Text: "skip the lectures", PostedAt: datePtr("2023-11-20"), Upvotes: 15, Author: "carol"},
	}
	// Upvotes wrong, date and author right.
	refs := []CommentRef{
		{Upvotes: 14, Date: "2023-11-20", Author: strPtr("carol")},
	}

	matched := MatchTopComments(stored, refs)
	if len(matched) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matched))
	}
	// The stored value wins over the reference's garbled one.
	if matched[0].Upvotes != 15 {
		t.Errorf("expected stored upvotes 15, got %d", matched[0].Upvotes)
	}
}

// TestMatchTopComments_OneOfThreeDropped verifies a reference matching only
// one predicate is dropped silently.
func TestMatchTopComments_OneOfThreeDropped(t *testing.T) {
	stored := []modules.Comment{
		{Text: "fine", PostedAt: datePtr("2022-01-01"), Upvotes: 3, Author: "dave"},
	}
	refs := []CommentRef{
		{Upvotes: 3, Date: "2024-09-09", Author: strPtr("someone_else")},
	}

	if matched := MatchTopComments(stored, refs); len(matched) != 0 {
		t.Errorf("expected no matches, got %d", len(matched))
	}
}

// TestMatchTopComments_AnonymousDefaulting verifies a nil reference author
// and an empty stored author both normalize to Anonymous and match.
func TestMatchTopComments_AnonymousDefaulting(t *testing.T) {
	stored := []modules.Comment{
		{Text: "anon take", PostedAt: datePtr("2024-02-02"), Upvotes: 0, Author: ""},
	}
	refs := []CommentRef{
		{Upvotes: 0, Date: "2024-02-02", Author: nil},
	}

	matched := MatchTopComments(stored, refs)
	if len(matched) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matched))
	}
	if matched[0].Author != "Anonymous" {
		t.Errorf("expected Anonymous author, got %q", matched[0].Author)
	}
}

// TestMatchTopComments_FirstMatchWins verifies that with two equally
// plausible candidates the earlier stored comment is chosen.
func TestMatchTopComments_FirstMatchWins(t *testing.T) {
	stored := []modules.Comment{
		{Text: "first", PostedAt: datePtr("2024-06-01"), Upvotes: 5, Author: "eve"},
		{Text: "second", PostedAt: datePtr("2024-06-01"), Upvotes: 5, Author: "eve"},
	}
	refs := []CommentRef{
		{Upvotes: 5, Date: "2024-06-01", Author: strPtr("eve")},
	}

	matched := MatchTopComments(stored, refs)
	if len(matched) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matched))
	}
	if matched[0].Text != "first" {
		t.Errorf("expected earliest stored comment, got %q", matched[0].Text)
	}
}

// TestMatchTopComments_NilPostedDate verifies a comment without a parsed
// date can still match on upvotes plus author.
func TestMatchTopComments_NilPostedDate(t *testing.T) {
	stored := []modules.Comment{
		{Text: "undated", PostedAt: nil, Upvotes: 9, Author: "frank"},
	}
	refs := []CommentRef{
		{Upvotes: 9, Date: "2024-01-01", Author: strPtr("frank")},
	}

	matched := MatchTopComments(stored, refs)
	if len(matched) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matched))
	}
	if matched[0].Date != "" {
		t.Errorf("expected empty date for undated comment, got %q", matched[0].Date)
	}
}

// TestAverageScore verifies the inversion of workload and difficulty and
// the half-point rounding.
func TestAverageScore(t *testing.T) {
	cases := []struct {
		workload, difficulty, usefulness, enjoyability float64
		want                                           float64
	}{
		{2, 2, 4, 4, 3.5},
		{1, 1, 5, 5, 4.5},
		{5, 5, 1, 1, 0.5},
		{3, 3, 3, 3, 2.5},
		{2.5, 3, 4, 3.5, 3},
	}

	for _, tc := range cases {
		got := AverageScore(tc.workload, tc.difficulty, tc.usefulness, tc.enjoyability)
		if got != tc.want {
			t.Errorf("AverageScore(%v, %v, %v, %v) = %v, want %v",
				tc.workload, tc.difficulty, tc.usefulness, tc.enjoyability, got, tc.want)
		}
	}
}
