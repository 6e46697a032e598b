package scraper_test

import (
	"testing"

	"github.com/CourseLens/CL-Backend/internal/scraper"
)

// widgetPage wraps a list of <li> items in the widget's list container.
func widgetPage(items string) string {
	return `<html><body><ul id="post-list">` + items + `</ul></body></html>`
}

// TestParseComments_FullPost verifies all four fields extract from a fully
// populated post.
func TestParseComments_FullPost(t *testing.T) {
	page := widgetPage(`
		<li class="post">
			<span class="author"><a href="/u/someone">jane_d</a></span>
			<a class="time-ago" title="Monday, January 6, 2025 3:04 PM">2 months ago</a>
			<div class="post-message"><p>Great module, heavy workload.</p></div>
			<div class="post-votes"><span class="icon"></span><span>12</span></div>
		</li>`)

	comments := scraper.ParseComments(page)
	if len(comments) != 1 {
		t.Fatalf("expected 1 comment, got %d", len(comments))
	}

	c := comments[0]
	if c.Text != "Great module, heavy workload." {
		t.Errorf("unexpected text: %q", c.Text)
	}
	if c.PostedDate != "Monday, January 6, 2025 3:04 PM" {
		t.Errorf("unexpected posted date: %q", c.PostedDate)
	}
	if c.Author != "jane_d" {
		t.Errorf("unexpected author: %q", c.Author)
	}
	if c.Upvotes != 12 {
		t.Errorf("expected 12 upvotes, got %d", c.Upvotes)
	}
}

// TestParseComments_Defaults verifies a bare post still parses: anonymous
// author, zero upvotes, empty date.
func TestParseComments_Defaults(t *testing.T) {
	page := widgetPage(`
		<li class="post">
			<div class="post-message">just the text</div>
		</li>`)

	comments := scraper.ParseComments(page)
	if len(comments) != 1 {
		t.Fatalf("expected 1 comment, got %d", len(comments))
	}

	c := comments[0]
	if c.Author != "Anonymous" {
		t.Errorf("expected Anonymous author, got %q", c.Author)
	}
	if c.Upvotes != 0 {
		t.Errorf("expected 0 upvotes, got %d", c.Upvotes)
	}
	if c.PostedDate != "" {
		t.Errorf("expected empty posted date, got %q", c.PostedDate)
	}
	if c.Text != "just the text" {
		t.Errorf("unexpected text: %q", c.Text)
	}
}

// TestParseComments_SkipsNestedReplies verifies replies nested inside a
// top-level post are not parsed as separate comments.
func TestParseComments_SkipsNestedReplies(t *testing.T) {
	page := widgetPage(`
		<li class="post">
			<div class="post-message">top level</div>
			<ul class="children">
				<li class="post"><div class="post-message">a reply</div></li>
			</ul>
		</li>
		<li class="post">
			<div class="post-message">second top level</div>
		</li>`)

	comments := scraper.ParseComments(page)
	if len(comments) != 2 {
		t.Fatalf("expected 2 top-level comments, got %d", len(comments))
	}
	if comments[1].Text != "second top level" {
		t.Errorf("unexpected second comment text: %q", comments[1].Text)
	}
}

// TestParseComments_NoList verifies widget HTML without the list container
// yields zero comments.
func TestParseComments_NoList(t *testing.T) {
	page := `<html><body><div id="no-comments-placeholder">Be the first to comment</div></body></html>`

	if comments := scraper.ParseComments(page); len(comments) != 0 {
		t.Errorf("expected no comments, got %d", len(comments))
	}
}

// TestParseComments_MalformedVotes verifies a non-numeric vote count falls
// back to zero instead of failing the post.
func TestParseComments_MalformedVotes(t *testing.T) {
	page := widgetPage(`
		<li class="post">
			<div class="post-message">text</div>
			<div class="post-votes"><span></span><span>many</span></div>
		</li>`)

	comments := scraper.ParseComments(page)
	if len(comments) != 1 {
		t.Fatalf("expected 1 comment, got %d", len(comments))
	}
	if comments[0].Upvotes != 0 {
		t.Errorf("expected 0 upvotes for malformed count, got %d", comments[0].Upvotes)
	}
}
