package scraper

import (
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// commentListID marks the widget's top-level comment list.
const commentListID = "post-list"

// anonymousAuthor is the author recorded when the widget shows none; the
// widget allows anonymous comments.
const anonymousAuthor = "Anonymous"

// RawComment is one comment as extracted from the widget HTML, before any
// normalization. PostedDate is the raw title-attribute string; the pipeline
// parses it into a timestamp.
type RawComment struct {
	Text       string
	PostedDate string
	Author     string
	Upvotes    int
}

// ParseComments extracts the top-level comments from the widget HTML. A
// missing list container yields an empty slice — the caller distinguishes
// "zero comments" from "malformed page" by context. Every sub-field has a
// default; this function never fails on partial markup.
//
// Nested replies are intentionally ignored: only direct children of the
// list container are parsed.
func ParseComments(widgetHTML string) []RawComment {
	doc, err := html.Parse(strings.NewReader(widgetHTML))
	if err != nil {
		return nil
	}

	list := findByID(doc, commentListID)
	if list == nil {
		return nil
	}

	var comments []RawComment
	for li := list.FirstChild; li != nil; li = li.NextSibling {
		if li.Type != html.ElementNode || li.Data != "li" || !hasClass(li, "post") {
			continue
		}
		comments = append(comments, parsePost(li))
	}
	return comments
}

func parsePost(post *html.Node) RawComment {
	comment := RawComment{Author: anonymousAuthor}

	if textEl := findElement(post, "div", "post-message"); textEl != nil {
		comment.Text = nodeText(textEl)
	}

	if dateEl := findElement(post, "a", "time-ago"); dateEl != nil {
		comment.PostedDate = attrValue(dateEl, "title")
	}

	if authorEl := findElement(post, "span", "author"); authorEl != nil {
		if link := findElement(authorEl, "a", ""); link != nil {
			if name := nodeText(link); name != "" {
				comment.Author = name
			}
		}
	}

	if votesEl := findElement(post, "div", "post-votes"); votesEl != nil {
		// The vote widget renders an icon span followed by the count span.
		spans := collectElements(votesEl, "span")
		if len(spans) > 1 {
			if n, err := strconv.Atoi(strings.TrimSpace(nodeText(spans[1]))); err == nil {
				comment.Upvotes = n
			}
		}
	}

	return comment
}

// collectElements returns all descendant elements with the given tag, in
// document order.
func collectElements(n *html.Node, tag string) []*html.Node {
	var found []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == tag {
			found = append(found, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return found
}
