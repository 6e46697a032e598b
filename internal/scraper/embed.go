package scraper

import (
	"strings"

	"golang.org/x/net/html"
)

// widgetContainerID marks the element hosting the embedded review widget.
const widgetContainerID = "disqus_thread"

// LocateEmbed finds the review widget's iframe URL in the module page HTML.
// The second return is false when the container or its frame is absent —
// the page loaded but exposes no comment widget.
func LocateEmbed(pageHTML string) (string, bool) {
	doc, err := html.Parse(strings.NewReader(pageHTML))
	if err != nil {
		return "", false
	}

	container := findByID(doc, widgetContainerID)
	if container == nil {
		return "", false
	}

	frame := findElement(container, "iframe", "")
	if frame == nil {
		return "", false
	}

	src := attrValue(frame, "src")
	if src == "" {
		return "", false
	}
	return src, true
}

// findByID returns the first node with the given id attribute.
func findByID(n *html.Node, id string) *html.Node {
	if n.Type == html.ElementNode && attrValue(n, "id") == id {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findByID(c, id); found != nil {
			return found
		}
	}
	return nil
}

// findElement returns the first descendant element with the given tag and,
// if class is non-empty, that class in its class list.
func findElement(n *html.Node, tag, class string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag && (class == "" || hasClass(n, class)) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, tag, class); found != nil {
			return found
		}
	}
	return nil
}

func hasClass(n *html.Node, class string) bool {
	for _, name := range strings.Fields(attrValue(n, "class")) {
		if name == class {
			return true
		}
	}
	return false
}

func attrValue(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

// nodeText collects the trimmed text content of a node and its children.
func nodeText(n *html.Node) string {
	var parts []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			if trimmed := strings.TrimSpace(n.Data); trimmed != "" {
				parts = append(parts, trimmed)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(parts, " ")
}
