package scrape

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// extractNodeBySelector finds a node by "#id", ".class" or tag name
func extractNodeBySelector(doc *html.Node, selector string) (*html.Node, error) {
	var match func(*html.Node) bool
	switch {
	case strings.HasPrefix(selector, "#"):
		id := strings.TrimPrefix(selector, "#")
		match = func(n *html.Node) bool { return attr(n, "id") == id }
	case strings.HasPrefix(selector, "."):
		class := strings.TrimPrefix(selector, ".")
		match = func(n *html.Node) bool { return hasClass(n, class) }
	default:
		match = func(n *html.Node) bool { return n.Data == selector }
	}
	if node := findNode(doc, match); node != nil {
		return node, nil
	}
	return nil, fmt.Errorf("element matching '%s' not found", selector)
}

// findNode returns the first element in document order that matches.
func findNode(n *html.Node, match func(*html.Node) bool) *html.Node {
	if n.Type == html.ElementNode && match(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if result := findNode(c, match); result != nil {
			return result
		}
	}
	return nil
}

// findAllByTag returns all descendant elements with the tag in document order.
func findAllByTag(n *html.Node, tag string) []*html.Node {
	var nodes []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && c.Data == tag {
				nodes = append(nodes, c)
			}
			walk(c)
		}
	}
	walk(n)
	return nodes
}

// childElements returns the direct element children with one of the tags.
func childElements(n *html.Node, tags ...string) []*html.Node {
	var nodes []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		for _, tag := range tags {
			if c.Data == tag {
				nodes = append(nodes, c)
				break
			}
		}
	}
	return nodes
}

// textContent concatenates all text below n.
func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}
