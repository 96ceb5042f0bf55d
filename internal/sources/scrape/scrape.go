// Package scrape provides small helpers over golang.org/x/net/html for
// the adapters that read server-rendered HTML fragments. The sources
// change their markup without notice, so everything here is
// best-effort: missing nodes yield empty results, never errors.
package scrape

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/vigia-labs/radar-cli/internal/sources/normalize"
)

// Parse parses an HTML document from raw bytes.
func Parse(data []byte) (*html.Node, error) {
	return html.Parse(strings.NewReader(string(data)))
}

// FindAll returns every element named tag whose class attribute
// contains class as a token, in document order. An empty class matches
// any element with the given tag.
func FindAll(n *html.Node, tag, class string) []*html.Node {
	var found []*html.Node
	walk(n, func(node *html.Node) bool {
		if matches(node, tag, class) {
			found = append(found, node)
		}
		return true
	})
	return found
}

// Find returns the first element named tag with the given class token,
// or nil.
func Find(n *html.Node, tag, class string) *html.Node {
	var found *html.Node
	walk(n, func(node *html.Node) bool {
		if matches(node, tag, class) {
			found = node
			return false
		}
		return true
	})
	return found
}

// Text returns the concatenated text content of n with whitespace
// collapsed.
func Text(n *html.Node) string {
	if n == nil {
		return ""
	}
	var sb strings.Builder
	walk(n, func(node *html.Node) bool {
		if node.Type == html.TextNode {
			sb.WriteString(node.Data)
			sb.WriteByte(' ')
		}
		return true
	})
	return normalize.CollapseSpace(sb.String())
}

// Attr returns the value of the named attribute on n, or "".
func Attr(n *html.Node, key string) string {
	if n == nil {
		return ""
	}
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

// walk visits n and its descendants depth-first. The visitor returns
// false to stop the traversal.
func walk(n *html.Node, visit func(*html.Node) bool) bool {
	if n == nil {
		return true
	}
	if !visit(n) {
		return false
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if !walk(child, visit) {
			return false
		}
	}
	return true
}

func matches(n *html.Node, tag, class string) bool {
	if n.Type != html.ElementNode || n.Data != tag {
		return false
	}
	if class == "" {
		return true
	}
	for _, token := range strings.Fields(Attr(n, "class")) {
		if token == class {
			return true
		}
	}
	return false
}
