package scraper

import (
	"strings"

	"golang.org/x/net/html"
)

// Text-node traversal helpers. goquery selects elements well but the
// detail pages hang city/state/zip and phone numbers off bare text
// nodes, so these walk the parsed tree in document order.

// walk visits scope's subtree in document order until visit returns
// true.
func walk(scope *html.Node, visit func(*html.Node) bool) bool {
	if scope == nil {
		return false
	}

	if visit(scope) {
		return true
	}

	for child := scope.FirstChild; child != nil; child = child.NextSibling {
		if walk(child, visit) {
			return true
		}
	}

	return false
}

// findText returns the first text node in scope whose content matches
// pred.
func findText(scope *html.Node, pred func(string) bool) *html.Node {
	var found *html.Node

	walk(scope, func(node *html.Node) bool {
		if node.Type == html.TextNode && pred(node.Data) {
			found = node

			return true
		}

		return false
	})

	return found
}

// textAfter returns the first non-empty text node matching pred that
// follows the after node in document order within scope.
func textAfter(scope, after *html.Node, pred func(string) bool) string {
	var (
		result string
		passed bool
	)

	walk(scope, func(node *html.Node) bool {
		if node == after {
			passed = true

			return false
		}

		if !passed || node.Type != html.TextNode {
			return false
		}

		text := strings.TrimSpace(node.Data)
		if text != "" && pred(text) {
			result = text

			return true
		}

		return false
	})

	return result
}

// anchorAfter returns the first anchor element following the after
// node in document order within scope.
func anchorAfter(scope, after *html.Node) *html.Node {
	var (
		found  *html.Node
		passed bool
	)

	walk(scope, func(node *html.Node) bool {
		if node == after {
			passed = true

			return false
		}

		if passed && node.Type == html.ElementNode && node.Data == "a" {
			found = node

			return true
		}

		return false
	})

	return found
}

func attrValue(node *html.Node, key string) string {
	for _, attr := range node.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}

	return ""
}
