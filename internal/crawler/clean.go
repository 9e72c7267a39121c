package crawler

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

var (
	citationRegex   = regexp.MustCompile(`\[.*?\]`)
	whitespaceRegex = regexp.MustCompile(`\s+`)
)

// fragmentSeparator marks where stacked lines in a cell are split
const fragmentSeparator = "|"

// CleanText strips bracketed citation markers, collapses whitespace runs and trims
func CleanText(text string) string {
	text = citationRegex.ReplaceAllString(text, "")
	text = whitespaceRegex.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// firstFragment returns the first non-blank text node under sel, trimmed and cut at
// the first separator, so a cell with several stacked lines yields only its first line
func firstFragment(sel *goquery.Selection) string {
	for _, n := range sel.Nodes {
		if text, ok := firstTextNode(n); ok {
			first, _, _ := strings.Cut(text, fragmentSeparator)
			return first
		}
	}
	return ""
}

// nodeText concatenates the text under sel like Selection.Text, leaving out
// stylesheet and script contents
func nodeText(sel *goquery.Selection) string {
	var b strings.Builder
	for _, n := range sel.Nodes {
		writeText(&b, n)
	}
	return b.String()
}

func writeText(b *strings.Builder, n *html.Node) {
	if n.Type == html.TextNode {
		b.WriteString(n.Data)
		return
	}
	if isNonTextElement(n) {
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeText(b, c)
	}
}

// isNonTextElement reports elements whose children are code rather than text
func isNonTextElement(n *html.Node) bool {
	return n.Type == html.ElementNode && (n.Data == "style" || n.Data == "script")
}

func firstTextNode(n *html.Node) (string, bool) {
	if n.Type == html.TextNode {
		if text := strings.TrimSpace(n.Data); text != "" {
			return text, true
		}
		return "", false
	}
	if isNonTextElement(n) {
		return "", false
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if text, ok := firstTextNode(c); ok {
			return text, true
		}
	}
	return "", false
}

// appendTextNodes appends every non-blank text node under n in document order
func appendTextNodes(parts []string, n *html.Node) []string {
	if n.Type == html.TextNode {
		if text := strings.TrimSpace(n.Data); text != "" {
			parts = append(parts, text)
		}
		return parts
	}
	if isNonTextElement(n) {
		return parts
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		parts = appendTextNodes(parts, c)
	}
	return parts
}
