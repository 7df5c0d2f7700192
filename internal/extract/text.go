package extract

import (
	"strings"

	"golang.org/x/net/html"
)

// TextExtractor turns raw input into plain text for analysis
type TextExtractor struct {
	skipTags map[string]bool
}

// NewTextExtractor creates a new text extractor
func NewTextExtractor() *TextExtractor {
	return &TextExtractor{
		skipTags: map[string]bool{
			"script": true, "style": true, "noscript": true,
			"iframe": true, "template": true, "head": true,
		},
	}
}

// FromHTML extracts the visible text of an HTML document
func (e *TextExtractor) FromHTML(htmlContent string) (string, error) {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return "", err
	}
	return e.visibleText(doc), nil
}

// Normalize collapses runs of whitespace into single spaces
func Normalize(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// LooksLikeHTML reports whether the input appears to be markup rather than
// prose
func LooksLikeHTML(input string) bool {
	trimmed := strings.ToLower(strings.TrimSpace(input))
	if strings.HasPrefix(trimmed, "<!doctype html") || strings.HasPrefix(trimmed, "<html") {
		return true
	}
	for _, tag := range []string{"<body", "<p>", "<div", "<article", "<span"} {
		if strings.Contains(trimmed, tag) {
			return true
		}
	}
	return false
}

// visibleText extracts text nodes, skipping non-rendered elements
func (e *TextExtractor) visibleText(n *html.Node) string {
	var buf strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && e.skipTags[n.Data] {
			return
		}

		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				buf.WriteString(text)
				buf.WriteString(" ")
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(n)
	return Normalize(buf.String())
}

// SplitSentences splits text into sentences (simple heuristic)
func SplitSentences(text string) []string {
	text = strings.ReplaceAll(text, "\n", " ")

	var sentences []string
	var current strings.Builder

	for i, r := range text {
		current.WriteRune(r)

		if r == '.' || r == '!' || r == '?' {
			// Look ahead to avoid splitting on abbreviations and decimals
			if i+1 < len(text) && (text[i+1] == ' ' || text[i+1] == '\t') {
				if sentence := strings.TrimSpace(current.String()); sentence != "" {
					sentences = append(sentences, sentence)
				}
				current.Reset()
			}
		}
	}

	if sentence := strings.TrimSpace(current.String()); sentence != "" {
		sentences = append(sentences, sentence)
	}

	return sentences
}
