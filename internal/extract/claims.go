// Package extract turns documents into candidate claims for evaluation.
package extract

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ppiankov/sst/internal/heuristics"
	"github.com/ppiankov/sst/internal/model"
	"golang.org/x/net/html"
)

const (
	defaultMinLength = 20
	defaultMaxLength = 500
)

// Heuristic labels attached to extracted claims
const (
	HeuristicUncertain  = "uncertainty"
	HeuristicAssumption = "assumption"
)

// blockElements each start a new group of sentences sharing the same links
var blockElements = map[string]bool{
	"p": true, "li": true, "blockquote": true, "td": true, "dd": true,
	"figcaption": true, "h1": true, "h2": true, "h3": true, "h4": true,
	"h5": true, "h6": true,
}

// inlineElements do not separate the words around them
var inlineElements = map[string]bool{
	"a": true, "abbr": true, "b": true, "cite": true, "code": true, "em": true,
	"i": true, "mark": true, "q": true, "small": true, "span": true,
	"strong": true, "sub": true, "sup": true,
}

// ClaimExtractor splits documents into sentences and keeps the ones
// the heuristics treat as claims
type ClaimExtractor struct {
	minLength int
	maxLength int
}

// NewClaimExtractor creates a claim extractor with default sentence bounds
func NewClaimExtractor() *ClaimExtractor {
	return &ClaimExtractor{
		minLength: defaultMinLength,
		maxLength: defaultMaxLength,
	}
}

// block is a run of visible text and the links found inside it
type block struct {
	text  strings.Builder
	links []string
}

// Extract extracts claims from HTML content. Links inside the same block
// element become the sources of every sentence in that block; relative links
// are resolved against baseURL when it is set.
func (e *ClaimExtractor) Extract(htmlContent, baseURL string) ([]model.Claim, error) {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	links, err := newLinkResolver(baseURL)
	if err != nil {
		return nil, err
	}

	var blocks []*block
	loose := &block{}

	var walk func(n *html.Node, cur *block)
	walk = func(n *html.Node, cur *block) {
		target := cur
		if target == nil {
			target = loose
		}

		switch n.Type {
		case html.TextNode:
			target.text.WriteString(n.Data)
			return
		case html.ElementNode:
			switch n.Data {
			case "script", "style", "noscript", "iframe", "template":
				return
			case "a":
				if href := links.resolve(attr(n, "href")); href != "" {
					target.links = append(target.links, href)
				}
			}
			if cur == nil && blockElements[n.Data] {
				cur = &block{}
				blocks = append(blocks, cur)
				target = cur
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c, cur)
		}
		if n.Type == html.ElementNode && !inlineElements[n.Data] {
			target.text.WriteString(" ")
		}
	}
	walk(doc, nil)

	if loose.text.Len() > 0 {
		blocks = append(blocks, loose)
	}

	var claims []model.Claim
	for _, b := range blocks {
		sources := dedupe(b.links)
		for _, sentence := range e.splitSentences(b.text.String()) {
			if c, ok := e.claim(sentence, len(claims)); ok {
				c.Sources = sources
				claims = append(claims, c)
			}
		}
	}

	return dedupeClaims(claims), nil
}

// ExtractText extracts claims from plain text. Plain text carries no sources.
func (e *ClaimExtractor) ExtractText(text string) []model.Claim {
	var claims []model.Claim
	for _, para := range strings.Split(text, "\n\n") {
		for _, sentence := range e.splitSentences(para) {
			if c, ok := e.claim(sentence, len(claims)); ok {
				claims = append(claims, c)
			}
		}
	}
	return dedupeClaims(claims)
}

func (e *ClaimExtractor) claim(sentence string, index int) (model.Claim, bool) {
	var heuristic string
	switch {
	case heuristics.IsUnknown(sentence):
		heuristic = HeuristicUncertain
	case heuristics.IsAssumption(sentence):
		heuristic = HeuristicAssumption
	default:
		return model.Claim{}, false
	}
	return model.Claim{Text: sentence, Heuristic: heuristic, Sentence: index}, true
}

// splitSentences splits text on terminators followed by whitespace and
// drops sentences outside the length bounds
func (e *ClaimExtractor) splitSentences(text string) []string {
	text = strings.Join(strings.Fields(text), " ")

	var sentences []string
	var current strings.Builder

	keep := func() {
		sentence := strings.TrimSpace(current.String())
		n := utf8.RuneCountInString(sentence)
		if n >= e.minLength && n <= e.maxLength {
			sentences = append(sentences, sentence)
		}
		current.Reset()
	}

	for i, r := range text {
		current.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			// Terminators are ASCII, so i+1 is the next byte
			if i+1 < len(text) && text[i+1] == ' ' {
				keep()
			}
		}
	}
	if current.Len() > 0 {
		keep()
	}

	return sentences
}

// dedupeClaims removes duplicate claims, ignoring case
func dedupeClaims(claims []model.Claim) []model.Claim {
	seen := make(map[string]bool)
	var unique []model.Claim

	for _, claim := range claims {
		key := strings.ToLower(strings.TrimSpace(claim.Text))
		if !seen[key] {
			seen[key] = true
			unique = append(unique, claim)
		}
	}

	return unique
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return strings.TrimSpace(a.Val)
		}
	}
	return ""
}
