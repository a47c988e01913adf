// ABOUTME: Keyword extraction shared by search fallback and context building
// ABOUTME: Lowercases, strips non-word characters, drops stop words and short tokens
package search

import (
	"regexp"
	"strings"
)

var nonWordPattern = regexp.MustCompile(`[^\w\s]`)

// stopWords is the fixed English stop-word list dropped during extraction
var stopWords = map[string]bool{
	"the": true, "and": true, "are": true, "for": true, "was": true,
	"were": true, "been": true, "have": true, "has": true, "had": true,
	"this": true, "that": true, "these": true, "those": true, "with": true,
	"from": true, "they": true, "them": true, "their": true, "there": true,
	"what": true, "when": true, "where": true, "which": true, "who": true,
	"how": true, "why": true, "can": true, "could": true, "would": true,
	"should": true, "will": true, "does": true, "did": true, "but": true,
	"not": true, "you": true, "your": true, "our": true, "about": true,
	"into": true, "more": true, "some": true, "any": true, "all": true,
	"get": true,
}

// Keywords extracts meaningful lowercase terms from text: non-word
// characters stripped, whitespace-split, stop words and tokens of two or
// fewer characters dropped.
func Keywords(text string) []string {
	cleaned := nonWordPattern.ReplaceAllString(strings.ToLower(text), " ")

	var keywords []string
	for _, word := range strings.Fields(cleaned) {
		if len(word) <= 2 {
			continue
		}
		if stopWords[word] {
			continue
		}
		keywords = append(keywords, word)
	}

	return keywords
}
