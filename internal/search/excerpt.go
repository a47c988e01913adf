// ABOUTME: Keyword-density excerpt extraction for search results
// ABOUTME: Picks the body window with the most query keyword hits
package search

import "strings"

// ExcerptWords is the size of the keyword-density window used for content excerpts
const ExcerptWords = 30

// ExcerptAround returns a window of about windowWords words from body
// centered on the region with the highest keyword density. With no
// keyword hits it returns the leading window.
func ExcerptAround(body string, keywords []string, windowWords int) string {
	words := strings.Fields(body)
	if len(words) == 0 {
		return ""
	}
	if len(words) <= windowWords {
		return strings.Join(words, " ")
	}

	keywordSet := make(map[string]bool, len(keywords))
	for _, kw := range keywords {
		keywordSet[kw] = true
	}

	bestStart, bestScore := 0, -1
	for start := 0; start+windowWords <= len(words); start++ {
		score := 0
		for _, word := range words[start : start+windowWords] {
			cleaned := strings.ToLower(strings.Trim(word, ".,!?;:\"'()"))
			if keywordSet[cleaned] {
				score++
			}
		}
		if score > bestScore {
			bestScore = score
			bestStart = start
		}
	}

	excerpt := strings.Join(words[bestStart:bestStart+windowWords], " ")
	if bestStart > 0 {
		excerpt = "..." + excerpt
	}
	if bestStart+windowWords < len(words) {
		excerpt += "..."
	}
	return excerpt
}
