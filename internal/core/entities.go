// ABOUTME: Entity extraction from chat messages via regex rules
// ABOUTME: Finds emails, phones, URLs, dates, potential names, and product mentions
package core

import (
	"regexp"
	"strings"

	"github.com/harper/sitechat/internal/models"
)

var (
	emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)

	// Four literal phone formats: (555) 123-4567, 555-123-4567,
	// 555.123.4567, +44 7911123456
	phonePatterns = []*regexp.Regexp{
		regexp.MustCompile(`\(\d{3}\)\s?\d{3}-\d{4}`),
		regexp.MustCompile(`\b\d{3}-\d{3}-\d{4}\b`),
		regexp.MustCompile(`\b\d{3}\.\d{3}\.\d{4}\b`),
		regexp.MustCompile(`\+\d{1,3}\s?\d{6,12}\b`),
	}

	urlPattern = regexp.MustCompile(`https?://[^\s"')>]+`)

	// Three date/day shapes: numeric slashed, ISO, named days and relatives
	datePatterns = []*regexp.Regexp{
		regexp.MustCompile(`\b\d{1,2}/\d{1,2}/\d{2,4}\b`),
		regexp.MustCompile(`\b\d{4}-\d{2}-\d{2}\b`),
		regexp.MustCompile(`(?i)\b(monday|tuesday|wednesday|thursday|friday|saturday|sunday|today|tomorrow|yesterday)\b`),
	}

	statedNamePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i:my name is) ([A-Z][a-z]+(?: [A-Z][a-z]+)?)`),
		regexp.MustCompile(`(?i:i'?m) ([A-Z][a-z]+)\b`),
		regexp.MustCompile(`(?i:call me) ([A-Z][a-z]+)\b`),
	}

	// Consecutive capitalized words away from sentence starts
	capitalizedPairPattern = regexp.MustCompile(`\b([A-Z][a-z]+ [A-Z][a-z]+)\b`)
)

// defaultProductVocabulary is matched as whole lowercase words
var defaultProductVocabulary = []string{
	"plan", "subscription", "license", "premium", "basic", "pro", "enterprise", "trial",
}

// ExtractEntities pulls structured data out of a message
func ExtractEntities(message string, productVocabulary []string) models.Entities {
	if productVocabulary == nil {
		productVocabulary = defaultProductVocabulary
	}

	entities := models.Entities{
		Emails: emailPattern.FindAllString(message, -1),
		URLs:   urlPattern.FindAllString(message, -1),
	}

	for _, pattern := range phonePatterns {
		entities.Phones = append(entities.Phones, pattern.FindAllString(message, -1)...)
	}

	for _, pattern := range datePatterns {
		entities.Dates = append(entities.Dates, pattern.FindAllString(message, -1)...)
	}

	entities.Names = extractNames(message)

	lowerWords := map[string]bool{}
	for _, word := range strings.Fields(strings.ToLower(message)) {
		lowerWords[strings.Trim(word, ".,!?;:\"'()")] = true
	}
	for _, product := range productVocabulary {
		if lowerWords[product] {
			entities.Products = append(entities.Products, product)
		}
	}

	return entities
}

// extractNames applies stated-name patterns first, then the
// capitalized-pair heuristic excluding sentence-leading pairs
func extractNames(message string) []string {
	seen := map[string]bool{}
	var names []string

	add := func(name string) {
		name = strings.TrimSpace(name)
		if name == "" || seen[name] {
			return
		}
		seen[name] = true
		names = append(names, name)
	}

	for _, pattern := range statedNamePatterns {
		for _, match := range pattern.FindAllStringSubmatch(message, -1) {
			add(match[1])
		}
	}

	for _, loc := range capitalizedPairPattern.FindAllStringIndex(message, -1) {
		// Skip pairs at the start of the message or right after
		// sentence punctuation; those are usually sentence case.
		if loc[0] == 0 {
			continue
		}
		prefix := strings.TrimRight(message[:loc[0]], " ")
		if strings.HasSuffix(prefix, ".") || strings.HasSuffix(prefix, "!") || strings.HasSuffix(prefix, "?") {
			continue
		}
		add(message[loc[0]:loc[1]])
	}

	return names
}
