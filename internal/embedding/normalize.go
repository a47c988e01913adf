// ABOUTME: Text normalization and content-hash helpers for embedding keys
// ABOUTME: Strips markup, collapses whitespace, caps length, hashes with sha256
package embedding

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"
)

// MaxNormalizedChars caps normalized text before it is hashed or embedded
const MaxNormalizedChars = 8000

var (
	tagPattern        = regexp.MustCompile(`<[^>]*>`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// Normalize prepares text for embedding: strips markup, collapses
// whitespace, trims, and caps length. Identical inputs always normalize
// to identical outputs so the hash is a stable cache key.
func Normalize(text string) string {
	text = tagPattern.ReplaceAllString(text, " ")
	text = whitespacePattern.ReplaceAllString(text, " ")
	text = strings.TrimSpace(text)

	if runes := []rune(text); len(runes) > MaxNormalizedChars {
		text = strings.TrimSpace(string(runes[:MaxNormalizedChars]))
	}

	return text
}

// HashText returns the sha256 hex digest of normalized text
func HashText(normalized string) string {
	sum := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(sum[:])
}
