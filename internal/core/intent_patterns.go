// ABOUTME: Declarative intent pattern tables loaded at startup
// ABOUTME: Weighted keywords, phrases, and regexes per intent, plus canonical examples
package core

import "regexp"

// IntentPattern defines the weighted matching rules for one intent
type IntentPattern struct {
	Name     string
	Keywords map[string]float64
	Phrases  map[string]float64
	Patterns map[*regexp.Regexp]float64
	// Examples are canonical phrases used for semantic augmentation
	Examples []string
}

// MaxScore returns the maximum possible raw score for this intent
func (p IntentPattern) MaxScore() float64 {
	var total float64
	for _, w := range p.Keywords {
		total += w
	}
	for _, w := range p.Phrases {
		total += w
	}
	for _, w := range p.Patterns {
		total += w
	}
	return total
}

// IntentGeneral is the fallback intent when nothing scores confidently
const IntentGeneral = "general"

// GeneralConfidence is the confidence assigned to the fallback intent
const GeneralConfidence = 0.5

// DefaultIntentPatterns is the static intent configuration. Weights are
// tuned so a direct phrasing of the intent clears the medium sensitivity
// threshold.
var DefaultIntentPatterns = []IntentPattern{
	{
		Name: "greeting",
		Keywords: map[string]float64{
			"hello": 0.9,
			"hi":    0.9,
		},
		Phrases: map[string]float64{
			"good morning": 0.9,
		},
		Patterns: map[*regexp.Regexp]float64{
			regexp.MustCompile(`(?i)^\s*(hi|hello|hey)\b`): 1.0,
		},
		Examples: []string{
			"hello there",
			"hi, I have a question",
			"good morning",
		},
	},
	{
		Name: "pricing",
		Keywords: map[string]float64{
			"price":   0.9,
			"cost":    0.9,
			"pricing": 0.8,
		},
		Phrases: map[string]float64{
			"how much": 1.0,
		},
		Patterns: map[*regexp.Regexp]float64{
			regexp.MustCompile(`(?i)how much (does|is|will|would)`): 1.0,
		},
		Examples: []string{
			"how much does this cost",
			"what is the price of your service",
			"do you have a price list",
		},
	},
	{
		Name: "support",
		Keywords: map[string]float64{
			"help":    0.8,
			"problem": 0.9,
			"issue":   0.9,
			"broken":  0.9,
			"error":   0.9,
		},
		Phrases: map[string]float64{
			"not working": 1.0,
		},
		Patterns: map[*regexp.Regexp]float64{
			regexp.MustCompile(`(?i)(doesn'?t|won'?t|can'?t) (work|load|open|connect)`): 1.0,
		},
		Examples: []string{
			"I need help with a problem",
			"something is broken on my account",
			"the page is not working",
		},
	},
	{
		Name: "contact",
		Keywords: map[string]float64{
			"contact": 0.9,
			"email":   0.7,
			"phone":   0.7,
			"call":    0.7,
		},
		Phrases: map[string]float64{
			"talk to someone":  1.0,
			"speak to a human": 1.0,
		},
		Patterns: map[*regexp.Regexp]float64{
			regexp.MustCompile(`(?i)how (do|can) i (contact|reach)`): 1.0,
		},
		Examples: []string{
			"how can I contact your team",
			"I want to talk to a person",
			"what is your phone number",
		},
	},
	{
		Name: "complaint",
		Keywords: map[string]float64{
			"terrible":     0.9,
			"awful":        0.9,
			"unacceptable": 1.0,
			"frustrated":   0.8,
			"disappointed": 0.8,
			"refund":       0.8,
		},
		Phrases: map[string]float64{
			"worst experience": 1.0,
			"want my money":    1.0,
		},
		Patterns: map[*regexp.Regexp]float64{
			regexp.MustCompile(`(?i)i want (a refund|to complain)`): 1.0,
		},
		Examples: []string{
			"this is unacceptable, I want a refund",
			"I am very disappointed with your service",
			"worst experience I have ever had",
		},
	},
	{
		Name: "product_info",
		Keywords: map[string]float64{
			"features":      0.9,
			"specification": 0.9,
			"specs":         0.8,
			"compatible":    0.8,
		},
		Phrases: map[string]float64{
			"tell me about": 0.9,
			"more details":  0.9,
		},
		Patterns: map[*regexp.Regexp]float64{
			regexp.MustCompile(`(?i)what (features|options) (does|do)`): 1.0,
		},
		Examples: []string{
			"what features does the premium plan have",
			"tell me about your product",
			"is this compatible with my setup",
		},
	},
	{
		Name: "goodbye",
		Keywords: map[string]float64{
			"bye":     0.9,
			"goodbye": 1.0,
			"thanks":  0.6,
		},
		Phrases: map[string]float64{
			"thank you": 0.8,
			"that's all": 0.9,
		},
		Patterns: map[*regexp.Regexp]float64{
			regexp.MustCompile(`(?i)^\s*(bye|goodbye|see you)\b`): 1.0,
		},
		Examples: []string{
			"thanks, goodbye",
			"that's all I needed",
		},
	},
}

// contextBoostTargets maps context substrings to the intent whose score is
// multiplied by the boost factor when already nonzero
var contextBoostTargets = map[string]string{
	"support": "support",
	"pricing": "pricing",
	"cost":    "pricing",
	"contact": "contact",
}

// contextBoostFactor is applied to an intent's raw score on a context hit
const contextBoostFactor = 1.3

// suggestedActions maps intents to follow-up actions surfaced to the widget
var suggestedActions = map[string][]string{
	"pricing":      {"show_pricing", "offer_quote"},
	"support":      {"open_ticket", "show_docs"},
	"contact":      {"show_contact_details"},
	"complaint":    {"escalate_to_human"},
	"product_info": {"show_product_pages"},
	"greeting":     {"offer_assistance"},
}

// emotionBuckets is the keyword table for emotional tone scoring
var emotionBuckets = map[string][]string{
	"positive": {"great", "thanks", "awesome", "love", "excellent", "perfect", "happy", "good", "wonderful"},
	"negative": {"frustrated", "angry", "terrible", "awful", "broken", "bad", "hate", "disappointed", "annoyed", "worst", "useless"},
	"neutral":  {"okay", "fine", "maybe", "perhaps", "alright"},
	"urgent":   {"urgent", "asap", "immediately", "emergency", "critical"},
}

// urgencyIndicators is checked in order before punctuation heuristics
var urgencyIndicators = []struct {
	level string
	terms []string
}{
	{"high", []string{"urgent", "emergency", "immediately", "asap", "critical", "right now"}},
	{"medium", []string{"soon", "today", "quickly", "this week"}},
}
