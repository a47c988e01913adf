// ABOUTME: ContextBuilder assembles bounded-length prompt context for the chat provider
// ABOUTME: Combines site identity, relevant content, journey stage, business and temporal facts
package core

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/harper/sitechat/internal/models"
)

// relevantContentLimit caps how many content items feed the context
const relevantContentLimit = 3

// ContentSearcher finds content relevant to a message
type ContentSearcher interface {
	SimilarContent(ctx context.Context, queryText string, limit int, contextText string) ([]models.ScoredContent, error)
}

// BuilderConfig holds the static site identity and budget for context assembly
type BuilderConfig struct {
	SiteName        string
	SiteURL         string
	SiteDescription string
	SiteContact     string
	SiteLanguage    string
	MaxLength       int // combined context budget in characters (default 4000)

	// BusinessFacts is a fixed set of named configuration values
	// (hours, location, shipping policy...) included only when present.
	BusinessFacts map[string]string
}

// ContextBuilder produces the single context string passed to the provider
type ContextBuilder struct {
	searcher ContentSearcher
	cfg      BuilderConfig
	now      func() time.Time
}

// NewContextBuilder creates a ContextBuilder. A nil searcher skips the
// relevant-content section.
func NewContextBuilder(searcher ContentSearcher, cfg BuilderConfig) *ContextBuilder {
	if cfg.MaxLength <= 0 {
		cfg.MaxLength = 4000
	}
	return &ContextBuilder{searcher: searcher, cfg: cfg, now: time.Now}
}

// journeyStage is one detected stage of the visitor journey
type journeyStage struct {
	name        string
	intent      string
	keywords    []string
	instruction string
}

// journeyStages is the declarative stage-detection table, checked in order
var journeyStages = []journeyStage{
	{
		name:        "decision",
		intent:      "purchase",
		keywords:    []string{"buy", "price", "cost", "purchase", "order", "discount", "quote", "pricing", "checkout"},
		instruction: "The visitor is ready to act. Give concrete pricing or purchasing guidance and a clear next step.",
	},
	{
		name:        "support",
		intent:      "assistance",
		keywords:    []string{"help", "problem", "issue", "error", "broken", "fix", "trouble", "support"},
		instruction: "The visitor needs help. Acknowledge the issue and give specific troubleshooting steps or escalation options.",
	},
	{
		name:        "consideration",
		intent:      "evaluation",
		keywords:    []string{"compare", "versus", "alternative", "review", "feature", "option", "difference", "better"},
		instruction: "The visitor is evaluating options. Highlight differentiators and address comparison points directly.",
	},
	{
		name:        "retention",
		intent:      "account",
		keywords:    []string{"account", "renewal", "upgrade", "cancel", "subscription", "billing", "plan"},
		instruction: "The visitor is an existing customer. Be precise about account actions and preserve the relationship.",
	},
	{
		name:        "awareness",
		intent:      "discovery",
		keywords:    []string{"what", "learn", "about", "information", "guide", "explain", "overview"},
		instruction: "The visitor is exploring. Introduce the relevant offering clearly without pushing a sale.",
	},
}

// businessFactOrder fixes the inclusion order of known business facts
var businessFactOrder = []string{
	"hours", "location", "phone", "email", "pricing", "shipping", "returns", "warranty",
}

// Build assembles the prompt context for a message. history carries the
// session's recent turns as User:/AI: lines and doubles as the blend text
// for content retrieval. Sections are computed independently, then
// concatenated in priority order and trimmed to budget.
func (b *ContextBuilder) Build(ctx context.Context, message, history string) string {
	var sections []models.ContextSection

	if identity := b.identitySection(); identity != "" {
		sections = append(sections, models.ContextSection{Label: "identity", Text: identity, Priority: true})
	}

	if content := b.relevantContentSection(ctx, message, history); content != "" {
		sections = append(sections, models.ContextSection{Label: "content", Text: content, Priority: true})
	}

	if history != "" {
		sections = append(sections, models.ContextSection{Label: "history", Text: "CONVERSATION HISTORY:\n" + history + "\n"})
	}

	if stage := b.journeySection(message); stage != "" {
		sections = append(sections, models.ContextSection{Label: "journey", Text: stage})
	}

	if facts := b.businessFactsSection(); facts != "" {
		sections = append(sections, models.ContextSection{Label: "business", Text: facts})
	}

	sections = append(sections, models.ContextSection{Label: "temporal", Text: b.temporalSection()})

	return b.assemble(sections)
}

// identitySection formats the static website identity block
func (b *ContextBuilder) identitySection() string {
	if b.cfg.SiteName == "" && b.cfg.SiteURL == "" && b.cfg.SiteDescription == "" {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("WEBSITE INFORMATION:\n")
	if b.cfg.SiteName != "" {
		sb.WriteString(fmt.Sprintf("Name: %s\n", b.cfg.SiteName))
	}
	if b.cfg.SiteURL != "" {
		sb.WriteString(fmt.Sprintf("URL: %s\n", b.cfg.SiteURL))
	}
	if b.cfg.SiteDescription != "" {
		sb.WriteString(fmt.Sprintf("Description: %s\n", b.cfg.SiteDescription))
	}
	if b.cfg.SiteContact != "" {
		sb.WriteString(fmt.Sprintf("Contact: %s\n", b.cfg.SiteContact))
	}
	if b.cfg.SiteLanguage != "" {
		sb.WriteString(fmt.Sprintf("Language: %s\n", b.cfg.SiteLanguage))
	}
	return sb.String()
}

// relevantContentSection retrieves up to three matching content items,
// each already excerpted around its densest keyword window
func (b *ContextBuilder) relevantContentSection(ctx context.Context, message, history string) string {
	if b.searcher == nil {
		return ""
	}

	results, err := b.searcher.SimilarContent(ctx, message, relevantContentLimit, history)
	if err != nil || len(results) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("RELEVANT WEBSITE CONTENT:\n")
	for _, result := range results {
		sb.WriteString(fmt.Sprintf("- %s: %s (%s)\n", result.Item.Title, result.Excerpt, result.Item.URL))
	}
	return sb.String()
}

// journeySection detects the visitor's journey stage from keyword rules
func (b *ContextBuilder) journeySection(message string) string {
	lower := strings.ToLower(message)

	var best *journeyStage
	bestHits := 0
	for i := range journeyStages {
		hits := 0
		for _, kw := range journeyStages[i].keywords {
			if strings.Contains(lower, kw) {
				hits++
			}
		}
		if hits > bestHits {
			bestHits = hits
			best = &journeyStages[i]
		}
	}

	if best == nil {
		return ""
	}

	return fmt.Sprintf("VISITOR JOURNEY:\nStage: %s\nLikely intent: %s\nGuidance: %s\n",
		best.name, best.intent, best.instruction)
}

// businessFactsSection includes configured business facts in fixed order
func (b *ContextBuilder) businessFactsSection() string {
	if len(b.cfg.BusinessFacts) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("BUSINESS FACTS:\n")
	written := false
	for _, key := range businessFactOrder {
		if value, ok := b.cfg.BusinessFacts[key]; ok && value != "" {
			sb.WriteString(fmt.Sprintf("%s: %s\n", capitalize(key), value))
			written = true
		}
	}
	if !written {
		return ""
	}
	return sb.String()
}

// temporalSection formats current date, time, day of week, and season
func (b *ContextBuilder) temporalSection() string {
	now := b.now()
	return fmt.Sprintf("CURRENT TIME:\nDate: %s\nTime: %s\nDay: %s\nSeason: %s\n",
		now.Format("2006-01-02"), now.Format("15:04"), now.Weekday(), season(now.Month()))
}

// assemble joins sections under budget: priority sections always kept,
// others appended in original order only while the total stays under the
// limit. Sections are never partially cut.
func (b *ContextBuilder) assemble(sections []models.ContextSection) string {
	var parts []string
	total := 0

	for _, section := range sections {
		if section.Priority {
			parts = append(parts, section.Text)
			total += len(section.Text) + 1
		}
	}

	for _, section := range sections {
		if section.Priority {
			continue
		}
		if total+len(section.Text)+1 > b.cfg.MaxLength {
			break
		}
		parts = append(parts, section.Text)
		total += len(section.Text) + 1
	}

	return strings.TrimSpace(strings.Join(parts, "\n"))
}

// capitalize upper-cases the first letter of an ASCII word
func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// season maps a month to its northern-hemisphere season
func season(m time.Month) string {
	switch m {
	case time.December, time.January, time.February:
		return "winter"
	case time.March, time.April, time.May:
		return "spring"
	case time.June, time.July, time.August:
		return "summer"
	default:
		return "autumn"
	}
}

