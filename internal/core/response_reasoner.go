// ABOUTME: ResponseReasoner transforms draft replies through a fixed six-stage pipeline
// ABOUTME: Augments, restructures, personalizes, suggests, completes, and validates
package core

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/harper/sitechat/internal/search"
)

// Final length bounds enforced by the quality stage
const (
	MinResponseLength     = 20
	MaxResponseLength     = 1000
	CondensedMaxLength    = 800
	condensedMaxSentences = 4
)

// qualityFloor is the score below which the fallback opener is prepended
const qualityFloor = 0.7

// ResponseReasoner post-processes draft responses. Every stage is
// defensive: on unexpected input it returns its input unchanged, so the
// reasoner never fails a request.
type ResponseReasoner struct{}

// NewResponseReasoner creates a ResponseReasoner
func NewResponseReasoner() *ResponseReasoner {
	return &ResponseReasoner{}
}

// Refine runs the full pipeline over a draft response.
// contextStr is the same free-text context handed to the provider.
func (r *ResponseReasoner) Refine(response, message, contextStr string) string {
	insights := extractContextInsights(contextStr)

	response = r.reformatStructure(response, message)
	response = r.personalize(response, message)
	response = r.addSuggestion(response, message)
	response = r.ensureCompleteness(response, message, insights)
	response = r.validateQuality(response, message)

	return response
}

// contextInsights is the information stage one extracts from the free-text
// context for later stages to weave in
type contextInsights struct {
	historyTurns []string
	businessInfo []string
	temporal     []string
}

var (
	historyLinePattern   = regexp.MustCompile(`(?m)^(User|AI|Visitor|Bot): (.+)$`)
	businessBlockPattern = regexp.MustCompile(`(?s)BUSINESS FACTS:\n(.*?)(\n\n|\z)`)
	temporalBlockPattern = regexp.MustCompile(`(?s)CURRENT TIME:\n(.*?)(\n\n|\z)`)
)

// extractContextInsights sections the context string with simple regexes
func extractContextInsights(contextStr string) contextInsights {
	var insights contextInsights
	if contextStr == "" {
		return insights
	}

	for _, match := range historyLinePattern.FindAllStringSubmatch(contextStr, -1) {
		insights.historyTurns = append(insights.historyTurns, match[2])
	}

	if match := businessBlockPattern.FindStringSubmatch(contextStr); match != nil {
		for _, line := range strings.Split(strings.TrimSpace(match[1]), "\n") {
			if line = strings.TrimSpace(line); line != "" {
				insights.businessInfo = append(insights.businessInfo, line)
			}
		}
	}

	if match := temporalBlockPattern.FindStringSubmatch(contextStr); match != nil {
		for _, line := range strings.Split(strings.TrimSpace(match[1]), "\n") {
			if line = strings.TrimSpace(line); line != "" {
				insights.temporal = append(insights.temporal, line)
			}
		}
	}

	return insights
}

// messageType classifies the user message, not the response
type messageType string

const (
	messageQuestion  messageType = "question"
	messageProblem   messageType = "problem"
	messageRequest   messageType = "request"
	messageComplaint messageType = "complaint"
	messageGeneral   messageType = "general"
)

var (
	questionLeadPattern = regexp.MustCompile(`(?i)^(what|how|when|where|why|who|which|is|are|do|does|can|could|will|would)\b`)
	requestLeadPattern  = regexp.MustCompile(`(?i)^(please|can you|could you|i need|i want|i would like)`)
)

var (
	problemTerms   = []string{"problem", "issue", "broken", "error", "not working", "doesn't work", "won't", "fails"}
	complaintTerms = []string{"terrible", "awful", "unacceptable", "refund", "disappointed", "worst", "complaint"}
)

// classifyMessage determines the message shape for structural reformatting
func classifyMessage(message string) messageType {
	lower := strings.ToLower(message)

	for _, term := range complaintTerms {
		if strings.Contains(lower, term) {
			return messageComplaint
		}
	}
	for _, term := range problemTerms {
		if strings.Contains(lower, term) {
			return messageProblem
		}
	}
	if requestLeadPattern.MatchString(strings.TrimSpace(message)) {
		return messageRequest
	}
	if strings.Contains(message, "?") || questionLeadPattern.MatchString(strings.TrimSpace(message)) {
		return messageQuestion
	}
	return messageGeneral
}

var directAnswerLeads = []string{
	"yes", "no", "sure", "certainly", "absolutely", "to answer", "the ", "it ", "we ", "you can", "our ",
}

// hasDirectAnswerLead reports whether a response already opens with a
// direct answer
func hasDirectAnswerLead(response string) bool {
	lower := strings.ToLower(strings.TrimSpace(response))
	for _, lead := range directAnswerLeads {
		if strings.HasPrefix(lower, lead) {
			return true
		}
	}
	return false
}

// reformatStructure applies a structure template chosen by message type
func (r *ResponseReasoner) reformatStructure(response, message string) string {
	if response == "" || message == "" {
		return response
	}

	switch classifyMessage(message) {
	case messageQuestion:
		if !hasDirectAnswerLead(response) {
			response = "To answer your question: " + lowerFirst(response)
		}
	case messageProblem:
		response = stepify(response)
		if !strings.HasPrefix(response, "I understand") {
			response = "I understand something isn't working as expected. " + response
		}
		if !strings.Contains(response, "resolve") {
			response = strings.TrimRight(response, " ") + " Does this resolve the issue for you?"
		}
	case messageRequest:
		if !strings.HasPrefix(strings.ToLower(response), "happy to help") {
			response = "Happy to help with that. " + response
		}
	case messageComplaint:
		if !strings.Contains(strings.ToLower(response), "sorry") {
			response = "I'm sorry about the experience you've had. " + response
		}
	}

	return response
}

// stepify renumbers a multi-sentence fix into explicit steps
func stepify(response string) string {
	sentences := splitSentences(response)
	if len(sentences) < 3 || len(sentences) > 6 {
		return response
	}

	var sb strings.Builder
	sb.WriteString("Here's what to try:")
	for i, sentence := range sentences {
		sb.WriteString(" ")
		sb.WriteString(numberedStep(i+1, sentence))
	}
	return sb.String()
}

func numberedStep(n int, sentence string) string {
	return strconv.Itoa(n) + ". " + strings.TrimSpace(sentence)
}

// tone detected from the user's message
type tone string

const (
	toneFormal     tone = "formal"
	toneCasual     tone = "casual"
	toneUrgent     tone = "urgent"
	toneEmpathetic tone = "empathetic"
	toneNeutral    tone = "neutral"
)

var (
	formalTerms     = []string{"dear", "regards", "sincerely", "kindly", "would you please"}
	casualTerms     = []string{"hey", "yeah", "cool", "thanks!", "btw", "lol"}
	empatheticTerms = []string{"worried", "concerned", "anxious", "upset", "stressed"}
)

// detectTone classifies the user's tone via keyword and punctuation rules
func detectTone(message string) tone {
	lower := strings.ToLower(message)

	for _, term := range empatheticTerms {
		if strings.Contains(lower, term) {
			return toneEmpathetic
		}
	}
	if strings.Count(message, "!") > 1 || containsAny(lower, []string{"urgent", "asap", "immediately"}) {
		return toneUrgent
	}
	for _, term := range formalTerms {
		if strings.Contains(lower, term) {
			return toneFormal
		}
	}
	for _, term := range casualTerms {
		if strings.Contains(lower, term) {
			return toneCasual
		}
	}
	return toneNeutral
}

// contractions expanded for formal tone; reversed for casual
var contractionPairs = [][2]string{
	{"don't", "do not"},
	{"can't", "cannot"},
	{"won't", "will not"},
	{"it's", "it is"},
	{"we're", "we are"},
	{"you're", "you are"},
	{"I'll", "I will"},
	{"we'll", "we will"},
}

// technicalTerms counted for expertise detection
var technicalTerms = []string{
	"api", "integration", "ssl", "dns", "configuration", "database",
	"webhook", "endpoint", "authentication", "server", "plugin", "cache",
}

// jargon simplifications applied for beginner-level users
var jargonPairs = [][2]string{
	{"authenticate", "log in"},
	{"configure", "set up"},
	{"initialize", "start"},
	{"utilize", "use"},
	{"terminate", "stop"},
}

// personalize prefixes a stated name and matches tone and expertise level
func (r *ResponseReasoner) personalize(response, message string) string {
	if response == "" || message == "" {
		return response
	}

	if name := statedName(message); name != "" && !strings.HasPrefix(response, name) {
		response = name + ", " + lowerFirst(response)
	}

	switch detectTone(message) {
	case toneFormal:
		for _, pair := range contractionPairs {
			response = strings.ReplaceAll(response, pair[0], pair[1])
		}
	case toneCasual:
		for _, pair := range contractionPairs {
			response = strings.ReplaceAll(response, pair[1], pair[0])
		}
	case toneEmpathetic:
		if !strings.Contains(strings.ToLower(response), "understand") {
			response = "I completely understand your concern. " + response
		}
	case toneUrgent:
		if !strings.HasPrefix(response, "Right away") {
			response = "Right away. " + response
		}
	}

	// Expertise: simplify jargon for beginners, preserve it otherwise
	techHits := 0
	lowerMessage := strings.ToLower(message)
	for _, term := range technicalTerms {
		if strings.Contains(lowerMessage, term) {
			techHits++
		}
	}
	if techHits == 0 {
		for _, pair := range jargonPairs {
			response = strings.ReplaceAll(response, pair[0], pair[1])
		}
	}

	return response
}

// statedName extracts a user-stated name from the message
func statedName(message string) string {
	for _, pattern := range statedNamePatterns {
		if match := pattern.FindStringSubmatch(message); match != nil {
			return match[1]
		}
	}
	return ""
}

// suggestion lines appended by stage four, keyed by message shape
const (
	suggestionQuestion = "Is there anything else you'd like to know?"
	suggestionProblem  = "If the issue persists, let me know and I can help further."
	suggestionContact  = "You can also reach our team directly if you prefer."
	suggestionGeneric  = "Let me know if there's anything else I can do for you."
)

// addSuggestion appends one contextual suggestion chosen by message shape
func (r *ResponseReasoner) addSuggestion(response, message string) string {
	if response == "" || message == "" {
		return response
	}

	// Don't stack suggestions on a response that already asks one
	for _, existing := range []string{suggestionQuestion, suggestionProblem, suggestionContact, suggestionGeneric, "resolve the issue"} {
		if strings.Contains(response, existing) {
			return response
		}
	}

	lower := strings.ToLower(message)
	var suggestion string
	switch {
	case strings.Contains(message, "?"):
		suggestion = suggestionQuestion
	case containsAny(lower, problemTerms):
		suggestion = suggestionProblem
	case strings.Contains(lower, "contact"):
		suggestion = suggestionContact
	default:
		suggestion = suggestionGeneric
	}

	return strings.TrimRight(response, " ") + " " + suggestion
}

// Boilerplate fill-ins appended when specific elements are missing
const (
	pricingFallback = "For detailed pricing, please contact us and we'll put together a quote for you."
	timingFallback  = "Exact timing can vary, so please reach out for a specific estimate."
)

var (
	priceMentionTerms = []string{"price", "cost", "pricing", "how much"}
	priceAnswerTerms  = []string{"$", "price", "cost", "free", "quote", "pricing"}
	timeMentionTerms  = []string{"when", "how long", "timeline", "deadline"}
	timeAnswerTerms   = []string{"day", "week", "hour", "month", "minute", "soon", "timing", "estimate"}
)

// whAnswerPatterns maps wh-question openers to words an answer should contain
var whAnswerPatterns = map[string][]string{
	"how much": priceAnswerTerms,
	"when":     timeAnswerTerms,
	"where":    {"at", "located", "address", "online", "page"},
}

// ensureCompleteness checks the response actually addresses the message
// and appends boilerplate fill-ins for detected gaps
func (r *ResponseReasoner) ensureCompleteness(response, message string, insights contextInsights) string {
	if response == "" || message == "" {
		return response
	}

	lowerMessage := strings.ToLower(message)
	lowerResponse := strings.ToLower(response)

	if !meetsCompletenessBar(lowerResponse, lowerMessage) && !hasDirectAnswerLead(response) {
		response = "Let me address that directly. " + response
		lowerResponse = strings.ToLower(response)
	}

	if containsAny(lowerMessage, priceMentionTerms) && !containsAny(lowerResponse, priceAnswerTerms) {
		fill := pricingFallback
		// Weave in a configured contact detail when the context carries one
		for _, line := range insights.businessInfo {
			if strings.HasPrefix(strings.ToLower(line), "phone:") || strings.HasPrefix(strings.ToLower(line), "email:") {
				fill = pricingFallback + " (" + line + ")"
				break
			}
		}
		response = strings.TrimRight(response, " ") + " " + fill
	}

	if containsAny(lowerMessage, timeMentionTerms) && !containsAny(strings.ToLower(response), timeAnswerTerms) {
		response = strings.TrimRight(response, " ") + " " + timingFallback
	}

	return ensureTerminalPunctuation(response)
}

// meetsCompletenessBar checks keyword overlap, or answer-pattern words for
// explicit wh-questions
func meetsCompletenessBar(lowerResponse, lowerMessage string) bool {
	for opener, answerTerms := range whAnswerPatterns {
		if strings.Contains(lowerMessage, opener) {
			return containsAny(lowerResponse, answerTerms)
		}
	}

	messageKeywords := search.Keywords(lowerMessage)
	if len(messageKeywords) == 0 {
		return true
	}

	hits := 0
	for _, keyword := range messageKeywords {
		if strings.Contains(lowerResponse, keyword) {
			hits++
		}
	}
	return float64(hits)/float64(len(messageKeywords)) >= 0.2
}

// helpfulness indicator words counted by the quality scorer
var helpfulnessTerms = []string{
	"help", "can", "will", "recommend", "suggest", "provide", "offer", "please", "happy",
}

// validateQuality scores the response and enforces the final length bounds
func (r *ResponseReasoner) validateQuality(response, message string) string {
	if response == "" {
		return r.expand(response)
	}

	if score := qualityScore(response, message); score < qualityFloor {
		if !strings.HasPrefix(response, "I'd be happy to help") {
			response = "I'd be happy to help you with that. " + lowerFirst(response)
		}
	}

	if len(response) < MinResponseLength {
		return r.expand(response)
	}
	if len(response) > MaxResponseLength {
		return r.condense(response)
	}
	return ensureTerminalPunctuation(response)
}

// qualityScore computes the weighted 0-1 score: length 20, relevance 30,
// helpfulness 25, clarity 15, completeness 10 (points out of 100)
func qualityScore(response, message string) float64 {
	points := 0.0

	if len(response) >= MinResponseLength && len(response) <= MaxResponseLength {
		points += 20
	}

	lowerResponse := strings.ToLower(response)
	messageKeywords := search.Keywords(message)
	if len(messageKeywords) == 0 {
		points += 30
	} else {
		hits := 0
		for _, keyword := range messageKeywords {
			if strings.Contains(lowerResponse, keyword) {
				hits++
			}
		}
		points += 30 * float64(hits) / float64(len(messageKeywords))
	}

	helpHits := 0
	for _, term := range helpfulnessTerms {
		if strings.Contains(lowerResponse, term) {
			helpHits++
		}
	}
	if helpHits > 3 {
		helpHits = 3
	}
	points += 25 * float64(helpHits) / 3

	points += 15 * clarityFactor(response)

	if strings.HasSuffix(strings.TrimSpace(response), ".") ||
		strings.HasSuffix(strings.TrimSpace(response), "!") ||
		strings.HasSuffix(strings.TrimSpace(response), "?") {
		points += 10
	}

	return points / 100
}

// clarityFactor scores sentence length and word variety heuristics in [0,1]
func clarityFactor(response string) float64 {
	sentences := splitSentences(response)
	words := strings.Fields(response)
	if len(sentences) == 0 || len(words) == 0 {
		return 0
	}

	factor := 1.0

	avgSentenceWords := float64(len(words)) / float64(len(sentences))
	if avgSentenceWords > 25 {
		factor -= 0.5
	}

	unique := map[string]bool{}
	for _, word := range words {
		unique[strings.ToLower(word)] = true
	}
	if float64(len(unique))/float64(len(words)) < 0.5 {
		factor -= 0.5
	}

	if factor < 0 {
		factor = 0
	}
	return factor
}

// expand pads responses under the minimum with a thank-you wrapper
func (r *ResponseReasoner) expand(response string) string {
	response = strings.TrimSpace(response)
	if response == "" {
		return "Thank you for reaching out! Is there anything else I can help you with?"
	}
	return ensureTerminalPunctuation("Thank you for reaching out! " + response + " Is there anything else I can help you with?")
}

// condense caps responses over the maximum at four sentences, hard-truncating
// with an ellipsis if still too long
func (r *ResponseReasoner) condense(response string) string {
	sentences := splitSentences(response)
	if len(sentences) > condensedMaxSentences {
		sentences = sentences[:condensedMaxSentences]
	}
	condensed := strings.TrimSpace(strings.Join(sentences, " "))

	if runes := []rune(condensed); len(runes) > CondensedMaxLength {
		condensed = strings.TrimSpace(string(runes[:CondensedMaxLength-3])) + "..."
	}

	return ensureTerminalPunctuation(condensed)
}

// splitSentences splits text on terminal punctuation, keeping the punctuation
func splitSentences(text string) []string {
	var sentences []string
	var current strings.Builder

	for _, r := range text {
		current.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			if s := strings.TrimSpace(current.String()); s != "" {
				sentences = append(sentences, s)
			}
			current.Reset()
		}
	}
	if s := strings.TrimSpace(current.String()); s != "" {
		sentences = append(sentences, s)
	}

	return sentences
}

// ensureTerminalPunctuation appends a period when the response ends bare
func ensureTerminalPunctuation(response string) string {
	trimmed := strings.TrimRight(response, " ")
	if trimmed == "" {
		return trimmed
	}
	last := trimmed[len(trimmed)-1]
	if last == '.' || last == '!' || last == '?' {
		return trimmed
	}
	return trimmed + "."
}

// lowerFirst lower-cases the first letter unless the text starts with "I "
func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	if strings.HasPrefix(s, "I ") || strings.HasPrefix(s, "I'") {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

// containsAny reports whether s contains any of the terms
func containsAny(s string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(s, term) {
			return true
		}
	}
	return false
}

