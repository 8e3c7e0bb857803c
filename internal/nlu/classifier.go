package nlu

import (
	"regexp"

	"github.com/spec-kit/hr-intake/internal/domain"
)

// classifierRule pairs a lexical predicate with its category. Rules are
// evaluated in priority order; the first match wins.
type classifierRule struct {
	pattern  *regexp.Regexp
	category domain.IntentCategory
}

// Cues cover English and French phrasings. Order matters when an
// utterance triggers more than one lexical family (e.g. "2 hours sick").
// The congé alternative carries no trailing boundary: \b is ASCII-only
// and never asserts after an accented letter.
var classifierRules = []classifierRule{
	{regexp.MustCompile(`(?i)\b(sick|malade|ill|unwell)\b|\bcong[ée]`), domain.IntentSickLeave},
	{regexp.MustCompile(`(?i)overtime|heures sup|\bot\b|extra hours|\d+\s*h(?:ours?)?\b`), domain.IntentOvertimeRequest},
	{regexp.MustCompile(`(?i)training|formation|reschedule`), domain.IntentTrainingReschedule},
	{regexp.MustCompile(`(?i)balance|solde|remaining|how many|\bleft\b`), domain.IntentBalanceQuery},
}

// Classify maps free text to an intent category. ok is false when no
// lexical family matches; the caller must route to the fallback.
func Classify(text string) (domain.IntentCategory, bool) {
	for _, rule := range classifierRules {
		if rule.pattern.MatchString(text) {
			return rule.category, true
		}
	}
	return "", false
}
