package domain

// Language selects the response language for composed messages.
type Language string

const (
	LanguageEN Language = "EN"
	LanguageFR Language = "FR"
)

// ParseLanguage normalizes a language tag, defaulting to English.
func ParseLanguage(tag string) Language {
	if Language(tag) == LanguageFR || tag == "fr" || tag == "FR" {
		return LanguageFR
	}
	return LanguageEN
}
