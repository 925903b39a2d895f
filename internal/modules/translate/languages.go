package translate

import "strings"

// Priority languages are well tested end to end; extended ones ride on the
// engine's broader model coverage.
var priorityLanguages = map[string]string{
	"en": "English",
	"zh": "Chinese (Simplified)",
	"ja": "Japanese",
	"ko": "Korean",
	"es": "Spanish",
	"fr": "French",
	"de": "German",
	"pt": "Portuguese",
	"ru": "Russian",
	"ar": "Arabic",
}

var extendedLanguages = map[string]string{
	"it": "Italian",
	"nl": "Dutch",
	"pl": "Polish",
	"tr": "Turkish",
	"vi": "Vietnamese",
	"th": "Thai",
	"id": "Indonesian",
	"hi": "Hindi",
	"uk": "Ukrainian",
	"cs": "Czech",
	"el": "Greek",
	"he": "Hebrew",
	"sv": "Swedish",
	"da": "Danish",
	"fi": "Finnish",
	"no": "Norwegian",
}

var languageAliases = map[string]string{
	"zh-cn":   "zh",
	"zh-hans": "zh",
	"zh-tw":   "zh",
	"zh-hant": "zh",
	"pt-br":   "pt",
	"pt-pt":   "pt",
}

// NormalizeLanguage lowercases, resolves aliases and validates a language
// code against the supported set.
func NormalizeLanguage(code string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(code))
	if alias, ok := languageAliases[normalized]; ok {
		normalized = alias
	}
	if _, ok := priorityLanguages[normalized]; ok {
		return normalized, nil
	}
	if _, ok := extendedLanguages[normalized]; ok {
		return normalized, nil
	}
	return "", &InvalidLanguageError{Lang: code}
}
