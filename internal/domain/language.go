package domain

import "strings"

// Language is an ISO 639-1 code used for translation.
type Language string

// Supported languages.
const (
	LanguageZulu    Language = "zu"
	LanguageEnglish Language = "en"
)

// Speech locales accepted by the speech and text-to-speech services.
const (
	LocaleZulu      = "zu-ZA"
	LocaleEnglishUS = "en-US"
	LocaleEnglishGB = "en-GB"
)

// SupportedLocales lists the locales the text-to-speech endpoint accepts.
var SupportedLocales = []string{LocaleZulu, LocaleEnglishUS, LocaleEnglishGB}

// IsSupportedLocale reports whether locale is in SupportedLocales.
func IsSupportedLocale(locale string) bool {
	for _, l := range SupportedLocales {
		if l == locale {
			return true
		}
	}
	return false
}

// LanguageOf returns the language part of a locale such as "zu-ZA".
func LanguageOf(locale string) Language {
	lang, _, _ := strings.Cut(locale, "-")
	return Language(strings.ToLower(lang))
}

// VoiceGender selects a synthesized voice.
type VoiceGender string

// Supported voice genders.
const (
	VoiceMale    VoiceGender = "MALE"
	VoiceFemale  VoiceGender = "FEMALE"
	VoiceNeutral VoiceGender = "NEUTRAL"
)

// ParseVoiceGender parses a case-insensitive gender name.
func ParseVoiceGender(s string) (VoiceGender, bool) {
	switch g := VoiceGender(strings.ToUpper(strings.TrimSpace(s))); g {
	case VoiceMale, VoiceFemale, VoiceNeutral:
		return g, true
	default:
		return "", false
	}
}
