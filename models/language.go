package models

import "strings"

// Language is a reply language of the symptom checker.
type Language struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

var English = Language{Name: "English", Code: "en"}

// Languages lists the supported reply languages.
var Languages = []Language{
	English,
	{Name: "Hindi", Code: "hi"},
	{Name: "Bengali", Code: "bn"},
	{Name: "Telugu", Code: "te"},
	{Name: "Tamil", Code: "ta"},
	{Name: "Marathi", Code: "mr"},
	{Name: "Gujarati", Code: "gu"},
	{Name: "Kannada", Code: "kn"},
	{Name: "Malayalam", Code: "ml"},
	{Name: "Punjabi", Code: "pa"},
	{Name: "Odia", Code: "or"},
	{Name: "Assamese", Code: "as"},
}

// LookupLanguage accepts a language name or code, case-insensitively.
func LookupLanguage(s string) (Language, bool) {
	s = strings.TrimSpace(s)
	for _, l := range Languages {
		if strings.EqualFold(l.Name, s) || strings.EqualFold(l.Code, s) {
			return l, true
		}
	}
	return Language{}, false
}

// scripts maps Unicode blocks to the language they most likely carry.
// Devanagari is shared by Hindi and Marathi and resolves to Hindi.
var scripts = []struct {
	lo, hi rune
	code   string
}{
	{0x0900, 0x097F, "hi"},
	{0x0980, 0x09FF, "bn"},
	{0x0A00, 0x0A7F, "pa"},
	{0x0A80, 0x0AFF, "gu"},
	{0x0B00, 0x0B7F, "or"},
	{0x0B80, 0x0BFF, "ta"},
	{0x0C00, 0x0C7F, "te"},
	{0x0C80, 0x0CFF, "kn"},
	{0x0D00, 0x0D7F, "ml"},
}

// DetectLanguage guesses the language from the script of text, falling
// back to English.
func DetectLanguage(text string) Language {
	for _, r := range text {
		for _, s := range scripts {
			if r >= s.lo && r <= s.hi {
				l, _ := LookupLanguage(s.code)
				return l
			}
		}
	}
	return English
}
