package language

import (
	"sort"
	"strings"
)

// Code is a record language. The set is closed; anything not listed is Unknown.
type Code string

const (
	English Code = "en"
	French  Code = "fr"
	Italian Code = "it"
	Kazakh  Code = "kk"
	Russian Code = "ru"
	Spanish Code = "es"
	Swedish Code = "sv"
	Unknown Code = "unknown"
)

// Language describes a supported source language.
type Language struct {
	Code Code
	Name string
}

// Languages maps each supported code to its display name.
var Languages = map[Code]Language{
	English: {Code: English, Name: "English"},
	French:  {Code: French, Name: "French"},
	Italian: {Code: Italian, Name: "Italian"},
	Kazakh:  {Code: Kazakh, Name: "Kazakh"},
	Russian: {Code: Russian, Name: "Russian"},
	Spanish: {Code: Spanish, Name: "Spanish"},
	Swedish: {Code: Swedish, Name: "Swedish"},
}

// aliases covers spellings seen in source tables that are neither a code
// nor a lower-cased English name.
var aliases = map[string]Code{
	"rus":     Russian,
	"eng":     English,
	"fra":     French,
	"fre":     French,
	"ita":     Italian,
	"kaz":     Kazakh,
	"spa":     Spanish,
	"esp":     Spanish,
	"swe":     Swedish,
	"svenska": Swedish,
}

// Name returns the display name, or "Unknown" for codes outside the set.
func (c Code) Name() string {
	if lang, ok := Languages[c]; ok {
		return lang.Name
	}
	return "Unknown"
}

// IsEnglish reports whether c is English.
func (c Code) IsEnglish() bool { return c == English }

// FromCode performs a strict code lookup. Values outside the set map to Unknown.
func FromCode(s string) Code {
	c := Code(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := Languages[c]; ok {
		return c
	}
	return Unknown
}

// Parse resolves a free-form language value (code, English name or known
// alias, any case). It returns Unknown and false when nothing matches.
func Parse(s string) (Code, bool) {
	key := strings.ToLower(strings.TrimSpace(s))
	if key == "" {
		return Unknown, false
	}
	if c := Code(key); Languages[c].Code != "" {
		return c, true
	}
	for code, lang := range Languages {
		if strings.ToLower(lang.Name) == key {
			return code, true
		}
	}
	if c, ok := aliases[key]; ok {
		return c, true
	}
	return Unknown, false
}

// Supported returns the supported languages sorted by name.
func Supported() []Language {
	out := make([]Language, 0, len(Languages))
	for _, lang := range Languages {
		out = append(out, lang)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
