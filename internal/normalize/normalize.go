package normalize

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/oukeidos/maintrans/internal/language"
	"github.com/oukeidos/maintrans/internal/logger"
	"github.com/oukeidos/maintrans/internal/record"
	"golang.org/x/text/unicode/norm"
)

// folders hold the per-language diacritic folding rules.
var folders = map[language.Code]*strings.Replacer{
	language.French: strings.NewReplacer(
		"’", "'",
		"é", "e", "è", "e", "ê", "e", "ë", "e",
		"à", "a", "â", "a",
		"î", "i", "ï", "i",
		"ô", "o",
		"ù", "u", "û", "u",
	),
	language.Spanish: strings.NewReplacer(
		"á", "a", "é", "e", "í", "i", "ó", "o", "ú", "u", "ñ", "n",
	),
	language.Italian: strings.NewReplacer(
		"à", "a", "è", "e", "é", "e", "ì", "i", "ò", "o", "ù", "u",
	),
	language.Swedish: strings.NewReplacer(
		"å", "a", "ä", "a", "ö", "o",
	),
}

// cyrillicSymbols are kept verbatim in Russian and Kazakh text.
const cyrillicSymbols = `@#$%&/\=_-+~°±№«»“”'"…<>†™®©€₸₽`

func keepCyrillic(r rune) bool {
	switch {
	case unicode.Is(unicode.Cyrillic, r), unicode.Is(unicode.Latin, r):
		return true
	case unicode.IsPunct(r), unicode.IsNumber(r), unicode.IsSpace(r):
		return true
	default:
		return strings.ContainsRune(cyrillicSymbols, r)
	}
}

func filterRunes(s string, keep func(rune) bool) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if keep(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func keepGeneric(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsNumber(r) || unicode.IsSpace(r) || unicode.IsPunct(r)
}

// Text canonicalizes raw for the given language: NFC, language folding,
// removal of symbols and control characters, whitespace collapsing.
// Null-like input becomes "". If any step panics the input is returned as-is.
func Text(raw string, lang language.Code) (out string) {
	defer func() {
		if r := recover(); r != nil {
			logger.Warn("Normalization failed, keeping input", "language", string(lang), "error", fmt.Sprint(r))
			out = raw
		}
	}()
	return apply(raw, lang)
}

func apply(raw string, lang language.Code) string {
	s := record.Clean(raw)
	if s == "" {
		return ""
	}
	s = strings.TrimSpace(norm.NFC.String(s))
	switch lang {
	case language.Russian, language.Kazakh:
		s = filterRunes(s, keepCyrillic)
	default:
		if f, ok := folders[lang]; ok {
			s = f.Replace(s)
		}
	}
	s = filterRunes(s, keepGeneric)
	return strings.Join(strings.Fields(s), " ")
}

// Value runs placeholder rejection followed by Text.
func Value(raw string, lang language.Code) string {
	return Text(CleanPlaceholder(raw), lang)
}

// DropEmptyPrimary removes records whose observation or solution is blank
// and returns the number removed. Surviving ids are renumbered.
func DropEmptyPrimary(t *record.Table) int {
	return t.Retain(func(r *record.Record) bool {
		for _, f := range record.PrimaryFields {
			if record.IsBlank(record.Clean(r.Get(f))) {
				return false
			}
		}
		return true
	})
}
