package normalize

import (
	"regexp"
	"strings"

	"github.com/oukeidos/maintrans/internal/record"
	"github.com/rivo/uniseg"
)

// placeholderPatterns match values carrying no usable content. They are
// evaluated against the trimmed value.
var placeholderPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^\s*$`),
	regexp.MustCompile(`^\d+$`),
	regexp.MustCompile(`^[!@#$%^&*(),.?":{}|<>]+$`),
	regexp.MustCompile(`(?i)^(nan|na)$`),
	regexp.MustCompile(`(?i)^n/a\s*-\s*n/a$`),
	regexp.MustCompile(`^\.\s*-\s*\.$`),
	regexp.MustCompile(`####`),
	regexp.MustCompile(`#NAME\?`),
	regexp.MustCompile(`^-+$`),
}

// minRepeatRun is the shortest run of one repeated character treated as filler.
const minRepeatRun = 4

// IsPlaceholder reports whether v is empty, filler or a spreadsheet artefact.
func IsPlaceholder(v string) bool {
	s := strings.TrimSpace(record.Clean(v))
	for _, re := range placeholderPatterns {
		if re.MatchString(s) {
			return true
		}
	}
	return isRepeatedRun(s)
}

// CleanPlaceholder returns "" for placeholders and the trimmed value otherwise.
func CleanPlaceholder(v string) string {
	if IsPlaceholder(v) {
		return ""
	}
	return strings.TrimSpace(v)
}

// isRepeatedRun reports whether s is a single grapheme repeated at least
// minRepeatRun times, e.g. "aaaa" or "xxxxxx".
func isRepeatedRun(s string) bool {
	if s == "" {
		return false
	}
	var first string
	count := 0
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		c := g.Str()
		if count == 0 {
			first = c
		} else if c != first {
			return false
		}
		count++
	}
	return count >= minRepeatRun
}
