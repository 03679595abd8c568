package prompt

import (
	"fmt"
	"strings"

	"github.com/oukeidos/maintrans/internal/language"
)

// Mode selects how a record's fields are turned into prompts.
type Mode string

const (
	// ModeBasic sends one prompt per field.
	ModeBasic Mode = "basic"
	// ModeTechnical sends observation and solution together in one templated prompt.
	ModeTechnical Mode = "technical"
)

// ParseMode validates a mode name. The empty string selects ModeBasic.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeBasic:
		return ModeBasic, nil
	case ModeTechnical:
		return ModeTechnical, nil
	default:
		return "", fmt.Errorf("unknown prompt mode %q (want %q or %q)", s, ModeBasic, ModeTechnical)
	}
}

const basicTemplate = `You are an expert language translator. Your task is to precisely translate the given text from %s to English. Please adhere to the following guidelines:
1. Deliver only the translation without any additional commentary or explanations. Do not preamble.
2. Ensure the translation is accurate and avoid generating any false or fabricated information. Clean the data by removing any Unicode and special characters.
3. If the input text is empty, respond with an empty string.
4. Do not add any punctuation.
5. Ensure that the translated text maintains the meaning and context of the original text.

Translate the following text: '%s'`

// Basic builds the single-field prompt for text written in lang.
func Basic(lang language.Code, text string) string {
	return fmt.Sprintf(basicTemplate, lang.Name(), text)
}
