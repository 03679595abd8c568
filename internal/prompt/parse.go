package prompt

import (
	"errors"
	"strings"

	"github.com/oukeidos/maintrans/internal/apperrors"
	"github.com/oukeidos/maintrans/internal/logger"
)

// ErrMissingMarkers is returned when a completion does not follow the
// Observation/Solution template.
var ErrMissingMarkers = errors.New("completion is missing the Observation/Solution markers")

// ParseTranslatedText extracts the two fields of a templated completion.
// On a malformed completion it returns two empty strings and a parse error;
// it never panics.
func ParseTranslatedText(text string) (observation, solution string, err error) {
	obs := strings.Index(text, observationMarker)
	if obs < 0 {
		return failParse()
	}
	rest := text[obs+len(observationMarker):]
	sol := strings.Index(rest, solutionMarker)
	if sol < 0 {
		return failParse()
	}
	observation = strings.TrimSpace(rest[:sol])
	solution = strings.TrimSpace(rest[sol+len(solutionMarker):])
	return observation, solution, nil
}

func failParse() (string, string, error) {
	logger.Error("Failed to parse templated completion", "error", ErrMissingMarkers)
	return "", "", apperrors.Parse(ErrMissingMarkers)
}
